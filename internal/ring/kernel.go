/*
 * Copyright 2025 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package ring is kio's Linux completion engine: a thin, direct binding to
// io_uring's submission/completion ring buffers, plus the Awaitable Cell
// and operation façade adapters built on top of it. Requires Linux 5.4+
// (IORING_FEAT_SINGLE_MMAP).
package ring

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"syscall"
	"unsafe"
)

// Opcodes for the operations kio submits. Most of this list mirrors what
// the kernel ABI defines; IORING_OP_OPENAT is not used anywhere else in
// this codebase's ancestry and is added here for Block's open operation.
const (
	IORING_OP_NOP             = 0
	IORING_OP_READV           = 1
	IORING_OP_WRITEV          = 2
	IORING_OP_FSYNC           = 3
	IORING_OP_READ_FIXED      = 4
	IORING_OP_WRITE_FIXED     = 5
	IORING_OP_POLL_ADD        = 6
	IORING_OP_POLL_REMOVE     = 7
	IORING_OP_SYNC_FILE_RANGE = 8
	IORING_OP_SENDMSG         = 9
	IORING_OP_RECVMSG         = 10
	IORING_OP_TIMEOUT         = 11
	IORING_OP_ACCEPT          = 13
	IORING_OP_ASYNC_CANCEL    = 14
	IORING_OP_LINK_TIMEOUT    = 15
	IORING_OP_CONNECT         = 16
	IORING_OP_OPENAT          = 18
	IORING_OP_CLOSE           = 19
	IORING_OP_READ            = 22
	IORING_OP_WRITE           = 23
	IORING_OP_SEND            = 26
	IORING_OP_RECV            = 27
)

const (
	IORING_SETUP_IOPOLL = 1 << 0
	IORING_SETUP_SQPOLL = 1 << 1
	IORING_SETUP_SQ_AFF = 1 << 2
	IORING_SETUP_CQSIZE = 1 << 3
	IORING_SETUP_CLAMP  = 1 << 4
)

const (
	IORING_FEAT_SINGLE_MMAP = 1 << 0
)

const (
	IORING_ENTER_GETEVENTS = 1 << 0
	IORING_ENTER_SQ_WAKEUP = 1 << 1
)

// IoUringParams is the io_uring_params argument to io_uring_setup.
type IoUringParams struct {
	SqEntries    uint32
	CqEntries    uint32
	Flags        uint32
	SqThreadCpu  uint32
	SqThreadIdle uint32
	Features     uint32
	WqFd         uint32
	Resv         [3]uint32
	SqOff        IoSqringOffsets
	CqOff        IoCqringOffsets
}

type IoSqringOffsets struct {
	Head        uint32
	Tail        uint32
	RingMask    uint32
	RingEntries uint32
	Flags       uint32
	Dropped     uint32
	Array       uint32
	Resv1       uint32
	Resv2       uint64
}

type IoCqringOffsets struct {
	Head        uint32
	Tail        uint32
	RingMask    uint32
	RingEntries uint32
	Overflow    uint32
	Cqes        uint32
	Flags       uint64
	Resv1       uint32
	Resv2       uint64
}

// KernelRing owns the mmap'd submission/completion rings for one io_uring
// instance. kio keeps exactly one of these per process (see Engine).
type KernelRing struct {
	fd      int
	params  IoUringParams
	sq      submissionQueue
	cq      completionQueue
	sqeMem  []byte
	ringMem []byte
}

type submissionQueue struct {
	head        *uint32
	tail        *uint32
	ringMask    uint32
	ringEntries uint32
	flags       *uint32
	dropped     *uint32
	array       *uint32
	sqes        []SQE
}

type completionQueue struct {
	head        *uint32
	tail        *uint32
	ringMask    uint32
	ringEntries uint32
	overflow    *uint32
	cqes        []CQE
}

// NewKernelRing sets up a new io_uring instance with the given submission
// queue depth (rounded up by the kernel to a power of two).
func NewKernelRing(entries uint32) (*KernelRing, error) {
	params := IoUringParams{}
	fd, err := ioUringSetup(entries, &params)
	if err != nil {
		return nil, fmt.Errorf("ring: io_uring_setup failed: %w", err)
	}

	if params.Features&IORING_FEAT_SINGLE_MMAP == 0 {
		syscall.Close(fd)
		return nil, fmt.Errorf("ring: kernel missing IORING_FEAT_SINGLE_MMAP (need Linux 5.4+)")
	}

	r := &KernelRing{fd: fd, params: params}
	pageSize := uint32(syscall.Getpagesize())

	sqRingSize := params.SqOff.Array + params.SqEntries*uint32(unsafe.Sizeof(uint32(0)))
	cqRingSize := params.CqOff.Cqes + params.CqEntries*uint32(unsafe.Sizeof(CQE{}))
	ringSize := sqRingSize
	if cqRingSize > ringSize {
		ringSize = cqRingSize
	}
	ringSize = (ringSize + pageSize - 1) &^ (pageSize - 1)

	ringPtr, err := syscall.Mmap(fd, 0, int(ringSize),
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED|syscall.MAP_POPULATE)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("ring: mmap ring failed: %w", err)
	}
	r.ringMem = ringPtr

	sqeSize := params.SqEntries * uint32(unsafe.Sizeof(SQE{}))
	sqePtr, err := syscall.Mmap(fd, int64(0x10000000), int(sqeSize),
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED|syscall.MAP_POPULATE)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("ring: mmap sqe failed: %w", err)
	}
	r.sqeMem = sqePtr

	r.sq.head = (*uint32)(unsafe.Pointer(&r.ringMem[params.SqOff.Head]))
	r.sq.tail = (*uint32)(unsafe.Pointer(&r.ringMem[params.SqOff.Tail]))
	r.sq.ringMask = *(*uint32)(unsafe.Pointer(&r.ringMem[params.SqOff.RingMask]))
	r.sq.ringEntries = *(*uint32)(unsafe.Pointer(&r.ringMem[params.SqOff.RingEntries]))
	r.sq.flags = (*uint32)(unsafe.Pointer(&r.ringMem[params.SqOff.Flags]))
	r.sq.dropped = (*uint32)(unsafe.Pointer(&r.ringMem[params.SqOff.Dropped]))
	r.sq.array = (*uint32)(unsafe.Pointer(&r.ringMem[params.SqOff.Array]))
	r.sq.sqes = (*[0x10000]SQE)(unsafe.Pointer(&r.sqeMem[0]))[:params.SqEntries]

	r.cq.head = (*uint32)(unsafe.Pointer(&r.ringMem[params.CqOff.Head]))
	r.cq.tail = (*uint32)(unsafe.Pointer(&r.ringMem[params.CqOff.Tail]))
	r.cq.ringMask = *(*uint32)(unsafe.Pointer(&r.ringMem[params.CqOff.RingMask]))
	r.cq.ringEntries = *(*uint32)(unsafe.Pointer(&r.ringMem[params.CqOff.RingEntries]))
	r.cq.overflow = (*uint32)(unsafe.Pointer(&r.ringMem[params.CqOff.Overflow]))
	cqesPtr := unsafe.Pointer(&r.ringMem[params.CqOff.Cqes])
	r.cq.cqes = (*[0x10000]CQE)(cqesPtr)[:params.CqEntries]

	runtime.SetFinalizer(r, func(r *KernelRing) { r.Close() })
	return r, nil
}

// PeekSQE returns a submission slot for the caller to fill, or nil if the
// ring is full. AdvanceSQ must be called after filling it.
func (r *KernelRing) PeekSQE() *SQE {
	q := &r.sq
	tail := atomic.LoadUint32(q.tail)
	head := atomic.LoadUint32(q.head)
	if tail-head >= q.ringEntries {
		return nil
	}
	sqe := &q.sqes[tail&q.ringMask]
	*sqe = SQE{}

	idx := tail & q.ringMask
	arrayPtr := (*uint32)(unsafe.Pointer(uintptr(unsafe.Pointer(q.array)) + uintptr(idx)*4))
	*arrayPtr = idx
	return sqe
}

// AdvanceSQ makes the most recently peeked SQE visible to the kernel.
func (r *KernelRing) AdvanceSQ() {
	atomic.AddUint32(r.sq.tail, 1)
}

func (r *KernelRing) pendingSQEs() uint32 {
	return atomic.LoadUint32(r.sq.tail) - atomic.LoadUint32(r.sq.head)
}

// Submit calls io_uring_enter to hand queued SQEs to the kernel.
func (r *KernelRing) Submit() (int, syscall.Errno) {
	toSubmit := r.pendingSQEs()
	if toSubmit == 0 {
		return 0, 0
	}
	for {
		submitted, errno := ioUringEnter(r.fd, toSubmit, 0, 0)
		if errno == syscall.EINTR {
			continue
		}
		return submitted, errno
	}
}

// WaitCQE blocks until at least one completion is available. It does not
// advance the completion head; call AdvanceCQ once the CQE is consumed.
func (r *KernelRing) WaitCQE() (*CQE, error) {
	q := &r.cq
	head := atomic.LoadUint32(q.head)
	tail := atomic.LoadUint32(q.tail)
	for head == tail {
		_, errno := ioUringEnter(r.fd, 0, 1, IORING_ENTER_GETEVENTS)
		if errno == syscall.EINTR || errno == syscall.EAGAIN {
			runtime.Gosched()
			tail = atomic.LoadUint32(q.tail)
			continue
		}
		if errno != 0 {
			return nil, errno
		}
		tail = atomic.LoadUint32(q.tail)
	}
	return &q.cqes[head&q.ringMask], nil
}

// AdvanceCQ frees the oldest completion slot.
func (r *KernelRing) AdvanceCQ() {
	atomic.AddUint32(r.cq.head, 1)
}

// Close unmaps the rings and closes the io_uring file descriptor.
func (r *KernelRing) Close() error {
	if r == nil {
		return nil
	}
	runtime.SetFinalizer(r, nil)
	var firstErr error
	if r.ringMem != nil {
		if err := syscall.Munmap(r.ringMem); err != nil && firstErr == nil {
			firstErr = err
		}
		r.ringMem = nil
	}
	if r.sqeMem != nil {
		if err := syscall.Munmap(r.sqeMem); err != nil && firstErr == nil {
			firstErr = err
		}
		r.sqeMem = nil
	}
	if r.fd >= 0 {
		if err := syscall.Close(r.fd); err != nil && firstErr == nil {
			firstErr = err
		}
		r.fd = -1
	}
	return firstErr
}
