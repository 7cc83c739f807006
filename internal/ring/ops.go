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

package ring

import (
	"context"
	"runtime"
	"unsafe"

	"github.com/kls-project/kio/iocore"
	"github.com/kls-project/kio/status"
)

// Each op below is the ring half of one kio façade operation: pull a
// heap-resident cell from the pool, build and submit an SQE against it
// (and, where the opcode needs more than the SQE's own fields, against the
// cell's own scratch storage), then park on its handoff until the reaper
// delivers the CQE. Ordinary I/O buffers are supplied by the caller and
// kept alive simply by staying in scope as locals of the calling goroutine,
// which does not return until the await resolves; anything the op itself
// must stage (a path, an iovec array, a msghdr) lives on the cell instead
// of as a separate local, so it shares the cell's heap residency.

func await(ctx context.Context, c *cell, fill func(*SQE)) error {
	e, err := Get()
	if err != nil {
		return err
	}
	e.submit(c, fill)
	iocore.Await(ctx, &c.Handoff, func() struct{} { return struct{}{} })
	return nil
}

// Open submits IORING_OP_OPENAT. On success the IOResult's count is the
// new file descriptor.
func Open(ctx context.Context, dirfd int32, path string, osFlags uint32, mode uint32) (status.IOResult, error) {
	c := getCell()
	defer putCell(c)
	c.path = append(append(c.path[:0], path...), 0)
	if err := await(ctx, c, func(sqe *SQE) {
		sqe.Opcode = IORING_OP_OPENAT
		sqe.Fd = dirfd
		sqe.Addr = uint64(uintptr(unsafe.Pointer(&c.path[0])))
		sqe.Len = mode
		sqe.OpcodeFlags = osFlags
	}); err != nil {
		return status.IOResult{}, err
	}
	res := c.ioResult()
	runtime.KeepAlive(c)
	return res, nil
}

func Read(ctx context.Context, fd int32, buf []byte, offset uint64) (status.IOResult, error) {
	c := getCell()
	defer putCell(c)
	if err := await(ctx, c, func(sqe *SQE) {
		sqe.Opcode = IORING_OP_READ
		sqe.Fd = fd
		sqe.Off = offset
		sqe.Len = uint32(len(buf))
		if len(buf) > 0 {
			sqe.Addr = uint64(uintptr(unsafe.Pointer(&buf[0])))
		}
	}); err != nil {
		return status.IOResult{}, err
	}
	res := c.ioResult()
	runtime.KeepAlive(c)
	return res, nil
}

func Write(ctx context.Context, fd int32, buf []byte, offset uint64) (status.IOResult, error) {
	c := getCell()
	defer putCell(c)
	if err := await(ctx, c, func(sqe *SQE) {
		sqe.Opcode = IORING_OP_WRITE
		sqe.Fd = fd
		sqe.Off = offset
		sqe.Len = uint32(len(buf))
		if len(buf) > 0 {
			sqe.Addr = uint64(uintptr(unsafe.Pointer(&buf[0])))
		}
	}); err != nil {
		return status.IOResult{}, err
	}
	res := c.ioResult()
	runtime.KeepAlive(c)
	return res, nil
}

// IORING_FSYNC_DATASYNC, mirrored from the kernel UAPI header.
const fsyncDatasync = 1 << 0

func Fsync(ctx context.Context, fd int32) (status.Status, error) {
	c := getCell()
	defer putCell(c)
	if err := await(ctx, c, func(sqe *SQE) {
		sqe.Opcode = IORING_OP_FSYNC
		sqe.Fd = fd
		sqe.OpcodeFlags = fsyncDatasync
	}); err != nil {
		return status.UNKNOWN, err
	}
	res := c.statusOnly()
	runtime.KeepAlive(c)
	return res, nil
}

func Close(ctx context.Context, fd int32) (status.Status, error) {
	c := getCell()
	defer putCell(c)
	if err := await(ctx, c, func(sqe *SQE) {
		sqe.Opcode = IORING_OP_CLOSE
		sqe.Fd = fd
	}); err != nil {
		return status.UNKNOWN, err
	}
	res := c.statusOnly()
	runtime.KeepAlive(c)
	return res, nil
}

func Send(ctx context.Context, fd int32, buf []byte) (status.IOResult, error) {
	c := getCell()
	defer putCell(c)
	if err := await(ctx, c, func(sqe *SQE) {
		sqe.Opcode = IORING_OP_SEND
		sqe.Fd = fd
		sqe.Len = uint32(len(buf))
		if len(buf) > 0 {
			sqe.Addr = uint64(uintptr(unsafe.Pointer(&buf[0])))
		}
	}); err != nil {
		return status.IOResult{}, err
	}
	res := c.ioResult()
	runtime.KeepAlive(c)
	return res, nil
}

func Recv(ctx context.Context, fd int32, buf []byte) (status.IOResult, error) {
	c := getCell()
	defer putCell(c)
	if err := await(ctx, c, func(sqe *SQE) {
		sqe.Opcode = IORING_OP_RECV
		sqe.Fd = fd
		sqe.Len = uint32(len(buf))
		if len(buf) > 0 {
			sqe.Addr = uint64(uintptr(unsafe.Pointer(&buf[0])))
		}
	}); err != nil {
		return status.IOResult{}, err
	}
	res := c.ioResult()
	runtime.KeepAlive(c)
	return res, nil
}

// buildIovecsInto rebuilds iov (reusing its backing array) from bufs,
// skipping zero-length entries the way readv/writev itself would.
func buildIovecsInto(iov []Iovec, bufs [][]byte) []Iovec {
	iov = iov[:0]
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		var v Iovec
		v.Set(b)
		iov = append(iov, v)
	}
	return iov
}

func SendMsg(ctx context.Context, fd int32, bufs [][]byte) (status.IOResult, error) {
	c := getCell()
	defer putCell(c)
	c.iov = buildIovecsInto(c.iov, bufs)
	c.msg = Msghdr{Iovlen: uint64(len(c.iov))}
	if len(c.iov) > 0 {
		c.msg.Iov = &c.iov[0]
	}
	if err := await(ctx, c, func(sqe *SQE) {
		sqe.Opcode = IORING_OP_SENDMSG
		sqe.Fd = fd
		sqe.Addr = uint64(uintptr(unsafe.Pointer(&c.msg)))
		sqe.Len = 1
	}); err != nil {
		return status.IOResult{}, err
	}
	res := c.ioResult()
	runtime.KeepAlive(c)
	return res, nil
}

func RecvMsg(ctx context.Context, fd int32, bufs [][]byte) (status.IOResult, error) {
	c := getCell()
	defer putCell(c)
	c.iov = buildIovecsInto(c.iov, bufs)
	c.msg = Msghdr{Iovlen: uint64(len(c.iov))}
	if len(c.iov) > 0 {
		c.msg.Iov = &c.iov[0]
	}
	if err := await(ctx, c, func(sqe *SQE) {
		sqe.Opcode = IORING_OP_RECVMSG
		sqe.Fd = fd
		sqe.Addr = uint64(uintptr(unsafe.Pointer(&c.msg)))
		sqe.Len = 1
	}); err != nil {
		return status.IOResult{}, err
	}
	res := c.ioResult()
	runtime.KeepAlive(c)
	return res, nil
}

// Accept submits IORING_OP_ACCEPT. addrBuf must be sized for the address
// family being accepted (sockaddr_in or sockaddr_in6); the kernel writes
// the peer address into it and the actual length into the cell's addrLen
// field, whose address — not a separate stack local's — is what the SQE
// points the kernel at.
func Accept(ctx context.Context, fd int32, addrBuf []byte) (status.IOResult, uint32, error) {
	c := getCell()
	defer putCell(c)
	c.addrLen = uint32(len(addrBuf))
	if err := await(ctx, c, func(sqe *SQE) {
		sqe.Opcode = IORING_OP_ACCEPT
		sqe.Fd = fd
		if len(addrBuf) > 0 {
			sqe.Addr = uint64(uintptr(unsafe.Pointer(&addrBuf[0])))
		}
		sqe.Off = uint64(uintptr(unsafe.Pointer(&c.addrLen)))
	}); err != nil {
		return status.IOResult{}, 0, err
	}
	res, addrLen := c.ioResult(), c.addrLen
	runtime.KeepAlive(c)
	return res, addrLen, nil
}

// Connect submits IORING_OP_CONNECT against addrBuf, a raw sockaddr_in or
// sockaddr_in6.
func Connect(ctx context.Context, fd int32, addrBuf []byte) (status.Status, error) {
	c := getCell()
	defer putCell(c)
	if err := await(ctx, c, func(sqe *SQE) {
		sqe.Opcode = IORING_OP_CONNECT
		sqe.Fd = fd
		if len(addrBuf) > 0 {
			sqe.Addr = uint64(uintptr(unsafe.Pointer(&addrBuf[0])))
		}
		sqe.Off = uint64(len(addrBuf))
	}); err != nil {
		return status.UNKNOWN, err
	}
	res := c.statusOnly()
	runtime.KeepAlive(c)
	return res, nil
}
