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
	"sync"
	"unsafe"

	"github.com/kls-project/kio/iocore"
	"github.com/kls-project/kio/status"
)

// cellPool hands out heap-resident cells. Taking the address of a local
// `var c cell` and converting it to a uintptr for user_data does not, by
// itself, force the compiler's escape analysis to put c on the heap: the
// uintptr conversion is opaque to it, and a pointer passed to a callee that
// doesn't retain it (the common shape of submit/fill) doesn't either. A
// cell that stays on the calling goroutine's stack can be relocated by a
// stack shrink while that goroutine is parked in iocore.Await, after which
// the kernel and the reaper are both writing through a stale address.
// Routing every cell through this pool sidesteps the question: the pointer
// stored in New's returned interface is what the pool's internal chain
// retains, and that is what actually forces the heap escape, independent
// of anything ops.go does with the cell afterward.
var cellPool = sync.Pool{New: func() any { return &cell{} }}

// getCell returns a zeroed, heap-resident cell ready for one in-flight
// operation.
func getCell() *cell {
	c := cellPool.Get().(*cell)
	c.reset()
	return c
}

// putCell returns a cell to the pool once its result has been fully read
// out. Callers must not touch c afterward.
func putCell(c *cell) {
	cellPool.Put(c)
}

// cell is the ring side of the Awaitable Cell: an iocore.Handoff, the raw
// CQE result, and scratch storage for whatever kernel-visible bytes an
// operation needs parked at the same stable address — the OPENAT path, the
// iovec array and msghdr backing SENDMSG/RECVMSG, the ACCEPT addrlen
// out-param. Keeping those alongside the cell rather than as separate
// stack locals means they share its lifetime and its heap residency
// instead of needing the same escape-analysis argument made about them
// individually. Only a cell obtained from getCell is safe to hand to the
// kernel; a bare &cell{} carries none of that guarantee.
type cell struct {
	iocore.Handoff
	res int32

	path    []byte
	iov     []Iovec
	msg     Msghdr
	addrLen uint32
}

func (c *cell) reset() {
	c.Handoff.Reset()
	c.res = 0
	c.path = c.path[:0]
	c.iov = c.iov[:0]
	c.msg = Msghdr{}
	c.addrLen = 0
}

func (c *cell) userData() uint64 {
	return uint64(uintptr(unsafe.Pointer(c)))
}

func cellFromUserData(p uint64) *cell {
	return (*cell)(unsafe.Pointer(uintptr(p)))
}

// deliver stores the completion result and releases the handoff. Must only
// be called from the reaper goroutine.
func (c *cell) deliver(res int32) {
	c.res = res
	c.Release()
}

func (c *cell) ioResult() status.IOResult { return MapResult(c.res) }

func (c *cell) statusOnly() status.Status {
	if c.res >= 0 {
		return status.OK
	}
	return MapError(errnoFromRes(c.res))
}
