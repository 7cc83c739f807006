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

package iocp

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/kls-project/kio/iocore"
	"github.com/kls-project/kio/status"
)

// cellPool hands out heap-resident cells, for the same reason internal/ring
// pools its cells: a bare `var c cell` local whose &c.overlapped is handed
// to ReadFile/WSASend/AcceptEx/ConnectEx is not thereby forced onto the
// heap by escape analysis, and the kernel holds that address until long
// after the call returns pending. A cell relocated by a stack shrink while
// its goroutine is parked in iocore.Await means the completion port writes
// the result into memory nothing is reading anymore. Routing every cell
// through this pool — whose New return value is what the pool's internal
// chain retains — is what actually forces the heap residency.
var cellPool = sync.Pool{New: func() any { return &cell{} }}

// getCell returns a zeroed, heap-resident cell ready for one in-flight
// overlapped operation.
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

// cell is the IOCP side of the Awaitable Cell: an iocore.Handoff, the
// OVERLAPPED structure the kernel writes into, the completion fields
// GetQueuedCompletionStatus hands back for it, and scratch WSABuf storage
// for Send/Recv/SendMsg/RecvMsg — those buffer descriptors are themselves
// dereferenced by the stack for as long as the operation is pending, so
// they need the cell's heap residency just as much as overlapped does.
// Only a cell obtained from getCell carries that guarantee.
type cell struct {
	iocore.Handoff
	overlapped  windows.Overlapped
	statusRaw   uint32
	transferred uint32

	wsabuf  windows.WSABuf
	wsabufs []windows.WSABuf
}

func (c *cell) reset() {
	c.Handoff.Reset()
	c.overlapped = windows.Overlapped{}
	c.statusRaw = 0
	c.transferred = 0
	c.wsabuf = windows.WSABuf{}
	c.wsabufs = c.wsabufs[:0]
}

func setOverlappedOffset(o *windows.Overlapped, offset uint64) {
	o.Offset = uint32(offset)
	o.OffsetHigh = uint32(offset >> 32)
}

// cellFromOverlapped recovers the owning *cell from the *windows.Overlapped
// that GetQueuedCompletionStatus reports, via the same container_of pointer
// arithmetic the Windows completion-port APIs are designed around.
func cellFromOverlapped(o *windows.Overlapped) *cell {
	base := uintptr(unsafe.Pointer(o)) - unsafe.Offsetof(cell{}.overlapped)
	return (*cell)(unsafe.Pointer(base))
}

func (c *cell) deliver(sys uint32, transferred uint32) {
	c.statusRaw = sys
	c.transferred = transferred
	c.Release()
}

func (c *cell) ioResult() status.IOResult { return MapResult(c.statusRaw, c.transferred) }

func (c *cell) statusOnly() status.Status { return MapError(c.statusRaw) }
