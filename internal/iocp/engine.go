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

// Package iocp is kio's Windows completion engine: a thin binding to I/O
// completion ports, plus the Awaitable Cell and operation façade adapters
// built on top of it. It mirrors the shape of internal/ring, but IOCP needs
// no submission-side lock: handles are bound to the port once and every
// subsequent overlapped call is independently safe for concurrent callers,
// so only the reaper side is shared state here.
package iocp

import (
	"sync"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/kls-project/kio/internal/xlog"
)

type syscallErrno = syscall.Errno

// Engine is the process-wide completion port plus its single dedicated
// reaper goroutine.
type Engine struct {
	port windows.Handle
}

var (
	engineOnce sync.Once
	engineInst *Engine
	engineErr  error
)

// Get returns the process-wide Engine, creating the completion port and
// starting its reaper goroutine on first use.
func Get() (*Engine, error) {
	engineOnce.Do(func() {
		port, err := windows.CreateIoCompletionPort(windows.InvalidHandle, 0, 0, 0)
		if err != nil {
			engineErr = err
			return
		}
		e := &Engine{port: port}
		go e.reap()
		engineInst = e
	})
	return engineInst, engineErr
}

// Bind associates a file or socket handle with the engine's completion
// port. Every handle used with the façade's overlapped operations must be
// bound exactly once, immediately after creation.
func (e *Engine) Bind(h windows.Handle) error {
	_, err := windows.CreateIoCompletionPort(h, e.port, 0, 0)
	return err
}

// reap is the single dedicated completion-draining goroutine. A nil
// overlapped with a non-nil error means GetQueuedCompletionStatus itself
// failed (e.g. the port was closed); anything else is a delivered
// completion, successful or not, and is handed to its cell.
func (e *Engine) reap() {
	for {
		var transferred uint32
		var key uintptr
		var ov *windows.Overlapped
		err := windows.GetQueuedCompletionStatus(e.port, &transferred, &key, &ov, windows.INFINITE)
		if ov == nil {
			xlog.Errorf("iocp: reaper stopping: %v", err)
			return
		}
		cellFromOverlapped(ov).deliver(win32CodeOf(err), transferred)
	}
}

// win32CodeOf extracts the raw Win32 error code from an error returned by
// an x/sys/windows call, regardless of whether the concrete type is
// syscall.Errno or windows.Errno (both are used across the package
// depending on which syscall trampoline produced the error).
func win32CodeOf(err error) uint32 {
	if err == nil {
		return 0
	}
	switch e := err.(type) {
	case windows.Errno:
		return uint32(e)
	case syscallErrno:
		return uint32(e)
	default:
		return uint32(windows.ERROR_GEN_FAILURE)
	}
}
