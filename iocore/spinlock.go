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

package iocore

import (
	"runtime"
	"sync/atomic"
)

// SpinLock serializes access to the submission side of a completion
// engine. The ring can only be safely written by one goroutine at a time
// and submissions are expected to be short (peek a slot, fill a few
// fields, ring the doorbell), so a spinlock with a Gosched backoff beats a
// sync.Mutex's syscall-capable parking path here.
type SpinLock struct {
	held atomic.Bool
}

func (s *SpinLock) Lock() {
	for !s.held.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

func (s *SpinLock) Unlock() {
	s.held.Store(false)
}
