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
	"runtime"
	"sync"

	"github.com/kls-project/kio/iocore"
	"github.com/kls-project/kio/internal/xlog"
)

// queueDepth is the submission queue depth for the process-wide ring. The
// kernel rounds this up to a power of two.
const queueDepth = 4096

// Engine is kio's process-wide Linux Completion Engine: one KernelRing, a
// spinlock serializing submission (the ring itself is not safe for
// concurrent producers), and a single dedicated reaper goroutine draining
// completions and releasing their Awaitable Cells.
type Engine struct {
	r    *KernelRing
	lock iocore.SpinLock
}

var (
	engineOnce sync.Once
	engineInst *Engine
	engineErr  error
)

// Get returns the process-wide Engine, creating it (and starting its
// reaper goroutine) on first use.
func Get() (*Engine, error) {
	engineOnce.Do(func() {
		r, err := NewKernelRing(queueDepth)
		if err != nil {
			engineErr = err
			return
		}
		e := &Engine{r: r}
		go e.reap()
		engineInst = e
	})
	return engineInst, engineErr
}

// submit hands one SQE to the kernel under the submission lock. fill
// populates every field except UserData, which submit always sets to the
// cell's own address so the reaper can find its way back.
func (e *Engine) submit(c *cell, fill func(sqe *SQE)) {
	e.lock.Lock()
	defer e.lock.Unlock()

	sqe := e.r.PeekSQE()
	for sqe == nil {
		runtime.Gosched()
		sqe = e.r.PeekSQE()
	}
	fill(sqe)
	sqe.UserData = c.userData()
	e.r.AdvanceSQ()

	if _, errno := e.r.Submit(); errno != 0 {
		xlog.Warnf("ring: io_uring_enter failed: %v", errno)
	}
}

// reap is the single dedicated completion-draining goroutine. It never
// runs client continuations itself — deliver/Release hands those off to
// whatever Executor the waiting goroutine captured, or resumes inline only
// when none was captured.
func (e *Engine) reap() {
	for {
		cqe, err := e.r.WaitCQE()
		if err != nil {
			xlog.Errorf("ring: reaper stopping: %v", err)
			return
		}
		userData, res := cqe.UserData, cqe.Res
		e.r.AdvanceCQ()
		if userData != 0 {
			cellFromUserData(userData).deliver(res)
		}
	}
}
