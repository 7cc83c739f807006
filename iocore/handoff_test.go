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
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHandoffReleaseBeforeSuspend covers the race where the kernel (or, in
// the IOCP case, an immediate synchronous completion) delivers the result
// before the caller ever records how to resume. Suspend must report "no
// need to wait" and Ready must already be true.
func TestHandoffReleaseBeforeSuspend(t *testing.T) {
	var h Handoff
	h.Release()
	assert.True(t, h.Ready())

	var ran atomic.Bool
	waited := h.Suspend(func() { ran.Store(true) }, nil)
	assert.False(t, waited)
}

// TestHandoffSuspendBeforeRelease covers the ordinary path: the caller
// parks first, then the reaper delivers.
func TestHandoffSuspendBeforeRelease(t *testing.T) {
	var h Handoff
	done := make(chan struct{})
	waited := h.Suspend(func() { close(done) }, nil)
	assert.True(t, waited)
	assert.False(t, h.Ready())

	go h.Release()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("resume never ran")
	}
	assert.True(t, h.Ready())
}

// TestHandoffResumesExactlyOnce exercises property 2 from the spec: under
// concurrent Suspend/Release, the waiter is resumed exactly once — by the
// thunk when Suspend won the race and parked, or by Suspend returning false
// (with the thunk never run) when Release got there first.
func TestHandoffResumesExactlyOnce(t *testing.T) {
	for i := 0; i < 200; i++ {
		var h Handoff
		var resumes atomic.Int32
		var waited bool
		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			waited = h.Suspend(func() { resumes.Add(1) }, nil)
		}()
		go func() {
			defer wg.Done()
			h.Release()
		}()
		wg.Wait()

		assert.LessOrEqual(t, resumes.Load(), int32(1))
		if waited {
			assert.Equal(t, int32(1), resumes.Load())
		} else {
			assert.Equal(t, int32(0), resumes.Load())
		}
		assert.True(t, h.Ready())
	}
}

type fakeExecutor struct {
	mu    sync.Mutex
	queue []ResumeFunc
}

func (f *fakeExecutor) Enqueue(r ResumeFunc) {
	f.mu.Lock()
	f.queue = append(f.queue, r)
	f.mu.Unlock()
}

func (f *fakeExecutor) drain() {
	f.mu.Lock()
	q := f.queue
	f.queue = nil
	f.mu.Unlock()
	for _, r := range q {
		r()
	}
}

func TestAwaitUsesCapturedExecutor(t *testing.T) {
	exec := &fakeExecutor{}
	ctx := WithExecutor(context.Background(), exec)

	got, ok := ExecutorFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, exec, got)

	var h Handoff
	resultCh := make(chan int, 1)
	go func() {
		v := Await(ctx, &h, func() int { return 7 })
		resultCh <- v
	}()

	// give the goroutine time to reach Suspend before releasing.
	time.Sleep(10 * time.Millisecond)
	h.Release()

	// the resume thunk should land on the executor, not run inline.
	time.Sleep(10 * time.Millisecond)
	select {
	case <-resultCh:
		t.Fatal("Await returned before the captured executor ran the resume thunk")
	default:
	}

	exec.drain()
	select {
	case v := <-resultCh:
		assert.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("Await never returned after executor drained")
	}
}

func TestAwaitFastPath(t *testing.T) {
	var h Handoff
	h.Release()
	v := Await(context.Background(), &h, func() string { return "done" })
	assert.Equal(t, "done", v)
}
