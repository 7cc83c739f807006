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

import "context"

type executorKey struct{}

// WithExecutor attaches an Executor to ctx. Every kio operation started
// with this ctx will, on completion, enqueue its resumption onto e instead
// of running it on the completion engine's reaper goroutine.
func WithExecutor(ctx context.Context, e Executor) context.Context {
	return context.WithValue(ctx, executorKey{}, e)
}

// ExecutorFromContext retrieves the Executor installed by WithExecutor, if
// any.
func ExecutorFromContext(ctx context.Context) (Executor, bool) {
	e, ok := ctx.Value(executorKey{}).(Executor)
	return e, ok
}

// Await is the common blocking entry point used by every façade operation:
// it checks the fast path, and otherwise parks the calling goroutine on a
// channel until Release runs the resume thunk (inline or on a captured
// Executor). materialize reads whatever platform-specific fields the cell
// holds into the caller's result type; it must only be invoked once the
// handoff has fired.
func Await[T any](ctx context.Context, h *Handoff, materialize func() T) T {
	if h.Ready() {
		return materialize()
	}
	done := make(chan struct{})
	exec, _ := ExecutorFromContext(ctx)
	if h.Suspend(func() { close(done) }, exec) {
		<-done
	}
	return materialize()
}
