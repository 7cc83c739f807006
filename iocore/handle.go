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

import "sync"

// noCopy lets `go vet -copylocks` flag a Handle that gets copied by value;
// it has no runtime effect beyond that static check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Handle wraps a resource value of type T with a single-shot close
// function. It is the Go rendering of the non-copyable SafeHandle<T> the
// native engines use to guarantee a kernel resource is torn down exactly
// once regardless of how many goroutines observe the wrapper going away.
type Handle[T any] struct {
	_     noCopy
	once  sync.Once
	value T
	closeFn func(T) error
	err   error
}

// NewHandle wraps value; closeFn is invoked exactly once, the first time
// Close is called.
func NewHandle[T any](value T, closeFn func(T) error) *Handle[T] {
	return &Handle[T]{value: value, closeFn: closeFn}
}

// Value returns the wrapped resource. Calling it after Close is the
// caller's bug to avoid, same as in the source design.
func (h *Handle[T]) Value() T { return h.value }

// Close runs the destructor exactly once and returns whatever it returned
// on its one real invocation; subsequent calls are no-ops returning the
// same error.
func (h *Handle[T]) Close() error {
	h.once.Do(func() {
		if h.closeFn != nil {
			h.err = h.closeFn(h.value)
		}
	})
	return h.err
}
