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
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleClosesExactlyOnce(t *testing.T) {
	var closes atomic.Int32
	h := NewHandle(42, func(v int) error {
		closes.Add(1)
		assert.Equal(t, 42, v)
		return nil
	})

	assert.Equal(t, 42, h.Value())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, h.Close())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), closes.Load())
}

func TestHandleCloseReturnsStoredError(t *testing.T) {
	sentinel := assert.AnError
	h := NewHandle(struct{}{}, func(struct{}) error { return sentinel })

	assert.Equal(t, sentinel, h.Close())
	// every subsequent call returns the same error, not nil.
	assert.Equal(t, sentinel, h.Close())
}
