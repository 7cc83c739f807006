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

// Package bufpool provides size-bucketed scratch buffers for the small,
// short-lived allocations the accept hot path otherwise makes on every
// call: the peer sockaddr Acceptor.Once decodes on Linux, and AcceptEx's
// combined local/remote output buffer on Windows. Buffers this small would
// normally not be worth pooling, but accept sits directly on kio's hottest
// path, so the allocation this avoids is one per completed operation.
//
// Unlike a general-purpose byte-slice pool, callers here ask for one of a
// fixed handful of bucket sizes rather than an arbitrary size, since the
// shapes in play (sockaddr_in6, AcceptEx's padded pair) are known in
// advance.
package bufpool

import "sync"

const (
	SizeSockaddr6 = 28 // sockaddr_in6
	SizeAcceptEx  = 88 // AcceptEx's local+remote sockaddr_in6-plus-padding pair
)

var (
	pool6      = sync.Pool{New: func() any { b := make([]byte, SizeSockaddr6); return &b }}
	poolAccept = sync.Pool{New: func() any { b := make([]byte, SizeAcceptEx); return &b }}
)

// GetAcceptExBuf returns a scratch output buffer for AcceptEx.
func GetAcceptExBuf() []byte { return *(poolAccept.Get().(*[]byte)) }

// PutAcceptExBuf returns a buffer obtained from GetAcceptExBuf.
func PutAcceptExBuf(b []byte) {
	if cap(b) != SizeAcceptEx {
		return
	}
	b = b[:SizeAcceptEx]
	poolAccept.Put(&b)
}

// GetSockaddr6 returns a scratch buffer sized for a sockaddr_in6.
func GetSockaddr6() []byte { return *(pool6.Get().(*[]byte)) }

// PutSockaddr6 returns a buffer obtained from GetSockaddr6.
func PutSockaddr6(b []byte) {
	if cap(b) != SizeSockaddr6 {
		return
	}
	b = b[:SizeSockaddr6]
	pool6.Put(&b)
}
