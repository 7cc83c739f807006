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

package bufpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSockaddr6RoundTrip(t *testing.T) {
	b := GetSockaddr6()
	assert.Len(t, b, SizeSockaddr6)
	PutSockaddr6(b)
}

func TestAcceptExBufRoundTrip(t *testing.T) {
	b := GetAcceptExBuf()
	assert.Len(t, b, SizeAcceptEx)
	PutAcceptExBuf(b)
}

// TestPutWrongSizeIsIgnored ensures a caller that hands back a buffer it
// resliced to a different capacity doesn't corrupt the pool's invariant
// that every buffer it returns is the bucket's exact size.
func TestPutWrongSizeIsIgnored(t *testing.T) {
	wrong := make([]byte, SizeSockaddr6+1)
	PutSockaddr6(wrong) // must not panic, must not get pooled
	b := GetSockaddr6()
	assert.Len(t, b, SizeSockaddr6)
}
