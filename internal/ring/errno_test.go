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
	"testing"

	"golang.org/x/sys/unix"

	"github.com/stretchr/testify/assert"

	"github.com/kls-project/kio/status"
)

// TestMapResultProperty covers spec property 1: map_result(n) with n >= 0
// is (OK, n); with n < 0, status == map_error(-n) and no count is exposed.
func TestMapResultProperty(t *testing.T) {
	res := MapResult(13)
	assert.True(t, res.OK())
	assert.Equal(t, int32(13), res.Count())

	res = MapResult(0)
	assert.True(t, res.OK())
	assert.Equal(t, int32(0), res.Count())

	res = MapResult(-int32(unix.ENOENT))
	assert.False(t, res.OK())
	assert.Equal(t, status.ENOENT, res.Status())
	assert.Equal(t, int32(0), res.Count())
}

func TestMapErrorUnknownFallsThrough(t *testing.T) {
	assert.Equal(t, status.UNKNOWN, MapError(999999))
}

func TestMapErrorCoversCommonCodes(t *testing.T) {
	cases := map[unix.Errno]status.Status{
		unix.ECONNRESET:  status.ECONNRESET,
		unix.ECONNREFUSED: status.ECONNREFUSED,
		unix.EEXIST:      status.EEXIST,
		unix.EBADF:       status.EBADF,
		unix.EPIPE:       status.EPIPE,
	}
	for errno, want := range cases {
		assert.Equal(t, want, MapError(errno))
	}
}
