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

//go:build windows

package iocp

import (
	"testing"

	"golang.org/x/sys/windows"

	"github.com/stretchr/testify/assert"

	"github.com/kls-project/kio/status"
)

// TestMapResultProperty covers spec property 1 on the port platform: sys
// == 0 is (OK, transferred); a nonzero sys maps through MapError and
// exposes no count.
func TestMapResultProperty(t *testing.T) {
	res := MapResult(0, 13)
	assert.True(t, res.OK())
	assert.Equal(t, int32(13), res.Count())

	res = MapResult(uint32(windows.ERROR_FILE_NOT_FOUND), 0)
	assert.False(t, res.OK())
	assert.Equal(t, status.ENOENT, res.Status())
	assert.Equal(t, int32(0), res.Count())
}

func TestMapErrorElevationAndAccessVariants(t *testing.T) {
	assert.Equal(t, status.EACCES, MapError(uint32(windows.ERROR_NOACCESS)))
	assert.Equal(t, status.EACCES, MapError(uint32(windows.WSAEACCES)))
	assert.Equal(t, status.EACCES, MapError(elevationRequired))
	assert.Equal(t, status.OK, MapError(0))
}

func TestMapErrorUnknownFallsThrough(t *testing.T) {
	assert.Equal(t, status.UNKNOWN, MapError(0xFFFFFFF0))
}
