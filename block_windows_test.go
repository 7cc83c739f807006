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

package kio

import (
	"testing"

	"golang.org/x/sys/windows"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWindowsOpenFlagDispositionTable covers property 5 on the port
// platform: every flag combination resolves to the documented Win32
// access/disposition/share triple.
func TestWindowsOpenFlagDispositionTable(t *testing.T) {
	access, err := windowsAccess(FlagRead)
	require.NoError(t, err)
	assert.Equal(t, uint32(windows.GENERIC_READ), access)

	access, err = windowsAccess(FlagRead | FlagWrite)
	require.NoError(t, err)
	assert.Equal(t, uint32(windows.GENERIC_READ|windows.GENERIC_WRITE), access)

	_, err = windowsAccess(FlagCreat)
	assert.Error(t, err)

	assert.Equal(t, uint32(windows.OPEN_EXISTING), windowsDisposition(0))
	assert.Equal(t, uint32(windows.OPEN_ALWAYS), windowsDisposition(FlagCreat))
	assert.Equal(t, uint32(windows.CREATE_NEW), windowsDisposition(FlagCreat|FlagExcl))
	assert.Equal(t, uint32(windows.TRUNCATE_EXISTING), windowsDisposition(FlagTrunc))
	assert.Equal(t, uint32(windows.CREATE_ALWAYS), windowsDisposition(FlagCreat|FlagTrunc))

	assert.Equal(t, uint32(windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE), windowsShare(0))
	assert.Equal(t, uint32(0), windowsShare(FlagExLock))
}
