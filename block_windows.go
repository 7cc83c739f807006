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
	"context"
	"path/filepath"

	"golang.org/x/sys/windows"

	"github.com/kls-project/kio/internal/iocp"
	"github.com/kls-project/kio/status"
)

// rawBlock is the port-side file handle.
type rawBlock = windows.Handle

// windowsAccess, windowsDisposition and windowsShare are the port half of
// the canonical open-flag disposition table (spec.md §4.4), ported
// field-for-field from the source design's ntos_file_make_* functions.
func windowsAccess(flags uint32) (uint32, error) {
	read := flags&FlagRead != 0
	write := flags&FlagWrite != 0
	if !read && !write {
		return 0, status.Wrap("open", status.EACCES)
	}
	var result uint32
	if read {
		result |= windows.GENERIC_READ
	}
	if write {
		result |= windows.GENERIC_WRITE
	}
	return result, nil
}

func windowsDisposition(flags uint32) uint32 {
	switch flags & (FlagCreat | FlagExcl | FlagTrunc) {
	case 0, FlagExcl:
		return windows.OPEN_EXISTING
	case FlagCreat:
		return windows.OPEN_ALWAYS
	case FlagCreat | FlagExcl, FlagCreat | FlagTrunc | FlagExcl:
		return windows.CREATE_NEW
	case FlagTrunc, FlagTrunc | FlagExcl:
		return windows.TRUNCATE_EXISTING
	case FlagCreat | FlagTrunc:
		return windows.CREATE_ALWAYS
	default:
		return 0
	}
}

func windowsShare(flags uint32) uint32 {
	if flags&FlagExLock != 0 {
		return 0
	}
	return windows.FILE_SHARE_READ | windows.FILE_SHARE_WRITE | windows.FILE_SHARE_DELETE
}

func platformOpenBlock(ctx context.Context, path string, flags uint32) (rawBlock, error) {
	access, err := windowsAccess(flags)
	if err != nil {
		return 0, err
	}
	absolute, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}
	h, err := iocp.Open(absolute, access, windowsShare(flags), windowsDisposition(flags))
	if err != nil {
		if err == windows.ERROR_FILE_EXISTS && flags&FlagCreat != 0 && flags&FlagExcl == 0 {
			return 0, status.Wrap("open", status.EISDIR)
		}
		return 0, status.Wrap("open", iocp.MapError(win32CodeOf(err)))
	}
	return h, nil
}

func platformReadBlock(ctx context.Context, h rawBlock, p []byte, offset uint64) (status.IOResult, error) {
	return iocp.Read(ctx, h, p, offset)
}

func platformWriteBlock(ctx context.Context, h rawBlock, p []byte, offset uint64) (status.IOResult, error) {
	return iocp.Write(ctx, h, p, offset)
}

func platformSyncBlock(ctx context.Context, h rawBlock) (status.Status, error) {
	return iocp.Fsync(h), nil
}

func platformCloseBlock(ctx context.Context, h rawBlock) (status.Status, error) {
	return iocp.Close(h), nil
}
