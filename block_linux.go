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

//go:build linux

package kio

import (
	"context"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/kls-project/kio/internal/ring"
	"github.com/kls-project/kio/status"
)

// rawBlock is the ring-side file descriptor.
type rawBlock = int32

// defaultCreateMode mirrors the source design's hardcoded 0600 for
// newly-created files.
const defaultCreateMode = 0600

// linuxOpenFlags is the ring-platform half of the canonical open-flag
// disposition table: {READ, WRITE, CREAT, EXCL, TRUNC} map directly onto
// POSIX O_* bits (EXLOCK has no ring-platform equivalent and is ignored
// here, matching the source design).
func linuxOpenFlags(flags uint32) (uint32, error) {
	read := flags&FlagRead != 0
	write := flags&FlagWrite != 0
	var result uint32
	switch {
	case read && write:
		result |= unix.O_RDWR
	case read:
		result |= unix.O_RDONLY
	case write:
		result |= unix.O_WRONLY
	default:
		return 0, status.Wrap("open", status.EACCES)
	}
	if flags&FlagCreat != 0 {
		result |= unix.O_CREAT
	}
	if flags&FlagExcl != 0 {
		result |= unix.O_EXCL
	}
	if flags&FlagTrunc != 0 {
		result |= unix.O_TRUNC
	}
	return result, nil
}

func platformOpenBlock(ctx context.Context, path string, flags uint32) (rawBlock, error) {
	osFlags, err := linuxOpenFlags(flags)
	if err != nil {
		return 0, err
	}
	absolute, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}
	res, err := ring.Open(ctx, unix.AT_FDCWD, absolute, osFlags, defaultCreateMode)
	if err != nil {
		return 0, err
	}
	if !res.OK() {
		return 0, status.Wrap("open", res.Status())
	}
	return res.Count(), nil
}

func platformReadBlock(ctx context.Context, fd rawBlock, p []byte, offset uint64) (status.IOResult, error) {
	return ring.Read(ctx, fd, p, offset)
}

func platformWriteBlock(ctx context.Context, fd rawBlock, p []byte, offset uint64) (status.IOResult, error) {
	return ring.Write(ctx, fd, p, offset)
}

func platformSyncBlock(ctx context.Context, fd rawBlock) (status.Status, error) {
	return ring.Fsync(ctx, fd)
}

func platformCloseBlock(ctx context.Context, fd rawBlock) (status.Status, error) {
	return ring.Close(ctx, fd)
}
