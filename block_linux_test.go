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
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kls-project/kio/status"
)

// TestFileEcho is scenario S1: write a payload to a fresh file, close,
// reopen read-only, and read it back.
func TestFileEcho(t *testing.T) {
	skipIfRingUnsupported(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tmp.kls.io")
	payload := []byte("Hello World\n\x00")
	require.Len(t, payload, 13)

	wb, err := OpenBlock(ctx, path, FlagWrite|FlagCreat)
	require.NoError(t, err)

	res, err := wb.Write(ctx, payload, 0)
	require.NoError(t, err)
	assert.Equal(t, status.Success(13), res)

	st, err := wb.Close(ctx)
	require.NoError(t, err)
	assert.Equal(t, status.OK, st)

	rb, err := OpenBlock(ctx, path, FlagRead)
	require.NoError(t, err)

	buf := make([]byte, 1000)
	res, err = rb.Read(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, status.Success(13), res)
	assert.Equal(t, payload, buf[:13])

	st, err = rb.Close(ctx)
	require.NoError(t, err)
	assert.Equal(t, status.OK, st)
}

// TestOpenExclusiveCollision is scenario S3: of two concurrent
// CREAT|EXCL opens on the same path, exactly one succeeds.
func TestOpenExclusiveCollision(t *testing.T) {
	skipIfRingUnsupported(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "exclusive")

	const n = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	var successes int
	var eexist int
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			b, err := OpenBlock(ctx, path, FlagWrite|FlagCreat|FlagExcl)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				b.Close(ctx)
				return
			}
			if errors.Is(err, status.EEXIST) {
				eexist++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, eexist)
}

// TestOpenFlagDispositionTable covers property 5: every flag combination
// resolves to the documented POSIX O_* set.
func TestOpenFlagDispositionTable(t *testing.T) {
	cases := []struct {
		name    string
		flags   uint32
		want    uint32
		wantErr bool
	}{
		{"read-only", FlagRead, unix.O_RDONLY, false},
		{"write-only", FlagWrite, unix.O_WRONLY, false},
		{"read-write", FlagRead | FlagWrite, unix.O_RDWR, false},
		{"neither", FlagCreat, 0, true},
		{"create", FlagWrite | FlagCreat, unix.O_WRONLY | unix.O_CREAT, false},
		{"create-excl", FlagWrite | FlagCreat | FlagExcl, unix.O_WRONLY | unix.O_CREAT | unix.O_EXCL, false},
		{"truncate", FlagWrite | FlagTrunc, unix.O_WRONLY | unix.O_TRUNC, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := linuxOpenFlags(c.flags)
			if c.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

// TestClosedBlockNeverCrashes covers property 6: operations against an
// already-closed handle produce a closed-handle status, never a panic.
func TestClosedBlockNeverCrashes(t *testing.T) {
	skipIfRingUnsupported(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "closeme")

	b, err := OpenBlock(ctx, path, FlagWrite|FlagCreat)
	require.NoError(t, err)

	st, err := b.Close(ctx)
	require.NoError(t, err)
	assert.Equal(t, status.OK, st)

	// closing again must not panic and must keep returning a clean result.
	assert.NotPanics(t, func() {
		st2, err2 := b.Close(ctx)
		require.NoError(t, err2)
		assert.Equal(t, status.OK, st2)
	})

	// a read against the now-closed descriptor surfaces a closed-handle
	// status rather than crashing.
	assert.NotPanics(t, func() {
		buf := make([]byte, 8)
		res, _ := b.Read(ctx, buf, 0)
		assert.False(t, res.OK())
	})
}
