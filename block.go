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

package kio

import (
	"context"
	"errors"

	"github.com/kls-project/kio/iocore"
	"github.com/kls-project/kio/status"
)

// Block is a single open file, opened for offset-addressed read/write.
// Every operation schedules a submission against the platform Completion
// Engine and parks the calling goroutine (via iocore.Await, reached
// through the platform op functions) until the kernel reports it done.
type Block struct {
	h *iocore.Handle[rawBlock]
}

// OpenBlock resolves the portable flag set against the platform's
// disposition table and opens path. A failure to produce the descriptor
// itself (not a completion) is returned directly, per the façade's
// synchronous-constructor-failure rule.
func OpenBlock(ctx context.Context, path string, flags uint32) (*Block, error) {
	raw, err := platformOpenBlock(ctx, path, flags)
	if err != nil {
		return nil, err
	}
	h := iocore.NewHandle(raw, func(v rawBlock) error {
		st, err := platformCloseBlock(context.Background(), v)
		if err != nil {
			return err
		}
		if st != status.OK {
			return status.Wrap("close", st)
		}
		return nil
	})
	return &Block{h: h}, nil
}

func (b *Block) Read(ctx context.Context, p []byte, offset uint64) (status.IOResult, error) {
	return platformReadBlock(ctx, b.h.Value(), p, offset)
}

func (b *Block) Write(ctx context.Context, p []byte, offset uint64) (status.IOResult, error) {
	return platformWriteBlock(ctx, b.h.Value(), p, offset)
}

func (b *Block) Sync(ctx context.Context) (status.Status, error) {
	return platformSyncBlock(ctx, b.h.Value())
}

func (b *Block) Close(ctx context.Context) (status.Status, error) {
	return closeStatus(b.h.Close())
}

// closeStatus adapts a Handle's stored close error (nil, a *status.Error,
// or something else entirely) back into the façade's (Status, error)
// return shape.
func closeStatus(err error) (status.Status, error) {
	if err == nil {
		return status.OK, nil
	}
	var se *status.Error
	if errors.As(err, &se) {
		return se.Status, nil
	}
	return status.UNKNOWN, err
}

// FullReadAt repeats Read at increasing offsets until n bytes have been
// transferred, EOF is observed, or an error occurs. It returns (OK, N)
// only when the full buffer was filled.
func FullReadAt(ctx context.Context, b *Block, p []byte, offset uint64) (status.IOResult, error) {
	var done int32
	for done < int32(len(p)) {
		res, err := b.Read(ctx, p[done:], offset+uint64(done))
		if err != nil {
			return status.IOResult{}, err
		}
		if !res.OK() {
			return res, nil
		}
		if res.Count() == 0 {
			return status.Failure(status.EOF), nil
		}
		done += res.Count()
	}
	return status.Success(done), nil
}

// FullWriteAt repeats Write at increasing offsets until the whole buffer
// has been transferred or an error occurs, absorbing short writes
// transparently.
func FullWriteAt(ctx context.Context, b *Block, p []byte, offset uint64) (status.IOResult, error) {
	var done int32
	for done < int32(len(p)) {
		res, err := b.Write(ctx, p[done:], offset+uint64(done))
		if err != nil {
			return status.IOResult{}, err
		}
		if !res.OK() {
			return res, nil
		}
		if res.Count() == 0 {
			return status.Failure(status.EOF), nil
		}
		done += res.Count()
	}
	return status.Success(done), nil
}
