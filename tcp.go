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

	"github.com/kls-project/kio/iocore"
	"github.com/kls-project/kio/status"
)

// SocketTCP is one connected TCP stream, produced either by Connect or by
// an Acceptor's Once.
type SocketTCP struct {
	h *iocore.Handle[rawSocket]
}

func newSocketTCP(raw rawSocket) *SocketTCP {
	h := iocore.NewHandle(raw, func(v rawSocket) error {
		st, err := platformCloseSocket(context.Background(), v)
		if err != nil {
			return err
		}
		if st != status.OK {
			return status.Wrap("close", st)
		}
		return nil
	})
	return &SocketTCP{h: h}
}

// Connect dials addr:port, creating a fresh socket of the matching address
// family. On failure the transient socket is released before the error is
// surfaced, per the façade's synchronous-constructor-failure rule.
func Connect(ctx context.Context, addr Address, port uint16) (*SocketTCP, error) {
	if !addr.IsValid() {
		return nil, status.Wrap("connect", status.EINVAL)
	}
	raw, err := platformConnect(ctx, addr, port)
	if err != nil {
		return nil, err
	}
	return newSocketTCP(raw), nil
}

func (c *SocketTCP) Read(ctx context.Context, p []byte) (status.IOResult, error) {
	return platformReadSocket(ctx, c.h.Value(), p)
}

func (c *SocketTCP) Write(ctx context.Context, p []byte) (status.IOResult, error) {
	return platformWriteSocket(ctx, c.h.Value(), p)
}

func (c *SocketTCP) Readv(ctx context.Context, iov [][]byte) (status.IOResult, error) {
	return platformReadvSocket(ctx, c.h.Value(), iov)
}

func (c *SocketTCP) Writev(ctx context.Context, iov [][]byte) (status.IOResult, error) {
	return platformWritevSocket(ctx, c.h.Value(), iov)
}

func (c *SocketTCP) Close(ctx context.Context) (status.Status, error) {
	return closeStatus(c.h.Close())
}

// FullRead repeats Read until p is entirely filled, EOF is observed, or an
// error occurs.
func FullRead(ctx context.Context, c *SocketTCP, p []byte) (status.IOResult, error) {
	var done int32
	for done < int32(len(p)) {
		res, err := c.Read(ctx, p[done:])
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

// FullWrite repeats Write until the whole buffer has been transferred or
// an error occurs, absorbing short writes transparently.
func FullWrite(ctx context.Context, c *SocketTCP, p []byte) (status.IOResult, error) {
	var done int32
	for done < int32(len(p)) {
		res, err := c.Write(ctx, p[done:])
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
