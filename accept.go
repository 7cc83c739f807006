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
	"sync/atomic"

	"github.com/kls-project/kio/status"
)

// Acceptor states, per the façade's OPEN -> CLOSING -> CLOSED machine.
const (
	acceptorOpen int32 = iota
	acceptorClosing
	acceptorClosed
)

// Acceptor listens for inbound TCP connections. Once may be called
// repeatedly to accept a sequence of connections; Close cancels any
// pending Once with a cancellation-class status.
type Acceptor struct {
	raw   rawSocket
	state atomic.Int32
}

// AcceptorTCP binds and listens on addr:port with the given backlog. Like
// OpenBlock/Connect, a failure to produce the listening socket itself
// surfaces directly rather than through an awaitable.
func AcceptorTCP(addr Address, port uint16, backlog int) (*Acceptor, error) {
	if !addr.IsValid() {
		return nil, status.Wrap("acceptor", status.EINVAL)
	}
	raw, err := platformListen(addr, port, backlog)
	if err != nil {
		return nil, err
	}
	return &Acceptor{raw: raw}, nil
}

// Once returns exactly one fully-established connection. Calling it after
// Close has been invoked returns a cancellation-class error result rather
// than attempting the accept.
func (a *Acceptor) Once(ctx context.Context) (Peer, *SocketTCP, error) {
	if a.state.Load() != acceptorOpen {
		return Peer{}, nil, status.Wrap("accept", status.ECANCELED)
	}
	peer, raw, err := platformAccept(ctx, a.raw)
	if err != nil {
		return Peer{}, nil, err
	}
	return peer, newSocketTCP(raw), nil
}

// Close stops the acceptor; any task parked in Once resolves with a
// cancellation-class status once the underlying accept completes.
func (a *Acceptor) Close(ctx context.Context) (status.Status, error) {
	a.state.Store(acceptorClosing)
	st, err := platformCloseListener(ctx, a.raw)
	a.state.Store(acceptorClosed)
	return st, err
}
