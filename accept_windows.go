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

	"golang.org/x/sys/windows"

	"github.com/kls-project/kio/internal/iocp"
	"github.com/kls-project/kio/status"
)

func toWindowsSockaddr(addr Address, port uint16) windows.Sockaddr {
	if addr.Is6() {
		sa := &windows.SockaddrInet6{Port: int(port)}
		copy(sa.Addr[:], addr.AsSlice())
		return sa
	}
	sa := &windows.SockaddrInet4{Port: int(port)}
	copy(sa.Addr[:], addr.AsSlice())
	return sa
}

func fromWindowsSockaddr(sa windows.Sockaddr) (Peer, error) {
	switch v := sa.(type) {
	case *windows.SockaddrInet4:
		addr, err := AddressFromBytes(v.Addr[:])
		if err != nil {
			return Peer{}, err
		}
		return Peer{Addr: addr, Port: uint16(v.Port)}, nil
	case *windows.SockaddrInet6:
		addr, err := AddressFromBytes(v.Addr[:])
		if err != nil {
			return Peer{}, err
		}
		return Peer{Addr: addr, Port: uint16(v.Port)}, nil
	default:
		return Peer{}, errInvalidFamily
	}
}

func platformListen(addr Address, port uint16, backlog int) (rawSocket, error) {
	s, err := newRawTCPSocket(addr)
	if err != nil {
		return 0, err
	}
	_ = windows.SetsockoptInt(s, windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
	if err := windows.Bind(s, toWindowsSockaddr(addr, port)); err != nil {
		windows.CloseHandle(s)
		return 0, status.Wrap("acceptor", iocp.MapError(win32CodeOf(err)))
	}
	if err := windows.Listen(s, backlog); err != nil {
		windows.CloseHandle(s)
		return 0, status.Wrap("acceptor", iocp.MapError(win32CodeOf(err)))
	}
	return s, nil
}

func platformAccept(ctx context.Context, listenSock rawSocket) (Peer, rawSocket, error) {
	res, acceptSock, err := iocp.Accept(ctx, listenSock)
	if err != nil {
		return Peer{}, 0, err
	}
	if !res.OK() {
		return Peer{}, 0, status.Wrap("accept", res.Status())
	}
	sa, err := windows.Getpeername(acceptSock)
	if err != nil {
		windows.CloseHandle(acceptSock)
		return Peer{}, 0, status.Wrap("accept", iocp.MapError(win32CodeOf(err)))
	}
	peer, err := fromWindowsSockaddr(sa)
	if err != nil {
		windows.CloseHandle(acceptSock)
		return Peer{}, 0, err
	}
	return peer, acceptSock, nil
}

func platformCloseListener(ctx context.Context, s rawSocket) (status.Status, error) {
	return iocp.Close(s), nil
}
