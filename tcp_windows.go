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

// rawSocket is the port-side socket handle.
type rawSocket = windows.Handle

func newRawTCPSocket(addr Address) (rawSocket, error) {
	family := windows.AF_INET
	if addr.Is6() {
		family = windows.AF_INET6
	}
	s, err := windows.WSASocket(int32(family), windows.SOCK_STREAM, windows.IPPROTO_TCP, nil, 0, windows.WSA_FLAG_OVERLAPPED)
	if err != nil {
		return 0, status.Wrap("socket", iocp.MapError(win32CodeOf(err)))
	}
	return s, nil
}

func win32CodeOf(err error) uint32 {
	if errno, ok := err.(windows.Errno); ok {
		return uint32(errno)
	}
	return uint32(windows.ERROR_GEN_FAILURE)
}

func platformConnect(ctx context.Context, addr Address, port uint16) (rawSocket, error) {
	s, err := newRawTCPSocket(addr)
	if err != nil {
		return 0, err
	}
	sa := encodeSockaddr(addr, port)
	st, err := iocp.Connect(ctx, s, sa)
	if err != nil {
		windows.CloseHandle(s)
		return 0, err
	}
	if st != status.OK {
		windows.CloseHandle(s)
		return 0, status.Wrap("connect", st)
	}
	return s, nil
}

func platformReadSocket(ctx context.Context, s rawSocket, p []byte) (status.IOResult, error) {
	return iocp.Recv(ctx, s, p)
}

func platformWriteSocket(ctx context.Context, s rawSocket, p []byte) (status.IOResult, error) {
	return iocp.Send(ctx, s, p)
}

func platformReadvSocket(ctx context.Context, s rawSocket, iov [][]byte) (status.IOResult, error) {
	return iocp.RecvMsg(ctx, s, iov)
}

func platformWritevSocket(ctx context.Context, s rawSocket, iov [][]byte) (status.IOResult, error) {
	return iocp.SendMsg(ctx, s, iov)
}

func platformCloseSocket(ctx context.Context, s rawSocket) (status.Status, error) {
	return iocp.Close(s), nil
}
