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

	"golang.org/x/sys/unix"

	"github.com/kls-project/kio/internal/ring"
	"github.com/kls-project/kio/status"
)

// rawSocket is the ring-side socket file descriptor.
type rawSocket = int32

func newRawTCPSocket(addr Address) (rawSocket, error) {
	family := unix.AF_INET
	if addr.Is6() {
		family = unix.AF_INET6
	}
	fd, err := unix.Socket(family, unix.SOCK_STREAM, 0)
	if err != nil {
		return 0, status.Wrap("socket", ring.MapError(errnoOf(err)))
	}
	return int32(fd), nil
}

func errnoOf(err error) unix.Errno {
	if errno, ok := err.(unix.Errno); ok {
		return errno
	}
	return unix.EIO
}

func platformConnect(ctx context.Context, addr Address, port uint16) (rawSocket, error) {
	fd, err := newRawTCPSocket(addr)
	if err != nil {
		return 0, err
	}
	sa := encodeSockaddr(addr, port)
	st, err := ring.Connect(ctx, fd, sa)
	if err != nil {
		unix.Close(int(fd))
		return 0, err
	}
	if st != status.OK {
		unix.Close(int(fd))
		return 0, status.Wrap("connect", st)
	}
	return fd, nil
}

func platformReadSocket(ctx context.Context, fd rawSocket, p []byte) (status.IOResult, error) {
	return ring.Recv(ctx, fd, p)
}

func platformWriteSocket(ctx context.Context, fd rawSocket, p []byte) (status.IOResult, error) {
	return ring.Send(ctx, fd, p)
}

func platformReadvSocket(ctx context.Context, fd rawSocket, iov [][]byte) (status.IOResult, error) {
	return ring.RecvMsg(ctx, fd, iov)
}

func platformWritevSocket(ctx context.Context, fd rawSocket, iov [][]byte) (status.IOResult, error) {
	return ring.SendMsg(ctx, fd, iov)
}

func platformCloseSocket(ctx context.Context, fd rawSocket) (status.Status, error) {
	return ring.Close(ctx, fd)
}
