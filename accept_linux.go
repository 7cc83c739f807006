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
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/kls-project/kio/bufpool"
	"github.com/kls-project/kio/internal/ring"
	"github.com/kls-project/kio/status"
)

func ptrOf(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func platformListen(addr Address, port uint16, backlog int) (rawSocket, error) {
	fd, err := newRawTCPSocket(addr)
	if err != nil {
		return 0, err
	}
	if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(int(fd))
		return 0, status.Wrap("acceptor", ring.MapError(errnoOf(err)))
	}
	sa := encodeSockaddr(addr, port)
	if err := rawBind(int(fd), sa); err != nil {
		unix.Close(int(fd))
		return 0, status.Wrap("acceptor", ring.MapError(errnoOf(err)))
	}
	if err := unix.Listen(int(fd), backlog); err != nil {
		unix.Close(int(fd))
		return 0, status.Wrap("acceptor", ring.MapError(errnoOf(err)))
	}
	return fd, nil
}

// rawBind issues bind(2) against a raw sockaddr buffer built by
// encodeSockaddr, rather than going through unix.Sockaddr, since the
// façade already has the bytes in the exact wire layout the kernel wants.
func rawBind(fd int, sa []byte) error {
	_, _, errno := unix.Syscall(unix.SYS_BIND, uintptr(fd), uintptr(ptrOf(sa)), uintptr(len(sa)))
	if errno != 0 {
		return errno
	}
	return nil
}

func platformAccept(ctx context.Context, listenFd rawSocket) (Peer, rawSocket, error) {
	addrBuf := bufpool.GetSockaddr6()
	defer bufpool.PutSockaddr6(addrBuf)
	res, addrLen, err := ring.Accept(ctx, listenFd, addrBuf)
	if err != nil {
		return Peer{}, 0, err
	}
	if !res.OK() {
		return Peer{}, 0, status.Wrap("accept", res.Status())
	}
	peer, err := decodeSockaddr(addrBuf[:addrLen])
	if err != nil {
		return Peer{}, 0, err
	}
	return peer, res.Count(), nil
}

func platformCloseListener(ctx context.Context, fd rawSocket) (status.Status, error) {
	return ring.Close(ctx, fd)
}
