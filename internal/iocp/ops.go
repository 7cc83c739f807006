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

package iocp

import (
	"context"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/kls-project/kio/bufpool"
	"github.com/kls-project/kio/iocore"
	"github.com/kls-project/kio/status"
)

// Open issues a synchronous CreateFile and binds the resulting handle to
// the completion port. The portable flag table lives in the kio façade;
// this only sees the already-resolved Win32 access/share/disposition
// triple (mirrors ntos_create_file's separation of table lookup from the
// actual CreateFileW call).
func Open(path string, access, share, disposition uint32) (windows.Handle, error) {
	e, err := Get()
	if err != nil {
		return 0, err
	}
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	h, err := windows.CreateFile(
		pathPtr, access, share, nil, disposition,
		windows.FILE_FLAG_OVERLAPPED|windows.FILE_FLAG_WRITE_THROUGH, 0,
	)
	if err != nil {
		return 0, err
	}
	if err := e.Bind(h); err != nil {
		windows.CloseHandle(h)
		return 0, err
	}
	return h, nil
}

func await(ctx context.Context, c *cell, start func(*windows.Overlapped) error) error {
	if err := start(&c.overlapped); err != nil && win32CodeOf(err) != uint32(windows.ERROR_IO_PENDING) {
		c.statusRaw = win32CodeOf(err)
		c.Release()
		iocore.Await(ctx, &c.Handoff, func() struct{} { return struct{}{} })
		return nil
	}
	iocore.Await(ctx, &c.Handoff, func() struct{} { return struct{}{} })
	return nil
}

func Read(ctx context.Context, h windows.Handle, buf []byte, offset uint64) (status.IOResult, error) {
	c := getCell()
	defer putCell(c)
	setOverlappedOffset(&c.overlapped, offset)
	err := await(ctx, c, func(o *windows.Overlapped) error {
		var bufPtr *byte
		if len(buf) > 0 {
			bufPtr = &buf[0]
		}
		return windows.ReadFile(h, unsafeSlice(bufPtr, len(buf)), nil, o)
	})
	if err != nil {
		return status.IOResult{}, err
	}
	res := c.ioResult()
	runtime.KeepAlive(c)
	return res, nil
}

func Write(ctx context.Context, h windows.Handle, buf []byte, offset uint64) (status.IOResult, error) {
	c := getCell()
	defer putCell(c)
	setOverlappedOffset(&c.overlapped, offset)
	err := await(ctx, c, func(o *windows.Overlapped) error {
		var bufPtr *byte
		if len(buf) > 0 {
			bufPtr = &buf[0]
		}
		return windows.WriteFile(h, unsafeSlice(bufPtr, len(buf)), nil, o)
	})
	if err != nil {
		return status.IOResult{}, err
	}
	res := c.ioResult()
	runtime.KeepAlive(c)
	return res, nil
}

func unsafeSlice(p *byte, n int) []byte {
	if p == nil {
		return nil
	}
	return unsafe.Slice(p, n)
}

// Fsync and Close are ordinary synchronous Win32 calls in the original
// design (FlushFileBuffers/CloseHandle never go through the completion
// port), so they resolve immediately rather than parking on a cell.
func Fsync(h windows.Handle) status.Status {
	if err := windows.FlushFileBuffers(h); err != nil {
		return MapError(win32CodeOf(err))
	}
	return status.OK
}

func Close(h windows.Handle) status.Status {
	if err := windows.CloseHandle(h); err != nil {
		return MapError(win32CodeOf(err))
	}
	return status.OK
}

func Send(ctx context.Context, s windows.Handle, buf []byte) (status.IOResult, error) {
	c := getCell()
	defer putCell(c)
	var sent uint32
	err := await(ctx, c, func(o *windows.Overlapped) error {
		c.wsabuf = windows.WSABuf{Len: uint32(len(buf))}
		if len(buf) > 0 {
			c.wsabuf.Buf = &buf[0]
		}
		return windows.WSASend(s, &c.wsabuf, 1, &sent, 0, o, nil)
	})
	if err != nil {
		return status.IOResult{}, err
	}
	res := c.ioResult()
	runtime.KeepAlive(c)
	return res, nil
}

func Recv(ctx context.Context, s windows.Handle, buf []byte) (status.IOResult, error) {
	c := getCell()
	defer putCell(c)
	var received, flags uint32
	err := await(ctx, c, func(o *windows.Overlapped) error {
		c.wsabuf = windows.WSABuf{Len: uint32(len(buf))}
		if len(buf) > 0 {
			c.wsabuf.Buf = &buf[0]
		}
		return windows.WSARecv(s, &c.wsabuf, 1, &received, &flags, o, nil)
	})
	if err != nil {
		return status.IOResult{}, err
	}
	res := c.ioResult()
	runtime.KeepAlive(c)
	return res, nil
}

// buildWSABufsInto rebuilds dst (reusing its backing array) from bufs, one
// WSABuf per caller-supplied slice including zero-length ones (WSASend and
// WSARecv both accept a zero-length buffer descriptor).
func buildWSABufsInto(dst []windows.WSABuf, bufs [][]byte) []windows.WSABuf {
	dst = dst[:0]
	for _, b := range bufs {
		wb := windows.WSABuf{Len: uint32(len(b))}
		if len(b) > 0 {
			wb.Buf = &b[0]
		}
		dst = append(dst, wb)
	}
	return dst
}

func SendMsg(ctx context.Context, s windows.Handle, bufs [][]byte) (status.IOResult, error) {
	c := getCell()
	defer putCell(c)
	c.wsabufs = buildWSABufsInto(c.wsabufs, bufs)
	var sent uint32
	err := await(ctx, c, func(o *windows.Overlapped) error {
		var bufPtr *windows.WSABuf
		if len(c.wsabufs) > 0 {
			bufPtr = &c.wsabufs[0]
		}
		return windows.WSASend(s, bufPtr, uint32(len(c.wsabufs)), &sent, 0, o, nil)
	})
	if err != nil {
		return status.IOResult{}, err
	}
	res := c.ioResult()
	runtime.KeepAlive(c)
	return res, nil
}

func RecvMsg(ctx context.Context, s windows.Handle, bufs [][]byte) (status.IOResult, error) {
	c := getCell()
	defer putCell(c)
	c.wsabufs = buildWSABufsInto(c.wsabufs, bufs)
	var received, flags uint32
	err := await(ctx, c, func(o *windows.Overlapped) error {
		var bufPtr *windows.WSABuf
		if len(c.wsabufs) > 0 {
			bufPtr = &c.wsabufs[0]
		}
		return windows.WSARecv(s, bufPtr, uint32(len(c.wsabufs)), &received, &flags, o, nil)
	})
	if err != nil {
		return status.IOResult{}, err
	}
	res := c.ioResult()
	runtime.KeepAlive(c)
	return res, nil
}

// acceptAddrLen is the length AcceptEx reserves for one address:
// sockaddr_in6 (28 bytes) plus its required 16 byte padding. It is passed
// for both the local and the remote address, so the output buffer holds
// twice this (bufpool.SizeAcceptEx, 88 bytes).
const acceptAddrLen = (28 + 16)

// Accept pre-creates the accepted socket (AcceptEx never creates one
// itself), issues AcceptEx, and on completion updates the new socket's
// context so getsockname/getpeername and socket options behave as if it
// had come from a normal accept().
func Accept(ctx context.Context, listenSock windows.Handle) (status.IOResult, windows.Handle, error) {
	if err := extensionFuncs(); err != nil {
		return status.IOResult{}, 0, err
	}
	e, err := Get()
	if err != nil {
		return status.IOResult{}, 0, err
	}
	acceptSock, err := windows.WSASocket(windows.AF_INET, windows.SOCK_STREAM, windows.IPPROTO_TCP, nil, 0, windows.WSA_FLAG_OVERLAPPED)
	if err != nil {
		return status.IOResult{}, 0, err
	}
	if err := e.Bind(acceptSock); err != nil {
		windows.CloseHandle(acceptSock)
		return status.IOResult{}, 0, err
	}

	buf := bufpool.GetAcceptExBuf()
	defer bufpool.PutAcceptExBuf(buf)
	c := getCell()
	defer putCell(c)
	awaitErr := await(ctx, c, func(o *windows.Overlapped) error {
		var bytesReceived uint32
		r1, _, errno := syscallAcceptEx(
			listenSock, acceptSock,
			&buf[0], 0,
			acceptAddrLen, acceptAddrLen,
			&bytesReceived, o,
		)
		if r1 == 0 {
			return errno
		}
		return nil
	})
	if awaitErr != nil {
		windows.CloseHandle(acceptSock)
		return status.IOResult{}, 0, awaitErr
	}
	res := c.ioResult()
	runtime.KeepAlive(c)
	if !res.OK() {
		windows.CloseHandle(acceptSock)
		return res, 0, nil
	}
	_ = windows.Setsockopt(acceptSock, windows.SOL_SOCKET, windows.SO_UPDATE_ACCEPT_CONTEXT,
		(*byte)(unsafe.Pointer(&listenSock)), int32(unsafe.Sizeof(listenSock)))
	return res, acceptSock, nil
}

// bindWildcard binds s to an ephemeral local port on the wildcard address,
// a precondition ConnectEx imposes that plain connect() does not.
func bindWildcard(s windows.Handle, addrLen int) error {
	if addrLen > 16 {
		return windows.Bind(s, &windows.SockaddrInet6{})
	}
	return windows.Bind(s, &windows.SockaddrInet4{})
}

// Connect pre-binds an ephemeral local address (ConnectEx requires the
// socket already be bound) and issues ConnectEx against addrBuf, a raw
// sockaddr_in or sockaddr_in6.
func Connect(ctx context.Context, s windows.Handle, addrBuf []byte) (status.Status, error) {
	if err := extensionFuncs(); err != nil {
		return status.UNKNOWN, err
	}
	e, err := Get()
	if err != nil {
		return status.UNKNOWN, err
	}
	if err := e.Bind(s); err != nil {
		return status.UNKNOWN, err
	}
	if err := bindWildcard(s, len(addrBuf)); err != nil {
		return status.UNKNOWN, err
	}

	c := getCell()
	defer putCell(c)
	awaitErr := await(ctx, c, func(o *windows.Overlapped) error {
		var bytesSent uint32
		r1, _, errno := syscallConnectEx(
			s, &addrBuf[0], uint32(len(addrBuf)),
			nil, 0, &bytesSent, o,
		)
		if r1 == 0 {
			return errno
		}
		return nil
	})
	if awaitErr != nil {
		return status.UNKNOWN, awaitErr
	}
	res := c.statusOnly()
	runtime.KeepAlive(c)
	return res, nil
}
