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
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// AcceptEx and ConnectEx are Winsock extension functions, not ordinary
// exports: they must be resolved per-socket via WSAIoctl's
// SIO_GET_EXTENSION_FUNCTION_POINTER, the same mechanism the standard
// library's own net/internal/poll windows implementation uses. We resolve
// them once against a scratch socket and cache the procedure addresses.
var (
	wsaidAcceptEx  = windows.GUID{Data1: 0xb5367df1, Data2: 0xcbac, Data3: 0x11cf, Data4: [8]byte{0x95, 0xca, 0x00, 0x80, 0x5f, 0x48, 0xa1, 0x92}}
	wsaidConnectEx = windows.GUID{Data1: 0x25a207b9, Data2: 0xddf3, Data3: 0x4660, Data4: [8]byte{0x8e, 0xe9, 0x76, 0xe5, 0x8c, 0x74, 0x06, 0x3e}}

	extFuncOnce sync.Once
	acceptExPtr uintptr
	connectExPtr uintptr
	extFuncErr  error
)

func loadExtensionFunc(s windows.Handle, guid *windows.GUID) (uintptr, error) {
	var proc uintptr
	var bytes uint32
	err := windows.WSAIoctl(
		s,
		windows.SIO_GET_EXTENSION_FUNCTION_POINTER,
		(*byte)(unsafe.Pointer(guid)),
		uint32(unsafe.Sizeof(*guid)),
		(*byte)(unsafe.Pointer(&proc)),
		uint32(unsafe.Sizeof(proc)),
		&bytes,
		nil,
		0,
	)
	if err != nil {
		return 0, err
	}
	return proc, nil
}

func extensionFuncs() error {
	extFuncOnce.Do(func() {
		s, err := windows.WSASocket(windows.AF_INET, windows.SOCK_STREAM, windows.IPPROTO_TCP, nil, 0, windows.WSA_FLAG_OVERLAPPED)
		if err != nil {
			extFuncErr = err
			return
		}
		defer windows.CloseHandle(s)

		if acceptExPtr, err = loadExtensionFunc(s, &wsaidAcceptEx); err != nil {
			extFuncErr = err
			return
		}
		if connectExPtr, err = loadExtensionFunc(s, &wsaidConnectEx); err != nil {
			extFuncErr = err
			return
		}
	})
	return extFuncErr
}

// syscallAcceptEx and syscallConnectEx invoke the resolved extension
// function pointers directly, the same raw stdcall trampoline
// (syscall.Syscall9) the standard library uses for every Winsock call that
// takes more than six arguments.
func syscallAcceptEx(listenSock, acceptSock windows.Handle, outBuf *byte, recvDataLen, localAddrLen, remoteAddrLen uint32, bytesReceived *uint32, overlapped *windows.Overlapped) (r1, r2 uintptr, err syscall.Errno) {
	return syscall.Syscall9(acceptExPtr, 8,
		uintptr(listenSock), uintptr(acceptSock), uintptr(unsafe.Pointer(outBuf)),
		uintptr(recvDataLen), uintptr(localAddrLen), uintptr(remoteAddrLen),
		uintptr(unsafe.Pointer(bytesReceived)), uintptr(unsafe.Pointer(overlapped)), 0)
}

func syscallConnectEx(s windows.Handle, name *byte, namelen uint32, sendBuf *byte, sendLen uint32, bytesSent *uint32, overlapped *windows.Overlapped) (r1, r2 uintptr, err syscall.Errno) {
	return syscall.Syscall9(connectExPtr, 7,
		uintptr(s), uintptr(unsafe.Pointer(name)), uintptr(namelen),
		uintptr(unsafe.Pointer(sendBuf)), uintptr(sendLen), uintptr(unsafe.Pointer(bytesSent)),
		uintptr(unsafe.Pointer(overlapped)), 0, 0)
}
