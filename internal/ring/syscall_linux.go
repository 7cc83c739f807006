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

//go:build linux && !(mips64 || mips64le)

package ring

import (
	"syscall"
	"unsafe"
)

// io_uring syscall numbers for the common Linux architectures (amd64,
// arm64, 386, arm, riscv64, ...). mips64/mips64le get their own numbers in
// syscall_linux_mips.go.
const (
	sysIoUringSetup = 425
	sysIoUringEnter = 426
)

func ioUringSetup(entries uint32, params *IoUringParams) (int, error) {
	fd, _, errno := syscall.Syscall(sysIoUringSetup, uintptr(entries), uintptr(unsafe.Pointer(params)), 0)
	if errno != 0 {
		return -1, errno
	}
	return int(fd), nil
}

func ioUringEnter(fd int, toSubmit, minComplete, flags uint32) (int, syscall.Errno) {
	r, _, errno := syscall.Syscall6(sysIoUringEnter,
		uintptr(fd), uintptr(toSubmit), uintptr(minComplete), uintptr(flags), 0, 0)
	return int(r), errno
}
