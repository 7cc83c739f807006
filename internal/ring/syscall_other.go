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

//go:build !linux

package ring

import "syscall"

// Stub syscalls for non-Linux platforms; the root façade never imports this
// package there (block_windows.go pulls in internal/iocp instead). The
// stubs only cover the two io_uring syscalls: kernel.go and errno.go still
// use Linux-only identifiers (syscall.MAP_POPULATE, x/sys/unix errno
// constants), so the package as a whole does not build off Linux.
func ioUringSetup(entries uint32, params *IoUringParams) (int, error) {
	return 0, syscall.ENOSYS
}

func ioUringEnter(fd int, toSubmit, minComplete, flags uint32) (int, syscall.Errno) {
	return 0, syscall.ENOSYS
}
