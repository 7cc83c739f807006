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

package ring

import "unsafe"

// SQE is a submission queue entry; its layout must match the kernel ABI
// exactly (64 bytes).
type SQE struct {
	Opcode      uint8
	Flags       uint8
	IoPrio      uint16
	Fd          int32
	Off         uint64
	Addr        uint64
	Len         uint32
	OpcodeFlags uint32
	UserData    uint64
	BufIndex    uint16
	Personality uint16
	SpliceFdIn  int32
	_           [2]uint64
}

// CQE is a completion queue entry (16 bytes).
type CQE struct {
	UserData uint64
	Res      int32
	Flags    uint32
}

// Iovec mirrors struct iovec for readv/writev/sendmsg/recvmsg.
type Iovec struct {
	Base uintptr
	Len  uint64
}

func (v *Iovec) Set(b []byte) {
	v.Len = uint64(len(b))
	if v.Len > 0 {
		v.Base = uintptr(unsafe.Pointer(&b[0]))
	}
}

// Msghdr mirrors struct msghdr for SENDMSG/RECVMSG.
type Msghdr struct {
	Name       *byte
	Namelen    uint32
	_          uint32
	Iov        *Iovec
	Iovlen     uint64
	Control    *byte
	Controllen uint64
	Flags      int32
	_          int32
}
