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
	"encoding/binary"

	"github.com/kls-project/kio/status"
)

var (
	errShortSockaddr = status.Wrap("accept", status.EINVAL)
	errInvalidFamily = status.Wrap("accept", status.EAFNOSUPPORT)
)

// sockaddrFamilyInet is AF_INET as it appears in the wire form of
// sockaddr_in: Linux and Windows agree on this one. AF_INET6 does not
// agree across platforms (10 on Linux, 23 on Windows), so
// sockaddrFamilyInet6 is declared per-platform in sockaddr_linux.go /
// sockaddr_windows.go; sockaddr_in6's layout is otherwise identical on
// both, so everything else here is shared.
const sockaddrFamilyInet = 2

// encodeSockaddr renders addr:port as a raw sockaddr_in (16 bytes) or
// sockaddr_in6 (28 bytes), matching the platform to_os_ipv4/to_os_ipv6
// layout: 2-byte family (host order), 2-byte port (network order), the
// address bytes, then zero padding/flow/scope fields.
func encodeSockaddr(addr Address, port uint16) []byte {
	if addr.Is6() {
		buf := make([]byte, 28)
		binary.LittleEndian.PutUint16(buf[0:2], sockaddrFamilyInet6)
		binary.BigEndian.PutUint16(buf[2:4], port)
		copy(buf[8:24], addr.AsSlice())
		return buf
	}
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint16(buf[0:2], sockaddrFamilyInet)
	binary.BigEndian.PutUint16(buf[2:4], port)
	copy(buf[4:8], addr.AsSlice())
	return buf
}

// decodeSockaddr is encodeSockaddr's inverse, used to turn the buffer the
// kernel fills in on accept() into a Peer.
func decodeSockaddr(buf []byte) (Peer, error) {
	if len(buf) < 2 {
		return Peer{}, errShortSockaddr
	}
	family := binary.LittleEndian.Uint16(buf[0:2])
	switch family {
	case sockaddrFamilyInet:
		if len(buf) < 8 {
			return Peer{}, errShortSockaddr
		}
		addr, err := AddressFromBytes(buf[4:8])
		if err != nil {
			return Peer{}, err
		}
		return Peer{Addr: addr, Port: binary.BigEndian.Uint16(buf[2:4])}, nil
	case sockaddrFamilyInet6:
		if len(buf) < 24 {
			return Peer{}, errShortSockaddr
		}
		addr, err := AddressFromBytes(buf[8:24])
		if err != nil {
			return Peer{}, err
		}
		return Peer{Addr: addr, Port: binary.BigEndian.Uint16(buf[2:4])}, nil
	default:
		return Peer{}, errInvalidFamily
	}
}
