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

// Package kio is a completion-based asynchronous I/O façade over Linux
// io_uring and Windows I/O completion ports. Every blocking-looking call
// below parks the calling goroutine on the platform Completion Engine
// until the kernel reports the operation done; none of it touches the
// network for name resolution — addresses are always numeric.
package kio

import (
	"fmt"
	"net/netip"

	"github.com/kls-project/kio/status"
)

// Address is a numeric IPv4 or IPv6 address. It is built on net/netip.Addr
// so the family/byte-length invariant (4 bytes for v4, 16 for v6) comes
// from the standard library type rather than being reimplemented here.
type Address struct {
	addr netip.Addr
}

// AddressFromBytes builds an Address from raw network-order bytes: 4 bytes
// for IPv4, 16 for IPv6. Any other length is a caller bug.
func AddressFromBytes(b []byte) (Address, error) {
	switch len(b) {
	case 4:
		return Address{addr: netip.AddrFrom4([4]byte(b))}, nil
	case 16:
		return Address{addr: netip.AddrFrom16([16]byte(b))}, nil
	default:
		return Address{}, status.Wrap("address", status.EINVAL)
	}
}

// ParseAddress parses a numeric textual address ("127.0.0.1", "::1"). It
// never performs DNS resolution; a hostname is rejected with EINVAL.
func ParseAddress(text string) (Address, error) {
	addr, err := netip.ParseAddr(text)
	if err != nil {
		return Address{}, status.Wrap("address", status.EINVAL)
	}
	return Address{addr: addr}, nil
}

func (a Address) IsValid() bool { return a.addr.IsValid() }
func (a Address) Is4() bool     { return a.addr.Is4() }
func (a Address) Is6() bool     { return a.addr.Is6() }
func (a Address) AsSlice() []byte {
	b := a.addr.As16()
	if a.addr.Is4() {
		b4 := a.addr.As4()
		return b4[:]
	}
	return b[:]
}
func (a Address) String() string { return a.addr.String() }
func (a Address) netipAddr() netip.Addr { return a.addr }

// Peer is a fully-resolved remote endpoint, the result of accept() and the
// input to connect().
type Peer struct {
	Addr Address
	Port uint16
}

func (p Peer) String() string { return fmt.Sprintf("%s:%d", p.Addr, p.Port) }
