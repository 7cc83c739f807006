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

// AF_INET6 as Winsock's SOCKADDR_IN6 expects it — 23, not the POSIX value
// of 10 that sockaddr_linux.go defines. ConnectEx in tcp_windows.go feeds
// this through encodeSockaddr's shared sockaddr_in6 layout, so getting it
// right here is what makes IPv6 Connect work on Windows at all.
const sockaddrFamilyInet6 = 23
