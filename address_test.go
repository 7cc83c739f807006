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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddressNumericOnly(t *testing.T) {
	a, err := ParseAddress("127.0.0.1")
	require.NoError(t, err)
	assert.True(t, a.Is4())
	assert.Equal(t, "127.0.0.1", a.String())

	a6, err := ParseAddress("::1")
	require.NoError(t, err)
	assert.True(t, a6.Is6())

	_, err = ParseAddress("localhost")
	assert.Error(t, err)
}

func TestAddressFromBytes(t *testing.T) {
	a, err := AddressFromBytes([]byte{127, 0, 0, 1})
	require.NoError(t, err)
	assert.True(t, a.Is4())
	assert.Equal(t, []byte{127, 0, 0, 1}, a.AsSlice())

	_, err = AddressFromBytes([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestAddressFromBytesIsCopy(t *testing.T) {
	raw := []byte{10, 0, 0, 1}
	a, err := AddressFromBytes(raw)
	require.NoError(t, err)
	raw[0] = 99
	assert.Equal(t, byte(10), a.AsSlice()[0])
}

func TestPeerString(t *testing.T) {
	a, err := ParseAddress("192.168.1.1")
	require.NoError(t, err)
	p := Peer{Addr: a, Port: 8080}
	assert.Equal(t, "192.168.1.1:8080", p.String())
}
