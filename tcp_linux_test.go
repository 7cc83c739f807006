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
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kls-project/kio/status"
)

// acceptorBoundPort reads back the ephemeral port the kernel assigned an
// Acceptor opened with port 0, so the test's client can dial it.
func acceptorBoundPort(t *testing.T, acc *Acceptor) uint16 {
	t.Helper()
	sa, err := unix.Getsockname(int(acc.raw))
	require.NoError(t, err)
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		return uint16(v.Port)
	case *unix.SockaddrInet6:
		return uint16(v.Port)
	default:
		t.Fatalf("unexpected sockaddr type %T", sa)
		return 0
	}
}

func mustLoopback(t *testing.T) Address {
	t.Helper()
	a, err := ParseAddress("127.0.0.1")
	require.NoError(t, err)
	return a
}

func mustWildcard(t *testing.T) Address {
	t.Helper()
	a, err := ParseAddress("0.0.0.0")
	require.NoError(t, err)
	return a
}

// TestTCPEcho is scenario S2: a client connects, writes a payload, the
// server echoes it back, and the client reads the echo.
func TestTCPEcho(t *testing.T) {
	skipIfRingUnsupported(t)
	ctx := context.Background()

	acc, err := AcceptorTCP(mustWildcard(t), 0, 128)
	require.NoError(t, err)
	defer acc.Close(ctx)

	port := acceptorBoundPort(t, acc)

	payload := []byte("Hello World\n\x00")
	require.Len(t, payload, 13)

	serverDone := make(chan struct{})
	var serverErr error
	go func() {
		defer close(serverDone)
		_, srv, aerr := acc.Once(ctx)
		if aerr != nil {
			serverErr = aerr
			return
		}
		defer srv.Close(ctx)
		buf := make([]byte, 1000)
		res, rerr := srv.Read(ctx, buf)
		if rerr != nil {
			serverErr = rerr
			return
		}
		if !res.OK() {
			serverErr = res.Err()
			return
		}
		_, werr := srv.Write(ctx, buf[:res.Count()])
		if werr != nil {
			serverErr = werr
		}
	}()

	cli, err := Connect(ctx, mustLoopback(t), port)
	require.NoError(t, err)
	defer cli.Close(ctx)

	_, err = cli.Write(ctx, payload)
	require.NoError(t, err)

	buf := make([]byte, 1000)
	res, err := cli.Read(ctx, buf)
	require.NoError(t, err)
	assert.Equal(t, status.Success(13), res)
	assert.Equal(t, payload, buf[:13])

	select {
	case <-serverDone:
	case <-time.After(5 * time.Second):
		t.Fatal("server goroutine never finished")
	}
	assert.NoError(t, serverErr)
}

// TestAcceptorCloseRejectsFurtherOnce is scenario S6's deterministic half:
// once Close has resolved, Once returns a cancellation-class status
// immediately rather than attempting another accept.
func TestAcceptorCloseRejectsFurtherOnce(t *testing.T) {
	skipIfRingUnsupported(t)
	ctx := context.Background()

	acc, err := AcceptorTCP(mustWildcard(t), 0, 128)
	require.NoError(t, err)

	st, err := acc.Close(ctx)
	require.NoError(t, err)
	assert.Equal(t, status.OK, st)

	_, _, err = acc.Once(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ECANCELED))
}

// TestFullWriteAbsorbsShortWrites is scenario S4 over a real loopback pair:
// a payload much larger than typical socket buffers forces the kernel to
// accept it across more than one underlying Write, and FullWrite must
// still report the full size once the peer has drained it all.
func TestFullWriteAbsorbsShortWrites(t *testing.T) {
	skipIfRingUnsupported(t)
	ctx := context.Background()

	acc, err := AcceptorTCP(mustWildcard(t), 0, 128)
	require.NoError(t, err)
	defer acc.Close(ctx)
	port := acceptorBoundPort(t, acc)

	const size = 4 << 20
	payload := make([]byte, size)
	for i := range payload {
		payload[i] = byte(i)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	received := make([]byte, 0, size)
	go func() {
		defer wg.Done()
		_, srv, aerr := acc.Once(ctx)
		require.NoError(t, aerr)
		defer srv.Close(ctx)
		buf := make([]byte, size)
		res, rerr := FullRead(ctx, srv, buf)
		require.NoError(t, rerr)
		if res.OK() {
			received = append(received, buf[:res.Count()]...)
		}
	}()

	cli, err := Connect(ctx, mustLoopback(t), port)
	require.NoError(t, err)
	defer cli.Close(ctx)

	res, err := FullWrite(ctx, cli, payload)
	require.NoError(t, err)
	assert.Equal(t, status.Success(size), res)

	wg.Wait()
	assert.Equal(t, payload, received)
}

// TestFullReadReportsEOF is scenario S5: the peer closes after sending
// fewer bytes than requested, and FullRead surfaces EOF rather than a
// short, silently-truncated success.
func TestFullReadReportsEOF(t *testing.T) {
	skipIfRingUnsupported(t)
	ctx := context.Background()

	acc, err := AcceptorTCP(mustWildcard(t), 0, 128)
	require.NoError(t, err)
	defer acc.Close(ctx)
	port := acceptorBoundPort(t, acc)

	go func() {
		_, srv, aerr := acc.Once(ctx)
		if aerr != nil {
			return
		}
		srv.Write(ctx, []byte("hello"))
		srv.Close(ctx)
	}()

	cli, err := Connect(ctx, mustLoopback(t), port)
	require.NoError(t, err)
	defer cli.Close(ctx)

	buf := make([]byte, 10)
	res, err := FullRead(ctx, cli, buf)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, status.EOF, res.Status())
}
