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

package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultCarriesCountOnlyWhenOK(t *testing.T) {
	r := Result(OK, 42)
	assert.True(t, r.OK())
	assert.Equal(t, int32(42), r.Count())
	assert.NoError(t, r.Err())

	r = Result(ECONNRESET, 0)
	assert.False(t, r.OK())
	assert.Equal(t, int32(0), r.Count())
	assert.Equal(t, ECONNRESET, r.Status())
}

func TestSuccessAndFailure(t *testing.T) {
	s := Success(13)
	assert.True(t, s.OK())
	assert.Equal(t, int32(13), s.Count())

	f := Failure(EEXIST)
	assert.False(t, f.OK())
	assert.Equal(t, EEXIST, f.Status())

	assert.Panics(t, func() { Failure(OK) })
}

func TestWrapNilOnOK(t *testing.T) {
	assert.NoError(t, Wrap("open", OK))

	err := Wrap("open", EEXIST)
	require.Error(t, err)
	assert.Equal(t, "open: file already exists", err.Error())
}

func TestErrorIsMatchesBareStatusAndError(t *testing.T) {
	err := Wrap("accept", ECANCELED)
	assert.True(t, errors.Is(err, ECANCELED))
	assert.False(t, errors.Is(err, EEXIST))

	var other error = &Error{Op: "close", Status: ECANCELED}
	assert.True(t, errors.Is(err, other))
}

func TestIOResultErr(t *testing.T) {
	ok := Success(0)
	assert.NoError(t, ok.Err())

	bad := Failure(ENOENT)
	require.Error(t, bad.Err())
	assert.True(t, errors.Is(bad.Err(), ENOENT))
}
