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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserDataRoundTrip(t *testing.T) {
	c := &cell{}
	got := cellFromUserData(c.userData())
	assert.Same(t, c, got)
}

func TestCellDeliverSuccessAndFailure(t *testing.T) {
	c := &cell{}
	c.deliver(13)
	assert.True(t, c.Ready())
	assert.True(t, c.ioResult().OK())
	assert.Equal(t, int32(13), c.ioResult().Count())

	c2 := &cell{}
	c2.deliver(-2) // -ENOENT
	assert.False(t, c2.ioResult().OK())
}
