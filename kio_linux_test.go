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
	"testing"

	"github.com/kls-project/kio/internal/ring"
)

// skipIfRingUnsupported skips the calling test if the kernel this is
// running on doesn't support io_uring (too old, seccomp-filtered, etc).
func skipIfRingUnsupported(t *testing.T) {
	t.Helper()
	if _, err := ring.Get(); err != nil {
		t.Skipf("io_uring unavailable: %v", err)
	}
}
