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

// Portable open-flag bits accepted by OpenBlock. Exactly one disposition
// table (see block_linux.go / block_windows.go) maps every combination of
// these onto the native access/creation/share flags; flag bits not named
// here are reserved.
const (
	FlagRead uint32 = 1 << iota
	FlagWrite
	FlagCreat
	FlagExcl
	FlagTrunc
	FlagExLock
)
