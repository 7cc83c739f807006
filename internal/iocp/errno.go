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

package iocp

import (
	"golang.org/x/sys/windows"

	"github.com/kls-project/kio/status"
)

// elevationRequired is ERROR_ELEVATION_REQUIRED, not defined by
// golang.org/x/sys/windows.
const elevationRequired = 0x000002E4

// MapError is the IOCP side of the Error Mapper. sys is a raw Win32/Winsock
// error code as returned by GetLastError or WSAGetLastError.
func MapError(sys uint32) status.Status {
	if sys == 0 {
		return status.OK
	}
	switch sys {
	case uint32(windows.ERROR_NOACCESS),
		uint32(windows.WSAEACCES),
		elevationRequired,
		uint32(windows.ERROR_CANT_ACCESS_FILE):
		return status.EACCES
	case uint32(windows.ERROR_ADDRESS_ALREADY_ASSOCIATED),
		uint32(windows.WSAEADDRINUSE):
		return status.EADDRINUSE
	case uint32(windows.WSAEADDRNOTAVAIL):
		return status.EADDRNOTAVAIL
	case uint32(windows.WSAEAFNOSUPPORT):
		return status.EAFNOSUPPORT
	case uint32(windows.WSAEWOULDBLOCK):
		return status.EAGAIN
	case uint32(windows.WSAEALREADY):
		return status.EALREADY
	case uint32(windows.ERROR_INVALID_FLAGS),
		uint32(windows.ERROR_INVALID_HANDLE):
		return status.EBADF
	case uint32(windows.ERROR_LOCK_VIOLATION),
		uint32(windows.ERROR_PIPE_BUSY),
		uint32(windows.ERROR_SHARING_VIOLATION):
		return status.EBUSY
	case uint32(windows.ERROR_OPERATION_ABORTED),
		uint32(windows.WSAEINTR):
		return status.ECANCELED
	case uint32(windows.ERROR_NO_UNICODE_TRANSLATION):
		return status.ECHARSET
	case uint32(windows.ERROR_CONNECTION_ABORTED),
		uint32(windows.WSAECONNABORTED):
		return status.ECONNABORTED
	case uint32(windows.ERROR_CONNECTION_REFUSED),
		uint32(windows.WSAECONNREFUSED):
		return status.ECONNREFUSED
	case uint32(windows.ERROR_NETNAME_DELETED),
		uint32(windows.WSAECONNRESET):
		return status.ECONNRESET
	case uint32(windows.ERROR_ALREADY_EXISTS),
		uint32(windows.ERROR_FILE_EXISTS):
		return status.EEXIST
	case uint32(windows.ERROR_BUFFER_OVERFLOW),
		uint32(windows.WSAEFAULT):
		return status.EFAULT
	case uint32(windows.ERROR_HOST_UNREACHABLE),
		uint32(windows.WSAEHOSTUNREACH):
		return status.EHOSTUNREACH
	case uint32(windows.ERROR_INSUFFICIENT_BUFFER),
		uint32(windows.ERROR_INVALID_DATA),
		uint32(windows.ERROR_INVALID_PARAMETER),
		uint32(windows.ERROR_SYMLINK_NOT_SUPPORTED),
		uint32(windows.WSAEINVAL),
		uint32(windows.WSAEPFNOSUPPORT):
		return status.EINVAL
	case uint32(windows.ERROR_CRC),
		uint32(windows.ERROR_GEN_FAILURE),
		uint32(windows.ERROR_IO_DEVICE),
		uint32(windows.ERROR_OPEN_FAILED):
		return status.EIO
	case uint32(windows.WSAEISCONN):
		return status.EISCONN
	case uint32(windows.ERROR_CANT_RESOLVE_FILENAME):
		return status.ELOOP
	case uint32(windows.ERROR_TOO_MANY_OPEN_FILES),
		uint32(windows.WSAEMFILE):
		return status.EMFILE
	case uint32(windows.WSAEMSGSIZE):
		return status.EMSGSIZE
	case uint32(windows.ERROR_FILENAME_EXCED_RANGE):
		return status.ENAMETOOLONG
	case uint32(windows.ERROR_NETWORK_UNREACHABLE),
		uint32(windows.WSAENETUNREACH):
		return status.ENETUNREACH
	case uint32(windows.WSAENOBUFS):
		return status.ENOBUFS
	case uint32(windows.ERROR_BAD_PATHNAME),
		uint32(windows.ERROR_DIRECTORY),
		uint32(windows.ERROR_ENVVAR_NOT_FOUND),
		uint32(windows.ERROR_FILE_NOT_FOUND),
		uint32(windows.ERROR_INVALID_NAME),
		uint32(windows.ERROR_INVALID_DRIVE),
		uint32(windows.ERROR_MOD_NOT_FOUND),
		uint32(windows.ERROR_PATH_NOT_FOUND),
		uint32(windows.WSAHOST_NOT_FOUND),
		uint32(windows.WSANO_DATA):
		return status.ENOENT
	case uint32(windows.ERROR_NOT_ENOUGH_MEMORY),
		uint32(windows.ERROR_OUTOFMEMORY):
		return status.ENOMEM
	case uint32(windows.ERROR_CANNOT_MAKE),
		uint32(windows.ERROR_DISK_FULL),
		uint32(windows.ERROR_HANDLE_DISK_FULL):
		return status.ENOSPC
	case uint32(windows.ERROR_NOT_CONNECTED),
		uint32(windows.WSAENOTCONN):
		return status.ENOTCONN
	case uint32(windows.ERROR_DIR_NOT_EMPTY):
		return status.ENOTEMPTY
	case uint32(windows.WSAENOTSOCK):
		return status.ENOTSOCK
	case uint32(windows.ERROR_NOT_SUPPORTED):
		return status.ENOTSUP
	case uint32(windows.ERROR_BROKEN_PIPE):
		return status.EOF
	case uint32(windows.ERROR_ACCESS_DENIED),
		uint32(windows.ERROR_PRIVILEGE_NOT_HELD):
		return status.EPERM
	case uint32(windows.ERROR_BAD_PIPE),
		uint32(windows.ERROR_NO_DATA),
		uint32(windows.ERROR_PIPE_NOT_CONNECTED),
		uint32(windows.WSAESHUTDOWN):
		return status.EPIPE
	case uint32(windows.WSAEPROTONOSUPPORT):
		return status.EPROTONOSUPPORT
	case uint32(windows.ERROR_WRITE_PROTECT):
		return status.EROFS
	case uint32(windows.ERROR_SEM_TIMEOUT),
		uint32(windows.WSAETIMEDOUT):
		return status.ETIMEDOUT
	case uint32(windows.ERROR_NOT_SAME_DEVICE):
		return status.EXDEV
	case uint32(windows.ERROR_INVALID_FUNCTION):
		return status.EISDIR
	case uint32(windows.ERROR_META_EXPANSION_TOO_LONG):
		return status.E2BIG
	case uint32(windows.WSAESOCKTNOSUPPORT):
		return status.ESOCKTNOSUPPORT
	default:
		return status.UNKNOWN
	}
}

// MapResult turns a completed overlapped operation into a portable
// IOResult: success always carries the byte count IOCP reported, failure
// carries the mapped Status.
func MapResult(sys uint32, transferred uint32) status.IOResult {
	if sys == 0 {
		return status.Success(int32(transferred))
	}
	return status.Failure(MapError(sys))
}
