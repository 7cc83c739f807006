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
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/kls-project/kio/status"
)

// MapError is the ring side of the Error Mapper: it takes a positive errno
// and returns the portable Status. A CQE's Res field reports -errno, so
// MapResult and cell.statusOnly negate it (errnoFromRes) before calling this.
// Every branch of the native errno switch is total — anything unrecognized
// falls through to status.UNKNOWN rather than panicking.
func MapError(errno syscall.Errno) status.Status {
	switch errno {
	case unix.EACCES:
		return status.EACCES
	case unix.EADDRINUSE:
		return status.EADDRINUSE
	case unix.EADDRNOTAVAIL:
		return status.EADDRNOTAVAIL
	case unix.EAFNOSUPPORT:
		return status.EAFNOSUPPORT
	case unix.EAGAIN:
		return status.EAGAIN
	case unix.EALREADY:
		return status.EALREADY
	case unix.EBADF:
		return status.EBADF
	case unix.EBUSY:
		return status.EBUSY
	case unix.ECANCELED:
		return status.ECANCELED
	case unix.ECONNABORTED:
		return status.ECONNABORTED
	case unix.ECONNREFUSED:
		return status.ECONNREFUSED
	case unix.ECONNRESET:
		return status.ECONNRESET
	case unix.EDESTADDRREQ:
		return status.EDESTADDRREQ
	case unix.EEXIST:
		return status.EEXIST
	case unix.EFAULT:
		return status.EFAULT
	case unix.E2BIG:
		return status.E2BIG
	case unix.EHOSTUNREACH:
		return status.EHOSTUNREACH
	case unix.EINTR:
		return status.EINTR
	case unix.EINVAL:
		return status.EINVAL
	case unix.EIO:
		return status.EIO
	case unix.EISCONN:
		return status.EISCONN
	case unix.EISDIR:
		return status.EISDIR
	case unix.ELOOP:
		return status.ELOOP
	case unix.EMFILE:
		return status.EMFILE
	case unix.EMSGSIZE:
		return status.EMSGSIZE
	case unix.ENAMETOOLONG:
		return status.ENAMETOOLONG
	case unix.ENETDOWN:
		return status.ENETDOWN
	case unix.ENETUNREACH:
		return status.ENETUNREACH
	case unix.ENFILE:
		return status.ENFILE
	case unix.ENOBUFS:
		return status.ENOBUFS
	case unix.ENODEV:
		return status.ENODEV
	case unix.ENOENT:
		return status.ENOENT
	case unix.ENOMEM:
		return status.ENOMEM
	case unix.ENONET:
		return status.ENONET
	case unix.ENOPROTOOPT:
		return status.ENOPROTOOPT
	case unix.ENOSPC:
		return status.ENOSPC
	case unix.ENOSYS:
		return status.ENOSYS
	case unix.ENOTCONN:
		return status.ENOTCONN
	case unix.ENOTDIR:
		return status.ENOTDIR
	case unix.ENOTEMPTY:
		return status.ENOTEMPTY
	case unix.ENOTSOCK:
		return status.ENOTSOCK
	case unix.EOPNOTSUPP:
		return status.ENOTSUP
	case unix.EOVERFLOW:
		return status.EOVERFLOW
	case unix.EPERM:
		return status.EPERM
	case unix.EPIPE:
		return status.EPIPE
	case unix.EPROTO:
		return status.EPROTO
	case unix.EPROTONOSUPPORT:
		return status.EPROTONOSUPPORT
	case unix.EPROTOTYPE:
		return status.EPROTOTYPE
	case unix.ERANGE:
		return status.ERANGE
	case unix.EROFS:
		return status.EROFS
	case unix.ESHUTDOWN:
		return status.ESHUTDOWN
	case unix.ESPIPE:
		return status.ESPIPE
	case unix.ESRCH:
		return status.ESRCH
	case unix.ETIMEDOUT:
		return status.ETIMEDOUT
	case unix.ETXTBSY:
		return status.ETXTBSY
	case unix.EXDEV:
		return status.EXDEV
	case unix.ENXIO:
		return status.ENXIO
	case unix.EMLINK:
		return status.EMLINK
	case unix.ENOTTY:
		return status.ENOTTY
	case unix.EILSEQ:
		return status.EILSEQ
	case unix.ESOCKTNOSUPPORT:
		return status.ESOCKTNOSUPPORT
	default:
		return status.UNKNOWN
	}
}

// MapResult is the ring completion convention: a non-negative CQE result
// is a byte count, a negative one is -errno.
func MapResult(res int32) status.IOResult {
	if res >= 0 {
		return status.Success(res)
	}
	return status.Failure(MapError(errnoFromRes(res)))
}

func errnoFromRes(res int32) syscall.Errno {
	return syscall.Errno(-res)
}
