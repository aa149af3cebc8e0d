// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package mdsysfs

import (
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/ironcore-dev/mdsync/internal/sysfs"
)

// Wait blocks until the attribute open in f signals a change (sysfs_notify raises
// POLLPRI) or budget runs out. The attribute must have been read once since it was
// opened or last notified.
//
// A nil budget waits forever and a negative one returns immediately. Otherwise the
// elapsed time plus one millisecond is subtracted from *budget, so several calls
// can share one deadline.
func Wait(f *os.File, budget *time.Duration) (bool, error) {
	timeout := -1
	if budget != nil {
		switch {
		case *budget < 0:
			return false, nil
		case *budget < time.Second:
			timeout = int(budget.Milliseconds())
		default:
			timeout = int(*budget/time.Second) * 1000
		}
	}

	rc, err := f.SyscallConn()
	if err != nil {
		return false, &sysfs.Error{Kind: sysfs.KindIO, Op: "poll", Path: f.Name(), Err: err}
	}

	var (
		n    int
		perr error
	)
	start := time.Now()
	if err := rc.Control(func(fd uintptr) {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLPRI}}
		n, perr = unix.Poll(fds, timeout)
	}); err != nil {
		return false, &sysfs.Error{Kind: sysfs.KindIO, Op: "poll", Path: f.Name(), Err: err}
	}
	if budget != nil {
		*budget -= time.Since(start) + time.Millisecond
	}

	switch {
	case perr == unix.EINTR:
		return false, nil
	case perr != nil:
		return false, &sysfs.Error{Kind: sysfs.KindIO, Op: "poll", Path: f.Name(), Err: perr}
	}
	return n > 0, nil
}
