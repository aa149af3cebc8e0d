// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package mdsysfs

import (
	"strings"
)

// FreezeResult is the outcome of Freeze.
type FreezeResult int

const (
	// FreezeUnsupported means sync_action could not be read or set to frozen.
	FreezeUnsupported FreezeResult = iota
	// FreezeAlreadyFrozen means someone else froze the array; nothing was written.
	FreezeAlreadyFrozen
	// FreezeFrozen means this call froze resync and the caller should thaw it.
	FreezeFrozen
	// FreezeImplicit means the array has no sync_action, so nothing can resync.
	FreezeImplicit
	// FreezeBusy means another sync action such as a reshape is running.
	FreezeBusy
)

func (r FreezeResult) String() string {
	switch r {
	case FreezeUnsupported:
		return "unsupported"
	case FreezeAlreadyFrozen:
		return "already frozen"
	case FreezeFrozen:
		return "frozen"
	case FreezeImplicit:
		return "implicitly frozen"
	case FreezeBusy:
		return "busy"
	}
	return "unknown"
}

// Frozen reports whether resync is known to be stopped after the call.
func (r FreezeResult) Frozen() bool {
	return r == FreezeFrozen || r == FreezeImplicit || r == FreezeAlreadyFrozen
}

// Freeze stops background resync/recovery of an array or container. The check and
// the write are separate steps, so FreezeBusy is advisory: callers retry or give
// up, they never force the write.
func (c *Client) Freeze(devnm string) FreezeResult {
	if !c.AttributeAvailable(devnm, "", "sync_action") {
		return FreezeImplicit
	}
	action, err := c.GetString(devnm, "", "sync_action", 20)
	if err != nil {
		return FreezeUnsupported
	}
	switch strings.TrimSuffix(action, "\n") {
	case "frozen":
		return FreezeAlreadyFrozen
	case "idle", "recover":
	default:
		return FreezeBusy
	}
	if err := c.SetString(devnm, "", "sync_action", "frozen"); err != nil {
		return FreezeUnsupported
	}
	return FreezeFrozen
}

// Thaw lets resync/recovery continue after a successful Freeze.
func (c *Client) Thaw(devnm string) error {
	return c.SetString(devnm, "", "sync_action", "idle")
}
