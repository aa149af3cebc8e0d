// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package md

import (
	"math"

	"github.com/google/uuid"
)

const (
	// MaxSector marks a member device as fully recovered.
	MaxSector uint64 = math.MaxUint64

	// DeltaDisksUnset means no reshape disk delta was requested.
	DeltaDisksUnset = math.MinInt32

	// MemberPrefix is the prefix of member device directories below md/.
	MemberPrefix = "dev-"
)

// Metadata version sentinels.
const (
	VersionNone     = -1
	VersionExternal = -2
)

// ArraySnapshot is a point-in-time copy of one md array as seen through sysfs.
// It is also used as the desired-state descriptor handed to the writer.
type ArraySnapshot struct {
	SysName string `json:"sysName"`

	Level         Level  `json:"level"`
	Layout        uint64 `json:"layout"`
	ChunkSize     uint64 `json:"chunkSize"`
	RaidDisks     int    `json:"raidDisks"`
	ComponentSize uint64 `json:"componentSize"` // 512-byte sectors

	MajorVersion int    `json:"majorVersion"`
	MinorVersion int    `json:"minorVersion"`
	TextVersion  string `json:"textVersion,omitempty"`

	ArrayState        ArrayState        `json:"arrayState"`
	ConsistencyPolicy ConsistencyPolicy `json:"consistencyPolicy"`
	SafeModeDelay     uint64            `json:"safeModeDelay"` // milliseconds
	CacheSize         uint64            `json:"cacheSize"`
	MismatchCount     uint64            `json:"mismatchCount"`
	BitmapOffset      int64             `json:"bitmapOffset"`

	ActiveDisks  int `json:"activeDisks"`
	WorkingDisks int `json:"workingDisks"`
	SpareDisks   int `json:"spareDisks"`
	FailedDisks  int `json:"failedDisks"`
	NrDisks      int `json:"nrDisks"`

	Devices []MemberDevice `json:"devices,omitempty"`

	// Fields below are only consumed when pushing a configuration to the kernel.
	UUID            uuid.UUID `json:"uuid"`
	ReshapeActive   bool      `json:"reshapeActive,omitempty"`
	DeltaDisks      int       `json:"deltaDisks,omitempty"`
	ReshapeProgress uint64    `json:"reshapeProgress,omitempty"`
	NewChunk        uint64    `json:"newChunk,omitempty"`
	NewLayout       uint64    `json:"newLayout,omitempty"`
	CustomArraySize uint64    `json:"customArraySize,omitempty"` // sectors
	ResyncStart     uint64    `json:"resyncStart,omitempty"`
}

// NewArraySnapshot returns a snapshot with all sentinels in their unset state.
func NewArraySnapshot(sysName string) *ArraySnapshot {
	return &ArraySnapshot{
		SysName:    sysName,
		Level:      LevelUnset,
		DeltaDisks: DeltaDisksUnset,
	}
}

// IsExternal reports whether the array uses externally managed metadata.
func (a *ArraySnapshot) IsExternal() bool {
	return a.MajorVersion == VersionNone && a.MinorVersion == VersionExternal
}

// Member returns the member device with the given sys name, or nil.
func (a *ArraySnapshot) Member(sysName string) *MemberDevice {
	for i := range a.Devices {
		if a.Devices[i].SysName == sysName {
			return &a.Devices[i]
		}
	}
	return nil
}

// MemberDevice is one component device of an array.
type MemberDevice struct {
	SysName       string      `json:"sysName"`
	Major         uint32      `json:"major"`
	Minor         uint32      `json:"minor"`
	RaidDisk      int         `json:"raidDisk"`
	State         MemberState `json:"state"`
	DataOffset    uint64      `json:"dataOffset"`
	NewDataOffset uint64      `json:"newDataOffset"`
	ComponentSize uint64      `json:"componentSize"` // 512-byte sectors
	Errors        uint64      `json:"errors"`
	RecoveryStart uint64      `json:"recoveryStart"`
	BadBlocks     BadBlocks   `json:"badBlocks"`
	PPLSector     uint64      `json:"pplSector,omitempty"`
	PPLSize       uint64      `json:"pplSize,omitempty"`
}

// BadBlock is a single known-unreadable sector range.
type BadBlock struct {
	Sector uint64 `json:"sector"`
	Length uint32 `json:"length"`
}

// BadBlocks is the bad-block list owned by one member device.
type BadBlocks struct {
	Supported bool       `json:"supported"`
	Entries   []BadBlock `json:"entries,omitempty"`
}
