// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package mdsysfs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ironcore-dev/mdsync/internal/api/md"
)

const externalPrefix = "external:"

// decodeMetadataVersion decodes md/metadata_version.
func decodeMetadataVersion(s string) (major, minor int, text string, err error) {
	switch {
	case s == "none":
		return md.VersionNone, md.VersionNone, "", nil
	case strings.HasPrefix(s, externalPrefix):
		return md.VersionNone, md.VersionExternal, strings.TrimPrefix(s, externalPrefix), nil
	}
	maj, min, ok := strings.Cut(s, ".")
	if !ok {
		return 0, 0, "", fmt.Errorf("invalid metadata version %q", s)
	}
	if major, err = strconv.Atoi(maj); err != nil {
		return 0, 0, "", fmt.Errorf("invalid metadata major version %q: %w", s, err)
	}
	if minor, err = strconv.Atoi(min); err != nil {
		return 0, 0, "", fmt.Errorf("invalid metadata minor version %q: %w", s, err)
	}
	return major, minor, s, nil
}

// decodeSafeModeDelay converts "<seconds>.<fraction>" to milliseconds. The number of
// fraction digits sets the scale, which differs between kernel versions.
func decodeSafeModeDelay(s string) (uint64, error) {
	whole, frac, _ := strings.Cut(s, ".")
	if i := strings.IndexFunc(frac, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
		frac = frac[:i]
	}
	scale := uint64(1)
	for range frac {
		scale *= 10
	}
	v, err := strconv.ParseUint(whole+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid safe mode delay %q: %w", s, err)
	}
	return (v*1000 + scale/2) / scale, nil
}

// encodeSafeModeDelay renders milliseconds the way the kernel expects them. The
// trailing newline is required by kernels older than 2.6.28.
func encodeSafeModeDelay(ms uint64) string {
	return fmt.Sprintf("%d.%03d\n", ms/1000, ms%1000)
}

// decodeBitmapLocation decodes md/bitmap/location.
func decodeBitmapLocation(s string) (int64, error) {
	switch {
	case strings.HasPrefix(s, "file"):
		return 1, nil
	case s == "none":
		return 0, nil
	case strings.HasPrefix(s, "+"):
		off, err := strconv.ParseInt(s[1:], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid bitmap offset %q: %w", s, err)
		}
		return off, nil
	}
	return 0, fmt.Errorf("unknown bitmap location %q", s)
}

// decodeRecoveryStart decodes md/dev-*/recovery_start where "none" means fully recovered.
func decodeRecoveryStart(s string) (uint64, error) {
	if s == "none" || s == "max" {
		return md.MaxSector, nil
	}
	return strconv.ParseUint(s, 10, 64)
}

// decodeBadBlocks parses "<sector> <length>" lines.
func decodeBadBlocks(s string) ([]md.BadBlock, error) {
	var entries []md.BadBlock
	for _, line := range strings.Split(s, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("invalid bad block entry %q", line)
		}
		sector, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bad block sector %q: %w", line, err)
		}
		length, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid bad block length %q: %w", line, err)
		}
		entries = append(entries, md.BadBlock{Sector: sector, Length: uint32(length)})
	}
	return entries, nil
}
