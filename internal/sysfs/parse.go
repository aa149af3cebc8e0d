// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package sysfs

import (
	"fmt"
	"strconv"
	"strings"
)

// splitNumber cuts s at the first byte contained in stop.
func splitNumber(s, stop string) (num, rest string) {
	s = strings.TrimLeft(s, " \t")
	if i := strings.IndexAny(s, stop); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// ParseU64 parses an unsigned number with C base prefixes (0x, leading 0).
// Only a space or newline may follow the number.
func ParseU64(s string) (uint64, error) {
	num, _ := splitNumber(s, " \n")
	if num == "" {
		return 0, fmt.Errorf("no number in %q", s)
	}
	v, err := strconv.ParseUint(num, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number in %q: %w", s, err)
	}
	return v, nil
}

// ParseTwoNumbers parses "N", "N (M)" or "N / M". count is 2 when a second value
// was present and 1 otherwise, in which case second equals first.
func ParseTwoNumbers(s string) (first, second uint64, count int, err error) {
	num, rest := splitNumber(s, " \n")
	if num == "" {
		return 0, 0, 0, fmt.Errorf("no number in %q", s)
	}
	first, err = strconv.ParseUint(num, 0, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid number in %q: %w", s, err)
	}

	rest = strings.TrimLeft(rest, " /(")
	num, _ = splitNumber(rest, " \n)")
	if num == "" {
		return first, first, 1, nil
	}
	second, err = strconv.ParseUint(num, 0, 64)
	if err != nil {
		return first, first, 1, nil
	}
	return first, second, 2, nil
}

// ParseDevNumbers parses "<major>:<minor>" as found in block/dev.
func ParseDevNumbers(s string) (major, minor uint32, err error) {
	maj, min, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid device number %q", s)
	}
	ma, err := strconv.ParseUint(maj, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid major in %q: %w", s, err)
	}
	mi, err := strconv.ParseUint(min, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minor in %q: %w", s, err)
	}
	return uint32(ma), uint32(mi), nil
}
