// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package md

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ParseUUID parses an md array UUID. The 32 hex digits may be separated by any of
// ':', '.', ' ' or '-', so both "a:b:c:d" words and RFC 4122 text are accepted.
func ParseUUID(s string) (uuid.UUID, error) {
	var digits strings.Builder
	for _, c := range s {
		switch {
		case strings.ContainsRune(":. -", c):
			continue
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
			digits.WriteRune(c)
		default:
			return uuid.Nil, fmt.Errorf("invalid character %q in uuid %q", c, s)
		}
	}
	if digits.Len() != 32 {
		return uuid.Nil, fmt.Errorf("uuid %q has %d hex digits, want 32", s, digits.Len())
	}
	raw, err := hex.DecodeString(digits.String())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to decode uuid %q: %w", s, err)
	}
	return uuid.FromBytes(raw)
}

// FormatUUID renders a UUID in the four-word form used by md tooling.
func FormatUUID(u uuid.UUID) string {
	h := hex.EncodeToString(u[:])
	return h[0:8] + ":" + h[8:16] + ":" + h[16:24] + ":" + h[24:32]
}
