// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package mdsysfs

// Field selects attribute groups for Read. Each group maps to one attribute.
type Field uint32

const (
	FieldVersion Field = 1 << iota
	FieldLevel
	FieldLayout
	FieldDisks
	FieldComponent
	FieldChunk
	FieldCache
	FieldMismatch
	FieldSafeMode
	FieldBitmapLocation
	FieldArrayState
	FieldConsistencyPolicy
	// FieldDevices enumerates member devices.
	FieldDevices
	// FieldDevicesAll also keeps offline members and members without a block device.
	FieldDevicesAll
	FieldOffset
	FieldSize
	FieldState
	FieldErrors
	FieldRecoveryStart
	FieldBadBlocks
	FieldPPL

	// FieldArray is every array level group.
	FieldArray = FieldVersion | FieldLevel | FieldLayout | FieldDisks | FieldComponent |
		FieldChunk | FieldCache | FieldMismatch | FieldSafeMode | FieldArrayState |
		FieldConsistencyPolicy
	// FieldMembers is every member level group.
	FieldMembers = FieldDevices | FieldOffset | FieldSize | FieldState | FieldErrors |
		FieldRecoveryStart | FieldBadBlocks | FieldPPL
)

func (f Field) has(o Field) bool {
	return f&o != 0
}
