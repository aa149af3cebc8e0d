// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package rules implements SYSFS configuration rules: attribute overrides that are
// written to an array's md directory whenever it is assembled or created.
package rules
