// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package config reads the mdadm style configuration file (DEVICE, ARRAY and
// SYSFS lines) and the YAML options of the mdsync tool.
package config
