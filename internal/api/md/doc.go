// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package md contains the data model shared by everything that reads or writes md
// RAID state through sysfs. Values of this package never hold kernel resources.
package md
