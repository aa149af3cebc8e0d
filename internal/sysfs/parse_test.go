// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package sysfs

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Number parsing", func() {
	DescribeTable("ParseU64",
		func(in string, expected uint64) {
			Expect(ParseU64(in)).To(Equal(expected))
		},
		Entry("plain", "512", uint64(512)),
		Entry("trailing newline", "512\n", uint64(512)),
		Entry("trailing space", "7 ", uint64(7)),
		Entry("hex prefix", "0x10", uint64(16)),
	)

	DescribeTable("ParseU64 rejects garbage",
		func(in string) {
			_, err := ParseU64(in)
			Expect(err).To(HaveOccurred())
		},
		Entry("empty", ""),
		Entry("trailing letters", "12abc"),
		Entry("word", "none"),
		Entry("closing paren", "12)"),
	)

	DescribeTable("ParseTwoNumbers",
		func(in string, first, second uint64, count int) {
			f, s, n, err := ParseTwoNumbers(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(f).To(Equal(first))
			Expect(s).To(Equal(second))
			Expect(n).To(Equal(count))
		},
		Entry("single value", "512", uint64(512), uint64(512), 1),
		Entry("single value with newline", "512\n", uint64(512), uint64(512), 1),
		Entry("parenthesised second value", "512 (1024)", uint64(512), uint64(1024), 2),
		Entry("slash separated", "512 / 1024", uint64(512), uint64(1024), 2),
		Entry("parenthesised with newline", "512 (1024)\n", uint64(512), uint64(1024), 2),
		Entry("unparsable second value", "512 (abc)", uint64(512), uint64(512), 1),
	)

	It("rejects a malformed first value", func() {
		_, _, _, err := ParseTwoNumbers("x (1)")
		Expect(err).To(HaveOccurred())
	})

	It("parses device numbers", func() {
		major, minor, err := ParseDevNumbers("8:16\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(major).To(BeEquivalentTo(8))
		Expect(minor).To(BeEquivalentTo(16))

		_, _, err = ParseDevNumbers("8-16")
		Expect(err).To(HaveOccurred())
	})
})
