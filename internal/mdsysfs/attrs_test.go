// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package mdsysfs

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ironcore-dev/mdsync/internal/sysfs"
)

var _ = Describe("Attribute access", func() {
	var (
		tree   *fakeTree
		client *Client
	)

	BeforeEach(func() {
		tree = newFakeTree()
		client = NewClient(GinkgoLogr, tree.Tree)
		tree.array("md0", map[string]string{
			"sync_completed": "100 / 200\n",
			"resync_start":   "4096\n",
			"level":          "raid5\n",
			"chunk_size":     "",
		})
	})

	It("reads strings, numbers and number pairs", func() {
		Expect(client.AttributeAvailable("md0", "", "level")).To(BeTrue())
		Expect(client.AttributeAvailable("md0", "", "reshape_position")).To(BeFalse())
		Expect(client.GetString("md0", "", "level", 20)).To(Equal("raid5\n"))
		Expect(client.GetU64("md0", "", "resync_start")).To(BeEquivalentTo(4096))

		first, second, count, err := client.GetTwo("md0", "", "sync_completed")
		Expect(err).NotTo(HaveOccurred())
		Expect(first).To(BeEquivalentTo(100))
		Expect(second).To(BeEquivalentTo(200))
		Expect(count).To(Equal(2))
	})

	It("rejects values that do not fit the buffer", func() {
		_, err := client.GetString("md0", "", "level", 4)
		Expect(sysfs.IsKind(err, sysfs.KindParse)).To(BeTrue())
	})

	It("writes numbers", func() {
		Expect(client.SetNum("md0", "", "chunk_size", 524288)).To(Succeed())
		Expect(tree.read(tree.ArrayAttr("md0", "chunk_size"))).To(Equal("524288"))
		Expect(client.SetNum("md0", "", "missing", 1)).NotTo(Succeed())
	})

	It("writes the safe mode delay with a trailing newline", func() {
		tree.write(tree.ArrayAttr("md0", "safe_mode_delay"), "")
		Expect(client.SetSafeModeDelay("md0", 1500)).To(Succeed())
		Expect(tree.read(tree.ArrayAttr("md0", "safe_mode_delay"))).To(Equal("1.500\n"))
	})

	It("triggers uevents", func() {
		tree.write(tree.BlockPath("md0", "uevent"), "")
		Expect(client.Uevent("md0", "change")).To(Succeed())
		Expect(tree.read(tree.BlockPath("md0", "uevent"))).To(Equal("change"))
	})

	It("checks the libata allow_tpm parameter", func() {
		Expect(client.LibataAllowTPM()).To(BeFalse())
		tree.write(tree.ModuleParam("libata", "allow_tpm"), "0\n")
		Expect(client.LibataAllowTPM()).To(BeFalse())
		tree.write(tree.ModuleParam("libata", "allow_tpm"), "1\n")
		Expect(client.LibataAllowTPM()).To(BeTrue())
	})

	It("resolves kernel names of members", func() {
		tree.blockDevice("sdb", 8, 16)
		Expect(tree.KernelName(8, 16)).To(Equal("sdb"))
	})

	It("extracts the container of a subarray", func() {
		Expect(IsSubarray("/md127/0")).To(BeTrue())
		Expect(IsSubarray("imsm")).To(BeFalse())
		Expect(ContainerDevnm("/md127/0")).To(Equal("md127"))
		Expect(ContainerDevnm("-md126/1")).To(Equal("md126"))
		_, err := ContainerDevnm("imsm")
		Expect(err).To(HaveOccurred())
	})

	It("matches attribute words", func() {
		Expect(AttrMatch("idle\n", "idle")).To(BeTrue())
		Expect(AttrMatch("in_sync,write_mostly", "in_sync")).To(BeTrue())
		Expect(AttrMatch("idler", "idle")).To(BeFalse())
		words := []string{"clear", "inactive", "active"}
		Expect(MatchWord("active\n", words)).To(Equal(2))
		Expect(MatchWord("clean\n", words)).To(Equal(len(words)))
	})
})
