// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package mdsysfs

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ironcore-dev/mdsync/internal/api/md"
)

var _ = Describe("Member lifecycle", func() {
	var (
		tree   *fakeTree
		client *Client
		array  *md.ArraySnapshot
		dev    *md.MemberDevice
	)

	member := func(name string) string {
		GinkgoHelper()
		return tree.read(tree.MemberAttr("md0", "dev-sdb", name))
	}

	BeforeEach(func() {
		tree = newFakeTree()
		client = NewClient(GinkgoLogr, tree.Tree)
		tree.array("md0", map[string]string{"new_dev": ""})
		// The kernel creates the member directory once new_dev is written.
		tree.member("md0", "sdb", 8, 16, map[string]string{
			"offset":         "",
			"size":           "",
			"state":          "",
			"slot":           "",
			"recovery_start": "",
			"bad_blocks":     "",
		})

		array = md.NewArraySnapshot("md0")
		array.Level = md.LevelRaid1
		array.ConsistencyPolicy = md.ConsistencyPolicyBitmap
		dev = &md.MemberDevice{
			Major:         8,
			Minor:         16,
			RaidDisk:      1,
			DataOffset:    2048,
			ComponentSize: 2097151,
			RecoveryStart: md.MaxSector,
		}
	})

	Describe("AddDisk", func() {
		It("registers and configures an in-sync member", func() {
			Expect(client.AddDisk(array, dev, false)).To(Succeed())
			Expect(dev.SysName).To(Equal("dev-sdb"))
			Expect(tree.read(tree.ArrayAttr("md0", "new_dev"))).To(Equal("8:16"))
			Expect(member("offset")).To(Equal("2048"))
			Expect(member("size")).To(Equal("1048576"))
			Expect(member("state")).To(Equal("insync"))
			Expect(member("slot")).To(Equal("1"))
			Expect(member("recovery_start")).To(BeEmpty())
		})

		It("writes the recovery position when resuming", func() {
			dev.RecoveryStart = 4096
			Expect(client.AddDisk(array, dev, true)).To(Succeed())
			Expect(member("recovery_start")).To(Equal("4096"))
			Expect(member("state")).To(BeEmpty())
		})

		It("removes the device again when recovery cannot resume", func() {
			Expect(os.Remove(tree.MemberAttr("md0", "dev-sdb", "recovery_start"))).To(Succeed())
			tree.write(tree.MemberAttr("md0", "dev-sdb", "offset"), "sentinel")
			tree.write(tree.MemberAttr("md0", "dev-sdb", "size"), "sentinel")
			dev.RecoveryStart = 4096

			Expect(client.AddDisk(array, dev, true)).NotTo(Succeed())
			Expect(member("state")).To(Equal("remove"))
			Expect(member("offset")).To(Equal("sentinel"))
			Expect(member("size")).To(Equal("sentinel"))
		})

		It("does not probe fully recovered devices", func() {
			Expect(os.Remove(tree.MemberAttr("md0", "dev-sdb", "recovery_start"))).To(Succeed())
			Expect(client.AddDisk(array, dev, true)).To(Succeed())
			Expect(member("state")).To(Equal("insync"))
		})

		It("writes only placement for container members", func() {
			array.Level = md.LevelContainer
			Expect(client.AddDisk(array, dev, false)).To(Succeed())
			Expect(member("offset")).To(Equal("2048"))
			Expect(member("slot")).To(BeEmpty())
			Expect(member("state")).To(BeEmpty())
		})

		It("writes the ppl location", func() {
			array.ConsistencyPolicy = md.ConsistencyPolicyPPL
			tree.write(tree.MemberAttr("md0", "dev-sdb", "ppl_sector"), "")
			tree.write(tree.MemberAttr("md0", "dev-sdb", "ppl_size"), "")
			dev.PPLSector, dev.PPLSize = 8, 2048
			Expect(client.AddDisk(array, dev, false)).To(Succeed())
			Expect(member("ppl_sector")).To(Equal("8"))
			Expect(member("ppl_size")).To(Equal("2048"))
		})

		It("enables the external bad block list and appends entries", func() {
			dev.BadBlocks = md.BadBlocks{
				Supported: true,
				Entries:   []md.BadBlock{{Sector: 8, Length: 8}, {Sector: 1024, Length: 16}},
			}
			Expect(client.AddDisk(array, dev, false)).To(Succeed())
			Expect(member("state")).To(Equal("external_bbl"))
			Expect(member("bad_blocks")).To(Equal("1024 16\n"))
		})

		It("fails when bad blocks are known but cannot be tracked", func() {
			Expect(os.Remove(tree.MemberAttr("md0", "dev-sdb", "state"))).To(Succeed())
			dev.BadBlocks = md.BadBlocks{
				Supported: true,
				Entries:   []md.BadBlock{{Sector: 8, Length: 8}},
			}
			Expect(client.AddDisk(array, dev, false)).NotTo(Succeed())
			Expect(member("bad_blocks")).To(BeEmpty())
		})

		It("ignores missing bad block tracking without known bad blocks", func() {
			Expect(os.Remove(tree.MemberAttr("md0", "dev-sdb", "state"))).To(Succeed())
			dev.BadBlocks = md.BadBlocks{Supported: true}
			Expect(client.AddDisk(array, dev, false)).To(Succeed())
		})

		It("aggregates failed bad block writes", func() {
			Expect(os.Remove(tree.MemberAttr("md0", "dev-sdb", "bad_blocks"))).To(Succeed())
			dev.BadBlocks = md.BadBlocks{
				Supported: true,
				Entries:   []md.BadBlock{{Sector: 8, Length: 8}, {Sector: 1024, Length: 16}},
			}
			Expect(client.AddDisk(array, dev, false)).NotTo(Succeed())
			Expect(member("slot")).To(Equal("1"))
		})

		It("fails when the kernel refuses the device", func() {
			Expect(os.Remove(tree.ArrayAttr("md0", "new_dev"))).To(Succeed())
			Expect(client.AddDisk(array, dev, false)).NotTo(Succeed())
			Expect(member("offset")).To(BeEmpty())
		})
	})

	Describe("SetMemberState", func() {
		It("writes a single role", func() {
			Expect(client.SetMemberState("md0", "dev-sdb", md.MemberStateFaulty)).To(Succeed())
			Expect(member("state")).To(Equal("faulty"))
		})

		It("rejects combined and unknown roles", func() {
			Expect(client.SetMemberState("md0", "dev-sdb", md.MemberStateFaulty|md.MemberStateInSync)).NotTo(Succeed())
			Expect(client.SetMemberState("md0", "dev-sdb", md.MemberStateUnknown)).NotTo(Succeed())
			Expect(member("state")).To(BeEmpty())
		})
	})
})
