// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jaypipes/ghw"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ironcore-dev/mdsync/internal/mdsysfs"
	"github.com/ironcore-dev/mdsync/internal/sysfs"
)

var _ = Describe("Inventory", func() {
	var (
		tree sysfs.Tree
		inv  *Inventory
		info *ghw.BlockInfo
	)

	write := func(path, val string) {
		GinkgoHelper()
		Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
		Expect(os.WriteFile(path, []byte(val), 0644)).To(Succeed())
	}

	device := func(name string, major, minor uint32, holders ...string) {
		GinkgoHelper()
		write(tree.ClassBlockPath(name, "dev"), fmt.Sprintf("%d:%d\n", major, minor))
		write(tree.ClassBlockPath(name, "queue", "rotational"), "1\n")
		write(tree.ClassBlockPath(name, "ro"), "0\n")
		dir := tree.DevBlockPath(major, minor, "holders")
		Expect(os.MkdirAll(dir, 0755)).To(Succeed())
		for _, h := range holders {
			Expect(os.Symlink("../../../../devices/virtual/block/"+h, filepath.Join(dir, h))).To(Succeed())
		}
	}

	BeforeEach(func() {
		tree = sysfs.NewTree(GinkgoT().TempDir())
		sdb := &ghw.Disk{Name: "sdb", Vendor: "ATA", Model: "Disk", SerialNumber: "S1", SizeBytes: 1 << 30}
		sdb.Partitions = []*ghw.Partition{{Disk: sdb, Name: "sdb1", SizeBytes: 1 << 29}}
		info = &ghw.BlockInfo{
			Disks: []*ghw.Disk{
				sdb,
				{Name: "sdc", SizeBytes: 1 << 30},
			},
		}
		inv = NewInventory(GinkgoLogr, mdsysfs.NewClient(GinkgoLogr, tree)).WithLister(func() (*ghw.BlockInfo, error) {
			return info, nil
		})
	})

	It("lists disks and partitions with their holders", func() {
		device("sdb", 8, 16)
		device("sdb1", 8, 17, "md0")
		device("sdc", 8, 32, "md0", "dm-0")

		devices, err := inv.Collect("md0")
		Expect(err).NotTo(HaveOccurred())
		Expect(devices).To(HaveLen(3))

		Expect(devices[0].Name).To(Equal("sdb"))
		Expect(devices[0].Serial).To(Equal("S1"))
		Expect(devices[0].Rotational).To(BeTrue())
		Expect(devices[0].Holders).To(Equal(mdsysfs.HolderNone))

		Expect(devices[1].Name).To(Equal("sdb1"))
		Expect(devices[1].Partition).To(BeTrue())
		Expect(devices[1].Major).To(BeEquivalentTo(8))
		Expect(devices[1].Minor).To(BeEquivalentTo(17))
		Expect(devices[1].Holders).To(Equal(mdsysfs.HolderUnique))

		Expect(devices[2].Holders).To(Equal(mdsysfs.HolderShared))
	})

	It("skips devices that disappeared", func() {
		device("sdb", 8, 16)
		device("sdb1", 8, 17)
		devices, err := inv.Collect("")
		Expect(err).NotTo(HaveOccurred())
		Expect(devices).To(HaveLen(2))
	})

	It("fails when the devices cannot be listed", func() {
		inv.WithLister(func() (*ghw.BlockInfo, error) {
			return nil, errors.New("no sysfs")
		})
		_, err := inv.Collect("md0")
		Expect(err).To(MatchError(ContainSubstring("no sysfs")))
	})
})
