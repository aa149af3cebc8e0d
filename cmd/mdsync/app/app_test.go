// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"sigs.k8s.io/yaml"

	"github.com/ironcore-dev/mdsync/internal/api/md"
	"github.com/ironcore-dev/mdsync/internal/sysfs"
)

var _ = Describe("mdsync", func() {
	var (
		root string
		tree sysfs.Tree
	)

	write := func(path, val string) {
		GinkgoHelper()
		Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
		Expect(os.WriteFile(path, []byte(val), 0644)).To(Succeed())
	}

	run := func(args ...string) (string, error) {
		GinkgoHelper()
		var out bytes.Buffer
		cmd := NewCommand()
		cmd.SetOut(&out)
		cmd.SetErr(GinkgoWriter)
		cmd.SetArgs(append([]string{"--sysfs-root", root}, args...))
		err := cmd.ExecuteContext(context.Background())
		return out.String(), err
	}

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		tree = sysfs.NewTree(root)
		for attr, val := range map[string]string{
			"metadata_version": "1.2\n",
			"level":            "raid1\n",
			"layout":           "0\n",
			"raid_disks":       "2\n",
			"component_size":   "1024\n",
			"chunk_size":       "0\n",
			"safe_mode_delay":  "0.200\n",
			"array_state":      "clean\n",
			"mismatch_cnt":     "0\n",
			"sync_action":      "idle\n",
		} {
			write(tree.ArrayAttr("md0", attr), val)
		}
		for attr, val := range map[string]string{
			"slot":   "0\n",
			"offset": "2048\n",
			"size":   "1024\n",
			"state":  "in_sync\n",
			"errors": "0\n",
		} {
			write(tree.MemberAttr("md0", "dev-sdb", attr), val)
		}
		write(tree.BlockPath("sdb", "dev"), "8:16\n")
		Expect(os.Symlink(tree.BlockPath("sdb"), tree.MemberAttr("md0", "dev-sdb", "block"))).To(Succeed())
	})

	It("shows a snapshot as yaml", func() {
		out, err := run("show", "md0")
		Expect(err).NotTo(HaveOccurred())

		var a md.ArraySnapshot
		Expect(yaml.Unmarshal([]byte(out), &a)).To(Succeed())
		Expect(a.Level).To(Equal(md.LevelRaid1))
		Expect(a.SafeModeDelay).To(BeEquivalentTo(200))
		Expect(a.FailedDisks).To(Equal(1))
		Expect(a.Devices).To(HaveLen(1))
		Expect(a.Devices[0].State).To(Equal(md.MemberStateInSync))
	})

	It("shows a snapshot as json", func() {
		out, err := run("show", "md0", "-o", "json")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(`"level": "raid1"`))
	})

	It("freezes and thaws resync", func() {
		out, err := run("freeze", "md0")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("frozen\n"))

		out, err = run("freeze", "md0")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("already frozen\n"))

		write(tree.ArrayAttr("md0", "sync_action"), "")
		Expect(run("thaw", "md0")).Error().NotTo(HaveOccurred())
		Expect(os.ReadFile(tree.ArrayAttr("md0", "sync_action"))).To(BeEquivalentTo("idle"))
	})

	It("does not interrupt a running reshape", func() {
		write(tree.ArrayAttr("md0", "sync_action"), "reshape\n")
		_, err := run("freeze", "md0", "--timeout", "50ms", "--interval", "10ms")
		Expect(err).To(MatchError(ContainSubstring("busy")))
		Expect(os.ReadFile(tree.ArrayAttr("md0", "sync_action"))).To(BeEquivalentTo("reshape\n"))
	})

	It("requests member roles", func() {
		write(tree.MemberAttr("md0", "dev-sdb", "state"), "")
		Expect(run("set-state", "md0", "sdb", "faulty")).Error().NotTo(HaveOccurred())
		Expect(os.ReadFile(tree.MemberAttr("md0", "dev-sdb", "state"))).To(BeEquivalentTo("faulty"))

		Expect(run("set-state", "md0", "sdb", "bogus")).Error().To(HaveOccurred())
	})

	It("configures an array from a snapshot document", func() {
		for _, attr := range []string{"level", "raid_disks", "chunk_size", "layout", "component_size", "resync_start", "safe_mode_delay"} {
			write(tree.ArrayAttr("md0", attr), "")
		}
		doc := filepath.Join(GinkgoT().TempDir(), "md0.yaml")
		write(doc, "level: raid1\nraidDisks: 2\ncomponentSize: 2048\nresyncStart: 0\n")

		Expect(run("configure", "md0", "-f", doc, "--safe-mode-delay", "1500")).Error().NotTo(HaveOccurred())
		Expect(os.ReadFile(tree.ArrayAttr("md0", "level"))).To(BeEquivalentTo("raid1"))
		Expect(os.ReadFile(tree.ArrayAttr("md0", "component_size"))).To(BeEquivalentTo("1024"))
		Expect(os.ReadFile(tree.ArrayAttr("md0", "safe_mode_delay"))).To(BeEquivalentTo("1.500\n"))
	})

	It("applies SYSFS rules from the configuration file", func() {
		write(tree.ArrayAttr("md0", "sync_speed_max"), "")
		conf := filepath.Join(GinkgoT().TempDir(), "mdadm.conf")
		write(conf, "ARRAY /dev/md0 uuid=3aaa0122:29827cfa:5331ad66:ca767371\n"+
			"SYSFS uuid=3aaa0122:29827cfa:5331ad66:ca767371 sync_speed_max=5000\n"+
			"SYSFS name=/dev/md0 ../uevent=change\n")
		write(tree.BlockPath("md0", "uevent"), "")

		_, err := run("--config", conf, "apply-rules", "md0")
		Expect(err).To(HaveOccurred())
		Expect(os.ReadFile(tree.ArrayAttr("md0", "sync_speed_max"))).To(BeEquivalentTo("5000"))
		Expect(os.ReadFile(tree.BlockPath("md0", "uevent"))).To(BeEmpty())
	})

	It("reads tool options from a file", func() {
		opts := filepath.Join(GinkgoT().TempDir(), "mdsync.yaml")
		write(opts, "sysfsRoot: "+root+"\n")
		cmd := NewCommand()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(GinkgoWriter)
		cmd.SetArgs([]string{"--options", opts, "freeze", "md0"})
		Expect(cmd.ExecuteContext(context.Background())).To(Succeed())
		Expect(out.String()).To(Equal("frozen\n"))
	})
})
