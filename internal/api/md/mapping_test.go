// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package md_test

import (
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"sigs.k8s.io/yaml"

	"github.com/ironcore-dev/mdsync/internal/api/md"
)

var _ = Describe("Mapping tables", func() {
	DescribeTable("ParseLevel",
		func(name string, expected md.Level) {
			Expect(md.ParseLevel(name)).To(Equal(expected))
		},
		Entry("raid1", "raid1", md.LevelRaid1),
		Entry("mirror alias", "mirror", md.LevelRaid1),
		Entry("numeric alias", "6", md.LevelRaid6),
		Entry("linear", "linear", md.LevelLinear),
		Entry("container", "container", md.LevelContainer),
		Entry("unknown", "raid42", md.LevelUnset),
	)

	It("renders canonical level names", func() {
		Expect(md.LevelRaid0.Name()).To(Equal("raid0"))
		Expect(md.LevelMultipath.Name()).To(Equal("multipath"))
		Expect(md.LevelUnset.Name()).To(BeEmpty())
		Expect(md.LevelUnset.SupportsResync()).To(BeFalse())
		Expect(md.LevelRaid5.SupportsResync()).To(BeTrue())
	})

	It("maps array states", func() {
		Expect(md.ParseArrayState("read-auto")).To(Equal(md.ArrayStateReadAuto))
		Expect(md.ParseArrayState("active-idle")).To(Equal(md.ArrayStateActiveIdle))
		Expect(md.ParseArrayState("bogus")).To(Equal(md.ArrayStateUnknown))
		Expect(md.ArrayStateWritePending.String()).To(Equal("write-pending"))
	})

	It("maps consistency policies", func() {
		Expect(md.ParseConsistencyPolicy("ppl")).To(Equal(md.ConsistencyPolicyPPL))
		Expect(md.ParseConsistencyPolicy("")).To(Equal(md.ConsistencyPolicyUnknown))
		Expect(md.ConsistencyPolicyResync.String()).To(Equal("resync"))
	})
})

var _ = Describe("MemberState", func() {
	It("decodes comma joined kernel text", func() {
		s := md.ParseMemberState("in_sync,write_mostly\n")
		Expect(s.Has(md.MemberStateInSync)).To(BeTrue())
		Expect(s.Has(md.MemberStateWriteMostly)).To(BeTrue())
		Expect(s.Has(md.MemberStateFaulty)).To(BeFalse())
		Expect(s.String()).To(Equal("write_mostly,in_sync"))
	})

	It("ignores unknown words", func() {
		Expect(md.ParseMemberState("want_replacement")).To(Equal(md.MemberStateUnknown))
		Expect(md.MemberStateUnknown.String()).To(Equal("unknown"))
	})

	It("names single roles from the same table", func() {
		Expect(md.MemberStateExternalBBL.Name()).To(Equal("external_bbl"))
		Expect(md.MemberStateRemove.Name()).To(Equal("remove"))
		Expect((md.MemberStateFaulty | md.MemberStateInSync).Name()).To(Equal("unknown"))
	})
})

var _ = Describe("UUID", func() {
	It("parses the four word md form", func() {
		u, err := md.ParseUUID("01234567:89abcdef:fedcba98:76543210")
		Expect(err).NotTo(HaveOccurred())
		Expect(md.FormatUUID(u)).To(Equal("01234567:89abcdef:fedcba98:76543210"))
	})

	It("accepts RFC 4122 text", func() {
		u, err := md.ParseUUID("01234567-89ab-cdef-fedc-ba9876543210")
		Expect(err).NotTo(HaveOccurred())
		Expect(u).To(Equal(uuid.MustParse("01234567-89ab-cdef-fedc-ba9876543210")))
	})

	It("rejects short or malformed input", func() {
		_, err := md.ParseUUID("0123:4567")
		Expect(err).To(HaveOccurred())
		_, err = md.ParseUUID("0123456789abcdef0123456789abcdeg")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ArraySnapshot documents", func() {
	It("decodes names of levels, states and policies", func() {
		var a md.ArraySnapshot
		Expect(yaml.Unmarshal([]byte(`
sysName: md0
level: raid5
raidDisks: 4
consistencyPolicy: ppl
arrayState: clean
devices:
- sysName: dev-sdb
  state: in_sync,write_mostly
`), &a)).To(Succeed())
		Expect(a.Level).To(Equal(md.LevelRaid5))
		Expect(a.ConsistencyPolicy).To(Equal(md.ConsistencyPolicyPPL))
		Expect(a.ArrayState).To(Equal(md.ArrayStateClean))
		Expect(a.Devices[0].State).To(Equal(md.MemberStateInSync | md.MemberStateWriteMostly))
	})

	It("rejects unknown levels", func() {
		var a md.ArraySnapshot
		Expect(yaml.Unmarshal([]byte("level: raid7\n"), &a)).NotTo(Succeed())
	})
})
