package reelcmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	reelcmder "github.com/papercomputeco/reel/cmd/reel"
)

var _ = Describe("NewReelCmd", func() {
	It("registers every subcommand", func() {
		cmd := reelcmder.NewReelCmd()
		names := []string{}
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("serve", "replay", "config", "init", "auth", "version"))
	})

	It("exposes the shared persistent flags", func() {
		cmd := reelcmder.NewReelCmd()
		Expect(cmd.PersistentFlags().Lookup("debug")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})
})
