package versioncmder_test

import (
	"bytes"
	"runtime"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	versioncmder "github.com/papercomputeco/reel/cmd/version"
	"github.com/papercomputeco/reel/pkg/utils"
)

var _ = Describe("NewVersionCmd", func() {
	var out bytes.Buffer

	BeforeEach(func() {
		out.Reset()
	})

	It("prints the build information", func() {
		cmd := versioncmder.NewVersionCmd()
		cmd.SetOut(&out)
		cmd.SetArgs(nil)
		Expect(cmd.Execute()).To(Succeed())

		Expect(out.String()).To(HavePrefix("reel " + utils.Version + "\n"))
		Expect(out.String()).To(ContainSubstring("commit:   " + utils.Sha))
		Expect(out.String()).To(ContainSubstring(runtime.GOOS + "/" + runtime.GOARCH))
	})

	It("prints only the version with --short", func() {
		cmd := versioncmder.NewVersionCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--short"})
		Expect(cmd.Execute()).To(Succeed())

		Expect(out.String()).To(Equal(utils.Version + "\n"))
	})

	It("takes no arguments", func() {
		cmd := versioncmder.NewVersionCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"extra"})
		Expect(cmd.Execute()).NotTo(Succeed())
	})
})
