// Package versioncmder provides "reel version", reporting the build the
// proxy was cut from. The values are stamped into pkg/utils by -ldflags at
// release time and read "dev" in local builds.
package versioncmder

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/reel/pkg/utils"
)

const versionLongDesc string = `Print the reel build information.

Reports the release version, the commit it was built from, the build time
and the Go toolchain and platform. Include this output when reporting a
stream that reel decodes differently from its upstream.

With --short only the release version is printed.

Examples:
  reel version
  reel version --short`

type VersionCommander struct {
	short bool
}

func NewVersionCmd() *cobra.Command {
	cmder := &VersionCommander{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the reel build information",
		Long:  versionLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&cmder.short, "short", false, "Print only the release version")

	return cmd
}

func (c *VersionCommander) run(w io.Writer) error {
	if c.short {
		_, err := fmt.Fprintln(w, utils.Version)
		return err
	}

	_, err := fmt.Fprintf(w, "reel %s\n  commit:   %s\n  built:    %s\n  go:       %s %s/%s\n",
		utils.Version, utils.Sha, utils.Buildtime,
		runtime.Version(), runtime.GOOS, runtime.GOARCH,
	)
	return err
}
