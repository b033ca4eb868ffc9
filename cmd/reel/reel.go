// Package reelcmder wires the reel command tree.
package reelcmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/reel/cmd/reel/auth"
	configcmder "github.com/papercomputeco/reel/cmd/reel/config"
	initcmder "github.com/papercomputeco/reel/cmd/reel/init"
	replaycmder "github.com/papercomputeco/reel/cmd/reel/replay"
	servecmder "github.com/papercomputeco/reel/cmd/reel/serve"
	versioncmder "github.com/papercomputeco/reel/cmd/version"
)

const reelLongDesc string = `Reel turns chat-completion streams into ordered, typed events.

It runs as a proxy in front of an OpenAI-compatible upstream and answers
streaming requests with text, reasoning, tool and finish events, keeping
reasoning details intact across tool-augmented turns.

  reel init              Create a local .reel/ directory
  reel serve             Run the translating proxy
  reel replay <file>     Decode a recorded upstream stream
  reel config            Manage persistent configuration
  reel auth <provider>   Store upstream API keys`

const reelShortDesc string = "Reel - streaming event translation"

func NewReelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reel",
		Short:         reelShortDesc,
		Long:          reelLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .reel/ config directory")

	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(replaycmder.NewReplayCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
