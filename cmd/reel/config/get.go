package configcmder

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/reel/pkg/cliui"
	"github.com/papercomputeco/reel/pkg/config"
)

const getLongDesc string = `Print one or more configuration values.

Values come from config.toml in the .reel/ directory; keys missing from the
file print the built-in default the proxy would use (for example
proxy.upstream falls back to https://openrouter.ai/api). Flags and REEL_*
environment variables are not consulted here, only the file and defaults.

With --value-only the bare values are printed one per line, in argument
order, so they can be substituted into other commands.

Examples:
  reel config get proxy.upstream
  reel config get eventstream.brokers eventstream.topic
  reel serve --listen "$(reel config get --value-only proxy.listen)"`

const getShortDesc string = "Print configuration values"

func newGetCmd() *cobra.Command {
	var valueOnly bool

	cmd := &cobra.Command{
		Use:   "get <key> [key...]",
		Short: getShortDesc,
		Long:  getLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runGet(cmd.OutOrStdout(), args, configDir, valueOnly)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			remaining := make([]string, 0, len(config.ValidConfigKeys()))
			for _, key := range config.ValidConfigKeys() {
				if !slices.Contains(args, key) {
					remaining = append(remaining, key)
				}
			}
			return remaining, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolVar(&valueOnly, "value-only", false, "Print bare values, one per line")

	return cmd
}

func runGet(w io.Writer, keys []string, configDir string, valueOnly bool) error {
	for _, key := range keys {
		if !config.IsValidConfigKey(key) {
			return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
				key, strings.Join(config.ValidConfigKeys(), ", "))
		}
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	values := make([]string, len(keys))
	for i, key := range keys {
		if values[i], err = cfger.GetConfigValue(key); err != nil {
			return err
		}
	}

	if valueOnly {
		for _, v := range values {
			fmt.Fprintln(w, v)
		}
		return nil
	}

	if target := cfger.GetTarget(); target != "" {
		fmt.Fprintf(w, "\n  %s %s\n\n", cliui.KeyStyle.Render("Config file:"), cliui.DimStyle.Render(target))
	} else {
		fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No .reel/config.toml found, showing defaults."))
	}

	width := 0
	for _, key := range keys {
		width = max(width, len(key))
	}
	for i, key := range keys {
		shown := cliui.ValueStyle.Render(values[i])
		if values[i] == "" {
			shown = cliui.DimStyle.Render("<not set>")
		}
		fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render(fmt.Sprintf("%-*s", width, key)), shown)
	}
	fmt.Fprintln(w)

	return nil
}
