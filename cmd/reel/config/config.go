// Package configcmder provides the config command for managing persistent
// reel configuration stored in the .reel/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent reel configuration.

Configuration is stored as config.toml in the .reel/ directory and provides
default values for command flags. Environment variables (REEL_PROXY_LISTEN,
REEL_EVENTSTREAM_TOPIC, ...) and CLI flags take precedence over config file
values.

Keys use dotted notation matching the TOML section structure:
  proxy.provider, proxy.upstream, proxy.listen, proxy.raw_chunks,
  proxy.record_dir,
  eventstream.provider, eventstream.brokers, eventstream.topic,
  log.level, log.json, log.file

Use subcommands to get, set, or list configuration values:
  reel config set <key> <value>    Set a configuration value
  reel config get <key>            Get a configuration value
  reel config list                 List all configuration values

Examples:
  reel config set proxy.provider auto
  reel config set eventstream.brokers kafka-1:9092,kafka-2:9092
  reel config get proxy.upstream
  reel config list`

const configShortDesc string = "Manage persistent reel configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
