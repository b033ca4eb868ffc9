// Package initcmder provides the init command for initializing a local .reel
// directory in the current working directory.
package initcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/reel/pkg/cliui"
	"github.com/papercomputeco/reel/pkg/config"
	"github.com/papercomputeco/reel/pkg/dotdir"
)

const remoteFetchTimeout = 10 * time.Second

const initLongDesc string = `Initialize a new .reel/ directory in the current working directory.

Creates a local .reel/ directory that takes precedence over ~/.reel/ for
configuration and stored credentials, and writes a config.toml.

The --preset flag selects the upstream the proxy talks to. It accepts a
preset name or an http(s) URL to a config.toml to download:
  openrouter   OpenRouter chat completions (default)
  openai       OpenAI chat completions
  deepseek     DeepSeek chat completions (OpenAI dialect)

Without --preset an existing config.toml is left untouched; with it the
file is overwritten.

Examples:
  reel init
  reel init --preset deepseek
  reel init --preset https://example.com/reel/config.toml`

const initShortDesc string = "Initialize a local .reel/ directory"

func NewInitCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.Context(), preset)
		},
		ValidArgsFunction: cobra.NoFileCompletions,
	}

	cmd.Flags().StringVar(&preset, "preset", "", "Preset name ("+strings.Join(config.ValidPresetNames(), ", ")+") or URL to a config.toml")
	_ = cmd.RegisterFlagCompletionFunc("preset", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.ValidPresetNames(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runInit(ctx context.Context, preset string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Resolve the preset before touching the filesystem so a bad name or
	// unreachable URL leaves no half-initialized directory behind.
	var cfg *config.Config
	if preset != "" {
		var err error
		cfg, err = resolvePreset(ctx, preset)
		if err != nil {
			return err
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir, existed, err := dotdir.NewManager().Init(cwd)
	if err != nil {
		return fmt.Errorf("creating .reel directory: %w", err)
	}

	if existed {
		fmt.Printf("\n  %s %s\n", cliui.DimStyle.Render("Already initialized:"), dir)
	} else {
		fmt.Printf("\n  %s Initialized %s\n", cliui.SuccessMark, cliui.ValueStyle.Render(dir))
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg == nil {
		if _, err := os.Stat(cfger.GetTarget()); err == nil {
			fmt.Println()
			return nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking config: %w", err)
		}
		cfg = config.NewDefaultConfig()
	}

	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("  %s Wrote %s %s\n\n",
		cliui.SuccessMark,
		cliui.ValueStyle.Render(filepath.Base(cfger.GetTarget())),
		cliui.DimStyle.Render(fmt.Sprintf("(provider %s, upstream %s)", cfg.Proxy.Provider, cfg.Proxy.Upstream)),
	)
	return nil
}

func resolvePreset(ctx context.Context, preset string) (*config.Config, error) {
	if strings.HasPrefix(preset, "http://") || strings.HasPrefix(preset, "https://") {
		return fetchRemoteConfig(ctx, preset)
	}
	return config.PresetConfig(preset)
}

// fetchRemoteConfig downloads and validates a config.toml.
func fetchRemoteConfig(ctx context.Context, url string) (*config.Config, error) {
	ctx, cancel := context.WithTimeout(ctx, remoteFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching remote config: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}

	return config.ParseConfigTOML(data)
}
