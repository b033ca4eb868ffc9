// Package replaycmder provides the replay command, which decodes a recorded
// upstream SSE body into the events a live proxy would have emitted.
package replaycmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/reel/pkg/cliui"
	"github.com/papercomputeco/reel/pkg/config"
	"github.com/papercomputeco/reel/pkg/llm"
	"github.com/papercomputeco/reel/pkg/llm/provider"
	"github.com/papercomputeco/reel/pkg/llm/provider/openrouter"
	"github.com/papercomputeco/reel/pkg/logger"
	"github.com/papercomputeco/reel/pkg/reasoning"
	"github.com/papercomputeco/reel/pkg/stream"
)

// Output formats.
const (
	FormatEvents   = "events"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatMessage  = "message"
)

type replayCommander struct {
	provider  string
	rawChunks bool
	format    string
	mode      string
	debug     bool
}

const replayLongDesc string = `Decode a recorded upstream stream.

Reads a raw chat-completions SSE body (as captured with curl -N or a proxy
recording) from a file, or from stdin when the file is "-" or omitted, and
runs it through the same translation as "reel serve".

Formats:
  events     One styled line per event (default)
  json       One JSON event per line
  markdown   The assembled assistant turn, rendered for the terminal
  message    The assistant message to send back on the next request,
             carrying the turn's reasoning details

Examples:
  reel replay recording.sse
  curl -N ... | reel replay --format json
  reel replay recording.sse --format message --mode collapsed`

const replayShortDesc string = "Decode a recorded upstream stream"

func NewReplayCmd() *cobra.Command {
	cmder := &replayCommander{}

	cmd := &cobra.Command{
		Use:   "replay [file]",
		Short: replayShortDesc,
		Long:  replayLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening recording: %w", err)
				}
				defer f.Close()
				in = f
			}

			return cmder.run(cmd.Context(), in, cmd.OutOrStdout())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagProvider, &cmder.provider)
	config.AddBoolFlag(cmd, config.Flags, config.FlagRawChunks, &cmder.rawChunks)
	cmd.Flags().StringVarP(&cmder.format, "format", "f", FormatEvents, "Output format: events, json, markdown or message")
	cmd.Flags().StringVar(&cmder.mode, "mode", string(openrouter.ReplayItemized), "Reasoning replay mode for --format message: itemized or collapsed")

	return cmd
}

func (c *replayCommander) run(ctx context.Context, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	mode := openrouter.ReplayMode(c.mode)
	if mode != openrouter.ReplayItemized && mode != openrouter.ReplayCollapsed {
		return fmt.Errorf("unknown replay mode %q (supported: itemized, collapsed)", c.mode)
	}

	prov, err := provider.New(c.provider)
	if err != nil {
		return err
	}

	reader := stream.NewReader(ctx, in, prov,
		stream.WithRawChunks(c.rawChunks),
		stream.WithLogger(logger.New(
			logger.WithDebug(c.debug),
			logger.WithPretty(true),
			logger.WithWriter(os.Stderr),
		)),
	)
	defer reader.Close()

	switch c.format {
	case FormatEvents:
		for ev := range reader.All() {
			fmt.Fprintln(out, cliui.FormatEvent(ev))
		}
		return nil

	case FormatJSON:
		enc := json.NewEncoder(out)
		for ev := range reader.All() {
			if err := enc.Encode(ev); err != nil {
				return fmt.Errorf("encoding %s event: %w", ev.Type, err)
			}
		}
		return nil

	case FormatMarkdown:
		var asm llm.Assembler
		for ev := range reader.All() {
			asm.Add(ev)
		}
		rendered, err := cliui.RenderMarkdown(RenderTurn(&asm))
		fmt.Fprint(out, rendered)
		return err

	case FormatMessage:
		var asm llm.Assembler
		for ev := range reader.All() {
			asm.Add(ev)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(openrouter.ReplayMessage(asm.Message(), mode))

	default:
		return fmt.Errorf("unknown format %q (supported: %s, %s, %s, %s)", c.format,
			FormatEvents, FormatJSON, FormatMarkdown, FormatMessage)
	}
}

// RenderTurn renders an assembled assistant turn as markdown.
func RenderTurn(asm *llm.Assembler) string {
	var b strings.Builder
	msg := asm.Message()

	for _, block := range msg.Content {
		switch block.Type {
		case llm.BlockReasoning:
			b.WriteString("### Reasoning\n\n")
			for _, item := range block.Reasoning {
				text := item.Payload()
				if item.Type == reasoning.TypeEncrypted || text == "" {
					fmt.Fprintf(&b, "> _encrypted reasoning (%s)_\n", item.Format)
					continue
				}
				for line := range strings.SplitSeq(text, "\n") {
					b.WriteString("> " + line + "\n")
				}
			}
			b.WriteString("\n")

		case llm.BlockText:
			b.WriteString(block.Text)
			b.WriteString("\n\n")

		case llm.BlockToolUse:
			fmt.Fprintf(&b, "### Tool call `%s`\n\n", block.ToolName)
			fmt.Fprintf(&b, "```json\n%s\n```\n\n", block.ToolArguments)
		}
	}

	if f := asm.Finish(); f != nil {
		fmt.Fprintf(&b, "---\n\n**finish** `%s`", f.Reason)
		if id := f.ProviderMetadata.ResponseID; id != "" {
			fmt.Fprintf(&b, " · `%s`", id)
		}
		if u := f.Usage; u.InputTokens != nil && u.OutputTokens != nil {
			fmt.Fprintf(&b, " · %d in / %d out tokens", *u.InputTokens, *u.OutputTokens)
		}
		b.WriteString("\n")
	}

	return b.String()
}
