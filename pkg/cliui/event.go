package cliui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papercomputeco/reel/pkg/llm"
)

var (
	eventTextStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	eventReasoningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	eventToolStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	eventMetaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	eventErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func eventStyle(t llm.EventType) lipgloss.Style {
	switch t {
	case llm.EventTextStart, llm.EventTextDelta, llm.EventTextEnd:
		return eventTextStyle
	case llm.EventReasoningStart, llm.EventReasoningDelta, llm.EventReasoningEnd:
		return eventReasoningStyle
	case llm.EventToolInputStart, llm.EventToolInputDelta, llm.EventToolInputEnd, llm.EventToolCall:
		return eventToolStyle
	case llm.EventError:
		return eventErrorStyle
	default:
		return eventMetaStyle
	}
}

// FormatEvent renders one event as a single styled line.
func FormatEvent(ev llm.Event) string {
	var b strings.Builder
	b.WriteString(eventStyle(ev.Type).Render(fmt.Sprintf("%-18s", ev.Type)))
	if ev.ID != "" {
		b.WriteString(" ")
		b.WriteString(DimStyle.Render(ev.ID))
	}

	if detail := eventDetail(ev); detail != "" {
		b.WriteString("  ")
		b.WriteString(detail)
	}
	return b.String()
}

func eventDetail(ev llm.Event) string {
	switch ev.Type {
	case llm.EventTextDelta, llm.EventReasoningDelta, llm.EventToolInputDelta:
		return strconv.Quote(ev.Delta)
	case llm.EventToolInputStart:
		return NameStyle.Render(ev.ToolName)
	case llm.EventToolCall:
		return NameStyle.Render(ev.ToolName) + " " + ev.Input
	case llm.EventStreamStart:
		if len(ev.Warnings) > 0 {
			return WarnStyle.Render(strings.Join(ev.Warnings, "; "))
		}
	case llm.EventSource:
		if ev.Source != nil {
			return strings.TrimSpace(ev.Source.URL + " " + DimStyle.Render(ev.Source.Title))
		}
	case llm.EventResponseMetadata:
		if ev.Metadata != nil {
			return strings.TrimSpace(ev.Metadata.ID + " " + DimStyle.Render(ev.Metadata.ModelID))
		}
	case llm.EventFinish:
		if ev.Finish != nil {
			return FormatFinish(*ev.Finish)
		}
	case llm.EventError:
		if ev.Error != nil {
			if ev.Error.Code != "" {
				return fmt.Sprintf("[%s] %s", ev.Error.Code, ev.Error.Message)
			}
			return ev.Error.Message
		}
	case llm.EventRaw:
		return DimStyle.Render(ev.Raw)
	}
	return ""
}

// FormatFinish summarizes a finish payload: reason and token usage.
func FormatFinish(f llm.Finish) string {
	parts := []string{string(f.Reason)}
	if f.RawReason != "" && f.RawReason != string(f.Reason) {
		parts[0] += DimStyle.Render(" (" + f.RawReason + ")")
	}

	u := f.Usage
	if u.InputTokens != nil || u.OutputTokens != nil {
		parts = append(parts, fmt.Sprintf("in=%s out=%s", tokens(u.InputTokens), tokens(u.OutputTokens)))
	} else {
		parts = append(parts, DimStyle.Render("usage unknown"))
	}
	if u.ReasoningTokens != nil {
		parts = append(parts, "reasoning="+tokens(u.ReasoningTokens))
	}
	if u.CachedInputTokens != nil {
		parts = append(parts, "cached="+tokens(u.CachedInputTokens))
	}
	return strings.Join(parts, "  ")
}

func tokens(n *int) string {
	if n == nil {
		return "?"
	}
	return strconv.Itoa(*n)
}
