package sse

import "strings"

// ParseFrame parses a single frame (as returned by Decoder.Feed) into an
// Event. Comment lines (starting with ':') are skipped. The second return
// value is false when the frame contained no SSE fields at all, e.g. a
// comment-only keep-alive frame.
func ParseFrame(frame string) (*Event, bool) {
	ev := &Event{}
	hasFields := false
	hasData := false

	for _, line := range strings.Split(frame, "\n") {
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		var field, value string
		if before, after, ok := strings.Cut(line, ":"); ok {
			field = before
			// Strip a single leading space after the colon, per the SSE standard.
			value = strings.TrimPrefix(after, " ")
		} else {
			// Line with no colon: the entire line is the field name with
			// an empty value.
			field = line
		}

		switch field {
		case "data":
			if hasData {
				// Multiple data fields are joined with "\n".
				ev.Data += "\n"
			}
			ev.Data += value
			hasData = true
			hasFields = true
		case "event":
			ev.Type = value
			hasFields = true
		case "id":
			ev.ID = value
			hasFields = true
		default:
			// * "retry" is intentionally ignored.
			// * Other unknown fields are ignored per the SSE standard.
		}
	}

	return ev, hasFields
}
