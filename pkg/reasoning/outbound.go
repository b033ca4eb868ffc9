package reasoning

import (
	"cmp"
	"slices"
	"strings"
)

// Collapsed is the single-object replay form of a reasoning bundle: free text
// concatenated into Text, summaries concatenated into Summary and the opaque
// blob carried in Encrypted.
//
// "At most one" is per kind: a Collapsed never holds two texts, two
// summaries or two blobs, and only the first blob of the turn is kept. The
// three kinds are not exclusive of each other. A turn that produced text, a
// summary and a blob replays all three, since vendors need the blob to
// verify the turn and the readable parts to continue from it.
type Collapsed struct {
	ID        string `json:"id,omitempty"`
	Format    Format `json:"format,omitempty"`
	Text      string `json:"text,omitempty"`
	Signature string `json:"signature,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Encrypted string `json:"encrypted_content,omitempty"`
}

// Empty reports whether no payload field is populated.
func (c *Collapsed) Empty() bool {
	return c == nil || (c.Text == "" && c.Summary == "" && c.Encrypted == "")
}

// Ordered returns the valid items sorted for replay. Indices are local to
// the vendor record that produced them, so items are grouped by id in order
// of first appearance and sorted by index within each group.
func Ordered(items []Item) []Item {
	groups := make(map[string]int)
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if !item.Valid() {
			continue
		}
		if _, ok := groups[item.ID]; !ok {
			groups[item.ID] = len(groups)
		}
		out = append(out, item)
	}

	slices.SortStableFunc(out, func(a, b Item) int {
		if c := cmp.Compare(groups[a.ID], groups[b.ID]); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	return out
}

// Details returns the itemized replay form of items.
func Details(items []Item) []Item {
	ordered := Ordered(items)
	if len(ordered) == 0 {
		return nil
	}
	return ordered
}

// Collapse folds items into a single Collapsed object. It returns nil when no
// payload field would be populated.
func Collapse(items []Item) *Collapsed {
	var (
		out     Collapsed
		text    strings.Builder
		summary strings.Builder
	)

	for _, item := range Ordered(items) {
		if out.ID == "" {
			out.ID = item.ID
		}
		if out.Format == "" || out.Format == FormatUnknown {
			out.Format = item.Format
		}

		switch item.Type {
		case TypeText:
			text.WriteString(item.Text)
			if out.Signature == "" {
				out.Signature = item.Signature
			}
		case TypeSummary:
			summary.WriteString(item.Summary)
		case TypeEncrypted:
			if out.Encrypted == "" {
				out.Encrypted = item.Data
			}
		}
	}

	out.Text = text.String()
	out.Summary = summary.String()
	if out.Empty() {
		return nil
	}
	return &out
}

// Attachment assigns the items of one turn to either the turn-level record
// or a specific tool call record.
type Attachment struct {
	// Turn holds the items attached to the assistant message itself.
	Turn []Item

	// ToolCalls is aligned with the tool call ids passed to Attach.
	ToolCalls [][]Item
}

// Attach distributes items between the turn and its tool calls. Items whose
// id matches a tool call belong to tool calls, all others stay at turn
// level. Vendors reject a continuation that echoes the same reasoning block
// more than once, so only the first tool call in emission order ever carries
// reasoning: items matching any tool call are attached to the first one.
func Attach(items []Item, toolCallIDs []string) Attachment {
	att := Attachment{ToolCalls: make([][]Item, len(toolCallIDs))}
	if len(toolCallIDs) == 0 {
		att.Turn = Ordered(items)
		return att
	}

	callIDs := make(map[string]struct{}, len(toolCallIDs))
	for _, id := range toolCallIDs {
		if id != "" {
			callIDs[id] = struct{}{}
		}
	}

	var matched []Item
	for _, item := range Ordered(items) {
		if _, ok := callIDs[item.ID]; ok && item.ID != "" {
			matched = append(matched, item)
			continue
		}
		att.Turn = append(att.Turn, item)
	}
	att.ToolCalls[0] = matched

	return att
}
