package reasoning

import (
	"strings"

	"github.com/tidwall/gjson"
)

// TextPart is a free-text fragment of a vendor-native reasoning record.
type TextPart struct {
	Text      string `json:"text"`
	Signature string `json:"signature,omitempty"`
}

// SummaryPart is a summary fragment of a vendor-native reasoning record.
type SummaryPart struct {
	Text string `json:"text"`
}

// Record is a vendor-native reasoning record as produced by responses-style
// APIs: zero or more text fragments, zero or more summary fragments and an
// optional encrypted blob, all under one id.
type Record struct {
	ID               string        `json:"id,omitempty"`
	Format           Format        `json:"format,omitempty"`
	Content          []TextPart    `json:"content,omitempty"`
	Summary          []SummaryPart `json:"summary,omitempty"`
	EncryptedContent string        `json:"encrypted_content,omitempty"`
}

// FromRecord converts one vendor-native record into canonical items: one text
// item per content fragment, then one summary item per summary fragment, then
// at most one encrypted item. Index is a running counter across the three
// phases, starting at zero for every record.
func FromRecord(rec Record) []Item {
	format := rec.Format
	if format == "" {
		format = FormatUnknown
	}

	items := make([]Item, 0, len(rec.Content)+len(rec.Summary)+1)
	index := 0

	for _, part := range rec.Content {
		items = append(items, Item{
			Type:      TypeText,
			ID:        rec.ID,
			Format:    format,
			Index:     index,
			Text:      part.Text,
			Signature: part.Signature,
		})
		index++
	}

	for _, part := range rec.Summary {
		items = append(items, Item{
			Type:    TypeSummary,
			ID:      rec.ID,
			Format:  format,
			Index:   index,
			Summary: part.Text,
		})
		index++
	}

	if rec.EncryptedContent != "" {
		items = append(items, Item{
			Type:   TypeEncrypted,
			ID:     rec.ID,
			Format: format,
			Index:  index,
			Data:   rec.EncryptedContent,
		})
	}

	return items
}

// FromRecords converts every record of one turn, in order. Indices restart
// at zero for each record.
func FromRecords(recs []Record) []Item {
	var items []Item
	for _, rec := range recs {
		items = append(items, FromRecord(rec)...)
	}
	return items
}

// Normalize sniffs the shape of a raw reasoning payload and returns canonical
// items. Recognized shapes:
//
//   - a plain JSON string (free text, unknown format)
//   - an itemized "reasoning_details" entry, or an array of them
//   - a responses-style reasoning record ({"type":"reasoning", "summary": [...]})
//   - an Anthropic "thinking" or "redacted_thinking" content block
//
// Arrays may mix shapes; an array made only of records is converted with
// FromRecords. Entries of an unknown type are dropped, and itemized entries
// without an index take their position in the array. Anything else yields
// nil.
func Normalize(raw []byte) []Item {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return nil
	}
	return normalizeValue(gjson.ParseBytes(raw), 0)
}

func normalizeValue(res gjson.Result, pos int) []Item {
	switch {
	case res.Type == gjson.String:
		if res.String() == "" {
			return nil
		}
		return []Item{{Type: TypeText, Format: FormatUnknown, Index: pos, Text: res.String()}}

	case res.IsArray():
		entries := res.Array()
		if recs, ok := recordsFromResults(entries); ok {
			return FromRecords(recs)
		}
		var items []Item
		for i, entry := range entries {
			items = append(items, normalizeValue(entry, i)...)
		}
		return items

	case res.IsObject():
		return normalizeObject(res, pos)
	}

	return nil
}

func normalizeObject(res gjson.Result, pos int) []Item {
	typ := res.Get("type").String()

	switch {
	case strings.HasPrefix(typ, "reasoning."):
		if item, ok := detailFromResult(res, pos); ok {
			return []Item{item}
		}
		return nil

	case typ == "thinking":
		text := res.Get("thinking").String()
		if text == "" && res.Get("signature").String() == "" {
			return nil
		}
		return []Item{{
			Type:      TypeText,
			ID:        res.Get("id").String(),
			Format:    FormatAnthropicClaudeV1,
			Index:     pos,
			Text:      text,
			Signature: res.Get("signature").String(),
		}}

	case typ == "redacted_thinking":
		data := res.Get("data").String()
		if data == "" {
			return nil
		}
		return []Item{{
			Type:   TypeEncrypted,
			ID:     res.Get("id").String(),
			Format: FormatAnthropicClaudeV1,
			Index:  pos,
			Data:   data,
		}}

	case isRecord(res):
		return FromRecord(recordFromResult(res))
	}

	return nil
}

func isRecord(res gjson.Result) bool {
	typ := res.Get("type").String()
	return typ == "reasoning" || (typ == "" && looksLikeRecord(res))
}

func recordsFromResults(entries []gjson.Result) ([]Record, bool) {
	if len(entries) == 0 {
		return nil, false
	}
	recs := make([]Record, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsObject() || !isRecord(entry) {
			return nil, false
		}
		recs = append(recs, recordFromResult(entry))
	}
	return recs, true
}

func looksLikeRecord(res gjson.Result) bool {
	return res.Get("summary").IsArray() ||
		res.Get("content").IsArray() ||
		res.Get("encrypted_content").Exists()
}

func recordFromResult(res gjson.Result) Record {
	rec := Record{
		ID:               res.Get("id").String(),
		Format:           Format(res.Get("format").String()),
		EncryptedContent: res.Get("encrypted_content").String(),
	}
	if rec.Format == "" && res.Get("type").String() == "reasoning" {
		rec.Format = FormatOpenAIResponsesV1
	}

	res.Get("content").ForEach(func(_, part gjson.Result) bool {
		rec.Content = append(rec.Content, TextPart{
			Text:      part.Get("text").String(),
			Signature: part.Get("signature").String(),
		})
		return true
	})

	res.Get("summary").ForEach(func(_, part gjson.Result) bool {
		if part.Type == gjson.String {
			rec.Summary = append(rec.Summary, SummaryPart{Text: part.String()})
			return true
		}
		rec.Summary = append(rec.Summary, SummaryPart{Text: part.Get("text").String()})
		return true
	})

	return rec
}

func detailFromResult(res gjson.Result, pos int) (Item, bool) {
	if !res.IsObject() {
		return Item{}, false
	}

	item := Item{
		Type:   Type(res.Get("type").String()),
		ID:     res.Get("id").String(),
		Format: Format(res.Get("format").String()),
		Index:  pos,
	}
	if idx := res.Get("index"); idx.Exists() {
		item.Index = int(idx.Int())
	}
	if item.Format == "" {
		item.Format = FormatUnknown
	}

	switch item.Type {
	case TypeText:
		item.Text = res.Get("text").String()
		item.Signature = res.Get("signature").String()
	case TypeSummary:
		item.Summary = res.Get("summary").String()
	case TypeEncrypted:
		item.Data = res.Get("data").String()
	default:
		return Item{}, false
	}

	return item, true
}
