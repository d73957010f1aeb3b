package output

import (
	"bufio"
	"encoding/json"
	"io"

	"astfind/internal/engine/adapter"
	"astfind/internal/engine/match"
	"astfind/internal/engine/search"
)

const toolName = "astfind"

type matchEvent struct {
	Type      string       `json:"type"`
	Lang      *string      `json:"lang"`
	Path      string       `json:"path"`
	StartLine int          `json:"start_line"`
	EndLine   int          `json:"end_line"`
	ChunkID   string       `json:"chunk_id"`
	Score     float64      `json:"score"`
	Excerpt   *string      `json:"excerpt"`
	Capture   captureEvent `json:"capture"`
}

// captureEvent lists every slot so absent ones encode as null.
type captureEvent struct {
	Callee *string `json:"callee"`
	Object *string `json:"object"`
	Prop   *string `json:"prop"`
	Attr   *string `json:"attr"`
	Module *string `json:"module"`
	Name   *string `json:"name"`
	Kind   *string `json:"kind"`
}

type errorEvent struct {
	Type      string  `json:"type"`
	Code      string  `json:"code"`
	Message   string  `json:"message"`
	PathOrURL *string `json:"path_or_url"`
}

type summaryEvent struct {
	Type    string `json:"type"`
	Tool    string `json:"tool"`
	Message string `json:"message"`
}

type ndjsonWriter struct {
	w       io.Writer
	summary bool
}

func (n *ndjsonWriter) Write(res *search.Result) error {
	buf := bufio.NewWriter(n.w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	for _, rec := range res.Records {
		var event any
		switch rec.Type {
		case search.RecordMatch:
			event = newMatchEvent(rec.Match)
		case search.RecordError:
			event = errorEvent{
				Type:      string(search.RecordError),
				Code:      rec.Error.Code,
				Message:   rec.Error.Message,
				PathOrURL: optional(rec.Error.Path),
			}
		default:
			continue
		}
		if err := enc.Encode(event); err != nil {
			return err
		}
	}
	if n.summary {
		if err := enc.Encode(summaryEvent{Type: "summary", Tool: toolName, Message: SummaryMessage(res.Stats)}); err != nil {
			return err
		}
	}
	return buf.Flush()
}

func newMatchEvent(m *match.Match) matchEvent {
	return matchEvent{
		Type:      string(search.RecordMatch),
		Lang:      optional(m.Language),
		Path:      m.Path,
		StartLine: m.StartLine,
		EndLine:   m.EndLine,
		ChunkID:   m.ChunkID,
		Score:     m.Score,
		Excerpt:   optional(m.Excerpt),
		Capture: captureEvent{
			Callee: slot(m.Capture, adapter.SlotCallee),
			Object: slot(m.Capture, adapter.SlotObject),
			Prop:   slot(m.Capture, adapter.SlotProp),
			Attr:   slot(m.Capture, adapter.SlotAttr),
			Module: slot(m.Capture, adapter.SlotModule),
			Name:   slot(m.Capture, adapter.SlotName),
			Kind:   slot(m.Capture, adapter.SlotKind),
		},
	}
}

func slot(c adapter.Capture, name string) *string {
	if v, ok := c.Get(name); ok {
		return &v
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
