package server

import (
	"strings"

	"github.com/inkwell-go/rtfstream"
)

// Event is the wire shape pushed over /v1/stream, one JSON message per
// semantic event the core parser emits, in document order.
type Event struct {
	Type  string               `json:"type"`
	Text  string               `json:"text,omitempty"`
	State *rtfstream.FullState `json:"state,omitempty"`
	Field *FieldEvent          `json:"field,omitempty"`
	Image *ImageEvent          `json:"image,omitempty"`
}

// FieldEvent carries an onField callback's payload.
type FieldEvent struct {
	Instruction string `json:"instruction"`
	Result      string `json:"result"`
}

// ImageEvent carries an onImage callback's payload over the streaming
// endpoint without the raw bytes, to keep messages small; /v1/parse
// returns the full decoded payload inline instead.
type ImageEvent struct {
	Source string `json:"source"`
	Bytes  int    `json:"bytes"`
}

// ParseResult is the JSON body returned by /v1/parse: every paragraph
// collected during a synchronous run, plus any fields and images.
type ParseResult struct {
	Paragraphs []string      `json:"paragraphs"`
	Fields     []FieldEvent  `json:"fields"`
	Images     []ImageResult `json:"images"`
}

// ImageResult is an image collected during a synchronous /v1/parse run,
// with its decoded bytes inline.
type ImageResult struct {
	Source string `json:"source"`
	Data   []byte `json:"data"`
}

// collectingCallbacks accumulates a ParseResult across a single Parse()
// run for /v1/parse's synchronous response.
type collectingCallbacks struct {
	result  ParseResult
	current strings.Builder
}

func newCollectingCallbacks() *collectingCallbacks {
	return &collectingCallbacks{}
}

func (c *collectingCallbacks) callbacks() rtfstream.Callbacks {
	return rtfstream.Callbacks{
		OnOpenParagraph: func(p *rtfstream.Parser) {
			c.current.Reset()
		},
		OnAppendParagraph: func(p *rtfstream.Parser, text string) {
			c.current.WriteString(text)
		},
		OnCloseParagraph: func(p *rtfstream.Parser) {
			c.result.Paragraphs = append(c.result.Paragraphs, c.current.String())
			c.current.Reset()
		},
		OnStateChange: func(p *rtfstream.Parser, old, new rtfstream.FullState) {},
		OnField: func(p *rtfstream.Parser, fldinst, fldrslt string) {
			c.result.Fields = append(c.result.Fields, FieldEvent{Instruction: fldinst, Result: fldrslt})
		},
		OnImage: func(p *rtfstream.Parser, attrs rtfstream.PictAttributes, data []byte) {
			c.result.Images = append(c.result.Images, ImageResult{Source: attrs.Source, Data: data})
		},
	}
}

// finish flushes whatever paragraph text is still pending (Parse never
// auto-closes the final paragraph) and returns the accumulated result.
func (c *collectingCallbacks) finish() ParseResult {
	c.result.Paragraphs = append(c.result.Paragraphs, c.current.String())
	return c.result
}

// streamingCallbacks emits one Event per semantic event onto a channel,
// for /v1/stream to forward as they occur.
type streamingCallbacks struct {
	events chan<- Event
}

func newStreamingCallbacks(events chan<- Event) *streamingCallbacks {
	return &streamingCallbacks{events: events}
}

func (s *streamingCallbacks) callbacks() rtfstream.Callbacks {
	return rtfstream.Callbacks{
		OnOpenParagraph: func(p *rtfstream.Parser) {
			s.events <- Event{Type: "paragraph_open"}
		},
		OnAppendParagraph: func(p *rtfstream.Parser, text string) {
			s.events <- Event{Type: "paragraph_append", Text: text}
		},
		OnCloseParagraph: func(p *rtfstream.Parser) {
			s.events <- Event{Type: "paragraph_close"}
		},
		OnStateChange: func(p *rtfstream.Parser, old, new rtfstream.FullState) {
			snapshot := new
			s.events <- Event{Type: "state_change", State: &snapshot}
		},
		OnField: func(p *rtfstream.Parser, fldinst, fldrslt string) {
			s.events <- Event{Type: "field", Field: &FieldEvent{Instruction: fldinst, Result: fldrslt}}
		},
		OnImage: func(p *rtfstream.Parser, attrs rtfstream.PictAttributes, data []byte) {
			s.events <- Event{Type: "image", Image: &ImageEvent{Source: attrs.Source, Bytes: len(data)}}
		},
	}
}
