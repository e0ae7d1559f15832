package rtfstream

import (
	. "gopkg.in/check.v1"
)

type ParserTestSuite struct{}

var _ = Suite(&ParserTestSuite{})

// recorder collects every callback invocation in order, for assertion
// against the end-to-end scenarios in the spec's test table.
type recorder struct {
	paragraphs   []string
	current      string
	stateChanges int
	openCount    int
	closeCount   int
	fields       []fieldCall
	images       []imageCall
}

type fieldCall struct{ inst, rslt string }
type imageCall struct {
	attrs PictAttributes
	data  []byte
}

func newRecorderCallbacks(r *recorder) Callbacks {
	return Callbacks{
		OnOpenParagraph: func(p *Parser) {
			r.openCount++
		},
		OnAppendParagraph: func(p *Parser, text string) {
			r.current += text
		},
		OnCloseParagraph: func(p *Parser) {
			r.closeCount++
			r.paragraphs = append(r.paragraphs, r.current)
			r.current = ""
		},
		OnStateChange: func(p *Parser, old, new FullState) {
			r.stateChanges++
		},
		OnField: func(p *Parser, fldinst, fldrslt string) {
			r.fields = append(r.fields, fieldCall{fldinst, fldrslt})
		},
		OnImage: func(p *Parser, attrs PictAttributes, data []byte) {
			r.images = append(r.images, imageCall{attrs, data})
		},
	}
}

func mustParse(c *C, input string, r *recorder) *Parser {
	p, err := New(newRecorderCallbacks(r))
	c.Assert(err, IsNil)
	p.OpenString(input)
	err = p.Parse()
	c.Assert(err, IsNil)
	return p
}

// --- End-to-end scenarios (§8) ------------------------------------------

func (s *ParserTestSuite) TestHello(c *C) {
	r := &recorder{}
	mustParse(c, `{\rtf1 Hello}`, r)
	c.Check(r.current, Equals, "Hello")
}

func (s *ParserTestSuite) TestLineBreak(c *C) {
	r := &recorder{}
	mustParse(c, `{\rtf1 A\line B}`, r)
	c.Check(r.current, Equals, "A\nB")
}

func (s *ParserTestSuite) TestUnicodeConsumesANSIFallback(c *C) {
	r := &recorder{}
	input := "{" + `\rtf1 ` + `\u8` + `212? dash}`
	mustParse(c, input, r)
	c.Check(r.current, Equals, "— dash")
}

func (s *ParserTestSuite) TestHexEscapes(c *C) {
	r := &recorder{}
	mustParse(c, `{\rtf1 \'41\'42}`, r)
	c.Check(r.current, Equals, "AB")
}

func (s *ParserTestSuite) TestBoldToggleFiresStateChange(c *C) {
	r := &recorder{}
	mustParse(c, `{\rtf1 {\b bold}\b0 plain}`, r)
	c.Check(r.current, Equals, "boldplain")
	c.Check(r.stateChanges >= 3, Equals, true, Commentf("expected at least 3 state changes, got %d", r.stateChanges))
}

func (s *ParserTestSuite) TestFieldRoutesToOnField(c *C) {
	r := &recorder{}
	mustParse(c, `{\rtf1 {\field{\*\fldinst HYPERLINK "x"}{\fldrslt link}}}`, r)
	c.Assert(r.fields, HasLen, 1)
	c.Check(r.fields[0].inst, Equals, `HYPERLINK "x"`)
	c.Check(r.fields[0].rslt, Equals, "link")
	c.Check(r.current, Equals, "")
}

func (s *ParserTestSuite) TestFontTableSkipped(c *C) {
	r := &recorder{}
	mustParse(c, `{\rtf1 {\fonttbl{\f0 X;}}hi}`, r)
	c.Check(r.current, Equals, "hi")
}

// --- Boundary behaviors (§8, items 9-13) ---------------------------------

// The \'3 escape right after \u is suppressed. Because the hex-digit set
// excludes F, the 'f' of \'3f is not part of the escape and is appended as
// an ordinary character.
func (s *ParserTestSuite) TestHexEscapeImmediatelyAfterUnicodeIsSuppressed(c *C) {
	r := &recorder{}
	input := "{" + `\rtf1 ` + `\u8` + `212\'3f dash}`
	mustParse(c, input, r)
	c.Check(r.current, Equals, "—f dash")
}

// The tokenizer's hex-digit set for \'HH (0-9, A-E) caps the decodable
// value at 0xEE (238), so the ≤255 bound in executeControl can never
// actually reject a well-formed \'HH token; \'ee is the largest value
// reachable and still produces a character.
func (s *ParserTestSuite) TestHexEscapeAtDigitSetCeiling(c *C) {
	r := &recorder{}
	mustParse(c, `{\rtf1 \'ee}`, r)
	c.Check(r.current, Equals, string(rune(0xee)))
}

// An 'f' stops the hex-digit run (the source's digit set excludes F),
// so \'4f only consumes the '4' and leaves the 'f' as a literal character
// of the surrounding text, not part of the escape.
func (s *ParserTestSuite) TestHexEscapeStopsBeforeF(c *C) {
	r := &recorder{}
	mustParse(c, `{\rtf1 \'4fX}`, r)
	c.Check(r.current, Equals, "\x04fX")
}

func (s *ParserTestSuite) TestUnicodeWithNonNumericParamProducesNoCharacter(c *C) {
	r := &recorder{}
	// \u with no digits following has no parseable parameter.
	mustParse(c, `{\rtf1 \u X}`, r)
	c.Check(r.current, Equals, "X")
}

func (s *ParserTestSuite) TestLiteralNewlineNotAppended(c *C) {
	r := &recorder{}
	mustParse(c, "{\\rtf1 A\nB}", r)
	c.Check(r.current, Equals, "AB")
}

func (s *ParserTestSuite) TestFormattingParamOnOffSemantics(c *C) {
	cases := []struct {
		input    string
		expected bool
	}{
		{`\b`, true},
		{`\b1`, true},
		{`\b0`, false},
		{`\b2`, false},
	}
	for _, tc := range cases {
		// The closing brace restores the root's Bold, so the state is read
		// while the text that follows the control word is appended.
		var got bool
		p, err := New(Callbacks{
			OnOpenParagraph:   func(p *Parser) {},
			OnAppendParagraph: func(p *Parser, text string) { got = p.FullState().Bold },
			OnStateChange:     func(p *Parser, old, new FullState) {},
			OnField:           func(p *Parser, fldinst, fldrslt string) {},
		})
		c.Assert(err, IsNil)
		p.OpenString(`{\rtf1 ` + tc.input + ` x}`)
		c.Assert(p.Parse(), IsNil)
		c.Check(got, Equals, tc.expected, Commentf("input %q", tc.input))
	}
}

// --- Invariants -----------------------------------------------------------

func (s *ParserTestSuite) TestScopeStackReturnsToRootAtEOF(c *C) {
	r := &recorder{}
	p := mustParse(c, `{\rtf1 {\b {\i nested}}}`, r)
	c.Check(p.scopes.depth(), Equals, 1)
}

func (s *ParserTestSuite) TestUnbalancedCloseBraceIsFatal(c *C) {
	r := &recorder{}
	p, err := New(newRecorderCallbacks(r))
	c.Assert(err, IsNil)
	p.OpenString(`{\rtf1 Hello}}`)
	err = p.Parse()
	c.Assert(err, NotNil)
	rerr, ok := err.(*Error)
	c.Assert(ok, Equals, true)
	c.Check(rerr.Kind, Equals, ErrUnbalancedBrace)
}

// Setting groupSkip for \fonttbl and closing the skipped group fire nothing;
// the two state changes come from closing {\f0 X;} and the outer group,
// neither of which set a destination flag.
func (s *ParserTestSuite) TestDestinationFlagsDoNotFireStateChange(c *C) {
	r := &recorder{}
	mustParse(c, `{\rtf1 {\fonttbl{\f0 X;}}hi}`, r)
	c.Check(r.stateChanges, Equals, 2)
}

func (s *ParserTestSuite) TestFormattingAttributeRestoredOnScopeExit(c *C) {
	r := &recorder{}
	p := mustParse(c, `{\rtf1 {\b inner}after}`, r)
	c.Check(p.FullState().Bold, Equals, false)
}

func (s *ParserTestSuite) TestDoubleParProducesTwoCloseOpenPairs(c *C) {
	r := &recorder{}
	mustParse(c, `{\rtf1 a\par\par b}`, r)
	c.Check(r.openCount, Equals, 3)
	c.Check(r.closeCount, Equals, 2)
}

func (s *ParserTestSuite) TestResetAllowsReparseWithIdenticalOutput(c *C) {
	r1 := &recorder{}
	p, err := New(newRecorderCallbacks(r1))
	c.Assert(err, IsNil)
	p.OpenString(`{\rtf1 {\b bold}\b0 plain}`)
	c.Assert(p.Parse(), IsNil)

	r2 := &recorder{}
	p2, err := New(newRecorderCallbacks(r2))
	c.Assert(err, IsNil)
	p2.OpenString(`{\rtf1 {\b bold}\b0 plain}`)
	c.Assert(p2.Parse(), IsNil)

	c.Check(r1.current, Equals, r2.current)
	c.Check(r1.stateChanges, Equals, r2.stateChanges)
}

// --- Configuration / construction -----------------------------------------

func (s *ParserTestSuite) TestMissingRequiredCallbackIsConfigurationError(c *C) {
	_, err := New(Callbacks{})
	c.Assert(err, NotNil)
	rerr, ok := err.(*Error)
	c.Assert(ok, Equals, true)
	c.Check(rerr.Kind, Equals, ErrConfiguration)
}

func (s *ParserTestSuite) TestIsAttributeFormat(c *C) {
	p, err := New(newRecorderCallbacks(&recorder{}))
	c.Assert(err, IsNil)
	c.Check(p.IsAttributeFormat("bold"), Equals, true)
	c.Check(p.IsAttributeFormat("alignment"), Equals, true)
	c.Check(p.IsAttributeFormat("nonexistent"), Equals, false)
}

// --- Images ----------------------------------------------------------------

func (s *ParserTestSuite) TestPictGroupDecodesHexPayload(c *C) {
	r := &recorder{}
	mustParse(c, `{\rtf1 {\pict\pngblip\picw100\pich50 89504e47}}`, r)
	c.Assert(r.images, HasLen, 1)
	c.Check(r.images[0].attrs.Source, Equals, "png")
	c.Check(r.images[0].attrs.Numeric[`\picw`], Equals, 100)
	c.Check(r.images[0].attrs.Numeric[`\pich`], Equals, 50)
	c.Check(r.images[0].data, DeepEquals, []byte{0x89, 0x50, 0x4e, 0x47})
}
