package rtfstream

import (
	"encoding/hex"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	jujuerrors "github.com/juju/errors"
)

// controlParamRe finds the first signed decimal-integer run within a
// control token, splitting it into word and parameter per §4.3.2.
var controlParamRe = regexp.MustCompile(`-?\d+`)

// splitControl splits a raw control-word token (still carrying its leading
// backslash and optional trailing space) into word and decimal parameter.
// It must not be used on the \'HH hex-escape token shape; dispatchToken
// special-cases that one before reaching here.
func splitControl(raw string) (word, param string, hasParam bool) {
	trimmed := strings.TrimRight(raw, " \t\r\n")
	loc := controlParamRe.FindStringIndex(trimmed)
	if loc == nil {
		return trimmed, "", false
	}
	return trimmed[:loc[0]], trimmed[loc[0]:], true
}

// skippedDestinations lists the control words that, when they directly
// follow '{', turn the enclosing group into a discarded destination.
var skippedDestinations = map[string]struct{}{
	`\fonttbl`:           {},
	`\filetbl`:           {},
	`\colortbl`:          {},
	`\stylesheet`:        {},
	`\stylerestrictions`: {},
	`\listtables`:        {},
	`\revtbl`:            {},
	`\rsidtable`:         {},
	`\mathprops`:         {},
	`\generator`:         {},
	`\info`:              {},
}

// pictNumericAttrs lists the \pic*/\wbm* control words whose decimal
// parameter is stored verbatim into PictAttributes.Numeric.
var pictNumericAttrs = map[string]struct{}{
	`\picscalex`:     {},
	`\picscaley`:     {},
	`\piccropl`:      {},
	`\piccropr`:      {},
	`\piccropt`:      {},
	`\piccropb`:      {},
	`\picw`:          {},
	`\pich`:          {},
	`\picwgoal`:      {},
	`\pichgoal`:      {},
	`\picbpp`:        {},
	`\wbmbitspixel`:  {},
	`\wbmplanes`:     {},
	`\wbmwidthbytes`: {},
}

// Parser drives the tokenizer against the scope stack, maintaining
// per-destination buffers and invoking Callbacks in document order. It is
// strictly single-threaded and synchronous: a Parser instance owns its
// scope stack, buffers and cursor exclusively and must not be shared
// across goroutines.
type Parser struct {
	callbacks Callbacks

	tok    *tokenizer
	scopes *scopeStack

	curTok     Token
	prevTok    Token
	havePrev   bool
	haveLoaded bool

	fldInst strings.Builder
	fldRslt strings.Builder
	blipBuf strings.Builder
	pictBuf strings.Builder

	// pendingUFallback is set for exactly one token after a successful
	// \u<decimal>, per the RTF ANSI-fallback convention (\uc default 1):
	// the single character immediately following \u is a fallback for
	// non-Unicode readers and is dropped, not appended.
	pendingUFallback bool

	// docID identifies this Parser instance for structured log correlation
	// across a long-running host process (e.g. internal/server request
	// handling); it has no effect on parsing semantics.
	docID string
}

// New constructs a Parser bound to the given Callbacks. It returns a
// ConfigurationError if any required callback is missing.
func New(callbacks Callbacks) (*Parser, error) {
	if err := callbacks.validate(); err != nil {
		return nil, err
	}
	p := &Parser{callbacks: callbacks, docID: uuid.NewString()}
	p.Reset()
	return p, nil
}

// Reset clears all parser state so the instance can be reused for another
// document.
func (p *Parser) Reset() {
	p.tok = nil
	p.scopes = newScopeStack()
	p.curTok = Token{}
	p.prevTok = Token{}
	p.havePrev = false
	p.haveLoaded = false
	p.fldInst.Reset()
	p.fldRslt.Reset()
	p.blipBuf.Reset()
	p.pictBuf.Reset()
	p.pendingUFallback = false
}

// OpenFile reads the entire file at path into the internal buffer. Resets
// any prior parser state first.
func (p *Parser) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return jujuerrors.Annotatef(err, "rtfstream: opening %q", path)
	}
	p.OpenString(string(data))
	return nil
}

// OpenString installs s as the internal buffer. Resets any prior parser
// state first.
func (p *Parser) OpenString(s string) {
	p.Reset()
	p.tok = newTokenizer(s)
	p.haveLoaded = true
}

// IsAttributeFormat reports whether name is one of the five recognized
// formatting-attribute names (italic, bold, underline, strikethrough,
// alignment).
func (p *Parser) IsAttributeFormat(name string) bool {
	_, ok := attributeNames[name]
	return ok
}

// FullState returns a read-only snapshot of the currently resolved state.
func (p *Parser) FullState() FullState {
	return p.scopes.full()
}

// Parse drives the loop against the loaded buffer, firing Callbacks in
// document order. UnbalancedBrace and MalformedEscape abort the loop
// immediately; any output already delivered via callbacks stands.
func (p *Parser) Parse() error {
	if !p.haveLoaded {
		return nil
	}

	p.logf("parse.start")

	tok, err := p.tok.next()
	if err != nil {
		return err
	}
	p.curTok = tok

	p.callbacks.OnOpenParagraph(p)

	for p.curTok.Typ != TokenEOF {
		if err := p.step(); err != nil {
			p.logf("parse.abort", "error", err.Error())
			return err
		}

		p.prevTok = p.curTok
		p.havePrev = true

		next, err := p.tok.next()
		if err != nil {
			return err
		}
		p.curTok = next
	}

	p.logf("parse.done")
	return nil
}

// step processes exactly one already-fetched token (p.curTok) per §4.3.1.
func (p *Parser) step() error {
	switch p.curTok.Typ {
	case TokenOpenBrace:
		p.pendingUFallback = false
		p.scopes.push()
		return nil

	case TokenCloseBrace:
		p.pendingUFallback = false
		return p.closeScope()

	default:
		if p.scopes.full().GroupSkip {
			p.pendingUFallback = false
			return nil
		}
		return p.dispatchToken()
	}
}

// closeScope implements §4.3.1 item 2: pop the scope, diff full state, and
// flush whichever per-destination buffer the popped scope was collecting.
func (p *Parser) closeScope() error {
	oldFull := p.scopes.full()

	popped, err := p.scopes.pop(p.curTok.Pos)
	if err != nil {
		return err
	}
	newFull := p.scopes.full()

	wasGroupSkip := popped.groupSkipSet && popped.groupSkip
	wasInField := popped.inFieldSet && popped.inField
	wasInBlipUID := popped.inBlipUIDSet && popped.inBlipUID
	wasInPict := popped.inPictSet && popped.inPict

	if !wasGroupSkip && !wasInField && !wasInBlipUID && !wasInPict {
		p.callbacks.OnStateChange(p, oldFull, newFull)
	}

	if wasInField {
		inst, rslt := p.fldInst.String(), p.fldRslt.String()
		if p.callbacks.OnField != nil {
			p.callbacks.OnField(p, inst, rslt)
		} else {
			p.callbacks.OnAppendParagraph(p, rslt)
		}
		p.fldInst.Reset()
		p.fldRslt.Reset()
	}

	if wasInBlipUID {
		raw := strings.TrimLeft(p.blipBuf.String(), "0")
		if raw != "" {
			if v, err := strconv.ParseInt(raw, 16, 64); err == nil {
				p.scopes.top().blipUIDSet = true
				p.scopes.top().blipUID = int(v)
				p.scopes.cacheFullState()
			}
		}
		p.blipBuf.Reset()
	}

	if wasInPict {
		if p.callbacks.OnImage != nil {
			raw := p.pictBuf.String()
			data, decodeErr := hex.DecodeString(raw)
			if decodeErr != nil {
				// Odd digit count or a stray non-hex character; decode the
				// largest valid even-length prefix rather than drop the
				// whole image.
				if len(raw)%2 != 0 {
					raw = raw[:len(raw)-1]
				}
				data, _ = hex.DecodeString(raw)
			}
			var attrs PictAttributes
			if popped.pictAttributes != nil {
				attrs = *popped.pictAttributes
			} else {
				attrs = PictAttributes{Numeric: map[string]int{}}
			}
			p.callbacks.OnImage(p, attrs, data)
		}
		p.pictBuf.Reset()
	}

	return nil
}

// dispatchToken implements §4.3.1 item 4: route a non-brace token that
// survived the groupSkip check to the current destination buffer, the
// control dispatch table, or the current paragraph.
func (p *Parser) dispatchToken() error {
	full := p.scopes.full()
	skipFallback := p.pendingUFallback
	p.pendingUFallback = false

	switch {
	case full.InFieldrslt:
		p.fldRslt.WriteString(p.curTok.Val)
		return nil
	case full.InFieldinst:
		p.fldInst.WriteString(p.curTok.Val)
		return nil
	case full.InBlipUID:
		p.blipBuf.WriteString(p.curTok.Val)
		return nil
	case p.curTok.Typ == TokenControl:
		val := p.curTok.Val
		if strings.HasPrefix(val, `\'`) {
			p.executeControl(`\'`, val[2:], len(val) > 2)
		} else {
			word, param, hasParam := splitControl(val)
			p.executeControl(word, param, hasParam)
		}
		return nil
	case full.InPict && !isSpace([]rune(p.curTok.Val)[0]):
		p.pictBuf.WriteString(p.curTok.Val)
		return nil
	case full.InPict:
		// Whitespace between hex digit pairs is a separator only; it never
		// reaches the buffer or the paragraph.
		return nil
	default:
		if skipFallback {
			return nil
		}
		if !full.InField && p.curTok.Val != "\n" {
			p.callbacks.OnAppendParagraph(p, p.curTok.Val)
		}
		return nil
	}
}

func (p *Parser) prevWasOpenBrace() bool {
	return p.havePrev && p.prevTok.Typ == TokenOpenBrace
}

func (p *Parser) prevWasStar() bool {
	return p.havePrev && p.prevTok.Typ == TokenControl && p.prevTok.Val == `\*`
}

func (p *Parser) prevControlWord() (string, bool) {
	if !p.havePrev || p.prevTok.Typ != TokenControl || strings.HasPrefix(p.prevTok.Val, `\'`) {
		return "", false
	}
	w, _, _ := splitControl(p.prevTok.Val)
	return w, true
}

// withFormattingChange mutates the top scope, recomputes the full-state
// cache and fires OnStateChange with before/after snapshots. Used by every
// control word that changes a formatting attribute (or \plain).
func (p *Parser) withFormattingChange(mutate func(*scope)) {
	old := p.scopes.full()
	mutate(p.scopes.top())
	p.scopes.cacheFullState()
	p.callbacks.OnStateChange(p, old, p.scopes.full())
}

// withDestinationChange mutates the top scope and recomputes the
// full-state cache without firing OnStateChange. Used for every
// destination/routing flag (groupSkip, inField*, inPict, inBlipUID, ...).
func (p *Parser) withDestinationChange(mutate func(*scope)) {
	mutate(p.scopes.top())
	p.scopes.cacheFullState()
}

// executeControl is the control dispatch table from §4.3.3. Order matters:
// first match wins.
func (p *Parser) executeControl(word, param string, hasParam bool) {
	full := p.scopes.full()

	// Pre-dispatch: \* terminates the "interesting prefix" of \fldinst.
	if full.InFieldinst && word == `\*` {
		p.withDestinationChange(func(s *scope) {
			s.inFieldinstSet, s.inFieldinst = true, false
		})
		full = p.scopes.full()
	}

	switch {
	// --- Destinations and fields ---------------------------------------
	case p.prevWasStar() && (word == `\generator` || word == `\pgdsctbl`):
		p.withDestinationChange(func(s *scope) { s.groupSkipSet, s.groupSkip = true, true })
		return
	case p.prevWasOpenBrace() && isSkippedDestination(word):
		p.withDestinationChange(func(s *scope) { s.groupSkipSet, s.groupSkip = true, true })
		return
	case p.prevWasOpenBrace() && word == `\field`:
		p.withDestinationChange(func(s *scope) { s.inFieldSet, s.inField = true, true })
		return
	case p.prevWasOpenBrace() && word == `\fldrslt`:
		p.withDestinationChange(func(s *scope) { s.inFieldrsltSet, s.inFieldrslt = true, true })
		return
	case p.prevWasStar() && word == `\fldinst`:
		p.withDestinationChange(func(s *scope) { s.inFieldinstSet, s.inFieldinst = true, true })
		return

	// --- Embedded images -------------------------------------------------
	case p.prevWasOpenBrace() && word == `\pict`:
		p.withDestinationChange(func(s *scope) {
			s.inPictSet, s.inPict = true, true
			s.pictAttributesSet = true
			s.pictAttributes = newPictAttributes()
		})
		return
	case p.prevWasStar() && word == `\blipuid`:
		if full.BlipUIDResolved {
			p.withDestinationChange(func(s *scope) { s.groupSkipSet, s.groupSkip = true, true })
		} else {
			p.withDestinationChange(func(s *scope) { s.inBlipUIDSet, s.inBlipUID = true, true })
		}
		return
	case word == `\bliptag`:
		if v, ok := parseDecimal(param, hasParam); ok {
			p.withDestinationChange(func(s *scope) { s.blipUIDSet, s.blipUID = true, v })
		}
		return
	case full.PictAttributes != nil && isPictNumericAttr(word):
		if v, ok := parseDecimal(param, hasParam); ok {
			full.PictAttributes.Numeric[word] = v
		}
		return
	case full.PictAttributes != nil && word == `\jpegblip`:
		full.PictAttributes.Source = "jpeg"
		return
	case full.PictAttributes != nil && word == `\pngblip`:
		full.PictAttributes.Source = "png"
		return
	case full.PictAttributes != nil && word == `\emfblip`:
		full.PictAttributes.Source = "emf"
		return
	case full.PictAttributes != nil && word == `\pmmetafile`:
		full.PictAttributes.Source = "os2meta"
		full.PictAttributes.MetafileType = param
		return
	case full.PictAttributes != nil && word == `\wmetafile`:
		full.PictAttributes.Source = "winmeta"
		full.PictAttributes.MetafileMappingMode = param
		return
	case full.PictAttributes != nil && word == `\dibitmap`:
		full.PictAttributes.Source = "wdibmp"
		full.PictAttributes.BitmapType = param
		return
	case full.PictAttributes != nil && word == `\wbitmap`:
		full.PictAttributes.Source = "wddbmp"
		full.PictAttributes.BitmapType = param
		return

	// --- Escaped literal characters --------------------------------------
	case word == `\\`:
		p.callbacks.OnAppendParagraph(p, `\`)
		return
	case word == `\{`:
		p.callbacks.OnAppendParagraph(p, `{`)
		return
	case word == `\}`:
		p.callbacks.OnAppendParagraph(p, `}`)
		return

	// --- Unicode / special characters ------------------------------------
	case word == `\~`:
		p.callbacks.OnAppendParagraph(p, " ")
		return
	case word == `\_`:
		p.callbacks.OnAppendParagraph(p, "‑")
		return
	case word == `\emspace`:
		p.callbacks.OnAppendParagraph(p, " ")
		return
	case word == `\enspace`:
		p.callbacks.OnAppendParagraph(p, " ")
		return
	case word == `\endash`:
		p.callbacks.OnAppendParagraph(p, "–")
		return
	case word == `\emdash`:
		p.callbacks.OnAppendParagraph(p, "—")
		return
	case word == `\lquote`:
		p.callbacks.OnAppendParagraph(p, "‘")
		return
	case word == `\rquote`:
		p.callbacks.OnAppendParagraph(p, "’")
		return
	case word == `\ldblquote`:
		p.callbacks.OnAppendParagraph(p, "“")
		return
	case word == `\rdblquote`:
		p.callbacks.OnAppendParagraph(p, "”")
		return
	case word == `\line`:
		p.callbacks.OnAppendParagraph(p, "\n")
		return
	case word == `\tab`:
		p.callbacks.OnAppendParagraph(p, "\t")
		return
	case word == `\bullet`:
		p.callbacks.OnAppendParagraph(p, "•")
		return
	case word == `\chdate` || word == `\chdpl`:
		p.callbacks.OnAppendParagraph(p, time.Now().Format("Monday, January 2, 2006"))
		return
	case word == `\chdpa`:
		p.callbacks.OnAppendParagraph(p, time.Now().Format("01/02/2006"))
		return
	case word == `\chtime`:
		p.callbacks.OnAppendParagraph(p, time.Now().Format("03:04:05 PM"))
		return

	case word == `\u`:
		if n, err := strconv.ParseInt(param, 10, 32); hasParam && err == nil {
			if r := rune(n); r >= 0 && r <= 0x10FFFF {
				p.callbacks.OnAppendParagraph(p, string(r))
			}
			p.pendingUFallback = true
		}
		return

	case word == `\'`:
		if !hasParam {
			return
		}
		charCode, err := strconv.ParseInt(param, 16, 32)
		if err != nil {
			return
		}
		if prevWord, ok := p.prevControlWord(); ok && prevWord == `\u` {
			return
		}
		if charCode <= 255 {
			p.callbacks.OnAppendParagraph(p, string(rune(charCode)))
		}
		return

	// --- Paragraph control ------------------------------------------------
	case word == `\par`:
		if p.callbacks.OnCloseParagraph != nil {
			p.callbacks.OnCloseParagraph(p)
		}
		p.callbacks.OnOpenParagraph(p)
		return

	// --- Formatting ---------------------------------------------------
	case word == `\plain`:
		p.withFormattingChange(func(s *scope) {
			s.italicSet, s.italic = true, false
			s.boldSet, s.bold = true, false
			s.underlineSet, s.underline = true, false
			s.strikethroughSet, s.strikethrough = true, false
			s.alignmentSet, s.alignment = true, AlignLeft
		})
		return
	case word == `\ql`:
		p.withFormattingChange(func(s *scope) { s.alignmentSet, s.alignment = true, AlignLeft })
		return
	case word == `\qr`:
		p.withFormattingChange(func(s *scope) { s.alignmentSet, s.alignment = true, AlignRight })
		return
	case word == `\qc`:
		p.withFormattingChange(func(s *scope) { s.alignmentSet, s.alignment = true, AlignCenter })
		return
	case word == `\qd`:
		p.withFormattingChange(func(s *scope) { s.alignmentSet, s.alignment = true, AlignDistributed })
		return
	case word == `\qj`:
		p.withFormattingChange(func(s *scope) { s.alignmentSet, s.alignment = true, AlignJustified })
		return
	case word == `\qt`:
		p.withFormattingChange(func(s *scope) { s.alignmentSet, s.alignment = true, AlignThaiDistributed })
		return

	case word == `\i`:
		v := !hasParam || param == "1"
		p.withFormattingChange(func(s *scope) { s.italicSet, s.italic = true, v })
		return
	case word == `\b`:
		v := !hasParam || param == "1"
		p.withFormattingChange(func(s *scope) { s.boldSet, s.bold = true, v })
		return
	case word == `\ul`:
		v := !hasParam || param == "1"
		p.withFormattingChange(func(s *scope) { s.underlineSet, s.underline = true, v })
		return
	case word == `\strike`:
		v := !hasParam || param == "1"
		p.withFormattingChange(func(s *scope) { s.strikethroughSet, s.strikethrough = true, v })
		return

	default:
		// Unrecognized control words and symbols are silently ignored.
		return
	}
}

func isSkippedDestination(word string) bool {
	_, ok := skippedDestinations[word]
	return ok
}

func isPictNumericAttr(word string) bool {
	_, ok := pictNumericAttrs[word]
	return ok
}

// parseDecimal parses a control word's decimal parameter. A missing or
// unparseable parameter is a non-fatal, silently-skipped assignment.
func parseDecimal(param string, hasParam bool) (int, bool) {
	if !hasParam {
		return 0, false
	}
	n, err := strconv.Atoi(param)
	if err != nil {
		return 0, false
	}
	return n, true
}
