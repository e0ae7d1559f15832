package rtfstream

// Callbacks is the external interface through which a host receives
// paragraph and state events. It's a pure contract: the Parser never does
// anything with these beyond calling them in document order.
//
// OnOpenParagraph, OnAppendParagraph, OnStateChange and OnField are
// required — New returns a ConfigurationError if any of them is nil.
// OnCloseParagraph, OnSetDocumentAttribute and OnImage are optional; a nil
// value is simply never called. Because OnField is required, the parser's
// fallback of appending fldRslt to the current paragraph when OnField is
// nil is never reached for a Parser built by New.
type Callbacks struct {
	// OnOpenParagraph is informative only; fired once at parse start and
	// again after every \par.
	OnOpenParagraph func(p *Parser)

	// OnAppendParagraph appends one or more code points of plain text to
	// the current paragraph.
	OnAppendParagraph func(p *Parser, text string)

	// OnStateChange fires for formatting-attribute changes, for \plain,
	// and on every '}' whose group did not set groupSkip, inField, inPict
	// or inBlipUID (this includes \fldinst and \fldrslt groups). Setting a
	// destination flag never fires it. Both arguments are immutable
	// snapshots.
	OnStateChange func(p *Parser, old, new FullState)

	// OnField fires after the closing brace of a {\field ...} group with
	// the raw, still-escaped \fldinst and \fldrslt text.
	OnField func(p *Parser, fldinst, fldrslt string)

	// OnCloseParagraph is optional; fired just before OnOpenParagraph on
	// every \par. Never fired automatically at EOF.
	OnCloseParagraph func(p *Parser)

	// OnSetDocumentAttribute is optional and currently unused by the
	// control dispatch table (reserved for document-level attributes such
	// as \*\generator, which the parser presently only skips).
	OnSetDocumentAttribute func(p *Parser, attribute, value string)

	// OnImage is optional; fired after the closing brace of a \pict group
	// with the resolved attributes and the hex-decoded binary payload.
	OnImage func(p *Parser, attrs PictAttributes, data []byte)
}

func (c Callbacks) validate() error {
	if c.OnOpenParagraph == nil || c.OnAppendParagraph == nil || c.OnStateChange == nil || c.OnField == nil {
		return newConfigurationError("New", "missing one or more required callbacks: OnOpenParagraph, OnAppendParagraph, OnStateChange, OnField")
	}
	return nil
}
