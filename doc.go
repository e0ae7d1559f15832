// Package rtfstream implements a streaming, single-pass parser for the Rich
// Text Format (RTF), loosely tracking the 1.9.1 specification.
//
// rtfstream is not a renderer. It consumes an RTF byte stream and emits a
// sequence of semantic events — paragraph boundaries, formatted character
// runs, field constructs and embedded images — through a small set of
// caller-supplied callbacks, together with a fully resolved formatting
// state at each event. Layout, font resolution and output serialization are
// the caller's responsibility.
//
// Current caveats
//   - Round-tripping: this is a reader only, it never re-emits RTF.
//   - Coverage: tables, lists, drawings and embedded OLE objects are not
//     understood; their destinations are either treated as already-skipped
//     groups (font/style/color/info tables) or simply left unparsed.
//
// A tiny example:
//
//	p, err := rtfstream.New(rtfstream.Callbacks{
//	    OnOpenParagraph:   func(p *rtfstream.Parser) {},
//	    OnAppendParagraph: func(p *rtfstream.Parser, text string) { fmt.Print(text) },
//	    OnStateChange:     func(p *rtfstream.Parser, old, new rtfstream.FullState) {},
//	    OnField:           func(p *rtfstream.Parser, inst, rslt string) { fmt.Print(rslt) },
//	})
//	if err != nil {
//	    panic(err)
//	}
//	p.OpenString(`{\rtf1 Hello}`)
//	if err := p.Parse(); err != nil {
//	    panic(err)
//	}
package rtfstream
