package rtfstream

import "go.uber.org/zap"

// debugEnabled toggles internal diagnostic logging, the same way
// pongo2.SetDebug toggles pongo2's own package-level debug logger. Off by
// default; turn it on with SetDebug(true) to get a development (human-readable,
// caller-annotated) zap logger instead of a no-op one.
var debugEnabled = false

// logger is the package-wide sink every Parser logs through. It starts as a
// no-op so importing this package never writes anything unasked.
var logger = zap.NewNop().Sugar()

// SetDebug turns the package's internal zap logging on or off. When turned
// on, a development logger is (re)built; turning it off swaps back to a
// no-op sugared logger so nothing is lost if zap construction ever fails.
func SetDebug(on bool) {
	debugEnabled = on
	if !on {
		logger = zap.NewNop().Sugar()
		return
	}
	z, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop().Sugar()
		return
	}
	logger = z.Sugar()
}

func (p *Parser) logf(event string, keysAndValues ...interface{}) {
	if !debugEnabled {
		return
	}
	logger.Debugw(event, append([]interface{}{"doc_id", p.docID}, keysAndValues...)...)
}
