package rtfstream

// Alignment enumerates the paragraph-alignment formatting attribute.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
	AlignDistributed
	AlignJustified
	AlignThaiDistributed
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	case AlignDistributed:
		return "distributed"
	case AlignJustified:
		return "justified"
	case AlignThaiDistributed:
		return "thai-distributed"
	default:
		return "left"
	}
}

// attributeNames lists every recognized formatting-attribute name, used by
// Parser.IsAttributeFormat for introspection.
var attributeNames = map[string]struct{}{
	"italic":        {},
	"bold":          {},
	"underline":     {},
	"strikethrough": {},
	"alignment":     {},
}

// PictAttributes holds the metadata collected while inside a \pict
// destination. Only the keys actually encountered are populated; numeric
// fields share one map keyed by control word, string fields are named.
type PictAttributes struct {
	// Numeric holds \picscalex, \picw, \wbmbitspixel, etc. keyed by the
	// control word including its leading backslash (e.g. "\picw").
	Numeric map[string]int

	// Source identifies the image codec/container: "jpeg", "png", "emf",
	// "os2meta", "winmeta", "wdibmp" or "wddbmp".
	Source string

	// MetafileType is set by \pmmetafile's parameter (OS/2 metafiles).
	MetafileType string
	// MetafileMappingMode is set by \wmetafile's parameter (Windows metafiles).
	MetafileMappingMode string
	// BitmapType is set by \dibitmap's or \wbitmap's parameter.
	BitmapType string
}

func newPictAttributes() *PictAttributes {
	return &PictAttributes{Numeric: make(map[string]int)}
}

// scope is a partial map from any recognized attribute/destination key to a
// value. Only keys explicitly set in this lexical scope are present;
// everything else is inherited by walking toward the root. Each field uses
// a "set/*bool" presence flag, or is itself nil/zero when absent, so
// inheritance can tell "unset" from "set to the zero value".
type scope struct {
	italicSet, italic               bool
	boldSet, bold                   bool
	underlineSet, underline         bool
	strikethroughSet, strikethrough bool
	alignmentSet                    bool
	alignment                       Alignment

	groupSkipSet, groupSkip bool
	inFieldSet, inField     bool
	inFieldinstSet          bool
	inFieldinst             bool
	inFieldrsltSet          bool
	inFieldrslt             bool

	inPictSet, inPict         bool
	pictAttributesSet         bool
	pictAttributes            *PictAttributes
	inBlipUIDSet, inBlipUID   bool
	blipUIDSet                bool
	blipUID                   int
}

// FullState is the fully resolved, read-only view of the scope stack: every
// inheritable attribute and destination flag with its effective value at
// the point it was captured. It's recomputed (or diffed) whenever the top
// scope changes, but its content is always pure function of the stack.
type FullState struct {
	Italic        bool
	Bold          bool
	Underline     bool
	Strikethrough bool
	Alignment     Alignment

	GroupSkip   bool
	InField     bool
	InFieldinst bool
	InFieldrslt bool

	InPict         bool
	PictAttributes *PictAttributes
	InBlipUID      bool
	// BlipUIDResolved reports whether some enclosing scope has already
	// called set("blipUID", ...); BlipUID is only meaningful when true.
	BlipUIDResolved bool
	BlipUID         int
}

// scopeStack is the stack of lexical scopes described in §3 of the spec: a
// push on '{', a pop on '}', with a cached full-state resolution kept in
// sync on every mutation.
type scopeStack struct {
	frames []scope
	cache  FullState
}

func newScopeStack() *scopeStack {
	s := &scopeStack{frames: make([]scope, 0, 16)}
	s.frames = append(s.frames, scope{})
	s.initRoot()
	return s
}

// initRoot explicitly sets every formatting attribute to its default plus
// groupSkip=false, inField=false on the root scope, matching the source's
// __initState. This is what makes the initial onStateChange/onOpenParagraph
// sequence well-defined instead of relying on zero values happening to
// match the documented defaults.
func (s *scopeStack) initRoot() {
	root := &s.frames[0]
	root.italicSet, root.italic = true, false
	root.boldSet, root.bold = true, false
	root.underlineSet, root.underline = true, false
	root.strikethroughSet, root.strikethrough = true, false
	root.alignmentSet, root.alignment = true, AlignLeft
	root.groupSkipSet, root.groupSkip = true, false
	root.inFieldSet, root.inField = true, false
	s.cacheFullState()
}

func (s *scopeStack) top() *scope {
	return &s.frames[len(s.frames)-1]
}

// push appends a fresh, empty scope. The cache is recomputed so subsequent
// reads through FullState stay correct even though nothing changed yet.
func (s *scopeStack) push() {
	s.frames = append(s.frames, scope{})
	s.cacheFullState()
}

// pop removes and returns the innermost scope. It is a fatal error to pop
// the root scope away.
func (s *scopeStack) pop(pos int) (scope, error) {
	if len(s.frames) <= 1 {
		return scope{}, newUnbalancedBraceError(pos)
	}
	popped := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	s.cacheFullState()
	return popped, nil
}

func (s *scopeStack) depth() int {
	return len(s.frames)
}

// cacheFullState resolves every known formatting key and destination flag
// by walking the stack from innermost to the root, and stores the result.
// This is the only place FullState is computed; everything else reads the
// cache.
func (s *scopeStack) cacheFullState() {
	var fs FullState
	italicDone, boldDone, underlineDone, strikeDone, alignDone := false, false, false, false, false
	groupSkipDone, inFieldDone, inFieldinstDone, inFieldrsltDone := false, false, false, false
	inPictDone, pictAttrDone, inBlipDone, blipUIDDone := false, false, false, false

	for i := len(s.frames) - 1; i >= 0; i-- {
		f := &s.frames[i]
		if !italicDone && f.italicSet {
			fs.Italic = f.italic
			italicDone = true
		}
		if !boldDone && f.boldSet {
			fs.Bold = f.bold
			boldDone = true
		}
		if !underlineDone && f.underlineSet {
			fs.Underline = f.underline
			underlineDone = true
		}
		if !strikeDone && f.strikethroughSet {
			fs.Strikethrough = f.strikethrough
			strikeDone = true
		}
		if !alignDone && f.alignmentSet {
			fs.Alignment = f.alignment
			alignDone = true
		}
		if !groupSkipDone && f.groupSkipSet {
			fs.GroupSkip = f.groupSkip
			groupSkipDone = true
		}
		if !inFieldDone && f.inFieldSet {
			fs.InField = f.inField
			inFieldDone = true
		}
		if !inFieldinstDone && f.inFieldinstSet {
			fs.InFieldinst = f.inFieldinst
			inFieldinstDone = true
		}
		if !inFieldrsltDone && f.inFieldrsltSet {
			fs.InFieldrslt = f.inFieldrslt
			inFieldrsltDone = true
		}
		if !inPictDone && f.inPictSet {
			fs.InPict = f.inPict
			inPictDone = true
		}
		if !pictAttrDone && f.pictAttributesSet {
			fs.PictAttributes = f.pictAttributes
			pictAttrDone = true
		}
		if !inBlipDone && f.inBlipUIDSet {
			fs.InBlipUID = f.inBlipUID
			inBlipDone = true
		}
		if !blipUIDDone && f.blipUIDSet {
			fs.BlipUIDResolved = true
			fs.BlipUID = f.blipUID
			blipUIDDone = true
		}
	}

	s.cache = fs
}

func (s *scopeStack) full() FullState {
	return s.cache
}
