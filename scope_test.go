package rtfstream

import (
	. "gopkg.in/check.v1"
)

type ScopeTestSuite struct{}

var _ = Suite(&ScopeTestSuite{})

func (s *ScopeTestSuite) TestRootDefaults(c *C) {
	ss := newScopeStack()
	full := ss.full()
	c.Check(full.Italic, Equals, false)
	c.Check(full.Bold, Equals, false)
	c.Check(full.Underline, Equals, false)
	c.Check(full.Strikethrough, Equals, false)
	c.Check(full.Alignment, Equals, AlignLeft)
	c.Check(full.GroupSkip, Equals, false)
	c.Check(full.InField, Equals, false)
}

func (s *ScopeTestSuite) TestInheritanceAcrossPush(c *C) {
	ss := newScopeStack()
	ss.top().boldSet, ss.top().bold = true, true
	ss.cacheFullState()
	c.Check(ss.full().Bold, Equals, true)

	ss.push()
	c.Check(ss.full().Bold, Equals, true, Commentf("child scope should inherit bold from parent"))

	ss.top().italicSet, ss.top().italic = true, true
	ss.cacheFullState()
	c.Check(ss.full().Italic, Equals, true)
	c.Check(ss.full().Bold, Equals, true)
}

func (s *ScopeTestSuite) TestChildOverridesParent(c *C) {
	ss := newScopeStack()
	ss.top().boldSet, ss.top().bold = true, true
	ss.cacheFullState()

	ss.push()
	ss.top().boldSet, ss.top().bold = true, false
	ss.cacheFullState()
	c.Check(ss.full().Bold, Equals, false)
}

func (s *ScopeTestSuite) TestPopRestoresParentState(c *C) {
	ss := newScopeStack()
	ss.top().boldSet, ss.top().bold = true, true
	ss.cacheFullState()

	ss.push()
	ss.top().boldSet, ss.top().bold = true, false
	ss.cacheFullState()
	c.Check(ss.full().Bold, Equals, false)

	_, err := ss.pop(0)
	c.Assert(err, IsNil)
	c.Check(ss.full().Bold, Equals, true)
}

func (s *ScopeTestSuite) TestPoppingRootIsUnbalancedBrace(c *C) {
	ss := newScopeStack()
	_, err := ss.pop(42)
	c.Assert(err, NotNil)
	rerr, ok := err.(*Error)
	c.Assert(ok, Equals, true)
	c.Check(rerr.Kind, Equals, ErrUnbalancedBrace)
	c.Check(rerr.Pos, Equals, 42)
}

func (s *ScopeTestSuite) TestBlipUIDResolvedTracksAncestors(c *C) {
	ss := newScopeStack()
	c.Check(ss.full().BlipUIDResolved, Equals, false)

	ss.push()
	ss.top().blipUIDSet, ss.top().blipUID = true, 7
	ss.cacheFullState()
	c.Check(ss.full().BlipUIDResolved, Equals, true)
	c.Check(ss.full().BlipUID, Equals, 7)

	ss.push()
	c.Check(ss.full().BlipUIDResolved, Equals, true, Commentf("nested scope should see the ancestor's resolved blip UID"))
	c.Check(ss.full().BlipUID, Equals, 7)
}
