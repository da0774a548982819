package store_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/replistore/repcrec/internal/clock"
	"github.com/replistore/repcrec/internal/depgraph"
	"github.com/replistore/repcrec/internal/store"
	"github.com/replistore/repcrec/pkg/repcrec"
)

// ManagerTestSuite drives internal/store.New against a real clock and a
// real dependency graph: the commit gates and the SGT cycle test are
// meant to be exercised together, the way spec.md §8's end-to-end
// scenarios describe them.
type ManagerTestSuite struct {
	suite.Suite

	clk  repcrec.Clock
	dm   repcrec.DataManager
	logs map[string][]repcrec.LogEntry
}

func TestManagerTestSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func (s *ManagerTestSuite) SetupTest() {
	s.clk = clock.New()
	s.dm = store.New(s.clk, depgraph.New())
	s.logs = make(map[string][]repcrec.LogEntry)
}

func (s *ManagerTestSuite) begin(name string) *repcrec.Transaction {
	t := repcrec.NewTransaction(name, s.clk.Now(), nil)
	s.Require().NoError(s.dm.Begin(t))
	t.LogBegin(t.StartTick)
	s.logs[name] = t.Log
	return t
}

func (s *ManagerTestSuite) read(t *repcrec.Transaction, variable string) (string, bool) {
	value, ok, err := s.dm.Read(t, variable)
	s.Require().NoError(err)
	t.LogRead(0, variable)
	s.logs[t.Name] = t.Log
	return value, ok
}

func (s *ManagerTestSuite) write(t *repcrec.Transaction, variable, value string) bool {
	wroteAny, err := s.dm.Write(t, variable, value)
	s.Require().NoError(err)
	t.LogWrite(0, variable, value)
	s.logs[t.Name] = t.Log
	return wroteAny
}

func (s *ManagerTestSuite) end(t *repcrec.Transaction) (bool, []string) {
	ok, reasons, err := s.dm.AttemptCommit(t, s.logs)
	s.Require().NoError(err)
	if ok {
		t.State = repcrec.StateCommitted
	} else {
		t.State = repcrec.StateAborted
	}
	return ok, reasons
}

func (s *ManagerTestSuite) dump() string {
	var sb strings.Builder
	s.Require().NoError(s.dm.Dump(&sb))
	return sb.String()
}

// Scenario 1: single write commits.
func (s *ManagerTestSuite) TestSingleWriteCommits() {
	t1 := s.begin("T1")
	s.True(s.write(t1, "x1", "101"))

	ok, reasons := s.end(t1)
	s.True(ok)
	s.Empty(reasons)

	s.Contains(s.dump(), "x1: 101")
}

// Scenario 2: first-committer-wins.
func (s *ManagerTestSuite) TestFirstCommitterWins() {
	t1 := s.begin("T1")
	t2 := s.begin("T2")

	s.True(s.write(t1, "x2", "50"))
	s.True(s.write(t2, "x2", "60"))

	ok1, _ := s.end(t1)
	s.True(ok1)

	ok2, reasons2 := s.end(t2)
	s.False(ok2)
	s.Len(reasons2, 1)
	s.Contains(reasons2[0], "x2")
	s.Contains(reasons2[0], "committed first")
}

// Scenario 3: fail-after-write aborts.
func (s *ManagerTestSuite) TestFailAfterWriteAborts() {
	t1 := s.begin("T1")
	s.True(s.write(t1, "x2", "77")) // x2 replicates to every site including site 3

	s.Require().NoError(s.dm.Fail(3))

	ok, reasons := s.end(t1)
	s.False(ok)
	s.Equal([]string{"site failed after a write"}, reasons)
}

// Scenario 4: all sites down blocks the read; recover before end clears
// read_blocked so the commit succeeds.
func (s *ManagerTestSuite) TestReadBlockedClearedByRecoverBeforeEnd() {
	for id := 1; id <= repcrec.SiteCount; id++ {
		s.Require().NoError(s.dm.Fail(id))
	}

	t1 := s.begin("T1")
	_, ok := s.read(t1, "x2")
	s.False(ok)

	s.Require().NoError(s.dm.Recover(5))

	committed, reasons := s.end(t1)
	s.True(committed)
	s.Empty(reasons)
}

// Scenario 6: odd variable stays readable through an unrelated site's
// failure because it isn't a replica of that variable. x1 is pinned to
// site (1 mod 10)+1 = 2, so failing site 5 must not affect it.
func (s *ManagerTestSuite) TestOddVariableUnaffectedByUnrelatedSiteFailure() {
	t1 := s.begin("T1")
	s.Require().NoError(s.dm.Fail(5))

	value, ok := s.read(t1, "x1")
	s.True(ok)
	s.Equal("10", value)
}

func (s *ManagerTestSuite) TestDumpListsEveryVariableOnEverySite() {
	output := s.dump()
	s.Equal(repcrec.SiteCount, strings.Count(output, "Site "))
	s.Contains(output, "x1: 10")
	s.Contains(output, "x20: 200")
}
