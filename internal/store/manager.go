package store

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/replistore/repcrec/pkg/repcrec"
)

// manager is the repcrec.DataManager: it owns every Site and Variable,
// routes reads and writes through per-transaction snapshots, and runs
// the four-gate commit validator. Grounded on
// internal/core/service.go's shape (one struct holding every
// collaborator it needs, constructed once by the caller) and on
// original_source/datamanager.py for the read/write availability
// rules and commit gates themselves.
type manager struct {
	clock repcrec.Clock
	graph repcrec.DependencyGraph

	sites         map[int]*Site
	variables     map[string]*Variable
	variableOrder []string // x1..x20, for deterministic iteration

	// transactions mirrors datamanager.py's transactions_map: every
	// transaction that has begun, needed so the dependency graph can
	// compare commit ticks when deriving ww edges.
	transactions map[string]*repcrec.Transaction

	logger *logrus.Entry
}

// New constructs a DataManager with ten UP sites, recovered at the
// clock's first tick, and variables x1..x20 initialized to 10*index and
// committed at the clock's second tick.
func New(clock repcrec.Clock, graph repcrec.DependencyGraph) repcrec.DataManager {
	sitesAt := clock.Now()

	m := &manager{
		clock:        clock,
		graph:        graph,
		sites:        make(map[int]*Site, repcrec.SiteCount),
		variables:    make(map[string]*Variable, repcrec.VariableCount),
		transactions: make(map[string]*repcrec.Transaction),
		logger:       logrus.WithField("component", "datamanager"),
	}

	for id := 1; id <= repcrec.SiteCount; id++ {
		m.sites[id] = NewSite(id, sitesAt)
	}

	// Variables commit their initial values on the tick after every
	// site's initial recovery, so the even-variable read rule's
	// committed_at > last_recovery holds from the very first read.
	variablesAt := clock.Now()

	for index := 1; index <= repcrec.VariableCount; index++ {
		v := NewVariable(index)
		v.CommittedAtTick = variablesAt
		m.variables[v.Name] = v
		m.variableOrder = append(m.variableOrder, v.Name)

		value := strconv.Itoa(index * 10)
		for _, siteID := range v.SiteIDs {
			m.sites[siteID].Slots[v.Name] = &Slot{
				Value:       value,
				CommittedAt: variablesAt,
				Snapshots:   make(map[string]repcrec.Snapshot),
			}
		}
	}

	return m
}

func (m *manager) Begin(t *repcrec.Transaction) error {
	now := m.clock.Now()
	m.transactions[t.Name] = t

	t.LastSeenCommits = make(map[string]string, len(m.variableOrder))
	for _, name := range m.variableOrder {
		t.LastSeenCommits[name] = m.variables[name].CommittedVersion
	}

	for siteID := 1; siteID <= repcrec.SiteCount; siteID++ {
		site := m.sites[siteID]
		for _, slot := range site.Slots {
			if site.Status == repcrec.StatusUp {
				slot.Snapshots[t.Name] = repcrec.Snapshot{
					Value:            slot.Value,
					WriteSuccessTick: now,
					WriteAttemptTick: now,
				}
			} else {
				slot.Snapshots[t.Name] = repcrec.Snapshot{}
			}
		}
	}

	return nil
}

func (m *manager) Read(t *repcrec.Transaction, variable string) (string, bool, error) {
	v, ok := m.variables[variable]
	if !ok {
		return "", false, errors.Errorf("unknown variable: %s", variable)
	}

	if !v.Replicated {
		site := m.sites[v.SiteIDs[0]]
		lr, lf := site.LastRecoveryTick(), site.LastFailureTick()

		if site.Status == repcrec.StatusUp || (lr < t.StartTick && t.StartTick < lf) {
			return site.Slots[v.Name].Snapshots[t.Name].Value, true, nil
		}

		m.blockRead(v, t)
		return "", false, nil
	}

	for _, siteID := range v.SiteIDs {
		site := m.sites[siteID]
		if site.Status != repcrec.StatusUp {
			continue
		}

		lf, lr := site.LastFailureTick(), site.LastRecoveryTick()
		if lf >= t.StartTick || lr >= t.StartTick {
			continue
		}

		slot := site.Slots[v.Name]
		if slot.CommittedAt > lr && (slot.CommittedAt < t.StartTick || lf == 0) {
			return slot.Snapshots[t.Name].Value, true, nil
		}
	}

	m.blockRead(v, t)
	m.logger.WithFields(logrus.Fields{"transaction": t.Name, "variable": variable}).
		Warn("read blocked: no replica of variable currently serves this transaction")
	return "", false, nil
}

func (m *manager) blockRead(v *Variable, t *repcrec.Transaction) {
	for _, siteID := range v.SiteIDs {
		slot := m.sites[siteID].Slots[v.Name]
		snap := slot.Snapshots[t.Name]
		snap.ReadBlocked = true
		slot.Snapshots[t.Name] = snap
	}
}

func (m *manager) Write(t *repcrec.Transaction, variable, value string) (bool, error) {
	v, ok := m.variables[variable]
	if !ok {
		return false, errors.Errorf("unknown variable: %s", variable)
	}

	wroteAny := false
	for _, siteID := range v.SiteIDs {
		site := m.sites[siteID]
		slot := site.Slots[v.Name]
		prev := slot.Snapshots[t.Name]
		now := m.clock.Now()

		if site.Status == repcrec.StatusUp {
			slot.Snapshots[t.Name] = repcrec.Snapshot{
				Value:            value,
				Dirty:            true,
				WriteSuccessTick: now,
				WriteAttemptTick: now,
				ReadBlocked:      prev.ReadBlocked,
			}
			wroteAny = true
		} else {
			slot.Snapshots[t.Name] = repcrec.Snapshot{
				Value:            prev.Value,
				Dirty:            prev.Dirty,
				WriteSuccessTick: prev.WriteSuccessTick,
				WriteAttemptTick: now,
				ReadBlocked:      prev.ReadBlocked,
			}
			m.logger.WithFields(logrus.Fields{"site": siteID, "variable": variable}).
				Debug("write attempted against a down site")
		}
	}

	return wroteAny, nil
}

func (m *manager) Fail(siteID int) error {
	site, ok := m.sites[siteID]
	if !ok {
		return errors.Errorf("unknown site id: %d", siteID)
	}
	site.Fail(m.clock.Now())
	return nil
}

func (m *manager) Recover(siteID int) error {
	site, ok := m.sites[siteID]
	if !ok {
		return errors.Errorf("unknown site id: %d", siteID)
	}
	site.Recover(m.clock.Now())

	for _, s := range m.sites {
		for _, slot := range s.Slots {
			for name, snap := range slot.Snapshots {
				if snap.ReadBlocked {
					snap.ReadBlocked = false
					slot.Snapshots[name] = snap
				}
			}
		}
	}

	return nil
}

func (m *manager) Dump(w io.Writer) error {
	for siteID := 1; siteID <= repcrec.SiteCount; siteID++ {
		site := m.sites[siteID]

		parts := make([]string, 0, len(m.variableOrder))
		for _, name := range m.variableOrder {
			slot, ok := site.Slots[name]
			if !ok {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %s", name, slot.Value))
		}

		if _, err := fmt.Fprintf(w, "Site %d - %s\n", siteID, strings.Join(parts, ", ")); err != nil {
			return err
		}
	}

	return nil
}

func (m *manager) AttemptCommit(t *repcrec.Transaction, logsByTransaction map[string][]repcrec.LogEntry) (bool, []string, error) {
	if reason := m.failedAfterWrite(t); reason != "" {
		return false, []string{reason}, nil
	}

	if reasons := m.firstCommitterConflicts(t); len(reasons) > 0 {
		return false, reasons, nil
	}

	if m.hasReadBlocked(t) {
		return false, []string{"Aborted because no site has a committed write to read the variable being read"}, nil
	}

	logsByVariable := m.logsByVariable(logsByTransaction)
	if m.graph.WillCreateCycle(t.Name, logsByVariable, m.transactions) {
		return false, []string{"Aborting; because it would have created a cycle"}, nil
	}

	m.promote(t)
	return true, nil, nil
}

func (m *manager) failedAfterWrite(t *repcrec.Transaction) string {
	for _, name := range m.variableOrder {
		v := m.variables[name]
		for _, siteID := range v.SiteIDs {
			site := m.sites[siteID]
			snap, ok := site.Slots[name].Snapshots[t.Name]
			if !ok || !snap.Dirty {
				continue
			}

			for _, failedAt := range site.FailureTicks {
				if failedAt > snap.WriteAttemptTick {
					return "site failed after a write"
				}
			}
		}
	}
	return ""
}

func (m *manager) firstCommitterConflicts(t *repcrec.Transaction) []string {
	var reasons []string

	for _, name := range m.variableOrder {
		v := m.variables[name]
		if !m.wroteVariable(t, v) {
			continue
		}

		if v.CommittedVersion == repcrec.InitialCommitter {
			continue
		}
		if v.CommittedVersion == t.LastSeenCommits[name] {
			continue
		}
		if v.CommittedAtTick >= t.StartTick {
			reasons = append(reasons, fmt.Sprintf("(%s, %s, 'committed first')", name, v.CommittedVersion))
		}
	}

	return reasons
}

func (m *manager) hasReadBlocked(t *repcrec.Transaction) bool {
	for _, name := range m.variableOrder {
		v := m.variables[name]
		for _, siteID := range v.SiteIDs {
			if snap, ok := m.sites[siteID].Slots[name].Snapshots[t.Name]; ok && snap.ReadBlocked {
				return true
			}
		}
	}
	return false
}

func (m *manager) wroteVariable(t *repcrec.Transaction, v *Variable) bool {
	for _, siteID := range v.SiteIDs {
		if snap, ok := m.sites[siteID].Slots[v.Name].Snapshots[t.Name]; ok && snap.Dirty {
			return true
		}
	}
	return false
}

func (m *manager) promote(t *repcrec.Transaction) {
	now := m.clock.Now()

	for _, name := range m.variableOrder {
		v := m.variables[name]
		committed := false

		for _, siteID := range v.SiteIDs {
			site := m.sites[siteID]
			slot := site.Slots[name]
			snap, ok := slot.Snapshots[t.Name]
			if !ok || !snap.Dirty {
				continue
			}
			slot.Value = snap.Value
			slot.CommittedAt = now
			committed = true
		}

		if committed {
			v.CommittedVersion = t.Name
			v.CommittedAtTick = now
		}
	}
}

// logsByVariable flattens every transaction's log into a per-variable
// view sorted by tick, the shape DependencyGraph.WillCreateCycle wants.
func (m *manager) logsByVariable(logsByTransaction map[string][]repcrec.LogEntry) map[string][]repcrec.LogEntry {
	byVar := make(map[string][]repcrec.LogEntry)

	for _, logs := range logsByTransaction {
		for _, entry := range logs {
			if entry.Variable == "" {
				continue
			}
			byVar[entry.Variable] = append(byVar[entry.Variable], entry)
		}
	}

	return byVar
}
