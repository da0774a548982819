package store

import "github.com/replistore/repcrec/pkg/repcrec"

// Slot is one variable's replica state on one Site: the last committed
// value plus every active transaction's snapshot against it.
type Slot struct {
	Value       string
	CommittedAt repcrec.Tick
	Snapshots   map[string]repcrec.Snapshot
}

// Site is one of the ten replicas in the cluster. RecoveryTicks always
// has at least one entry (the construction tick); fail and recover
// append alternately to FailureTicks and RecoveryTicks respectively.
type Site struct {
	ID            int
	Status        repcrec.SiteStatus
	RecoveryTicks []repcrec.Tick
	FailureTicks  []repcrec.Tick
	Slots         map[string]*Slot
}

// NewSite returns an UP site recovered at now, with no slots installed
// yet; the caller populates Slots for every variable hosted here.
func NewSite(id int, now repcrec.Tick) *Site {
	return &Site{
		ID:            id,
		Status:        repcrec.StatusUp,
		RecoveryTicks: []repcrec.Tick{now},
		Slots:         make(map[string]*Slot),
	}
}

func (s *Site) Fail(now repcrec.Tick) {
	s.FailureTicks = append(s.FailureTicks, now)
	s.Status = repcrec.StatusDown
}

func (s *Site) Recover(now repcrec.Tick) {
	s.RecoveryTicks = append(s.RecoveryTicks, now)
	s.Status = repcrec.StatusUp
}

// LastFailureTick returns 0 if the site has never failed.
func (s *Site) LastFailureTick() repcrec.Tick {
	if len(s.FailureTicks) == 0 {
		return 0
	}
	return s.FailureTicks[len(s.FailureTicks)-1]
}

func (s *Site) LastRecoveryTick() repcrec.Tick {
	if len(s.RecoveryTicks) == 0 {
		return 0
	}
	return s.RecoveryTicks[len(s.RecoveryTicks)-1]
}
