package store

import (
	"fmt"

	"github.com/replistore/repcrec/pkg/repcrec"
)

// Variable is the logical x1..x20 entity; its replica placement never
// changes after construction.
type Variable struct {
	Index            int
	Name             string
	Replicated       bool
	SiteIDs          []int
	CommittedVersion string // repcrec.InitialCommitter, or a transaction name
	CommittedAtTick  repcrec.Tick
}

// NewVariable derives name and replica placement from index per the
// odd/even rule: even indices replicate to every site, odd indices
// live on the single site (index mod 10) + 1.
func NewVariable(index int) *Variable {
	v := &Variable{
		Index:            index,
		Name:             fmt.Sprintf("x%d", index),
		Replicated:       repcrec.IsReplicated(index),
		CommittedVersion: repcrec.InitialCommitter,
	}

	if v.Replicated {
		v.SiteIDs = make([]int, repcrec.SiteCount)
		for i := 0; i < repcrec.SiteCount; i++ {
			v.SiteIDs[i] = i + 1
		}
	} else {
		v.SiteIDs = []int{repcrec.SiteForOddVariable(index)}
	}

	return v
}
