package repcrec

// Snapshot is the five-tuple a transaction holds against one SiteSlot,
// per spec.md §3. Every update path must preserve all five fields
// exactly except the one(s) it is responsible for changing.
type Snapshot struct {
	// Value is the value this transaction would commit to the slot,
	// or the value it last observed there, depending on Dirty.
	Value string

	// Dirty is true once this transaction has issued a successful
	// write against this slot.
	Dirty bool

	// WriteSuccessTick is the tick of the last successful write that
	// set Value.
	WriteSuccessTick Tick

	// WriteAttemptTick is the tick of the last write attempt, whether
	// or not it landed on an UP replica.
	WriteAttemptTick Tick

	// ReadBlocked is true once a read by this transaction against
	// this slot failed because no replica was available.
	ReadBlocked bool
}
