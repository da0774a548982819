package repcrec

import "io"

// DataManager owns every Site and Variable, routes reads and writes
// against per-transaction snapshots, and runs the commit validator of
// spec.md §4.4.
type DataManager interface {
	// Begin installs a snapshot for t on every existing SiteSlot and
	// captures t.LastSeenCommits, per spec.md §4.4.
	Begin(t *Transaction) error

	// Read returns the value t observes for variable, and ok=false if
	// the read is blocked (no replica available).
	Read(t *Transaction, variable string) (value string, ok bool, err error)

	// Write updates t's snapshot on every replica of variable and
	// reports whether at least one replica was UP.
	Write(t *Transaction, variable, value string) (wroteAny bool, err error)

	// Fail transitions a site to DOWN.
	Fail(siteID int) error

	// Recover transitions a site to UP and clears ReadBlocked on every
	// snapshot of every variable, globally.
	Recover(siteID int) error

	// Dump writes the committed value of every variable at every site,
	// grouped by site, to w.
	Dump(w io.Writer) error

	// AttemptCommit runs the four gates of spec.md §4.4 in order and,
	// on success, promotes t's writes to every UP replica it wrote.
	// logsByTransaction is every known transaction's log, active and
	// committed, keyed by transaction name.
	AttemptCommit(t *Transaction, logsByTransaction map[string][]LogEntry) (ok bool, reasons []string, err error)
}
