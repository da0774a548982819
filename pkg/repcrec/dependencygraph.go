package repcrec

// DependencyGraph accumulates ww and rw edges between committed and
// committing transactions (no wr edges are derived or stored; EdgeWR is
// never produced) and answers whether committing one more
// transaction would create the dangerous structure spec.md §4.5 gates
// on. It persists across transactions: a false answer commits the
// hypothetical node into the graph for future calls to consult.
type DependencyGraph interface {
	// WillCreateCycle hypothetically incorporates transaction into the
	// graph (deriving ww/rw edges from logsByVariable) and reports
	// whether doing so creates the forbidden structure: two consecutive
	// rw edges followed by an actual cycle in the full edge set. When
	// it returns false, transaction is committed into the graph's node
	// set as a side effect.
	WillCreateCycle(transaction string, logsByVariable map[string][]LogEntry, transactions map[string]*Transaction) bool
}
