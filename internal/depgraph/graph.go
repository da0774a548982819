package depgraph

import (
	"sort"

	"github.com/replistore/repcrec/pkg/repcrec"
)

// graph is the serialization graph of committed and committing
// transactions, grounded on original_source/DependencyGraph.py and
// shaped the way internal/voting/voting.go shapes its small
// in-memory accumulator: a struct holding two maps, with the public
// constructor the only way to obtain one.
type graph struct {
	nodes map[string]struct{}
	edges map[repcrec.Edge]struct{}
}

// New returns an empty DependencyGraph.
func New() repcrec.DependencyGraph {
	return &graph{
		nodes: make(map[string]struct{}),
		edges: make(map[repcrec.Edge]struct{}),
	}
}

func (g *graph) WillCreateCycle(transaction string, logsByVariable map[string][]repcrec.LogEntry,
	transactions map[string]*repcrec.Transaction) bool {

	g.addRWEdges(transaction, logsByVariable)
	g.addWWEdges(transaction, logsByVariable, transactions)

	if g.hasConsecutiveRW() && g.isCyclic() {
		return true
	}

	g.nodes[transaction] = struct{}{}
	return false
}

// addRWEdges derives an anti-dependency edge into transaction from every
// OTHER transaction that read a variable transaction wrote, per spec.md
// §4.5: the candidates for a variable only survive if transaction both
// began and wrote within that variable's log.
func (g *graph) addRWEdges(transaction string, logsByVariable map[string][]repcrec.LogEntry) {
	for _, logs := range logsByVariable {
		logs := sortedByTick(logs)

		var rwCandidates []string
		hasBegun := false
		currentHasWrite := false

		for _, log := range logs {
			if log.Transaction == transaction {
				hasBegun = true
				if log.Op == repcrec.OpWrite {
					currentHasWrite = true
				}
				continue
			}

			if log.Op == repcrec.OpRead {
				rwCandidates = append(rwCandidates, log.Transaction)
			}
		}

		if !hasBegun || !currentHasWrite {
			continue
		}

		for _, other := range rwCandidates {
			g.edges[repcrec.Edge{From: other, To: transaction, Kind: repcrec.EdgeRW}] = struct{}{}
		}
	}
}

// addWWEdges derives a ww edge from every committed transaction whose
// write to a shared variable predates transaction's start tick.
func (g *graph) addWWEdges(transaction string, logsByVariable map[string][]repcrec.LogEntry,
	transactions map[string]*repcrec.Transaction) {

	self := transactions[transaction]
	if self == nil {
		return
	}

	for _, logs := range logsByVariable {
		for _, log := range logs {
			if log.Transaction == transaction || log.Op != repcrec.OpWrite {
				continue
			}

			if _, committed := g.nodes[log.Transaction]; !committed {
				continue
			}

			writer := transactions[log.Transaction]
			if writer == nil || writer.CommittedAtTick >= self.StartTick {
				continue
			}

			g.edges[repcrec.Edge{From: log.Transaction, To: transaction, Kind: repcrec.EdgeWW}] = struct{}{}
		}
	}
}

// hasConsecutiveRW implements the non-backtracking two-hop walk of
// spec.md §4.5 step 1: from every node with an outgoing edge, follow
// the first available rw neighbor, twice.
func (g *graph) hasConsecutiveRW() bool {
	adjacency := make(map[string][]repcrec.Edge)
	for edge := range g.edges {
		adjacency[edge.From] = append(adjacency[edge.From], edge)
	}

	for start := range adjacency {
		current := start
		consecutive := 0

		for consecutive < 2 {
			next, ok := firstRWNeighbor(adjacency[current])
			if !ok {
				break
			}
			consecutive++
			current = next
		}

		if consecutive == 2 {
			return true
		}
	}

	return false
}

func firstRWNeighbor(edges []repcrec.Edge) (string, bool) {
	for _, edge := range edges {
		if edge.Kind == repcrec.EdgeRW {
			return edge.To, true
		}
	}
	return "", false
}

// isCyclic implements spec.md §4.5 step 2: a DFS cycle check over the
// unlabeled adjacency of the full edge set.
func (g *graph) isCyclic() bool {
	adjacency := make(map[string][]string)
	nodes := make(map[string]struct{})

	for edge := range g.edges {
		adjacency[edge.From] = append(adjacency[edge.From], edge.To)
		nodes[edge.From] = struct{}{}
		nodes[edge.To] = struct{}{}
	}

	visited := make(map[string]bool, len(nodes))
	onStack := make(map[string]bool, len(nodes))

	for node := range nodes {
		if visited[node] {
			continue
		}
		if isCyclicFrom(node, adjacency, visited, onStack) {
			return true
		}
	}

	return false
}

func isCyclicFrom(node string, adjacency map[string][]string, visited, onStack map[string]bool) bool {
	visited[node] = true
	onStack[node] = true

	for _, neighbor := range adjacency[node] {
		if !visited[neighbor] {
			if isCyclicFrom(neighbor, adjacency, visited, onStack) {
				return true
			}
		} else if onStack[neighbor] {
			return true
		}
	}

	onStack[node] = false
	return false
}

func sortedByTick(logs []repcrec.LogEntry) []repcrec.LogEntry {
	sorted := make([]repcrec.LogEntry, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Tick < sorted[j].Tick
	})
	return sorted
}
