// Package depgraph implements the formula dependency graph: precedent and
// dependent edge sets, a dirty set, a volatile-cell set, a circular-
// reference set, and a topological calculation-order producer.
package depgraph

import "github.com/vectorsheet/engine/internal/cellref"

// Key identifies a node in the graph. It is just a cell address; the
// graph owns no storage of its own beyond edges and flags.
type Key = cellref.Address

// node holds the edges and flags for one key. Nodes exist exactly while
// any edge touches them, per spec.md's dependency-info lifecycle.
type node struct {
	precedents map[Key]struct{}
	dependents map[Key]struct{}
}

func newNode() *node {
	return &node{precedents: make(map[Key]struct{}), dependents: make(map[Key]struct{})}
}

func (n *node) empty() bool {
	return len(n.precedents) == 0 && len(n.dependents) == 0
}

// Graph is the dependency graph (DG).
type Graph struct {
	nodes     map[Key]*node
	dirty     map[Key]struct{}
	volatile  map[Key]struct{}
	circular  map[Key]struct{}
}

// New creates an empty dependency graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[Key]*node),
		dirty:    make(map[Key]struct{}),
		volatile: make(map[Key]struct{}),
		circular: make(map[Key]struct{}),
	}
}

func (g *Graph) getOrCreate(k Key) *node {
	n, ok := g.nodes[k]
	if !ok {
		n = newNode()
		g.nodes[k] = n
	}
	return n
}

// cleanupIfEmpty evicts a node once it has no edges left, per the
// spec.md invariant "keys with both sets empty must be evicted".
func (g *Graph) cleanupIfEmpty(k Key) {
	if n, ok := g.nodes[k]; ok && n.empty() {
		delete(g.nodes, k)
	}
}

// SetDepsResult is the outcome of SetDeps.
type SetDepsResult struct {
	Circular  bool
	CyclePath []Key
}

// SetDeps removes any existing edges out of key, then adds key -> p for
// each p in precedents. It detects cycles by DFS from key over the new
// precedent edges; on a cycle the edges stay installed, every key on the
// cycle path is added to the circular set, and the path is returned in the
// result. On success it clears key from the circular set and updates
// volatile membership.
func (g *Graph) SetDeps(key Key, precedents []Key, volatile bool) SetDepsResult {
	g.removeOutboundEdges(key)

	n := g.getOrCreate(key)
	for _, p := range precedents {
		n.precedents[p] = struct{}{}
		pn := g.getOrCreate(p)
		pn.dependents[key] = struct{}{}
	}

	if path, cyclic := g.detectCycle(key); cyclic {
		// Every cell on the cycle path is circular, not just the one
		// whose SetDeps call closed the loop — a precedent set earlier
		// (before the cycle existed) never re-runs SetDeps itself.
		for _, k := range path {
			g.circular[k] = struct{}{}
		}
		return SetDepsResult{Circular: true, CyclePath: path}
	}

	delete(g.circular, key)
	if volatile {
		g.volatile[key] = struct{}{}
	} else {
		delete(g.volatile, key)
	}
	return SetDepsResult{}
}

func (g *Graph) removeOutboundEdges(key Key) {
	n, ok := g.nodes[key]
	if !ok {
		return
	}
	for p := range n.precedents {
		if pn, ok := g.nodes[p]; ok {
			delete(pn.dependents, key)
			g.cleanupIfEmpty(p)
		}
	}
	n.precedents = make(map[Key]struct{})
	g.cleanupIfEmpty(key)
}

// detectCycle runs DFS from key over precedent edges looking for a path
// back to key. Self-reference is a cycle.
func (g *Graph) detectCycle(key Key) ([]Key, bool) {
	visiting := make(map[Key]bool)
	var path []Key

	var visit func(k Key) bool
	visit = func(k Key) bool {
		if k == key && len(path) > 0 {
			return true
		}
		if visiting[k] {
			return false
		}
		visiting[k] = true
		path = append(path, k)

		n, ok := g.nodes[k]
		if ok {
			for p := range n.precedents {
				if p == key {
					path = append(path, p)
					return true
				}
				if visit(p) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		visiting[k] = false
		return false
	}

	if visit(key) {
		return append([]Key{key}, path...), true
	}
	return nil, false
}

// RemoveDeps removes all edges touching key and evicts it from the dirty,
// volatile, and circular sets.
func (g *Graph) RemoveDeps(key Key) {
	n, ok := g.nodes[key]
	if ok {
		for p := range n.precedents {
			if pn, ok := g.nodes[p]; ok {
				delete(pn.dependents, key)
				g.cleanupIfEmpty(p)
			}
		}
		for d := range n.dependents {
			if dn, ok := g.nodes[d]; ok {
				delete(dn.precedents, key)
				g.cleanupIfEmpty(d)
			}
		}
		delete(g.nodes, key)
	}
	delete(g.dirty, key)
	delete(g.volatile, key)
	delete(g.circular, key)
}

// PrecedentsOf returns the direct precedents of key.
func (g *Graph) PrecedentsOf(key Key) []Key {
	n, ok := g.nodes[key]
	if !ok {
		return nil
	}
	out := make([]Key, 0, len(n.precedents))
	for p := range n.precedents {
		out = append(out, p)
	}
	return out
}

// DependentsOf returns the direct dependents of key.
func (g *Graph) DependentsOf(key Key) []Key {
	n, ok := g.nodes[key]
	if !ok {
		return nil
	}
	out := make([]Key, 0, len(n.dependents))
	for d := range n.dependents {
		out = append(out, d)
	}
	return out
}

// TransitiveDependents returns every cell reachable by following dependent
// edges from key, transitively.
func (g *Graph) TransitiveDependents(key Key) []Key {
	visited := make(map[Key]struct{})
	var out []Key
	queue := g.DependentsOf(key)
	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		if _, seen := visited[k]; seen {
			continue
		}
		visited[k] = struct{}{}
		out = append(out, k)
		queue = append(queue, g.DependentsOf(k)...)
	}
	return out
}

// MarkDirty adds key and every transitive dependent to the dirty set via
// BFS over outbound (dependent) edges, bounded by a visited set.
func (g *Graph) MarkDirty(key Key) {
	visited := make(map[Key]struct{})
	queue := []Key{key}
	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		if _, seen := visited[k]; seen {
			continue
		}
		visited[k] = struct{}{}
		g.dirty[k] = struct{}{}
		queue = append(queue, g.DependentsOf(k)...)
	}
}

// MarkRangeDirty marks dirty every graph node for which inRange reports
// true, together with its transitive dependents (via MarkDirty). Only keys
// that currently have a node in the graph are tested. The caller (formula
// engine) knows how keys map onto ranges; the graph itself is
// range-agnostic beyond this callback-driven sweep.
func (g *Graph) MarkRangeDirty(inRange func(Key) bool) {
	for k := range g.nodes {
		if inRange(k) {
			g.MarkDirty(k)
		}
	}
}

// MarkVolatileDirty marks every volatile cell dirty.
func (g *Graph) MarkVolatileDirty() {
	for k := range g.volatile {
		g.MarkDirty(k)
	}
}

// ClearDirty removes key from the dirty set.
func (g *Graph) ClearDirty(key Key) {
	delete(g.dirty, key)
}

// ClearAllDirty empties the dirty set.
func (g *Graph) ClearAllDirty() {
	g.dirty = make(map[Key]struct{})
}

// IsDirty reports whether key is in the dirty set.
func (g *Graph) IsDirty(key Key) bool {
	_, ok := g.dirty[key]
	return ok
}

// DirtyKeys returns a snapshot of the dirty set.
func (g *Graph) DirtyKeys() []Key {
	out := make([]Key, 0, len(g.dirty))
	for k := range g.dirty {
		out = append(out, k)
	}
	return out
}

// HasCircular reports whether key is a member of the circular set.
func (g *Graph) HasCircular(key Key) bool {
	_, ok := g.circular[key]
	return ok
}

// MarkCircular adds key to the circular set directly, for callers (the
// formula engine's runtime re-entry guard) that detect a cycle outside
// of SetDeps' own upfront DFS.
func (g *Graph) MarkCircular(key Key) {
	g.circular[key] = struct{}{}
}

// IsVolatile reports whether key contains a volatile function.
func (g *Graph) IsVolatile(key Key) bool {
	_, ok := g.volatile[key]
	return ok
}

// CalculationOrder computes, from the current dirty set, the in-degree of
// each dirty node counting only dirty precedents, then repeatedly emits
// zero-in-degree nodes and decrements their dependents' counts (Kahn's
// algorithm). Any dirty node never emitted participates in a cycle and is
// appended at the end for a best-effort recompute.
func (g *Graph) CalculationOrder() []Key {
	dirtySet := make(map[Key]struct{}, len(g.dirty))
	for k := range g.dirty {
		dirtySet[k] = struct{}{}
	}

	inDegree := make(map[Key]int, len(dirtySet))
	for k := range dirtySet {
		count := 0
		for _, p := range g.PrecedentsOf(k) {
			if _, dirty := dirtySet[p]; dirty {
				count++
			}
		}
		inDegree[k] = count
	}

	var queue []Key
	for k, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, k)
		}
	}
	sortKeys(queue)

	emitted := make(map[Key]struct{}, len(dirtySet))
	var order []Key
	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		if _, done := emitted[k]; done {
			continue
		}
		emitted[k] = struct{}{}
		order = append(order, k)

		var freed []Key
		for _, d := range g.DependentsOf(k) {
			if _, dirty := dirtySet[d]; !dirty {
				continue
			}
			inDegree[d]--
			if inDegree[d] == 0 {
				freed = append(freed, d)
			}
		}
		sortKeys(freed)
		queue = append(queue, freed...)
	}

	if len(emitted) < len(dirtySet) {
		var remaining []Key
		for k := range dirtySet {
			if _, done := emitted[k]; !done {
				remaining = append(remaining, k)
			}
		}
		sortKeys(remaining)
		order = append(order, remaining...)
	}

	return order
}

func sortKeys(keys []Key) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && less(keys[j], keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}

func less(a, b Key) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}

// NodeCount returns the number of live nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// Clear removes all nodes, edges, and flags.
func (g *Graph) Clear() {
	g.nodes = make(map[Key]*node)
	g.dirty = make(map[Key]struct{})
	g.volatile = make(map[Key]struct{})
	g.circular = make(map[Key]struct{})
}
