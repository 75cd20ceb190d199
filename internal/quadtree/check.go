package quadtree

// Check walks the whole tree and returns the first node whose cull does not
// contain a child's cull or a filed item's cull.
func (t *QuadTree[K, V]) Check() error {
	if t.root == noNode {
		return nil
	}
	return t.check(t.root)
}

func (t *QuadTree[K, V]) check(n int32) error {
	nd := &t.nodes[n]
	for i, ok := nd.items, nd.hasItems; ok; i, ok = t.Next(i) {
		l := t.traits.Link(i)
		if l.node != n+1 || !t.traits.Contains(nd.cull, l.cull) {
			return &ErrCullViolation{Node: int(n), Child: -1}
		}
	}
	for _, c := range nd.children {
		if c == noNode {
			continue
		}
		if !t.traits.Contains(nd.cull, t.nodes[c].cull) {
			return &ErrCullViolation{Node: int(n), Child: int(c)}
		}
		if err := t.check(c); err != nil {
			return err
		}
	}
	return nil
}
