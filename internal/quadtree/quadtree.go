// Package quadtree is an N-way spatial index over intrusively linked values.
//
// Every value owns one Link, supplied by the Traits. The link is the value's
// slot in the per-node item list and records the node it is filed at, so a
// value can belong to at most one tree at a time. Filing is first-fit: sub-keys
// are tested in the fixed order 0..Fanout()-1 and a value descends into the
// first one that fully contains its key while depth remains; otherwise it is
// filed at the current node.
package quadtree

// Link is the intrusive slot a value carries for the tree that indexes it.
// The zero value is an unfiled link.
type Link[K any, V comparable] struct {
	next    V
	hasNext bool
	node    int32 // node id + 1; zero when not filed
	cull    K
}

// Filed reports whether the owning value is currently in a tree.
func (l *Link[K, V]) Filed() bool { return l.node != 0 }

// Cull returns the cull volume the value was filed with.
func (l *Link[K, V]) Cull() K { return l.cull }

// Traits supplies the geometry of keys and culls and the intrusive link of a
// value. K is used both as the filing key and as the cull volume.
type Traits[K any, V comparable] interface {
	// Cull returns the current cull volume of v.
	Cull(v V) K
	// MakeKey derives a filing key that fully contains cull.
	MakeKey(cull K) K
	// Subkey returns the n-th subsection of bounds.
	Subkey(bounds K, n int) K
	// Contains reports whether outer fully contains inner.
	Contains(outer, inner K) bool
	// ExpandBy grows cull to contain part.
	ExpandBy(cull *K, part K)
	// SetEmpty resets cull to the empty volume.
	SetEmpty(cull *K)
	// Fanout is the number of sub-keys per node.
	Fanout() int
	// Link returns the slot owned by v.
	Link(v V) *Link[K, V]
}

const noNode = int32(-1)

type node[K any, V comparable] struct {
	children []int32
	parent   int32
	cull     K
	items    V
	hasItems bool
}

// QuadTree indexes values of type V by the cull volume the Traits derive.
type QuadTree[K any, V comparable] struct {
	traits Traits[K, V]
	opts   Options
	extent K

	nodes []node[K, V]
	free  []int32
	root  int32
	size  int
}

// New returns an empty tree covering extent.
func New[K any, V comparable](traits Traits[K, V], extent K, opts Options) *QuadTree[K, V] {
	return &QuadTree[K, V]{
		traits: traits,
		opts:   opts,
		extent: extent,
		root:   noNode,
	}
}

// SetExtent changes the filing extent. Values already filed are not moved, so
// callers normally call it on an empty tree.
func (t *QuadTree[K, V]) SetExtent(extent K) { t.extent = extent }

// Extent returns the filing extent.
func (t *QuadTree[K, V]) Extent() K { return t.extent }

// Len returns the number of filed values.
func (t *QuadTree[K, V]) Len() int { return t.size }

// Next returns the value after v in its node's item list. Visitors use it to
// walk the list handed to them by IterateCull.
func (t *QuadTree[K, V]) Next(v V) (V, bool) {
	l := t.traits.Link(v)
	return l.next, l.hasNext
}

// Insert files v no deeper than maxDepth levels below the root.
func (t *QuadTree[K, V]) Insert(v V, maxDepth int) error {
	link := t.traits.Link(v)
	if link.Filed() {
		return ErrAlreadyIndexed
	}

	c := t.traits.Cull(v)
	k := t.traits.MakeKey(c)

	if t.root == noNode {
		r, err := t.alloc(noNode)
		if err != nil {
			return err
		}
		t.root = r
	}

	n := t.root
	bounds := t.extent
	fanout := t.traits.Fanout()
	for depth := maxDepth; ; depth-- {
		t.traits.ExpandBy(&t.nodes[n].cull, c)
		if depth <= 0 {
			break
		}
		child := noNode
		for i := 0; i < fanout; i++ {
			sub := t.traits.Subkey(bounds, i)
			if !t.traits.Contains(sub, k) {
				continue
			}
			child = t.nodes[n].children[i]
			if child == noNode {
				var err error
				if child, err = t.alloc(n); err != nil {
					return err
				}
				t.nodes[n].children[i] = child
			}
			bounds = sub
			break
		}
		if child == noNode {
			break
		}
		n = child
	}

	nd := &t.nodes[n]
	link.next, link.hasNext = nd.items, nd.hasItems
	link.node = n + 1
	link.cull = c
	nd.items, nd.hasItems = v, true
	t.size++
	return nil
}

// Find returns the id of the node v is filed at, descending by the key derived
// from v's filing cull.
func (t *QuadTree[K, V]) Find(v V) (int, bool) {
	if t.root == noNode {
		return 0, false
	}
	link := t.traits.Link(v)
	c := link.cull
	if !link.Filed() {
		c = t.traits.Cull(v)
	}
	k := t.traits.MakeKey(c)

	n := t.root
	bounds := t.extent
	fanout := t.traits.Fanout()
descend:
	for {
		for i := 0; i < fanout; i++ {
			sub := t.traits.Subkey(bounds, i)
			if !t.traits.Contains(sub, k) {
				continue
			}
			child := t.nodes[n].children[i]
			if child == noNode {
				break descend
			}
			n, bounds = child, sub
			continue descend
		}
		break
	}

	nd := &t.nodes[n]
	for i, ok := nd.items, nd.hasItems; ok; i, ok = t.Next(i) {
		if i == v {
			return int(n), true
		}
	}
	return 0, false
}

// Remove unfiles v. It reports false when v was not in the tree.
func (t *QuadTree[K, V]) Remove(v V) bool {
	link := t.traits.Link(v)
	if !link.Filed() {
		return false
	}
	n := link.node - 1
	nd := &t.nodes[n]

	if nd.hasItems && nd.items == v {
		nd.items, nd.hasItems = link.next, link.hasNext
	} else {
		found := false
		for i, ok := nd.items, nd.hasItems; ok; {
			il := t.traits.Link(i)
			if il.hasNext && il.next == v {
				il.next, il.hasNext = link.next, link.hasNext
				found = true
				break
			}
			i, ok = il.next, il.hasNext
		}
		if !found {
			return false
		}
	}
	var zero V
	link.next, link.hasNext, link.node = zero, false, 0
	t.size--

	for n != noNode {
		parent := t.nodes[n].parent
		if t.emptyNode(n) {
			if parent != noNode {
				kids := t.nodes[parent].children
				for i := range kids {
					if kids[i] == n {
						kids[i] = noNode
					}
				}
			} else {
				t.root = noNode
			}
			t.release(n)
		} else {
			t.recull(n)
		}
		n = parent
	}
	return true
}

// RemoveAll unfiles every value and releases every node.
func (t *QuadTree[K, V]) RemoveAll() {
	var zero V
	for id := range t.nodes {
		nd := &t.nodes[id]
		for i, ok := nd.items, nd.hasItems; ok; {
			l := t.traits.Link(i)
			next, hasNext := l.next, l.hasNext
			l.next, l.hasNext, l.node = zero, false, 0
			i, ok = next, hasNext
		}
	}
	t.nodes = t.nodes[:0]
	t.free = t.free[:0]
	t.root = noNode
	t.size = 0
}

// IterateCull walks the tree depth first, entering a node only when culler
// accepts its cull volume. visitor receives the head of each accepted node's
// item list and walks the rest with Next.
func (t *QuadTree[K, V]) IterateCull(culler func(cull K) bool, visitor func(head V)) {
	if t.root != noNode {
		t.iterate(t.root, culler, visitor)
	}
}

func (t *QuadTree[K, V]) iterate(n int32, culler func(K) bool, visitor func(V)) {
	nd := &t.nodes[n]
	if !culler(nd.cull) {
		return
	}
	if nd.hasItems {
		visitor(nd.items)
	}
	for _, c := range t.nodes[n].children {
		if c != noNode {
			t.iterate(c, culler, visitor)
		}
	}
}

// Each calls fn for every filed value whose node cull is accepted by culler.
func (t *QuadTree[K, V]) Each(culler func(cull K) bool, fn func(v V)) {
	t.IterateCull(culler, func(head V) {
		for i, ok := head, true; ok; i, ok = t.Next(i) {
			fn(i)
		}
	})
}

func (t *QuadTree[K, V]) recull(n int32) {
	nd := &t.nodes[n]
	t.traits.SetEmpty(&nd.cull)
	for _, c := range nd.children {
		if c != noNode {
			t.traits.ExpandBy(&nd.cull, t.nodes[c].cull)
		}
	}
	for i, ok := nd.items, nd.hasItems; ok; i, ok = t.Next(i) {
		t.traits.ExpandBy(&nd.cull, t.traits.Link(i).cull)
	}
}

func (t *QuadTree[K, V]) emptyNode(n int32) bool {
	nd := &t.nodes[n]
	for _, c := range nd.children {
		if c != noNode {
			return false
		}
	}
	return !nd.hasItems
}

func (t *QuadTree[K, V]) alloc(parent int32) (int32, error) {
	var id int32
	if l := len(t.free); l > 0 {
		id = t.free[l-1]
		t.free = t.free[:l-1]
	} else {
		if t.opts.MaxNodes > 0 && len(t.nodes) >= t.opts.MaxNodes {
			return noNode, ErrNodeLimit
		}
		t.nodes = append(t.nodes, node[K, V]{children: make([]int32, t.traits.Fanout())})
		id = int32(len(t.nodes) - 1)
	}
	nd := &t.nodes[id]
	for i := range nd.children {
		nd.children[i] = noNode
	}
	var zero V
	nd.parent = parent
	nd.items, nd.hasItems = zero, false
	t.traits.SetEmpty(&nd.cull)
	return id, nil
}

func (t *QuadTree[K, V]) release(n int32) {
	t.nodes[n].parent = noNode
	t.free = append(t.free, n)
}
