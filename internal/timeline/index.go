package timeline

// Index is an interval tree over half-open ranges [start, end).
//
// Nodes are kept in an AVL tree ordered by start time, ties broken by
// insertion order, and every node carries the largest end time found in its
// subtree so that point queries can skip whole branches.
type Index[T any] struct {
	root *node[T]
	size int
	seq  uint64
}

type node[T any] struct {
	start   float64
	end     float64
	seq     uint64
	maxEnd  float64
	height  int
	left    *node[T]
	right   *node[T]
	payload T
}

func New[T any]() *Index[T] {
	return &Index[T]{}
}

// number of intervals stored
func (ix *Index[T]) Len() int {
	return ix.size
}

// adds the range [start, end) carrying payload. Ranges are not validated.
func (ix *Index[T]) Insert(start, end float64, payload T) {
	ix.seq++
	n := &node[T]{
		start:   start,
		end:     end,
		seq:     ix.seq,
		maxEnd:  end,
		height:  1,
		payload: payload,
	}
	ix.root = insert(ix.root, n)
	ix.size++
}

// returns every payload whose range contains point, ordered by start time
// and then by insertion order
func (ix *Index[T]) Query(point float64) []T {
	var out []T
	ix.Each(point, func(_, _ float64, payload T) bool {
		out = append(out, payload)
		return true
	})
	return out
}

// returns the first payload Query would report
func (ix *Index[T]) First(point float64) (T, bool) {
	var (
		found T
		ok    bool
	)
	ix.Each(point, func(_, _ float64, payload T) bool {
		found, ok = payload, true
		return false
	})
	return found, ok
}

// calls fn for every range containing point in Query order until fn
// returns false
func (ix *Index[T]) Each(point float64, fn func(start, end float64, payload T) bool) {
	visit(ix.root, point, fn)
}

func visit[T any](n *node[T], p float64, fn func(float64, float64, T) bool) bool {
	if n == nil || n.maxEnd <= p {
		return true
	}
	if !visit(n.left, p, fn) {
		return false
	}
	if n.start > p {
		// everything to the right starts even later
		return true
	}
	if p < n.end && !fn(n.start, n.end, n.payload) {
		return false
	}
	return visit(n.right, p, fn)
}

func before[T any](a, b *node[T]) bool {
	if a.start != b.start {
		return a.start < b.start
	}
	return a.seq < b.seq
}

func insert[T any](n, x *node[T]) *node[T] {
	if n == nil {
		return x
	}
	if before(x, n) {
		n.left = insert(n.left, x)
	} else {
		n.right = insert(n.right, x)
	}
	return rebalance(n)
}

func height[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *node[T]) update() {
	n.height = 1 + max(height(n.left), height(n.right))
	n.maxEnd = n.end
	if n.left != nil && n.left.maxEnd > n.maxEnd {
		n.maxEnd = n.left.maxEnd
	}
	if n.right != nil && n.right.maxEnd > n.maxEnd {
		n.maxEnd = n.right.maxEnd
	}
}

func rebalance[T any](n *node[T]) *node[T] {
	n.update()
	switch balance := height(n.left) - height(n.right); {
	case balance > 1:
		if height(n.left.left) < height(n.left.right) {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case balance < -1:
		if height(n.right.right) < height(n.right.left) {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

func rotateRight[T any](n *node[T]) *node[T] {
	l := n.left
	n.left = l.right
	n.update()
	l.right = n
	l.update()
	return l
}

func rotateLeft[T any](n *node[T]) *node[T] {
	r := n.right
	n.right = r.left
	n.update()
	r.left = n
	r.update()
	return r
}
