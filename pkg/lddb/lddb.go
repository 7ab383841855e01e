// Package lddb is the local distance database: exact shortest distances and
// paths between the boundary nodes of every obstacle pattern of one block size.
package lddb

import (
	"fmt"
	"maps"
	"slices"

	"lintang/blocknav/pkg/datastructure"
	"lintang/blocknav/pkg/util"
)

// MaxBlockSize bounds the exhaustive build: 2^(size*size) patterns.
const MaxBlockSize = 5

// Layout is the pattern independent indexing of one block size. boundary slot
// s holds the s-th node yielded by datastructure.BoundaryNodes.
type Layout struct {
	size     int
	boundary []datastructure.LocalNode
	slotOf   []int // local index -> boundary slot, -1 for interior nodes
}

func NewLayout(size int) *Layout {
	l := &Layout{
		size:   size,
		slotOf: make([]int, size*size),
	}
	for i := range l.slotOf {
		l.slotOf[i] = -1
	}
	for n := range datastructure.BoundaryNodes(size) {
		l.slotOf[n.Row*size+n.Col] = len(l.boundary)
		l.boundary = append(l.boundary, n)
	}
	return l
}

func (l *Layout) Size() int { return l.size }

// Cells is size*size.
func (l *Layout) Cells() int { return l.size * l.size }

// NumBoundary is the number of boundary slots.
func (l *Layout) NumBoundary() int { return len(l.boundary) }

func (l *Layout) Boundary(slot int) datastructure.LocalNode { return l.boundary[slot] }

// Slot returns the boundary slot of a local node, or -1.
func (l *Layout) Slot(n datastructure.LocalNode) int {
	if n.Row < 0 || n.Row >= l.size || n.Col < 0 || n.Col >= l.size {
		return -1
	}
	return l.slotOf[n.Row*l.size+n.Col]
}

// Table holds one pattern's boundary to boundary results.
// Dist[a*nb+b] is the distance between boundary slots a and b, Unreachable when
// there is none. Parent[s*cells:(s+1)*cells] is the bfs tree rooted at slot s.
type Table struct {
	Dist   []uint8
	Parent []uint8
}

func (t *Table) validate(l *Layout) error {
	nb := l.NumBoundary()
	if len(t.Dist) != nb*nb || len(t.Parent) != nb*l.Cells() {
		return fmt.Errorf("%w: got %d distances and %d parents for block size %d",
			ErrMalformedTable, len(t.Dist), len(t.Parent), l.size)
	}
	return nil
}

// newTable computes the table of pattern p.
func newTable(l *Layout, p datastructure.PatternID, queue []int) (*Table, []int) {
	nb, cells := l.NumBoundary(), l.Cells()
	b := datastructure.NewBlockGrid(p, l.size)
	t := &Table{
		Dist:   make([]uint8, nb*nb),
		Parent: make([]uint8, nb*cells),
	}
	dist := make([]uint8, cells)
	for s, src := range l.boundary {
		queue = bfs(b, b.Index(src), dist, t.Parent[s*cells:(s+1)*cells], queue)
		for d, dst := range l.boundary {
			t.Dist[s*nb+d] = dist[b.Index(dst)]
		}
	}
	return t, queue
}

// DB maps patterns of one block size to their Table. A DB is read only after
// construction and safe for concurrent queries.
type DB struct {
	layout *Layout
	tables map[datastructure.PatternID]*Table
}

// NewDB wraps prebuilt tables, e.g. loaded from the kv store.
func NewDB(size int, tables map[datastructure.PatternID]*Table) (*DB, error) {
	if size < 1 || size > MaxBlockSize {
		return nil, fmt.Errorf("%w: %d", ErrBlockSizeUnsupported, size)
	}
	l := NewLayout(size)
	for p, t := range tables {
		if uint64(p)>>(size*size) != 0 {
			return nil, fmt.Errorf("%w: pattern %d out of range", ErrMalformedTable, p)
		}
		if err := t.validate(l); err != nil {
			return nil, fmt.Errorf("pattern %d: %w", p, err)
		}
	}
	if tables == nil {
		tables = make(map[datastructure.PatternID]*Table)
	}
	return &DB{layout: l, tables: tables}, nil
}

func (db *DB) Size() int { return db.layout.size }

func (db *DB) Layout() *Layout { return db.layout }

// Len is the number of patterns with a table.
func (db *DB) Len() int { return len(db.tables) }

func (db *DB) Table(p datastructure.PatternID) (*Table, bool) {
	t, ok := db.tables[p]
	return t, ok
}

func (db *DB) HasPattern(p datastructure.PatternID) bool {
	_, ok := db.tables[p]
	return ok
}

// Patterns returns the stored patterns in ascending order.
func (db *DB) Patterns() []datastructure.PatternID {
	return slices.Sorted(maps.Keys(db.tables))
}

// Missing returns the patterns of ps that have no table.
func (db *DB) Missing(ps []datastructure.PatternID) []datastructure.PatternID {
	missing := make([]datastructure.PatternID, 0)
	for _, p := range ps {
		if !db.HasPattern(p) {
			missing = append(missing, p)
		}
	}
	return missing
}

// Merge returns a new DB with the tables of both. other wins on duplicates.
func (db *DB) Merge(other *DB) (*DB, error) {
	if other.Size() != db.Size() {
		return nil, fmt.Errorf("%w: %d and %d", ErrSizeMismatch, db.Size(), other.Size())
	}
	tables := make(map[datastructure.PatternID]*Table, len(db.tables)+len(other.tables))
	maps.Copy(tables, db.tables)
	maps.Copy(tables, other.tables)
	return &DB{layout: db.layout, tables: tables}, nil
}

// Distance between two boundary nodes of pattern p. false when either node is
// not a boundary node, the pattern is unknown, or there is no path.
func (db *DB) Distance(p datastructure.PatternID, a, b datastructure.LocalNode) (int, bool) {
	t, ok := db.tables[p]
	if !ok {
		return 0, false
	}
	sa, sb := db.layout.Slot(a), db.layout.Slot(b)
	if sa < 0 || sb < 0 {
		return 0, false
	}
	d := t.Dist[sa*db.layout.NumBoundary()+sb]
	if d == Unreachable {
		return 0, false
	}
	return int(d), true
}

// Path returns one shortest path from a to b inclusive, or nil when Distance
// reports none. the path is taken from the bfs tree of whichever endpoint has
// the lower local index, so Path(p, b, a) is always the reverse of Path(p, a, b).
func (db *DB) Path(p datastructure.PatternID, a, b datastructure.LocalNode) []datastructure.LocalNode {
	if _, ok := db.Distance(p, a, b); !ok {
		return nil
	}
	t := db.tables[p]
	size, cells := db.layout.size, db.layout.Cells()
	ia, ib := a.Row*size+a.Col, b.Row*size+b.Col

	src, dst := ia, ib
	if ib < ia {
		src, dst = ib, ia
	}
	s := db.layout.slotOf[src]
	parent := t.Parent[s*cells : (s+1)*cells]
	path := walk(size, parent, dst) // dst .. src
	if src == ia {
		util.ReverseG(path)
	}
	return path
}
