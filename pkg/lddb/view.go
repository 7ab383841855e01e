package lddb

import (
	"fmt"

	"lintang/blocknav/pkg/datastructure"
	"lintang/blocknav/pkg/util"
)

type rowKey struct {
	pattern datastructure.PatternID
	node    int
}

// row is a full bfs from one node of one pattern.
type row struct {
	dist   []uint8
	parent []uint8
}

// View is a per query overlay over a shared DB. Init adds rows for arbitrary
// (usually interior) nodes; the DB itself is never written. A View is not safe
// for concurrent use.
type View struct {
	db    *DB
	rows  map[rowKey]*row
	queue []int
}

func NewView(db *DB) *View {
	return &View{
		db:   db,
		rows: make(map[rowKey]*row, 2),
	}
}

func (v *View) DB() *DB { return v.db }

// Init runs a bfs from n inside b and records the distance and path between n
// and every node it reaches, in both directions.
func (v *View) Init(b datastructure.BlockGrid, n datastructure.LocalNode) error {
	if b.Size != v.db.Size() {
		return fmt.Errorf("%w: block %d, lddb %d", ErrSizeMismatch, b.Size, v.db.Size())
	}
	if !b.Contains(n) {
		return &datastructure.InvalidNodeError{Row: n.Row, Col: n.Col, Size: b.Size}
	}
	key := rowKey{pattern: b.Pattern, node: b.Index(n)}
	if _, ok := v.rows[key]; ok {
		return nil
	}
	r := &row{
		dist:   make([]uint8, b.Cells()),
		parent: make([]uint8, b.Cells()),
	}
	v.queue = bfs(b, key.node, r.dist, r.parent, v.queue)
	v.rows[key] = r
	return nil
}

func (v *View) lookup(p datastructure.PatternID, n datastructure.LocalNode) (*row, bool) {
	size := v.db.Size()
	if n.Row < 0 || n.Row >= size || n.Col < 0 || n.Col >= size {
		return nil, false
	}
	r, ok := v.rows[rowKey{pattern: p, node: n.Row*size + n.Col}]
	return r, ok
}

// Distance consults the rows added by Init before the shared tables.
func (v *View) Distance(p datastructure.PatternID, a, b datastructure.LocalNode) (int, bool) {
	size := v.db.Size()
	if r, ok := v.lookup(p, a); ok {
		return rowDistance(r, size, b)
	}
	if r, ok := v.lookup(p, b); ok {
		return rowDistance(r, size, a)
	}
	return v.db.Distance(p, a, b)
}

func rowDistance(r *row, size int, n datastructure.LocalNode) (int, bool) {
	if n.Row < 0 || n.Row >= size || n.Col < 0 || n.Col >= size {
		return 0, false
	}
	d := r.dist[n.Row*size+n.Col]
	if d == Unreachable {
		return 0, false
	}
	return int(d), true
}

// Path returns a shortest path from a to b inclusive, from the same source
// Distance would answer with. nil when there is none.
func (v *View) Path(p datastructure.PatternID, a, b datastructure.LocalNode) []datastructure.LocalNode {
	size := v.db.Size()
	if r, ok := v.lookup(p, a); ok {
		if _, reached := rowDistance(r, size, b); !reached {
			return nil
		}
		path := walk(size, r.parent, b.Row*size+b.Col) // b .. a
		util.ReverseG(path)
		return path
	}
	if r, ok := v.lookup(p, b); ok {
		if _, reached := rowDistance(r, size, a); !reached {
			return nil
		}
		return walk(size, r.parent, a.Row*size+a.Col) // a .. b
	}
	return v.db.Path(p, a, b)
}
