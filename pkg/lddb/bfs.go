package lddb

import (
	"lintang/blocknav/pkg/datastructure"
)

const (
	// Unreachable marks a missing distance in a Table or a view row.
	Unreachable uint8 = 0xFF
	// NoParent marks a bfs tree root or an unreached node.
	NoParent uint8 = 0xFF
)

// bfs runs a unit weight breadth first search inside b from src, writing the
// distance and bfs tree parent of every local node into dist and parent, which
// must have b.Cells() entries. neighbors are discovered left, up, right, down.
// a blocked src reaches nothing, not even itself.
func bfs(b datastructure.BlockGrid, src int, dist, parent []uint8, queue []int) []int {
	for i := range dist {
		dist[i] = Unreachable
		parent[i] = NoParent
	}
	if b.Pattern&(1<<src) != 0 {
		return queue
	}
	dist[src] = 0
	queue = append(queue[:0], src)
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, nb := range b.Neighbors4(b.NodeAt(cur)) {
			idx := b.Index(nb)
			if dist[idx] != Unreachable {
				continue
			}
			dist[idx] = dist[cur] + 1
			parent[idx] = uint8(cur)
			queue = append(queue, idx)
		}
	}
	return queue
}

// walk follows parent pointers from node back to the bfs root, returning the
// nodes in that order. node must have been reached by the search.
func walk(size int, parent []uint8, node int) []datastructure.LocalNode {
	path := make([]datastructure.LocalNode, 0, size)
	cur := node
	for {
		path = append(path, datastructure.LocalNode{Row: cur / size, Col: cur % size})
		p := parent[cur]
		if p == NoParent {
			return path
		}
		cur = int(p)
	}
}
