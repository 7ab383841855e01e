package concurrent

// PatternRangeJobItem asks for the tables of every pattern in [Start, End) of one block size.
type PatternRangeJobItem struct {
	Size  int
	Start uint64
	End   uint64
}

// PatternListJobItem asks for the tables of an explicit pattern list.
type PatternListJobItem struct {
	Size     int
	Patterns []uint64
}

// SaveTableJobItem is one pebble batch of already encoded key/value pairs.
type SaveTableJobItem struct {
	Keys   [][]byte
	Values [][]byte
}

// QueryJobItem is one (source, target) pair of a distance matrix, by index.
type QueryJobItem struct {
	Source int
	Target int
}

type JobI interface {
	PatternRangeJobItem | PatternListJobItem | SaveTableJobItem | QueryJobItem
}

type JobFunc[T JobI, G any] func(job T) G
