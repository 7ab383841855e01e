package kv

import (
	"errors"
	"fmt"

	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"

	"lintang/blocknav/pkg/lddb"
)

const tableEncodingVersion = 1

var ErrCorruptValue = errors.New("kv: corrupt table value")

// tableValue is the stored form of one lddb table.
type tableValue struct {
	Version int
	Size    int
	Dist    []byte
	Parent  []byte
}

func Encode(size int, t *lddb.Table) ([]byte, error) {
	return binary.Marshal(tableValue{
		Version: tableEncodingVersion,
		Size:    size,
		Dist:    t.Dist,
		Parent:  t.Parent,
	})
}

func Decode(bb []byte) (int, *lddb.Table, error) {
	var v tableValue
	if err := binary.Unmarshal(bb, &v); err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrCorruptValue, err)
	}
	if v.Version != tableEncodingVersion {
		return 0, nil, fmt.Errorf("%w: version %d", ErrCorruptValue, v.Version)
	}
	if v.Size < 1 || v.Size > lddb.MaxBlockSize {
		return 0, nil, fmt.Errorf("%w: block size %d", ErrCorruptValue, v.Size)
	}
	l := lddb.NewLayout(v.Size)
	nb := l.NumBoundary()
	if len(v.Dist) != nb*nb || len(v.Parent) != nb*l.Cells() {
		return 0, nil, fmt.Errorf("%w: %d distances and %d parents for block size %d",
			ErrCorruptValue, len(v.Dist), len(v.Parent), v.Size)
	}
	return v.Size, &lddb.Table{Dist: v.Dist, Parent: v.Parent}, nil
}

func encodeCount(n uint64) ([]byte, error) {
	return binary.Marshal(n)
}

func decodeCount(bb []byte) (uint64, error) {
	var n uint64
	if err := binary.Unmarshal(bb, &n); err != nil {
		return 0, fmt.Errorf("%w: meta: %w", ErrCorruptValue, err)
	}
	return n, nil
}

func Compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func Decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}
	return bb, nil
}

// CompressTable encodes then compresses one table for storage.
func CompressTable(size int, t *lddb.Table) ([]byte, error) {
	bb, err := Encode(size, t)
	if err != nil {
		return nil, fmt.Errorf("encode table: %w", err)
	}
	return Compress(bb)
}

func LoadTable(val []byte) (int, *lddb.Table, error) {
	bb, err := Decompress(val)
	if err != nil {
		return 0, nil, fmt.Errorf("decompress table: %w", err)
	}
	return Decode(bb)
}
