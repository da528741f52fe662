// Package dbpf counts resource types in Sims 4 package (DBPF) files without
// loading resource payloads.
//
// Layout consumed by the reader:
//   - 96 byte header starting with the ASCII magic "DBPF";
//   - u32 LE record count at 0x20 and u32 LE index offset at 0x40;
//   - at the index offset a u32 LE flag word. Bit n set means slot n of every
//     8-slot record is stored once, right after the flag word;
//   - then, per record, one u32 LE for every slot whose bit is clear.
//
// Slot 0 of each rebuilt record is the resource type identifier.
package dbpf

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"os"
)

const (
	HeaderSize   = 96
	countOffset  = 0x20
	indexOffset  = 0x40
	slotsPerItem = 8
)

// Magic is the four byte signature at offset zero.
var Magic = []byte("DBPF")

// TypeIndex maps resource type identifiers to their occurrence count.
type TypeIndex map[uint32]int

// Has reports whether typeID occurs at least once.
func (t TypeIndex) Has(typeID uint32) bool {
	return t[typeID] > 0
}

// HasAny reports whether any of ids occurs.
func (t TypeIndex) HasAny(ids ...uint32) bool {
	for _, id := range ids {
		if t.Has(id) {
			return true
		}
	}
	return false
}

// Total is the number of index records counted.
func (t TypeIndex) Total() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}

// ScanTypes returns the type index of the package at path. Any problem
// opening or parsing the file yields an empty index.
func ScanTypes(path string) TypeIndex {
	f, err := os.Open(path)
	if err != nil {
		return TypeIndex{}
	}
	defer f.Close()
	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	return ReadTypes(f, size)
}

// ReadTypes parses the index from r. size bounds the record count against
// the bytes actually available; pass -1 when unknown.
func ReadTypes(r io.ReadSeeker, size int64) TypeIndex {
	out := TypeIndex{}
	head := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, head); err != nil {
		return out
	}
	if !bytes.Equal(head[:4], Magic) {
		return out
	}
	count := binary.LittleEndian.Uint32(head[countOffset:])
	indexPos := binary.LittleEndian.Uint32(head[indexOffset:])
	if count == 0 || indexPos == 0 {
		return out
	}
	if _, err := r.Seek(int64(indexPos), io.SeekStart); err != nil {
		return out
	}
	br := bufio.NewReader(r)
	flags, ok := readU32(br)
	if !ok {
		return out
	}
	var flagged [slotsPerItem]bool
	shared := 0
	for slot := 0; slot < slotsPerItem; slot++ {
		if flags>>slot&1 == 1 {
			flagged[slot] = true
			shared++
		}
	}
	perEntry := slotsPerItem - shared
	if size >= 0 {
		need := int64(indexPos) + 4 + int64(shared)*4 + int64(count)*int64(perEntry)*4
		if need > size {
			return TypeIndex{}
		}
	}
	headerVals := make([]uint32, shared)
	for i := range headerVals {
		v, ok := readU32(br)
		if !ok {
			return TypeIndex{}
		}
		headerVals[i] = v
	}
	entryVals := make([]uint32, perEntry)
	var record [slotsPerItem]uint32
	for n := uint32(0); n < count; n++ {
		for i := range entryVals {
			v, ok := readU32(br)
			if !ok {
				return TypeIndex{}
			}
			entryVals[i] = v
		}
		hi, ei := 0, 0
		for slot := 0; slot < slotsPerItem; slot++ {
			if flagged[slot] {
				record[slot] = headerVals[hi]
				hi++
			} else {
				record[slot] = entryVals[ei]
				ei++
			}
		}
		out[record[0]]++
	}
	return out
}

func readU32(r io.Reader) (uint32, bool) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, false
	}
	return binary.LittleEndian.Uint32(buf[:]), true
}
