// Package dbpftest builds small DBPF images for tests.
package dbpftest

import (
	"encoding/binary"
	"os"
	"testing"
)

// Record is one 8-slot index entry. Slot 0 is the resource type.
type Record [8]uint32

// Build encodes records into a DBPF image. Slots whose bit is set in shared
// are written once after the flag word using the value from the first
// record, so callers must keep those slots identical across records.
func Build(shared uint32, records ...Record) []byte {
	const indexPos = 96
	buf := make([]byte, indexPos)
	copy(buf, "DBPF")
	binary.LittleEndian.PutUint32(buf[0x20:], uint32(len(records)))
	if len(records) > 0 {
		binary.LittleEndian.PutUint32(buf[0x40:], indexPos)
	}
	buf = binary.LittleEndian.AppendUint32(buf, shared)
	if len(records) == 0 {
		return buf
	}
	for slot := 0; slot < 8; slot++ {
		if shared>>slot&1 == 1 {
			buf = binary.LittleEndian.AppendUint32(buf, records[0][slot])
		}
	}
	for _, rec := range records {
		for slot := 0; slot < 8; slot++ {
			if shared>>slot&1 == 0 {
				buf = binary.LittleEndian.AppendUint32(buf, rec[slot])
			}
		}
	}
	return buf
}

// Types builds an image holding one record per type id, none shared.
func Types(ids ...uint32) []byte {
	records := make([]Record, 0, len(ids))
	for i, id := range ids {
		records = append(records, Record{id, 0, uint32(i), uint32(i), 0, 0, 0, 0})
	}
	return Build(0, records...)
}

// Write stores data at path, failing the test on error.
func Write(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
