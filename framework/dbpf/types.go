package dbpf

import (
	"fmt"
	"sort"
	"strings"
)

// Resource type identifiers the classifier cares about.
const (
	TypeCASP uint32 = 0x034AEECB
	TypeOBJD uint32 = 0x319E4F1D
	TypeJAZZ uint32 = 0x02D5DF13
	TypeSTBL uint32 = 0x220557DA
	TypeGEOM uint32 = 0x015A1849
	TypeMODL uint32 = 0x01661233
	TypeMLOD uint32 = 0x01D10F34
	TypeTONE uint32 = 0x0354796A
	TypeBGEO uint32 = 0x067CAA11
	TypeIMG  uint32 = 0x00B2D882
	TypeRLE2 uint32 = 0x2F7D0004
	TypeSLOT uint32 = 0xCD0F1220
	TypeRSLT uint32 = 0x160D0E6A
	TypeFTPT uint32 = 0x0AE3FDE5
	TypeCLIP uint32 = 0x6B20C4F3
	TypeI7   uint32 = 0xE882D22F
	TypeITUN uint32 = 0x03B33DDF
	TypeSXML uint32 = 0xD1F577C6
)

var typeNames = map[uint32]string{
	TypeCASP: "CASP",
	TypeOBJD: "COBJ/OBJD",
	TypeJAZZ: "JAZZ",
	TypeSTBL: "STBL",
	TypeGEOM: "GEOM",
	TypeMODL: "MODL",
	TypeMLOD: "MLOD",
	TypeTONE: "TONE",
	TypeBGEO: "BGEO",
	TypeIMG:  "IMG",
	TypeRLE2: "RLE2",
	TypeSLOT: "SLOT",
	TypeRSLT: "RSLT",
	TypeFTPT: "FTPT",
	TypeCLIP: "CLIP",
	TypeI7:   "I7",
	TypeITUN: "ITUN",
	TypeSXML: "SXML",
}

// TypeName returns the short tag for id, or its hex form when unknown.
func TypeName(id uint32) string {
	if name, ok := typeNames[id]; ok {
		return name
	}
	return fmt.Sprintf("0x%08x", id)
}

// IDs returns the type identifiers in ascending order.
func (t TypeIndex) IDs() []uint32 {
	ids := make([]uint32, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Names lists the tags of every type present, ordered by identifier.
func (t TypeIndex) Names() []string {
	ids := t.IDs()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, TypeName(id))
	}
	return out
}

// Summary renders "CASP:2, STBL:1" ordered by identifier.
func (t TypeIndex) Summary() string {
	ids := t.IDs()
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s:%d", TypeName(id), t[id]))
	}
	return strings.Join(parts, ", ")
}
