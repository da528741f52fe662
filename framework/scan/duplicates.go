package scan

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/lexcodex/modsorter/framework"
)

const fingerprintWindow = 64 << 10

// Fingerprint identifies file content cheaply from its size and the CRC32 of
// its first and last 64 KiB. Files no larger than the window use the head
// checksum only.
func Fingerprint(path string, size int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := crc32.NewIEEE()
	if _, err := io.CopyN(head, f, fingerprintWindow); err != nil && err != io.EOF {
		return "", fmt.Errorf("read head: %w", err)
	}
	var tail uint32
	if size > fingerprintWindow {
		if _, err := f.Seek(-fingerprintWindow, io.SeekEnd); err != nil {
			return "", fmt.Errorf("seek tail: %w", err)
		}
		h := crc32.NewIEEE()
		if _, err := io.Copy(h, f); err != nil {
			return "", fmt.Errorf("read tail: %w", err)
		}
		tail = h.Sum32()
	}
	return fmt.Sprintf("%d:%08x:%08x", size, head.Sum32(), tail), nil
}

// markDuplicates flags items sharing a fingerprint. The member with the
// smallest lowercase relative path is the primary.
func markDuplicates(items []*framework.FileItem, prints map[*framework.FileItem]string) int {
	groups := map[string][]*framework.FileItem{}
	for _, item := range items {
		if fp := prints[item]; fp != "" {
			groups[fp] = append(groups[fp], item)
		}
	}
	marked := 0
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			return strings.ToLower(group[i].RelPath) < strings.ToLower(group[j].RelPath)
		})
		primary := group[0]
		setExtra(primary, "duplicate_primary", fmt.Sprintf("%d duplicate(s)", len(group)-1))
		for _, dup := range group[1:] {
			setExtra(dup, "duplicate", "⚠")
			setExtra(dup, "duplicate_of", primary.RelPath)
			marked++
		}
	}
	return marked
}

func setExtra(item *framework.FileItem, key, value string) {
	if item.Classification.Extras == nil {
		item.Classification.Extras = map[string]string{}
	}
	item.Classification.Extras[key] = value
}
