package framework

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNaturalCompare(t *testing.T) {
	require.True(t, NaturalLess("item2", "item10"))
	require.False(t, NaturalLess("Item10", "item2"))
	require.True(t, NaturalLess("a", "a1"))
	require.True(t, NaturalLess("2", "02"))
	require.True(t, NaturalLess("1x", "x"))
	require.Zero(t, NaturalCompare("Hair.package", "hair.PACKAGE"))
}

func TestSortItems(t *testing.T) {
	item := func(category, rel string) *FileItem {
		return &FileItem{
			Name:           rel[len(relDir(rel))+1:],
			RelPath:        rel,
			Classification: Classification{Category: category},
		}
	}
	items := []*FileItem{
		item(CategoryCASHair, "b/x.package"),
		item(CategoryCASHair, "a/hair10.package"),
		item(CategoryScriptMod, "./z.ts4script"),
		item(CategoryCASHair, "a/hair2.package"),
	}
	items[0].Override.Category = CategoryUnknown
	SortItems(items)

	var got []string
	for _, it := range items {
		got = append(got, it.RelPath)
	}
	require.Equal(t, []string{"./z.ts4script", "a/hair2.package", "a/hair10.package", "b/x.package"}, got)
}
