package framework

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdultPromotionAndDemotion(t *testing.T) {
	require.Equal(t, CategoryAdultScript, PromoteAdult(CategoryScriptMod))
	require.Equal(t, CategoryAdultCAS, PromoteAdult(CategoryCASHair))
	require.Equal(t, CategoryAdultBuildBuy, PromoteAdult(CategoryBuildBuyRecolour))
	require.Equal(t, CategoryAdultOther, PromoteAdult(CategoryPreset))
	require.Equal(t, CategoryAdultPose, PromoteAdult(CategoryAdultPose))

	require.Equal(t, CategoryCASClothing, DemoteAdult(CategoryAdultCAS))
	require.Equal(t, CategoryScriptMod, DemoteAdult(CategoryAdultScript))
	require.Equal(t, "Foo", DemoteAdult("Adult Foo"))
	require.Equal(t, CategoryOther, DemoteAdult("Adult"))
	require.Equal(t, CategoryPreset, DemoteAdult(CategoryPreset))
}

func TestCategoryOrderAndFolders(t *testing.T) {
	folders := DefaultFolderMap()
	require.Len(t, folders, len(CategoryOrder))
	for i, category := range CategoryOrder {
		require.Equal(t, i, CategoryIndex(category))
		require.True(t, IsKnownCategory(category))
		require.NotEmpty(t, folders[category], category)
	}
	require.Equal(t, len(CategoryOrder), CategoryIndex("Mystery"))
	require.False(t, IsKnownCategory("Mystery"))
	require.True(t, IsAdult(CategoryAdultOther))
	require.False(t, IsAdult(CategoryAnimation))
}
