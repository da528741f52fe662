package route

import (
	"testing"

	"github.com/lexcodex/modsorter/framework"
	"github.com/stretchr/testify/require"
)

func TestRouteDefaults(t *testing.T) {
	r := Default()
	require.Equal(t, "Adult - Scripts", r.Route(framework.CategoryAdultScript))
	require.Equal(t, "CAS Hair", r.Route(framework.CategoryCASHair))
	require.Equal(t, "BuildBuy Recolours", r.Route(framework.CategoryBuildBuyRecolour))
	require.Equal(t, "Unsorted", r.Route(framework.CategoryUnknown))
	require.Equal(t, "Unsorted", r.Route("Made Up"))
}

func TestEveryCategoryIsMapped(t *testing.T) {
	folders := framework.DefaultFolderMap()
	for _, category := range framework.CategoryOrder {
		require.NotEmpty(t, folders[category], category)
	}
}

func TestRouteFallbackChain(t *testing.T) {
	r := New(map[string]string{framework.CategoryUnknown: "Misc"})
	require.Equal(t, "Misc", r.Route(framework.CategoryPose))

	r = New(map[string]string{framework.CategoryPose: "My Poses"})
	require.Equal(t, "My Poses", r.Route(framework.CategoryPose))
	require.Equal(t, Fallback, r.Route(framework.CategoryWorld))
}

func TestRouterCopiesTable(t *testing.T) {
	folders := map[string]string{framework.CategoryPose: "Poses"}
	r := New(folders)
	folders[framework.CategoryPose] = "Changed"
	require.Equal(t, "Poses", r.Route(framework.CategoryPose))

	out := r.Folders()
	out[framework.CategoryPose] = "Changed"
	require.Equal(t, "Poses", r.Route(framework.CategoryPose))
}

func TestCategoriesOrdered(t *testing.T) {
	r := New(map[string]string{
		"Zzz Custom":                "Custom",
		framework.CategoryUnknown:   "Unsorted",
		framework.CategoryScriptMod: "Script Mods",
	})
	require.Equal(t, []string{framework.CategoryScriptMod, framework.CategoryUnknown, "Zzz Custom"}, r.Categories())
}
