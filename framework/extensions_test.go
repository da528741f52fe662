package framework

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEffectiveExtension(t *testing.T) {
	cases := []struct {
		name      string
		ext       string
		disabled  bool
		effective string
	}{
		{"hair.package", ".package", false, "hair.package"},
		{"hair.package.off", ".package", true, "hair.package"},
		{"Tool.TS4SCRIPT.disabled", ".ts4script", true, "Tool.TS4SCRIPT"},
		{"hair.packageoff", ".package", true, "hair.package"},
		{"README", "", false, "README"},
	}
	for _, tc := range cases {
		ext, disabled, effective := EffectiveExtension(tc.name)
		require.Equal(t, tc.ext, ext, tc.name)
		require.Equal(t, tc.disabled, disabled, tc.name)
		require.Equal(t, tc.effective, effective, tc.name)
	}
}

func TestNormalizeExt(t *testing.T) {
	require.Equal(t, ".zip", NormalizeExt(" ZIP "))
	require.Equal(t, ".txt", NormalizeExt(".txt"))
	require.Equal(t, "", NormalizeExt("  "))
}

func TestPrettyDisplayName(t *testing.T) {
	require.Equal(t, "Cool Hair V2", PrettyDisplayName("cool_hair-V2.package"))
	require.Equal(t, "CAS Top", PrettyDisplayName("CAS__top.package"))
	require.Equal(t, "WickedWhims Nude V1", PrettyDisplayName("WickedWhims_Nude-v1.package"))
	require.Equal(t, "MCCC Settings", PrettyDisplayName("MCCC settings.cfg"))
	require.Equal(t, "", PrettyDisplayName("_.package"))
}

func TestHumanMB(t *testing.T) {
	require.Equal(t, 0.0, HumanMB(0))
	require.Equal(t, 1.0, HumanMB(1<<20))
	require.Equal(t, 1.5, HumanMB(3<<19))
}
