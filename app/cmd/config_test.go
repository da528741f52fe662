package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigHelpers(t *testing.T) {
	data := map[string]interface{}{
		"scan": map[string]interface{}{
			"recurse": true,
		},
	}
	value, ok := getConfigValue(data, "scan.recurse")
	require.True(t, ok)
	require.Equal(t, true, value)

	require.NoError(t, setConfigValue(data, "scan.recurse", false))
	value, ok = getConfigValue(data, "scan.recurse")
	require.True(t, ok)
	require.Equal(t, false, value)

	require.NoError(t, setConfigValue(data, "folder_map.CAS Hair", "Hair"))
	value, ok = getConfigValue(data, "folder_map.CAS Hair")
	require.True(t, ok)
	require.Equal(t, "Hair", value)

	require.Error(t, setConfigValue(data, "scan..workers", 2))
	_, ok = getConfigValue(data, "scan.missing")
	require.False(t, ok)
}

func TestParseValue(t *testing.T) {
	require.Equal(t, true, parseValue("true"))
	require.Equal(t, int64(4), parseValue("4"))
	require.Equal(t, 0.5, parseValue("0.5"))
	require.Equal(t, []interface{}{".txt", ".md"}, parseValue(".txt, .md"))
	require.Equal(t, "Adult - CAS", parseValue("Adult - CAS"))
	require.Equal(t, "[a, b]", prettyValue([]interface{}{"a", "b"}))
}
