package framework

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchGlob(t *testing.T) {
	require.True(t, MatchGlob("**", "anything/at/all"))
	require.True(t, MatchGlob("*.package", "Mods/hair.package"))
	require.True(t, MatchGlob("CAS/*", "cas/Hair.package"))
	require.False(t, MatchGlob("CAS/*", "cas/sub/hair.package"))
	require.True(t, MatchGlob("**/*.ts4script", "a/b/tool.ts4script"))
	require.True(t, MatchGlob("**/*.ts4script", "tool.ts4script"))
	require.True(t, MatchGlob("backup/**", "Backup/old/x.package"))
	require.False(t, MatchGlob("", "x"))
	require.False(t, MatchGlob("[", "x"))
}

func TestMatchAnyGlob(t *testing.T) {
	patterns := []string{"*.bak", "**/thumbs.db"}
	require.True(t, MatchAnyGlob(patterns, "sub/Thumbs.db"))
	require.False(t, MatchAnyGlob(patterns, "hair.package"))
	require.False(t, MatchAnyGlob(nil, "hair.package"))
}
