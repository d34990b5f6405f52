package convert

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestWriteDiffUnchanged(t *testing.T) {
	var sb strings.Builder
	changed, err := WriteDiff(&sb, "CMakeLists.txt", "a\nb\n", "a\nb\n")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, sb.String())
}

func TestWriteDiff(t *testing.T) {
	noColor(t)

	var sb strings.Builder
	changed, err := WriteDiff(&sb, "CMakeLists.txt", "a\nb\n", "a\nc\n")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, `--- CMakeLists.txt
+++ CMakeLists.txt (generated)
 a
-b
+c
`, sb.String())
}

func TestWriteDiffSkipsDistantContext(t *testing.T) {
	noColor(t)

	old := "1\n2\n3\n4\n5\n6\n7\n8\n"
	updated := "1\n2\n3\n4\n5\n6\n7\nX\n"

	var sb strings.Builder
	_, err := WriteDiff(&sb, "f", old, updated)
	require.NoError(t, err)
	assert.Equal(t, `--- f
+++ f (generated)
@@
 6
 7
-8
+X
`, sb.String())
}

func TestWriteDiffNewFile(t *testing.T) {
	noColor(t)

	var sb strings.Builder
	changed, err := WriteDiff(&sb, "f", "", "project (demo)\n")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, sb.String(), "+project (demo)\n")
}
