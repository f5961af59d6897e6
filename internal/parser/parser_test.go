package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseText(t *testing.T) {
	path := writeFile(t, "alice.txt", "  Python, AWS, 5 years\n")
	got, err := ParseDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "Python, AWS, 5 years", got)
}

func TestParseMarkdownStripsMarkup(t *testing.T) {
	path := writeFile(t, "bob.md", "# Bob\n\nJava developer with **2 years** of experience.\n\n- Spring\n- Kafka\n")
	got, err := ParseDocument(path)
	require.NoError(t, err)
	assert.Contains(t, got, "Bob")
	assert.Contains(t, got, "Java developer with 2 years of experience.")
	assert.Contains(t, got, "Spring")
	assert.NotContains(t, got, "**")
	assert.NotContains(t, got, "#")
}

func TestParseUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "cv.exe", "binary")
	_, err := ParseDocument(path)
	assert.Error(t, err)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("dir/alice.PDF"))
	assert.True(t, Supported("bob.docx"))
	assert.True(t, Supported("carol.md"))
	assert.False(t, Supported("notes.exe"))
	assert.False(t, Supported("README"))
}

func TestStripXMLTags(t *testing.T) {
	assert.Equal(t, "plain", stripXMLTags("plain"))
	assert.Equal(t, "hello world", stripXMLTags("<w:t>hello world</w:t>"))
}
