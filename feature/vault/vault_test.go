package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	return New(Config{Path: t.TempDir(), AssetDir: "assets/posters"}, zap.NewNop())
}

func writeDoc(t *testing.T, v *Vault, name, content string) string {
	t.Helper()
	path := filepath.Join(v.Root(), name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleDoc = `---
Type: movie
Year: 1999
tmdb_id: 603
Genres:
  - Action
  - Science Fiction
---
# The Matrix

Some notes about the film.
`

func TestReadFields(t *testing.T) {
	v := newTestVault(t)
	path := writeDoc(t, v, "The Matrix (1999).md", sampleDoc)

	fields, err := v.ReadFields(path)
	require.NoError(t, err)

	assert.Equal(t, "movie", FieldString(fields, "Type"))
	assert.Equal(t, 1999, FieldInt(fields, "Year"))
	assert.Equal(t, 603, FieldInt(fields, "tmdb_id"))
	assert.Equal(t, []string{"Action", "Science Fiction"}, FieldStrings(fields, "Genres"))
	assert.Equal(t, "", FieldString(fields, "Missing"))
}

func TestReadFields_NoFrontmatter(t *testing.T) {
	v := newTestVault(t)
	path := writeDoc(t, v, "plain.md", "# Just a note\n")

	fields, err := v.ReadFields(path)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestApplyFields_UpdatesExistingKeyInPlace(t *testing.T) {
	v := newTestVault(t)
	path := writeDoc(t, v, "doc.md", sampleDoc)

	err := v.ApplyFields(path, []Field{
		{Key: "Year", Value: 2003},
		{Key: "Rating", Value: 8.7},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	// Existing keys keep their position, new keys are appended.
	typeIdx := strings.Index(text, "Type:")
	yearIdx := strings.Index(text, "Year: 2003")
	ratingIdx := strings.Index(text, "Rating: 8.7")
	require.Positive(t, yearIdx)
	require.Positive(t, ratingIdx)
	assert.Less(t, typeIdx, yearIdx)
	assert.Less(t, yearIdx, ratingIdx)

	// The body survives untouched.
	assert.Contains(t, text, "# The Matrix\n\nSome notes about the film.\n")
}

func TestApplyFields_CreatesFrontmatterWhenAbsent(t *testing.T) {
	v := newTestVault(t)
	path := writeDoc(t, v, "plain.md", "# Just a note\n")

	err := v.ApplyFields(path, []Field{{Key: "Type", Value: "movie"}})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.True(t, strings.HasPrefix(text, "---\n"))
	assert.Contains(t, text, "Type: movie")
	assert.Contains(t, text, "# Just a note\n")

	fields, err := v.ReadFields(path)
	require.NoError(t, err)
	assert.Equal(t, "movie", FieldString(fields, "Type"))
}

func TestApplyFields_ListValues(t *testing.T) {
	v := newTestVault(t)
	path := writeDoc(t, v, "doc.md", sampleDoc)

	err := v.ApplyFields(path, []Field{
		{Key: "Directors", Value: []string{"Lana Wachowski", "Lilly Wachowski"}},
	})
	require.NoError(t, err)

	fields, err := v.ReadFields(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lana Wachowski", "Lilly Wachowski"}, FieldStrings(fields, "Directors"))
}

func TestApplyFields_NoFieldsIsNoop(t *testing.T) {
	v := newTestVault(t)
	path := writeDoc(t, v, "doc.md", sampleDoc)

	require.NoError(t, v.ApplyFields(path, nil))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, string(content))
}

func TestRename(t *testing.T) {
	v := newTestVault(t)
	path := writeDoc(t, v, "old.md", sampleDoc)

	newPath, err := v.Rename(path, "The Matrix (1999).md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(v.Root(), "The Matrix (1999).md"), newPath)
	assert.NoFileExists(t, path)
	assert.FileExists(t, newPath)
}

func TestRename_SameNameIsNoop(t *testing.T) {
	v := newTestVault(t)
	path := writeDoc(t, v, "doc.md", sampleDoc)

	newPath, err := v.Rename(path, "doc.md")
	require.NoError(t, err)
	assert.Equal(t, path, newPath)
}

func TestRename_RefusesExistingTarget(t *testing.T) {
	v := newTestVault(t)
	path := writeDoc(t, v, "old.md", sampleDoc)
	writeDoc(t, v, "taken.md", "# occupied\n")

	_, err := v.Rename(path, "taken.md")
	assert.ErrorIs(t, err, ErrTargetExists)
	assert.FileExists(t, path, "the source must survive a refused rename")
}

func TestDocuments(t *testing.T) {
	v := newTestVault(t)
	writeDoc(t, v, "b.md", "#")
	writeDoc(t, v, "a.md", "#")
	writeDoc(t, v, "sub/c.md", "#")
	writeDoc(t, v, "notes.txt", "ignored")
	writeDoc(t, v, ".trash/old.md", "ignored")

	docs, err := v.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, filepath.Join(v.Root(), "a.md"), docs[0])
	assert.Equal(t, filepath.Join(v.Root(), "b.md"), docs[1])
	assert.Equal(t, filepath.Join(v.Root(), "sub", "c.md"), docs[2])
}

func TestBasename(t *testing.T) {
	assert.Equal(t, "The Matrix (1999)", Basename("/vault/movies/The Matrix (1999).md"))
	assert.Equal(t, "doc", Basename("doc.md"))
}
