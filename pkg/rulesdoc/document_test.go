package rulesdoc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertIntoEmptyDocument(t *testing.T) {
	doc, replaced, err := New("").Upsert("webapp-testing", "Always run the tests.")
	require.NoError(t, err)
	assert.False(t, replaced)
	assert.Equal(t,
		"<!-- ANTHROPIC_SKILL_START: webapp-testing -->\nAlways run the tests.\n<!-- ANTHROPIC_SKILL_END: webapp-testing -->",
		doc.Content())
}

func TestUpsertAppendsWithSingleBlankLine(t *testing.T) {
	doc := New("# My rules\n\nSome preamble.\n")

	doc, replaced, err := doc.Upsert("webapp-testing", "content")
	require.NoError(t, err)
	assert.False(t, replaced)
	assert.Equal(t,
		"# My rules\n\nSome preamble.\n\n"+
			"<!-- ANTHROPIC_SKILL_START: webapp-testing -->\ncontent\n<!-- ANTHROPIC_SKILL_END: webapp-testing -->",
		doc.Content())
}

func TestUpsertOverwritesExistingBlock(t *testing.T) {
	doc := New("")

	doc, _, err := doc.Upsert("a", "first a")
	require.NoError(t, err)
	doc, _, err = doc.Upsert("b", "first b")
	require.NoError(t, err)

	doc, replaced, err := doc.Upsert("a", "second a")
	require.NoError(t, err)
	assert.True(t, replaced)

	content := doc.Content()
	assert.Equal(t, 1, strings.Count(content, StartMarker("a")))
	assert.Equal(t, 1, strings.Count(content, EndMarker("a")))
	assert.Contains(t, content, "second a")
	assert.NotContains(t, content, "first a")
	assert.Contains(t, content, "first b")

	// relative order of blocks is preserved
	assert.Less(t, strings.Index(content, StartMarker("a")), strings.Index(content, StartMarker("b")))
}

func TestUpsertMultilineContent(t *testing.T) {
	doc, _, err := New("").Upsert("multi", "line one\n\nline three")
	require.NoError(t, err)

	doc, replaced, err := doc.Upsert("multi", "replacement")
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t,
		"<!-- ANTHROPIC_SKILL_START: multi -->\nreplacement\n<!-- ANTHROPIC_SKILL_END: multi -->",
		doc.Content())
}

func TestUpsertLeavesSurroundingContentIntact(t *testing.T) {
	original := "# Heading\n\n" +
		"<!-- ANTHROPIC_SKILL_START: target -->\nold\n<!-- ANTHROPIC_SKILL_END: target -->\n\n" +
		"trailing prose\n"

	doc, replaced, err := New(original).Upsert("target", "new")
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, "# Heading\n\n"+
		"<!-- ANTHROPIC_SKILL_START: target -->\nnew\n<!-- ANTHROPIC_SKILL_END: target -->\n\n"+
		"trailing prose\n",
		doc.Content())
}

func TestUpsertRejectsMarkerSyntaxInName(t *testing.T) {
	for _, name := range []string{"", "bad\nname", "sneaky -->", "<!-- sneaky"} {
		_, _, err := New("").Upsert(name, "content")
		assert.Error(t, err, "name %q", name)
	}
}

func TestRemove(t *testing.T) {
	doc := New("")
	doc, _, err := doc.Upsert("a", "content a")
	require.NoError(t, err)
	doc, _, err = doc.Upsert("b", "content b")
	require.NoError(t, err)

	doc, err = doc.Remove("a")
	require.NoError(t, err)

	content := doc.Content()
	assert.NotContains(t, content, StartMarker("a"))
	assert.NotContains(t, content, EndMarker("a"))
	assert.Contains(t, content, StartMarker("b")+"\ncontent b\n"+EndMarker("b"))
	assert.NotContains(t, content, "\n\n\n")
	assert.True(t, strings.HasSuffix(content, "\n"))
	assert.False(t, strings.HasSuffix(content, "\n\n"))
}

func TestRemoveNotFound(t *testing.T) {
	doc := New("no blocks here\n")
	_, err := doc.Remove("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "no blocks here\n", doc.Content())
}

func TestRemoveLastBlockLeavesSingleNewline(t *testing.T) {
	doc, _, err := New("").Upsert("only", "content")
	require.NoError(t, err)

	doc, err = doc.Remove("only")
	require.NoError(t, err)
	assert.Equal(t, "\n", doc.Content())
	assert.Empty(t, doc.Names())
}

func TestNames(t *testing.T) {
	doc := New("")
	for _, name := range []string{"zeta", "alpha", "mid"} {
		var err error
		doc, _, err = doc.Upsert(name, "content for "+name)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, doc.Names())
}

func TestLoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "GEMINI.md")

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, doc.Content())

	doc, _, err = doc.Upsert("persisted", "content")
	require.NoError(t, err)
	require.NoError(t, doc.Save(path))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Content(), reloaded.Content())
	assert.Equal(t, []string{"persisted"}, reloaded.Names())
}

func TestIngestTwiceLeavesOneMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "GEMINI.md")

	for i := 0; i < 2; i++ {
		doc, err := Load(path)
		require.NoError(t, err)
		doc, _, err = doc.Upsert("webapp-testing", "rule content")
		require.NoError(t, err)
		require.NoError(t, doc.Save(path))
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "<!-- ANTHROPIC_SKILL_START: webapp-testing -->"))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("webapp-testing"))
	assert.NoError(t, ValidateName("name with spaces"))
	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("a\nb"))
	assert.Error(t, ValidateName("a\rb"))
	assert.Error(t, ValidateName("x --> y"))
	assert.Error(t, ValidateName("x <!-- y"))
}
