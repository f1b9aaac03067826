package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-cli/internal/model"
	"catalog-cli/internal/tree"
)

func sampleRows() []model.FlatItem {
	roots := []*model.Item{
		{ID: 1, Name: "DOTA2", Order: 1, DisplayNumber: "1", SubCategories: "Head / Weapon", ItemCount: 2, Children: []*model.Item{
			{ID: 11, Name: "Head", Order: 1, DisplayNumber: "1.1"},
			{ID: 12, Name: "Weapon", Order: 2, DisplayNumber: "1.2"},
		}},
		{ID: 2, Name: "CS2", Order: 2, DisplayNumber: "2", Collapsed: true, SubCategories: "Knives", ItemCount: 1, Children: []*model.Item{
			{ID: 21, Name: "Knives", Order: 1, DisplayNumber: "2.1"},
		}},
	}
	return tree.Flatten(roots)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, map[string]any{"data": 1}, "json", false))
	assert.Equal(t, "{\"data\":1}\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, map[string]any{"data": 1}, "", true))
	assert.Equal(t, "{\n  \"data\": 1\n}\n", buf.String())
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	it := &model.Item{ID: 11, Name: "Head", Order: 1, DisplayNumber: "1.1"}
	require.NoError(t, Write(&buf, map[string]any{"data": it}, "yaml", false))

	out := buf.String()
	assert.Contains(t, out, "data:\n")
	assert.Contains(t, out, "  displayNumber: \"1.1\"\n")
	assert.Contains(t, out, "  name: Head\n")
	assert.NotContains(t, out, "children")
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, 1, "edn", false)
	assert.ErrorContains(t, err, "unknown format: edn")
}

func TestWriteTree_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, sampleRows(), TreeOptions{}))

	want := strings.Join([]string{
		"▾ 1 DOTA2 (2) Head / Weapon",
		"    1.1 Head",
		"    1.2 Weapon",
		"▸ 2 CS2 (1) Knives",
		"    2.1 Knives",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteTree_HideCollapsed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, sampleRows(), TreeOptions{HideCollapsed: true}))

	out := buf.String()
	assert.Contains(t, out, "1.2 Weapon")
	assert.Contains(t, out, "2 CS2")
	assert.NotContains(t, out, "2.1 Knives")
}

func TestWriteTree_Width(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, sampleRows(), TreeOptions{Width: 10}))

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 10, "line %q", line)
	}
	assert.True(t, strings.HasPrefix(buf.String(), "▾ 1 DOTA2…"))
}
