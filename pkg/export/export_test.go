package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patternware/satchel/pkg/types"
	v1 "github.com/patternware/satchel/pkg/types/v1"
)

func TestSnapshotPreservesOrderAndCount(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	items := []v1.CollectedItem{
		{
			Pattern:   v1.PatternSummary{ID: types.ID("b"), Title: "Beta", Slug: "beta"},
			DateAdded: now.Add(-time.Hour),
			Notes:     "second thoughts",
		},
		{
			Pattern:   v1.PatternSummary{ID: types.ID("a"), Title: "Alpha", Slug: "alpha"},
			DateAdded: now.Add(-time.Minute),
		},
	}

	doc := Snapshot(items, now)

	assert.Equal(t, now, doc.GeneratedAt)
	assert.Equal(t, 2, doc.Count)
	require.Len(t, doc.Patterns, 2)
	assert.Equal(t, types.ID("b"), doc.Patterns[0].ID)
	assert.Equal(t, "second thoughts", doc.Patterns[0].Notes)
	assert.Equal(t, types.ID("a"), doc.Patterns[1].ID)
}

func TestWriteEmitsIndentedJSON(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	items := []v1.CollectedItem{
		{
			Pattern:   v1.PatternSummary{ID: types.ID("a"), Title: "Alpha", Slug: "alpha"},
			DateAdded: now,
			Notes:     "keep",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, items, now))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, float64(1), got["count"])

	patterns, ok := got["patterns"].([]interface{})
	require.True(t, ok)
	first, ok := patterns[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Alpha", first["title"])
	assert.Equal(t, "alpha", first["slug"])
	assert.Equal(t, "keep", first["notes"])
}

func TestWriteOmitsEmptyOptionalFields(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	items := []v1.CollectedItem{
		{
			Pattern:   v1.PatternSummary{ID: types.ID("draft"), Title: "Draft"},
			DateAdded: now,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, items, now))

	assert.NotContains(t, buf.String(), `"slug"`)
	assert.NotContains(t, buf.String(), `"notes"`)
}

func TestSnapshotEmptyBag(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	doc := Snapshot(nil, now)

	assert.Equal(t, 0, doc.Count)
	assert.Empty(t, doc.Patterns)
}
