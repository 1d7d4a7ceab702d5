package localcache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Djatila/studionailart-sub001/internal/storage/localcache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) *localcache.Cache {
	t.Helper()

	return localcache.New(filepath.Join(t.TempDir(), "cache.json"))
}

func TestLoadMissingFile(t *testing.T) {
	cache := newCache(t)

	recs, err := cache.Load("designer-1")

	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestAppendPartitionsByDesigner(t *testing.T) {
	cache := newCache(t)

	require.NoError(t, cache.Append("designer-1", localcache.Record{ID: "a", DesignerID: "designer-1"}))
	require.NoError(t, cache.Append("designer-2", localcache.Record{ID: "b", DesignerID: "designer-2"}))
	require.NoError(t, cache.Append("designer-1", localcache.Record{ID: "c", DesignerID: "designer-1"}))

	recs, err := cache.Load("designer-1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].IDString())
	assert.Equal(t, "c", recs[1].IDString())

	recs, err = cache.Load("designer-2")
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestLegacyFlatArrayMigration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	legacy := `[
		{"id": "a", "designerId": "designer-1", "specificDate": "2026-03-10", "startTime": "10:00"},
		{"id": "b", "designer_id": "designer-2", "specific_date": "2026-03-11", "start_time": "08:00"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	cache := localcache.New(path)

	recs, err := cache.Load("designer-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "a", recs[0].IDString())

	recs, err = cache.Load("designer-2")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "designer-2", recs[0].Designer())
}

func TestNumericIDCoercion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	data := `{"designer-1": [{"id": 1767225600000, "designerId": "designer-1"}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cache := localcache.New(path)

	rec, found, err := cache.Find("1767225600000")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "1767225600000", rec.IDString())

	deleted, err := cache.Delete("1767225600000")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestReplace(t *testing.T) {
	cache := newCache(t)

	require.NoError(t, cache.Append("designer-1", localcache.Record{ID: "a", DesignerID: "designer-1", StartTime: "10:00"}))

	ok, err := cache.Replace("a", localcache.Record{ID: "a", DesignerID: "designer-1", StartTime: "13:00"})
	require.NoError(t, err)
	assert.True(t, ok)

	rec, found, err := cache.Find("a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "13:00", rec.StartTime)

	ok, err = cache.Replace("missing", localcache.Record{ID: "missing"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteAbsentIDIsNoop(t *testing.T) {
	cache := newCache(t)

	require.NoError(t, cache.Append("designer-1", localcache.Record{ID: "a", DesignerID: "designer-1"}))

	deleted, err := cache.Delete("missing")
	require.NoError(t, err)
	assert.False(t, deleted)

	recs, err := cache.Load("designer-1")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestDeleteRemovesOnlyMatch(t *testing.T) {
	cache := newCache(t)

	require.NoError(t, cache.Append("designer-1", localcache.Record{ID: "a", DesignerID: "designer-1"}))
	require.NoError(t, cache.Append("designer-1", localcache.Record{ID: "b", DesignerID: "designer-1"}))

	deleted, err := cache.Delete("a")
	require.NoError(t, err)
	assert.True(t, deleted)

	recs, err := cache.Load("designer-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "b", recs[0].IDString())
}
