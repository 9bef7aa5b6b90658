package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidrelay/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testResult(title, downloadURL string) model.DownloadResult {
	return model.DownloadResult{
		Success:     true,
		Title:       title,
		Format:      "mp4",
		Platform:    "youtube",
		SizeMB:      12.3,
		DownloadURL: downloadURL,
	}
}

func TestRecordPrependsNewestFirst(t *testing.T) {
	store := newTestStore(t)

	store.Record(testResult("first", "https://cdn.example/a.mp4"))
	store.Record(testResult("second", "https://cdn.example/b.mp4"))

	records := store.Load()
	require.Len(t, records, 2)
	assert.Equal(t, "second", records[0].Title)
	assert.Equal(t, "first", records[1].Title)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestRecordDeduplicatesByDownloadURL(t *testing.T) {
	store := newTestStore(t)

	store.Record(testResult("old title", "https://cdn.example/same.mp4"))
	store.Record(testResult("other", "https://cdn.example/other.mp4"))
	store.Record(testResult("new title", "https://cdn.example/same.mp4"))

	records := store.Load()
	require.Len(t, records, 2)
	assert.Equal(t, "new title", records[0].Title)
	assert.Equal(t, "https://cdn.example/same.mp4", records[0].DownloadURL)
	assert.Equal(t, "other", records[1].Title)
}

func TestRecordTrimsToMaxEntries(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < MaxEntries+1; i++ {
		url := "https://cdn.example/" + string(rune('a'+i)) + ".mp4"
		store.Record(testResult("video "+string(rune('a'+i)), url))
	}

	records := store.Load()
	require.Len(t, records, MaxEntries)
	// The very first insert is the one evicted.
	assert.Equal(t, "video k", records[0].Title)
	assert.Equal(t, "video b", records[len(records)-1].Title)
}

func TestLoadPurgesExpiredRecords(t *testing.T) {
	store := newTestStore(t)

	base := time.Now()
	store.now = func() time.Time { return base.Add(-25 * time.Hour) }
	store.Record(testResult("stale", "https://cdn.example/stale.mp4"))

	store.now = func() time.Time { return base.Add(-time.Hour) }
	store.Record(testResult("fresh", "https://cdn.example/fresh.mp4"))

	store.now = func() time.Time { return base }
	records := store.Load()
	require.Len(t, records, 1)
	assert.Equal(t, "fresh", records[0].Title)

	// The purge persisted: a direct re-read no longer sees the stale entry.
	store.mu.Lock()
	persisted := store.readLocked()
	store.mu.Unlock()
	require.Len(t, persisted, 1)
	assert.Equal(t, "fresh", persisted[0].Title)
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	record := store.Record(testResult("keep", "https://cdn.example/keep.mp4"))
	victim := store.Record(testResult("drop", "https://cdn.example/drop.mp4"))

	store.Remove(victim.ID)
	require.Len(t, store.Load(), 1)

	store.Remove("no-such-id")
	records := store.Load()
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
}

func TestClearEmptiesHistory(t *testing.T) {
	store := newTestStore(t)

	store.Record(testResult("a", "https://cdn.example/a.mp4"))
	store.Record(testResult("b", "https://cdn.example/b.mp4"))

	store.Clear()
	assert.Empty(t, store.Load())
}

func TestMalformedPersistedValueTreatedAsEmpty(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.db.Put([]byte(historyKey), []byte("{not json")))
	assert.Empty(t, store.Load())

	// The store recovers: new records persist normally afterwards.
	store.Record(testResult("fresh start", "https://cdn.example/fresh.mp4"))
	records := store.Load()
	require.Len(t, records, 1)
	assert.Equal(t, "fresh start", records[0].Title)
}

func TestOnChangeSignalled(t *testing.T) {
	store := newTestStore(t)

	var changes int
	store.SetOnChange(func() { changes++ })

	record := store.Record(testResult("a", "https://cdn.example/a.mp4"))
	store.Remove(record.ID)
	store.Clear()

	assert.Equal(t, 3, changes)
}
