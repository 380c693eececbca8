package ingestion

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ticks20200101 int64 = 637134336000000000
	ticksPerDay   int64 = 864000000000
)

// writeDiaryDB creates a diary database with the given rows of (ticks, text).
func writeDiaryDB(t *testing.T, rows map[int64]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diary.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE Entries (DiaryEntryId INTEGER PRIMARY KEY, Text TEXT)")
	require.NoError(t, err)
	for ticks, text := range rows {
		_, err = db.Exec("INSERT INTO Entries (DiaryEntryId, Text) VALUES (?, ?)", ticks, text)
		require.NoError(t, err)
	}
	return path
}

func TestSQLiteSource_Entries(t *testing.T) {
	path := writeDiaryDB(t, map[int64]string{
		ticks20200101:               "<p>I like running.</p><p>I run every day.</p>",
		ticks20200101 + ticksPerDay: "Tom &amp; Jerry &#8211; again",
	})
	src := NewSQLiteSource(path)
	assert.Equal(t, path, src.Name())

	entries, err := src.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byLabel := map[string]string{}
	for _, e := range entries {
		byLabel[e.Label] = e.Text
	}
	assert.Equal(t, "I like running.\nI run every day.\n", byLabel["01.01.2020"])
	assert.Equal(t, "Tom & Jerry – again", byLabel["02.01.2020"])

	count, err := src.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSQLiteSource_NullText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diary.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE Entries (DiaryEntryId INTEGER, Text TEXT)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO Entries (DiaryEntryId, Text) VALUES (?, NULL)", ticks20200101)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	entries, err := NewSQLiteSource(path).Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].Text)
}

func TestSQLiteSource_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	src := NewSQLiteSource(path)

	_, err := src.Entries(context.Background())
	assert.ErrorIs(t, err, ErrSourceNotFound)

	_, err = src.Count(context.Background())
	assert.ErrorIs(t, err, ErrSourceNotFound)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "a missing database must not be created")
}

func TestSQLiteSource_NoEntriesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE Notes (Id INTEGER)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = NewSQLiteSource(path).Entries(context.Background())
	assert.Error(t, err)
}

func TestCleanDiaryText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"paragraphs", "<p>One.</p><p>Two.</p>", "One.\nTwo.\n"},
		{"named entities", "a &lt;b&gt; &quot;c&quot;", "a <b> \"c\""},
		{"numeric entities", "&#269;&#x10D;", "čč"},
		{"unknown entity kept", "&bogus;", "&bogus;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanDiaryText(tt.raw))
		})
	}
}
