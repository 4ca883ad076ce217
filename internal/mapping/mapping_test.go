package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
	"tt0": "https://site/show",
	"tt1": {"url": "https://site/absolute", "season_offsets": {"2": 26, "3": 49}},
	"tt2": {"url": ""},
	"tt3": {"url": "https://site/odd", "season_offsets": {"x": 5}}
}`

func TestParse(t *testing.T) {
	table, warnings, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Len(t, warnings, 2)

	bare, ok := table.Lookup("tt0")
	require.True(t, ok)
	assert.Equal(t, "https://site/show", bare.BaseURL)
	assert.False(t, bare.HasOffsets())

	structured, ok := table.Lookup("tt1")
	require.True(t, ok)
	assert.True(t, structured.HasOffsets())
	assert.Equal(t, map[int]int{2: 26, 3: 49}, structured.SeasonOffsets)

	odd, ok := table.Lookup("tt3")
	require.True(t, ok)
	assert.True(t, odd.HasOffsets())
	assert.Equal(t, 5, odd.Target(5, 5).AbsoluteEpisode)

	_, ok = table.Lookup("tt2")
	assert.False(t, ok)
	_, ok = table.Lookup("unknown")
	assert.False(t, ok)
}

func TestParseRejectsInvalidDocument(t *testing.T) {
	_, _, err := Parse([]byte(`["not", "an", "object"]`))
	assert.Error(t, err)
}

func TestTarget(t *testing.T) {
	show := ShowMapping{BaseURL: "https://site/show", SeasonOffsets: map[int]int{3: 49}}

	assert.Equal(t, 63, show.Target(3, 14).AbsoluteEpisode)
	assert.Equal(t, 14, show.Target(2, 14).AbsoluteEpisode)

	plain := ShowMapping{BaseURL: "https://site/show"}
	for episode := 1; episode < 40; episode++ {
		assert.Equal(t, episode, plain.Target(4, episode).AbsoluteEpisode)
	}
}

func TestTableIsIsolatedFromSource(t *testing.T) {
	offsets := map[int]int{2: 10}
	table := NewTable(map[string]ShowMapping{"tt9": {BaseURL: "https://site/x", SeasonOffsets: offsets}})

	offsets[2] = 99
	show, _ := table.Lookup("tt9")
	assert.Equal(t, 10, show.SeasonOffsets[2])
}

func TestNilTableLookup(t *testing.T) {
	var table *Table
	_, ok := table.Lookup("tt0")
	assert.False(t, ok)
	assert.Zero(t, table.Len())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	table, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestWithBaseURL(t *testing.T) {
	table := NewTable(map[string]ShowMapping{
		"tt1": {BaseURL: "/series/kurulus-orhan-urdu-subtitles", SeasonOffsets: map[int]int{3: 49}},
		"tt2": {BaseURL: "https://elsewhere.org/series/x"},
	}).WithBaseURL("https://play.qayadat.org/")

	show, ok := table.Lookup("tt1")
	require.True(t, ok)
	assert.Equal(t, "https://play.qayadat.org/series/kurulus-orhan-urdu-subtitles", show.BaseURL)
	assert.Equal(t, 49, show.SeasonOffsets[3])

	show, _ = table.Lookup("tt2")
	assert.Equal(t, "https://elsewhere.org/series/x", show.BaseURL)
}

func TestEmptyOffsetTableStillCounts(t *testing.T) {
	table, warnings, err := Parse([]byte(`{"tt0": {"url": "https://site/show", "season_offsets": {}}, "tt1": {"url": "https://site/other"}}`))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	show, ok := table.Lookup("tt0")
	require.True(t, ok)
	assert.True(t, show.HasOffsets())
	assert.Equal(t, 14, show.Target(3, 14).AbsoluteEpisode)

	show, ok = table.Lookup("tt1")
	require.True(t, ok)
	assert.False(t, show.HasOffsets())

	rebased := NewTable(map[string]ShowMapping{"tt0": {BaseURL: "/series/x", SeasonOffsets: map[int]int{}}}).WithBaseURL("https://site")
	show, _ = rebased.Lookup("tt0")
	assert.True(t, show.HasOffsets())
}
