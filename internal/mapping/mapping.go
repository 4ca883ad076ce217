// Package mapping holds the static show-key to listing-URL table and the
// absolute episode numbering rules attached to it.
package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ShowMapping is the listing location of one show.
type ShowMapping struct {
	BaseURL       string
	SeasonOffsets map[int]int
}

// ResolvedTarget is the episode number to look for on the listing site.
type ResolvedTarget struct {
	AbsoluteEpisode int
}

// HasOffsets reports whether the show carries an offset table. An empty
// table still counts: it marks the show as absolutely numbered.
func (m ShowMapping) HasOffsets() bool {
	return m.SeasonOffsets != nil
}

// Target maps a per-season episode to the number used on the listing site.
func (m ShowMapping) Target(season, episode int) ResolvedTarget {
	if offset, ok := m.SeasonOffsets[season]; ok {
		return ResolvedTarget{AbsoluteEpisode: episode + offset}
	}
	return ResolvedTarget{AbsoluteEpisode: episode}
}

// Table is an immutable lookup built once at startup.
type Table struct {
	shows map[string]ShowMapping
}

// NewTable copies shows into a new Table.
func NewTable(shows map[string]ShowMapping) *Table {
	t := &Table{shows: make(map[string]ShowMapping, len(shows))}
	for key, show := range shows {
		var offsets map[int]int
		if show.SeasonOffsets != nil {
			offsets = make(map[int]int, len(show.SeasonOffsets))
			for season, offset := range show.SeasonOffsets {
				offsets[season] = offset
			}
		}
		t.shows[key] = ShowMapping{BaseURL: show.BaseURL, SeasonOffsets: offsets}
	}
	return t
}

// Lookup returns the mapping for showKey. A missing key is a normal
// "nothing available" outcome.
func (t *Table) Lookup(showKey string) (ShowMapping, bool) {
	if t == nil {
		return ShowMapping{}, false
	}
	show, ok := t.shows[showKey]
	return show, ok
}

// Len returns the number of shows in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.shows)
}

// Load reads a mapping file from disk.
func Load(path string) (*Table, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read mapping file: %w", err)
	}
	return Parse(data)
}

// entry accepts both the bare-URL and the structured mapping forms.
type entry struct {
	URL           string         `json:"url"`
	SeasonOffsets map[string]int `json:"season_offsets"`
}

func (e *entry) UnmarshalJSON(b []byte) error {
	var bare string
	if err := json.Unmarshal(b, &bare); err == nil {
		e.URL = bare
		return nil
	}
	type plain entry
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*e = entry(p)
	return nil
}

// Parse decodes a mapping document. Entries that cannot be used are
// skipped; their keys and reasons are returned as warnings.
func Parse(data []byte) (*Table, []string, error) {
	var raw map[string]entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to decode mapping: %w", err)
	}

	var warnings []string
	shows := make(map[string]ShowMapping, len(raw))
	for key, e := range raw {
		baseURL := strings.TrimSpace(e.URL)
		if baseURL == "" {
			warnings = append(warnings, fmt.Sprintf("%s: empty url", key))
			continue
		}

		var offsets map[int]int
		if e.SeasonOffsets != nil {
			offsets = make(map[int]int, len(e.SeasonOffsets))
		}
		for seasonStr, offset := range e.SeasonOffsets {
			season, err := strconv.Atoi(seasonStr)
			if err != nil || season < 1 {
				warnings = append(warnings, fmt.Sprintf("%s: ignoring offset for season %q", key, seasonStr))
				continue
			}
			offsets[season] = offset
		}

		shows[key] = ShowMapping{BaseURL: baseURL, SeasonOffsets: offsets}
	}

	return NewTable(shows), warnings, nil
}

// WithBaseURL returns a copy of t in which site-relative listing URLs such as
// /series/kurulus-orhan-urdu-subtitles are anchored on primaryBase.
func (t *Table) WithBaseURL(primaryBase string) *Table {
	if t == nil {
		return nil
	}
	primaryBase = strings.TrimRight(primaryBase, "/")

	shows := make(map[string]ShowMapping, len(t.shows))
	for key, show := range t.shows {
		if !strings.HasPrefix(show.BaseURL, "http://") && !strings.HasPrefix(show.BaseURL, "https://") {
			show.BaseURL = primaryBase + "/" + strings.TrimLeft(show.BaseURL, "/")
		}
		shows[key] = show
	}
	return NewTable(shows)
}
