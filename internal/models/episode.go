package models

import (
	"strconv"
	"strings"

	"github.com/amaumene/gostremiour/internal/errors"
)

// EpisodeRequest identifies one episode of a show: "<showKey>:<season>:<episode>".
type EpisodeRequest struct {
	ShowKey string
	Season  int
	Episode int
}

// ParseEpisodeRequest decodes a Stremio series id such as "tt0944947:3:14".
func ParseEpisodeRequest(id string) (EpisodeRequest, error) {
	parts := strings.Split(id, ":")
	if len(parts) != 3 {
		return EpisodeRequest{}, errors.NewParseError(id, "expected <show>:<season>:<episode>")
	}

	showKey := strings.TrimSpace(parts[0])
	if showKey == "" {
		return EpisodeRequest{}, errors.NewParseError(id, "empty show key")
	}

	season, err := strconv.Atoi(parts[1])
	if err != nil || season < 1 {
		return EpisodeRequest{}, errors.NewParseError(id, "season must be a positive integer")
	}

	episode, err := strconv.Atoi(parts[2])
	if err != nil || episode < 1 {
		return EpisodeRequest{}, errors.NewParseError(id, "episode must be a positive integer")
	}

	return EpisodeRequest{ShowKey: showKey, Season: season, Episode: episode}, nil
}

func (r EpisodeRequest) String() string {
	return r.ShowKey + ":" + strconv.Itoa(r.Season) + ":" + strconv.Itoa(r.Episode)
}
