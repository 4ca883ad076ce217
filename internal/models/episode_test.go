package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/gostremiour/internal/errors"
)

func TestParseEpisodeRequest(t *testing.T) {
	req, err := ParseEpisodeRequest("tt38607251:1:10")
	require.NoError(t, err)
	assert.Equal(t, EpisodeRequest{ShowKey: "tt38607251", Season: 1, Episode: 10}, req)
	assert.Equal(t, "tt38607251:1:10", req.String())
}

func TestParseEpisodeRequestRejectsMalformedIDs(t *testing.T) {
	for _, id := range []string{
		"",
		"tt1",
		"tt1:1",
		"tt1:1:1:1",
		":1:1",
		"tt1:one:1",
		"tt1:1:x",
		"tt1:0:1",
		"tt1:1:0",
		"tt1:-2:1",
	} {
		t.Run(id, func(t *testing.T) {
			_, err := ParseEpisodeRequest(id)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeParse))
		})
	}
}
