package ddragon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/lol-dataset/internal/usecase"
)

func newTestServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/api/versions.json":
			_, _ = w.Write([]byte(`["14.20.1","14.19.1"]`))
		case "/cdn/14.20.1/data/en_US/champion.json":
			_, _ = w.Write([]byte(`{"version":"14.20.1","data":{
				"MonkeyKing":{"id":"MonkeyKing","key":"62","name":"Wukong"},
				"Aatrox":{"id":"Aatrox","key":"266","name":"Aatrox"},
				"Annie":{"id":"Annie","key":"1","name":"Annie"}}}`))
		case "/cdn/14.20.1/data/en_US/runesReforged.json":
			_, _ = w.Write([]byte(`[
				{"id":8000,"key":"Precision","slots":[
					{"runes":[{"id":8005},{"id":8010}]},
					{"runes":[{"id":9111}]},
					{"runes":[{"id":9104}]}]},
				{"id":8400,"key":"Resolve","slots":[
					{"runes":[{"id":8437}]},
					{"runes":[{"id":8444},{"id":8451}]}]}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestChampions_SortedByNumericKey(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := newTestServer(t, &hits)
	client := NewClient(ClientConfig{HTTPClient: server.Client(), BaseURL: server.URL})

	champions, err := client.Champions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []usecase.Champion{
		{ID: 1, Key: "Annie", Name: "Annie"},
		{ID: 62, Key: "MonkeyKing", Name: "Wukong"},
		{ID: 266, Key: "Aatrox", Name: "Aatrox"},
	}, champions)

	_, err = client.Champions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "versions and champions should be fetched once")
}

func TestRunes_SplitsKeystonesFromOtherSlots(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := newTestServer(t, &hits)
	client := NewClient(ClientConfig{HTTPClient: server.Client(), BaseURL: server.URL})

	catalog, err := client.Runes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{8005, 8010, 8437}, catalog.Primary)
	assert.Equal(t, []int{9111, 9104, 8444, 8451}, catalog.Secondary)
	assert.Len(t, catalog.All(), 7)
}

func TestPinnedVersionSkipsVersionLookup(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := newTestServer(t, &hits)
	client := NewClient(ClientConfig{HTTPClient: server.Client(), BaseURL: server.URL, Version: "14.19.1"})

	_, err := client.Champions(context.Background())
	require.ErrorIs(t, err, usecase.ErrNotFound)
	assert.Equal(t, int32(1), hits.Load())
}
