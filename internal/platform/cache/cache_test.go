// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/songatlas/internal/platform/cache"
)

/*
TestKeys_OrderInvariance verifies that parameter order and list order do not
change the derived key.
*/
func TestKeys_OrderInvariance(t *testing.T) {
	keys := cache.NewKeys("songatlas-cache")

	first := keys.For("filter_songs", cache.Params{
		"country_id": cache.IntList([]int{1, 2}),
		"genre_id":   cache.IntList([]int{5}),
	})
	second := keys.For("filter_songs", cache.Params{
		"genre_id":   cache.IntList([]int{5}),
		"country_id": cache.IntList([]int{2, 1, 2}),
	})

	assert.Equal(t, first, second)
	assert.Equal(t, "songatlas-cache:filter_songs:country_id=1%2C2&genre_id=5", first)
}

/*
TestKeys_EmptyEquivalence verifies that absent and empty parameters collapse.
*/
func TestKeys_EmptyEquivalence(t *testing.T) {
	keys := cache.NewKeys("p")

	assert.Equal(t,
		keys.For("get_countries", nil),
		keys.For("get_countries", cache.Params{"city_id": cache.IntList(nil), "search": ""}),
	)
	assert.Equal(t, "p:get_countries:", keys.For("get_countries", nil))
}

/*
TestKeys_FunctionPrefixBoundary ensures one function's prefix never covers
another function whose name merely starts the same way.
*/
func TestKeys_FunctionPrefixBoundary(t *testing.T) {
	keys := cache.NewKeys("p:")

	songKey := keys.ForID("get_song", 42)
	assert.Equal(t, "p:get_song:42", songKey)
	assert.True(t, strings.HasPrefix(songKey, keys.Function("get_song")))
	assert.False(t, strings.HasPrefix(keys.For("get_songs_by_education_genre", nil), keys.Function("get_song")))
}

/*
TestParams_EscapesValues keeps a search term from forging other parameters.
*/
func TestParams_EscapesValues(t *testing.T) {
	forged := cache.Params{"search": "a&genre_id=1"}.Encode()
	honest := cache.Params{"search": "a", "genre_id": "1"}.Encode()

	assert.NotEqual(t, honest, forged)
}

/*
TestIntList normalizes list parameters.
*/
func TestIntList(t *testing.T) {
	assert.Equal(t, "", cache.IntList(nil))
	assert.Equal(t, "1,3,9", cache.IntList([]int{9, 3, 1, 3}))
}
