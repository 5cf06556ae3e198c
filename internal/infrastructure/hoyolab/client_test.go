package hoyolab

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.Client(), Options{BaseURL: server.URL, GameID: "6", PageSize: 20}, nil)
}

func TestListArticles(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, newsListPath, r.URL.Path)
		assert.Equal(t, "6", r.URL.Query().Get("gids"))
		assert.Equal(t, "20", r.URL.Query().Get("page_size"))
		assert.Equal(t, "prev-cursor", r.URL.Query().Get("last_id"))

		w.Write([]byte(`{"data":{"list":[
			{"post":{"post_id":"111","subject":"Garden of Plenty Event Details","desc":"double drops","content":""}},
			{"post":{"post_id":"","subject":"broken entry"}},
			{"post":{"post_id":"222","subject":"Version Update Maintenance","desc":"version update"}}
		],"last_id":"222","is_last":false}}`))
	}))

	articles, cursor, isLast, err := client.ListArticles(context.Background(), "prev-cursor")
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, "111", articles[0].ID)
	assert.Equal(t, "Garden of Plenty Event Details", articles[0].Title)
	assert.Equal(t, "double drops", articles[0].Description)
	assert.Equal(t, "222", cursor)
	assert.False(t, isLast)
}

func TestListArticlesServerError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, _, isLast, err := client.ListArticles(context.Background(), "")
	assert.Error(t, err)
	assert.True(t, isLast)
}

func TestFetchContentFlattensAndPicksStructuredImage(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, postFullPath, r.URL.Path)
		assert.Equal(t, "111", r.URL.Query().Get("post_id"))

		w.Write([]byte(`{"data":{"post":{"post":{
			"structured_content":"[{\"insert\":\"▌Event Period\\n\"},{\"insert\":{\"type\":\"image\",\"attributes\":{\"src\":\"https://img.example/banner.png\"}}},{\"insert\":\"2025/6/1 00:00:00 – 2025/6/18 12:00:00\"}]",
			"desc":"double drops",
			"cover":"",
			"multi_language_info":{"lang_content":{"en-us":"fallback text"}}
		},"image_list":[]}}}`))
	}))

	content, err := client.FetchContent(context.Background(), "111")
	require.NoError(t, err)

	assert.Equal(t, "double drops", content.Description)
	assert.Equal(t, "▌ Event Period 2025/6/1 00:00:00 – 2025/6/18 12:00:00", content.NormalizedText)
	assert.Equal(t, "https://img.example/banner.png", content.ImageURL)
}

func TestFetchContentPrefersImageList(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"post":{"post":{
			"structured_content":"",
			"desc":"short description",
			"cover":"https://img.example/cover.png",
			"multi_language_info":{"lang_content":{"en-us":"localized"}}
		},"image_list":[{"url":"https://img.example/upload.png"}]}}}`))
	}))

	content, err := client.FetchContent(context.Background(), "111")
	require.NoError(t, err)

	assert.Equal(t, "https://img.example/upload.png", content.ImageURL)
	assert.Equal(t, "short description localized", content.NormalizedText)
}

func TestFetchContentFallsBackToCover(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"post":{"post":{
			"structured_content":"",
			"desc":"d",
			"cover":"https://img.example/cover.png"
		},"image_list":[]}}}`))
	}))

	content, err := client.FetchContent(context.Background(), "111")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/cover.png", content.ImageURL)
}

func TestFetchComments(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, postRepliesPath, r.URL.Path)
		assert.Equal(t, "111", r.URL.Query().Get("post_id"))

		w.Write([]byte(`{"data":{"list":[
			{"reply":{"content":"hype!","like_num":12}},
			{"reply":{"content":"meh","like_num":0}}
		]}}`))
	}))

	comments, err := client.FetchComments(context.Background(), "111")
	require.NoError(t, err)

	require.Len(t, comments, 2)
	assert.Equal(t, "hype!", comments[0].Content)
	assert.Equal(t, 12, comments[0].Likes)
}
