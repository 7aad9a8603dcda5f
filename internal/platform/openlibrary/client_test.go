package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shelfapi/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClientWithBaseURL("shelfapi-test", 100, server.URL)
}

func TestClient_SearchAuthors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/authors.json", r.URL.Path)
		assert.Equal(t, "tolkien", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Write([]byte(`{
			"numFound": 2,
			"docs": [
				{"key": "OL26320A", "name": "J.R.R. Tolkien"},
				{"key": "/authors/OL7555698A", "name": "Christopher Tolkien"}
			]
		}`))
	})

	refs, err := client.SearchAuthors(context.Background(), "tolkien", 5)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, AuthorRef{SourceID: "OL26320A", Name: "J.R.R. Tolkien"}, refs[0])
	assert.Equal(t, AuthorRef{SourceID: "OL7555698A", Name: "Christopher Tolkien"}, refs[1])
}

func TestClient_GetAuthor(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/authors/OL26320A.json", r.URL.Path)
		w.Write([]byte(`{"key": "/authors/OL26320A", "name": "J.R.R. Tolkien"}`))
	})

	author, err := client.GetAuthor(context.Background(), "/authors/OL26320A")
	require.NoError(t, err)
	assert.Equal(t, "OL26320A", author.SourceID)
	assert.Equal(t, "J.R.R. Tolkien", author.Name)
}

func TestClient_GetWork(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works/OL27448W.json", r.URL.Path)
		w.Write([]byte(`{
			"key": "/works/OL27448W",
			"title": "The Lord of the Rings",
			"first_publish_date": "July 29, 1954",
			"cover_edition": {"key": "/books/OL7353617M"}
		}`))
	})

	work, err := client.GetWork(context.Background(), "OL27448W")
	require.NoError(t, err)
	assert.Equal(t, "OL27448W", work.SourceID)
	assert.Equal(t, "The Lord of the Rings", work.Title)
	require.NotNil(t, work.FirstPublishYear)
	assert.Equal(t, 1954, *work.FirstPublishYear)
	assert.Equal(t, "OL7353617M", work.PrimaryEditionSourceID)
}

func TestClient_GetEditions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works/OL27448W/editions.json", r.URL.Path)
		w.Write([]byte(`{
			"entries": [
				{"key": "/books/OL7353617M", "title": "The Fellowship of the Ring", "publish_date": "1986-08-12"},
				{"key": "/books/OL9701406M", "title": "The Fellowship of the Ring", "publish_date": "1999"}
			]
		}`))
	})

	editions, err := client.GetEditions(context.Background(), "OL27448W")
	require.NoError(t, err)
	require.Len(t, editions, 2)
	assert.Equal(t, "OL7353617M", editions[0].SourceID)
	assert.Equal(t, "1986-08-12", editions[0].PublishDate)
	require.NotNil(t, editions[1].PublishYear)
	assert.Equal(t, 1999, *editions[1].PublishYear)
}

func TestClient_GetAuthor_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetAuthor(context.Background(), "OL0A")
	assert.ErrorIs(t, err, apperr.ErrNotFoundInSource)
}

func TestClient_GetAuthor_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetAuthor(context.Background(), "OL26320A")
	assert.ErrorIs(t, err, apperr.ErrSourceUnavailable)
}

func TestClient_GetWork_BadJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title": `))
	})

	_, err := client.GetWork(context.Background(), "OL27448W")
	assert.ErrorIs(t, err, apperr.ErrSourceUnavailable)
}
