package cms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patternware/satchel/pkg/types"
)

const patternsPayload = `{
  "patterns": [
    {
      "id": "p2",
      "title": "Progress indicator",
      "slug": "progress-indicator",
      "tags": [{"id": "t1", "title": "feedback"}],
      "audiences": [{"id": "a1", "title": "developers"}],
      "theme": {"id": "th1", "title": "Feedback"}
    },
    {
      "id": "p1",
      "title": "Inline validation",
      "slug": "inline-validation",
      "tags": [{"id": "t2"}],
      "theme": {"id": "th-unresolved"}
    }
  ]
}`

func TestFetchBySlugs(t *testing.T) {
	var gotPath, gotSlugs, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSlugs = r.URL.Query().Get("slugs")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(patternsPayload))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "")
	require.NoError(t, err)

	patterns, err := c.FetchBySlugs(context.Background(), []string{"progress-indicator", "inline-validation"})
	require.NoError(t, err)

	assert.Equal(t, "/patterns", gotPath)
	assert.Equal(t, "progress-indicator,inline-validation", gotSlugs)
	assert.Equal(t, "application/json", gotAccept)

	require.Len(t, patterns, 2)
	assert.Equal(t, types.ID("p2"), patterns[0].ID)
	assert.Equal(t, "Feedback", patterns[0].ThemeTitle())
	assert.True(t, patterns[0].HasTag("t1"))
	assert.True(t, patterns[0].HasAudience("a1"))

	// Unresolved references survive with an empty title.
	assert.Equal(t, "", patterns[1].ThemeTitle())
	assert.True(t, patterns[1].HasTag("t2"))

	assert.Equal(t, types.StatusOK, c.Status())
}

func TestFetchBySlugsSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"patterns": []}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "sekrit")
	require.NoError(t, err)

	_, err = c.FetchBySlugs(context.Background(), []string{"anything"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer sekrit", gotAuth)
}

func TestFetchBySlugsEmptyInputSkipsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	defer srv.Close()

	c, err := New(srv.URL, "")
	require.NoError(t, err)

	patterns, err := c.FetchBySlugs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestFetchBySlugsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "")
	require.NoError(t, err)

	_, err = c.FetchBySlugs(context.Background(), []string{"anything"})
	require.Error(t, err)
	assert.Equal(t, types.StatusError, c.Status())
}

func TestFetchBySlugsRejectsInvalidPattern(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"patterns": [{"id": "p1", "slug": "untitled"}]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "")
	require.NoError(t, err)

	_, err = c.FetchBySlugs(context.Background(), []string{"untitled"})
	require.Error(t, err)
}

func TestNewRejectsBadEndpoint(t *testing.T) {
	_, err := New("not a url", "")
	require.Error(t, err)

	_, err = New("", "")
	require.Error(t, err)
}
