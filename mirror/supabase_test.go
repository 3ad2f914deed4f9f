package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSupabase(t *testing.T, handler http.HandlerFunc) *Supabase {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSupabase(srv.URL, "anon-key", "ai_card_content", 2*time.Second)
}

func TestUpsert(t *testing.T) {
	var gotPath, gotPrefer, gotKey string
	var gotRec Record
	s := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPrefer = r.Header.Get("Prefer")
		gotKey = r.Header.Get("apikey")
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRec))
		w.WriteHeader(http.StatusCreated)
	})

	rec := Record{
		NoteID:     "1650000000000",
		DeckName:   "Japanese::N3",
		Front:      "犬",
		AIContent:  "<p>dog</p>",
		ModelUsed:  "gpt-4o",
		PromptUsed: "be helpful",
	}
	require.NoError(t, s.Upsert(context.Background(), rec))

	assert.Equal(t, "/rest/v1/ai_card_content", gotPath)
	assert.Equal(t, "resolution=merge-duplicates", gotPrefer)
	assert.Equal(t, "anon-key", gotKey)
	assert.Equal(t, rec, gotRec)
}

func TestUpsertHTTPError(t *testing.T) {
	s := newTestSupabase(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusUnauthorized)
	})

	err := s.Upsert(context.Background(), Record{NoteID: "1"})
	var merr *Error
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, http.StatusUnauthorized, merr.Status)
	assert.Contains(t, merr.Error(), "permission denied")
}

func TestUpsertNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	s := NewSupabase(srv.URL, "anon-key", "t", time.Second)

	err := s.Upsert(context.Background(), Record{NoteID: "1"})
	var merr *Error
	require.True(t, errors.As(err, &merr))
	assert.Zero(t, merr.Status)
}

func TestFetch(t *testing.T) {
	s := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.42", r.URL.Query().Get("note_id"))
		json.NewEncoder(w).Encode([]Record{{NoteID: "42", Front: "犬"}})
	})

	rec, err := s.Fetch(context.Background(), "42")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "犬", rec.Front)
}

func TestFetchNotFound(t *testing.T) {
	s := newTestSupabase(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode([]Record{})
	})

	rec, err := s.Fetch(context.Background(), "42")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestDisabled(t *testing.T) {
	var m Mirror = Disabled{}
	assert.False(t, m.Enabled())
	assert.NoError(t, m.Upsert(context.Background(), Record{}))
}
