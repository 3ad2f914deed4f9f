package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Supabase mirrors generated content into a table through the PostgREST API.
type Supabase struct {
	baseURL string
	key     string
	table   string
	client  *http.Client
}

// NewSupabase builds a Supabase mirror client. A zero timeout defaults to 30s.
func NewSupabase(baseURL, anonKey, table string, timeout time.Duration) *Supabase {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Supabase{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     anonKey,
		table:   table,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *Supabase) Enabled() bool { return true }

func (s *Supabase) endpoint() string {
	return fmt.Sprintf("%s/rest/v1/%s", s.baseURL, s.table)
}

func (s *Supabase) setAuth(req *http.Request) {
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
}

// Upsert inserts or updates the row for rec.NoteID. The merge-duplicates
// preference makes a repeat upsert for the same note id an update.
func (s *Supabase) Upsert(ctx context.Context, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return &Error{Message: "encoding record", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint(), bytes.NewReader(body))
	if err != nil {
		return &Error{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates")
	s.setAuth(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return &Error{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{Status: resp.StatusCode, Message: string(msg)}
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// Fetch returns the mirrored row for a note id, or nil when none exists.
func (s *Supabase) Fetch(ctx context.Context, noteID string) (*Record, error) {
	endpoint := s.endpoint() + "?" + url.Values{"note_id": {"eq." + noteID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, &Error{Err: err}
	}
	s.setAuth(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &Error{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &Error{Status: resp.StatusCode, Message: string(msg)}
	}

	var rows []Record
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, &Error{Message: "decoding rows", Err: err}
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// SetupSQL creates the mirror table. Printed by `aicards mirror setup-sql` for
// pasting into the Supabase SQL editor.
const SetupSQL = `-- Run this in your Supabase SQL editor to create the required table.

CREATE TABLE IF NOT EXISTS ai_card_content (
    note_id      TEXT PRIMARY KEY,
    deck_name    TEXT NOT NULL,
    front        TEXT NOT NULL,
    ai_content   TEXT NOT NULL,
    model_used   TEXT DEFAULT '',
    prompt_used  TEXT DEFAULT '',
    created_at   TIMESTAMPTZ DEFAULT NOW(),
    updated_at   TIMESTAMPTZ DEFAULT NOW()
);

-- Auto-update updated_at on row modification
CREATE OR REPLACE FUNCTION update_updated_at()
RETURNS TRIGGER AS $$
BEGIN
    NEW.updated_at = NOW();
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;

CREATE TRIGGER ai_card_content_updated_at
    BEFORE UPDATE ON ai_card_content
    FOR EACH ROW EXECUTE FUNCTION update_updated_at();

-- Enable Row Level Security (optional but recommended)
ALTER TABLE ai_card_content ENABLE ROW LEVEL SECURITY;

-- Allow anonymous reads and writes (adjust as needed)
CREATE POLICY "Allow anon access" ON ai_card_content
    FOR ALL USING (true) WITH CHECK (true);
`
