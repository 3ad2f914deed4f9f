package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const connectVersion = 6

// Client talks to a running Anki instance through the AnkiConnect add-on.
type Client struct {
	url    string
	fields Fields
	client *http.Client
}

// NewClient builds an AnkiConnect client. A zero timeout defaults to 30s.
func NewClient(url string, fields Fields, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:    url,
		fields: fields,
		client: &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

func (c *Client) invoke(ctx context.Context, action string, params any, out any) error {
	body, err := json.Marshal(rpcRequest{Action: action, Version: connectVersion, Params: params})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ankiconnect %s: %w", action, err)
	}
	defer resp.Body.Close()

	var data rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return fmt.Errorf("ankiconnect %s: decoding response: %w", action, err)
	}
	if data.Error != nil && *data.Error != "" {
		return fmt.Errorf("ankiconnect %s: %s", action, *data.Error)
	}
	if out != nil && data.Result != nil {
		if err := json.Unmarshal(data.Result, out); err != nil {
			return fmt.Errorf("ankiconnect %s: decoding result: %w", action, err)
		}
	}
	return nil
}

type fieldValue struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

type noteInfo struct {
	NoteID int64                 `json:"noteId"`
	Fields map[string]fieldValue `json:"fields"`
	Cards  []int64               `json:"cards"`
}

type cardInfo struct {
	CardID   int64  `json:"cardId"`
	DeckName string `json:"deckName"`
}

// FindNotes resolves an Anki search query to notes, including each note's deck
// name (taken from the note's first card). Notes whose note type lacks the
// required front or content field are dropped from the result.
func (c *Client) FindNotes(ctx context.Context, query string) ([]Note, error) {
	var ids []int64
	if err := c.invoke(ctx, "findNotes", map[string]string{"query": query}, &ids); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var infos []noteInfo
	if err := c.invoke(ctx, "notesInfo", map[string][]int64{"notes": ids}, &infos); err != nil {
		return nil, err
	}

	firstCards := make([]int64, 0, len(infos))
	for _, info := range infos {
		if len(info.Cards) > 0 {
			firstCards = append(firstCards, info.Cards[0])
		}
	}
	deckByCard := map[int64]string{}
	if len(firstCards) > 0 {
		var cards []cardInfo
		if err := c.invoke(ctx, "cardsInfo", map[string][]int64{"cards": firstCards}, &cards); err != nil {
			return nil, err
		}
		for _, card := range cards {
			deckByCard[card.CardID] = card.DeckName
		}
	}

	notes := make([]Note, 0, len(infos))
	for _, info := range infos {
		front, hasFront := info.Fields[c.fields.Front]
		content, hasContent := info.Fields[c.fields.Content]
		if !hasFront || !hasContent {
			continue
		}
		n := Note{
			ID:      info.NoteID,
			Front:   strings.TrimSpace(front.Value),
			Content: content.Value,
		}
		if sid, ok := info.Fields[c.fields.ID]; ok {
			n.StableID = strings.TrimSpace(sid.Value)
		}
		if len(info.Cards) > 0 {
			n.Deck = deckByCard[info.Cards[0]]
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// SaveNote writes the generated-content and identifier fields of a note back
// to Anki in a single updateNoteFields call.
func (c *Client) SaveNote(ctx context.Context, note Note) error {
	fields := map[string]string{
		c.fields.Content: note.Content,
	}
	if note.StableID != "" {
		fields[c.fields.ID] = note.StableID
	}
	params := map[string]any{
		"note": map[string]any{
			"id":     note.ID,
			"fields": fields,
		},
	}
	return c.invoke(ctx, "updateNoteFields", params, nil)
}
