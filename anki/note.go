// Package anki reads and writes flashcard notes through the AnkiConnect API.
package anki

import "context"

// Note is one flashcard record as seen by this tool.
type Note struct {
	ID       int64
	Deck     string
	Front    string
	Content  string // generated-content field value
	StableID string // mirror key field value, set once and never overwritten
}

// Fields names the note type fields this tool reads and writes.
type Fields struct {
	Front   string
	Content string
	ID      string
}

// DefaultFields matches the note type the add-on documentation describes.
func DefaultFields() Fields {
	return Fields{Front: "Front", Content: "AI_Content", ID: "NoteID"}
}

// NoteStore is the narrow interface onto the host note collaborator.
// Implementations must write content and id fields together, atomically.
type NoteStore interface {
	FindNotes(ctx context.Context, query string) ([]Note, error)
	SaveNote(ctx context.Context, note Note) error
}
