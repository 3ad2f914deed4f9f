// Package prompts stores per-deck system prompts and resolves the effective
// prompt for a deck through its `::` hierarchy.
package prompts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Separator joins deck name segments in the host application.
const Separator = "::"

// Resolve returns the prompt registered for the longest name prefix of
// deckName, walking the hierarchy upward (`A::B::C` → `A::B` → `A`), or
// defaultPrompt when no prefix is registered. It never fails.
func Resolve(deckName string, m map[string]string, defaultPrompt string) string {
	if p, ok := m[deckName]; ok {
		return p
	}
	parts := strings.Split(deckName, Separator)
	for i := len(parts) - 1; i > 0; i-- {
		if p, ok := m[strings.Join(parts[:i], Separator)]; ok {
			return p
		}
	}
	return defaultPrompt
}

// Store holds the deck→prompt map with explicit load/save, no autosave.
type Store struct {
	path    string
	prompts map[string]string
}

// Load reads the prompt map from a JSON file. A missing file yields an empty map.
func Load(path string) (*Store, error) {
	s := &Store{path: path, prompts: map[string]string{}}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading deck prompts: %w", err)
	}
	if err := json.Unmarshal(data, &s.prompts); err != nil {
		return nil, fmt.Errorf("parsing deck prompts %s: %w", path, err)
	}
	return s, nil
}

// Save writes the map back to its file.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.prompts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, append(data, '\n'), 0o600)
}

// Set registers a prompt for a deck. An empty (or blank) prompt removes the entry.
func (s *Store) Set(deck, prompt string) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		delete(s.prompts, deck)
		return
	}
	s.prompts[deck] = prompt
}

// Delete removes a deck's prompt if present.
func (s *Store) Delete(deck string) {
	delete(s.prompts, deck)
}

// Get returns the exact-match prompt for a deck, without hierarchy walking.
func (s *Store) Get(deck string) (string, bool) {
	p, ok := s.prompts[deck]
	return p, ok
}

// Resolve applies hierarchy resolution over the stored map.
func (s *Store) Resolve(deck, defaultPrompt string) string {
	return Resolve(deck, s.prompts, defaultPrompt)
}

// Map returns a copy of the stored map.
func (s *Store) Map() map[string]string {
	out := make(map[string]string, len(s.prompts))
	for k, v := range s.prompts {
		out[k] = v
	}
	return out
}

// Decks returns registered deck names in sorted order.
func (s *Store) Decks() []string {
	decks := make([]string, 0, len(s.prompts))
	for d := range s.prompts {
		decks = append(decks, d)
	}
	sort.Strings(decks)
	return decks
}
