package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockClient is a placeholder implementation for dry runs. It builds a small
// HTML card locally without calling any external model.
type MockClient struct{}

func (MockClient) Model() string { return "mock" }

func (MockClient) Generate(_ context.Context, systemPrompt, front string) (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<div><b>%s</b>", front))
	sb.WriteString("<p><i>dry run — no content was generated</i></p>")
	if systemPrompt != "" {
		sb.WriteString(fmt.Sprintf("<p>prompt in effect: %s</p>", truncate(systemPrompt, 120)))
	}
	sb.WriteString("</div>")
	return sb.String(), nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "…"
}
