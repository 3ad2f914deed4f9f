package generator

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

var htmlTagRe = regexp.MustCompile(`<[a-zA-Z][^>]*>`)

// CleanContent normalizes a model reply into storable HTML: code fences are
// stripped, and a reply written in Markdown is rendered to HTML.
func CleanContent(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", &Error{Provider: "generator", Kind: KindBadResponse, Message: "model returned empty content"}
	}
	text = stripFences(text)
	if htmlTagRe.MatchString(text) {
		return text, nil
	}
	return mdToHTML(text)
}

// stripFences removes a markdown code fence the model may have wrapped the
// HTML in.
func stripFences(text string) string {
	if strings.HasPrefix(text, "```html") {
		text = text[len("```html"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", &Error{Provider: "generator", Kind: KindBadResponse, Message: "rendering markdown", Err: err}
	}
	return strings.TrimSpace(buf.String()), nil
}
