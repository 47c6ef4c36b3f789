package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
)

// Speaker labels used in exported transcripts.
const (
	userLabel  = "用户"
	modelLabel = "AI"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ExportTranscript renders messages in the requested format. The text
// format matches the downloadable learning record: "用户: " and "AI: "
// prefixes separated by blank lines.
func ExportTranscript(messages []domain.ChatMessage, format driving.TranscriptFormat) (string, error) {
	switch format {
	case driving.TranscriptText, "":
		parts := make([]string, 0, len(messages))
		for _, m := range messages {
			parts = append(parts, fmt.Sprintf("%s: %s", speaker(m.Role), m.Text))
		}
		return strings.Join(parts, "\n\n"), nil
	case driving.TranscriptMarkdown:
		return transcriptMarkdown(messages), nil
	case driving.TranscriptHTML:
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(transcriptMarkdown(messages)), &buf); err != nil {
			return "", fmt.Errorf("render transcript: %w", err)
		}
		return buf.String(), nil
	default:
		return "", fmt.Errorf("%w: unknown transcript format %q", domain.ErrInvalidInput, format)
	}
}

func transcriptMarkdown(messages []domain.ChatMessage) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "### %s\n\n%s", speaker(m.Role), m.Text)
	}
	return b.String()
}

func speaker(r domain.Role) string {
	if r == domain.RoleUser {
		return userLabel
	}
	return modelLabel
}
