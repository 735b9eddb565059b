package markdown

import (
	"strconv"
	"strings"

	"github.com/alanmaizon/gt-translator/internal/domain"
)

// Format writes blocks back out as the Markdown subset Render understands,
// one line per block.
func Format(blocks []domain.RenderBlock) string {
	lines := make([]string, 0, len(blocks))
	for _, block := range blocks {
		lines = append(lines, formatBlock(block))
	}
	return strings.Join(lines, "\n")
}

func formatBlock(block domain.RenderBlock) string {
	text := FormatInline(block.Spans)
	switch block.Kind {
	case domain.BlockHeading:
		level := block.Level
		if level < 1 {
			level = 1
		}
		return strings.Repeat("#", level) + " " + text
	case domain.BlockListItem:
		if block.Ordinal != nil {
			return strconv.Itoa(*block.Ordinal) + ". " + text
		}
		return "- " + text
	case domain.BlockDivider:
		return "---"
	case domain.BlockDialogue:
		return block.Speaker + ":" + text
	case domain.BlockBlank:
		return ""
	default:
		return text
	}
}

func FormatInline(spans []domain.InlineSpan) string {
	var builder strings.Builder
	for _, span := range spans {
		if span.Kind == domain.SpanEmphasized {
			builder.WriteString(boldDelimiter + span.Text + boldDelimiter)
			continue
		}
		builder.WriteString(span.Text)
	}
	return builder.String()
}
