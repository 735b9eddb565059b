package domain

type BlockKind string
type SpanKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockListItem  BlockKind = "list_item"
	BlockDivider   BlockKind = "divider"
	BlockDialogue  BlockKind = "dialogue"
	BlockBlank     BlockKind = "blank"
	BlockParagraph BlockKind = "paragraph"

	SpanPlain      SpanKind = "plain"
	SpanEmphasized SpanKind = "emphasized"
)

type InlineSpan struct {
	Kind SpanKind `json:"kind"`
	Text string   `json:"text"`
}

func PlainText(text string) InlineSpan {
	return InlineSpan{Kind: SpanPlain, Text: text}
}

func Emphasized(text string) InlineSpan {
	return InlineSpan{Kind: SpanEmphasized, Text: text}
}

// RenderBlock is one classified input line. Only the fields relevant to Kind
// are set: Level for headings, Ordinal for numbered list items, Speaker for
// dialogue lines.
type RenderBlock struct {
	Kind    BlockKind    `json:"kind"`
	Level   int          `json:"level,omitempty"`
	Ordinal *int         `json:"ordinal,omitempty"`
	Speaker string       `json:"speaker,omitempty"`
	Spans   []InlineSpan `json:"spans,omitempty"`
}
