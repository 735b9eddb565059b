// Package markdown renders the constrained Markdown subset produced by the
// translation prompt into typed presentation blocks.
package markdown

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alanmaizon/gt-translator/internal/domain"
)

const boldDelimiter = "**"

var (
	paddedBoldPattern  = regexp.MustCompile(`\*\*[ \t]*((?:[^*\n]|\*[^*\n])+?)[ \t]*\*\*`)
	boldRunPattern     = regexp.MustCompile(`\*\*.*?\*\*`)
	orderedItemPattern = regexp.MustCompile(`^(\d+)\.\s+(.*)$`)
	dialoguePattern    = regexp.MustCompile(`^([^:：]+)[:：](.+)$`)
)

type lineRule struct {
	name     string
	classify func(line string) (domain.RenderBlock, bool)
}

// lineRules is evaluated top to bottom and the first match wins. The dialogue
// rule must stay after headings, lists and dividers and before the blank and
// paragraph fallbacks.
var lineRules = []lineRule{
	{name: "heading1", classify: classifyPrefixedHeading("# ", 1)},
	{name: "heading2", classify: classifyPrefixedHeading("## ", 2)},
	{name: "bullet", classify: classifyBullet},
	{name: "ordered", classify: classifyOrdered},
	{name: "divider", classify: classifyDivider},
	{name: "dialogue", classify: classifyDialogue},
	{name: "blank", classify: classifyBlank},
}

// Render never fails: anything no rule recognises becomes a paragraph.
func Render(content string) []domain.RenderBlock {
	if content == "" {
		return nil
	}

	lines := strings.Split(Normalize(content), "\n")
	blocks := make([]domain.RenderBlock, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, ClassifyLine(line))
	}
	return blocks
}

// Normalize tightens bold delimiters padded with spaces so "** text **"
// still renders as emphasis.
func Normalize(content string) string {
	return paddedBoldPattern.ReplaceAllString(content, boldDelimiter+"$1"+boldDelimiter)
}

func ClassifyLine(line string) domain.RenderBlock {
	for _, rule := range lineRules {
		if block, ok := rule.classify(line); ok {
			return block
		}
	}
	return domain.RenderBlock{Kind: domain.BlockParagraph, Spans: RenderInline(line)}
}

// RenderInline splits text into plain and emphasized spans. A bold run with
// an empty interior is kept literally.
func RenderInline(text string) []domain.InlineSpan {
	matches := boldRunPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []domain.InlineSpan{domain.PlainText(text)}
	}

	spans := make([]domain.InlineSpan, 0, len(matches)*2+1)
	appendPlain := func(segment string) {
		if segment == "" {
			return
		}
		if last := len(spans) - 1; last >= 0 && spans[last].Kind == domain.SpanPlain {
			spans[last].Text += segment
			return
		}
		spans = append(spans, domain.PlainText(segment))
	}

	cursor := 0
	for _, match := range matches {
		appendPlain(text[cursor:match[0]])
		token := text[match[0]:match[1]]
		if isEmphasisToken(token) {
			spans = append(spans, domain.Emphasized(token[len(boldDelimiter):len(token)-len(boldDelimiter)]))
		} else {
			appendPlain(token)
		}
		cursor = match[1]
	}
	appendPlain(text[cursor:])

	if len(spans) == 0 {
		return []domain.InlineSpan{domain.PlainText("")}
	}
	return spans
}

func isEmphasisToken(token string) bool {
	return strings.HasPrefix(token, boldDelimiter) &&
		strings.HasSuffix(token, boldDelimiter) &&
		len(token) > 2*len(boldDelimiter)
}

func classifyPrefixedHeading(prefix string, level int) func(string) (domain.RenderBlock, bool) {
	return func(line string) (domain.RenderBlock, bool) {
		if !strings.HasPrefix(line, prefix) {
			return domain.RenderBlock{}, false
		}
		return domain.RenderBlock{
			Kind:  domain.BlockHeading,
			Level: level,
			Spans: RenderInline(line[len(prefix):]),
		}, true
	}
}

func classifyBullet(line string) (domain.RenderBlock, bool) {
	if !strings.HasPrefix(line, "- ") && !strings.HasPrefix(line, "* ") {
		return domain.RenderBlock{}, false
	}
	return domain.RenderBlock{Kind: domain.BlockListItem, Spans: RenderInline(line[2:])}, true
}

func classifyOrdered(line string) (domain.RenderBlock, bool) {
	match := orderedItemPattern.FindStringSubmatch(line)
	if match == nil {
		return domain.RenderBlock{}, false
	}
	ordinal, err := strconv.Atoi(match[1])
	if err != nil {
		// digits too long for an int: let the remaining rules decide.
		return domain.RenderBlock{}, false
	}
	return domain.RenderBlock{
		Kind:    domain.BlockListItem,
		Ordinal: &ordinal,
		Spans:   RenderInline(match[2]),
	}, true
}

func classifyDivider(line string) (domain.RenderBlock, bool) {
	if strings.TrimSpace(line) != "---" {
		return domain.RenderBlock{}, false
	}
	return domain.RenderBlock{Kind: domain.BlockDivider}, true
}

func classifyDialogue(line string) (domain.RenderBlock, bool) {
	match := dialoguePattern.FindStringSubmatch(line)
	if match == nil {
		return domain.RenderBlock{}, false
	}
	return domain.RenderBlock{
		Kind:    domain.BlockDialogue,
		Speaker: match[1],
		Spans:   RenderInline(match[2]),
	}, true
}

func classifyBlank(line string) (domain.RenderBlock, bool) {
	if strings.TrimSpace(line) != "" {
		return domain.RenderBlock{}, false
	}
	return domain.RenderBlock{Kind: domain.BlockBlank}, true
}
