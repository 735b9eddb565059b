// Package prompt builds the instruction prompt and generation payload sent
// to the model for a translation request.
package prompt

import (
	"fmt"
	"strings"

	"github.com/alanmaizon/gt-translator/internal/domain"
)

// TipsSentinel separates the translation from the annotation notes in
// model output.
const TipsSentinel = "---TIPS---"

const contextHeader = "【當前語境/Context】"

const notesContract = "\n\n(IMPORTANT: After the translation, output a line containing only " + TipsSentinel +
	" followed by 2-3 short numbered notes (1., 2., 3.) explaining notable translation choices such as terminology, tone, or names kept in the original language." +
	" Bold markers must hug their text with no inner spaces, e.g. **term**, never ** term **." +
	" Number every note with digits; do not use - or * for the notes.)"

const imageFormatContract = "\n\n(IMPORTANT: Please structure your response using Markdown. Use headers (#, ##) for titles," +
	" bold (**) for emphasized text, and bullet points (-) for lists to mimic the visual layout of the image.)"

const textFormatContract = "\n\n(IMPORTANT: Keep any Markdown markup present in the source text. Use headers (#, ##)," +
	" bold (**) and bullet points (-) only where the source structure calls for them.)"

func intro(targetLanguage string) string {
	return fmt.Sprintf("你是一個專業的翻譯助手。請將提供的內容翻譯成%s。", targetLanguage)
}

// Compose assembles the instruction prompt. Section order is fixed and empty
// rules or context still keep their section.
func Compose(cfg domain.PromptConfig, modality domain.Modality) string {
	var builder strings.Builder
	builder.WriteString(intro(cfg.TargetLanguage))
	builder.WriteString("\n\n")
	builder.WriteString(cfg.Rules)
	builder.WriteString("\n\n")
	builder.WriteString(contextHeader)
	builder.WriteString("\n")
	builder.WriteString(cfg.Context)
	builder.WriteString(notesContract)
	builder.WriteString(formatContract(modality))
	return builder.String()
}

func formatContract(modality domain.Modality) string {
	if modality == domain.ModalityImage {
		return imageFormatContract
	}
	return textFormatContract
}

// BuildPayload places the composed prompt according to modality. Image
// requests carry the prompt as the only text part next to the inline image;
// text requests carry it as the system instruction so the user's text is
// never mixed with instructions.
func BuildPayload(composed string, req domain.TranslationRequest) domain.GenerationPayload {
	if req.Modality == domain.ModalityImage {
		return domain.GenerationPayload{
			Parts: []domain.Part{
				{Text: composed},
				{InlineData: &domain.InlineData{MIMEType: req.MIMEType, Data: req.Image}},
			},
		}
	}

	return domain.GenerationPayload{
		SystemInstruction: composed,
		Parts:             []domain.Part{{Text: req.Text}},
	}
}
