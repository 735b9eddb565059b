package translator

import (
	"net/http"
	"strings"

	"github.com/alanmaizon/gt-translator/internal/domain"
	"github.com/alanmaizon/gt-translator/internal/response"
)

// checkPreconditions validates a submission before any transport call and
// fills the image MIME type when the caller left it blank.
func checkPreconditions(sub *Submission) *domain.Failure {
	if strings.TrimSpace(sub.Credential) == "" {
		failure := response.NewFailure(domain.ErrorMissingCredential, "")
		return &failure
	}

	switch sub.Request.Modality {
	case domain.ModalityText:
		if strings.TrimSpace(sub.Request.Text) == "" {
			failure := response.NewFailure(domain.ErrorEmptyInput, "")
			return &failure
		}
	case domain.ModalityImage:
		if len(sub.Request.Image) == 0 {
			failure := response.NewFailure(domain.ErrorEmptyInput, "No image to translate.")
			return &failure
		}
		if strings.TrimSpace(sub.Request.MIMEType) == "" {
			sub.Request.MIMEType = http.DetectContentType(sub.Request.Image)
		}
	default:
		failure := response.NewFailure(domain.ErrorEmptyInput, "Unsupported input modality.")
		return &failure
	}
	return nil
}
