// Package models turns the provider's raw model listing into the ordered set
// of selectable translation models.
package models

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alanmaizon/gt-translator/internal/domain"
)

const (
	familyToken      = "gemini"
	namePrefix       = "models/"
	generateMethod   = "generateContent"
	proMarker        = "pro"
	DefaultModelID   = "gemini-2.5-flash"
	defaultFamilyTag = "Gemini"
)

// excludedTokens drop non-chat families: embeddings, attributed QA, vision
// only, speech and live audio, image generation, robotics and computer use.
var excludedTokens = []string{
	"embedding",
	"aqa",
	"vision",
	"tts",
	"audio",
	"image",
	"live",
	"robotics",
	"computer-use",
}

var (
	versionPattern   = regexp.MustCompile(`\d+\.\d+`)
	dateStampPattern = regexp.MustCompile(`(-\d{4}-\d{2}-\d{2}|-\d{2}-\d{4}|-\d{2}-\d{2}|-\d{3,})$`)
	separatorPattern = regexp.MustCompile(`[-_]+`)
)

var casingFixes = strings.NewReplacer(
	"Flash Lite", "Flash-Lite",
	"Tts", "TTS",
)

// Normalize filters, labels and orders raw model entries. Unusable entries are
// dropped silently; an empty input yields an empty result.
func Normalize(raw []domain.RawModel) []domain.ModelDescriptor {
	descriptors := make([]domain.ModelDescriptor, 0, len(raw))
	for _, model := range raw {
		if !isTranslationModel(model) {
			continue
		}
		id := strings.TrimPrefix(model.Name, namePrefix)
		descriptors = append(descriptors, domain.ModelDescriptor{
			ID:          id,
			DisplayName: DisplayName(id),
		})
	}

	Sort(descriptors)
	return descriptors
}

func isTranslationModel(model domain.RawModel) bool {
	name := strings.ToLower(model.Name)
	if !strings.Contains(name, familyToken) {
		return false
	}
	for _, token := range excludedTokens {
		if strings.Contains(name, token) {
			return false
		}
	}
	return slices.Contains(model.SupportedMethods, generateMethod)
}

// Sort orders descriptors by version descending, then pro before non-pro.
// The sort is stable so equal entries keep their input order.
func Sort(descriptors []domain.ModelDescriptor) {
	slices.SortStableFunc(descriptors, func(a, b domain.ModelDescriptor) int {
		if byVersion := cmp.Compare(Version(b.ID), Version(a.ID)); byVersion != 0 {
			return byVersion
		}
		return cmp.Compare(proRank(a.ID), proRank(b.ID))
	})
}

// Version returns the first "major.minor" number in id, or 0.
func Version(id string) float64 {
	match := versionPattern.FindString(id)
	if match == "" {
		return 0
	}
	version, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return version
}

func proRank(id string) int {
	for _, segment := range separatorPattern.Split(strings.ToLower(id), -1) {
		if segment == proMarker {
			return 0
		}
	}
	return 1
}

// DisplayName derives a human friendly label from a model id. It is purely
// cosmetic and never feeds back into the id.
func DisplayName(id string) string {
	label := strings.ReplaceAll(id, familyToken, defaultFamilyTag)
	label = strings.TrimSuffix(label, "-latest")
	label = dateStampPattern.ReplaceAllString(label, "")
	label = strings.TrimSuffix(label, "-latest")

	qualifier := ""
	for _, suffix := range []string{"-preview", "-exp"} {
		if base, ok := strings.CutSuffix(label, suffix); ok {
			label = base
			qualifier = " (" + strings.TrimPrefix(suffix, "-") + ")"
			break
		}
	}

	label = strings.TrimSpace(separatorPattern.ReplaceAllString(label, " "))
	// Casers keep state between calls, so each call gets its own.
	label = cases.Title(language.English, cases.NoLower).String(label + qualifier)
	return casingFixes.Replace(label)
}
