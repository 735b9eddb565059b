package models

import (
	"context"
	"log"
	"slices"
	"strings"

	"github.com/alanmaizon/gt-translator/internal/domain"
	"github.com/alanmaizon/gt-translator/internal/metrics"
)

const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

var fallbackDescriptors = []domain.ModelDescriptor{
	{ID: "gemini-2.5-pro", DisplayName: "Gemini 2.5 Pro"},
	{ID: "gemini-2.5-flash", DisplayName: "Gemini 2.5 Flash"},
	{ID: "gemini-2.5-flash-lite", DisplayName: "Gemini 2.5 Flash-Lite"},
	{ID: "gemini-2.0-flash", DisplayName: "Gemini 2.0 Flash"},
}

// Fallback returns a copy of the built-in model list used when the provider
// listing cannot be fetched.
func Fallback() []domain.ModelDescriptor {
	return slices.Clone(fallbackDescriptors)
}

// EnsureSelected guarantees selectedID resolves to a descriptor. An id that is
// missing from the list is prepended as a synthetic entry labeled with the raw
// id.
func EnsureSelected(descriptors []domain.ModelDescriptor, selectedID string) []domain.ModelDescriptor {
	selectedID = strings.TrimSpace(selectedID)
	if selectedID == "" {
		return descriptors
	}
	for _, descriptor := range descriptors {
		if descriptor.ID == selectedID {
			return descriptors
		}
	}

	out := make([]domain.ModelDescriptor, 0, len(descriptors)+1)
	out = append(out, domain.ModelDescriptor{ID: selectedID, DisplayName: selectedID})
	return append(out, descriptors...)
}

type Lister interface {
	Name() string
	ListModels(ctx context.Context, credential string) ([]domain.RawModel, error)
}

type Listing struct {
	Models   []domain.ModelDescriptor `json:"models"`
	Selected string                   `json:"selected"`
	Source   string                   `json:"source"`
}

// Directory loads the selectable model list, falling back to the built-in
// list when the provider cannot be reached or returns nothing usable.
type Directory struct {
	lister Lister
}

func NewDirectory(lister Lister) *Directory {
	return &Directory{lister: lister}
}

func (d *Directory) Load(ctx context.Context, credential string, selectedID string) Listing {
	if strings.TrimSpace(selectedID) == "" {
		selectedID = DefaultModelID
	}

	descriptors, source := d.fetch(ctx, credential)
	metrics.RecordModelDirectoryLoad(source)
	return Listing{
		Models:   EnsureSelected(descriptors, selectedID),
		Selected: selectedID,
		Source:   source,
	}
}

func (d *Directory) fetch(ctx context.Context, credential string) ([]domain.ModelDescriptor, string) {
	if d == nil || d.lister == nil || strings.TrimSpace(credential) == "" {
		return Fallback(), SourceFallback
	}

	raw, err := d.lister.ListModels(ctx, credential)
	if err != nil {
		log.Printf("component=models provider=%s event=list_failed fallback=true err=%v", d.lister.Name(), err)
		return Fallback(), SourceFallback
	}

	descriptors := Normalize(raw)
	if len(descriptors) == 0 {
		log.Printf("component=models provider=%s event=list_empty fallback=true raw_count=%d", d.lister.Name(), len(raw))
		return Fallback(), SourceFallback
	}
	return descriptors, SourceRemote
}
