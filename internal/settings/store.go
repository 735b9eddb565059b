package settings

import (
	"context"
	"fmt"

	"github.com/alanmaizon/gt-translator/internal/domain"
	"github.com/alanmaizon/gt-translator/internal/models"
	"github.com/alanmaizon/gt-translator/internal/prompt"
)

const (
	KeyCredential     = "gemini_user_api_key"
	KeyTargetLanguage = "gemini_target_lang"
	KeyRules          = "gemini_rules"
	KeyContext        = "gemini_context"
	KeyModel          = "gemini_model"
	KeyTheme          = "gemini_theme"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Patch carries the fields to overwrite. Nil fields are left as they are.
type Patch struct {
	Credential     *string `json:"apiKey,omitempty"`
	TargetLanguage *string `json:"targetLanguage,omitempty"`
	Rules          *string `json:"rules,omitempty"`
	Context        *string `json:"context,omitempty"`
	ModelID        *string `json:"modelId,omitempty"`
	Theme          *string `json:"theme,omitempty"`
}

func (p Patch) values() map[string]string {
	values := map[string]string{}
	set := func(key string, value *string) {
		if value != nil {
			values[key] = *value
		}
	}
	set(KeyCredential, p.Credential)
	set(KeyTargetLanguage, p.TargetLanguage)
	set(KeyRules, p.Rules)
	set(KeyContext, p.Context)
	set(KeyModel, p.ModelID)
	set(KeyTheme, p.Theme)
	return values
}

type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

func Defaults() domain.Settings {
	cfg := prompt.DefaultConfig()
	return domain.Settings{
		TargetLanguage: cfg.TargetLanguage,
		Rules:          cfg.Rules,
		Context:        cfg.Context,
		ModelID:        models.DefaultModelID,
		Theme:          ThemeLight,
	}
}

// Load reads the full record. A missing or empty value keeps its default.
func (s *Store) Load(ctx context.Context) (domain.Settings, error) {
	out := Defaults()
	fields := []struct {
		key string
		dst *string
	}{
		{KeyCredential, &out.Credential},
		{KeyTargetLanguage, &out.TargetLanguage},
		{KeyRules, &out.Rules},
		{KeyContext, &out.Context},
		{KeyModel, &out.ModelID},
		{KeyTheme, &out.Theme},
	}

	for _, field := range fields {
		value, ok, err := s.kv.Get(ctx, field.key)
		if err != nil {
			return domain.Settings{}, fmt.Errorf("load %s: %w", field.key, err)
		}
		if ok && value != "" {
			*field.dst = value
		}
	}
	return out, nil
}

// Save overwrites the credential, prompt fields and model id. Theme is
// owned by ToggleTheme and Update.
func (s *Store) Save(ctx context.Context, settings domain.Settings) error {
	return s.kv.SetMany(ctx, map[string]string{
		KeyCredential:     settings.Credential,
		KeyTargetLanguage: settings.TargetLanguage,
		KeyRules:          settings.Rules,
		KeyContext:        settings.Context,
		KeyModel:          settings.ModelID,
	})
}

func (s *Store) Update(ctx context.Context, patch Patch) (domain.Settings, error) {
	if values := patch.values(); len(values) > 0 {
		if err := s.kv.SetMany(ctx, values); err != nil {
			return domain.Settings{}, err
		}
	}
	return s.Load(ctx)
}

// ResetPrompt restores target language, rules and context to the built-in
// defaults in one batch.
func (s *Store) ResetPrompt(ctx context.Context) (domain.Settings, error) {
	cfg := prompt.DefaultConfig()
	if err := s.kv.SetMany(ctx, map[string]string{
		KeyTargetLanguage: cfg.TargetLanguage,
		KeyRules:          cfg.Rules,
		KeyContext:        cfg.Context,
	}); err != nil {
		return domain.Settings{}, err
	}
	return s.Load(ctx)
}

func (s *Store) ToggleTheme(ctx context.Context) (string, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	next := ThemeDark
	if current.Theme == ThemeDark {
		next = ThemeLight
	}
	if err := s.kv.Set(ctx, KeyTheme, next); err != nil {
		return "", err
	}
	return next, nil
}
