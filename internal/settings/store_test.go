package settings

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alanmaizon/gt-translator/internal/domain"
	"github.com/alanmaizon/gt-translator/internal/models"
	"github.com/alanmaizon/gt-translator/internal/prompt"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	sqliteKV, err := OpenSQLiteKV(filepath.Join(dir, "db", "settings.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqliteKV.Close() })

	return map[string]KV{
		BackendMemory: NewMemoryKV(),
		BackendJSON:   NewJSONFileKV(filepath.Join(dir, "json", "settings.json")),
		BackendSQLite: sqliteKV,
	}
}

func TestKVBackends(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
			}

			if err := kv.Set(ctx, "a", "1"); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := kv.Set(ctx, "a", "2"); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			if err := kv.SetMany(ctx, map[string]string{"b": "x", "c": ""}); err != nil {
				t.Fatalf("set many: %v", err)
			}

			for key, want := range map[string]string{"a": "2", "b": "x", "c": ""} {
				got, ok, err := kv.Get(ctx, key)
				if err != nil || !ok {
					t.Fatalf("get %s: ok=%v err=%v", key, ok, err)
				}
				if got != want {
					t.Fatalf("get %s: expected %q, got %q", key, want, got)
				}
			}
		})
	}
}

func TestOpenKV(t *testing.T) {
	kv, err := OpenKV("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := kv.(*MemoryKV); !ok {
		t.Fatalf("expected memory backend by default, got %T", kv)
	}

	if _, err := OpenKV(BackendJSON, ""); err == nil {
		t.Fatalf("expected json backend without path to fail")
	}
	if _, err := OpenKV("redis", "x"); err == nil {
		t.Fatalf("expected unknown backend to fail")
	}
}

func TestJSONFileKVPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.json")

	if err := NewJSONFileKV(path).Set(ctx, KeyTheme, ThemeDark); err != nil {
		t.Fatalf("set: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.Contains(string(data), `"gemini_theme": "dark"`) {
		t.Fatalf("expected indented json, got %s", data)
	}

	got, ok, err := NewJSONFileKV(path).Get(ctx, KeyTheme)
	if err != nil || !ok || got != ThemeDark {
		t.Fatalf("expected persisted theme, got %q ok=%v err=%v", got, ok, err)
	}
}

func TestSQLiteKVReopenKeepsValues(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.db")

	first, err := OpenSQLiteKV(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Set(ctx, KeyModel, "gemini-2.5-pro"); err != nil {
		t.Fatalf("set: %v", err)
	}
	_ = first.Close()

	second, err := OpenSQLiteKV(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	got, ok, err := second.Get(ctx, KeyModel)
	if err != nil || !ok || got != "gemini-2.5-pro" {
		t.Fatalf("expected persisted model, got %q ok=%v err=%v", got, ok, err)
	}
}

func TestStoreLoadDefaults(t *testing.T) {
	store := NewStore(NewMemoryKV())
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Defaults()
	if got != want {
		t.Fatalf("expected defaults %+v, got %+v", want, got)
	}
	if got.ModelID != models.DefaultModelID || got.Theme != ThemeLight || got.Credential != "" {
		t.Fatalf("unexpected defaults %+v", got)
	}
}

func TestStoreEmptyValueKeepsDefault(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	_ = kv.Set(ctx, KeyTargetLanguage, "")

	got, err := NewStore(kv).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.TargetLanguage != prompt.DefaultTargetLanguage {
		t.Fatalf("expected default target language, got %q", got.TargetLanguage)
	}
}

func TestStoreSaveAndUpdate(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewStore(kv)
			err := store.Save(ctx, domain.Settings{
				Credential:     "key-1",
				TargetLanguage: "English",
				Rules:          "be brief",
				Context:        "game UI",
				ModelID:        "gemini-2.5-pro",
				Theme:          ThemeDark,
			})
			if err != nil {
				t.Fatalf("save: %v", err)
			}

			loaded, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if loaded.Credential != "key-1" || loaded.TargetLanguage != "English" || loaded.ModelID != "gemini-2.5-pro" {
				t.Fatalf("unexpected saved settings %+v", loaded)
			}
			if loaded.Theme != ThemeLight {
				t.Fatalf("expected save to leave theme alone, got %q", loaded.Theme)
			}

			rules := "new rules"
			updated, err := store.Update(ctx, Patch{Rules: &rules})
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if updated.Rules != "new rules" || updated.Context != "game UI" {
				t.Fatalf("expected partial update, got %+v", updated)
			}
		})
	}
}

func TestStoreResetPrompt(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewStore(kv)
			_ = store.Save(ctx, domain.Settings{
				Credential:     "key-1",
				TargetLanguage: "English",
				Rules:          "custom",
				Context:        "custom",
				ModelID:        "gemini-2.0-flash",
			})

			reset, err := store.ResetPrompt(ctx)
			if err != nil {
				t.Fatalf("reset: %v", err)
			}
			if reset.PromptConfig() != prompt.DefaultConfig() {
				t.Fatalf("expected default prompt config, got %+v", reset.PromptConfig())
			}
			if reset.Credential != "key-1" || reset.ModelID != "gemini-2.0-flash" {
				t.Fatalf("expected reset to keep credential and model, got %+v", reset)
			}
		})
	}
}

func TestStoreToggleTheme(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryKV())

	first, err := store.ToggleTheme(ctx)
	if err != nil || first != ThemeDark {
		t.Fatalf("expected dark, got %q err=%v", first, err)
	}
	second, err := store.ToggleTheme(ctx)
	if err != nil || second != ThemeLight {
		t.Fatalf("expected light, got %q err=%v", second, err)
	}
}
