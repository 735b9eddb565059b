package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/alanmaizon/gt-translator/internal/domain"
	"github.com/alanmaizon/gt-translator/internal/llm"
	"github.com/alanmaizon/gt-translator/internal/markdown"
	"github.com/alanmaizon/gt-translator/internal/middleware"
	"github.com/alanmaizon/gt-translator/internal/models"
	"github.com/alanmaizon/gt-translator/internal/settings"
	"github.com/alanmaizon/gt-translator/internal/translator"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const credentialHeader = "X-Gemini-Api-Key"

type Dependencies struct {
	Provider           llm.Provider
	RequestedProvider  string
	StoreBackend       string
	Settings           *settings.Store
	Translator         *translator.Orchestrator
	Models             *models.Directory
	RateLimitPerMinute int
	FallbackURL        string
}

func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	translateLimiter := newTranslateLimiter(deps.RateLimitPerMinute)

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/api/capabilities", func(c *gin.Context) {
		requested := strings.ToLower(strings.TrimSpace(deps.RequestedProvider))
		if requested == "" {
			requested = llm.ProviderMock
		}
		active := deps.Provider.Name()

		c.JSON(http.StatusOK, domain.CapabilitiesResponse{
			Runtime: domain.RuntimeCapabilities{
				RequestedProvider: requested,
				ActiveProvider:    active,
				ProviderFallback:  requested != active,
				StoreBackend:      deps.StoreBackend,
			},
			Features: domain.FeatureFlags{
				TextTranslation:  true,
				ImageTranslation: true,
				ModelDirectory:   true,
				QuotaFallback:    deps.FallbackURL != "",
			},
		})
	})

	router.GET("/api/settings", func(c *gin.Context) {
		current, ok := loadSettings(c, deps.Settings)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, settingsResponse(current))
	})

	router.PUT("/api/settings", func(c *gin.Context) {
		var patch settings.Patch
		if err := c.ShouldBindJSON(&patch); err != nil {
			writeError(c, http.StatusBadRequest, "invalid_payload", "invalid settings payload")
			return
		}
		if patch.Theme != nil && *patch.Theme != settings.ThemeLight && *patch.Theme != settings.ThemeDark {
			writeError(c, http.StatusBadRequest, "invalid_theme", "theme must be light or dark")
			return
		}

		updated, err := deps.Settings.Update(c.Request.Context(), patch)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, settingsResponse(updated))
	})

	router.POST("/api/settings/reset", func(c *gin.Context) {
		updated, err := deps.Settings.ResetPrompt(c.Request.Context())
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, settingsResponse(updated))
	})

	router.POST("/api/settings/theme", func(c *gin.Context) {
		theme, err := deps.Settings.ToggleTheme(c.Request.Context())
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, domain.ThemeResponse{Theme: theme})
	})

	router.GET("/api/models", func(c *gin.Context) {
		current, ok := loadSettings(c, deps.Settings)
		if !ok {
			return
		}

		selected := strings.TrimSpace(c.Query("selected"))
		if selected == "" {
			selected = current.ModelID
		}
		credential := firstNonEmpty(c.GetHeader(credentialHeader), current.Credential)

		c.JSON(http.StatusOK, deps.Models.Load(c.Request.Context(), credential, selected))
	})

	router.POST("/api/translate", func(c *gin.Context) {
		if !enforceRateLimit(c, translateLimiter) {
			return
		}
		handleTranslate(c, deps)
	})

	router.GET("/api/translate/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, newTranslateResponse(deps.Translator.Snapshot(), c, ""))
	})

	router.DELETE("/api/translate/state", func(c *gin.Context) {
		if err := deps.Translator.Clear(); err != nil {
			writeError(c, http.StatusConflict, "request_in_flight", err.Error())
			return
		}
		c.JSON(http.StatusOK, newTranslateResponse(deps.Translator.Snapshot(), c, ""))
	})

	router.POST("/api/render", func(c *gin.Context) {
		var req domain.RenderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid_payload", "invalid render payload")
			return
		}
		c.JSON(http.StatusOK, domain.RenderResponse{Blocks: renderBlocks(req.Content)})
	})
}

func loadSettings(c *gin.Context, store *settings.Store) (domain.Settings, bool) {
	current, err := store.Load(c.Request.Context())
	if err != nil {
		writeStoreError(c, err)
		return domain.Settings{}, false
	}
	return current, true
}

func settingsResponse(s domain.Settings) domain.SettingsResponse {
	return domain.SettingsResponse{
		TargetLanguage: s.TargetLanguage,
		Rules:          s.Rules,
		Context:        s.Context,
		ModelID:        s.ModelID,
		Theme:          s.Theme,
		HasCredential:  strings.TrimSpace(s.Credential) != "",
	}
}

func renderBlocks(content string) []domain.RenderBlock {
	blocks := markdown.Render(content)
	if blocks == nil {
		return []domain.RenderBlock{}
	}
	return blocks
}

func writeStoreError(c *gin.Context, err error) {
	log.Printf("request_id=%s component=api event=settings_store_error error=%q", middleware.GetRequestID(c), err.Error())
	writeError(c, http.StatusInternalServerError, "settings_unavailable", "settings store is unavailable")
}

func writeError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, domain.APIErrorResponse{
		Error: domain.APIError{
			Code:      code,
			Message:   message,
			RequestID: middleware.GetRequestID(c),
		},
	})
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
