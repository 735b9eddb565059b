package prompt

import "github.com/alanmaizon/gt-translator/internal/domain"

const (
	DefaultTargetLanguage = "繁體中文"

	DefaultRules = `【排版要求】
若是以純文字進行翻譯，請確保翻譯出的文字保留原先的 Markdown 語法標記。

若是以圖片上傳進行翻譯，請確保：
1. 觀察圖片中的視覺層級：大標題請使用 Markdown 的 # 標記，次標題使用 ##。
2. 重要或高亮的文字（如白色字、黃色字），請使用 **粗體** 包裹。
3. 如果是清單或屬性列表，請使用 - 列表符號。

【翻譯規則】
如果提供的是遊戲截圖，請保留專有名詞原文（如角色ID、裝備名稱），僅翻譯對話或介面說明部分的白色文字。`

	DefaultContext = `這次的截圖來自遊戲《英雄聯盟》，請參考韓國與遊戲本身的用詞、語境進行翻譯。`
)

// DefaultConfig returns the built-in prompt configuration used on first
// launch and by reset.
func DefaultConfig() domain.PromptConfig {
	return domain.PromptConfig{
		TargetLanguage: DefaultTargetLanguage,
		Rules:          DefaultRules,
		Context:        DefaultContext,
	}
}
