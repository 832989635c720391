package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	maxMessageLen = 3900
	// room left for labels, numbers and Markdown escapes
	maxAnswerLen = 3000
)

// Кнопка-«экспандер» для фрагмента документа
func makeChunkKeyboard() tgbotapi.InlineKeyboardMarkup {
	btn := tgbotapi.NewInlineKeyboardButtonData("📄 Relevant Text Chunk", cbShowChunk)
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(btn))
}

func formatChunk(chunk string) string {
	if strings.TrimSpace(chunk) == "" {
		return "📄 Relevant Text Chunk:\n\n(empty)"
	}
	return clip("📄 Relevant Text Chunk:\n\n"+chunk, maxMessageLen)
}

// clip cuts s to at most n bytes on a rune boundary and marks the cut.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "") + "…"
}

// лёгкое экранирование для Markdown
func esc(s string) string {
	s = strings.ReplaceAll(s, "`", "'")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "[", "\\[")
	return s
}

// clipEscaped is clip for Markdown-escaped text: a cut must not leave a
// dangling backslash.
func clipEscaped(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimRight(strings.ToValidUTF8(s[:n], ""), "\\") + "…"
}
