package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const cbShowChunk = "show_chunk"

func (r *Router) handleCallback(cb tgbotapi.CallbackQuery) {
	_, _ = r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")) // ack
	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}

	switch cb.Data {
	case cbShowChunk:
		r.onShowChunk(cb.Message.Chat.ID, cb.Message.MessageID)
	}
}

func (r *Router) onShowChunk(chatID int64, msgID int) {
	st := r.state(chatID)
	st.mu.Lock()
	chunk, ok := st.chunks[msgID]
	delete(st.chunks, msgID)
	st.mu.Unlock()

	// убрать кнопку: каждый фрагмент показывается один раз
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, msgID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	_, _ = r.Bot.Request(edit)

	if !ok {
		r.send(chatID, "This passage is no longer available.")
		return
	}
	r.send(chatID, formatChunk(chunk))
}
