package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"docqa-bot/api/internal/qa"
)

func (r *Router) askQuestion(chatID int64, text string) {
	st := r.state(chatID)
	st.mu.Lock()
	defer st.mu.Unlock()

	// the ask path only opens after an upload in this chat
	if !st.sess.Uploaded() {
		r.send(chatID, "ℹ️ Please upload a document first.")
		return
	}
	r.typing(chatID)
	ans, err := st.sess.AskQuestion(context.Background(), text)
	if err != nil {
		log.Printf("chat=%d ask: %v", chatID, err)
		r.send(chatID, askFailureText(err))
		return
	}

	switch ans.Kind {
	case qa.NoTextFound:
		r.send(chatID, "⚠️ No relevant text found in the document.")
	case qa.NoConfidentAnswer:
		m := tgbotapi.NewMessage(chatID, "🤔 Relevant text found, but no confident answer.")
		m.ReplyMarkup = makeChunkKeyboard()
		r.sendWithChunk(st, m, ans.Chunk)
	default:
		m := tgbotapi.NewMessage(chatID, formatAnswer(ans))
		m.ParseMode = tgbotapi.ModeMarkdown
		m.ReplyMarkup = makeChunkKeyboard()
		r.sendWithChunk(st, m, ans.Chunk)
	}
}

// sendWithChunk sends m and remembers the passage its button reveals.
func (r *Router) sendWithChunk(st *chatState, m tgbotapi.MessageConfig, chunk string) {
	sent, err := r.Bot.Send(m)
	if err != nil {
		log.Printf("telegram send chat=%d: %v", m.ChatID, err)
		r.send(m.ChatID, "❌ Could not display the answer. Please try again.")
		return
	}
	st.rememberChunk(sent.MessageID, chunk)
}

func askFailureText(err error) string {
	var se *qa.StatusError
	switch {
	case errors.Is(err, qa.ErrValidationFailed):
		return "⚠️ Please enter a question."
	case errors.Is(err, qa.ErrNotUploaded):
		return "ℹ️ Please upload a document first."
	case errors.Is(err, qa.ErrMalformedResponse):
		return "❌ The service returned an incomplete answer. Please try again later."
	case errors.As(err, &se):
		return "❌ Failed to get an answer. Please try again later."
	default:
		return fmt.Sprintf("❌ Request failed: %v", err)
	}
}

func formatAnswer(a qa.Answer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ *Answer:* %s\n\n", clipEscaped(esc(a.Answer), maxAnswerLen))
	fmt.Fprintf(&b, "*Confidence:* %s%%\n", esc(a.Confidence.String()))
	fmt.Fprintf(&b, "*Similarity Score:* %s", esc(a.Score.String()))
	return b.String()
}
