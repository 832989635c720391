package telegram

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"docqa-bot/api/internal/qa"
	"docqa-bot/api/internal/util"
)

type Router struct {
	Bot Bot
	// NewSession builds a fresh QA session for a chat.
	NewSession func() *qa.Session

	// httpc downloads documents from Telegram's file storage.
	httpc       *http.Client
	maxFileSize int64
	chats       sync.Map // chatID -> *chatState
}

func NewRouter(bot Bot, newSession func() *qa.Session) *Router {
	return &Router{
		Bot:         bot,
		NewSession:  newSession,
		httpc:       &http.Client{Timeout: 60 * time.Second},
		maxFileSize: maxDownloadSize,
	}
}

func (r *Router) HandleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start", "help":
		r.send(cid, startText())
	case "health":
		r.send(cid, "✅ OK")
	case "status":
		r.send(cid, r.statusText(cid))
	case "reset":
		r.resetState(cid)
		r.send(cid, "Session cleared. Upload a document to start again.")
	default:
		r.send(cid, "Unknown command. Try /help.")
	}
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil || upd.Message.Chat == nil {
		return
	}
	msg := upd.Message
	cid := msg.Chat.ID

	if msg.IsCommand() {
		r.HandleCommand(upd)
		return
	}

	switch {
	case msg.Document != nil:
		r.acceptDocument(*msg)
	case len(msg.Photo) > 0:
		r.send(cid, "Please send the document as a file ("+extList()+"), not as a photo.")
	case msg.Text != "":
		r.askQuestion(cid, msg.Text)
	}
}

func (r *Router) send(chatID int64, text string) tgbotapi.Message {
	m, err := r.Bot.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		log.Printf("telegram send chat=%d: %v", chatID, err)
	}
	return m
}

func (r *Router) typing(chatID int64) {
	_, _ = r.Bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
}

func (r *Router) statusText(chatID int64) string {
	st := r.state(chatID)
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.sess.Uploaded() {
		return "No document uploaded yet."
	}
	return fmt.Sprintf("📄 Current document: %s", st.docName)
}

func startText() string {
	return fmt.Sprintf("📄 Document QA\n\n"+
		"1. Send a document (%s) to upload it.\n"+
		"2. Then type a question about it.\n\n"+
		"Commands: /status, /reset, /health", extList())
}

func extList() string {
	return strings.ToUpper(strings.Join(util.SupportedExtensions(), ", "))
}
