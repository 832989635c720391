package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"docqa-bot/api/internal/qa"
	"docqa-bot/api/internal/util"
)

// Bot API getFile refuses anything larger.
const maxDownloadSize = 20 << 20

var errFileTooLarge = errors.New("file is larger than 20 MB")

func (r *Router) acceptDocument(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	doc := msg.Document

	if !util.IsSupportedDocument(doc.FileName) {
		r.send(cid, fmt.Sprintf("⚠️ Unsupported file %q. Upload a %s file.", doc.FileName, extList()))
		return
	}
	if int64(doc.FileSize) > r.maxFileSize {
		r.send(cid, "⚠️ File is too large: Telegram bots can only fetch files up to 20 MB.")
		return
	}

	st := r.state(cid)
	st.mu.Lock()
	defer st.mu.Unlock()

	r.send(cid, "⏳ Uploading and processing document…")
	r.typing(cid)

	url, err := r.Bot.GetFileDirectURL(doc.FileID)
	if err != nil {
		r.send(cid, fmt.Sprintf("❌ Upload error: could not fetch the file from Telegram: %v", err))
		return
	}
	content, err := r.download(url)
	if errors.Is(err, errFileTooLarge) {
		r.send(cid, "⚠️ File is too large: Telegram bots can only fetch files up to 20 MB.")
		return
	}
	if err != nil {
		r.send(cid, fmt.Sprintf("❌ Upload error: could not fetch the file from Telegram: %v", err))
		return
	}

	mime := util.PickDocumentMIME(doc.MimeType, doc.FileName, content)
	res, err := st.sess.UploadDocument(context.Background(), bytes.NewReader(content), doc.FileName, mime)
	if err != nil {
		log.Printf("chat=%d upload %q: %v", cid, doc.FileName, err)
		r.send(cid, uploadFailureText(err))
		return
	}
	st.docName = doc.FileName
	log.Printf("chat=%d uploaded %q handle=%q", cid, doc.FileName, res.Handle)
	r.send(cid, "✅ Document uploaded and processed. Ask a question about it.")
}

func uploadFailureText(err error) string {
	var se *qa.StatusError
	if errors.As(err, &se) {
		return "❌ Upload failed. Please try again."
	}
	return fmt.Sprintf("❌ Upload error: %v", err)
}

func (r *Router) download(url string) ([]byte, error) {
	resp, err := r.httpc.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, r.maxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > r.maxFileSize {
		return nil, errFileTooLarge
	}
	return b, nil
}
