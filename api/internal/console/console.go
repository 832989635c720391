// Package console drives a QA session from a terminal: one line in, one
// rendered outcome out.
package console

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"docqa-bot/api/internal/qa"
	"docqa-bot/api/internal/util"
)

type REPL struct {
	Session *qa.Session
	In      io.Reader
	Out     io.Writer
	// ReadFile defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

const help = `Commands:
  :upload <path>   upload a PDF, DOCX or TXT document
  :reset           forget the uploaded document
  :quit            exit
Anything else is a question about the uploaded document.`

func (r *REPL) printf(format string, args ...any) { _, _ = fmt.Fprintf(r.Out, format, args...) }

// Run reads commands until EOF or :quit.
func (r *REPL) Run(ctx context.Context) error {
	r.printf("📄 Document QA System\n%s\n", help)
	sc := bufio.NewScanner(r.In)
	for {
		if r.Session.Uploaded() {
			r.printf("question> ")
		} else {
			r.printf("upload> ")
		}
		if !sc.Scan() {
			r.printf("\n")
			return sc.Err()
		}
		if !r.Handle(ctx, sc.Text()) {
			return nil
		}
	}
}

// Handle processes one input line and reports whether to keep going.
func (r *REPL) Handle(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == ":quit" || trimmed == ":q":
		return false
	case trimmed == ":help":
		r.printf("%s\n", help)
	case trimmed == ":reset":
		r.Session.Reset()
		r.printf("Session cleared.\n")
	case trimmed == ":upload" || strings.HasPrefix(trimmed, ":upload "):
		r.Upload(ctx, strings.TrimSpace(strings.TrimPrefix(trimmed, ":upload")))
	case strings.HasPrefix(trimmed, ":"):
		r.printf("Unknown command %s. Type :help.\n", strings.Fields(trimmed)[0])
	default:
		r.Ask(ctx, line)
	}
	return true
}

func (r *REPL) Upload(ctx context.Context, path string) {
	if path == "" {
		r.printf("Usage: :upload <path>\n")
		return
	}
	name := filepath.Base(path)
	if !util.IsSupportedDocument(name) {
		r.printf("⚠️ Unsupported file %q. Upload a PDF, DOCX or TXT file.\n", name)
		return
	}
	read := r.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	content, err := read(path)
	if err != nil {
		r.printf("❌ Upload error: %v\n", err)
		return
	}

	r.printf("⏳ Uploading and processing document…\n")
	mime := util.PickDocumentMIME("", name, content)
	if _, err := r.Session.UploadDocument(ctx, bytes.NewReader(content), name, mime); err != nil {
		var se *qa.StatusError
		if errors.As(err, &se) {
			r.printf("❌ Upload failed. Please try again.\n")
		} else {
			r.printf("❌ Upload error: %v\n", err)
		}
		return
	}
	r.printf("✅ Document uploaded and processed.\n")
}

func (r *REPL) Ask(ctx context.Context, question string) {
	if !r.Session.Uploaded() {
		r.printf("ℹ️ Please upload a document first.\n")
		return
	}
	if strings.TrimSpace(question) != "" {
		r.printf("🔎 Searching for an answer…\n")
	}

	ans, err := r.Session.AskQuestion(ctx, question)
	var se *qa.StatusError
	switch {
	case errors.Is(err, qa.ErrValidationFailed):
		r.printf("⚠️ Please enter a question.\n")
	case errors.Is(err, qa.ErrMalformedResponse):
		r.printf("❌ The service returned an incomplete answer. Please try again later.\n")
	case errors.As(err, &se):
		r.printf("❌ Failed to get an answer. Please try again later.\n")
	case err != nil:
		r.printf("❌ Request failed: %v\n", err)
	case ans.Kind == qa.NoTextFound:
		r.printf("⚠️ No relevant text found in the document.\n")
	case ans.Kind == qa.NoConfidentAnswer:
		r.printf("🤔 Relevant text found, but no confident answer.\n")
		r.printChunk(ans.Chunk)
	default:
		r.printf("✅ Answer: %s\n", ans.Answer)
		r.printf("Confidence: %s%%\n", ans.Confidence)
		r.printf("Similarity Score: %s\n", ans.Score)
		r.printChunk(ans.Chunk)
	}
}

func (r *REPL) printChunk(chunk string) {
	r.printf("📄 Relevant Text Chunk\n")
	for _, l := range strings.Split(chunk, "\n") {
		r.printf("  │ %s\n", l)
	}
}
