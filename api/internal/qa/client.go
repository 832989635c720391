package qa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultTimeout = 60 * time.Second

// Client talks to the document API. It holds no session state.
type Client struct {
	BaseURL string
	httpc   *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Upload posts one file as multipart part "file" to {BaseURL}/upload.
func (c *Client) Upload(ctx context.Context, content io.Reader, fileName, mimeType string) (UploadResult, error) {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(fileName)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h.Set("Content-Type", mimeType)

	part, err := w.CreatePart(h)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return UploadResult{}, fmt.Errorf("%w: read %s: %v", ErrUploadFailed, fileName, err)
	}
	if err := w.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload", body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	raw, err := c.do(req, "upload")
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	if !json.Valid(raw) {
		return UploadResult{}, fmt.Errorf("%w: reply is not JSON: %s", ErrUploadFailed, truncate(string(raw), 100))
	}
	return UploadResult{Handle: uploadHandle(raw)}, nil
}

// uploadHandle picks "file" out of a valid JSON reply. Any other shape
// (a bare string, an array, a non-string "file") still counts as stored,
// just without a handle.
func uploadHandle(raw []byte) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	var file string
	if err := json.Unmarshal(obj["file"], &file); err != nil {
		return ""
	}
	return file
}

// Ask posts a form-encoded question; filename is sent only when non-empty.
// The reply is decoded but not classified.
func (c *Client) Ask(ctx context.Context, question, filename string) (AskReply, error) {
	form := url.Values{}
	form.Set("question", question)
	if filename != "" {
		form.Set("filename", filename)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/ask", strings.NewReader(form.Encode()))
	if err != nil {
		return AskReply{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	raw, err := c.do(req, "ask")
	if err != nil {
		return AskReply{}, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	var out AskReply
	if err := json.Unmarshal(raw, &out); err != nil {
		return AskReply{}, fmt.Errorf("%w: decode: %v", ErrMalformedResponse, err)
	}
	return out, nil
}

// do sends req once and returns the body of a 200 reply.
func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	rid := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", rid)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Printf("qa %s rid=%s transport error after %v: %v", endpoint, rid, time.Since(start), err)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("qa %s rid=%s read body: %v", endpoint, rid, err)
		return nil, err
	}
	log.Printf("qa %s rid=%s status=%d in %v", endpoint, rid, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: truncate(string(raw), 300)}
	}
	return raw, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n] + "…"
	}
	return s
}
