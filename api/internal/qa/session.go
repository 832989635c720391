package qa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Server sentinels; compared case-insensitively after trimming.
const (
	sentinelNoText   = "no text found"
	sentinelNoAnswer = "no answer found"
)

// Session is one user's upload-then-ask conversation with the document API.
// Not safe for concurrent use.
type Session struct {
	client      *Client
	trackHandle bool

	uploaded bool
	handle   string
}

// NewSession returns a session with nothing uploaded. When trackHandle is set
// the "file" value from /upload is remembered and sent as "filename" on /ask.
func NewSession(client *Client, trackHandle bool) *Session {
	return &Session{client: client, trackHandle: trackHandle}
}

func (s *Session) Uploaded() bool { return s.uploaded }

// Handle returns the document handle and whether one is recorded.
func (s *Session) Handle() (string, bool) {
	return s.handle, s.uploaded && s.trackHandle && s.handle != ""
}

// Reset forgets the uploaded document.
func (s *Session) Reset() {
	s.uploaded = false
	s.handle = ""
}

// UploadDocument sends the file once. On failure the session is left as it was.
func (s *Session) UploadDocument(ctx context.Context, content io.Reader, fileName, mimeType string) (UploadResult, error) {
	res, err := s.client.Upload(ctx, content, fileName, mimeType)
	if err != nil {
		return UploadResult{}, err
	}
	s.uploaded = true
	if s.trackHandle {
		s.handle = res.Handle
	} else {
		res.Handle = ""
	}
	return res, nil
}

// AskQuestion validates the question, sends it once and classifies the reply.
func (s *Session) AskQuestion(ctx context.Context, question string) (Answer, error) {
	if !s.uploaded {
		return Answer{}, ErrNotUploaded
	}
	if strings.TrimSpace(question) == "" {
		return Answer{}, ErrValidationFailed
	}

	var filename string
	if s.trackHandle {
		filename = s.handle
	}
	reply, err := s.client.Ask(ctx, question, filename)
	if err != nil {
		return Answer{}, err
	}
	return Classify(reply)
}

// Classify maps a 200 /ask body to an outcome.
func Classify(r AskReply) (Answer, error) {
	if r.Answer == nil {
		return Answer{}, fmt.Errorf("%w: missing answer", ErrMalformedResponse)
	}
	chunk := ""
	if r.Chunk != nil {
		chunk = *r.Chunk
	}

	switch strings.ToLower(strings.TrimSpace(*r.Answer)) {
	case sentinelNoText:
		return Answer{Kind: NoTextFound, Answer: *r.Answer}, nil
	case sentinelNoAnswer:
		return Answer{Kind: NoConfidentAnswer, Answer: *r.Answer, Chunk: chunk}, nil
	}

	var missing []string
	if r.Confidence == nil {
		missing = append(missing, "confidence")
	}
	if r.Score == nil {
		missing = append(missing, "score")
	}
	if r.Chunk == nil {
		missing = append(missing, "chunk")
	}
	if len(missing) > 0 {
		return Answer{}, fmt.Errorf("%w: missing %s", ErrMalformedResponse, strings.Join(missing, ", "))
	}
	return Answer{
		Kind:       AnswerFound,
		Answer:     *r.Answer,
		Confidence: *r.Confidence,
		Score:      *r.Score,
		Chunk:      *r.Chunk,
	}, nil
}

// IsTransport reports whether err came from the network rather than an HTTP reply.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return false
	}
	return errors.Is(err, ErrUploadFailed) || errors.Is(err, ErrRequestFailed)
}
