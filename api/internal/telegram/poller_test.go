package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type scriptedSource struct {
	calls   []tgbotapi.UpdateConfig
	replies []func() ([]tgbotapi.Update, error)
	cancel  context.CancelFunc
}

func (s *scriptedSource) GetUpdates(c tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	s.calls = append(s.calls, c)
	i := len(s.calls) - 1
	if i >= len(s.replies) {
		s.cancel()
		return nil, nil
	}
	return s.replies[i]()
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestPollerBackoff(t *testing.T) {
	p := NewPoller(nil, nil)
	cases := []struct {
		name     string
		err      error
		failures int
		want     time.Duration
	}{
		{"retry after", &tgbotapi.Error{Code: 429, Message: "Too Many Requests", ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 7}}, 1, 7 * time.Second},
		{"retry after capped", &tgbotapi.Error{Code: 429, ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 120}}, 1, 15 * time.Second},
		{"timeout", timeoutErr{}, 3, 2 * time.Second},
		{"first failure", errors.New("bad gateway"), 1, time.Second},
		{"third failure", errors.New("bad gateway"), 3, 4 * time.Second},
		{"many failures", errors.New("bad gateway"), 40, 15 * time.Second},
	}
	for _, tc := range cases {
		if got := p.backoff(tc.err, tc.failures); got != tc.want {
			t.Errorf("%s: backoff = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPollerRun(t *testing.T) {
	api := okAPI(`{}`)
	r, bot := newHarness(t, api)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &scriptedSource{cancel: cancel}
	src.replies = []func() ([]tgbotapi.Update, error){
		func() ([]tgbotapi.Update, error) { return nil, errors.New("bad gateway") },
		func() ([]tgbotapi.Update, error) {
			u1, u2 := textUpdate("/health"), textUpdate("/status")
			u1.UpdateID, u2.UpdateID = 10, 11
			return []tgbotapi.Update{u1, u2}, nil
		},
		func() ([]tgbotapi.Update, error) { return nil, nil },
	}

	var slept []time.Duration
	p := NewPoller(src, r)
	p.sleep = func(_ context.Context, d time.Duration) { slept = append(slept, d) }
	p.Run(ctx)

	if len(src.calls) != 4 {
		t.Fatalf("getUpdates calls = %d", len(src.calls))
	}
	if src.calls[2].Offset != 12 || src.calls[2].Timeout != 30 {
		t.Fatalf("offset after updates = %+v", src.calls[2])
	}
	// error backoff, then one idle pause per empty batch
	if len(slept) != 3 || slept[0] != time.Second || slept[1] != p.Idle || slept[2] != p.Idle {
		t.Fatalf("sleeps = %v", slept)
	}
	if got := bot.last(t).Text; got != "No document uploaded yet." {
		t.Fatalf("last reply = %q", got)
	}
	if api.asks.Load() != 0 || api.uploads.Load() != 0 {
		t.Fatalf("polling must not touch the document API")
	}
}

func TestServeDrainsChannel(t *testing.T) {
	r, bot := newHarness(t, okAPI(`{}`))
	ch := make(chan tgbotapi.Update, 1)
	ch <- textUpdate("/health")
	close(ch)

	r.Serve(ch)
	if got := bot.last(t).Text; got != "✅ OK" {
		t.Fatalf("reply = %q", got)
	}
}
