package telegram

import (
	"context"
	"errors"
	"log"
	"net"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UpdateSource is the long-polling half of *tgbotapi.BotAPI.
type UpdateSource interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

// Poller feeds getUpdates results into a Router. Failed getUpdates calls
// back off; document API calls are never retried here or anywhere else.
type Poller struct {
	Source UpdateSource
	Router *Router

	MinDelay time.Duration
	MaxDelay time.Duration
	Idle     time.Duration
	// sleep is replaced in tests
	sleep func(context.Context, time.Duration)
}

func NewPoller(src UpdateSource, r *Router) *Poller {
	return &Poller{
		Source:   src,
		Router:   r,
		MinDelay: time.Second,
		MaxDelay: 15 * time.Second,
		Idle:     200 * time.Millisecond,
		sleep:    sleepCtx,
	}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	offset := 0
	failures := 0
	for ctx.Err() == nil {
		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30

		updates, err := p.Source.GetUpdates(u)
		if err != nil {
			failures++
			d := p.backoff(err, failures)
			log.Printf("polling error: %v; retry in %v", err, d)
			p.sleep(ctx, d)
			continue
		}
		failures = 0

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			p.Router.HandleUpdate(upd)
		}
		if len(updates) == 0 {
			p.sleep(ctx, p.Idle)
		}
	}
	log.Printf("polling stopped: %v", ctx.Err())
}

// backoff honours Telegram's retry_after, otherwise doubles per consecutive
// failure; the result stays within [MinDelay, MaxDelay].
func (p *Poller) backoff(err error, failures int) time.Duration {
	var d time.Duration
	var tgErr *tgbotapi.Error
	var ne net.Error
	switch {
	case errors.As(err, &tgErr) && tgErr.RetryAfter > 0:
		d = time.Duration(tgErr.RetryAfter) * time.Second
	case errors.As(err, &ne) && ne.Timeout():
		d = 2 * time.Second
	default:
		d = p.MinDelay << min(failures-1, 6)
	}
	return max(p.MinDelay, min(d, p.MaxDelay))
}

// Serve handles webhook updates until the channel closes.
func (r *Router) Serve(updates tgbotapi.UpdatesChannel) {
	for upd := range updates {
		r.HandleUpdate(upd)
	}
	log.Printf("webhook updates channel closed")
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
