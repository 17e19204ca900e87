package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/unon-ymous/Pay-page/internal/asset"
	"github.com/unon-ymous/Pay-page/internal/logging"
	"github.com/unon-ymous/Pay-page/internal/metrics"
	"github.com/unon-ymous/Pay-page/internal/store"
)

const (
	longPollTimeout = 30 * time.Second
	fetchTimeout    = 30 * time.Second
	maxImageBytes   = 10 << 20
)

// Telegram allows roughly 30 messages per second per bot; stay well under.
var replyLimit = rate.Limit(1)

// Bot wraps the Telegram API client and feeds inbound updates into the
// owner-update session.
type Bot struct {
	api     *tgbotapi.BotAPI
	session *Session
	limiter *rate.Limiter
	client  *http.Client
}

// New creates the bot and its session. It talks to the Telegram API to
// validate the token, so a bad credential or missing network surfaces here.
func New(token string, ownerID int64, st *store.Store, assets *asset.Store) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	b := &Bot{
		api:     api,
		limiter: rate.NewLimiter(replyLimit, 5),
		client:  &http.Client{Timeout: fetchTimeout},
	}
	b.session = NewSession(ownerID, st, assets, b, b)

	slog.Info("Telegram bot connected", "username", api.Self.UserName)
	return b, nil
}

// Session exposes the state machine, mainly for tests and diagnostics.
func (b *Bot) Session() *Session {
	return b.session
}

// Run drains the long-poll update channel until ctx is cancelled. Updates
// are handled one at a time, so owner events are serial by construction.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(longPollTimeout.Seconds())
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			slog.Info("Telegram bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				slog.Info("Telegram update channel closed")
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	ctx = logging.WithCorrelation(ctx, logging.NewCorrelationID())

	ev := Event{ChatID: msg.Chat.ID}
	if msg.IsCommand() {
		ev.Command = msg.Command()
		ev.Text = msg.CommandArguments()
	} else {
		ev.Text = msg.Text
		if ev.Text == "" {
			ev.Text = msg.Caption
		}
	}
	if len(msg.Photo) > 0 {
		// Telegram sends multiple resolutions, the last is the largest.
		ev.ImageID = msg.Photo[len(msg.Photo)-1].FileID
	}

	slog.DebugContext(ctx, "Chat update received",
		"chat_id", ev.ChatID, "command", ev.Command, "has_image", ev.ImageID != "")
	b.session.Handle(ctx, ev)
}

// Reply sends a plain-text message, throttled to respect Telegram's send
// limits. Send failures are logged, never propagated: a lost reply must not
// disturb the session state.
func (b *Bot) Reply(ctx context.Context, chatID int64, text string) {
	if err := b.limiter.Wait(ctx); err != nil {
		return
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		metrics.ChatRepliesTotal.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "Failed to send reply", "chat_id", chatID, "error", err)
		return
	}
	metrics.ChatRepliesTotal.WithLabelValues("ok").Inc()
}

// Fetch resolves a Telegram photo file ID to raw bytes.
func (b *Bot) Fetch(ctx context.Context, imageID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(imageID)
	if err != nil {
		metrics.ImageFetchFailures.Inc()
		return nil, fmt.Errorf("failed to resolve image file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		metrics.ImageFetchFailures.Inc()
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		metrics.ImageFetchFailures.Inc()
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.ImageFetchFailures.Inc()
		return nil, fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		metrics.ImageFetchFailures.Inc()
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	return data, nil
}
