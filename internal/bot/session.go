package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/unon-ymous/Pay-page/internal/asset"
	"github.com/unon-ymous/Pay-page/internal/metrics"
	"github.com/unon-ymous/Pay-page/internal/store"
)

// State is what kind of input the session currently expects from the owner.
type State int

const (
	StateIdle State = iota
	StateAwaitingIdentifier
	StateAwaitingImage
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingIdentifier:
		return "awaiting-identifier"
	case StateAwaitingImage:
		return "awaiting-image"
	default:
		return "unknown"
	}
}

// Owner-facing commands.
const (
	CmdStart   = "start"
	CmdHelp    = "help"
	CmdSetID   = "setid"
	CmdSetQR   = "setqr"
	CmdSetName = "setname"
)

// Event is one inbound chat update, normalized away from the transport.
type Event struct {
	ChatID  int64
	Command string // without leading slash, empty if not a command
	Text    string
	ImageID string // transport file reference of the largest photo, empty if none
}

// Replier sends a plain-text reply back to a chat.
type Replier interface {
	Reply(ctx context.Context, chatID int64, text string)
}

// ImageFetcher resolves a transport image reference to raw bytes.
type ImageFetcher interface {
	Fetch(ctx context.Context, imageID string) ([]byte, error)
}

// Session is the owner-update state machine. One instance exists per
// process; the mutex makes transitions safe even if the transport ever
// delivers concurrently.
type Session struct {
	ownerID int64
	store   *store.Store
	assets  *asset.Store
	fetcher ImageFetcher
	replier Replier

	mu    sync.Mutex
	state State
}

func NewSession(ownerID int64, st *store.Store, assets *asset.Store, fetcher ImageFetcher, replier Replier) *Session {
	return &Session{
		ownerID: ownerID,
		store:   st,
		assets:  assets,
		fetcher: fetcher,
		replier: replier,
		state:   StateIdle,
	}
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Handle processes one inbound event through the state machine. Events from
// anyone but the owner are dropped with no reply and no state change.
func (s *Session) Handle(ctx context.Context, ev Event) {
	if ev.ChatID != s.ownerID {
		metrics.ChatUpdatesTotal.WithLabelValues("unauthorized").Inc()
		slog.DebugContext(ctx, "Dropping update from non-owner", "chat_id", ev.ChatID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Commands interrupt any pending session.
	if ev.Command != "" {
		s.handleCommandLocked(ctx, ev)
		return
	}

	switch s.state {
	case StateAwaitingImage:
		s.handleAwaitedImageLocked(ctx, ev)
	case StateAwaitingIdentifier:
		s.handleAwaitedIdentifierLocked(ctx, ev)
	default:
		metrics.ChatUpdatesTotal.WithLabelValues("ignored").Inc()
		s.replier.Reply(ctx, ev.ChatID, "Nothing pending. Send /setid to change the payment ID or /setqr to change the QR code.")
	}
}

func (s *Session) handleCommandLocked(ctx context.Context, ev Event) {
	switch ev.Command {
	case CmdSetQR:
		s.state = StateAwaitingImage
		s.replier.Reply(ctx, ev.ChatID, "Send the new QR code as a photo, or \"not available\" to remove the current one.")
	case CmdSetID:
		s.state = StateAwaitingIdentifier
		s.replier.Reply(ctx, ev.ChatID, "Send the new payment ID (e.g. shop@bank).")
	case CmdSetName:
		s.state = StateIdle
		if args := strings.TrimSpace(ev.Text); args != "" {
			if err := s.store.SetDisplayName(args); err != nil {
				slog.WarnContext(ctx, "Failed to persist display name", "error", err)
			}
			s.replier.Reply(ctx, ev.ChatID, fmt.Sprintf("Display name updated to %q.", args))
		} else {
			s.replier.Reply(ctx, ev.ChatID, "Usage: /setname <display name>")
		}
	case CmdStart, CmdHelp:
		s.state = StateIdle
		s.replier.Reply(ctx, ev.ChatID, helpText)
	default:
		metrics.ChatUpdatesTotal.WithLabelValues("ignored").Inc()
		s.replier.Reply(ctx, ev.ChatID, "Unknown command. "+helpText)
		return
	}
	metrics.ChatUpdatesTotal.WithLabelValues("processed").Inc()
	slog.InfoContext(ctx, "Command processed", "command", ev.Command, "state", s.state.String())
}

func (s *Session) handleAwaitedImageLocked(ctx context.Context, ev Event) {
	if ev.ImageID != "" {
		data, err := s.fetcher.Fetch(ctx, ev.ImageID)
		if err == nil {
			err = s.assets.Put(data)
		}
		if err != nil {
			// Hold the state so the owner can retry or cancel with a command.
			metrics.ChatUpdatesTotal.WithLabelValues("error").Inc()
			slog.WarnContext(ctx, "QR image update failed", "error", err)
			s.replier.Reply(ctx, ev.ChatID, "Saving the QR code failed, please send it again.")
			return
		}
		s.state = StateIdle
		metrics.ChatUpdatesTotal.WithLabelValues("processed").Inc()
		slog.InfoContext(ctx, "QR image updated")
		s.replier.Reply(ctx, ev.ChatID, "QR code updated.")
		return
	}

	if isRemovalToken(ev.Text) {
		if err := s.assets.Remove(); err != nil {
			metrics.ChatUpdatesTotal.WithLabelValues("error").Inc()
			slog.WarnContext(ctx, "QR image removal failed", "error", err)
			s.replier.Reply(ctx, ev.ChatID, "Removing the QR code failed, please try again.")
			return
		}
		s.state = StateIdle
		metrics.ChatUpdatesTotal.WithLabelValues("processed").Inc()
		slog.InfoContext(ctx, "QR image removed")
		s.replier.Reply(ctx, ev.ChatID, "QR code removed, the page will show a placeholder.")
		return
	}

	metrics.ChatUpdatesTotal.WithLabelValues("ignored").Inc()
	s.replier.Reply(ctx, ev.ChatID, "Please send a photo, or \"not available\" to remove the QR code.")
}

func (s *Session) handleAwaitedIdentifierLocked(ctx context.Context, ev Event) {
	if ev.Text == "" {
		metrics.ChatUpdatesTotal.WithLabelValues("ignored").Inc()
		s.replier.Reply(ctx, ev.ChatID, "Please send the new payment ID as text.")
		return
	}

	valid, err := s.store.SetIdentifier(ev.Text)
	if err != nil {
		// The in-memory record is updated either way; only the file write can
		// fail. Surface it but do not lose the owner's input.
		slog.WarnContext(ctx, "Failed to persist payment ID", "error", err)
	}

	s.state = StateIdle
	metrics.ChatUpdatesTotal.WithLabelValues("processed").Inc()
	trimmed := strings.TrimSpace(ev.Text)
	slog.InfoContext(ctx, "Payment ID updated", "valid", valid)
	if valid {
		s.replier.Reply(ctx, ev.ChatID, fmt.Sprintf("Payment ID updated to %q.", trimmed))
	} else {
		s.replier.Reply(ctx, ev.ChatID, fmt.Sprintf("Payment ID stored as %q, but it does not look valid (expected name@provider). Payment buttons on the page are disabled until a valid ID is set.", trimmed))
	}
}

const helpText = "Commands: /setid - change the payment ID, /setqr - change the QR code, /setname <name> - change the display name."

// isRemovalToken matches "not available", "not_available" and "na" in any
// case, with underscores treated as spaces and runs of spaces collapsed.
func isRemovalToken(text string) bool {
	norm := strings.ToLower(strings.TrimSpace(text))
	norm = strings.ReplaceAll(norm, "_", " ")
	norm = strings.Join(strings.Fields(norm), " ")
	return norm == "not available" || norm == "na"
}
