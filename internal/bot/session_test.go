package bot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unon-ymous/Pay-page/internal/asset"
	"github.com/unon-ymous/Pay-page/internal/store"
)

const (
	ownerID    = int64(42)
	strangerID = int64(99)
)

type mockReplier struct {
	replies []string
}

func (m *mockReplier) Reply(_ context.Context, _ int64, text string) {
	m.replies = append(m.replies, text)
}

func (m *mockReplier) last() string {
	if len(m.replies) == 0 {
		return ""
	}
	return m.replies[len(m.replies)-1]
}

type mockFetcher struct {
	fetchFn func(ctx context.Context, imageID string) ([]byte, error)
}

func (m *mockFetcher) Fetch(ctx context.Context, imageID string) ([]byte, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, imageID)
	}
	return []byte("png-bytes"), nil
}

type fixture struct {
	session *Session
	store   *store.Store
	assets  *asset.Store
	replier *mockReplier
	fetcher *mockFetcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	st := store.New(filepath.Join(dir, "config.json"), clockwork.NewFakeClock())
	st.Load()
	assets := asset.NewStore(filepath.Join(dir, "qr.png"))
	replier := &mockReplier{}
	fetcher := &mockFetcher{}
	return &fixture{
		session: NewSession(ownerID, st, assets, fetcher, replier),
		store:   st,
		assets:  assets,
		replier: replier,
		fetcher: fetcher,
	}
}

// --- authorization ---

func TestHandle_NonOwnerDroppedSilently(t *testing.T) {
	f := newFixture(t)
	before := f.store.Get()

	f.session.Handle(context.Background(), Event{ChatID: strangerID, Command: CmdSetID})
	f.session.Handle(context.Background(), Event{ChatID: strangerID, Text: "evil@bank"})

	assert.Equal(t, StateIdle, f.session.State())
	assert.Empty(t, f.replier.replies)
	assert.Equal(t, before.Identifier, f.store.Get().Identifier)
}

// --- commands ---

func TestHandle_SetQRCommandEntersAwaitingImage(t *testing.T) {
	f := newFixture(t)

	f.session.Handle(context.Background(), Event{ChatID: ownerID, Command: CmdSetQR})

	assert.Equal(t, StateAwaitingImage, f.session.State())
	assert.Len(t, f.replier.replies, 1)
}

func TestHandle_SetIDCommandEntersAwaitingIdentifier(t *testing.T) {
	f := newFixture(t)

	f.session.Handle(context.Background(), Event{ChatID: ownerID, Command: CmdSetID})

	assert.Equal(t, StateAwaitingIdentifier, f.session.State())
}

func TestHandle_CommandInterruptsPendingSession(t *testing.T) {
	f := newFixture(t)

	f.session.Handle(context.Background(), Event{ChatID: ownerID, Command: CmdSetQR})
	require.Equal(t, StateAwaitingImage, f.session.State())

	f.session.Handle(context.Background(), Event{ChatID: ownerID, Command: CmdSetID})
	assert.Equal(t, StateAwaitingIdentifier, f.session.State())

	f.session.Handle(context.Background(), Event{ChatID: ownerID, Command: CmdSetQR})
	assert.Equal(t, StateAwaitingImage, f.session.State())
}

func TestHandle_HelpResetsToIdle(t *testing.T) {
	f := newFixture(t)

	f.session.Handle(context.Background(), Event{ChatID: ownerID, Command: CmdSetQR})
	f.session.Handle(context.Background(), Event{ChatID: ownerID, Command: CmdHelp})

	assert.Equal(t, StateIdle, f.session.State())
}

func TestHandle_SetNameUpdatesDisplayName(t *testing.T) {
	f := newFixture(t)

	f.session.Handle(context.Background(), Event{ChatID: ownerID, Command: CmdSetName, Text: "Corner Shop"})

	assert.Equal(t, "Corner Shop", f.store.Get().DisplayName)
	assert.Equal(t, StateIdle, f.session.State())
}

// --- awaiting-image ---

func TestHandle_ImageUpdatesAsset(t *testing.T) {
	f := newFixture(t)

	f.session.Handle(context.Background(), Event{ChatID: ownerID, Command: CmdSetQR})
	f.session.Handle(context.Background(), Event{ChatID: ownerID, ImageID: "file-123"})

	assert.Equal(t, StateIdle, f.session.State())
	assert.True(t, f.assets.Exists())

	data, err := os.ReadFile(f.assets.Path())
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestHandle_FetchFailureHoldsState(t *testing.T) {
	f := newFixture(t)
	f.fetcher.fetchFn = func(context.Context, string) ([]byte, error) {
		return nil, errors.New("network down")
	}

	f.session.Handle(context.Background(), Event{ChatID: ownerID, Command: CmdSetQR})
	f.session.Handle(context.Background(), Event{ChatID: ownerID, ImageID: "file-123"})

	// Owner must be able to retry without re-issuing the command.
	assert.Equal(t, StateAwaitingImage, f.session.State())
	assert.False(t, f.assets.Exists())
	assert.Contains(t, f.replier.last(), "failed")

	f.fetcher.fetchFn = nil
	f.session.Handle(context.Background(), Event{ChatID: ownerID, ImageID: "file-123"})
	assert.Equal(t, StateIdle, f.session.State())
	assert.True(t, f.assets.Exists())
}

func TestHandle_RemovalTokenDeletesAsset(t *testing.T) {
	for _, token := range []string{"not available", "NOT AVAILABLE", "not_available", "na", "NA", " Not_Available "} {
		t.Run(token, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.assets.Put([]byte("png-bytes")))

			f.session.Handle(context.Background(), Event{ChatID: ownerID, Command: CmdSetQR})
			f.session.Handle(context.Background(), Event{ChatID: ownerID, Text: token})

			assert.Equal(t, StateIdle, f.session.State())
			assert.False(t, f.assets.Exists())
		})
	}
}

func TestHandle_RemovalTokenWithAbsentAssetStillSucceeds(t *testing.T) {
	f := newFixture(t)

	f.session.Handle(context.Background(), Event{ChatID: ownerID, Command: CmdSetQR})
	f.session.Handle(context.Background(), Event{ChatID: ownerID, Text: "na"})

	assert.Equal(t, StateIdle, f.session.State())
	assert.False(t, f.assets.Exists())
	assert.Contains(t, f.replier.last(), "removed")
}

func TestHandle_UnexpectedTextKeepsAwaitingImage(t *testing.T) {
	f := newFixture(t)

	f.session.Handle(context.Background(), Event{ChatID: ownerID, Command: CmdSetQR})
	f.session.Handle(context.Background(), Event{ChatID: ownerID, Text: "hello there"})

	assert.Equal(t, StateAwaitingImage, f.session.State())
	assert.False(t, f.assets.Exists())
}

// --- awaiting-identifier ---

func TestHandle_IdentifierUpdateEndToEnd(t *testing.T) {
	f := newFixture(t)

	f.session.Handle(context.Background(), Event{ChatID: ownerID, Command: CmdSetID})
	require.Equal(t, StateAwaitingIdentifier, f.session.State())

	f.session.Handle(context.Background(), Event{ChatID: ownerID, Text: "shop@bank"})

	assert.Equal(t, StateIdle, f.session.State())
	rec := f.store.Get()
	assert.Equal(t, "shop@bank", rec.Identifier)
	assert.True(t, rec.IdentifierValid)
	assert.Contains(t, f.replier.last(), "shop@bank")
}

func TestHandle_InvalidIdentifierStoredWithWarning(t *testing.T) {
	f := newFixture(t)

	f.session.Handle(context.Background(), Event{ChatID: ownerID, Command: CmdSetID})
	f.session.Handle(context.Background(), Event{ChatID: ownerID, Text: "bad id@bank"})

	assert.Equal(t, StateIdle, f.session.State())
	rec := f.store.Get()
	assert.Equal(t, "bad id@bank", rec.Identifier)
	assert.False(t, rec.IdentifierValid)
	assert.Contains(t, f.replier.last(), "not look valid")
}

// --- idle ---

func TestHandle_IdleTextGetsUsageHint(t *testing.T) {
	f := newFixture(t)

	f.session.Handle(context.Background(), Event{ChatID: ownerID, Text: "hello"})

	assert.Equal(t, StateIdle, f.session.State())
	assert.Contains(t, f.replier.last(), "/setid")
}

// --- removal token matching ---

func TestIsRemovalToken(t *testing.T) {
	assert.True(t, isRemovalToken("not available"))
	assert.True(t, isRemovalToken("not_available"))
	assert.True(t, isRemovalToken("na"))
	assert.True(t, isRemovalToken("  NOT   AVAILABLE  "))
	assert.False(t, isRemovalToken("unavailable"))
	assert.False(t, isRemovalToken("not"))
	assert.False(t, isRemovalToken(""))
}
