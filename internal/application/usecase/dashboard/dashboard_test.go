package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/khoahotran/personal-card/internal/domain/page"
	"github.com/khoahotran/personal-card/internal/domain/profile"
	"github.com/khoahotran/personal-card/pkg/apperror"
	"github.com/khoahotran/personal-card/pkg/auth"
	"github.com/khoahotran/personal-card/pkg/logger"
)

type memStore struct {
	pages    map[uuid.UUID]*page.Page
	profiles map[uuid.UUID]*profile.Record
	listed   struct{ limit, offset int }
}

func newMemStore() *memStore {
	return &memStore{pages: map[uuid.UUID]*page.Page{}, profiles: map[uuid.UUID]*profile.Record{}}
}

func (m *memStore) add(owner uuid.UUID, rec *profile.Record) *page.Page {
	rec.ID = uuid.New()
	rec.UserID = owner
	p := &page.Page{ID: uuid.New(), UserID: owner, ProfileID: rec.ID, Title: rec.PageTitle(), CreatedAt: time.Now()}
	m.profiles[rec.ID] = rec
	m.pages[p.ID] = p
	return p
}

func (m *memStore) ListByOwner(_ context.Context, owner uuid.UUID, limit, offset int) ([]*page.Page, error) {
	m.listed.limit, m.listed.offset = limit, offset
	var out []*page.Page
	for _, p := range m.pages {
		if p.UserID == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) FindByID(_ context.Context, id uuid.UUID) (*page.Page, error) {
	if p, ok := m.pages[id]; ok {
		return p, nil
	}
	return nil, page.ErrPageNotFound
}

type memProfiles struct{ *memStore }

func (m memProfiles) Insert(context.Context, *profile.Record) error { return errors.New("not used") }

func (m memProfiles) FindByID(_ context.Context, id uuid.UUID) (*profile.Record, error) {
	if r, ok := m.profiles[id]; ok {
		return r, nil
	}
	return nil, profile.ErrProfileNotFound
}

func (m memProfiles) SetThumbnail(context.Context, uuid.UUID, string) error { return nil }

func (m memProfiles) Delete(_ context.Context, id, owner uuid.UUID) (*profile.Record, error) {
	r, ok := m.profiles[id]
	if !ok || r.UserID != owner {
		return nil, profile.ErrProfileNotFound
	}
	delete(m.profiles, id)
	for pid, p := range m.pages {
		if p.ProfileID == id {
			delete(m.pages, pid)
		}
	}
	return r, nil
}

type recordingNotifier struct{ deleted []*profile.Record }

func (n *recordingNotifier) ProfileDeleted(_ context.Context, r *profile.Record) error {
	n.deleted = append(n.deleted, r)
	return nil
}

func TestDashboard_ListClampsPaging(t *testing.T) {
	store := newMemStore()
	owner := auth.Identity{UserID: uuid.New()}
	store.add(owner.UserID, &profile.Record{FullName: "Ada"})
	store.add(uuid.New(), &profile.Record{FullName: "Someone else"})
	uc := NewDashboardUseCase(store, memProfiles{store}, nil, "https://card.example/", logger.NewNopLogger())

	pages, err := uc.ListPages(context.Background(), ListPagesInput{Identity: owner, Limit: 1000, Offset: -5})

	require.NoError(t, err)
	assert.Len(t, pages, 1)
	assert.Equal(t, "Ada", pages[0].Title)
	assert.Equal(t, maxPageLimit, store.listed.limit)
	assert.Equal(t, 0, store.listed.offset)

	_, err = uc.ListPages(context.Background(), ListPagesInput{})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestDashboard_DeletePage(t *testing.T) {
	store := newMemStore()
	owner := auth.Identity{UserID: uuid.New()}
	p := store.add(owner.UserID, &profile.Record{FullName: "Ada", PictureObject: "profile-pictures/a.png"})
	notifier := &recordingNotifier{}
	uc := NewDashboardUseCase(store, memProfiles{store}, notifier, "https://card.example", logger.NewNopLogger())

	err := uc.DeletePage(context.Background(), auth.Identity{UserID: uuid.New()}, p.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound, "other owners cannot delete")

	require.NoError(t, uc.DeletePage(context.Background(), owner, p.ID))
	assert.Empty(t, store.pages)
	require.Len(t, notifier.deleted, 1)
	assert.Equal(t, "profile-pictures/a.png", notifier.deleted[0].PictureObject)

	err = uc.DeletePage(context.Background(), owner, p.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDashboard_SharePage(t *testing.T) {
	store := newMemStore()
	owner := auth.Identity{UserID: uuid.New()}
	p := store.add(owner.UserID, &profile.Record{})
	uc := NewDashboardUseCase(store, memProfiles{store}, nil, "https://card.example/", logger.NewNopLogger())

	out, err := uc.SharePage(context.Background(), owner, p.ID)

	require.NoError(t, err)
	assert.Equal(t, "https://card.example/page/"+p.ID.String(), out.URL)
}

func TestPublicPage_DeserializesAndSanitizes(t *testing.T) {
	store := newMemStore()
	p := store.add(uuid.New(), &profile.Record{
		FullName:            "Ada",
		Bio:                 `Hello <script>alert(1)</script><b>world</b>`,
		PictureURL:          "https://cdn/a.png",
		PictureThumbnailURL: "https://cdn/thumb/a.png",
		Experiences:         json.RawMessage(`[{"title":"Engineer","company":"Acme"},{"title":1}]`),
		Education:           json.RawMessage(`{"degree":"not a list"}`),
	})
	uc := NewGetPublicPageUseCase(store, memProfiles{store}, logger.NewNopLogger())

	out, err := uc.Execute(context.Background(), p.ID)

	require.NoError(t, err)
	assert.Equal(t, "Hello world", out.Profile.Bio)
	assert.Equal(t, []profile.Experience{{Title: "Engineer", Company: "Acme"}}, out.Profile.Experiences)
	assert.Empty(t, out.Profile.Education)
	assert.Equal(t, "https://cdn/thumb/a.png", out.ThumbnailURL)
	url, ok := out.Profile.Picture.URL()
	assert.True(t, ok)
	assert.Equal(t, "https://cdn/a.png", url)

	_, err = uc.Execute(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPublicPage_LeavesMalformedEntryWarningToRepository(t *testing.T) {
	store := newMemStore()
	p := store.add(uuid.New(), &profile.Record{
		Experiences: json.RawMessage(`[{"title":1}]`),
	})
	core, logs := observer.New(zapcore.DebugLevel)
	uc := NewGetPublicPageUseCase(store, memProfiles{store}, logger.NewFromZap(zap.New(core)))

	out, err := uc.Execute(context.Background(), p.ID)

	require.NoError(t, err)
	assert.Empty(t, out.Profile.Experiences)
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}
