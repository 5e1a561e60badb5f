package wizard

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/goleak"

	"github.com/khoahotran/personal-card/internal/domain/profile"
	"github.com/khoahotran/personal-card/internal/domain/wizard"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// calls records the order in which collaborators were hit.
type calls struct {
	mu  sync.Mutex
	log []string
}

func (c *calls) add(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = append(c.log, s)
}

func (c *calls) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.log...)
}

type fakeStore struct {
	calls     *calls
	uploadErr error
	uploaded  map[string][]byte
	deleted   []string
}

func newFakeStore(c *calls) *fakeStore {
	return &fakeStore{calls: c, uploaded: map[string][]byte{}}
}

func (s *fakeStore) Upload(_ context.Context, r io.Reader, object string) (string, error) {
	s.calls.add("upload")
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.uploaded[object] = data
	return "https://cdn.test/" + object, nil
}

func (s *fakeStore) PublicURL(object, transformation string) (string, error) {
	return "https://cdn.test/" + transformation + "/" + object, nil
}

func (s *fakeStore) Delete(_ context.Context, object string) error {
	s.calls.add("delete")
	s.deleted = append(s.deleted, object)
	return nil
}

type fakeProfiles struct {
	calls     *calls
	insertErr error
	inserted  []*profile.Record
}

func (p *fakeProfiles) Insert(_ context.Context, r *profile.Record) error {
	p.calls.add("insert")
	if p.insertErr != nil {
		return p.insertErr
	}
	r.ID = uuid.New()
	r.PageID = uuid.New()
	p.inserted = append(p.inserted, r)
	return nil
}

func (p *fakeProfiles) FindByID(_ context.Context, id uuid.UUID) (*profile.Record, error) {
	for _, r := range p.inserted {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, profile.ErrProfileNotFound
}

func (p *fakeProfiles) SetThumbnail(context.Context, uuid.UUID, string) error { return nil }

func (p *fakeProfiles) Delete(context.Context, uuid.UUID, uuid.UUID) (*profile.Record, error) {
	return nil, profile.ErrProfileNotFound
}

type fakeNotifier struct {
	calls   *calls
	err     error
	created []*profile.Record
}

func (n *fakeNotifier) ProfileCreated(_ context.Context, r *profile.Record) error {
	n.calls.add("notify")
	n.created = append(n.created, r)
	return n.err
}

type fakeNavigator struct {
	calls  *calls
	left   []uuid.UUID
	phases []wizard.Phase
}

func (n *fakeNavigator) Leave(_ context.Context, s *wizard.Session) error {
	n.calls.add("leave")
	n.left = append(n.left, s.ID)
	n.phases = append(n.phases, s.Phase)
	return nil
}

type memSessions struct {
	mu       sync.Mutex
	sessions  map[uuid.UUID]wizard.Session
	saveErr   error
	deleteErr error
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: map[uuid.UUID]wizard.Session{}}
}

func (m *memSessions) Save(_ context.Context, s *wizard.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[s.ID] = *s
	return nil
}

func (m *memSessions) FindByID(_ context.Context, id, ownerID uuid.UUID) (*wizard.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.OwnerID != ownerID {
		return nil, wizard.ErrSessionNotFound
	}
	return &s, nil
}

func (m *memSessions) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.sessions, id)
	return nil
}

func (m *memSessions) get(id uuid.UUID) (wizard.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// pngHeader sniffs as image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
