package service

import (
	"context"
	"fmt"
	"time"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
	"github.com/msk-clinic/clinic-portal/internal/core/notification"
	"github.com/msk-clinic/clinic-portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo(seed ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range seed {
		r.users[u.ID] = cloneUser(u)
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	c := cloneUser(user)
	if c.ID == "" {
		r.nextID++
		c.ID = fmt.Sprintf("u%d", r.nextID)
	}
	r.users[c.ID] = cloneUser(c)
	return c, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) CountByRole(_ context.Context) (map[domain.Role]int64, error) {
	out := make(map[domain.Role]int64)
	for _, u := range r.users {
		out[u.Role]++
	}
	return out, nil
}

type stubQuoteRepo struct {
	quotes  map[int64]*domain.Quote
	seq     int64
	nextErr error
}

func newStubQuoteRepo() *stubQuoteRepo {
	return &stubQuoteRepo{quotes: make(map[int64]*domain.Quote)}
}

func (r *stubQuoteRepo) NextID(_ context.Context) (int64, error) {
	if r.nextErr != nil {
		return 0, r.nextErr
	}
	r.seq++
	return r.seq, nil
}

func (r *stubQuoteRepo) Create(_ context.Context, q *domain.Quote) error {
	clone := *q
	r.quotes[q.ID] = &clone
	return nil
}

func (r *stubQuoteRepo) FindByID(_ context.Context, id int64) (*domain.Quote, error) {
	q, ok := r.quotes[id]
	if !ok {
		return nil, domain.ErrQuoteNotFound
	}
	clone := *q
	return &clone, nil
}

func (r *stubQuoteRepo) Totals(_ context.Context) (*ports.QuoteTotals, error) {
	t := &ports.QuoteTotals{}
	for _, q := range r.quotes {
		t.Count++
		if q.TotalAssistance != nil {
			t.TotalAssistance += *q.TotalAssistance
		}
		if q.TotalClinique != nil {
			t.TotalClinique += *q.TotalClinique
		}
		if q.TotalQuote != nil {
			t.TotalQuote += *q.TotalQuote
		}
	}
	return t, nil
}

type stubTokenStore struct {
	tokens  map[string]domain.PasswordResetToken
	lastTTL time.Duration
}

func newStubTokenStore() *stubTokenStore {
	return &stubTokenStore{tokens: make(map[string]domain.PasswordResetToken)}
}

func (s *stubTokenStore) Save(_ context.Context, t domain.PasswordResetToken, ttl time.Duration) error {
	s.tokens[t.Token] = t
	s.lastTTL = ttl
	return nil
}

func (s *stubTokenStore) Consume(_ context.Context, token, email string) (*domain.PasswordResetToken, error) {
	t, ok := s.tokens[token]
	if !ok || t.Email != email {
		return nil, domain.ErrInvalidResetToken
	}
	delete(s.tokens, token)
	return &t, nil
}

type stubMailQueue struct {
	sent []notification.Message
	full bool
}

func (q *stubMailQueue) Enqueue(msg notification.Message) bool {
	if q.full {
		return false
	}
	q.sent = append(q.sent, msg)
	return true
}

type stubArchive struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newStubArchive() *stubArchive {
	return &stubArchive{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (a *stubArchive) Put(_ context.Context, key, contentType string, body []byte) error {
	if a.err != nil {
		return a.err
	}
	a.objects[key] = body
	a.types[key] = contentType
	return nil
}
