package server

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ats-tailor/internal/db"
	"github.com/jonathan/ats-tailor/internal/fetch"
	"github.com/jonathan/ats-tailor/internal/types"
)

// memoryStore is an in-memory UserStore and ApplicationStore.
type memoryStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*db.User
	apps  map[uuid.UUID]*types.Application
	fail  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users: make(map[uuid.UUID]*db.User),
		apps:  make(map[uuid.UUID]*types.Application),
	}
}

func (m *memoryStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(context.Background(), email)
	return u != nil, err
}

func (m *memoryStore) CreateUserWithPassword(_ context.Context, name, email, phone, hash string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return uuid.Nil, m.fail
	}
	now := time.Now()
	u := &db.User{ID: uuid.New(), Name: name, Email: strings.ToLower(email), Phone: phone,
		PasswordHash: hash, PasswordSet: true, CreatedAt: now, UpdatedAt: now}
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *memoryStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memoryStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return errors.New("no such user")
	}
	u.PasswordHash = hash
	return nil
}

func applyInput(app *types.Application, in *db.ApplicationInput) {
	app.Title = in.Title
	app.Company = in.Company
	app.JobDescription = in.JobDescription
	app.JobURL = in.JobURL
	app.Analysis = in.Analysis
	app.BaseResumeContent = in.BaseResumeContent
	app.OptimizedResumeContent = in.OptimizedResumeContent
	app.OptimizedCoverLetter = in.OptimizedCoverLetter
	app.BaseATSScore = in.BaseATSScore
	app.OptimizedATSScore = in.OptimizedATSScore
	app.ExcludedTerms = in.ExcludedTerms
	app.UpdatedAt = time.Now()
}

// owned returns the application when it belongs to userID. Callers hold mu.
func (m *memoryStore) owned(userID, id uuid.UUID) *types.Application {
	app, ok := m.apps[id]
	if !ok || app.UserID != userID {
		return nil
	}
	return app
}

func (m *memoryStore) CreateApplication(_ context.Context, userID uuid.UUID, in *db.ApplicationInput) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	app := &types.Application{ID: uuid.New(), UserID: userID, CreatedAt: time.Now()}
	applyInput(app, in)
	m.apps[app.ID] = app
	cp := *app
	return &cp, nil
}

func (m *memoryStore) GetApplication(_ context.Context, userID, id uuid.UUID) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	app := m.owned(userID, id)
	if app == nil {
		return nil, nil
	}
	cp := *app
	return &cp, nil
}

func (m *memoryStore) ListApplications(_ context.Context, userID uuid.UUID, limit int) ([]types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	out := []types.Application{}
	for _, app := range m.apps {
		if app.UserID == userID {
			out = append(out, *app)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryStore) UpdateApplication(_ context.Context, userID, id uuid.UUID, in *db.ApplicationInput) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app := m.owned(userID, id)
	if app == nil {
		return nil, nil
	}
	applyInput(app, in)
	cp := *app
	return &cp, nil
}

func (m *memoryStore) DeleteApplication(_ context.Context, userID, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owned(userID, id) == nil {
		return false, nil
	}
	delete(m.apps, id)
	return true, nil
}

func (m *memoryStore) DuplicateApplication(_ context.Context, userID, id uuid.UUID) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	src := m.owned(userID, id)
	if src == nil {
		return nil, nil
	}
	cp := *src
	cp.ID = uuid.New()
	cp.Title = src.Title + " (Copy)"
	m.apps[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memoryStore) UpdateOptimizedScore(_ context.Context, userID, id uuid.UUID, content string, score *types.ATSScore) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app := m.owned(userID, id)
	if app == nil {
		return false, nil
	}
	app.OptimizedResumeContent = content
	app.OptimizedATSScore = score
	return true, nil
}

type fakeAnalyzer struct {
	profile *types.JobProfile
	err     error
	got     string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, description string) (*types.JobProfile, error) {
	f.got = description
	return f.profile, f.err
}

func fakeFetcher(posting *fetch.Posting, err error) PostingFetcher {
	return PostingFetcherFunc(func(_ context.Context, url string) (*fetch.Posting, error) {
		if err != nil {
			return nil, err
		}
		p := *posting
		p.URL = url
		return &p, nil
	})
}
