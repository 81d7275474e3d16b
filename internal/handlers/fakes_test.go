package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"ecolife-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type fakeTokens struct {
	mu        sync.Mutex
	tokens    map[string]*models.LoginToken
	recent    int64
	createErr error
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{tokens: make(map[string]*models.LoginToken)}
}

func (f *fakeTokens) Create(ctx context.Context, token *models.LoginToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	token.ID = bson.NewObjectID()
	token.CreatedAt = time.Now()
	copied := *token
	f.tokens[token.Token] = &copied
	f.recent++
	return nil
}

func (f *fakeTokens) FindByToken(ctx context.Context, token string) (*models.LoginToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTokens) MarkUsed(ctx context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok || t.IsUsed {
		return false, nil
	}
	t.IsUsed = true
	return true, nil
}

func (f *fakeTokens) CountRecentByEmail(ctx context.Context, email string, window time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recent, nil
}

func (f *fakeTokens) put(t models.LoginToken) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[t.Token] = &t
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (f *fakeUsers) FindOrCreate(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.users == nil {
		f.users = make(map[string]*models.User)
	}
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	u := &models.User{ID: bson.NewObjectID(), Email: email, CreatedAt: time.Now()}
	f.users[email] = u
	return u, nil
}

type fakeMailer struct {
	mu    sync.Mutex
	to    string
	link  string
	err   error
	calls int
}

func (f *fakeMailer) SendLoginLink(ctx context.Context, to, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.to, f.link = to, link
	return f.err
}

type fakeDocs struct {
	mu      sync.Mutex
	docs    map[string]models.ProductivityRecord
	loadErr error
	saveErr error
}

func (f *fakeDocs) Load(ctx context.Context, userID string) (*models.ProductivityRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	rec, ok := f.docs[userID]
	if !ok {
		return nil, nil
	}
	rec = rec.Clone()
	return &rec, nil
}

func (f *fakeDocs) Save(ctx context.Context, userID string, record models.ProductivityRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.docs == nil {
		f.docs = make(map[string]models.ProductivityRecord)
	}
	f.docs[userID] = record.Clone()
	return nil
}

var errBoom = errors.New("boom")
