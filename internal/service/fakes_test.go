package service

import (
	"context"
	"sync"
	"time"

	"github.com/astrahq/auth-service/internal/dto"
	"github.com/astrahq/auth-service/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserStore struct {
	mu     sync.Mutex
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uint]*model.User), nextID: 1}
}

func (s *fakeUserStore) seed(user *model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == 0 {
		user.ID = s.nextID
		s.nextID++
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
		user.UpdatedAt = user.CreatedAt
	}
	s.users[user.ID] = user
	return user
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) GetByActivationToken(_ context.Context, token string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.ActivationToken == token && token != "" {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id uint, hashedPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Password = hashedPassword
	user.UpdatedAt = time.Now()
	return nil
}

func (s *fakeUserStore) Activate(_ context.Context, id uint, verifiedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Active = true
	user.EmailVerifiedAt = &verifiedAt
	user.UpdatedAt = time.Now()
	return nil
}

type fakeResetStore struct {
	mu     sync.Mutex
	resets map[string]*model.PasswordReset
	now    func() time.Time
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{resets: make(map[string]*model.PasswordReset), now: time.Now}
}

func (s *fakeResetStore) Upsert(_ context.Context, email, token string) (*model.PasswordReset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	reset, ok := s.resets[email]
	if !ok {
		reset = &model.PasswordReset{Email: email, CreatedAt: now}
		s.resets[email] = reset
	}
	reset.Token = token
	reset.UpdatedAt = now
	copied := *reset
	return &copied, nil
}

func (s *fakeResetStore) GetByToken(_ context.Context, token string) (*model.PasswordReset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, reset := range s.resets {
		if reset.Token == token {
			copied := *reset
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeResetStore) GetByTokenAndEmail(_ context.Context, token, email string) (*model.PasswordReset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reset, ok := s.resets[email]
	if !ok || reset.Token != token {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *reset
	return &copied, nil
}

func (s *fakeResetStore) DeleteByEmail(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resets, email)
	return nil
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*model.AccessToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*model.AccessToken)}
}

func (s *fakeTokenStore) Create(_ context.Context, token *model.AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *token
	s.tokens[token.ID] = &copied
	return nil
}

func (s *fakeTokenStore) GetByID(_ context.Context, id string) (*model.AccessToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *token
	return &copied, nil
}

func (s *fakeTokenStore) Revoke(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	token.Revoked = true
	return nil
}

type fakeNotifier struct {
	mu            sync.Mutex
	activations   []string // recipient emails
	resetRequests []string // tokens handed out
	resetSuccess  []string // recipient emails
}

func (n *fakeNotifier) SendActivation(_ context.Context, user *model.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.activations = append(n.activations, user.Email)
}

func (n *fakeNotifier) SendResetRequest(_ context.Context, _ *model.User, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetRequests = append(n.resetRequests, token)
}

func (n *fakeNotifier) SendResetSuccess(_ context.Context, user *model.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetSuccess = append(n.resetSuccess, user.Email)
}

type fakeUserCache struct {
	mu      sync.Mutex
	entries map[uint]*dto.UserResponse
}

func newFakeUserCache() *fakeUserCache {
	return &fakeUserCache{entries: make(map[uint]*dto.UserResponse)}
}

func (c *fakeUserCache) GetUser(_ context.Context, id uint) (*dto.UserResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	user, ok := c.entries[id]
	return user, ok
}

func (c *fakeUserCache) SetUser(_ context.Context, user *dto.UserResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[user.ID] = user
}

func (c *fakeUserCache) InvalidateUser(_ context.Context, id uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// testHash hashes with the cheapest cost so test setup stays fast.
func testHash(password string) string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hashed)
}
