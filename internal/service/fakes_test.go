package service

import (
	"context"
	"sync"
	"time"

	"helpdesk/api/internal/models"
	"helpdesk/api/internal/repository"
)

// In-memory stores mirroring the repository contracts, shared by the service
// tests.

type fakeAccountStore struct {
	mu       sync.Mutex
	accounts map[string]models.Account
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: make(map[string]models.Account)}
}

func (f *fakeAccountStore) Create(_ context.Context, account models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.accounts {
		if existing.Email == account.Email {
			return repository.ErrEmailTaken
		}
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	f.accounts[account.ID] = account
	return nil
}

func (f *fakeAccountStore) FindByEmail(_ context.Context, email string) (models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return models.Account{}, repository.ErrAccountNotFound
}

func (f *fakeAccountStore) GetByID(_ context.Context, id string) (models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[id]
	if !ok {
		return models.Account{}, repository.ErrAccountNotFound
	}
	return account, nil
}

func (f *fakeAccountStore) ListByRole(_ context.Context, role models.Role) ([]models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var accounts []models.Account
	for _, account := range f.accounts {
		if account.Role == role {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (f *fakeAccountStore) UpdateProfile(_ context.Context, account models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.accounts[account.ID]
	if !ok {
		return repository.ErrAccountNotFound
	}
	existing.FirstName = account.FirstName
	existing.LastName = account.LastName
	existing.Role = account.Role
	existing.Active = account.Active
	existing.UpdatedAt = time.Now()
	f.accounts[account.ID] = existing
	return nil
}

type fakeCategoryStore struct {
	mu         sync.Mutex
	categories map[string]models.Category
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: make(map[string]models.Category)}
}

func (f *fakeCategoryStore) Create(_ context.Context, category models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryStore) Update(_ context.Context, category models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[category.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	category.UpdatedAt = time.Now()
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeCategoryStore) GetByID(_ context.Context, id string) (models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	category, ok := f.categories[id]
	if !ok {
		return models.Category{}, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (f *fakeCategoryStore) ListAll(_ context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var categories []models.Category
	for _, category := range f.categories {
		categories = append(categories, category)
	}
	return categories, nil
}

func (f *fakeCategoryStore) hasChildren(id string) bool {
	for _, category := range f.categories {
		if category.ParentID != nil && *category.ParentID == id {
			return true
		}
	}
	return false
}

func (f *fakeCategoryStore) ListParents(_ context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var parents []models.Category
	for _, category := range f.categories {
		if f.hasChildren(category.ID) {
			parents = append(parents, category)
		}
	}
	return parents, nil
}

func (f *fakeCategoryStore) ListLeaves(_ context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var leaves []models.Category
	for _, category := range f.categories {
		if !f.hasChildren(category.ID) {
			leaves = append(leaves, category)
		}
	}
	return leaves, nil
}

type fakeChatStore struct {
	mu           sync.Mutex
	chats        map[string]models.Chat
	participants map[string]map[string]struct{}
	addCalls     int
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{
		chats:        make(map[string]models.Chat),
		participants: make(map[string]map[string]struct{}),
	}
}

func (f *fakeChatStore) EnsureForCategory(_ context.Context, chatID string, categoryID string) (models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if chat, ok := f.chats[categoryID]; ok {
		return chat, nil
	}
	chat := models.Chat{ID: chatID, CategoryID: categoryID, CreatedAt: time.Now()}
	f.chats[categoryID] = chat
	return chat, nil
}

func (f *fakeChatStore) AddParticipant(_ context.Context, chatID string, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	members, ok := f.participants[chatID]
	if !ok {
		members = make(map[string]struct{})
		f.participants[chatID] = members
	}
	members[accountID] = struct{}{}
	return nil
}

func (f *fakeChatStore) IsParticipant(_ context.Context, chatID string, accountID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.participants[chatID][accountID]
	return ok, nil
}

type fakeMessageStore struct {
	mu       sync.Mutex
	messages []models.Message
	clock    time.Time
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{clock: time.Now()}
}

func (f *fakeMessageStore) Create(_ context.Context, message models.Message) (models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Strictly increasing timestamps, like the store's clock.
	f.clock = f.clock.Add(time.Millisecond)
	message.CreatedAt = f.clock
	f.messages = append(f.messages, message)
	return message, nil
}

func (f *fakeMessageStore) ListByCategory(_ context.Context, categoryID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Message
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].CategoryID == categoryID {
			result = append(result, f.messages[i])
		}
	}
	return result, nil
}

type fakeBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{revoked: make(map[string]time.Time)}
}

func (f *fakeBlacklist) Add(_ context.Context, jti string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[jti] = expiresAt
	return nil
}

func (f *fakeBlacklist) Contains(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	expires, ok := f.revoked[jti]
	return ok && expires.After(time.Now()), nil
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []models.Message
}

func (f *fakeBroadcaster) Broadcast(_ string, message models.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, message)
}

func (f *fakeBroadcaster) sent() []models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Message(nil), f.events...)
}
