package handlers

import (
	"context"
	"sync"
	"time"

	"helpdesk/api/internal/models"
	"helpdesk/api/internal/repository"
)

// Minimal in-memory stores for exercising the HTTP surface without postgres
// or redis.

type memAccounts struct {
	mu   sync.Mutex
	rows map[string]models.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{rows: make(map[string]models.Account)}
}

func (m *memAccounts) Create(_ context.Context, account models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.Email == account.Email {
			return repository.ErrEmailTaken
		}
	}
	m.rows[account.ID] = account
	return nil
}

func (m *memAccounts) FindByEmail(_ context.Context, email string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.rows {
		if account.Email == email {
			return account, nil
		}
	}
	return models.Account{}, repository.ErrAccountNotFound
}

func (m *memAccounts) GetByID(_ context.Context, id string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.rows[id]
	if !ok {
		return models.Account{}, repository.ErrAccountNotFound
	}
	return account, nil
}

func (m *memAccounts) ListByRole(_ context.Context, role models.Role) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var accounts []models.Account
	for _, account := range m.rows {
		if account.Role == role {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (m *memAccounts) UpdateProfile(_ context.Context, account models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.rows[account.ID]
	if !ok {
		return repository.ErrAccountNotFound
	}
	existing.FirstName = account.FirstName
	existing.LastName = account.LastName
	existing.Role = account.Role
	existing.Active = account.Active
	m.rows[account.ID] = existing
	return nil
}

type memCategories struct {
	mu   sync.Mutex
	rows map[string]models.Category
}

func newMemCategories() *memCategories {
	return &memCategories{rows: make(map[string]models.Category)}
}

func (m *memCategories) Create(_ context.Context, category models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.rows[category.ID] = category
	return nil
}

func (m *memCategories) Update(_ context.Context, category models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[category.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	m.rows[category.ID] = category
	return nil
}

func (m *memCategories) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memCategories) GetByID(_ context.Context, id string) (models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.rows[id]
	if !ok {
		return models.Category{}, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (m *memCategories) ListAll(_ context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var categories []models.Category
	for _, category := range m.rows {
		categories = append(categories, category)
	}
	return categories, nil
}

func (m *memCategories) hasChildren(id string) bool {
	for _, category := range m.rows {
		if category.ParentID != nil && *category.ParentID == id {
			return true
		}
	}
	return false
}

func (m *memCategories) ListParents(_ context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var parents []models.Category
	for _, category := range m.rows {
		if m.hasChildren(category.ID) {
			parents = append(parents, category)
		}
	}
	return parents, nil
}

func (m *memCategories) ListLeaves(_ context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var leaves []models.Category
	for _, category := range m.rows {
		if !m.hasChildren(category.ID) {
			leaves = append(leaves, category)
		}
	}
	return leaves, nil
}

type memChats struct {
	mu           sync.Mutex
	byCategory   map[string]models.Chat
	participants map[string]map[string]struct{}
}

func newMemChats() *memChats {
	return &memChats{
		byCategory:   make(map[string]models.Chat),
		participants: make(map[string]map[string]struct{}),
	}
}

func (m *memChats) EnsureForCategory(_ context.Context, chatID string, categoryID string) (models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if chat, ok := m.byCategory[categoryID]; ok {
		return chat, nil
	}
	chat := models.Chat{ID: chatID, CategoryID: categoryID, CreatedAt: time.Now()}
	m.byCategory[categoryID] = chat
	return chat, nil
}

func (m *memChats) AddParticipant(_ context.Context, chatID string, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	members, ok := m.participants[chatID]
	if !ok {
		members = make(map[string]struct{})
		m.participants[chatID] = members
	}
	members[accountID] = struct{}{}
	return nil
}

func (m *memChats) IsParticipant(_ context.Context, chatID string, accountID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.participants[chatID][accountID]
	return ok, nil
}

type memMessages struct {
	mu    sync.Mutex
	rows  []models.Message
	clock time.Time
}

func newMemMessages() *memMessages {
	return &memMessages{clock: time.Now()}
}

func (m *memMessages) Create(_ context.Context, message models.Message) (models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Millisecond)
	message.CreatedAt = m.clock
	m.rows = append(m.rows, message)
	return message, nil
}

func (m *memMessages) ListByCategory(_ context.Context, categoryID string) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Message
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].CategoryID == categoryID {
			result = append(result, m.rows[i])
		}
	}
	return result, nil
}

type memBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemBlacklist() *memBlacklist {
	return &memBlacklist{revoked: make(map[string]time.Time)}
}

func (m *memBlacklist) Add(_ context.Context, jti string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = expiresAt
	return nil
}

func (m *memBlacklist) Contains(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expires, ok := m.revoked[jti]
	return ok && expires.After(time.Now()), nil
}
