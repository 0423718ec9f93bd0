package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrAccountNotFound is returned by AccountStore lookups that miss
var ErrAccountNotFound = errors.New("account not found")

// Account is the identity backend's own user record, separate from the
// app-level UserProfile document.
type Account struct {
	UID           string `gorm:"type:varchar(64);primaryKey"`
	Email         string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash  string `gorm:"type:text"` // empty for federated-only accounts
	ProviderIDs   string `gorm:"type:varchar(255);not null"`
	GoogleSubject string `gorm:"type:varchar(128);index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Account) TableName() string {
	return "auth_accounts"
}

// Providers returns the provider ids attached to the account
func (a *Account) Providers() []string {
	if a.ProviderIDs == "" {
		return nil
	}
	return strings.Split(a.ProviderIDs, ",")
}

// AddProvider attaches a provider id if not already present
func (a *Account) AddProvider(id ProviderKind) {
	for _, p := range a.Providers() {
		if p == string(id) {
			return
		}
	}
	if a.ProviderIDs == "" {
		a.ProviderIDs = string(id)
		return
	}
	a.ProviderIDs += "," + string(id)
}

// AccountStore persists identity accounts
type AccountStore interface {
	Create(ctx context.Context, account *Account) error
	GetByUID(ctx context.Context, uid string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByGoogleSubject(ctx context.Context, subject string) (*Account, error)
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, uid string) error
}

// MemoryAccountStore is the in-process AccountStore used by tests
type MemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account // keyed by UID
}

// NewMemoryAccountStore creates an empty in-memory account store
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{accounts: make(map[string]*Account)}
}

func (m *MemoryAccountStore) Create(ctx context.Context, account *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *account
	m.accounts[account.UID] = &cp
	return nil
}

func (m *MemoryAccountStore) GetByUID(ctx context.Context, uid string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[uid]
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

func (m *MemoryAccountStore) GetByEmail(ctx context.Context, email string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, account := range m.accounts {
		if account.Email == email {
			cp := *account
			return &cp, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (m *MemoryAccountStore) GetByGoogleSubject(ctx context.Context, subject string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, account := range m.accounts {
		if account.GoogleSubject != "" && account.GoogleSubject == subject {
			cp := *account
			return &cp, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (m *MemoryAccountStore) Update(ctx context.Context, account *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[account.UID]; !ok {
		return ErrAccountNotFound
	}
	cp := *account
	m.accounts[account.UID] = &cp
	return nil
}

func (m *MemoryAccountStore) Delete(ctx context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.accounts, uid)
	return nil
}
