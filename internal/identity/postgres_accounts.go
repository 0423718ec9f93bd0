package identity

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// PostgresAccountStore persists accounts through gorm
type PostgresAccountStore struct {
	db *gorm.DB
}

// NewPostgresAccountStore wires the store to a gorm handle and migrates
// its table
func NewPostgresAccountStore(db *gorm.DB) (*PostgresAccountStore, error) {
	if err := db.AutoMigrate(&Account{}); err != nil {
		return nil, fmt.Errorf("failed to migrate accounts table: %w", err)
	}
	return &PostgresAccountStore{db: db}, nil
}

func (s *PostgresAccountStore) Create(ctx context.Context, account *Account) error {
	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (s *PostgresAccountStore) GetByUID(ctx context.Context, uid string) (*Account, error) {
	var account Account
	err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (s *PostgresAccountStore) GetByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return &account, nil
}

func (s *PostgresAccountStore) GetByGoogleSubject(ctx context.Context, subject string) (*Account, error) {
	var account Account
	err := s.db.WithContext(ctx).Where("google_subject = ?", subject).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by subject: %w", err)
	}
	return &account, nil
}

func (s *PostgresAccountStore) Update(ctx context.Context, account *Account) error {
	if err := s.db.WithContext(ctx).Save(account).Error; err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

func (s *PostgresAccountStore) Delete(ctx context.Context, uid string) error {
	if err := s.db.WithContext(ctx).Where("uid = ?", uid).Delete(&Account{}).Error; err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
