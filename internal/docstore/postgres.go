package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// documentRow is one stored document. The collection path and document id
// form the key; the snake_case field map lives in the JSONB column.
type documentRow struct {
	Collection string         `gorm:"type:varchar(500);primaryKey"`
	DocID      string         `gorm:"type:varchar(64);primaryKey"`
	Data       datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time      `gorm:"index"`
}

func (documentRow) TableName() string {
	return "documents"
}

// PostgresStore implements Store on a single JSONB-backed table
type PostgresStore struct {
	db *gorm.DB
}

var orderFieldPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// NewPostgresStore wires the store to a gorm handle and migrates its table
func NewPostgresStore(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Create writes a document at an explicit id, strictly
func (s *PostgresStore) Create(ctx context.Context, path, id string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	row := documentRow{Collection: path, DocID: id, Data: raw}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%s/%s: %w", path, id, ErrConflict)
		}
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// Get retrieves one document
func (s *PostgresStore) Get(ctx context.Context, path, id string) (map[string]any, error) {
	var row documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", path, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s/%s: %w", path, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return unmarshalData(row.Data)
}

// Add appends a document with a generated id
func (s *PostgresStore) Add(ctx context.Context, path string, data map[string]any) (string, error) {
	id := uuid.NewString()
	if err := s.Create(ctx, path, id, data); err != nil {
		return "", err
	}
	return id, nil
}

// Update merges fields into an existing document via jsonb concatenation
func (s *PostgresStore) Update(ctx context.Context, path, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}

	res := s.db.WithContext(ctx).
		Model(&documentRow{}).
		Where("collection = ? AND doc_id = ?", path, id).
		Update("data", gorm.Expr("data || ?::jsonb", string(raw)))
	if res.Error != nil {
		return fmt.Errorf("failed to update document: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s/%s: %w", path, id, ErrNotFound)
	}
	return nil
}

// Delete removes a document; absent ids are a no-op
func (s *PostgresStore) Delete(ctx context.Context, path, id string) error {
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", path, id).
		Delete(&documentRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Query lists a collection, ascending by orderBy when given. Ordering works
// on the raw JSON string values, which is correct for the fixed-width
// timestamp encoding the codec produces.
func (s *PostgresStore) Query(ctx context.Context, path, orderBy string) ([]Document, error) {
	query := s.db.WithContext(ctx).Where("collection = ?", path)
	if orderBy != "" {
		if !orderFieldPattern.MatchString(orderBy) {
			return nil, fmt.Errorf("invalid order field: %s", orderBy)
		}
		query = query.Order(fmt.Sprintf("data->>'%s' ASC", orderBy))
	} else {
		query = query.Order("created_at ASC")
	}

	var rows []documentRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", path, err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		data, err := unmarshalData(row.Data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: row.DocID, Data: data})
	}
	return docs, nil
}

func unmarshalData(raw datatypes.JSON) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return data, nil
}
