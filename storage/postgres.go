package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is one row of the path-keyed JSON tree.
type Document struct {
	Path      string `gorm:"primaryKey"`
	Data      string `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

// PostgresStore keeps documents in a single jsonb-valued table.
type PostgresStore struct {
	DB *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) Get(ctx context.Context, path string, out interface{}) error {
	var doc Document
	err := s.DB.WithContext(ctx).First(&doc, "path = ?", path).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(doc.Data), out)
}

func (s *PostgresStore) Set(ctx context.Context, path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	doc := Document{Path: path, Data: string(data), UpdatedAt: time.Now()}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		UpdateAll: true,
	}).Create(&doc).Error
}

func (s *PostgresStore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	var current map[string]interface{}
	if err := s.Get(ctx, path, &current); err != nil {
		return err
	}
	for k, v := range fields {
		current[k] = v
	}
	return s.Set(ctx, path, current)
}

func (s *PostgresStore) Delete(ctx context.Context, path string) error {
	return s.DB.WithContext(ctx).Delete(&Document{}, "path = ?", path).Error
}

func (s *PostgresStore) List(ctx context.Context, prefix string) (map[string]json.RawMessage, error) {
	prefix = strings.TrimSuffix(prefix, "/")
	var docs []Document
	err := s.DB.WithContext(ctx).
		Where("path LIKE ?", prefix+"/%").
		Order("updated_at ASC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(docs))
	for _, doc := range docs {
		key := strings.TrimPrefix(doc.Path, prefix+"/")
		if strings.Contains(key, "/") {
			// Only direct children belong to the listing.
			continue
		}
		out[key] = json.RawMessage(doc.Data)
	}
	return out, nil
}
