package gormstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-repair-ledger/internal/store"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Record is the single table every collection shares: one row per engine row,
// cells JSON-encoded. Keeping the schema collection-agnostic means the SQL
// backend and the spreadsheet backend stay interchangeable.
type Record struct {
	ID         uint   `gorm:"primaryKey"`
	Collection string `gorm:"size:64;uniqueIndex:idx_collection_row,priority:1"`
	RowID      int    `gorm:"uniqueIndex:idx_collection_row,priority:2"`
	Cells      string
}

// Store is the SQL-backed implementation of store.Store.
type Store struct {
	db *gorm.DB
}

// Open connects to MySQL when DB_DSN is set, otherwise to a local sqlite file
// at DB_PATH (default ./data/shop.db). The MySQL path waits for the database
// to come up before giving up.
func Open() (*Store, error) {
	var (
		db  *gorm.DB
		err error
	)

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		for i := 0; i < 5; i++ {
			db, err = gorm.Open(mysql.Open(dsn), cfg)
			if err == nil {
				break
			}
			log.WithField("attempt", i+1).Warn("database not ready, retrying in 2s")
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			return nil, fmt.Errorf("connecting to mysql: %w", err)
		}
	} else {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "./data/shop.db"
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
		db, err = gorm.Open(sqlite.Open(path), cfg)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite at %s: %w", path, err)
		}
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrating records table: %w", err)
	}

	log.Info("sql store ready")
	return &Store{db: db}, nil
}

// ReadAll returns the collection's rows ordered by row id.
func (s *Store) ReadAll(ctx context.Context, collection string) ([]store.Row, error) {
	var records []Record
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("row_id asc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", collection, err)
	}

	rows := make([]store.Row, 0, len(records))
	for _, rec := range records {
		row := store.Row{}
		if err := json.Unmarshal([]byte(rec.Cells), &row); err != nil {
			return nil, fmt.Errorf("decoding %s row %d: %w", collection, rec.RowID, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteAll replaces the collection inside one SQL transaction.
func (s *Store) WriteAll(ctx context.Context, collection string, rows []store.Row) error {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encoding %s row: %w", collection, err)
		}
		records = append(records, Record{
			Collection: collection,
			RowID:      row.Int("id"),
			Cells:      string(cells),
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", collection).Delete(&Record{}).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", collection, err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("writing %s: %w", collection, err)
		}
		return nil
	})
}

// NextID returns max(row_id)+1 for the collection, or 1 when empty.
func (s *Store) NextID(ctx context.Context, collection string) (int, error) {
	var max int
	err := s.db.WithContext(ctx).Model(&Record{}).
		Where("collection = ?", collection).
		Select("COALESCE(MAX(row_id), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("next id for %s: %w", collection, err)
	}
	return max + 1, nil
}
