package store

import (
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type kvRecord struct {
	K string `gorm:"primaryKey;column:k;size:191"`
	V string `gorm:"column:v;type:text"`
}

func (kvRecord) TableName() string { return "kv_records" }

// SQLiteKV is the on-device durable KV. Every Set is a committed upsert, so
// the snapshot on disk is never more than one operation behind memory.
type SQLiteKV struct {
	db *gorm.DB
}

func OpenSQLiteKV(path string) (*SQLiteKV, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&kvRecord{}); err != nil {
		return nil, err
	}
	return &SQLiteKV{db: db}, nil
}

func (s *SQLiteKV) Get(key string) (string, bool) {
	var rec kvRecord
	if err := s.db.Where("k = ?", key).Take(&rec).Error; err != nil {
		return "", false
	}
	return rec.V, true
}

func (s *SQLiteKV) Set(key, value string) error {
	rec := kvRecord{K: key, V: value}
	return s.db.Save(&rec).Error
}

func (s *SQLiteKV) Remove(key string) error {
	return s.db.Where("k = ?", key).Delete(&kvRecord{}).Error
}

func (s *SQLiteKV) Keys() []string {
	var keys []string
	s.db.Model(&kvRecord{}).Order("k ASC").Pluck("k", &keys)
	return keys
}
