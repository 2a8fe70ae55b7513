// Package orm is a thin chainable wrapper over gorm with first-class
// pagination and cached reads. Repositories build queries through it so the
// underlying *gorm.DB never leaks into the service layer.
package orm

import (
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/roadassist/roadassist/pkg/cache"
)

// Pagination describes one page of a collection.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query wraps a gorm statement. Every chaining method returns a new Query,
// so a partially built query can be reused safely.
type Query struct {
	db *gorm.DB
}

// New wraps an injected *gorm.DB. Repositories receive their handle at
// construction; nothing reads a process-wide database global.
func New(db *gorm.DB) *Query {
	return &Query{db: db}
}

// Gorm exposes the underlying handle for the rare operation the wrapper
// does not cover (migrations, raw SQL).
func (q *Query) Gorm() *gorm.DB { return q.db }

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Joins(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Joins(query, args...)}
}

// Find loads all matching rows into dest.
func (q *Query) Find(dest interface{}) error {
	return q.db.Find(dest).Error
}

// First loads the first matching row; gorm.ErrRecordNotFound when absent.
func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

// Count stores the number of matching rows in n.
func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

// Create persists a new record.
func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

// Save persists all fields of an existing record.
func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

// Delete removes matching rows.
func (q *Query) Delete(v interface{}) error {
	return q.db.Delete(v).Error
}

// UpdateColumns applies values to every matching row and returns the number
// of rows changed. A zero count means the WHERE clause matched nothing —
// callers use this for conditional state transitions instead of
// read-then-write.
func (q *Query) UpdateColumns(values map[string]interface{}) (int64, error) {
	tx := q.db.Updates(values)
	return tx.RowsAffected, tx.Error
}

// GetWithPagination loads one page of results into dest and returns the
// counters. Page numbers are 1-based; limit is clamped to [1, MaxLimit].
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	offset := (page - 1) * limit
	if err := q.db.Limit(limit).Offset(offset).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// Remember serves dest from the cache store under key, falling back to the
// database and populating the cache on a miss.
func (q *Query) Remember(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	_ = cache.Set(key, dest, ttl)
	return nil
}
