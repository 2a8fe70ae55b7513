// Package migration tracks and runs schema migrations.
//
// Each migration file in database/migrations registers itself via
// init(), e.g.:
//
//	func init() {
//	    migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
//	}
//
// The CLI drives the runner: `roadassist migrate`, `migrate:rollback`,
// `migrate:status`.
package migration

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/roadassist/roadassist/pkg/logger"
)

// Migration is implemented by every schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "roadassist_migrations" }

type registered struct {
	name string
	m    Migration
}

var registry []registered

// Register adds a migration under a timestamp-prefixed name; names sort
// lexicographically, which fixes the run order.
func Register(name string, m Migration) {
	registry = append(registry, registered{name: name, m: m})
}

// Runner executes and tracks migrations against one database.
type Runner struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Runner { return &Runner{db: db} }

func (r *Runner) ensureTable() error {
	return r.db.AutoMigrate(&record{})
}

func (r *Runner) pending() ([]registered, error) {
	var ran []record
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}
	ranSet := make(map[string]bool, len(ran))
	for _, rec := range ran {
		ranSet[rec.Name] = true
	}

	var out []registered
	for _, reg := range registry {
		if !ranSet[reg.name] {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out, nil
}

// Run applies all pending migrations as one batch.
func (r *Runner) Run() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	pending, err := r.pending()
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}
	if len(pending) == 0 {
		fmt.Println("Nothing to migrate.")
		return nil
	}

	batch := r.nextBatch()
	for _, reg := range pending {
		logger.Info("migration running", "name", reg.name)
		if err := reg.m.Up(r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", reg.name, err)
		}
		if err := r.db.Create(&record{Name: reg.name, Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}
		fmt.Printf("  migrated: %s\n", reg.name)
	}

	logger.Info("migration done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses every migration in the most recent batch.
func (r *Runner) Rollback() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	last := r.lastBatch()
	if last == 0 {
		fmt.Println("Nothing to roll back.")
		return nil
	}

	var records []record
	if err := r.db.Where("batch = ?", last).Order("id desc").Find(&records).Error; err != nil {
		return err
	}

	regMap := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		regMap[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := regMap[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}
		logger.Info("migration rolling back", "name", rec.Name)
		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&rec).Error; err != nil {
			return err
		}
		fmt.Printf("  rolled back: %s\n", rec.Name)
	}
	return nil
}

// Status prints each registered migration and whether it has run.
func (r *Runner) Status() error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	var ran []record
	if err := r.db.Find(&ran).Error; err != nil {
		return err
	}
	ranMap := make(map[string]record, len(ran))
	for _, rec := range ran {
		ranMap[rec.Name] = rec
	}

	fmt.Printf("%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	for _, reg := range registry {
		if rec, ok := ranMap[reg.name]; ok {
			fmt.Printf("%-60s  %-8s  %d\n", reg.name, "ran", rec.Batch)
		} else {
			fmt.Printf("%-60s  %-8s  -\n", reg.name, "pending")
		}
	}
	return nil
}

func (r *Runner) nextBatch() int { return r.lastBatch() + 1 }

func (r *Runner) lastBatch() int {
	var max struct{ Max int }
	r.db.Model(&record{}).Select("MAX(batch) as max").Scan(&max)
	return max.Max
}
