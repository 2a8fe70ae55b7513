// Package seeders holds the registry of database seed functions, run
// via `roadassist seed`.
package seeders

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// SeederFunc is the signature for a seed function.
type SeederFunc func(db *gorm.DB) error

type entry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []entry
)

// Register adds a seeder; call from init() in seeder files.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, entry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order,
// stopping on the first error.
func RunAll(db *gorm.DB) error {
	mu.Lock()
	current := make([]entry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Println("  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Printf("  running seeder: %s … ", e.name)
		if err := e.fn(db); err != nil {
			fmt.Println("FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Println("done")
	}
	return nil
}
