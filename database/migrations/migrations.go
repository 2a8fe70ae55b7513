// Package migrations contains all schema migration files. Each file
// registers itself via init(); the package is imported blank by
// cmd/roadassist/main.go so the registry is populated at CLI startup.
package migrations
