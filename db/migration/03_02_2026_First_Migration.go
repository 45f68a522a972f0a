package migration

import "github.com/gocql/gocql"

type FirstMigration struct{}

func (m FirstMigration) Name() string {
	return "03_02_2026_First_Migration"
}

func (m FirstMigration) Up(session *gocql.Session) error {
	return execAll(session, []string{
		// ------------------------------------------------------------
		// 0. Migration journal
		// ------------------------------------------------------------
		`CREATE TABLE IF NOT EXISTS migrations_applied (
            name TEXT PRIMARY KEY,
            applied_at TIMESTAMP
        );`,

		// ------------------------------------------------------------
		// 1. Users
		// ------------------------------------------------------------
		`CREATE TABLE IF NOT EXISTS users (
            id         UUID    PRIMARY KEY,
            email      TEXT,
            username   TEXT,
            password   TEXT,
            avatar     TEXT,
            created_at TIMESTAMP
        );`,

		// Write-time lookup tables. Their partition key is the unique value,
		// claimed with INSERT ... IF NOT EXISTS.
		`CREATE TABLE IF NOT EXISTS users_by_email (
            email      TEXT,
            id         UUID,
            username   TEXT,
            PRIMARY KEY ((email))
        );`,

		`CREATE TABLE IF NOT EXISTS users_by_username (
            username   TEXT,
            id         UUID,
            avatar     TEXT,
            PRIMARY KEY ((username))
        );`,
	})
}
