package migration

import "github.com/gocql/gocql"

// ThirdMigration keeps the last refresh token issued at login on the user row.
type ThirdMigration struct{}

func (m ThirdMigration) Name() string {
	return "02_03_2026_Add_Refresh_Token"
}

func (m ThirdMigration) Up(session *gocql.Session) error {
	return execAll(session, []string{
		`ALTER TABLE users ADD refresh_token TEXT;`,
	})
}
