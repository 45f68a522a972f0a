package migration

import "github.com/gocql/gocql"

// SecondMigration adds the public profile columns shown on the channel page.
type SecondMigration struct{}

func (m SecondMigration) Name() string {
	return "17_02_2026_Add_Profile_Fields"
}

func (m SecondMigration) Up(session *gocql.Session) error {
	return execAll(session, []string{
		`ALTER TABLE users ADD fullname TEXT;`,
		`ALTER TABLE users ADD cover_image TEXT;`,
	})
}
