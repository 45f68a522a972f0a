package migration

import "github.com/gocql/gocql"

type Migration interface {
	Name() string
	Up(session *gocql.Session) error
}

// AllMigrations is applied in order; never reorder or rename an entry once
// it has shipped.
var AllMigrations = []Migration{
	FirstMigration{},
	SecondMigration{},
	ThirdMigration{},
}

func execAll(session *gocql.Session, cql []string) error {
	for _, q := range cql {
		if err := session.Query(q).Exec(); err != nil {
			return err
		}
	}
	return nil
}
