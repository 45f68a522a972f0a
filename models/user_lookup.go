package models

import "github.com/gocql/gocql"

// Lookup rows written next to users in Scylla. Their partition keys are what
// makes username and email unique (claimed with IF NOT EXISTS).

type UserByEmail struct {
	Email    string     `json:"email"`
	ID       gocql.UUID `json:"id"`
	Username string     `json:"username"`
}

type UserByUsername struct {
	Username string     `json:"username"`
	ID       gocql.UUID `json:"id"`
	Avatar   string     `json:"avatar"`
}
