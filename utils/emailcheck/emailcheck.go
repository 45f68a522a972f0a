// Package emailcheck rejects sign-up addresses from throwaway mail providers.
//
// github.com/disposable/disposable loads domains.txt from the working
// directory when the program starts and panics without it, so only main (and
// this package's tests) import emailcheck. Everything else receives Check as
// a plain func.
package emailcheck

import (
	"errors"
	"strings"

	"github.com/disposable/disposable"
)

var (
	ErrAlias      = errors.New("email addresses with an alias ('+') are not allowed")
	ErrMalformed  = errors.New("email address is missing a domain")
	ErrDisposable = errors.New("disposable email addresses are not allowed")
)

// Check rejects aliased, malformed and disposable addresses.
func Check(email string) error {
	if strings.Contains(email, "+") {
		return ErrAlias
	}

	atIndex := strings.LastIndex(email, "@")
	if atIndex == -1 || atIndex == len(email)-1 {
		return ErrMalformed
	}

	if disposable.Domain(strings.ToLower(email[atIndex+1:])) {
		return ErrDisposable
	}
	return nil
}
