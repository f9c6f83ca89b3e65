package store

import (
	"errors"
	"net/mail"
	"net/url"
	"regexp"
)

var (
	// ErrPasswordTooShort is returned when a password is under 6 characters.
	ErrPasswordTooShort = errors.New("password is too short")

	// ErrUsernameTooShort is returned when a username is under 3 characters.
	ErrUsernameTooShort = errors.New("username is too short")

	// ErrUsernameInvalid is returned when a username contains anything
	// beyond letters and digits.
	ErrUsernameInvalid = errors.New("username must be alphanumeric with no spaces")

	// ErrEmailInvalid is returned when an email fails syntax validation.
	ErrEmailInvalid = errors.New("email is not valid")

	// ErrURLInvalid is returned when a bookmark URL is empty or malformed.
	ErrURLInvalid = errors.New("url is not valid")

	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// ValidatePassword checks minimum password length. Strength policy beyond
// length is out of scope.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidateUsername checks length first, then charset, so callers surface the
// more specific error.
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return ErrUsernameTooShort
	}
	if !usernameRe.MatchString(username) {
		return ErrUsernameInvalid
	}
	return nil
}

// ValidateEmail checks email syntax. mail.ParseAddress accepts display-name
// forms like "Bob <b@x.com>", so require the parsed address to round-trip.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrEmailInvalid
	}
	return nil
}

// ValidateURL checks that a bookmark URL is an absolute http(s) URL.
// It does NOT check uniqueness — that is handled at the database layer via
// the unique index on bookmarks.url.
func ValidateURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return ErrURLInvalid
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrURLInvalid
	}
	if u.Host == "" {
		return ErrURLInvalid
	}
	return nil
}
