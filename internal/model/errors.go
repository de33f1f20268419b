package model

import "errors"

// Common errors used across the application
var (
	// Registry errors
	ErrPlayerNotFound      = errors.New("player not found")
	ErrInvalidRegistration = errors.New("invalid registration")

	// Roster errors
	ErrRosterNotArray    = errors.New("roster is not a JSON array")
	ErrRosterMissing     = errors.New("response has no player roster")
	ErrRosterNotEmbedded = errors.New("page has no embedded roster")
)
