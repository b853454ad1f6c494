package views

import "errors"

var (
	ErrNotSignedIn        = errors.New("login required")
	ErrAdminRequired      = errors.New("admin access required")
	ErrInvalidState       = errors.New("action not available in the current state")
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrDecisionInFlight   = errors.New("decision already in progress for this application")
	ErrNotPending         = errors.New("application is not pending")
)
