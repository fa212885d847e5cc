package model

import "errors"

// Sentinels shared by the store, service and transport layers. Match them
// with errors.Is; the HTTP layer maps them onto 404 and 400.
var (
	// ErrNotFound covers missing memos and tags as well as ids that do not parse.
	ErrNotFound = errors.New("not found")
	// ErrValidation is wrapped by every rejected memo form.
	ErrValidation = errors.New("validation error")
)
