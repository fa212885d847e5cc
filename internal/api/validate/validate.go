package validate

import (
	"strings"
	"unicode/utf8"

	"github.com/snowman-se/bad-memo-app/internal/model"
)

// TitleMaxLen is the maximum memo title length in characters.
const TitleMaxLen = 120

// QueryMaxLen bounds the free-text search query after normalization.
const QueryMaxLen = 200

// Messages surfaced to the user on validation failure.
const (
	MsgTitleRequired = "title is required"
	MsgTitleTooLong  = "title too long"
)

// Error is a validation failure carrying the message shown to the user.
// It matches model.ErrValidation with errors.Is.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return model.ErrValidation }

func fail(field, msg string) error { return &Error{Field: field, Message: msg} }

// Title validates an already-trimmed title: non-empty and at most
// TitleMaxLen characters.
func Title(v string) error {
	if v == "" {
		return fail("title", MsgTitleRequired)
	}
	if utf8.RuneCountInString(v) > TitleMaxLen {
		return fail("title", MsgTitleTooLong)
	}
	return nil
}

// MemoForm normalizes the submitted memo fields and validates them.
// The title is trimmed; body is kept verbatim apart from model.CleanText.
func MemoForm(title, body string) (string, string, error) {
	title = strings.TrimSpace(model.CleanText(title))
	body = model.CleanText(body)
	if err := Title(title); err != nil {
		return title, body, err
	}
	return title, body, nil
}

// Query normalizes a free-text search query: surrounding whitespace is
// trimmed, inner whitespace runs collapse to one space and the result is cut
// to QueryMaxLen characters. NUL bytes and invalid UTF-8 are mapped the same
// way stored text is. It never fails; any text is a valid query.
func Query(q string) string {
	q = strings.Join(strings.Fields(model.CleanText(q)), " ")
	if utf8.RuneCountInString(q) > QueryMaxLen {
		q = string([]rune(q)[:QueryMaxLen])
	}
	return q
}
