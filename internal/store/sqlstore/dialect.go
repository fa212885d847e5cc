package sqlstore

import (
	"strconv"
	"strings"
	"time"
)

// Dialect captures the few places where the memo schema differs between
// SQL engines. Statements in this package are written with '?' placeholders
// and rebound per dialect.
type Dialect struct {
	Name string
	// NumberedParams selects $1, $2, ... placeholders instead of '?'.
	NumberedParams bool
	// LikeOp is the substring-match operator (LIKE or ILIKE).
	LikeOp string
	// TimeValue converts a timestamp into the driver value stored in created_at.
	TimeValue func(time.Time) any
}

// Rebind rewrites '?' placeholders for the dialect.
func (d Dialect) Rebind(query string) string {
	if !d.NumberedParams {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (d Dialect) timeValue(t time.Time) any {
	if d.TimeValue == nil {
		return t
	}
	return d.TimeValue(t)
}
