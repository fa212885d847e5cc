package sqlstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/snowman-se/bad-memo-app/internal/model"
)

var testDialect = Dialect{Name: "test", LikeOp: "LIKE"}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% done`, escapeLike("100% done"))
	assert.Equal(t, `snake\_case`, escapeLike("snake_case"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
	assert.Equal(t, `' OR '1'='1`, escapeLike(`' OR '1'='1`))
}

func TestBuildFilter_BindsUserInput(t *testing.T) {
	hostile := "'; DROP TABLE memos; --"
	f := buildFilter(testDialect, model.ListQuery{Query: hostile, Tag: "o'neil"})

	assert.NotContains(t, f.where, "DROP")
	assert.NotContains(t, f.where, "o'neil")
	assert.Equal(t, 3, strings.Count(f.where, "?"))
	assert.Equal(t, []any{"%" + hostile + "%", "%" + hostile + "%", "o'neil"}, f.args)
}

func TestBuildFilter_NulCannotTruncatePattern(t *testing.T) {
	f := buildFilter(testDialect, model.ListQuery{Query: "\x00", Tag: "a\xffb"})
	assert.Equal(t, []any{"%\uFFFD%", "%\uFFFD%", "a\uFFFDb"}, f.args)
}

func TestBuildFilter_Empty(t *testing.T) {
	f := buildFilter(testDialect, model.ListQuery{})
	assert.Empty(t, f.where)
	assert.Empty(t, f.args)
	assert.Equal(t, "SELECT COUNT(*) FROM memos m", countQuery(testDialect, f))
}

func TestOrderBy_Whitelist(t *testing.T) {
	assert.Contains(t, orderBy("new"), "created_at DESC")
	assert.Contains(t, orderBy("old"), "created_at ASC")
	assert.Contains(t, orderBy("title"), "m.title ASC")
	assert.Equal(t, orderBy("new"), orderBy("title; DROP TABLE memos"))
}

func TestPageQuery_NumberedParams(t *testing.T) {
	d := Dialect{NumberedParams: true, LikeOp: "ILIKE"}
	f := buildFilter(d, model.ListQuery{Query: "x", Tag: "y"})
	q := pageQuery(d, f, "new")
	assert.Contains(t, q, "m.title ILIKE $1")
	assert.Contains(t, q, "m.body ILIKE $2")
	assert.Contains(t, q, "mt.tag_name = $3")
	assert.True(t, strings.HasSuffix(q, "LIMIT $4 OFFSET $5"), q)
}

func TestInClause(t *testing.T) {
	assert.Equal(t, "(?)", inClause(1))
	assert.Equal(t, "(?, ?, ?)", inClause(3))
	assert.Equal(t, "(NULL)", inClause(0))
}
