package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialect_Rebind(t *testing.T) {
	got := Dialect.Rebind(`UPDATE memos SET title = ?, body = ? WHERE id = ?`)
	assert.Equal(t, `UPDATE memos SET title = $1, body = $2 WHERE id = $3`, got)
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
