package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: []string{}},
		{name: "only separators", raw: " , ,,", want: []string{}},
		{name: "trim and lower", raw: " Go , SQL", want: []string{"go", "sql"}},
		{name: "dedupe keeps first", raw: "work,Work, WORK ,home", want: []string{"work", "home"}},
		{name: "inner spaces kept", raw: "to do,later", want: []string{"to do", "later"}},
		{name: "quotes are data", raw: "a'b,c;d", want: []string{"a'b", "c;d"}},
		{name: "nul and invalid bytes", raw: "a\x00b,\xff", want: []string{"a\uFFFDb", "\uFFFD"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

func TestJoinRoundTrip(t *testing.T) {
	names := Parse("b, a ,b")
	assert.Equal(t, "b,a", Join(names))
	assert.Equal(t, names, Parse(Join(names)))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "work", Normalize(" Work "))
	assert.Equal(t, "\uFFFD", Normalize("\x00"))
	assert.Equal(t, "caf\uFFFD", Normalize("CAF\xc3"))
}
