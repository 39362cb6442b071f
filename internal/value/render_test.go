package value

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null{}, "null"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"number literal kept", Number("1.50"), "1.50"},
		{"string", String("a\"b"), `"a\"b"`},
		{"no html escaping", String("<a&b>"), `"<a&b>"`},
		{"array", Array{Number("1"), String("x")}, `[1,"x"]`},
		{"sorted object", Object{"b": Number("2"), "a": Number("1")}, `{"a":1,"b":2}`},
		{"nested", Object{"p": Object{"ids": Array{}}}, `{"p":{"ids":[]}}`},
		{"absent", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.v))
		})
	}
}

func TestRender_Deterministic(t *testing.T) {
	obj := Object{}
	for _, k := range strings.Split("q w e r t y u i o p", " ") {
		obj[k] = String(k)
	}

	first := Render(obj)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Render(obj))
	}
}

func TestRenderKeys(t *testing.T) {
	assert.Equal(t, `["a","b"]`, RenderKeys([]string{"a", "b"}))
	assert.Equal(t, `[]`, RenderKeys(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab", Truncate("ab", 3))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "éé", Truncate("ééé", 2), "counts characters, not bytes")
	assert.Equal(t, "abc", Truncate("abc", -1))
}
