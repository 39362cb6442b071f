package value

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_PreservesNumberLiterals(t *testing.T) {
	v, err := Decode(strings.NewReader(`{"i": 1, "f": 1.0, "e": 2e3}`))
	require.NoError(t, err)

	obj, ok := v.(Object)
	require.True(t, ok)
	assert.Equal(t, Number("1"), obj["i"])
	assert.Equal(t, Number("1.0"), obj["f"])
	assert.Equal(t, Number("2e3"), obj["e"])
	assert.True(t, obj["i"].(Number).IsInteger())
	assert.False(t, obj["f"].(Number).IsInteger())
}

func TestDecode_AllKinds(t *testing.T) {
	v, err := Decode(strings.NewReader(`[null, true, "s", 3, [], {}]`))
	require.NoError(t, err)

	assert.Equal(t, Array{Null{}, Bool(true), String("s"), Number("3"), Array{}, Object{}}, v)
}

func TestDecode_RejectsTrailingData(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"a": 1} {"b": 2}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidJSON))
	assert.Contains(t, err.Error(), "trailing data")
}

func TestDecode_RejectsMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"a": `))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidJSON))
}

func TestDecode_RejectsEmpty(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidJSON))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"actions": []}`+"\n"), 0o644))

	v, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Object{"actions": Array{}}, v)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, errors.Is(err, ErrInvalidJSON))
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"a": []any{1, int64(2), 2.5, 3.0, nil},
		"b": "x",
	})
	require.NoError(t, err)

	assert.Equal(t, Object{
		"a": Array{Number("1"), Number("2"), Number("2.5"), Number("3.0"), Null{}},
		"b": String("x"),
	}, v)
}

func TestFromAny_Unsupported(t *testing.T) {
	_, err := FromAny(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `["ch"]`)
}
