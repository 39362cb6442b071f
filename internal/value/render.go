package value

import (
	"bytes"
	"encoding/json"
)

// Render produces compact JSON text for diagnostics.
// Object keys are sorted, HTML characters are not escaped, and numbers
// keep their literal text. A nil Value renders as the empty string.
func Render(v Value) string {
	var buf bytes.Buffer
	render(&buf, v)
	return buf.String()
}

func render(buf *bytes.Buffer, v Value) {
	switch val := v.(type) {
	case Null:
		buf.WriteString("null")
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		buf.WriteString(string(val))
	case String:
		buf.WriteString(quote(string(val)))
	case Array:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			render(buf, elem)
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, k := range val.SortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(quote(k))
			buf.WriteByte(':')
			render(buf, val[k])
		}
		buf.WriteByte('}')
	}
}

// quote produces a JSON string literal with HTML escaping disabled.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}

	// json.Encoder adds trailing newline, remove it
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// RenderKeys renders a list of keys as a JSON array of strings.
func RenderKeys(keys []string) string {
	arr := make(Array, len(keys))
	for i, k := range keys {
		arr[i] = String(k)
	}
	return Render(arr)
}

// Truncate bounds s to at most n characters (runes).
func Truncate(s string, n int) string {
	if n < 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
