package dataset

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Text is a string field that accepts any JSON scalar. null and composite
// values decode to the empty string.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	*t = Text(scalarText(data))
	return nil
}

// String returns the text.
func (t Text) String() string { return string(t) }

// Or returns t, or fallback when t is empty.
func (t Text) Or(fallback string) string {
	if t == "" {
		return fallback
	}
	return string(t)
}

// TextList accepts a list of scalars, a single scalar or null.
// Empty entries are dropped.
type TextList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *TextList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*l = nil
	if len(data) == 0 {
		return nil
	}
	if data[0] != '[' {
		if s := scalarText(data); s != "" {
			*l = TextList{s}
		}
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	for _, it := range items {
		if s := scalarText(it); s != "" {
			*l = append(*l, s)
		}
	}
	return nil
}

// Year is a year given either as a JSON number or a numeric string.
type Year string

// UnmarshalJSON implements json.Unmarshaler.
func (y *Year) UnmarshalJSON(data []byte) error {
	*y = Year(scalarText(data))
	return nil
}

// MarshalJSON writes numeric years as numbers.
func (y Year) MarshalJSON() ([]byte, error) {
	if _, ok := parseYear(string(y)); ok {
		return []byte(string(y)), nil
	}
	return json.Marshal(string(y))
}

// Number returns the numeric value of the year.
func (y Year) Number() (float64, bool) { return parseYear(string(y)) }

// Scores maps axis keys to raw JSON values. Values are only interpreted on
// read, so a malformed entry never fails the whole document.
type Scores map[string]json.RawMessage

// UnmarshalJSON implements json.Unmarshaler. Anything that is not an object
// yields empty scores.
func (s *Scores) UnmarshalJSON(data []byte) error {
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &m); err != nil {
		m = map[string]json.RawMessage{}
	}
	*s = m
	return nil
}

// Number returns the value stored under key when it is a finite JSON number.
// Strings, booleans, null and missing keys report false.
func (s Scores) Number(key string) (float64, bool) {
	raw, ok := s[key]
	if !ok {
		return 0, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, false
	}
	n, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// Axis is a named evaluation dimension.
type Axis struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Axes is the axis mapping of the document, kept in document order.
type Axes []Axis

// UnmarshalJSON implements json.Unmarshaler. A non-object value yields no
// axes. A repeated key keeps its first position and its last label.
func (a *Axes) UnmarshalJSON(data []byte) error {
	*a = nil
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		label := scalarText(raw)
		if i, seen := index[key]; seen {
			(*a)[i].Label = label
			continue
		}
		index[key] = len(*a)
		*a = append(*a, Axis{Key: key, Label: label})
	}
	return nil
}

// MarshalJSON writes the axes back as an ordered object.
func (a Axes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ax := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(ax.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(ax.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Keys returns the axis keys in order.
func (a Axes) Keys() []string {
	keys := make([]string, len(a))
	for i, ax := range a {
		keys[i] = ax.Key
	}
	return keys
}

// Label returns the label of key, falling back to the key itself.
func (a Axes) Label(key string) string {
	for _, ax := range a {
		if ax.Key == key {
			if ax.Label == "" {
				return key
			}
			return ax.Label
		}
	}
	return key
}

// scalarText renders a raw JSON scalar as text. null, objects and arrays
// render as "".
func scalarText(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ""
		}
		return s
	case 't', 'f':
		return string(data)
	case 'n', '{', '[':
		return ""
	default:
		return string(data)
	}
}
