package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	dErrors "idsynth/pkg/domain-errors"
)

// Kind is the storage type of a Value.
type Kind uint8

const (
	KindText Kind = iota
	KindInteger
)

func (k Kind) String() string {
	if k == KindInteger {
		return "integer"
	}
	return "text"
}

// Value is a record scalar. It is either text or an integer; lossy formats
// produce text where the record originally held an integer, and nothing
// converts it back implicitly.
type Value struct {
	kind Kind
	text string
	num  int64
}

func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

func Integer(n int64) Value {
	return Value{kind: KindInteger, num: n}
}

func (v Value) Kind() Kind {
	return v.kind
}

// String returns the textual representation used by text-only formats.
func (v Value) String() string {
	if v.kind == KindInteger {
		return strconv.FormatInt(v.num, 10)
	}
	return v.text
}

// Int64 is the single explicit conversion from a Value to a number. Text
// holding a base-10 integer literal converts; anything else is OutOfDomain.
func (v Value) Int64() (int64, error) {
	if v.kind == KindInteger {
		return v.num, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v.text), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeOutOfDomain, "value "+strconv.Quote(v.text)+" is not an integer")
	}
	return n, nil
}

// MarshalJSON writes integers as JSON numbers and text as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindInteger {
		return []byte(strconv.FormatInt(v.num, 10)), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v.text); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON accepts a JSON string or an integral JSON number.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return dErrors.New(dErrors.CodeFormatViolation, "expected a string or an integer, got "+string(data))
	}
	*v = Integer(n)
	return nil
}
