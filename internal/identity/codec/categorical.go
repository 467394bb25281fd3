// Package codec maps the closed enum sets of a record to dense integer codes.
// The same codec values serve training and prediction, so a category's code
// cannot differ between the two.
package codec

import (
	"strconv"

	"idsynth/internal/identity/models"
	dErrors "idsynth/pkg/domain-errors"
)

// Codec is an immutable bidirectional mapping between an ordered value set and
// the positions of its members.
type Codec[T ~string] struct {
	name   string
	values []T
	index  map[T]int
}

// New builds a codec over a copy of values. Position i encodes to i.
func New[T ~string](name string, values []T) *Codec[T] {
	c := &Codec[T]{
		name:   name,
		values: append([]T(nil), values...),
		index:  make(map[T]int, len(values)),
	}
	for i, v := range c.values {
		c.index[v] = i
	}
	return c
}

// Encode returns the code of v, or OutOfDomain when v is not in the set.
func (c *Codec[T]) Encode(v T) (int, error) {
	i, ok := c.index[v]
	if !ok {
		return 0, dErrors.New(dErrors.CodeOutOfDomain, c.name+" value "+strconv.Quote(string(v))+" has no code")
	}
	return i, nil
}

// Decode returns the value at code i.
func (c *Codec[T]) Decode(i int) (T, error) {
	if i < 0 || i >= len(c.values) {
		return "", dErrors.New(dErrors.CodeInvalidInput, c.name+" code "+strconv.Itoa(i)+" is out of range")
	}
	return c.values[i], nil
}

func (c *Codec[T]) Len() int {
	return len(c.values)
}

func (c *Codec[T]) Name() string {
	return c.name
}

// Values returns a copy of the ordered set.
func (c *Codec[T]) Values() []T {
	return append([]T(nil), c.values...)
}

// Process-wide codecs. Gender is ordered Female, Male so that the gender
// feature is 1 exactly for Male.
var (
	Gender     = New("gender", models.Genders())
	Country    = New("country", models.Countries())
	Ethnicity  = New("ethnicity", models.Ethnicities())
	Education  = New("education", models.Educations())
	Occupation = New("occupation", models.Occupations())
)
