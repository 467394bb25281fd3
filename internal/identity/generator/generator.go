// Package generator produces synthetic identity records.
package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"idsynth/internal/identity/models"
	"idsynth/pkg/email"
)

// Generator draws independent synthetic records. It is not safe for
// concurrent use because it owns its random source.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

type Option func(*Generator)

// WithRand makes the generator draw from rng, which makes output reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.faker = gofakeit.NewFaker(rng, false)
	}
}

// WithClock sets the reference "today" used to derive ages.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New returns a generator seeded from the runtime's random source.
func New(opts ...Option) *Generator {
	g := &Generator{
		faker: gofakeit.NewFaker(rand.NewPCG(rand.Uint64(), rand.Uint64()), false),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewSeeded returns a generator whose draws are fully determined by seed.
func NewSeeded(seed uint64, opts ...Option) *Generator {
	return New(append([]Option{WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))}, opts...)...)
}

// Generate returns one record. Gender is drawn first and the first name comes
// from that gender's pool; age is derived from the drawn birth date against
// the generator clock and is not touched again.
func (g *Generator) Generate() models.Record {
	gender := pick(g.faker, models.Genders())
	first := pick(g.faker, femaleFirstNames)
	if gender == models.GenderMale {
		first = pick(g.faker, maleFirstNames)
	}
	last := g.faker.LastName()

	today := g.now()
	dob := g.dateOfBirth(today, 18, 80)

	return models.Record{
		FirstName:   first,
		LastName:    last,
		Gender:      gender,
		DateOfBirth: dob.Format(models.DateLayout),
		Age:         models.Integer(int64(models.AgeAt(dob, today))),
		Country:     pick(g.faker, models.Countries()),
		Ethnicity:   pick(g.faker, models.Ethnicities()),
		Education:   pick(g.faker, models.Educations()),
		Occupation:  pick(g.faker, models.Occupations()),
		Email:       email.Compose(first, last, g.faker.RandomString(freeEmailDomains)),
		Phone:       g.phone(),
		Address:     g.address(),
		CreditCard:  g.faker.CreditCardNumber(&gofakeit.CreditCardOptions{Types: cardTypes}),
		SSN:         g.ssn(),
	}
}

// dateOfBirth draws a calendar date for someone between minAge and maxAge
// full years old on today.
func (g *Generator) dateOfBirth(today time.Time, minAge, maxAge int) time.Time {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	latest := day.AddDate(-minAge, 0, 0)
	earliest := day.AddDate(-(maxAge + 1), 0, 1)
	span := int(latest.Sub(earliest).Hours() / 24)
	return earliest.AddDate(0, 0, g.faker.IntRange(0, span))
}

// phone renders a NANP number as +1NXXNXXXXXX.
func (g *Generator) phone() string {
	return fmt.Sprintf("+1%d%s%d%s",
		g.faker.IntRange(2, 9), g.faker.Numerify("##"),
		g.faker.IntRange(2, 9), g.faker.Numerify("######"))
}

func (g *Generator) address() string {
	return fmt.Sprintf("%s, %s, %s %s",
		g.faker.Street(), g.faker.City(), g.faker.StateAbr(), g.faker.Zip())
}

// ssn formats the faker's nine digits as AAA-GG-SSSS.
func (g *Generator) ssn() string {
	digits := strings.Map(func(r rune) rune {
		if r < '0' || r > '9' {
			return -1
		}
		return r
	}, g.faker.SSN())
	if len(digits) != 9 {
		digits = g.faker.Numerify("#########")
	}
	return digits[:3] + "-" + digits[3:5] + "-" + digits[5:]
}

func pick[T any](f *gofakeit.Faker, from []T) T {
	return from[f.IntRange(0, len(from)-1)]
}

const (
	cardNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	cardNumberLength   = 10
	cardIssueWindow    = 5 * 365
	cardValidityDays   = 10 * 365
)

// IDCard issues a card for r with a random number, an issue date within the
// last five years and ten years of validity.
func (g *Generator) IDCard(r models.Record) models.IDCard {
	var number strings.Builder
	for range cardNumberLength {
		number.WriteByte(cardNumberAlphabet[g.faker.IntRange(0, len(cardNumberAlphabet)-1)])
	}
	today := g.now()
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	issued := day.AddDate(0, 0, -g.faker.IntRange(0, cardIssueWindow))

	return models.IDCard{
		Number:      number.String(),
		Name:        r.FirstName + " " + r.LastName,
		Gender:      r.Gender,
		DateOfBirth: r.DateOfBirth,
		Nationality: r.Country,
		Address:     r.Address,
		IssueDate:   issued.Format(models.DateLayout),
		ExpiryDate:  issued.AddDate(0, 0, cardValidityDays).Format(models.DateLayout),
	}
}
