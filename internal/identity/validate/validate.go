// Package validate holds advisory well-formedness checks for record fields.
// Every check returns a boolean; nothing here rejects or rewrites a record.
package validate

import (
	"regexp"

	"github.com/asaskevich/govalidator"

	"idsynth/internal/identity/models"
	"idsynth/pkg/email"
)

const (
	MinAge = 18
	MaxAge = 100
)

var (
	emailPattern = regexp.MustCompile(`^[\w\.-]+@[\w\.-]+\.\w+$`)
	phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)
	ssnPattern   = regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`)
)

// Age reports whether age is within [MinAge, MaxAge].
func Age(age int64) bool {
	return age >= MinAge && age <= MaxAge
}

func Email(address string) bool {
	return govalidator.StringLength(address, "3", "254") && emailPattern.MatchString(address)
}

func Phone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func SSN(ssn string) bool {
	return ssnPattern.MatchString(ssn)
}

// DateOfBirth reports whether dob is an ISO-8601 calendar date.
func DateOfBirth(dob string) bool {
	return govalidator.IsTime(dob, models.DateLayout)
}

// CreditCard strips every non-digit character and runs the Luhn check on
// what remains. An input with no digits is invalid.
func CreditCard(number string) bool {
	digits := make([]byte, 0, len(number))
	for i := 0; i < len(number); i++ {
		if c := number[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) == 0 {
		return false
	}
	return Luhn(string(digits))
}

// Luhn runs the Luhn checksum over a string of ASCII digits.
func Luhn(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// Report holds the outcome of each check run against one record.
type Report struct {
	Age              bool `json:"age"`
	Email            bool `json:"email"`
	Phone            bool `json:"phone"`
	CreditCard       bool `json:"credit_card"`
	DateOfBirth      bool `json:"date_of_birth"`
	SSN              bool `json:"ssn"`
	EmailMatchesName bool `json:"email_matches_name"`
}

// Valid is the overall verdict: age, email, phone and credit card must all
// pass. The remaining checks are informational.
func (r Report) Valid() bool {
	return r.Age && r.Email && r.Phone && r.CreditCard
}

// Record runs every check against r. An age held as text that is not an
// integer literal fails the age check.
func Record(r models.Record) Report {
	ageOK := false
	if age, err := r.Age.Int64(); err == nil {
		ageOK = Age(age)
	}
	return Report{
		Age:              ageOK,
		Email:            Email(r.Email),
		Phone:            Phone(r.Phone),
		CreditCard:       CreditCard(r.CreditCard),
		DateOfBirth:      DateOfBirth(r.DateOfBirth),
		SSN:              SSN(r.SSN),
		EmailMatchesName: email.MatchesName(r.Email, r.FirstName, r.LastName),
	}
}
