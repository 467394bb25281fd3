package models

import (
	"sort"
	"strings"
	"time"

	dErrors "idsynth/pkg/domain-errors"
)

// Field names a record column. The names double as CSV headers, JSON keys and
// database column names.
type Field string

const (
	FieldFirstName   Field = "first_name"
	FieldLastName    Field = "last_name"
	FieldGender      Field = "gender"
	FieldDateOfBirth Field = "date_of_birth"
	FieldAge         Field = "age"
	FieldCountry     Field = "country"
	FieldEthnicity   Field = "ethnicity"
	FieldEducation   Field = "education"
	FieldOccupation  Field = "occupation"
	FieldEmail       Field = "email"
	FieldPhone       Field = "phone"
	FieldAddress     Field = "address"
	FieldCreditCard  Field = "credit_card"
	FieldSSN         Field = "ssn"
)

// DateLayout is the ISO-8601 calendar date layout used for date_of_birth.
const DateLayout = "2006-01-02"

var fields = [...]Field{
	FieldFirstName, FieldLastName, FieldGender, FieldDateOfBirth, FieldAge,
	FieldCountry, FieldEthnicity, FieldEducation, FieldOccupation, FieldEmail,
	FieldPhone, FieldAddress, FieldCreditCard, FieldSSN,
}

// Fields returns the record fields in record-field order.
func Fields() []Field {
	return append([]Field(nil), fields[:]...)
}

// FieldNames returns the record field names in record-field order.
func FieldNames() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return names
}

// ParseField resolves a column name to a Field.
func ParseField(name string) (Field, bool) {
	for _, f := range fields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// Record is one synthetic identity.
//
// Invariants:
//   - enum fields hold members of their closed sets
//   - Age is fixed when the record is generated; it is never derived again
//     from DateOfBirth
//   - Age is an integer Value unless the record came through a text-only format
type Record struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Gender      Gender     `json:"gender"`
	DateOfBirth string     `json:"date_of_birth"`
	Age         Value      `json:"age"`
	Country     Country    `json:"country"`
	Ethnicity   Ethnicity  `json:"ethnicity"`
	Education   Education  `json:"education"`
	Occupation  Occupation `json:"occupation"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`
	CreditCard  string     `json:"credit_card"`
	SSN         string     `json:"ssn"`
}

// Get returns the value held in field f.
func (r Record) Get(f Field) Value {
	switch f {
	case FieldFirstName:
		return Text(r.FirstName)
	case FieldLastName:
		return Text(r.LastName)
	case FieldGender:
		return Text(string(r.Gender))
	case FieldDateOfBirth:
		return Text(r.DateOfBirth)
	case FieldAge:
		return r.Age
	case FieldCountry:
		return Text(string(r.Country))
	case FieldEthnicity:
		return Text(string(r.Ethnicity))
	case FieldEducation:
		return Text(string(r.Education))
	case FieldOccupation:
		return Text(string(r.Occupation))
	case FieldEmail:
		return Text(r.Email)
	case FieldPhone:
		return Text(r.Phone)
	case FieldAddress:
		return Text(r.Address)
	case FieldCreditCard:
		return Text(r.CreditCard)
	case FieldSSN:
		return Text(r.SSN)
	}
	return Value{}
}

// Values returns the record's values in record-field order.
func (r Record) Values() []Value {
	out := make([]Value, len(fields))
	for i, f := range fields {
		out[i] = r.Get(f)
	}
	return out
}

// Set stores v in field f. Text fields only accept text; enum fields must be
// members of their set; age accepts either kind as-is.
func (r *Record) Set(f Field, v Value) error {
	if f == FieldAge {
		r.Age = v
		return nil
	}
	if v.Kind() != KindText {
		return dErrors.New(dErrors.CodeOutOfDomain, string(f)+" must be text")
	}
	s := v.String()
	var err error
	switch f {
	case FieldFirstName:
		r.FirstName = s
	case FieldLastName:
		r.LastName = s
	case FieldGender:
		r.Gender, err = ParseGender(s)
	case FieldDateOfBirth:
		r.DateOfBirth = s
	case FieldCountry:
		r.Country, err = ParseCountry(s)
	case FieldEthnicity:
		r.Ethnicity, err = ParseEthnicity(s)
	case FieldEducation:
		r.Education, err = ParseEducation(s)
	case FieldOccupation:
		r.Occupation, err = ParseOccupation(s)
	case FieldEmail:
		r.Email = s
	case FieldPhone:
		r.Phone = s
	case FieldAddress:
		r.Address = s
	case FieldCreditCard:
		r.CreditCard = s
	case FieldSSN:
		r.SSN = s
	default:
		return dErrors.New(dErrors.CodeOutOfDomain, "unknown field "+string(f))
	}
	return err
}

// FromFields builds a record from a complete field mapping. Every field must
// be present exactly once and no other keys are allowed.
func FromFields(values map[Field]Value) (Record, error) {
	var missing []string
	for _, f := range fields {
		if _, ok := values[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return Record{}, dErrors.New(dErrors.CodeFormatViolation, "missing fields: "+strings.Join(missing, ", "))
	}
	if len(values) != len(fields) {
		var extra []string
		for f := range values {
			if _, ok := ParseField(string(f)); !ok {
				extra = append(extra, string(f))
			}
		}
		sort.Strings(extra)
		return Record{}, dErrors.New(dErrors.CodeFormatViolation, "unknown fields: "+strings.Join(extra, ", "))
	}

	var r Record
	for _, f := range fields {
		if err := r.Set(f, values[f]); err != nil {
			return Record{}, err
		}
	}
	return r, nil
}

// Validate checks the enum invariants of a record built outside FromFields.
func (r Record) Validate() error {
	if _, err := ParseGender(string(r.Gender)); err != nil {
		return err
	}
	if _, err := ParseCountry(string(r.Country)); err != nil {
		return err
	}
	if _, err := ParseEthnicity(string(r.Ethnicity)); err != nil {
		return err
	}
	if _, err := ParseEducation(string(r.Education)); err != nil {
		return err
	}
	if _, err := ParseOccupation(string(r.Occupation)); err != nil {
		return err
	}
	return nil
}

// AgeAt returns the whole number of 365-day years between dob and now. Both
// are truncated to calendar dates in UTC first.
func AgeAt(dob, now time.Time) int {
	d := time.Date(dob.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(n.Sub(d).Hours() / 24)
	if days < 0 {
		return -((-days + 364) / 365)
	}
	return days / 365
}

// EncryptedRecord maps each field to an opaque ciphertext token.
type EncryptedRecord map[Field]string
