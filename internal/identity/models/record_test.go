package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"idsynth/internal/identity/models"
	dErrors "idsynth/pkg/domain-errors"
)

type RecordSuite struct {
	suite.Suite
}

func TestRecordSuite(t *testing.T) {
	suite.Run(t, new(RecordSuite))
}

func sampleRecord() models.Record {
	return models.Record{
		FirstName:   "Ana",
		LastName:    "Lopez",
		Gender:      models.GenderFemale,
		DateOfBirth: "1990-04-12",
		Age:         models.Integer(34),
		Country:     models.CountrySpain,
		Ethnicity:   models.EthnicityHispanic,
		Education:   models.EducationMaster,
		Occupation:  models.OccupationEngineer,
		Email:       "ana.lopez@gmail.com",
		Phone:       "+15551234567",
		Address:     "12 Elm St, Austin, TX 73301",
		CreditCard:  "4111111111111111",
		SSN:         "123-45-6789",
	}
}

func (s *RecordSuite) TestFieldOrder() {
	s.Equal([]string{
		"first_name", "last_name", "gender", "date_of_birth", "age", "country", "ethnicity",
		"education", "occupation", "email", "phone", "address", "credit_card", "ssn",
	}, models.FieldNames())
}

func (s *RecordSuite) TestClosedSetsAreCopies() {
	countries := models.Countries()
	countries[0] = "Atlantis"
	s.Equal(models.CountryUSA, models.Countries()[0])

	genders := models.Genders()
	genders[0] = "Other"
	s.Equal(models.GenderFemale, models.Genders()[0])
}

func (s *RecordSuite) TestParseEnums() {
	s.Run("accepts members", func() {
		c, err := models.ParseCountry("Japan")
		s.Require().NoError(err)
		s.Equal(models.CountryJapan, c)
	})

	s.Run("rejects values outside the set", func() {
		_, err := models.ParseEthnicity("Martian")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeOutOfDomain))
	})

	s.Run("is case sensitive", func() {
		_, err := models.ParseGender("male")
		s.True(dErrors.HasCode(err, dErrors.CodeOutOfDomain))
	})
}

func (s *RecordSuite) TestFromFieldsRoundTrip() {
	r := sampleRecord()
	values := make(map[models.Field]models.Value)
	for _, f := range models.Fields() {
		values[f] = r.Get(f)
	}

	got, err := models.FromFields(values)
	s.Require().NoError(err)
	s.Equal(r, got)
}

func (s *RecordSuite) TestFromFieldsRejectsBadShapes() {
	r := sampleRecord()
	full := func() map[models.Field]models.Value {
		values := make(map[models.Field]models.Value)
		for _, f := range models.Fields() {
			values[f] = r.Get(f)
		}
		return values
	}

	s.Run("missing field", func() {
		values := full()
		delete(values, models.FieldSSN)
		_, err := models.FromFields(values)
		s.True(dErrors.HasCode(err, dErrors.CodeFormatViolation))
		s.Contains(err.Error(), "ssn")
	})

	s.Run("unknown field", func() {
		values := full()
		values["nickname"] = models.Text("Annie")
		_, err := models.FromFields(values)
		s.True(dErrors.HasCode(err, dErrors.CodeFormatViolation))
		s.Contains(err.Error(), "nickname")
	})

	s.Run("enum outside set", func() {
		values := full()
		values[models.FieldOccupation] = models.Text("Astronaut")
		_, err := models.FromFields(values)
		s.True(dErrors.HasCode(err, dErrors.CodeOutOfDomain))
	})

	s.Run("integer in text field", func() {
		values := full()
		values[models.FieldPhone] = models.Integer(5551234567)
		_, err := models.FromFields(values)
		s.True(dErrors.HasCode(err, dErrors.CodeOutOfDomain))
	})

	s.Run("text age is kept as text", func() {
		values := full()
		values[models.FieldAge] = models.Text("34")
		got, err := models.FromFields(values)
		s.Require().NoError(err)
		s.Equal(models.KindText, got.Age.Kind())
		s.Equal("34", got.Age.String())
	})
}

func (s *RecordSuite) TestValueConversion() {
	n, err := models.Text(" 42 ").Int64()
	s.Require().NoError(err)
	s.Equal(int64(42), n)

	_, err = models.Text("forty").Int64()
	s.True(dErrors.HasCode(err, dErrors.CodeOutOfDomain))

	s.NotEqual(models.Text("42"), models.Integer(42))
}

func (s *RecordSuite) TestJSONPreservesKinds() {
	r := sampleRecord()
	r.FirstName = "José"

	data, err := json.Marshal(r)
	s.Require().NoError(err)
	s.Contains(string(data), `"age":34`)
	s.Contains(string(data), "José")

	var back models.Record
	s.Require().NoError(json.Unmarshal(data, &back))
	s.Equal(r, back)

	r.Age = models.Text("34")
	data, err = json.Marshal(r)
	s.Require().NoError(err)
	s.Contains(string(data), `"age":"34"`)
}

func (s *RecordSuite) TestValueRejectsNonScalarJSON() {
	var v models.Value
	err := json.Unmarshal([]byte(`3.5`), &v)
	s.True(dErrors.HasCode(err, dErrors.CodeFormatViolation))
	err = json.Unmarshal([]byte(`null`), &v)
	s.True(dErrors.HasCode(err, dErrors.CodeFormatViolation))
}

func (s *RecordSuite) TestAgeAt() {
	now := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)

	s.Equal(0, models.AgeAt(now, now))
	s.Equal(34, models.AgeAt(time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC), now))
	// 365-day years drift from calendar years across leap days.
	s.Equal(1, models.AgeAt(time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC), now))
	s.Equal(-1, models.AgeAt(now.AddDate(0, 0, 1), now))
}
