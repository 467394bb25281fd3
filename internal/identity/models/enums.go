package models

import (
	"strconv"

	dErrors "idsynth/pkg/domain-errors"
)

// Gender is one of the closed set of genders a record may carry.
type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
)

// Country is the label the prediction model learns.
type Country string

const (
	CountryUSA       Country = "USA"
	CountryCanada    Country = "Canada"
	CountryUK        Country = "UK"
	CountryAustralia Country = "Australia"
	CountryGermany   Country = "Germany"
	CountryFrance    Country = "France"
	CountrySpain     Country = "Spain"
	CountryItaly     Country = "Italy"
	CountryJapan     Country = "Japan"
	CountryBrazil    Country = "Brazil"
)

type Ethnicity string

const (
	EthnicityCaucasian       Ethnicity = "Caucasian"
	EthnicityAfricanAmerican Ethnicity = "African American"
	EthnicityHispanic        Ethnicity = "Hispanic"
	EthnicityAsian           Ethnicity = "Asian"
	EthnicityMiddleEastern   Ethnicity = "Middle Eastern"
	EthnicityNativeAmerican  Ethnicity = "Native American"
	EthnicityPacificIslander Ethnicity = "Pacific Islander"
)

type Education string

const (
	EducationHighSchool Education = "High School"
	EducationAssociate  Education = "Associate"
	EducationBachelor   Education = "Bachelor"
	EducationMaster     Education = "Master"
	EducationPhD        Education = "PhD"
)

type Occupation string

const (
	OccupationEngineer    Occupation = "Engineer"
	OccupationTeacher     Occupation = "Teacher"
	OccupationDoctor      Occupation = "Doctor"
	OccupationLawyer      Occupation = "Lawyer"
	OccupationAccountant  Occupation = "Accountant"
	OccupationManager     Occupation = "Manager"
	OccupationSalesperson Occupation = "Salesperson"
	OccupationArtist      Occupation = "Artist"
	OccupationProgrammer  Occupation = "Programmer"
	OccupationNurse       Occupation = "Nurse"
)

// The closed sets below are ordered: a value's position is its model feature
// code. They are never handed out directly; accessors return copies.
var (
	genders = [...]Gender{GenderFemale, GenderMale}

	countries = [...]Country{
		CountryUSA, CountryCanada, CountryUK, CountryAustralia, CountryGermany,
		CountryFrance, CountrySpain, CountryItaly, CountryJapan, CountryBrazil,
	}

	ethnicities = [...]Ethnicity{
		EthnicityCaucasian, EthnicityAfricanAmerican, EthnicityHispanic, EthnicityAsian,
		EthnicityMiddleEastern, EthnicityNativeAmerican, EthnicityPacificIslander,
	}

	educations = [...]Education{
		EducationHighSchool, EducationAssociate, EducationBachelor, EducationMaster, EducationPhD,
	}

	occupations = [...]Occupation{
		OccupationEngineer, OccupationTeacher, OccupationDoctor, OccupationLawyer,
		OccupationAccountant, OccupationManager, OccupationSalesperson, OccupationArtist,
		OccupationProgrammer, OccupationNurse,
	}
)

func Genders() []Gender         { return append([]Gender(nil), genders[:]...) }
func Countries() []Country      { return append([]Country(nil), countries[:]...) }
func Ethnicities() []Ethnicity  { return append([]Ethnicity(nil), ethnicities[:]...) }
func Educations() []Education   { return append([]Education(nil), educations[:]...) }
func Occupations() []Occupation { return append([]Occupation(nil), occupations[:]...) }

func ParseGender(s string) (Gender, error) {
	return parseEnum(FieldGender, s, genders[:])
}

func ParseCountry(s string) (Country, error) {
	return parseEnum(FieldCountry, s, countries[:])
}

func ParseEthnicity(s string) (Ethnicity, error) {
	return parseEnum(FieldEthnicity, s, ethnicities[:])
}

func ParseEducation(s string) (Education, error) {
	return parseEnum(FieldEducation, s, educations[:])
}

func ParseOccupation(s string) (Occupation, error) {
	return parseEnum(FieldOccupation, s, occupations[:])
}

func parseEnum[T ~string](field Field, s string, set []T) (T, error) {
	for _, v := range set {
		if string(v) == s {
			return v, nil
		}
	}
	return "", dErrors.New(dErrors.CodeOutOfDomain, string(field)+" value "+strconv.Quote(s)+" is not in the allowed set")
}
