// Package analyzer computes aggregate statistics over a snapshot of records.
package analyzer

import (
	"slices"
	"sort"
	"strconv"

	"idsynth/internal/identity/models"
	dErrors "idsynth/pkg/domain-errors"
)

// DefaultTopNames is the name count used by Report.
const DefaultTopNames = 10

type AgeStats struct {
	Mean   float64 `json:"mean"`
	Median int64   `json:"median"`
	Min    int64   `json:"min"`
	Max    int64   `json:"max"`
}

type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type CommonNames struct {
	FirstNames []NameCount `json:"first_names"`
	LastNames  []NameCount `json:"last_names"`
}

// Report bundles every statistic the analyzer produces.
type Report struct {
	Age     AgeStats           `json:"age_distribution"`
	Gender  map[string]float64 `json:"gender_distribution"`
	Country map[string]float64 `json:"country_distribution"`
	Names   CommonNames        `json:"most_common_names"`
	Total   int                `json:"total"`
}

// Analyzer reads a copy of the collection taken at construction. It does not
// see later changes; build a new one instead.
type Analyzer struct {
	records []models.Record
}

func New(records []models.Record) *Analyzer {
	return &Analyzer{records: slices.Clone(records)}
}

func (a *Analyzer) nonEmpty() error {
	if len(a.records) == 0 {
		return dErrors.New(dErrors.CodeEmptyCollection, "no identities to analyze")
	}
	return nil
}

// AgeDistribution returns mean, median, min and max age. The median is the
// element at index n/2 of the sorted ages, so even-length inputs take the
// upper of the two middle values.
func (a *Analyzer) AgeDistribution() (AgeStats, error) {
	if err := a.nonEmpty(); err != nil {
		return AgeStats{}, err
	}
	ages := make([]int64, len(a.records))
	var sum int64
	for i, r := range a.records {
		age, err := r.Age.Int64()
		if err != nil {
			return AgeStats{}, dErrors.Wrap(err, dErrors.CodeOutOfDomain, "record "+strconv.Itoa(i)+" has a non-numeric age")
		}
		ages[i] = age
		sum += age
	}
	slices.Sort(ages)
	return AgeStats{
		Mean:   float64(sum) / float64(len(ages)),
		Median: ages[len(ages)/2],
		Min:    ages[0],
		Max:    ages[len(ages)-1],
	}, nil
}

// GenderDistribution returns the share of each gender present in the records.
func (a *Analyzer) GenderDistribution() (map[string]float64, error) {
	return a.distribution(func(r models.Record) string { return string(r.Gender) })
}

// CountryDistribution returns the share of each country present in the records.
func (a *Analyzer) CountryDistribution() (map[string]float64, error) {
	return a.distribution(func(r models.Record) string { return string(r.Country) })
}

func (a *Analyzer) distribution(key func(models.Record) string) (map[string]float64, error) {
	if err := a.nonEmpty(); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, r := range a.records {
		counts[key(r)]++
	}
	total := float64(len(a.records))
	out := make(map[string]float64, len(counts))
	for k, c := range counts {
		out[k] = float64(c) / total
	}
	return out, nil
}

// MostCommonNames returns the n most frequent first and last names, most
// frequent first. Equal counts keep the order in which names first appear.
func (a *Analyzer) MostCommonNames(n int) (CommonNames, error) {
	if n < 1 {
		return CommonNames{}, dErrors.New(dErrors.CodeInvalidInput, "name count must be at least 1")
	}
	if err := a.nonEmpty(); err != nil {
		return CommonNames{}, err
	}
	return CommonNames{
		FirstNames: topN(a.records, n, func(r models.Record) string { return r.FirstName }),
		LastNames:  topN(a.records, n, func(r models.Record) string { return r.LastName }),
	}, nil
}

// Report computes all statistics with DefaultTopNames names.
func (a *Analyzer) Report() (Report, error) {
	age, err := a.AgeDistribution()
	if err != nil {
		return Report{}, err
	}
	gender, err := a.GenderDistribution()
	if err != nil {
		return Report{}, err
	}
	country, err := a.CountryDistribution()
	if err != nil {
		return Report{}, err
	}
	names, err := a.MostCommonNames(DefaultTopNames)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Age:     age,
		Gender:  gender,
		Country: country,
		Names:   names,
		Total:   len(a.records),
	}, nil
}

func topN(records []models.Record, n int, key func(models.Record) string) []NameCount {
	var ordered []NameCount
	index := make(map[string]int)
	for _, r := range records {
		name := key(r)
		if i, ok := index[name]; ok {
			ordered[i].Count++
			continue
		}
		index[name] = len(ordered)
		ordered = append(ordered, NameCount{Name: name, Count: 1})
	}
	// stable sort keeps first-seen order among equal counts
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Count > ordered[j].Count
	})
	if len(ordered) > n {
		ordered = ordered[:n]
	}
	return ordered
}
