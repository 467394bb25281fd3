package store

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"idsynth/internal/identity/generator"
	"idsynth/internal/identity/metrics"
	"idsynth/internal/identity/models"
	dErrors "idsynth/pkg/domain-errors"
)

type StoreSuite struct {
	suite.Suite
	ctx     context.Context
	dir     string
	codec   *Codec
	metrics *metrics.Metrics
	records []models.Record
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.dir = s.T().TempDir()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.codec = New(WithMetrics(s.metrics))

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	gen := generator.NewSeeded(11, generator.WithClock(func() time.Time { return now }))
	s.records = make([]models.Record, 5)
	for i := range s.records {
		s.records[i] = gen.Generate()
	}
	s.records[0].FirstName = "José"
	s.records[0].LastName = "Jiménez"
	s.records[1].Address = "12 <Main> & Co St"
}

func (s *StoreSuite) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *StoreSuite) TestParseFormat() {
	for _, name := range []string{"csv", "JSON", " sql "} {
		_, err := ParseFormat(name)
		s.NoError(err, name)
	}
	_, err := ParseFormat("xml")
	s.True(dErrors.HasCode(err, dErrors.CodeUnsupportedFormat))
	s.Equal([]string{"csv", "json", "sql"}, Formats())
}

func (s *StoreSuite) TestWriteEmptyCollection() {
	for _, f := range []Format{FormatCSV, FormatJSON, FormatSQL} {
		err := s.codec.Write(s.ctx, nil, f, s.path("empty."+string(f)))
		s.True(dErrors.HasCode(err, dErrors.CodeEmptyCollection), string(f))
		s.NoFileExists(s.path("empty." + string(f)))
	}
}

func (s *StoreSuite) TestUnsupportedFormat() {
	err := s.codec.Write(s.ctx, s.records, Format("xml"), s.path("x"))
	s.True(dErrors.HasCode(err, dErrors.CodeUnsupportedFormat))
	_, err = s.codec.Read(s.ctx, Format("xml"), s.path("x"))
	s.True(dErrors.HasCode(err, dErrors.CodeUnsupportedFormat))
}

func (s *StoreSuite) TestCSVRoundTripYieldsText() {
	dest := s.path("ids.csv")
	s.Require().NoError(s.codec.Write(s.ctx, s.records, FormatCSV, dest))

	raw, err := os.ReadFile(dest)
	s.Require().NoError(err)
	firstLine := strings.SplitN(string(raw), "\n", 2)[0]
	s.Equal(strings.Join(models.FieldNames(), ","), firstLine)

	got, err := s.codec.Read(s.ctx, FormatCSV, dest)
	s.Require().NoError(err)
	s.Require().Len(got, len(s.records))
	for i := range got {
		s.Equal(models.KindText, got[i].Age.Kind())
		s.Equal(s.records[i].Age.String(), got[i].Age.String())

		want := s.records[i]
		want.Age = models.Text(want.Age.String())
		s.Equal(want, got[i])
	}
	s.Equal(float64(len(s.records)), testutil.ToFloat64(s.metrics.RecordsExported.WithLabelValues("csv")))
	s.Equal(float64(len(s.records)), testutil.ToFloat64(s.metrics.RecordsImported.WithLabelValues("csv")))
}

func (s *StoreSuite) TestCSVFormatViolations() {
	header := strings.Join(models.FieldNames(), ",")
	row := "Ana,Lee,Female,1990-01-01,34,USA,Asian,PhD,Nurse,ana.lee@gmail.com,+15551234567,1 Main St,4111111111111111,123-45-6789"

	cases := map[string]string{
		"empty file":      "",
		"missing column":  strings.Replace(header, ",ssn", "", 1) + "\n",
		"unknown column":  strings.Replace(header, "ssn", "tax_id", 1) + "\n",
		"ragged row":      header + "\n" + row + ",extra\n",
		"out of set enum": header + "\n" + strings.Replace(row, "USA", "Atlantis", 1) + "\n",
	}
	for name, content := range cases {
		s.Run(name, func() {
			src := s.path(strings.ReplaceAll(name, " ", "_") + ".csv")
			s.Require().NoError(os.WriteFile(src, []byte(content), 0o600))
			_, err := s.codec.Read(s.ctx, FormatCSV, src)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeFormatViolation), err.Error())
		})
	}

	s.Run("reports the physical line after quoted newlines", func() {
		multiline := strings.Replace(row, "1 Main St", "\"1 Main St\nApt 4\"", 1)
		content := header + "\n" + multiline + "\n" + strings.Replace(row, "USA", "Atlantis", 1) + "\n"
		src := s.path("multiline.csv")
		s.Require().NoError(os.WriteFile(src, []byte(content), 0o600))

		_, err := s.codec.Read(s.ctx, FormatCSV, src)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeFormatViolation))
		s.Contains(err.Error(), "csv line 4")
	})

	s.Run("valid single row with reordered columns", func() {
		names := models.FieldNames()
		values := strings.Split(row, ",")
		names[0], names[1] = names[1], names[0]
		values[0], values[1] = values[1], values[0]
		src := s.path("reordered.csv")
		content := strings.Join(names, ",") + "\n" + strings.Join(values, ",") + "\n"
		s.Require().NoError(os.WriteFile(src, []byte(content), 0o600))

		got, err := s.codec.Read(s.ctx, FormatCSV, src)
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal("Ana", got[0].FirstName)
		s.Equal(models.Text("34"), got[0].Age)
	})
}

func (s *StoreSuite) TestJSONRoundTripIsLossless() {
	dest := s.path("ids.json")
	s.Require().NoError(s.codec.Write(s.ctx, s.records, FormatJSON, dest))

	raw, err := os.ReadFile(dest)
	s.Require().NoError(err)
	text := string(raw)
	s.Contains(text, "José")
	s.Contains(text, "<Main> & Co")
	s.Contains(text, "\n        \"first_name\": ")
	s.Less(strings.Index(text, `"first_name"`), strings.Index(text, `"ssn"`))

	got, err := s.codec.Read(s.ctx, FormatJSON, dest)
	s.Require().NoError(err)
	s.Equal(s.records, got)
	s.Equal(models.KindInteger, got[0].Age.Kind())
}

func (s *StoreSuite) TestJSONKeepsTextAge() {
	recs := append([]models.Record(nil), s.records...)
	recs[2].Age = models.Text("41")
	dest := s.path("text-age.json")
	s.Require().NoError(s.codec.Write(s.ctx, recs, FormatJSON, dest))

	got, err := s.codec.Read(s.ctx, FormatJSON, dest)
	s.Require().NoError(err)
	s.Equal(models.Text("41"), got[2].Age)
}

func (s *StoreSuite) TestJSONFormatViolations() {
	valid, err := json.Marshal(s.records[0])
	s.Require().NoError(err)
	var obj map[string]any
	s.Require().NoError(json.Unmarshal(valid, &obj))

	mutated := func(mutate func(map[string]any)) string {
		clone := make(map[string]any, len(obj))
		for k, v := range obj {
			clone[k] = v
		}
		mutate(clone)
		b, err := json.Marshal([]map[string]any{clone})
		s.Require().NoError(err)
		return string(b)
	}

	cases := map[string]string{
		"not an array":      string(valid),
		"not json":          "{{{",
		"null document":     "null",
		"trailing data":     "[] trailing-garbage",
		"second array":      "[]\n[]",
		"missing field":     mutated(func(m map[string]any) { delete(m, "email") }),
		"unknown field":     mutated(func(m map[string]any) { m["nickname"] = "Al" }),
		"numeric text":      mutated(func(m map[string]any) { m["first_name"] = 7 }),
		"fractional age":    mutated(func(m map[string]any) { m["age"] = 30.5 }),
		"null value":        mutated(func(m map[string]any) { m["phone"] = nil }),
		"out of set gender": mutated(func(m map[string]any) { m["gender"] = "Other" }),
	}
	for name, content := range cases {
		s.Run(name, func() {
			src := s.path(strings.ReplaceAll(name, " ", "_") + ".json")
			s.Require().NoError(os.WriteFile(src, []byte(content), 0o600))
			_, err := s.codec.Read(s.ctx, FormatJSON, src)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeFormatViolation), err.Error())
		})
	}
}

func (s *StoreSuite) TestSQLRoundTripReturnsIntegerAge() {
	dest := s.path("ids.db")
	recs := append([]models.Record(nil), s.records...)
	recs[3].Age = models.Text("52")
	s.Require().NoError(s.codec.Write(s.ctx, recs, FormatSQL, dest))

	got, err := s.codec.Read(s.ctx, FormatSQL, dest)
	s.Require().NoError(err)
	s.Require().Len(got, len(recs))
	s.Equal(s.records[0], got[0])
	s.Equal(models.Integer(52), got[3].Age)
	s.Equal("José", got[0].FirstName)
}

func (s *StoreSuite) TestSQLAppendsToExistingTable() {
	dest := s.path("append.db")
	s.Require().NoError(s.codec.Write(s.ctx, s.records[:2], FormatSQL, dest))
	s.Require().NoError(s.codec.Write(s.ctx, s.records[2:], FormatSQL, dest))

	got, err := s.codec.Read(s.ctx, FormatSQL, dest)
	s.Require().NoError(err)
	s.Equal(s.records, got)
}

func (s *StoreSuite) TestSQLRejectsNonNumericAge() {
	recs := append([]models.Record(nil), s.records...)
	recs[1].Age = models.Text("unknown")
	err := s.codec.Write(s.ctx, recs, FormatSQL, s.path("bad.db"))
	s.True(dErrors.HasCode(err, dErrors.CodeFormatViolation))
}

func (s *StoreSuite) TestSQLRejectsNullColumns() {
	for _, column := range []string{"first_name", "age", "credit_card"} {
		s.Run(column, func() {
			dest := s.path("null-" + column + ".db")
			s.Require().NoError(s.codec.Write(s.ctx, s.records, FormatSQL, dest))

			db, closeDB, err := openDB(dest, false)
			s.Require().NoError(err)
			s.Require().NoError(db.Exec("UPDATE "+TableName+" SET "+column+" = NULL WHERE id = ?", 2).Error)
			closeDB()

			got, err := s.codec.Read(s.ctx, FormatSQL, dest)
			s.Require().Error(err)
			s.Nil(got)
			s.True(dErrors.HasCode(err, dErrors.CodeFormatViolation), err.Error())
			s.Contains(err.Error(), "row with id 2")
			s.Contains(err.Error(), "column "+column+" is NULL")
		})
	}
}

func (s *StoreSuite) TestSQLMissingTable() {
	dest := s.path("blank.db")
	s.Require().NoError(os.WriteFile(dest, nil, 0o600))
	_, err := s.codec.Read(s.ctx, FormatSQL, dest)
	s.True(dErrors.HasCode(err, dErrors.CodeFormatViolation))
}

func (s *StoreSuite) TestMissingSources() {
	for _, f := range []Format{FormatCSV, FormatJSON, FormatSQL} {
		_, err := s.codec.Read(s.ctx, f, s.path("absent."+string(f)))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound), string(f))
		s.Contains(err.Error(), "absent."+string(f))
	}
}

func (s *StoreSuite) TestMissingDestinationDirectory() {
	for _, f := range []Format{FormatCSV, FormatJSON, FormatSQL} {
		err := s.codec.Write(s.ctx, s.records, f, s.path(filepath.Join("nope", "out."+string(f))))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound), string(f))
	}
}

func (s *StoreSuite) TestWriteLines() {
	dest := s.path("ids.jsonl")
	s.Require().NoError(s.codec.WriteLines(s.ctx, s.records, dest))

	f, err := os.Open(dest)
	s.Require().NoError(err)
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r models.Record
		s.Require().NoError(json.Unmarshal(scanner.Bytes(), &r))
		s.Equal(s.records[lines], r)
		lines++
	}
	s.Require().NoError(scanner.Err())
	s.Equal(len(s.records), lines)

	err = s.codec.WriteLines(s.ctx, nil, dest)
	s.True(dErrors.HasCode(err, dErrors.CodeEmptyCollection))
}

func (s *StoreSuite) TestRedact() {
	s.Equal("/tmp/ids.db", Redact("/tmp/ids.db"))
	s.Equal("postgres://app:xxxxx@db:5432/ids", Redact("postgres://app:secret@db:5432/ids"))
}
