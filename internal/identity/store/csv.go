package store

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"

	"idsynth/internal/identity/models"
	dErrors "idsynth/pkg/domain-errors"
)

func writeCSV(records []models.Record, path string) (err error) {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = ioError(cerr, path)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(models.FieldNames()); err != nil {
		return ioError(err, path)
	}
	row := make([]string, len(models.Fields()))
	for _, r := range records {
		for i, v := range r.Values() {
			row[i] = v.String()
		}
		if err := w.Write(row); err != nil {
			return ioError(err, path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return ioError(err, path)
	}
	return nil
}

// readCSV maps columns by header name, so column order may differ from the
// record order as long as the header names exactly the record fields.
func readCSV(path string) ([]models.Record, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rd := csv.NewReader(f)
	header, err := rd.Read()
	if errors.Is(err, io.EOF) {
		return nil, dErrors.New(dErrors.CodeFormatViolation, "csv file has no header: "+path)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeFormatViolation, "malformed csv header in "+path)
	}
	columns, err := headerFields(header)
	if err != nil {
		return nil, err
	}

	var records []models.Record
	for {
		row, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeFormatViolation, "malformed csv row in "+path)
		}
		values := make(map[models.Field]models.Value, len(columns))
		for i, f := range columns {
			values[f] = models.Text(row[i])
		}
		r, err := models.FromFields(values)
		if err != nil {
			line, _ := rd.FieldPos(0)
			return nil, formatViolation(err, "csv line "+strconv.Itoa(line))
		}
		records = append(records, r)
	}
	return records, nil
}

func headerFields(header []string) ([]models.Field, error) {
	if len(header) != len(models.Fields()) {
		return nil, dErrors.New(dErrors.CodeFormatViolation,
			"csv header has "+strconv.Itoa(len(header))+" columns, expected "+strconv.Itoa(len(models.Fields())))
	}
	seen := make(map[models.Field]bool, len(header))
	columns := make([]models.Field, len(header))
	for i, name := range header {
		f, ok := models.ParseField(name)
		if !ok {
			return nil, dErrors.New(dErrors.CodeFormatViolation, "unknown csv column "+strconv.Quote(name))
		}
		if seen[f] {
			return nil, dErrors.New(dErrors.CodeFormatViolation, "duplicate csv column "+strconv.Quote(name))
		}
		seen[f] = true
		columns[i] = f
	}
	return columns, nil
}
