package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"idsynth/internal/identity/models"
	dErrors "idsynth/pkg/domain-errors"
)

const jsonIndent = "    "

func writeJSON(records []models.Record, path string) (err error) {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = ioError(cerr, path)
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", jsonIndent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return ioError(err, path)
	}
	return nil
}

func readJSON(path string) ([]models.Record, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(bufio.NewReader(f))
	var objects []map[string]json.RawMessage
	if err := dec.Decode(&objects); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeFormatViolation, "json file must hold an array of objects: "+path)
	}
	// null decodes into a nil slice without error.
	if objects == nil {
		return nil, dErrors.New(dErrors.CodeFormatViolation, "json file must hold an array of objects: "+path)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, dErrors.New(dErrors.CodeFormatViolation, "unexpected data after the json array in "+path)
	}

	records := make([]models.Record, 0, len(objects))
	for i, obj := range objects {
		values := make(map[models.Field]models.Value, len(obj))
		for key, raw := range obj {
			var v models.Value
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, formatViolation(err, "json object "+strconv.Itoa(i)+" field "+strconv.Quote(key))
			}
			values[models.Field(key)] = v
		}
		r, err := models.FromFields(values)
		if err != nil {
			return nil, formatViolation(err, "json object "+strconv.Itoa(i))
		}
		records = append(records, r)
	}
	return records, nil
}

func writeLines(records []models.Record, path string) (err error) {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = ioError(cerr, path)
		}
	}()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return ioError(err, path)
		}
	}
	if err := w.Flush(); err != nil {
		return ioError(err, path)
	}
	return nil
}
