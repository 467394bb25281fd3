package store

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"idsynth/internal/identity/models"
	dErrors "idsynth/pkg/domain-errors"
)

// TableName is the table SQL export appends to and SQL import reads from.
const TableName = "identities"

// insertBatchSize bounds the rows sent per INSERT statement.
const insertBatchSize = 500

// identityRow is the table layout. date_of_birth is TEXT so that drivers do
// not turn it into a timestamp. Columns are pointers so that NULLs written by
// other tools surface as errors instead of zero values.
type identityRow struct {
	ID          uint    `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName   *string `gorm:"column:first_name;type:text"`
	LastName    *string `gorm:"column:last_name;type:text"`
	Gender      *string `gorm:"column:gender;type:text"`
	DateOfBirth *string `gorm:"column:date_of_birth;type:text"`
	Age         *int64  `gorm:"column:age;type:integer"`
	Country     *string `gorm:"column:country;type:text"`
	Ethnicity   *string `gorm:"column:ethnicity;type:text"`
	Education   *string `gorm:"column:education;type:text"`
	Occupation  *string `gorm:"column:occupation;type:text"`
	Email       *string `gorm:"column:email;type:text"`
	Phone       *string `gorm:"column:phone;type:text"`
	Address     *string `gorm:"column:address;type:text"`
	CreditCard  *string `gorm:"column:credit_card;type:text"`
	SSN         *string `gorm:"column:ssn;type:text"`
}

func (identityRow) TableName() string {
	return TableName
}

func toRow(r models.Record) (identityRow, error) {
	age, err := r.Age.Int64()
	if err != nil {
		return identityRow{}, dErrors.Wrap(err, dErrors.CodeFormatViolation, "age must be an integer for sql export")
	}
	text := func(v string) *string { return &v }
	return identityRow{
		FirstName:   text(r.FirstName),
		LastName:    text(r.LastName),
		Gender:      text(string(r.Gender)),
		DateOfBirth: text(r.DateOfBirth),
		Age:         &age,
		Country:     text(string(r.Country)),
		Ethnicity:   text(string(r.Ethnicity)),
		Education:   text(string(r.Education)),
		Occupation:  text(string(r.Occupation)),
		Email:       text(r.Email),
		Phone:       text(r.Phone),
		Address:     text(r.Address),
		CreditCard:  text(r.CreditCard),
		SSN:         text(r.SSN),
	}, nil
}

// fields returns the row's values keyed by field, or the first NULL column.
func (row identityRow) fields() (map[models.Field]models.Value, error) {
	values := make(map[models.Field]models.Value, len(models.Fields()))
	texts := []struct {
		field models.Field
		value *string
	}{
		{models.FieldFirstName, row.FirstName},
		{models.FieldLastName, row.LastName},
		{models.FieldGender, row.Gender},
		{models.FieldDateOfBirth, row.DateOfBirth},
		{models.FieldCountry, row.Country},
		{models.FieldEthnicity, row.Ethnicity},
		{models.FieldEducation, row.Education},
		{models.FieldOccupation, row.Occupation},
		{models.FieldEmail, row.Email},
		{models.FieldPhone, row.Phone},
		{models.FieldAddress, row.Address},
		{models.FieldCreditCard, row.CreditCard},
		{models.FieldSSN, row.SSN},
	}
	for _, col := range texts {
		if col.value == nil {
			return nil, nullColumn(col.field)
		}
		values[col.field] = models.Text(*col.value)
	}
	if row.Age == nil {
		return nil, nullColumn(models.FieldAge)
	}
	values[models.FieldAge] = models.Integer(*row.Age)
	return values, nil
}

func nullColumn(f models.Field) error {
	return dErrors.New(dErrors.CodeFormatViolation, "column "+string(f)+" is NULL")
}

// IsPostgres reports whether target is a Postgres DSN rather than a SQLite path.
func IsPostgres(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}

// openDB connects to target. SQLite files must already exist unless create is
// set, in which case only their directory must.
func openDB(target string, create bool) (*gorm.DB, func(), error) {
	var dialector gorm.Dialector
	if IsPostgres(target) {
		dialector = postgres.Open(target)
	} else {
		probe := target
		if create {
			probe = filepath.Dir(target)
		}
		if _, err := os.Stat(probe); err != nil {
			return nil, nil, ioError(err, probe)
		}
		dialector = sqlite.Open(target)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open database "+Redact(target))
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open database "+Redact(target))
	}
	return db, func() { _ = sqlDB.Close() }, nil
}

func writeSQL(ctx context.Context, records []models.Record, target string) error {
	rows := make([]identityRow, len(records))
	for i, r := range records {
		row, err := toRow(r)
		if err != nil {
			return err
		}
		rows[i] = row
	}

	db, closeDB, err := openDB(target, true)
	if err != nil {
		return err
	}
	defer closeDB()

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(&identityRow{}); err != nil {
			return err
		}
		return tx.CreateInBatches(rows, insertBatchSize).Error
	})
	if err != nil {
		return dbError(err, target)
	}
	return nil
}

func readSQL(ctx context.Context, target string) ([]models.Record, error) {
	db, closeDB, err := openDB(target, false)
	if err != nil {
		return nil, err
	}
	defer closeDB()

	db = db.WithContext(ctx)
	if !db.Migrator().HasTable(TableName) {
		return nil, dErrors.New(dErrors.CodeFormatViolation, "table "+TableName+" not found in "+Redact(target))
	}

	var rows []identityRow
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeFormatViolation, "failed to read table "+TableName+" from "+Redact(target))
	}

	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		where := "row with id " + strconv.FormatUint(uint64(row.ID), 10)
		values, err := row.fields()
		if err != nil {
			return nil, formatViolation(err, where)
		}
		r, err := models.FromFields(values)
		if err != nil {
			return nil, formatViolation(err, where)
		}
		records = append(records, r)
	}
	return records, nil
}

func dbError(err error, target string) error {
	if os.IsPermission(err) || strings.Contains(err.Error(), "readonly database") {
		return dErrors.Wrap(err, dErrors.CodePermissionDenied, "permission denied: "+Redact(target))
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write table "+TableName+" to "+Redact(target))
}

// Redact drops credentials from DSNs before they reach logs or messages.
func Redact(target string) string {
	if !IsPostgres(target) {
		return target
	}
	u, err := url.Parse(target)
	if err != nil {
		return "postgres://"
	}
	return u.Redacted()
}
