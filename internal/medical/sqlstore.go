package medical

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/blockloop/scan/v2"
	"github.com/cwkr/safetynet/internal/sqlutil"
	"go.uber.org/zap"
)

const Schema = `CREATE TABLE IF NOT EXISTS medicalrecords (
	position BIGINT NOT NULL,
	first_name VARCHAR(100) NOT NULL,
	last_name VARCHAR(100) NOT NULL,
	birthdate VARCHAR(10),
	medications TEXT,
	allergies TEXT
)`

const (
	DefaultQuery = "SELECT first_name, last_name, COALESCE(birthdate, '') birthdate, COALESCE(medications, '[]') medications, " +
		"COALESCE(allergies, '[]') allergies FROM medicalrecords ORDER BY position"
	DefaultLookupQuery = "SELECT first_name, last_name, COALESCE(birthdate, '') birthdate, COALESCE(medications, '[]') medications, " +
		"COALESCE(allergies, '[]') allergies FROM medicalrecords " +
		"WHERE lower(first_name) = lower($1) AND lower(last_name) = lower($2) ORDER BY position LIMIT 1"
	DefaultInsert = "INSERT INTO medicalrecords (first_name, last_name, birthdate, medications, allergies, position) " +
		"VALUES ($1, $2, $3, $4, $5, (SELECT COALESCE(MAX(position), 0) + 1 FROM medicalrecords))"
	DefaultUpdate = "UPDATE medicalrecords SET birthdate = $3, medications = $4, allergies = $5 " +
		"WHERE lower(first_name) = lower($1) AND lower(last_name) = lower($2)"
	DefaultDelete = "DELETE FROM medicalrecords WHERE lower(first_name) = lower($1) AND lower(last_name) = lower($2)"
)

// recordRow is a medical record as stored, with both lists encoded as JSON text.
type recordRow struct {
	FirstName   string `db:"first_name"`
	LastName    string `db:"last_name"`
	Birthdate   string `db:"birthdate"`
	Medications string `db:"medications"`
	Allergies   string `db:"allergies"`
}

func (r recordRow) record() (MedicalRecord, error) {
	var record = MedicalRecord{FirstName: r.FirstName, LastName: r.LastName, Birthdate: r.Birthdate}
	if err := decodeList(r.Medications, &record.Medications); err != nil {
		return record, fmt.Errorf("medications of %s %s: %w", r.FirstName, r.LastName, err)
	}
	if err := decodeList(r.Allergies, &record.Allergies); err != nil {
		return record, fmt.Errorf("allergies of %s %s: %w", r.FirstName, r.LastName, err)
	}
	return record, nil
}

func decodeList(text string, list *[]string) error {
	*list = []string{}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return json.Unmarshal([]byte(text), list)
}

func encodeList(list []string) string {
	if list == nil {
		list = []string{}
	}
	var bytes, _ = json.Marshal(list)
	return string(bytes)
}

type sqlStore struct {
	dbconn   *sqlutil.DB
	settings StoreSettings
	logger   *zap.Logger
}

func NewSqlStore(dbs map[string]*sqlutil.DB, settings *StoreSettings, logger *zap.Logger) (Store, error) {
	dbconn, err := sqlutil.Open(dbs, settings.URI)
	if err != nil {
		return nil, err
	}
	var s = &sqlStore{dbconn: dbconn, settings: *settings, logger: logger}
	s.settings.Query = s.statement(settings.Query, DefaultQuery)
	s.settings.LookupQuery = s.statement(settings.LookupQuery, DefaultLookupQuery)
	s.settings.Insert = s.statement(settings.Insert, DefaultInsert)
	s.settings.Update = s.statement(settings.Update, DefaultUpdate)
	s.settings.Delete = s.statement(settings.Delete, DefaultDelete)
	return s, nil
}

func (s *sqlStore) statement(configured, fallback string) string {
	if configured == "" {
		configured = fallback
	}
	return sqlutil.Rebind(s.dbconn.Driver, configured)
}

func (s *sqlStore) All() ([]MedicalRecord, error) {
	var rowsRead []recordRow

	s.logger.Debug("SQL", zap.String("query", s.settings.Query))
	if rows, err := s.dbconn.Query(s.settings.Query); err == nil {
		if err := scan.Rows(&rowsRead, rows); err != nil {
			s.logger.Error("scan medical records failed", zap.Error(err))
			return nil, err
		}
	} else {
		s.logger.Error("query for medical records failed", zap.Error(err))
		return nil, err
	}

	var records = make([]MedicalRecord, 0, len(rowsRead))
	for _, row := range rowsRead {
		record, err := row.record()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *sqlStore) Lookup(firstName, lastName string) (*MedicalRecord, error) {
	var row recordRow

	s.logger.Debug("SQL", zap.String("query", s.settings.LookupQuery), zap.Strings("args", []string{firstName, lastName}))
	if rows, err := s.dbconn.Query(s.settings.LookupQuery, firstName, lastName); err == nil {
		if err := scan.RowStrict(&row, rows); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrRecordNotFound
			}
			s.logger.Error("scan medical record failed", zap.Error(err))
			return nil, err
		}
	} else {
		s.logger.Error("query for medical record failed", zap.Error(err))
		return nil, err
	}

	record, err := row.record()
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *sqlStore) exec(query string, record MedicalRecord) (int64, error) {
	s.logger.Debug("SQL", zap.String("query", query), zap.Strings("args", []string{record.FirstName, record.LastName}))
	result, err := s.dbconn.Exec(
		query,
		strings.TrimSpace(record.FirstName),
		strings.TrimSpace(record.LastName),
		strings.TrimSpace(record.Birthdate),
		encodeList(record.Medications),
		encodeList(record.Allergies),
	)
	if err != nil {
		s.logger.Error("statement failed", zap.String("query", query), zap.Error(err))
		return 0, err
	}
	return result.RowsAffected()
}

func (s *sqlStore) Add(record MedicalRecord) error {
	_, err := s.exec(s.settings.Insert, record)
	return err
}

func (s *sqlStore) Update(firstName, lastName string, record MedicalRecord) error {
	record.FirstName, record.LastName = firstName, lastName
	if affected, err := s.exec(s.settings.Update, record); err != nil {
		return err
	} else if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *sqlStore) Delete(firstName, lastName string) error {
	s.logger.Debug("SQL", zap.String("query", s.settings.Delete), zap.Strings("args", []string{firstName, lastName}))
	result, err := s.dbconn.Exec(s.settings.Delete, firstName, lastName)
	if err != nil {
		s.logger.Error("delete medical record failed", zap.Error(err))
		return err
	}
	if affected, err := result.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *sqlStore) Persist() error {
	return nil
}

func (s *sqlStore) Ping() error {
	return s.dbconn.Ping()
}
