package people

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/blockloop/scan/v2"
	"github.com/cwkr/safetynet/internal/sqlutil"
	"go.uber.org/zap"
)

const Schema = `CREATE TABLE IF NOT EXISTS persons (
	position BIGINT NOT NULL,
	first_name VARCHAR(100) NOT NULL,
	last_name VARCHAR(100) NOT NULL,
	address VARCHAR(200),
	city VARCHAR(100),
	zip VARCHAR(20),
	phone VARCHAR(40),
	email VARCHAR(200)
)`

const (
	DefaultQuery = "SELECT first_name, last_name, COALESCE(address, '') address, COALESCE(city, '') city, " +
		"COALESCE(zip, '') zip, COALESCE(phone, '') phone, COALESCE(email, '') email FROM persons ORDER BY position"
	DefaultLookupQuery = "SELECT first_name, last_name, COALESCE(address, '') address, COALESCE(city, '') city, " +
		"COALESCE(zip, '') zip, COALESCE(phone, '') phone, COALESCE(email, '') email FROM persons " +
		"WHERE lower(first_name) = lower($1) AND lower(last_name) = lower($2) ORDER BY position LIMIT 1"
	DefaultInsert = "INSERT INTO persons (first_name, last_name, address, city, zip, phone, email, position) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, (SELECT COALESCE(MAX(position), 0) + 1 FROM persons))"
	DefaultUpdate = "UPDATE persons SET address = $3, city = $4, zip = $5, phone = $6, email = $7 " +
		"WHERE lower(first_name) = lower($1) AND lower(last_name) = lower($2)"
	DefaultDelete = "DELETE FROM persons WHERE lower(first_name) = lower($1) AND lower(last_name) = lower($2)"
)

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

func (s *sqlStore) All() ([]Person, error) {
	var persons = []Person{}

	s.logger.Debug("SQL", zap.String("query", s.settings.Query))
	if rows, err := s.dbconn.Query(s.settings.Query); err == nil {
		if err := scan.Rows(&persons, rows); err != nil {
			s.logger.Error("scan persons failed", zap.Error(err))
			return nil, err
		}
	} else {
		s.logger.Error("query for persons failed", zap.Error(err))
		return nil, err
	}
	return persons, nil
}

func (s *sqlStore) Lookup(firstName, lastName string) (*Person, error) {
	var person Person

	s.logger.Debug("SQL", zap.String("query", s.settings.LookupQuery), zap.Strings("args", []string{firstName, lastName}))
	if rows, err := s.dbconn.Query(s.settings.LookupQuery, firstName, lastName); err == nil {
		if err := scan.RowStrict(&person, rows); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrPersonNotFound
			}
			s.logger.Error("scan person failed", zap.Error(err))
			return nil, err
		}
	} else {
		s.logger.Error("query for person failed", zap.Error(err))
		return nil, err
	}
	return &person, nil
}

func (s *sqlStore) exec(query string, person Person) (int64, error) {
	s.logger.Debug("SQL", zap.String("query", query), zap.Strings("args", []string{person.FirstName, person.LastName}))
	result, err := s.dbconn.Exec(
		query,
		strings.TrimSpace(person.FirstName),
		strings.TrimSpace(person.LastName),
		strings.TrimSpace(person.Address),
		strings.TrimSpace(person.City),
		strings.TrimSpace(person.Zip),
		strings.TrimSpace(person.Phone),
		strings.TrimSpace(person.Email),
	)
	if err != nil {
		s.logger.Error("statement failed", zap.String("query", query), zap.Error(err))
		return 0, err
	}
	return result.RowsAffected()
}

func (s *sqlStore) Add(person Person) error {
	_, err := s.exec(s.settings.Insert, person)
	return err
}

func (s *sqlStore) Update(firstName, lastName string, person Person) error {
	person.FirstName, person.LastName = firstName, lastName
	if affected, err := s.exec(s.settings.Update, person); err != nil {
		return err
	} else if affected == 0 {
		return ErrPersonNotFound
	}
	return nil
}

func (s *sqlStore) Delete(firstName, lastName string) error {
	s.logger.Debug("SQL", zap.String("query", s.settings.Delete), zap.Strings("args", []string{firstName, lastName}))
	result, err := s.dbconn.Exec(s.settings.Delete, firstName, lastName)
	if err != nil {
		s.logger.Error("delete person failed", zap.Error(err))
		return err
	}
	if affected, err := result.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return ErrPersonNotFound
	}
	return nil
}

// Persist is a no-op, every statement commits on its own.
func (s *sqlStore) Persist() error {
	return nil
}

func (s *sqlStore) Ping() error {
	return s.dbconn.Ping()
}
