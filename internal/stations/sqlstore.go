package stations

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/blockloop/scan/v2"
	"github.com/cwkr/safetynet/internal/sqlutil"
	"go.uber.org/zap"
)

const Schema = `CREATE TABLE IF NOT EXISTS firestations (
	position BIGINT NOT NULL,
	address VARCHAR(200) NOT NULL,
	station INTEGER NOT NULL
)`

const (
	DefaultQuery         = "SELECT address, station FROM firestations ORDER BY position"
	DefaultLookupQuery   = "SELECT address, station FROM firestations WHERE lower(address) = lower($1) ORDER BY position LIMIT 1"
	DefaultInsert        = "INSERT INTO firestations (address, station, position) VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM firestations))"
	DefaultUpdate        = "UPDATE firestations SET station = $2 WHERE lower(address) = lower($1)"
	DefaultDelete        = "DELETE FROM firestations WHERE lower(address) = lower($1)"
	DefaultDeleteStation = "DELETE FROM firestations WHERE station = $1"
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
	s.settings.DeleteStation = s.statement(settings.DeleteStation, DefaultDeleteStation)
	return s, nil
}

func (s *sqlStore) statement(configured, fallback string) string {
	if configured == "" {
		configured = fallback
	}
	return sqlutil.Rebind(s.dbconn.Driver, configured)
}

func (s *sqlStore) All() ([]FireStation, error) {
	var fireStations = []FireStation{}

	s.logger.Debug("SQL", zap.String("query", s.settings.Query))
	if rows, err := s.dbconn.Query(s.settings.Query); err == nil {
		if err := scan.Rows(&fireStations, rows); err != nil {
			s.logger.Error("scan fire stations failed", zap.Error(err))
			return nil, err
		}
	} else {
		s.logger.Error("query for fire stations failed", zap.Error(err))
		return nil, err
	}
	return fireStations, nil
}

func (s *sqlStore) Lookup(address string) (*FireStation, error) {
	var fireStation FireStation

	s.logger.Debug("SQL", zap.String("query", s.settings.LookupQuery), zap.String("address", address))
	if rows, err := s.dbconn.Query(s.settings.LookupQuery, address); err == nil {
		if err := scan.RowStrict(&fireStation, rows); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrStationNotFound
			}
			s.logger.Error("scan fire station failed", zap.Error(err))
			return nil, err
		}
	} else {
		s.logger.Error("query for fire station failed", zap.Error(err))
		return nil, err
	}
	return &fireStation, nil
}

func (s *sqlStore) exec(query string, args ...any) (int64, error) {
	s.logger.Debug("SQL", zap.String("query", query), zap.Any("args", args))
	result, err := s.dbconn.Exec(query, args...)
	if err != nil {
		s.logger.Error("statement failed", zap.String("query", query), zap.Error(err))
		return 0, err
	}
	return result.RowsAffected()
}

func (s *sqlStore) Add(fireStation FireStation) error {
	_, err := s.exec(s.settings.Insert, strings.TrimSpace(fireStation.Address), fireStation.Station)
	return err
}

func (s *sqlStore) Update(address string, station int) error {
	if affected, err := s.exec(s.settings.Update, address, station); err != nil {
		return err
	} else if affected == 0 {
		return ErrStationNotFound
	}
	return nil
}

func (s *sqlStore) Delete(address string) error {
	if affected, err := s.exec(s.settings.Delete, address); err != nil {
		return err
	} else if affected == 0 {
		return ErrStationNotFound
	}
	return nil
}

func (s *sqlStore) DeleteStation(station int) (int, error) {
	affected, err := s.exec(s.settings.DeleteStation, station)
	return int(affected), err
}

func (s *sqlStore) Persist() error {
	return nil
}

func (s *sqlStore) Ping() error {
	return s.dbconn.Ping()
}
