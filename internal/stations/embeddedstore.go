package stations

import (
	"strings"
	"sync"

	"github.com/cwkr/safetynet/internal/datafile"
	"go.uber.org/zap"
)

type embeddedStore struct {
	mu           sync.RWMutex
	file         *datafile.File
	fireStations []FireStation
	logger       *zap.Logger
}

func NewEmbeddedStore(file *datafile.File, logger *zap.Logger) (Store, error) {
	var e = &embeddedStore{file: file, logger: logger}
	if file != nil {
		if err := file.Read(datafile.SectionFireStations, &e.fireStations); err != nil {
			return nil, err
		}
		logger.Info("fire stations loaded", zap.String("file", file.Name()), zap.Int("count", len(e.fireStations)))
	}
	return e, nil
}

func NewInMemoryStore(fireStations []FireStation) Store {
	return &embeddedStore{fireStations: append([]FireStation(nil), fireStations...), logger: zap.NewNop()}
}

func (e *embeddedStore) All() ([]FireStation, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var fireStations = make([]FireStation, len(e.fireStations))
	copy(fireStations, e.fireStations)
	return fireStations, nil
}

func (e *embeddedStore) indexOf(address string) int {
	for i, fireStation := range e.fireStations {
		if strings.EqualFold(fireStation.Address, address) {
			return i
		}
	}
	return -1
}

func (e *embeddedStore) Lookup(address string) (*FireStation, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if i := e.indexOf(address); i >= 0 {
		var fireStation = e.fireStations[i]
		return &fireStation, nil
	}
	return nil, ErrStationNotFound
}

func (e *embeddedStore) Add(fireStation FireStation) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.fireStations = append([]FireStation{fireStation}, e.fireStations...)
	e.logger.Info("fire station added", zap.String("address", fireStation.Address), zap.Int("station", fireStation.Station))
	return e.persist()
}

func (e *embeddedStore) Update(address string, station int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var i = e.indexOf(address)
	if i < 0 {
		return ErrStationNotFound
	}
	e.fireStations[i].Station = station
	e.logger.Info("fire station updated", zap.String("address", address), zap.Int("station", station))
	return e.persist()
}

func (e *embeddedStore) Delete(address string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var i = e.indexOf(address)
	if i < 0 {
		return ErrStationNotFound
	}
	e.fireStations = append(e.fireStations[:i:i], e.fireStations[i+1:]...)
	e.logger.Info("fire station deleted", zap.String("address", address))
	return e.persist()
}

func (e *embeddedStore) DeleteStation(station int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var kept = make([]FireStation, 0, len(e.fireStations))
	for _, fireStation := range e.fireStations {
		if fireStation.Station != station {
			kept = append(kept, fireStation)
		}
	}
	var removed = len(e.fireStations) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	e.fireStations = kept
	e.logger.Info("fire station mappings deleted", zap.Int("station", station), zap.Int("count", removed))
	return removed, e.persist()
}

func (e *embeddedStore) Persist() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.persist()
}

func (e *embeddedStore) persist() error {
	if e.file == nil {
		return nil
	}
	var fireStations = e.fireStations
	if fireStations == nil {
		fireStations = []FireStation{}
	}
	e.logger.Debug("persisting fire stations", zap.Int("count", len(fireStations)))
	return e.file.Write(datafile.SectionFireStations, fireStations)
}

func (e *embeddedStore) Ping() error {
	return nil
}
