package medical

import (
	"sync"

	"github.com/cwkr/safetynet/internal/datafile"
	"go.uber.org/zap"
)

type embeddedStore struct {
	mu      sync.RWMutex
	file    *datafile.File
	records []MedicalRecord
	logger  *zap.Logger
}

func NewEmbeddedStore(file *datafile.File, logger *zap.Logger) (Store, error) {
	var e = &embeddedStore{file: file, logger: logger}
	if file != nil {
		if err := file.Read(datafile.SectionMedicalRecords, &e.records); err != nil {
			return nil, err
		}
		logger.Info("medical records loaded", zap.String("file", file.Name()), zap.Int("count", len(e.records)))
	}
	return e, nil
}

func NewInMemoryStore(records []MedicalRecord) Store {
	var e = &embeddedStore{logger: zap.NewNop()}
	for _, record := range records {
		e.records = append(e.records, record.Clone())
	}
	return e
}

func (e *embeddedStore) All() ([]MedicalRecord, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var records = make([]MedicalRecord, 0, len(e.records))
	for _, record := range e.records {
		records = append(records, record.Clone())
	}
	return records, nil
}

func (e *embeddedStore) indexOf(firstName, lastName string) int {
	for i, record := range e.records {
		if record.HasName(firstName, lastName) {
			return i
		}
	}
	return -1
}

func (e *embeddedStore) Lookup(firstName, lastName string) (*MedicalRecord, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if i := e.indexOf(firstName, lastName); i >= 0 {
		var record = e.records[i].Clone()
		return &record, nil
	}
	return nil, ErrRecordNotFound
}

func (e *embeddedStore) Add(record MedicalRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.records = append([]MedicalRecord{record.Clone()}, e.records...)
	e.logger.Info("medical record added", zap.String("first_name", record.FirstName), zap.String("last_name", record.LastName))
	return e.persist()
}

func (e *embeddedStore) Update(firstName, lastName string, record MedicalRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var i = e.indexOf(firstName, lastName)
	if i < 0 {
		return ErrRecordNotFound
	}
	var updated = record.Clone()
	var existing = &e.records[i]
	existing.Birthdate = updated.Birthdate
	existing.Medications = updated.Medications
	existing.Allergies = updated.Allergies
	e.logger.Info("medical record updated", zap.String("first_name", firstName), zap.String("last_name", lastName))
	return e.persist()
}

func (e *embeddedStore) Delete(firstName, lastName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var i = e.indexOf(firstName, lastName)
	if i < 0 {
		return ErrRecordNotFound
	}
	e.records = append(e.records[:i:i], e.records[i+1:]...)
	e.logger.Info("medical record deleted", zap.String("first_name", firstName), zap.String("last_name", lastName))
	return e.persist()
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
	var records = e.records
	if records == nil {
		records = []MedicalRecord{}
	}
	e.logger.Debug("persisting medical records", zap.Int("count", len(records)))
	return e.file.Write(datafile.SectionMedicalRecords, records)
}

func (e *embeddedStore) Ping() error {
	return nil
}
