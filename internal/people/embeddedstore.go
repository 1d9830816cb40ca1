package people

import (
	"sync"

	"github.com/cwkr/safetynet/internal/datafile"
	"go.uber.org/zap"
)

type embeddedStore struct {
	mu      sync.RWMutex
	file    *datafile.File
	persons []Person
	logger  *zap.Logger
}

// NewEmbeddedStore loads the persons section of file into memory. Every successful
// mutation is written back to file. A nil file keeps the store in memory only.
func NewEmbeddedStore(file *datafile.File, logger *zap.Logger) (Store, error) {
	var e = &embeddedStore{file: file, logger: logger}
	if file != nil {
		if err := file.Read(datafile.SectionPersons, &e.persons); err != nil {
			return nil, err
		}
		logger.Info("persons loaded", zap.String("file", file.Name()), zap.Int("count", len(e.persons)))
	}
	return e, nil
}

// NewInMemoryStore returns an embedded store holding persons without any backing file.
func NewInMemoryStore(persons []Person) Store {
	return &embeddedStore{persons: append([]Person(nil), persons...), logger: zap.NewNop()}
}

func (e *embeddedStore) All() ([]Person, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var persons = make([]Person, len(e.persons))
	copy(persons, e.persons)
	return persons, nil
}

func (e *embeddedStore) indexOf(firstName, lastName string) int {
	for i, person := range e.persons {
		if person.HasName(firstName, lastName) {
			return i
		}
	}
	return -1
}

func (e *embeddedStore) Lookup(firstName, lastName string) (*Person, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if i := e.indexOf(firstName, lastName); i >= 0 {
		var person = e.persons[i]
		return &person, nil
	}
	return nil, ErrPersonNotFound
}

func (e *embeddedStore) Add(person Person) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.persons = append([]Person{person}, e.persons...)
	e.logger.Info("person added", zap.String("first_name", person.FirstName), zap.String("last_name", person.LastName))
	return e.persist()
}

func (e *embeddedStore) Update(firstName, lastName string, person Person) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var i = e.indexOf(firstName, lastName)
	if i < 0 {
		return ErrPersonNotFound
	}
	var existing = &e.persons[i]
	existing.Address = person.Address
	existing.City = person.City
	existing.Zip = person.Zip
	existing.Phone = person.Phone
	existing.Email = person.Email
	e.logger.Info("person updated", zap.String("first_name", firstName), zap.String("last_name", lastName))
	return e.persist()
}

func (e *embeddedStore) Delete(firstName, lastName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var i = e.indexOf(firstName, lastName)
	if i < 0 {
		return ErrPersonNotFound
	}
	e.persons = append(e.persons[:i:i], e.persons[i+1:]...)
	e.logger.Info("person deleted", zap.String("first_name", firstName), zap.String("last_name", lastName))
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
	var persons = e.persons
	if persons == nil {
		persons = []Person{}
	}
	e.logger.Debug("persisting persons", zap.Int("count", len(persons)))
	return e.file.Write(datafile.SectionPersons, persons)
}

func (e *embeddedStore) Ping() error {
	return nil
}
