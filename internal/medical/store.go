package medical

// Store is an ordered collection of medical records keyed by first and last name.
type Store interface {
	All() ([]MedicalRecord, error)
	Lookup(firstName, lastName string) (*MedicalRecord, error)
	Add(record MedicalRecord) error
	Update(firstName, lastName string, record MedicalRecord) error
	Delete(firstName, lastName string) error
	Persist() error
	Ping() error
}
