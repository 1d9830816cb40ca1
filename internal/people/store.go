package people

// Store is an ordered collection of persons keyed by first and last name.
// All returns a copy that later mutations do not affect.
type Store interface {
	All() ([]Person, error)
	Lookup(firstName, lastName string) (*Person, error)
	Add(person Person) error
	Update(firstName, lastName string, person Person) error
	Delete(firstName, lastName string) error
	Persist() error
	Ping() error
}
