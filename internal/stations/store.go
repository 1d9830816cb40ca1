package stations

// Store is an ordered collection of address to station mappings keyed by address.
type Store interface {
	All() ([]FireStation, error)
	Lookup(address string) (*FireStation, error)
	Add(fireStation FireStation) error
	Update(address string, station int) error
	Delete(address string) error
	// DeleteStation removes every mapping of station and returns how many were removed.
	DeleteStation(station int) (int, error)
	Persist() error
	Ping() error
}
