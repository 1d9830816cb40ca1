package people

import "strings"

type Person struct {
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Address   string `json:"address" db:"address"`
	City      string `json:"city" db:"city"`
	Zip       string `json:"zip" db:"zip"`
	Phone     string `json:"phone" db:"phone"`
	Email     string `json:"email" db:"email"`
}

// HasName reports whether the person carries the given first and last name, ignoring case.
func (p Person) HasName(firstName, lastName string) bool {
	return strings.EqualFold(p.FirstName, firstName) && strings.EqualFold(p.LastName, lastName)
}
