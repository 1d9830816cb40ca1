package medical

import "strings"

// MedicalRecord holds the birthdate in MM/dd/yyyy form and the opaque
// "name:dosage" medication and allergy entries of one person.
type MedicalRecord struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Birthdate   string   `json:"birthdate"`
	Medications []string `json:"medications"`
	Allergies   []string `json:"allergies"`
}

func (m MedicalRecord) HasName(firstName, lastName string) bool {
	return strings.EqualFold(m.FirstName, firstName) && strings.EqualFold(m.LastName, lastName)
}

// Clone returns a copy that shares no slices with m.
func (m MedicalRecord) Clone() MedicalRecord {
	m.Medications = cloneStrings(m.Medications)
	m.Allergies = cloneStrings(m.Allergies)
	return m
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append(make([]string, 0, len(values)), values...)
}
