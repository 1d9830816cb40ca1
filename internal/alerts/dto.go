package alerts

type BasicPerson struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

type Coverage struct {
	Persons    []BasicPerson `json:"persons"`
	AdultCount int           `json:"numberOfAdults"`
	ChildCount int           `json:"numberOfChildren"`
}

type ChildWithHousehold struct {
	FirstName             string        `json:"firstName"`
	LastName              string        `json:"lastName"`
	Age                   int           `json:"age"`
	OtherHouseholdMembers []BasicPerson `json:"otherHouseholdMembers"`
}

type ResidentWithMedical struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Phone       string   `json:"phone"`
	Age         int      `json:"age"`
	Medications []string `json:"medications"`
	Allergies   []string `json:"allergies"`
}

// Household groups the residents living at one address served by a station.
type Household struct {
	Address   string                `json:"address"`
	Residents []ResidentWithMedical `json:"residents"`
}
