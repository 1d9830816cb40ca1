package medical

type StoreSettings struct {
	URI         string `json:"uri,omitempty"`
	Query       string `json:"query,omitempty"`
	LookupQuery string `json:"lookup_query,omitempty"`
	Insert      string `json:"insert,omitempty"`
	Update      string `json:"update,omitempty"`
	Delete      string `json:"delete,omitempty"`
}
