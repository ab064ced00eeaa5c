package schema

// CoreCountryTable represents the 'core.country' table
type CoreCountryTable struct {
	Table string
	ID    string
	Name  string
}

// CoreCountry is the schema definition for core.country
var CoreCountry = CoreCountryTable{
	Table: "core.country",
	ID:    "id",
	Name:  "name",
}

func (t CoreCountryTable) Columns() []string {
	return []string{t.ID, t.Name}
}
