package schema

// CoreFundTable represents the 'core.fund' table
type CoreFundTable struct {
	Table string
	ID    string
	Title string
}

// CoreFund is the schema definition for core.fund
var CoreFund = CoreFundTable{
	Table: "core.fund",
	ID:    "id",
	Title: "title",
}

func (t CoreFundTable) Columns() []string {
	return []string{t.ID, t.Title}
}
