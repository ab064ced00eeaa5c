package schema

// CoreGenreTable represents the 'core.genre' table
type CoreGenreTable struct {
	Table string
	ID    string
	Name  string
}

// CoreGenre is the schema definition for core.genre
var CoreGenre = CoreGenreTable{
	Table: "core.genre",
	ID:    "id",
	Name:  "name",
}

func (t CoreGenreTable) Columns() []string {
	return []string{t.ID, t.Name}
}
