package schema

// CoreSongEducationGenreTable represents the 'core.songeducationgenre' join
// table. Any row here moves the song into the education sub-catalogue, which
// the public surface never shows.
type CoreSongEducationGenreTable struct {
	Table   string
	SongID  string
	GenreID string
}

// CoreSongEducationGenre is the schema definition for core.songeducationgenre
var CoreSongEducationGenre = CoreSongEducationGenreTable{
	Table:   "core.songeducationgenre",
	SongID:  "songid",
	GenreID: "genreid",
}

func (t CoreSongEducationGenreTable) Columns() []string {
	return []string{t.SongID, t.GenreID}
}
