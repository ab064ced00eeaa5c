package schema

// CoreSongGenreTable represents the 'core.songgenre' join table (public genres)
type CoreSongGenreTable struct {
	Table   string
	SongID  string
	GenreID string
}

// CoreSongGenre is the schema definition for core.songgenre
var CoreSongGenre = CoreSongGenreTable{
	Table:   "core.songgenre",
	SongID:  "songid",
	GenreID: "genreid",
}

func (t CoreSongGenreTable) Columns() []string {
	return []string{t.SongID, t.GenreID}
}
