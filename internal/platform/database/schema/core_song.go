package schema

// CoreSongTable represents the 'core.song' table
type CoreSongTable struct {
	Table                string
	ID                   string
	Title                string
	CityID               string
	FundID               string
	IsActive             string
	RecordingDate        string
	Performers           string
	Collectors           string
	SongText             string
	Description          string
	EthnographicDistrict string
	VideoURL             string
	MapPhoto             string
	Comment              string
	Photos               string
	StereoAudio          string
	MultichannelAudio    string
	CreatedAt            string
	UpdatedAt            string
}

// CoreSong is the schema definition for core.song
var CoreSong = CoreSongTable{
	Table:                "core.song",
	ID:                   "id",
	Title:                "title",
	CityID:               "cityid",
	FundID:               "fundid",
	IsActive:             "isactive",
	RecordingDate:        "recordingdate",
	Performers:           "performers",
	Collectors:           "collectors",
	SongText:             "songtext",
	Description:          "description",
	EthnographicDistrict: "ethnographicdistrict",
	VideoURL:             "videourl",
	MapPhoto:             "mapphoto",
	Comment:              "comment",
	Photos:               "photos",
	StereoAudio:          "stereoaudio",
	MultichannelAudio:    "multichannelaudio",
	CreatedAt:            "createdat",
	UpdatedAt:            "updatedat",
}

func (t CoreSongTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.CityID, t.FundID, t.IsActive, t.RecordingDate,
		t.Performers, t.Collectors, t.SongText, t.Description, t.EthnographicDistrict,
		t.VideoURL, t.MapPhoto, t.Comment, t.Photos, t.StereoAudio, t.MultichannelAudio,
		t.CreatedAt, t.UpdatedAt,
	}
}
