package schema

// CoreCityTable represents the 'core.city' table.
//
// CountryID duplicates the country reachable through RegionID so location
// filters can be evaluated on the city row alone. The write side keeps the
// two consistent; readers rely on it without checking.
type CoreCityTable struct {
	Table     string
	ID        string
	Name      string
	RegionID  string
	CountryID string
	Latitude  string
	Longitude string
	Photo     string
}

// CoreCity is the schema definition for core.city
var CoreCity = CoreCityTable{
	Table:     "core.city",
	ID:        "id",
	Name:      "name",
	RegionID:  "regionid",
	CountryID: "countryid",
	Latitude:  "latitude",
	Longitude: "longitude",
	Photo:     "photo",
}

func (t CoreCityTable) Columns() []string {
	return []string{t.ID, t.Name, t.RegionID, t.CountryID, t.Latitude, t.Longitude, t.Photo}
}
