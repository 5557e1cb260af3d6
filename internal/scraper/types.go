package scraper

// FieldDelimiter joins multi-value fields (labels, images) into a single cell
const FieldDelimiter = " | "

// Listing is the canonical record for one property advertisement.
// URL and Title are always set; every other field may be empty.
// Numeric fields hold normalized decimal strings with "." as separator.
type Listing struct {
	URL            string `json:"url"`
	Title          string `json:"title"`
	PriceAmount    string `json:"price_amount"`
	Currency       string `json:"currency"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	AreaM2         string `json:"area_m2"`
	YearBuilt      string `json:"year_built"`
	RenovationYear string `json:"renovation_year"`
	IsNewBuilding  string `json:"is_new_building"`
	Floor          string `json:"floor"`
	RoomType       string `json:"room_type"`
	ListingType    string `json:"listing_type"`
	Labels         string `json:"labels"`
	AgencyName     string `json:"agency_name"`
	AgencyURL      string `json:"agency_url"`
	AgencyPhone    string `json:"agency_phone"`
	Images         string `json:"images"`
	BedroomsCount  string `json:"bedrooms_count"`
	BathroomsCount string `json:"bathrooms_count"`
}

// ExportFields returns the column names in export order
func ExportFields() []string {
	return []string{
		"url", "title", "price_amount", "currency", "location",
		"description", "area_m2", "year_built", "renovation_year",
		"is_new_building", "floor", "room_type", "listing_type", "labels",
		"agency_name", "agency_url", "agency_phone", "images",
		"bedrooms_count", "bathrooms_count",
	}
}

// ExportRow returns the listing's values in ExportFields order
func (l Listing) ExportRow() []string {
	return []string{
		l.URL, l.Title, l.PriceAmount, l.Currency, l.Location,
		l.Description, l.AreaM2, l.YearBuilt, l.RenovationYear,
		l.IsNewBuilding, l.Floor, l.RoomType, l.ListingType, l.Labels,
		l.AgencyName, l.AgencyURL, l.AgencyPhone, l.Images,
		l.BedroomsCount, l.BathroomsCount,
	}
}

// Fields holds the values one source document yields for the fields that
// both the summary card and the detail page can provide.
type Fields struct {
	Location       string
	AreaM2         string
	YearBuilt      string
	RenovationYear string
	IsNewBuilding  string
	Floor          string
	RoomType       string
	ListingType    string
	Images         []string
	BedroomsCount  string
	BathroomsCount string
}

// Card is one candidate extracted from an index page, before enrichment.
// URL is always set and normalized; Title falls back to URL.
type Card struct {
	URL         string
	Title       string
	PriceAmount string
	Currency    string
	Description string
	Labels      []string
	AgencyName  string
	AgencyURL   string
	AgencyPhone string
	Summary     Fields
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// uniqueStrings drops duplicates while preserving first-occurrence order
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
