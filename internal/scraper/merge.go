package scraper

import "strings"

// Merge builds the final listing from a card and its detail-page fields.
// Detail values take precedence; summary values fill the gaps. Bedroom and
// bathroom counts exist only on the detail page, so a failed enrichment
// leaves them empty. The result is never mutated afterwards.
func Merge(card Card, detail Fields) Listing {
	return Listing{
		URL:            card.URL,
		Title:          card.Title,
		PriceAmount:    card.PriceAmount,
		Currency:       card.Currency,
		Location:       firstNonEmpty(detail.Location, card.Summary.Location),
		Description:    card.Description,
		AreaM2:         firstNonEmpty(detail.AreaM2, card.Summary.AreaM2),
		YearBuilt:      firstNonEmpty(detail.YearBuilt, card.Summary.YearBuilt),
		RenovationYear: firstNonEmpty(detail.RenovationYear, card.Summary.RenovationYear),
		IsNewBuilding:  firstNonEmpty(detail.IsNewBuilding, card.Summary.IsNewBuilding),
		Floor:          firstNonEmpty(detail.Floor, card.Summary.Floor),
		RoomType:       firstNonEmpty(detail.RoomType, card.Summary.RoomType),
		ListingType:    firstNonEmpty(detail.ListingType, card.Summary.ListingType),
		Labels:         strings.Join(card.Labels, FieldDelimiter),
		AgencyName:     card.AgencyName,
		AgencyURL:      card.AgencyURL,
		AgencyPhone:    card.AgencyPhone,
		Images:         strings.Join(pickImages(detail.Images, card.Summary.Images), FieldDelimiter),
		BedroomsCount:  detail.BedroomsCount,
		BathroomsCount: detail.BathroomsCount,
	}
}

func pickImages(detail, summary []string) []string {
	if len(detail) > 0 {
		return detail
	}
	return summary
}
