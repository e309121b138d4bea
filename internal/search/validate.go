package search

import (
	"strconv"
	"strings"
	"time"

	"aerobook/internal/trip"
	"aerobook/pkg/backend"
)

const dateLayout = "2006-01-02"

// validate checks the form before any network call. The returned map is
// field name to inline message; an empty map means the form passes.
func (f *Form) validate() FieldErrors {
	errs := make(FieldErrors)

	switch f.TripType {
	case backend.TripOneWay, backend.TripRound:
		if !validAirportCode(f.From) {
			errs["from"] = "3-letter airport code required"
		}
		if !validAirportCode(f.To) {
			errs["to"] = "3-letter airport code required"
		}
		if !validDate(f.Date) {
			errs["date"] = "departure date required"
		}
		if f.TripType == backend.TripRound && !validDate(f.ReturnDate) {
			errs["returnDate"] = "return date required for round trip"
		}
	case backend.TripMultiCity:
		if len(f.Legs) < 2 {
			errs["legs"] = "multi-city trips need at least 2 legs"
			break
		}
		for i, leg := range f.Legs {
			prefix := "legs[" + strconv.Itoa(i) + "]."
			if !validAirportCode(leg.From) {
				errs[prefix+"from"] = "3-letter airport code required"
			}
			if !validAirportCode(leg.To) {
				errs[prefix+"to"] = "3-letter airport code required"
			}
			if !validDate(leg.Date) {
				errs[prefix+"date"] = "date required"
			}
		}
	default:
		errs["tripType"] = "trip type must be oneway, round or multi"
	}

	if f.Adults < 0 || f.Child < 0 || f.Infant < 0 {
		errs["travelers"] = "traveler counts cannot be negative"
	}

	return errs
}

// normalize builds the SearchParameters echo and the backend payload from a
// validated form. A form with all traveler counts at zero defaults to one
// adult; the infant-per-adult rule is deliberately NOT enforced here, only
// at the wizard's passenger step.
func (f *Form) normalize() (trip.SearchParameters, backend.SearchRequest) {
	travelers := backend.TravelerCounts{Adults: f.Adults, Child: f.Child, Infant: f.Infant}
	if travelers.Total() == 0 {
		travelers.Adults = 1
	}

	travelClass := f.TravelClass
	if travelClass == "" {
		travelClass = "Economy"
	}

	params := trip.SearchParameters{
		TripType:    f.TripType,
		Travelers:   travelers,
		TravelClass: travelClass,
	}
	req := backend.SearchRequest{
		TripType:    f.TripType,
		Travelers:   travelers,
		TravelClass: travelClass,
	}

	if f.TripType == backend.TripMultiCity {
		legs := make([]backend.SearchLeg, len(f.Legs))
		for i, leg := range f.Legs {
			legs[i] = backend.SearchLeg{
				From: strings.ToUpper(strings.TrimSpace(leg.From)),
				To:   strings.ToUpper(strings.TrimSpace(leg.To)),
				Date: leg.Date,
			}
		}
		params.Legs = legs
		req.Legs = legs
		return params, req
	}

	params.From = strings.ToUpper(strings.TrimSpace(f.From))
	params.To = strings.ToUpper(strings.TrimSpace(f.To))
	params.Date = f.Date
	req.From = params.From
	req.To = params.To
	req.Date = f.Date

	if f.TripType == backend.TripRound {
		params.ReturnDate = f.ReturnDate
		req.ReturnDate = f.ReturnDate
	}

	return params, req
}

func validAirportCode(code string) bool {
	code = strings.TrimSpace(code)
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func validDate(date string) bool {
	if date == "" {
		return false
	}
	_, err := time.Parse(dateLayout, date)
	return err == nil
}
