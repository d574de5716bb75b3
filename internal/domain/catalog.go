package domain

import "strings"

// AllCourts is the court filter sentinel that disables court and district filtering.
const AllCourts = "All Courts"

// Courts lists the selectable court filters, sentinel first.
var Courts = []string{
	AllCourts,
	"Supreme Court",
	"Allahabad High Court",
	"Andhra Pradesh High Court",
	"Bombay High Court",
	"Calcutta High Court",
	"Chhattisgarh High Court",
	"Delhi High Court",
	"Gauhati High Court",
	"Gujarat High Court",
	"Himachal Pradesh High Court",
	"Jammu & Kashmir and Ladakh High Court",
	"Jharkhand High Court",
	"Karnataka High Court",
	"Kerala High Court",
	"Madhya Pradesh High Court",
	"Madras High Court",
	"Manipur High Court",
	"Meghalaya High Court",
	"Orissa High Court",
	"Patna High Court",
	"Punjab & Haryana High Court",
	"Rajasthan High Court",
	"Sikkim High Court",
	"Telangana High Court",
	"Tripura High Court",
	"Uttarakhand High Court",
}

// Districts lists the districts offered as a title filter.
var Districts = []string{
	"Gurgaon", "Rewari", "Pune", "Mumbai", "Bangalore", "Chennai", "Delhi",
	"Lucknow", "Hyderabad", "Kolkata", "Jaipur", "Ahmedabad", "Bhopal",
	"Patna", "Indore", "Kanpur",
}

// IsKnownCourt reports whether court is one of Courts (case-insensitive).
func IsKnownCourt(court string) bool {
	_, ok := CanonicalCourt(court)
	return ok
}

// CanonicalCourt maps user input onto the catalog spelling.
func CanonicalCourt(court string) (string, bool) {
	court = strings.TrimSpace(court)
	for _, c := range Courts {
		if strings.EqualFold(c, court) {
			return c, true
		}
	}
	return "", false
}

// DetectDistrict returns the first district mentioned in keyword, or "".
func DetectDistrict(keyword string) string {
	lower := strings.ToLower(keyword)
	if lower == "" {
		return ""
	}
	for _, d := range Districts {
		if strings.Contains(lower, strings.ToLower(d)) {
			return d
		}
	}
	return ""
}
