package kaat

import (
	"strings"

	"github.com/move-sure/ss-transport-sub002/models"
)

// SettledCodes is the set of gr numbers already covered by some settlement of
// the challan. Codes are normalized (trimmed, uppercased) before the set is
// consulted or extended.
type SettledCodes map[string]struct{}

// NormalizeGRNo is the canonical form used for deduplication.
func NormalizeGRNo(grNo string) string {
	return strings.ToUpper(strings.TrimSpace(grNo))
}

func NewSettledCodes(settlements []*models.Settlement) SettledCodes {
	s := make(SettledCodes)
	for _, st := range settlements {
		for _, gr := range st.GRNumbers {
			s.Add(gr)
		}
	}
	return s
}

func SettledFromCodes(codes []string) SettledCodes {
	s := make(SettledCodes, len(codes))
	for _, c := range codes {
		s.Add(c)
	}
	return s
}

func (s SettledCodes) Add(grNo string) {
	if k := NormalizeGRNo(grNo); k != "" {
		s[k] = struct{}{}
	}
}

func (s SettledCodes) Contains(grNo string) bool {
	_, ok := s[NormalizeGRNo(grNo)]
	return ok
}

func eqFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// matchesCarrier checks one consignment against one sub-operator. The
// criteria are OR-ed and unranked: a city-only match counts the same as an
// exact GST match.
func matchesCarrier(c *models.Consignment, carrier *models.Carrier) bool {
	if c.TransportGST != nil && carrier.GSTNo != nil &&
		strings.TrimSpace(*carrier.GSTNo) != "" && eqFold(*c.TransportGST, *carrier.GSTNo) {
		return true
	}
	if c.TransportName != nil && strings.TrimSpace(carrier.TransportName) != "" &&
		eqFold(*c.TransportName, carrier.TransportName) {
		return true
	}
	if c.ToCityID != nil && carrier.CityID != nil && *c.ToCityID == *carrier.CityID {
		return true
	}
	// fallback for consignments lacking direct carrier data: resolve the
	// destination city code against the sub-operator's home city
	if c.City != nil && carrier.CityName != "" && eqFold(c.City.CityName, carrier.CityName) {
		return true
	}
	return false
}

// MatchGroup returns the consignments attributable to the admin group. The
// settled-code exclusion runs first, unconditionally, before any identity
// check: it is the single global deduplication guard.
func MatchGroup(consignments []*models.Consignment, admin *models.AdminGroup, settled SettledCodes) []*models.Consignment {
	var matched []*models.Consignment
	for _, c := range consignments {
		if settled.Contains(c.GRNo) {
			continue
		}
		for i := range admin.Carriers {
			if matchesCarrier(c, &admin.Carriers[i]) {
				matched = append(matched, c)
				break
			}
		}
	}
	return matched
}
