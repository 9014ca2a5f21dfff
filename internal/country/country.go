// Package country maps guide country names to ISO 3166-1 alpha-2 codes.
package country

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	tm "github.com/lukas-hzb/geometa/internal/textmatch"
)

// Unknown is returned for an empty name.
const Unknown = "??"

// codes is keyed by the folded, lower-cased guide name. Territories the
// guide lists separately share their parent's code.
var codes = map[string]string{
	"alaska": "US", "albania": "AL", "american samoa": "AS", "andorra": "AD", "antarctica": "AQ",
	"argentina": "AR", "australia": "AU", "austria": "AT", "azores": "PT", "bangladesh": "BD",
	"belarus": "BY", "belgium": "BE", "bermuda": "BM", "bhutan": "BT", "bolivia": "BO",
	"botswana": "BW", "brazil": "BR", "british indian ocean territory": "IO", "bulgaria": "BG",
	"cambodia": "KH", "canada": "CA", "chile": "CL", "china": "CN", "christmas island": "CX",
	"cocos islands": "CC", "colombia": "CO", "costa rica": "CR", "croatia": "HR", "curacao": "CW",
	"cyprus": "CY", "czechia": "CZ", "denmark": "DK", "dominican republic": "DO", "ecuador": "EC",
	"egypt": "EG", "estonia": "EE", "eswatini": "SZ", "falkland islands": "FK", "faroe islands": "FO",
	"finland": "FI", "france": "FR", "germany": "DE", "ghana": "GH", "gibraltar": "GI",
	"greece": "GR", "greenland": "GL", "guam": "GU", "guatemala": "GT", "hawaii": "US",
	"hong kong": "HK", "hungary": "HU", "iceland": "IS", "india": "IN", "indonesia": "ID",
	"iraq": "IQ", "ireland": "IE", "isle of man": "IM", "israel & the west bank": "IL", "italy": "IT",
	"japan": "JP", "jersey": "JE", "jordan": "JO", "kazakhstan": "KZ", "kenya": "KE",
	"kyrgyzstan": "KG", "laos": "LA", "latvia": "LV", "lebanon": "LB", "lesotho": "LS",
	"liechtenstein": "LI", "lithuania": "LT", "luxembourg": "LU", "macau": "MO", "madagascar": "MG",
	"madeira": "PT", "malaysia": "MY", "mali": "ML", "malta": "MT", "martinique": "MQ",
	"mexico": "MX", "monaco": "MC", "mongolia": "MN", "montenegro": "ME", "namibia": "NA",
	"nepal": "NP", "netherlands": "NL", "new zealand": "NZ", "nigeria": "NG", "north macedonia": "MK",
	"northern mariana islands": "MP", "norway": "NO", "oman": "OM", "pakistan": "PK", "panama": "PA",
	"peru": "PE", "philippines": "PH", "pitcairn islands": "PN", "poland": "PL", "portugal": "PT",
	"puerto rico": "PR", "qatar": "QA", "reunion": "RE", "romania": "RO", "russia": "RU",
	"rwanda": "RW", "saint pierre and miquelon": "PM", "san marino": "SM", "senegal": "SN",
	"serbia": "RS", "singapore": "SG", "slovakia": "SK", "slovenia": "SI", "south africa": "ZA",
	"south georgia & sandwich islands": "GS", "south korea": "KR", "spain": "ES", "sri lanka": "LK",
	"svalbard": "SJ", "sweden": "SE", "switzerland": "CH", "sao tome and principe": "ST",
	"taiwan": "TW", "tanzania": "TZ", "thailand": "TH", "tunisia": "TN", "turkey": "TR",
	"us minor outlying islands": "UM", "us virgin islands": "VI", "uganda": "UG", "ukraine": "UA",
	"united arab emirates": "AE", "united kingdom": "GB", "united states of america": "US",
	"uruguay": "UY", "vanuatu": "VU", "vietnam": "VN",
}

// Code returns the two-letter code for a guide country name. Names missing
// from the table get the initials of their first two words, or their first
// two letters when they are a single word.
func Code(name string) string {
	key := fold(tm.Lower(strings.TrimSpace(name)))
	if key == "" {
		return Unknown
	}
	if c, ok := codes[key]; ok {
		return c
	}
	// OCR'd page titles sometimes read "sdo tome".
	if strings.Contains(key, "sao tome") || strings.Contains(key, "sdo tome") {
		return "ST"
	}

	words := strings.Fields(key)
	if len(words) > 1 {
		a, _ := firstRune(words[0])
		b, _ := firstRune(words[1])
		return strings.ToUpper(string([]rune{a, b}))
	}
	r := []rune(key)
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}

// Known reports whether name is in the code table.
func Known(name string) bool {
	_, ok := codes[fold(tm.Lower(strings.TrimSpace(name)))]
	return ok
}

// fold strips combining marks after canonical decomposition.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
