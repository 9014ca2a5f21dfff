// Package scope infers the geographic radius at which a meta's claim holds.
//
// Classification is an ordered cascade: tiers run from the most specific
// claim (a unique landmark) to the broadest, and the first tier that fires
// decides the result. When no textual signal matches, the section the meta
// was scraped from supplies the default.
package scope

import (
	"strings"

	"github.com/lukas-hzb/geometa/internal/model"
	tm "github.com/lukas-hzb/geometa/internal/textmatch"
)

// Tier names reported by Explain.
const (
	TierUniquePhrase    = "unique_phrase"
	TierLandmark        = "landmark"
	TierNationalPattern = "national_pattern"
	TierNationalKeyword = "national_keyword"
	TierRoadLineColor   = "road_line_color"
	TierStep1Usage      = "step1_usage"
	TierRegion          = "region"
	TierLongitude       = "longitude"
	TierHalfCountry     = "half_country"
	TierCityArea        = "city_area"
	TierMountainRange   = "mountain_range"
	TierRoadSegment     = "road_segment"
	TierTownFeature     = "town_feature"
	TierTownTitle       = "town_title"
	TierRoadCode        = "road_code"
	TierTownPart        = "town_part"
	TierHeader          = "header"
	TierInformational   = "informational"
	TierAlongRoad       = "along_road"
	TierShortFound      = "short_found"
	TierSectionDefault  = "section_default"
)

// input carries the raw fields and their lower-cased forms for one record.
type input struct {
	title   string
	desc    string
	section string
	d       string // lower-cased description
	t       string // lower-cased title
}

type tier struct {
	name  string
	apply func(in *input) (model.Scope, bool)
}

// when adapts a predicate into a tier body with a fixed result.
func when(result model.Scope, pred func(in *input) bool) func(in *input) (model.Scope, bool) {
	return func(in *input) (model.Scope, bool) {
		if pred(in) {
			return result, true
		}
		return model.ScopeNone, false
	}
}

var (
	uniquePatterns = []*tm.Pattern{
		tm.MustCompileFold(`only found (at|in|near|around)\s+[A-Z]`),
		tm.MustCompileFold(`unique to\s+[A-Z]`),
		tm.MustCompileFold(`exclusively found`),
		tm.MustCompileFold(`the only\s+(place|location|spot)`),
		tm.MustCompileFold(`one of a kind`),
		tm.MustCompileFold(`single\s+(bridge|building|landmark)`),
	}

	landmarkWords = []string{"monument", "statue", "memorial", "landmark", "fortress", "castle", "palace"}

	nationalPatterns = []*tm.Pattern{
		// driving side
		tm.MustCompileFold(`(drives?|driving)\s+on\s+the\s+(left|right)`),
		tm.MustCompileFold(`(left|right)[-\s]hand\s+traffic`),
		tm.MustCompileFold(`(left|right)\s+side\s+of\s+the\s+road`),
		// plates
		tm.MustCompileFold(`(licence|license)\s+plate`),
		tm.MustCompileFold(`plates?\s+(are|is)\s+(generally|typically|usually|commonly)`),
		// language
		tm.MustCompileFold(`official\s+language`),
		tm.MustCompileFold(`the\s+language\s+(is|in)`),
		tm.MustCompileFold(`(alphabet|script)\s+(is|uses?)`),
		// currency
		tm.MustCompileFold(`(currency|money)\s+(is|in)`),
		// distribution
		tm.MustCompileFold(`(can\s+be\s+)?found\s+(throughout|across|all\s+over)\s+(the\s+)?country`),
		tm.MustCompileFold(`(everywhere|anywhere)\s+in\s+\w+`),
		tm.MustCompileFold(`in\s+all\s+(parts|regions|areas)\s+of`),
		tm.MustCompileFold(`(common|typical|standard)\s+(throughout|across)\s+\w+`),
		tm.MustCompileFold(`(generally|typically|usually)\s+use[sd]?\s+(yellow|white|blue|red|green)`),
		tm.MustCompileFold(`all\s+(roads?|coverage)\s+in\s+\w+`),
		tm.MustCompileFold(`\w+\s+(primarily|mainly|mostly)\s+uses?`),
	}

	nationalKeywords = []string{
		"licence plate", "license plate",
		"drives on the left", "drives on the right",
		"left-hand traffic", "right-hand traffic",
		"official language",
		"the coverage in",
		"google car", "pickup truck",
	}

	regionalQualifiers = []string{"north", "south", "east", "west", "region", "coast", "area"}

	step1UsagePhrases = []string{"can be", "are used", "typically use", "primarily use", "generally"}

	regionPatterns = []*tm.Pattern{
		tm.MustCompileFold(`(northern|southern|eastern|western|central)\s+(part|half|portion|region|area)`),
		tm.MustCompileFold(`(the\s+)?(north|south|east|west)\s+of\s+the\s+country`),
		tm.MustCompileFold(`in\s+the\s+(north|south|east|west)(ern)?`),
		tm.MustCompileFold(`(north|south|east|west)\s+of\s+\w+`),
		tm.MustCompileFold(`(coast|coastal)\s+(region|area)`),
		tm.MustCompileFold(`panhandle`),
		tm.MustCompileFold(`region\s+of\s+\w+`),
		tm.MustCompileFold(`\w+\s+region`),
		tm.MustCompileFold(`\w+\s+province`),
		tm.MustCompileFold(`\w+\s+state\b`),
	}

	halfCountryPattern = tm.MustCompileFold(`(entire|whole)\s+(western|eastern|northern|southern)\s+half`)

	roadSegmentPatterns = []*tm.Pattern{
		tm.MustCompileFold(`\b[A-Z]\d+\s+between\s+\w+\s+and\s+\w+`),
		tm.MustCompileFold(`\b[A-Z]\d+\s+(north|south|east|west)\s+of\s+\w+`),
		tm.MustCompileFold(`(road|highway)\s+\w+\s+between`),
		tm.MustCompileFold(`section\s+of\s+(road|highway)?\s*[A-Z]?\d+`),
		tm.MustCompileFold(`stretch\s+of\s+(road|highway)?\s*[A-Z]?\d+`),
	}

	// Town patterns rely on capitalization, so they are case-sensitive.
	townPatterns = []*tm.Pattern{
		tm.MustCompile(`in\s+[A-Z][a-z]+\s+(you|the|there|most)`),
		tm.MustCompile(`[A-Z][a-z]+\s+(is|has|can|features?)`),
		tm.MustCompile(`around\s+[A-Z][a-z]+`),
		tm.MustCompile(`the\s+town\s+of\s+[A-Z]`),
		tm.MustCompile(`the\s+city\s+of\s+[A-Z]`),
		tm.MustCompile(`from\s+[A-Z][a-z]+\s+(you|the)`),
	}

	recognitionWords = []string{"recogni", "distinguish", "identify", "can be seen", "visible", "surround"}

	titleLeadPattern = tm.MustCompile(`^([A-Z][a-z]+(?:[-\s][A-Z][a-z]+)?)\s`)

	titleLeadStoplist = map[string]bool{
		"the": true, "a": true, "an": true, "road": true, "route": true, "highway": true,
		"blue": true, "red": true, "green": true, "yellow": true, "white": true, "black": true,
		"north": true, "south": true, "east": true, "west": true, "left": true, "right": true,
		"gen": true, "main": true, "limited": true, "desert": true, "coastal": true,
		"mountain": true, "flat": true,
	}

	townTitleWords = []string{"city", "town", "view", "grid", "hills", "ridge", "mountain", "feature"}

	roadCodePattern = tm.MustCompile(`\b[ABCDEFM]\d+\b`)

	townPartPatterns = []*tm.Pattern{
		tm.MustCompileFold(`(downtown|centre|center|cbd)\s+of`),
		tm.MustCompileFold(`(part|neighborhood|district)\s+of\s+(the\s+)?(town|city)`),
		tm.MustCompileFold(`(west|east|north|south)ern?\s+part\s+of\s+(the\s+)?(town|city)`),
	}

	headerPhrases = []string{
		"landscape", "roads", "infrastructure", "car meta", "towns",
		"important notes", "overview",
	}

	informationalTitleWords = []string{"map", "header", "overview", "notes"}

	alongRoadPattern = tm.MustCompileFold(`(along|throughout)\s+the\s+road`)
)

// cascade is evaluated top to bottom; the first tier that fires wins.
var cascade = []tier{
	{TierUniquePhrase, when(model.ScopeUnique, func(in *input) bool {
		return tm.AnyMatch(in.desc, uniquePatterns...)
	})},
	{TierLandmark, when(model.ScopeUnique, func(in *input) bool {
		return tm.ContainsAny(in.d, landmarkWords...) &&
			!tm.ContainsAny(in.d, "across the country", "throughout")
	})},
	{TierNationalPattern, when(model.ScopeCountrywide, func(in *input) bool {
		return tm.AnyMatch(in.desc, nationalPatterns...)
	})},
	{TierNationalKeyword, when(model.ScopeCountrywide, func(in *input) bool {
		return tm.ContainsAny(in.d, nationalKeywords...) &&
			!tm.ContainsAny(in.d, regionalQualifiers...)
	})},
	{TierRoadLineColor, when(model.ScopeCountrywide, func(in *input) bool {
		return strings.Contains(in.d, "road") &&
			tm.ContainsAny(in.d, "yellow", "white") &&
			strings.Contains(in.d, "line") &&
			tm.ContainsAny(in.d, "outer", "center", "centre", "middle")
	})},
	{TierStep1Usage, when(model.ScopeCountrywide, func(in *input) bool {
		return in.section == model.SectionStep1 && tm.ContainsAny(in.d, step1UsagePhrases...)
	})},
	{TierRegion, when(model.ScopeRegion, func(in *input) bool {
		return tm.AnyMatch(in.desc, regionPatterns...)
	})},
	{TierLongitude, when(model.ScopeLongitude, func(in *input) bool {
		return tm.ContainsAny(in.d, "longitude", "meridian")
	})},
	{TierHalfCountry, when(model.Scope1000km, func(in *input) bool {
		return halfCountryPattern.Match(in.d)
	})},
	{TierCityArea, when(model.Scope100km, func(in *input) bool {
		return tm.ContainsAny(in.t, "city", "capital") &&
			tm.ContainsAny(in.d, "around", "surrounding", "region")
	})},
	{TierMountainRange, when(model.Scope100km, func(in *input) bool {
		return strings.Contains(in.d, "mountain") &&
			tm.ContainsAny(in.d, "range", "visible from", "can be seen") &&
			!tm.ContainsAny(in.d, "everywhere", "across")
	})},
	{TierRoadSegment, when(model.Scope10km, func(in *input) bool {
		return tm.AnyMatch(in.desc, roadSegmentPatterns...)
	})},
	{TierTownFeature, when(model.Scope10km, func(in *input) bool {
		return tm.AnyMatch(in.desc, townPatterns...) && tm.ContainsAny(in.d, recognitionWords...)
	})},
	{TierTownTitle, when(model.Scope10km, townInTitle)},
	{TierRoadCode, when(model.Scope10km, func(in *input) bool {
		return roadCodePattern.Match(in.desc)
	})},
	{TierTownPart, when(model.Scope1km, func(in *input) bool {
		return tm.AnyMatch(in.desc, townPartPatterns...)
	})},
	{TierHeader, when(model.ScopeNone, func(in *input) bool {
		d, t := strings.TrimSpace(in.d), strings.TrimSpace(in.t)
		for _, h := range headerPhrases {
			if d == h || t == h {
				return true
			}
		}
		return false
	})},
	{TierInformational, when(model.ScopeNone, func(in *input) bool {
		return tm.ContainsAny(in.t, informationalTitleWords...)
	})},
	{TierAlongRoad, when(model.ScopeNone, func(in *input) bool {
		return alongRoadPattern.Match(in.d)
	})},
	{TierShortFound, when(model.ScopeCountrywide, func(in *input) bool {
		return strings.Contains(in.d, "can be found") && tm.RuneLen(in.d) < 100
	})},
}

// townInTitle fires when the title opens with a capitalized place-like name
// that is not a generic term and the title talks about a town feature.
func townInTitle(in *input) bool {
	name, ok := titleLeadPattern.Find(in.title)
	if !ok || titleLeadStoplist[tm.Lower(name)] {
		return false
	}
	return tm.ContainsAny(in.t, townTitleWords...)
}

// sectionDefault is used when no textual tier fires.
func sectionDefault(section string) model.Scope {
	switch section {
	case model.SectionStep1:
		return model.ScopeCountrywide
	case model.SectionStep2:
		return model.ScopeRegion
	case model.SectionStep3:
		return model.Scope10km
	default:
		return model.ScopeNone
	}
}

// Classify returns the scope for a meta. Note is accepted for symmetry with
// the record layout; no tier reads it. The result is always one of
// model.Scopes().
func Classify(title, description, note, section string) model.Scope {
	s, _ := Explain(title, description, note, section)
	return s
}

// Explain is Classify that also reports which tier decided the result.
func Explain(title, description, _ string, section string) (model.Scope, string) {
	in := &input{
		title:   title,
		desc:    description,
		section: section,
		d:       tm.Lower(description),
		t:       tm.Lower(title),
	}
	for _, tr := range cascade {
		if s, ok := tr.apply(in); ok {
			return s, tr.name
		}
	}
	return sectionDefault(section), TierSectionDefault
}
