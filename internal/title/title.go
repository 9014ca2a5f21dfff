// Package title synthesizes a short human-readable title for a meta that
// was scraped without one.
//
// Detectors run in a fixed order and the first one that recognizes the
// description supplies the title. Several detectors refine their result
// with colour or shape qualifiers found elsewhere in the text. When nothing
// matches, the title is built from the leading words of the description.
package title

import (
	"strings"
	"unicode"

	tm "github.com/lukas-hzb/geometa/internal/textmatch"
)

// Fallback is returned when no detector fires and the description yields
// no usable words.
const Fallback = "Regional Feature"

// Detector names reported by Explain.
const (
	RuleHeader        = "header"
	RuleRoadOverview  = "road_overview"
	RulePlates        = "plates"
	RuleScript        = "script"
	RuleCoverageCar   = "coverage_car"
	RuleCrosswalk     = "crosswalk"
	RuleSigns         = "signs"
	RuleBollards      = "bollards"
	RuleChevrons      = "chevrons"
	RuleTrees         = "trees"
	RuleUtilities     = "utilities"
	RuleOrnament      = "ornament"
	RuleCoverageInfo  = "coverage_info"
	RuleTerrain       = "terrain"
	RuleRoadCode      = "road_code"
	RuleStreetFixture = "street_fixture"
	RuleCity          = "city"
	RuleWater         = "water"
	RuleRelief        = "relief"
	RuleWeather       = "weather"
	RuleNationalPark  = "national_park"
	RuleLandmark      = "landmark"
	RulePoleMaterial  = "pole_material"
	RuleRoadLines     = "road_lines"
	RuleVegetation    = "vegetation"
	RuleCoastal       = "coastal"
	RuleMedian        = "median"
	RuleHistorical    = "historical"
	RuleGuardrail     = "guardrail"
	RulePlaceName     = "place_name"
	RuleTrafficSide   = "traffic_side"
	RuleDiverse       = "diverse"
	RuleSimilarTo     = "similar_to"
	RuleUnique        = "unique"
	RuleLeadingWords  = "leading_words"
	RuleFallback      = "fallback"
)

// input carries the description in raw and lower-cased form.
type input struct {
	desc    string
	d       string
	country string
}

// has reports whether the lower-cased description contains any of subs.
func (in *input) has(subs ...string) bool {
	return tm.ContainsAny(in.d, subs...)
}

// all reports whether the lower-cased description contains every one of subs.
func (in *input) all(subs ...string) bool {
	for _, s := range subs {
		if !strings.Contains(in.d, s) {
			return false
		}
	}
	return true
}

type detector struct {
	name   string
	detect func(in *input) (string, bool)
}

// Synthesize returns a title for a meta description. The result is never
// empty and depends only on the arguments.
func Synthesize(description, country string) string {
	t, _ := Explain(description, country)
	return t
}

// Explain is Synthesize that also reports which detector produced the title.
func Explain(description, country string) (string, string) {
	in := &input{
		desc:    description,
		d:       tm.Lower(description),
		country: country,
	}
	for _, det := range detectors {
		if t, ok := det.detect(in); ok {
			return t, det.name
		}
	}
	if t, ok := leadingWords(in.desc); ok {
		return t, RuleLeadingWords
	}
	return Fallback, RuleFallback
}

var detectors = []detector{
	{RuleHeader, header},
	{RuleRoadOverview, roadOverview},
	{RulePlates, plates},
	{RuleScript, script},
	{RuleCoverageCar, coverageCar},
	{RuleCrosswalk, crosswalk},
	{RuleSigns, signs},
	{RuleBollards, bollards},
	{RuleChevrons, chevrons},
	{RuleTrees, trees},
	{RuleUtilities, gasPipes},
	{RuleOrnament, ornament},
	{RuleCoverageInfo, coverageInfo},
	{RuleTerrain, terrain},
	{RuleRoadCode, roadCode},
	{RuleStreetFixture, streetFixture},
	{RuleCity, city},
	{RuleWater, water},
	{RuleRelief, relief},
	{RuleWeather, weather},
	{RuleNationalPark, nationalPark},
	{RuleLandmark, landmark},
	{RulePoleMaterial, poleMaterial},
	{RuleRoadLines, roadLines},
	{RuleVegetation, vegetation},
	{RuleCoastal, coastal},
	{RuleMedian, median},
	{RuleHistorical, historical},
	{RuleGuardrail, guardrail},
	{RulePlaceName, placeName},
	{RuleTrafficSide, trafficSide},
	{RuleDiverse, diverse},
	{RuleSimilarTo, similarTo},
	{RuleUnique, unique},
}

var fillerWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "was": true,
	"were": true, "been": true, "can": true, "you": true, "will": true,
	"this": true, "that": true, "these": true, "those": true, "in": true,
	"on": true, "at": true, "to": true, "of": true, "for": true,
}

// leadingWords builds a title from up to three non-filler words among the
// first six. Descriptions shorter than three words are not used.
func leadingWords(desc string) (string, bool) {
	words := strings.Fields(desc)
	if len(words) < 3 {
		return "", false
	}
	if len(words) > 6 {
		words = words[:6]
	}
	var picked []string
	for _, w := range words {
		w = strings.Map(keepWordRune, w)
		if w == "" || fillerWords[tm.Lower(w)] {
			continue
		}
		picked = append(picked, tm.Capitalize(w))
		if len(picked) == 3 {
			break
		}
	}
	if len(picked) == 0 {
		return "", false
	}
	return strings.Join(picked, " "), true
}

func keepWordRune(r rune) rune {
	if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || r == '_' || r == '-' {
		return r
	}
	return -1
}
