package title

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExplain(t *testing.T) {
	tests := []struct {
		name      string
		desc      string
		country   string
		wantTitle string
		wantRule  string
	}{
		{"dual script", "Cyrillic and Latin alphabet used on signs", "", "Dual Script Alphabet", RuleScript},
		{"bare header", "Roads", "", "Roads Header", RuleHeader},
		{"header with colon", "Towns:\nBishkek, Osh", "", "Towns Header", RuleHeader},
		{"longer header after shorter miss", "Towns and cities with the southern mirror", "", "Southern Mirror Towns", RuleHeader},
		{"road overview", "Includes 5 tips for the EM-04", "", "EM-04 Overview", RuleRoadOverview},
		{"road overview without code", "Includes several tips", "", "Road Overview", RuleRoadOverview},
		{"yellow plates", "Licence plates are yellow", "", "Yellow Plates", RulePlates},
		{"roof dot", "Roof dot visible", "", "Roof Dot Meta", RuleCoverageCar},
		{"angled bollards", "Bollards at 90 degrees", "", "Angled Bollards", RuleBollards},
		{"birch", "Birch trees line the road", "", "Birch Forests", RuleTrees},
		{"road code refinement", "The m-41 is unpaved in places", "", "M41 Unpaved", RuleRoadCode},
		{"buses", "Yellow buses run here", "", "Regional Buses", RuleStreetFixture},
		{"capital", "The capital has wide boulevards", "", "Capital City Features", RuleCity},
		{"recognised town", "Karakol town is easy to recognise", "", "Karakol City", RuleCity},
		{"recognised town stopword", "This town can be recognised easily", "", "City Features", RuleCity},
		{"overcast", "Overcast skies", "", "Overcast Coverage", RuleWeather},
		{"named park", "Ala Archa national park is popular", "", "Ala Archa Park", RuleNationalPark},
		{"park name from lowercase words", "visit the national park", "", "visit the Park", RuleNationalPark},
		{"place name", "Common in Bishkek", "", "Bishkek Features", RulePlaceName},
		{"place name after stopword", "Seen in The north while Osh is pretty", "", "Osh Features", RulePlaceName},
		{"left-hand traffic", "Cars drive on the left side of the road", "", "Left-Hand Traffic", RuleTrafficSide},
		{"diverse", "A diverse country with many landscapes", "", "Diverse Landscapes", RuleDiverse},
		{"similar to", "Looks similar to Russia", "", "Russian Similarities", RuleSimilarTo},
		{"unique to country", "Only found here in kyrgyzstan", "kyrgyzstan", "Unique Feature", RuleUnique},
		{"unique without country", "Left german pipe only color", "", "Unique Feature", RuleUnique},
		{"leading words", "Many old stone houses can be seen near the river", "", "Many Old Stone", RuleLeadingWords},
		{"country name is case sensitive", "Only found here in kyrgyzstan", "Kyrgyzstan", "Only Found Here", RuleLeadingWords},
		{"punctuation stripped", "Yurts, (many) of them!", "", "Yurts Many Them", RuleLeadingWords},
		{"unicode capitalization", "ÉGLISE typique du village", "", "Église Typique Du", RuleLeadingWords},
		{"too few words", "Blue roofs", "", Fallback, RuleFallback},
		{"empty", "", "", Fallback, RuleFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := Explain(tt.desc, tt.country)
			assert.Equal(t, tt.wantTitle, got)
			assert.Equal(t, tt.wantRule, rule)
		})
	}
}

func TestExplain_LongOvercastIsNotWeather(t *testing.T) {
	desc := "overcast " + strings.Repeat("x", 150)
	_, rule := Explain(desc, "")
	assert.Equal(t, RuleFallback, rule)
}

func TestSynthesize_NeverEmptyAndDeterministic(t *testing.T) {
	inputs := []string{
		"",
		" \n ",
		"Cyrillic and Latin alphabet used on signs",
		"!!! ??? ...",
		"Ünïcödé text with İstanbul",
	}
	for _, in := range inputs {
		first := Synthesize(in, "Turkey")
		assert.NotEmpty(t, first, "input %q", in)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, Synthesize(in, "Turkey"))
		}
	}
}
