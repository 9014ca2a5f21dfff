// Package tags assigns topical labels to a meta. Labels are independent:
// a meta can carry any number of them, including none.
package tags

import (
	"github.com/lukas-hzb/geometa/internal/model"
	tm "github.com/lukas-hzb/geometa/internal/textmatch"
)

// alternative is one trigger for a tag. vehicleBlur marks the camera
// trigger that is skipped when the blur is about a vehicle.
type alternative struct {
	pattern     *tm.Pattern
	vehicleBlur bool
}

type rule struct {
	tag          model.Tag
	alternatives []alternative
}

func alts(exprs ...string) []alternative {
	out := make([]alternative, len(exprs))
	for i, e := range exprs {
		out[i] = alternative{pattern: tm.MustCompileFold(e)}
	}
	return out
}

var blurPattern = tm.MustCompileFold(`\b(blur|blurred|unblurred)\b`)

// Vehicle words adjacent to a blur word, in either order.
var vehicleBlurPatterns = []*tm.Pattern{
	tm.MustCompileFold(`\b(car|roof|motorbike|motorcycle|scooter)\b.*\b(blur|blurred|unblurred)\b`),
	tm.MustCompileFold(`\b(blur|blurred|unblurred)\b.*\b(car|roof|motorbike|motorcycle|scooter)\b`),
}

// rules follow vocabulary order, which fixes the output order.
var rules = []rule{
	{model.TagPlants, alts(
		`\b(tree|trees|forest|vegetation|grass|grassy|shrub|shrubbery|bush|bushes)\b`,
		`\b(palm|pine|birch|spruce|acacia|eucalyptus|bamboo|cactus|cacti)\b`,
		`\b(farmland|agricultural|crop|crops|field|fields|vineyard|orchard)\b`,
		`\b(green|lush|vegetated|forested|jungle|rainforest)\b`,
		`\b(flower|flowers|plant|plants|garden)\b`,
	)},
	{model.TagBollards, alts(
		`\b(bollard|bollards|delineator|delineators)\b`,
		`\b(road\s+marker|post\s+marker)\b`,
		`\b(kilometer\s+marker|km\s+marker|mile\s+marker)\b`,
		`\b(reflector\s+post|guide\s+post)\b`,
	)},
	{model.TagPoles, alts(
		`\b(pole|poles)\b`,
		`\b(lamp\s*post|lamppost|street\s+lamp|street\s+light)\b`,
		`\b(power\s+line|power\s+lines|electric\s+line)\b`,
		`\b(utility\s+pole|telegraph\s+pole|telephone\s+pole)\b`,
		`\b(insulator|insulators)\b`,
		`\b(wooden\s+pole|concrete\s+pole|metal\s+pole)\b`,
	)},
	{model.TagSigns, alts(
		`\b(sign|signs|signpost|signage)\b`,
		`\b(street\s+sign|road\s+sign|directional\s+sign)\b`,
		`\b(speed\s+limit|stop\s+sign|yield\s+sign)\b`,
		`\b(billboard|placard|notice)\b`,
		`\b(chevron|chevrons)\b`,
		`\b(warning\s+sign|information\s+sign)\b`,
	)},
	{model.TagLanguage, alts(
		`\b(language|alphabet|script)\b`,
		`\b(cyrillic|latin|arabic|devanagari|thai|chinese|japanese|korean|hebrew)\b`,
		`\b(writing|written|text|letter|letters)\b`,
		`\b(bilingual|multilingual|dual\s+script)\b`,
		`\b(english|french|spanish|german|russian|portuguese)\b`,
	)},
	{model.TagPlates, alts(
		`\b(licence\s+plate|license\s+plate|number\s+plate)\b`,
		`\b(plate|plates)\b(?!.*tectonic)`,
		`\b(vehicle\s+registration|car\s+registration)\b`,
		`\b(yellow\s+plate|white\s+plate|blue\s+plate|red\s+plate)\b`,
	)},
	{model.TagCars, alts(
		`\b(pickup\s+truck|pickup)\b`,
		`\b(google\s+car|street\s+view\s+car|coverage\s+car|car\s+blur)\b`,
		`\b(antenna|antennae)\b`,
		`\b(car\s+meta|vehicle\s+meta|car\s+feature)\b`,
		`\b(follow\s+car|chase\s+car|trekker|shampoo)\b`,
		`\b(white\s+car|black\s+car|silver\s+car|white\s+pickup)\b`,
		`\b(4x4|suv|jeep|motorcycle|motorbike|scooter|moped|tuk\s*tuk|rickshaw)\b`,
		`\b(roof\s+rack|rack|bars|ladder)\b`,
	)},
	{model.TagArchitecture, alts(
		`\b(building|buildings|house|houses|home|homes)\b`,
		`\b(architecture|architectural)\b`,
		`\b(stone|brick|concrete|wooden)\s+(building|house|structure)\b`,
		`\b(roof|roofs|rooftop)\b`,
		`\b(tower|towers|church|mosque|temple|cathedral)\b`,
		`\b(colonial|modern|traditional|historic)\b`,
		`\b(fence|fences|wall|walls|gate|gates)\b`,
		`\b(style|styles)\b.*\b(building|house|architecture)\b`,
	)},
	{model.TagSoil, alts(
		`\b(soil|terrain|ground|floor)\b`,
		`\b(dirt|dirty|dust|dusty|mud|muddy|grime|grimy)\b(?!(.*\b(camera|lens)\b))`,
		`\b(roof\s+dust|dirty\s+roof|dusty\s+roof|dirt\s+on\s+roof)\b`,
		`\b(dirt\s+road|dirt\s+track)\b`,
		`\b(muddy|dusty|sandy|rocky)\s+road\b`,
		`\b(splatter|splash|splashed)\b`,
	)},
	{model.TagRoad, alts(
		`\b(road|roads|highway|highways|motorway)\b`,
		`\b(pavement|asphalt|tarmac|gravel|unpaved|paved)\b`,
		`\b(road\s+line|road\s+lines|center\s+line|outer\s+line|yellow\s+line|white\s+line)\b`,
		`\b(lane|lanes|shoulder|median|divider)\b`,
		`\b(intersection|junction|roundabout)\b`,
		`\b(bridge|tunnel|overpass|underpass)\b`,
		`\b(curb|curbs|kerb|kerbs|sidewalk|pavement)\b`,
		`\b(guardrail|guardrails|barrier|barriers)\b`,
		`\b(divided\s+highway|dual\s+carriageway)\b`,
	)},
	{model.TagCamera, cameraAlternatives()},
	{model.TagStructures, alts(
		`\b(silo|silos)\b`,
		`\b(water\s+tower|water\s+towers)\b`,
		`\b(strange\s+house|strange\s+building|strange\s+architecture)\b`,
		`\b(hut|huts|shack|shacks|cabin|cabins)\b`,
		`\b(monument|statue|sculpture)\b`,
		`\b(lighthouse|lighthouses)\b`,
		`\b(hangar|hangars|warehouse|warehouses)\b`,
	)},
}

func cameraAlternatives() []alternative {
	out := alts(
		// type and generation
		`\b(camera|cameras|smallcam|lowcam|shitcam|dashcam)\b`,
		`\b(gen(?:eration)?\s*[1-4])\b(?!.*\b(motorcycle|motorbike|scooter|car|pickup)\b)`,
		`\b(gen(?:eration)?\s*[1-4]|shitcam|smallcam|lowcam)\s+coverage`,
		`\b(copyright|watermark)\b`,
		`\b(panorama|360|fisheye)\b`,
		`\b(tripod|mounted)\b`,
		// image quality
		`\b(quality|resolution|low\s+quality|high\s+quality)\b`,
		`\b(grainy|sharp|overexposed|underexposed)\b`,
		`\b(glare|flare|halo|reflection)\b`,
		`\b(exposure|haze|hazy|foggy)\b`,
	)
	out = append(out, alternative{pattern: blurPattern, vehicleBlur: true})
	return append(out, alts(
		// lens dirt
		`\b(smudge|smear|stain|smudges|smears|stains)\b`,
		`\b(dust\s+on\s+camera|dirt\s+on\s+camera|dirty\s+camera|smudge\s+on\s+camera)\b`,
		`\b(droplet|water\s+on\s+camera)\b`,
		// angle
		`\b(camera\s+angle|camera\s+tilt|camera\s+orientation|camera\s+height|camera\s+position)\b`,
		`\b(tilted|angled)\s+camera\b`,
		`\b(fisheye|wide\s+angle)\b`,
	)...)
}

// Classify returns the tags for a meta in vocabulary order. The result is
// never nil and never holds duplicates.
func Classify(title, description, note string) []model.Tag {
	text := tm.Lower(title + " " + description + " " + note)
	vehicleBlur := tm.AnyMatch(text, vehicleBlurPatterns...)

	var set model.TagSet
	for _, r := range rules {
		for _, a := range r.alternatives {
			if !a.pattern.Match(text) {
				continue
			}
			if a.vehicleBlur && vehicleBlur {
				continue
			}
			set.Add(r.tag)
			break
		}
	}
	return set.Slice()
}

// Vocabulary returns the tags this classifier can emit, in output order.
func Vocabulary() []model.Tag {
	out := make([]model.Tag, len(rules))
	for i, r := range rules {
		out[i] = r.tag
	}
	return out
}
