package title

import (
	"strings"

	tm "github.com/lukas-hzb/geometa/internal/textmatch"
)

type headerTitle struct {
	phrase string
	title  string
}

// Section headers scraped as standalone metas, matched in this order.
var headers = []headerTitle{
	{"landscape and vegetation", "Landscape Header"},
	{"roads", "Roads Header"},
	{"infrastructure", "Infrastructure Header"},
	{"car meta", "Car Meta Header"},
	{"towns", "Towns Header"},
	{"other recognizable towns", "Towns Header"},
	{"towns and cities with the southern mirror", "Southern Mirror Towns"},
	{"em-04", "EM-04 Road"},
	{"em-11", "EM-11 Road"},
	{"em-09", "EM-09 Road"},
	{"em-10", "EM-10 Road"},
	{"eo-01", "EO-01 Road"},
	{"eo-02", "EO-02 Road"},
	{"ev-01", "EV-01 Road"},
	{"important notes", "Road Notes"},
}

var (
	overviewRoadPattern = tm.MustCompileFold(`\b(em-?\d+|eo-?\d+|ev-?\d+|a\d+|m\d+|e\d+|p\d+|r\d+)\b`)
	namedRoadPattern    = tm.MustCompileFold(`\b(e-?\d+|m-?\d+|a-?\d+|p-?\d+|r-?\d+|em-?\d+|eo-?\d+)\b`)
	recognizedTown      = tm.MustCompileFold(`\b(city|town)\b.*\brecogni`)
	capitalizedName     = tm.MustCompile(`\b([A-Z][a-z]+(?:-[A-Z][a-z]+)?)\b`)
	parkNamePattern     = tm.MustCompileFold(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s+national\s+park`)
	bridgeNamePattern   = tm.MustCompileFold(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s+bridge`)

	// placePatterns are tried in order; each yields at most one candidate.
	placePatterns = []*tm.Pattern{
		tm.MustCompile(`in\s+([A-Z][a-z]+(?:-[A-Z][a-z]+)?)`),
		tm.MustCompile(`([A-Z][a-z]+(?:-[A-Z][a-z]+)?)\s+is\s+`),
		tm.MustCompile(`around\s+([A-Z][a-z]+(?:-[A-Z][a-z]+)?)`),
	}

	cityStopwords  = map[string]bool{"the": true, "you": true, "this": true, "that": true}
	placeStopwords = map[string]bool{
		"the": true, "you": true, "this": true, "all": true, "some": true,
		"most": true, "here": true, "there": true, "when": true, "like": true,
	}
)

func header(in *input) (string, bool) {
	trimmed := strings.TrimSpace(in.d)
	for _, h := range headers {
		if trimmed == h.phrase ||
			strings.HasPrefix(in.d, h.phrase+"\n") ||
			strings.HasPrefix(in.d, h.phrase+":") {
			return h.title, true
		}
	}
	return "", false
}

func roadOverview(in *input) (string, bool) {
	if !in.all("includes", "tips") {
		return "", false
	}
	if road, ok := overviewRoadPattern.Find(in.d); ok {
		return strings.ToUpper(road) + " Overview", true
	}
	return "Road Overview", true
}

func plates(in *input) (string, bool) {
	if !in.has("licence plate", "license plate") {
		return "", false
	}
	switch {
	case in.all("white", "blue"):
		return "White-Blue Plates", true
	case in.has("yellow"):
		return "Yellow Plates", true
	case in.has("red") && in.has("strip", "stripe"):
		return "Red Strip Plates", true
	case in.all("black", "white"):
		return "Black-White Plates", true
	case in.has("code"):
		return "Plate Region Codes", true
	}
	return "License Plates", true
}

func script(in *input) (string, bool) {
	switch {
	case in.all("cyrillic", "latin"):
		return "Dual Script Alphabet", true
	case in.has("cyrillic"):
		return "Cyrillic Script", true
	case in.has("devanagari"):
		return "Devanagari Script", true
	case in.has("arabic") && in.has("language", "script", "official"):
		return "Arabic Language", true
	case in.has("alphabet") || (in.has("language") && tm.RuneLen(in.d) < 200):
		return "Language Features", true
	}
	return "", false
}

func coverageCar(in *input) (string, bool) {
	switch {
	case in.has("shitcam"):
		return "Shitcam Coverage", true
	case in.has("generation 2", "gen 2"):
		return "Gen 2 Coverage", true
	case in.has("generation 3", "gen 3"):
		return "Gen 3 Coverage", true
	case in.all("pickup", "truck"):
		if in.has("white") {
			return "White Pickup Meta", true
		}
		return "Pickup Truck Meta", true
	case in.has("wire") && in.has("back", "car", "visible"):
		return "Visible Wire Meta", true
	case in.all("dirty", "roof"):
		return "Dirty Roof Meta", true
	case in.has("smudge"):
		if in.has("zigzag") {
			return "Zigzag Smudge Meta", true
		}
		return "Roof Smudge Meta", true
	case in.has("dot") && in.has("roof", "car"):
		return "Roof Dot Meta", true
	case in.all("coating", "dirt"):
		return "Dusty Roof Meta", true
	case in.has("line of dirt"):
		return "Dirt Line Meta", true
	}
	return "", false
}

func crosswalk(in *input) (string, bool) {
	if in.has("pedestrian crossing", "crosswalk") || in.all("crossing", "stripe") {
		return "Striped Crosswalks", true
	}
	return "", false
}

func signs(in *input) (string, bool) {
	if in.has("street sign") {
		switch {
		case in.has("blue"):
			return "Blue Street Signs", true
		case in.has("white"):
			return "White Street Signs", true
		case in.has("qr code"):
			return "QR Code Signs", true
		}
		return "Street Signs", true
	}
	if in.has("qr code") {
		return "QR Code Signs", true
	}
	return "", false
}

func bollards(in *input) (string, bool) {
	if !in.has("bollard") {
		return "", false
	}
	switch {
	case strings.Contains(in.desc, "90") || in.has("angle"):
		return "Angled Bollards", true
	case in.all("black", "white"):
		return "Striped Bollards", true
	}
	return "Road Bollards", true
}

func chevrons(in *input) (string, bool) {
	if !in.has("chevron") {
		return "", false
	}
	switch {
	case in.all("yellow", "black"):
		return "Yellow-Black Chevrons", true
	case in.all("red", "white"):
		return "Red-White Chevrons", true
	}
	return "Road Chevrons", true
}

func trees(in *input) (string, bool) {
	switch {
	case in.has("tree trunk") || in.all("tree", "painted", "white"):
		return "White-Painted Trees", true
	case in.has("birch"):
		return "Birch Forests", true
	case in.has("pine forest", "pine tree", "baltic pine"):
		return "Pine Forests", true
	case in.has("spruce"):
		return "Spruce Forests", true
	}
	return "", false
}

func gasPipes(in *input) (string, bool) {
	if !in.has("gas pipe") {
		return "", false
	}
	if in.has("yellow box") {
		return "Yellow Gas Boxes", true
	}
	return "Urban Gas Pipes", true
}

func ornament(in *input) (string, bool) {
	switch {
	case in.has("koshkar-muiz"):
		return "Koshkar-Muiz Pattern", true
	case in.has("entrance arc"):
		return "Town Entrance Arcs", true
	}
	return "", false
}

func coverageInfo(in *input) (string, bool) {
	switch {
	case in.all("coverage", "limited"):
		return "Limited Coverage Map", true
	case in.all("coverage", "season"):
		return "Seasonal Coverage", true
	case in.has("driving direction"):
		return "Driving Directions", true
	case in.has("area code"):
		return "Area Code Map", true
	}
	return "", false
}

func terrain(in *input) (string, bool) {
	switch {
	case in.has("steppe"):
		switch {
		case in.has("grassy", "green"):
			return "Green Steppes", true
		case in.has("dry"):
			return "Dry Steppes", true
		}
		return "Steppe Landscape", true
	case in.has("desert"):
		if in.has("sandy") {
			return "Sandy Desert", true
		}
		return "Desert Landscape", true
	case in.has("mountain"):
		switch {
		case in.has("snow"):
			return "Snow-Capped Mountains", true
		case in.has("tall"):
			return "Tall Mountains", true
		case in.has("hazy"):
			return "Hazy Mountains", true
		case in.has("tian shan"):
			return "Tian Shan Range", true
		}
		return "Mountain Terrain", true
	case in.has("rolling hill"):
		return "Rolling Hills", true
	case in.all("hilly", "forested"):
		return "Forested Hills", true
	case in.has("hilly"):
		if in.has("dry") {
			return "Dry Hills", true
		}
		return "Hilly Terrain", true
	case in.has("flat") && in.has("agricultural", "agriculture"):
		return "Flat Agricultural Land", true
	case in.all("flat", "empty"):
		return "Open Flat Landscape", true
	case in.all("grassy", "plain"):
		return "Grassy Plains", true
	case in.has("fall colour", "fall color", "autumn"):
		return "Fall Colors", true
	case in.has("snow coverage") || in.all("snow", "coverage"):
		return "Snow Coverage", true
	case in.has("forest fire") || in.all("hazy", "fire"):
		return "Forest Fire Haze", true
	}
	return "", false
}

func roadCode(in *input) (string, bool) {
	code, ok := namedRoadPattern.Find(in.d)
	if !ok {
		return "", false
	}
	road := strings.ReplaceAll(strings.ToUpper(code), "-", "")
	switch {
	case in.has("divided"):
		return road + " Divided Highway", true
	case in.has("construction"):
		return road + " Construction", true
	case in.has("bad", "poor"):
		return road + " Poor Road", true
	case in.has("unpaved"):
		return road + " Unpaved", true
	}
	return road + " Road Features", true
}

func streetFixture(in *input) (string, bool) {
	switch {
	case in.has("pole paint") || in.all("pole", "paint"):
		return "Painted Poles", true
	case in.has("bus stop"):
		return "Bus Stop Designs", true
	case in.has("bus", "buses"):
		return "Regional Buses", true
	case in.has("lamp post", "lamp"):
		switch {
		case in.all("blue", "photocell"):
			return "Blue Photocell Lamps", true
		case in.has("ascending", "3 separate"):
			return "Triple Lamp Design", true
		case in.has("grey", "thin"):
			return "Grey Street Lamps", true
		}
		return "Street Lamps", true
	}
	return "", false
}

func city(in *input) (string, bool) {
	if in.has("capital") {
		return "Capital City Features", true
	}
	if !recognizedTown.Match(in.d) {
		return "", false
	}
	if name, ok := capitalizedName.Find(in.desc); ok && !cityStopwords[tm.Lower(name)] {
		return name + " City", true
	}
	return "City Features", true
}

func water(in *input) (string, bool) {
	switch {
	case in.has("reservoir"):
		return "Reservoir Views", true
	case in.has("lake"):
		if in.has("issyk") {
			return "Issyk Kul Lake", true
		}
		return "Lake Views", true
	}
	return "", false
}

func relief(in *input) (string, bool) {
	switch {
	case in.has("gorge", "canyon"):
		return "River Gorge", true
	case in.has("valley"):
		return "Valley Landscape", true
	}
	return "", false
}

// Overcast and sunny only count on short descriptions.
func weather(in *input) (string, bool) {
	n := tm.RuneLen(in.d)
	switch {
	case in.has("sunset"):
		return "Sunset Coverage", true
	case in.has("overcast") && n < 150:
		return "Overcast Coverage", true
	case in.has("sunny") && n < 100:
		return "Sunny Coverage", true
	case in.all("snowy", "town"):
		return "Snowy Town", true
	}
	return "", false
}

func nationalPark(in *input) (string, bool) {
	if !in.has("national park") {
		return "", false
	}
	if name, ok := parkNamePattern.Find(in.desc); ok {
		return name + " Park", true
	}
	return "National Park", true
}

func landmark(in *input) (string, bool) {
	switch {
	case in.has("universit"):
		return "University Campus", true
	case in.has("bridge"):
		if name, ok := bridgeNamePattern.Find(in.desc); ok {
			return name + " Bridge", true
		}
		return "Bridge Features", true
	case in.has("mediterranean"):
		return "Mediterranean Landscape", true
	case in.has("casino", "gambling"):
		return "Casino District", true
	case in.has("portuguese"):
		return "Portuguese Influence", true
	case in.has("architecture") || in.all("building", "stone"):
		return "Local Architecture", true
	case in.has("sandstone"):
		return "Sandstone Buildings", true
	}
	return "", false
}

func poleMaterial(in *input) (string, bool) {
	if !in.has("pole") {
		return "", false
	}
	switch {
	case in.has("concrete"):
		return "Concrete Poles", true
	case in.has("wooden"):
		return "Wooden Poles", true
	case in.has("metallic", "metal"):
		return "Metal Poles", true
	}
	return "Utility Poles", true
}

func roadLines(in *input) (string, bool) {
	if !in.has("road line", "road marking") {
		return "", false
	}
	switch {
	case in.has("yellow"):
		return "Yellow Road Lines", true
	case in.has("white"):
		return "White Road Lines", true
	}
	return "Road Markings", true
}

func vegetation(in *input) (string, bool) {
	switch {
	case in.all("vegetation", "lot of"):
		return "Dense Vegetation", true
	case in.has("agricultural", "agriculture"):
		return "Agricultural Area", true
	}
	return "", false
}

func coastal(in *input) (string, bool) {
	switch {
	case in.has("coastal", "coast", "ocean"):
		return "Coastal Coverage", true
	case in.has("promenade"):
		return "Coastal Promenade", true
	}
	return "", false
}

func median(in *input) (string, bool) {
	if !in.has("median") {
		return "", false
	}
	switch {
	case in.has("grassy"):
		return "Grassy Median", true
	case in.has("concrete"):
		return "Concrete Barriers", true
	}
	return "Road Median", true
}

func historical(in *input) (string, bool) {
	switch {
	case in.has("ancient", "historical", "ruins"):
		return "Historical Site", true
	case in.has("fortress"):
		return "Historic Fortress", true
	}
	return "", false
}

func guardrail(in *input) (string, bool) {
	if !in.has("guardrail") {
		return "", false
	}
	if in.has("red") {
		return "Red Guardrails", true
	}
	return "Road Guardrails", true
}

// placeName looks for a capitalized place and names the title after it.
// A candidate that is a stopword, or that has no topical refinement on a
// long description, hands over to the next phrasing.
func placeName(in *input) (string, bool) {
	for _, p := range placePatterns {
		place, ok := p.Find(in.desc)
		if !ok || placeStopwords[tm.Lower(place)] {
			continue
		}
		switch {
		case in.has("lamp", "pole"):
			return place + " Poles", true
		case in.has("ridge", "hill"):
			return place + " Hills", true
		case in.has("mountain"):
			return place + " Mountains", true
		case tm.RuneLen(in.d) < 200:
			return place + " Features", true
		}
	}
	return "", false
}

func trafficSide(in *input) (string, bool) {
	switch {
	case in.all("left side", "road"):
		return "Left-Hand Traffic", true
	case in.all("right side", "road"):
		return "Right-Hand Traffic", true
	}
	return "", false
}

func diverse(in *input) (string, bool) {
	if in.has("diverse") && in.has("landscape", "country") {
		return "Diverse Landscapes", true
	}
	return "", false
}

func similarTo(in *input) (string, bool) {
	if !in.has("similar to") {
		return "", false
	}
	switch {
	case in.has("russia"):
		return "Russian Similarities", true
	case in.has("india"):
		return "Indian Similarities", true
	case in.has("turkey", "turkish"):
		return "Turkish Similarities", true
	}
	return "", false
}

// unique matches the country name as given against the lower-cased
// description, so an empty country always matches.
func unique(in *input) (string, bool) {
	if in.has("only") && strings.Contains(in.d, in.country) {
		return "Unique Feature", true
	}
	return "", false
}
