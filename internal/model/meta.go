package model

// Section is the coarse workflow stage a meta was scraped from.
type Section = string

const (
	SectionStep1 Section = "Step 1"
	SectionStep2 Section = "Step 2"
	SectionStep3 Section = "Step 3"
)

// CountryGroup is one country page of the guide with its metas in page order.
type CountryGroup struct {
	Country string `json:"country" yaml:"country"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
	Metas   []Meta `json:"metas" yaml:"metas"`
}

// Meta is a single clue record. Title, Scope and Tags are written by the
// annotation passes; the remaining fields come from the scraper.
type Meta struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Country     string `json:"country,omitempty" yaml:"country,omitempty"`
	Section     string `json:"section" yaml:"section"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Note        string `json:"note" yaml:"note"`
	ImageURL    string `json:"imageUrl,omitempty" yaml:"image_url,omitempty"`
	Scope       Scope  `json:"scope" yaml:"scope"`
	Tags        []Tag  `json:"tags" yaml:"tags"`
}

// MetaCount returns the total number of metas across all groups.
func MetaCount(groups []CountryGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Metas)
	}
	return n
}
