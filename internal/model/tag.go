package model

// Tag is a topical label for the kind of visual feature a meta discusses.
type Tag = string

// Tag vocabulary in declaration order. TagSet output follows this order.
const (
	TagPlants       Tag = "plants"
	TagBollards     Tag = "bollards"
	TagPoles        Tag = "poles"
	TagSigns        Tag = "signs"
	TagLanguage     Tag = "language"
	TagPlates       Tag = "plates"
	TagCars         Tag = "cars"
	TagArchitecture Tag = "architecture"
	TagSoil         Tag = "soil"
	TagRoad         Tag = "road"
	TagCamera       Tag = "camera"
	TagStructures   Tag = "structures"
)

const tagCount = 12

var vocabulary = [tagCount]Tag{
	TagPlants,
	TagBollards,
	TagPoles,
	TagSigns,
	TagLanguage,
	TagPlates,
	TagCars,
	TagArchitecture,
	TagSoil,
	TagRoad,
	TagCamera,
	TagStructures,
}

// Tags returns the tag vocabulary in declaration order.
func Tags() []Tag {
	out := make([]Tag, tagCount)
	copy(out, vocabulary[:])
	return out
}

// ValidTag reports whether t belongs to the vocabulary.
func ValidTag(t Tag) bool {
	return tagRank(t) >= 0
}

func tagRank(t Tag) int {
	for i, v := range vocabulary {
		if v == t {
			return i
		}
	}
	return -1
}

// TagSet is an ordered, duplicate-free collection of vocabulary tags.
// The zero value is empty and ready to use.
type TagSet struct {
	seen [tagCount]bool
}

// Add inserts t. Duplicates and out-of-vocabulary values are ignored;
// the return value reports whether t was newly added.
func (s *TagSet) Add(t Tag) bool {
	i := tagRank(t)
	if i < 0 || s.seen[i] {
		return false
	}
	s.seen[i] = true
	return true
}

// Has reports whether t is in the set.
func (s *TagSet) Has(t Tag) bool {
	i := tagRank(t)
	return i >= 0 && s.seen[i]
}

// Len returns the number of tags in the set.
func (s *TagSet) Len() int {
	n := 0
	for _, ok := range s.seen {
		if ok {
			n++
		}
	}
	return n
}

// Slice returns the tags in vocabulary order. It never returns nil.
func (s *TagSet) Slice() []Tag {
	out := make([]Tag, 0, s.Len())
	for i, ok := range s.seen {
		if ok {
			out = append(out, vocabulary[i])
		}
	}
	return out
}

// EqualTags reports whether a and b hold the same tags in the same order.
func EqualTags(a, b []Tag) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
