package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukas-hzb/geometa/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		desc  string
		note  string
		want  []model.Tag
	}{
		{
			name: "bollards and poles",
			desc: "a white bollard next to a wooden pole",
			want: []model.Tag{model.TagBollards, model.TagPoles},
		},
		{
			name: "vehicle blur is not a camera observation",
			desc: "Car roof is often blurred in this region",
			want: []model.Tag{model.TagArchitecture},
		},
		{
			name: "vehicle after the blur word",
			desc: "the blur covers the scooter",
			want: []model.Tag{model.TagCars},
		},
		{
			name: "image blur is a camera observation",
			desc: "Blurred images are common",
			want: []model.Tag{model.TagCamera},
		},
		{
			name: "vehicle blur still allows later camera triggers",
			desc: "the car is blurred and there is a smudge",
			want: []model.Tag{model.TagCamera},
		},
		{
			name: "tectonic plates are not licence plates",
			desc: "plates of tectonic origin",
			want: []model.Tag{},
		},
		{
			name: "dirt on the lens is not soil",
			desc: "dirty camera lens",
			want: []model.Tag{model.TagCamera},
		},
		{
			name: "dusty roads",
			desc: "dusty road through the steppe",
			want: []model.Tag{model.TagSoil, model.TagRoad},
		},
		{
			name: "generation tied to a vehicle",
			desc: "gen 3 car",
			want: []model.Tag{},
		},
		{
			name: "generation coverage",
			desc: "gen 3 coverage only",
			want: []model.Tag{model.TagCamera},
		},
		{
			name: "output follows vocabulary order",
			desc: "Road signs near the trees",
			want: []model.Tag{model.TagPlants, model.TagSigns, model.TagRoad},
		},
		{
			name:  "title and note are included",
			title: "Cyrillic",
			note:  "see the silo",
			want:  []model.Tag{model.TagLanguage, model.TagStructures},
		},
		{
			name: "words are matched whole",
			desc: "polesie",
			want: []model.Tag{},
		},
		{
			name: "empty input",
			want: []model.Tag{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.title, tt.desc, tt.note)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_EachTagOnce(t *testing.T) {
	got := Classify("Pole", "poles, utility pole, lamp post, power lines and insulators", "pole")
	assert.Equal(t, []model.Tag{model.TagPoles}, got)
}

func TestClassify_BollardAndPoleBothPresent(t *testing.T) {
	got := Classify("", "bollard and pole", "")
	assert.Contains(t, got, model.TagBollards)
	assert.Contains(t, got, model.TagPoles)

	seen := map[model.Tag]int{}
	for _, tag := range got {
		seen[tag]++
	}
	for tag, n := range seen {
		assert.Equal(t, 1, n, "tag %q repeated", tag)
	}
}

func TestClassify_InVocabularyAndDeterministic(t *testing.T) {
	desc := "Black and white bollards, yellow plates, Cyrillic signs, birch trees, " +
		"wooden poles, concrete houses, dirt road, gen 2 camera, silos, white pickup"
	first := Classify("Everything", desc, "NOTE")

	assert.Len(t, first, 12)
	for _, tag := range first {
		assert.True(t, model.ValidTag(tag), "unexpected tag %q", tag)
	}
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, Classify("Everything", desc, "NOTE"))
	}
}

func TestVocabulary_MatchesModel(t *testing.T) {
	assert.Equal(t, model.Tags(), Vocabulary())
}
