package country

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Kyrgyzstan", "KG"},
		{"  kyrgyzstan ", "KG"},
		{"Curaçao", "CW"},
		{"São Tomé and Príncipe", "ST"},
		{"Sdo Tome and Principe", "ST"},
		{"Israel & the West Bank", "IL"},
		{"Hawaii", "US"},
		{"Madeira", "PT"},
		{"Atlantis Major", "AM"},
		{"Narnia", "NA"},
		{"X", "X"},
		{"Ümlautland", "UM"},
		{"", Unknown},
		{"   ", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.name))
		})
	}
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("Réunion"))
	assert.True(t, Known("RUSSIA"))
	assert.False(t, Known("Narnia"))
}

func TestCode_EveryEntryIsTwoLetters(t *testing.T) {
	for name, code := range codes {
		assert.Len(t, code, 2, name)
		assert.Equal(t, code, Code(name))
	}
}
