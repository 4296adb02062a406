package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
		wantErr  bool
	}{
		{"Dairy", CategoryDairy, false},
		{"dairy", CategoryDairy, false},
		{"  BEVERAGES ", CategoryBeverages, false},
		{"condiments", CategoryCondiments, false},
		{"", "", true},
		{"Candy", "", true},
		{"Dairy Products", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCategory)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseCategory_EveryCategoryRoundTrips(t *testing.T) {
	assert.Len(t, Categories, 10)
	for _, c := range Categories {
		got, err := ParseCategory(strings.ToUpper(c.String()))
		assert.NoError(t, err)
		assert.Equal(t, c, got)
	}
}
