package openlibrary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"author key", "/authors/OL23919A", "OL23919A"},
		{"work key", "/works/OL45883W", "OL45883W"},
		{"edition key", "/books/OL7353617M", "OL7353617M"},
		{"language key", "/languages/eng", "eng"},
		{"unknown namespace strips one slash", "/subjects/fantasy", "subjects/fantasy"},
		{"bare key unchanged", "OL23919A", "OL23919A"},
		{"no slash unchanged", "plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.key))
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"iso date", "2005-03-01", "2005-03-01", true},
		{"long form", "March 1, 2005", "2005-03-01", true},
		{"short month", "Mar 1, 2005", "2005-03-01", true},
		{"day first", "1 March 2005", "2005-03-01", true},
		{"month only", "March 2005", "2005-03-01", true},
		{"bare year is ambiguous", "2005", "", false},
		{"empty", "", "", false},
		{"garbage", "not a date", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, FormatDate(got))
			}
		})
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *int
	}{
		{"range takes first", "2020-2023", intPtr(2020)},
		{"embedded in isbn has no boundary", "ISBN9782023123456", nil},
		{"lower bound", "1000", intPtr(1000)},
		{"above range", "2100", nil},
		{"below range", "987", nil},
		{"inside sentence", "First published May 2019 in London", intPtr(2019)},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseYear(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				assert.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func intPtr(v int) *int { return &v }
