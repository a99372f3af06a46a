package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextJobSheetNumber(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		prefix   string
		expected string
	}{
		{
			name:     "empty collection starts at one",
			existing: nil,
			prefix:   "FTT",
			expected: "FTT-00001",
		},
		{
			name:     "increments the highest suffix",
			existing: []string{"FTT-00001", "FTT-00002", "FTT-00003"},
			prefix:   "FTT",
			expected: "FTT-00004",
		},
		{
			name:     "gaps are not reused",
			existing: []string{"FTT-00001", "FTT-00042"},
			prefix:   "FTT",
			expected: "FTT-00043",
		},
		{
			name:     "unordered input",
			existing: []string{"FTT-00007", "FTT-00002", "FTT-00005"},
			prefix:   "FTT",
			expected: "FTT-00008",
		},
		{
			name:     "malformed numbers are skipped",
			existing: []string{"FTT-00003", "FTT-garbage", "nodash", ""},
			prefix:   "FTT",
			expected: "FTT-00004",
		},
		{
			name:     "all malformed falls back to one",
			existing: []string{"broken", "FTT-"},
			prefix:   "FTT",
			expected: "FTT-00001",
		},
		{
			name:     "custom prefix",
			existing: []string{"SHOP-00009"},
			prefix:   "SHOP",
			expected: "SHOP-00010",
		},
		{
			name:     "numbers wider than five digits keep counting",
			existing: []string{"FTT-123456"},
			prefix:   "FTT",
			expected: "FTT-123457",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextJobSheetNumber(tt.existing, tt.prefix))
		})
	}
}

func TestNextJobSheetNumber_SequentialMinting(t *testing.T) {
	existing := []string{}
	for i := 0; i < 5; i++ {
		next := NextJobSheetNumber(existing, "FTT")
		existing = append(existing, next)
	}

	assert.Equal(t, []string{"FTT-00001", "FTT-00002", "FTT-00003", "FTT-00004", "FTT-00005"}, existing)
}
