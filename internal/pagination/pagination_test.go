package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantPage   int
		wantSize   int
		wantOffset int
	}{
		{"defaults for zero values", 0, 0, 1, 10, 0},
		{"negative values clamp to defaults", -3, -1, 1, 10, 0},
		{"size capped at 100", 1, 500, 1, 100, 0},
		{"offset follows page", 3, 20, 3, 20, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantSize, p.Size)
			assert.Equal(t, tt.wantOffset, p.Offset())
		})
	}
}

func TestPages(t *testing.T) {
	p := Normalize(1, 10)

	assert.Equal(t, 0, p.Pages(0))
	assert.Equal(t, 1, p.Pages(1))
	assert.Equal(t, 1, p.Pages(10))
	assert.Equal(t, 2, p.Pages(11))
	assert.Equal(t, 3, p.Pages(30))
}
