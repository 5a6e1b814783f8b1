package cohort

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_Format(t *testing.T) {
	id := NewID()
	assert.Regexp(t, regexp.MustCompile(`^cohort_\d+_[a-z0-9]{7}$`), id)
	assert.NotEqual(t, id, NewID())
}

func TestPalette_IsACopy(t *testing.T) {
	p := Palette()
	assert.Equal(t, palette, p)
	p[0] = "#000000"
	assert.NotEqual(t, p[0], palette[0])
}
