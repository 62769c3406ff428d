package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldFilterDefaults(t *testing.T) {
	opts := Options{}
	assert.True(t, ShouldFilter("HBO Movies", "", opts))
	assert.True(t, ShouldFilter("Radio FM Mix", "", opts))
	assert.False(t, ShouldFilter("BBC News", "", opts))
}

func TestShouldFilterDoesNotFalsePositiveOnSubstring(t *testing.T) {
	// "Paramount" must not be treated as containing the word "AR" etc.
	assert.False(t, ShouldFilter("Paramount Network", "USA Sports", Options{}))
}

func TestShouldFilterConfigurable(t *testing.T) {
	opts := Options{IncludeRadio: true, IncludeAdult: true}
	assert.False(t, ShouldFilter("Radio FM Mix", "", opts))
	assert.False(t, ShouldFilter("XXX Channel", "", opts))
}

func TestShouldFilterDisabledGlobally(t *testing.T) {
	assert.False(t, ShouldFilter("Best Movies 24/7", "", Options{Disabled: true}))
}

func TestShouldFilter247LiteralOnly(t *testing.T) {
	// Open question carried from the spec: "24x7" is deliberately not filtered.
	assert.False(t, ShouldFilter("Sports 24x7", "", Options{}))
	assert.True(t, ShouldFilter("Sports 24/7", "", Options{}))
}
