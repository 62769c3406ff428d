package country

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTLDSuffix(t *testing.T) {
	assert.Equal(t, "BR", Resolve("globo.br", "NOTICIAS", "Globo"))
}

func TestResolveAvoidsFalsePositiveSubstring(t *testing.T) {
	assert.Equal(t, "US", Resolve("", "USA Sports", "Paramount"))
}

func TestResolvePrefix(t *testing.T) {
	assert.Equal(t, "US", Resolve("us-east1", "", ""))
}

func TestResolveFallbackUnknown(t *testing.T) {
	assert.Equal(t, Unknown, Resolve("", "Misc", "Something Else"))
}

func TestResolveFreeformDoesNotMatchFR(t *testing.T) {
	assert.NotEqual(t, "FR", Resolve("", "Entertainment", "Freeform Channel"))
}
