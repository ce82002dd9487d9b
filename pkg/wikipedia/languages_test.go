package wikipedia

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguages(t *testing.T) {
	langs := Languages()
	assert.Len(t, langs, 341)
	assert.Equal(t, "en", langs[0])
	assert.Contains(t, langs, "zh-yue")
	assert.Contains(t, langs, "be-tarask")

	// Returned slice is a copy.
	langs[0] = "xx"
	assert.Equal(t, "en", Languages()[0])
}

func TestSupportedLanguage(t *testing.T) {
	for _, code := range []string{"en", "simple", "zh-min-nan", "roa-tara", DefaultLanguage} {
		assert.True(t, SupportedLanguage(code), code)
		assert.NoError(t, ValidateLanguage(code), code)
	}
	for _, code := range []string{"", "EN", "xx", " en", "en_GB"} {
		assert.False(t, SupportedLanguage(code), code)
		assert.Equal(t, KindInput, KindOf(ValidateLanguage(code)), code)
	}
}
