package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.Equal(t, 7, c.Len())

	svc, ok := c.ByID("haircut")
	require.True(t, ok)
	assert.Equal(t, "Haircut", svc.NameEN)
	assert.Equal(t, 30, svc.DurationMinutes)
	assert.Equal(t, 20, svc.PriceUSD)
}

func TestByIDIsCaseInsensitive(t *testing.T) {
	c := Default()
	svc, ok := c.ByID("  FADE ")
	require.True(t, ok)
	assert.Equal(t, "fade", svc.ID)
}

func TestMatchByEnglishName(t *testing.T) {
	c := Default()

	svc, ok := c.Match("Beard trim")
	require.True(t, ok)
	assert.Equal(t, "beard", svc.ID)

	// Embedded in a longer utterance.
	svc, ok = c.Match("the skin fade please")
	require.True(t, ok)
	assert.Equal(t, "fade", svc.ID)
}

func TestMatchByArabicName(t *testing.T) {
	c := Default()

	svc, ok := c.Match("قص شعر")
	require.True(t, ok)
	assert.Equal(t, "haircut", svc.ID)

	svc, ok = c.Match("صبغة شعر")
	require.True(t, ok)
	assert.Equal(t, "dye", svc.ID)
}

func TestMatchPrefersLongestName(t *testing.T) {
	c := Default()

	// "Haircut + Beard" must not be shadowed by "Haircut".
	svc, ok := c.Match("haircut + beard")
	require.True(t, ok)
	assert.Equal(t, "combo", svc.ID)

	// Menu labels round-trip back to the right service.
	svc, ok = c.Match(c.services[4].Label("ar")) // kids
	require.True(t, ok)
	assert.Equal(t, "kids", svc.ID)
}

func TestMatchPartialNameCompletesToShortest(t *testing.T) {
	c := Default()

	// A prefix of several names resolves to the tightest completion, not
	// the longest.
	svc, ok := c.Match("hair")
	require.True(t, ok)
	assert.Equal(t, "haircut", svc.ID)
}

func TestMatchUnknown(t *testing.T) {
	c := Default()
	_, ok := c.Match("pedicure")
	assert.False(t, ok)
	_, ok = c.Match("   ")
	assert.False(t, ok)
}
