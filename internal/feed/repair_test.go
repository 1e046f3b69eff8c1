package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepairer() *Repairer {
	return NewRepairer(NewGenerator("BRL"), testLogger())
}

func TestRepairKeepsValidEntries(t *testing.T) {
	g := NewGenerator("BRL")
	doc := g.Render(testChannel(), g.Entries(sampleProducts()))

	repaired, err := testRepairer().Repair(doc)
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(repaired, "<item>"))
	assert.Contains(t, repaired, "<g:id>101-1001</g:id>")
	assert.Contains(t, repaired, "<title>Test Feed</title>", "channel metadata survives the round trip")
}

func TestRepairDropsEntryWithoutImageLink(t *testing.T) {
	g := NewGenerator("BRL")

	valid := sampleProducts()[1]
	broken := sampleProducts()[0]
	broken.ImageLink = ""

	// Render bypasses the normalizer here, so the broken entry makes
	// it into the document the way a normalizer defect would.
	doc := g.Render(testChannel(), g.Entries([]Product{broken, valid}))

	repaired, err := testRepairer().Repair(doc)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(repaired, "<item>"))
	assert.Contains(t, repaired, "<g:id>102-2001</g:id>")
	assert.NotContains(t, repaired, "<g:id>101-1001</g:id>")
}

func TestRepairDropsEntryWithoutTitle(t *testing.T) {
	g := NewGenerator("BRL")

	entries := g.Entries(sampleProducts())
	entries[0].Title = ""
	entries[1].Title = "  "

	doc := g.Render(testChannel(), entries)

	repaired, err := testRepairer().Repair(doc)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(repaired, "<item>"))
	assert.Contains(t, repaired, "<g:id>102-2001</g:id>")
}

func TestRepairFailsOnMalformedDocument(t *testing.T) {
	_, err := testRepairer().Repair("<rss><channel><item></rss>")
	assert.Error(t, err)
}

func TestParseRoundTripsEntries(t *testing.T) {
	g := NewGenerator("BRL")
	entries := g.Entries(sampleProducts())
	doc := g.Render(testChannel(), entries)

	channel, parsed, err := Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, testChannel(), channel)
	assert.Equal(t, entries, parsed)
}
