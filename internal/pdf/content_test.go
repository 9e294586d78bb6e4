package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTextObjectsRemovesTextBlocks(t *testing.T) {
	content := []byte("q 1 0 0 1 0 0 cm /Im1 Do Q\nBT /F1 12 Tf (Hello World) Tj ET\n0 0 100 50 re f\n")

	got := string(stripTextObjects(content))

	assert.NotContains(t, got, "Hello World")
	assert.NotContains(t, got, "BT")
	assert.NotContains(t, got, "Tj")
	// Image XObject and path painting survive.
	assert.Contains(t, got, "/Im1 Do")
	assert.Contains(t, got, "0 0 100 50 re f")
}

func TestStripTextObjectsMultipleBlocks(t *testing.T) {
	content := []byte("BT (one) Tj ET 1 0 0 RG BT (two) Tj ET 10 10 m 20 20 l S")

	got := string(stripTextObjects(content))

	assert.NotContains(t, got, "one")
	assert.NotContains(t, got, "two")
	assert.Contains(t, got, "1 0 0 RG")
	assert.Contains(t, got, "10 10 m 20 20 l S")
}

func TestStripTextObjectsIgnoresOperatorsInsideStrings(t *testing.T) {
	// "BT" and "ET" inside string literals are data, not operators.
	content := []byte("BT ((BT not an op) \\) still string) Tj ET /GS1 gs")

	got := string(stripTextObjects(content))

	assert.NotContains(t, got, "not an op")
	assert.Contains(t, got, "/GS1 gs")
}

func TestStripTextObjectsHexStrings(t *testing.T) {
	content := []byte("BT <48454C4C4F> Tj ET <001122> 5 0 obj")

	got := string(stripTextObjects(content))

	assert.NotContains(t, got, "48454C4C4F")
	// Hex string outside the text object is preserved.
	assert.Contains(t, got, "<001122>")
}

func TestStripTextObjectsLeavesTokenLookalikes(t *testing.T) {
	// BTx and xET are not the BT/ET operators.
	content := []byte("/BTx cs 1 1 1 sc")

	got := string(stripTextObjects(content))

	assert.Equal(t, "/BTx cs 1 1 1 sc", got)
}

func TestStripTextObjectsEmptyAndTextOnly(t *testing.T) {
	assert.Empty(t, stripTextObjects(nil))

	got := stripTextObjects([]byte("BT /F1 9 Tf (x) Tj ET"))
	assert.Empty(t, string(got))
}
