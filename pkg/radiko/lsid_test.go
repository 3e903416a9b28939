package radiko

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLSID(t *testing.T) {
	lsidShape := regexp.MustCompile(`^[0-9a-f]{32}$`)

	lsid := newLSID()
	assert.Regexp(t, lsidShape, lsid)

	// The service only checks presence and shape, but the identifier
	// should still be unique per generation.
	assert.NotEqual(t, lsid, newLSID())
}
