package radiko

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAreaID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `document.write('<span class="JP13">TOKYO JAPAN</span>');`)
	}))
	defer srv.Close()

	areaID, err := resolveAreaID(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "JP13", areaID)
}

func TestResolveAreaIDPatternNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "out of service")
	}))
	defer srv.Close()

	_, err := resolveAreaID(context.Background(), srv.Client(), srv.URL)
	assert.ErrorIs(t, err, ErrPatternNotFound)
}
