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

func TestFetchAuthKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `var player = new RadikoJSPlayer($audio[0], 'pc_html5', 'bcd51d02fa5926a390852e'+'%CONVERT%', {});`)
	}))
	defer srv.Close()

	key, err := fetchAuthKey(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("bcd51d02fa5926a390852e"), key)
}

func TestFetchAuthKeyPatternNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `var player = new SomeOtherPlayer('x');`)
	}))
	defer srv.Close()

	_, err := fetchAuthKey(context.Background(), srv.Client(), srv.URL)
	assert.ErrorIs(t, err, ErrPatternNotFound)
}
