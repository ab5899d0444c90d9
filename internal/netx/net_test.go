package netx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadPresignedURL(t *testing.T) {
	t.Run("success 200 OK", func(t *testing.T) {
		var gotQuery string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			gotQuery = r.URL.RawQuery
			_, _ = io.WriteString(w, `{"bookmarks":[]}`)
		}))
		defer ts.Close()

		body, err := DownloadPresignedURL(context.Background(), ts.URL+"/exports/x.json?X-Amz-Signature=abc")
		require.NoError(t, err)
		assert.Equal(t, `{"bookmarks":[]}`, string(body))
		assert.Equal(t, "X-Amz-Signature=abc", gotQuery)
	})

	t.Run("expired link", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, "<Error><Code>AccessDenied</Code></Error>")
		}))
		defer ts.Close()

		_, err := DownloadPresignedURL(context.Background(), ts.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403 Forbidden")
		assert.Contains(t, err.Error(), "AccessDenied")
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := DownloadPresignedURL(context.Background(), "://nope")
		assert.Error(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := DownloadPresignedURL(ctx, ts.URL)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
