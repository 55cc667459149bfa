package gmail

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListUnsubscribe(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   []UnsubscribeMethod
	}{
		{
			name:   "single mailto",
			header: "<mailto:unsubscribe@example.com>",
			want:   []UnsubscribeMethod{{Type: "mailto", URL: "mailto:unsubscribe@example.com"}},
		},
		{
			name:   "single https",
			header: "<https://example.com/unsubscribe>",
			want:   []UnsubscribeMethod{{Type: "http", URL: "https://example.com/unsubscribe"}},
		},
		{
			name:   "mailto with query",
			header: "<mailto:unsubscribe@example.com?subject=unsubscribe>",
			want:   []UnsubscribeMethod{{Type: "mailto", URL: "mailto:unsubscribe@example.com?subject=unsubscribe"}},
		},
		{
			name:   "mailto then http",
			header: "<mailto:unsubscribe@example.com>, <https://example.com/unsubscribe>",
			want: []UnsubscribeMethod{
				{Type: "mailto", URL: "mailto:unsubscribe@example.com"},
				{Type: "http", URL: "https://example.com/unsubscribe"},
			},
		},
		{
			name:   "plain http scheme",
			header: "<http://example.com/unsubscribe>",
			want:   []UnsubscribeMethod{{Type: "http", URL: "http://example.com/unsubscribe"}},
		},
		{
			name:   "empty header",
			header: "",
			want:   nil,
		},
		{
			name:   "two http entries",
			header: "<https://example.com/unsub?id=123>, <https://example.com/unsub-alt>",
			want: []UnsubscribeMethod{
				{Type: "http", URL: "https://example.com/unsub?id=123"},
				{Type: "http", URL: "https://example.com/unsub-alt"},
			},
		},
		{
			name:   "whitespace inside brackets",
			header: " < mailto:unsubscribe@example.com > , < https://example.com/unsub > ",
			want: []UnsubscribeMethod{
				{Type: "mailto", URL: "mailto:unsubscribe@example.com"},
				{Type: "http", URL: "https://example.com/unsub"},
			},
		},
		{
			name:   "unknown scheme skipped",
			header: "<ftp://example.com/unsub>, <mailto:unsub@example.com>",
			want:   []UnsubscribeMethod{{Type: "mailto", URL: "mailto:unsub@example.com"}},
		},
		{
			name:   "unterminated bracket ignored",
			header: "<mailto:ok@example.com>, <https://example.com/broken",
			want:   []UnsubscribeMethod{{Type: "mailto", URL: "mailto:ok@example.com"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseListUnsubscribe(tt.header))
		})
	}
}

func TestUnsubscribeViaHTTP(t *testing.T) {
	c := &Client{}

	t.Run("accepted", func(t *testing.T) {
		var gotUA string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		require.NoError(t, c.UnsubscribeViaHTTP(t.Context(), srv.URL))
		assert.Equal(t, "workspace-mcp/1.0", gotUA)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		err := c.UnsubscribeViaHTTP(t.Context(), srv.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("non-http URL rejected", func(t *testing.T) {
		err := c.UnsubscribeViaHTTP(t.Context(), "mailto:unsub@example.com")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid HTTP URL")
	})
}
