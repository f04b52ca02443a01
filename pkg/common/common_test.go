package common

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostFormDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "bar", r.PostForm.Get("foo"))
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	form := url.Values{}
	form.Set("foo", "bar")

	resp, err := PostForm(srv.URL, form)
	require.NoError(t, err)

	respMap, ok := resp.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, respMap["success"])
}

func TestPostFormReturnsRawBodyWhenNotJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>checkout</html>"))
	}))
	defer srv.Close()

	resp, err := PostForm(srv.URL, url.Values{})
	require.NoError(t, err)
	assert.Equal(t, "<html>checkout</html>", resp)
}
