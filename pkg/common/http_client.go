package common

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
)

// PostForm sends a POST request with an x-www-form-urlencoded body.
// The response body is returned decoded as a map when it is JSON, or as
// a raw string otherwise (the gateway answers some calls with HTML).
func PostForm(urlStr string, data url.Values) (interface{}, error) {
	resp, err := http.PostForm(urlStr, data)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result interface{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return string(body), nil
		}
	}
	return result, nil
}
