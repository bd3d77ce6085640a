package users

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoUsersJSON = `{
	"users": [
		{"id": 1, "firstName": "Emily", "lastName": "Johnson", "email": "emily.johnson@x.dummyjson.com", "age": 28, "gender": "female"},
		{"id": 2, "firstName": "Michael", "lastName": "Williams", "email": "michael.williams@x.dummyjson.com", "age": 35}
	],
	"total": 2,
	"skip": 0,
	"limit": 30
}`

func TestFetchAll_HappyPath(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twoUsersJSON))
	}))
	defer ts.Close()

	client := NewHTTPClient(WithBaseURL(ts.URL))
	got, err := client.FetchAll(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, User{ID: 1, FirstName: "Emily", LastName: "Johnson", Email: "emily.johnson@x.dummyjson.com", Age: 28}, got[0])
	assert.Equal(t, 2, got[1].ID)
	assert.Equal(t, "Michael Williams", got[1].FullName())
}

func TestSearch_RequestURL(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantRaw  string
		wantTerm string
	}{
		{name: "plain", query: "john", wantRaw: "q=john", wantTerm: "john"},
		{name: "space", query: "a b", wantRaw: "q=a%20b", wantTerm: "a b"},
		{name: "ampersand", query: "x&y=z", wantRaw: "q=x%26y%3Dz", wantTerm: "x&y=z"},
		{name: "empty", query: "", wantRaw: "q=", wantTerm: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/users/search", r.URL.Path)
				assert.Equal(t, tt.wantRaw, r.URL.RawQuery)
				assert.Equal(t, tt.wantTerm, r.URL.Query().Get("q"))
				_, _ = w.Write([]byte(`{"users": []}`))
			}))
			defer ts.Close()

			client := NewHTTPClient(WithBaseURL(ts.URL))
			got, err := client.Search(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestSearchURL(t *testing.T) {
	assert.Equal(t, "https://dummyjson.com/users/search?q=john", SearchURL(DefaultBaseURL, "john"))
	assert.Equal(t, "https://dummyjson.com/users/search?q=a%20b", SearchURL(DefaultBaseURL+"/", "a b"))
}

func TestFetchAll_HTTPStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewHTTPClient(WithBaseURL(ts.URL))
	got, err := client.FetchAll(context.Background())

	require.Error(t, err)
	assert.Nil(t, got)

	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "boom", statusErr.Body)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestFetchAll_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>nope</html>`},
		{name: "missing envelope", body: `{"items": []}`},
		{name: "missing field", body: `{"users": [{"id": 1, "firstName": "A", "lastName": "B", "email": "a@b"}]}`},
		{name: "wrong type", body: `{"users": [{"id": "one", "firstName": "A", "lastName": "B", "email": "a@b", "age": 3}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			client := NewHTTPClient(WithBaseURL(ts.URL))
			_, err := client.FetchAll(context.Background())

			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, "fetch all", decodeErr.Op)
		})
	}
}

func TestFetchAll_OversizedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"users": [], "padding": "` + strings.Repeat("x", 256) + `"}`))
	}))
	defer ts.Close()

	client := NewHTTPClient(WithBaseURL(ts.URL))
	client.maxBody = 64
	_, err := client.FetchAll(context.Background())

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, err.Error(), "exceeds 64 bytes")
}

func TestFetchAll_BodyAtLimit(t *testing.T) {
	body := `{"users": []}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer ts.Close()

	client := NewHTTPClient(WithBaseURL(ts.URL))
	client.maxBody = int64(len(body))
	got, err := client.FetchAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchAll_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	client := NewHTTPClient(WithBaseURL(url))
	_, err := client.FetchAll(context.Background())

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, url+"/users", netErr.URL)
}

func TestFetchAll_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewHTTPClient(WithBaseURL(ts.URL))
	_, err := client.FetchAll(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestHTTPClient_Options(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"users": []}`))
	}))
	defer ts.Close()

	hc := &http.Client{Timeout: time.Second}
	client := NewHTTPClient(
		WithHTTPClient(hc),
		WithTimeout(5*time.Second),
		WithBaseURL(ts.URL+"/"),
		WithUserAgent("userlist/test"),
	)

	assert.Equal(t, ts.URL, client.BaseURL())
	assert.Equal(t, 5*time.Second, hc.Timeout)

	_, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "userlist/test", gotUA)
}

func TestNewHTTPClient_Defaults(t *testing.T) {
	client := NewHTTPClient()
	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Equal(t, 30*time.Second, client.http.Timeout)
	assert.Equal(t, int64(maxResponseBody), client.maxBody)
}
