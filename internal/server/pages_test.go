package server

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/osintportal/internal/service"
)

func TestIndexPage(t *testing.T) {
	env := newTestEnv(t, service.Options{})

	rec := env.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	for _, feature := range []string{"Username Intelligence", "Domain Analysis", "Email Investigation", "IP Intelligence"} {
		assert.Contains(t, body, feature)
	}
	assert.Contains(t, body, "OSINT Portal - &copy; 2025")

	rec = env.do(t, http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIdlePageHasNoExport(t *testing.T) {
	env := newTestEnv(t, service.Options{})

	for _, kind := range []string{"username", "domain", "email", "ip"} {
		rec := env.do(t, http.MethodGet, "/"+kind, nil)
		require.Equal(t, http.StatusOK, rec.Code, kind)

		body := rec.Body.String()
		assert.Contains(t, body, `href="/`+kind+`" class="active"`)
		assert.Contains(t, body, `name="q"`)
		assert.NotContains(t, body, "Export JSON")
		assert.NotContains(t, body, `role="alert"`)
	}
}

func TestEmptySubmissionShowsNotice(t *testing.T) {
	env := newTestEnv(t, service.Options{})

	cases := map[string]string{
		"username": "Please enter a username to search",
		"domain":   "Please enter a domain to analyze",
		"email":    "Please enter an email address to analyze",
		"ip":       "Please enter an IP address to analyze",
	}
	for kind, message := range cases {
		rec := env.do(t, http.MethodGet, "/"+kind+"?q=+++", nil)
		require.Equal(t, http.StatusOK, rec.Code, kind)

		body := rec.Body.String()
		assert.Contains(t, body, message)
		assert.NotContains(t, body, "Export JSON")
	}
	assert.Zero(t, env.store.Len())
}

func TestInvalidSubmissionShowsNotice(t *testing.T) {
	env := newTestEnv(t, service.Options{})

	cases := []struct {
		path  string
		title string
	}{
		{"/domain?q=not+a+domain", "Invalid Domain"},
		{"/email?q=nobody%40", "Invalid Email"},
		{"/ip?q=256.0.0.1", "Invalid IP"},
		{"/domain?q=www.example.com", "Invalid Domain"},
	}
	for _, tc := range cases {
		rec := env.do(t, http.MethodGet, tc.path, nil)
		require.Equal(t, http.StatusOK, rec.Code, tc.path)

		body := rec.Body.String()
		assert.Contains(t, body, tc.title)
		assert.NotContains(t, body, "Export JSON")
		assert.NotContains(t, body, "Analysis Results")
	}
	assert.Zero(t, env.store.Len())
}

func TestSubmissionRedirectsAndRendersResult(t *testing.T) {
	env := newTestEnv(t, service.Options{AnalysisDelay: 10 * time.Millisecond})

	rec := env.do(t, http.MethodGet, "/domain?q=example.com", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/domain?id="), location)
	id := strings.TrimPrefix(location, "/domain?id=")
	env.waitComplete(t, id)

	rec = env.do(t, http.MethodGet, location, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Analysis Results")
	assert.Contains(t, body, "Domain analysis completed for example.com")
	for _, tab := range []string{"WHOIS", "DNS Records", "Security", "Shodan"} {
		assert.Contains(t, body, tab)
	}
	assert.Contains(t, body, "Export JSON")
	assert.Contains(t, body, "/api/lookups/"+id+"/export?format=json")
	assert.NotContains(t, body, "Export CSV")
	assert.NotContains(t, body, `http-equiv="refresh"`)
}

func TestLoadingPageRefreshes(t *testing.T) {
	env := newTestEnv(t, service.Options{AnalysisDelay: time.Hour})

	rec := env.do(t, http.MethodGet, "/ip?q=8.8.8.8", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.do(t, http.MethodGet, rec.Header().Get("Location"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Analyzing IP address...")
	assert.Contains(t, body, `http-equiv="refresh"`)
	assert.NotContains(t, body, "Export JSON")
}

func TestUsernamePageOffersCSV(t *testing.T) {
	env := newTestEnv(t, service.Options{})

	rec := env.do(t, http.MethodGet, "/username?q=johndoe", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	env.waitComplete(t, strings.TrimPrefix(location, "/username?id="))

	rec = env.do(t, http.MethodGet, location, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Search Results")
	assert.Contains(t, body, "Export JSON")
	assert.Contains(t, body, "Export CSV")
	for _, platform := range []string{"GitHub", "Twitter", "Instagram", "Reddit"} {
		assert.Contains(t, body, platform)
	}
}

func TestUnknownOrMismatchedLookup(t *testing.T) {
	env := newTestEnv(t, service.Options{})

	rec := env.do(t, http.MethodGet, "/email?id=nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Result unavailable")

	id := env.startLookup(t, "ip", "1.1.1.1")
	env.waitComplete(t, id)

	rec = env.do(t, http.MethodGet, "/domain?id="+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Export JSON")
}

func TestPageMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, service.Options{})

	rec := env.do(t, http.MethodPost, "/username", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRejectedResubmitKeepsCurrentResult(t *testing.T) {
	env := newTestEnv(t, service.Options{})

	id := env.startLookup(t, "domain", "example.com")
	env.waitComplete(t, id)

	rec := env.do(t, http.MethodGet, "/domain?id="+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="id" value="`+id+`"`)

	cases := []struct {
		query  string
		notice string
	}{
		{"", "Please enter a domain to analyze"},
		{"not+a+domain", "Invalid Domain"},
	}
	for _, tc := range cases {
		rec := env.do(t, http.MethodGet, "/domain?q="+tc.query+"&id="+id, nil)
		require.Equal(t, http.StatusOK, rec.Code, tc.query)

		body := rec.Body.String()
		assert.Contains(t, body, tc.notice)
		assert.Contains(t, body, "WHOIS Information")
		assert.Contains(t, body, "Domain analysis completed for example.com")
		assert.Contains(t, body, "/api/lookups/"+id+"/export?format=json")
		assert.Contains(t, body, `name="id" value="`+id+`"`)
	}
	assert.Equal(t, 1, env.store.Len())
}

func TestResubmitWithCurrentIDStartsNewLookup(t *testing.T) {
	env := newTestEnv(t, service.Options{})

	id := env.startLookup(t, "domain", "example.com")
	env.waitComplete(t, id)

	rec := env.do(t, http.MethodGet, "/domain?q=example.org&id="+id, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/domain?id="), location)
	assert.NotEqual(t, "/domain?id="+id, location)
	assert.Equal(t, 2, env.store.Len())
}
