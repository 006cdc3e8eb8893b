package server

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vanshika/osintportal/internal/domain"
	"github.com/vanshika/osintportal/internal/export"
	"github.com/vanshika/osintportal/internal/service"
	"github.com/vanshika/osintportal/internal/store"
	"github.com/vanshika/osintportal/internal/validate"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageCopy is the static text of one lookup page.
type pageCopy struct {
	Kind        domain.Kind
	Nav         string
	Heading     string
	Subtitle    string
	FormTitle   string
	FormText    string
	Placeholder string
	Button      string
	Loading     string
	Feature     string
	FeatureText string
}

var pages = []pageCopy{
	{
		Kind:        domain.KindUsername,
		Nav:         "Username",
		Heading:     "Username Intelligence",
		Subtitle:    "Search for username presence across multiple platforms",
		FormTitle:   "Username Search",
		FormText:    "Enter a username to search across social platforms and code repositories",
		Placeholder: "Enter username (e.g., johndoe)",
		Button:      "Search",
		Loading:     "Scanning platforms...",
		Feature:     "Username Intelligence",
		FeatureText: "Search for username presence across multiple social platforms and repositories",
	},
	{
		Kind:        domain.KindDomain,
		Nav:         "Domain",
		Heading:     "Domain Intelligence",
		Subtitle:    "Comprehensive domain analysis and reconnaissance",
		FormTitle:   "Domain Analysis",
		FormText:    "Enter a domain name for WHOIS, DNS, and security analysis",
		Placeholder: "Enter domain (e.g., example.com)",
		Button:      "Analyze",
		Loading:     "Analyzing domain...",
		Feature:     "Domain Analysis",
		FeatureText: "Comprehensive WHOIS, DNS records, and security analysis",
	},
	{
		Kind:        domain.KindEmail,
		Nav:         "Email",
		Heading:     "Email Intelligence",
		Subtitle:    "Email validation, breach detection, and reputation analysis",
		FormTitle:   "Email Analysis",
		FormText:    "Enter an email address for comprehensive security and breach analysis",
		Placeholder: "Enter email address (e.g., user@example.com)",
		Button:      "Analyze",
		Loading:     "Analyzing email...",
		Feature:     "Email Investigation",
		FeatureText: "Email validation, breach detection, and professional analysis",
	},
	{
		Kind:        domain.KindIP,
		Nav:         "IP Address",
		Heading:     "IP Intelligence",
		Subtitle:    "Geolocation, threat analysis, and network reconnaissance",
		FormTitle:   "IP Analysis",
		FormText:    "Enter an IP address for comprehensive geolocation and threat analysis",
		Placeholder: "Enter IP address (e.g., 8.8.8.8)",
		Button:      "Analyze",
		Loading:     "Analyzing IP address...",
		Feature:     "IP Intelligence",
		FeatureText: "Geolocation, reverse DNS, and threat intelligence analysis",
	},
}

// refreshSeconds is how often a loading page polls for its result.
const refreshSeconds = 1

type exportLink struct {
	Label string
	URL   string
}

type pageData struct {
	Title   string
	Active  domain.Kind
	Pages   []pageCopy
	Page    pageCopy
	Query   string
	Notice  *validate.Error
	Lookup  *domain.Lookup
	Refresh int
	Exports []exportLink

	Username domain.UsernameResult
	Found    []domain.PlatformResult
	Domain   *domain.DomainResult
	Email    *domain.EmailResult
	IP       *domain.IPResult
}

// PageHandlers renders the server-side pages.
type PageHandlers struct {
	logger    *zap.Logger
	service   LookupRunner
	templates map[string]*template.Template
}

// NewPageHandlers parses the embedded templates and returns the page handlers.
func NewPageHandlers(logger *zap.Logger, svc LookupRunner) (*PageHandlers, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	names := []string{"index"}
	for _, p := range pages {
		names = append(names, p.Kind.String())
	}

	templates := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/form.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &PageHandlers{
		logger:    logger.Named("pages"),
		service:   svc,
		templates: templates,
	}, nil
}

// Kinds lists the lookup kinds that have a page.
func (h *PageHandlers) Kinds() []domain.Kind {
	kinds := make([]domain.Kind, 0, len(pages))
	for _, p := range pages {
		kinds = append(kinds, p.Kind)
	}
	return kinds
}

func (h *PageHandlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	h.render(w, http.StatusOK, "index", pageData{Title: "OSINT Portal", Pages: pages})
}

// handleKind serves one lookup page. The page has three states: the idle
// form, a submission (?q=) which starts a lookup and redirects to ?id=, and
// a lookup view which refreshes until the result is complete. A rejected
// submission keeps showing the lookup named by ?id=, if any.
func (h *PageHandlers) handleKind(kind domain.Kind) http.HandlerFunc {
	meta := pageFor(kind)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(w, http.MethodGet)
			return
		}

		data := pageData{
			Title:  meta.Heading + " | OSINT Portal",
			Active: kind,
			Pages:  pages,
			Page:   meta,
		}
		params := r.URL.Query()

		switch {
		case params.Has("q"):
			h.submit(w, r, params.Get("q"), params.Get("id"), data)
		case params.Get("id") != "":
			h.showLookup(w, params.Get("id"), data)
		default:
			h.render(w, http.StatusOK, kind.String(), data)
		}
	}
}

func (h *PageHandlers) submit(w http.ResponseWriter, r *http.Request, raw, currentID string, data pageData) {
	kind := data.Active
	l, err := h.service.Start(kind, raw)
	if err == nil {
		http.Redirect(w, r, "/"+kind.String()+"?id="+url.QueryEscape(l.ID), http.StatusSeeOther)
		return
	}

	status := http.StatusOK
	if notice, ok := validate.Notice(err); ok {
		data.Notice = notice
	} else {
		status = http.StatusInternalServerError
		if errors.Is(err, service.ErrShuttingDown) || errors.Is(err, store.ErrClosed) {
			status = http.StatusServiceUnavailable
		}
		h.logger.Error("start lookup failed", zap.String("kind", kind.String()), zap.Error(err))
		data.Notice = &validate.Error{Kind: kind, Title: "Lookup unavailable", Message: "Please try again in a moment"}
	}

	if currentID != "" {
		if prior, err := h.service.Get(currentID); err == nil && prior.Kind == kind {
			populate(&data, prior)
			data.Refresh = 0
		}
	}
	data.Query = raw
	h.render(w, status, kind.String(), data)
}

func (h *PageHandlers) showLookup(w http.ResponseWriter, id string, data pageData) {
	kind := data.Active
	l, err := h.service.Get(id)
	if err != nil || l.Kind != kind {
		data.Notice = &validate.Error{Kind: kind, Title: "Result unavailable", Message: "This lookup has expired. Please search again"}
		h.render(w, http.StatusNotFound, kind.String(), data)
		return
	}

	populate(&data, l)
	h.render(w, http.StatusOK, kind.String(), data)
}

// populate fills data with l: a loading lookup polls, a complete one gets
// its result view and export links.
func populate(data *pageData, l domain.Lookup) {
	data.Query = l.Query
	data.Lookup = &l
	if !l.Complete() {
		data.Refresh = refreshSeconds
		return
	}

	for _, f := range export.Formats(l.Kind) {
		data.Exports = append(data.Exports, exportLink{
			Label: "Export " + strings.ToUpper(string(f)),
			URL:   "/api/lookups/" + url.PathEscape(l.ID) + "/export?format=" + string(f),
		})
	}
	switch res := l.Result.(type) {
	case domain.UsernameResult:
		data.Username = res
		data.Found = res.Found()
	case domain.DomainResult:
		data.Domain = &res
	case domain.EmailResult:
		data.Email = &res
	case domain.IPResult:
		data.IP = &res
	}
}

func (h *PageHandlers) render(w http.ResponseWriter, status int, name string, data pageData) {
	tmpl, ok := h.templates[name]
	if !ok {
		writeError(w, http.StatusInternalServerError, "unknown page")
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("render page failed", zap.String("page", name), zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func pageFor(kind domain.Kind) pageCopy {
	for _, p := range pages {
		if p.Kind == kind {
			return p
		}
	}
	return pageCopy{Kind: kind, Heading: kind.String()}
}

var templateFuncs = template.FuncMap{
	"join": func(values []string) string {
		if len(values) == 0 {
			return "None"
		}
		return strings.Join(values, ", ")
	},
	"joinInts": func(values []int) string {
		if len(values) == 0 {
			return "None"
		}
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = strconv.Itoa(v)
		}
		return strings.Join(parts, ", ")
	},
	"yesno": func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	},
	"thousands": func(n int) string {
		s := strconv.Itoa(n)
		for i := len(s) - 3; i > 0; i -= 3 {
			s = s[:i] + "," + s[i:]
		}
		return s
	},
	"coord": func(f float64) string {
		return strconv.FormatFloat(f, 'f', 4, 64)
	},
	"stamp": func(t time.Time) string {
		return t.UTC().Format(time.RFC1123)
	},
}
