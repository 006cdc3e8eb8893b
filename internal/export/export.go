package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/vanshika/osintportal/internal/domain"
)

// Format names a download format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

var (
	// ErrNotReady is returned when the lookup has no result yet.
	ErrNotReady = errors.New("lookup result not ready")
	// ErrUnsupportedFormat is returned for formats the lookup kind does not offer.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// CSVHeader is the fixed column order of the username CSV export.
var CSVHeader = []string{"Platform", "Username", "URL", "Bio", "Followers", "Verified"}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Formats lists the download formats offered for kind, JSON first.
func Formats(kind domain.Kind) []Format {
	if kind == domain.KindUsername {
		return []Format{FormatJSON, FormatCSV, FormatYAML}
	}
	return []Format{FormatJSON, FormatYAML}
}

// ParseFormat validates f against the formats offered for kind. An empty
// string selects JSON.
func ParseFormat(kind domain.Kind, f string) (Format, error) {
	if f == "" {
		return FormatJSON, nil
	}
	want := Format(strings.ToLower(strings.TrimSpace(f)))
	if want == "yml" {
		want = FormatYAML
	}
	for _, allowed := range Formats(kind) {
		if allowed == want {
			return want, nil
		}
	}
	return "", fmt.Errorf("%w: %s exports do not support %q", ErrUnsupportedFormat, kind, f)
}

// ContentType is the MIME type served for format.
func ContentType(format Format) string {
	switch format {
	case FormatCSV:
		return "text/csv"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// Filename is the download name for the lookup in the given format.
func Filename(l domain.Lookup, format Format) string {
	ext := string(format)
	switch l.Kind {
	case domain.KindUsername:
		return fmt.Sprintf("%s_osint_results.%s", l.Query, ext)
	case domain.KindDomain:
		return fmt.Sprintf("%s_domain_analysis.%s", l.Query, ext)
	case domain.KindEmail:
		return fmt.Sprintf("%s_email_analysis.%s", strings.ReplaceAll(l.Query, "@", "_"), ext)
	case domain.KindIP:
		return fmt.Sprintf("%s_ip_analysis.%s", strings.ReplaceAll(l.Query, ".", "_"), ext)
	}
	return fmt.Sprintf("%s_lookup.%s", l.ID, ext)
}

// Write serialises the current result of l to w.
func Write(w io.Writer, format Format, l domain.Lookup) error {
	if !l.Complete() {
		return ErrNotReady
	}
	if _, err := ParseFormat(l.Kind, string(format)); err != nil {
		return err
	}

	switch format {
	case FormatCSV:
		res, ok := l.Result.(domain.UsernameResult)
		if !ok {
			return fmt.Errorf("%w: result of type %T cannot be written as csv", ErrUnsupportedFormat, l.Result)
		}
		return writeCSV(w, res)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(l.Result); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		raw, err := jsonAPI.MarshalIndent(l.Result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = w.Write(raw)
		return err
	}
}

// writeCSV emits one row per platform on which the username was found.
func writeCSV(w io.Writer, res domain.UsernameResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, p := range res.Found() {
		var (
			bio       string
			followers int
			verified  bool
		)
		if p.Profile != nil {
			bio = p.Profile.Bio
			followers = p.Profile.Followers
			verified = p.Profile.Verified
		}
		row := []string{
			p.Platform,
			p.Username,
			p.URL,
			bio,
			strconv.Itoa(followers),
			strconv.FormatBool(verified),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
