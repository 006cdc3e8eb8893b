package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/idna"

	"github.com/vanshika/osintportal/internal/domain"
)

var (
	// ErrEmpty marks a submission with nothing but whitespace in it.
	ErrEmpty = errors.New("empty input")
	// ErrInvalid marks a submission that failed the syntactic check for its kind.
	ErrInvalid = errors.New("invalid input")
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	domainRegex     = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{1,61}[a-zA-Z0-9]\.[a-zA-Z]{2,}$`)
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	ipv4Regex       = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)
)

// Error is the user-facing notice produced when a submission is rejected.
type Error struct {
	Kind    domain.Kind
	Title   string
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

type messages struct {
	empty        string
	invalidTitle string
	invalid      string
}

var notices = map[domain.Kind]messages{
	domain.KindUsername: {
		empty: "Please enter a username to search",
	},
	domain.KindDomain: {
		empty:        "Please enter a domain to analyze",
		invalidTitle: "Invalid Domain",
		invalid:      "Please enter a valid domain name",
	},
	domain.KindEmail: {
		empty:        "Please enter an email address to analyze",
		invalidTitle: "Invalid Email",
		invalid:      "Please enter a valid email address",
	},
	domain.KindIP: {
		empty:        "Please enter an IP address to analyze",
		invalidTitle: "Invalid IP",
		invalid:      "Please enter a valid IPv4 address",
	},
}

// Normalize trims the raw input and canonicalises it for its kind.
// Domains are lowercased and IDNA-encoded, emails lowercased.
func Normalize(kind domain.Kind, raw string) string {
	value := strings.TrimSpace(raw)
	switch kind {
	case domain.KindDomain:
		value = strings.TrimSuffix(strings.ToLower(value), ".")
		if ascii, err := idna.Lookup.ToASCII(value); err == nil {
			value = ascii
		}
	case domain.KindEmail:
		value = strings.ToLower(value)
	}
	return value
}

// Check normalises raw and validates it for kind. The returned string is the
// canonical query to generate a result for.
func Check(kind domain.Kind, raw string) (string, error) {
	msgs, ok := notices[kind]
	if !ok {
		return "", fmt.Errorf("unknown lookup kind %q", kind)
	}

	if strings.TrimSpace(raw) == "" {
		return "", &Error{Kind: kind, Title: "Error", Message: msgs.empty, cause: ErrEmpty}
	}

	value := Normalize(kind, raw)
	if !valid(kind, value) {
		return "", &Error{Kind: kind, Title: msgs.invalidTitle, Message: msgs.invalid, cause: ErrInvalid}
	}
	return value, nil
}

func valid(kind domain.Kind, value string) bool {
	switch kind {
	case domain.KindUsername:
		// Any non-empty handle is searchable.
		return true
	case domain.KindDomain:
		return domainRegex.MatchString(value)
	case domain.KindEmail:
		return emailRegex.MatchString(value)
	case domain.KindIP:
		return validIPv4(value)
	}
	return false
}

// validIPv4 applies the dotted-quad pattern and then bounds each octet.
func validIPv4(value string) bool {
	if !ipv4Regex.MatchString(value) {
		return false
	}
	for _, octet := range strings.Split(value, ".") {
		n, err := strconv.Atoi(octet)
		if err != nil || n > 255 {
			return false
		}
	}
	return true
}

// SanitizeLine collapses whitespace runs, used for free-form batch input.
func SanitizeLine(value string) string {
	value = whitespaceRegex.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// Notice extracts the user-facing Error from err, if any.
func Notice(err error) (*Error, bool) {
	var vErr *Error
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
