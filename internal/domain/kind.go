package domain

import (
	"fmt"
	"strings"
)

// Kind identifies which of the four lookup forms produced a result.
type Kind string

const (
	KindUsername Kind = "username"
	KindDomain   Kind = "domain"
	KindEmail    Kind = "email"
	KindIP       Kind = "ip"
)

// Kinds lists every lookup kind in navigation order.
func Kinds() []Kind {
	return []Kind{KindUsername, KindDomain, KindEmail, KindIP}
}

// ParseKind maps a route segment or CLI argument onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindUsername:
		return KindUsername, nil
	case KindDomain:
		return KindDomain, nil
	case KindEmail:
		return KindEmail, nil
	case KindIP:
		return KindIP, nil
	}
	return "", fmt.Errorf("unknown lookup kind %q", s)
}

func (k Kind) String() string { return string(k) }
