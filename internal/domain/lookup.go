package domain

import "time"

// Status tracks a lookup through loading -> complete.
type Status string

const (
	StatusLoading  Status = "loading"
	StatusComplete Status = "complete"
)

// Lookup is the envelope around one submitted search and its result.
// Result holds a UsernameResult, DomainResult, EmailResult or IPResult
// matching Kind once Status is complete.
type Lookup struct {
	ID          string     `json:"id" yaml:"id"`
	Kind        Kind       `json:"kind" yaml:"kind"`
	Query       string     `json:"query" yaml:"query"`
	Status      Status     `json:"status" yaml:"status"`
	Summary     string     `json:"summary,omitempty" yaml:"summary,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	Result      any        `json:"result,omitempty" yaml:"result,omitempty"`
}

// Complete reports whether the result is ready for display and export.
func (l Lookup) Complete() bool {
	return l.Status == StatusComplete && l.Result != nil
}
