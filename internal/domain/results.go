package domain

// Profile is the public profile data shown for a platform hit.
type Profile struct {
	Bio       string `json:"bio,omitempty" yaml:"bio,omitempty"`
	Followers int    `json:"followers" yaml:"followers"`
	Avatar    string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Verified  bool   `json:"verified" yaml:"verified"`
}

// PlatformResult reports the presence of a username on one platform.
type PlatformResult struct {
	Platform string   `json:"platform" yaml:"platform"`
	Username string   `json:"username" yaml:"username"`
	Found    bool     `json:"found" yaml:"found"`
	Profile  *Profile `json:"profile,omitempty" yaml:"profile,omitempty"`
	URL      string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// UsernameResult holds one PlatformResult per platform queried.
type UsernameResult []PlatformResult

// Found returns the platforms on which the username was located.
func (r UsernameResult) Found() []PlatformResult {
	found := make([]PlatformResult, 0, len(r))
	for _, p := range r {
		if p.Found {
			found = append(found, p)
		}
	}
	return found
}

type Whois struct {
	Registrar string   `json:"registrar" yaml:"registrar"`
	Created   string   `json:"created" yaml:"created"`
	Expires   string   `json:"expires" yaml:"expires"`
	Status    []string `json:"status" yaml:"status"`
}

type DNSRecords struct {
	A    []string `json:"A" yaml:"A"`
	AAAA []string `json:"AAAA" yaml:"AAAA"`
	MX   []string `json:"MX" yaml:"MX"`
	TXT  []string `json:"TXT" yaml:"TXT"`
	NS   []string `json:"NS" yaml:"NS"`
}

type DomainSecurity struct {
	SSL         bool `json:"ssl" yaml:"ssl"`
	DNSSEC      bool `json:"dnssec" yaml:"dnssec"`
	Blacklisted bool `json:"blacklisted" yaml:"blacklisted"`
}

// Exposure summarises internet-facing services as a scanner would list them.
type Exposure struct {
	Ports           []int    `json:"ports" yaml:"ports"`
	Services        []string `json:"services" yaml:"services"`
	Vulnerabilities []string `json:"vulnerabilities" yaml:"vulnerabilities"`
}

// DomainResult is the WHOIS, DNS, security and exposure view of a domain.
type DomainResult struct {
	Domain   string          `json:"domain" yaml:"domain"`
	Whois    *Whois          `json:"whois,omitempty" yaml:"whois,omitempty"`
	DNS      *DNSRecords     `json:"dns,omitempty" yaml:"dns,omitempty"`
	Security *DomainSecurity `json:"security,omitempty" yaml:"security,omitempty"`
	Shodan   *Exposure       `json:"shodan,omitempty" yaml:"shodan,omitempty"`
}

// EmailType classifies the mailbox owner.
type EmailType string

const (
	EmailPersonal     EmailType = "personal"
	EmailProfessional EmailType = "professional"
)

// RiskLevel buckets a reputation score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type EmailValidation struct {
	Valid       bool      `json:"valid" yaml:"valid"`
	Deliverable bool      `json:"deliverable" yaml:"deliverable"`
	Domain      string    `json:"domain" yaml:"domain"`
	Type        EmailType `json:"type" yaml:"type"`
}

type Breach struct {
	Name        string   `json:"name" yaml:"name"`
	Date        string   `json:"date" yaml:"date"`
	DataClasses []string `json:"dataClasses" yaml:"dataClasses"`
	Verified    bool     `json:"verified" yaml:"verified"`
}

// BreachSummary pairs the reported breach count with the breaches listed.
// Count is reported independently and may exceed len(Breaches).
type BreachSummary struct {
	Count    int      `json:"count" yaml:"count"`
	Breaches []Breach `json:"breaches" yaml:"breaches"`
}

type EmailReputation struct {
	Score     int       `json:"score" yaml:"score"`
	RiskLevel RiskLevel `json:"riskLevel" yaml:"riskLevel"`
	Sources   []string  `json:"sources" yaml:"sources"`
}

// EmailResult is the validation, breach and reputation view of an address.
type EmailResult struct {
	Email      string           `json:"email" yaml:"email"`
	Validation *EmailValidation `json:"validation,omitempty" yaml:"validation,omitempty"`
	Breaches   *BreachSummary   `json:"breaches,omitempty" yaml:"breaches,omitempty"`
	Reputation *EmailReputation `json:"reputation,omitempty" yaml:"reputation,omitempty"`
}

type Geolocation struct {
	Country   string  `json:"country" yaml:"country"`
	City      string  `json:"city" yaml:"city"`
	Region    string  `json:"region" yaml:"region"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Timezone  string  `json:"timezone" yaml:"timezone"`
	ISP       string  `json:"isp" yaml:"isp"`
	ASN       string  `json:"asn" yaml:"asn"`
}

type IPSecurity struct {
	IsVPN       bool `json:"isVpn" yaml:"isVpn"`
	IsProxy     bool `json:"isProxy" yaml:"isProxy"`
	IsTor       bool `json:"isTor" yaml:"isTor"`
	IsMalicious bool `json:"isMalicious" yaml:"isMalicious"`
	ThreatScore int  `json:"threatScore" yaml:"threatScore"`
}

type Network struct {
	ReverseDNS string   `json:"reverseDns,omitempty" yaml:"reverseDns,omitempty"`
	Ports      []int    `json:"ports" yaml:"ports"`
	Services   []string `json:"services" yaml:"services"`
}

type IPReputation struct {
	Reports      int      `json:"reports" yaml:"reports"`
	Categories   []string `json:"categories" yaml:"categories"`
	LastReported string   `json:"lastReported,omitempty" yaml:"lastReported,omitempty"`
}

// IPResult is the geolocation, security, network and reputation view of an address.
type IPResult struct {
	IP          string        `json:"ip" yaml:"ip"`
	Geolocation *Geolocation  `json:"geolocation,omitempty" yaml:"geolocation,omitempty"`
	Security    *IPSecurity   `json:"security,omitempty" yaml:"security,omitempty"`
	Network     *Network      `json:"network,omitempty" yaml:"network,omitempty"`
	Reputation  *IPReputation `json:"reputation,omitempty" yaml:"reputation,omitempty"`
}
