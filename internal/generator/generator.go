package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/vanshika/osintportal/internal/domain"
)

// Generator fabricates plausible lookup results from placeholder data.
// It is safe for concurrent use.
type Generator struct {
	mu        sync.Mutex
	rand      *rand.Rand
	fragments fragments
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Generator{
		rand:      rand.New(rand.NewSource(cfg.Seed)),
		fragments: defaultFragments(),
	}
}

// Generate builds the result for kind along with the completion summary
// shown once the lookup finishes.
func (g *Generator) Generate(kind domain.Kind, query string) (any, string, error) {
	switch kind {
	case domain.KindUsername:
		res := g.Username(query)
		return res, fmt.Sprintf("Found %d profiles for %s", len(res.Found()), query), nil
	case domain.KindDomain:
		return g.Domain(query), fmt.Sprintf("Domain analysis completed for %s", query), nil
	case domain.KindEmail:
		return g.Email(query), fmt.Sprintf("Email analysis completed for %s", query), nil
	case domain.KindIP:
		return g.IP(query), fmt.Sprintf("IP analysis completed for %s", query), nil
	}
	return nil, "", fmt.Errorf("unknown lookup kind %q", kind)
}

// Username checks the name against every known platform.
func (g *Generator) Username(username string) domain.UsernameResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	results := make(domain.UsernameResult, 0, len(g.fragments.platforms))
	for _, platform := range g.fragments.platforms {
		res := domain.PlatformResult{
			Platform: platform,
			Username: username,
			Found:    g.chance(0.3),
		}
		if g.chance(0.3) {
			res.Profile = &domain.Profile{
				Bio:       fmt.Sprintf("Software developer and %s enthusiast", platform),
				Followers: g.rand.Intn(10000),
				Verified:  g.chance(0.7),
				Avatar:    "https://api.dicebear.com/7.x/avataaars/svg?seed=" + username,
			}
		}
		res.URL = fmt.Sprintf("https://%s.com/%s", strings.ToLower(platform), username)
		results = append(results, res)
	}
	return results
}

// Domain returns WHOIS, DNS, security and exposure placeholders for name.
func (g *Generator) Domain(name string) domain.DomainResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	security := &domain.DomainSecurity{
		SSL:         g.chance(0.2),
		DNSSEC:      g.chance(0.5),
		Blacklisted: g.chance(0.9),
	}
	vulns := []string{}
	if g.chance(0.7) {
		vulns = []string{"CVE-2023-1234"}
	}

	return domain.DomainResult{
		Domain: name,
		Whois: &domain.Whois{
			Registrar: "Example Registrar Inc.",
			Created:   "2020-03-15",
			Expires:   "2025-03-15",
			Status:    []string{"clientTransferProhibited", "clientUpdateProhibited"},
		},
		DNS: &domain.DNSRecords{
			A:    []string{"192.0.2.1", "192.0.2.2"},
			AAAA: []string{"2001:db8::1"},
			MX:   []string{"10 mail.example.com", "20 backup.example.com"},
			TXT:  []string{"v=spf1 include:_spf.google.com ~all", "google-site-verification=abc123"},
			NS:   []string{"ns1.example.com", "ns2.example.com"},
		},
		Security: security,
		Shodan: &domain.Exposure{
			Ports:           []int{22, 80, 443, 993},
			Services:        []string{"SSH", "HTTP", "HTTPS", "IMAPS"},
			Vulnerabilities: vulns,
		},
	}
}

// Email returns validation, breach and reputation placeholders for addr.
func (g *Generator) Email(addr string) domain.EmailResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	mailDomain := ""
	if _, after, ok := strings.Cut(addr, "@"); ok {
		mailDomain = after
	}
	emailType := domain.EmailProfessional
	if strings.Contains(addr, "gmail") || strings.Contains(addr, "yahoo") {
		emailType = domain.EmailPersonal
	}

	validation := &domain.EmailValidation{
		Valid:       true,
		Deliverable: g.chance(0.3),
		Domain:      mailDomain,
		Type:        emailType,
	}

	count := g.rand.Intn(5)
	listed := g.rand.Intn(3)
	breaches := make([]domain.Breach, 0, listed)
	for _, b := range g.fragments.breaches[:min(listed, len(g.fragments.breaches))] {
		b.DataClasses = append([]string(nil), b.DataClasses...)
		breaches = append(breaches, b)
	}

	score := g.rand.Intn(100)
	risk := domain.RiskLow
	switch {
	case g.chance(0.7):
		risk = domain.RiskHigh
	case g.chance(0.4):
		risk = domain.RiskMedium
	}

	return domain.EmailResult{
		Email:      addr,
		Validation: validation,
		Breaches:   &domain.BreachSummary{Count: count, Breaches: breaches},
		Reputation: &domain.EmailReputation{
			Score:     score,
			RiskLevel: risk,
			Sources:   []string{"VirusTotal", "AbuseIPDB", "ThreatMiner"},
		},
	}
}

// IP returns geolocation, security, network and reputation placeholders for addr.
func (g *Generator) IP(addr string) domain.IPResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	f := g.fragments
	geo := &domain.Geolocation{
		Country:   f.countries[g.rand.Intn(len(f.countries))],
		City:      f.cities[g.rand.Intn(len(f.cities))],
		Region:    "NY",
		Latitude:  40.7128 + (g.rand.Float64()-0.5)*10,
		Longitude: -74.0060 + (g.rand.Float64()-0.5)*10,
		Timezone:  "America/New_York",
		ISP:       f.isps[g.rand.Intn(len(f.isps))],
		ASN:       fmt.Sprintf("AS%d", g.rand.Intn(90000)+10000),
	}

	security := &domain.IPSecurity{
		IsVPN:       g.chance(0.8),
		IsProxy:     g.chance(0.9),
		IsTor:       g.chance(0.95),
		IsMalicious: g.chance(0.85),
		ThreatScore: g.rand.Intn(100),
	}

	network := &domain.Network{
		ReverseDNS: g.randomHostLabel() + ".example.com",
		Ports:      pickInts(g, []int{22, 80, 443, 993}, 0.5),
		Services:   pickStrings(g, []string{"SSH", "HTTP", "HTTPS"}, 0.3),
	}

	reputation := &domain.IPReputation{
		Reports:      g.rand.Intn(50),
		Categories:   pickStrings(g, []string{"Scanning", "Malware", "Phishing"}, 0.7),
		LastReported: "2024-01-15",
	}

	return domain.IPResult{
		IP:          addr,
		Geolocation: geo,
		Security:    security,
		Network:     network,
		Reputation:  reputation,
	}
}

// chance reports true when a uniform draw exceeds threshold.
func (g *Generator) chance(threshold float64) bool {
	return g.rand.Float64() > threshold
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func (g *Generator) randomHostLabel() string {
	var b strings.Builder
	for i := 0; i < 9; i++ {
		b.WriteByte(base36[g.rand.Intn(len(base36))])
	}
	return b.String()
}

func pickInts(g *Generator, from []int, threshold float64) []int {
	out := make([]int, 0, len(from))
	for _, v := range from {
		if g.chance(threshold) {
			out = append(out, v)
		}
	}
	return out
}

func pickStrings(g *Generator, from []string, threshold float64) []string {
	out := make([]string, 0, len(from))
	for _, v := range from {
		if g.chance(threshold) {
			out = append(out, v)
		}
	}
	return out
}

type fragments struct {
	platforms []string
	countries []string
	cities    []string
	isps      []string
	breaches  []domain.Breach
}

func defaultFragments() fragments {
	return fragments{
		platforms: []string{"GitHub", "Twitter", "Instagram", "Reddit"},
		countries: []string{"United States", "Germany", "Japan", "Canada", "United Kingdom"},
		cities:    []string{"New York", "Berlin", "Tokyo", "Toronto", "London"},
		isps:      []string{"Cloudflare", "Google", "Amazon", "Microsoft", "DigitalOcean"},
		breaches: []domain.Breach{
			{
				Name:        "Adobe",
				Date:        "2013-10-04",
				DataClasses: []string{"Email addresses", "Password hints", "Passwords", "Usernames"},
				Verified:    true,
			},
			{
				Name:        "LinkedIn",
				Date:        "2012-05-05",
				DataClasses: []string{"Email addresses", "Passwords"},
				Verified:    true,
			},
		},
	}
}
