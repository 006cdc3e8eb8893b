package generator

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/osintportal/internal/domain"
)

func TestSameSeedSameResults(t *testing.T) {
	a := New(Config{Seed: 42})
	b := New(Config{Seed: 42})

	for _, kind := range domain.Kinds() {
		query := map[domain.Kind]string{
			domain.KindUsername: "johndoe",
			domain.KindDomain:   "example.com",
			domain.KindEmail:    "user@example.com",
			domain.KindIP:       "8.8.8.8",
		}[kind]

		gotA, sumA, err := a.Generate(kind, query)
		require.NoError(t, err)
		gotB, sumB, err := b.Generate(kind, query)
		require.NoError(t, err)

		if diff := cmp.Diff(gotA, gotB); diff != "" {
			t.Fatalf("%s results differ for equal seeds (-a +b):\n%s", kind, diff)
		}
		assert.Equal(t, sumA, sumB)
	}
}

func TestUsername(t *testing.T) {
	g := New(Config{Seed: 7})
	for i := 0; i < 50; i++ {
		res := g.Username("johndoe")
		require.Len(t, res, 4)

		var platforms []string
		for _, p := range res {
			platforms = append(platforms, p.Platform)
			assert.Equal(t, "johndoe", p.Username)
			assert.Equal(t, "https://"+strings.ToLower(p.Platform)+".com/johndoe", p.URL)
			if p.Profile != nil {
				assert.Equal(t, "Software developer and "+p.Platform+" enthusiast", p.Profile.Bio)
				assert.GreaterOrEqual(t, p.Profile.Followers, 0)
				assert.Less(t, p.Profile.Followers, 10000)
				assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=johndoe", p.Profile.Avatar)
			}
		}
		assert.Equal(t, []string{"GitHub", "Twitter", "Instagram", "Reddit"}, platforms)
	}
}

func TestUsernameSummaryCountsFound(t *testing.T) {
	g := New(Config{Seed: 3})
	raw, summary, err := g.Generate(domain.KindUsername, "alice")
	require.NoError(t, err)

	res, ok := raw.(domain.UsernameResult)
	require.True(t, ok)
	assert.Contains(t, summary, "profiles for alice")
	assert.True(t, strings.HasPrefix(summary, "Found "))
	assert.Contains(t, summary, " "+strconv.Itoa(len(res.Found()))+" ")
}

func TestDomain(t *testing.T) {
	g := New(Config{Seed: 11})
	res := g.Domain("example.com")

	assert.Equal(t, "example.com", res.Domain)
	require.NotNil(t, res.Whois)
	assert.Equal(t, "Example Registrar Inc.", res.Whois.Registrar)
	require.NotNil(t, res.DNS)
	assert.Equal(t, []string{"ns1.example.com", "ns2.example.com"}, res.DNS.NS)
	require.NotNil(t, res.Security)
	require.NotNil(t, res.Shodan)
	assert.Equal(t, []int{22, 80, 443, 993}, res.Shodan.Ports)
	assert.NotNil(t, res.Shodan.Vulnerabilities)
	assert.LessOrEqual(t, len(res.Shodan.Vulnerabilities), 1)
}

func TestEmail(t *testing.T) {
	g := New(Config{Seed: 5})
	for i := 0; i < 50; i++ {
		res := g.Email("someone@gmail.com")
		require.NotNil(t, res.Validation)
		assert.True(t, res.Validation.Valid)
		assert.Equal(t, "gmail.com", res.Validation.Domain)
		assert.Equal(t, domain.EmailPersonal, res.Validation.Type)

		require.NotNil(t, res.Breaches)
		assert.GreaterOrEqual(t, res.Breaches.Count, 0)
		assert.Less(t, res.Breaches.Count, 5)
		assert.LessOrEqual(t, len(res.Breaches.Breaches), 2)
		if len(res.Breaches.Breaches) > 0 {
			assert.Equal(t, "Adobe", res.Breaches.Breaches[0].Name)
		}

		require.NotNil(t, res.Reputation)
		assert.Contains(t, []domain.RiskLevel{domain.RiskLow, domain.RiskMedium, domain.RiskHigh}, res.Reputation.RiskLevel)
		assert.Less(t, res.Reputation.Score, 100)
	}

	assert.Equal(t, domain.EmailProfessional, g.Email("ceo@acme.io").Validation.Type)
}

func TestEmailBreachCatalogueIsNotShared(t *testing.T) {
	g := New(Config{Seed: 9})
	for i := 0; i < 100; i++ {
		res := g.Email("a@b.io")
		for j := range res.Breaches.Breaches {
			res.Breaches.Breaches[j].DataClasses[0] = "mutated"
		}
	}
	for _, b := range g.fragments.breaches {
		assert.Equal(t, "Email addresses", b.DataClasses[0])
	}
}

var reverseDNSRegex = regexp.MustCompile(`^[0-9a-z]{9}\.example\.com$`)

func TestIP(t *testing.T) {
	g := New(Config{Seed: 13})
	for i := 0; i < 50; i++ {
		res := g.IP("8.8.8.8")
		assert.Equal(t, "8.8.8.8", res.IP)

		require.NotNil(t, res.Geolocation)
		assert.InDelta(t, 40.7128, res.Geolocation.Latitude, 5)
		assert.InDelta(t, -74.0060, res.Geolocation.Longitude, 5)
		assert.Regexp(t, `^AS[1-9][0-9]{4}$`, res.Geolocation.ASN)

		require.NotNil(t, res.Security)
		assert.Less(t, res.Security.ThreatScore, 100)

		require.NotNil(t, res.Network)
		assert.Regexp(t, reverseDNSRegex, res.Network.ReverseDNS)
		assert.Subset(t, []int{22, 80, 443, 993}, res.Network.Ports)
		assert.Subset(t, []string{"SSH", "HTTP", "HTTPS"}, res.Network.Services)

		require.NotNil(t, res.Reputation)
		assert.Less(t, res.Reputation.Reports, 50)
		assert.Subset(t, []string{"Scanning", "Malware", "Phishing"}, res.Reputation.Categories)
	}
}

func TestGenerateUnknownKind(t *testing.T) {
	_, _, err := New(Config{Seed: 1}).Generate(domain.Kind("phone"), "555")
	assert.Error(t, err)
}

func TestConcurrentUse(t *testing.T) {
	g := New(DefaultConfig())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = g.IP("1.1.1.1")
				_ = g.Username("bob")
			}
		}()
	}
	wg.Wait()
}
