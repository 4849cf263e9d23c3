// Package linkcheck scores a URL for common phishing signals so players
// can check links they find in game challenges.
package linkcheck

import (
	"fmt"
	"net/url"
	"strings"
)

// SafeThreshold is the lowest score reported as safe.
const SafeThreshold = 70

// Deductions per signal.
const (
	penaltySubdomains  = 30
	penaltyShortener   = 20
	penaltyLookalike   = 50
	penaltySuspectTLD  = 25
	penaltyInsecureURL = 15
)

// Report is the outcome of Analyze.
type Report struct {
	Safe     bool     `json:"safe"`
	Score    int      `json:"score"`
	Warnings []string `json:"warnings"`
	Domain   string   `json:"domain,omitempty"`
}

var (
	shorteners   = []string{"bit.ly", "tinyurl", "t.co", "goo.gl", "ow.ly"}
	wellKnown    = []string{"google", "facebook", "amazon", "microsoft", "apple", "netflix", "youtube", "paypal", "github"}
	suspectTLDs  = []string{".tk", ".ml", ".ga", ".cf", ".click", ".download"}
	substitution = []struct{ from, to string }{
		{"o", "0"}, {"i", "1"}, {"e", "3"}, {"a", "@"}, {"s", "$"},
		{"g", "9"}, {"l", "1"}, {"m", "rn"}, {"w", "vv"},
	}
)

// Analyze scores rawURL starting from 100. A URL without a scheme is
// read as plain http.
func Analyze(rawURL string) Report {
	domain, scheme, ok := parse(rawURL)
	if !ok {
		return Report{Safe: false, Score: 0, Warnings: []string{"Invalid URL format"}}
	}

	score := 100
	warnings := []string{}

	if strings.ContainsAny(domain, "0123456789") || strings.Contains(domain, "xn--") {
		if strings.Count(domain, ".") > 3 {
			score -= penaltySubdomains
			warnings = append(warnings, "Too many subdomains - suspicious!")
		}
	}

	for _, s := range shorteners {
		if strings.Contains(domain, s) {
			score -= penaltyShortener
			warnings = append(warnings, "Shortened URL - can't see real destination")
			break
		}
	}

	for _, site := range wellKnown {
		if lookalike(domain, site) {
			score -= penaltyLookalike
			warnings = append(warnings, fmt.Sprintf("Suspicious spelling - looks like fake %s", site))
		}
	}

	for _, tld := range suspectTLDs {
		if strings.HasSuffix(domain, tld) || strings.Contains(domain, tld+".") {
			score -= penaltySuspectTLD
			warnings = append(warnings, "Suspicious domain extension")
			break
		}
	}

	if scheme != "https" {
		score -= penaltyInsecureURL
		warnings = append(warnings, "Not using secure HTTPS connection")
	}

	score = max(score, 0)
	return Report{
		Safe:     score >= SafeThreshold,
		Score:    score,
		Warnings: warnings,
		Domain:   domain,
	}
}

func parse(rawURL string) (domain, scheme string, ok bool) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" || strings.ContainsAny(raw, " \t\n") {
		return "", "", false
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "", "", false
	}
	return strings.ToLower(u.Hostname()), strings.ToLower(u.Scheme), true
}

// genuine reports whether domain is the site's own .com domain or a
// subdomain of it.
func genuine(domain, site string) bool {
	real := site + ".com"
	return domain == real || strings.HasSuffix(domain, "."+real)
}

// lookalike reports whether domain imitates site: the name embedded in a
// foreign domain, or the name with a character substitution.
func lookalike(domain, site string) bool {
	if genuine(domain, site) {
		return false
	}
	if strings.Contains(domain, site) {
		return true
	}
	for _, sub := range substitution {
		fake := strings.ReplaceAll(site, sub.from, sub.to)
		if fake != site && strings.Contains(domain, fake) {
			return true
		}
	}
	return false
}
