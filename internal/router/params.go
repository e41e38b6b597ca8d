package router

import (
	"fmt"
	"net"
	"net/url"
)

// Params are the run's inputs. Set once at start, immutable for the run.
type Params struct {
	BaseURL  string
	Username string
	Password string
	DNS1     string
	DNS2     string // optional
	Headful  bool
	Debug    bool
}

// Validate checks the required fields and that DNS values parse as IP
// addresses.
func (p Params) Validate() error {
	if p.BaseURL == "" {
		return fmt.Errorf("router URL is required (--url or DNSSET_URL)")
	}
	if _, err := url.Parse(p.BaseURL); err != nil {
		return fmt.Errorf("invalid router URL %q: %w", p.BaseURL, err)
	}
	if p.Username == "" {
		return fmt.Errorf("username is required (--user or DNSSET_USER)")
	}
	if p.Password == "" {
		return fmt.Errorf("password is required (--pass or DNSSET_PASS)")
	}
	if p.DNS1 == "" {
		return fmt.Errorf("primary DNS server is required (--dns1 or DNSSET_DNS1)")
	}
	if net.ParseIP(p.DNS1) == nil {
		return fmt.Errorf("invalid primary DNS server %q", p.DNS1)
	}
	if p.DNS2 != "" && net.ParseIP(p.DNS2) == nil {
		return fmt.Errorf("invalid secondary DNS server %q", p.DNS2)
	}
	return nil
}

// loginURL embeds the credentials as userinfo for firmwares that sit behind
// HTTP Basic auth. Firmwares with a form login just ignore it.
func (p Params) loginURL() string {
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return p.BaseURL
	}
	if u.Scheme == "" {
		u.Scheme = "http"
	}
	if u.User == nil {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u.String()
}
