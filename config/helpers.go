package config

import (
	"fmt"
	"strings"
)

// Slug returns the hosted repository's owner and name. Explicitly
// configured values win; otherwise both are derived from the clone URL.
func (r Repository) Slug() (owner, name string, ok bool) {
	if r.Owner != "" && r.Name != "" {
		return r.Owner, r.Name, true
	}
	return parseSlug(r.URL)
}

// CloneURL returns the URL runs clone from, deriving one from the owner
// and name when no URL is configured.
func (r Repository) CloneURL() string {
	if r.URL != "" {
		return r.URL
	}
	if r.Owner != "" && r.Name != "" {
		return fmt.Sprintf("https://github.com/%s/%s.git", r.Owner, r.Name)
	}
	return ""
}

// parseSlug extracts owner and name from a clone URL. It accepts https,
// ssh scp-style, and bare host/owner/name forms.
func parseSlug(rawURL string) (string, string, bool) {
	s := strings.TrimSuffix(strings.TrimSpace(rawURL), ".git")
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	} else if i := strings.Index(s, "@"); i >= 0 {
		s = strings.Replace(s[i+1:], ":", "/", 1)
	}

	parts := strings.Split(strings.Trim(s, "/"), "/")
	if len(parts) < 3 {
		return "", "", false
	}

	owner, name := parts[len(parts)-2], parts[len(parts)-1]
	if owner == "" || name == "" {
		return "", "", false
	}
	return owner, name, true
}
