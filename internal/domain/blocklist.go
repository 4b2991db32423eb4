package domain

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// BlockedSite is a domain a user wants blocked during focus sessions.
type BlockedSite struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Domain string `json:"domain"`
}

var domainPattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)

// NormalizeDomain lower-cases and validates a host name such as
// "news.example.com". Schemes, paths and ports are rejected.
func NormalizeDomain(s string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(s))
	if d == "" {
		return "", fmt.Errorf("%w: domain is required", ErrValidation)
	}
	if !domainPattern.MatchString(d) {
		return "", fmt.Errorf("%w: %q is not a valid domain (e.g. example.com)", ErrValidation, s)
	}
	return d, nil
}

// BlocklistRepository is the port for blocklist persistence.
// AddBlockedSite returns ErrConflict if the user already blocks the domain.
type BlocklistRepository interface {
	ListBlockedSites(ctx context.Context, userID int64) ([]BlockedSite, error)
	AddBlockedSite(ctx context.Context, userID int64, domain string) (*BlockedSite, error)
	RemoveBlockedSite(ctx context.Context, userID, id int64) (bool, error)
}
