package tracking

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo  Repository
	cache *Cache
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Lookup resolves a public tracking code. Codes are normalised to upper case
// so the slip can be typed either way.
func (s *Service) Lookup(ctx context.Context, code string) (*Result, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("tracking: empty code")
	}

	return s.cache.Fetch(ctx, code, func(ctx context.Context) (*Result, error) {
		return s.repo.Lookup(ctx, code)
	})
}
