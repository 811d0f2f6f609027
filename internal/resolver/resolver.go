// Package resolver maps person identifiers to persisted mind records,
// tolerating slug spelling drift.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/mindsync-go/internal/cache"
	"github.com/kapu/mindsync-go/internal/domain"
	"github.com/kapu/mindsync-go/internal/util"
	pkgerrors "github.com/kapu/mindsync-go/pkg/errors"
)

// MindFinder is the slice of the store the resolver needs.
type MindFinder interface {
	FindBySlug(ctx context.Context, slug string) (*domain.Mind, error)
	SearchBySlugPattern(ctx context.Context, fragment string) ([]*domain.Mind, error)
}

const matchCacheTTL = 10 * time.Minute

type Resolver struct {
	finder MindFinder
	cache  *cache.Service
	logger *zap.Logger
}

func NewResolver(finder MindFinder, matchCache *cache.Service, logger *zap.Logger) *Resolver {
	return &Resolver{
		finder: finder,
		cache:  matchCache,
		logger: logger,
	}
}

// Resolve finds the one mind record the identifier denotes.
// Matching strategy:
//  1. Exact match on the normalized input and its hyphen/underscore variants
//  2. Substring search, accepted only when exactly one record matches
//
// Anything else is IdentityNotFound — the resolver never guesses among
// multiple candidates.
func (r *Resolver) Resolve(ctx context.Context, slug string) (*domain.Mind, error) {
	canonical := util.CanonicalizeSlug(slug)
	if canonical == "" {
		return nil, pkgerrors.NewIdentityNotFoundError(slug, 0)
	}

	cacheKey := fmt.Sprintf("resolve:%s", canonical)
	var cached domain.Mind
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err != nil {
		r.logger.Warn("Match cache read failed", zap.String("slug", slug), zap.Error(err))
	} else if found {
		r.logger.Debug("Match cache hit", zap.String("slug", slug), zap.String("resolved", cached.Slug))
		return &cached, nil
	}

	mind, err := r.resolveImpl(ctx, slug, canonical)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey, mind, matchCacheTTL); err != nil {
		r.logger.Warn("Match cache write failed", zap.String("slug", slug), zap.Error(err))
	}

	return mind, nil
}

func (r *Resolver) resolveImpl(ctx context.Context, input, canonical string) (*domain.Mind, error) {
	// 1. Exact-match variants
	for _, variant := range util.SlugVariants(input) {
		mind, err := r.finder.FindBySlug(ctx, variant)
		if err != nil {
			return nil, err
		}
		if mind != nil {
			r.logger.Debug("Resolved via exact variant",
				zap.String("input", input),
				zap.String("variant", variant),
				zap.String("slug", mind.Slug),
			)
			return mind, nil
		}
	}

	// 2. Substring fallback. Lower confidence, so it must be unambiguous:
	// two hits means we report not-found rather than pick one.
	fragment := strings.ReplaceAll(canonical, "-", "")
	matches, err := r.finder.SearchBySlugPattern(ctx, canonical)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 && fragment != canonical {
		matches, err = r.finder.SearchBySlugPattern(ctx, fragment)
		if err != nil {
			return nil, err
		}
	}

	switch len(matches) {
	case 1:
		r.logger.Info("Resolved via partial match",
			zap.String("input", input),
			zap.String("slug", matches[0].Slug),
		)
		return matches[0], nil
	case 0:
		r.logger.Warn("No mind record found", zap.String("input", input))
		return nil, pkgerrors.NewIdentityNotFoundError(input, 0)
	default:
		r.logger.Warn("Ambiguous partial match, refusing to guess",
			zap.String("input", input),
			zap.Int("candidates", len(matches)),
		)
		return nil, pkgerrors.NewIdentityNotFoundError(input, len(matches))
	}
}
