package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kapu/mindsync-go/internal/domain"
	pkgerrors "github.com/kapu/mindsync-go/pkg/errors"
)

type fakeFinder struct {
	minds        []*domain.Mind
	slugQueries  []string
	patternCalls []string
}

func (f *fakeFinder) FindBySlug(_ context.Context, slug string) (*domain.Mind, error) {
	f.slugQueries = append(f.slugQueries, slug)
	for _, mind := range f.minds {
		if mind.Slug == slug {
			return mind, nil
		}
	}
	return nil, nil
}

func (f *fakeFinder) SearchBySlugPattern(_ context.Context, fragment string) ([]*domain.Mind, error) {
	f.patternCalls = append(f.patternCalls, fragment)
	var matches []*domain.Mind
	for _, mind := range f.minds {
		if strings.Contains(mind.Slug, fragment) {
			matches = append(matches, mind)
		}
	}
	return matches, nil
}

func newTestResolver(minds ...*domain.Mind) (*Resolver, *fakeFinder) {
	finder := &fakeFinder{minds: minds}
	return NewResolver(finder, nil, zap.NewNop()), finder
}

func TestResolveExactSlug(t *testing.T) {
	r, _ := newTestResolver(&domain.Mind{ID: 1, Slug: "alex-hormozi"})

	mind, err := r.Resolve(context.Background(), "alex-hormozi")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mind.ID != 1 {
		t.Fatalf("expected mind 1, got %+v", mind)
	}
}

func TestResolveUnderscoreVariant(t *testing.T) {
	r, finder := newTestResolver(&domain.Mind{ID: 7, Slug: "jose-carlos-amorim"})

	mind, err := r.Resolve(context.Background(), "jose_carlos_amorim")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mind.Slug != "jose-carlos-amorim" {
		t.Fatalf("expected hyphen slug to resolve, got %+v", mind)
	}
	if len(finder.patternCalls) != 0 {
		t.Fatalf("expected exact variants to resolve before partial matching, got %v", finder.patternCalls)
	}
}

func TestResolveCaseAndSpacingVariants(t *testing.T) {
	r, _ := newTestResolver(&domain.Mind{ID: 3, Slug: "alex-hormozi"})

	mind, err := r.Resolve(context.Background(), "  Alex Hormozi ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mind.ID != 3 {
		t.Fatalf("expected mind 3, got %+v", mind)
	}
}

func TestResolvePartialMatchSingleCandidate(t *testing.T) {
	r, _ := newTestResolver(&domain.Mind{ID: 4, Slug: "naval-ravikant-archive"})

	mind, err := r.Resolve(context.Background(), "naval-ravikant")
	if err != nil {
		t.Fatalf("expected single partial match to resolve, got %v", err)
	}
	if mind.ID != 4 {
		t.Fatalf("expected mind 4, got %+v", mind)
	}
}

func TestResolveAmbiguousPartialMatchIsNotFound(t *testing.T) {
	r, _ := newTestResolver(
		&domain.Mind{ID: 5, Slug: "sam-altman"},
		&domain.Mind{ID: 6, Slug: "sam-harris"},
	)

	_, err := r.Resolve(context.Background(), "sam")
	var notFound *pkgerrors.IdentityNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected IdentityNotFoundError for ambiguous input, got %v", err)
	}
	if notFound.Candidates != 2 {
		t.Fatalf("expected 2 candidates recorded, got %d", notFound.Candidates)
	}
}

func TestResolveNoMatchIsNotFound(t *testing.T) {
	r, _ := newTestResolver(&domain.Mind{ID: 8, Slug: "alex-hormozi"})

	_, err := r.Resolve(context.Background(), "charlie-munger")
	var notFound *pkgerrors.IdentityNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected IdentityNotFoundError, got %v", err)
	}
}

func TestResolveEmptyInputIsNotFound(t *testing.T) {
	r, _ := newTestResolver()

	_, err := r.Resolve(context.Background(), "   ")
	var notFound *pkgerrors.IdentityNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected IdentityNotFoundError for empty input, got %v", err)
	}
}
