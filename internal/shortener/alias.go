package shortener

import (
	"context"
	"errors"

	"github.com/jaevor/go-nanoid"
)

// aliasAlphabet is the 62-symbol alphabet short codes are drawn from.
const aliasAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	// maxAttemptsPerLength bounds the collision retry loop at one length.
	maxAttemptsPerLength = 10

	// maxLengthEscalation is how far the generator grows the code length
	// once a length's retry budget is exhausted.
	maxLengthEscalation = 3
)

// AliasGenerator produces unique short codes. Collisions are rare
// (probability roughly existing-count / 62^length) but the retry loop is
// bounded: after maxAttemptsPerLength collisions the code length grows by
// one, up to maxLengthEscalation, after which generation fails with
// ErrAliasSpaceExhausted.
type AliasGenerator struct {
	repo   Repository
	length int
}

// NewAliasGenerator creates a generator producing codes of the given
// default length.
func NewAliasGenerator(repo Repository, length int) *AliasGenerator {
	return &AliasGenerator{repo: repo, length: length}
}

// Generate produces one candidate code of the given length.
func (g *AliasGenerator) Generate(length int) (string, error) {
	gen, err := nanoid.CustomASCII(aliasAlphabet, length)
	if err != nil {
		return "", err
	}

	return gen(), nil
}

// EnsureUnique generates candidates until one is unused.
func (g *AliasGenerator) EnsureUnique(ctx context.Context) (string, error) {
	for length := g.length; length <= g.length+maxLengthEscalation; length++ {
		gen, err := nanoid.CustomASCII(aliasAlphabet, length)
		if err != nil {
			return "", err
		}

		for attempt := 0; attempt < maxAttemptsPerLength; attempt++ {
			candidate := gen()

			_, err := g.repo.FindByAlias(ctx, candidate)
			if errors.Is(err, ErrNotFound) {
				return candidate, nil
			}

			if err != nil {
				return "", err
			}
		}
	}

	return "", ErrAliasSpaceExhausted
}
