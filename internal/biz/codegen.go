package biz

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"

	"linkstats/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
)

// codeBytes is the entropy of a generated code; hex doubles it to 8 chars.
const codeBytes = 4

// CodeGenerator picks short codes that are free in the store at the time
// of the check. The unique index on insert remains the final arbiter.
type CodeGenerator struct {
	repo        URLRepo
	random      io.Reader
	maxAttempts int
	log         *log.Helper
}

// NewCodeGenerator creates a generator reading from crypto/rand.
func NewCodeGenerator(c *conf.Shortener, repo URLRepo, logger log.Logger) *CodeGenerator {
	return &CodeGenerator{
		repo:        repo,
		random:      rand.Reader,
		maxAttempts: c.MaxAttempts,
		log:         log.NewHelper(log.With(logger, "module", "biz/codegen")),
	}
}

// Generate returns requested if it is free, or a random unused code when
// requested is empty.
func (g *CodeGenerator) Generate(ctx context.Context, requested string) (string, error) {
	if requested != "" {
		exists, err := g.repo.Exists(ctx, requested)
		if err != nil {
			return "", storageError(err)
		}
		if exists {
			return "", ErrCodeConflict
		}
		return requested, nil
	}

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		code, err := g.random8()
		if err != nil {
			return "", err
		}
		exists, err := g.repo.Exists(ctx, code)
		if err != nil {
			return "", storageError(err)
		}
		if !exists {
			return code, nil
		}
		g.log.WithContext(ctx).Debugf("code collision on attempt %d: %s", attempt, code)
	}
	return "", ErrGenerationExhausted
}

func (g *CodeGenerator) random8() (string, error) {
	b := make([]byte, codeBytes)
	if _, err := io.ReadFull(g.random, b); err != nil {
		return "", ErrGenerationExhausted.WithCause(err)
	}
	return hex.EncodeToString(b), nil
}
