package biz

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"linkstats/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
)

// maxValidityMinutes keeps expiresAt within time.Duration range.
var maxValidityMinutes = float64(math.MaxInt64 / int64(time.Minute))

// ShortenRequest is the input of Shorten. Validity is a number of minutes
// in its textual form; ShortCode is optional.
type ShortenRequest struct {
	URL       string
	Validity  string
	ShortCode string
}

// ShortLink is the public result of Shorten.
type ShortLink struct {
	Link      string
	Code      string
	ExpiresAt time.Time
}

// ShortenUsecase creates short links.
type ShortenUsecase struct {
	repo        URLRepo
	gen         *CodeGenerator
	baseURL     string
	maxAttempts int
	now         func() time.Time
	log         *log.Helper
}

// NewShortenUsecase creates a new ShortenUsecase.
func NewShortenUsecase(c *conf.Shortener, repo URLRepo, gen *CodeGenerator, logger log.Logger) *ShortenUsecase {
	return &ShortenUsecase{
		repo:        repo,
		gen:         gen,
		baseURL:     strings.TrimRight(c.BaseURL, "/"),
		maxAttempts: c.MaxAttempts,
		now:         time.Now,
		log:         log.NewHelper(log.With(logger, "module", "biz/shorten")),
	}
}

// Shorten validates req, acquires a code and stores the record.
func (uc *ShortenUsecase) Shorten(ctx context.Context, req *ShortenRequest) (*ShortLink, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, ErrInvalidRequest
	}
	minutes, err := parseValidity(req.Validity)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		code, err := uc.gen.Generate(ctx, req.ShortCode)
		if err != nil {
			return nil, err
		}

		now := uc.now().UTC().Truncate(time.Millisecond)
		u := &ShortURL{
			Code:        code,
			OriginalURL: req.URL,
			CreatedAt:   now,
			ExpiresAt:   now.Add(validityDuration(minutes)),
		}
		err = uc.repo.Create(ctx, u)
		if err == nil {
			uc.log.WithContext(ctx).Infof("shortened %s as %s, expires %s", u.OriginalURL, u.Code, u.ExpiresAt.Format(time.RFC3339))
			return &ShortLink{
				Link:      uc.baseURL + "/" + u.Code,
				Code:      u.Code,
				ExpiresAt: u.ExpiresAt,
			}, nil
		}
		if !ErrCodeConflict.Is(err) || req.ShortCode != "" {
			return nil, storageError(err)
		}
		uc.log.WithContext(ctx).Warnf("generated code %s was taken on insert, retrying", code)
	}
	return nil, ErrGenerationExhausted
}

// parseValidity reads a number of minutes. Empty and non-numeric values
// are rejected; zero and negative values give an already expired link.
func parseValidity(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidRequest
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidRequest.WithMetadata(map[string]string{"validity": s})
	}
	if math.Abs(v) > maxValidityMinutes {
		return 0, ErrInvalidRequest.WithMetadata(map[string]string{"validity": s})
	}
	return v, nil
}

func validityDuration(minutes float64) time.Duration {
	return time.Duration(minutes * float64(time.Minute)).Truncate(time.Millisecond)
}
