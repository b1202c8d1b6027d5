package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	domain "user-directory-service/internal/domain/user"
	"user-directory-service/internal/usecase/user"
	apperrors "user-directory-service/pkg/errors"
)

// seedUser is the wire shape of a seed entry.
type seedUser struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birthDate"`
	UserType  string `json:"userType"`
}

// Seeder loads an initial set of users into the directory before the
// service accepts traffic. The list is fetched from a configured URL; on
// any fetch or decode failure the embedded fallback set is used instead.
// Inserts go through the usecase, so validation and uniqueness apply and
// re-running against a populated store is harmless.
type Seeder struct {
	uc      user.Usecase
	client  *http.Client
	url     string
	timeout time.Duration
	log     *zap.Logger
}

// NewSeeder creates a Seeder. url may be empty, in which case only the
// fallback set is used.
func NewSeeder(uc user.Usecase, url string, timeout time.Duration, log *zap.Logger) *Seeder {
	return &Seeder{
		uc:      uc,
		client:  &http.Client{Timeout: timeout},
		url:     url,
		timeout: timeout,
		log:     log,
	}
}

// Run performs the one-time seeding step. It never fails the startup:
// individual insert failures are logged and skipped.
func (s *Seeder) Run(ctx context.Context) {
	seeds := s.fetchOrFallback(ctx)

	var inserted, skipped int
	for _, seed := range seeds {
		in, err := toInput(seed)
		if err != nil {
			s.log.Warn("skipping malformed seed entry", zap.String("email", seed.Email), zap.Error(err))
			skipped++
			continue
		}

		if _, err := s.uc.CreateUser(ctx, in); err != nil {
			// Duplicates are expected on restart against a populated store
			if _, ok := err.(*apperrors.ConflictError); ok {
				skipped++
				continue
			}
			s.log.Warn("failed to insert seed user", zap.String("email", seed.Email), zap.Error(err))
			skipped++
			continue
		}
		inserted++
	}

	s.log.Info("seeding complete", zap.Int("inserted", inserted), zap.Int("skipped", skipped))
}

// fetchOrFallback retrieves the seed list from the configured URL, falling
// back to the embedded set on any failure.
func (s *Seeder) fetchOrFallback(ctx context.Context) []seedUser {
	if s.url == "" {
		return fallbackSeedUsers(s.log)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		s.log.Warn("invalid seed URL, using fallback set", zap.String("url", s.url), zap.Error(err))
		return fallbackSeedUsers(s.log)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("seed fetch failed, using fallback set", zap.String("url", s.url), zap.Error(err))
		return fallbackSeedUsers(s.log)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Warn("seed fetch returned non-200, using fallback set",
			zap.String("url", s.url), zap.Int("status", resp.StatusCode))
		return fallbackSeedUsers(s.log)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		s.log.Warn("failed to read seed response, using fallback set", zap.Error(err))
		return fallbackSeedUsers(s.log)
	}

	var seeds []seedUser
	if err := json.Unmarshal(body, &seeds); err != nil {
		s.log.Warn("failed to decode seed response, using fallback set", zap.Error(err))
		return fallbackSeedUsers(s.log)
	}

	s.log.Info("seed list fetched", zap.String("url", s.url), zap.Int("count", len(seeds)))
	return seeds
}

func toInput(seed seedUser) (user.UserInput, error) {
	birthDate, err := time.Parse("2006-01-02", seed.BirthDate)
	if err != nil {
		return user.UserInput{}, fmt.Errorf("invalid birthDate %q: %w", seed.BirthDate, err)
	}

	return user.UserInput{
		FullName:  seed.FullName,
		Email:     seed.Email,
		Phone:     seed.Phone,
		BirthDate: birthDate,
		UserType:  domain.UserType(seed.UserType),
	}, nil
}
