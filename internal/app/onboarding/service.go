package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"motionarcade/internal/ports"
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// DisplayName is the generated name, set even when the profile update failed.
	DisplayName string
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
	// RecordsCreated is false when the user already had a record set.
	RecordsCreated bool
}

// Service handles post-auth onboarding for new players.
type Service struct {
	accounts ports.AccountPort
	records  ports.RecordsPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service with required ports.
// accounts/records must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, records ports.RecordsPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		records:  records,
		rng:      rng,
	}
}

// OnboardNewUser names a newly created account and creates its empty personal records.
// Returns an error only if the records cannot be created.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.records == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{DisplayName: s.generateFriendlyName()}
	if err := s.accounts.UpdateDisplayName(ctx, userID, result.DisplayName); err != nil {
		// Display names are cosmetic; records are needed by every game.
		result.ProfileUpdateErr = err
	}

	created, err := s.records.InitRecordsOnce(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to create records: %w", err)
	}
	result.RecordsCreated = created
	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Bouncy", "Nimble", "Swift", "Limber", "Zippy", "Steady", "Mighty", "Jolly", "Snappy", "Agile"}
	nouns := []string{"Kangaroo", "Ninja", "Dancer", "Boxer", "Gecko", "Otter", "Acrobat", "Heron", "Lynx", "Mime"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
