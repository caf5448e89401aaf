package service

import (
	"context"
	"fmt"

	"github.com/sigortaci/acente-api/internal/domain/repository"
)

// maxPolicyNumberAttempts bounds regeneration after a unique violation
const maxPolicyNumberAttempts = 5

// PolicyNumberGenerator hands out POL-<year>-<nnn> numbers
type PolicyNumberGenerator struct {
	policyRepo repository.PolicyRepository
}

// NewPolicyNumberGenerator creates a new generator
func NewPolicyNumberGenerator(policyRepo repository.PolicyRepository) *PolicyNumberGenerator {
	return &PolicyNumberGenerator{policyRepo: policyRepo}
}

// PolicyNumberPrefix is the shared prefix of every number issued in year
func PolicyNumberPrefix(year int) string {
	return fmt.Sprintf("POL-%d-", year)
}

// FormatPolicyNumber renders counter with at least three digits
func FormatPolicyNumber(year, counter int) string {
	return fmt.Sprintf("POL-%d-%03d", year, counter)
}

// Next returns the lowest free number for year. It does not reserve it; the
// unique index on policy_number settles races at insert time.
func (g *PolicyNumberGenerator) Next(ctx context.Context, year int) (string, error) {
	numbers, err := g.policyRepo.NumbersWithPrefix(ctx, PolicyNumberPrefix(year))
	if err != nil {
		return "", err
	}

	used := make(map[string]struct{}, len(numbers))
	for _, n := range numbers {
		used[n] = struct{}{}
	}

	for counter := 1; ; counter++ {
		candidate := FormatPolicyNumber(year, counter)
		if _, taken := used[candidate]; !taken {
			return candidate, nil
		}
	}
}
