package report

import (
	"context"
	"math/rand/v2"

	"github.com/de-tools/foundation-report/pkg/models/domain"
)

// SampleSource serves a fixed product set so the report can be demoed without a foundation.
// Each foundation additionally gets either MySQL or Redis.
type SampleSource struct {
	rng *rand.Rand
}

func NewSampleSource(seed uint64) *SampleSource {
	return &SampleSource{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (s *SampleSource) DeployedProducts(_ context.Context, _ domain.Foundation) ([]domain.DeployedProduct, error) {
	products := []domain.DeployedProduct{
		{Type: "cf", ProductVersion: "2.4.1"},
		{Type: "apm", ProductVersion: "1.5.3"},
		{Type: "p-bosh", ProductVersion: "2.4-build.152"},
		{Type: "aws-service-broker", ProductVersion: "1.0.0-beta.1"},
	}

	if s.rng.IntN(254)%2 == 0 {
		products = append(products, domain.DeployedProduct{Type: "pivotal-mysql", ProductVersion: "2.3.4"})
	} else {
		products = append(products, domain.DeployedProduct{Type: "p-redis", ProductVersion: "1.14.1"})
	}
	return products, nil
}
