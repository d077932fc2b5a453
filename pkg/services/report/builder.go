package report

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/de-tools/foundation-report/pkg/models/domain"
)

// ProductSource lists the products deployed on a foundation
type ProductSource interface {
	DeployedProducts(ctx context.Context, f domain.Foundation) ([]domain.DeployedProduct, error)
}

// Catalog resolves the latest released version of a catalog slug
type Catalog interface {
	LatestVersion(ctx context.Context, token, slug string, useFileVersion bool) string
}

type Options struct {
	Token string
	// UseFileVersions reports the version of the matching product file instead of the release
	UseFileVersions bool
	// UseProductSlugs keys rows by catalog slug instead of Ops Manager product type
	UseProductSlugs bool
}

// Builder collects installed and latest versions. Catalog lookups are memoized per
// product identifier for the lifetime of the Builder.
type Builder struct {
	source   ProductSource
	catalog  Catalog
	opts     Options
	resolved map[string]string
}

func NewBuilder(source ProductSource, catalog Catalog, opts Options) *Builder {
	return &Builder{
		source:   source,
		catalog:  catalog,
		opts:     opts,
		resolved: make(map[string]string),
	}
}

// Build queries every foundation in order. The first failing foundation aborts the build.
func (b *Builder) Build(ctx context.Context, foundations []domain.Foundation) (*domain.VersionReport, error) {
	logger := zerolog.Ctx(ctx)
	report := domain.NewVersionReport()

	for _, f := range foundations {
		logger.Debug().Str("foundation", f.Name).Msg("collecting deployed products")

		products, err := b.source.DeployedProducts(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("failed to get deployed products of %s: %w", f.Name, err)
		}

		report.AddFoundation(f.Name)
		for _, p := range products {
			slug := ProductSlug(p.Type)
			productID := p.Type
			if b.opts.UseProductSlugs {
				productID = slug
			}

			report.SetInstalled(f.Name, productID, p.ProductVersion)
			report.Latest[productID] = b.latest(ctx, productID, slug)
		}
	}

	return report, nil
}

func (b *Builder) latest(ctx context.Context, productID, slug string) string {
	if version, ok := b.resolved[productID]; ok {
		return version
	}
	version := b.catalog.LatestVersion(ctx, b.opts.Token, slug, b.opts.UseFileVersions)
	b.resolved[productID] = version
	return version
}
