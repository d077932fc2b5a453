package pivnet

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/de-tools/foundation-report/pkg/models/domain"
	"github.com/de-tools/foundation-report/pkg/runtime/process"
)

const (
	DefaultURL    = "https://network.pivotal.io"
	DefaultBinary = "curl"
)

// defaultFilePattern applies to slugs without an entry in filePatterns
var defaultFilePattern = regexp.MustCompile(`^.*\.pivotal`)

// filePatterns selects the product file whose version describes the release
var filePatterns = map[string]*regexp.Regexp{
	"ops-manager":     regexp.MustCompile(`^.*onAWS\.yml`),
	"elastic-runtime": regexp.MustCompile(`^.*cf-.*\.pivotal`),
}

// FilePattern returns the object key pattern used for slug
func FilePattern(slug string) *regexp.Regexp {
	if re, ok := filePatterns[slug]; ok {
		return re
	}
	return defaultFilePattern
}

// Client looks up the latest releases on the Pivotal Network catalog by shelling out to curl
type Client struct {
	runner  process.Runner
	binary  string
	baseURL string
}

type Options struct {
	Binary  string
	BaseURL string
}

func NewClient(runner process.Runner, opts Options) *Client {
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultURL
	}
	return &Client{runner: runner, binary: opts.Binary, baseURL: opts.BaseURL}
}

func (c *Client) releaseURL(slug string) string {
	return fmt.Sprintf("%s/api/v2/products/%s/releases/latest", c.baseURL, slug)
}

// LatestVersion returns the latest release version of slug, or domain.Placeholder when the
// catalog can't be reached. With useFileVersion the version of the first product file
// matching the slug's pattern wins over the release version.
func (c *Client) LatestVersion(ctx context.Context, token, slug string, useFileVersion bool) string {
	logger := zerolog.Ctx(ctx).With().Str("slug", slug).Logger()

	args := []string{
		c.binary,
		"-s",
		"-f",
		"-H", "Accept: application/json",
		"-H", "Content-Type: application/json",
	}
	if token != "" {
		args = append(args, "-H", "Authorization: Token "+token)
	}
	args = append(args, c.releaseURL(slug))

	logger.Debug().Msg("fetching latest release")

	result, err := c.runner.Run(ctx, args...)
	if err != nil {
		logger.Warn().Err(err).Msg("catalog lookup failed")
		return domain.Placeholder
	}
	if !result.Success() {
		logger.Warn().Int("exit_code", result.ExitCode).Msg("catalog lookup failed")
		return domain.Placeholder
	}

	var release domain.CatalogRelease
	if err := json.Unmarshal(result.Stdout, &release); err != nil {
		logger.Warn().Err(err).Msg("failed to decode catalog release")
		return domain.Placeholder
	}

	return resolveVersion(release, slug, useFileVersion)
}

func resolveVersion(release domain.CatalogRelease, slug string, useFileVersion bool) string {
	version := release.Version
	if version == "" {
		version = domain.Placeholder
	}
	if !useFileVersion {
		return version
	}

	pattern := FilePattern(slug)
	for _, f := range release.ProductFiles {
		if pattern.MatchString(f.AWSObjectKey) {
			return f.FileVersion
		}
	}
	return version
}
