package registry

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/de-tools/foundation-report/pkg/models/domain"
)

// LoadFile registers one foundation per non-empty section of an INI file:
//
//	[PROD]
//	target   = opsman.example.org
//	username = admin
//	password = secret
func LoadFile(r FoundationRegistry, path string) error {
	cfg, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load foundations file: %w", err)
	}

	for _, section := range cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		target := section.Key("target").String()
		if target == "" {
			return fmt.Errorf("%w: section %q has no target", ErrInvalidDefinition, section.Name())
		}
		err := r.Register(domain.Foundation{
			Name:     section.Name(),
			Target:   target,
			Username: section.Key("username").String(),
			Password: section.Key("password").String(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
