package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/foundation-report/pkg/models/domain"
)

var (
	ErrInvalidDefinition   = errors.New("invalid foundation format")
	ErrDuplicateFoundation = errors.New("duplicate foundation name")
	ErrNoFoundations       = errors.New("no foundations to process")
)

// FoundationRegistry holds the foundations of a run in registration order
type FoundationRegistry interface {
	// Add parses a "<name>,<target>,<username>,<password>" definition
	Add(definition string) error
	// Register adds an already parsed foundation
	Register(f domain.Foundation) error
	Foundations() []domain.Foundation
	Len() int
}

type registry struct {
	order       []string
	foundations map[string]domain.Foundation
}

func NewRegistry() FoundationRegistry {
	return &registry{
		foundations: make(map[string]domain.Foundation),
	}
}

// ParseDefinition splits a comma separated foundation definition
func ParseDefinition(definition string) (domain.Foundation, error) {
	fields := strings.Split(definition, ",")
	if len(fields) != 4 {
		return domain.Foundation{}, fmt.Errorf("%w: %q", ErrInvalidDefinition, definition)
	}
	return domain.Foundation{
		Name:     fields[0],
		Target:   fields[1],
		Username: fields[2],
		Password: fields[3],
	}, nil
}

func (r *registry) Add(definition string) error {
	f, err := ParseDefinition(definition)
	if err != nil {
		return err
	}
	return r.Register(f)
}

func (r *registry) Register(f domain.Foundation) error {
	if _, exists := r.foundations[f.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateFoundation, f.Name)
	}
	r.order = append(r.order, f.Name)
	r.foundations[f.Name] = f
	return nil
}

func (r *registry) Foundations() []domain.Foundation {
	out := make([]domain.Foundation, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.foundations[name])
	}
	return out
}

func (r *registry) Len() int {
	return len(r.order)
}

// AddAll adds newline separated definitions, as found in the FOUNDATIONS variable.
// Blank lines are skipped.
func AddAll(r FoundationRegistry, definitions string) error {
	for _, definition := range strings.Split(definitions, "\n") {
		definition = strings.TrimRight(definition, "\r")
		if strings.TrimSpace(definition) == "" {
			continue
		}
		if err := r.Add(definition); err != nil {
			return err
		}
	}
	return nil
}
