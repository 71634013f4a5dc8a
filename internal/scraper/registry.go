package scraper

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Factory builds a fresh Scraper. It is called once per sync so that cookie
// jars and cursors are never shared between accounts.
type Factory func() Scraper

// Registry maps institutions to their protocol client factories.
type Registry map[Institution]Factory

// Lookup returns a new Scraper for the institution.
func (r Registry) Lookup(institution Institution) (Scraper, error) {
	factory, ok := r[institution]
	if !ok || factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedInstitution, institution)
	}

	return factory(), nil
}

// Institutions lists the registered institutions.
func (r Registry) Institutions() []Institution {
	institutions := make([]Institution, 0, len(r))
	for i := range r {
		institutions = append(institutions, i)
	}
	return institutions
}

// Guard runs fn and converts a panic into a failed Result.
func Guard(institution Institution, fn func() Result) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("institution", string(institution)).Interface("panic", r).Msg("scraper panicked")
			result = Failed(fmt.Errorf("%s scraper: %v", institution, r))
		}
	}()

	return fn()
}
