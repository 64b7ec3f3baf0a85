package parsers

import (
	"fmt"
	"sort"

	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// Registry maps document formats to their parsers.
type Registry struct {
	parsers map[domain.DocumentFormat]driven.Parser
}

// NewRegistry creates a registry holding the given parsers.
func NewRegistry(parsers ...driven.Parser) *Registry {
	r := &Registry{
		parsers: make(map[domain.DocumentFormat]driven.Parser, len(parsers)),
	}
	for _, p := range parsers {
		r.Register(p)
	}
	return r
}

// Register adds a parser to the registry. Registering a second parser
// for the same format replaces the first.
func (r *Registry) Register(p driven.Parser) {
	r.parsers[p.Format()] = p
}

// Get returns the parser for a format.
func (r *Registry) Get(format domain.DocumentFormat) (driven.Parser, error) {
	p, ok := r.parsers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
	return p, nil
}

// Formats returns the supported formats in stable order.
func (r *Registry) Formats() []domain.DocumentFormat {
	formats := make([]domain.DocumentFormat, 0, len(r.parsers))
	for f := range r.parsers {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool {
		return formats[i] < formats[j]
	})
	return formats
}
