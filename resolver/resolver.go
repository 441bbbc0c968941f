package resolver

import (
	"strings"

	"github.com/kiefholz/ligaplan/model"
)

// Miss records a venue code that could not be resolved.
type Miss struct {
	Index int    // position of the record
	Code  string // unresolved code, empty if the record had none
}

// Resolver replaces venue codes with addresses.
type Resolver struct {
	dir      model.HallDirectory
	keepCode bool
	fold     bool
}

// Option configures the resolver
type Option func(*Resolver)

// WithKeepCode leaves an unresolved code in the venue field instead of
// clearing it (default: false)
func WithKeepCode(keep bool) Option {
	return func(r *Resolver) {
		r.keepCode = keep
	}
}

// WithCaseFold matches codes case-insensitively (default: false)
func WithCaseFold(fold bool) Option {
	return func(r *Resolver) {
		r.fold = fold
	}
}

// New creates a resolver over dir. A nil directory resolves nothing.
func New(dir model.HallDirectory, opts ...Option) *Resolver {
	r := &Resolver{dir: dir}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a copy of records with every venue code replaced by its
// address, in the same order, and the codes that did not resolve.
func (r *Resolver) Resolve(records []model.MatchRecord) ([]model.MatchRecord, []Miss) {
	out := make([]model.MatchRecord, len(records))
	var misses []Miss

	for i, rec := range records {
		addr, ok := r.lookup(rec.Venue)
		if !ok {
			misses = append(misses, Miss{Index: i, Code: rec.Venue})
			if !r.keepCode {
				rec.Venue = ""
			}
		} else {
			rec.Venue = addr
		}
		out[i] = rec
	}
	return out, misses
}

func (r *Resolver) lookup(code string) (string, bool) {
	if addr, ok := r.dir.Lookup(code); ok {
		return addr, true
	}
	if !r.fold || code == "" {
		return "", false
	}
	for k, addr := range r.dir {
		if strings.EqualFold(k, code) {
			return addr, true
		}
	}
	return "", false
}
