package link

import (
	"fmt"

	"skyviz/internal/dataset"
	"skyviz/pkg/errs"
)

// Set is an immutable batch of links relating every linked dataset to a
// single reference. Sets are built whole and swapped atomically; they
// are never mutated after Compute returns.
type Set struct {
	scheme    Scheme
	reference string
	links     map[string]Link
}

// Scheme returns the scheme the set was built with.
func (s *Set) Scheme() Scheme { return s.scheme }

// Reference returns the label every link points at.
func (s *Set) Reference() string { return s.reference }

// Has reports whether the label participates in the set.
func (s *Set) Has(label string) bool {
	_, ok := s.links[label]
	return ok
}

// LinkFor returns the link from the labeled dataset to the reference.
func (s *Set) LinkFor(label string) (Link, bool) {
	l, ok := s.links[label]
	return l, ok
}

// Transform maps pixel coordinates of one dataset onto another by
// composing through the reference. ok is false where either leg of the
// chain is undefined.
func (s *Set) Transform(from, to string, x, y float64) (tx, ty float64, ok bool) {
	if from == to {
		return x, y, true
	}
	fl, fok := s.links[from]
	tl, tok := s.links[to]
	if !fok || !tok {
		return 0, 0, false
	}
	rx, ry, ok := fl.Transform.Forward(x, y)
	if !ok {
		return 0, 0, false
	}
	return tl.Transform.Inverse(rx, ry)
}

// Options tunes how a link set is computed.
type Options struct {
	// UseAffine fits affine or offset approximations of coordinate
	// relations instead of routing every lookup through the frames.
	UseAffine bool
	// FallbackPixels pixel-links datasets that lack valid celestial
	// coordinates instead of failing.
	FallbackPixels bool
	// ErrorOnFail surfaces a missing coordinate frame as an error.
	// Without it (and without the pixel fallback) Compute gives up
	// silently: it returns a nil set and the caller keeps its previous
	// links.
	ErrorOnFail bool
}

// Compute builds a link set relating every dataset in the collection to
// the reference. The returned set is complete or nil: a failed compute
// never yields a partial set.
func Compute(coll *dataset.Collection, scheme Scheme, reference string, opts Options) (*Set, error) {
	ref := coll.Get(reference)
	if ref == nil {
		return nil, fmt.Errorf("reference dataset %q not in collection", reference)
	}
	if scheme == SchemeWCS && !ref.HasValidWCS() {
		return nil, &errs.MissingCoordinateFrameError{Label: reference}
	}

	set := &Set{scheme: scheme, reference: reference, links: make(map[string]Link)}
	set.links[reference] = Link{From: reference, To: reference, Type: Self, Transform: Identity{}}

	for _, d := range coll.All() {
		if d.Label == reference {
			continue
		}

		switch scheme {
		case SchemePixels:
			// Orientation entries only exist to define celestial
			// frames; they have no place in pixel linking.
			if d.Kind == dataset.KindOrientation {
				continue
			}
			set.links[d.Label] = Link{From: d.Label, To: reference, Type: PixelIdentity, Transform: Identity{}}

		case SchemeWCS:
			if !d.HasValidWCS() {
				if opts.FallbackPixels {
					set.links[d.Label] = Link{From: d.Label, To: reference, Type: PixelIdentity, Transform: Identity{}}
					continue
				}
				if opts.ErrorOnFail {
					return nil, &errs.MissingCoordinateFrameError{Label: d.Label}
				}
				return nil, nil
			}

			if !opts.UseAffine {
				set.links[d.Label] = Link{
					From:      d.Label,
					To:        reference,
					Type:      General,
					Transform: &FrameMap{From: d.Frame.Celestial(), To: ref.Frame.Celestial()},
				}
				continue
			}

			w, h := d.Shape()
			if w == 0 || h == 0 {
				w, h = ref.Shape()
			}
			if w == 0 || h == 0 {
				w, h = 100, 100
			}
			l, err := fitFrameLink(d.Label, reference, d.Frame.Celestial(), ref.Frame.Celestial(), w, h)
			if err != nil {
				return nil, err
			}
			set.links[d.Label] = l

		default:
			return nil, &errs.InvalidParameterError{Param: "link_type", Value: string(scheme)}
		}
	}
	return set, nil
}
