package link

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"skyviz/pkg/geometry"
	"skyviz/pkg/wcs"
)

const (
	// fitGridSize is the number of sample points per axis when fitting
	// an affine approximation between two frames.
	fitGridSize = 10

	// affineResidualTol is the worst-case pixel error below which the
	// affine approximation replaces the full frame chain.
	affineResidualTol = 1e-5

	// identityTol bounds the deviation of the linear part from the
	// identity for a link to degrade to a pure offset.
	identityTol = 1e-9
)

// fitAffine computes the least-squares affine transform mapping src
// points onto dst points.
func fitAffine(src, dst []geometry.Point2D) (geometry.AffineTransform, error) {
	n := len(src)
	if n < 3 {
		return geometry.AffineTransform{}, fmt.Errorf("need at least 3 points, got %d", n)
	}

	A := mat.NewDense(n*2, 6, nil)
	B := mat.NewVecDense(n*2, nil)

	for i := 0; i < n; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		// x' = a*x + b*y + tx
		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		B.SetVec(i*2, xp)

		// y' = c*x + d*y + ty
		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		B.SetVec(i*2+1, yp)
	}

	var qr mat.QR
	qr.Factorize(A)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, B); err != nil {
		return geometry.AffineTransform{}, err
	}

	return geometry.AffineTransform{
		A:  params.AtVec(0),
		B:  params.AtVec(1),
		TX: params.AtVec(2),
		C:  params.AtVec(3),
		D:  params.AtVec(4),
		TY: params.AtVec(5),
	}, nil
}

// sampleFrames maps a grid of pixel positions in the source frame to
// pixel positions in the destination frame, routing through world
// coordinates. The grid spans the source extent.
func sampleFrames(from, to wcs.Frame, w, h int) (src, dst []geometry.Point2D) {
	x0, y0 := -0.5, -0.5
	x1, y1 := float64(w)-0.5, float64(h)-0.5
	if r, ok := from.Bounds(); ok {
		x0, y0, x1, y1 = r.X, r.Y, r.X+r.Width, r.Y+r.Height
	}

	for i := 0; i < fitGridSize; i++ {
		for j := 0; j < fitGridSize; j++ {
			fx := x0 + (x1-x0)*float64(i)/float64(fitGridSize-1)
			fy := y0 + (y1-y0)*float64(j)/float64(fitGridSize-1)

			lon, lat, ok := from.PixelToWorld(fx, fy)
			if !ok {
				continue
			}
			tx, ty, ok := to.WorldToPixel(lon, lat)
			if !ok {
				continue
			}
			src = append(src, geometry.Point2D{X: fx, Y: fy})
			dst = append(dst, geometry.Point2D{X: tx, Y: ty})
		}
	}
	return src, dst
}

// maxResidual returns the worst-case pixel error of the transform over
// the sampled pairs.
func maxResidual(t geometry.AffineTransform, src, dst []geometry.Point2D) float64 {
	worst := 0.0
	for i := range src {
		p := t.Apply(src[i])
		err := math.Hypot(p.X-dst[i].X, p.Y-dst[i].Y)
		if err > worst {
			worst = err
		}
	}
	return worst
}

// fitFrameLink classifies and builds the link from one frame to
// another: offset when the linear part is the identity, affine when a
// linear fit is accurate, otherwise the full frame chain.
func fitFrameLink(fromLabel, toLabel string, from, to wcs.Frame, w, h int) (Link, error) {
	src, dst := sampleFrames(from, to, w, h)
	if len(src) < 3 {
		// Frames barely overlap on the sky; route through the frames
		// rather than extrapolating a fit.
		return Link{From: fromLabel, To: toLabel, Type: General, Transform: &FrameMap{From: from, To: to}}, nil
	}

	fitted, err := fitAffine(src, dst)
	if err != nil {
		return Link{}, fmt.Errorf("fit %s to %s: %w", fromLabel, toLabel, err)
	}

	res := maxResidual(fitted, src, dst)
	if res > affineResidualTol {
		return Link{
			From:        fromLabel,
			To:          toLabel,
			Type:        General,
			Transform:   &FrameMap{From: from, To: to},
			MaxResidual: res,
		}, nil
	}

	m, err := NewAffineMap(fitted)
	if err != nil {
		return Link{}, fmt.Errorf("fit %s to %s: %w", fromLabel, toLabel, err)
	}

	typ := Affine
	if fitted.IsTranslationOnly(identityTol) {
		typ = Offset
	}
	return Link{From: fromLabel, To: toLabel, Type: typ, Transform: m, MaxResidual: res}, nil
}
