package zipf

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrTooFewPoints = errors.New("zipf: fewer data points than parameters")
	ErrNotConverged = errors.New("zipf: fit did not converge")
)

const numParams = 3

// Params of frequency(rank) = C / (rank + B)^A.
type Params struct {
	A, B, C float64
}

func (p Params) Eval(rank float64) float64 {
	return p.C / math.Pow(rank+p.B, p.A)
}

func (p Params) String() string {
	return fmt.Sprintf("a=%v, b=%v, c=%v", p.A, p.B, p.C)
}

func (p Params) vec() [numParams]float64 { return [numParams]float64{p.A, p.B, p.C} }

func fromVec(v [numParams]float64) Params { return Params{A: v[0], B: v[1], C: v[2]} }

type Bounds struct {
	Lower, Upper Params
}

var (
	DefaultBounds = Bounds{
		Lower: Params{A: 0, B: 0, C: 0},
		Upper: Params{A: 5, B: 100, C: 1_000_000},
	}
	DefaultInitial = Params{A: 0.6774311104374595, B: 3.8780010055037454e-20, C: 99999.99999990955}
)

type FitOptions struct {
	Initial       Params
	Bounds        Bounds
	MaxIterations int
	// FTol and XTol stop the search once the relative cost reduction or the relative step
	// size falls below them. GTol bounds the cosine between the residual vector and each
	// free Jacobian column.
	FTol float64
	XTol float64
	GTol float64
}

func DefaultFitOptions() FitOptions {
	return FitOptions{
		Initial:       DefaultInitial,
		Bounds:        DefaultBounds,
		MaxIterations: 400,
		FTol:          1e-10,
		XTol:          1e-10,
		GTol:          1e-8,
	}
}

const (
	lambdaInit = 1e-3
	lambdaMin  = 1e-12
	lambdaMax  = 1e16

	lambdaConverge = 1
)

// Fit runs a bounded Levenberg-Marquardt least-squares fit of the Zipf model. Parameters
// resting on a bound with the gradient pointing outward are held fixed for the iteration,
// the rest take a damped step that is projected back into opts.Bounds.
func Fit(points []Point, opts FitOptions) (Params, error) {
	if len(points) < numParams {
		return Params{}, fmt.Errorf("%w: have %d, need %d", ErrTooFewPoints, len(points), numParams)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultFitOptions().MaxIterations
	}
	lower, upper := opts.Bounds.Lower.vec(), opts.Bounds.Upper.vec()
	for i := range lower {
		if lower[i] > upper[i] {
			return Params{}, fmt.Errorf("zipf: lower bound above upper bound for parameter %d", i)
		}
	}

	p := clamp(opts.Initial.vec(), lower, upper)
	cost := sumSquares(points, fromVec(p))
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return Params{}, fmt.Errorf("%w: residuals not finite at initial guess", ErrNotConverged)
	}
	lambda := lambdaInit

	for iter := 0; iter < opts.MaxIterations; iter++ {
		jac, res := jacobian(points, fromVec(p))

		var h mat.SymDense
		h.SymOuterK(1, jac.T())
		var g mat.VecDense
		g.MulVec(jac.T(), res)

		active := activeSet(p, &g, lower, upper)
		if gradientConverged(&h, &g, res, active, opts.GTol) {
			return fromVec(p), nil
		}
		freeze(&h, &g, active)

		accepted := false
		for lambda <= lambdaMax {
			step, ok := solveStep(&h, &g, lambda)
			if !ok {
				lambda *= 10
				continue
			}
			var next [numParams]float64
			for i := range next {
				next[i] = p[i] + step[i]
			}
			next = clamp(next, lower, upper)
			nextCost := sumSquares(points, fromVec(next))
			if math.IsNaN(nextCost) || nextCost >= cost {
				lambda *= 10
				continue
			}

			// Tolerances only count for near Gauss-Newton steps; heavily damped steps are
			// small without being close to the minimum.
			converged := nextCost == 0 || (lambda <= lambdaConverge &&
				(cost-nextCost <= opts.FTol*cost || distance(next, p) <= opts.XTol*(opts.XTol+norm(p))))
			p, cost = next, nextCost
			lambda = math.Max(lambda/10, lambdaMin)
			if converged {
				return fromVec(p), nil
			}
			accepted = true
			break
		}
		if !accepted {
			// No step of any size lowers the cost: p is a minimum within the bounds.
			return fromVec(p), nil
		}
	}
	return fromVec(p), fmt.Errorf("%w after %d iterations (last %v)", ErrNotConverged, opts.MaxIterations, fromVec(p))
}

// activeSet marks parameters pinned on a bound where a descent step (-g) would leave the box.
func activeSet(p [numParams]float64, g *mat.VecDense, lower, upper [numParams]float64) [numParams]bool {
	var active [numParams]bool
	for i := range p {
		gi := g.AtVec(i)
		active[i] = (p[i] <= lower[i] && gi > 0) || (p[i] >= upper[i] && gi < 0)
	}
	return active
}

// gradientConverged reports whether every free parameter is stationary: the largest cosine
// between the residuals and a free Jacobian column is at most gtol.
func gradientConverged(h *mat.SymDense, g *mat.VecDense, res *mat.VecDense, active [numParams]bool, gtol float64) bool {
	rnorm := mat.Norm(res, 2)
	if rnorm == 0 {
		return true
	}
	for i := 0; i < numParams; i++ {
		if active[i] {
			continue
		}
		col := math.Sqrt(h.At(i, i))
		if col == 0 {
			continue
		}
		if math.Abs(g.AtVec(i))/(col*rnorm) > gtol {
			return false
		}
	}
	return true
}

// freeze decouples active parameters so their step solves to zero.
func freeze(h *mat.SymDense, g *mat.VecDense, active [numParams]bool) {
	for i := 0; i < numParams; i++ {
		if !active[i] {
			continue
		}
		for j := 0; j < numParams; j++ {
			h.SetSym(i, j, 0)
		}
		h.SetSym(i, i, 1)
		g.SetVec(i, 0)
	}
}

// solveStep solves (H + lambda*diag(H)) step = -g.
func solveStep(h *mat.SymDense, g *mat.VecDense, lambda float64) ([numParams]float64, bool) {
	var step [numParams]float64
	a := mat.NewSymDense(numParams, nil)
	a.CopySym(h)
	maxDiag := 0.0
	for i := 0; i < numParams; i++ {
		maxDiag = math.Max(maxDiag, h.At(i, i))
	}
	for i := 0; i < numParams; i++ {
		d := math.Max(h.At(i, i), 1e-12*math.Max(maxDiag, 1))
		a.SetSym(i, i, h.At(i, i)+lambda*d)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return step, false
	}
	negG := mat.NewVecDense(numParams, nil)
	negG.ScaleVec(-1, g)
	var x mat.VecDense
	if err := chol.SolveVecTo(&x, negG); err != nil {
		return step, false
	}
	for i := range step {
		step[i] = x.AtVec(i)
		if math.IsNaN(step[i]) || math.IsInf(step[i], 0) {
			return step, false
		}
	}
	return step, true
}

// jacobian returns the model derivatives with respect to (a, b, c) and the residuals
// model - observed for every point.
func jacobian(points []Point, p Params) (*mat.Dense, *mat.VecDense) {
	jac := mat.NewDense(len(points), numParams, nil)
	res := mat.NewVecDense(len(points), nil)
	for i, pt := range points {
		base := pt.Rank + p.B
		pow := math.Pow(base, -p.A)
		f := p.C * pow
		jac.Set(i, 0, -f*math.Log(base))
		jac.Set(i, 1, -p.A*f/base)
		jac.Set(i, 2, pow)
		res.SetVec(i, f-pt.Frequency)
	}
	return jac, res
}

func sumSquares(points []Point, p Params) float64 {
	total := 0.0
	for _, pt := range points {
		d := p.Eval(pt.Rank) - pt.Frequency
		total += d * d
	}
	return total
}

func clamp(v, lower, upper [numParams]float64) [numParams]float64 {
	for i := range v {
		v[i] = math.Min(math.Max(v[i], lower[i]), upper[i])
	}
	return v
}

func norm(v [numParams]float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func distance(a, b [numParams]float64) float64 {
	var d [numParams]float64
	for i := range d {
		d[i] = a[i] - b[i]
	}
	return norm(d)
}
