// shape.go - normalized envelope shapes, instance-interned so equality is
// pointer equality (the interning is what lets the sampler's envelope
// cache key on shape identity instead of content).
//
// A shape is a function on [-1/2, 1/2] with f(+-1/2)=0, f(0)=1; it must
// return 0 outside that domain.
package shape

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/waveforge/qpulse/qerr"
)

// kind distinguishes the two constructible shape variants so they can be
// content-hashed for the interning cache.
type kind int

const (
	kindHann kind = iota
	kindInterp
)

// Shape is an opaque, interned envelope function. Two Shapes built from the
// same constructor arguments are pointer-equal while that shape stays in
// the 128-entry LRU interning cache; an evicted shape is rebuilt as a new
// instance. Identity keys the sampler's envelope cache.
type Shape struct {
	impl shapeImpl
}

type shapeImpl interface {
	sample(x float64) float64
}

// SampleArray fills out[i] = f(x0 + i*dx).
func (s Shape) SampleArray(x0, dx float64, out []float64) {
	for i := range out {
		out[i] = s.impl.sample(x0 + float64(i)*dx)
	}
}

// Sample evaluates the shape at a single point.
func (s Shape) Sample(x float64) float64 { return s.impl.sample(x) }

type hannShape struct{}

func (hannShape) sample(x float64) float64 {
	if x < -0.5 || x > 0.5 {
		return 0
	}
	return 0.5 * (1 + math.Cos(2*math.Pi*x))
}

// interpKey is the content key for a B-spline shape; float slices are
// joined into a string so the whole key is comparable/hashable.
type interpKey struct {
	knots, controls string
	degree          int
}

func floatsKey(xs []float64) string {
	var b strings.Builder
	for i, x := range xs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	}
	return b.String()
}

type shapeKey struct {
	kind   kind
	interp interpKey
}

var (
	internMu    sync.Mutex
	internCache *lru.Cache[shapeKey, *Shape]
)

func init() {
	c, err := lru.New[shapeKey, *Shape](128)
	if err != nil {
		panic(err)
	}
	internCache = c
}

func intern(key shapeKey, build func() shapeImpl) Shape {
	internMu.Lock()
	defer internMu.Unlock()
	if s, ok := internCache.Get(key); ok {
		return *s
	}
	s := &Shape{impl: build()}
	internCache.Add(key, s)
	return *s
}

// Hann returns the process-wide interned Hann window shape.
func Hann() Shape {
	return intern(shapeKey{kind: kindHann}, func() shapeImpl { return hannShape{} })
}

// Interp returns a cubic (or arbitrary-degree) B-spline shape defined by
// knots, control points and degree, validated and interned by content.
func Interp(knots, controls []float64, degree int) (Shape, error) {
	for i, k := range knots {
		if math.IsNaN(k) {
			return Shape{}, qerr.NewInvalidArgument(fmt.Sprintf("knots[%d]", i), "NaN is not allowed")
		}
	}
	for i, c := range controls {
		if math.IsNaN(c) {
			return Shape{}, qerr.NewInvalidArgument(fmt.Sprintf("controls[%d]", i), "NaN is not allowed")
		}
	}
	if degree < 0 {
		return Shape{}, qerr.NewInvalidArgument("degree", "must be >= 0")
	}
	if len(knots) != len(controls)+degree+1 {
		return Shape{}, qerr.NewInvalidArgument("knots", "length must equal len(controls)+degree+1")
	}
	key := shapeKey{
		kind: kindInterp,
		interp: interpKey{
			knots:    floatsKey(knots),
			controls: floatsKey(controls),
			degree:   degree,
		},
	}
	knotsCopy := append([]float64(nil), knots...)
	controlsCopy := append([]float64(nil), controls...)
	return intern(key, func() shapeImpl {
		return &bspline{knots: knotsCopy, controls: controlsCopy, degree: degree}
	}), nil
}
