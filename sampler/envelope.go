// envelope.go - the shared envelope sample cache (spec section 4.7): a
// bounded LRU keyed by shape identity plus the scalar parameters that
// determine the sampled buffer, guarded by a mutex the way shape.go guards
// its own interning cache.
package sampler

import (
	"math"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/waveforge/qpulse/quant"
	"github.com/waveforge/qpulse/shape"
)

type envelopeKey struct {
	shape       shape.Shape
	width       quant.Time
	plateau     quant.Time
	indexOffset float64
	sampleRate  quant.Frequency
}

var (
	envelopeMu    sync.Mutex
	envelopeCache *lru.Cache[envelopeKey, []float64]
)

func init() {
	c, err := lru.New[envelopeKey, []float64](1024)
	if err != nil {
		panic(err)
	}
	envelopeCache = c
}

// getEnvelope returns the cached (or freshly computed) real envelope
// sample buffer for the given shape and scalar parameters.
func getEnvelope(sh shape.Shape, width, plateau quant.Time, indexOffset float64, sampleRate quant.Frequency) []float64 {
	key := envelopeKey{shape: sh, width: width, plateau: plateau, indexOffset: indexOffset, sampleRate: sampleRate}

	envelopeMu.Lock()
	if v, ok := envelopeCache.Get(key); ok {
		envelopeMu.Unlock()
		return v
	}
	envelopeMu.Unlock()

	v := computeEnvelope(sh, width.Value(), plateau.Value(), indexOffset, sampleRate.Value())

	envelopeMu.Lock()
	envelopeCache.Add(key, v)
	envelopeMu.Unlock()
	return v
}

// computeEnvelope builds the rise/plateau/fall sample buffer per spec
// section 4.7: a rising edge sampled from the shape, a constant-1 plateau,
// and a falling edge sampled from the shape, all at the sub-sample offset
// implied by index_offset.
func computeEnvelope(sh shape.Shape, width, plateau, indexOffset, sampleRate float64) []float64 {
	dt := 1.0 / sampleRate
	tOffset := indexOffset * dt
	t1 := width/2.0 - tOffset
	t2 := width/2.0 + plateau - tOffset
	t3 := width + plateau - tOffset

	length := int(math.Ceil(t3 * sampleRate))
	plateauStart := int(math.Ceil(t1 * sampleRate))
	plateauEnd := int(math.Ceil(t2 * sampleRate))
	if length < 0 {
		length = 0
	}
	plateauStart = clampInt(plateauStart, 0, length)
	plateauEnd = clampInt(plateauEnd, plateauStart, length)

	envelope := make([]float64, length)
	x0 := -t1 / width
	dx := dt / width
	if plateau == 0 {
		sh.SampleArray(x0, dx, envelope)
		return envelope
	}
	sh.SampleArray(x0, dx, envelope[:plateauStart])
	for i := plateauStart; i < plateauEnd; i++ {
		envelope[i] = 1
	}
	x2 := (float64(plateauEnd)*dt - t2) / width
	sh.SampleArray(x2, dx, envelope[plateauEnd:])
	return envelope
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
