package mipmap

import (
	"math/bits"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-mipmap/common"
	"github.com/cockroachdb/errors"
)

// DefaultMaxLevels is the level cap used when a Generator is built without WithMaxLevels.
const DefaultMaxLevels uint32 = 5

// generator is the implementation of the Generator interface.
type generator struct {
	maxLevels uint32
	workers   int
	queueSize int

	poolOnce sync.Once
	pool     worker.DynamicWorkerPool
}

// Generator builds mipmap chains from square RGBA8 images with a 2x2 box filter.
// A Generator holds no mutable state besides its worker pool and is safe for concurrent use.
type Generator interface {
	// MaxLevels retrieves the level cap applied to every generated chain.
	//
	// Returns:
	//   - uint32: the maximum chain length
	MaxLevels() uint32

	// Generate builds the mipmap chain for a single image using the configured level cap.
	//
	// Parameters:
	//   - img: the square source image
	//
	// Returns:
	//   - Chain: the levels from full resolution down to the cap or to a 1x1 level
	//   - error: a validation error if the image is empty, non-square or malformed
	Generate(img common.SourceImage) (Chain, error)

	// GenerateAll builds the mipmap chains of several independent images concurrently on the
	// generator's worker pool. Results keep the order of images.
	//
	// Parameters:
	//   - images: the source images
	//
	// Returns:
	//   - []Chain: one chain per image, nil for images that failed
	//   - error: the joined errors of every failed image, annotated with its index, otherwise nil
	GenerateAll(images []common.SourceImage) ([]Chain, error)
}

var _ Generator = &generator{}

// NewGenerator creates a new Generator with the given options.
// The level cap defaults to DefaultMaxLevels and the worker count to NumCPU-1.
//
// Parameters:
//   - options: variadic list of GeneratorBuilderOption functions to customize the generator
//
// Returns:
//   - Generator: the newly created generator
func NewGenerator(options ...GeneratorBuilderOption) Generator {
	g := &generator{
		maxLevels: DefaultMaxLevels,
		workers:   max(runtime.NumCPU()-1, 1),
		queueSize: 64,
	}

	for _, option := range options {
		option(g)
	}

	return g
}

func (g *generator) MaxLevels() uint32 {
	return g.maxLevels
}

func (g *generator) Generate(img common.SourceImage) (Chain, error) {
	return Generate(img, g.maxLevels)
}

func (g *generator) GenerateAll(images []common.SourceImage) ([]Chain, error) {
	chains := make([]Chain, len(images))
	if len(images) == 0 {
		return chains, nil
	}

	// Workers idle-exit after a second; the pool is reused across calls.
	g.poolOnce.Do(func() {
		g.pool = worker.NewDynamicWorkerPool(g.workers, g.queueSize, 1*time.Second)
	})

	errs := make([]error, len(images))
	var wg sync.WaitGroup
	for i := range images {
		wg.Add(1)
		idx := i
		g.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				chain, err := Generate(images[idx], g.maxLevels)
				if err != nil {
					errs[idx] = errors.Wrapf(err, "image %d", idx)
					return nil, err
				}
				chains[idx] = chain
				return chain, nil
			},
		})
	}
	wg.Wait()

	return chains, errors.Join(errs...)
}

// Generate builds the mipmap chain of img capped at maxLevels levels.
// Level 0 is a copy of the source pixels and each following level is the 2x2 box-filtered
// reduction of the previous one. Generation stops before a level would have a side of 0, so
// small images produce chains shorter than maxLevels.
//
// Sides that are not a power of two are accepted; each halving truncates, dropping the last
// row and column of odd-sided levels.
//
// Parameters:
//   - img: the square source image
//   - maxLevels: the maximum chain length, at least 1
//
// Returns:
//   - Chain: the generated levels
//   - error: ErrInvalidLevelCount, ErrEmptyInput, ErrDimensionMismatch or ErrPixelBufferSize
func Generate(img common.SourceImage, maxLevels uint32) (Chain, error) {
	if maxLevels < 1 {
		return nil, errors.Wrapf(common.ErrInvalidLevelCount, "maxLevels is %d, must be at least 1", maxLevels)
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}

	side := img.Side()
	chain := make(Chain, 0, LevelCount(side, maxLevels))

	base := make([]byte, len(img.Pixels))
	copy(base, img.Pixels)
	chain = append(chain, Level{Index: 0, Side: side, Pixels: base})

	for i := uint32(1); i < maxLevels; i++ {
		if side>>i == 0 {
			break
		}
		chain = append(chain, Downsample(chain[i-1]))
	}

	return chain, nil
}

// Downsample computes the level following prev. Each destination channel is the floor of the
// mean of the matching channel of a 2x2 block of prev.
// prev.Side must be at least 2.
//
// Parameters:
//   - prev: the level to reduce
//
// Returns:
//   - Level: the level with Index prev.Index+1 and Side prev.Side>>1
func Downsample(prev Level) Level {
	side := prev.Side >> 1
	src := prev.Addr()
	dst := PixelAddr{Side: side}
	out := make([]byte, dst.Len())

	for r := uint32(0); r < side; r++ {
		for c := uint32(0); c < side; c++ {
			for ch := uint32(0); ch < common.BytesPerPixel; ch++ {
				sum := uint16(prev.Pixels[src.Offset(2*r, 2*c, ch)]) +
					uint16(prev.Pixels[src.Offset(2*r, 2*c+1, ch)]) +
					uint16(prev.Pixels[src.Offset(2*r+1, 2*c, ch)]) +
					uint16(prev.Pixels[src.Offset(2*r+1, 2*c+1, ch)])
				out[dst.Offset(r, c, ch)] = uint8(sum / 4)
			}
		}
	}

	return Level{Index: prev.Index + 1, Side: side, Pixels: out}
}

// LevelCount predicts the length of the chain Generate produces for a square image of the given side.
//
// Parameters:
//   - side: the image side length in pixels
//   - maxLevels: the level cap
//
// Returns:
//   - uint32: min(maxLevels, floor(log2(side))+1), or 0 when side or maxLevels is 0
func LevelCount(side, maxLevels uint32) uint32 {
	if side == 0 {
		return 0
	}
	return min(maxLevels, uint32(bits.Len32(side)))
}

// Validate checks that the chain is non-empty, index-contiguous from 0, that every level's side is
// the base side shifted by its index and that every pixel buffer matches its side.
//
// Returns:
//   - error: ErrEmptyInput or ErrPixelBufferSize wrapped with details, otherwise nil
func (c Chain) Validate() error {
	if len(c) == 0 || c[0].Side == 0 {
		return errors.Wrap(common.ErrEmptyInput, "mipmap chain has no levels")
	}

	base := c[0].Side
	for i, l := range c {
		want := base >> uint32(i)
		if l.Index != uint32(i) || l.Side != want || want == 0 {
			return errors.Wrapf(common.ErrPixelBufferSize, "level %d has index %d and side %d, expected index %d and side %d", i, l.Index, l.Side, i, want)
		}
		if len(l.Pixels) != l.Addr().Len() {
			return errors.Wrapf(common.ErrPixelBufferSize, "level %d has %d bytes, expected %d", i, len(l.Pixels), l.Addr().Len())
		}
	}
	return nil
}
