package background

import (
	"log/slog"

	"github.com/valerio/go-cavern/cavern/rng"
	"github.com/valerio/go-cavern/cavern/vfs"
)

// layerState is the per-layer scroll and animation state. It lives beside
// the config and is never saved.
type layerState struct {
	aniWait uint32
	frame   uint32
	x, y    float32
}

// Background ticks and draws the background of the current stage.
type Background struct {
	fs *vfs.VFS

	tick     uint
	prevTick uint

	name     string
	loaded   bool
	reload   bool
	modified bool

	config *BkgConfig
	layers []layerState

	rng    *rng.RNG
	jitter bool
}

// New creates an engine reading configs from fs. The seed drives layer
// jitter and randomised parameters only.
func New(fs *vfs.VFS, seed uint32) *Background {
	return &Background{
		fs:     fs,
		config: Default(),
		rng:    rng.New(seed),
		jitter: true,
	}
}

// SetJitter toggles the random orthogonal jitter applied on wrap.
func (b *Background) SetJitter(enabled bool) {
	b.jitter = enabled
}

// RequestReload makes the next Tick reload the config from disk, dropping
// any in-memory edits.
func (b *Background) RequestReload() {
	b.reload = true
}

// Config is the active config. Edits through SetConfig mark it modified.
func (b *Background) Config() *BkgConfig {
	return b.config
}

// SetConfig replaces the active config in memory and resets layer state.
func (b *Background) SetConfig(cfg *BkgConfig) {
	b.apply(cfg)
	b.modified = true
}

// Modified reports whether the active config differs from the file.
func (b *Background) Modified() bool {
	return b.modified
}

// Name is the background the active config was loaded for.
func (b *Background) Name() string {
	return b.name
}

// Ticks returns the current and last drawn tick.
func (b *Background) Ticks() (tick, prevTick uint) {
	return b.tick, b.prevTick
}

// LayerOffset is the scroll position of layer i.
func (b *Background) LayerOffset(i int) (x, y float32) {
	if i < 0 || i >= len(b.layers) {
		return 0, 0
	}
	return b.layers[i].x, b.layers[i].y
}

// LayerFrame is the current animation frame of layer i.
func (b *Background) LayerFrame(i int) uint32 {
	if i < 0 || i >= len(b.layers) {
		return 0
	}
	return b.layers[i].frame
}

// Tick advances the engine by one logical tick.
func (b *Background) Tick(stage Stage, view View) {
	b.tick++

	if !b.loaded || stage.Background != b.name || b.reload {
		b.load(stage.Background)
	}

	for i := range b.config.Layers {
		l := &b.config.Layers[i]
		if !l.LayerEnabled {
			continue
		}
		b.advance(l, &b.layers[i], view)
	}
}

// DrawTick marks the current tick as drawn.
func (b *Background) DrawTick() {
	b.prevTick = b.tick
}

func (b *Background) load(name string) {
	if b.loaded && name == b.name {
		slog.Info("Reloading background config", "name", name)
	}
	b.name = name
	b.loaded = true
	b.reload = false
	b.modified = false

	if name == "" {
		b.apply(Default())
		return
	}
	b.apply(LoadOrDefault(b.fs, name))
}

func (b *Background) apply(cfg *BkgConfig) {
	b.config = cfg
	b.layers = make([]layerState, len(cfg.Layers))
	for i := range cfg.Layers {
		l := &cfg.Layers[i]
		st := &b.layers[i]
		anim := &l.AnimationStyle
		st.frame = anim.FrameStart % max(1, anim.FrameCount)

		if anim.ScrollFlags.RandomizeAllParameters {
			st.frame = uint32(b.rng.Range(0, int(max(1, anim.FrameCount))))
			st.x = -float32(b.rng.Range(0, int(l.BmpWidth+l.DrawRepeatGapX)))
			st.y = -float32(b.rng.Range(0, int(l.BmpHeight+l.DrawRepeatGapY)))
		}
	}
}

func (b *Background) advance(l *LayerConfig, st *layerState, view View) {
	anim := &l.AnimationStyle
	flags := &anim.ScrollFlags

	if anim.FrameCount > 1 {
		st.aniWait++
		if st.aniWait >= anim.AnimationSpeed {
			st.frame = (st.frame + 1) % anim.FrameCount
			st.aniWait = 0
		}
	}

	xAxis := axis{
		size: l.BmpWidth, gap: l.DrawRepeatGapX, repeat: l.DrawRepeatX,
		corner: l.DrawCornerOffsetX, canvas: view.Width,
	}
	yAxis := axis{
		size: l.BmpHeight, gap: l.DrawRepeatGapY, repeat: l.DrawRepeatY,
		corner: l.DrawCornerOffsetY, canvas: view.Height,
	}
	speed := int(anim.AnimationSpeed)

	if flags.AutoscrollX {
		st.x -= anim.ScrollSpeedX
		b.wrap(xAxis, &st.x, &st.y, flags.RandomScrollSpeedY, speed)
	}
	if flags.AutoscrollY {
		st.y -= anim.ScrollSpeedY
		b.wrap(yAxis, &st.y, &st.x, flags.RandomScrollSpeedX, speed)
	}
}

// axis is one dimension of a layer's repeat grid.
type axis struct {
	size, gap, repeat uint32
	corner            float32
	canvas            int
}

func (a axis) extent() float32 {
	return float32((a.size + a.gap) * a.repeat)
}

// wrapOnce applies both wrap rules to v and reports how many fired.
func (a axis) wrapOnce(v *float32) int {
	n := 0
	if *v+a.corner+a.extent() < 0 {
		*v += float32(a.size+a.gap) + float32(a.canvas)
		n++
	}
	if *v+a.corner > 0 {
		*v -= float32(a.canvas)
		n++
	}
	return n
}

// wrap keeps v in range. Every rule that fires nudges the orthogonal value
// by one jitter step when jitter is set.
func (b *Background) wrap(a axis, v, other *float32, jitter bool, speed int) {
	n := a.wrapOnce(v)
	if !jitter || !b.jitter {
		return
	}
	for i := 0; i < n; i++ {
		*other += float32(b.rng.Range(-speed, speed))
	}
}
