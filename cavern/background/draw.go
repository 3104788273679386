package background

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/display"
	"github.com/valerio/go-cavern/cavern/graphics"
)

// Clearer is the part of a renderer Draw needs directly.
type Clearer interface {
	Clear(color graphics.Color) error
}

// Textures resolves an atlas name to its sprite batch.
type Textures interface {
	Batch(name string) (backend.Texture, error)
}

// Outside atlas layout: a sky band with the sun in the middle, then four
// horizontal strips that scroll at different speeds.
const (
	outsideWidth     = 320
	outsideHeight    = 240
	outsideSkyHeight = 88
	outsideSunStart  = 144
	outsideFillWidth = 100
	outsidePeriod    = 640
)

var outsideStrips = [...]struct {
	y, h int
	pos  func(offset int) int
}{
	{88, 35, func(o int) int { return -o / 2 }},
	{123, 23, func(o int) int { return euclidMod(-o, outsideWidth) }},
	{146, 30, func(o int) int { return -o * 2 }},
	{176, 64, func(o int) int { return -o * 4 }},
}

func euclidMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// Draw queues and flushes the background for one pass. Legacy kinds only
// draw behind the foreground; custom stages draw the layers whose
// draw_above_foreground flag matches pass.
func (b *Background) Draw(r Clearer, textures Textures, frame Frame, stage Stage, view View, pass Pass) error {
	if pass == PassAbove && stage.Type != Custom {
		return nil
	}

	if pass == PassBehind {
		bg := stage.Color
		if stage.Type.IsOutside() {
			bg = graphics.Black
		}
		if err := r.Clear(bg); err != nil {
			return err
		}
	}
	if stage.Type == Water || stage.Type == Black {
		return nil
	}

	name := stage.Background
	if stage.Type == Custom && b.config.BmpFilename != "" {
		name = b.config.BmpFilename
	}
	batch, err := textures.Batch(name)
	if err != nil {
		return fmt.Errorf("failed to load background %s: %w", name, err)
	}

	switch {
	case stage.Type == TiledStatic:
		b.drawTiledStatic(batch, view)
	case stage.Type == Tiled || stage.Type == TiledParallax || stage.Type == Waterway:
		b.drawTiled(batch, frame, stage, view)
	case stage.Type == Scrolling:
		b.drawScrolling(batch, view)
	case stage.Type.IsOutside():
		b.drawOutside(batch, view)
	case stage.Type == Custom:
		if len(b.config.Layers) == 0 {
			if pass == PassBehind {
				b.drawTiledStatic(batch, view)
			}
		} else {
			b.drawLayers(batch, frame, stage, view, pass)
		}
	default:
		return fmt.Errorf("unknown background type %v", stage.Type)
	}

	return batch.Draw()
}

func add(batch backend.Texture, src graphics.Rect[int], x, y float32) {
	batch.Add(graphics.DrawRect{
		Src: src,
		Dst: graphics.NewRectSize(x, y, float32(src.Width()), float32(src.Height())),
	})
}

func addScaled(batch backend.Texture, src graphics.Rect[int], x, y, sx, sy float32) {
	batch.Add(graphics.DrawRect{
		Src: src,
		Dst: graphics.NewRectSize(x, y, float32(src.Width())*sx, float32(src.Height())*sy),
	})
}

func atlasRect(batch backend.Texture) graphics.Rect[int] {
	w, h := batch.Dimensions()
	return graphics.NewRect(0, 0, int(w), int(h))
}

// drawTiledStatic covers the canvas with whole tiles from the origin: one
// extra column and row beyond the rounded-up count.
func (b *Background) drawTiledStatic(batch backend.Texture, view View) {
	src := atlasRect(batch)
	w, h := src.Width(), src.Height()
	if w == 0 || h == 0 {
		return
	}
	cols := (view.Width+w-1)/w + 1
	rows := (view.Height+h-1)/h + 1
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			add(batch, src, float32(x*w), float32(y*h))
		}
	}
}

func (b *Background) drawTiled(batch backend.Texture, frame Frame, stage Stage, view View) {
	src := atlasRect(batch)
	w, h := src.Width(), src.Height()
	if w == 0 || h == 0 {
		return
	}
	fx, fy := frame.XYInterpolated(view.FrameTime)
	fw, fh := float32(w), float32(h)

	var offX, offY float32
	if stage.Type == Tiled {
		offX, offY = math32.Mod(fx, fw), math32.Mod(fy, fh)
	} else {
		scale := view.scale()
		offX = math32.Mod(math32.Floor(fx/2*scale)/scale, fw)
		offY = math32.Mod(math32.Floor(fy/2*scale)/scale, fh)
	}

	countX := view.Width/w + 2
	countY := view.Height/h + 2
	for y := -1; y < countY; y++ {
		for x := -1; x < countX; x++ {
			add(batch, src, float32(x*w)-offX, float32(y*h)-offY)
		}
	}
}

// drawScrolling sweeps the atlas left at three pixels per tick. The offset
// repeats every width/3 ticks, after which the sweep has moved one tile.
func (b *Background) drawScrolling(batch backend.Texture, view View) {
	src := atlasRect(batch)
	w, h := src.Width(), src.Height()
	if w == 0 || h == 0 {
		return
	}
	period := float32(w) / 3
	offset := math32.Mod(float32(b.tick), period)
	ft := float32(view.FrameTime)
	interp := (offset*(1-ft) + (offset+1)*ft) * 3 * view.scale()

	countX := view.Width/w + 6
	countY := view.Height/h + 1
	for y := -1; y < countY; y++ {
		for x := -1; x < countX; x++ {
			add(batch, src, float32(x*w)-interp, float32(y*h))
		}
	}
}

func (b *Background) drawOutside(batch backend.Texture, view View) {
	offsetX := int(b.tick % outsidePeriod)
	offsetY := int(math32.Floor(float32(view.Height-outsideHeight) / 2))
	oy := float32(offsetY)
	center := int(math32.Floor(float32(view.Width-outsideWidth) / 2))

	fill := graphics.NewRectSize(outsideSunStart, 0, outsideFillWidth, outsideSkyHeight)
	for x := 0; x < center; x += outsideFillWidth {
		add(batch, fill, float32(x), oy)
	}
	add(batch, graphics.NewRectSize(0, 0, outsideWidth, outsideSkyHeight), float32(center), oy)
	for x := center + outsideWidth; x < view.Width; x += outsideFillWidth {
		add(batch, fill, float32(x), oy)
	}

	if offsetY > 0 {
		top := graphics.NewRectSize(128, 0, outsideFillWidth, 1)
		for x := 0; x < view.Width; x += outsideFillWidth {
			addScaled(batch, top, float32(x), 0, 1, oy)
		}
		addScaled(batch, graphics.NewRectSize(0, 0, outsideWidth, 1), float32(center), 0, 1, oy)

		bottom := graphics.NewRectSize(0, outsideHeight-1, outsideWidth, 1)
		for x := -offsetX * 4; x < view.Width; x += outsideWidth {
			addScaled(batch, bottom, float32(x), oy+outsideHeight, 1, oy+4)
		}
	}

	for _, s := range outsideStrips {
		src := graphics.NewRectSize(0, s.y, outsideWidth, s.h)
		pos := s.pos(offsetX)
		for x := pos; x < view.Width; x += outsideWidth {
			add(batch, src, float32(x), oy+float32(s.y))
		}
		// A positive start leaves a band uncovered on the left.
		if pos > 0 {
			add(batch, src, float32(pos-outsideWidth), oy+float32(s.y))
		}
	}
}

// drawLayers emits every enabled layer of pass in configured order.
func (b *Background) drawLayers(batch backend.Texture, frame Frame, stage Stage, view View, pass Pass) {
	camX, camY := frame.XYInterpolated(view.FrameTime)
	limitX := float32(display.DrawLimitFactor * view.Width)
	limitY := float32(display.DrawLimitFactor * view.Height)

	for i := range b.config.Layers {
		l := &b.config.Layers[i]
		flags := &l.AnimationStyle.ScrollFlags
		if !l.LayerEnabled || flags.DrawAboveForeground != (pass == PassAbove) {
			continue
		}
		st := &b.layers[i]
		src := l.SourceRect(st.frame)
		w, h := float32(l.BmpWidth), float32(l.BmpHeight)

		y := st.y + l.DrawCornerOffsetY
		if flags.AlignWithWaterLvl {
			y += float32(stage.WaterLevel) - camY
		}
		if flags.FollowPCY {
			y -= camY * l.AnimationStyle.ScrollSpeedY
		}
		if flags.LockToXAxis {
			y -= camY
		}

		for row := uint32(0); row < l.DrawRepeatY && y < limitY; row++ {
			x := st.x + l.DrawCornerOffsetX
			if flags.FollowPCX {
				x -= camX * l.AnimationStyle.ScrollSpeedX
			}
			if flags.LockToYAxis {
				x -= camX
			}

			for col := uint32(0); col < l.DrawRepeatX && x < limitX; col++ {
				batch.Add(graphics.DrawRect{Src: src, Dst: graphics.NewRectSize(x, y, w, h)})
				x += w + float32(l.DrawRepeatGapX)
			}
			y += h + float32(l.DrawRepeatGapY)
		}
	}
}
