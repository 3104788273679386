package game

import (
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"

	"github.com/valerio/go-cavern/cavern/background"
	"github.com/valerio/go-cavern/cavern/config"
	"github.com/valerio/go-cavern/cavern/display"
	"github.com/valerio/go-cavern/cavern/graphics"
	"github.com/valerio/go-cavern/cavern/vfs"
)

// DemoConfig is the layered background written for custom stages that ship
// without one. Sources stay inside the smallest synthesised atlas.
func DemoConfig() *background.BkgConfig {
	cfg := background.Default()
	cfg.LightingMode = background.LightingBackgroundOnly
	cfg.Layers = []background.LayerConfig{
		{
			LayerEnabled: true,
			BmpWidth:     64,
			BmpHeight:    32,
			DrawRepeatX:  7,
			DrawRepeatY:  1,
			AnimationStyle: background.AnimationStyle{
				ScrollSpeedX: 0.25,
				ScrollFlags:  background.ScrollFlags{FollowPCX: true},
			},
		},
		{
			LayerEnabled:      true,
			BmpYOffset:        32,
			BmpWidth:          32,
			BmpHeight:         16,
			DrawRepeatX:       6,
			DrawRepeatY:       3,
			DrawRepeatGapX:    32,
			DrawRepeatGapY:    48,
			DrawCornerOffsetY: 40,
			AnimationStyle: background.AnimationStyle{
				ScrollSpeedX: 0.5,
				ScrollFlags: background.ScrollFlags{
					AutoscrollX:        true,
					RandomScrollSpeedY: true,
				},
			},
		},
		{
			LayerEnabled:      true,
			BmpXOffset:        32,
			BmpYOffset:        48,
			BmpWidth:          16,
			BmpHeight:         16,
			DrawRepeatX:       20,
			DrawRepeatY:       1,
			DrawCornerOffsetY: -8,
			AnimationStyle: background.AnimationStyle{
				FrameCount:     2,
				AnimationSpeed: 12,
				ScrollSpeedX:   1,
				ScrollFlags: background.ScrollFlags{
					AutoscrollX:         true,
					AlignWithWaterLvl:   true,
					DrawAboveForeground: true,
				},
			},
		},
	}
	return cfg
}

// seedConfigs writes DemoConfig for every custom stage whose config is
// missing, so the layer engine has something to show on a fresh install.
func seedConfigs(fs *vfs.VFS, stages []config.StageConfig) {
	for _, st := range stages {
		if st.Type != background.Custom || st.Background == "" {
			continue
		}
		if fs.Exists(background.FilePath(st.Background)) {
			continue
		}
		if err := background.Save(fs, st.Background, DemoConfig()); err != nil {
			slog.Warn("Failed to seed background config", "name", st.Background, "error", err)
			continue
		}
		slog.Info("Seeded background config", "name", st.Background)
	}
}

// pilot moves the camera along a slow sweep so every scroll flag has
// something to follow.
type pilot struct {
	camera background.Camera
	tick   int
}

func (p *pilot) step() {
	p.tick++
	t := float32(p.tick)
	p.camera.MoveTo(t*1.5, 32*math32.Sin(t/float32(display.TicksPerSecond)))
}

// drawForeground stands in for the map and player between the two passes.
func (g *Game) drawForeground(view background.View, stage background.Stage) error {
	r := g.renderer
	x, y := g.pilot.camera.XYInterpolated(view.FrameTime)

	if stage.WaterLevel > 0 {
		top := max(stage.WaterLevel-int(y), 0)
		if top < view.Height {
			if err := r.SetBlendMode(graphics.BlendAlpha); err != nil {
				return err
			}
			water := graphics.NewRect(0, top, view.Width, view.Height)
			shader := graphics.WaterShader(1, float32(g.ticks)/display.TicksPerSecond, x, y)
			if err := r.DrawTriangleList(quad(water), nil, shader); err != nil {
				return err
			}
			if err := r.DrawRect(water, waterColor); err != nil {
				return err
			}
		}
	}

	// The player sits at the screen centre; the bob shows the camera's
	// vertical motion.
	px := view.Width/2 - 8
	py := view.Height/2 - 8 + int(y)%8
	if err := r.DrawOutlineRect(graphics.NewRectSize(px, py, 16, 16), 1, graphics.White); err != nil {
		return err
	}
	return nil
}

func quad(r graphics.Rect[int]) []graphics.Vertex {
	l, t, rt, b := float32(r.Left), float32(r.Top), float32(r.Right), float32(r.Bottom)
	white := graphics.White.Bytes()
	return []graphics.Vertex{
		graphics.NewVertex(l, t, 0, 0, white),
		graphics.NewVertex(rt, t, 1, 0, white),
		graphics.NewVertex(rt, b, 1, 1, white),
		graphics.NewVertex(l, t, 0, 0, white),
		graphics.NewVertex(rt, b, 1, 1, white),
		graphics.NewVertex(l, b, 0, 1, white),
	}
}

var (
	waterColor = graphics.RGBA(0x20, 0x50, 0xC0, 0x60)
	panelColor = graphics.RGBA(0, 0, 0, 0xA0)
)

// drawOverlay is the debug panel drawn through the GUI path.
func (g *Game) drawOverlay(view background.View, st config.StageConfig) error {
	ui, err := g.renderer.GUI()
	if err != nil {
		return err
	}
	ui.NewFrame(float32(view.Width), float32(view.Height), 1, 1)

	lines := []string{
		fmt.Sprintf("%s (%s)", st.Name, st.Type),
		fmt.Sprintf("%s  tick %d", g.renderer.Name(), g.ticks),
	}
	if st.Type == background.Custom {
		lines = append(lines, fmt.Sprintf("%d layers", len(g.bg.Config().Layers)))
	}

	gw, gh := ui.GlyphSize()
	width := 0
	for _, l := range lines {
		width = max(width, len(l)*gw)
	}
	ui.AddRectFilled(graphics.NewRectSize[float32](2, 2, float32(width+8), float32(len(lines)*gh+6)), panelColor)
	for i, l := range lines {
		ui.AddText(6, float32(5+i*gh), graphics.White, l)
	}
	return g.renderer.RenderGUI(ui.Render())
}
