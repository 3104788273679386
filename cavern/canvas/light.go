package canvas

import (
	"github.com/chewxy/math32"

	"github.com/valerio/go-cavern/cavern/display"
	"github.com/valerio/go-cavern/cavern/graphics"
)

// MaxRaySteps bounds the ray march, and with it the usable light radius.
const MaxRaySteps = 512

// occluderAlpha is the collision alpha at which a ray stops.
const occluderAlpha = 0x80

// RayAngle is the direction of ray index i out of n rays.
func RayAngle(i, n int) float32 {
	return float32(i) / float32(n) * 2 * math32.Pi
}

// RayIndex maps an angle in [0, 2π) back to one of n rays.
func RayIndex(angle float32, n int) int {
	i := int(math32.Floor(angle / (2 * math32.Pi) * float32(n)))
	return max(0, min(i, n-1))
}

// EncodeDistance packs a ray result into a texel: the distance split over
// blue (high byte) and green (low byte), red set on a hit.
func EncodeDistance(dist int, hit bool) uint32 {
	var r uint32
	if hit {
		r = 0xFF
	}
	return pack(0xFF, r, uint32(dist)%256, uint32(dist)/256)
}

// DecodeDistance is the inverse of EncodeDistance.
func DecodeDistance(texel uint32) (int, bool) {
	hi := channel(texel, display.ARGBBlueShift)
	lo := channel(texel, display.ARGBGreenShift)
	return int(hi*256 + lo), channel(texel, display.ARGBRedShift) >= 0x80
}

func occluded(collision *Canvas, x, y float32) bool {
	ix, iy := int(math32.Floor(x)), int(math32.Floor(y))
	if ix < 0 || iy < 0 || ix >= collision.width || iy >= collision.height {
		return false
	}
	return channel(collision.At(ix, iy), display.ARGBAlphaShift) >= occluderAlpha
}

// TraceRays fills rays (a square canvas) with the unobstructed distance from
// the light centre along each ray direction, capped at the radius.
func TraceRays(rays, collision *Canvas, light graphics.Light) {
	n := rays.width * rays.height
	limit := min(int(math32.Floor(light.Radius+0.5)), MaxRaySteps)

	for i := 0; i < n; i++ {
		angle := RayAngle(i, n)
		dx, dy := math32.Cos(angle), math32.Sin(angle)

		dist, hit := limit, false
		for s := 0; s <= limit; s++ {
			x := light.Center[0] + dx*float32(s)
			y := light.Center[1] + dy*float32(s)
			if occluded(collision, x, y) {
				dist, hit = s, true
				break
			}
		}
		rays.buffer[i] = EncodeDistance(dist, hit)
	}
}

// ShadeLight returns the light colour at a destination point, or black when
// the point is out of range or shadowed.
func ShadeLight(rays *Canvas, light graphics.Light, px, py float32) graphics.Color {
	dx, dy := px-light.Dest[0], py-light.Dest[1]
	dist := math32.Sqrt(dx*dx + dy*dy)
	if dist > light.Radius {
		return graphics.Black
	}

	angle := math32.Atan2(dy, dx)
	if angle < 0 {
		angle += 2 * math32.Pi
	}
	stored, _ := DecodeDistance(rays.buffer[RayIndex(angle, len(rays.buffer))])
	if dist > float32(stored)+0.5 {
		return graphics.Black
	}

	lit := light.ColorStart.Lerp(light.ColorEdge, dist/light.Radius)
	lit.A = 1
	return lit
}

// SampleLight renders the light into every drawable pixel of dst, replacing
// what was there.
func SampleLight(dst, rays *Canvas, light graphics.Light) {
	if len(rays.buffer) == 0 {
		return
	}
	bounds := dst.Bounds()
	for y := bounds.Top; y < bounds.Bottom; y++ {
		row := dst.Index(0, y)
		for x := bounds.Left; x < bounds.Right; x++ {
			dst.buffer[row+x] = ShadeLight(rays, light, float32(x)+0.5, float32(y)+0.5).ARGB()
		}
	}
}

// LightPass runs both stages of the light pass on the CPU.
func LightPass(dst, collision *Canvas, light graphics.Light) {
	light = light.Resolve(uint16(collision.width), uint16(collision.height), uint16(dst.width), uint16(dst.height))
	rays := New(display.RayTextureSize, display.RayTextureSize)
	TraceRays(rays, collision, light)
	SampleLight(dst, rays, light)
}
