package skyoverlay

import "image"

// screen composites src onto dst inside r using the screen blend mode on
// premultiplied channels: out = s + d - s*d. Overlapping glows brighten
// each other and never darken what is underneath.
func screen(dst, src *image.RGBA, r image.Rectangle) {
	r = r.Intersect(dst.Bounds()).Intersect(src.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		si := src.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			for k := 0; k < 4; k++ {
				s, d := uint32(src.Pix[si+k]), uint32(dst.Pix[di+k])
				dst.Pix[di+k] = uint8(s + d - (s*d+127)/255)
			}
			di += 4
			si += 4
		}
	}
}
