package raster

import "math"

// HSVToRGB converts hue in degrees and saturation/value in [0, 1] to RGB in
// [0, 1].
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	c := v * s
	hp := math.Mod(h, 360) / 60
	if hp < 0 {
		hp += 6
	}
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	m := v - c

	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

// RGBToHSV is the inverse of HSVToRGB. Achromatic colours get hue 0.
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	delta := hi - lo

	switch {
	case delta == 0:
		h = 0
	case hi == r:
		h = 60 * math.Mod((g-b)/delta, 6)
	case hi == g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h -= 360
	}

	if hi > 0 {
		s = delta / hi
	}
	return h, s, hi
}
