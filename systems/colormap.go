package systems

import (
	"image/color"
	"math"
)

// windCeiling is the speed in m/s mapped to the top of the wind ramp.
// Faster samples saturate to the terminal color.
const windCeiling = 100.0

// sinebowBoundary is the fraction of the normalized range swept by
// the rainbow; the remainder fades the terminal hue to white.
const sinebowBoundary = 0.45

// WindColor maps a wind speed in m/s to a ramp color. The lower part
// of the range sweeps a sinebow rainbow and the upper part fades its
// terminal hue to white, so perceived brightness keeps rising all the
// way to the ceiling. Non-finite or negative speeds are fully
// transparent. alpha is written as the final channel.
func WindColor(speed float64, alpha uint8) color.RGBA {
	if !isFinite(speed) || speed < 0 {
		return color.RGBA{}
	}
	t := math.Min(speed, windCeiling) / windCeiling
	if t <= sinebowBoundary {
		r, g, b := sinebow(t / sinebowBoundary)
		return color.RGBA{r, g, b, alpha}
	}
	f := (t - sinebowBoundary) / (1 - sinebowBoundary)
	r, g, b := sinebow(1)
	return color.RGBA{
		lerpByte(r, 255, f),
		lerpByte(g, 255, f),
		lerpByte(b, 255, f),
		alpha,
	}
}

// sinebow maps hue in [0, 1] to RGB by sweeping three offset
// sinusoids over two thirds of a cycle. hue 0 is blue, hue 1 the
// purple that the fade-to-white region starts from.
func sinebow(hue float64) (r, g, b uint8) {
	rad := hue * 2 * math.Pi * 5 / 6
	rad *= 0.75
	s, c := math.Sincos(rad)
	r = uint8(math.Floor(math.Max(0, -c) * 255))
	g = uint8(math.Floor(math.Max(s, 0) * 255))
	b = uint8(math.Floor(math.Max(c, math.Max(0, -s)) * 255))
	return r, g, b
}

// tempMinC and tempMaxC bound the temperature ramp in Celsius.
const (
	tempMinC = -80.0
	tempMaxC = 50.0
)

// kelvinThreshold separates Kelvin from Celsius input: plotted
// temperatures above 100 are never Celsius.
const kelvinThreshold = 100.0

// tempStops is the piecewise-linear temperature ramp. Each segment
// interpolates RGB between its endpoints.
var tempStops = [...]struct {
	t float64
	c color.RGBA
}{
	{0.00, color.RGBA{40, 0, 70, 255}},    // deep purple
	{0.10, color.RGBA{70, 0, 160, 255}},   // violet
	{0.25, color.RGBA{30, 60, 255, 255}},  // blue
	{0.40, color.RGBA{0, 160, 255, 255}},  // light blue
	{0.50, color.RGBA{0, 230, 230, 255}},  // cyan
	{0.60, color.RGBA{60, 220, 80, 255}},  // green
	{0.70, color.RGBA{170, 230, 50, 255}}, // yellow-green
	{0.78, color.RGBA{255, 235, 0, 255}},  // yellow
	{0.86, color.RGBA{255, 150, 0, 255}},  // orange
	{0.93, color.RGBA{255, 60, 0, 255}},   // red-orange
	{0.97, color.RGBA{220, 20, 0, 255}},   // red
	{1.00, color.RGBA{150, 0, 0, 255}},    // dark red
}

// TemperatureColor maps a temperature to a ramp color. Values above
// 100 are taken as Kelvin and converted; the result is clamped to
// [-80, 50] Celsius before normalization. Non-finite input is fully
// transparent. alpha is written as the final channel.
func TemperatureColor(value float64, alpha uint8) color.RGBA {
	if !isFinite(value) {
		return color.RGBA{}
	}
	value = ToCelsius(value)
	if value < tempMinC {
		value = tempMinC
	} else if value > tempMaxC {
		value = tempMaxC
	}
	t := (value - tempMinC) / (tempMaxC - tempMinC)
	for i := 0; i < len(tempStops)-1; i++ {
		hi := tempStops[i+1]
		if t > hi.t {
			continue
		}
		lo := tempStops[i]
		f := (t - lo.t) / (hi.t - lo.t)
		return color.RGBA{
			lerpByte(lo.c.R, hi.c.R, f),
			lerpByte(lo.c.G, hi.c.G, f),
			lerpByte(lo.c.B, hi.c.B, f),
			alpha,
		}
	}
	last := tempStops[len(tempStops)-1].c
	return color.RGBA{last.R, last.G, last.B, alpha}
}

// ToCelsius normalizes a temperature sample for display, converting
// values above the Kelvin threshold.
func ToCelsius(value float64) float64 {
	if value > kelvinThreshold {
		return value - 273.15
	}
	return value
}

func lerpByte(a, b uint8, f float64) uint8 {
	return uint8(math.Floor(float64(a) + (float64(b)-float64(a))*f))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
