package surface

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var white = color.RGBA{255, 255, 255, 255}

// ParseColor accepts "#rgb", "#rrggbb", "#rrggbbaa" or "r,g,b[,a]". An empty
// string is white.
func ParseColor(colorStr string) (color.RGBA, error) {
	colorStr = strings.ReplaceAll(strings.TrimSpace(colorStr), " ", "")
	if colorStr == "" {
		return white, nil
	}

	if strings.HasPrefix(colorStr, "#") {
		return parseHex(colorStr[1:])
	}

	parts := strings.Split(colorStr, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return white, fmt.Errorf("%w: %q", ErrInvalidColor, colorStr)
	}

	values := make([]int, 4)
	values[3] = 255
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return white, fmt.Errorf("%w: %q", ErrInvalidColor, colorStr)
		}
		values[i] = clamp(v, 0, 255)
	}

	return premultiply(color.NRGBA{uint8(values[0]), uint8(values[1]), uint8(values[2]), uint8(values[3])}), nil
}

func premultiply(c color.NRGBA) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func parseHex(hex string) (color.RGBA, error) {
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return white, fmt.Errorf("%w: #%s", ErrInvalidColor, hex)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return white, fmt.Errorf("%w: #%s", ErrInvalidColor, hex)
	}

	return premultiply(color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}), nil
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
