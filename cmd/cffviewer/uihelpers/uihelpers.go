package uihelpers

import (
	"math"
	"strconv"
)

// ComputeChartDimensions applies the width/height clamp rules used for the
// level chart. Width follows the window down to a phone-ish floor; height is
// a ratio of width clamped for readability.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 320 {
		w = 320
	}
	h := int(float32(w) * 0.45)
	if h < 240 {
		h = 240
	}
	if h > 520 {
		h = 520
	}
	return w, h
}

// ComputeContainRect maps an image of imgW x imgH into a view of viewW x
// viewH with contain-fit scaling (the ImageFillContain rule). Returns the
// drawn rectangle's origin, size and the applied scale.
func ComputeContainRect(imgW, imgH, viewW, viewH float32) (x, y, w, h, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, viewW, viewH, 1
	}
	sx := viewW / imgW
	sy := viewH / imgH
	scale = sx
	if sy < sx {
		scale = sy
	}
	w = imgW * scale
	h = imgH * scale
	x = (viewW - w) / 2
	y = (viewH - h) / 2
	return x, y, w, h, scale
}

// ClampTooltip keeps a tooltip box of boxW x boxH anchored near (x,y) inside
// the bounds (0,0)-(maxW,maxH).
func ClampTooltip(x, y, boxW, boxH, maxW, maxH float32) (float32, float32) {
	if x+boxW > maxW {
		x = maxW - boxW
	}
	if x < 0 {
		x = 0
	}
	if y+boxH > maxH {
		y = maxH - boxH
	}
	if y < 0 {
		y = 0
	}
	return x, y
}

// FormatLevel renders a level value with precision matched to magnitude.
func FormatLevel(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 100:
		return strconv.FormatFloat(v, 'f', 0, 64)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
}
