package main

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	png "image/png"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/DEFRA/cff-chart-prototype/src/render"
	"github.com/DEFRA/cff-chart-prototype/src/telemetry"
)

var (
	observedColor = drawing.Color{R: 11, G: 96, B: 150, A: 255}
	forecastColor = drawing.Color{R: 104, G: 104, B: 104, A: 255}
	nowLineColor  = drawing.Color{R: 170, G: 43, B: 43, A: 255}
)

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color, filled bool, dashed bool) chart.Style {
	st := chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
	}
	if filled {
		st.FillColor = col.WithAlpha(40)
	}
	if dashed {
		st.StrokeDashArray = []float64{5.0, 5.0}
	}
	return st
}

// drawChart renders one pass of the level chart to an image. The ChartState
// has already settled scales, ticks and margins; this stage only maps them
// onto the go-chart surface.
func drawChart(st *render.ChartState, now time.Time, title string, hints bool) image.Image {
	series := []chart.Series{}
	if s, ok := timeSeries("Observed", st.Observed, lineStyle(observedColor, true, false)); ok {
		series = append(series, s)
	}
	if s, ok := timeSeries("Forecast", st.Forecast, lineStyle(forecastColor, true, true)); ok {
		series = append(series, s)
	}

	// significant points as dot-only markers
	var sigT []time.Time
	var sigV []float64
	for _, p := range st.Lines {
		if p.Significant {
			sigT = append(sigT, p.Time)
			sigV = append(sigV, p.Value)
		}
	}
	if len(sigT) == 1 {
		sigT = append(sigT, sigT[0].Add(time.Second))
		sigV = append(sigV, sigV[0])
	}
	if len(sigT) > 1 {
		series = append(series, chart.TimeSeries{Name: "Significant", XValues: sigT, YValues: sigV, Style: pointStyle(observedColor)})
	}

	// "now" indicator with its label
	if !now.Before(st.XMin) && !now.After(st.XMax) {
		series = append(series, chart.TimeSeries{
			XValues: []time.Time{now, now},
			YValues: []float64{st.YMin, st.YMax},
			Style:   chart.Style{StrokeColor: nowLineColor, StrokeWidth: 1, StrokeDashArray: []float64{2.0, 2.0}},
		})
		series = append(series, chart.AnnotationSeries{
			Annotations: []chart.Value2{{XValue: chart.TimeToFloat64(now), YValue: st.YMax, Label: "Now"}},
			Style:       chart.Style{StrokeColor: nowLineColor, FontColor: nowLineColor},
		})
	}

	xTicks := make([]chart.Tick, 0, len(st.XTicks))
	for _, tt := range st.XTicks {
		xTicks = append(xTicks, chart.Tick{Value: chart.TimeToFloat64(tt.Time), Label: tt.Label})
	}
	yTicks := make([]chart.Tick, 0, len(st.YTicks))
	for _, yt := range st.YTicks {
		yTicks = append(yTicks, chart.Tick{Value: yt.Value, Label: yt.Label})
	}

	ch := chart.Chart{
		Title: title,
		Background: chart.Style{Padding: chart.Box{
			Top:    st.Margins.Top,
			Left:   st.Margins.Left,
			Right:  st.Margins.Right,
			Bottom: st.Margins.Bottom,
		}},
		XAxis: chart.XAxis{
			Ticks: xTicks,
			Range: &chart.ContinuousRange{Min: chart.TimeToFloat64(st.XMin), Max: chart.TimeToFloat64(st.XMax)},
		},
		YAxis: chart.YAxis{
			Name:  "Height (m)",
			Ticks: yTicks,
			Range: &chart.ContinuousRange{Min: st.YMin, Max: st.YMax},
		},
		Series: series,
		Width:  st.Width,
		Height: st.Height,
	}
	if !st.Mobile {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		telemetry.Errorf("viewer: chart render error: %v; showing blank fallback", err)
		return blank(st.Width, st.Height)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		telemetry.Errorf("viewer: chart decode error: %v; showing blank fallback", err)
		return blank(st.Width, st.Height)
	}
	if hints {
		return drawHint(img, "Hint: markers show simplifier-significant points; dashed line is forecast.")
	}
	return img
}

// timeSeries builds a go-chart series, padding single-point inputs so the
// axis keeps a non-zero span.
func timeSeries(name string, pts []render.LinePoint, style chart.Style) (chart.Series, bool) {
	if len(pts) == 0 {
		return nil, false
	}
	xs := make([]time.Time, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.Time
		ys[i] = p.Value
	}
	if len(xs) == 1 {
		xs = append(xs, xs[0].Add(time.Second))
		ys = append(ys, ys[0])
	}
	return chart.TimeSeries{Name: name, XValues: xs, YValues: ys, Style: style}, true
}

func blank(w, h int) image.Image {
	if w <= 0 {
		w = 320
	}
	if h <= 0 {
		h = 240
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 250, G: 250, B: 250, A: 255})
		}
	}
	return img
}

// drawHint draws a small hint string onto the provided image near the
// bottom-left.
func drawHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
