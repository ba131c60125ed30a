package main

import (
	"image/color"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/DEFRA/cff-chart-prototype/cmd/cffviewer/uihelpers"
	"github.com/DEFRA/cff-chart-prototype/src/render"
	"github.com/DEFRA/cff-chart-prototype/src/telemetry"
)

// locatorOverlay is a transparent widget stacked over the chart image. It
// resolves the nearest data point by x-distance and shows the locator marker
// plus a tooltip. Taps (touch) pin the locator and suppress the synthetic
// mouse move the platform fires right after, so the two input paths never
// fight.
type locatorOverlay struct {
	widget.BaseWidget
	state    *uiState
	enabled  bool
	hovering bool
	pinned   bool
	mouse    fyne.Position

	suppressNextMove bool
}

func newLocatorOverlay(state *uiState) *locatorOverlay {
	l := &locatorOverlay{state: state, enabled: state != nil && state.locatorEnabled}
	l.ExtendBaseWidget(l)
	return l
}

func (l *locatorOverlay) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{})
	line := canvas.NewLine(color.RGBA{R: 80, G: 80, B: 80, A: 200})
	line.StrokeWidth = 1
	marker := canvas.NewCircle(color.RGBA{R: 11, G: 96, B: 150, A: 255})
	label := widget.NewRichText()
	label.Wrapping = fyne.TextWrapOff
	labelBG := canvas.NewRectangle(color.RGBA{R: 0, G: 0, B: 0, A: 170})
	objs := []fyne.CanvasObject{bg, line, marker, labelBG, label}
	return &locatorRenderer{l: l, bg: bg, line: line, marker: marker, labelBG: labelBG, label: label, objs: objs}
}

type locatorRenderer struct {
	l       *locatorOverlay
	bg      *canvas.Rectangle
	line    *canvas.Line
	marker  *canvas.Circle
	labelBG *canvas.Rectangle
	label   *widget.RichText
	objs    []fyne.CanvasObject
}

func (r *locatorRenderer) Destroy() {}

func (r *locatorRenderer) hide() {
	off := fyne.NewPos(-1000, -1000)
	r.line.Position1 = off
	r.line.Position2 = off
	r.marker.Move(off)
	r.marker.Resize(fyne.NewSize(0, 0))
	r.labelBG.Resize(fyne.NewSize(0, 0))
	r.labelBG.Move(off)
	r.label.Move(off)
}

func (r *locatorRenderer) Layout(size fyne.Size) {
	if r.l == nil || r.l.state == nil {
		return
	}
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	st := r.l.state.chart
	active := r.l.enabled && (r.l.hovering || r.l.pinned)
	if !active || st == nil || len(st.Lines) == 0 {
		r.hide()
		return
	}

	img := r.l.state.chartCanvas
	var imgW, imgH float32
	if img != nil && img.Image != nil {
		b := img.Image.Bounds()
		imgW = float32(b.Dx())
		imgH = float32(b.Dy())
	}
	if imgW <= 0 || imgH <= 0 {
		imgW, imgH = size.Width, size.Height
	}
	drawX, drawY, drawW, drawH, scale := uihelpers.ComputeContainRect(imgW, imgH, size.Width, size.Height)

	mx := r.l.mouse.X
	my := r.l.mouse.Y
	if !r.l.pinned {
		// outside the drawn image there is nothing to locate
		if mx < drawX || mx > drawX+drawW || my < drawY || my > drawY+drawH {
			r.hide()
			return
		}
	}

	// pixel centers for every line point, in overlay coordinates
	plotL := float32(st.Margins.Left)
	plotT := float32(st.Margins.Top)
	plotW := imgW - plotL - float32(st.Margins.Right)
	plotH := imgH - plotT - float32(st.Margins.Bottom)
	if plotW < 1 {
		plotW = imgW
	}
	if plotH < 1 {
		plotH = imgH
	}
	centers := make([]float32, len(st.Lines))
	for i, p := range st.Lines {
		centers[i] = drawX + (plotL+float32(st.XFraction(p.Time))*plotW)*scale
	}
	idx := render.NearestIndexFromCenters(centers, mx)
	if idx < 0 {
		r.hide()
		return
	}
	p := st.Lines[idx]
	px := centers[idx]
	py := drawY + (plotT+float32(st.YFraction(p.Value))*plotH)*scale

	// locator snaps to the resolved point, not the pointer
	r.line.Position1 = fyne.NewPos(px, drawY+plotT*scale)
	r.line.Position2 = fyne.NewPos(px, drawY+(plotT+plotH)*scale)
	const dot = 8
	r.marker.Resize(fyne.NewSize(dot, dot))
	r.marker.Move(fyne.NewPos(px-dot/2, py-dot/2))
	if st.InForecast(p) {
		// hollow marker distinguishes the forecast region
		r.marker.FillColor = color.RGBA{}
		r.marker.StrokeColor = color.RGBA{R: 104, G: 104, B: 104, A: 255}
		r.marker.StrokeWidth = 2
	} else {
		r.marker.FillColor = color.RGBA{R: 11, G: 96, B: 150, A: 255}
		r.marker.StrokeColor = color.RGBA{}
		r.marker.StrokeWidth = 0
	}

	lines := []string{p.Time.Format("Mon 2 Jan, 3:04pm")}
	value := uihelpers.FormatLevel(p.Value) + "m"
	if st.InForecast(p) {
		value += " (forecast)"
	}
	lines = append(lines, value)
	r.label.Segments = []widget.RichTextSegment{&widget.TextSegment{Text: strings.Join(lines, "\n")}}
	r.label.Refresh()

	pad := float32(6)
	ts := r.label.MinSize()
	bgW := ts.Width + 2*pad
	bgH := ts.Height + 2*pad
	// anchor above the point, clamped within the plot's vertical bounds
	tx, ty := uihelpers.ClampTooltip(px-bgW/2, py-bgH-10, bgW, bgH, size.Width, size.Height)
	r.labelBG.Resize(fyne.NewSize(bgW, bgH))
	r.labelBG.Move(fyne.NewPos(tx, ty))
	r.label.Move(fyne.NewPos(tx+pad, ty+pad))
}

func (r *locatorRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *locatorRenderer) Objects() []fyne.CanvasObject { return r.objs }

func (r *locatorRenderer) Refresh() {
	r.Layout(r.l.Size())
	r.line.StrokeColor = theme.Color(theme.ColorNameForeground)
	r.bg.Refresh()
	r.line.Refresh()
	r.marker.Refresh()
	r.labelBG.Refresh()
	r.label.Refresh()
}

func (l *locatorOverlay) MouseMoved(ev *desktop.MouseEvent) {
	if !l.enabled {
		return
	}
	if l.suppressNextMove {
		// synthetic move generated by a touch tap; ignore it once
		l.suppressNextMove = false
		return
	}
	l.hovering = true
	l.pinned = false
	l.mouse = ev.Position
	l.Refresh()
}

func (l *locatorOverlay) MouseIn(ev *desktop.MouseEvent) {
	if !l.enabled {
		return
	}
	l.hovering = true
	l.Refresh()
}

func (l *locatorOverlay) MouseOut() {
	l.hovering = false
	if !l.pinned {
		l.Refresh()
	}
}

// Tapped handles clicks and touch: the locator pins to the resolved point
// and the synthetic mouse move that follows a touch is suppressed.
func (l *locatorOverlay) Tapped(ev *fyne.PointEvent) {
	if !l.enabled {
		return
	}
	l.mouse = ev.Position
	l.pinned = true
	l.suppressNextMove = true
	telemetry.Debugf("viewer: locator pinned at %.0f,%.0f", ev.Position.X, ev.Position.Y)
	l.Refresh()
}

var (
	_ desktop.Hoverable = (*locatorOverlay)(nil)
	_ fyne.Tappable     = (*locatorOverlay)(nil)
)
