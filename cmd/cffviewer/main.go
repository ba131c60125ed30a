package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/DEFRA/cff-chart-prototype/cmd/cffviewer/uihelpers"
	"github.com/DEFRA/cff-chart-prototype/src/historic"
	"github.com/DEFRA/cff-chart-prototype/src/render"
	"github.com/DEFRA/cff-chart-prototype/src/telemetry"
)

const (
	chartStyleA = "a" // full detail
	chartStyleB = "b" // downsampled per range
)

// telemetryFile is the payload handed over by the telemetry provider.
type telemetryFile struct {
	ChartStyle string           `json:"chartStyle"`
	Series     telemetry.Series `json:"series"`
}

type uiState struct {
	app      fyne.App
	window   fyne.Window
	cfg      config
	filePath string

	store       *historic.Store
	series      *telemetry.Series
	chart       *render.ChartState
	chartStyle  string
	activeRange telemetry.TimeRange
	hasHistoric bool

	locatorEnabled bool
	showHints      bool

	chartCanvas  *canvas.Image
	overlay      *locatorOverlay
	fileLabel    *widget.Label
	rangeButtons map[telemetry.TimeRange]*widget.Button
}

func main() {
	var fileFlag, configFlag, logFlag string
	flag.StringVar(&fileFlag, "file", "", "Path to a telemetry JSON file")
	flag.StringVar(&configFlag, "config", "", "Path to config.yaml")
	flag.StringVar(&logFlag, "loglevel", "", "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := loadConfig(configFlag)
	if err != nil {
		telemetry.Errorf("viewer: config: %v", err)
	}
	if logFlag != "" {
		cfg.LogLevel = logFlag
	}
	telemetry.SetLogLevel(cfg.LogLevel)

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		telemetry.Warnf("viewer: data dir: %v", err)
	}

	a := app.NewWithID("uk.gov.environment.cffviewer")
	w := a.NewWindow("River and sea levels")
	w.Resize(fyne.NewSize(1000, 700))

	state := &uiState{
		app:         a,
		window:      w,
		cfg:         cfg,
		filePath:    fileFlag,
		chartStyle:  cfg.ChartStyle,
		activeRange: telemetry.Range5Days,
	}
	state.locatorEnabled = a.Preferences().BoolWithFallback("locator", true)
	state.showHints = a.Preferences().BoolWithFallback("showHints", false)

	store, err := historic.OpenStore(cfg.storePath())
	if err != nil {
		// run without uploads rather than not at all
		telemetry.Errorf("viewer: open historic store: %v", err)
	} else {
		state.store = store
		defer store.Close()
	}

	state.fileLabel = widget.NewLabel(truncatePath(state.filePath, 50))

	state.chartCanvas = canvas.NewImageFromImage(drawHint(blank(900, 360), "Open a telemetry file to see levels"))
	state.chartCanvas.FillMode = canvas.ImageFillContain
	state.chartCanvas.SetMinSize(fyne.NewSize(640, 320))
	state.overlay = newLocatorOverlay(state)

	// range buttons; only the default window works without historic data
	state.rangeButtons = map[telemetry.TimeRange]*widget.Button{}
	rangeRow := container.NewHBox(widget.NewLabel("Range:"))
	for _, r := range telemetry.Ranges {
		r := r
		btn := widget.NewButton(r.Label(), func() {
			state.activeRange = r
			savePrefs(state)
			updateRangeButtons(state)
			redrawChart(state)
		})
		state.rangeButtons[r] = btn
		rangeRow.Add(btn)
	}

	styleSelect := widget.NewSelect([]string{"Standard", "Downsampled"}, nil)
	if state.chartStyle == chartStyleB {
		styleSelect.Selected = "Downsampled"
	} else {
		styleSelect.Selected = "Standard"
	}

	locatorChk := widget.NewCheck("Locator", nil)
	locatorChk.SetChecked(state.locatorEnabled)
	hintsChk := widget.NewCheck("Hints", nil)
	hintsChk.SetChecked(state.showHints)

	top := container.NewHBox(
		widget.NewButton("Open…", func() { openTelemetryDialog(state) }),
		widget.NewButton("Upload CSV…", func() { openUploadDialog(state) }),
		widget.NewButton("Clear data", func() { clearHistoric(state) }),
		widget.NewLabel("Style:"), styleSelect,
		locatorChk, hintsChk,
		widget.NewLabel("File:"), state.fileLabel,
	)

	content := container.NewBorder(
		container.NewVBox(top, rangeRow), nil, nil, nil,
		container.NewStack(state.chartCanvas, state.overlay),
	)
	w.SetContent(content)

	// redraw on window resize so scales and the breakpoint follow the width
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					if cur := int(c.Size().Width); cur != prevW {
						prevW = cur
						fyne.Do(func() { redrawChart(state) })
					}
				}
			}
		}()
	}

	// wire callbacks now that the canvas exists
	styleSelect.OnChanged = func(v string) {
		if strings.EqualFold(v, "Downsampled") {
			state.chartStyle = chartStyleB
		} else {
			state.chartStyle = chartStyleA
		}
		savePrefs(state)
		redrawChart(state)
	}
	locatorChk.OnChanged = func(b bool) {
		state.locatorEnabled = b
		savePrefs(state)
		state.overlay.enabled = b
		state.overlay.pinned = false
		state.overlay.Refresh()
	}
	hintsChk.OnChanged = func(b bool) {
		state.showHints = b
		savePrefs(state)
		redrawChart(state)
	}

	buildMenus(state)
	loadPrefs(state, styleSelect)
	refreshHistoricState(state)
	updateRangeButtons(state)

	if state.filePath != "" {
		loadTelemetryFile(state, state.filePath)
	}

	w.ShowAndRun()
}

func redrawChart(s *uiState) {
	if s.chartCanvas == nil {
		telemetry.Errorf("viewer: chart canvas missing; render aborted")
		return
	}
	if s.series == nil {
		telemetry.Debugf("viewer: no telemetry loaded; render aborted")
		return
	}
	now := time.Now()
	live := s.series.Observed
	if s.hasHistoric && s.store != nil {
		if hp, ok := s.store.Load(); ok {
			live = telemetry.Merge(hp, live)
		}
	}
	live = telemetry.FilterByRange(live, s.activeRange, now)
	if s.chartStyle == chartStyleB {
		live = telemetry.Downsample(live, s.activeRange)
	}
	srs := *s.series
	srs.Observed = live

	w, h := chartSize(s)
	st, err := render.Build(srs, s.activeRange, w, h, now)
	if err != nil {
		// keep whatever is on screen
		telemetry.Warnf("viewer: %v; keeping previous chart", err)
		return
	}
	s.chart = st
	title := fmt.Sprintf("%s levels (%s)", titleCase(string(st.Type)), s.activeRange.Label())
	s.chartCanvas.Image = drawChart(st, now, title, s.showHints)
	s.chartCanvas.Refresh()
	s.overlay.pinned = false
	s.overlay.Refresh()
}

func chartSize(s *uiState) (int, int) {
	w := 900
	if s.window != nil && s.window.Canvas() != nil {
		if cw := int(s.window.Canvas().Size().Width) - 24; cw > 0 {
			w = cw
		}
	}
	return uihelpers.ComputeChartDimensions(w)
}

func loadTelemetryFile(s *uiState, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		telemetry.Errorf("viewer: read telemetry: %v", err)
		dialog.ShowError(fmt.Errorf("could not read %s", filepath.Base(path)), s.window)
		return
	}
	var tf telemetryFile
	if err := json.Unmarshal(raw, &tf); err != nil {
		telemetry.Errorf("viewer: decode telemetry: %v", err)
		dialog.ShowError(fmt.Errorf("%s is not a telemetry file", filepath.Base(path)), s.window)
		return
	}
	if tf.Series.Type == "" {
		tf.Series.Type = telemetry.StationType(s.cfg.StationType)
	}
	if tf.ChartStyle == chartStyleA || tf.ChartStyle == chartStyleB {
		s.chartStyle = tf.ChartStyle
	}
	s.series = &tf.Series
	s.filePath = path
	s.fileLabel.SetText(truncatePath(path, 50))
	addRecentFile(s, path)
	telemetry.Infof("viewer: loaded %s (%d observed, %d forecast)", filepath.Base(path), len(tf.Series.Observed), len(tf.Series.Forecast))
	redrawChart(s)
}

func openTelemetryDialog(s *uiState) {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		loadTelemetryFile(s, rc.URI().Path())
	}, s.window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	fd.Show()
}

func openUploadDialog(s *uiState) {
	if s.store == nil {
		dialog.ShowInformation("Upload", "Storage is unavailable.", s.window)
		return
	}
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			telemetry.Errorf("viewer: read upload: %v", err)
			dialog.ShowError(fmt.Errorf("could not read the file"), s.window)
			return
		}
		uploadCSV(s, string(raw))
	}, s.window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	fd.Show()
}

// uploadCSV parses and stores an uploaded dataset. Whole-file validation
// problems surface as alerts; storage failure gets the generic retry message.
func uploadCSV(s *uiState, text string) {
	points, skipped, err := historic.ParseCSV(text)
	if err != nil {
		dialog.ShowError(err, s.window)
		return
	}
	if !s.store.Save(points) {
		dialog.ShowError(fmt.Errorf("failed to upload, try again"), s.window)
		return
	}
	s.hasHistoric = true
	updateRangeButtons(s)
	msg := fmt.Sprintf("Loaded %d points", len(points))
	if skipped > 0 {
		msg += fmt.Sprintf(", skipped %d rows", skipped)
	}
	dialog.ShowInformation("Upload", msg, s.window)
	redrawChart(s)
}

func clearHistoric(s *uiState) {
	if s.store == nil || !s.store.Clear() {
		return
	}
	s.hasHistoric = false
	s.activeRange = telemetry.Range5Days
	updateRangeButtons(s)
	redrawChart(s)
}

// refreshHistoricState checks the store on startup so range buttons reflect a
// dataset left behind by an earlier session.
func refreshHistoricState(s *uiState) {
	if s.store == nil {
		return
	}
	_, ok := s.store.Load()
	s.hasHistoric = ok
}

// updateRangeButtons enables the wider windows only while a historic dataset
// exists, and highlights the active one.
func updateRangeButtons(s *uiState) {
	for r, btn := range s.rangeButtons {
		if r == telemetry.Range5Days || s.hasHistoric {
			btn.Enable()
		} else {
			btn.Disable()
		}
		if r == s.activeRange {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

func buildMenus(s *uiState) {
	openItem := fyne.NewMenuItem("Open…", func() { openTelemetryDialog(s) })
	exportItem := fyne.NewMenuItem("Export PNG…", func() { exportChartPNG(s) })
	recent := fyne.NewMenuItem("Open Recent", nil)
	var recentItems []*fyne.MenuItem
	for _, p := range recentFiles(s) {
		p := p
		recentItems = append(recentItems, fyne.NewMenuItem(truncatePath(p, 60), func() {
			loadTelemetryFile(s, p)
		}))
	}
	if len(recentItems) == 0 {
		none := fyne.NewMenuItem("(none)", nil)
		none.Disabled = true
		recentItems = append(recentItems, none)
	}
	recent.ChildMenu = fyne.NewMenu("", recentItems...)
	fileMenu := fyne.NewMenu("File", openItem, recent, fyne.NewMenuItemSeparator(), exportItem)
	s.window.SetMainMenu(fyne.NewMainMenu(fileMenu))
}

func exportChartPNG(s *uiState) {
	if s.chartCanvas == nil || s.chartCanvas.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", s.window)
		return
	}
	fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, s.chartCanvas.Image); err != nil {
			telemetry.Errorf("viewer: export: %v", err)
			dialog.ShowError(fmt.Errorf("export failed"), s.window)
		}
	}, s.window)
	fd.SetFileName("levels.png")
	fd.Show()
}

const maxRecentFiles = 5

func recentFiles(s *uiState) []string {
	raw := s.app.Preferences().String("recentFiles")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

func addRecentFile(s *uiState, path string) {
	files := []string{path}
	for _, p := range recentFiles(s) {
		if p != path && p != "" {
			files = append(files, p)
		}
		if len(files) >= maxRecentFiles {
			break
		}
	}
	s.app.Preferences().SetString("recentFiles", strings.Join(files, "\n"))
}

func savePrefs(s *uiState) {
	p := s.app.Preferences()
	p.SetString("range", string(s.activeRange))
	p.SetString("chartStyle", s.chartStyle)
	p.SetBool("locator", s.locatorEnabled)
	p.SetBool("showHints", s.showHints)
}

func loadPrefs(s *uiState, styleSelect *widget.Select) {
	p := s.app.Preferences()
	if r := telemetry.TimeRange(p.String("range")); r != "" {
		for _, known := range telemetry.Ranges {
			if r == known {
				s.activeRange = r
			}
		}
	}
	if st := p.String("chartStyle"); st == chartStyleA || st == chartStyleB {
		s.chartStyle = st
		if st == chartStyleB {
			styleSelect.Selected = "Downsampled"
		} else {
			styleSelect.Selected = "Standard"
		}
		styleSelect.Refresh()
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncatePath(p string, n int) string {
	if p == "" {
		return "(none)"
	}
	if len(p) <= n {
		return p
	}
	return "…" + p[len(p)-n:]
}
