package report

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/parikshit-sat/cansat-ground/internal/telemetry"
)

const (
	chartDPI       = 72.0
	chartFontSize  = 12.0
	tickMarkLength = 5
	pixelsPerLabel = 120.0

	// Default plot area and border sizes in pixels
	defaultPlotWidth    = 900
	defaultPlotHeight   = 400
	defaultTopBorder    = 30
	defaultLeftBorder   = 70
	defaultBottomBorder = 60
	defaultRightBorder  = 70
)

var (
	altitudeColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	speedColor    = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	gridColor     = color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
)

// BorderConfig defines the white space around the plot area.
type BorderConfig struct {
	Top    int
	Left   int // Space for the altitude scale
	Bottom int // Space for the time scale and legend
	Right  int // Space for the speed scale
}

// ChartConfig holds the configuration for the flight profile chart.
type ChartConfig struct {
	Width  int // Plot area width in pixels
	Height int // Plot area height in pixels

	FontPath string  // Optional TTF file; a built-in bitmap face is used when empty
	FontSize float64 // Font size in points, TTF only

	Borders BorderConfig
}

// ChartRenderer draws the altitude and speed profile of a mission as a
// PNG image.
type ChartRenderer struct {
	config ChartConfig
	face   font.Face
}

// NewChartRenderer creates a renderer with the given configuration.
// Zero values fall back to defaults.
func NewChartRenderer(config ChartConfig) (*ChartRenderer, error) {
	if config.Width == 0 {
		config.Width = defaultPlotWidth
	}
	if config.Height == 0 {
		config.Height = defaultPlotHeight
	}
	if config.FontSize == 0 {
		config.FontSize = chartFontSize
	}
	if config.Borders.Top == 0 {
		config.Borders.Top = defaultTopBorder
	}
	if config.Borders.Left == 0 {
		config.Borders.Left = defaultLeftBorder
	}
	if config.Borders.Bottom == 0 {
		config.Borders.Bottom = defaultBottomBorder
	}
	if config.Borders.Right == 0 {
		config.Borders.Right = defaultRightBorder
	}

	face, err := loadFontFace(config.FontPath, config.FontSize)
	if err != nil {
		return nil, err
	}

	return &ChartRenderer{config: config, face: face}, nil
}

func loadFontFace(path string, size float64) (font.Face, error) {
	if path == "" {
		return basicfont.Face7x13, nil
	}

	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font file: %w", err)
	}

	parsedFont, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     chartDPI,
		Hinting: font.HintingFull,
	}), nil
}

// Close releases the font face resources.
func (r *ChartRenderer) Close() error {
	if r.face != nil {
		return r.face.Close()
	}
	return nil
}

// Render draws the flight profile of samples: altitude against the left
// scale, derived speed against the right scale. Samples must be in
// mission time order.
func (r *ChartRenderer) Render(samples []telemetry.Sample) (*image.RGBA, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("at least 2 samples required, got %d", len(samples))
	}

	fullWidth := r.config.Width + r.config.Borders.Left + r.config.Borders.Right
	fullHeight := r.config.Height + r.config.Borders.Top + r.config.Borders.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	area := image.Rect(
		r.config.Borders.Left,
		r.config.Borders.Top,
		r.config.Borders.Left+r.config.Width,
		r.config.Borders.Top+r.config.Height,
	)

	startTime := samples[0].Time
	endTime := samples[len(samples)-1].Time
	if endTime <= startTime {
		return nil, fmt.Errorf("samples span no time: %f to %f", startTime, endTime)
	}

	speeds := deriveSpeeds(samples)

	var maxAltitude, maxSpeed float64
	for _, s := range samples {
		maxAltitude = math.Max(maxAltitude, s.Altitude)
	}
	for _, v := range speeds {
		maxSpeed = math.Max(maxSpeed, v)
	}
	if maxAltitude == 0 {
		maxAltitude = 1
	}
	if maxSpeed == 0 {
		maxSpeed = 1
	}

	r.drawTimeScale(img, area, startTime, endTime)
	r.drawLeftScale(img, area, maxAltitude)
	r.drawRightScale(img, area, maxSpeed)

	toX := func(t float64) int {
		return area.Min.X + int((t-startTime)/(endTime-startTime)*float64(area.Dx()-1))
	}
	toY := func(v, max float64) int {
		return area.Max.Y - 1 - int(v/max*float64(area.Dy()-1))
	}

	var prevX, prevAltY, prevSpeedY int
	for i, s := range samples {
		x := toX(s.Time)
		altY := toY(s.Altitude, maxAltitude)
		speedY := toY(speeds[i], maxSpeed)

		if i > 0 {
			drawLine(img, prevX, prevSpeedY, x, speedY, speedColor)
			drawLine(img, prevX, prevAltY, x, altY, altitudeColor)
		}
		prevX, prevAltY, prevSpeedY = x, altY, speedY
	}

	r.drawLegend(img, area)

	return img, nil
}

// RenderToFile renders the flight profile and writes it as PNG at path.
func (r *ChartRenderer) RenderToFile(path string, samples []telemetry.Sample) (err error) {
	img, err := r.Render(samples)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	if err = png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding chart: %w", err)
	}
	return nil
}

// deriveSpeeds computes |d altitude / d time| per sample; the first
// sample gets the speed of the first interval.
func deriveSpeeds(samples []telemetry.Sample) []float64 {
	speeds := make([]float64, len(samples))
	for i := 1; i < len(samples); i++ {
		dt := samples[i].Time - samples[i-1].Time
		if dt > 0 {
			speeds[i] = math.Abs(samples[i].Altitude-samples[i-1].Altitude) / dt
		} else {
			speeds[i] = speeds[i-1]
		}
	}
	if len(speeds) > 1 {
		speeds[0] = speeds[1]
	}
	return speeds
}

func (r *ChartRenderer) drawTimeScale(img *image.RGBA, area image.Rectangle, start, end float64) {
	step := niceStep(end-start, float64(area.Dx())/pixelsPerLabel)

	metrics := r.face.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := area.Max.Y + tickMarkLength + fontHeight

	for t := math.Ceil(start/step) * step; t <= end; t += step {
		x := area.Min.X + int((t-start)/(end-start)*float64(area.Dx()-1))

		for y := area.Min.Y; y < area.Max.Y; y++ {
			img.Set(x, y, gridColor)
		}
		for y := area.Max.Y; y < area.Max.Y+tickMarkLength; y++ {
			img.Set(x, y, color.Black)
		}

		label := fmt.Sprintf("%.0fs", t)
		width := font.MeasureString(r.face, label)
		r.drawString(img, label, x-width.Round()/2, textY, color.Black)
	}
}

func (r *ChartRenderer) drawLeftScale(img *image.RGBA, area image.Rectangle, maxAltitude float64) {
	step := niceStep(maxAltitude, float64(area.Dy())/(pixelsPerLabel/2))

	metrics := r.face.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	for v := 0.0; v <= maxAltitude; v += step {
		y := area.Max.Y - 1 - int(v/maxAltitude*float64(area.Dy()-1))

		for x := area.Min.X; x < area.Max.X; x++ {
			img.Set(x, y, gridColor)
		}
		for x := area.Min.X - tickMarkLength; x < area.Min.X; x++ {
			img.Set(x, y, color.Black)
		}

		label := fmt.Sprintf("%.0fm", v)
		width := font.MeasureString(r.face, label)
		r.drawString(img, label, area.Min.X-tickMarkLength-width.Round()-3, y+fontHeight/2-metrics.Descent.Round(), altitudeColor)
	}
}

func (r *ChartRenderer) drawRightScale(img *image.RGBA, area image.Rectangle, maxSpeed float64) {
	step := niceStep(maxSpeed, float64(area.Dy())/(pixelsPerLabel/2))

	metrics := r.face.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	for v := 0.0; v <= maxSpeed; v += step {
		y := area.Max.Y - 1 - int(v/maxSpeed*float64(area.Dy()-1))

		for x := area.Max.X; x < area.Max.X+tickMarkLength; x++ {
			img.Set(x, y, color.Black)
		}

		label := fmt.Sprintf("%.1f", v)
		r.drawString(img, label, area.Max.X+tickMarkLength+3, y+fontHeight/2-metrics.Descent.Round(), speedColor)
	}
}

func (r *ChartRenderer) drawLegend(img *image.RGBA, area image.Rectangle) {
	metrics := r.face.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	y := img.Bounds().Max.Y - fontHeight/2

	x := area.Min.X
	x = r.drawLegendEntry(img, "altitude (m)", altitudeColor, x, y)
	x += 20
	r.drawLegendEntry(img, "speed (m/s)", speedColor, x, y)
}

func (r *ChartRenderer) drawLegendEntry(img *image.RGBA, label string, c color.Color, x, y int) int {
	const swatch = 10

	for dy := 0; dy < swatch; dy++ {
		for dx := 0; dx < swatch; dx++ {
			img.Set(x+dx, y-swatch+dy, c)
		}
	}

	r.drawString(img, label, x+swatch+5, y, color.Black)
	return x + swatch + 5 + font.MeasureString(r.face, label).Round()
}

func (r *ChartRenderer) drawString(img *image.RGBA, s string, x, y int, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawLine draws a straight segment using simple DDA stepping.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	dx := x1 - x0
	dy := y1 - y0

	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		img.Set(x0, y0, c)
		return
	}

	for i := 0; i <= steps; i++ {
		x := x0 + dx*i/steps
		y := y0 + dy*i/steps
		img.Set(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// niceStep picks a round step size covering range_ with about
// desiredSteps divisions.
func niceStep(range_, desiredSteps float64) float64 {
	if desiredSteps < 1 {
		desiredSteps = 1
	}
	target := range_ / desiredSteps

	steps := []float64{0.1, 0.2, 0.5, 1, 2, 5, 10, 20, 25, 50, 100, 200, 250, 500, 1000}
	for _, step := range steps {
		if step >= target && range_/step >= 2 {
			return step
		}
	}
	return range_ / 2
}
