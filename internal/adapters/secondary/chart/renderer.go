package chart

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gpenessot/deckgen/internal/domain/entities"
	"github.com/gpenessot/deckgen/internal/domain/ports"
)

// Palette used across all chart kinds
var (
	colorBackground = color.White
	colorTitle      = color.RGBA{R: 45, G: 55, B: 72, A: 255}
	colorAxis       = color.RGBA{R: 160, G: 174, B: 192, A: 255}
	colorGrid       = color.RGBA{R: 226, G: 232, B: 240, A: 255}
	colorBar        = color.RGBA{R: 59, G: 130, B: 246, A: 255}
	colorLabel      = color.RGBA{R: 74, G: 85, B: 104, A: 255}
)

const histogramBins = 20

// Renderer draws aggregated series as PNG chart images
type Renderer struct {
	width  int
	height int
}

// NewRenderer creates a chart renderer with the given canvas size
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = 1000
	}
	if height <= 0 {
		height = 600
	}
	return &Renderer{width: width, height: height}
}

// RenderSeries draws the series as a bar or line chart and writes a PNG
func (r *Renderer) RenderSeries(ctx context.Context, series *entities.Series, kind entities.ChartKind, title string, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if series == nil || len(series.Points) == 0 {
		return errors.New("series has no points to draw")
	}

	dc, err := r.newCanvas(title)
	if err != nil {
		return err
	}

	area := r.plotArea()
	switch kind {
	case entities.ChartKindLine:
		r.drawLine(dc, series, area)
	default:
		r.drawBars(dc, series, area)
	}

	return saveAsPNG(dc.Image(), outputPath)
}

// RenderHistogram bins the values and draws their distribution as bars
func (r *Renderer) RenderHistogram(ctx context.Context, values []float64, title string, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(values) == 0 {
		return errors.New("no values to bin")
	}

	series := binValues(values, histogramBins)

	dc, err := r.newCanvas(title)
	if err != nil {
		return err
	}

	r.drawBars(dc, series, r.plotArea())
	return saveAsPNG(dc.Image(), outputPath)
}

// plotRect is the chart drawing area inside the margins
type plotRect struct {
	x, y, w, h float64
}

// newCanvas prepares a white canvas with the chart title drawn
func (r *Renderer) newCanvas(title string) (*gg.Context, error) {
	dc := gg.NewContext(r.width, r.height)
	dc.SetColor(colorBackground)
	dc.Clear()

	titleSize := float64(r.width) / 25
	if err := loadGoFont(dc, titleSize); err != nil {
		return nil, fmt.Errorf("loading title font: %w", err)
	}

	dc.SetColor(colorTitle)
	dc.DrawStringAnchored(title, float64(r.width)/2, titleSize*1.2, 0.5, 0.5)
	return dc, nil
}

// plotArea computes the drawing area below the title and inside the margins
func (r *Renderer) plotArea() plotRect {
	marginX := float64(r.width) * 0.08
	marginTop := float64(r.height) * 0.16
	marginBottom := float64(r.height) * 0.14

	return plotRect{
		x: marginX,
		y: marginTop,
		w: float64(r.width) - 2*marginX,
		h: float64(r.height) - marginTop - marginBottom,
	}
}

// drawBars draws the series as vertical bars with labels underneath
func (r *Renderer) drawBars(dc *gg.Context, series *entities.Series, area plotRect) {
	max := series.MaxValue()
	if max <= 0 {
		max = 1
	}

	r.drawFrame(dc, area, max)

	n := len(series.Points)
	slot := area.w / float64(n)
	barWidth := slot * 0.7

	labelSize := float64(r.width) / 55
	_ = loadGoFont(dc, labelSize)

	for i, p := range series.Points {
		barHeight := (p.Value / max) * area.h
		x := area.x + float64(i)*slot + (slot-barWidth)/2
		y := area.y + area.h - barHeight

		dc.SetColor(colorBar)
		dc.DrawRectangle(x, y, barWidth, barHeight)
		dc.Fill()

		dc.SetColor(colorLabel)
		label := truncateLabel(dc, p.Label, slot*0.95)
		dc.DrawStringAnchored(label, x+barWidth/2, area.y+area.h+labelSize, 0.5, 0.5)
	}
}

// drawLine draws the series as a polyline with point markers
func (r *Renderer) drawLine(dc *gg.Context, series *entities.Series, area plotRect) {
	max := series.MaxValue()
	if max <= 0 {
		max = 1
	}

	r.drawFrame(dc, area, max)

	n := len(series.Points)
	labelSize := float64(r.width) / 55
	_ = loadGoFont(dc, labelSize)

	pointX := func(i int) float64 {
		if n == 1 {
			return area.x + area.w/2
		}
		return area.x + area.w*float64(i)/float64(n-1)
	}
	pointY := func(v float64) float64 {
		return area.y + area.h - (v/max)*area.h
	}

	dc.SetColor(colorBar)
	dc.SetLineWidth(2.5)
	for i := 1; i < n; i++ {
		dc.DrawLine(pointX(i-1), pointY(series.Points[i-1].Value), pointX(i), pointY(series.Points[i].Value))
		dc.Stroke()
	}

	for i, p := range series.Points {
		dc.SetColor(colorBar)
		dc.DrawCircle(pointX(i), pointY(p.Value), 3.5)
		dc.Fill()
	}

	// Label a readable subset of the x axis
	step := 1
	if n > 12 {
		step = n / 12
	}
	dc.SetColor(colorLabel)
	for i := 0; i < n; i += step {
		dc.DrawStringAnchored(series.Points[i].Label, pointX(i), area.y+area.h+labelSize, 0.5, 0.5)
	}
}

// drawFrame draws the axes, horizontal gridlines and value labels
func (r *Renderer) drawFrame(dc *gg.Context, area plotRect, max float64) {
	gridSize := float64(r.width) / 65
	_ = loadGoFont(dc, gridSize)

	const gridLines = 4
	for i := 0; i <= gridLines; i++ {
		y := area.y + area.h*float64(i)/gridLines

		dc.SetColor(colorGrid)
		dc.SetLineWidth(1)
		dc.DrawLine(area.x, y, area.x+area.w, y)
		dc.Stroke()

		value := max * float64(gridLines-i) / gridLines
		dc.SetColor(colorLabel)
		dc.DrawStringAnchored(formatTick(value), area.x-6, y, 1, 0.5)
	}

	dc.SetColor(colorAxis)
	dc.SetLineWidth(1.5)
	dc.DrawLine(area.x, area.y, area.x, area.y+area.h)
	dc.DrawLine(area.x, area.y+area.h, area.x+area.w, area.y+area.h)
	dc.Stroke()
}

// binValues buckets raw values into a fixed number of equal-width bins
func binValues(values []float64, bins int) *entities.Series {
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if max == min {
		return &entities.Series{Points: []entities.SeriesPoint{
			{Label: formatTick(min), Value: float64(len(values))},
		}}
	}

	width := (max - min) / float64(bins)
	counts := make([]float64, bins)
	for _, v := range values {
		i := int((v - min) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}

	points := make([]entities.SeriesPoint, 0, bins)
	for i, c := range counts {
		label := ""
		if i%4 == 0 {
			label = formatTick(min + width*float64(i))
		}
		points = append(points, entities.SeriesPoint{Label: label, Value: c})
	}
	return &entities.Series{Points: points}
}

// formatTick renders an axis value without trailing noise
func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// truncateLabel shortens a label until it fits the given width
func truncateLabel(dc *gg.Context, label string, maxWidth float64) string {
	if w, _ := dc.MeasureString(label); w <= maxWidth {
		return label
	}

	runes := []rune(label)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if w, _ := dc.MeasureString(candidate); w <= maxWidth {
			return candidate
		}
	}
	return string(runes)
}

// loadGoFont loads the embedded Go font with the specified size
func loadGoFont(dc *gg.Context, fontSize float64) error {
	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parsing embedded font: %w", err)
	}

	face := truetype.NewFace(font, &truetype.Options{
		Size: fontSize,
	})

	dc.SetFontFace(face)
	return nil
}

// saveAsPNG writes the image to outputPath, creating parent directories
func saveAsPNG(img image.Image, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0750); err != nil {
		return fmt.Errorf("creating chart directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304 - outputPath is the caller's intended chart location
	if err != nil {
		return fmt.Errorf("creating PNG file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}

	return nil
}

// Ensure Renderer implements ports.ChartRenderer
var _ ports.ChartRenderer = (*Renderer)(nil)
