package audio_plot

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WaveformOptions controls the rendered image.
type WaveformOptions struct {
	Title  string
	Width  vg.Length
	Height vg.Length
}

func DefaultWaveformOptions() WaveformOptions {
	return WaveformOptions{
		Width:  12 * vg.Inch,
		Height: 3 * vg.Inch,
	}
}

// RenderWaveformPNG draws a peak envelope spanning duration seconds with a marker at every beat time.
func RenderWaveformPNG(w io.Writer, envelope []float64, duration float64, beats []float64, opts WaveformOptions) error {
	if len(envelope) == 0 || duration <= 0 {
		return fmt.Errorf("没有可绘制的波形数据")
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Amplitude"
	p.Y.Min, p.Y.Max = -1, 1
	p.X.Min, p.X.Max = 0, duration

	step := duration / float64(len(envelope))
	upper := make(plotter.XYs, len(envelope))
	lower := make(plotter.XYs, len(envelope))
	for i, v := range envelope {
		x := (float64(i) + 0.5) * step
		upper[i].X, upper[i].Y = x, v
		lower[i].X, lower[i].Y = x, -v
	}

	for _, pts := range []plotter.XYs{upper, lower} {
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("创建波形线失败: %w", err)
		}
		line.LineStyle.Color = color.RGBA{R: 200, G: 200, B: 200, A: 255}
		line.LineStyle.Width = vg.Points(0.5)
		p.Add(line)
	}

	for _, b := range beats {
		marker, err := plotter.NewLine(plotter.XYs{{X: b, Y: -1}, {X: b, Y: 1}})
		if err != nil {
			return fmt.Errorf("创建节拍标记失败: %w", err)
		}
		marker.LineStyle.Color = color.RGBA{R: 255, G: 120, B: 200, A: 255}
		marker.LineStyle.Width = vg.Points(1)
		p.Add(marker)
	}

	p.BackgroundColor = color.Black
	p.X.Tick.Label.Color = color.White
	p.Y.Tick.Label.Color = color.White
	p.X.Label.TextStyle.Color = color.White
	p.Y.Label.TextStyle.Color = color.White
	p.Title.TextStyle.Color = color.White

	wt, err := p.WriterTo(opts.Width, opts.Height, "png")
	if err != nil {
		return fmt.Errorf("渲染波形图失败: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("写入波形图失败: %w", err)
	}
	return nil
}
