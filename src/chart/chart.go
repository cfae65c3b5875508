// Package chart 基于gonum/plot绘制报表图表
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Kind 图表类型
type Kind int

const (
	Line Kind = iota
	Bar
	StackedBar
	HorizontalBar
	Pie
	Heatmap
	Scatter
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "line"
	case Bar:
		return "bar"
	case StackedBar:
		return "stacked bar"
	case HorizontalBar:
		return "horizontal bar"
	case Pie:
		return "pie"
	case Heatmap:
		return "heatmap"
	case Scatter:
		return "scatter"
	default:
		return "unknown"
	}
}

// Size 输出图片尺寸
type Size struct {
	Width, Height vg.Length
}

// 与原图保持相近的尺寸(英寸)
var (
	SizeWide   = Size{Width: 12 * vg.Inch, Height: 6 * vg.Inch}
	SizeLarge  = Size{Width: 12 * vg.Inch, Height: 8 * vg.Inch}
	SizeMedium = Size{Width: 10 * vg.Inch, Height: 6 * vg.Inch}
	SizeTall   = Size{Width: 10 * vg.Inch, Height: 8 * vg.Inch}
	SizeSquare = Size{Width: 8 * vg.Inch, Height: 8 * vg.Inch}
	SizeMatrix = Size{Width: 12 * vg.Inch, Height: 10 * vg.Inch}
)

// 常用颜色
var (
	SkyBlue = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	Coral   = color.RGBA{R: 255, G: 127, B: 80, A: 255}
	Teal    = color.RGBA{R: 0, G: 128, B: 128, A: 255}
)

// ErrEmpty 没有可绘制的数据
var ErrEmpty = errors.New("没有可绘制的数据")

// Series 一条折线或一层堆叠柱，Values与横轴对齐，NaN表示缺失
type Series struct {
	Name   string
	Values []float64
}

// Labels 图表标题和坐标轴名称
type Labels struct {
	Title, X, Y string
}

func newPlot(l Labels) *plot.Plot {
	p := plot.New()
	p.Title.Text = l.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = l.X
	p.Y.Label.Text = l.Y
	return p
}

// NewLineChart 多条折线，带圆点标记和网格
func NewLineChart(l Labels, xs []float64, lines []Series, legendTitle string) (*plot.Plot, error) {
	if len(xs) == 0 || len(lines) == 0 {
		return nil, ErrEmpty
	}
	p := newPlot(l)
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	if legendTitle != "" {
		p.Legend.Add(legendTitle)
	}

	for i, s := range lines {
		pts := make(plotter.XYs, 0, len(xs))
		for j, x := range xs {
			if j < len(s.Values) && !math.IsNaN(s.Values[j]) {
				pts = append(pts, plotter.XY{X: x, Y: s.Values[j]})
			}
		}
		if len(pts) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("创建折线 %s 失败: %w", s.Name, err)
		}
		c := plotutil.Color(i)
		line.Color = c
		line.Width = vg.Points(2)
		points.GlyphStyle.Color = c
		points.GlyphStyle.Shape = draw.CircleGlyph{}
		points.GlyphStyle.Radius = vg.Points(3)
		p.Add(line, points)
		p.Legend.Add(s.Name, line, points)
	}
	return p, nil
}

// NewStackedBarChart 按类别堆叠的柱状图
func NewStackedBarChart(l Labels, categories []string, stacks []Series, legendTitle string) (*plot.Plot, error) {
	if len(categories) == 0 || len(stacks) == 0 {
		return nil, ErrEmpty
	}
	p := newPlot(l)
	p.Legend.Top = true
	if legendTitle != "" {
		p.Legend.Add(legendTitle)
	}

	width := barWidth(len(categories))
	var below *plotter.BarChart
	for i, s := range stacks {
		values := make(plotter.Values, len(categories))
		for j := range values {
			if j < len(s.Values) && !math.IsNaN(s.Values[j]) {
				values[j] = s.Values[j]
			}
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, fmt.Errorf("创建柱状图 %s 失败: %w", s.Name, err)
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = vg.Length(0)
		if below != nil {
			bars.StackOn(below)
		}
		below = bars
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}
	p.NominalX(categories...)
	return p, nil
}

// NewBarChart 单色柱状图，horizontal为true时为横向条形图
func NewBarChart(l Labels, names []string, values []float64, c color.Color, horizontal bool) (*plot.Plot, error) {
	if len(names) == 0 {
		return nil, ErrEmpty
	}
	p := newPlot(l)

	vs := make(plotter.Values, len(values))
	copy(vs, values)
	bars, err := plotter.NewBarChart(vs, barWidth(len(names)))
	if err != nil {
		return nil, fmt.Errorf("创建柱状图失败: %w", err)
	}
	bars.Color = c
	bars.LineStyle.Width = vg.Length(0)
	bars.Horizontal = horizontal
	p.Add(bars)

	if horizontal {
		p.NominalY(names...)
	} else {
		p.NominalX(names...)
	}
	return p, nil
}

// ScatterGroup 一组散点，同组同色
type ScatterGroup struct {
	Name string
	X, Y []float64
}

// NewScatterChart 按分组着色的散点图
func NewScatterChart(l Labels, groups []ScatterGroup, legendTitle string) (*plot.Plot, error) {
	p := newPlot(l)
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	if legendTitle != "" {
		p.Legend.Add(legendTitle)
	}

	drawn := 0
	for i, g := range groups {
		pts := make(plotter.XYs, 0, len(g.X))
		for j := range g.X {
			if math.IsNaN(g.X[j]) || math.IsNaN(g.Y[j]) {
				continue
			}
			pts = append(pts, plotter.XY{X: g.X[j], Y: g.Y[j]})
		}
		if len(pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("创建散点 %s 失败: %w", g.Name, err)
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(4)
		p.Add(sc)
		p.Legend.Add(g.Name, sc)
		drawn += len(pts)
	}
	if drawn == 0 {
		return nil, ErrEmpty
	}
	return p, nil
}

// barWidth 类别越多柱子越窄
func barWidth(n int) vg.Length {
	switch {
	case n > 20:
		return vg.Points(10)
	case n > 10:
		return vg.Points(18)
	default:
		return vg.Points(30)
	}
}
