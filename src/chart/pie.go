package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// pieExtent 数据坐标中饼图外留出的空间
const pieExtent = 1.25

// PieChart 饼图。gonum/plot没有饼图，这里实现plot.Plotter
type PieChart struct {
	Values []float64
	Colors []color.Color

	// TextStyle 扇区内百分比文字的样式
	TextStyle text.Style
}

// NewPieChart 各扇区按数值占比，标注 %.1f%%
func NewPieChart(title string, names []string, values []float64) (*plot.Plot, error) {
	var total float64
	for _, v := range values {
		if v > 0 && !math.IsNaN(v) {
			total += v
		}
	}
	if len(values) == 0 || total == 0 {
		return nil, ErrEmpty
	}

	p := newPlot(Labels{Title: title})
	p.HideAxes()
	p.Legend.Top = true

	pc := &PieChart{
		Values:    values,
		Colors:    make([]color.Color, len(values)),
		TextStyle: p.Title.TextStyle,
	}
	pc.TextStyle.Font.Size = vg.Points(11)
	pc.TextStyle.XAlign = draw.XCenter
	pc.TextStyle.YAlign = draw.YCenter

	for i := range values {
		pc.Colors[i] = plotutil.Color(i)
		p.Legend.Add(names[i], pieSlice{color: pc.Colors[i]})
	}
	p.Add(pc)
	return p, nil
}

// Plot 实现plot.Plotter。从12点方向开始逆时针绘制
func (pc *PieChart) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	center := vg.Point{X: trX(0), Y: trY(0)}
	r := trX(1) - trX(0)
	if ry := trY(1) - trY(0); ry < r {
		r = ry
	}

	var total float64
	for _, v := range pc.Values {
		if v > 0 && !math.IsNaN(v) {
			total += v
		}
	}
	if total == 0 {
		return
	}

	start := math.Pi / 2
	for i, v := range pc.Values {
		if v <= 0 || math.IsNaN(v) {
			continue
		}
		sweep := 2 * math.Pi * v / total

		var path vg.Path
		path.Move(center)
		path.Arc(center, r, start, sweep)
		path.Close()
		c.SetColor(pc.Colors[i])
		c.Fill(path)

		mid := start + sweep/2
		pt := vg.Point{
			X: center.X + r*0.65*vg.Length(math.Cos(mid)),
			Y: center.Y + r*0.65*vg.Length(math.Sin(mid)),
		}
		c.FillText(pc.TextStyle, pt, fmt.Sprintf("%.1f%%", v/total*100))

		start += sweep
	}
}

// DataRange 实现plot.DataRanger，固定为以原点为中心的单位圆
func (pc *PieChart) DataRange() (xmin, xmax, ymin, ymax float64) {
	return -pieExtent, pieExtent, -pieExtent, pieExtent
}

// pieSlice 图例中的色块
type pieSlice struct {
	color color.Color
}

func (s pieSlice) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.color, c.ClipPolygonY(pts))
}
