package chart

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
)

// Matrix 热力图数据，Cells[row][col]，第0行画在最上方
type Matrix struct {
	RowLabels []string
	ColLabels []string
	Cells     [][]float64
}

// Dims 实现plotter.GridXYZ
func (m Matrix) Dims() (c, r int) { return len(m.ColLabels), len(m.RowLabels) }

// Z 缺失值按0着色，数值标注仍显示NaN
func (m Matrix) Z(c, r int) float64 {
	v := m.Cells[len(m.RowLabels)-1-r][c]
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func (m Matrix) X(c int) float64 { return float64(c) }
func (m Matrix) Y(r int) float64 { return float64(r) }

// CoolWarm 相关系数用的蓝-红发散色板，范围[-1, 1]
func CoolWarm(n int) palette.Palette {
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	return cm.Palette(n)
}

// Sequential 汇总值用的顺序色板
func Sequential(n int) palette.Palette {
	return palette.Heat(n, 1)
}

// HeatmapOptions 色板、取值范围和标注格式
type HeatmapOptions struct {
	Palette  palette.Palette
	Min, Max float64 // 相等时使用数据的范围
	Format   string  // 单元格标注格式，如 "%.2f"
}

// NewHeatmap 带数值标注的热力图
func NewHeatmap(l Labels, m Matrix, opt HeatmapOptions) (*plot.Plot, error) {
	cols, rows := m.Dims()
	if cols == 0 || rows == 0 {
		return nil, ErrEmpty
	}

	p := newPlot(l)
	h := plotter.NewHeatMap(m, opt.Palette)
	if opt.Min != opt.Max {
		h.Min, h.Max = opt.Min, opt.Max
	}
	if h.Min == h.Max {
		// 所有值相同时避免除零
		h.Max = h.Min + 1
	}
	p.Add(h)

	var (
		xys    plotter.XYs
		labels []string
	)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			xys = append(xys, plotter.XY{X: m.X(c), Y: m.Y(r)})
			labels = append(labels, fmt.Sprintf(opt.Format, m.Cells[rows-1-r][c]))
		}
	}
	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("创建热力图标注失败: %w", err)
	}
	for i := range annotations.TextStyle {
		annotations.TextStyle[i].XAlign = draw.XCenter
		annotations.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(annotations)

	xTicks := make([]plot.Tick, cols)
	for c := range xTicks {
		xTicks[c] = plot.Tick{Value: m.X(c), Label: m.ColLabels[c]}
	}
	yTicks := make([]plot.Tick, rows)
	for r := range yTicks {
		yTicks[r] = plot.Tick{Value: m.Y(r), Label: m.RowLabels[rows-1-r]}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return p, nil
}
