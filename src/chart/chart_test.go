package chart

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "stacked bar", StackedBar.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestBuildersRejectEmptyData(t *testing.T) {
	_, err := NewLineChart(Labels{}, nil, []Series{{Name: "a"}}, "")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = NewStackedBarChart(Labels{}, []string{"2020"}, nil, "")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = NewBarChart(Labels{}, nil, nil, SkyBlue, false)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = NewPieChart("share", []string{"a", "b"}, []float64{0, math.NaN()})
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = NewHeatmap(Labels{}, Matrix{}, HeatmapOptions{Palette: Sequential(8)})
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = NewScatterChart(Labels{}, []ScatterGroup{{Name: "2020", X: []float64{math.NaN()}, Y: []float64{1}}}, "")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestFileWriterSavesPNG(t *testing.T) {
	dir := t.TempDir()
	w := NewFileWriter(dir)

	line, err := NewLineChart(Labels{Title: "trend", X: "Year", Y: "Counts"},
		[]float64{2020, 2021, 2022},
		[]Series{{Name: "CleanupArea", Values: []float64{1, math.NaN(), 3}}, {Name: "Participants", Values: []float64{4, 5, 6}}},
		"")
	require.NoError(t, err)

	stacked, err := NewStackedBarChart(Labels{Title: "stacked"}, []string{"2020", "2021"},
		[]Series{{Name: "a", Values: []float64{1, 2}}, {Name: "b", Values: []float64{3, math.NaN()}}}, "Categories")
	require.NoError(t, err)

	bar, err := NewBarChart(Labels{Title: "area"}, []string{"a", "b", "c"}, []float64{3, 2, 1}, Coral, true)
	require.NoError(t, err)

	pie, err := NewPieChart("share", []string{"a", "b", "c"}, []float64{1, 2, 0})
	require.NoError(t, err)

	heat, err := NewHeatmap(Labels{Title: "corr"}, Matrix{
		RowLabels: []string{"x", "y"},
		ColLabels: []string{"x", "y"},
		Cells:     [][]float64{{1, -0.5}, {-0.5, math.NaN()}},
	}, HeatmapOptions{Palette: CoolWarm(16), Min: -1, Max: 1, Format: "%.2f"})
	require.NoError(t, err)

	scatter, err := NewScatterChart(Labels{Title: "scatter"}, []ScatterGroup{
		{Name: "2020", X: []float64{1, 2}, Y: []float64{3, 4}},
		{Name: "2021", X: []float64{5}, Y: []float64{6}},
	}, "Year")
	require.NoError(t, err)

	for _, tc := range []struct {
		name string
		p    *plot.Plot
		size Size
	}{
		{"line", line, SizeWide},
		{"stacked", stacked, SizeLarge},
		{"bar", bar, SizeTall},
		{"pie", pie, SizeSquare},
		{"heat", heat, SizeMatrix},
		{"scatter", scatter, SizeMedium},
	} {
		require.NoError(t, w.Write(tc.name, tc.p, tc.size), tc.name)

		info, err := os.Stat(filepath.Join(dir, tc.name+".png"))
		require.NoError(t, err, tc.name)
		assert.Greater(t, info.Size(), int64(0), tc.name)
	}
}

func TestMatrixOrientation(t *testing.T) {
	m := Matrix{
		RowLabels: []string{"top", "bottom"},
		ColLabels: []string{"a"},
		Cells:     [][]float64{{1}, {math.NaN()}},
	}
	c, r := m.Dims()
	assert.Equal(t, 1, c)
	assert.Equal(t, 2, r)
	// 第0行画在最上方(y最大)
	assert.Equal(t, 1.0, m.Z(0, 1))
	assert.Equal(t, 0.0, m.Z(0, 0))
}

func TestUseFontMissingFile(t *testing.T) {
	assert.Error(t, UseFont(filepath.Join(t.TempDir(), "none.ttf")))
}
