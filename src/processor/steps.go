package processor

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"OceanCleanup/src/chart"

	"gonum.org/v1/plot"
)

// DefaultSteps 报表步骤，顺序即输出文件编号
func DefaultSteps() []Step {
	keyMetrics := []string{ColCleanupArea, ColCleanupFrequency, ColParticipants}

	return []Step{
		{
			Name:  "correlation_heatmap",
			Title: "Correlation Heatmap",
			Kind:  chart.Heatmap,
			Size:  chart.SizeMatrix,
			Build: buildCorrelationHeatmap,
		},
		{
			Name:     "yearly_key_metrics",
			Title:    "Yearly Trends: Cleanup Area, Frequency, and Participants",
			Required: keyMetrics,
			Mode:     RequireAll,
			Kind:     chart.Line,
			Size:     chart.SizeWide,
			Build: yearlyLines(chart.Labels{
				Title: "Yearly Trends: Cleanup Area, Frequency, and Participants", X: "Year", Y: "Counts"}, ""),
		},
		{
			Name:     "yearly_waste_sources",
			Title:    "Yearly Trends: Marine Waste Sources",
			Required: WasteSourceColumns,
			Mode:     RequireAny,
			Kind:     chart.Line,
			Size:     chart.SizeWide,
			Build: yearlyLines(chart.Labels{
				Title: "Yearly Trends: Marine Waste Sources", X: "Year", Y: "Tons"}, "Waste Sources"),
		},
		{
			Name:     "yearly_cleanup_categories",
			Title:    "Yearly Trends: Cleanup Categories",
			Required: CleanupCategoryColumns,
			Mode:     RequireAny,
			Kind:     chart.StackedBar,
			Size:     chart.SizeLarge,
			Build: yearlyStackedBars(chart.Labels{
				Title: "Yearly Trends: Cleanup Categories", X: "Year", Y: "Tons"}, "Categories"),
		},
		{
			Name:     "county_cleanup_area",
			Title:    "Total Cleanup Area by County",
			Required: []string{ColCleanupArea, ColCounty},
			Mode:     RequireAll,
			Kind:     chart.HorizontalBar,
			Size:     chart.SizeTall,
			Build:    buildCountyCleanupArea,
		},
		{
			Name:     "recent_waste_source_share",
			Title:    "Proportions of Marine Waste Sources",
			Required: WasteSourceColumns,
			Mode:     RequireAny,
			Kind:     chart.Pie,
			Size:     chart.SizeSquare,
			Build:    recentShare("Proportions of Marine Waste Sources"),
		},
		{
			Name:     "top_counties_frequency",
			Title:    "Top Counties by Cleanup Frequency",
			Required: []string{ColCleanupFrequency, ColCounty},
			Mode:     RequireAll,
			Kind:     chart.Bar,
			Size:     chart.SizeMedium,
			Build: topCounties(ColCleanupFrequency, nil, chart.Coral,
				chart.Labels{Title: "Top %d Counties by Cleanup Frequency", X: "County", Y: "Cleanup Frequency"}),
		},
		{
			Name:     "top_counties_participation",
			Title:    "Yearly Participation Trends in Top Counties",
			Required: []string{ColParticipants, ColYear, ColCounty},
			Mode:     RequireAll,
			Kind:     chart.Line,
			Size:     chart.SizeLarge,
			Build:    buildTopCountyParticipation,
		},
		{
			Name:     "recent_category_share",
			Title:    "Proportion of Cleanup Categories",
			Required: CleanupCategoryColumns,
			Mode:     RequireAny,
			Kind:     chart.Pie,
			Size:     chart.SizeSquare,
			Build:    recentShare("Proportion of Cleanup Categories"),
		},
		{
			Name:     "category_yearly_heatmap",
			Title:    "Yearly Totals for Cleanup Categories",
			Required: CleanupCategoryColumns,
			Mode:     RequireAny,
			Kind:     chart.Heatmap,
			Size:     chart.SizeLarge,
			Build:    buildCategoryHeatmap,
		},
		{
			Name:     "total_waste_sources",
			Title:    "Total Marine Waste Sources by Year",
			Required: WasteSourceColumns,
			Mode:     RequireAny,
			Kind:     chart.StackedBar,
			Size:     chart.SizeLarge,
			Build: yearlyStackedBars(chart.Labels{
				Title: "Total Marine Waste Sources by Year", X: "Year", Y: "Tons"}, "Waste Sources"),
		},
		{
			Name:     "monthly_cleanup_area",
			Title:    "Monthly Trends of Cleanup Area",
			Required: []string{ColDate, ColCleanupArea},
			Mode:     RequireAll,
			Kind:     chart.Line,
			Size:     chart.SizeLarge,
			Build:    buildMonthlyCleanupArea,
		},
		{
			Name:     "participants_vs_frequency",
			Title:    "Participants vs Cleanup Frequency",
			Required: []string{ColParticipants, ColCleanupFrequency},
			Mode:     RequireAll,
			Kind:     chart.Scatter,
			Size:     chart.SizeMedium,
			Build:    buildParticipantsScatter,
		},
		{
			Name:     "top_counties_total_waste",
			Title:    "Top Counties by Total Waste Cleaned",
			Required: CleanupCategoryColumns,
			Mode:     RequireAny,
			Kind:     chart.Bar,
			Size:     chart.SizeMedium,
			Build: topCounties("", RowSums, chart.Teal,
				chart.Labels{Title: "Top %d Counties by Total Waste Cleaned", X: "County", Y: "Total Waste (Tons)"}),
		},
	}
}

func yearsAsX(years []int) []float64 {
	xs := make([]float64, len(years))
	for i, y := range years {
		xs[i] = float64(y)
	}
	return xs
}

func yearLabels(years []int) []string {
	out := make([]string, len(years))
	for i, y := range years {
		out[i] = strconv.Itoa(y)
	}
	return out
}

func buildCorrelationHeatmap(r *Reporter, ds *Dataset, _ []string) (*plot.Plot, error) {
	cols := CorrelationColumns(ds)
	if len(cols) < 2 {
		return nil, ErrNoData
	}
	m := chart.Matrix{
		RowLabels: cols,
		ColLabels: cols,
		Cells:     CorrelationMatrix(ds, cols),
	}
	return chart.NewHeatmap(chart.Labels{Title: "Correlation Heatmap"}, m, chart.HeatmapOptions{
		Palette: chart.CoolWarm(64),
		Min:     -1,
		Max:     1,
		Format:  "%.2f",
	})
}

// yearlyLines 各列按年份汇总后画折线
func yearlyLines(l chart.Labels, legend string) func(*Reporter, *Dataset, []string) (*plot.Plot, error) {
	return func(r *Reporter, ds *Dataset, present []string) (*plot.Plot, error) {
		years, sums := SumByYear(ds, present)
		if len(years) == 0 {
			return nil, ErrNoData
		}
		lines := make([]chart.Series, 0, len(present))
		for _, c := range present {
			lines = append(lines, chart.Series{Name: c, Values: sums[c]})
		}
		return chart.NewLineChart(l, yearsAsX(years), lines, legend)
	}
}

// yearlyStackedBars 各列按年份汇总后堆叠
func yearlyStackedBars(l chart.Labels, legend string) func(*Reporter, *Dataset, []string) (*plot.Plot, error) {
	return func(r *Reporter, ds *Dataset, present []string) (*plot.Plot, error) {
		years, sums := SumByYear(ds, present)
		if len(years) == 0 {
			return nil, ErrNoData
		}
		stacks := make([]chart.Series, 0, len(present))
		for _, c := range present {
			stacks = append(stacks, chart.Series{Name: c, Values: sums[c]})
		}
		return chart.NewStackedBarChart(l, yearLabels(years), stacks, legend)
	}
}

func buildCountyCleanupArea(r *Reporter, ds *Dataset, _ []string) (*plot.Plot, error) {
	values, _ := ds.Column(ColCleanupArea)
	totals := SortByValue(SumByCounty(ds, values), false)
	if len(totals) == 0 {
		return nil, ErrNoData
	}
	names, vals := splitKeyValues(totals)
	return chart.NewBarChart(chart.Labels{
		Title: "Total Cleanup Area by County",
		X:     "Cleanup Area",
		Y:     "County",
	}, names, vals, chart.SkyBlue, true)
}

// recentShare 近年各列合计占比
func recentShare(title string) func(*Reporter, *Dataset, []string) (*plot.Plot, error) {
	return func(r *Reporter, ds *Dataset, present []string) (*plot.Plot, error) {
		totals := TotalsSince(ds, present, r.opts.RecentYear)
		names, vals := splitKeyValues(totals)
		if nanSum(vals) <= 0 {
			return nil, ErrNoData
		}
		return chart.NewPieChart(fmt.Sprintf("%s (%d and beyond)", title, r.opts.RecentYear), names, vals)
	}
}

// topCounties 按县市汇总取前N名。col为空时用rowValues计算每行的值
func topCounties(col string, rowValues func(*Dataset, []string) []float64, c color.Color, l chart.Labels) func(*Reporter, *Dataset, []string) (*plot.Plot, error) {
	return func(r *Reporter, ds *Dataset, present []string) (*plot.Plot, error) {
		var values []float64
		if col != "" {
			values, _ = ds.Column(col)
		} else {
			values = rowValues(ds, present)
		}
		if ds.Len() == 0 {
			return nil, ErrNoData
		}
		top := TopN(SumByCounty(ds, values), r.opts.TopN)
		if len(top) == 0 {
			return nil, ErrNoData
		}
		names, vals := splitKeyValues(top)
		labels := l
		labels.Title = fmt.Sprintf(l.Title, r.opts.TopN)
		return chart.NewBarChart(labels, names, vals, c, false)
	}
}

func buildTopCountyParticipation(r *Reporter, ds *Dataset, _ []string) (*plot.Plot, error) {
	values, _ := ds.Column(ColParticipants)
	top := TopN(SumByCounty(ds, values), r.opts.TopN)
	if len(top) == 0 {
		return nil, ErrNoData
	}
	counties, _ := splitKeyValues(top)

	years, byCounty := SumByYearAndCounty(ds, ColParticipants, counties)
	if len(years) == 0 {
		return nil, ErrNoData
	}
	lines := make([]chart.Series, 0, len(counties))
	for _, c := range counties {
		lines = append(lines, chart.Series{Name: c, Values: byCounty[c]})
	}
	return chart.NewLineChart(chart.Labels{
		Title: fmt.Sprintf("Yearly Participation Trends in Top %d Counties", r.opts.TopN),
		X:     "Year",
		Y:     "Participants",
	}, yearsAsX(years), lines, "County")
}

func buildCategoryHeatmap(r *Reporter, ds *Dataset, present []string) (*plot.Plot, error) {
	years, sums := SumByYear(ds, present)
	if len(years) == 0 {
		return nil, ErrNoData
	}
	z := make([][]float64, len(years))
	for i := range years {
		z[i] = make([]float64, len(present))
		for j, c := range present {
			z[i][j] = sums[c][i]
		}
	}
	return chart.NewHeatmap(chart.Labels{
		Title: "Yearly Totals for Cleanup Categories",
		X:     "Category",
		Y:     "Year",
	}, chart.Matrix{RowLabels: yearLabels(years), ColLabels: present, Cells: z}, chart.HeatmapOptions{
		Palette: chart.Sequential(64),
		Format:  "%.1f",
	})
}

func buildMonthlyCleanupArea(r *Reporter, ds *Dataset, _ []string) (*plot.Plot, error) {
	months, years, sums := SumByMonthAndYear(ds, ColDate, ColCleanupArea)
	if len(months) == 0 {
		return nil, ErrNoData
	}
	lines := make([]chart.Series, 0, len(years))
	for _, y := range years {
		lines = append(lines, chart.Series{Name: strconv.Itoa(y), Values: sums[y]})
	}
	return chart.NewLineChart(chart.Labels{
		Title: "Monthly Trends of Cleanup Area",
		X:     "Month",
		Y:     "Cleanup Area",
	}, yearsAsX(months), lines, "Year")
}

func buildParticipantsScatter(r *Reporter, ds *Dataset, _ []string) (*plot.Plot, error) {
	x, _ := ds.Column(ColParticipants)
	y, _ := ds.Column(ColCleanupFrequency)
	yearCol, _ := ds.Column(ColYear)

	years := ds.Years()
	idx := make(map[int]int, len(years))
	groups := make([]chart.ScatterGroup, len(years))
	for i, yr := range years {
		idx[yr] = i
		groups[i].Name = strconv.Itoa(yr)
	}
	for row := range x {
		if yearCol == nil || math.IsNaN(yearCol[row]) {
			continue
		}
		g := &groups[idx[int(yearCol[row])]]
		g.X = append(g.X, x[row])
		g.Y = append(g.Y, y[row])
	}
	return chart.NewScatterChart(chart.Labels{
		Title: "Participants vs Cleanup Frequency",
		X:     "Participants",
		Y:     "Cleanup Frequency",
	}, groups, "Year")
}

func splitKeyValues(kvs []KeyValue) ([]string, []float64) {
	names := make([]string, len(kvs))
	vals := make([]float64, len(kvs))
	for i, kv := range kvs {
		names[i] = kv.Key
		vals[i] = kv.Value
	}
	return names, vals
}
