package processor

import (
	"errors"
	"testing"

	"OceanCleanup/src/chart"
	"OceanCleanup/src/config"
	"OceanCleanup/src/datasource/file"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
)

// recordingWriter 只记录图表名，不落盘
type recordingWriter struct {
	names []string
	fail  map[string]bool
}

func (w *recordingWriter) Write(name string, p *plot.Plot, size chart.Size) error {
	if w.fail[name] {
		return errors.New("disk full")
	}
	w.names = append(w.names, name)
	return nil
}

func TestDefaultStepsOrder(t *testing.T) {
	var names []string
	for _, s := range DefaultSteps() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"correlation_heatmap",
		"yearly_key_metrics",
		"yearly_waste_sources",
		"yearly_cleanup_categories",
		"county_cleanup_area",
		"recent_waste_source_share",
		"top_counties_frequency",
		"top_counties_participation",
		"recent_category_share",
		"category_yearly_heatmap",
		"total_waste_sources",
		"monthly_cleanup_area",
		"participants_vs_frequency",
		"top_counties_total_waste",
	}, names)
}

func TestReporterRun(t *testing.T) {
	w := &recordingWriter{}
	logger := &recordingLogger{}
	r := NewReporter(Options{RecentYear: 2020, TopN: 2}, w, logger)

	sum := r.Run(sampleDataset(t))

	// 没有海洋废弃物来源列的三个步骤被跳过
	assert.Equal(t, []string{"yearly_waste_sources", "recent_waste_source_share", "total_waste_sources"}, sum.Skipped)
	assert.Empty(t, sum.Failed)
	assert.Len(t, sum.Rendered, 11)
	assert.Contains(t, w.names, "01_correlation_heatmap")
	assert.Contains(t, w.names, "14_top_counties_total_waste")
	assert.NotContains(t, w.names, "03_yearly_waste_sources")
	assert.Len(t, logger.warnings, 3)
	assert.Empty(t, logger.errors)
}

func TestReporterSkipsMissingFrequency(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"台北市", "新北市"}, series.String, ColCounty),
		series.New([]float64{5, 10}, series.Float, ColCleanupArea),
		series.New([]float64{100, 200}, series.Float, ColParticipants),
		series.New([]float64{2021, 2021}, series.Float, ColYear),
	)
	require.NoError(t, df.Err)

	w := &recordingWriter{}
	logger := &recordingLogger{}
	sum := NewReporter(Options{RecentYear: 2020}, w, logger).Run(NewDataset(df))

	assert.Contains(t, sum.Skipped, "top_counties_frequency")
	assert.Contains(t, sum.Skipped, "participants_vs_frequency")
	assert.Contains(t, sum.Skipped, "yearly_key_metrics")
	assert.Contains(t, sum.Rendered, "county_cleanup_area")
	assert.Contains(t, sum.Rendered, "top_counties_participation")

	var found bool
	for _, msg := range logger.warnings {
		if msg == "跳过 Top Counties by Cleanup Frequency: 数据集中缺少列 CleanupFrequency" {
			found = true
		}
	}
	assert.True(t, found, logger.warnings)
}

func TestReporterContinuesAfterWriteError(t *testing.T) {
	w := &recordingWriter{fail: map[string]bool{"01_correlation_heatmap": true}}
	logger := &recordingLogger{}
	sum := NewReporter(Options{RecentYear: 2020, TopN: 2}, w, logger).Run(sampleDataset(t))

	assert.Equal(t, []string{"correlation_heatmap"}, sum.Failed)
	assert.Len(t, sum.Rendered, 10)
	assert.Len(t, logger.errors, 1)
}

func TestReporterEmptyDataset(t *testing.T) {
	df := dataframe.New(
		series.New([]string{}, series.String, ColCounty),
		series.New([]float64{}, series.Float, ColCleanupArea),
		series.New([]float64{}, series.Float, ColCleanupFrequency),
		series.New([]float64{}, series.Float, ColYear),
	)
	require.NoError(t, df.Err)

	w := &recordingWriter{}
	sum := NewReporter(Options{RecentYear: 2020}, w, &recordingLogger{}).Run(NewDataset(df))

	assert.Empty(t, sum.Rendered)
	assert.Empty(t, sum.Failed)
	assert.Len(t, sum.Skipped, len(DefaultSteps()))
	assert.Empty(t, w.names)
}

func TestStepCheck(t *testing.T) {
	ds := sampleDataset(t)

	anyStep := Step{Required: CleanupCategoryColumns, Mode: RequireAny}
	present, ok := anyStep.Check(ds)
	assert.True(t, ok)
	assert.Equal(t, []string{"Cleanup_PETBottles", "Cleanup_IronCans"}, present)

	allStep := Step{Required: []string{ColCounty, "MarineWaste_Floating"}, Mode: RequireAll}
	_, ok = allStep.Check(ds)
	assert.False(t, ok)
}

func TestReporterSkipsMetricConfiguredAsLabel(t *testing.T) {
	dcfg := config.DefaultDataConfig()
	dcfg.LabelColumns = []string{ColCounty, ColDate, ColCleanupArea}
	tbl := loadTable(t, "110.01.csv", "縣市別,清理範圍(處),清理次數(次),參與人數(人次)\n台北市,5,10,100\n")

	ds, err := BuildDataset([]*file.Table{tbl}, dcfg, &recordingLogger{})
	require.NoError(t, err)
	_, numeric := ds.Column(ColCleanupArea)
	require.False(t, numeric)

	w := &recordingWriter{}
	logger := &recordingLogger{}
	var sum Summary
	require.NotPanics(t, func() {
		sum = NewReporter(Options{RecentYear: 2020}, w, logger).Run(ds)
	})

	assert.Contains(t, sum.Skipped, "county_cleanup_area")
	assert.Contains(t, sum.Skipped, "yearly_key_metrics")
	assert.Contains(t, sum.Rendered, "top_counties_frequency")
	assert.Empty(t, sum.Failed)
	assert.Contains(t, logger.warnings,
		"跳过 Total Cleanup Area by County: 数据集中缺少列 CleanupArea(类型不符)")
}

func TestReporterRecoversFromStepPanic(t *testing.T) {
	w := &recordingWriter{}
	logger := &recordingLogger{}
	r := NewReporter(Options{RecentYear: 2020}, w, logger)
	r.steps = []Step{
		{
			Name: "broken",
			Build: func(*Reporter, *Dataset, []string) (*plot.Plot, error) {
				var values []float64
				_ = values[0]
				return nil, nil
			},
		},
		r.steps[4], // county_cleanup_area
	}

	sum := r.Run(sampleDataset(t))
	assert.Equal(t, []string{"broken"}, sum.Failed)
	assert.Equal(t, []string{"county_cleanup_area"}, sum.Rendered)
	assert.Equal(t, []string{"02_county_cleanup_area"}, w.names)
	assert.Len(t, logger.errors, 1)
}

func TestPresentRequiresColumnKind(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"台北市"}, series.String, ColCounty),
		series.New([]string{"5"}, series.String, ColCleanupArea),
		series.New([]float64{2021}, series.Float, ColDate),
		series.New([]float64{2021}, series.Float, ColYear),
	)
	require.NoError(t, df.Err)
	ds := NewDataset(df)

	assert.True(t, ds.Has(ColCleanupArea))
	assert.Equal(t, []string{ColCounty, ColYear}, ds.Present([]string{ColCounty, ColCleanupArea, ColDate, ColYear}))
}
