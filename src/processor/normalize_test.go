package processor

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"OceanCleanup/src/config"
	"OceanCleanup/src/datasource/file"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stringFrame 与读取结果一致，所有列为字符串
func stringFrame(t *testing.T, names []string, cols ...[]string) dataframe.DataFrame {
	t.Helper()
	ss := make([]series.Series, len(names))
	for i, n := range names {
		ss[i] = series.New(cols[i], series.String, n)
	}
	df := dataframe.New(ss...)
	require.NoError(t, df.Err)
	return df
}

// loadTable 把csv文本写入临时目录后按真实流程读取
func loadTable(t *testing.T, name, content string) *file.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	tbl, err := file.ReadTable(path, config.DefaultHeaderMarker, "")
	require.NoError(t, err)
	return tbl
}

func TestNormalizeRegionalFile(t *testing.T) {
	tbl := loadTable(t, "110.01.csv", "縣市別,清理範圍(處),清理次數(次),參與人數(人次)\n台北市,5,10,100\n")

	df, err := NewNormalizer(config.DefaultDataConfig()).Normalize(tbl)
	require.NoError(t, err)

	assert.Equal(t, []string{ColCounty, ColCleanupArea, ColCleanupFrequency, ColParticipants, ColYear}, df.Names())
	require.Equal(t, 1, df.Nrow())
	assert.Equal(t, "台北市", df.Col(ColCounty).Records()[0])
	assert.Equal(t, 5.0, df.Col(ColCleanupArea).Float()[0])
	assert.Equal(t, 10.0, df.Col(ColCleanupFrequency).Float()[0])
	assert.Equal(t, 100.0, df.Col(ColParticipants).Float()[0])
	assert.Equal(t, 2021.0, df.Col(ColYear).Float()[0])
}

func TestNormalizeStripsColumnNames(t *testing.T) {
	tbl := loadTable(t, "Ocean2022.csv",
		"\ufeff 縣市別 ,\"清理數量分類(噸)_\n寶特瓶\",備註\n 新竹縣 ,\"1,234.5\",-\n")

	df, err := NewNormalizer(config.DefaultDataConfig()).Normalize(tbl)
	require.NoError(t, err)

	// 未翻译的列名只去空白，保留原名
	assert.Equal(t, []string{ColCounty, "Cleanup_PETBottles", "備註", ColYear}, df.Names())
	assert.Equal(t, "新竹縣", df.Col(ColCounty).Records()[0])
	assert.Equal(t, 1234.5, df.Col("Cleanup_PETBottles").Float()[0])
	assert.True(t, math.IsNaN(df.Col("備註").Float()[0]))
	assert.Equal(t, 2022.0, df.Col(ColYear).Float()[0])
}

func TestNormalizeMissingCountyAndYear(t *testing.T) {
	tbl := &file.Table{
		Name:  "summary.csv",
		Frame: stringFrame(t, []string{"清理次數(次)"}, []string{"3", "x"}),
	}
	df, err := NewNormalizer(config.DefaultDataConfig()).Normalize(tbl)
	require.NoError(t, err)

	assert.Equal(t, []string{ColCleanupFrequency, ColCounty}, df.Names())
	assert.Equal(t, []string{UnknownCounty, UnknownCounty}, df.Col(ColCounty).Records())
	freq := df.Col(ColCleanupFrequency).Float()
	assert.Equal(t, 3.0, freq[0])
	assert.True(t, math.IsNaN(freq[1]))
}

func TestNormalizeDuplicateColumns(t *testing.T) {
	tbl := loadTable(t, "Ocean2021.csv", "縣市別,清理次數(次),清理次數 (次)\n台東縣,1,2\n")

	df, err := NewNormalizer(config.DefaultDataConfig()).Normalize(tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{ColCounty, ColCleanupFrequency, ColCleanupFrequency + ".1", ColYear}, df.Names())
}

func TestNormalizeExcludeCounties(t *testing.T) {
	dcfg := config.DefaultDataConfig()
	dcfg.ExcludeCounties = []string{"總計"}
	tbl := loadTable(t, "Ocean2023.csv", "縣市別,清理範圍(處)\n總計,9\n宜蘭縣,4\n")

	df, err := NewNormalizer(dcfg).Normalize(tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"宜蘭縣"}, df.Col(ColCounty).Records())
}

func TestCoerceNumericIdempotent(t *testing.T) {
	s := series.New([]string{"1,000", " 2 ", "", "n/a"}, series.String, "x")
	once := CoerceNumeric(s)
	twice := CoerceNumeric(once)

	assert.Equal(t, series.Float, twice.Type())
	a, b := once.Float(), twice.Float()
	assert.Equal(t, 1000.0, b[0])
	assert.Equal(t, 2.0, b[1])
	for i := range a {
		if math.IsNaN(a[i]) {
			assert.True(t, math.IsNaN(b[i]))
			continue
		}
		assert.Equal(t, a[i], b[i])
	}
}

func TestParseNumber(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12", 12, true},
		{"1,234.5", 1234.5, true},
		{" -3 ", -3, true},
		{"", 0, false},
		{"-", 0, false},
		{"NaN", 0, false},
	} {
		v, ok := ParseNumber(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if ok {
			assert.Equal(t, tc.want, v, tc.in)
		} else {
			assert.True(t, math.IsNaN(v), tc.in)
		}
	}
}

func TestStripColumnName(t *testing.T) {
	assert.Equal(t, "參與人數(人次)", StripColumnName("\ufeff參與 人數\n(人次)　"))
}
