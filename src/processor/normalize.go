package processor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"OceanCleanup/src/config"
	"OceanCleanup/src/datasource/file"
	"OceanCleanup/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Normalizer 列名翻译、数值转换、补齐县市和年份
type Normalizer struct {
	dcfg *config.DataConfig
}

func NewNormalizer(dcfg *config.DataConfig) *Normalizer {
	return &Normalizer{dcfg: dcfg}
}

// StripColumnName 去掉列名中所有空白(含换行、全角空格)
func StripColumnName(name string) string {
	name = strings.ReplaceAll(name, "\ufeff", "")
	return strings.Join(strings.Fields(name), "")
}

// ParseNumber 去掉千分位逗号和首尾空白后解析数字，失败返回(NaN, false)
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return math.NaN(), false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return math.NaN(), false
	}
	return v, true
}

// CoerceNumeric 文本列转为数值列，无法解析的值为NaN；已是数值列的原样返回
func CoerceNumeric(s series.Series) series.Series {
	if s.Type() != series.String {
		return s
	}
	records := s.Records()
	values := make([]float64, len(records))
	for i, r := range records {
		values[i], _ = ParseNumber(r)
	}
	return series.New(values, series.Float, s.Name)
}

// Normalize 处理单个源表
func (n *Normalizer) Normalize(t *file.Table) (dataframe.DataFrame, error) {
	df := t.Frame
	if df.Err != nil {
		return df, df.Err
	}
	rows := df.Nrow()

	// 1. 列名去空白并翻译
	used := make(map[string]int)
	cols := make([]series.Series, 0, df.Ncol()+2)
	for _, old := range df.Names() {
		name := n.dcfg.Translate(StripColumnName(old))
		if k, dup := used[name]; dup {
			used[name] = k + 1
			name = fmt.Sprintf("%s.%d", name, k)
		} else {
			used[name] = 1
		}

		s := df.Col(old)
		s.Name = name

		// 2. 标签列只去首尾空白，其余文本列转为数值
		if n.dcfg.IsLabelColumn(name) {
			records := s.Records()
			for i := range records {
				records[i] = strings.TrimSpace(records[i])
			}
			s = series.New(records, series.String, name)
		} else {
			s = CoerceNumeric(s)
		}
		cols = append(cols, s)
	}

	names := make([]string, len(cols))
	for i, s := range cols {
		names[i] = s.Name
	}

	// 3. 没有县市列时填Unknown
	if !utils.Contains(names, ColCounty) {
		unknown := make([]string, rows)
		for i := range unknown {
			unknown[i] = UnknownCounty
		}
		cols = append(cols, series.New(unknown, series.String, ColCounty))
	}

	// 4. 文件名能推断出年份时写入年份列
	if year, ok := t.Year.Year(); ok {
		years := make([]float64, rows)
		for i := range years {
			years[i] = float64(year)
		}
		ys := series.New(years, series.Float, ColYear)
		replaced := false
		for i := range cols {
			if cols[i].Name == ColYear {
				cols[i] = ys
				replaced = true
			}
		}
		if !replaced {
			cols = append(cols, ys)
		}
	}

	out := dataframe.New(cols...)
	if out.Err != nil {
		return out, fmt.Errorf("标准化 %s 失败: %w", t.Name, out.Err)
	}

	return n.excludeCounties(out)
}

// excludeCounties 去掉配置中的汇总行
func (n *Normalizer) excludeCounties(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if len(n.dcfg.ExcludeCounties) == 0 || !utils.HasColumn(df, ColCounty) {
		return df, nil
	}
	counties := df.Col(ColCounty).Records()
	keep := make([]int, 0, len(counties))
	for i, c := range counties {
		if !n.dcfg.IsExcludedCounty(c) {
			keep = append(keep, i)
		}
	}
	return subsetRows(df, keep)
}
