package processor

import (
	"errors"
	"fmt"
	"math"

	"OceanCleanup/src/config"
	"OceanCleanup/src/datasource/file"
	"OceanCleanup/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrNoTables 没有任何可用的数据表
var ErrNoTables = errors.New("没有可用的数据表")

// Logger 处理过程使用的日志接口
type Logger interface {
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

// BuildDataset 标准化每个源表并合并，单个表标准化失败时跳过
func BuildDataset(tables []*file.Table, dcfg *config.DataConfig, logger Logger) (*Dataset, error) {
	n := NewNormalizer(dcfg)
	frames := make([]dataframe.DataFrame, 0, len(tables))
	for _, t := range tables {
		df, err := n.Normalize(t)
		if err != nil {
			logger.Error(fmt.Sprintf("处理文件 %s 失败: %v", t.Name, err))
			continue
		}
		frames = append(frames, df)
	}

	ds, err := Combine(frames)
	if err != nil {
		return nil, err
	}
	logger.Info(fmt.Sprintf("合并完成: %d 个表, %d 行, %d 列", len(frames), ds.Len(), len(ds.Names())))
	return ds, nil
}

// Combine 按列名对齐后纵向拼接，缺失列补NaN(文本列补空串)，
// 最后去掉年份缺失的行
func Combine(frames []dataframe.DataFrame) (*Dataset, error) {
	if len(frames) == 0 {
		return nil, ErrNoTables
	}

	// 列名并集，按首次出现的顺序
	var names []string
	types := make(map[string]series.Type)
	for _, df := range frames {
		for _, name := range df.Names() {
			if _, ok := types[name]; !ok {
				types[name] = df.Col(name).Type()
				names = append(names, name)
			}
		}
	}

	var combined dataframe.DataFrame
	for i, df := range frames {
		aligned := alignColumns(df, names, types)
		if aligned.Err != nil {
			return nil, fmt.Errorf("对齐列失败: %w", aligned.Err)
		}
		if i == 0 {
			combined = aligned
			continue
		}
		combined = combined.RBind(aligned)
		if combined.Err != nil {
			return nil, fmt.Errorf("合并数据失败: %w", combined.Err)
		}
	}

	combined, err := dropMissingYear(combined)
	if err != nil {
		return nil, err
	}
	return NewDataset(combined), nil
}

func alignColumns(df dataframe.DataFrame, names []string, types map[string]series.Type) dataframe.DataFrame {
	rows := df.Nrow()
	have := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		have[n] = true
	}

	cols := make([]series.Series, len(names))
	for i, name := range names {
		if have[name] {
			s := df.Col(name)
			if s.Type() != types[name] {
				// 同名列类型不一致时统一为首次出现的类型
				if types[name] == series.String {
					s = series.New(s.Records(), series.String, name)
				} else {
					s = CoerceNumeric(series.New(s.Records(), series.String, name))
				}
			}
			cols[i] = s
			continue
		}
		cols[i] = missingSeries(name, types[name], rows)
	}
	return dataframe.New(cols...)
}

func missingSeries(name string, t series.Type, rows int) series.Series {
	if t == series.String {
		return series.New(make([]string, rows), series.String, name)
	}
	values := make([]float64, rows)
	for i := range values {
		values[i] = math.NaN()
	}
	return series.New(values, series.Float, name)
}

// dropMissingYear 年份为空的行不保留；没有年份列时全部丢弃
func dropMissingYear(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	keep := make([]int, 0, df.Nrow())
	if utils.HasColumn(df, ColYear) {
		for i, y := range df.Col(ColYear).Float() {
			if !math.IsNaN(y) {
				keep = append(keep, i)
			}
		}
	}
	return subsetRows(df, keep)
}

// subsetRows 保留指定行。gota对空下标的Subset会报错，这里单独处理
func subsetRows(df dataframe.DataFrame, keep []int) (dataframe.DataFrame, error) {
	if len(keep) == df.Nrow() {
		return df, nil
	}
	if len(keep) == 0 {
		cols := make([]series.Series, 0, df.Ncol())
		for _, name := range df.Names() {
			cols = append(cols, missingSeries(name, df.Col(name).Type(), 0))
		}
		out := dataframe.New(cols...)
		return out, out.Err
	}
	out := df.Subset(keep)
	if out.Err != nil {
		return out, fmt.Errorf("筛选行失败: %w", out.Err)
	}
	return out, nil
}
