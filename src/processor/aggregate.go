package processor

import (
	"math"
	"sort"

	"OceanCleanup/src/datasource/file"
	"OceanCleanup/src/utils"

	"gonum.org/v1/gonum/stat"
)

// KeyValue 分组键及汇总值
type KeyValue struct {
	Key   string
	Value float64
}

// nanSum 跳过缺失值求和，全部缺失时为0
func nanSum(values []float64) float64 {
	var sum float64
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
		}
	}
	return sum
}

// SumByYear 按年份汇总各列，返回升序年份和与之对齐的汇总值
func SumByYear(ds *Dataset, cols []string) ([]int, map[string][]float64) {
	years := ds.Years()
	idx := make(map[int]int, len(years))
	for i, y := range years {
		idx[y] = i
	}

	yearCol, _ := ds.Column(ColYear)
	out := make(map[string][]float64, len(cols))
	for _, c := range cols {
		values, ok := ds.Column(c)
		if !ok {
			continue
		}
		sums := make([]float64, len(years))
		for row, v := range values {
			if math.IsNaN(v) || math.IsNaN(yearCol[row]) {
				continue
			}
			sums[idx[int(yearCol[row])]] += v
		}
		out[c] = sums
	}
	return years, out
}

// SumByCounty 按县市汇总，县市按首次出现的顺序
func SumByCounty(ds *Dataset, values []float64) []KeyValue {
	counties, ok := ds.Labels(ColCounty)
	if !ok {
		return nil
	}
	idx := make(map[string]int)
	var out []KeyValue
	for row, c := range counties {
		i, seen := idx[c]
		if !seen {
			i = len(out)
			idx[c] = i
			out = append(out, KeyValue{Key: c})
		}
		if v := values[row]; !math.IsNaN(v) {
			out[i].Value += v
		}
	}
	return out
}

// SortByValue 稳定排序，返回新切片
func SortByValue(kvs []KeyValue, descending bool) []KeyValue {
	out := make([]KeyValue, len(kvs))
	copy(out, kvs)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].Value > out[j].Value
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// TopN 按值降序取前n个
func TopN(kvs []KeyValue, n int) []KeyValue {
	sorted := SortByValue(kvs, true)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// TotalsSince 年份>=minYear的行，各列合计
func TotalsSince(ds *Dataset, cols []string, minYear int) []KeyValue {
	yearCol, _ := ds.Column(ColYear)
	out := make([]KeyValue, 0, len(cols))
	for _, c := range cols {
		values, ok := ds.Column(c)
		if !ok {
			continue
		}
		var sum float64
		for row, v := range values {
			if math.IsNaN(v) || yearCol == nil || yearCol[row] < float64(minYear) {
				continue
			}
			sum += v
		}
		out = append(out, KeyValue{Key: c, Value: sum})
	}
	return out
}

// RowSums 每行各列之和，跳过缺失值
func RowSums(ds *Dataset, cols []string) []float64 {
	sums := make([]float64, ds.Len())
	for _, c := range cols {
		values, ok := ds.Column(c)
		if !ok {
			continue
		}
		for row, v := range values {
			if !math.IsNaN(v) {
				sums[row] += v
			}
		}
	}
	return sums
}

// SumByYearAndCounty 指定县市按年份汇总。某年没有该县市数据时为NaN
func SumByYearAndCounty(ds *Dataset, col string, counties []string) ([]int, map[string][]float64) {
	years := ds.Years()
	yearIdx := make(map[int]int, len(years))
	for i, y := range years {
		yearIdx[y] = i
	}

	out := make(map[string][]float64, len(counties))
	for _, c := range counties {
		s := make([]float64, len(years))
		for i := range s {
			s[i] = math.NaN()
		}
		out[c] = s
	}

	values, ok := ds.Column(col)
	labels, lok := ds.Labels(ColCounty)
	yearCol, yok := ds.Column(ColYear)
	if !ok || !lok || !yok {
		return years, out
	}
	for row, county := range labels {
		s, want := out[county]
		if !want || math.IsNaN(yearCol[row]) {
			continue
		}
		i := yearIdx[int(yearCol[row])]
		if math.IsNaN(s[i]) {
			s[i] = 0
		}
		if v := values[row]; !math.IsNaN(v) {
			s[i] += v
		}
	}
	return years, out
}

// SumByMonthAndYear 日期列解析出月份后按 月份×年份 汇总。
// 返回升序月份、升序年份，以及 年份 -> 与月份对齐的汇总值(无数据为NaN)
func SumByMonthAndYear(ds *Dataset, dateCol, valueCol string) ([]int, []int, map[int][]float64) {
	dates, ok := ds.Labels(dateCol)
	values, vok := ds.Column(valueCol)
	yearCol, yok := ds.Column(ColYear)
	if !ok || !vok || !yok {
		return nil, nil, nil
	}

	type key struct{ month, year int }
	sums := make(map[key]float64)
	monthSet := make(map[int]struct{})
	yearSet := make(map[int]struct{})
	for row, d := range dates {
		t, err := utils.ParseDate(d, file.RegionalYearOffset)
		if err != nil || math.IsNaN(yearCol[row]) {
			continue
		}
		k := key{month: int(t.Month()), year: int(yearCol[row])}
		monthSet[k.month] = struct{}{}
		yearSet[k.year] = struct{}{}
		if v := values[row]; !math.IsNaN(v) {
			sums[k] += v
		} else if _, ok := sums[k]; !ok {
			sums[k] = 0
		}
	}

	months := sortedKeys(monthSet)
	years := sortedKeys(yearSet)
	out := make(map[int][]float64, len(years))
	for _, y := range years {
		s := make([]float64, len(months))
		for i, m := range months {
			if v, ok := sums[key{month: m, year: y}]; ok {
				s[i] = v
			} else {
				s[i] = math.NaN()
			}
		}
		out[y] = s
	}
	return months, years, out
}

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// CorrelationMatrix 两两使用同时不缺失的行计算皮尔逊相关系数
func CorrelationMatrix(ds *Dataset, cols []string) [][]float64 {
	m := make([][]float64, len(cols))
	for i := range m {
		m[i] = make([]float64, len(cols))
	}
	for i, a := range cols {
		x, _ := ds.Column(a)
		for j := i; j < len(cols); j++ {
			y, _ := ds.Column(cols[j])
			r := pairwiseCorrelation(x, y)
			m[i][j], m[j][i] = r, r
		}
	}
	return m
}

func pairwiseCorrelation(x, y []float64) float64 {
	var xs, ys []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

// CorrelationColumns 至少有两个有效值的数值列
func CorrelationColumns(ds *Dataset) []string {
	var out []string
	for _, name := range ds.NumericNames() {
		values, _ := ds.Column(name)
		valid := 0
		for _, v := range values {
			if !math.IsNaN(v) {
				valid++
			}
		}
		if valid >= 2 {
			out = append(out, name)
		}
	}
	return out
}
