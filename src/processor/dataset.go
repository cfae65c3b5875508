package processor

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// 统一列名
const (
	ColCounty = "County"
	ColYear   = "Year"
	ColDate   = "Date"

	ColCleanupArea      = "CleanupArea"
	ColCleanupFrequency = "CleanupFrequency"
	ColParticipants     = "Participants"
)

// labelColumns 步骤中按文本使用的列，其余必需列都按数值使用
var labelColumns = map[string]bool{ColCounty: true, ColDate: true}

// UnknownCounty 源表没有县市列时填充的值
const UnknownCounty = "Unknown"

// WasteSourceColumns 海洋废弃物来源(吨)
var WasteSourceColumns = []string{
	"MarineWaste_Floating",
	"MarineWaste_Seabed",
	"MarineWaste_BeachCleanup",
	"MarineWaste_ShipGenerated",
	"MarineWaste_BinsOnshore",
}

// CleanupCategoryColumns 清理数量分类(吨)
var CleanupCategoryColumns = []string{
	"Cleanup_PETBottles",
	"Cleanup_IronCans",
	"Cleanup_AluminumCans",
	"Cleanup_GlassBottles",
	"Cleanup_WastePaper",
	"Cleanup_BambooWood",
	"Cleanup_Styrofoam",
	"Cleanup_FishingGear",
	"Cleanup_UncategorizedWaste",
}

// Dataset 合并后的数据集，构建后只读。
// 数值列为[]float64，缺失值为NaN；标签列(县市、日期)为[]string
type Dataset struct {
	names   []string
	numeric map[string][]float64
	labels  map[string][]string
	rows    int
}

// NewDataset 按列类型拆分DataFrame
func NewDataset(df dataframe.DataFrame) *Dataset {
	ds := &Dataset{
		numeric: make(map[string][]float64),
		labels:  make(map[string][]string),
		rows:    df.Nrow(),
	}
	for _, name := range df.Names() {
		s := df.Col(name)
		ds.names = append(ds.names, name)
		if s.Type() == series.String {
			ds.labels[name] = s.Records()
		} else {
			ds.numeric[name] = s.Float()
		}
	}
	return ds
}

func (d *Dataset) Len() int { return d.rows }

// Names 列名，按首次出现的顺序
func (d *Dataset) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

func (d *Dataset) Has(name string) bool {
	if _, ok := d.numeric[name]; ok {
		return true
	}
	_, ok := d.labels[name]
	return ok
}

// Column 数值列，不存在时ok为false。返回的切片不可修改
func (d *Dataset) Column(name string) (values []float64, ok bool) {
	values, ok = d.numeric[name]
	return
}

// Labels 文本列，不存在时ok为false
func (d *Dataset) Labels(name string) (values []string, ok bool) {
	values, ok = d.labels[name]
	return
}

// NumericNames 所有数值列
func (d *Dataset) NumericNames() []string {
	var out []string
	for _, n := range d.names {
		if _, ok := d.numeric[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Usable 列存在且类型可用：县市、日期需为文本列，其余需为数值列
func (d *Dataset) Usable(name string) bool {
	if labelColumns[name] {
		_, ok := d.labels[name]
		return ok
	}
	_, ok := d.numeric[name]
	return ok
}

// Present 返回cols中可用的列，保持cols的顺序
func (d *Dataset) Present(cols []string) []string {
	var out []string
	for _, c := range cols {
		if d.Usable(c) {
			out = append(out, c)
		}
	}
	return out
}

// Years 去重后的升序年份
func (d *Dataset) Years() []int {
	years, ok := d.Column(ColYear)
	if !ok {
		return nil
	}
	seen := make(map[int]struct{})
	var out []int
	for _, y := range years {
		if math.IsNaN(y) {
			continue
		}
		yi := int(y)
		if _, dup := seen[yi]; !dup {
			seen[yi] = struct{}{}
			out = append(out, yi)
		}
	}
	sort.Ints(out)
	return out
}
