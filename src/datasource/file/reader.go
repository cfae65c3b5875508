// reader.go
package file

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrHeaderNotFound 文件中没有包含表头标记的行
var ErrHeaderNotFound = errors.New("未找到表头行")

// Logger 加载过程使用的日志接口
type Logger interface {
	Info(msg string)
	Error(msg string)
}

// Table 单个源文件解析后的结果，所有列均为字符串
type Table struct {
	Name  string // 文件名(不含目录)
	Path  string
	Year  FileYear
	Frame dataframe.DataFrame
}

// LoadTables 依次加载文件，失败的文件记录日志后跳过
func LoadTables(dir string, files []string, marker, sheetName string, logger Logger) []*Table {
	tables := make([]*Table, 0, len(files))
	for _, name := range files {
		t, err := ReadTable(filepath.Join(dir, name), marker, sheetName)
		if err != nil {
			logger.Error(fmt.Sprintf("加载文件 %s 失败: %v", name, err))
			continue
		}
		logger.Info(fmt.Sprintf("已加载 %s: %d 行, 年份 %s", name, t.Frame.Nrow(), t.Year))
		tables = append(tables, t)
	}
	return tables
}

// ReadTable 读取csv或xlsx文件，定位表头行并转换为DataFrame
func ReadTable(path, marker, sheetName string) (*Table, error) {
	name := filepath.Base(path)

	var (
		records [][]string
		err     error
	)
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		records, err = readXLSXRecords(path, sheetName, marker)
	} else {
		records, err = readCSVRecords(path, marker)
	}
	if err != nil {
		return nil, err
	}

	df, err := buildFrame(records)
	if err != nil {
		return nil, err
	}

	return &Table{
		Name:  name,
		Path:  path,
		Year:  ParseFileYear(name),
		Frame: df,
	}, nil
}

// DecodeText 去掉UTF-8 BOM；不是合法UTF-8时按Big5解码
func DecodeText(data []byte) (string, error) {
	var dec transform.Transformer
	if utf8.Valid(data) {
		dec = unicode.UTF8BOM.NewDecoder()
	} else {
		dec = traditionalchinese.Big5.NewDecoder()
	}
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("文本解码失败: %w", err)
	}
	return string(out), nil
}

// FindHeaderRow 返回第一个包含marker的行号，没有则返回-1
func FindHeaderRow(lines []string, marker string) int {
	for i, line := range lines {
		if strings.Contains(line, marker) {
			return i
		}
	}
	return -1
}

func readCSVRecords(path, marker string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := DecodeText(data)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(text, "\n")
	idx := FindHeaderRow(lines, marker)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrHeaderNotFound, marker)
	}

	r := csv.NewReader(strings.NewReader(strings.Join(lines[idx:], "\n")))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析csv失败: %w", err)
	}
	return records, nil
}

func readXLSXRecords(path, sheetName, marker string) ([][]string, error) {
	xlFile, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx open file false: %w", err)
	}
	if len(xlFile.Sheets) == 0 {
		return nil, fmt.Errorf("excel文件中没有工作表")
	}

	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return nil, fmt.Errorf("工作表 %s 不存在", sheetName)
		}
		sheet = s
	}

	var records [][]string
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		rec := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			rec = append(rec, cell.Value)
		}
		records = append(records, rec)
	}

	// xlsx没有“行文本”，用单元格拼接后的内容查找表头
	lines := make([]string, len(records))
	for i, rec := range records {
		lines[i] = strings.Join(rec, ",")
	}
	idx := FindHeaderRow(lines, marker)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrHeaderNotFound, marker)
	}
	return records[idx:], nil
}

// buildFrame 第一条记录为表头，其余为数据行
func buildFrame(records [][]string) (dataframe.DataFrame, error) {
	if len(records) == 0 {
		return dataframe.DataFrame{}, ErrHeaderNotFound
	}
	headers := uniqueHeaders(records[0])

	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(records)-1)
	}

	for _, row := range records[1:] {
		if isBlankRecord(row) {
			continue
		}
		// 短行补空，长行截断
		for i := range headers {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			columns[i] = append(columns[i], v)
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, colName := range headers {
		seriesList[i] = series.New(columns[i], series.String, colName)
	}

	df := dataframe.New(seriesList...)
	if df.Err != nil {
		return df, fmt.Errorf("转换为dataframe失败: %w", df.Err)
	}
	return df, nil
}

// uniqueHeaders 空列名命名为 Unnamed: i，重复列名追加 .1 .2
func uniqueHeaders(raw []string) []string {
	seen := make(map[string]int, len(raw))
	out := make([]string, len(raw))
	for i, h := range raw {
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		if n, ok := seen[h]; ok {
			name = h + "." + strconv.Itoa(n)
			seen[h] = n + 1
		} else {
			seen[h] = 1
		}
		out[i] = name
	}
	return out
}

func isBlankRecord(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
