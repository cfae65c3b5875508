package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	DataDir    string   `json:"data_dir"`    // 源数据表所在目录
	Files      []string `json:"files"`       // 需要加载的数据文件列表
	SheetName  string   `json:"sheet_name"`  // xlsx源文件的工作表名，为空时取第一个
	OutputDir  string   `json:"output_dir"`  // 图表输出目录
	ExportFile string   `json:"export_file"` // 合并数据导出的xlsx文件名，为空则不导出
	LogName    string   `json:"log_name"`
	LogMaxSize string   `json:"log_max_size"`
	FontPath   string   `json:"font_path"` // 中文字体(ttf)路径，县市名称绘图用

	Report struct {
		RecentYear int `json:"recent_year"` // 占比饼图统计的起始年份
		TopN       int `json:"top_n"`       // 县市排名取前N名
	} `json:"report"`

	Watch struct {
		Debounce Duration `json:"debounce"` // 文件变化后等待多久再重新生成报表
	} `json:"watch"`
}

// DataConfig 数据表相关配置：表头标记、列名翻译
type DataConfig struct {
	HeaderMarker       string            `json:"header_marker"`
	ColumnTranslations map[string]string `json:"column_translations"`
	LabelColumns       []string          `json:"label_columns"`
	ExcludeCounties    []string          `json:"exclude_counties"`
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	mu                 sync.RWMutex
)

// 列名翻译表，源表中的中文列名 -> 统一的英文列名
var defaultColumnTranslations = map[string]string{
	"縣市別":                "County",
	"清理範圍(處)":            "CleanupArea",
	"清理次數(次)":            "CleanupFrequency",
	"參與人數(人次)":           "Participants",
	"海洋廢棄物來源(噸)_海漂":      "MarineWaste_Floating",
	"海洋廢棄物來源(噸)_海底":      "MarineWaste_Seabed",
	"海洋廢棄物來源(噸)_淨灘":      "MarineWaste_BeachCleanup",
	"海洋廢棄物來源(噸)_船舶人員產出":  "MarineWaste_ShipGenerated",
	"海洋廢棄物來源(噸)_岸上定點設置垃圾桶": "MarineWaste_BinsOnshore",
	"清理數量分類(噸)_寶特瓶":      "Cleanup_PETBottles",
	"清理數量分類(噸)_鐵罐":       "Cleanup_IronCans",
	"清理數量分類(噸)_鋁罐":       "Cleanup_AluminumCans",
	"清理數量分類(噸)_玻璃瓶":      "Cleanup_GlassBottles",
	"清理數量分類(噸)_廢紙":       "Cleanup_WastePaper",
	"清理數量分類(噸)_竹木":       "Cleanup_BambooWood",
	"清理數量分類(噸)_保麗龍":      "Cleanup_Styrofoam",
	"清理數量分類(噸)_廢漁具漁網":    "Cleanup_FishingGear",
	"清理數量分類(噸)_無法分類廢棄物":  "Cleanup_UncategorizedWaste",
	"日期":                 "Date",
	"Year":               "Year",
}

// DefaultHeaderMarker 表头行中必定出现的县市列名
const DefaultHeaderMarker = "縣市別"

// DefaultColumnTranslations 返回内置翻译表的副本
func DefaultColumnTranslations() map[string]string {
	m := make(map[string]string, len(defaultColumnTranslations))
	for k, v := range defaultColumnTranslations {
		m[k] = v
	}
	return m
}

// DefaultConfig 没有配置文件时使用的默认值
func DefaultConfig() *Config {
	cfg := &Config{
		DataDir: ".",
		Files: []string{
			"Ocean2021.csv",
			"Ocean2023.csv",
			"Ocean2022.csv",
			"Ocean2024.csv",
			"Ocean2020.csv",
			"109.01.csv",
			"111.01.csv",
			"112.01.csv",
			"113.01.csv",
			"110.01.csv",
		},
		OutputDir:  "output",
		LogName:    "app.log",
		LogMaxSize: "10 * 1024 * 1024",
	}
	cfg.Report.RecentYear = 2020
	cfg.Report.TopN = 5
	cfg.Watch.Debounce = Duration(2 * time.Second)
	return cfg
}

// DefaultDataConfig 默认的数据配置
func DefaultDataConfig() *DataConfig {
	return &DataConfig{
		HeaderMarker:       DefaultHeaderMarker,
		ColumnTranslations: DefaultColumnTranslations(),
		LabelColumns:       []string{"County", "Date"},
	}
}

// LoadConfig 只加载一次配置，之后返回同一实例
func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	dataConfigData, err := readFile(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取数据配置文件失败: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	return waitForResults(cfgChan, dcfgChan, errChan)
}

// readFile 文件不存在时返回nil，由调用方使用默认值
func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	cfg := DefaultConfig()
	if data != nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			errChan <- fmt.Errorf("解析Config失败: %w", err)
			return
		}
	}
	cfg.applyDefaults()
	resultChan <- cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	var raw DataConfig
	if data != nil {
		if err := json.Unmarshal(data, &raw); err != nil {
			errChan <- fmt.Errorf("解析DataConfig失败: %w", err)
			return
		}
	}

	dcfg := DefaultDataConfig()
	if raw.HeaderMarker != "" {
		dcfg.HeaderMarker = raw.HeaderMarker
	}
	// 文件中的翻译覆盖内置翻译，不删除内置项
	for k, v := range raw.ColumnTranslations {
		dcfg.ColumnTranslations[k] = v
	}
	if len(raw.LabelColumns) > 0 {
		dcfg.LabelColumns = raw.LabelColumns
	}
	dcfg.ExcludeCounties = raw.ExcludeCounties
	resultChan <- dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "配置加载遇到多个错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "."
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.Report.TopN <= 0 {
		c.Report.TopN = 5
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = Duration(2 * time.Second)
	}
}

// Duration 是time.Duration的自定义包装类型
// 用于支持JSON序列化和反序列化
type Duration time.Duration

// UnmarshalJSON 实现json.Unmarshaler接口
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON 实现json.Marshaler接口
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Translate 返回列名对应的统一名称，未登记的列名原样返回
func (dc *DataConfig) Translate(colName string) string {
	mu.RLock()
	defer mu.RUnlock()
	if v, ok := dc.ColumnTranslations[colName]; ok {
		return v
	}
	return colName
}

// IsLabelColumn 标签列保留文本，不做数值转换
func (dc *DataConfig) IsLabelColumn(colName string) bool {
	mu.RLock()
	defer mu.RUnlock()
	for _, c := range dc.LabelColumns {
		if c == colName {
			return true
		}
	}
	return false
}

// IsExcludedCounty 是否为需要剔除的汇总行(如 總計)
func (dc *DataConfig) IsExcludedCounty(county string) bool {
	mu.RLock()
	defer mu.RUnlock()
	for _, c := range dc.ExcludeCounties {
		if c == county {
			return true
		}
	}
	return false
}
