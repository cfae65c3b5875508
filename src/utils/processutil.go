package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// 辅助函数：判断DataFrame是否有某列
func HasColumn(df dataframe.DataFrame, name string) bool {
	return Contains(df.Names(), name)
}

// 日期列可能出现的格式，含民国年
var dateFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"01-02-2006",
	"01/02/2006",
}

// ParseDate 尝试多种格式解析日期。
// 3位年份(如 110/03/15)按民国年处理，offset为纪年差
func ParseDate(s string, offset int) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("空日期")
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	// 民国年: 110/03/15, 110-03-15, 110.03.15
	var y, m, d int
	for _, sep := range []string{"/", "-", "."} {
		if n, err := fmt.Sscanf(s, "%d"+sep+"%d"+sep+"%d", &y, &m, &d); err == nil && n == 3 && y > 0 && y < 1000 {
			return time.Date(y+offset, time.Month(m), d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析日期: %s", s)
}

// EnsureDir 确保目录存在
func EnsureDir(dirPath string) error {
	if info, err := os.Stat(dirPath); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", dirPath)
	}
	return os.MkdirAll(dirPath, 0755)
}
