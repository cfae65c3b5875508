package file

import (
	"path/filepath"
	"regexp"
	"strconv"
)

// RegionalYearOffset 民国纪年 + 1911 = 公历年份
const RegionalYearOffset = 1911

// YearKind 文件名中年份的表示方式
type YearKind int

const (
	YearUnknown   YearKind = iota // 文件名中没有可识别的年份
	YearGregorian                 // 4位公历年份，如 Ocean2021.csv
	YearRegional                  // 3位民国年份，如 110.01.csv
)

func (k YearKind) String() string {
	switch k {
	case YearGregorian:
		return "gregorian"
	case YearRegional:
		return "regional"
	default:
		return "unknown"
	}
}

// FileYear 从文件名推断出的年份
type FileYear struct {
	Kind YearKind
	Raw  int // 文件名中匹配到的原始数字
}

// Year 返回公历年份，未知时ok为false
func (y FileYear) Year() (year int, ok bool) {
	switch y.Kind {
	case YearGregorian:
		return y.Raw, true
	case YearRegional:
		return y.Raw + RegionalYearOffset, true
	default:
		return 0, false
	}
}

func (y FileYear) String() string {
	if year, ok := y.Year(); ok {
		return strconv.Itoa(year)
	}
	return y.Kind.String()
}

// 预编译
var (
	gregorianPattern = regexp.MustCompile(`(?:^|\D)(\d{4})(?:\D|$)`)
	regionalPattern  = regexp.MustCompile(`(?:^|\D)(\d{3})\.\d{2}(?:\D|$)`)
)

// ParseFileYear 按文件名推断年份，先匹配4位公历，再匹配3位民国年
func ParseFileYear(name string) FileYear {
	base := filepath.Base(name)

	if m := gregorianPattern.FindStringSubmatch(base); m != nil {
		n, _ := strconv.Atoi(m[1])
		return FileYear{Kind: YearGregorian, Raw: n}
	}
	if m := regionalPattern.FindStringSubmatch(base); m != nil {
		n, _ := strconv.Atoi(m[1])
		return FileYear{Kind: YearRegional, Raw: n}
	}
	return FileYear{Kind: YearUnknown}
}
