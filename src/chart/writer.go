package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"

	"golang.org/x/image/font/opentype"
)

// Writer 保存渲染好的图表
type Writer interface {
	Write(name string, p *plot.Plot, size Size) error
}

// FileWriter 保存为 Dir/name.png
type FileWriter struct {
	Dir string
}

func NewFileWriter(dir string) *FileWriter {
	return &FileWriter{Dir: dir}
}

func (w *FileWriter) Write(name string, p *plot.Plot, size Size) error {
	path := filepath.Join(w.Dir, name+".png")
	if err := p.Save(size.Width, size.Height, path); err != nil {
		return fmt.Errorf("保存图表 %s 失败: %w", path, err)
	}
	return nil
}

// cjkTypeface 注册到字体缓存中的字体名
const cjkTypeface = "CJK"

// UseFont 加载ttf/otf字体作为默认字体，县市名称等中文需要
func UseFont(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取字体文件失败: %w", err)
	}
	ttf, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("解析字体文件失败: %w", err)
	}

	fnt := font.Font{Typeface: cjkTypeface}
	font.DefaultCache.Add([]font.Face{{Font: fnt, Face: ttf}})
	plot.DefaultFont = fnt
	plotter.DefaultFont = fnt
	return nil
}
