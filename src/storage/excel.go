package storage

import (
	"fmt"
	"math"

	"OceanCleanup/src/processor"

	"github.com/xuri/excelize/v2"
)

// ExportSheet 导出文件的工作表名
const ExportSheet = "Sheet1"

// SaveToExcel 合并后的数据集保存为xlsx，缺失值留空
func SaveToExcel(ds *processor.Dataset, filePath string) error {
	f := excelize.NewFile()
	defer f.Close()

	// 写入列名
	names := ds.Names()
	for i, name := range names {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ExportSheet, cell, name); err != nil {
			return fmt.Errorf("写入列名失败: %w", err)
		}
	}

	// 写入数据
	for colIdx, name := range names {
		if values, ok := ds.Column(name); ok {
			for rowIdx, v := range values {
				if math.IsNaN(v) {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
				if err := f.SetCellValue(ExportSheet, cell, v); err != nil {
					return fmt.Errorf("写入 %s 失败: %w", cell, err)
				}
			}
			continue
		}
		labels, _ := ds.Labels(name)
		for rowIdx, v := range labels {
			if v == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(ExportSheet, cell, v); err != nil {
				return fmt.Errorf("写入 %s 失败: %w", cell, err)
			}
		}
	}

	// 保存文件
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}
