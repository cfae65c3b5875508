package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"OceanCleanup/src/chart"
	"OceanCleanup/src/config"
	"OceanCleanup/src/datasource/file"
	"OceanCleanup/src/processor"
	"OceanCleanup/src/storage"
	"OceanCleanup/src/utils"
)

const (
	jsonFile     = "config.json"
	dataJsonFile = "dataconfig.json"
)

// app 一次运行所需的配置、日志和报表器
type app struct {
	cfg      *config.Config
	dcfg     *config.DataConfig
	logger   *storage.Logger
	reporter *processor.Reporter
}

func newApp(jsonFolder string) (*app, error) {
	cfg, dcfg, err := config.LoadConfig(jsonFolder, jsonFile, dataJsonFile)
	if err != nil {
		return nil, err
	}
	return newAppWithConfig(cfg, dcfg, os.Stdout)
}

func newAppWithConfig(cfg *config.Config, dcfg *config.DataConfig, console io.Writer) (*app, error) {
	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName, console)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	if cfg.FontPath != "" {
		if err := chart.UseFont(cfg.FontPath); err != nil {
			// 没有中文字体时县市名称显示不正常，但不影响生成
			logger.Warning(err.Error())
		}
	}

	reporter := processor.NewReporter(processor.Options{
		RecentYear: cfg.Report.RecentYear,
		TopN:       cfg.Report.TopN,
	}, chart.NewFileWriter(cfg.OutputDir), logger)

	return &app{cfg: cfg, dcfg: dcfg, logger: logger, reporter: reporter}, nil
}

func (a *app) Close() error {
	return a.logger.Close()
}

// Report 加载 -> 标准化合并 -> 导出 -> 逐个生成图表
func (a *app) Report() (processor.Summary, error) {
	t1 := time.Now()
	defer func() {
		if err := a.logger.CheckRotate(a.cfg.LogMaxSize); err != nil {
			a.logger.Error("日志轮转失败: " + err.Error())
		}
	}()

	tables := file.LoadTables(a.cfg.DataDir, a.cfg.Files, a.dcfg.HeaderMarker, a.cfg.SheetName, a.logger)
	ds, err := processor.BuildDataset(tables, a.dcfg, a.logger)
	if err != nil {
		a.logger.Error(err.Error())
		return processor.Summary{}, err
	}

	if err := utils.EnsureDir(a.cfg.OutputDir); err != nil {
		return processor.Summary{}, fmt.Errorf("创建输出目录失败: %w", err)
	}

	if a.cfg.ExportFile != "" {
		path := filepath.Join(a.cfg.OutputDir, a.cfg.ExportFile)
		if err := storage.SaveToExcel(ds, path); err != nil {
			a.logger.Error(err.Error())
		} else {
			a.logger.Info("合并后的数据已保存到: " + path)
		}
	}

	sum := a.reporter.Run(ds)
	a.logger.Info(fmt.Sprintf("报表完成: 生成 %d, 跳过 %d, 失败 %d, 用时 %v",
		len(sum.Rendered), len(sum.Skipped), len(sum.Failed), time.Since(t1)))
	return sum, nil
}

// Watch 先生成一次报表，之后数据目录中的源文件变化时重新生成
func (a *app) Watch(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	file.SetupSignalHandler(cancel)

	if _, err := a.Report(); err != nil {
		a.logger.Warning("首次生成报表失败，等待数据更新: " + err.Error())
	}

	monitor, err := file.NewFileMonitor(a.cfg.DataDir, time.Duration(a.cfg.Watch.Debounce))
	if err != nil {
		return fmt.Errorf("监控目录 %s 失败: %w", a.cfg.DataDir, err)
	}
	defer monitor.Close()

	a.logger.Info("开始监控目录: " + a.cfg.DataDir)
	return monitor.Watch(ctx, func(changed []string) {
		a.logger.Info("检测到文件更新: " + strings.Join(changed, ", "))
		if _, err := a.Report(); err != nil {
			a.logger.Error("重新生成报表失败: " + err.Error())
		}
	})
}
