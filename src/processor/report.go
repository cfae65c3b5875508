package processor

import (
	"errors"
	"fmt"
	"strings"

	"OceanCleanup/src/chart"

	"gonum.org/v1/plot"
)

// ErrNoData 列存在但没有可汇总/绘制的数据
var ErrNoData = errors.New("no data")

// Requirement 必需列的判定方式
type Requirement int

const (
	RequireAll Requirement = iota // 所有列都必须存在
	RequireAny                    // 至少一列存在，只使用存在的列
)

// Step 一个独立的报表步骤：检查列 -> 汇总 -> 绘图
type Step struct {
	Name     string
	Title    string
	Required []string
	Mode     Requirement
	Kind     chart.Kind
	Size     chart.Size

	// Build 使用present(数据集中存在的必需列)汇总并生成图表
	Build func(r *Reporter, ds *Dataset, present []string) (*plot.Plot, error)
}

// Options 报表参数
type Options struct {
	RecentYear int // 占比饼图只统计该年及之后
	TopN       int
}

// Summary 一次报表运行的结果
type Summary struct {
	Rendered []string
	Skipped  []string
	Failed   []string
}

// Reporter 顺序执行所有步骤，步骤之间互不影响
type Reporter struct {
	opts   Options
	writer chart.Writer
	logger Logger
	steps  []Step
}

func NewReporter(opts Options, writer chart.Writer, logger Logger) *Reporter {
	if opts.TopN <= 0 {
		opts.TopN = 5
	}
	return &Reporter{
		opts:   opts,
		writer: writer,
		logger: logger,
		steps:  DefaultSteps(),
	}
}

// Check 判断步骤的必需列，返回存在的列
func (s Step) Check(ds *Dataset) (present []string, ok bool) {
	present = ds.Present(s.Required)
	switch s.Mode {
	case RequireAny:
		return present, len(present) > 0
	default:
		return present, len(present) == len(s.Required)
	}
}

// Run 执行所有步骤，单个步骤失败不影响后续步骤
func (r *Reporter) Run(ds *Dataset) Summary {
	var sum Summary
	for i, step := range r.steps {
		present, ok := step.Check(ds)
		if !ok {
			r.logger.Warning(fmt.Sprintf("跳过 %s: 数据集中缺少列 %s", step.Title, missingColumns(ds, step.Required)))
			sum.Skipped = append(sum.Skipped, step.Name)
			continue
		}

		p, err := r.build(step, ds, present)
		if errors.Is(err, ErrNoData) || errors.Is(err, chart.ErrEmpty) {
			r.logger.Warning(fmt.Sprintf("跳过 %s: 没有可用数据", step.Title))
			sum.Skipped = append(sum.Skipped, step.Name)
			continue
		}
		if err != nil {
			r.logger.Error(fmt.Sprintf("%s 生成失败: %v", step.Title, err))
			sum.Failed = append(sum.Failed, step.Name)
			continue
		}

		name := fmt.Sprintf("%02d_%s", i+1, step.Name)
		if err := r.writer.Write(name, p, step.Size); err != nil {
			r.logger.Error(fmt.Sprintf("%s 保存失败: %v", step.Title, err))
			sum.Failed = append(sum.Failed, step.Name)
			continue
		}
		r.logger.Info(fmt.Sprintf("已生成 %s (%s)", name, step.Kind))
		sum.Rendered = append(sum.Rendered, step.Name)
	}
	return sum
}

// build 步骤内部panic时转为错误，不影响后续步骤
func (r *Reporter) build(step Step, ds *Dataset, present []string) (p *plot.Plot, err error) {
	defer func() {
		if v := recover(); v != nil {
			p, err = nil, fmt.Errorf("panic: %v", v)
		}
	}()
	return step.Build(r, ds, present)
}

func missingColumns(ds *Dataset, cols []string) string {
	var missing []string
	for _, c := range cols {
		switch {
		case !ds.Has(c):
			missing = append(missing, c)
		case !ds.Usable(c):
			missing = append(missing, c+"(类型不符)")
		}
	}
	return strings.Join(missing, ", ")
}
