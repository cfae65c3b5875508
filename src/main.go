package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:           "ocean-report",
	Short:         "海洋废弃物清理统计报表",
	Long:          `读取各年度海洋废弃物清理统计表(csv/xlsx)，统一列名后合并，生成年度趋势、县市排名、占比等图表。`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "加载数据并生成一次报表",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(configDir)
		if err != nil {
			return err
		}
		defer app.Close()

		_, err = app.Report()
		return err
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "监控数据目录，源文件更新后重新生成报表",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(configDir)
		if err != nil {
			return err
		}
		defer app.Close()

		return app.Watch(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "./config", "配置文件目录(config.json, dataconfig.json)")
	rootCmd.AddCommand(runCmd, watchCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}
