package commands

import (
	"fmt"
	"os"

	"dualshot/config"
	dbPkg "dualshot/pkg/db"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// 全局参数
	configPath string
	dbDriver   string
	dbDSN      string
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "dualshotctl",
	Short: "dualshot 运维工具",
	Long: `dualshotctl 用于维护 dualshot 服务的数据。

子命令:
  reset-db        清空全部业务表
  export-reports  导出举报记录为 Excel
  set-prompt      修改每日提示`,
	SilenceUsage: true,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "配置文件路径")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "", "覆盖配置中的数据库驱动 (sqlite/mysql/postgres)")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "dsn", "", "覆盖配置中的数据库连接串")
}

// loadConfig 读取配置并应用命令行覆盖
func loadConfig() *config.Config {
	cfg := config.LoadConfigFrom(configPath)
	if dbDriver != "" {
		cfg.Database.Driver = dbDriver
	}
	if dbDSN != "" {
		cfg.Database.DSN = dbDSN
	}
	return cfg
}

// openDB 连接数据库并在最后关闭
func openDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := dbPkg.InitDB(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = dbPkg.Close(db) }, nil
}
