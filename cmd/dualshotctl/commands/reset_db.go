package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// 子表在前
var resetTables = []string{"reactions", "reports", "posts", "friendships", "meta", "users"}

var assumeYes bool

var resetDBCmd = &cobra.Command{
	Use:   "reset-db",
	Short: "清空全部业务表（保留表结构）",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		db, closeDB, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Database driver: %s\n", cfg.Database.Driver)
		if !assumeYes && !confirm(cmd.InOrStdin(), out) {
			fmt.Fprintln(out, "Operation cancelled")
			return nil
		}
		return resetDB(db, cfg.Database.Driver, out)
	},
}

func init() {
	resetDBCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "跳过确认")
	rootCmd.AddCommand(resetDBCmd)
}

func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprintf(out, "\nWARNING: This operation will CLEAR ALL DATA in tables %v!\n", resetTables)
	fmt.Fprint(out, "Type 'YES' to confirm: ")
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(line) == "YES"
}

// resetDB 清空数据并重置自增ID
func resetDB(db *gorm.DB, driver string, out io.Writer) error {
	if driver == "postgres" {
		stmt := "TRUNCATE TABLE " + strings.Join(resetTables, ", ") + " RESTART IDENTITY CASCADE"
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("truncate failed: %w", err)
		}
		fmt.Fprintln(out, "All tables truncated")
		return nil
	}

	if driver == "mysql" {
		_ = db.Exec("SET FOREIGN_KEY_CHECKS=0").Error
		defer db.Exec("SET FOREIGN_KEY_CHECKS=1")
	}

	for _, table := range resetTables {
		fmt.Fprintf(out, "Clearing table %s... ", table)
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			fmt.Fprintf(out, "Failed: %v\n", err)
			return err
		}
		fmt.Fprintln(out, "Success")
	}

	fmt.Fprintln(out, "\nResetting auto-increment IDs...")
	for _, table := range resetTables {
		var err error
		switch driver {
		case "mysql":
			err = db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1").Error
		default:
			err = db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table).Error
		}
		if err != nil && !strings.Contains(err.Error(), "no such table") {
			fmt.Fprintf(out, "Resetting %s failed: %v\n", table, err)
		}
	}

	fmt.Fprintln(out, "\nDatabase reset completed!")
	return nil
}
