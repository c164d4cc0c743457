package commands

import (
	"context"
	"fmt"
	"time"

	"dualshot/internal/repository"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

var (
	exportOut   string
	exportSince string
)

var exportReportsCmd = &cobra.Command{
	Use:   "export-reports",
	Short: "导出举报记录为 xlsx",
	Long: `导出举报记录，便于人工审核。

Examples:
  dualshotctl export-reports --out reports.xlsx
  dualshotctl export-reports --since 2026-10-01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var since time.Time
		if exportSince != "" {
			t, err := time.ParseInLocation("2006-01-02", exportSince, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --since: %w", err)
			}
			since = t
		}

		db, closeDB, err := openDB(loadConfig())
		if err != nil {
			return err
		}
		defer closeDB()

		rows, err := repository.NewReportRepository(db).List(context.Background(), since)
		if err != nil {
			return err
		}
		if err := writeReportsXLSX(rows, exportOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d reports to %s\n", len(rows), exportOut)
		return nil
	},
}

func init() {
	exportReportsCmd.Flags().StringVarP(&exportOut, "out", "o", "reports.xlsx", "输出文件")
	exportReportsCmd.Flags().StringVar(&exportSince, "since", "", "只导出该日期(YYYY-MM-DD)之后的举报")
	rootCmd.AddCommand(exportReportsCmd)
}

const reportSheet = "Reports"

var reportHeader = []interface{}{"ID", "Post ID", "Author ID", "Reporter ID", "Reporter", "Reason", "Created At"}

// writeReportsXLSX 每条举报一行，第一行为表头
func writeReportsXLSX(rows []repository.ReportRow, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(reportSheet, "A1", &reportHeader); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.ID, r.PostID, r.AuthorID, r.ReporterID, r.ReporterUsername, r.Reason,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(reportSheet, "F", "F", 60); err != nil {
		return err
	}
	return f.SaveAs(path)
}
