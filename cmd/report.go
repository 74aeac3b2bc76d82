package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datateller/datateller/internal/report"
	"github.com/datateller/datateller/internal/session"
	"github.com/datateller/datateller/internal/utils"
)

var (
	repSample bool
	repOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Run the full analysis pipeline and export a PDF report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, name, err := loadDataset(args)
		if err != nil {
			return err
		}

		sess, err := session.New(name, ds, cfg)
		if err != nil {
			return err
		}
		rep := sess.BuildReport(cfg)

		var buf bytes.Buffer
		if err := report.WritePDF(rep, &buf); err != nil {
			return err
		}

		out := repOutput
		if out == "" {
			out = defaultReportPath(name)
		}
		if err := utils.SafeWriteFile(out, buf.Bytes()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s (%d charts, %d insights)\n",
			out, len(sess.Charts), len(sess.Insights))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().BoolVar(&repSample, "sample", false, "report on the built-in sample dataset instead of a file")
	reportCmd.Flags().StringVarP(&repOutput, "output", "o", "", "output PDF path (default <input>.report.pdf)")
}

func defaultReportPath(name string) string {
	if name == "sample data" {
		return "sample.report.pdf"
	}
	base := name
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base + ".report.pdf"
}
