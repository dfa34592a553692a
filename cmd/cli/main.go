package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"corrplot/adapters/excel"
	"corrplot/domain/dataset"
	"corrplot/internal/analysis"
	"corrplot/internal/chart"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "corrplot-cli",
		Short:         "Fit least-squares lines to columns of CSV and XLSX files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newColumnsCmd(),
		newFitCmd(),
	)
	return rootCmd
}

func newColumnsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns [file]",
		Short: "List the columns of a dataset with their kinds",
		Long: `List every column with its kind (numeric or categorical) and the number
of missing cells. Only numeric columns can be used as x or y.

Example: corrplot-cli columns study.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}
			return printColumns(cmd.OutOrStdout(), ds)
		},
	}
	return cmd
}

func newFitCmd() *cobra.Command {
	var sel dataset.Selection
	var format string
	var chartPath string

	cmd := &cobra.Command{
		Use:   "fit [file]",
		Short: "Fit y against x and print the regression report",
		Long: `Fit an ordinary least-squares line of the y column against the x column.
Rows with a missing value in either column are skipped.

The report is printed as text, markdown, json or yaml. With --chart the
scatter plot is written as SVG or PNG, chosen by the file extension.

Example: corrplot-cli fit study.csv --x hours --y score --chart study.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}
			return runFit(cmd, ds, sel, format, chartPath)
		},
	}

	cmd.Flags().StringVar(&sel.X, "x", "", "Column for the x axis")
	cmd.Flags().StringVar(&sel.Y, "y", "", "Column for the y axis")
	cmd.Flags().StringVar(&sel.Group, "group", "", "Column used to colour points")
	cmd.Flags().IntVar(&sel.MarkerSize, "size", dataset.DefaultMarkerSize, "Marker size in pixels (5-20)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|markdown|json|yaml")
	cmd.Flags().StringVar(&chartPath, "chart", "", "Write the chart to this .svg or .png file")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")

	return cmd
}

func loadDataset(path string) (*dataset.Dataset, error) {
	if !excel.IsSupported(path) {
		return nil, fmt.Errorf("unsupported file %q: use .csv, .tsv or .xlsx", path)
	}
	return excel.NewDataReader(path, excel.DefaultExcelConfig()).ReadFile(path)
}

func printColumns(w io.Writer, ds *dataset.Dataset) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tKIND\tMISSING")
	for _, col := range ds.Columns() {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", col.Name, col.Kind, col.Missing)
	}
	fmt.Fprintf(tw, "\n%d rows\n", ds.Rows)
	return tw.Flush()
}

func runFit(cmd *cobra.Command, ds *dataset.Dataset, sel dataset.Selection, format, chartPath string) error {
	// validate before doing any work
	if err := checkFormat(format); err != nil {
		return err
	}

	var chartFormat chart.Format
	if chartPath != "" {
		var err error
		if chartFormat, err = chart.ParseFormat(filepath.Ext(chartPath)); err != nil {
			return err
		}
	}

	summary, err := analysis.NewSummarizer().Summarize(cmd.Context(), ds, sel)
	if err != nil {
		return err
	}

	if chartPath != "" {
		if err := writeChart(chartPath, chartFormat, summary); err != nil {
			return err
		}
	}

	return printSummary(cmd.OutOrStdout(), summary, format)
}

func checkFormat(format string) error {
	switch format {
	case "text", "markdown", "json", "yaml":
		return nil
	}
	return fmt.Errorf("unknown format %q: use text, markdown, json or yaml", format)
}

func writeChart(path string, format chart.Format, summary *analysis.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := chart.NewRenderer(chart.DefaultOptions()).Render(f, format, summary); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(w io.Writer, summary *analysis.Summary, format string) error {
	switch format {
	case "markdown":
		_, err := fmt.Fprintln(w, summary.Report.Markdown())
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(summary); err != nil {
			return err
		}
		return enc.Close()
	default:
		if _, err := fmt.Fprintln(w, summary.Report.Text()); err != nil {
			return err
		}
		if summary.Dropped > 0 {
			_, err := fmt.Fprintf(w, "(%d rows with missing values skipped)\n", summary.Dropped)
			return err
		}
		return nil
	}
}
