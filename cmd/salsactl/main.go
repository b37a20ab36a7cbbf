// salsactl is a developer-facing, single-invocation front door around the
// engine. It accepts the flag surface the spec's external batch runner
// documents (--start-date, --end-date, --current-process-id, --algorithm)
// for one local run, loading its three input tables from CSV files rather
// than the distributed database adapter the real batch runner would use
// (that adapter and its multi-process orchestration stay out of scope).
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/salsa-engine/salsa/internal/engine"
	"github.com/salsa-engine/salsa/internal/model"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		csvDir           string
		startDate        string
		endDate          string
		currentProcessID int
		algorithm        string
	)

	cmd := &cobra.Command{
		Use:   "salsactl",
		Short: "Run the SALSA scheduling engine against local CSV tables",
	}

	solve := &cobra.Command{
		Use:   "solve",
		Short: "Solve one horizon and print the resulting schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(csvDir, startDate, endDate, currentProcessID, algorithm)
		},
	}
	solve.Flags().StringVar(&csvDir, "csv-dir", ".", "directory containing calendario.csv, estimativas.csv, colaborador.csv")
	solve.Flags().StringVar(&startDate, "start-date", "", "yyyy-mm-dd (informational; rows outside range are not filtered by this CLI)")
	solve.Flags().StringVar(&endDate, "end-date", "", "yyyy-mm-dd")
	solve.Flags().IntVar(&currentProcessID, "current-process-id", 0, "process/site id, recorded in the run summary")
	solve.Flags().StringVar(&algorithm, "algorithm", "cp-sat", "solver algorithm name, recorded in the run summary")

	cmd.AddCommand(solve)
	return cmd
}

func runSolve(csvDir, startDate, endDate string, processID int, algorithm string) error {
	runID := uuid.New().String()
	color.Cyan("run %s  process=%d  algorithm=%s  range=%s..%s", runID, processID, algorithm, startDate, endDate)

	calendario, err := loadTable(csvDir, "calendario.csv")
	if err != nil {
		return fmt.Errorf("loading calendario.csv: %w", err)
	}
	estimativas, err := loadTable(csvDir, "estimativas.csv")
	if err != nil {
		return fmt.Errorf("loading estimativas.csv: %w", err)
	}
	colaborador, err := loadTable(csvDir, "colaborador.csv")
	if err != nil {
		return fmt.Errorf("loading colaborador.csv: %w", err)
	}

	raw := model.RawInput{
		Calendario:  calendario,
		Estimativas: estimativas,
		Colaborador: colaborador,
		Settings:    model.DefaultSettings(),
	}

	start := time.Now()
	schedule, err := engine.Run(raw)
	if err != nil {
		return err
	}

	printReport(schedule, time.Since(start))
	printMatrix(schedule)
	return nil
}

// loadTable reads a CSV file into a model.Table, using its header row as
// column names.
func loadTable(dir, name string) (model.Table, error) {
	f, err := os.Open(dir + string(os.PathSeparator) + name)
	if err != nil {
		return model.Table{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return model.Table{}, err
	}
	if len(records) == 0 {
		return model.Table{}, fmt.Errorf("%s is empty", name)
	}

	columns := records[0]
	rows := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return model.Table{Columns: columns, Rows: rows}, nil
}

func printReport(s *model.Schedule, elapsed time.Duration) {
	color.Green("status=%s objective=%.1f best_bound=%.1f wall_time=%s (cli elapsed %s)",
		s.Report.Status, s.Report.ObjectiveValue, s.Report.BestBound, s.Report.WallTime, elapsed)

	if len(s.Report.Warnings) > 0 {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Matricula", "Kind", "Message"})
		for _, w := range s.Report.Warnings {
			table.Append([]string{strconv.Itoa(w.Matricula), w.Kind, w.Message})
		}
		table.Render()
	}
}

func printMatrix(s *model.Schedule) {
	table := tablewriter.NewWriter(os.Stdout)
	header := []string{"Matricula"}
	for _, d := range s.Horizon.Days {
		header = append(header, strconv.Itoa(d))
	}
	table.SetHeader(header)

	for _, e := range s.Employees {
		row := []string{strconv.Itoa(e)}
		for _, d := range s.Horizon.Days {
			row = append(row, string(s.Cell(e, d)))
		}
		table.Append(row)
	}
	table.Render()
}
