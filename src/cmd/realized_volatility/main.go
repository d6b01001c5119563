package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/option-valuation/src/optionmodels"
	"github.com/jiaming2012/option-valuation/src/pricing"
)

type RunArgs struct {
	InFile         string
	PeriodsPerYear int
}

type RunResult struct {
	RealizedVolatility float64
	Samples            int
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/realized_volatility/main.go --inFile closes.csv --periodsPerYear 252",
	Short: "Annualize the realized volatility of a close price series",
	Run: func(cmd *cobra.Command, args []string) {
		inFile, err := cmd.Flags().GetString("inFile")
		if err != nil {
			log.Fatalf("error getting inFile: %v", err)
		}

		periodsPerYear, err := cmd.Flags().GetInt("periodsPerYear")
		if err != nil {
			log.Fatalf("error getting periodsPerYear: %v", err)
		}

		result, err := Run(RunArgs{
			InFile:         inFile,
			PeriodsPerYear: periodsPerYear,
		})

		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		fmt.Printf("Realized volatility over %d closes: %.4f\n", result.Samples, result.RealizedVolatility)
	},
}

func Run(args RunArgs) (RunResult, error) {
	f, err := os.Open(args.InFile)
	if err != nil {
		return RunResult{}, fmt.Errorf("error opening %s: %v", args.InFile, err)
	}

	defer f.Close()

	var rows []*optionmodels.CsvCloseDTO
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return RunResult{}, fmt.Errorf("error unmarshalling file: %v", err)
	}

	closes := make([]float64, 0, len(rows))
	for _, row := range rows {
		closes = append(closes, row.Close)
	}

	vol, err := pricing.RealizedVolatility(closes, args.PeriodsPerYear)
	if err != nil {
		return RunResult{}, fmt.Errorf("error calculating realized volatility: %v", err)
	}

	return RunResult{
		RealizedVolatility: vol,
		Samples:            len(closes),
	}, nil
}

func main() {
	runCmd.PersistentFlags().String("inFile", "", "Path to a CSV file with a close column.")
	runCmd.PersistentFlags().Int("periodsPerYear", optionmodels.DefaultPeriodsPerYear, "Sampling frequency of the closes, e.g. 252 for daily.")

	runCmd.MarkPersistentFlagRequired("inFile")

	runCmd.Execute()
}
