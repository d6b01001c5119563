package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/option-valuation/src/optionmodels"
	"github.com/jiaming2012/option-valuation/src/pricing"
	"github.com/jiaming2012/option-valuation/src/utils"
)

type RunArgs struct {
	StockPrice     float64
	StrikePrice    float64
	TimeToMaturity float64
	RiskFreeRate   float64
	Volatility     float64
	OptionType     string
}

type RunResult struct {
	Result optionmodels.PricingResult
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/price_option/main.go --stockPrice 100 --strikePrice 100 --timeToMaturity 1 --riskFreeRate 0.05 --volatility 0.2 --optionType call",
	Short: "Price a European option and print its sensitivities",
	Run: func(cmd *cobra.Command, args []string) {
		stockPrice, err := cmd.Flags().GetFloat64("stockPrice")
		if err != nil {
			log.Fatalf("error getting stockPrice: %v", err)
		}

		strikePrice, err := cmd.Flags().GetFloat64("strikePrice")
		if err != nil {
			log.Fatalf("error getting strikePrice: %v", err)
		}

		timeToMaturity, err := cmd.Flags().GetFloat64("timeToMaturity")
		if err != nil {
			log.Fatalf("error getting timeToMaturity: %v", err)
		}

		riskFreeRate, err := cmd.Flags().GetFloat64("riskFreeRate")
		if err != nil {
			log.Fatalf("error getting riskFreeRate: %v", err)
		}

		volatility, err := cmd.Flags().GetFloat64("volatility")
		if err != nil {
			log.Fatalf("error getting volatility: %v", err)
		}

		optionType, err := cmd.Flags().GetString("optionType")
		if err != nil {
			log.Fatalf("error getting optionType: %v", err)
		}

		result, err := Run(RunArgs{
			StockPrice:     stockPrice,
			StrikePrice:    strikePrice,
			TimeToMaturity: timeToMaturity,
			RiskFreeRate:   riskFreeRate,
			Volatility:     volatility,
			OptionType:     optionType,
		})

		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		fmt.Println(utils.RenderPricingResult(result.Result))
	},
}

func Run(args RunArgs) (RunResult, error) {
	in := optionmodels.OptionInputs{
		StockPrice:     args.StockPrice,
		StrikePrice:    args.StrikePrice,
		TimeToMaturity: args.TimeToMaturity,
		RiskFreeRate:   args.RiskFreeRate,
		Volatility:     args.Volatility,
		OptionType:     optionmodels.OptionType(args.OptionType),
	}

	result, err := pricing.BlackScholes(in)
	if err != nil {
		return RunResult{}, fmt.Errorf("error pricing option: %v", err)
	}

	return RunResult{Result: result}, nil
}

func main() {
	runCmd.PersistentFlags().Float64("stockPrice", 0, "The current price of the underlying.")
	runCmd.PersistentFlags().Float64("strikePrice", 0, "The option strike price.")
	runCmd.PersistentFlags().Float64("timeToMaturity", 0, "Time to maturity in years.")
	runCmd.PersistentFlags().Float64("riskFreeRate", 0, "The annualized risk free rate.")
	runCmd.PersistentFlags().Float64("volatility", 0, "The annualized volatility.")
	runCmd.PersistentFlags().String("optionType", "call", "The option style: call or put.")

	runCmd.MarkPersistentFlagRequired("stockPrice")
	runCmd.MarkPersistentFlagRequired("strikePrice")
	runCmd.MarkPersistentFlagRequired("timeToMaturity")
	runCmd.MarkPersistentFlagRequired("riskFreeRate")
	runCmd.MarkPersistentFlagRequired("volatility")

	runCmd.Execute()
}
