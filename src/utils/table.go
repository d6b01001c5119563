package utils

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jiaming2012/option-valuation/src/optionmodels"
)

// RenderPricingResult formats an engine result as a two column table
// for terminal output.
func RenderPricingResult(result optionmodels.PricingResult) string {
	display := &strings.Builder{}
	p := message.NewPrinter(language.English)

	table := tablewriter.NewWriter(display)

	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")

	table.Append([]string{"Option Price", fmt.Sprintf("$%s", p.Sprintf("%.4f", result.OptionPrice))})
	table.Append([]string{"Delta", p.Sprintf("%.4f", result.Delta)})
	table.Append([]string{"Gamma", p.Sprintf("%.4f", result.Gamma)})
	table.Append([]string{"Vega", p.Sprintf("%.4f", result.Vega)})
	table.Append([]string{"Theta", p.Sprintf("%.4f", result.Theta)})
	table.Append([]string{"Rho", p.Sprintf("%.4f", result.Rho)})

	table.Render()
	return display.String()
}

// RenderImpliedVolatilityResult formats a solver result, leading with
// the recovered volatility before the sensitivities at that level.
func RenderImpliedVolatilityResult(result optionmodels.ImpliedVolatilityResult) string {
	display := &strings.Builder{}
	p := message.NewPrinter(language.English)

	table := tablewriter.NewWriter(display)

	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")

	table.Append([]string{"Implied Volatility", p.Sprintf("%.4f", result.ImpliedVolatility)})
	table.Append([]string{"Option Price", fmt.Sprintf("$%s", p.Sprintf("%.4f", result.OptionPrice))})
	table.Append([]string{"Delta", p.Sprintf("%.4f", result.Delta)})
	table.Append([]string{"Gamma", p.Sprintf("%.4f", result.Gamma)})
	table.Append([]string{"Vega", p.Sprintf("%.4f", result.Vega)})
	table.Append([]string{"Theta", p.Sprintf("%.4f", result.Theta)})
	table.Append([]string{"Rho", p.Sprintf("%.4f", result.Rho)})

	table.Render()
	return display.String()
}
