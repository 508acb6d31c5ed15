package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/renderer"
	"github.com/google/subcommands"
)

// --- Positions Command ---

type positionsCmd struct {
	date string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "report open positions valued at market" }
func (*positionsCmd) Usage() string {
	return `hld positions [-d <date>]

  Shows every open position with its weighted-average cost, market value,
  unrealized gain and annualized return. Positions valued on a price older
  than the report date are marked.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", holdings.Today().String(), "Valuation date (YYYY-MM-DD)")
}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := holdings.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	as, err := loadSystem()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	report, err := renderer.NewPositionsReport(as, on)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PositionsMarkdown(report))
	return subcommands.ExitSuccess
}

// --- Closed Command ---

type closedCmd struct {
	symbol string
}

func (*closedCmd) Name() string     { return "closed" }
func (*closedCmd) Synopsis() string { return "report completed holding cycles and their realized gains" }
func (*closedCmd) Usage() string {
	return `hld closed [-s <symbol>]

  Shows every completed holding cycle: a position opened, held and fully
  sold. Gains include dividends received during the cycle, net of fees and
  taxes.
`
}

func (c *closedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Only report cycles of this symbol.")
}

func (c *closedCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	as, err := loadSystem()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	var closed []holdings.ClosedPosition
	if c.symbol != "" {
		closed, err = as.ClosedPositionsOf(c.symbol)
	} else {
		closed, err = as.ClosedPositions()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ClosedMarkdown(closed))
	return subcommands.ExitSuccess
}

// --- Returns Command ---

type returnsCmd struct {
	date string
}

func (*returnsCmd) Name() string     { return "returns" }
func (*returnsCmd) Synopsis() string { return "report annualized money-weighted returns" }
func (*returnsCmd) Usage() string {
	return `hld returns [-d <date>]

  Shows the annualized money-weighted return (XIRR) of every symbol and of
  the whole portfolio. Symbols whose flows admit no rate show N/A.
`
}

func (c *returnsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", holdings.Today().String(), "Report date (YYYY-MM-DD)")
}

func (c *returnsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := holdings.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	as, err := loadSystem()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var rows []renderer.ReturnRow
	for _, symbol := range as.Ledger.Symbols() {
		rows = append(rows, renderer.ReturnRow{
			Symbol: symbol,
			Return: holdings.FormatReturn(as.AnnualizedReturn(symbol, on)),
		})
	}
	portfolio := holdings.FormatReturn(as.PortfolioReturn(on))
	printMarkdown(renderer.ReturnsMarkdown(on.String(), rows, portfolio))
	return subcommands.ExitSuccess
}

// --- Price Command ---

type priceCmd struct {
	date   string
	symbol string
	price  int64
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "record a market price for a symbol" }
func (*priceCmd) Usage() string {
	return `hld price -s <symbol> -p <price_cents> [-d <date>]

  Records a market price used for valuations. A price already recorded on
  that day is overwritten.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", holdings.Today().String(), "Observation date (YYYY-MM-DD)")
	f.StringVar(&c.symbol, "s", "", "Symbol")
	f.Int64Var(&c.price, "p", 0, "Price per share in cents")
}

func (c *priceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.price <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := holdings.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	market, err := loadMarket()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	market.Append(c.symbol, day, c.price)
	if err := saveMarket(market); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded price %s for %s on %s\n", holdings.FormatCents(c.price, ""), c.symbol, day)
	return subcommands.ExitSuccess
}
