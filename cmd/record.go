package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/holdings"
	"github.com/google/subcommands"
)

// --- Buy Command ---

type buyCmd struct {
	date     string
	symbol   string
	quantity float64
	price    int64
	fee      int64
	tax      int64
	currency string
	notes    string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares to open or add to a position" }
func (*buyCmd) Usage() string {
	return `hld buy -s <symbol> -q <quantity> -p <price_cents> [-d <date>] [-fee <cents>] [-tax <cents>]

  Purchases shares of a symbol. The fee is added to the cost basis.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", holdings.Today().String(), "Activity date (YYYY-MM-DD)")
	f.StringVar(&c.symbol, "s", "", "Symbol")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Int64Var(&c.price, "p", 0, "Price per share in cents")
	f.Int64Var(&c.fee, "fee", 0, "Trade fee in cents")
	f.Int64Var(&c.tax, "tax", 0, "Trade tax in cents")
	f.StringVar(&c.currency, "c", holdings.DefaultCurrency, "Currency code")
	f.StringVar(&c.notes, "m", "", "An optional note for the activity")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity <= 0 || c.price <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := holdings.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return insertAndSave(holdings.Activity{
		Date: day, Symbol: c.symbol, Type: holdings.ActBuy,
		Quantity: holdings.Q(c.quantity), UnitPriceCents: c.price,
		FeeCents: c.fee, TaxCents: c.tax, Currency: c.currency, Notes: c.notes,
	})
}

// --- Sell Command ---

type sellCmd struct {
	date     string
	symbol   string
	quantity float64
	price    int64
	fee      int64
	tax      int64
	currency string
	notes    string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares to trim or close a position" }
func (*sellCmd) Usage() string {
	return `hld sell -s <symbol> -q <quantity> -p <price_cents> [-d <date>] [-fee <cents>] [-tax <cents>]

  Sells shares of a symbol. Selling more than the position holds is rejected.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", holdings.Today().String(), "Activity date (YYYY-MM-DD)")
	f.StringVar(&c.symbol, "s", "", "Symbol")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Int64Var(&c.price, "p", 0, "Price per share in cents")
	f.Int64Var(&c.fee, "fee", 0, "Trade fee in cents")
	f.Int64Var(&c.tax, "tax", 0, "Trade tax in cents")
	f.StringVar(&c.currency, "c", holdings.DefaultCurrency, "Currency code")
	f.StringVar(&c.notes, "m", "", "An optional note for the activity")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity <= 0 || c.price <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := holdings.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return insertAndSave(holdings.Activity{
		Date: day, Symbol: c.symbol, Type: holdings.ActSell,
		Quantity: holdings.Q(c.quantity), UnitPriceCents: c.price,
		FeeCents: c.fee, TaxCents: c.tax, Currency: c.currency, Notes: c.notes,
	})
}

// --- Dividend Command ---

type dividendCmd struct {
	date     string
	symbol   string
	amount   int64
	tax      int64
	currency string
	notes    string
}

func (*dividendCmd) Name() string     { return "dividend" }
func (*dividendCmd) Synopsis() string { return "record a dividend payment for a symbol" }
func (*dividendCmd) Usage() string {
	return `hld dividend -s <symbol> -a <amount_cents> [-d <date>] [-tax <cents>]

  Records a dividend payment, optionally with withholding tax.
`
}

func (c *dividendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", holdings.Today().String(), "Activity date (YYYY-MM-DD)")
	f.StringVar(&c.symbol, "s", "", "Symbol")
	f.Int64Var(&c.amount, "a", 0, "Dividend amount in cents")
	f.Int64Var(&c.tax, "tax", 0, "Withholding tax in cents")
	f.StringVar(&c.currency, "c", holdings.DefaultCurrency, "Currency code")
	f.StringVar(&c.notes, "m", "", "An optional note for the activity")
}

func (c *dividendCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.amount <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := holdings.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return insertAndSave(holdings.Activity{
		Date: day, Symbol: c.symbol, Type: holdings.ActDividend,
		AmountCents: c.amount, TaxCents: c.tax, Currency: c.currency, Notes: c.notes,
	})
}

// --- Split Command ---

type splitCmd struct {
	date   string
	symbol string
	ratio  float64
	notes  string
}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "record a stock split, adjusting all earlier activities" }
func (*splitCmd) Usage() string {
	return `hld split -s <symbol> -r <ratio> [-d <date>]

  Records a stock split. Every share-moving activity of the symbol dated
  before the split has its quantity multiplied and price divided by the
  ratio. Use a ratio below 1 for a reverse split (0.5 for 1-for-2).
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", holdings.Today().String(), "Activity date (YYYY-MM-DD)")
	f.StringVar(&c.symbol, "s", "", "Symbol")
	f.Float64Var(&c.ratio, "r", 0, "Split ratio (2 for a 2-for-1 split)")
	f.StringVar(&c.notes, "m", "", "An optional note for the activity")
}

func (c *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.ratio <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := holdings.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return insertAndSave(holdings.Activity{
		Date: day, Symbol: c.symbol, Type: holdings.ActSplit,
		Quantity: holdings.Q(c.ratio), Notes: c.notes,
	})
}

// --- Record Command ---

// recordCmd covers the remaining activity types with one generic command.
type recordCmd struct {
	date     string
	symbol   string
	typ      string
	quantity float64
	price    int64
	amount   int64
	fee      int64
	tax      int64
	currency string
	notes    string
}

func (*recordCmd) Name() string     { return "record" }
func (*recordCmd) Synopsis() string { return "record any other activity type" }
func (*recordCmd) Usage() string {
	return `hld record -t <type> -s <symbol> [flags]

  Records an activity of any type: interest, fee, tax, add-holding,
  remove-holding, transfer-in or transfer-out. Share movers take -q and -p,
  cash events take -a.
`
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", holdings.Today().String(), "Activity date (YYYY-MM-DD)")
	f.StringVar(&c.symbol, "s", "", "Symbol")
	f.StringVar(&c.typ, "t", "", "Activity type")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Int64Var(&c.price, "p", 0, "Price per share in cents")
	f.Int64Var(&c.amount, "a", 0, "Cash amount in cents")
	f.Int64Var(&c.fee, "fee", 0, "Fee in cents")
	f.Int64Var(&c.tax, "tax", 0, "Tax in cents")
	f.StringVar(&c.currency, "c", holdings.DefaultCurrency, "Currency code")
	f.StringVar(&c.notes, "m", "", "An optional note for the activity")
}

func (c *recordCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	typ, err := holdings.ParseActivityType(c.typ)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	day, err := holdings.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a := holdings.Activity{
		Date: day, Symbol: c.symbol, Type: typ,
		UnitPriceCents: c.price, AmountCents: c.amount,
		FeeCents: c.fee, TaxCents: c.tax, Currency: c.currency, Notes: c.notes,
	}
	if c.quantity != 0 {
		a.Quantity = holdings.Q(c.quantity)
	}
	return insertAndSave(a)
}
