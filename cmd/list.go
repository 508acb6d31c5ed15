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

// --- List Command ---

type listCmd struct {
	symbol string
	head   int
	tail   int
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list activities in the ledger" }
func (*listCmd) Usage() string {
	return `hld list [-s <symbol>] [-head <n>] [-tail <n>]

  Lists activities in (date, id) order. Quantities and prices reflect any
  split adjustments.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Only list activities of this symbol.")
	f.IntVar(&c.head, "head", 0, "Show only the first N activities.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N activities.")
}

func (c *listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	store, err := loadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var acts []holdings.Activity
	for a := range store.Activities() {
		if c.symbol == "" || a.Symbol == c.symbol {
			acts = append(acts, a)
		}
	}
	if c.head > 0 && len(acts) > c.head {
		acts = acts[:c.head]
	}
	if c.tail > 0 && len(acts) > c.tail {
		acts = acts[len(acts)-c.tail:]
	}

	printMarkdown(renderer.ActivitiesMarkdown(acts))
	return subcommands.ExitSuccess
}

// --- Edit Command ---

type editCmd struct {
	id       int64
	date     string
	quantity float64
	price    int64
	amount   int64
	fee      int64
	tax      int64
	notes    string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "edit an activity, readjusting splits as needed" }
func (*editCmd) Usage() string {
	return `hld edit -id <id> [-d <date>] [-q <quantity>] [-p <price_cents>] [-a <amount_cents>] [-fee <cents>] [-tax <cents>]

  Replaces fields of an existing activity. Editing a split reverses it and
  reapplies the new ratio; moving a trade across a split date adjusts it.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Activity id to edit")
	f.StringVar(&c.date, "d", "", "New activity date (YYYY-MM-DD)")
	f.Float64Var(&c.quantity, "q", -1, "New quantity (or split ratio)")
	f.Int64Var(&c.price, "p", -1, "New price per share in cents")
	f.Int64Var(&c.amount, "a", -1, "New cash amount in cents")
	f.Int64Var(&c.fee, "fee", -1, "New fee in cents")
	f.Int64Var(&c.tax, "tax", -1, "New tax in cents")
	f.StringVar(&c.notes, "m", "", "New note")
}

func (c *editCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	store, err := loadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	a, ok := store.Get(c.id)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: activity %d not found\n", c.id)
		return subcommands.ExitFailure
	}

	if c.date != "" {
		day, err := holdings.ParseDate(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
		a.Date = day
	}
	if c.quantity >= 0 {
		a.Quantity = holdings.Q(c.quantity)
	}
	if c.price >= 0 {
		a.UnitPriceCents = c.price
	}
	if c.amount >= 0 {
		a.AmountCents = c.amount
	}
	if c.fee >= 0 {
		a.FeeCents = c.fee
	}
	if c.tax >= 0 {
		a.TaxCents = c.tax
	}
	if c.notes != "" {
		a.Notes = c.notes
	}

	if _, err := store.Update(c.id, a); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := saveStore(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Updated activity %d\n", c.id)
	return subcommands.ExitSuccess
}

// --- Delete Command ---

type deleteCmd struct {
	id int64
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete an activity, reversing its split adjustments" }
func (*deleteCmd) Usage() string {
	return `hld delete -id <id>

  Deletes an activity. Deleting a split restores every activity it had
  adjusted to its original quantity and price.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Activity id to delete")
}

func (c *deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	store, err := loadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.Delete(c.id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := saveStore(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted activity %d\n", c.id)
	return subcommands.ExitSuccess
}
