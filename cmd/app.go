// Package cmd implements the CLI application to manage an activity ledger.
package cmd

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/holdings"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "activities")
	c.Register(&sellCmd{}, "activities")
	c.Register(&dividendCmd{}, "activities")
	c.Register(&splitCmd{}, "activities")
	c.Register(&recordCmd{}, "activities")
	c.Register(&listCmd{}, "activities")
	c.Register(&editCmd{}, "activities")
	c.Register(&deleteCmd{}, "activities")

	c.Register(&priceCmd{}, "market data")

	c.Register(&positionsCmd{}, "reports")
	c.Register(&closedCmd{}, "reports")
	c.Register(&returnsCmd{}, "reports")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerDir = flag.String("dir", ".", "Directory holding the ledger files")

const (
	activitiesFile  = "activities.jsonl"
	adjustmentsFile = "splits.jsonl"
	pricesFile      = "prices.jsonl"
)

// loadStore reads the activity ledger and its split adjustment log from the
// ledger directory. Missing files yield an empty store.
func loadStore() (*holdings.Store, error) {
	acts, err := readJSONL(activitiesFile, holdings.DecodeActivities)
	if err != nil {
		return nil, err
	}
	adjs, err := readJSONL(adjustmentsFile, holdings.DecodeAdjustments)
	if err != nil {
		return nil, err
	}
	return holdings.RestoreStore(acts, adjs)
}

// saveStore rewrites both ledger files. Splits rewrite earlier rows in place,
// so appending is not enough, the whole file is regenerated.
func saveStore(s *holdings.Store) error {
	var acts bytes.Buffer
	if err := holdings.EncodeActivities(&acts, slices.Collect(s.Activities())); err != nil {
		return err
	}
	if err := writeFile(activitiesFile, acts.Bytes()); err != nil {
		return err
	}
	var adjs bytes.Buffer
	if err := holdings.EncodeAdjustments(&adjs, s.Adjustments()); err != nil {
		return err
	}
	return writeFile(adjustmentsFile, adjs.Bytes())
}

// loadMarket reads the price database. A missing file yields an empty one.
func loadMarket() (*holdings.MarketData, error) {
	f, err := os.Open(filepath.Join(*ledgerDir, pricesFile))
	if errors.Is(err, fs.ErrNotExist) {
		return holdings.NewMarketData(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return holdings.DecodeMarketData(f)
}

func saveMarket(m *holdings.MarketData) error {
	var buf bytes.Buffer
	if err := holdings.EncodeMarketData(&buf, m); err != nil {
		return err
	}
	return writeFile(pricesFile, buf.Bytes())
}

// loadSystem wires the ledger and the price database into an accounting system.
func loadSystem() (*holdings.AccountingSystem, error) {
	store, err := loadStore()
	if err != nil {
		return nil, err
	}
	market, err := loadMarket()
	if err != nil {
		return nil, err
	}
	return holdings.NewAccountingSystem(store, market), nil
}

func readJSONL[T any](name string, decode func(r io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(filepath.Join(*ledgerDir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decode(f)
}

func writeFile(name string, data []byte) error {
	return os.WriteFile(filepath.Join(*ledgerDir, name), data, 0644)
}

// insertAndSave runs one staged mutation end to end and reports the result.
func insertAndSave(a holdings.Activity) subcommands.ExitStatus {
	store, err := loadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	stored, err := store.Insert(a)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := saveStore(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s %s as activity %d\n", stored.Type, stored.Symbol, stored.ID)
	return subcommands.ExitSuccess
}

// printMarkdown renders a markdown report for the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
