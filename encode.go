package holdings

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodeActivities writes the activities to w in JSONL format, one activity
// per line, sorted by (date, id) for canonical output.
func EncodeActivities(w io.Writer, acts []Activity) error {
	acts = slices.Clone(acts)
	sortActivities(acts)
	for _, a := range acts {
		if err := EncodeActivity(w, a); err != nil {
			return err
		}
	}
	return nil
}

// EncodeActivity marshals a single activity and writes it to w followed by a
// newline, in JSONL format.
func EncodeActivity(w io.Writer, a Activity) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal activity %d: %w", a.ID, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write activity %d: %w", a.ID, err)
	}
	return nil
}

// DecodeActivities reads a stream of JSONL activity data.
func DecodeActivities(r io.Reader) ([]Activity, error) {
	var acts []Activity
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}
		var a Activity
		if err := json.Unmarshal(line, &a); err != nil {
			return nil, fmt.Errorf("could not decode activity line %q: %w", string(line), err)
		}
		acts = append(acts, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading activities: %w", err)
	}
	return acts, nil
}

// EncodeAdjustments writes the split adjustment log to w in JSONL format,
// preserving the application order.
func EncodeAdjustments(w io.Writer, adjs []SplitAdjustment) error {
	for _, adj := range adjs {
		data, err := json.Marshal(adj)
		if err != nil {
			return fmt.Errorf("failed to marshal adjustment %d/%d: %w", adj.SplitID, adj.TargetID, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write adjustment %d/%d: %w", adj.SplitID, adj.TargetID, err)
		}
	}
	return nil
}

// DecodeAdjustments reads a stream of JSONL split adjustment data. Order in
// the stream is the application order.
func DecodeAdjustments(r io.Reader) ([]SplitAdjustment, error) {
	var adjs []SplitAdjustment
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var adj SplitAdjustment
		if err := json.Unmarshal(line, &adj); err != nil {
			return nil, fmt.Errorf("could not decode adjustment line %q: %w", string(line), err)
		}
		adjs = append(adjs, adj)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading adjustments: %w", err)
	}
	return adjs, nil
}

// EncodeMarketData writes all prices to w in JSONL format, sorted by symbol
// then date.
func EncodeMarketData(w io.Writer, m *MarketData) error {
	for _, p := range m.Points() {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal price %s %s: %w", p.Symbol, p.Date, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write price %s %s: %w", p.Symbol, p.Date, err)
		}
	}
	return nil
}

// DecodeMarketData reads a stream of JSONL price data.
func DecodeMarketData(r io.Reader) (*MarketData, error) {
	m := NewMarketData()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var p PricePoint
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("could not decode price line %q: %w", string(line), err)
		}
		if p.Symbol == "" || p.Cents <= 0 {
			return nil, fmt.Errorf("invalid price line %q", string(line))
		}
		m.Append(p.Symbol, p.Date, p.Cents)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading prices: %w", err)
	}
	return m, nil
}
