package journal

import (
	"encoding/csv"
	"errors"
	"os"
	"strconv"
	"time"
)

var (
	tradesHeader     = []string{"trade_id", "symbol", "side", "quantity", "price", "total", "time"}
	valuationsHeader = []string{"time", "total_value", "total_gain", "day_change", "positions"}
)

type CSV struct {
	trades     *csv.Writer
	valuations *csv.Writer
	tf, vf     *os.File
}

func NewCSV(tradesPath, valuationsPath string) (*CSV, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	vf, err := os.Create(valuationsPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	j := &CSV{
		trades:     csv.NewWriter(tf),
		valuations: csv.NewWriter(vf),
		tf:         tf,
		vf:         vf,
	}
	if err := j.writeRow(j.trades, tradesHeader); err != nil {
		j.Close()
		return nil, err
	}
	if err := j.writeRow(j.valuations, valuationsHeader); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSV) writeRow(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSV) RecordTrade(t TradeRecord) error {
	return j.writeRow(j.trades, []string{
		t.TradeID,
		t.Symbol,
		t.Side,
		t.Quantity.String(),
		t.Price.StringFixed(2),
		t.Total.StringFixed(2),
		t.Time.UTC().Format(time.RFC3339Nano),
	})
}

func (j *CSV) RecordValuation(v ValuationSnapshot) error {
	return j.writeRow(j.valuations, []string{
		v.Time.UTC().Format(time.RFC3339Nano),
		v.TotalValue.StringFixed(2),
		v.TotalGain.StringFixed(2),
		v.DayChange.StringFixed(2),
		strconv.Itoa(v.Positions),
	})
}

// Close flushes and closes both files even when one of them fails, and
// returns every error it hit.
func (j *CSV) Close() error {
	j.trades.Flush()
	j.valuations.Flush()

	return errors.Join(
		j.trades.Error(),
		j.valuations.Error(),
		j.tf.Close(),
		j.vf.Close(),
	)
}
