package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Candle is one OHLCV bar. Field order of the JSON tags is part of the
// output contract.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// CandleFromRaw builds a Candle from a 6-tuple [time, open, high, low,
// close, volume] as exchanges return it, whatever mix of numbers and
// decimal strings the row carries.
func CandleFromRaw(raw []interface{}) (Candle, error) {
	if len(raw) < 6 {
		return Candle{}, fmt.Errorf("raw candle has %d fields, want at least 6", len(raw))
	}

	ts, err := ToInt64(raw[0])
	if err != nil {
		return Candle{}, fmt.Errorf("%w: can't coerce timestamp", err)
	}

	var prices [5]float64
	for i := 0; i < 5; i++ {
		v, err := ToFloat64(raw[i+1])
		if err != nil {
			return Candle{}, fmt.Errorf("%w: can't coerce field %d", err, i+1)
		}
		prices[i] = v
	}

	return Candle{
		Timestamp: ts,
		Open:      prices[0],
		High:      prices[1],
		Low:       prices[2],
		Close:     prices[3],
		Volume:    prices[4],
	}, nil
}

// CandlesFromRaw converts raw tuples in order, failing on the first bad row.
func CandlesFromRaw(rows [][]interface{}) ([]Candle, error) {
	candles := make([]Candle, 0, len(rows))
	for i, row := range rows {
		c, err := CandleFromRaw(row)
		if err != nil {
			return nil, fmt.Errorf("%w: raw candle %d", err, i)
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func ToInt64(v interface{}) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return 0, fmt.Errorf("%w: not an integer", err)
		}
		return d.IntPart(), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func ToFloat64(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int64:
		return float64(t), nil
	case int:
		return float64(t), nil
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return 0, fmt.Errorf("%w: not a number", err)
		}
		return d.InexactFloat64(), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
