package session

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"incometracker/internal/core"
)

type stateBlob struct {
	SavedEarnings  json.Number       `json:"saved_earnings"`
	CurrentCredits int64             `json:"current_credits"`
	Transactions   []transactionBlob `json:"transactions"`
}

type transactionBlob struct {
	Earnings json.Number `json:"earnings"`
	Category string      `json:"category"`
	Time     float64     `json:"time"`
}

func encodeState(carried decimal.Decimal, txs []core.Transaction, credits int64) ([]byte, error) {
	blob := stateBlob{
		SavedEarnings:  json.Number(carried.String()),
		CurrentCredits: credits,
		Transactions:   make([]transactionBlob, 0, len(txs)),
	}
	for _, tx := range txs {
		blob.Transactions = append(blob.Transactions, transactionBlob{
			Earnings: json.Number(tx.Amount.String()),
			Category: tx.Category.String(),
			Time:     unixSeconds(tx.Time),
		})
	}
	return json.Marshal(blob)
}

type decodedState struct {
	carried      decimal.Decimal
	transactions []core.Transaction
	credits      int64
}

func decodeState(data []byte) (decodedState, error) {
	var blob stateBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return decodedState{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	out := decodedState{carried: decimal.Zero, credits: blob.CurrentCredits}
	if blob.SavedEarnings != "" {
		d, err := decimal.NewFromString(blob.SavedEarnings.String())
		if err != nil {
			return decodedState{}, fmt.Errorf("%w: saved_earnings: %v", ErrCorruptState, err)
		}
		out.carried = d
	}

	out.transactions = make([]core.Transaction, 0, len(blob.Transactions))
	for i, t := range blob.Transactions {
		amount, err := decimal.NewFromString(t.Earnings.String())
		if err != nil {
			return decodedState{}, fmt.Errorf("%w: transaction %d: %v", ErrCorruptState, i, err)
		}
		out.transactions = append(out.transactions,
			core.NewTransaction(amount, core.CategoryFromStored(t.Category), fromUnixSeconds(t.Time)))
	}
	return out, nil
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

func fromUnixSeconds(s float64) time.Time {
	return time.UnixMicro(int64(math.Round(s * 1e6)))
}
