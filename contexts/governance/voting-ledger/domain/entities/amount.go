package entities

import (
	"encoding/json"
	"strings"

	domainerrors "blockvote/contexts/governance/voting-ledger/domain/errors"

	"github.com/holiman/uint256"
)

// Amount is an unsigned 256-bit credit quantity. The zero value is zero.
type Amount struct {
	v uint256.Int
}

func NewAmount(value uint64) Amount {
	var a Amount
	a.v.SetUint64(value)
	return a
}

// ParseAmount accepts unsigned base-10 digits only, so a leading sign is
// rejected.
func ParseAmount(raw string) (Amount, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Amount{}, domainerrors.ErrInvalidAmount
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return Amount{}, domainerrors.ErrInvalidAmount
		}
	}
	parsed, err := uint256.FromDecimal(raw)
	if err != nil {
		return Amount{}, domainerrors.ErrInvalidAmount
	}
	return Amount{v: *parsed}, nil
}

func MustParseAmount(raw string) Amount {
	a, err := ParseAmount(raw)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) String() string {
	return a.v.Dec()
}

func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

func (a Amount) Cmp(other Amount) int {
	return a.v.Cmp(&other.v)
}

func (a Amount) LessThan(other Amount) bool {
	return a.Cmp(other) < 0
}

func (a Amount) Add(other Amount) (Amount, error) {
	var out Amount
	if _, overflow := out.v.AddOverflow(&a.v, &other.v); overflow {
		return Amount{}, domainerrors.ErrAmountOverflow
	}
	return out, nil
}

func (a Amount) Sub(other Amount) (Amount, error) {
	var out Amount
	if _, underflow := out.v.SubOverflow(&a.v, &other.v); underflow {
		return Amount{}, domainerrors.ErrAmountUnderflow
	}
	return out, nil
}

// Div performs integer division. Division by zero yields zero.
func (a Amount) Div(divisor Amount) Amount {
	var out Amount
	out.v.Div(&a.v, &divisor.v)
	return out
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		var number json.Number
		if numErr := json.Unmarshal(data, &number); numErr != nil {
			return domainerrors.ErrInvalidAmount
		}
		raw = number.String()
	}
	parsed, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
