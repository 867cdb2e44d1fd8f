package database

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NanosPerUnit is the number of sub-units in one whole unit of a coin.
const NanosPerUnit uint64 = 1_000_000_000

// nanoDigits is the number of decimal places a nano represents.
const nanoDigits = 9

// MaxUnits is the largest whole unit count FromUnits can represent exactly.
const MaxUnits = math.MaxUint64 / NanosPerUnit

// Amount is an exact count of the smallest unit of a coin.
type Amount struct {
	Nanos uint64 `json:"nanos"`
}

// FromUnits constructs an amount from a count of whole units. The count
// must not exceed MaxUnits.
func FromUnits(units uint64) Amount {
	return Amount{Nanos: units * NanosPerUnit}
}

// ParseAmount parses a decimal unit string like "1.5" into an exact amount.
func ParseAmount(s string) (Amount, error) {
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return Amount{}, fmt.Errorf("invalid amount %q", s)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > nanoDigits {
		return Amount{}, fmt.Errorf("amount %q has more than %d decimal places", s, nanoDigits)
	}

	var units uint64
	if whole != "" {
		v, err := strconv.ParseUint(whole, 10, 64)
		if err != nil {
			return Amount{}, fmt.Errorf("parsing amount %q: %w", s, err)
		}
		units = v
	}

	if units > MaxUnits {
		return Amount{}, fmt.Errorf("amount %q is too large", s)
	}

	var nanos uint64
	if frac != "" {
		v, err := strconv.ParseUint(frac+strings.Repeat("0", nanoDigits-len(frac)), 10, 64)
		if err != nil {
			return Amount{}, fmt.Errorf("parsing amount %q: %w", s, err)
		}
		nanos = v
	}

	total := FromUnits(units).Nanos
	if total > math.MaxUint64-nanos {
		return Amount{}, errors.New("amount overflows")
	}

	return Amount{Nanos: total + nanos}, nil
}

// String renders the amount in whole units with up to nine decimals.
func (a Amount) String() string {
	whole := a.Nanos / NanosPerUnit
	frac := a.Nanos % NanosPerUnit

	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}

	fs := fmt.Sprintf("%09d", frac)
	return fmt.Sprintf("%d.%s", whole, strings.TrimRight(fs, "0"))
}

// IsZero reports if the amount carries no value.
func (a Amount) IsZero() bool {
	return a.Nanos == 0
}

// =============================================================================

// Coin identifies the kind of asset an amount is denominated in.
type Coin uint8

// Set of coins the chain knows about.
const (
	CoinRadcoin Coin = iota + 1
	CoinBWToken
)

var coinNames = map[Coin]string{
	CoinRadcoin: "radcoin",
	CoinBWToken: "bwtoken",
}

// ParseCoin returns the coin for its serialized name.
func ParseCoin(name string) (Coin, error) {
	for c, n := range coinNames {
		if n == name {
			return c, nil
		}
	}

	return 0, fmt.Errorf("unknown coin %q", name)
}

// String returns the serialized name of the coin.
func (c Coin) String() string {
	if n, exists := coinNames[c]; exists {
		return n
	}
	return fmt.Sprintf("coin(%d)", uint8(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Coin) MarshalText() ([]byte, error) {
	n, exists := coinNames[c]
	if !exists {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCoin, uint8(c))
	}
	return []byte(n), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Coin) UnmarshalText(data []byte) error {
	coin, err := ParseCoin(string(data))
	if err != nil {
		return err
	}

	*c = coin
	return nil
}
