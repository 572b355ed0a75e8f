package event

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidSalesWindow = errors.New("sales window start must be before end")
	ErrEmptyCurrency      = errors.New("currency cannot be empty")
	ErrNegativePrice      = errors.New("price cannot be negative")
)

// Money is an amount in minor units (cents) of a single currency.
// Conversion between currencies is out of scope; the engine only
// does amount bookkeeping.
type Money struct {
	amountCents int64
	currency    string
}

func NewMoney(amountCents int64, currency string) (Money, error) {
	if amountCents < 0 {
		return Money{}, ErrNegativePrice
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return Money{}, ErrEmptyCurrency
	}
	return Money{amountCents: amountCents, currency: currency}, nil
}

func (m Money) AmountCents() int64 { return m.amountCents }
func (m Money) Currency() string   { return m.currency }

func (m Money) MultiplyQty(qty int) Money {
	return Money{amountCents: m.amountCents * int64(qty), currency: m.currency}
}

// SalesWindow is the half-open interval [start, end) during which
// primary sales are allowed.
type SalesWindow struct {
	start time.Time
	end   time.Time
}

func NewSalesWindow(start, end time.Time) (SalesWindow, error) {
	if !start.Before(end) {
		return SalesWindow{}, ErrInvalidSalesWindow
	}
	return SalesWindow{start: start, end: end}, nil
}

func (w SalesWindow) Start() time.Time { return w.start }
func (w SalesWindow) End() time.Time   { return w.end }

func (w SalesWindow) Contains(now time.Time) bool {
	return !now.Before(w.start) && now.Before(w.end)
}

type Venue struct {
	Name     string
	Address  string
	City     string
	Country  string
	Capacity int
}

type Perk struct {
	Name        string
	Description string
	Category    PerkCategory
}

// NFTMetadata on a ticket type opts its tickets into collectible minting.
type NFTMetadata struct {
	Name         string
	Description  string
	Image        string
	AnimationURL *string
	ExternalURL  *string
	Attributes   []NFTAttribute
}

type NFTAttribute struct {
	TraitType string
	Value     string
}
