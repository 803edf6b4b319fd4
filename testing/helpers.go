// Package testing provides fixtures and assertions for code that renders
// views with veil.
package testing

import (
	"context"
	stdtesting "testing"

	"github.com/stretchr/testify/require"
	"github.com/zoobzio/veil"
	"github.com/zoobzio/veil/json"
)

// Address is a nested fixture without sensitive fields.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Zip    string `json:"zip"`
}

// Customer carries one field per built-in masker family.
type Customer struct {
	ID      string   `json:"id"`
	Name    string   `json:"name" view.mask:"name"`
	Email   string   `json:"email" view.mask:"email"`
	Phone   string   `json:"phone" view.mask:"phone"`
	Card    string   `json:"card,omitempty" view.mask:"card"`
	Address Address  `json:"address"`
	Tags    []string `json:"tags,omitempty"`
}

// Line is one order line.
type Line struct {
	SKU      string  `json:"sku"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order nests a Customer and a collection of lines.
type Order struct {
	ID       string   `json:"id"`
	Customer Customer `json:"customer"`
	Lines    []Line   `json:"lines"`
	Note     string   `json:"note,omitempty"`
}

// SampleCustomer returns a fully populated Customer.
func SampleCustomer() Customer {
	return Customer{
		ID:    "c-1",
		Name:  "Alice Liddell",
		Email: "alice@example.com",
		Phone: "13812345678",
		Card:  "4111 1111 1111 1234",
		Address: Address{
			Street: "2 Rabbit Hole",
			City:   "Oxford",
			Zip:    "OX1",
		},
		Tags: []string{"vip"},
	}
}

// SampleOrder returns an Order for SampleCustomer with two lines.
func SampleOrder() Order {
	return Order{
		ID:       "o-1",
		Customer: SampleCustomer(),
		Lines: []Line{
			{SKU: "tea", Quantity: 2, Price: 4.5},
			{SKU: "cake", Quantity: 1, Price: 3},
		},
		Note: "leave at the door",
	}
}

// NewProcessor returns a processor backed by the JSON codec.
func NewProcessor(tb stdtesting.TB) *veil.Processor {
	tb.Helper()
	proc, err := veil.NewProcessor(json.New())
	require.NoError(tb, err)
	return proc
}

// MustIndex compiles view, failing the test on error.
func MustIndex(tb stdtesting.TB, view veil.View) *veil.RuleIndex {
	tb.Helper()
	index, err := veil.BuildIndex(view)
	require.NoError(tb, err)
	return index
}

// Render renders v through proc, failing the test on error.
func Render(tb stdtesting.TB, proc *veil.Processor, index *veil.RuleIndex, v any) []byte {
	tb.Helper()
	data, err := proc.Render(context.Background(), index, v)
	require.NoError(tb, err)
	return data
}

// AssertJSON fails the test unless got encodes the same JSON value as want.
// Key order and whitespace are ignored.
func AssertJSON(tb stdtesting.TB, want string, got []byte) {
	tb.Helper()
	require.JSONEq(tb, want, string(got))
}
