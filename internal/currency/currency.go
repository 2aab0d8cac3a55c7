package currency

import "github.com/shopspring/decimal"

// Currency describes a display currency and its exchange rate against USD.
// Rate is the number of currency units per one US dollar.
type Currency struct {
	Code   string          `json:"code"`
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"rate"`
}

// Currencies is the static conversion table. Entry amounts are stored in USD
// and converted for display at read time, so rates here only affect new
// entries and display totals, never historical usd_amount values.
var Currencies = []Currency{
	{"USD", "$", decimal.NewFromInt(1)},
	{"EUR", "€", decimal.NewFromFloat(0.92)},
	{"GBP", "£", decimal.NewFromFloat(0.79)},
	{"RUB", "₽", decimal.NewFromFloat(95.0)},
	{"UAH", "₴", decimal.NewFromFloat(41.0)},
	{"KZT", "₸", decimal.NewFromFloat(480.0)},
	{"JPY", "¥", decimal.NewFromFloat(150.0)},
	{"CNY", "¥", decimal.NewFromFloat(7.2)},
	{"INR", "₹", decimal.NewFromFloat(83.0)},
	{"BRL", "R$", decimal.NewFromFloat(5.4)},
	{"TRY", "₺", decimal.NewFromFloat(34.0)},
	{"PLN", "zł", decimal.NewFromFloat(4.0)},
}

var byCode = func() map[string]Currency {
	m := make(map[string]Currency, len(Currencies))
	for _, c := range Currencies {
		m[c.Code] = c
	}
	return m
}()

// Lookup returns the currency for a code and whether it is known.
func Lookup(code string) (Currency, bool) {
	c, ok := byCode[code]
	return c, ok
}

// IsSupported reports whether the code exists in the conversion table.
func IsSupported(code string) bool {
	_, ok := byCode[code]
	return ok
}

// Convert converts a USD amount into the target currency. An unknown code
// degrades to identity (the amount is treated as already-USD) so a
// misconfigured currency never breaks a page.
func Convert(amountUSD decimal.Decimal, code string) decimal.Decimal {
	c, ok := byCode[code]
	if !ok {
		return amountUSD
	}
	return amountUSD.Mul(c.Rate)
}

// ToUSD converts an amount denominated in the given currency to USD, using
// the rate in effect right now. Callers snapshot the result; it is never
// recomputed against a later table.
func ToUSD(amount decimal.Decimal, code string) decimal.Decimal {
	c, ok := byCode[code]
	if !ok || c.Rate.IsZero() {
		return amount
	}
	return amount.DivRound(c.Rate, 8)
}

// Symbol returns the display symbol for a code, falling back to "$" for
// unknown codes.
func Symbol(code string) string {
	c, ok := byCode[code]
	if !ok {
		return "$"
	}
	return c.Symbol
}
