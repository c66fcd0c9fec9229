// Package pricing turns a cake configuration into a quote.
package pricing

import (
	"math"
	"unicode/utf8"
)

// Product types.
const (
	ProductCake     = "cake"
	ProductCupcakes = "cupcakes"
	ProductCookies  = "cookies"
)

// Fee schedule in dollars.
const (
	CakeTierPrice     = 65.0
	CupcakeDozenPrice = 36.0
	CookieDozenPrice  = 30.0
	DecorSimple       = 40.0
	DecorCustom       = 80.0
	FillingPremium    = 15.0
	AddOnPrice        = 10.0
	ServiceFee        = 25.0

	// Themes longer than this many characters count as custom decoration.
	customThemeLength = 50
	noFilling         = "None"
)

// Configuration is the product a customer is asking to be quoted.
type Configuration struct {
	ProductType  string   `json:"productType"`
	Tiers        int      `json:"tiers"`
	Quantity     int      `json:"quantity"`
	Servings     int      `json:"servings,omitempty"`
	Flavor       string   `json:"flavor,omitempty"`
	Filling      string   `json:"filling"`
	ColorPalette []string `json:"colorPalette,omitempty"`
	Theme        string   `json:"theme"`
	Notes        string   `json:"notes,omitempty"`
	AddOns       []string `json:"addOns"`
}

// Breakdown is the itemised quote. ServiceFee is included in Total.
type Breakdown struct {
	Base             float64 `json:"base"`
	Decor            float64 `json:"decor"`
	Filling          float64 `json:"filling"`
	AddOns           float64 `json:"addOns"`
	MarketAdjustment float64 `json:"marketAdjustment"`
	ServiceFee       float64 `json:"serviceFee"`
	Total            float64 `json:"total"`
}

// Calculate prices cfg. Inputs are not validated; zero or negative counts
// produce zero or negative base prices.
func Calculate(cfg Configuration) Breakdown {
	themeLen := utf8.RuneCountInString(cfg.Theme)

	b := Breakdown{
		Base:             base(cfg),
		Decor:            DecorSimple,
		AddOns:           AddOnPrice * float64(len(cfg.AddOns)),
		MarketAdjustment: float64(themeLen/10 + 2*len(cfg.AddOns)),
		ServiceFee:       ServiceFee,
	}
	if themeLen > customThemeLength {
		b.Decor = DecorCustom
	}
	if cfg.Filling != "" && cfg.Filling != noFilling {
		b.Filling = FillingPremium
	}

	b.Total = round(b.Base + b.Decor + b.Filling + b.AddOns + b.MarketAdjustment + b.ServiceFee)
	return b
}

func base(cfg Configuration) float64 {
	switch cfg.ProductType {
	case ProductCupcakes:
		return round(CupcakeDozenPrice * float64(cfg.Quantity) / 12)
	case ProductCookies:
		return round(CookieDozenPrice * float64(cfg.Quantity) / 12)
	default:
		return CakeTierPrice * float64(cfg.Tiers)
	}
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
