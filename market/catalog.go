package market

import "github.com/shopspring/decimal"

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultListings is the reference catalog the simulated desk opens with.
func DefaultListings() []Listing {
	return []Listing{
		listing("AAPL", "Apple Inc.", "Technology", 2_750_000_000_000, "175.43", "173.21", "1.28", 57_382_109),
		listing("MSFT", "Microsoft Corporation", "Technology", 2_400_000_000_000, "321.87", "325.12", "-1.00", 28_473_921),
		listing("AMZN", "Amazon.com Inc.", "Consumer Cyclical", 1_350_000_000_000, "132.21", "131.85", "0.27", 35_762_981),
		listing("GOOGL", "Alphabet Inc.", "Communication Services", 1_780_000_000_000, "141.50", "140.35", "0.82", 19_283_746),
		listing("TSLA", "Tesla, Inc.", "Automotive", 580_000_000_000, "185.64", "194.05", "-4.33", 98_654_321),
		listing("META", "Meta Platforms, Inc.", "Technology", 750_000_000_000, "294.37", "287.42", "2.42", 25_637_481),
		listing("NFLX", "Netflix, Inc.", "Entertainment", 210_000_000_000, "485.92", "490.13", "-0.86", 8_765_432),
		listing("DIS", "The Walt Disney Company", "Entertainment", 205_000_000_000, "112.75", "110.25", "2.27", 12_354_987),
	}
}

func listing(sym, name, sector string, mcap int64, price, prev, pct string, vol int64) Listing {
	return Listing{
		Stock: Stock{Symbol: sym, Name: name, Sector: sector, MarketCap: mcap},
		Quote: Quote{
			Symbol:        sym,
			Price:         d(price),
			PreviousPrice: d(prev),
			ChangePercent: d(pct),
			Volume:        vol,
		},
	}
}

// Catalog indexes stocks by symbol.
type Catalog map[string]Stock

// NewCatalog builds a catalog from listings.
func NewCatalog(listings []Listing) Catalog {
	c := make(Catalog, len(listings))
	for _, l := range listings {
		c[l.Symbol] = l.Stock
	}
	return c
}

// Name returns the display name for sym, or "" when the symbol is unknown.
func (c Catalog) Name(sym string) string {
	return c[sym].Name
}
