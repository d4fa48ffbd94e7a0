package feed

// Underlying is a ticker known to list options on the delayed feed.
type Underlying struct {
	Ticker      string
	Description string
}

// Catalog is the default probe list.
var Catalog = []Underlying{
	// Major US indices
	{"SPX", "S&P 500 Index"},
	{"SPY", "SPDR S&P 500 ETF"},
	{"NDX", "NASDAQ-100 Index"},
	{"QQQ", "Invesco QQQ ETF"},
	{"DJX", "Dow Jones Index"},
	{"DIA", "SPDR Dow Jones ETF"},
	{"RUT", "Russell 2000 Index"},
	{"IWM", "iShares Russell 2000 ETF"},
	{"XSP", "Mini-SPX Index"},
	{"XND", "Mini-NDX Index"},
	{"MRUT", "Mini-Russell 2000 Index"},

	// Volatility
	{"VIX", "CBOE Volatility Index"},
	{"VXX", "iPath S&P 500 VIX ETF"},
	{"UVXY", "ProShares Ultra VIX Short-Term"},

	// Sectors
	{"XLF", "Financial Select Sector SPDR"},
	{"XLK", "Technology Select Sector SPDR"},
	{"XLE", "Energy Select Sector SPDR"},
	{"XLI", "Industrial Select Sector SPDR"},
	{"XLV", "Health Care Select Sector SPDR"},
	{"XLY", "Consumer Discretionary SPDR"},
	{"XLP", "Consumer Staples SPDR"},
	{"XLU", "Utilities Select Sector SPDR"},
	{"XLB", "Materials Select Sector SPDR"},

	// Other ETFs
	{"GLD", "SPDR Gold Shares"},
	{"SLV", "iShares Silver Trust"},
	{"TLT", "iShares 20+ Year Treasury"},
	{"HYG", "iShares High Yield Corp Bond"},
	{"EEM", "iShares MSCI Emerging Markets"},
	{"EWZ", "iShares MSCI Brazil"},
	{"FXI", "iShares China Large-Cap"},
	{"IYR", "iShares U.S. Real Estate"},
	{"USO", "United States Oil Fund"},
	{"GDX", "VanEck Gold Miners ETF"},
	{"ARKK", "ARK Innovation ETF"},
	{"TQQQ", "ProShares UltraPro QQQ"},
	{"SQQQ", "ProShares UltraPro Short QQQ"},
	{"SPXU", "ProShares UltraPro Short S&P500"},
	{"UPRO", "ProShares UltraPro S&P500"},
	{"EFA", "iShares MSCI EAFE ETF"},
	{"VEA", "Vanguard FTSE Developed Markets"},
	{"VWO", "Vanguard FTSE Emerging Markets"},
	{"AGG", "iShares Core U.S. Aggregate Bond"},
	{"BND", "Vanguard Total Bond Market"},
	{"JNK", "SPDR High Yield Bond"},
	{"LQD", "iShares Investment Grade Corp Bond"},
	{"UNG", "United States Natural Gas Fund"},
	{"DBA", "Invesco DB Agriculture Fund"},
	{"DBB", "Invesco DB Base Metals Fund"},

	// CBOE proprietary
	{"CLL", "CBOE S&P 500 Call Write Index"},
	{"PUT", "CBOE S&P 500 PutWrite Index"},
	{"MXEA", "MSCI EAFE Index"},
	{"MXEF", "MSCI Emerging Markets Index"},
}

var catalogIndex = func() map[string]string {
	m := make(map[string]string, len(Catalog))
	for _, u := range Catalog {
		m[u.Ticker] = u.Description
	}
	return m
}()

// CatalogTickers returns the tickers of Catalog in order.
func CatalogTickers() []string {
	out := make([]string, len(Catalog))
	for i, u := range Catalog {
		out[i] = u.Ticker
	}
	return out
}

// Describe returns the catalog description of ticker, or "".
func Describe(ticker string) string {
	return catalogIndex[NormalizeTicker(ticker)]
}
