package toolbox

import (
	"fmt"
	"strings"

	"github.com/pranavj13/agentdesk/internal/agentsvc"
	"github.com/pranavj13/agentdesk/internal/dispatch"
)

// StockQuote is the simulated market data payload.
type StockQuote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	ChangePercent float64 `json:"change_percent"`
}

type stockParams struct {
	Symbol string `json:"symbol" jsonschema:"required,description=Ticker symbol such as MSFT"`
}

var stockTable = map[string]StockQuote{
	"MSFT": {Symbol: "MSFT", Price: 428.15, Currency: "USD", ChangePercent: 0.42},
	"AAPL": {Symbol: "AAPL", Price: 231.80, Currency: "USD", ChangePercent: -0.18},
	"GOOG": {Symbol: "GOOG", Price: 182.44, Currency: "USD", ChangePercent: 1.03},
	"NVDA": {Symbol: "NVDA", Price: 131.27, Currency: "USD", ChangePercent: 2.35},
}

// StockTool reports a simulated stock quote for a ticker symbol.
func StockTool() dispatch.Tool {
	return dispatch.Tool{
		Def: agentsvc.ToolDef{
			Name:        "get_stock_price",
			Description: "Get the latest stock price for a ticker symbol.",
			Parameters:  agentsvc.Schema(stockParams{}),
		},
		Run: func(params map[string]any) (any, error) {
			symbol, err := stringArg(params, "symbol")
			if err != nil {
				return nil, err
			}
			symbol = strings.ToUpper(symbol)
			quote, ok := stockTable[symbol]
			if !ok {
				return nil, fmt.Errorf("no quote available for %s", symbol)
			}
			return quote, nil
		},
	}
}
