package toolbox

import (
	"fmt"
	"strings"

	"github.com/pranavj13/agentdesk/internal/agentsvc"
	"github.com/pranavj13/agentdesk/internal/dispatch"
)

// OrderRecord is a simulated database row.
type OrderRecord struct {
	OrderID   string  `json:"order_id"`
	Customer  string  `json:"customer"`
	Status    string  `json:"status"`
	Total     float64 `json:"total"`
	Currency  string  `json:"currency"`
	ShippedTo string  `json:"shipped_to,omitempty"`
}

type orderParams struct {
	OrderID string `json:"order_id" jsonschema:"required,description=Order identifier such as ORD-1001"`
}

var orderTable = map[string]OrderRecord{
	"ORD-1001": {OrderID: "ORD-1001", Customer: "Meena Iyer", Status: "shipped", Total: 129.90, Currency: "USD", ShippedTo: "Austin, TX"},
	"ORD-1002": {OrderID: "ORD-1002", Customer: "Tom Okafor", Status: "processing", Total: 42.00, Currency: "USD"},
	"ORD-1003": {OrderID: "ORD-1003", Customer: "Lena Fischer", Status: "delivered", Total: 310.45, Currency: "EUR", ShippedTo: "Berlin"},
	"ORD-1004": {OrderID: "ORD-1004", Customer: "Meena Iyer", Status: "cancelled", Total: 18.75, Currency: "USD"},
}

// OrderTool looks up a simulated order record by ID.
func OrderTool() dispatch.Tool {
	return dispatch.Tool{
		Def: agentsvc.ToolDef{
			Name:        "lookup_order",
			Description: "Look up an order by its ID and report status, customer, and total.",
			Parameters:  agentsvc.Schema(orderParams{}),
		},
		Run: func(params map[string]any) (any, error) {
			id, err := stringArg(params, "order_id")
			if err != nil {
				return nil, err
			}
			record, ok := orderTable[strings.ToUpper(id)]
			if !ok {
				return nil, fmt.Errorf("no order found with ID %s", id)
			}
			return record, nil
		},
	}
}
