// Package scenarios bundles the demo use cases: each scenario pairs agent
// instructions with declared tools and drives the shared turn executor.
package scenarios

import (
	"fmt"
	"strings"
)

// Scenario describes one demo use case.
type Scenario struct {
	// Name is the CLI identifier, e.g. "functions".
	Name string
	// Title is the human-facing name.
	Title string
	// Description explains what the scenario demonstrates.
	Description string
	// Instructions are handed to the service at agent-config time.
	Instructions string
	// Tools lists registry tool names declared to the service. Empty means
	// a plain chat agent.
	Tools []string
	// FileSearch provisions an uploaded document and a vector store as tool
	// resources for the agent.
	FileSearch bool
	// Samples are example prompts shown to the user.
	Samples []string
}

// All returns every demo scenario in menu order.
func All() []Scenario {
	return []Scenario{
		{
			Name:         "chat",
			Title:        "Basic chat",
			Description:  "Plain conversation with no tools declared.",
			Instructions: "You are a concise, friendly assistant. Answer in a few sentences.",
			Samples: []string{
				"Explain what an exponential backoff is.",
			},
		},
		{
			Name:        "functions",
			Title:       "Function calling",
			Description: "Weather and stock lookups executed locally on the service's request.",
			Instructions: "You are a helpful assistant. Use the get_weather and " +
				"get_stock_price functions to answer questions about weather and " +
				"markets. Quote the returned values directly.",
			Tools: []string{"get_weather", "get_stock_price"},
			Samples: []string{
				"What's the weather in Seattle?",
				"How is MSFT trading today?",
			},
		},
		{
			Name:        "knowledge",
			Title:       "Knowledge base",
			Description: "Handbook search plus service-side file search over an uploaded document.",
			Instructions: "You answer questions about company policy. Use " +
				"search_knowledge_base for handbook topics and the attached " +
				"documents for product details. Cite the source you used.",
			Tools:      []string{"search_knowledge_base"},
			FileSearch: true,
			Samples: []string{
				"How do I reset my workspace password?",
				"What does the product overview say about pricing?",
			},
		},
		{
			Name:        "orders",
			Title:       "Order lookup",
			Description: "Structured answers over a simulated order database.",
			Instructions: "You are an order-support assistant. Use lookup_order to " +
				"fetch order records. Reply with a short JSON object containing " +
				"order_id, status, and a one-sentence summary.",
			Tools: []string{"lookup_order"},
			Samples: []string{
				"Where is order ORD-1001?",
			},
		},
	}
}

// Find returns the scenario with the given name.
func Find(name string) (Scenario, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range All() {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("unknown scenario %q", name)
}
