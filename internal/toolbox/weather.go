package toolbox

import (
	"strings"

	"github.com/pranavj13/agentdesk/internal/agentsvc"
	"github.com/pranavj13/agentdesk/internal/dispatch"
)

// WeatherReading is the simulated weather payload.
type WeatherReading struct {
	City       string  `json:"city"`
	TempC      float64 `json:"temp_c"`
	Conditions string  `json:"conditions"`
	Humidity   int     `json:"humidity"`
	WindKph    float64 `json:"wind_kph"`
}

// weatherParams is the declared argument schema for get_weather.
type weatherParams struct {
	City string `json:"city" jsonschema:"required,description=City name to report weather for"`
}

var weatherTable = map[string]WeatherReading{
	"seattle":   {City: "Seattle", TempC: 14.5, Conditions: "Light rain", Humidity: 84, WindKph: 11.0},
	"london":    {City: "London", TempC: 11.0, Conditions: "Overcast", Humidity: 78, WindKph: 18.5},
	"tokyo":     {City: "Tokyo", TempC: 22.3, Conditions: "Clear", Humidity: 55, WindKph: 7.2},
	"sydney":    {City: "Sydney", TempC: 19.8, Conditions: "Partly cloudy", Humidity: 62, WindKph: 22.0},
	"bengaluru": {City: "Bengaluru", TempC: 26.1, Conditions: "Scattered showers", Humidity: 70, WindKph: 9.4},
}

// WeatherTool reports simulated weather for a city.
func WeatherTool() dispatch.Tool {
	return dispatch.Tool{
		Def: agentsvc.ToolDef{
			Name:        "get_weather",
			Description: "Get the current weather for a city.",
			Parameters:  agentsvc.Schema(weatherParams{}),
		},
		Run: func(params map[string]any) (any, error) {
			city, err := stringArg(params, "city")
			if err != nil {
				return nil, err
			}
			if reading, ok := weatherTable[strings.ToLower(city)]; ok {
				return reading, nil
			}
			// Unknown cities still get a stable reading; echo the name back
			// so the model can quote it.
			return WeatherReading{
				City:       city,
				TempC:      18.0,
				Conditions: "Fair",
				Humidity:   60,
				WindKph:    10.0,
			}, nil
		},
	}
}
