// Package tool manages the functions a model may call during generation.
//
// Define tool arguments as a struct with tags, then bind a typed function:
//
//	type WeatherArgs struct {
//	    Location string `json:"location" desc:"City name" required:"true"`
//	    Unit     string `json:"unit" desc:"Temperature unit" enum:"celsius,fahrenheit"`
//	}
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("get_weather", "Get current weather",
//	        func(ctx context.Context, args WeatherArgs) (string, error) {
//	            return fmt.Sprintf(`{"temp": 31, "location": %q}`, args.Location), nil
//	        }),
//	)
//
// Arguments are validated against the tool's JSON schema before the handler
// runs. A call that fails validation produces an error result that is sent
// back to the model instead of failing the generation.
//
// # Reserved Tools
//
// [Defaults] returns the tools every agent carries (currently getCurrentTime).
// [Union] merges caller tools with them and rejects a caller tool that reuses
// a reserved name.
package tool
