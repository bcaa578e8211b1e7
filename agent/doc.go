// Package agent answers prompts with a language model selected from an
// identifier, running requested tools and falling back to a second model when
// the first one is rate limited.
//
// # Basic Usage
//
//	a, err := agent.New(ctx, agent.Config{
//	    Endpoint:      "https://llm.example.com/v1",
//	    APIKey:        os.Getenv("AIAGENT_API_KEY"),
//	    Model:         "gpt-4o-mini",
//	    FallbackModel: "gemini-2.0-flash",
//	    SystemPrompt:  agent.SystemPrompt{File: "prompts/system.txt"},
//	})
//	if err != nil {
//	    return err
//	}
//
//	res, err := a.StartChat(ctx, agent.ChatParams{Prompt: "Hello"})
//	fmt.Println(res.Text.Text)
//
// Identifiers starting with "gemini-" use the Gemini API and identifiers
// starting with "gpt-" use the OpenAI API. Anything else selects gpt-4o.
//
// # Streaming
//
// With StreamStream, the result carries a StreamResult whose TextStream
// yields fragments as they arrive:
//
//	res, err := a.StartChat(ctx, agent.ChatParams{Prompt: "Tell me a story", StreamMethod: agent.StreamStream})
//	for delta := range res.Stream.TextStream {
//	    fmt.Print(delta)
//	}
//	resp, err := res.Stream.Response()
//
// # Query Builder
//
// Query validates and assembles a conversation once; the builder can then
// generate text, a stream or a schema-checked JSON object:
//
//	b, err := a.Query(agent.QueryParams{Session: history, Prompt: "Summarize", Media: media})
//	var out Summary
//	_, err = b.GenerateObject(ctx, ai.ResponseSchema{Name: "summary", Schema: ai.MustSchemaFor[Summary]()}, &out)
//
// # Fallback
//
// When a call fails with a rate-limit or quota error and FallbackModel is
// set, the agent switches to the fallback model and re-issues the same
// request, up to the retry ceiling (one retry by default, see WithRetry).
// The switch is permanent for the agent's lifetime and visible to concurrent
// calls. Any other error is returned as is.
package agent
