package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	ai "github.com/spetersoncode/aiagent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchArgs struct {
	Query string `json:"query" desc:"Search query" required:"true"`
}

type calcArgs struct {
	A int `json:"a" required:"true"`
	B int `json:"b" required:"true"`
}

func searchTool(name string) Registration {
	return Func(name, "Search the web", func(ctx context.Context, args searchArgs) (string, error) {
		return "result: " + args.Query, nil
	})
}

func TestRegistryAdd(t *testing.T) {
	t.Run("registers single tool with Func", func(t *testing.T) {
		registry := NewRegistry().Add(searchTool("search"))

		assert.Equal(t, 1, registry.Len())
		handler, ok := registry.Get("search")
		assert.True(t, ok)
		assert.NotNil(t, handler)

		def, ok := registry.GetTool("search")
		assert.True(t, ok)
		assert.Equal(t, "Search the web", def.Description)
	})

	t.Run("names and tools are sorted", func(t *testing.T) {
		registry := NewRegistry().Add(searchTool("zeta"), searchTool("alpha"), searchTool("mid"))

		assert.Equal(t, []string{"alpha", "mid", "zeta"}, registry.Names())
		tools := registry.Tools()
		require.Len(t, tools, 3)
		assert.Equal(t, "alpha", tools[0].Name)
		assert.Equal(t, "zeta", tools[2].Name)
	})

	t.Run("panics on duplicate tool name", func(t *testing.T) {
		assert.Panics(t, func() {
			NewRegistry().Add(searchTool("dupe"), searchTool("dupe"))
		})
	})

	t.Run("register reports duplicate", func(t *testing.T) {
		registry := NewRegistry().Add(searchTool("dupe"))
		reg := searchTool("dupe")
		err := registry.Register(reg.Tool, reg.Handler)

		var dup *ErrToolAlreadyRegistered
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "dupe", dup.Name)
	})

	t.Run("rejects schema that does not compile", func(t *testing.T) {
		err := NewRegistry().Register(ai.Tool{
			Name:       "broken",
			Parameters: json.RawMessage(`{"type": 12}`),
		}, func(ctx context.Context, call ai.ToolCall) (string, error) { return "", nil })

		var invalid *ErrInvalidSchema
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("unregister removes the tool", func(t *testing.T) {
		registry := NewRegistry().Add(searchTool("search"))
		registry.Unregister("search")
		registry.Unregister("missing")
		assert.Equal(t, 0, registry.Len())
	})
}

func TestFunc(t *testing.T) {
	t.Run("handler unmarshals arguments", func(t *testing.T) {
		reg := Func("test", "Test", func(ctx context.Context, args searchArgs) (string, error) {
			return "got: " + args.Query, nil
		})

		result, err := reg.Handler(context.Background(), ai.ToolCall{
			ID:        "call_1",
			Name:      "test",
			Arguments: `{"query": "hello world"}`,
		})

		require.NoError(t, err)
		assert.Equal(t, "got: hello world", result)
	})

	t.Run("handler returns error on invalid JSON", func(t *testing.T) {
		reg := searchTool("test")
		_, err := reg.Handler(context.Background(), ai.ToolCall{Name: "test", Arguments: `{invalid json}`})
		assert.Error(t, err)
	})

	t.Run("empty arguments decode as empty object", func(t *testing.T) {
		reg := Func("noop", "No args", func(ctx context.Context, args calcArgs) (string, error) {
			if args.A == 0 && args.B == 0 {
				return "zero", nil
			}
			return "set", nil
		})
		result, err := reg.Handler(context.Background(), ai.ToolCall{Name: "noop"})
		require.NoError(t, err)
		assert.Equal(t, "zero", result)
	})

	t.Run("bind rejects non-struct arguments", func(t *testing.T) {
		_, _, err := Bind("bad", "Bad", func(ctx context.Context, args string) (string, error) {
			return args, nil
		})
		assert.Error(t, err)
	})
}

func TestBindTo(t *testing.T) {
	registry := NewRegistry()
	add := func(ctx context.Context, args calcArgs) (string, error) {
		return fmt.Sprintf("%d", args.A+args.B), nil
	}

	require.NoError(t, BindTo(registry, "add", "Add two numbers", add))
	tl, ok := registry.GetTool("add")
	require.True(t, ok)
	assert.Contains(t, string(tl.Parameters), `"a"`)

	result, err := registry.Execute(context.Background(), ai.ToolCall{ID: "call_1", Name: "add", Arguments: `{"a": 2, "b": 3}`})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "5", result.Content)

	err = BindTo(registry, "add", "Add again", add)
	var dup *ErrToolAlreadyRegistered
	assert.ErrorAs(t, err, &dup)

	err = BindTo(registry, "echo", "Echo", func(ctx context.Context, args string) (string, error) {
		return args, nil
	})
	assert.Error(t, err)
	assert.Equal(t, 1, registry.Len())
}

func TestWithHandler(t *testing.T) {
	schema := json.RawMessage(`{"type": "object"}`)
	reg := WithHandler("custom", "Custom handler", schema, func(ctx context.Context, call ai.ToolCall) (string, error) {
		return "handled", nil
	})

	assert.Equal(t, "custom", reg.Tool.Name)
	assert.Equal(t, schema, reg.Tool.Parameters)
	assert.NotNil(t, reg.Handler)
}

func TestRegistryExecute(t *testing.T) {
	registry := NewRegistry().Add(
		Func("add", "Add two numbers", func(ctx context.Context, args calcArgs) (string, error) {
			return "sum", nil
		}),
		WithHandler("fail", "Always fails", nil, func(ctx context.Context, call ai.ToolCall) (string, error) {
			return "", errors.New("backend down")
		}),
	)

	t.Run("runs handler for valid arguments", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), ai.ToolCall{
			ID:        "call_123",
			Name:      "add",
			Arguments: `{"a": 1, "b": 2}`,
		})

		require.NoError(t, err)
		assert.Equal(t, "call_123", result.ToolCallID)
		assert.Equal(t, "add", result.Name)
		assert.Equal(t, "sum", result.Content)
		assert.False(t, result.IsError)
	})

	t.Run("missing required argument becomes error result", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), ai.ToolCall{
			ID:        "call_1",
			Name:      "add",
			Arguments: `{"a": 1}`,
		})

		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, "add", result.Name)
		assert.Contains(t, result.Content, "invalid arguments for add")
		assert.Contains(t, result.Content, "b")
	})

	t.Run("wrong argument type becomes error result", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), ai.ToolCall{
			ID:        "call_2",
			Name:      "add",
			Arguments: `{"a": "one", "b": 2}`,
		})

		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("malformed JSON becomes error result", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), ai.ToolCall{Name: "add", Arguments: `{"a":`})

		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, result.Content, "not valid JSON")
	})

	t.Run("handler failure becomes error result", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), ai.ToolCall{ID: "call_3", Name: "fail"})

		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, "backend down", result.Content)
	})

	t.Run("unknown tool is an error", func(t *testing.T) {
		_, err := registry.Execute(context.Background(), ai.ToolCall{Name: "missing"})

		var notFound *ErrToolNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "missing", notFound.Name)
	})
}
