// Command chat is an interactive terminal conversation with an agent.
//
// Settings come from a YAML file (-config) or from AIAGENT_* variables,
// optionally loaded from a .env file (-env). History is kept per user in the
// configured session backend, so restarting with the same -user resumes
// the conversation.
//
// Usage:
//
//	go run ./cmd/chat -user alice
//	go run ./cmd/chat -config agent.yaml -user alice -mcp ./search-server
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"
	ai "github.com/spetersoncode/aiagent"
	"github.com/spetersoncode/aiagent/agent"
	"github.com/spetersoncode/aiagent/config"
	"github.com/spetersoncode/aiagent/event"
	"github.com/spetersoncode/aiagent/internal/logger"
	"github.com/spetersoncode/aiagent/mcp"
	"github.com/spetersoncode/aiagent/model"
	"github.com/spetersoncode/aiagent/session"
	"github.com/spetersoncode/aiagent/terminal"
	"github.com/spetersoncode/aiagent/tool"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file (default: AIAGENT_* environment)")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	user := flag.String("user", "", "user name owning the session (required)")
	mcpCommand := flag.String("mcp", "", "MCP server command whose tools are offered to the model")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *configPath, *envFile, *user, *mcpCommand); err != nil {
		fmt.Fprintln(os.Stderr, terminal.ErrorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func loadConfig(path, envFile string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FromEnv(envFile)
}

func run(ctx context.Context, configPath, envFile, userName, mcpCommand string) error {
	if userName == "" {
		return errors.New("-user is required")
	}

	cfg, err := loadConfig(configPath, envFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closeLog, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		return err
	}
	defer closeLog.Close()

	scfg := cfg.SessionConfig()
	scfg.Logger = log
	sessions, err := session.New(scfg)
	if err != nil {
		return err
	}
	defer sessions.Close()

	sess, err := sessions.Use(ctx, cfg.Session.Backend, session.Options{User: ai.UserIdentity{Name: userName}})
	if err != nil {
		return err
	}

	acfg := cfg.AgentConfig()
	if mcpCommand != "" {
		remote, err := mcp.NewRemoteRegistry(ctx, mcpCommand, os.Environ())
		if err != nil {
			return err
		}
		defer remote.Close()

		acfg.Tools = tool.NewRegistry()
		if err := remote.RegisterInto(acfg.Tools); err != nil {
			return err
		}
		log.Info().Int("tools", remote.Len()).Str("command", mcpCommand).Msg("mcp tools registered")
	}

	events := event.NewChannel()
	go printEvents(os.Stdout, events)

	a, err := agent.New(ctx, acfg,
		agent.WithLogger(log),
		agent.WithRetry(cfg.RetryConfig()),
		agent.WithEvents(events),
	)
	if err != nil {
		return err
	}

	return repl(ctx, a, sess, log)
}

func repl(ctx context.Context, a *agent.Agent, sess *session.Session, log zerolog.Logger) error {
	out := os.Stdout
	prompter := terminal.Stdio()

	fmt.Fprintf(out, "%s %s (%d messages in history). Type %q for commands.\n\n",
		terminal.DimStyle.Render("model"), a.Model(), len(sess.History), terminal.CommandHelp)

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := prompter.Question(terminal.RoleLabel(ai.RoleUser))
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if cmd, ok := terminal.Command(line); ok {
			switch cmd {
			case terminal.CommandExit:
				return nil
			case terminal.CommandClear:
				_ = terminal.Clear(out)
			case terminal.CommandHelp:
				_ = terminal.Help(out)
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		reply, err := ask(ctx, a, sess, line, out)
		if err != nil {
			fmt.Fprintln(out, terminal.ErrorStyle.Render(err.Error()))
			continue
		}

		if err := sess.SaveText(ctx, ai.RoleUser, line); err != nil {
			return err
		}
		if err := sess.SaveText(ctx, ai.RoleAssistant, reply); err != nil {
			return err
		}
		if err := sess.Reload(ctx); err != nil {
			return err
		}
		log.Debug().Int("history", len(sess.History)).Msg("turn saved")
	}
}

// ask streams the reply for prompt to out and returns its full text.
func ask(ctx context.Context, a *agent.Agent, sess *session.Session, prompt string, out io.Writer) (string, error) {
	res, err := a.StartChat(ctx, agent.ChatParams{
		StreamMethod: agent.StreamStream,
		Session:      sess.History,
		Prompt:       prompt,
	})
	if err != nil {
		return "", err
	}

	fmt.Fprintf(out, "%s: ", terminal.RoleLabel(ai.RoleAssistant))
	var sb strings.Builder
	for chunk := range res.Stream.TextStream {
		sb.WriteString(chunk)
		fmt.Fprint(out, chunk)
	}
	fmt.Fprint(out, "\n\n")

	resp, err := res.Stream.Response()
	if err != nil {
		return "", err
	}
	if resp != nil {
		fmt.Fprintln(out, terminal.DimStyle.Render(usageLine(a.Model(), resp.Usage)))
	}
	return sb.String(), nil
}

// usageLine summarizes token use and, for known models, its estimated cost.
func usageLine(id string, usage ai.Usage) string {
	line := fmt.Sprintf("%s · %d in / %d out tokens", id, usage.InputTokens, usage.OutputTokens)
	if p, ok := model.LookupPricing(id); ok {
		line += fmt.Sprintf(" · ~$%.4f", p.Cost(usage))
	}
	return line
}

// printEvents reports tool activity and model fallbacks between replies.
func printEvents(w io.Writer, events <-chan event.Event) {
	for e := range events {
		switch e.Type {
		case event.ToolCallStart:
			if e.ToolCall != nil {
				fmt.Fprintln(w, terminal.ToolStyle.Render("\n  → "+e.ToolCall.Name))
			}
		case event.ModelFallback:
			fmt.Fprintln(w, terminal.DimStyle.Render(fmt.Sprintf("\n  model %s rate limited, switching to %s", e.From, e.Model)))
		}
	}
}
