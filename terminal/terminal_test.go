package terminal

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	ai "github.com/spetersoncode/aiagent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Question(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("hello there\r\nsecond\nlast"), &out)

	got, err := p.Question("You")
	require.NoError(t, err)
	assert.Equal(t, "hello there", got)
	assert.Contains(t, out.String(), "You: ")

	got, err = p.Question("You")
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	got, err = p.Question("You")
	require.NoError(t, err)
	assert.Equal(t, "last", got)

	_, err = p.Question("You")
	assert.ErrorIs(t, err, io.EOF)
}

func TestCommand(t *testing.T) {
	cmd, ok := Command("  EXIT ")
	assert.True(t, ok)
	assert.Equal(t, CommandExit, cmd)

	_, ok = Command("exit now")
	assert.False(t, ok)
}

func TestComplete(t *testing.T) {
	assert.Equal(t, []string{CommandClear}, Complete("cl"))
	assert.Equal(t, []string{CommandHelp, CommandExit, CommandClear}, Complete("zzz"))
}

func TestHelpAndClear(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Help(&buf))
	assert.Contains(t, buf.String(), "help: Show this help message")

	buf.Reset()
	require.NoError(t, Clear(&buf))
	assert.Equal(t, "\x1bc", buf.String())
}

func TestSleep(t *testing.T) {
	require.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}

func TestParseEnvKeys(t *testing.T) {
	t.Setenv("AITEST_TOKEN_B", "b-value")
	t.Setenv("AITEST_TOKEN_A", "a-value")
	t.Setenv("AITEST_TOKEN_EMPTY", "")
	t.Setenv("AITEST_OTHER", "ignored")

	keys, values := ParseEnvKeys("AITEST_TOKEN_")
	assert.Equal(t, []string{"AITEST_TOKEN_A", "AITEST_TOKEN_B"}, keys)
	assert.Equal(t, []string{"a-value", "b-value"}, values)

	keys, values = ParseEnvKeys("AITEST_NOTHING_")
	assert.Empty(t, keys)
	assert.Empty(t, values)
}

func TestRoleLabel(t *testing.T) {
	assert.Contains(t, RoleLabel(ai.RoleUser), "You")
	assert.Contains(t, RoleLabel(ai.RoleAssistant), "Assistant")
	assert.Contains(t, RoleLabel(ai.RoleSystem), "system")
}
