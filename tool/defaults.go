package tool

import (
	"context"
	"sort"

	"github.com/spetersoncode/aiagent/clock"
)

// GetCurrentTimeName is the reserved name of the current-time tool.
const GetCurrentTimeName = "getCurrentTime"

type noArgs struct{}

// Defaults returns the reserved tool set, reading time from the default clock.
func Defaults() *Registry {
	return DefaultsWithClock(clock.Default())
}

// DefaultsWithClock returns the reserved tool set using c.
func DefaultsWithClock(c clock.Clock) *Registry {
	return NewRegistry().Add(
		Func(GetCurrentTimeName,
			"Get the current date and time in real-time. This tool does not require any parameters. "+
				"It returns the current time in a standard format. Use this tool when user ask you for "+
				"current time or date or anything that related to time.",
			func(ctx context.Context, _ noArgs) (string, error) {
				return c.HumanReadable(), nil
			}),
	)
}

// Union returns a new registry holding every tool of reserved and user.
// A user tool named like a reserved tool fails with *ErrReservedName;
// the first offending name in sorted order is reported. Either side may be nil.
func Union(reserved, user *Registry) (*Registry, error) {
	out := NewRegistry()
	for _, rt := range reserved.entries() {
		out.tools[rt.tool.Name] = rt
	}

	userTools := user.entries()
	sort.Slice(userTools, func(i, j int) bool { return userTools[i].tool.Name < userTools[j].tool.Name })
	for _, rt := range userTools {
		if _, taken := out.tools[rt.tool.Name]; taken {
			return nil, &ErrReservedName{Name: rt.tool.Name}
		}
		out.tools[rt.tool.Name] = rt
	}
	return out, nil
}
