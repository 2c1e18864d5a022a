package component

import (
	"context"
	"log/slog"
	"sort"
	"strings"
)

type ActionFunc func(ctx context.Context, ci *Interface) error

type Actions map[string]ActionFunc

// Execute runs the action named by the configuration.
func (ci *Interface) Execute(ctx context.Context, actions Actions) error {
	name := ci.Config.ActionName()
	action, ok := actions[name]
	if !ok {
		var known []string
		for k := range actions {
			known = append(known, k)
		}
		sort.Strings(known)
		return NewUserError("unsupported action %q, expected one of [%s]", name, strings.Join(known, ", "))
	}
	slog.Info("running action", "action", name)
	return action(ctx, ci)
}
