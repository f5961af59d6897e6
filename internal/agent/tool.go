package agent

import (
	"context"
	"sort"
	"strings"
)

// Tool is one capability the agent loop can select. The tool set is closed:
// the loop dispatches on the registered name only, never on arbitrary
// callables.
type Tool struct {
	Name        string
	Description string
	Run         func(ctx context.Context, input string) (string, error)
}

// Registry maps tool names to their implementations.
type Registry map[string]Tool

func NewRegistry(tools ...Tool) Registry {
	r := make(Registry, len(tools))
	for _, t := range tools {
		r[t.Name] = t
	}
	return r
}

// Names returns the registered tool names in stable order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe renders the registry for the model prompt.
func (r Registry) Describe() string {
	var b strings.Builder
	for _, name := range r.Names() {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(r[name].Description)
		b.WriteString("\n")
	}
	return b.String()
}
