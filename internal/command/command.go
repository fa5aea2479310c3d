package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Command is one named operation the interactive shell or RemoteController
// can invoke, mirroring the original's Command base class: a unique name,
// optional aliases, an embedded flag set for option parsing, and an
// Execute that must not block for long (it runs from the dispatcher that
// handles RPC requests).
type Command interface {
	Name() string
	AliasNames() []string
	Help() string
	Flags() *pflag.FlagSet
	Execute(ctx context.Context) (string, error)
}

var (
	// ErrNotFound is returned by Invoker.Execute when no command name or
	// alias matches the first token of the input line.
	ErrNotFound = errors.New("command: not found")
	// ErrDuplicateName is returned by Register when name or one of its
	// aliases is already registered.
	ErrDuplicateName = errors.New("command: name already registered")
)

// Invoker is the trie-backed command registry and dispatcher, the Go
// counterpart of CommandInvoker (`command_invoker.cpp`).
type Invoker struct {
	byName *trie[Command]
}

// NewInvoker creates an empty Invoker.
func NewInvoker() *Invoker {
	return &Invoker{byName: newTrie[Command]()}
}

// Register adds cmd under its name and every alias it declares.
func (i *Invoker) Register(cmd Command) error {
	names := append([]string{cmd.Name()}, cmd.AliasNames()...)
	for _, n := range names {
		if _, exists := i.byName.Search(n); exists {
			return fmt.Errorf("%w: %s", ErrDuplicateName, n)
		}
	}
	for _, n := range names {
		i.byName.Insert(n, cmd)
	}
	return nil
}

// Unregister removes cmd's name and every alias it declares.
func (i *Invoker) Unregister(cmd Command) {
	names := append([]string{cmd.Name()}, cmd.AliasNames()...)
	for _, n := range names {
		i.byName.Remove(n)
	}
}

// Lookup returns the command registered under name, if any.
func (i *Invoker) Lookup(name string) (Command, bool) {
	return i.byName.Search(name)
}

// Execute splits line into a command name and arguments, parses the
// arguments through the matched command's flag set, and runs it.
func (i *Invoker) Execute(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	cmd, ok := i.byName.Search(fields[0])
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, fields[0])
	}
	flags := cmd.Flags()
	if err := flags.Parse(fields[1:]); err != nil {
		return "", fmt.Errorf("command %s: %w", fields[0], err)
	}
	return cmd.Execute(ctx)
}

// Names returns every registered command's primary name, for help listing.
// Aliases are not included; each Command's Help() documents its own
// aliases.
func (i *Invoker) Names() []string {
	seen := make(map[string]bool)
	var out []string
	i.byName.Walk(func(key string, cmd Command) {
		if cmd.Name() == key && !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	})
	return out
}
