package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/paddle-billing/paddle-cli/internal/outfmt"
)

// commandDoc is the machine-readable help printed by --help-json.
type commandDoc struct {
	Path        string          `json:"path"`
	Aliases     []string        `json:"aliases,omitempty"`
	Short       string          `json:"short"`
	Long        string          `json:"long,omitempty"`
	Usage       string          `json:"usage"`
	Example     string          `json:"example,omitempty"`
	Flags       []flagDoc       `json:"flags,omitempty"`
	Subcommands []subcommandDoc `json:"subcommands,omitempty"`
}

type flagDoc struct {
	Name      string   `json:"name"`
	Shorthand string   `json:"shorthand,omitempty"`
	Type      string   `json:"type"`
	Default   string   `json:"default,omitempty"`
	Usage     string   `json:"usage"`
	Required  bool     `json:"required,omitempty"`
	Aliases   []string `json:"aliases,omitempty"`
	Inherited bool     `json:"inherited,omitempty"`
}

type subcommandDoc struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Short   string   `json:"short"`
}

// describeCommand builds the --help-json document for cmd. Hidden alias
// flags are folded into the flag they stand for.
func describeCommand(cmd *cobra.Command) commandDoc {
	doc := commandDoc{
		Path:    cmd.CommandPath(),
		Aliases: cmd.Aliases,
		Short:   cmd.Short,
		Long:    cmd.Long,
		Usage:   cmd.UseLine(),
		Example: cmd.Example,
	}

	aliases := make(map[string][]string)
	collectAliases := func(f *pflag.Flag) {
		if ann := f.Annotations["alias-of"]; len(ann) > 0 {
			aliases[ann[0]] = append(aliases[ann[0]], f.Name)
		}
	}
	cmd.LocalFlags().VisitAll(collectAliases)
	cmd.InheritedFlags().VisitAll(collectAliases)

	seen := make(map[string]bool)
	add := func(inherited bool) func(*pflag.Flag) {
		return func(f *pflag.Flag) {
			if f.Hidden || f.Name == "help" || seen[f.Name] {
				return
			}
			seen[f.Name] = true
			_, required := f.Annotations[cobra.BashCompOneRequiredFlag]
			doc.Flags = append(doc.Flags, flagDoc{
				Name:      f.Name,
				Shorthand: f.Shorthand,
				Type:      f.Value.Type(),
				Default:   f.DefValue,
				Usage:     f.Usage,
				Required:  required,
				Aliases:   aliases[f.Name],
				Inherited: inherited,
			})
		}
	}
	cmd.LocalFlags().VisitAll(add(false))
	cmd.InheritedFlags().VisitAll(add(true))

	for _, sub := range cmd.Commands() {
		if sub.Hidden || sub.Name() == "help" || sub.Name() == "completion" {
			continue
		}
		doc.Subcommands = append(doc.Subcommands, subcommandDoc{
			Name:    sub.Name(),
			Aliases: sub.Aliases,
			Short:   sub.Short,
		})
	}
	return doc
}

// stripHelpJSON removes --help-json (or --help-json=<bool>) from args and
// reports whether machine-readable help was asked for.
func stripHelpJSON(args []string) ([]string, bool) {
	rest := make([]string, 0, len(args))
	want := false
	for _, a := range args {
		if a == "--help-json" {
			want = true
			continue
		}
		if v, ok := strings.CutPrefix(a, "--help-json="); ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil && b {
				want = true
			}
			continue
		}
		rest = append(rest, a)
	}
	return rest, want
}

// helpJSONTarget resolves the command args point at. Unresolvable args
// describe the root command.
func helpJSONTarget(root *cobra.Command, args []string) *cobra.Command {
	if len(args) == 0 {
		return root
	}
	cmd, _, err := root.Find(args)
	if err != nil || cmd == nil {
		return root
	}
	return cmd
}

func printHelpJSON(cmd *cobra.Command) error {
	return outfmt.WriteJSON(cmd.OutOrStdout(), describeCommand(cmd), false)
}
