package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"urlkit/urlutil"
)

func paramsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Print every query parameter as key=value, sorted by key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := a.util.Params()
			keys := lo.Keys(params)
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, params[key])
			}
			return nil
		},
	}
}

func getCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the value of one query parameter",
		Long:  `Prints the value of KEY. Fails when KEY is absent; a key present with no value prints an empty line.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, ok := a.util.Param(args[0])
			if !ok {
				return fmt.Errorf("parameter %q is not present", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func hasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "has KEY",
		Short: "Print whether a query parameter is present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.util.HasParam(args[0]))
			return nil
		},
	}
}

func addCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add KEY VALUE",
		Short: "Print the current URL with KEY set to VALUE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.util.AddParam(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func removeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove KEY",
		Short: "Print the current URL without KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.util.RemoveParam(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

// printCmd builds a command that prints one field of the current location.
func printCmd(use, short string, get func() string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), get())
			return nil
		},
	}
}

func pathCmd(a *app) *cobra.Command {
	return printCmd("path", "Print the current path", func() string { return a.util.Path() })
}

func hashCmd(a *app) *cobra.Command {
	return printCmd("hash", "Print the current fragment, including '#'", func() string { return a.util.Hash() })
}

func originCmd(a *app) *cobra.Command {
	return printCmd("origin", "Print the current origin", func() string { return a.util.Origin() })
}

func hostCmd(a *app) *cobra.Command {
	return printCmd("host", "Print the current host, with port if non-default", func() string { return a.util.Host() })
}

func setHashCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-hash HASH",
		Short: "Replace the fragment and print the resulting URL",
		Long:  `Replaces the fragment of the current location. An empty HASH clears it; a missing '#' is added.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.util.SetHash(args[0])
			fmt.Fprintln(cmd.OutOrStdout(), a.util.Href())
			return nil
		},
	}
}

func externalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "external URL...",
		Short: "Print whether each URL points to another origin",
		Long:  `Prints "true" or "false" for each URL. Relative and malformed URLs are internal.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, raw := range args {
				if len(args) == 1 {
					fmt.Fprintln(cmd.OutOrStdout(), a.util.IsExternal(raw))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%t\t%s\n", a.util.IsExternal(raw), raw)
			}
			return nil
		},
	}
}

func buildCmd(a *app) *cobra.Command {
	var rawParams string

	cmd := &cobra.Command{
		Use:   "build PATH [KEY=VALUE...]",
		Short: "Build a URL under the current origin",
		Long: `Resolves PATH against the current origin and sets each parameter.

Parameters given with --params (a YAML or JSON mapping) are applied first,
sorted by key; KEY=VALUE arguments follow in order. A null value in
--params, or a bare KEY argument, is skipped.

Example:
  urlkit --href https://example.com build /search q=hello --params '{page: 2}'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fields []urlutil.Field
			if rawParams != "" {
				var m map[string]any
				if err := yaml.Unmarshal([]byte(rawParams), &m); err != nil {
					return fmt.Errorf("failed to parse --params: %w", err)
				}
				fromMap, err := urlutil.FieldsFromMap(m)
				if err != nil {
					return err
				}
				fields = append(fields, fromMap...)
			}
			fields = append(fields, lo.Map(args[1:], func(arg string, _ int) urlutil.Field {
				key, value, ok := strings.Cut(arg, "=")
				if !ok {
					return urlutil.F(key, urlutil.Null())
				}
				return urlutil.F(key, urlutil.String(value))
			})...)

			result, err := a.util.BuildURL(args[0], fields...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&rawParams, "params", "", "YAML or JSON mapping of extra parameters")

	return cmd
}
