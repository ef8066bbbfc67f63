// Package cli implements the seleniumd command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// buildRootCmdWith constructs the cobra command tree bound to o.
func buildRootCmdWith(o *Options) *cobra.Command {
	root := &cobra.Command{
		Use:           "seleniumd",
		Short:         "Download, launch and supervise Selenium standalone servers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags -> Options
	root.PersistentFlags().StringVar(&o.ConfigPath, "config", o.ConfigPath, "Config file (.yaml|.yml|.json|.toml); defaults SELENIUMD_CONFIG")
	root.PersistentFlags().StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level: debug|info|warn|error (defaults SELENIUMD_LOG_LEVEL or config)")
	root.PersistentFlags().StringVar(&o.LogFormat, "log-format", o.LogFormat, "Log format: console|json")

	downloadFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&o.DownloadURL, "download-url", o.DownloadURL, "URL of the server jar")
		c.Flags().StringVar(&o.DownloadLocation, "download-location", o.DownloadLocation, "Directory the jar is stored in")
		c.Flags().BoolVar(&o.Force, "force", o.Force, "Fetch the jar again even when present")
	}

	downloadCmd := &cobra.Command{
		Use:     "download",
		Short:   "Make sure the server jar is present and print its path",
		Example: "  seleniumd download --download-location ~/.cache/selenium",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd.Context(), o, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	downloadFlags(downloadCmd)

	argsCmd := &cobra.Command{
		Use:     "args <target>",
		Short:   "Print the command line a target would be launched with",
		Example: "  seleniumd args hub --config seleniumd.yaml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArgs(o, args[0], cmd.OutOrStdout())
		},
	}
	downloadFlags(argsCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start every configured target and serve the control API until interrupted",
		Example: "  seleniumd run --config seleniumd.yaml\n" +
			"  seleniumd run --config seleniumd.yaml --targets hub --addr 127.0.0.1:4440",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), o, cmd.ErrOrStderr())
		},
	}
	runCmd.Flags().StringVar(&o.Addr, "addr", o.Addr, "HTTP listen address (defaults SELENIUMD_ADDR or config)")
	runCmd.Flags().StringVar(&o.Targets, "targets", o.Targets, "Comma-separated subset of configured targets to start")
	downloadFlags(runCmd)

	root.AddCommand(downloadCmd, argsCmd, runCmd)

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	}})
	root.AddCommand(completionCmd)

	return root
}

// MainWithArgs runs the command tree and returns the process exit code.
func MainWithArgs(ctx context.Context, args []string) int {
	root := buildRootCmdWith(defaultOptions())
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "seleniumd:", err.Error())
		return 1
	}
	return 0
}

// Main returns an exit code for use by cmd/seleniumd.
func Main() int { return MainWithArgs(context.Background(), os.Args[1:]) }
