package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/snowman-se/bad-memo-app/internal/client"
	"github.com/snowman-se/bad-memo-app/internal/config"
)

func main() {
	// MEMO_BOARD_API may come from the same dotenv file the service reads.
	if _, err := config.LoadEnvFile(""); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	api     string
	timeout time.Duration
	debug   bool
	output  string
}

func (o *rootOptions) client() (*client.Client, error) {
	return client.New(o.api, client.WithHTTPTimeout(o.timeout), client.WithDebug(o.debug))
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "memoctl",
		Short:         "CLI client for the memo board REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case "json", "yaml":
				return nil
			default:
				return fmt.Errorf("unsupported output format %q (json, yaml)", opts.output)
			}
		},
	}
	rootCmd.PersistentFlags().StringVarP(&opts.api, "api", "a", envOr("MEMO_BOARD_API", "http://localhost:8080"), "Memo service base URL")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Per-request timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Log HTTP requests and responses")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "Output format: json or yaml")

	rootCmd.AddCommand(newMemosCmd(opts), newTagsCmd(opts), newHealthCmd(opts))
	return rootCmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// print writes v in the selected output format.
func (o *rootOptions) print(w io.Writer, v any) error {
	if o.output == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
