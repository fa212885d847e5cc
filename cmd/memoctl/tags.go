package main

import (
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"

	"github.com/snowman-se/bad-memo-app/internal/client"
)

func newTagsCmd(opts *rootOptions) *cobra.Command {
	tagsCmd := &cobra.Command{Use: "tags", Short: "Tag operations"}
	tagsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tags with their memo counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			tags, err := c.ListTags(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range tags {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", t.Name, t.Count)
			}
			return nil
		},
	})
	return tagsCmd
}

func newHealthCmd(opts *rootOptions) *cobra.Command {
	var wait time.Duration
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Show service health",
		Long:  "Show service health. With --wait, poll with exponential backoff until the service reports healthy or the wait expires.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			var h *client.HealthStatus
			check := func() error {
				var err error
				if h, err = c.Health(cmd.Context()); err != nil {
					return err
				}
				if h.Status != "healthy" {
					return fmt.Errorf("service is %s", h.Status)
				}
				return nil
			}
			if wait > 0 {
				exp := backoff.NewExponentialBackOff()
				exp.InitialInterval = 200 * time.Millisecond
				exp.MaxInterval = 2 * time.Second
				exp.MaxElapsedTime = wait
				exp.Reset()
				err = backoff.Retry(check, backoff.WithContext(exp, cmd.Context()))
			} else {
				err = check()
			}
			if h != nil {
				if perr := opts.print(cmd.OutOrStdout(), h); perr != nil {
					return perr
				}
			}
			return err
		},
	}
	healthCmd.Flags().DurationVar(&wait, "wait", 0, "Keep polling until healthy for up to this long")
	return healthCmd
}
