package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snowman-se/bad-memo-app/internal/client"
)

func newMemosCmd(opts *rootOptions) *cobra.Command {
	memosCmd := &cobra.Command{Use: "memos", Short: "Memo operations"}

	// list
	var params client.ListParams
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List memos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			out, err := c.ListMemos(cmd.Context(), params)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), out)
		},
	}
	listCmd.Flags().StringVarP(&params.Query, "query", "q", "", "Substring to search in title and body")
	listCmd.Flags().StringVar(&params.Tag, "tag", "", "Only memos carrying this tag")
	listCmd.Flags().StringVar(&params.Sort, "sort", "", "Sort order: new, old or title")
	listCmd.Flags().IntVar(&params.Page, "page", 0, "Page number (20 memos per page)")
	memosCmd.AddCommand(listCmd)

	// get
	memosCmd.AddCommand(&cobra.Command{
		Use:   "get MEMO_ID",
		Short: "Get memo by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			m, err := c.GetMemo(cmd.Context(), id)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), m)
		},
	})

	// create
	var title, body, tagCSV string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a memo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			m, err := c.CreateMemo(cmd.Context(), client.MemoInput{Title: title, Body: body, Tags: splitTags(tagCSV)})
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), m)
		},
	}
	createCmd.Flags().StringVarP(&title, "title", "t", "", "Title (required, max 120 characters)")
	createCmd.Flags().StringVarP(&body, "body", "b", "", "Body text")
	createCmd.Flags().StringVar(&tagCSV, "tags", "", "Comma-separated tags")
	_ = createCmd.MarkFlagRequired("title")
	memosCmd.AddCommand(createCmd)

	// update
	var newTitle, newBody, newTags string
	updateCmd := &cobra.Command{
		Use:   "update MEMO_ID",
		Short: "Replace a memo's title, body and tags",
		Long:  "Replace a memo's title, body and tags. Flags that are not given keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			cur, err := c.GetMemo(cmd.Context(), id)
			if err != nil {
				return err
			}
			in := client.MemoInput{Title: cur.Title, Body: cur.Body, Tags: cur.Tags}
			if cmd.Flags().Changed("title") {
				in.Title = newTitle
			}
			if cmd.Flags().Changed("body") {
				in.Body = newBody
			}
			if cmd.Flags().Changed("tags") {
				in.Tags = splitTags(newTags)
			}
			m, err := c.UpdateMemo(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), m)
		},
	}
	updateCmd.Flags().StringVarP(&newTitle, "title", "t", "", "New title")
	updateCmd.Flags().StringVarP(&newBody, "body", "b", "", "New body")
	updateCmd.Flags().StringVar(&newTags, "tags", "", "New comma-separated tags (empty clears)")
	memosCmd.AddCommand(updateCmd)

	// delete
	memosCmd.AddCommand(&cobra.Command{
		Use:   "delete MEMO_ID",
		Short: "Delete a memo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			if err := c.DeleteMemo(cmd.Context(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted memo %d\n", id)
			return nil
		},
	})

	return memosCmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid memo id %q", raw)
	}
	return id, nil
}

func splitTags(csv string) []string {
	var out []string
	for _, t := range strings.Split(csv, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
