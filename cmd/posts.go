package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/carltonupp/upperdine/internal/adapters/markdown"
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List the posts that would be published, newest first",
	Long:  "Loads the posts directory exactly as the server does and prints each post. Files that fail to load are reported in the log on stderr.",
	Args:  cobra.NoArgs,
	RunE:  runPosts,
}

var renderCmd = &cobra.Command{
	Use:   "render <slug>",
	Short: "Preview a post in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var (
	renderStyle string
	renderWidth int
)

func init() {
	renderCmd.Flags().StringVar(&renderStyle, "style", "dark", "glamour style: dark, light, notty, ascii")
	renderCmd.Flags().IntVar(&renderWidth, "width", 80, "Word wrap width in columns")

	rootCmd.AddCommand(postsCmd, renderCmd)
}

func runPosts(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, log, err := setup(ctx, os.Stderr)
	if err != nil {
		return err
	}
	svc, err := newService(cfg, log, false)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSLUG\tTITLE")
	for _, p := range svc.Posts(ctx) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Date.Format("2006-01-02"), p.Slug, p.Title)
	}
	return tw.Flush()
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, log, err := setup(ctx, os.Stderr)
	if err != nil {
		return err
	}
	svc, err := newService(cfg, log, false)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	post, err := svc.Post(ctx, args[0])
	if err != nil {
		return fmt.Errorf("post %q: %w", args[0], err)
	}
	out, err := markdown.RenderTerminal("# "+post.Title+"\n\n_Published: "+post.DisplayDate()+"_\n\n"+post.Markdown,
		markdown.WithStyle(renderStyle),
		markdown.WithWordWrap(renderWidth),
	)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
