package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/lojf/inquisition/internal/config"
	"github.com/lojf/inquisition/internal/db"
	svc "github.com/lojf/inquisition/internal/services"
)

// cli carries the flag values and the connection opened for one run.
type cli struct {
	configFile string
	collection string
	question   int64

	conn    *gorm.DB
	binding svc.Binding
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "orderctl",
		Short: "Inspect and change the display order of question images and options",
		Long: `orderctl reads and rewrites the display order of a question's images or
answer options. A collection whose display orders are all zero is in auto
mode; any other collection is in custom mode.`,
		SilenceUsage:       true,
		PersistentPreRunE:  c.open,
		PersistentPostRunE: func(*cobra.Command, []string) error { return c.close() },
	}
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: inquisition.yaml)")
	root.PersistentFlags().StringVar(&c.collection, "collection", svc.CollectionOptions, "collection to order (images or options)")
	root.PersistentFlags().Int64Var(&c.question, "question", 0, "question id")
	_ = root.MarkPersistentFlagRequired("question")

	root.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "List the children in display order with the current mode",
			Args:  cobra.NoArgs,
			RunE:  c.show,
		},
		&cobra.Command{
			Use:   "mode",
			Short: "Print auto or custom",
			Args:  cobra.NoArgs,
			RunE:  c.mode,
		},
		&cobra.Command{
			Use:   "set <id>...",
			Short: "Rewrite the order; every child id must be listed exactly once",
			Args:  cobra.MinimumNArgs(1),
			RunE:  c.set,
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Set every display order to zero, returning the collection to auto",
			Args:  cobra.NoArgs,
			RunE:  c.reset,
		},
	)
	return root
}

// open loads config and connects to the database the server uses.
func (c *cli) open(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	conn, err := db.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	b, err := bind(conn, cfg.Collections, c.collection)
	if err != nil {
		// PersistentPostRunE does not run after a failed pre-run.
		if sqlDB, dbErr := conn.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return err
	}
	c.conn = conn
	c.binding = b
	return nil
}

// bind migrates the database and picks the requested collection.
func bind(conn *gorm.DB, enabled []string, collection string) (svc.Binding, error) {
	if err := db.Migrate(conn); err != nil {
		return svc.Binding{}, fmt.Errorf("migrate: %w", err)
	}
	reg, err := svc.NewRegistry(conn, enabled)
	if err != nil {
		return svc.Binding{}, err
	}
	b, ok := reg.Get(collection)
	if !ok {
		return svc.Binding{}, fmt.Errorf("unknown collection %q (enabled: %v)", collection, reg.Names())
	}
	return b, nil
}

func (c *cli) close() error {
	if c.conn == nil {
		return nil
	}
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (c *cli) show(cmd *cobra.Command, args []string) error {
	st, err := c.binding.Engine.Current(cmd.Context(), c.question)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\nmode: %s\n", c.binding.Title, st.Parent.Title, st.Mode)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tID\tLABEL")
	for _, ch := range st.Children {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", ch.DisplayOrder, ch.ID, ch.Label)
	}
	return tw.Flush()
}

func (c *cli) mode(cmd *cobra.Command, args []string) error {
	m, err := c.binding.Engine.DetectOrderMode(cmd.Context(), c.question)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), m)
	return nil
}

func (c *cli) set(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return fmt.Errorf("child id %q: not a number", a)
		}
		ids = append(ids, id)
	}
	m, err := c.binding.Engine.Reindex(cmd.Context(), c.question, ids)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\nmode: %s\n", c.binding.UpdatedMessage, m)
	return nil
}

func (c *cli) reset(cmd *cobra.Command, args []string) error {
	m, err := c.binding.Engine.Reset(cmd.Context(), c.question)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\nmode: %s\n", c.binding.UpdatedMessage, m)
	return nil
}
