package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

type InitDBCommand struct {
	DatabaseURL string
	cfg         *config.Config
}

func NewInitDBCommand(cfg *config.Config) *InitDBCommand {
	return &InitDBCommand{cfg: cfg}
}

func (cmd *InitDBCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("init-db", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabaseURL, "db", cmd.cfg.Database.URL, "Database URL (sqlite://path or postgres://...)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s init-db [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create the books table if it does not exist and exit.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s init-db\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s init-db -db sqlite://./books.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.DatabaseURL == "" {
		fs.Usage()
		return fmt.Errorf("database URL is required")
	}

	return nil
}

func (cmd *InitDBCommand) Run() error {
	cfg := *cmd.cfg
	cfg.Database.URL = cmd.DatabaseURL

	db, err := entrypoint.InitDatabase(&cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Printf("Schema ready at %s\n", db.Target())
	return nil
}
