package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"

	"github.com/pdxmph/contact-form/internal/config"
	"github.com/pdxmph/contact-form/internal/contacts"
	"github.com/pdxmph/contact-form/internal/db"
	"github.com/pdxmph/contact-form/internal/export"
	"github.com/pdxmph/contact-form/internal/observability"
	"github.com/pdxmph/contact-form/internal/tui"
)

// CLI is the top-level command structure
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	Tui     TuiCmd           `cmd:"" default:"1" help:"Open the contact form (default)."`
	Init    InitCmd          `cmd:"" help:"Create the contacts database."`
	List    ListCmd          `cmd:"" help:"Print stored contacts."`
	Export  ExportCmd        `cmd:"" help:"Export contacts to CSV or JSON."`
	Import  ImportCmd        `cmd:"" help:"Add contacts from a JSON export."`
}

// Globals holds flags shared by every command
type Globals struct {
	Config string `help:"Config file (default ~/.config/contact-form/config.toml)." type:"path"`
	DB     string `name:"db" help:"Database file, overrides the config." type:"path"`

	out io.Writer
}

// loadConfig reads the config file and applies flag overrides
func (g *Globals) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.Config != "" {
		cfg, err = config.LoadFrom(g.Config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if g.DB != "" {
		cfg.Database.Path = g.DB
	}
	return cfg, nil
}

// setup loads the config and points the logger at the configured file
func (g *Globals) setup() (*config.Config, func(), error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	f, err := observability.OpenLogFile(cfg.Log.Path)
	if err != nil {
		return nil, nil, err
	}
	if _, err := observability.InitLogger(config.AppName, f, cfg.Log.Level); err != nil {
		f.Close()
		return nil, nil, err
	}

	return cfg, func() { f.Close() }, nil
}

// openStore opens the database and loads the contact list. A corrupt list
// is returned as loadErr alongside a usable empty store.
func openStore(cfg *config.Config) (database *db.DB, store *contacts.Store, loadErr error, err error) {
	database, err = db.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, nil, err
	}

	store, err = contacts.Load(database)
	if errors.Is(err, contacts.ErrCorruptSlot) {
		return database, store, err, nil
	}
	if err != nil {
		database.Close()
		return nil, nil, nil, err
	}
	log.Debug().Str("path", database.Path()).Int("count", store.Len()).Msg("store opened")
	return database, store, nil, nil
}

// TuiCmd runs the interactive form
type TuiCmd struct{}

// Run starts the Bubble Tea program
func (c *TuiCmd) Run(g *Globals) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("the contact form requires a terminal (TTY)")
	}

	cfg, closeLog, err := g.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	database, store, loadErr, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	model := tui.New(store, tui.Options{
		ExportDir: cfg.Export.Dir,
		LoadErr:   loadErr,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

// InitCmd creates the database and, if missing, a config file holding the
// defaults
type InitCmd struct {
	Fixtures bool `help:"Seed the database with sample contacts."`
}

// Run initializes storage
func (c *InitCmd) Run(g *Globals) error {
	cfg, closeLog, err := g.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	if c.Fixtures {
		err = db.CreateFixturesDatabase(cfg.Database.Path)
	} else {
		err = db.Initialize(cfg.Database.Path)
	}
	if err != nil {
		return err
	}
	log.Info().Str("path", cfg.Database.Path).Bool("fixtures", c.Fixtures).Msg("database initialized")
	fmt.Fprintf(g.out, "Database initialized at %s\n", cfg.Database.Path)

	configPath := g.Config
	if configPath == "" {
		configPath = filepath.Join(config.Dir(), "config.toml")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Flag overrides apply to this run only
		defaults := config.Default()
		if g.Config == "" {
			err = defaults.Save()
		} else if err = os.MkdirAll(filepath.Dir(configPath), 0755); err == nil {
			err = defaults.SaveTo(configPath)
		}
		if err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(g.out, "Wrote default config to %s\n", configPath)
	}

	return nil
}

// ListCmd prints the stored contacts as a table
type ListCmd struct{}

// Run prints the table
func (c *ListCmd) Run(g *Globals) error {
	cfg, closeLog, err := g.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	database, store, loadErr, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	if loadErr != nil {
		return loadErr
	}

	if store.Len() == 0 {
		fmt.Fprintln(g.out, "No entries yet.")
		return nil
	}

	t := table.New().Headers(export.Header()...)
	for _, r := range store.List() {
		t.Row(r.Fields()...)
	}
	fmt.Fprintln(g.out, t.Render())

	slot, err := database.GetSlot(contacts.SlotKey)
	if err != nil {
		return err
	}
	if slot != nil {
		fmt.Fprintf(g.out, "%d contacts, last saved %s ago\n", store.Len(), slot.Age().Round(time.Second))
	}
	return nil
}

// ExportCmd writes contacts.csv or contacts.json
type ExportCmd struct {
	Format string `arg:"" enum:"csv,json" help:"Export format (csv or json)."`
	Out    string `help:"Directory to write into (default: export.dir from config)." type:"path"`
	Stdout bool   `help:"Write to standard output instead of a file."`
}

// Run performs the export
func (c *ExportCmd) Run(g *Globals) error {
	cfg, closeLog, err := g.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	database, store, loadErr, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	if loadErr != nil {
		return loadErr
	}

	if c.Stdout {
		return export.WriteTo(g.out, c.Format, store.List())
	}

	dir := c.Out
	if dir == "" {
		dir = cfg.Export.Dir
	}
	path, err := export.Write(dir, c.Format, store.List())
	if err != nil {
		return err
	}
	fmt.Fprintf(g.out, "Exported %d contacts to %s\n", store.Len(), path)
	return nil
}

// ImportCmd appends the records of a JSON export to the store
type ImportCmd struct {
	File string `arg:"" help:"JSON file produced by 'export json'." type:"existingfile"`
}

// Run imports records; ones failing validation are skipped
func (c *ImportCmd) Run(g *Globals) error {
	cfg, closeLog, err := g.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	database, store, loadErr, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	if loadErr != nil {
		return loadErr
	}

	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	records, err := export.Decode(f)
	if err != nil {
		return err
	}

	added, skipped := 0, 0
	for i, r := range records {
		if _, err := store.Add(r); err != nil {
			if errors.Is(err, contacts.ErrInvalidContact) {
				log.Warn().Err(err).Int("record", i).Msg("skipping invalid contact")
				skipped++
				continue
			}
			return err
		}
		added++
	}

	fmt.Fprintf(g.out, "Imported %d contacts, skipped %d\n", added, skipped)
	return nil
}
