package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/contacts"
	"github.com/smileynet/contacts/internal/config"
	"github.com/smileynet/contacts/internal/contact"
	"github.com/smileynet/contacts/internal/csvimport"
	"github.com/smileynet/contacts/internal/dashboard"
	"github.com/smileynet/contacts/internal/logging"
	"github.com/smileynet/contacts/internal/server"
	"github.com/smileynet/contacts/internal/sqlstore"
	"github.com/smileynet/contacts/internal/state"
	"github.com/smileynet/contacts/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI is the top-level command structure for contacts.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Add     AddCmd           `cmd:"" help:"Add a contact."`
	List    ListCmd          `cmd:"" help:"List all contacts."`
	Import  ImportCmd        `cmd:"" help:"Import contacts from a CSV file."`
	Browse  BrowseCmd        `cmd:"" help:"Browse contacts in an interactive TUI."`
	Serve   ServeCmd         `cmd:"" help:"Serve the contacts HTTP API."`
	Init    InitCmd          `cmd:"" help:"Write a default config to .contacts/config.yaml."`
}

// projectConfigDir holds the project-level config and default store.
const projectConfigDir = ".contacts"

// loadConfig loads layered config from user and project paths with env overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/contacts/config.yaml"),
		filepath.Join(projectConfigDir, "config.yaml"),
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session bundles what every command needs: the store, its backing
// repository and a logger.
type session struct {
	cfg     *config.Config
	log     *logging.Logger
	manager *contact.Manager
	repo    contact.Repository
	close   func() error
}

// openSession loads config, builds the logger and restores contacts from
// the configured backend.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	repo, closeRepo, err := openRepository(cfg.Store)
	if err != nil {
		log.Sync()
		return nil, err
	}

	m := contact.NewManager()
	if repo != nil {
		m, err = contact.Load(repo)
		if err != nil {
			_ = closeRepo()
			log.Sync()
			return nil, err
		}
	}
	log.Debug("session opened", "backend", cfg.Store.Backend, "path", cfg.Store.FilePath(), "contacts", m.Len())

	return &session{
		cfg:     cfg,
		log:     log,
		manager: m,
		repo:    repo,
		close: func() error {
			defer log.Sync()
			return closeRepo()
		},
	}, nil
}

// openRepository returns the repository for the configured backend.
// The memory backend has no repository.
func openRepository(s config.Store) (contact.Repository, func() error, error) {
	noop := func() error { return nil }
	switch s.Backend {
	case config.BackendMemory:
		return nil, noop, nil
	case config.BackendJSON:
		return state.NewFileStore(s.FilePath()), noop, nil
	case config.BackendSQLite:
		st, err := sqlstore.Open(s.FilePath())
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", s.Backend)
	}
}

// --- add ---

// AddCmd adds a single contact. An omitted flag is a missing field.
type AddCmd struct {
	First *string `help:"First name." name:"first"`
	Last  *string `help:"Last name." name:"last"`
	Phone *string `help:"Phone number." name:"phone"`
}

// Run executes the add command.
func (a *AddCmd) Run() error {
	s, err := openSession()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	defer func() { _ = s.close() }()

	return a.run(os.Stdout, s.log, s.manager, s.repo)
}

// run adds the contact through repo, enabling testable wiring.
func (a *AddCmd) run(w io.Writer, log *logging.Logger, m *contact.Manager, repo contact.Repository) error {
	c, err := contact.Save(m, repo, a.First, a.Last, a.Phone)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	log.Debug("contact added", "last_name", c.LastName, "phone", c.PhoneNumber, "total", m.Len())
	_, _ = fmt.Fprintf(w, "Added %s (%d contacts)\n", c.FullName(), m.Len())
	return nil
}

// --- list ---

// ListCmd prints every contact in insertion order.
type ListCmd struct {
	Plain bool `help:"Force plain tab-separated output even if stdout is a TTY." default:"false"`
}

// Run executes the list command.
func (l *ListCmd) Run() error {
	s, err := openSession()
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	defer func() { _ = s.close() }()

	display := tui.NewDisplay(tui.DisplayOptions{Writer: os.Stdout, ForcePlain: l.Plain})
	return l.run(display, s.manager)
}

// run renders the contacts, enabling testable wiring.
func (l *ListCmd) run(display tui.Display, m *contact.Manager) error {
	if err := display.Render(m.AllContacts()); err != nil {
		return fmt.Errorf("list: %w", err)
	}
	return nil
}

// --- import ---

// ImportCmd imports contacts from a CSV file.
type ImportCmd struct {
	File string `arg:"" help:"CSV file with first_name,last_name,phone_number rows." type:"existingfile"`
}

// Run executes the import command.
func (i *ImportCmd) Run() error {
	s, err := openSession()
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer func() { _ = s.close() }()

	f, err := os.Open(i.File)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer func() { _ = f.Close() }()

	return i.run(os.Stdout, s.log, s.manager, s.repo, f)
}

// run imports from r, enabling testable wiring. Rejected rows are reported
// but valid rows are still kept.
func (i *ImportCmd) run(w io.Writer, log *logging.Logger, m *contact.Manager, repo contact.Repository, r io.Reader) error {
	n, err := csvimport.Into(m, repo, r)
	_, _ = fmt.Fprintf(w, "Imported %d contacts from %s\n", n, i.File)

	var ie *csvimport.ImportError
	if errors.As(err, &ie) {
		for _, row := range ie.Rows {
			_, _ = fmt.Fprintf(w, "  skipped %v\n", row)
		}
		log.Warn("import skipped rows", "file", i.File, "skipped", len(ie.Rows), "imported", n)
	}
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return nil
}

// --- browse ---

// BrowseCmd opens the interactive contact browser.
type BrowseCmd struct{}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run builds real dependencies and launches the browser.
func (b *BrowseCmd) Run() error {
	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if !isTTY {
		return fmt.Errorf("browse: requires a terminal (TTY)")
	}

	s, err := openSession()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	defer func() { _ = s.close() }()

	m := dashboard.NewModel(dashboardLister(s.manager, s.repo))
	prog := tea.NewProgram(m, tea.WithAltScreen())
	return b.run(isTTY, prog)
}

// dashboardLister reloads from the repository on every refresh so changes
// made by other processes show up; without one it reads the in-memory store.
func dashboardLister(m *contact.Manager, repo contact.Repository) dashboard.ContactLister {
	if repo != nil {
		return repo
	}
	return dashboard.ListerFunc(func() ([]contact.Contact, error) {
		return m.AllContacts(), nil
	})
}

// run executes the tea program, enabling testable wiring.
func (b *BrowseCmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("browse: requires a terminal (TTY)")
	}
	_, err := prog.Run()
	return err
}

// --- serve ---

// ServeCmd serves the HTTP API until interrupted.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides server.addr)."`
}

// Run executes the serve command.
func (c *ServeCmd) Run() error {
	s, err := openSession()
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	defer func() { _ = s.close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return c.run(ctx, s)
}

// run starts the server with the session's store, enabling testable wiring.
func (c *ServeCmd) run(ctx context.Context, s *session) error {
	addr := s.cfg.Server.Addr
	if c.Addr != "" {
		addr = c.Addr
	}
	srv := server.New(server.Config{
		Addr:        addr,
		ReadTimeout: s.cfg.Server.ReadTimeout,
		Manager:     s.manager,
		Repository:  s.repo,
		Logger:      s.log.With("component", "server"),
	})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// --- init ---

// InitCmd writes the embedded default config into the project directory.
type InitCmd struct {
	Force bool `help:"Overwrite an existing config file." default:"false"`
}

// Run executes the init command.
func (c *InitCmd) Run() error {
	return c.run(os.Stdout, projectConfigDir, contacts.OverlayFS("templates", contacts.Templates))
}

// run writes the config template from templates into dir.
func (c *InitCmd) run(w io.Writer, dir string, templates fs.FS) error {
	dest := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(dest); err == nil && !c.Force {
		return fmt.Errorf("init: %s already exists (use --force to overwrite)", dest)
	}

	data, err := fs.ReadFile(templates, contacts.DefaultConfigName)
	if err != nil {
		return fmt.Errorf("init: reading template: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("init: creating %s: %w", dir, err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("init: writing %s: %w", dest, err)
	}
	_, _ = fmt.Fprintf(w, "Wrote %s\n", dest)
	return nil
}

// Exit codes.
const (
	exitSuccess = 0
	exitInvalid = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ie *csvimport.ImportError
	if errors.Is(err, contact.ErrInvalidContact) || errors.As(err, &ie) {
		return exitInvalid
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("contacts"),
		kong.Description("Manage a list of contacts."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
