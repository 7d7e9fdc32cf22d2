package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/passkeeper/internal/client/config"
	"github.com/dmitrijs2005/passkeeper/internal/client/models"
	"github.com/dmitrijs2005/passkeeper/internal/client/services"
	"github.com/dmitrijs2005/passkeeper/internal/client/session"
	"github.com/dmitrijs2005/passkeeper/internal/client/storage"
	"github.com/dmitrijs2005/passkeeper/internal/logging"
)

// Session is the part of *session.Controller the CLI drives.
type Session interface {
	Login(ctx context.Context, cr session.Credentials) error
	Unlock(ctx context.Context, input string) (session.UnlockResult, error)
	Lock() error
	Logout() error
	BeginEdit() error
	EndEdit()
	Refresh(ctx context.Context) error
	RequireUnlocked() error
	State() session.State
	Account() (models.Account, bool)
	OnLock(fn func(session.LockReason))
}

type App struct {
	config   *config.Config
	log      logging.Logger
	store    *storage.Store
	session  Session
	accounts services.AccountService
	vault    services.VaultService
	clip     Clipboard
	sched    session.Scheduler
	reader   *bufio.Reader

	clipMu    sync.Mutex
	clipTimer session.Timer
	clipValue string

	outMu sync.Mutex
	out   io.Writer
}

// NewApp opens the vault database and builds the application on top of it.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	store, err := storage.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "error initializing database", "driver", cfg.DatabaseDriver, "error", err)
		return nil, err
	}
	return newApp(cfg, logger, store, session.RealScheduler(), systemClipboard{}, os.Stdin, os.Stdout), nil
}

func newApp(cfg *config.Config, logger logging.Logger, store *storage.Store, sched session.Scheduler, clip Clipboard, in io.Reader, out io.Writer) *App {
	ctl := session.NewController(store.Accounts, logger, session.Options{
		MaxAttempts:         cfg.MaxUnlockAttempts,
		EditRecheckInterval: cfg.EditRecheckInterval,
		Scheduler:           sched,
	})

	a := &App{
		config:   cfg,
		log:      logger,
		store:    store,
		session:  ctl,
		accounts: services.NewAccountService(store, logger),
		vault:    services.NewVaultService(ctl, store.Credentials, logger),
		clip:     clip,
		sched:    sched,
		reader:   bufio.NewReader(in),
		out:      out,
	}
	ctl.OnLock(a.onLock)
	return a
}

func (a *App) onLock(reason session.LockReason) {
	if reason == session.LockTimeout {
		a.flash(levelSuccess, "Passwords locked.")
	}
}

// Run shows the banner and blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	a.printf("Welcome to passkeeper (type 'help' for commands)\n")
	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close ends the session, clears a copied secret and releases the database.
func (a *App) Close() error {
	a.releaseClipboard(context.Background())
	_ = a.session.Logout()
	return a.store.Close()
}

func (a *App) state() session.State {
	return a.session.State()
}

func (a *App) getStatus() string {
	acc, ok := a.session.Account()
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s %s)", acc.Email, a.session.State())
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}
