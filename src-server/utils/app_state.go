package utils

import (
	"database/sql"
	"log/slog"
	"os"
	"sync"

	"smartschedule/src-server/schedule"

	"github.com/google/uuid"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config *Config
	RawDB  *sql.DB
	BunDB  *bun.DB
	When   *when.Parser

	MetricChans        MetricChans
	AppCloseSignalChan chan os.Signal

	// one in-memory buffer per guest session token; never persisted
	guestMu      sync.Mutex
	guestBuffers map[string]*schedule.GuestBuffer

	shutdownMu    sync.Mutex
	shutdownChans []chan struct{}
}

func NewAppState() *AppState {
	as := &AppState{}

	as.MetricChans = NewMetricChans()
	as.AppCloseSignalChan = make(chan os.Signal, 1)
	as.guestBuffers = make(map[string]*schedule.GuestBuffer)

	// date parser for the quick-add text box
	as.When = when.New(nil)
	as.When.Add(en.All...)
	as.When.Add(common.All...)

	// env
	as.Config = NewConfig()

	// database
	var err error
	as.RawDB, err = sql.Open(sqliteshim.ShimName, as.Config.GetDatabasePath()+"?mode=rwc")
	if err != nil {
		slog.Error("cannot open sqlite database", "error", err)
		os.Exit(1)
	}
	as.RawDB.SetMaxIdleConns(8)

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(true),
		bundebug.FromEnv("BUNDEBUG"),
	))

	return as
}

// NewGuestSession mints a guest token and the buffer it owns. The switch to
// guest mode is one-way; nothing here ever promotes a guest back to the
// store-backed source.
func (as *AppState) NewGuestSession() string {
	token := uuid.NewString()
	as.guestMu.Lock()
	as.guestBuffers[token] = schedule.NewGuestBuffer()
	as.guestMu.Unlock()
	return token
}

func (as *AppState) GuestBuffer(token string) (*schedule.GuestBuffer, bool) {
	as.guestMu.Lock()
	defer as.guestMu.Unlock()
	buffer, ok := as.guestBuffers[token]
	return buffer, ok
}

func (as *AppState) DropGuestSession(token string) {
	as.guestMu.Lock()
	delete(as.guestBuffers, token)
	as.guestMu.Unlock()
}

// SweepGuestBuffers drops buffers idle for longer than the session TTL.
func (as *AppState) SweepGuestBuffers() int {
	ttl := as.Config.GetSessionTTL()
	as.guestMu.Lock()
	defer as.guestMu.Unlock()
	swept := 0
	for token, buffer := range as.guestBuffers {
		if buffer.IdleSince() > ttl {
			delete(as.guestBuffers, token)
			swept++
		}
	}
	return swept
}

// CreateGracefulShutdownChan hands out a channel that closes when the app is
// shutting down; metric collectors use it to unregister themselves.
func (as *AppState) CreateGracefulShutdownChan() *chan struct{} {
	ch := make(chan struct{})
	as.shutdownMu.Lock()
	as.shutdownChans = append(as.shutdownChans, ch)
	as.shutdownMu.Unlock()
	return &ch
}

func (as *AppState) GracefulShutdown() {
	as.shutdownMu.Lock()
	for _, ch := range as.shutdownChans {
		close(ch)
	}
	as.shutdownChans = nil
	as.shutdownMu.Unlock()

	if err := as.BunDB.Close(); err != nil {
		slog.Warn("can't close database", "error", err)
	}
}
