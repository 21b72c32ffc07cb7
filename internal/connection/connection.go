// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package connection resolves Snowflake connection parameters and owns the
// lifecycle of a single warehouse session.
//
// Parameters come from explicit arguments, a decrypted credential bundle, or
// environment variables, in that order of precedence (bundle credentials win
// over an explicit password when both are given). Validation happens before
// any network activity.
//
// A Manager owns at most one session and moves Disconnected -> Connected ->
// Disconnected. It is not safe for concurrent use; behavior when multiple
// goroutines share one Manager is undefined.
package connection

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"strings"

	sf "github.com/snowflakedb/gosnowflake"

	"snowflip/cli/internal/creds"
	"snowflip/cli/internal/errors"
)

// Environment variables consulted as fallback connection parameters.
const (
	EnvAccount   = "SNOWFLAKE_ACCOUNT"
	EnvUser      = "SNOWFLAKE_USER"
	EnvPassword  = "SNOWFLAKE_PASSWORD"
	EnvWarehouse = "SNOWFLAKE_WAREHOUSE"
	EnvDatabase  = "SNOWFLAKE_DATABASE"
	EnvSchema    = "SNOWFLAKE_SCHEMA"
)

// Defaults applied when neither an argument nor an environment variable is set.
const (
	DefaultDatabase = "FLIPSIDE_PROD_DB"
	DefaultSchema   = "PUBLIC"
)

// DefaultDriver is the database/sql driver used to open sessions.
const DefaultDriver = "snowflake"

// Params holds resolved Snowflake connection parameters.
type Params struct {
	Account   string
	User      string
	Password  string
	Warehouse string
	Database  string
	Schema    string
}

// Options configures a Manager. Explicit Params fields take precedence over
// environment variables. When EncryptedCredentials and EncryptionKey are both
// set, the decrypted pair overrides User and Password from any other source.
type Options struct {
	Params

	EncryptedCredentials string
	EncryptionKey        string

	// Logger for lifecycle events; defaults to slog.Default().
	Logger *slog.Logger

	// DriverName overrides the database/sql driver (default DefaultDriver).
	// Tests register a stub driver here to cover lifecycle behavior offline.
	DriverName string
}

// Manager owns a single Snowflake session.
type Manager struct {
	params Params
	logger *slog.Logger
	driver string

	db   *sql.DB
	sess *sql.Conn
}

// NewManager resolves connection parameters and validates them. It performs no
// I/O: a returned Manager is always Disconnected. Missing account, user, or
// password yields a configuration error naming every missing field; a bundle
// that fails to decrypt yields an authentication error.
func NewManager(opts Options) (*Manager, error) {
	p := opts.Params
	if p.Account == "" {
		p.Account = os.Getenv(EnvAccount)
	}
	if p.User == "" {
		p.User = os.Getenv(EnvUser)
	}
	if p.Warehouse == "" {
		p.Warehouse = os.Getenv(EnvWarehouse)
	}
	if p.Database == "" {
		p.Database = os.Getenv(EnvDatabase)
	}
	if p.Database == "" {
		p.Database = DefaultDatabase
	}
	if p.Schema == "" {
		p.Schema = os.Getenv(EnvSchema)
	}
	if p.Schema == "" {
		p.Schema = DefaultSchema
	}

	if opts.EncryptedCredentials != "" && opts.EncryptionKey != "" {
		// Bundle credentials win over explicit or env user/password.
		user, password, err := creds.Decrypt(opts.EncryptedCredentials, opts.EncryptionKey)
		if err != nil {
			return nil, err
		}
		p.User, p.Password = user, password
	} else if p.Password == "" {
		p.Password = os.Getenv(EnvPassword)
	}

	var missing []string
	if p.Account == "" {
		missing = append(missing, "account")
	}
	if p.User == "" {
		missing = append(missing, "user")
	}
	if p.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, errors.Newf(errors.Configuration,
			"missing required connection parameters: %s. Provide them as arguments or set %s, %s, %s",
			strings.Join(missing, ", "), EnvAccount, EnvUser, EnvPassword)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	driver := opts.DriverName
	if driver == "" {
		driver = DefaultDriver
	}
	return &Manager{params: p, logger: logger, driver: driver}, nil
}

// Params returns a copy of the resolved parameters.
func (m *Manager) Params() Params { return m.params }

// Connect opens the warehouse session. Valid only while Disconnected; on any
// failure the Manager stays Disconnected and the underlying cause is wrapped
// in a connection error. Connect never retries.
func (m *Manager) Connect(ctx context.Context) error {
	if m.sess != nil {
		return errors.New(errors.Connection, "already connected")
	}

	m.logger.Info("connecting to Snowflake", "account", m.params.Account, "database", m.params.Database)

	dsn, err := sf.DSN(&sf.Config{
		Account:   m.params.Account,
		User:      m.params.User,
		Password:  m.params.Password,
		Warehouse: m.params.Warehouse,
		Database:  m.params.Database,
		Schema:    m.params.Schema,
	})
	if err != nil {
		return errors.Wrap(errors.Connection, "failed to build Snowflake DSN", err)
	}

	db, err := sql.Open(m.driver, dsn)
	if err != nil {
		return errors.Wrap(errors.Connection, "failed to connect to Snowflake", err)
	}
	sess, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return errors.Wrap(errors.Connection, "failed to connect to Snowflake", err)
	}
	if err := sess.PingContext(ctx); err != nil {
		_ = sess.Close()
		_ = db.Close()
		return errors.Wrap(errors.Connection, "failed to connect to Snowflake", err)
	}

	m.db, m.sess = db, sess
	m.logger.Info("successfully connected to Snowflake")
	return nil
}

// Disconnect closes the session and its handle, best effort. It is idempotent:
// calling it while Disconnected is a no-op. Close failures are logged, never
// surfaced.
func (m *Manager) Disconnect() {
	if m.sess == nil && m.db == nil {
		return
	}
	if m.sess != nil {
		if err := m.sess.Close(); err != nil {
			m.logger.Warn("error closing session", "error", err)
		}
		m.sess = nil
	}
	if m.db != nil {
		if err := m.db.Close(); err != nil {
			m.logger.Warn("error closing connection", "error", err)
		}
		m.db = nil
	}
	m.logger.Info("disconnected from Snowflake")
}

// IsConnected reports whether a session exists and the driver still considers
// it usable. This is a live ping, not a cached flag; a Manager that never
// connected answers false without touching the network.
func (m *Manager) IsConnected(ctx context.Context) bool {
	if m.sess == nil {
		return false
	}
	return m.sess.PingContext(ctx) == nil
}

// Session returns the live session, or a connection error while Disconnected.
func (m *Manager) Session() (*sql.Conn, error) {
	if m.sess == nil {
		return nil, errors.New(errors.Connection, "not connected to Snowflake; call Connect first")
	}
	return m.sess, nil
}

// WithSession runs fn with a connected Manager and disconnects on every exit
// path, including when fn returns an error. An already-live session is reused;
// a stale one is replaced.
func (m *Manager) WithSession(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.IsConnected(ctx) {
		m.Disconnect()
		if err := m.Connect(ctx); err != nil {
			return err
		}
	}
	defer m.Disconnect()
	return fn(ctx)
}
