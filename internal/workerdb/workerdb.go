// Package workerdb provisions one MySQL database per test worker so parallel
// PHPUnit processes never share state.
package workerdb

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"

	"github.com/charmbracelet/log"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9_]{1,64}$`)

// ConnectionInfo is how to reach the database server
type ConnectionInfo struct {
	Host     string
	Port     string
	User     string
	Password string
}

// LoadConnectionInfo reads DB_* settings from the project's .env file, falling
// back to the process environment and then to local defaults
func LoadConnectionInfo(projectPath string) ConnectionInfo {
	env, err := godotenv.Read(filepath.Join(projectPath, ".env"))
	if err != nil {
		// .env file might not exist, that's okay - use environment variables
		env = map[string]string{}
	}
	get := func(key, def string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		if v := env[key]; v != "" {
			return v
		}
		return def
	}
	return ConnectionInfo{
		Host:     get("DB_HOST", "127.0.0.1"),
		Port:     get("DB_PORT", "3306"),
		User:     get("DB_USERNAME", "root"),
		Password: get("DB_PASSWORD", ""),
	}
}

// DSN connects to the server without selecting a database
func (c ConnectionInfo) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, c.Port)
	return cfg.FormatDSN()
}

// schemaStore is the part of the server the provisioner talks to
type schemaStore interface {
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name string) error
}

type sqlStore struct {
	db *sql.DB
}

func (s sqlStore) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := s.db.QueryRowContext(ctx, query, name).Scan(&exists)
	return exists, err
}

func (s sqlStore) Create(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name))
	return err
}

// Provisioner creates the per-worker databases
type Provisioner struct {
	names  func(workerID int) string
	logger *log.Logger
}

// NewProvisioner creates a Provisioner naming worker databases with names
func NewProvisioner(names func(workerID int) string, logger *log.Logger) *Provisioner {
	return &Provisioner{names: names, logger: logger}
}

// Provision connects to the server and ensures a database exists for every
// worker from 1 to workers
func (p *Provisioner) Provision(ctx context.Context, info ConnectionInfo, workers int) error {
	db, err := sql.Open("mysql", info.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database server %s: %w", net.JoinHostPort(info.Host, info.Port), err)
	}
	return p.provision(ctx, sqlStore{db: db}, workers)
}

func (p *Provisioner) provision(ctx context.Context, store schemaStore, workers int) error {
	created := 0
	for i := 1; i <= workers; i++ {
		name := p.names(i)
		if !validName.MatchString(name) {
			return fmt.Errorf("invalid database name: %q", name)
		}

		exists, err := store.Exists(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to check database %s: %w", name, err)
		}
		if exists {
			continue
		}
		if err := store.Create(ctx, name); err != nil {
			return fmt.Errorf("failed to create database %s: %w", name, err)
		}
		created++
	}

	p.logger.Info("Worker databases ready", "workers", workers, "created", created)
	return nil
}
