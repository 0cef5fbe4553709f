// Package promptlane is a client SDK for the PromptLane service. It
// reaches PromptLane resources through the HTTP API, a direct database
// connection, or both at once (mixed mode: reads from the database,
// writes through the API).
package promptlane

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/promptlane/promptlane-go/api"
	"github.com/promptlane/promptlane-go/database"
)

// Both backends satisfy the shared connection contract.
var (
	_ Connection      = (*api.Connection)(nil)
	_ Connection      = (*database.Connection)(nil)
	_ relationQuerier = (*database.Connection)(nil)
)

// Client is the top-level entry point. One dispatcher per resource
// type is wired to the connections the configured mode requires.
type Client struct {
	mode Mode
	api  *api.Connection
	db   *database.Connection

	Projects   *Projects
	Prompts    *Prompts
	Teams      *Teams
	Users      *Users
	Activities *Activities
}

// New builds a client for the configured connection mode. Blank
// configuration fields fall back to the PROMPTLANE_* environment
// variables; configuration still missing after that fails with
// ErrConfiguration.
func New(cfg Config) (*Client, error) {
	cfg = cfg.withEnvDefaults()

	mode := Mode(strings.ToLower(string(cfg.Mode)))
	if mode == "" {
		mode = ModeAPI
	}
	switch mode {
	case ModeAPI, ModeDatabase, ModeMixed:
	default:
		return nil, errors.Wrapf(ErrConfiguration, "unknown connection mode %q", cfg.Mode)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{mode: mode}

	if mode == ModeAPI || mode == ModeMixed {
		if cfg.BaseURL == "" || cfg.APIKey == "" {
			return nil, errors.Wrapf(ErrConfiguration,
				"mode %s needs a base URL and api key, set directly or via %s and %s",
				mode, EnvAPIURL, EnvAPIKey)
		}
		opts := []api.Option{api.WithLogger(logger), api.WithMetrics(cfg.Metrics)}
		if cfg.APIVersion != "" {
			opts = append(opts, api.WithVersion(cfg.APIVersion))
		}
		if cfg.Timeout > 0 {
			opts = append(opts, api.WithTimeout(cfg.Timeout))
		}
		if cfg.MaxRetries > 0 {
			opts = append(opts, api.WithMaxRetries(cfg.MaxRetries))
		}
		c.api = api.New(cfg.BaseURL, cfg.APIKey, opts...)
	}

	if mode == ModeDatabase || mode == ModeMixed {
		if cfg.DatabaseURL == "" {
			return nil, errors.Wrapf(ErrConfiguration,
				"mode %s needs a database connection string, set directly or via %s",
				mode, EnvDatabaseURL)
		}
		db, err := database.Open(cfg.DatabaseURL,
			database.WithLogger(logger),
			database.WithMetrics(cfg.Metrics))
		if err != nil {
			return nil, err
		}
		c.db = db
	}

	if err := c.initResources(logger); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) initResources(logger *zap.Logger) error {
	var dbConn, apiConn Connection
	if c.db != nil {
		dbConn = c.db
	}
	if c.api != nil {
		apiConn = c.api
	}

	var err error
	if c.Projects, err = NewProjects(dbConn, apiConn, logger); err != nil {
		return err
	}
	if c.Prompts, err = NewPrompts(dbConn, apiConn, logger); err != nil {
		return err
	}
	if c.Teams, err = NewTeams(dbConn, apiConn, logger); err != nil {
		return err
	}
	if c.Users, err = NewUsers(dbConn, apiConn, logger); err != nil {
		return err
	}
	c.Activities, err = NewActivities(dbConn, apiConn, logger)
	return err
}

// Mode reports the connection mode the client was built with.
func (c *Client) Mode() Mode {
	return c.mode
}

// API exposes the HTTP connection, when the mode has one.
func (c *Client) API() *api.Connection {
	return c.api
}

// DB exposes the database connection, when the mode has one.
func (c *Client) DB() *database.Connection {
	return c.db
}

// Close releases both backend connections.
func (c *Client) Close() error {
	if c.api != nil {
		c.api.Close()
	}
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
