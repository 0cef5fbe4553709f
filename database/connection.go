package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/promptlane/promptlane-go/metrics"
	"github.com/promptlane/promptlane-go/models"
)

// keyedTables lists the tables with a human-readable "key" column that
// get/update/delete fall back to when the argument is not a UUID.
var keyedTables = map[string]bool{
	"projects": true,
	"prompts":  true,
}

// Connection provides direct access to the PromptLane database.
// Resource names are table names; lookups accept either a UUID
// identifier or, where the table has one, a key.
type Connection struct {
	db        *gorm.DB
	logger    *zap.Logger
	collector *metrics.Collector
}

// Option configures a Connection.
type Option func(*Connection)

// WithLogger attaches a logger for query debugging.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Connection) { c.logger = logger }
}

// WithMetrics attaches a metrics collector recording query durations.
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Connection) { c.collector = collector }
}

// Open connects to the database behind the given connection string.
func Open(dsn string, opts ...Option) (*Connection, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening database connection")
	}

	c := &Connection{db: db, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the underlying connection pool.
func (c *Connection) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return errors.Wrap(err, "resolving sql.DB")
	}
	return sqlDB.Close()
}

// DB exposes the underlying gorm handle for queries this layer does not
// cover.
func (c *Connection) DB() *gorm.DB {
	return c.db
}

// Migrate creates or updates the PromptLane schema. Intended for test
// databases; the production schema is owned by the server.
func (c *Connection) Migrate() error {
	return c.db.AutoMigrate(
		&models.Team{},
		&models.User{},
		&models.Project{},
		&models.Prompt{},
		&models.Activity{},
		&models.TeamMember{},
	)
}

// lookupCondition builds the where clause for an id-or-key argument:
// identifier-shaped input matches the id column, anything else falls
// back to the key column. Returns an empty clause when the input is not
// a UUID and the table has no key column.
func lookupCondition(table, idOrKey string) (string, string) {
	if id, err := uuid.Parse(idOrKey); err == nil {
		return "id = ?", id.String()
	}
	if keyedTables[table] {
		return "key = ?", idOrKey
	}
	return "", ""
}

func (c *Connection) observe(table, operation string, start time.Time) {
	elapsed := time.Since(start)
	c.collector.ObserveQuery(table, operation, elapsed)
	c.logger.Debug("database query",
		zap.String("table", table),
		zap.String("operation", operation),
		zap.Duration("elapsed", elapsed))
}

// List fetches rows matching the given column filters into out, which
// must be a pointer to a slice of the resource's model.
func (c *Connection) List(ctx context.Context, table string, filters map[string]string, out any) error {
	defer c.observe(table, "list", time.Now())

	q := c.db.WithContext(ctx).Table(table)
	for column, value := range filters {
		q = q.Where(fmt.Sprintf("%s = ?", column), value)
	}
	return errors.Wrapf(q.Find(out).Error, "listing %s", table)
}

// Get fetches a single row by id or key into out. A missing row is not
// an error: it reports found=false.
func (c *Connection) Get(ctx context.Context, table, idOrKey string, out any) (bool, error) {
	defer c.observe(table, "get", time.Now())

	cond, arg := lookupCondition(table, idOrKey)
	if cond == "" {
		return false, nil
	}

	err := c.db.WithContext(ctx).Table(table).Where(cond, arg).Take(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "getting %s %s", table, idOrKey)
	}
	return true, nil
}

// Create inserts a new row built from data's set fields, generating an
// identifier when absent, and reads the committed row back into out
// within the same transaction.
func (c *Connection) Create(ctx context.Context, table string, data any, out any) error {
	defer c.observe(table, "create", time.Now())

	values, err := models.ToValues(data)
	if err != nil {
		return err
	}
	if id, ok := values["id"].(string); !ok || id == "" {
		values["id"] = uuid.NewString()
	}
	now := time.Now().UTC()
	if _, ok := values["created_at"]; !ok {
		values["created_at"] = now
	}
	if _, ok := values["updated_at"]; !ok {
		values["updated_at"] = now
	}

	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(table).Create(values).Error; err != nil {
			return err
		}
		return tx.Table(table).Where("id = ?", values["id"]).Take(out).Error
	})
	return errors.Wrapf(err, "creating %s", table)
}

// Update applies data's set fields to the row matching id or key and
// reads the committed row back into out within the same transaction.
func (c *Connection) Update(ctx context.Context, table, idOrKey string, data any, out any) error {
	defer c.observe(table, "update", time.Now())

	values, err := models.ToValues(data)
	if err != nil {
		return err
	}
	delete(values, "id")
	values["updated_at"] = time.Now().UTC()

	cond, arg := lookupCondition(table, idOrKey)
	if cond == "" {
		return errors.Wrapf(gorm.ErrRecordNotFound, "updating %s %s", table, idOrKey)
	}

	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(table).Where(cond, arg).Updates(values).Error; err != nil {
			return err
		}
		return tx.Table(table).Where(cond, arg).Take(out).Error
	})
	return errors.Wrapf(err, "updating %s %s", table, idOrKey)
}

// Delete removes the row matching id or key, reporting whether a row
// was removed.
func (c *Connection) Delete(ctx context.Context, table, idOrKey string) (bool, error) {
	defer c.observe(table, "delete", time.Now())

	cond, arg := lookupCondition(table, idOrKey)
	if cond == "" {
		return false, nil
	}

	res := c.db.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM %s WHERE %s", table, cond), arg)
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "deleting %s %s", table, idOrKey)
	}
	return res.RowsAffected > 0, nil
}

// ExecRaw runs an arbitrary query and returns the rows as column maps.
func (c *Connection) ExecRaw(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	var rows []map[string]any
	err := c.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	return rows, errors.Wrap(err, "executing raw query")
}
