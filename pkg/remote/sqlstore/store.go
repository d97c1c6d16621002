package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tacoloja/storefront-backend/pkg/config"
	"github.com/tacoloja/storefront-backend/pkg/logger"
	"github.com/tacoloja/storefront-backend/pkg/remote"
)

// recordRow stores one JSON document per entity and id. All catalog
// entities share the table so the store stays schema-agnostic.
type recordRow struct {
	Entity    string `gorm:"primaryKey;size:64"`
	RecordID  string `gorm:"primaryKey;size:64;column:record_id"`
	Doc       string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (recordRow) TableName() string {
	return "catalog_records"
}

// Store implements the remote record contract on a SQL database.
type Store struct {
	conn *gorm.DB
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Open boots a store against Postgres, or SQLite when the flag is set.
func Open(ctx context.Context, cfg config.DBConfig, flags config.FeatureFlagsConfig, logg *logger.Logger) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	var dialector gorm.Dialector
	if flags.UseSQLite {
		dialector = sqlite.Open(cfg.DSN)
	} else {
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		})
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	applyPoolSettings(sqlDB, cfg)

	store := &Store{conn: conn}

	if flags.AutoMigrate {
		if err := conn.AutoMigrate(&recordRow{}); err != nil {
			return nil, fmt.Errorf("migrating catalog records: %w", err)
		}
	}

	if logg != nil {
		logg.Info(ctx, "sql record store initialized")
	}

	return store, nil
}

// New wraps an existing GORM connection without opening a new one.
func New(conn *gorm.DB) (*Store, error) {
	if conn == nil {
		return nil, errors.New("gorm connection is required")
	}
	return &Store{conn: conn}, nil
}

func applyPoolSettings(sqlDB *sql.DB, cfg config.DBConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// Migrate creates or updates the backing table.
func (s *Store) Migrate() error {
	return s.conn.AutoMigrate(&recordRow{})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) List(ctx context.Context, entity string) ([]remote.Record, error) {
	var rows []recordRow
	err := s.conn.WithContext(ctx).
		Where("entity = ?", entity).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", entity, err)
	}

	records := make([]remote.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, remote.Record{ID: row.RecordID, Doc: []byte(row.Doc)})
	}
	return records, nil
}

func (s *Store) GetByID(ctx context.Context, entity, id string) (*remote.Record, error) {
	var row recordRow
	err := s.conn.WithContext(ctx).
		First(&row, "entity = ? AND record_id = ?", entity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, remote.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching %s/%s: %w", entity, id, err)
	}
	return &remote.Record{ID: row.RecordID, Doc: []byte(row.Doc)}, nil
}

func (s *Store) Upsert(ctx context.Context, entity string, rec remote.Record) (*remote.Record, error) {
	if rec.ID == "" {
		return nil, errors.New("record id is required")
	}

	row := recordRow{
		Entity:   entity,
		RecordID: rec.ID,
		Doc:      string(rec.Doc),
	}
	err := s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entity"}, {Name: "record_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"doc", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("upserting %s/%s: %w", entity, rec.ID, err)
	}
	return &remote.Record{ID: rec.ID, Doc: rec.Doc}, nil
}

func (s *Store) Delete(ctx context.Context, entity, id string) error {
	result := s.conn.WithContext(ctx).
		Where("entity = ? AND record_id = ?", entity, id).
		Delete(&recordRow{})
	if result.Error != nil {
		return fmt.Errorf("deleting %s/%s: %w", entity, id, result.Error)
	}
	return nil
}
