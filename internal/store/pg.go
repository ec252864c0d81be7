package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/feral-file/ff-social-escrow/internal/store/schema"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// MAX_INSTRUCTION_LOG_LIMIT caps one page of the instruction journal
const MAX_INSTRUCTION_LOG_LIMIT = 500

type sqlStore struct {
	db *gorm.DB
}

// NewStore creates a new store backed by a gorm connection
func NewStore(db *gorm.DB) Store {
	return &sqlStore{db: db}
}

// Open opens a gorm connection for driver. Postgres is used in production,
// sqlite for local development and tests.
func Open(driver string, dsn string, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres, "":
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	logLevel := gormlogger.Silent
	if debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables used by the store
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&schema.Account{}, &schema.InstructionLog{}, &schema.KeyValueStore{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// If any of the pool settings are 0 or empty, the defaults of NormalizeConnectionPoolSettings are used.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns <= 0 {
		maxOpenConns = 20
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Idle connections are a subset of open ones
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// GetAccount retrieves an account by address
func (s *sqlStore) GetAccount(ctx context.Context, address string) (*schema.Account, error) {
	var acc schema.Account
	err := s.db.WithContext(ctx).Where("address = ?", address).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acc, nil
}

// GetAccountForUpdate retrieves an account with a row lock.
// SQLite has no row locks; its writers are serialized by the database lock instead.
func (s *sqlStore) GetAccountForUpdate(ctx context.Context, address string) (*schema.Account, error) {
	var acc schema.Account
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", address).
		First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	return &acc, nil
}

// GetAccounts retrieves the existing accounts among addresses
func (s *sqlStore) GetAccounts(ctx context.Context, addresses []string) ([]*schema.Account, error) {
	if len(addresses) == 0 {
		return []*schema.Account{}, nil
	}

	var accounts []*schema.Account
	err := s.db.WithContext(ctx).
		Where("address IN ?", addresses).
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	return accounts, nil
}

// ListAccountsByKind retrieves every account of a layout kind ordered by address
func (s *sqlStore) ListAccountsByKind(ctx context.Context, kind string) ([]*schema.Account, error) {
	var accounts []*schema.Account
	err := s.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("address ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// CreateAccount creates an account if its address is free
func (s *sqlStore) CreateAccount(ctx context.Context, input CreateAccountInput) error {
	acc := schema.Account{
		Address: input.Address,
		Owner:   input.Owner,
		Kind:    input.Kind,
		Data:    input.Data,
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			DoNothing: true,
		}).
		Create(&acc)
	if result.Error != nil {
		return fmt.Errorf("failed to create account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountExists
	}
	return nil
}

// UpdateAccountData overwrites the data of an existing account
func (s *sqlStore) UpdateAccountData(ctx context.Context, address string, data []byte) error {
	result := s.db.WithContext(ctx).
		Model(&schema.Account{}).
		Where("address = ?", address).
		Updates(map[string]interface{}{
			"data":       data,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// DeleteAccount removes an account
func (s *sqlStore) DeleteAccount(ctx context.Context, address string) error {
	err := s.db.WithContext(ctx).
		Where("address = ?", address).
		Delete(&schema.Account{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// CreateInstructionLog records an executed instruction
func (s *sqlStore) CreateInstructionLog(ctx context.Context, input CreateInstructionLogInput) error {
	entry := schema.InstructionLog{
		ID:           input.ID,
		Instruction:  input.Instruction,
		Signer:       input.Signer,
		Wallet:       input.Wallet,
		Handle:       input.Handle,
		Status:       input.Status,
		ErrorCode:    input.ErrorCode,
		ErrorMessage: input.ErrorMessage,
		Args:         input.Args,
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to create instruction log: %w", err)
	}
	return nil
}

// ListInstructionLogs retrieves journal entries matching filter, newest first
func (s *sqlStore) ListInstructionLogs(ctx context.Context, filter InstructionLogFilter) ([]*schema.InstructionLog, error) {
	query := s.db.WithContext(ctx).Model(&schema.InstructionLog{})

	if filter.Wallet != "" {
		query = query.Where("signer = ? OR wallet = ?", filter.Wallet, filter.Wallet)
	}
	if filter.Handle != "" {
		query = query.Where("handle = ?", filter.Handle)
	}
	if filter.Instruction != "" {
		query = query.Where("instruction = ?", filter.Instruction)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > MAX_INSTRUCTION_LOG_LIMIT {
		limit = MAX_INSTRUCTION_LOG_LIMIT
	}

	var entries []*schema.InstructionLog
	err := query.
		Order("id DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list instruction logs: %w", err)
	}
	return entries, nil
}

// SetKeyValue stores a value by key
func (s *sqlStore) SetKeyValue(ctx context.Context, key string, value string) error {
	kv := schema.KeyValueStore{
		Key:   key,
		Value: value,
	}

	err := s.db.WithContext(ctx).Save(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set key-value: %w", err)
	}

	return nil
}

// GetKeyValue retrieves a value by key
func (s *sqlStore) GetKeyValue(ctx context.Context, key string) (string, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get key-value: %w", err)
	}

	return kv.Value, nil
}

// DeleteKeyValue removes a key. Only one concurrent caller sees true.
func (s *sqlStore) DeleteKeyValue(ctx context.Context, key string) (bool, error) {
	result := s.db.WithContext(ctx).Where("key = ?", key).Delete(&schema.KeyValueStore{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete key-value: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListKeyValues pages through the keys sharing prefix
func (s *sqlStore) ListKeyValues(ctx context.Context, prefix string, after string, limit int) ([]*schema.KeyValueStore, error) {
	if limit <= 0 {
		limit = 100
	}

	var entries []*schema.KeyValueStore
	err := s.db.WithContext(ctx).
		Where(`key LIKE ? ESCAPE '\' AND key > ?`, escapeLike(prefix)+"%", after).
		Order("key ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list key-values: %w", err)
	}

	return entries, nil
}

// escapeLike escapes the LIKE wildcards of s
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

// WithTx runs fn in a transaction
func (s *sqlStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&sqlStore{db: tx})
	})
}
