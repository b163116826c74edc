package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"grocery-admin/internal/model"
)

// GormStore is the MySQL backend.
type GormStore struct {
	db *gorm.DB
}

// OpenGorm connects to MySQL with dsn, e.g.
// user:pass@tcp(127.0.0.1:3306)/grocery?charset=utf8mb4&parseTime=True&loc=UTC
func OpenGorm(dsn string) (*GormStore, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
	gdb, err := gorm.Open(mysql.Open(dsn), gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return &GormStore{db: gdb}, nil
}

// NewGormStore wraps an already opened connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the tables of every model.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.StatusRecord{},
	)
}

func (s *GormStore) Orders() *GormOrderRepository    { return &GormOrderRepository{db: s.db} }
func (s *GormStore) Users() *GormUserRepository      { return &GormUserRepository{db: s.db} }
func (s *GormStore) Roles() *GormRoleRepository      { return &GormRoleRepository{db: s.db} }
func (s *GormStore) Catalog() *GormCatalogRepository { return &GormCatalogRepository{db: s.db} }

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches s anywhere with LIKE wildcards taken literally.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func paginate(offset, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Offset(offset).Limit(limit)
	}
}
