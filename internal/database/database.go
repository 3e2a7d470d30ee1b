package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AgusMolinaCode/usuarios-api/internal/config"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

func dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case Postgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
		return postgres.Open(dsn), nil
	case SQLite:
		if cfg.Path != ":memory:" {
			// cria o diretório do arquivo se ainda não existir
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
				return nil, errors.WithStack(err)
			}
		}
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, errors.Errorf("driver não suportado: %s", cfg.Driver)
	}
}

// connect abre uma tentativa e fecha o pool dela se o banco não responder.
func connect(d gorm.Dialector, cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(d, &gorm.Config{
		Logger:         NewLogger(cfg.LogLevel, cfg.SlowThreshold),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		if db != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
		}
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := pingOrClose(sqlDB); err != nil {
		return nil, err
	}
	return db, nil
}

func pingOrClose(sqlDB *sql.DB) error {
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return err
	}
	return nil
}

// Open conecta ao banco configurado, tentando de novo com backoff exponencial
// até cfg.ConnectTimeout.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = cfg.ConnectTimeout

	var db *gorm.DB
	err = backoff.RetryNotify(func() error {
		db, err = connect(d, cfg)
		return err
	}, bo, func(err error, next time.Duration) {
		log.Warn().Err(err).Dur("retry_in", next).Str("driver", cfg.Driver).Msg("banco indisponível, tentando novamente")
	})
	if err != nil {
		return nil, errors.Wrap(err, "falha ao conectar ao banco")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if cfg.Driver == SQLite {
		// sqlite só aceita um escritor por vez
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
