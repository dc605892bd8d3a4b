package configs

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenConnection opens the database selected by DB_DRIVER.
func OpenConnection(env ENV, log logrus.FieldLogger) (*gorm.DB, error) {
	switch env.DBDriver {
	case DriverMySQL:
		return openMySQL(env, log)
	case DriverSQLite, "":
		log.WithField("path", env.DBPath).Info("OpenConnection: using sqlite database")
		return OpenSQLite(env.DBPath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", env.DBDriver)
	}
}

func openMySQL(env ENV, log logrus.FieldLogger) (*gorm.DB, error) {
	cfg := mysqldriver.NewConfig()
	cfg.User = env.DBUser
	cfg.Passwd = env.DBPassword
	cfg.Net = "tcp"
	cfg.Addr = env.DBHost + ":" + env.DBPort
	cfg.DBName = env.DBName
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	dsn := cfg.FormatDSN()

	maxRetries := 10
	retryDelay := 5 * time.Second

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		log.WithFields(logrus.Fields{"attempt": i + 1, "max": maxRetries, "host": env.DBHost}).Info("openMySQL: connecting to database")
		db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					log.Info("openMySQL: database connection successful")
					return db, nil
				}
			}
			lastErr = pingErr
			log.WithError(pingErr).Warnf("openMySQL: failed to ping database, retrying in %v", retryDelay)
		} else {
			lastErr = err
			log.WithError(err).Warnf("openMySQL: failed to open connection, retrying in %v", retryDelay)
		}

		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect to the database after %d retries: %w", maxRetries, lastErr)
}

// OpenSQLite opens a sqlite database. A single connection is kept so that
// transactions never contend with each other on the same file.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
