package mysql

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/toml"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/entity"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _db *gorm.DB

func init() {
	username := toml.GetConfig().Mysql.User
	password := toml.GetConfig().Mysql.Password
	host := toml.GetConfig().Mysql.Host
	port := toml.GetConfig().Mysql.Port
	dbname := toml.GetConfig().Mysql.DbName
	timeout := "10s" // if connection time > 10s, then timeout

	// dsn == Data Source Name
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8&parseTime=True&loc=UTC&timeout=%s", username, password, host, port, dbname, timeout)
	var err error

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second, // SQL queries slower than 1s are considered "slow"
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	_db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	if err := _db.AutoMigrate(
		&entity.ElectricityDataEntity{},
		&entity.ImportJobEntity{},
		&entity.ImportErrorEntity{},
	); err != nil {
		fmt.Println("Migration failed:", err)
	}

	sqlDB, _ := _db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
}

func GetDB() *gorm.DB {
	return _db
}

// EnableBulkOptimizations relaxes per-statement checks for large CSV imports.
func EnableBulkOptimizations() error {
	if _db == nil {
		return fmt.Errorf("db not initialised")
	}
	return _db.Exec("SET SESSION unique_checks=0, foreign_key_checks=0").Error
}

// DisableBulkOptimizations restores the defaults after an import run.
func DisableBulkOptimizations() error {
	if _db == nil {
		return fmt.Errorf("db not initialised")
	}
	return _db.Exec("SET SESSION unique_checks=1, foreign_key_checks=1").Error
}
