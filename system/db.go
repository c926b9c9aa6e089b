package system

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"stadium/api/config"
	"stadium/api/model"
)

var db *gorm.DB

// Init opens the database connection pool and migrates the schema. Must be
// called once at startup before any GetDb call.
func Init() error {
	conf := config.GetConfig()

	gdb, err := gorm.Open(mysql.Open(conf.Database.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return errors.Wrap(err, "open database")
	}

	sqlDb, err := gdb.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}
	sqlDb.SetMaxOpenConns(conf.Database.MaxOpenConns)
	sqlDb.SetMaxIdleConns(conf.Database.MaxIdleConns)
	sqlDb.SetConnMaxLifetime(time.Hour)

	err = gdb.AutoMigrate(
		&model.Node{},
		&model.Edge{},
		&model.Closure{},
		&model.Tile{},
		&model.EmergencyRoute{},
	)
	if err != nil {
		return errors.Wrap(err, "migrate schema")
	}

	db = gdb
	return nil
}

func GetDb() *gorm.DB {
	return db
}
