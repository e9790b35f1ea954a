// database/bootstrap.go
package database

import (
	"errors"
	"fmt"
	"time"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"greenhouse/entities"
	"greenhouse/pkg/care"
)

func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// one writer; also keeps ":memory:" to a single shared database
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate brings the schema up to date, seeds the control panel and fills
// next-due dates on rows written before they were stored.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(
		&entities.Crop{},
		&entities.CareLog{},
		&entities.Profile{},
		&entities.Account{},
		&entities.RevokedToken{},
		&entities.PasswordReset{},
		&entities.Zone{},
		&entities.ControlSettings{},
		&entities.SensorReading{},
		&entities.Alert{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	if err := seedControl(db); err != nil {
		return fmt.Errorf("seed control: %w", err)
	}
	n, err := backfillNextDates(db)
	if err != nil {
		return fmt.Errorf("backfill next dates: %w", err)
	}
	if n > 0 {
		log.Info("backfilled next-due dates", zap.Int("crops", n))
	}
	return nil
}

var defaultZones = []entities.Zone{
	{ID: 1, Name: "Zone 1", Active: true, FanSpeed: 3},
	{ID: 2, Name: "Zone 2", Active: true, FanSpeed: 2},
	{ID: 3, Name: "Zone 3", Active: true, FanSpeed: 4},
	{ID: 4, Name: "Zone 4", Active: false, FanSpeed: 1},
}

var defaultSettings = entities.ControlSettings{
	ID: 1, AutoMode: false,
	Morning: 2, Afternoon: 4, Evening: 3, Night: 1,
	TempTrigger: true, HumidityTrigger: true, CO2Trigger: true,
}

func seedControl(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&entities.Zone{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			zones := make([]entities.Zone, len(defaultZones))
			copy(zones, defaultZones)
			// Select("*") so the inactive zone keeps Active=false
			if err := tx.Select("*").Create(&zones).Error; err != nil {
				return err
			}
		}
		var s entities.ControlSettings
		err := tx.First(&s, 1).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s = defaultSettings
			return tx.Select("*").Create(&s).Error
		}
		return err
	})
}

// backfillNextDates computes missing next-due dates from last ?? planted.
// Rows with an unparseable schedule are left alone.
func backfillNextDates(db *gorm.DB) (int, error) {
	var crops []entities.Crop
	err := db.Where("(next_watering IS NULL AND watering_schedule <> '') OR " +
		"(next_pruning IS NULL AND pruning_schedule <> '') OR " +
		"(next_fertilization IS NULL AND fertilization_schedule <> '')").
		Find(&crops).Error
	if err != nil {
		return 0, err
	}

	touched := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		for i := range crops {
			c := &crops[i]
			updates := map[string]any{}
			for _, a := range care.Activities() {
				e := c.Entry(a)
				if e.Next != nil {
					continue
				}
				from := c.PlantedDate
				if e.Last != nil {
					from = *e.Last
				}
				next, err := care.NextDue(e.Schedule, from)
				if err != nil || next == nil {
					continue
				}
				_, col := entities.CareColumns(a)
				updates[col] = *next
			}
			if len(updates) == 0 {
				continue
			}
			updates["updated_at"] = time.Now()
			if err := tx.Model(&entities.Crop{}).Where("id = ?", c.ID).Updates(updates).Error; err != nil {
				return err
			}
			touched++
		}
		return nil
	})
	return touched, err
}
