package entities

import (
	"time"

	"greenhouse/pkg/climate"
)

type SensorReading struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	CO2         float64   `json:"co2"`
	RecordedAt  time.Time `gorm:"index" json:"recorded_at"`
}

func (r SensorReading) Reading() climate.Reading {
	return climate.Reading{Temperature: r.Temperature, Humidity: r.Humidity, CO2: r.CO2}
}

type Alert struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Metric      string    `gorm:"index" json:"metric"`
	Tier        string    `json:"tier"`
	Value       float64   `json:"value"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
