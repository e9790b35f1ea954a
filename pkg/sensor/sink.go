package sensor

import (
	"context"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"greenhouse/entities"
	"greenhouse/pkg/climate"
)

// Sink receives every stored reading.
type Sink interface {
	Write(ctx context.Context, r entities.SensorReading, a climate.Assessment) error
	Close()
}

type influxSink struct {
	client influxdb2.Client
	write  api.WriteAPIBlocking
}

// NewInfluxSink writes "greenhouse_reading" points to bucket.
func NewInfluxSink(url, token, org, bucket string) Sink {
	client := influxdb2.NewClient(url, token)
	return &influxSink{client: client, write: client.WriteAPIBlocking(org, bucket)}
}

func (s *influxSink) Write(ctx context.Context, r entities.SensorReading, a climate.Assessment) error {
	p := influxdb2.NewPoint(
		"greenhouse_reading",
		map[string]string{
			"temperature_tier": string(a.Temperature.Tier),
			"humidity_tier":    string(a.Humidity.Tier),
			"co2_tier":         string(a.CO2.Tier),
		},
		map[string]interface{}{
			"temperature": r.Temperature,
			"humidity":    r.Humidity,
			"co2":         r.CO2,
		},
		r.RecordedAt,
	)
	return s.write.WritePoint(ctx, p)
}

func (s *influxSink) Close() { s.client.Close() }
