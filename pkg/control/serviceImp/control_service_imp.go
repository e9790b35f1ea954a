package serviceImp

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"greenhouse/entities"
	"greenhouse/pkg/apierr"
	"greenhouse/pkg/climate"
	repo "greenhouse/pkg/control/repository"
	"greenhouse/pkg/control/service"
)

// ReadingSource gives the latest greenhouse reading.
type ReadingSource interface {
	Latest(ctx context.Context) (*entities.SensorReading, error)
}

type controlSvc struct {
	r        repo.ControlRepository
	readings ReadingSource
	eval     *climate.Evaluator
	loc      *time.Location
	log      *zap.Logger
	now      func() time.Time
}

func NewControlService(r repo.ControlRepository, readings ReadingSource, eval *climate.Evaluator, loc *time.Location, log *zap.Logger) service.ControlService {
	if loc == nil {
		loc = time.UTC
	}
	return &controlSvc{r: r, readings: readings, eval: eval, loc: loc, log: log.Named("control"), now: time.Now}
}

func (s *controlSvc) Zones(ctx context.Context) ([]entities.Zone, error) {
	return s.r.Zones(ctx)
}

func (s *controlSvc) UpdateZone(ctx context.Context, id uint, p service.ZonePatch) (*entities.Zone, error) {
	if p.FanSpeed != nil && !climate.ValidSpeed(*p.FanSpeed) {
		return nil, apierr.Validation("validation failed", map[string]string{"fan_speed": "must be between 0 and 5"})
	}
	z, err := s.r.Zone(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("zone")
	}
	if err != nil {
		return nil, err
	}
	if p.Active != nil {
		z.Active = *p.Active
	}
	if p.FanSpeed != nil && *p.FanSpeed != z.FanSpeed {
		if !z.Active {
			return nil, apierr.Validation("zone is inactive", map[string]string{"fan_speed": "activate the zone first"})
		}
		z.FanSpeed = *p.FanSpeed
	}
	if err := s.r.SaveZone(ctx, z); err != nil {
		return nil, err
	}
	s.log.Info("zone updated", zap.Uint("zone", z.ID), zap.Bool("active", z.Active), zap.Int("fan_speed", z.FanSpeed))
	return z, nil
}

func (s *controlSvc) Settings(ctx context.Context) (climate.FanPlan, error) {
	st, err := s.r.Settings(ctx)
	if err != nil {
		return climate.FanPlan{}, err
	}
	return st.Plan(), nil
}

func (s *controlSvc) UpdateSettings(ctx context.Context, in service.SettingsInput) (climate.FanPlan, error) {
	fe := apierr.FieldErrors{}
	for name, v := range map[string]int{
		"schedule.morning": in.Schedule.Morning, "schedule.afternoon": in.Schedule.Afternoon,
		"schedule.evening": in.Schedule.Evening, "schedule.night": in.Schedule.Night,
	} {
		if !climate.ValidSpeed(v) {
			fe.Add(name, "must be between 0 and 5")
		}
	}
	if err := fe.Err(); err != nil {
		return climate.FanPlan{}, err
	}
	st := &entities.ControlSettings{
		AutoMode:        in.AutoMode,
		Morning:         in.Schedule.Morning,
		Afternoon:       in.Schedule.Afternoon,
		Evening:         in.Schedule.Evening,
		Night:           in.Schedule.Night,
		TempTrigger:     in.Triggers.Temperature,
		HumidityTrigger: in.Triggers.Humidity,
		CO2Trigger:      in.Triggers.CO2,
	}
	if err := s.r.SaveSettings(ctx, st); err != nil {
		return climate.FanPlan{}, err
	}
	return st.Plan(), nil
}

// Effective evaluates every zone against the latest reading. Without a
// reading, auto mode runs on the schedule alone.
func (s *controlSvc) Effective(ctx context.Context) (service.Effective, error) {
	st, err := s.r.Settings(ctx)
	if err != nil {
		return service.Effective{}, err
	}
	zones, err := s.r.Zones(ctx)
	if err != nil {
		return service.Effective{}, err
	}
	plan := st.Plan()
	at := s.now().In(s.loc)

	out := service.Effective{DayPart: climate.DayPartAt(at), AutoMode: plan.AutoMode}
	var a climate.Assessment
	if r, err := s.readings.Latest(ctx); err == nil {
		a = s.eval.Assess(r.Reading())
		out.Assessment = &a
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return service.Effective{}, err
	} else {
		plan.Triggers = climate.Triggers{}
	}

	mode := "manual"
	if plan.AutoMode {
		mode = "auto"
	}
	for _, z := range zones {
		out.Zones = append(out.Zones, service.ZoneEffective{
			Zone:           z,
			EffectiveSpeed: climate.EffectiveSpeed(z.State(), plan, a, at),
			Mode:           mode,
		})
	}
	return out, nil
}
