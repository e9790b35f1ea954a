package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"greenhouse/entities"
	"greenhouse/pkg/apierr"
	"greenhouse/pkg/care"
	repo "greenhouse/pkg/crop/repository"
	"greenhouse/pkg/crop/service"
)

type cropSvc struct {
	r   repo.CropRepository
	loc *time.Location
	log *zap.Logger
	now func() time.Time
	sf  singleflight.Group
}

// NewCropService resolves "today" in loc.
func NewCropService(r repo.CropRepository, loc *time.Location, log *zap.Logger) service.CropService {
	if loc == nil {
		loc = time.UTC
	}
	return &cropSvc{r: r, loc: loc, log: log.Named("crop"), now: time.Now}
}

func (s *cropSvc) today() time.Time { return care.Today(s.now(), s.loc) }

func canonicalSchedule(fe apierr.FieldErrors, field, raw string) string {
	out, err := care.Canonical(raw)
	if err != nil {
		fe.Add(field, fmt.Sprintf("unknown schedule %q", strings.TrimSpace(raw)))
	}
	return out
}

func stageOf(name string) (string, int) {
	info := care.LookupStage(name)
	return string(info.Stage), info.Percentage
}

// refreshNext recomputes next-due dates from last ?? planted.
func refreshNext(c *entities.Crop) {
	for _, a := range care.Activities() {
		e := c.Entry(a)
		from := c.PlantedDate
		if e.Last != nil {
			from = *e.Last
		}
		next, err := care.NextDue(e.Schedule, from)
		if err != nil {
			continue
		}
		e.Next = next
		c.SetEntry(e)
	}
}

func (s *cropSvc) Create(ctx context.Context, uid string, in service.CreateCropInput) (*entities.Crop, error) {
	fe := apierr.FieldErrors{}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		fe.Add("name", "required")
	}
	planted, err := care.ParseDate(in.PlantedDate)
	if err != nil {
		fe.Add("planted_date", "expected YYYY-MM-DD")
	}
	c := &entities.Crop{
		ID:                    uuid.NewString(),
		UserID:                uid,
		Name:                  name,
		Variety:               strings.TrimSpace(in.Variety),
		PlantedDate:           planted,
		WateringSchedule:      canonicalSchedule(fe, "watering_schedule", in.WateringSchedule),
		PruningSchedule:       canonicalSchedule(fe, "pruning_schedule", in.PruningSchedule),
		FertilizationSchedule: canonicalSchedule(fe, "fertilization_schedule", in.FertilizationSchedule),
		Notes:                 strings.TrimSpace(in.Notes),
		Image:                 strings.TrimSpace(in.Image),
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}
	c.GrowthStage, c.GrowthPercentage = stageOf(in.GrowthStage)
	refreshNext(c)

	if err := s.r.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("crop created", zap.String("crop", c.ID), zap.String("user", uid))
	return c, nil
}

func (s *cropSvc) List(ctx context.Context, uid string) ([]entities.Crop, error) {
	return s.r.ListByUser(ctx, uid)
}

func (s *cropSvc) Get(ctx context.Context, uid, id string) (*entities.Crop, error) {
	c, err := s.r.FindByID(ctx, id, uid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("crop")
	}
	return c, err
}

func (s *cropSvc) Update(ctx context.Context, uid, id string, in service.UpdateCropInput) (*entities.Crop, error) {
	fe := apierr.FieldErrors{}
	sched := func(field string, p *string) *string {
		if p == nil {
			return nil
		}
		v := canonicalSchedule(fe, field, *p)
		return &v
	}
	watering := sched("watering_schedule", in.WateringSchedule)
	pruning := sched("pruning_schedule", in.PruningSchedule)
	fert := sched("fertilization_schedule", in.FertilizationSchedule)
	if err := fe.Err(); err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	set := func(dst *string, p *string) {
		if p != nil {
			*dst = strings.TrimSpace(*p)
		}
	}
	set(&c.Variety, in.Variety)
	set(&c.Notes, in.Notes)
	set(&c.Image, in.Image)
	set(&c.WateringSchedule, watering)
	set(&c.PruningSchedule, pruning)
	set(&c.FertilizationSchedule, fert)
	if in.GrowthStage != nil {
		c.GrowthStage, c.GrowthPercentage = stageOf(*in.GrowthStage)
	}
	refreshNext(c)

	if err := s.r.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *cropSvc) LogActivity(ctx context.Context, uid, id string, a care.Activity) (*entities.Crop, error) {
	today := s.today()
	key := strings.Join([]string{uid, id, string(a), today.Format(care.DateLayout)}, "|")
	// one run serves every caller coalesced on key
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do(key, func() (any, error) {
		return s.logActivity(shared, uid, id, a, today)
	})
	if err != nil {
		return nil, err
	}
	return v.(*entities.Crop), nil
}

func (s *cropSvc) logActivity(ctx context.Context, uid, id string, a care.Activity, today time.Time) (*entities.Crop, error) {
	stored, err := s.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	entry, err := stored.Entry(a).Log(today)
	if err != nil {
		return nil, apierr.Validation("stored schedule is not understood", map[string]string{string(a): err.Error()})
	}

	next := *stored
	next.SetEntry(entry)
	log := &entities.CareLog{
		ID:          uuid.NewString(),
		CropID:      stored.ID,
		UserID:      uid,
		Activity:    string(a),
		PerformedOn: *entry.Last,
		NextDue:     entry.Next,
	}
	applied, err := s.r.LogCare(ctx, &next, a, log)
	if err != nil {
		s.log.Warn("log activity failed", zap.String("crop", id), zap.String("activity", string(a)), zap.Error(err))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("crop")
		}
		return nil, err
	}
	if !applied {
		s.log.Debug("activity already logged today", zap.String("crop", id), zap.String("activity", string(a)))
		return s.Get(ctx, uid, id)
	}
	s.log.Info("activity logged", zap.String("crop", id), zap.String("activity", string(a)),
		zap.Time("last", *entry.Last))
	return &next, nil
}

func (s *cropSvc) History(ctx context.Context, uid, id string, limit int) ([]entities.CareLog, error) {
	if _, err := s.Get(ctx, uid, id); err != nil {
		return nil, err
	}
	return s.r.History(ctx, id, uid, limit)
}
