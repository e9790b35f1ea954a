package serviceImp

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"greenhouse/database/dbtest"
	"greenhouse/pkg/apierr"
	"greenhouse/pkg/care"
	"greenhouse/pkg/crop/repositoryImp"
	"greenhouse/pkg/crop/service"
)

func day(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(care.DateLayout)
}

func newSvc(t *testing.T, now time.Time) *cropSvc {
	t.Helper()
	s := NewCropService(repositoryImp.New(dbtest.New(t)), time.UTC, zap.NewNop()).(*cropSvc)
	s.now = func() time.Time { return now }
	return s
}

func tomato() service.CreateCropInput {
	return service.CreateCropInput{
		Name:                  "Tomato",
		Variety:               "Cherry",
		PlantedDate:           "2023-10-01",
		GrowthStage:           "flowering",
		WateringSchedule:      "every 2 days",
		PruningSchedule:       "weekly",
		FertilizationSchedule: "never",
	}
}

func TestCreate_ComputesNextFromPlanted(t *testing.T) {
	s := newSvc(t, time.Date(2023, 10, 8, 9, 0, 0, 0, time.UTC))
	c, err := s.Create(context.Background(), "u1", tomato())
	require.NoError(t, err)

	assert.Equal(t, "Every 2 days", c.WateringSchedule)
	assert.Equal(t, "Weekly", c.PruningSchedule)
	assert.Equal(t, "Never", c.FertilizationSchedule)
	assert.Equal(t, "2023-10-03", day(c.NextWatering))
	assert.Equal(t, "2023-10-08", day(c.NextPruning))
	assert.Nil(t, c.NextFertilization)
	assert.Equal(t, "Flowering", c.GrowthStage)
	assert.Equal(t, 60, c.GrowthPercentage)
}

func TestCreate_Validation(t *testing.T) {
	s := newSvc(t, time.Now())
	in := tomato()
	in.Name = "  "
	in.PlantedDate = "10/01/2023"
	in.WateringSchedule = "sometimes"

	_, err := s.Create(context.Background(), "u1", in)
	var ae *apierr.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	details, ok := ae.Details.(apierr.FieldErrors)
	require.True(t, ok)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "planted_date")
	assert.Contains(t, details, "watering_schedule")
}

func TestLogActivity_OncePerDay(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t, time.Date(2023, 10, 8, 22, 0, 0, 0, time.UTC))
	c, err := s.Create(ctx, "u1", tomato())
	require.NoError(t, err)

	got, err := s.LogActivity(ctx, "u1", c.ID, care.Watering)
	require.NoError(t, err)
	assert.Equal(t, "2023-10-08", day(got.LastWatered))
	assert.Equal(t, "2023-10-10", day(got.NextWatering))
	assert.Equal(t, "2023-10-08", day(got.NextPruning), "other activities untouched")

	again, err := s.LogActivity(ctx, "u1", c.ID, care.Watering)
	require.NoError(t, err)
	assert.Equal(t, "2023-10-10", day(again.NextWatering))

	hist, err := s.History(ctx, "u1", c.ID, 0)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestLogActivity_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t, time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC))
	in := tomato()
	in.FertilizationSchedule = "monthly"
	c, err := s.Create(ctx, "u1", in)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.LogActivity(ctx, "u1", c.ID, care.Fertilization)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, "u1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", day(got.LastFertilized))
	assert.Equal(t, "2024-02-29", day(got.NextFertilization))

	hist, err := s.History(ctx, "u1", c.ID, 10)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestLogActivity_OutlivesCallerCancel(t *testing.T) {
	s := newSvc(t, time.Date(2023, 10, 8, 9, 0, 0, 0, time.UTC))
	c, err := s.Create(context.Background(), "u1", tomato())
	require.NoError(t, err)

	gone, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := s.LogActivity(gone, "u1", c.ID, care.Pruning)
	require.NoError(t, err)
	assert.Equal(t, "2023-10-08", day(got.LastPruned))

	hist, err := s.History(context.Background(), "u1", c.ID, 0)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestLogActivity_UsesLocationForToday(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t, time.Date(2023, 10, 8, 20, 0, 0, 0, time.UTC))
	s.loc = time.FixedZone("ICT", 7*3600)
	c, err := s.Create(ctx, "u1", tomato())
	require.NoError(t, err)

	got, err := s.LogActivity(ctx, "u1", c.ID, care.Pruning)
	require.NoError(t, err)
	assert.Equal(t, "2023-10-09", day(got.LastPruned))
	assert.Equal(t, "2023-10-16", day(got.NextPruning))
}

func TestOtherUsersCropIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t, time.Now())
	c, err := s.Create(ctx, "owner", tomato())
	require.NoError(t, err)

	_, err = s.Get(ctx, "intruder", c.ID)
	var ae *apierr.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusNotFound, ae.Status)

	_, err = s.LogActivity(ctx, "intruder", c.ID, care.Watering)
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusNotFound, ae.Status)
}

func TestUpdate_RecomputesNext(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t, time.Date(2023, 10, 8, 9, 0, 0, 0, time.UTC))
	c, err := s.Create(ctx, "u1", tomato())
	require.NoError(t, err)
	_, err = s.LogActivity(ctx, "u1", c.ID, care.Watering)
	require.NoError(t, err)

	daily := "daily"
	notes := "moved to bed 3"
	got, err := s.Update(ctx, "u1", c.ID, service.UpdateCropInput{WateringSchedule: &daily, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "Daily", got.WateringSchedule)
	assert.Equal(t, "2023-10-09", day(got.NextWatering))
	assert.Equal(t, notes, got.Notes)
	assert.Equal(t, "Cherry", got.Variety)

	bad := "fortnightly"
	_, err = s.Update(ctx, "u1", c.ID, service.UpdateCropInput{PruningSchedule: &bad})
	var ae *apierr.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
}

func TestExportCalendar(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t, time.Date(2023, 10, 8, 9, 0, 0, 0, time.UTC))
	_, err := s.Create(ctx, "u1", tomato())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportCalendar(ctx, "u1", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(calendarSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Crop", rows[0][0])
	assert.Equal(t, []string{"Tomato", "Cherry", "Flowering", "60", "watering", "Every 2 days", "", "2023-10-03"}, rows[1])
}
