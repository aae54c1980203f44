package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/RamaAlqdri/sehatin/models"
	"github.com/RamaAlqdri/sehatin/repository"
	"github.com/RamaAlqdri/sehatin/services"
	"github.com/RamaAlqdri/sehatin/utils"
)

func TestCompleteLogsOneRecordAndDeleteReopens(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store, "eat@example.com")
	food := seedFood(t, store, "Nasi Goreng", 600, 2)

	// 12:30 is lunch
	now := time.Date(2024, 5, 3, 12, 30, 0, 0, time.UTC)
	clock := utils.FixedClock(time.UTC, now)
	schedules := services.NewScheduleService(store, clock, nil)
	history := services.NewHistoryService(store, clock, nil)

	sch, err := schedules.Create(ctx, services.CreateScheduleInput{
		UserID:      user.ID,
		FoodID:      food.ID,
		ScheduledAt: now.Add(-30 * time.Minute),
		WaterTarget: 500,
	})
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	if sch.CaloriesTarget != 600 {
		t.Fatalf("default calories target = %v, want food calories", sch.CaloriesTarget)
	}

	// completing twice still leaves a single record
	for i := 0; i < 2; i++ {
		done, err := schedules.Complete(ctx, sch.ID, user.ID)
		if err != nil {
			t.Fatalf("complete #%d: %v", i+1, err)
		}
		if !done.IsCompleted {
			t.Fatalf("complete #%d did not mark schedule", i+1)
		}
	}
	rows, err := store.History.ListConsumption(ctx, user.ID, clock.StartOfDay(now), clock.EndOfDay(now))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("records = %d, want 1", len(rows))
	}
	if rows[0].MealType != models.MealLunch || rows[0].Calories != 300 {
		t.Fatalf("record = %+v, want one lunch serving of 300 kcal", rows[0])
	}

	if err := history.DeleteConsumption(ctx, user.ID, food.ID, models.MealLunch, now); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := store.Schedules.GetByID(ctx, sch.ID)
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if got.IsCompleted {
		t.Fatal("delete should reopen the schedule")
	}

	err = history.DeleteConsumption(ctx, user.ID, food.ID, models.MealLunch, now)
	if !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestAddConsumptionUpsertsPerDay(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store, "log@example.com")
	food := seedFood(t, store, "Apple", 52, 100)

	now := time.Date(2024, 5, 3, 8, 0, 0, 0, time.UTC)
	clock := utils.FixedClock(time.UTC, now)
	history := services.NewHistoryService(store, clock, nil)
	schedules := services.NewScheduleService(store, clock, nil)

	sch, err := schedules.Create(ctx, services.CreateScheduleInput{UserID: user.ID, FoodID: food.ID, ScheduledAt: now})
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}

	first, err := history.AddConsumption(ctx, user.ID, food.ID, 150, models.MealBreakfast, now)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.Calories != 78 {
		t.Fatalf("calories = %v, want 78", first.Calories)
	}
	second, err := history.AddConsumption(ctx, user.ID, food.ID, 200, models.MealBreakfast, now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if second.ID != first.ID || second.Calories != 104 {
		t.Fatalf("second = %+v, want update of %s", second, first.ID)
	}

	got, err := store.Schedules.GetByID(ctx, sch.ID)
	if err != nil || !got.IsCompleted {
		t.Fatalf("schedule after add = %+v, %v", got, err)
	}

	// a different day is a new record
	yesterday := now.AddDate(0, 0, -1)
	if _, err := history.AddConsumption(ctx, user.ID, food.ID, 100, models.MealBreakfast, yesterday); err != nil {
		t.Fatalf("add yesterday: %v", err)
	}
	rows, err := history.ListRange(ctx, user.ID, yesterday, now)
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("range rows = %d, want 2", len(rows))
	}
	if rows[0].OccurredAt.Day() != 2 || rows[0].OccurredAt.Hour() != 8 {
		t.Fatalf("yesterday occurred at %v, want 2024-05-02 08:00", rows[0].OccurredAt)
	}
}

func TestAddConsumptionValidates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store, "bad@example.com")
	food := seedFood(t, store, "Tempe", 190, 100)
	history := services.NewHistoryService(store, utils.NewClock(time.UTC), nil)

	if _, err := history.AddConsumption(ctx, user.ID, food.ID, 0, models.MealLunch, time.Now()); !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("zero serving error = %v", err)
	}
	if _, err := history.AddConsumption(ctx, user.ID, food.ID, 1, "brunch", time.Now()); !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("bad meal error = %v", err)
	}
	if _, err := history.AddConsumption(ctx, user.ID, user.ID, 1, models.MealLunch, time.Now()); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("missing food error = %v", err)
	}
	if _, err := history.ListRange(ctx, user.ID, time.Now(), time.Now().AddDate(0, 0, -2)); !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("reversed range error = %v", err)
	}
}

func TestSummaryMatchesRepositoryWindow(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store, "sum@example.com")
	rice := seedFood(t, store, "Rice", 200, 1)
	soup := seedFood(t, store, "Soup", 150, 1)

	now := time.Date(2024, 5, 3, 19, 0, 0, 0, time.UTC)
	clock := utils.FixedClock(time.UTC, now)
	history := services.NewHistoryService(store, clock, nil)
	for _, in := range []struct {
		food *models.Food
		meal models.MealType
	}{{rice, models.MealBreakfast}, {rice, models.MealLunch}, {soup, models.MealDinner}} {
		if _, err := history.AddConsumption(ctx, user.ID, in.food.ID, 1, in.meal, now); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	agg := services.NewNutritionAggregator(store.History, store.Schedules, clock, utils.LookupLocale("en"))
	sum, err := agg.SummarizeAdvanced(ctx, user.ID, now.AddDate(0, 0, -6), now)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalCalories != 550 || sum.CaloriesPerMealType.Dinner != 150 {
		t.Fatalf("summary = %+v", sum)
	}
	if len(sum.GroupedCalories) != 1 || sum.GroupedCalories[0].Label != "fri 03" {
		t.Fatalf("grouped = %+v", sum.GroupedCalories)
	}
}

func TestStoreTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store, "tx@example.com")
	food := seedFood(t, store, "Tofu", 80, 1)

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.History.Create(ctx, &models.FoodHistory{
			UserID: user.ID, FoodID: food.ID, MealType: models.MealLunch, Calories: 80, OccurredAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("transaction error = %v", err)
	}
	rows, err := store.History.ListConsumption(ctx, user.ID, time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows after rollback = %d", len(rows))
	}
}

func TestCompleteLateKeepsScheduledDay(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store, "late@example.com")
	food := seedFood(t, store, "Bubur Ayam", 350, 1)

	planned := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	now := time.Date(2024, 5, 3, 20, 0, 0, 0, time.UTC)
	clock := utils.FixedClock(time.UTC, now)
	schedules := services.NewScheduleService(store, clock, nil)
	history := services.NewHistoryService(store, clock, nil)

	sch, err := schedules.Create(ctx, services.CreateScheduleInput{UserID: user.ID, FoodID: food.ID, ScheduledAt: planned})
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	if _, err := schedules.Complete(ctx, sch.ID, user.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	onPlanned, err := store.History.ListConsumption(ctx, user.ID, clock.StartOfDay(planned), clock.EndOfDay(planned))
	if err != nil {
		t.Fatalf("list planned day: %v", err)
	}
	if len(onPlanned) != 1 || onPlanned[0].MealType != models.MealBreakfast {
		t.Fatalf("planned day records = %+v, want one breakfast", onPlanned)
	}
	today, err := store.History.ListConsumption(ctx, user.ID, clock.StartOfDay(now), clock.EndOfDay(now))
	if err != nil {
		t.Fatalf("list today: %v", err)
	}
	if len(today) != 0 {
		t.Fatalf("today records = %d, want 0", len(today))
	}

	if err := history.DeleteConsumption(ctx, user.ID, food.ID, models.MealBreakfast, planned); err != nil {
		t.Fatalf("delete on planned day: %v", err)
	}
	got, err := store.Schedules.GetByID(ctx, sch.ID)
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if got.IsCompleted {
		t.Fatal("deleting the record should reopen the late schedule")
	}
}

func TestSameFoodSchedulesFollowMealSlot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store, "egg@example.com")
	egg := seedFood(t, store, "Egg", 78, 1)

	now := time.Date(2024, 5, 3, 21, 0, 0, 0, time.UTC)
	clock := utils.FixedClock(time.UTC, now)
	schedules := services.NewScheduleService(store, clock, nil)
	history := services.NewHistoryService(store, clock, nil)

	create := func(at time.Time) *models.Schedule {
		t.Helper()
		sch, err := schedules.Create(ctx, services.CreateScheduleInput{UserID: user.ID, FoodID: egg.ID, ScheduledAt: at})
		if err != nil {
			t.Fatalf("create schedule: %v", err)
		}
		return sch
	}
	breakfast := create(time.Date(2024, 5, 3, 7, 0, 0, 0, time.UTC))
	dinner := create(time.Date(2024, 5, 3, 19, 0, 0, 0, time.UTC))

	state := func() (bool, bool) {
		t.Helper()
		b, err := store.Schedules.GetByID(ctx, breakfast.ID)
		if err != nil {
			t.Fatalf("get breakfast: %v", err)
		}
		d, err := store.Schedules.GetByID(ctx, dinner.ID)
		if err != nil {
			t.Fatalf("get dinner: %v", err)
		}
		return b.IsCompleted, d.IsCompleted
	}

	if _, err := schedules.Complete(ctx, dinner.ID, user.ID); err != nil {
		t.Fatalf("complete dinner: %v", err)
	}
	if err := history.DeleteConsumption(ctx, user.ID, egg.ID, models.MealDinner, now); err != nil {
		t.Fatalf("delete dinner: %v", err)
	}
	if b, d := state(); b || d {
		t.Fatalf("after dinner round trip: breakfast=%v dinner=%v, want both open", b, d)
	}

	if _, err := history.AddConsumption(ctx, user.ID, egg.ID, 1, models.MealBreakfast, now); err != nil {
		t.Fatalf("add breakfast: %v", err)
	}
	if b, d := state(); !b || d {
		t.Fatalf("after breakfast add: breakfast=%v dinner=%v", b, d)
	}

	// no slot matches "other", so the earliest open schedule is taken
	if _, err := history.AddConsumption(ctx, user.ID, egg.ID, 1, models.MealOther, now); err != nil {
		t.Fatalf("add other: %v", err)
	}
	if b, d := state(); !b || !d {
		t.Fatalf("after other add: breakfast=%v dinner=%v, want both completed", b, d)
	}

	if err := history.DeleteConsumption(ctx, user.ID, egg.ID, models.MealBreakfast, now); err != nil {
		t.Fatalf("delete breakfast: %v", err)
	}
	if b, d := state(); b || !d {
		t.Fatalf("after breakfast delete: breakfast=%v dinner=%v", b, d)
	}
}

func TestConcurrentAddConsumptionKeepsOneRecord(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store, "race@example.com")
	food := seedFood(t, store, "Pisang", 100, 3)

	now := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	history := services.NewHistoryService(store, utils.FixedClock(time.UTC, now), nil)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := history.AddConsumption(ctx, user.ID, food.ID, 1, models.MealLunch, now)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	rows, err := store.History.ListConsumption(ctx, user.ID, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("records = %d, want 1", len(rows))
	}
	// stored unrounded; rounding happens when summaries are built
	if rows[0].Calories != 100.0/3 {
		t.Fatalf("calories = %v, want %v", rows[0].Calories, 100.0/3)
	}
}
