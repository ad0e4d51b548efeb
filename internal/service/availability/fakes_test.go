package availability

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var testTenant = domain.Tenant{ID: 1, Slug: "acme", Schema: "org_acme", Active: true}

type fakeCatalog struct {
	locations map[int64]*domain.Location
	resources map[int64]*domain.Resource
	services  map[int64]*domain.Service
}

func (c *fakeCatalog) GetLocation(_ context.Context, _ domain.Tenant, id int64) (*domain.Location, error) {
	loc, ok := c.locations[id]
	if !ok {
		return nil, catalogRepo.ErrLocationNotFound
	}
	return loc, nil
}

func (c *fakeCatalog) GetResource(_ context.Context, _ domain.Tenant, id int64) (*domain.Resource, error) {
	r, ok := c.resources[id]
	if !ok {
		return nil, catalogRepo.ErrResourceNotFound
	}
	return r, nil
}

func (c *fakeCatalog) GetResources(_ context.Context, _ domain.Tenant, ids []int64) ([]*domain.Resource, error) {
	out := make([]*domain.Resource, 0, len(ids))
	for _, id := range ids {
		if r, ok := c.resources[id]; ok {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *fakeCatalog) ListResourcesByLocation(_ context.Context, _ domain.Tenant, locationID int64) ([]*domain.Resource, error) {
	out := make([]*domain.Resource, 0)
	for _, r := range c.resources {
		if r.LocationID == locationID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *fakeCatalog) GetServices(_ context.Context, _ domain.Tenant, ids []int64) ([]*domain.Service, error) {
	out := make([]*domain.Service, 0, len(ids))
	for _, id := range ids {
		if s, ok := c.services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeSchedules struct {
	entries []domain.ScheduleEntry
}

func (f *fakeSchedules) ListByResourceAndWeekdays(_ context.Context, _ domain.Tenant, resourceID int64, weekdays ...int) ([]domain.ScheduleEntry, error) {
	out := make([]domain.ScheduleEntry, 0)
	for _, e := range f.entries {
		if e.ResourceID != resourceID {
			continue
		}
		if len(weekdays) > 0 && !containsInt(weekdays, e.Weekday) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeBlocks struct {
	blocks []domain.Block
}

func (f *fakeBlocks) ListOverlapping(_ context.Context, _ domain.Tenant, resourceID int64, from, to time.Time) ([]domain.Block, error) {
	out := make([]domain.Block, 0)
	for _, b := range f.blocks {
		if b.ResourceID == resourceID && b.StartAt.Before(to) && b.EndAt.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

// fakeBookings вычисляет окончание из текущих длительностей услуг, как это делает SQL
type fakeBookings struct {
	catalog  *fakeCatalog
	bookings []*domain.Booking
}

func (f *fakeBookings) ListOverlapping(_ context.Context, _ domain.Tenant, filter domain.OverlapFilter) ([]domain.BookingInterval, error) {
	out := make([]domain.BookingInterval, 0)
	for _, b := range f.bookings {
		if !containsInt64(b.ResourceIDs, filter.ResourceID) {
			continue
		}
		if filter.LocationID != 0 && b.LocationID != filter.LocationID {
			continue
		}
		if filter.ExcludeBookingID != nil && b.ID == *filter.ExcludeBookingID {
			continue
		}
		if !containsStatus(filter.Statuses, b.Status) {
			continue
		}
		total := 0
		for _, id := range b.ServiceIDs {
			total += f.catalog.services[id].DurationMinutes
		}
		end := b.StartAt.Add(time.Duration(total) * time.Minute)
		if b.StartAt.Before(filter.To) && end.After(filter.From) {
			out = append(out, domain.BookingInterval{BookingID: b.ID, StartAt: b.StartAt, EndAt: end, Status: b.Status})
		}
	}
	return out, nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fixture: одна локация (UTC), ресурс 1 "Ana", услуги 10 (30 мин) и 11 (45 мин),
// услуга 20 другой локации
type fixture struct {
	catalog   *fakeCatalog
	schedules *fakeSchedules
	blocks    *fakeBlocks
	bookings  *fakeBookings
	service   *Service
}

func newFixture(now time.Time) *fixture {
	catalog := &fakeCatalog{
		locations: map[int64]*domain.Location{
			1: {ID: 1, Name: "Centro", Timezone: "UTC"},
			2: {ID: 2, Name: "Norte", Timezone: "UTC"},
		},
		resources: map[int64]*domain.Resource{
			1: {ID: 1, LocationID: 1, Name: "Ana", ServiceIDs: []int64{10, 11}},
		},
		services: map[int64]*domain.Service{
			10: {ID: 10, LocationID: 1, Name: "Corte", DurationMinutes: 30},
			11: {ID: 11, LocationID: 1, Name: "Color", DurationMinutes: 45},
			12: {ID: 12, LocationID: 1, Name: "Consulta gratis", DurationMinutes: 0},
			20: {ID: 20, LocationID: 2, Name: "Masaje", DurationMinutes: 60},
		},
	}
	f := &fixture{
		catalog:   catalog,
		schedules: &fakeSchedules{},
		blocks:    &fakeBlocks{},
		bookings:  &fakeBookings{catalog: catalog},
	}
	f.service = NewService(catalog, f.schedules, f.blocks, f.bookings, DefaultConfig(), nil, nopLogger{}).
		WithTimeProvider(fixedClock{now: now})
	return f
}

func (f *fixture) addSchedule(resourceID int64, weekday int, start, end string) {
	f.schedules.entries = append(f.schedules.entries, domain.ScheduleEntry{
		ID:         int64(len(f.schedules.entries) + 1),
		ResourceID: resourceID,
		Weekday:    weekday,
		StartTime:  types.TimeString(start),
		EndTime:    types.TimeString(end),
	})
}

func (f *fixture) addBlock(resourceID int64, start, end time.Time, reason string) {
	f.blocks.blocks = append(f.blocks.blocks, domain.Block{
		ID: int64(len(f.blocks.blocks) + 1), ResourceID: resourceID, StartAt: start, EndAt: end, Reason: reason,
	})
}

func (f *fixture) addBooking(id int64, resourceIDs, serviceIDs []int64, start time.Time, status domain.BookingStatus) {
	f.bookings.bookings = append(f.bookings.bookings, &domain.Booking{
		ID: id, LocationID: 1, ResourceIDs: resourceIDs, ServiceIDs: serviceIDs, StartAt: start, Status: status,
	})
}

func utc(day, hour, minute int) time.Time {
	return time.Date(2026, 10, day, hour, minute, 0, 0, time.UTC)
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsInt64(list []int64, v int64) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsStatus(list []domain.BookingStatus, v domain.BookingStatus) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
