package memory

import (
	"context"
	"sync"
	"time"

	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
)

type holidayRepository struct {
	mu       sync.RWMutex
	holidays map[time.Time][]*model.Holiday
}

func newHolidayRepository() *holidayRepository {
	return &holidayRepository{
		holidays: make(map[time.Time][]*model.Holiday),
	}
}

func (r *holidayRepository) Put(ctx context.Context, h *model.Holiday) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := model.HolidayKey(h.Date)
	stored := *h
	stored.Date = key
	r.holidays[key] = append(r.holidays[key], &stored)
	return nil
}

func (r *holidayRepository) IsHoliday(ctx context.Context, date time.Time, campus string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.holidays[model.HolidayKey(date)] {
		if h.Campus == "" || campus == "" || h.Campus == campus {
			return true, nil
		}
	}
	return false, nil
}
