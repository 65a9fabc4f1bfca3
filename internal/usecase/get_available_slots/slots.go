package get_available_slots

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

// occupiedRange занятый интервал в минутах от полуночи, [start, end)
type occupiedRange struct {
	start types.TimeString
	end   types.TimeString
}

// ComputeAvailableSlots вычисляет свободные слоты барбера на дату.
//
// Алгоритм:
//  1. Берется расписание дня недели. Если рабочие часы не заданы, используется
//     расписание по умолчанию (пн-пт 09:00-18:00). Закрытый день дает пустой список.
//  2. Каждая смена проходится шагом policy.IntervalMinutes, конец смены не включается.
//  3. Если date совпадает с днем now, отбрасываются слоты не позже now + AdvanceHours.
//  4. Отбрасываются слоты, попавшие в занятый интервал: start <= slot < end.
//     Отмененные бронирования и неявки не учитываются.
//  5. Результат сортируется по времени, дубликаты от пересекающихся смен убираются.
//
// Слоты возвращаются как 12-часовые метки ("9:00 AM").
// Некорректное время в сменах или занятых интервалах возвращает domain.ErrConfiguration.
func ComputeAvailableSlots(
	date time.Time,
	now time.Time,
	workingHours *domain.WorkingHours,
	policy *domain.SlotPolicy,
	occupied []domain.OccupiedInterval,
) ([]string, error) {
	effectivePolicy := domain.DefaultSlotPolicy()
	if policy != nil {
		effectivePolicy = *policy
	}
	if err := effectivePolicy.Validate(); err != nil {
		return nil, err
	}

	hours := domain.DefaultWorkingHours()
	if workingHours != nil {
		hours = *workingHours
	}

	// Шаг 1: расписание на день
	day := hours.ForDate(date)
	if !day.IsOpen {
		return []string{}, nil
	}

	busy, err := parseOccupied(occupied)
	if err != nil {
		return nil, err
	}

	// Шаг 2: генерируем слоты по сменам
	candidates, err := generateShiftSlots(day.Shifts, effectivePolicy.IntervalMinutes)
	if err != nil {
		return nil, err
	}

	sameDay := isSameDay(date, now)
	cutoff := now.Add(effectivePolicy.AdvanceNotice())

	seen := make(map[int]struct{}, len(candidates))
	available := make([]types.TimeString, 0, len(candidates))
	for _, slot := range candidates {
		// Шаг 3: минимальное время до записи действует только для сегодняшнего дня
		if sameDay && !slot.On(date, now.Location()).After(cutoff) {
			continue
		}

		// Шаг 4: вычитаем занятые интервалы
		if isOccupied(slot, busy) {
			continue
		}

		if _, dup := seen[slot.Minutes()]; dup {
			continue
		}
		seen[slot.Minutes()] = struct{}{}
		available = append(available, slot)
	}

	// Шаг 5: хронологический порядок независимо от порядка смен
	sort.Slice(available, func(i, j int) bool {
		return available[i].IsBefore(available[j])
	})

	labels := make([]string, 0, len(available))
	for _, slot := range available {
		labels = append(labels, slot.Label12h())
	}

	return labels, nil
}

// generateShiftSlots генерирует начала слотов для всех смен дня с шагом interval.
// Смена с start >= end не дает слотов.
func generateShiftSlots(shifts []domain.Shift, interval int) ([]types.TimeString, error) {
	slots := make([]types.TimeString, 0)

	for i, shift := range shifts {
		start, err := types.NewTimeStringFromString(shift.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: shift #%d start: %v", domain.ErrConfiguration, i, err)
		}
		end, err := types.NewTimeStringFromString(shift.End)
		if err != nil {
			return nil, fmt.Errorf("%w: shift #%d end: %v", domain.ErrConfiguration, i, err)
		}

		for current := start; current.IsBefore(end); {
			slots = append(slots, current)

			current, err = current.AddMinutes(interval)
			if err != nil {
				// Шаг вышел за конец суток
				break
			}
		}
	}

	return slots, nil
}

// parseOccupied нормализует активные занятые интервалы
func parseOccupied(occupied []domain.OccupiedInterval) ([]occupiedRange, error) {
	ranges := make([]occupiedRange, 0, len(occupied))

	for i := range occupied {
		interval := &occupied[i]
		if !interval.IsActive() {
			continue
		}

		start, err := types.NewTimeStringFromString(interval.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: occupied interval #%d start: %v", domain.ErrConfiguration, i, err)
		}
		end, err := types.NewTimeStringFromString(interval.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: occupied interval #%d end: %v", domain.ErrConfiguration, i, err)
		}

		ranges = append(ranges, occupiedRange{start: start, end: end})
	}

	return ranges, nil
}

// isOccupied проверяет попадание слота в любой занятый интервал.
// Слот ровно в конце интервала свободен, слот в начале интервала занят.
func isOccupied(slot types.TimeString, busy []occupiedRange) bool {
	for _, r := range busy {
		if !slot.IsBefore(r.start) && slot.IsBefore(r.end) {
			return true
		}
	}
	return false
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
