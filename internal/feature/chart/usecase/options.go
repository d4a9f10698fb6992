package usecase

import "cryptovision/internal/feature/chart/domain/entity"

// DerivedChartOptions maps an interval to the chart axis settings.
// Intervals without a dedicated unit (15m, 1M, unknown codes) fall through to month.
func DerivedChartOptions(interval entity.Interval) entity.ChartOptions {
	var unit entity.TimeUnit
	switch interval {
	case entity.Interval1m, entity.Interval5m:
		unit = entity.TimeUnitMinute
	case entity.Interval1h:
		unit = entity.TimeUnitHour
	case entity.Interval1d:
		unit = entity.TimeUnitDay
	case entity.Interval1w:
		unit = entity.TimeUnitWeek
	default:
		unit = entity.TimeUnitMonth
	}
	return entity.ChartOptions{
		Responsive:  true,
		TimeUnit:    unit,
		BeginAtZero: true,
	}
}
