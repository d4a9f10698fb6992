package entity

// TimeUnit is the display unit of the chart's time axis.
type TimeUnit string

const (
	TimeUnitMinute TimeUnit = "minute"
	TimeUnitHour   TimeUnit = "hour"
	TimeUnitDay    TimeUnit = "day"
	TimeUnitWeek   TimeUnit = "week"
	TimeUnitMonth  TimeUnit = "month"
)

// ChartOptions are the axis settings the front-end applies to every chart type.
type ChartOptions struct {
	Responsive  bool
	TimeUnit    TimeUnit
	BeginAtZero bool
}
