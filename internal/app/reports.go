package app

import (
	"time"

	"github.com/chrissnell/glarecontrol/pkg/glare"
	"github.com/chrissnell/glarecontrol/pkg/solar"
)

const (
	timelineStartHour   = 5
	timelineEndHour     = 12
	timelineMinAltitude = -5.0

	significantGlareRisk = 50.0
)

// TimelineRow is one sample of the morning timeline.
type TimelineRow struct {
	Time      time.Time    `json:"time"`
	Azimuth   float64      `json:"azimuth"`
	Compass   string       `json:"compass"`
	Altitude  float64      `json:"altitude"`
	GlareRisk float64      `json:"glare_risk"`
	Status    glare.Status `json:"status"`
	DayOpen   int          `json:"day_open"`
	Step      string       `json:"step"`
}

// Timeline is the morning glare timeline for one day.
type Timeline struct {
	Date    time.Time     `json:"date"`
	Sunrise *time.Time    `json:"sunrise,omitempty"` // nil during polar day or night
	Rows    []TimelineRow `json:"rows"`
}

// MorningTimeline samples date every 30 minutes from 05:00 to 12:30 local
// time, keeping samples with the Sun higher than 5° below the horizon.
func (a *App) MorningTimeline(date time.Time) (Timeline, error) {
	date = date.In(a.location)
	y, m, d := date.Date()

	tl := Timeline{Date: time.Date(y, m, d, 0, 0, 0, 0, a.location)}
	if sunrise, _, ok := solar.SunriseSunset(tl.Date, a.cfg.Latitude, a.cfg.Longitude); ok {
		tl.Sunrise = &sunrise
	}

	for hour := timelineStartHour; hour <= timelineEndHour; hour++ {
		for _, minute := range []int{0, 30} {
			an, err := a.Analyze(time.Date(y, m, d, hour, minute, 0, 0, a.location))
			if err != nil {
				return Timeline{}, err
			}
			if an.Position.Altitude <= timelineMinAltitude {
				continue
			}
			tl.Rows = append(tl.Rows, TimelineRow{
				Time:      an.Time,
				Azimuth:   an.Position.Azimuth,
				Compass:   an.Compass,
				Altitude:  an.Position.Altitude,
				GlareRisk: an.Glare.GlareRisk,
				Status:    an.Glare.Status,
				DayOpen:   an.DayOpen,
				Step:      an.Step,
			})
		}
	}
	return tl, nil
}

// MonthGlare summarizes the morning glare on the 15th of a month.
type MonthGlare struct {
	Month time.Month `json:"month"`
	// Start and End bound the samples with significant glare; both are
	// nil when no sample exceeded it.
	Start    *time.Time    `json:"start,omitempty"`
	End      *time.Time    `json:"end,omitempty"`
	Duration time.Duration `json:"duration"`
	PeakRisk float64       `json:"peak_risk"`
	PeakTime *time.Time    `json:"peak_time,omitempty"`
}

// YearlyGlare samples the 15th of every month of year every 15 minutes from
// 05:00 to 12:45 local time.
func (a *App) YearlyGlare(year int) ([]MonthGlare, error) {
	months := make([]MonthGlare, 0, 12)

	for month := time.January; month <= time.December; month++ {
		mg := MonthGlare{Month: month}

		for hour := timelineStartHour; hour <= timelineEndHour; hour++ {
			for minute := 0; minute < 60; minute += 15 {
				t := time.Date(year, month, 15, hour, minute, 0, 0, a.location)
				an, err := a.Analyze(t)
				if err != nil {
					return nil, err
				}

				risk := an.Glare.GlareRisk
				if risk > mg.PeakRisk {
					mg.PeakRisk = risk
					mg.PeakTime = &an.Time
				}
				if risk > significantGlareRisk {
					if mg.Start == nil {
						mg.Start = &an.Time
					}
					mg.End = &an.Time
				}
			}
		}

		if mg.Start != nil {
			mg.Duration = mg.End.Sub(*mg.Start)
		}
		months = append(months, mg)
	}
	return months, nil
}
