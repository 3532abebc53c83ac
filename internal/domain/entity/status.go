package entity

import "fmt"

// StatusCode is the flight status reported by oracles and recorded on chain
type StatusCode uint8

const (
	StatusUnknown       StatusCode = 0
	StatusOnTime        StatusCode = 10
	StatusLateAirline   StatusCode = 20
	StatusLateWeather   StatusCode = 30
	StatusLateTechnical StatusCode = 40
	StatusLateOther     StatusCode = 50
)

// IsLate reports whether the status is one of the late outcomes
func (s StatusCode) IsLate() bool {
	return s == StatusLateAirline || s == StatusLateWeather ||
		s == StatusLateTechnical || s == StatusLateOther
}

func (s StatusCode) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusOnTime:
		return "on-time"
	case StatusLateAirline:
		return "late-airline"
	case StatusLateWeather:
		return "late-weather"
	case StatusLateTechnical:
		return "late-technical"
	case StatusLateOther:
		return "late-other"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}
