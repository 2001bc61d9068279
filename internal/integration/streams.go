package integration

import (
	"fmt"
	"math"

	"github.com/deppfellow/gearguardian/internal/lib/strava"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/goccy/go-json"
)

type hrPoint struct {
	Time int `json:"time"`
	HR   int `json:"hr"`
}

type powerPoint struct {
	Time  int `json:"time"`
	Power int `json:"power"`
}

type cadencePoint struct {
	Time int `json:"time"`
	Cad  int `json:"cad"`
}

type elevationPoint struct {
	Time int     `json:"time"`
	Ele  float64 `json:"ele"`
}

type velocityPoint struct {
	Time int     `json:"time"`
	Vel  float64 `json:"vel"`
}

// pacePoint is seconds per metre.
type pacePoint struct {
	Time int     `json:"time"`
	Pace float64 `json:"pace"`
}

type latLonPoint struct {
	Time int     `json:"time"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// StravaStreams converts a Strava stream set into stored streams. Series
// without a time stream cannot be aligned and are dropped. The pace stream
// is derived from velocity and skips stationary samples.
func StravaStreams(set *strava.StreamSet) ([]model.ActivityStream, error) {
	if set == nil || set.Time == nil || len(set.Time.Data) == 0 {
		return nil, nil
	}
	times := set.Time.Data

	var out []model.ActivityStream
	add := func(st model.StreamType, points any, n int) error {
		if n == 0 {
			return nil
		}
		raw, err := json.Marshal(points)
		if err != nil {
			return fmt.Errorf("encode stream %d: %w", st, err)
		}
		out = append(out, model.ActivityStream{StreamType: st, StreamWaypoints: raw})
		return nil
	}

	if s := set.HeartRate; s != nil {
		points := make([]hrPoint, 0, len(s.Data))
		for i, v := range s.Data {
			if i < len(times) {
				points = append(points, hrPoint{Time: int(times[i]), HR: round(v)})
			}
		}
		if err := add(model.StreamTypeHeartRate, points, len(points)); err != nil {
			return nil, err
		}
	}

	if s := set.Watts; s != nil {
		points := make([]powerPoint, 0, len(s.Data))
		for i, v := range s.Data {
			if i < len(times) {
				points = append(points, powerPoint{Time: int(times[i]), Power: round(v)})
			}
		}
		if err := add(model.StreamTypePower, points, len(points)); err != nil {
			return nil, err
		}
	}

	if s := set.Cadence; s != nil {
		points := make([]cadencePoint, 0, len(s.Data))
		for i, v := range s.Data {
			if i < len(times) {
				points = append(points, cadencePoint{Time: int(times[i]), Cad: round(v)})
			}
		}
		if err := add(model.StreamTypeCadence, points, len(points)); err != nil {
			return nil, err
		}
	}

	if s := set.Altitude; s != nil {
		points := make([]elevationPoint, 0, len(s.Data))
		for i, v := range s.Data {
			if i < len(times) {
				points = append(points, elevationPoint{Time: int(times[i]), Ele: v})
			}
		}
		if err := add(model.StreamTypeElevation, points, len(points)); err != nil {
			return nil, err
		}
	}

	if s := set.VelocitySmooth; s != nil {
		velocity := make([]velocityPoint, 0, len(s.Data))
		pace := make([]pacePoint, 0, len(s.Data))
		for i, v := range s.Data {
			if i >= len(times) {
				break
			}
			t := int(times[i])
			velocity = append(velocity, velocityPoint{Time: t, Vel: v})
			if v > 0 {
				pace = append(pace, pacePoint{Time: t, Pace: 1 / v})
			}
		}
		if err := add(model.StreamTypeVelocity, velocity, len(velocity)); err != nil {
			return nil, err
		}
		if err := add(model.StreamTypePace, pace, len(pace)); err != nil {
			return nil, err
		}
	}

	if s := set.LatLng; s != nil {
		points := make([]latLonPoint, 0, len(s.Data))
		for i, v := range s.Data {
			if i < len(times) {
				points = append(points, latLonPoint{Time: int(times[i]), Lat: v[0], Lon: v[1]})
			}
		}
		if err := add(model.StreamTypeLatLon, points, len(points)); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func round(v float64) int {
	return int(math.Round(v))
}
