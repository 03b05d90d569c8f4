package geo

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/labstack/gommon/log"
)

const earthRadiusMeters = 6371000.0

// DefaultLocateTimeout bounds how long a punch waits for a position.
const DefaultLocateTimeout = 10 * time.Second

var ErrUnavailable = errors.New("geo: position unavailable")

type Position struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Address  string  `json:"address"`
	Fallback bool    `json:"fallback"`
}

// Fallback is used whenever the device refuses or fails to report a position.
var Fallback = Position{
	Lat:      -23.550520,
	Lng:      -46.633308,
	Address:  "Localização indisponível (Praça da Sé, São Paulo - SP)",
	Fallback: true,
}

// Locator reads the current device position once.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

type LocatorFunc func(ctx context.Context) (Position, error)

func (f LocatorFunc) Locate(ctx context.Context) (Position, error) {
	return f(ctx)
}

// LocateOrFallback never fails: a locator error, a timeout or a nil locator
// all produce the Fallback position.
func LocateOrFallback(ctx context.Context, l Locator, timeout time.Duration) Position {
	if l == nil {
		return Fallback
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		pos Position
		err error
	}
	ch := make(chan result, 1)
	go func() {
		pos, err := l.Locate(ctx)
		ch <- result{pos: pos, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			log.Warnf("geolocation failed, using fallback: %v", res.err)
			return Fallback
		}
		return res.pos
	case <-ctx.Done():
		log.Warnf("geolocation timed out after %s, using fallback", timeout)
		return Fallback
	}
}

// DistanceMeters is the haversine distance between two coordinates.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a))
}

// Fence is a circular area punches are expected to come from.
type Fence struct {
	Lat    float64
	Lng    float64
	Radius float64
}

func (f Fence) Contains(p Position) bool {
	return DistanceMeters(f.Lat, f.Lng, p.Lat, p.Lng) <= f.Radius
}
