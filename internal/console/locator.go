package console

import (
	"context"
	"errors"

	"github.com/MalithGihan/skygraph/pkg/types"
)

var ErrNoLocation = errors.New("geolocation unavailable")

// Locator yields the observer position used by the "current hour" command.
type Locator interface {
	Locate(ctx context.Context) (types.Coordinates, error)
}

// StaticLocator answers with a fixed position, typically from config or flags.
type StaticLocator struct {
	Coords *types.Coordinates
}

func (s StaticLocator) Locate(context.Context) (types.Coordinates, error) {
	if s.Coords == nil {
		return types.Coordinates{}, ErrNoLocation
	}
	return *s.Coords, nil
}
