package distance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	coords map[string]Coordinates
}

func (f *fakeGeocoder) Forward(ctx context.Context, city string) (Coordinates, string, error) {
	c, ok := f.coords[city]
	if !ok {
		return Coordinates{}, "", errors.New("not found")
	}
	return c, "", nil
}

func TestDrive_SymmetricCache(t *testing.T) {
	geocoder := &fakeGeocoder{coords: map[string]Coordinates{
		"Galle":  {Latitude: 6.0535, Longitude: 80.2210},
		"Matara": {Latitude: 5.9549, Longitude: 80.5550},
	}}
	calc := New(nil, geocoder, 0)

	ab, ok := calc.Drive(context.Background(), "Galle", "Matara")
	require.True(t, ok)

	ba, ok := calc.Drive(context.Background(), "Matara", "Galle")
	require.True(t, ok)

	assert.Equal(t, ab, ba)
	assert.InDelta(t, 47.0, ab.KM, 10.0)
	assert.True(t, ab.Estimated)
}

func TestDrive_NoProvidersFails(t *testing.T) {
	calc := New(nil, nil, 0)
	_, ok := calc.Drive(context.Background(), "A", "B")
	assert.False(t, ok)
}

func TestHaversine_ZeroDistance(t *testing.T) {
	p := Coordinates{Latitude: 10, Longitude: 20}
	assert.InDelta(t, 0, Haversine(p, p), 0.0001)
}
