package supercluster

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func markerOptions(maxZoom int) Options {
	return Options{
		MinZoom:   0,
		MaxZoom:   maxZoom,
		MinPoints: 2,
		Radius:    51.2,
		Extent:    512,
		NodeSize:  64,
	}
}

// randomPoints uses a fixed seed so failures are reproducible.
func randomPoints(n int, minLng, maxLng, minLat, maxLat float64) []Point {
	r := rand.New(rand.NewSource(42))
	points := make([]Point, n)
	for i := range points {
		points[i] = Point{
			Index: i,
			Lng:   minLng + r.Float64()*(maxLng-minLng),
			Lat:   minLat + r.Float64()*(maxLat-minLat),
		}
	}
	return points
}

func TestProjectionRoundTrip(t *testing.T) {
	testCases := []struct {
		lng, lat float64
	}{
		{0, 0},
		{180, 85},
		{-180, -85},
		{45, 45},
		{13.4, 52.5},
	}

	for _, tc := range testCases {
		lng := xLng(lngX(tc.lng))
		lat := yLat(latY(tc.lat))
		assert.InDelta(t, tc.lng, lng, 1e-9, "lng round trip for (%f,%f)", tc.lng, tc.lat)
		assert.InDelta(t, tc.lat, lat, 1e-9, "lat round trip for (%f,%f)", tc.lng, tc.lat)
	}
}

func TestLatYClampsPoles(t *testing.T) {
	assert.Equal(t, 0.0, latY(90))
	assert.Equal(t, 1.0, latY(-90))
	assert.Equal(t, 0.5, latY(0))
}

func TestKDTreeMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	const n = 1000
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = r.Float64()
		ys[i] = r.Float64()
	}
	tree := newKDTree(xs, ys, 16)

	t.Run("range", func(t *testing.T) {
		minX, minY, maxX, maxY := 0.2, 0.3, 0.45, 0.7
		var expected []int
		for i := 0; i < n; i++ {
			x, y := fround(xs[i]), fround(ys[i])
			if x >= minX && x <= maxX && y >= minY && y <= maxY {
				expected = append(expected, i)
			}
		}
		require.NotEmpty(t, expected)
		assert.ElementsMatch(t, expected, tree.rangeQuery(minX, minY, maxX, maxY))
	})

	t.Run("within", func(t *testing.T) {
		qx, qy, radius := 0.5, 0.5, 0.1
		var expected []int
		for i := 0; i < n; i++ {
			if sqDist(fround(xs[i]), fround(ys[i]), qx, qy) <= radius*radius {
				expected = append(expected, i)
			}
		}
		require.NotEmpty(t, expected)
		assert.ElementsMatch(t, expected, tree.within(qx, qy, radius))
	})

	t.Run("empty", func(t *testing.T) {
		empty := newKDTree(nil, nil, 16)
		assert.Empty(t, empty.rangeQuery(0, 0, 1, 1))
		assert.Empty(t, empty.within(0.5, 0.5, 1))
	})
}

func TestNearbyPointsClusterAtLowZoom(t *testing.T) {
	sc := NewSupercluster(markerOptions(1))
	sc.Load([]Point{
		{Index: 0, Lng: 0, Lat: 0},
		{Index: 1, Lng: 1, Lat: 0},
	})

	features, err := sc.GetClusters(WorldBounds(), 0)
	require.NoError(t, err)
	require.Len(t, features, 1)

	cluster := features[0]
	assert.True(t, cluster.IsCluster)
	assert.Equal(t, 2, cluster.PointCount)
	assert.Equal(t, 0, cluster.Index)
	assert.InDelta(t, 0.5, cluster.Lng, 1e-3)

	expansion, err := sc.GetClusterExpansionZoom(cluster.ClusterID)
	require.NoError(t, err)
	assert.Equal(t, 2, expansion)

	features, err = sc.GetClusters(WorldBounds(), expansion)
	require.NoError(t, err)
	require.Len(t, features, 2)
	for _, f := range features {
		assert.False(t, f.IsCluster)
		assert.Equal(t, 1, f.PointCount)
	}
}

func TestDistantPointsNeverCluster(t *testing.T) {
	sc := NewSupercluster(markerOptions(3))
	sc.Load([]Point{
		{Index: 0, Lng: -100, Lat: 0},
		{Index: 1, Lng: 100, Lat: 0},
	})

	for z := 0; z <= 4; z++ {
		features, err := sc.GetClusters(WorldBounds(), z)
		require.NoError(t, err)
		require.Len(t, features, 2, "zoom %d", z)
		for _, f := range features {
			assert.False(t, f.IsCluster)
		}
	}
}

func TestClusterIndexIsMinimumMemberIndex(t *testing.T) {
	sc := NewSupercluster(markerOptions(4))
	sc.Load([]Point{
		{Index: 7, Lng: 10, Lat: 10},
		{Index: 3, Lng: 10.01, Lat: 10},
		{Index: 5, Lng: 10, Lat: 10.01},
	})

	features, err := sc.GetClusters(WorldBounds(), 0)
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.True(t, features[0].IsCluster)
	assert.Equal(t, 3, features[0].PointCount)
	assert.Equal(t, 3, features[0].Index)
}

func TestPointCountsAddUpAtEveryZoom(t *testing.T) {
	points := randomPoints(500, -20, 20, -10, 10)
	sc := NewSupercluster(markerOptions(10))
	sc.Load(points)

	for z := 0; z <= 12; z++ {
		features, err := sc.GetClusters(WorldBounds(), z)
		require.NoError(t, err)

		total := 0
		for _, f := range features {
			total += f.PointCount
		}
		assert.Equal(t, len(points), total, "zoom %d", z)
	}
}

func TestExpansionZoomIsAboveQueryZoom(t *testing.T) {
	sc := NewSupercluster(markerOptions(8))
	sc.Load(randomPoints(300, -5, 5, -5, 5))

	for z := 0; z < 8; z++ {
		features, err := sc.GetClusters(WorldBounds(), z)
		require.NoError(t, err)

		for _, f := range features {
			if !f.IsCluster {
				continue
			}
			expansion, err := sc.GetClusterExpansionZoom(f.ClusterID)
			require.NoError(t, err)
			assert.Greater(t, expansion, z)
			assert.LessOrEqual(t, expansion, 9)

			children, err := sc.GetChildren(f.ClusterID)
			require.NoError(t, err)
			count := 0
			for _, c := range children {
				count += c.PointCount
			}
			assert.Equal(t, f.PointCount, count)
		}
	}
}

func TestUnknownClusterID(t *testing.T) {
	sc := NewSupercluster(markerOptions(2))
	sc.Load(randomPoints(10, -1, 1, -1, 1))

	_, err := sc.GetChildren(0)
	assert.ErrorIs(t, err, ErrClusterNotFound)

	_, err = sc.GetChildren(10 + (1 << 20))
	assert.ErrorIs(t, err, ErrClusterNotFound)

	_, err = sc.GetClusterExpansionZoom(3)
	assert.ErrorIs(t, err, ErrClusterNotFound)
}

func TestGetClustersAcrossAntimeridian(t *testing.T) {
	sc := NewSupercluster(markerOptions(5))
	sc.Load([]Point{
		{Index: 0, Lng: 175, Lat: 0},
		{Index: 1, Lng: -175, Lat: 0},
		{Index: 2, Lng: 0, Lat: 0},
	})

	features, err := sc.GetClusters(Bounds{MinLng: 170, MinLat: -10, MaxLng: -170, MaxLat: 10}, 6)
	require.NoError(t, err)

	var indexes []int
	for _, f := range features {
		indexes = append(indexes, f.Index)
	}
	assert.ElementsMatch(t, []int{0, 1}, indexes)
}

func TestGetClustersRejectsNonFiniteBounds(t *testing.T) {
	sc := NewSupercluster(markerOptions(2))
	sc.Load(randomPoints(5, -1, 1, -1, 1))

	_, err := sc.GetClusters(Bounds{MinLng: math.NaN(), MinLat: -90, MaxLng: 180, MaxLat: 90}, 0)
	assert.ErrorIs(t, err, ErrInvalidBounds)
}

func TestGetClustersBeforeLoad(t *testing.T) {
	sc := NewSupercluster(markerOptions(2))
	_, err := sc.GetClusters(WorldBounds(), 0)
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestNewSuperclusterNormalizesOptions(t *testing.T) {
	sc := NewSupercluster(Options{MinZoom: 5, MaxZoom: 2})
	opts := sc.Options()

	assert.Equal(t, 2, opts.MinZoom)
	assert.Equal(t, 2, opts.MaxZoom)
	assert.Equal(t, 2, opts.MinPoints)
	assert.Equal(t, 40.0, opts.Radius)
	assert.Equal(t, 512.0, opts.Extent)
	assert.Equal(t, 64, opts.NodeSize)
}
