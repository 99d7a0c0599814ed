// Package supercluster is a hierarchical greedy point clustering index for
// map markers. Points are clustered once per zoom level from the most
// detailed level upwards, each cluster remembering the smallest marker index
// among its members so that it can stand in for them.
package supercluster

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrClusterNotFound is returned when a cluster id does not belong to the index.
	ErrClusterNotFound = errors.New("no cluster with the specified id")
	// ErrInvalidBounds is returned for bounding boxes with non-finite corners.
	ErrInvalidBounds = errors.New("invalid bounding box")
	// ErrNotLoaded is returned when the index is queried before Load.
	ErrNotLoaded = errors.New("index has not been loaded")
)

// noZoom marks a node that has not been visited at any zoom yet.
const noZoom = math.MaxInt

// Options tune the clustering.
type Options struct {
	MinZoom   int     // lowest zoom with its own cluster level
	MaxZoom   int     // highest zoom that still clusters; MaxZoom+1 holds raw points
	MinPoints int     // minimum members required to form a cluster
	Radius    float64 // cluster radius in pixels
	Extent    float64 // tile extent the radius is relative to
	NodeSize  int     // KD-tree leaf size
}

// DefaultOptions returns the options used when a field is left at its zero value.
func DefaultOptions() Options {
	return Options{
		MinZoom:   0,
		MaxZoom:   16,
		MinPoints: 2,
		Radius:    40,
		Extent:    512,
		NodeSize:  64,
	}
}

// Point is an input position. Index is the caller's identity for the point.
type Point struct {
	Index int
	Lng   float64
	Lat   float64
}

// Bounds is a lng/lat bounding box.
type Bounds struct {
	MinLng, MinLat, MaxLng, MaxLat float64
}

// WorldBounds covers the whole map.
func WorldBounds() Bounds {
	return Bounds{MinLng: -180, MinLat: -90, MaxLng: 180, MaxLat: 90}
}

func (b Bounds) valid() bool {
	for _, v := range [4]float64{b.MinLng, b.MinLat, b.MaxLng, b.MaxLat} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Feature is one entry returned by a query: a raw point or a cluster.
// For points Index is the point's own index; for clusters it is the
// smallest index among all members.
type Feature struct {
	Index      int
	IsCluster  bool
	ClusterID  int
	PointCount int
	X, Y       float64 // normalized mercator position
	Lng, Lat   float64
}

type node struct {
	x, y      float64
	zoom      int // last zoom this node was processed at
	id        int // point position for raw points, cluster id otherwise
	parentID  int
	numPoints int
	index     int // smallest member index
}

type level struct {
	nodes []node
	tree  *kdTree
}

func newLevel(nodes []node, nodeSize int) *level {
	xs := make([]float64, len(nodes))
	ys := make([]float64, len(nodes))
	for i, n := range nodes {
		xs[i] = n.x
		ys[i] = n.y
	}
	return &level{nodes: nodes, tree: newKDTree(xs, ys, nodeSize)}
}

// Supercluster is a clustering index built once over a fixed point set.
type Supercluster struct {
	options Options
	points  []Point
	levels  []*level // indexed by zoom, len MaxZoom+2
}

// NewSupercluster creates an index with the given options, filling defaults
// for unset values.
func NewSupercluster(options Options) *Supercluster {
	defaults := DefaultOptions()
	if options.MinZoom < 0 {
		options.MinZoom = 0
	}
	if options.MaxZoom < 0 {
		options.MaxZoom = 0
	}
	if options.MinPoints <= 0 {
		options.MinPoints = defaults.MinPoints
	}
	if options.Radius <= 0 {
		options.Radius = defaults.Radius
	}
	if options.Extent <= 0 {
		options.Extent = defaults.Extent
	}
	if options.NodeSize <= 0 {
		options.NodeSize = defaults.NodeSize
	}
	if options.MinZoom > options.MaxZoom {
		options.MinZoom = options.MaxZoom
	}

	return &Supercluster{options: options}
}

// Options returns the effective options of the index.
func (sc *Supercluster) Options() Options {
	return sc.options
}

// Load builds every cluster level for the given points.
func (sc *Supercluster) Load(points []Point) {
	sc.points = points

	nodes := make([]node, len(points))
	for i, p := range points {
		x, y := Project(p.Lng, p.Lat)
		nodes[i] = node{
			x:         x,
			y:         y,
			zoom:      noZoom,
			id:        i,
			parentID:  -1,
			numPoints: 1,
			index:     p.Index,
		}
	}

	maxZoom := sc.options.MaxZoom
	sc.levels = make([]*level, maxZoom+2)
	sc.levels[maxZoom+1] = newLevel(nodes, sc.options.NodeSize)

	for z := maxZoom; z >= sc.options.MinZoom; z-- {
		nodes = sc.cluster(sc.levels[z+1], z)
		sc.levels[z] = newLevel(nodes, sc.options.NodeSize)
	}
}

// cluster merges the nodes of the level below into the nodes of zoom.
// It marks the visited zoom and parent ids on prev in place.
func (sc *Supercluster) cluster(prev *level, zoom int) []node {
	r := sc.options.Radius / (sc.options.Extent * math.Pow(2, float64(zoom)))
	data := prev.nodes
	next := make([]node, 0, len(data))

	for i := range data {
		p := &data[i]
		if p.zoom <= zoom {
			continue
		}
		p.zoom = zoom

		neighbors := prev.tree.within(p.x, p.y, r)

		numPointsOrigin := p.numPoints
		numPoints := numPointsOrigin
		for _, k := range neighbors {
			if data[k].zoom > zoom {
				numPoints += data[k].numPoints
			}
		}

		if numPoints > numPointsOrigin && numPoints >= sc.options.MinPoints {
			wx := p.x * float64(numPointsOrigin)
			wy := p.y * float64(numPointsOrigin)
			index := p.index

			// encode the origin position and zoom into the id
			id := (i << 5) + (zoom + 1) + len(sc.points)

			for _, k := range neighbors {
				b := &data[k]
				if b.zoom <= zoom {
					continue
				}
				b.zoom = zoom

				wx += b.x * float64(b.numPoints)
				wy += b.y * float64(b.numPoints)
				b.parentID = id
				if b.index < index {
					index = b.index
				}
			}

			p.parentID = id
			next = append(next, node{
				x:         wx / float64(numPoints),
				y:         wy / float64(numPoints),
				zoom:      noZoom,
				id:        id,
				parentID:  -1,
				numPoints: numPoints,
				index:     index,
			})
			continue
		}

		next = append(next, *p)
		if numPoints > 1 {
			for _, k := range neighbors {
				b := &data[k]
				if b.zoom <= zoom {
					continue
				}
				b.zoom = zoom
				next = append(next, *b)
			}
		}
	}

	return next
}

// GetClusters returns the points and clusters inside bounds at the given zoom.
// Boxes crossing the antimeridian are queried as two halves.
func (sc *Supercluster) GetClusters(bounds Bounds, zoom int) ([]Feature, error) {
	if sc.levels == nil {
		return nil, ErrNotLoaded
	}
	if !bounds.valid() {
		return nil, errors.Wrapf(ErrInvalidBounds, "%+v", bounds)
	}

	minLng := math.Mod(math.Mod(bounds.MinLng+180, 360)+360, 360) - 180
	minLat := math.Max(-90, math.Min(90, bounds.MinLat))
	maxLng := 180.0
	if bounds.MaxLng != 180 {
		maxLng = math.Mod(math.Mod(bounds.MaxLng+180, 360)+360, 360) - 180
	}
	maxLat := math.Max(-90, math.Min(90, bounds.MaxLat))

	if bounds.MaxLng-bounds.MinLng >= 360 {
		minLng = -180
		maxLng = 180
	} else if minLng > maxLng {
		eastern, err := sc.GetClusters(Bounds{MinLng: minLng, MinLat: minLat, MaxLng: 180, MaxLat: maxLat}, zoom)
		if err != nil {
			return nil, err
		}
		western, err := sc.GetClusters(Bounds{MinLng: -180, MinLat: minLat, MaxLng: maxLng, MaxLat: maxLat}, zoom)
		if err != nil {
			return nil, err
		}
		return append(eastern, western...), nil
	}

	lvl := sc.levels[sc.limitZoom(zoom)]
	ids := lvl.tree.rangeQuery(lngX(minLng), latY(maxLat), lngX(maxLng), latY(minLat))

	features := make([]Feature, 0, len(ids))
	for _, id := range ids {
		features = append(features, sc.feature(lvl.nodes[id]))
	}
	return features, nil
}

// GetChildren returns the direct children of a cluster one zoom below its origin.
func (sc *Supercluster) GetChildren(clusterID int) ([]Feature, error) {
	if sc.levels == nil {
		return nil, ErrNotLoaded
	}

	originIdx := sc.originIdx(clusterID)
	originZoom := sc.originZoom(clusterID)
	if clusterID < len(sc.points) || originZoom >= len(sc.levels) || sc.levels[originZoom] == nil {
		return nil, errors.Wrapf(ErrClusterNotFound, "cluster %d", clusterID)
	}

	lvl := sc.levels[originZoom]
	if originIdx >= len(lvl.nodes) {
		return nil, errors.Wrapf(ErrClusterNotFound, "cluster %d", clusterID)
	}

	r := sc.options.Radius / (sc.options.Extent * math.Pow(2, float64(originZoom-1)))
	origin := lvl.nodes[originIdx]

	var children []Feature
	for _, id := range lvl.tree.within(origin.x, origin.y, r) {
		n := lvl.nodes[id]
		if n.parentID == clusterID {
			children = append(children, sc.feature(n))
		}
	}

	if len(children) == 0 {
		return nil, errors.Wrapf(ErrClusterNotFound, "cluster %d", clusterID)
	}
	return children, nil
}

// GetClusterExpansionZoom returns the zoom at which the cluster splits into
// more than one child.
func (sc *Supercluster) GetClusterExpansionZoom(clusterID int) (int, error) {
	if clusterID < len(sc.points) || sc.originZoom(clusterID) >= len(sc.levels) {
		return 0, errors.Wrapf(ErrClusterNotFound, "cluster %d", clusterID)
	}

	expansionZoom := sc.originZoom(clusterID) - 1
	for expansionZoom <= sc.options.MaxZoom {
		children, err := sc.GetChildren(clusterID)
		if err != nil {
			return 0, err
		}
		expansionZoom++
		if len(children) != 1 || !children[0].IsCluster {
			break
		}
		clusterID = children[0].ClusterID
	}
	return expansionZoom, nil
}

func (sc *Supercluster) feature(n node) Feature {
	if n.numPoints > 1 {
		return Feature{
			Index:      n.index,
			IsCluster:  true,
			ClusterID:  n.id,
			PointCount: n.numPoints,
			X:          n.x,
			Y:          n.y,
			Lng:        xLng(n.x),
			Lat:        yLat(n.y),
		}
	}

	p := sc.points[n.id]
	return Feature{
		Index:      p.Index,
		PointCount: 1,
		X:          n.x,
		Y:          n.y,
		Lng:        p.Lng,
		Lat:        p.Lat,
	}
}

func (sc *Supercluster) limitZoom(zoom int) int {
	if zoom > sc.options.MaxZoom+1 {
		zoom = sc.options.MaxZoom + 1
	}
	if zoom < sc.options.MinZoom {
		zoom = sc.options.MinZoom
	}
	return zoom
}

func (sc *Supercluster) originIdx(clusterID int) int {
	return (clusterID - len(sc.points)) >> 5
}

func (sc *Supercluster) originZoom(clusterID int) int {
	return (clusterID - len(sc.points)) % 32
}
