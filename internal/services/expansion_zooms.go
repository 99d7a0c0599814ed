package services

import (
	"context"
	"maps"
	"slices"

	"github.com/pkg/errors"

	"placemap-service/internal/supercluster"
)

// ClusterIndex is the part of the clustering index the map computation needs.
type ClusterIndex interface {
	GetClusters(bounds supercluster.Bounds, zoom int) ([]supercluster.Feature, error)
	GetClusterExpansionZoom(clusterID int) (int, error)
}

// ExpansionZooms returns the sorted zoom levels at which any cluster visible
// in [zoomMin, zoomMax) splits apart. Zoom 0 is always included.
// On cancellation the zooms gathered so far are returned with ctx.Err().
func ExpansionZooms(ctx context.Context, index ClusterIndex, zoomMin, zoomMax int) ([]int, error) {
	zooms := map[int]struct{}{0: {}}

	for z := zoomMin; z < zoomMax; z++ {
		if err := ctx.Err(); err != nil {
			return slices.Sorted(maps.Keys(zooms)), err
		}

		features, err := index.GetClusters(supercluster.WorldBounds(), z)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get clusters at zoom %d", z)
		}

		for _, f := range features {
			if !f.IsCluster {
				continue
			}
			expansion, err := index.GetClusterExpansionZoom(f.ClusterID)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to get expansion zoom of cluster %d", f.ClusterID)
			}
			zooms[expansion] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(zooms)), nil
}
