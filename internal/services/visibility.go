package services

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"placemap-service/internal/models"
	"placemap-service/internal/supercluster"
	"placemap-service/internal/utils"
)

// Assigner computes visibility records over a set of zoom levels.
// Angle computation for a zoom fans out over Workers goroutines once a zoom
// has at least ParallelThreshold features.
type Assigner struct {
	Workers           int
	ParallelThreshold int
}

// AssignVisibility runs a sequential Assigner.
func AssignVisibility(ctx context.Context, index ClusterIndex, zooms []int, n int) ([]models.VisibilityRecord, error) {
	return Assigner{}.Assign(ctx, index, zooms, n)
}

// Assign returns one record per marker index in [0, n). zooms must be sorted
// ascending. On cancellation the records of all completed zooms are returned
// with ctx.Err().
func (a Assigner) Assign(ctx context.Context, index ClusterIndex, zooms []int, n int) ([]models.VisibilityRecord, error) {
	records := models.NewVisibilityRecords(n)

	for _, zoom := range zooms {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		features, err := index.GetClusters(supercluster.WorldBounds(), zoom)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get clusters at zoom %d", zoom)
		}

		angles, err := a.angles(ctx, features)
		if err != nil {
			return records, err
		}

		for i, f := range features {
			if f.Index < 0 || f.Index >= n {
				return nil, errors.Errorf("feature index %d out of range at zoom %d", f.Index, zoom)
			}

			rec := &records[f.Index]
			if rec.FirstVisibleZoom == -1 {
				rec.FirstVisibleZoom = zoom
			}
			if last := len(rec.Orientations) - 1; last >= 0 && rec.Orientations[last].AngleIndex == angles[i] {
				continue
			}
			rec.Orientations = append(rec.Orientations, models.Orientation{Zoom: zoom, AngleIndex: angles[i]})
		}
	}

	return records, nil
}

func (a Assigner) angles(ctx context.Context, features []supercluster.Feature) ([]int, error) {
	angles := make([]int, len(features))

	if a.Workers <= 1 || len(features) < max(a.ParallelThreshold, 2) {
		for i := range features {
			angles[i] = utils.TooltipAngleIndex(features[i], features)
		}
		return angles, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Workers)

	chunk := (len(features) + a.Workers - 1) / a.Workers
	for start := 0; start < len(features); start += chunk {
		end := min(start+chunk, len(features))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if i%256 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				angles[i] = utils.TooltipAngleIndex(features[i], features)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return angles, nil
}
