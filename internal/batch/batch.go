// Package batch counts contours across many files concurrently.
package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/array-tools-mcp/internal/detection"
	"github.com/ironsheep/array-tools-mcp/internal/imaging"
)

// Result is the outcome for one file. Exactly one of Count or Err is
// meaningful.
type Result struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
	Err   string `json:"error,omitempty"`
}

// Options controls a batch count.
type Options struct {
	Threshold float64
	MinArea   float64

	// Otsu picks each file's threshold with detection.OtsuLevel instead
	// of Threshold.
	Otsu bool

	// Adaptive, when set, binarizes each file with local thresholding and
	// takes precedence over Threshold and Otsu.
	Adaptive *detection.Adaptive

	// Workers bounds the number of files processed at once. Values below
	// 1 mean 1.
	Workers int
}

// CountFiles loads every path as an array and counts its significant
// contours.
//
// Results are returned in the order of paths. A file that cannot be read
// or analysed gets an Err entry and does not stop the others; only a done
// context aborts the batch, in which case ctx.Err() is returned.
func CountFiles(ctx context.Context, cache *imaging.ImageCache, paths []string, opts Options) ([]Result, error) {
	results := make([]Result, len(paths))

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = countFile(cache, path, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func countFile(cache *imaging.ImageCache, path string, opts Options) Result {
	res := Result{Path: path}

	a, err := cache.LoadArray(path)
	if err != nil {
		res.Err = err.Error()
		return res
	}

	if opts.Adaptive != nil {
		contours, err := detection.SignificantContoursAdaptive(a, *opts.Adaptive, opts.MinArea)
		if err != nil {
			res.Err = fmt.Sprintf("adaptive threshold: %v", err)
			return res
		}
		res.Count = len(contours)
		return res
	}

	threshold := opts.Threshold
	if opts.Otsu {
		threshold, err = detection.OtsuLevel(a)
		if err != nil {
			res.Err = fmt.Sprintf("otsu threshold: %v", err)
			return res
		}
	}

	n, err := detection.CountContours(a, threshold, opts.MinArea)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	res.Count = n
	return res
}
