package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/amcruz/storefront-backend/pkg/logger"
)

const imageSweepJobName = "image_sweep"

// defaultSweepMinAge keeps just-written uploads safe until the row that
// references them lands.
const defaultSweepMinAge = time.Hour

type uploadStore interface {
	ListOlderThan(ctx context.Context, minAge time.Duration) ([]string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) string
}

type imageKeyLister interface {
	ListImageKeys(ctx context.Context) ([]string, error)
}

// ImageSweepJob deletes uploaded files that no product or category
// references anymore, such as images replaced through the admin UI.
type ImageSweepJob struct {
	store      uploadStore
	products   imageKeyLister
	categories imageKeyLister
	logg       *logger.Logger
	minAge     time.Duration
}

// NewImageSweepJob builds the sweep job.
func NewImageSweepJob(store uploadStore, products, categories imageKeyLister, logg *logger.Logger, minAge time.Duration) (*ImageSweepJob, error) {
	if store == nil {
		return nil, fmt.Errorf("upload store required")
	}
	if products == nil || categories == nil {
		return nil, fmt.Errorf("image key listers required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if minAge <= 0 {
		minAge = defaultSweepMinAge
	}
	return &ImageSweepJob{
		store:      store,
		products:   products,
		categories: categories,
		logg:       logg,
		minAge:     minAge,
	}, nil
}

// Name identifies the job in logs and metrics.
func (j *ImageSweepJob) Name() string {
	return imageSweepJobName
}

// Run removes orphaned files. Individual delete failures are collected so a
// single bad file never aborts the rest of the sweep.
func (j *ImageSweepJob) Run(ctx context.Context) error {
	referenced, err := j.referencedKeys(ctx)
	if err != nil {
		return err
	}

	candidates, err := j.store.ListOlderThan(ctx, j.minAge)
	if err != nil {
		return fmt.Errorf("list stored uploads: %w", err)
	}

	var errs error
	removed := 0
	for _, key := range candidates {
		if _, ok := referenced[key]; ok {
			continue
		}
		if err := j.store.Delete(ctx, key); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("delete %s: %w", key, err))
			continue
		}
		removed++
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"candidates": len(candidates),
		"removed":    removed,
	}), "image sweep finished")
	return errs
}

// referencedKeys gathers every image key the catalog still points at.
// Values stored as public URLs are mapped back to their keys.
func (j *ImageSweepJob) referencedKeys(ctx context.Context) (map[string]struct{}, error) {
	productKeys, err := j.products.ListImageKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	categoryKeys, err := j.categories.ListImageKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list category images: %w", err)
	}

	referenced := make(map[string]struct{}, len(productKeys)+len(categoryKeys))
	for _, value := range append(productKeys, categoryKeys...) {
		referenced[value] = struct{}{}
		if key := j.store.KeyFromURL(value); key != "" {
			referenced[key] = struct{}{}
		}
	}
	return referenced, nil
}
