package cron

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/amcruz/storefront-backend/pkg/logger"
)

type stubUploadStore struct {
	stored    []string
	deleted   []string
	deleteErr map[string]error
	listErr   error
}

func (s *stubUploadStore) ListOlderThan(context.Context, time.Duration) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.stored, nil
}

func (s *stubUploadStore) Delete(_ context.Context, key string) error {
	if err := s.deleteErr[key]; err != nil {
		return err
	}
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *stubUploadStore) KeyFromURL(url string) string {
	return strings.TrimPrefix(url, "/uploads/")
}

type stubKeyLister struct {
	keys []string
	err  error
}

func (s *stubKeyLister) ListImageKeys(context.Context) ([]string, error) {
	return s.keys, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestImageSweepRemovesOrphans(t *testing.T) {
	store := &stubUploadStore{
		stored: []string{"a.png", "b.png", "c.png", "d.png"},
	}
	products := &stubKeyLister{keys: []string{"a.png"}}
	categories := &stubKeyLister{keys: []string{"/uploads/b.png"}}

	job, err := NewImageSweepJob(store, products, categories, testLogger(), time.Hour)
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))

	sort.Strings(store.deleted)
	assert.Equal(t, []string{"c.png", "d.png"}, store.deleted)
}

func TestImageSweepCollectsDeleteFailures(t *testing.T) {
	boom := errors.New("disk says no")
	store := &stubUploadStore{
		stored:    []string{"x.png", "y.png"},
		deleteErr: map[string]error{"x.png": boom},
	}

	job, err := NewImageSweepJob(store, &stubKeyLister{}, &stubKeyLister{}, testLogger(), time.Hour)
	require.NoError(t, err)

	runErr := job.Run(context.Background())
	require.Error(t, runErr)
	assert.Len(t, multierr.Errors(runErr), 1)
	assert.ErrorIs(t, runErr, boom)

	// The failure on x.png did not stop y.png from being removed.
	assert.Equal(t, []string{"y.png"}, store.deleted)
}

func TestImageSweepAbortsWhenListingFails(t *testing.T) {
	store := &stubUploadStore{listErr: errors.New("unreadable")}

	job, err := NewImageSweepJob(store, &stubKeyLister{}, &stubKeyLister{}, testLogger(), time.Hour)
	require.NoError(t, err)

	require.Error(t, job.Run(context.Background()))
	assert.Empty(t, store.deleted)
}
