package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-quote/internal/domain"
	"github.com/jsamuelsen/daily-quote/internal/mocks"
	"github.com/jsamuelsen/daily-quote/internal/platform/scheduler"
)

func TestRefreshJob_Defaults(t *testing.T) {
	svc := newTestService(mocks.NewMockQuoteStore(t), mocks.NewMockPageRenderer(t), nil, time.Now())

	job := RefreshJob(svc, RefreshJobConfig{})

	assert.Equal(t, "update-quote-at-midnight", job.Name)
	assert.Equal(t, "0 0 * * *", job.Spec)
	assert.NotNil(t, job.Task)
}

func TestRefreshJob_TaskRefreshesCache(t *testing.T) {
	now := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

	store := mocks.NewMockQuoteStore(t)
	store.EXPECT().Load(mock.Anything).Return(threeQuotes, nil).Once()

	renderer := mocks.NewMockPageRenderer(t)
	renderer.EXPECT().RenderPage(mock.Anything, mock.Anything).Return([]byte("page"), nil).Once()

	cache := newMemCache()
	svc := newTestService(store, renderer, cache, now)

	job := RefreshJob(svc, RefreshJobConfig{Name: "refresh", Spec: "@daily", Timeout: time.Second})
	require.NoError(t, job.Task(context.Background()))

	assert.Contains(t, cache.items, "page:2023-01-01")
	assert.Equal(t, time.Second, job.Timeout)
}

func TestRefreshJob_FailureIsLoggedAndSchedulerSurvives(t *testing.T) {
	now := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

	store := mocks.NewMockQuoteStore(t)
	store.EXPECT().Load(mock.Anything).
		Return(nil, domain.NewResourceUnavailableError("quotes.csv", "file not found")).Once()
	store.EXPECT().Load(mock.Anything).Return(threeQuotes, nil).Once()

	renderer := mocks.NewMockPageRenderer(t)
	renderer.EXPECT().RenderPage(mock.Anything, mock.Anything).Return([]byte("page"), nil).Once()

	svc := newTestService(store, renderer, newMemCache(), now)

	reg := prometheus.NewRegistry()
	sched := scheduler.New(scheduler.Config{Location: time.UTC, Registerer: reg, Logger: discardLogger()})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = sched.Stop(ctx)
	})

	require.NoError(t, sched.Add(RefreshJob(svc, RefreshJobConfig{})))

	err := sched.RunNow(context.Background(), DefaultRefreshJobName)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrResourceUnavailable))

	require.NoError(t, sched.RunNow(context.Background(), DefaultRefreshJobName))

	series, err := testutil.GatherAndCount(reg, "scheduler_job_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}
