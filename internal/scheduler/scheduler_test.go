package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/auracast/dashboard-core/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSyntheticRouter() *services.DataSourceRouter {
	gen := services.NewSyntheticSeriesGenerator(rand.New(rand.NewSource(1)))
	return services.NewDataSourceRouter(nil, services.NewAnalysisResultMapper(gen), gen, services.RouterOptions{
		UseSyntheticData: true,
	}, zap.NewNop())
}

func TestRefresherWarmsCacheOnStart(t *testing.T) {
	cache := services.NewDashboardCache(time.Minute, 100, zap.NewNop())
	defer cache.Stop()

	refresher := NewRefresher(newSyntheticRouter(), cache, []string{"Dublin", "Cork"}, time.Hour, zap.NewNop())
	require.NoError(t, refresher.Start())
	defer refresher.Stop()

	require.Eventually(t, func() bool {
		_, dublinOK := cache.GetCurrent("Dublin")
		_, corkOK := cache.GetCurrent("Cork")
		return dublinOK && corkOK
	}, 2*time.Second, 10*time.Millisecond)

	current, ok := cache.GetCurrent("Dublin")
	require.True(t, ok)
	assert.Equal(t, "Dublin", current.Current.Location)
}

func TestRefresherStatus(t *testing.T) {
	cache := services.NewDashboardCache(time.Minute, 100, zap.NewNop())
	defer cache.Stop()

	refresher := NewRefresher(newSyntheticRouter(), cache, []string{"Dublin"}, 15*time.Minute, zap.NewNop())

	status := refresher.GetStatus()
	assert.Equal(t, false, status["running"])

	require.NoError(t, refresher.Start())
	status = refresher.GetStatus()
	assert.Equal(t, true, status["running"])

	refresher.Stop()
	status = refresher.GetStatus()
	assert.Equal(t, false, status["running"])
}

func TestRefresherStartIsIdempotent(t *testing.T) {
	cache := services.NewDashboardCache(time.Minute, 100, zap.NewNop())
	defer cache.Stop()

	refresher := NewRefresher(newSyntheticRouter(), cache, []string{"Dublin"}, time.Hour, zap.NewNop())
	require.NoError(t, refresher.Start())
	defer refresher.Stop()

	require.NoError(t, refresher.Start())
}
