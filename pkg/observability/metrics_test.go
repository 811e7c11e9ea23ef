package observability_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/ltree"
	"github.com/aretw0/ltree/internal/logging"
	"github.com/aretw0/ltree/pkg/adapters/memory"
	"github.com/aretw0/ltree/pkg/adapters/recording"
	"github.com/aretw0/ltree/pkg/domain"
	"github.com/aretw0/ltree/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsTreeLifecycle(t *testing.T) {
	m := observability.NewMetrics()
	cache := memory.NewStore()
	ctx := context.Background()

	first := ltree.New(ltree.WithLifecycleHooks(m.Hooks()), ltree.WithSignatureCache(cache), ltree.WithNoise(false))
	require.NoError(t, first.Draw(ctx, recording.NewRecorder(100, 100), 50, 100, 20, 2))

	second := ltree.New(ltree.WithLifecycleHooks(m.Hooks()), ltree.WithSignatureCache(cache), ltree.WithNoise(false))
	_, err := second.Generate(ctx, 2)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(m.Registry(), "ltree_generations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count) // hit and miss series

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `ltree_generations_total{cache="hit"} 1`)
	assert.Contains(t, body, `ltree_generations_total{cache="miss"} 1`)
	assert.Contains(t, body, `ltree_draws_total{result="ok"} 1`)
	assert.Contains(t, body, fmt.Sprintf("ltree_segments_drawn_total %d\n", first.Stats().Segments))
}

func TestMetrics_CountsFailedDraws(t *testing.T) {
	m := observability.NewMetrics()
	m.Hooks().OnDraw(context.Background(), &domain.DrawEvent{Err: errors.New("boom")})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `ltree_draws_total{result="error"} 1`)
}

func TestChain_FansOut(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, logging.FormatText, slog.LevelDebug)

	calls := 0
	counting := domain.LifecycleHooks{
		OnGenerate: func(context.Context, *domain.GenerateEvent) { calls++ },
	}

	tree := ltree.New(ltree.WithLifecycleHooks(observability.Chain(observability.LoggingHooks(logger), counting, domain.LifecycleHooks{})))
	_, err := tree.Generate(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Contains(t, buf.String(), "signature generated")
}
