package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/strategy-ledger/internal/handler"
	"github.com/strategy-ledger/internal/ledgertest"
	"github.com/strategy-ledger/internal/repository"
	"github.com/strategy-ledger/internal/service"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	router *gin.Engine
	store  *repository.Store
	fx     *ledgertest.Fixture
}

func noAuth(c *gin.Context) { c.Next() }

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := ledgertest.NewStore(t)
	fx := ledgertest.Seed(t, store)

	strategies := repository.NewStrategyRepository(store)
	trades := repository.NewTradeRepository(store)
	clock := func() time.Time { return ledgertest.Date(2021, 6, 30) }

	strategySvc := service.NewStrategyService(strategies, trades).WithClock(clock)
	performanceSvc := service.NewPerformanceService(strategies, trades, nil).WithClock(clock)
	portfolioSvc := service.NewPortfolioService(strategies, strategySvc, performanceSvc)

	router := gin.New()
	handler.NewHealthHandler(handler.BuildInfo{Version: "test"}, store, nil).RegisterRoutes(router)
	v1 := router.Group("/api/v1")
	handler.NewStrategyHandler(strategySvc, performanceSvc).RegisterRoutes(v1, noAuth)
	handler.NewPortfolioHandler(portfolioSvc).RegisterRoutes(v1, noAuth)
	handler.NewTradeHandler(strategySvc).RegisterRoutes(v1, noAuth)
	handler.NewStreamHandler(strategySvc, 20*time.Millisecond).RegisterRoutes(router, noAuth)

	return &testServer{router: router, store: store, fx: fx}
}

func (s *testServer) get(t *testing.T, url string) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst), string(env.Data))
}
