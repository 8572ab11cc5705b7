package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LavaJover/promise-case-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/memory"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/notifier"
	"github.com/LavaJover/promise-case-service/internal/usecase"
	"github.com/LavaJover/promise-case-service/internal/usecase/caseflow"
	"github.com/LavaJover/promise-case-service/internal/usecase/settlement"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	router *mux.Router
	store  *memory.Store
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()

	emitter, err := usecase.NewEventEmitter(&notifier.Recorder{}, logger)
	require.NoError(t, err)
	rates := domain.NewRateTable(domain.Rate{
		CommissionPercent: decimal.NewFromInt(10),
		OverridePercent:   decimal.NewFromInt(2),
	})

	partners := usecase.NewDefaultPartnerUsecase(store, store, store, store, emitter, nil, logger)
	settlements := settlement.NewDefaultSettlementUsecase(store, store, store, store, store, rates,
		settlement.Options{HeadquartersID: "headquarters"}, emitter, nil, logger)
	cases := caseflow.NewDefaultCaseUsecase(store, store, store, partners, settlements, emitter, nil, logger)

	router := mux.NewRouter()
	NewHTTPHandler(cases, settlements, partners, logger).RegisterRoutes(router)
	return &testServer{router: router, store: store}
}

func (s *testServer) seedPartner(t *testing.T, id string, role domain.Role) {
	t.Helper()
	require.NoError(t, s.store.CreatePartner(context.Background(), &domain.Partner{
		UserID:         id,
		Role:           role,
		ApprovalStatus: domain.ApprovalApproved,
		Availability:   domain.AvailabilityWaiting,
	}))
}

func (s *testServer) do(t *testing.T, method, path, actor string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != "" {
		req.Header.Set(ActorHeader, actor)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func (s *testServer) createCase(t *testing.T) response.CaseResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/cases", "", map[string]string{
		"customer_id": "customer-1",
		"region":      "seoul",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var c response.CaseResponse
	decodeBody(t, rec, &c)
	return c
}

func TestCreateAndGetCase(t *testing.T) {
	s := setupTestServer(t)
	created := s.createCase(t)
	assert.Equal(t, "requested", created.Status)
	assert.Nil(t, created.TeamLeaderID)

	rec := s.do(t, http.MethodGet, "/api/v1/cases/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got response.CaseResponse
	decodeBody(t, rec, &got)
	assert.Equal(t, created.ID, got.ID)

	rec = s.do(t, http.MethodGet, "/api/v1/cases/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/cases", "", map[string]string{"region": "seoul"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestClaimEndpoint(t *testing.T) {
	s := setupTestServer(t)
	s.seedPartner(t, "leader-1", domain.RoleLeader)
	s.seedPartner(t, "leader-2", domain.RoleLeader)
	c := s.createCase(t)
	path := fmt.Sprintf("/api/v1/cases/%s/claim", c.ID)

	rec := s.do(t, http.MethodPost, path, "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, path, "leader-1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var claimed response.CaseResponse
	decodeBody(t, rec, &claimed)
	assert.Equal(t, "assigned", claimed.Status)
	require.NotNil(t, claimed.TeamLeaderID)
	assert.Equal(t, "leader-1", *claimed.TeamLeaderID)

	rec = s.do(t, http.MethodPost, path, "leader-2", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	var errResp response.ErrorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "already_claimed", errResp.Code)

	board := s.do(t, http.MethodGet, "/api/v1/cases/claimable?region=seoul", "", nil)
	require.Equal(t, http.StatusOK, board.Code)
	var open []response.CaseResponse
	decodeBody(t, board, &open)
	assert.Empty(t, open)
}

func TestAdvanceAndSettlementEndpoints(t *testing.T) {
	s := setupTestServer(t)
	s.seedPartner(t, "leader-1", domain.RoleLeader)
	c := s.createCase(t)
	base := "/api/v1/cases/" + c.ID

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, base+"/claim", "leader-1", nil).Code)

	rec := s.do(t, http.MethodPost, base+"/advance", "leader-1", map[string]string{
		"expected_status": "assigned",
		"target_status":   "in_progress",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/advance", "leader-1", map[string]string{
		"expected_status": "assigned",
		"target_status":   "consulting",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, base+"/price", "leader-1", map[string]interface{}{
		"expected_status":   "consulting",
		"final_price":       1_000_000,
		"commission_amount": 50_000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, step := range [][2]string{{"consulting", "in_progress"}, {"in_progress", "team_settling"}} {
		rec = s.do(t, http.MethodPost, base+"/advance", "leader-1", map[string]string{
			"expected_status": step[0],
			"target_status":   step[1],
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, base+"/settlements", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []response.SettlementResponse
	decodeBody(t, rec, &rows)
	require.Len(t, rows, 2)

	var remittance response.SettlementResponse
	for _, row := range rows {
		if row.Type == string(domain.SettlementUsageFeeRemittance) {
			remittance = row
		}
	}
	require.NotEmpty(t, remittance.ID)
	assert.Equal(t, int64(50_000), remittance.Amount)

	rec = s.do(t, http.MethodPost, "/api/v1/settlements/"+remittance.ID+"/payment", "", map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "remittance waits for hq_check")

	rec = s.do(t, http.MethodPost, "/api/v1/settlements/"+remittance.ID+"/amount", "", map[string]interface{}{
		"amount": 45_000,
		"memo":   "negotiated",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/settlements/summary", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary response.SettlementSummaryResponse
	decodeBody(t, rec, &summary)
	assert.Equal(t, int64(100_000), summary.PendingPayouts)
	assert.Equal(t, int64(45_000), summary.PendingRemittances)
}

func TestPartnerEndpoints(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/partners", "", map[string]string{"name": "Lee", "role": "pilot"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/partners", "", map[string]string{"name": "Lee", "role": "leader", "grade": "B"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p response.PartnerResponse
	decodeBody(t, rec, &p)
	assert.Equal(t, "pending", p.ApprovalStatus)
	assert.Equal(t, "off", p.Availability)

	rec = s.do(t, http.MethodPut, "/api/v1/partners/"+p.UserID+"/availability", "", map[string]string{"availability": "waiting"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/partners/"+p.UserID+"/approval", "", map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPut, "/api/v1/partners/"+p.UserID+"/availability", "", map[string]string{"availability": "waiting"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/partners/"+p.UserID+"/deposits", "", map[string]int64{"amount": 10_000})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var entry response.DepositResponse
	decodeBody(t, rec, &entry)
	assert.Equal(t, int64(10_000), entry.BalanceAfter)

	rec = s.do(t, http.MethodGet, "/api/v1/partners/"+p.UserID+"/upline", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("wrapped: %w", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: case 1", domain.ErrAlreadyClaimed), http.StatusConflict},
		{domain.ErrAlreadyFinal, http.StatusConflict},
		{domain.ErrIllegalTransition, http.StatusUnprocessableEntity},
		{domain.ErrNotUpline, http.StatusForbidden},
		{domain.ErrConfirmationRequired, http.StatusPreconditionRequired},
		{domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("unexpected"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, _ := statusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
	}
}
