package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/creditleaf/credit_ledger_app/internal/apperrors"
	"github.com/creditleaf/credit_ledger_app/internal/core/domain"
	portssvc "github.com/creditleaf/credit_ledger_app/internal/core/ports/services"
	"github.com/creditleaf/credit_ledger_app/internal/dto"
	"github.com/creditleaf/credit_ledger_app/internal/handlers"
	"github.com/creditleaf/credit_ledger_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CreditService ---
type MockCreditService struct {
	mock.Mock
}

func (m *MockCreditService) GetBalance(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCreditService) ListEntries(ctx context.Context, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

func (m *MockCreditService) GetEntryByTransactionNo(ctx context.Context, transactionNo string) (*domain.CreditEntry, error) {
	args := m.Called(ctx, transactionNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditEntry), args.Error(1)
}

func (m *MockCreditService) Grant(ctx context.Context, userID string, req dto.GrantRequest, actorID string) (*domain.CreditEntry, error) {
	args := m.Called(ctx, userID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditEntry), args.Error(1)
}

func (m *MockCreditService) RefundSimple(ctx context.Context, userID string, req dto.SimpleRefundRequest, actorID string) (*domain.CreditEntry, error) {
	args := m.Called(ctx, userID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditEntry), args.Error(1)
}

func (m *MockCreditService) Consume(ctx context.Context, userID string, req dto.ConsumeRequest, actorID string) (*domain.CreditEntry, error) {
	args := m.Called(ctx, userID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditEntry), args.Error(1)
}

func (m *MockCreditService) RefundExact(ctx context.Context, consumeEntryID string, actorID string) error {
	args := m.Called(ctx, consumeEntryID, actorID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.CreditSvcFacade = (*MockCreditService)(nil)

// --- Mock RewardService ---
type MockRewardService struct {
	mock.Mock
}

func (m *MockRewardService) AcceptReferral(ctx context.Context, req dto.AcceptReferralRequest, actorID string) (*domain.ReferralReward, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferralReward), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.RewardSvcFacade = (*MockRewardService)(nil)

// --- Test Suite ---
type CreditHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockCreditService *MockCreditService
	mockRewardService *MockRewardService
	jwtSecret         string
	jwtIssuer         string
}

// generateTestToken creates a dummy service JWT for testing.
func (suite *CreditHandlerTestSuite) generateTestToken(callerID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    suite.jwtIssuer,
		Subject:   callerID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *CreditHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.jwtIssuer = "credit-ledger-test"

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = dto.RegisterCustomValidators(v)
	}

	suite.mockCreditService = new(MockCreditService)
	suite.mockRewardService = new(MockRewardService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		JWTIssuer:    suite.jwtIssuer,
		IsProduction: true, // skip swagger route registration
	}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Credit: suite.mockCreditService,
		Reward: suite.mockRewardService,
	})
}

func (suite *CreditHandlerTestSuite) doRequest(method, url, callerID string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reqBody = bytes.NewBuffer(payload)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, url, reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(callerID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *CreditHandlerTestSuite) TestGetBalance_Success() {
	userID := uuid.NewString()
	callerID := uuid.NewString()

	suite.mockCreditService.On("GetBalance", mock.Anything, userID).Return(int64(150), nil).Once()

	w := suite.doRequest(http.MethodGet, fmt.Sprintf("/api/v1/users/%s/credits/balance", userID), callerID, nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.BalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(userID, resp.UserID)
	suite.Equal(int64(150), resp.Balance)

	suite.mockCreditService.AssertExpectations(suite.T())
}

func (suite *CreditHandlerTestSuite) TestGetBalance_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/users/%s/credits/balance", uuid.NewString()), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockCreditService.AssertNotCalled(suite.T(), "GetBalance", mock.Anything, mock.Anything)
}

func (suite *CreditHandlerTestSuite) TestGrantCredits_Success() {
	userID := uuid.NewString()
	callerID := uuid.NewString()
	entry := &domain.CreditEntry{
		EntryID:   uuid.NewString(),
		UserID:    userID,
		Kind:      domain.KindGrant,
		Scene:     domain.ScenePayment,
		Amount:    100,
		Remaining: 100,
		Status:    domain.StatusActive,
	}

	suite.mockCreditService.On("Grant", mock.Anything, userID, mock.MatchedBy(func(req dto.GrantRequest) bool {
		return req.Amount == 100 && req.Scene == string(domain.ScenePayment)
	}), callerID).Return(entry, nil).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/users/%s/credits/grants", userID), callerID, dto.GrantRequest{
		Amount: 100,
		Scene:  string(domain.ScenePayment),
	})

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.CreditEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(entry.EntryID, resp.EntryID)
	suite.Equal(int64(100), resp.Amount)

	suite.mockCreditService.AssertExpectations(suite.T())
}

func (suite *CreditHandlerTestSuite) TestGrantCredits_InvalidScene() {
	userID := uuid.NewString()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/users/%s/credits/grants", userID), uuid.NewString(), map[string]any{
		"amount": 100,
		"scene":  "NOT A VALID SCENE",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockCreditService.AssertNotCalled(suite.T(), "Grant", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CreditHandlerTestSuite) TestConsumeCredits_Success() {
	userID := uuid.NewString()
	callerID := uuid.NewString()
	entry := &domain.CreditEntry{
		EntryID: uuid.NewString(),
		UserID:  userID,
		Kind:    domain.KindConsume,
		Scene:   domain.SceneGeneration,
		Amount:  -60,
		ConsumedFrom: []domain.ConsumedDetail{
			{GrantEntryID: uuid.NewString(), AmountDrawn: 60},
		},
	}

	suite.mockCreditService.On("Consume", mock.Anything, userID, mock.MatchedBy(func(req dto.ConsumeRequest) bool {
		return req.Amount == 60
	}), callerID).Return(entry, nil).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/users/%s/credits/consumptions", userID), callerID, dto.ConsumeRequest{Amount: 60})

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.CreditEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(-60), resp.Amount)
	suite.Len(resp.ConsumedFrom, 1)

	suite.mockCreditService.AssertExpectations(suite.T())
}

func (suite *CreditHandlerTestSuite) TestConsumeCredits_Insufficient() {
	userID := uuid.NewString()

	suite.mockCreditService.On("Consume", mock.Anything, userID, mock.AnythingOfType("dto.ConsumeRequest"), mock.AnythingOfType("string")).
		Return(nil, apperrors.NewInsufficientCreditsError(60, 30)).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/users/%s/credits/consumptions", userID), uuid.NewString(), dto.ConsumeRequest{Amount: 60})

	suite.Equal(http.StatusPaymentRequired, w.Code)

	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(float64(60), resp["required"])
	suite.Equal(float64(30), resp["available"])

	suite.mockCreditService.AssertExpectations(suite.T())
}

func (suite *CreditHandlerTestSuite) TestRefundExact_Success() {
	entryID := uuid.NewString()
	callerID := uuid.NewString()

	suite.mockCreditService.On("RefundExact", mock.Anything, entryID, callerID).Return(nil).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/credits/consumptions/%s/refund", entryID), callerID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockCreditService.AssertExpectations(suite.T())
}

func (suite *CreditHandlerTestSuite) TestRefundExact_AlreadyReversed() {
	entryID := uuid.NewString()

	suite.mockCreditService.On("RefundExact", mock.Anything, entryID, mock.AnythingOfType("string")).
		Return(apperrors.ErrAlreadyReversed).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/credits/consumptions/%s/refund", entryID), uuid.NewString(), nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockCreditService.AssertExpectations(suite.T())
}

func (suite *CreditHandlerTestSuite) TestRefundExact_NotFound() {
	entryID := uuid.NewString()

	suite.mockCreditService.On("RefundExact", mock.Anything, entryID, mock.AnythingOfType("string")).
		Return(apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/credits/consumptions/%s/refund", entryID), uuid.NewString(), nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockCreditService.AssertExpectations(suite.T())
}

func (suite *CreditHandlerTestSuite) TestRefundSimple_Success() {
	userID := uuid.NewString()
	callerID := uuid.NewString()
	entry := &domain.CreditEntry{
		EntryID:   uuid.NewString(),
		UserID:    userID,
		Kind:      domain.KindGrant,
		Scene:     domain.SceneRefund,
		Amount:    25,
		Remaining: 25,
		Status:    domain.StatusActive,
	}

	suite.mockCreditService.On("RefundSimple", mock.Anything, userID, mock.MatchedBy(func(req dto.SimpleRefundRequest) bool {
		return req.Amount == 25
	}), callerID).Return(entry, nil).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/users/%s/credits/refunds", userID), callerID, dto.SimpleRefundRequest{Amount: 25})

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.CreditEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.SceneRefund), resp.Scene)

	suite.mockCreditService.AssertExpectations(suite.T())
}

func (suite *CreditHandlerTestSuite) TestListEntries_Success() {
	userID := uuid.NewString()
	token := "next-page"
	expected := &dto.ListEntriesResponse{
		Entries: []dto.CreditEntryResponse{
			{EntryID: uuid.NewString(), UserID: userID, Kind: string(domain.KindGrant), Amount: 100},
		},
		NextToken: &token,
	}

	suite.mockCreditService.On("ListEntries", mock.Anything, userID, mock.MatchedBy(func(p dto.ListEntriesParams) bool {
		return p.Limit == 10
	})).Return(expected, nil).Once()

	w := suite.doRequest(http.MethodGet, fmt.Sprintf("/api/v1/users/%s/credits/entries?limit=10", userID), uuid.NewString(), nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Entries, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(token, *resp.NextToken)

	suite.mockCreditService.AssertExpectations(suite.T())
}

func (suite *CreditHandlerTestSuite) TestGetEntryByTransactionNo_NotFound() {
	txnNo := "GRT20260101000000aabbccddeeff"

	suite.mockCreditService.On("GetEntryByTransactionNo", mock.Anything, txnNo).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/credits/transactions/"+txnNo, uuid.NewString(), nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockCreditService.AssertExpectations(suite.T())
}

func (suite *CreditHandlerTestSuite) TestAcceptReferral_Success() {
	callerID := uuid.NewString()
	req := dto.AcceptReferralRequest{
		ReferralCode:  "WELCOME2026",
		InviterUserID: uuid.NewString(),
		InviteeUserID: uuid.NewString(),
	}
	result := &domain.ReferralReward{
		ReferralCode:   req.ReferralCode,
		InviterUserID:  req.InviterUserID,
		InviteeUserID:  req.InviteeUserID,
		InviterOutcome: domain.RewardGranted,
		InviterAmount:  50,
		InviteeAmount:  50,
	}

	suite.mockRewardService.On("AcceptReferral", mock.Anything, req, callerID).Return(result, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/referrals/accept", callerID, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ReferralRewardResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.RewardGranted), resp.InviterOutcome)
	suite.Equal(int64(50), resp.InviterAmount)
	suite.False(resp.AlreadyIssued)

	suite.mockRewardService.AssertExpectations(suite.T())
}

func (suite *CreditHandlerTestSuite) TestAcceptReferral_SelfReferralRejected() {
	sameID := uuid.NewString()

	w := suite.doRequest(http.MethodPost, "/api/v1/referrals/accept", uuid.NewString(), dto.AcceptReferralRequest{
		ReferralCode:  "WELCOME2026",
		InviterUserID: sameID,
		InviteeUserID: sameID,
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRewardService.AssertNotCalled(suite.T(), "AcceptReferral", mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestCreditHandler(t *testing.T) {
	suite.Run(t, new(CreditHandlerTestSuite))
}
