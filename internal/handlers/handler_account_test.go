package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/finn_ledger/internal/core/ports/services"
	"github.com/SscSPs/finn_ledger/internal/dto"
	"github.com/SscSPs/finn_ledger/internal/handlers"
	"github.com/SscSPs/finn_ledger/internal/platform/config"
	"github.com/SscSPs/finn_ledger/internal/utils/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockAccountService = new(MockAccountService)

	handlers.RegisterRoutes(suite.router, &config.Config{IsProduction: true}, &portssvc.ServiceContainer{
		Account:     suite.mockAccountService,
		Transaction: new(MockTransactionService),
	}, nil)
}

func (suite *AccountHandlerTestSuite) TearDownTest() {
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) do(method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, target, nil)
	} else {
		req, _ = http.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func testAccount(balance int64) *domain.Account {
	return &domain.Account{
		AccountID:        uuid.NewString(),
		Name:             "Main Checking",
		Type:             domain.Cash,
		Balance:          balance,
		ConversionFactor: 10000,
		AuditFields:      domain.AuditFields{CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	acc := testAccount(0)
	suite.mockAccountService.On("CreateAccount", mock.Anything, mock.MatchedBy(func(r dto.CreateAccountRequest) bool {
		return r.Name == "Main Checking" && r.Type == "cash"
	})).Return(acc, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", `{"name":"Main Checking","type":"cash"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(acc.AccountID, body["id"])
	suite.Equal("0.00", body["amount"])
	suite.NotContains(body, "balance")
	suite.NotContains(body, "unitAmount")
	suite.NotContains(body, "conversionFactor")
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_MalformedJSON() {
	w := suite.do(http.MethodPost, "/api/v1/accounts", `{"name":`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_ValidationDetails() {
	suite.mockAccountService.On("CreateAccount", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewValidationError("invalid account", "name: is required", "type: must be one of cash, debt")).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", `{"type":"savings"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("invalid account", resp.Error)
	suite.Equal([]string{"name: is required", "type: must be one of cash, debt"}, resp.Details)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_StorageUnavailable() {
	suite.mockAccountService.On("CreateAccount", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("save account: %w", apperrors.ErrRepositoryUnavailable)).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", `{"name":"Cash","type":"cash"}`)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccount() {
	acc := testAccount(123450)
	suite.mockAccountService.On("GetAccountByID", mock.Anything, acc.AccountID).Return(acc, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/"+acc.AccountID, "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("12.35", resp.Amount)
	suite.Equal(domain.Cash, resp.Type)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	suite.mockAccountService.On("GetAccountByID", mock.Anything, "missing").
		Return(nil, fmt.Errorf("account missing: %w", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/missing", "")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_CorruptedRecord() {
	suite.mockAccountService.On("GetAccountByID", mock.Anything, "broken").
		Return(nil, apperrors.NewCorruptedDataError("stored account failed validation", "conversionFactor: must be positive")).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/broken", "")

	suite.Equal(http.StatusInternalServerError, w.Code)
	var resp dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Empty(resp.Details, "storage internals must not leak to clients")
}

func (suite *AccountHandlerTestSuite) TestListAccounts_FullPageHasNextToken() {
	accounts := []domain.Account{*testAccount(0), *testAccount(10000)}
	suite.mockAccountService.On("ListAccounts", mock.Anything, 2, 0).Return(accounts, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts?limit=2", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Data, 2)
	suite.Equal(2, resp.Limit)
	suite.Require().NotNil(resp.NextToken)
	offset, err := pagination.DecodeOffsetToken(*resp.NextToken)
	suite.Require().NoError(err)
	suite.Equal(2, offset)
}

func (suite *AccountHandlerTestSuite) TestListAccounts_TokenOverridesOffset() {
	suite.mockAccountService.On("ListAccounts", mock.Anything, 20, 4).Return([]domain.Account{*testAccount(0)}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts?offset=1&nextToken="+url.QueryEscape(pagination.EncodeOffsetToken(4)), "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(4, resp.Offset)
	suite.Nil(resp.NextToken)
}

func (suite *AccountHandlerTestSuite) TestListAccounts_BadToken() {
	w := suite.do(http.MethodGet, "/api/v1/accounts?nextToken=not-a-token", "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestUpdateAccount_Conflict() {
	suite.mockAccountService.On("UpdateAccount", mock.Anything, "acc-1", mock.MatchedBy(func(r dto.UpdateAccountRequest) bool {
		return r.Name != nil && *r.Name == "Renamed" && r.Description == nil
	})).Return(nil, apperrors.ErrConflict).Once()

	w := suite.do(http.MethodPatch, "/api/v1/accounts/acc-1", `{"name":"Renamed"}`)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestUpdateAccount_Success() {
	acc := testAccount(500)
	acc.Name = "Renamed"
	suite.mockAccountService.On("UpdateAccount", mock.Anything, acc.AccountID, mock.Anything).Return(acc, nil).Once()

	w := suite.do(http.MethodPatch, "/api/v1/accounts/"+acc.AccountID, `{"name":"Renamed"}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Renamed", resp.Name)
}

func (suite *AccountHandlerTestSuite) TestDeleteAccount() {
	suite.mockAccountService.On("DeleteAccount", mock.Anything, "acc-1").Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/accounts/acc-1", "")

	suite.Equal(http.StatusNoContent, w.Code)
	suite.Empty(w.Body.Bytes())
}

func (suite *AccountHandlerTestSuite) TestDeleteAccount_NotFound() {
	suite.mockAccountService.On("DeleteAccount", mock.Anything, "acc-1").Return(apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodDelete, "/api/v1/accounts/acc-1", "")

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
