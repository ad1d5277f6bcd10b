package balancedelivery

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/balance-ledger/internal/domain"
	"github.com/go-petr/balance-ledger/pkg/errorspkg"
	"github.com/go-petr/balance-ledger/pkg/web"
)

var errTest = errors.New("unexpected")

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*gin.Engine, *MockService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := NewHandler(service)

	server := gin.New()
	server.POST("/reset", handler.Reset)
	server.POST("/charge", handler.Charge)

	return server, service
}

func gotError(t *testing.T, body *httptest.ResponseRecorder) string {
	t.Helper()

	var res web.JSONError
	require.NoError(t, json.Unmarshal(body.Body.Bytes(), &res))

	return res.Error
}

func TestCharge(t *testing.T) {
	testCases := []struct {
		name           string
		requestBody    string
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
		wantResult     *domain.ChargeResult
	}{
		{
			name:        "OK",
			requestBody: `{"account":"acct1","charges":30}`,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Charge(gomock.Any(), gomock.Eq("acct1"), gomock.Eq(int64(30))).
					Times(1).
					Return(domain.ChargeResult{IsAuthorized: true, RemainingBalance: 70, Charges: 30}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantResult:     &domain.ChargeResult{IsAuthorized: true, RemainingBalance: 70, Charges: 30},
		},
		{
			name:        "DefaultsApplied",
			requestBody: `{}`,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Charge(gomock.Any(), gomock.Eq("account"), gomock.Eq(int64(10))).
					Times(1).
					Return(domain.ChargeResult{IsAuthorized: true, RemainingBalance: 90, Charges: 10}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantResult:     &domain.ChargeResult{IsAuthorized: true, RemainingBalance: 90, Charges: 10},
		},
		{
			name:        "EmptyBody",
			requestBody: "",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Charge(gomock.Any(), gomock.Eq("account"), gomock.Eq(int64(10))).
					Times(1).
					Return(domain.ChargeResult{IsAuthorized: true, RemainingBalance: 90, Charges: 10}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantResult:     &domain.ChargeResult{IsAuthorized: true, RemainingBalance: 90, Charges: 10},
		},
		{
			name:        "ZeroCharges",
			requestBody: `{"account":"acct1","charges":0}`,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Charge(gomock.Any(), gomock.Eq("acct1"), gomock.Eq(int64(0))).
					Times(1).
					Return(domain.ChargeResult{IsAuthorized: true, RemainingBalance: 100, Charges: 0}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantResult:     &domain.ChargeResult{IsAuthorized: true, RemainingBalance: 100, Charges: 0},
		},
		{
			name:        "Unauthorized",
			requestBody: `{"account":"acct1","charges":80}`,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Charge(gomock.Any(), gomock.Eq("acct1"), gomock.Eq(int64(80))).
					Times(1).
					Return(domain.ChargeResult{IsAuthorized: false, RemainingBalance: 70, Charges: 0}, nil)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      domain.ErrInsufficientBalance.Error(),
		},
		{
			name:        "NegativeCharges",
			requestBody: `{"account":"acct1","charges":-5}`,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Charge(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "MalformedJSON",
			requestBody: `{"account":`,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Charge(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "AccountNotFound",
			requestBody: `{"account":"ghost"}`,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Charge(gomock.Any(), gomock.Eq("ghost"), gomock.Eq(int64(10))).
					Times(1).
					Return(domain.ChargeResult{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
		{
			name:        "LockTimeout",
			requestBody: `{"account":"acct1"}`,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Charge(gomock.Any(), gomock.Eq("acct1"), gomock.Eq(int64(10))).
					Times(1).
					Return(domain.ChargeResult{}, domain.ErrLockTimeout)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      domain.ErrLockTimeout.Error(),
		},
		{
			name:        "UnexpectedErrorIsHidden",
			requestBody: `{"account":"acct1"}`,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Charge(gomock.Any(), gomock.Eq("acct1"), gomock.Eq(int64(10))).
					Times(1).
					Return(domain.ChargeResult{}, errTest)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			server, service := newTestServer(t)
			tc.buildStubs(service)

			req := httptest.NewRequest(http.MethodPost, "/charge", strings.NewReader(tc.requestBody))
			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			if tc.wantError != "" {
				require.Equal(t, tc.wantError, gotError(t, recorder))
			}

			if tc.wantResult != nil {
				var got domain.ChargeResult
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))

				if diff := cmp.Diff(*tc.wantResult, got); diff != "" {
					t.Errorf("response mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestReset(t *testing.T) {
	testCases := []struct {
		name           string
		requestBody    string
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "OK",
			requestBody: `{"account":"acct1"}`,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Reset(gomock.Any(), gomock.Eq("acct1")).
					Times(1).
					Return(nil)
			},
			wantStatusCode: http.StatusNoContent,
		},
		{
			name:        "DefaultAccount",
			requestBody: `{}`,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Reset(gomock.Any(), gomock.Eq("account")).
					Times(1).
					Return(nil)
			},
			wantStatusCode: http.StatusNoContent,
		},
		{
			name:        "EmptyBody",
			requestBody: "",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Reset(gomock.Any(), gomock.Eq("account")).
					Times(1).
					Return(nil)
			},
			wantStatusCode: http.StatusNoContent,
		},
		{
			name:        "StoreUnavailable",
			requestBody: `{"account":"acct1"}`,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Reset(gomock.Any(), gomock.Eq("acct1")).
					Times(1).
					Return(domain.ErrStoreUnavailable)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      domain.ErrStoreUnavailable.Error(),
		},
		{
			name:        "MalformedJSON",
			requestBody: `{"account":`,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Reset(gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			server, service := newTestServer(t)
			tc.buildStubs(service)

			req := httptest.NewRequest(http.MethodPost, "/reset", strings.NewReader(tc.requestBody))
			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			if tc.wantError != "" {
				require.Equal(t, tc.wantError, gotError(t, recorder))
			}

			if tc.wantStatusCode == http.StatusNoContent {
				require.Empty(t, recorder.Body.Bytes())
			}
		})
	}
}
