package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"umrahportal/internal/gateway"
	"umrahportal/internal/model"
	"umrahportal/internal/service"
	serviceMocks "umrahportal/internal/service/mocks"
)

func TestListPayments(t *testing.T) {
	svc := new(serviceMocks.MockPaymentService)
	app := newApp()
	app.Get("/admin/payments", ListPayments(svc))

	t.Run("all statuses", func(t *testing.T) {
		svc.On("ListPayments", mock.Anything, model.ReviewStatus(""), 20, 40).
			Return(&service.ListResult[model.Payment]{Total: 41}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/admin/payments?limit=20&offset=40", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("unknown status", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/admin/payments?status=lunas", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_STATUS", decodeError(t, resp).Error.Code)
	})
}

func TestReviewPayment(t *testing.T) {
	svc := new(serviceMocks.MockPaymentService)
	app := newApp()
	app.Post("/admin/payments/:id/review", ReviewPayment(svc))

	t.Run("approved", func(t *testing.T) {
		svc.On("ReviewPayment", mock.Anything, paymentID, service.ReviewInput{Approve: true, Reviewer: "a-1"}).
			Return(&model.Payment{ID: paymentID, Status: model.StatusApproved, ReviewedBy: "a-1"}, nil).Once()

		req := as(jsonRequest(http.MethodPost, "/admin/payments/"+paymentID+"/review", map[string]any{"approve": true}), "a-1", model.RoleAdmin)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var p model.Payment
		json.NewDecoder(resp.Body).Decode(&p)
		assert.Equal(t, model.StatusApproved, p.Status)
		svc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := as(jsonRequest(http.MethodPost, "/admin/payments/"+paymentID+"/review", "approve"), "a-1", model.RoleAdmin)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})
}

func TestReviewUpgradeHandler(t *testing.T) {
	svc := new(serviceMocks.MockUpgradeService)
	app := newApp()
	app.Post("/admin/upgrade-requests/:id/review", ReviewUpgrade(svc))

	svc.On("ReviewUpgrade", mock.Anything, upgradeID, service.ReviewInput{Approve: false, Reviewer: "a-1", Note: "bukti tidak jelas"}).
		Return(&model.UpgradeRequest{ID: upgradeID, Status: model.StatusRejected}, nil).Once()

	req := as(jsonRequest(http.MethodPost, "/admin/upgrade-requests/"+upgradeID+"/review", map[string]any{"approve": false, "note": "bukti tidak jelas"}), "a-1", model.RoleAdmin)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestListUpgradeRequestsHandler(t *testing.T) {
	svc := new(serviceMocks.MockUpgradeService)
	app := newApp()
	app.Get("/admin/upgrade-requests", ListUpgradeRequests(svc))

	svc.On("ListUpgradeRequests", mock.Anything, model.StatusPending, 10, 0).
		Return(&service.ListResult[model.UpgradeRequest]{Items: []model.UpgradeRequest{{ID: "r-1"}}, Total: 1}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/admin/upgrade-requests?status=pending", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestItineraryHandlers(t *testing.T) {
	svc := new(serviceMocks.MockItineraryService)
	app := newApp()
	app.Post("/admin/itineraries", CreateItinerary(svc))
	app.Patch("/admin/itineraries/:id/status", UpdateItineraryStatus(svc))
	app.Get("/packages/:id/itineraries", PackageItineraries(svc))

	t.Run("create", func(t *testing.T) {
		svc.On("Create", mock.Anything, mock.MatchedBy(func(it model.Itinerary) bool {
			return it.PackageID == "pkg-1" && len(it.Days) == 2
		})).Return(&model.Itinerary{ID: "it-1", Status: model.ItineraryScheduled}, nil).Once()

		req := jsonRequest(http.MethodPost, "/admin/itineraries", map[string]any{
			"package_id": "pkg-1",
			"title":      "Umrah Maret",
			"start_date": "2026-03-01T00:00:00Z",
			"end_date":   "2026-03-09T00:00:00Z",
			"days":       []map[string]any{{"city": "Jakarta"}, {"city": "Madinah"}},
		})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("complete", func(t *testing.T) {
		svc.On("UpdateStatus", mock.Anything, itineraryID, model.ItineraryCompleted).
			Return(&model.Itinerary{ID: "it-1", Status: model.ItineraryCompleted}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/admin/itineraries/"+itineraryID+"/status", map[string]any{"status": "completed"}))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("package listing", func(t *testing.T) {
		svc.On("ListForPackage", mock.Anything, "pkg-1").
			Return([]model.Itinerary{{ID: "it-1"}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/packages/pkg-1/itineraries", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			Data []model.Itinerary `json:"data"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Len(t, body.Data, 1)
	})
	svc.AssertExpectations(t)
}

func TestPaymentNotification(t *testing.T) {
	svc := new(serviceMocks.MockPaymentService)
	app := newApp()
	app.Post("/webhooks/payment", PaymentNotification(svc))

	n := gateway.Notification{OrderID: "UMR-1", StatusCode: "200", GrossAmount: "29000000.00", TransactionStatus: "settlement", SignatureKey: "sig"}

	t.Run("applied", func(t *testing.T) {
		svc.On("HandleNotification", mock.Anything, n).
			Return(&service.NotificationResult{OrderID: "UMR-1", Status: model.StatusApproved, Changed: true}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/webhooks/payment", n))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var res service.NotificationResult
		json.NewDecoder(resp.Body).Decode(&res)
		assert.True(t, res.Changed)
	})

	t.Run("bad signature", func(t *testing.T) {
		bad := n
		bad.SignatureKey = "forged"
		svc.On("HandleNotification", mock.Anything, bad).Return(nil, service.ErrInvalidSignature).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/webhooks/payment", bad))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_SIGNATURE", decodeError(t, resp).Error.Code)
	})
	svc.AssertExpectations(t)
}
