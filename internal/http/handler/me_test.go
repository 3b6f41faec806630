package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"umrahportal/internal/model"
	"umrahportal/internal/service"
	serviceMocks "umrahportal/internal/service/mocks"
)

func TestDashboardHandler(t *testing.T) {
	svc := new(serviceMocks.MockDashboardService)
	app := newApp()
	app.Get("/me/dashboard", Dashboard(svc))

	actor := service.Actor{UserID: "u-1", Role: model.RoleAlumni}
	svc.On("Dashboard", mock.Anything, actor).Return(&service.Dashboard{
		Role:     model.RoleAlumni,
		Warnings: []string{"articles unavailable"},
	}, nil).Once()

	resp, _ := app.Test(as(httptest.NewRequest(http.MethodGet, "/me/dashboard", nil), "u-1", model.RoleAlumni))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var d service.Dashboard
	json.NewDecoder(resp.Body).Decode(&d)
	assert.Equal(t, model.RoleAlumni, d.Role)
	assert.Equal(t, []string{"articles unavailable"}, d.Warnings)
	svc.AssertExpectations(t)
}

func TestUpdateProfile(t *testing.T) {
	svc := new(serviceMocks.MockProfileService)
	app := newApp()
	app.Put("/me/profile", UpdateProfile(svc))
	actor := service.Actor{UserID: "u-1", Role: model.RoleProspective}

	t.Run("saved", func(t *testing.T) {
		svc.On("UpdateProfile", mock.Anything, actor, model.Profile{FullName: "Siti Aminah", Phone: "081234567890"}).
			Return(&service.ProfileView{Completeness: service.Completeness{Percent: 18, Filled: 2, Total: 11}}, nil).Once()

		req := as(jsonRequest(http.MethodPut, "/me/profile", map[string]any{"full_name": "Siti Aminah", "phone": "081234567890"}), "u-1", model.RoleProspective)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var v service.ProfileView
		json.NewDecoder(resp.Body).Decode(&v)
		assert.Equal(t, 18, v.Completeness.Percent)
	})

	t.Run("invalid", func(t *testing.T) {
		svc.On("UpdateProfile", mock.Anything, actor, mock.Anything).
			Return(nil, fmt.Errorf("%w: nik must be 16 digits", service.ErrValidation)).Once()

		req := as(jsonRequest(http.MethodPut, "/me/profile", map[string]any{"nik": "123"}), "u-1", model.RoleProspective)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		assert.Contains(t, body.Error.Message, "nik must be 16 digits")
	})
	svc.AssertExpectations(t)
}

func proofForm(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		writer.WriteField(k, v)
	}
	if withFile {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="proof"; filename="bukti.jpg"`)
		h.Set("Content-Type", "image/jpeg")
		part, _ := writer.CreatePart(h)
		part.Write([]byte("jpeg"))
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestSubmitPayment(t *testing.T) {
	svc := new(serviceMocks.MockPaymentService)
	app := newApp()
	app.Post("/me/payments", SubmitPayment(svc))
	actor := service.Actor{UserID: "u-1", Role: model.RoleProspective}

	t.Run("created", func(t *testing.T) {
		body, ct := proofForm(t, map[string]string{"package_id": "pkg-1", "amount": "29000000", "note": "DP"}, true)
		svc.On("SubmitPayment", mock.Anything, actor, mock.MatchedBy(func(in service.SubmitPaymentInput) bool {
			return in.PackageID == "pkg-1" && in.Amount == 29000000 && in.Note == "DP" &&
				in.Filename == "bukti.jpg" && in.ContentType == "image/jpeg" && in.Size == 4 && in.Proof != nil
		})).Return(&model.Payment{ID: "pay-1", Status: model.StatusPending}, nil).Once()

		req := as(httptest.NewRequest(http.MethodPost, "/me/payments", body), "u-1", model.RoleProspective)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("invalid amount", func(t *testing.T) {
		body, ct := proofForm(t, map[string]string{"package_id": "pkg-1", "amount": "sejuta"}, true)
		req := as(httptest.NewRequest(http.MethodPost, "/me/payments", body), "u-1", model.RoleProspective)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_AMOUNT", decodeError(t, resp).Error.Code)
	})

	t.Run("missing proof", func(t *testing.T) {
		body, ct := proofForm(t, map[string]string{"package_id": "pkg-1", "amount": "100"}, false)
		req := as(httptest.NewRequest(http.MethodPost, "/me/payments", body), "u-1", model.RoleProspective)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})
}

func TestStartGatewayPayment_Unconfigured(t *testing.T) {
	svc := new(serviceMocks.MockPaymentService)
	app := newApp()
	app.Post("/me/payments/gateway", StartGatewayPayment(svc))

	svc.On("StartGatewayPayment", mock.Anything, service.Actor{UserID: "u-1", Role: model.RolePilgrim}, "pkg-1").
		Return(nil, fmt.Errorf("%w: payment gateway is not configured", service.ErrUnavailable)).Once()

	req := as(jsonRequest(http.MethodPost, "/me/payments/gateway", map[string]any{"package_id": "pkg-1"}), "u-1", model.RolePilgrim)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	svc.AssertExpectations(t)
}

func TestGetMyPayment_Forbidden(t *testing.T) {
	svc := new(serviceMocks.MockPaymentService)
	app := newApp()
	app.Get("/me/payments/:id", GetMyPayment(svc))

	svc.On("GetPayment", mock.Anything, service.Actor{UserID: "u-2", Role: model.RolePilgrim}, paymentID).
		Return(nil, service.ErrForbidden).Once()

	resp, _ := app.Test(as(httptest.NewRequest(http.MethodGet, "/me/payments/"+paymentID, nil), "u-2", model.RolePilgrim))

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestCheckUpgrade(t *testing.T) {
	svc := new(serviceMocks.MockUpgradeService)
	app := newApp()
	app.Post("/me/upgrade", CheckUpgrade(svc))

	svc.On("CheckUpgrade", mock.Anything, service.Actor{UserID: "u-1", Role: model.RolePilgrim}).
		Return(&service.UpgradeResult{Upgraded: true, Reason: service.ReasonUpgraded, Role: model.RoleAlumni}, nil).Once()

	resp, _ := app.Test(as(httptest.NewRequest(http.MethodPost, "/me/upgrade", nil), "u-1", model.RolePilgrim))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var res service.UpgradeResult
	json.NewDecoder(resp.Body).Decode(&res)
	assert.True(t, res.Upgraded)
	assert.Equal(t, model.RoleAlumni, res.Role)
	svc.AssertExpectations(t)
}

func TestRequestUpgrade(t *testing.T) {
	svc := new(serviceMocks.MockUpgradeService)
	app := newApp()
	app.Post("/me/upgrade-requests", RequestUpgrade(svc))
	actor := service.Actor{UserID: "u-1", Role: model.RoleProspective}

	t.Run("empty body", func(t *testing.T) {
		svc.On("RequestUpgrade", mock.Anything, actor, "", "").
			Return(&model.UpgradeRequest{ID: "r-1", Status: model.StatusPending}, nil).Once()

		resp, _ := app.Test(as(httptest.NewRequest(http.MethodPost, "/me/upgrade-requests", nil), "u-1", model.RoleProspective))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("already pending", func(t *testing.T) {
		svc.On("RequestUpgrade", mock.Anything, actor, "pkg-1", "sudah transfer").
			Return(nil, fmt.Errorf("%w: an upgrade request is already pending", service.ErrConflict)).Once()

		req := as(jsonRequest(http.MethodPost, "/me/upgrade-requests", map[string]any{"package_id": "pkg-1", "note": "sudah transfer"}), "u-1", model.RoleProspective)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CONFLICT", decodeError(t, resp).Error.Code)
	})
	svc.AssertExpectations(t)
}
