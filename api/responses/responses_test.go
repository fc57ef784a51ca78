package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/gainschef/backend/pkg/errors"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (code, message string, details any) {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details any    `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code, envelope.Error.Message, envelope.Error.Details
}

func TestWriteErrorMapsDomainCodes(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"empty cart", pkgerrors.New(pkgerrors.CodeEmptyCart, "cart contains no items"), 400, "EMPTY_CART"},
		{"unknown product", pkgerrors.New(pkgerrors.CodeUnknownProduct, "unknown products in cart"), 400, "UNKNOWN_PRODUCT"},
		{"unauthorized", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token"), 401, "UNAUTHORIZED"},
		{"not found", pkgerrors.New(pkgerrors.CodeNotFound, "order not found"), 404, "NOT_FOUND"},
		{"conflict", pkgerrors.New(pkgerrors.CodeConflict, "order already settled"), 409, "CONFLICT"},
		{"payment provider", pkgerrors.New(pkgerrors.CodePaymentProvider, "session create failed"), 502, "PAYMENT_PROVIDER_ERROR"},
		{"dependency", pkgerrors.New(pkgerrors.CodeDependency, "redis down"), 503, "DEPENDENCY_ERROR"},
		{"untyped", errors.New("boom"), 500, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tc.err)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			code, _, _ := decodeError(t, rec)
			if code != tc.wantCode {
				t.Fatalf("expected code %q, got %q", tc.wantCode, code)
			}
		})
	}
}

func TestWriteErrorHidesProviderDetails(t *testing.T) {
	err := pkgerrors.New(pkgerrors.CodePaymentProvider, "stripe create checkout session").
		WithDetails(map[string]any{"provider_status": 500, "provider_type": "api_error"})

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, err)

	_, msg, details := decodeError(t, rec)
	if details != nil {
		t.Fatalf("provider details must not leak, got %v", details)
	}
	if msg == "stripe create checkout session" {
		t.Fatalf("internal message must not leak")
	}
}

func TestWriteErrorExposesCartDetails(t *testing.T) {
	err := pkgerrors.New(pkgerrors.CodeUnknownProduct, "unknown products in cart").
		WithDetails(map[string]any{"unknown_products": []string{"discontinued-bar"}})

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, err)

	code, msg, details := decodeError(t, rec)
	if code != "UNKNOWN_PRODUCT" {
		t.Fatalf("unexpected code %q", code)
	}
	if msg != "unknown products in cart" {
		t.Fatalf("expected domain message to pass through, got %q", msg)
	}
	if details == nil {
		t.Fatalf("expected details in payload")
	}
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode success envelope: %v", err)
	}
	if envelope.Data["status"] != "ok" {
		t.Fatalf("unexpected payload: %v", envelope.Data)
	}
}
