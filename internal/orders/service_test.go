package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gainschef/backend/pkg/db/models"
	"github.com/gainschef/backend/pkg/enums"
	pkgerrors "github.com/gainschef/backend/pkg/errors"
)

type stubOrdersRepo struct {
	bySession   map[string]*models.Order
	createErr   error
	findErr     error
	updateErr   error
	updateCalls int
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{bySession: make(map[string]*models.Order)}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, exists := s.bySession[order.SessionID]; exists {
		return nil, errors.New(`duplicate key value violates unique constraint "uq_orders_session_id"`)
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.bySession[order.SessionID] = order
	return order, nil
}

func (s *stubOrdersRepo) FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.bySession[sessionID], nil
}

func (s *stubOrdersRepo) UpdatePaymentStatus(ctx context.Context, sessionID string, status enums.PaymentStatus, paidAt *time.Time) error {
	s.updateCalls++
	if s.updateErr != nil {
		return s.updateErr
	}
	order, ok := s.bySession[sessionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.PaymentStatus = status
	order.PaidAt = paidAt
	return nil
}

func pendingInput(sessionID string) PendingOrderInput {
	return PendingOrderInput{
		SessionID:        sessionID,
		PrincipalID:      "user-1",
		PrincipalKind:    enums.PrincipalAuthenticated,
		CustomerRef:      "cus_1",
		Currency:         enums.CurrencyGBP,
		AmountTotalPence: 850,
		Lines: []PendingOrderLine{
			{ProductSlug: "creatine-mono", Name: "Creatine Monohydrate", UnitAmountPence: 425, Quantity: 2},
		},
	}
}

func TestRecordPendingOrderComputesLineTotals(t *testing.T) {
	repo := newStubOrdersRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	order, err := svc.RecordPendingOrder(context.Background(), pendingInput("cs_1"))
	if err != nil {
		t.Fatalf("record pending order: %v", err)
	}
	if order.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("expected pending status, got %s", order.PaymentStatus)
	}
	if len(order.Items) != 1 || order.Items[0].TotalPence != 850 {
		t.Fatalf("unexpected line items %+v", order.Items)
	}
}

func TestRecordPendingOrderDuplicateSessionIsIdempotent(t *testing.T) {
	repo := newStubOrdersRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()

	first, err := svc.RecordPendingOrder(ctx, pendingInput("cs_dup"))
	if err != nil {
		t.Fatalf("first record: %v", err)
	}

	second, err := svc.RecordPendingOrder(ctx, pendingInput("cs_dup"))
	if err != nil {
		t.Fatalf("duplicate record should resolve to existing order: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected existing order returned")
	}
}

func TestRecordPendingOrderStoreFailure(t *testing.T) {
	repo := newStubOrdersRepo()
	repo.createErr = errors.New("connection refused")
	svc, _ := NewService(repo)

	_, err := svc.RecordPendingOrder(context.Background(), pendingInput("cs_fail"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStoreWrite {
		t.Fatalf("expected store write code, got %v", err)
	}
}

func TestRecordPendingOrderRejectsEmptyLines(t *testing.T) {
	svc, _ := NewService(newStubOrdersRepo())
	input := pendingInput("cs_empty")
	input.Lines = nil

	_, err := svc.RecordPendingOrder(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestGetConfirmation(t *testing.T) {
	repo := newStubOrdersRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()

	if _, err := svc.RecordPendingOrder(ctx, pendingInput("cs_conf")); err != nil {
		t.Fatalf("record: %v", err)
	}

	conf, err := svc.GetConfirmation(ctx, "cs_conf")
	if err != nil {
		t.Fatalf("get confirmation: %v", err)
	}
	if conf.SessionID != "cs_conf" || conf.AmountTotalPence != 850 {
		t.Fatalf("unexpected confirmation %+v", conf)
	}
	if len(conf.Lines) != 1 || conf.Lines[0].TotalPence != 850 {
		t.Fatalf("unexpected lines %+v", conf.Lines)
	}
}

func TestGetConfirmationMissingSession(t *testing.T) {
	svc, _ := NewService(newStubOrdersRepo())

	_, err := svc.GetConfirmation(context.Background(), "cs_absent")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestApplyPaymentStatusTransitions(t *testing.T) {
	repo := newStubOrdersRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := svc.RecordPendingOrder(ctx, pendingInput("cs_pay")); err != nil {
		t.Fatalf("record: %v", err)
	}

	if err := svc.ApplyPaymentStatus(ctx, "cs_pay", enums.PaymentStatusPaid, now); err != nil {
		t.Fatalf("apply paid: %v", err)
	}
	order := repo.bySession["cs_pay"]
	if order.PaymentStatus != enums.PaymentStatusPaid || order.PaidAt == nil {
		t.Fatalf("paid transition not applied: %+v", order)
	}

	// Replaying the same status is a no-op.
	if err := svc.ApplyPaymentStatus(ctx, "cs_pay", enums.PaymentStatusPaid, now); err != nil {
		t.Fatalf("replay should be a no-op: %v", err)
	}
	if repo.updateCalls != 1 {
		t.Fatalf("replay should not write, update calls %d", repo.updateCalls)
	}

	// A settled order never moves to another terminal state.
	err := svc.ApplyPaymentStatus(ctx, "cs_pay", enums.PaymentStatusExpired, now)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestApplyPaymentStatusUnknownSession(t *testing.T) {
	svc, _ := NewService(newStubOrdersRepo())

	err := svc.ApplyPaymentStatus(context.Background(), "cs_absent", enums.PaymentStatusPaid, time.Now())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}
