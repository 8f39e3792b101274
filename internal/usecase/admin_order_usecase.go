package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"albummai/internal/domain/model"
	repo "albummai/internal/repository"
)

type AdminOrderUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

func NewAdminOrderUsecase(tx repo.TransactionManager) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, clock: realClock{}}
}

// nil は変更しない
type AdminUpdateOrderInput struct {
	OrderID        int64
	Status         *string
	TrackingNumber *string
	Notes          *string
}

type AdminOrderListOutput struct {
	Orders []OrderOutput `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

// 監査ログに残す項目
type fulfillmentSnapshot struct {
	Status         model.OrderStatus `json:"status"`
	TrackingNumber *string           `json:"trackingNumber"`
	Notes          string            `json:"notes"`
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (AdminOrderListOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Status != "" {
		st, ok := model.ParseOrderStatus(f.Status)
		if !ok {
			return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		f.Status = string(st)
	}

	out := AdminOrderListOutput{Page: f.Page, Limit: f.Limit}
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return dbError(err)
		}
		out.Total = total
		out.Orders, err = withItems(ctx, r, orders)
		return err
	})
	if err != nil {
		return AdminOrderListOutput{}, err
	}
	return out, nil
}

// UpdateOrder はステータス・追跡番号・メモを更新して監査ログを残す
func (u *AdminOrderUsecase) UpdateOrder(ctx context.Context, actorAdminUserID int64, in AdminUpdateOrderInput) (OrderOutput, error) {
	if actorAdminUserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.OrderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "missing required fields")
	}

	var next *model.OrderStatus
	if in.Status != nil {
		st, ok := model.ParseOrderStatus(*in.Status)
		if !ok {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		next = &st
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, in.OrderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return dbError(err)
		}

		before := fulfillmentSnapshot{Status: o.Status, TrackingNumber: o.TrackingNumber, Notes: o.Notes}

		if next != nil {
			if !model.CanTransition(o.Status, *next) {
				return NewHTTPError(http.StatusBadRequest, "invalid status transition")
			}
			o.Status = *next
		}
		if in.TrackingNumber != nil {
			tn := strings.TrimSpace(*in.TrackingNumber)
			if tn == "" {
				o.TrackingNumber = nil
			} else {
				o.TrackingNumber = &tn
			}
		}
		if in.Notes != nil {
			o.Notes = strings.TrimSpace(*in.Notes)
		}

		after := fulfillmentSnapshot{Status: o.Status, TrackingNumber: o.TrackingNumber, Notes: o.Notes}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return dbError(err)
		}
		out = OrderOutput{Order: o, Items: items}

		// 何も変わらなければ書かない
		if before.equal(after) {
			return nil
		}

		if err := r.Orders().UpdateFulfillment(ctx, o); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "order not found")
			}
			return dbError(err)
		}

		beforeJSON, err := json.Marshal(before)
		if err != nil {
			return internalError("encode audit log", err)
		}
		afterJSON, err := json.Marshal(after)
		if err != nil {
			return internalError("encode audit log", err)
		}
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   o.ID,
			BeforeJSON:   string(beforeJSON),
			AfterJSON:    string(afterJSON),
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

type AuditLogListOutput struct {
	AuditLogs []model.AuditLog `json:"auditLogs"`
}

// OrderAuditLogs は注文に対する管理者操作の履歴（新しい順）
func (u *AdminOrderUsecase) OrderAuditLogs(ctx context.Context, orderID int64) (AuditLogListOutput, error) {
	if orderID <= 0 {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out AuditLogListOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Orders().FindByID(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "order not found")
			}
			return dbError(err)
		}
		logs, err := r.AuditLogs().List(ctx, repo.AuditLogFilter{OrderID: &orderID})
		if err != nil {
			return dbError(err)
		}
		out.AuditLogs = logs
		return nil
	})
	if err != nil {
		return AuditLogListOutput{}, err
	}
	return out, nil
}

func (s fulfillmentSnapshot) equal(o fulfillmentSnapshot) bool {
	if s.Status != o.Status || s.Notes != o.Notes {
		return false
	}
	if (s.TrackingNumber == nil) != (o.TrackingNumber == nil) {
		return false
	}
	return s.TrackingNumber == nil || *s.TrackingNumber == *o.TrackingNumber
}
