package postgres

import (
	"context"
	"errors"
	"fmt"

	paymentBillDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/paymentbill"
	"github.com/frahmantamala/interior-ledger/internal/payment"
	"gorm.io/gorm"
)

type BillRepository struct {
	db *gorm.DB
}

func NewBillRepository(db *gorm.DB) payment.RepositoryAPI {
	return &BillRepository{db: db}
}

func (r *BillRepository) Create(ctx context.Context, bill *paymentBillDatamodel.PaymentBill) error {
	if err := r.db.WithContext(ctx).Create(bill).Error; err != nil {
		return fmt.Errorf("create payment bill: %w", err)
	}
	return nil
}

func (r *BillRepository) GetByID(ctx context.Context, userID, id int64) (*paymentBillDatamodel.PaymentBill, error) {
	var bill paymentBillDatamodel.PaymentBill
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment bill: %w", err)
	}
	return &bill, nil
}

func (r *BillRepository) ListByProject(ctx context.Context, userID, projectID int64) ([]*paymentBillDatamodel.PaymentBill, error) {
	var bills []*paymentBillDatamodel.PaymentBill
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Order("date DESC, id DESC").
		Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("list payment bills: %w", err)
	}
	return bills, nil
}
