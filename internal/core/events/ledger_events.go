package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeEntryCreated             = "entry.created"
	EventTypeEntryDeleted             = "entry.deleted"
	EventTypeTransferCompleted        = "transfer.completed"
	EventTypeSharedExpenseDistributed = "shared_expense.distributed"
	EventTypeProjectDeleted           = "project.deleted"
	EventTypePaymentBillGenerated     = "payment_bill.generated"
)

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func NewEntryCreatedEvent(entryID, userID, projectID int64, entryType string, amount float64, category string) BaseEvent {
	return newBase(EventTypeEntryCreated, map[string]interface{}{
		"entry_id":   entryID,
		"user_id":    userID,
		"project_id": projectID,
		"type":       entryType,
		"amount":     amount,
		"category":   category,
	})
}

func NewEntryDeletedEvent(entryID, userID, projectID int64) BaseEvent {
	return newBase(EventTypeEntryDeleted, map[string]interface{}{
		"entry_id":   entryID,
		"user_id":    userID,
		"project_id": projectID,
	})
}

func NewTransferCompletedEvent(userID, currentProjectID, sourceProjectID, incomeEntryID, expenseEntryID int64, amount float64) BaseEvent {
	return newBase(EventTypeTransferCompleted, map[string]interface{}{
		"user_id":            userID,
		"current_project_id": currentProjectID,
		"source_project_id":  sourceProjectID,
		"income_entry_id":    incomeEntryID,
		"expense_entry_id":   expenseEntryID,
		"amount":             amount,
	})
}

func NewSharedExpenseDistributedEvent(userID int64, batchID string, originalAmount, distributedAmount float64, projectIDs []int64) BaseEvent {
	return newBase(EventTypeSharedExpenseDistributed, map[string]interface{}{
		"user_id":            userID,
		"batch_id":           batchID,
		"original_amount":    originalAmount,
		"distributed_amount": distributedAmount,
		"project_ids":        projectIDs,
	})
}

func NewProjectDeletedEvent(userID, projectID int64, deletedEntries int64) BaseEvent {
	return newBase(EventTypeProjectDeleted, map[string]interface{}{
		"user_id":         userID,
		"project_id":      projectID,
		"deleted_entries": deletedEntries,
	})
}

func NewPaymentBillGeneratedEvent(userID, projectID int64, billNumber string, amountReceived, remainingAmount float64) BaseEvent {
	return newBase(EventTypePaymentBillGenerated, map[string]interface{}{
		"user_id":          userID,
		"project_id":       projectID,
		"bill_number":      billNumber,
		"amount_received":  amountReceived,
		"remaining_amount": remainingAmount,
	})
}
