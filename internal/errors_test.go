package internal_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/interior-ledger/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("matches sentinels through copies and wrapping", func() {
		err := fmt.Errorf("lookup: %w", internal.ErrProjectNotFound.WithCause(errors.New("no rows")))

		Expect(errors.Is(err, internal.ErrProjectNotFound)).To(BeTrue())
		Expect(errors.Is(err, internal.ErrEntryNotFound)).To(BeFalse())
		Expect(internal.ErrProjectNotFound.Cause).To(BeNil())
	})

	It("unwraps to the cause", func() {
		cause := errors.New("connection reset")
		err := internal.NewInternalError("failed to list projects", cause)

		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(err.Error()).To(Equal("failed to list projects: connection reset"))
	})

	It("finds an AppError inside a wrapped chain", func() {
		appErr, ok := internal.IsAppError(fmt.Errorf("outer: %w", internal.ErrDuplicateCategory))
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusConflict))

		_, ok = internal.IsAppError(errors.New("plain"))
		Expect(ok).To(BeFalse())
	})

	It("renders the error envelope with joined field messages", func() {
		err := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "amount", Message: "amount is required"},
				{Field: "category", Message: "category is required"},
			}})

		status, body := err.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusBadRequest))

		raw, marshalErr := json.Marshal(body)
		Expect(marshalErr).NotTo(HaveOccurred())

		var decoded map[string]map[string]interface{}
		Expect(json.Unmarshal(raw, &decoded)).To(Succeed())
		Expect(decoded["error"]["type"]).To(Equal("VALIDATION_ERROR"))
		Expect(decoded["error"]["message"]).To(Equal("amount is required; category is required"))
		Expect(decoded["error"]).To(HaveKey("details"))
	})

	It("carries partial write details", func() {
		err := internal.NewPartialWriteError("transfer incomplete", internal.ErrCodePartialTransfer,
			map[string]string{"outcome": "second_failed_compensated"}, errors.New("disk full"))

		Expect(err.StatusCode).To(Equal(http.StatusInternalServerError))
		Expect(err.Details).To(HaveKeyWithValue("outcome", "second_failed_compensated"))
	})
})
