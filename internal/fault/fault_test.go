package fault_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/backoffice/internal/fault"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "not found", err: fmt.Errorf("invoice: %w", fault.ErrNotFound), want: false},
		{name: "validation", err: fault.ErrValidation, want: false},
		{name: "policy", err: fmt.Errorf("ticket already invoiced: %w", fault.ErrPolicy), want: false},
		{name: "store", err: fmt.Errorf("commit: %w", fault.ErrStore), want: true},
		{name: "unclassified", err: errors.New("connection reset"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fault.Retryable(tt.err))
		})
	}
}
