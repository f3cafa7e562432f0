package recommend

import (
	"fmt"

	"github.com/okian/barhop/internal/domain/model"
)

// Sentinel error kinds for this package. Use errors.Is to test for them.
var (
	// ErrInvalidInput covers bad coordinates and out-of-range request options.
	ErrInvalidInput = fmt.Errorf("recommend: %w", model.ErrInvalidInput)
)
