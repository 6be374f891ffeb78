package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sumonitor/go-sumonitor/internal/core/model"
)

// Pricer prices a token count for one direction of a request
type Pricer interface {
	Price(modelName string, tokens int, dir model.Direction) (decimal.Decimal, model.Tier)
}

// ErrInvalidTable is returned when a pricing table file fails validation
var ErrInvalidTable = errors.New("invalid pricing table")

var _ Pricer = (*Table)(nil)
