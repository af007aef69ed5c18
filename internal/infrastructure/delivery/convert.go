package delivery

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/platehub/backend/internal/domain/ordering"
)

// guestCustomerName is the placeholder used when a platform omits the
// customer name from an order payload.
const guestCustomerName = "Misafir"

// totalTolerance is the rounding slack allowed between the upstream-reported
// total and the sum of line totals before the recomputed value takes over.
var totalTolerance = decimal.NewFromFloat(0.01)

// finalizeOrder applies the shared normalization defaults after an adapter
// has mapped the platform-specific fields. Every adapter's ConvertOrder runs
// through here so malformed payloads always yield a well-formed order.
//
// The items sum is the authoritative total: when the upstream-reported value
// disagrees beyond rounding, the recomputed value wins and the upstream value
// is kept in the notes trail. Orders without items keep the upstream value.
func finalizeOrder(order *ordering.Order, upstreamTotal decimal.Decimal) *ordering.Order {
	if order.Items == nil {
		order.Items = []ordering.OrderItem{}
	}
	if strings.TrimSpace(order.Customer.Name) == "" {
		order.Customer.Name = guestCustomerName
	}
	if order.Status == "" {
		order.Status = ordering.StatusPending
	}

	if len(order.Items) == 0 {
		order.TotalAmount = upstreamTotal
		return order
	}

	computed := order.ItemsTotal()
	if upstreamTotal.Sub(computed).Abs().GreaterThan(totalTolerance) {
		order.TotalAmount = computed
		remark := fmt.Sprintf("platform reported total %s, recomputed from items as %s",
			upstreamTotal.StringFixed(2), computed.StringFixed(2))
		if order.Notes == "" {
			order.Notes = remark
		} else {
			order.Notes = order.Notes + " | " + remark
		}
	} else {
		order.TotalAmount = upstreamTotal
	}
	return order
}

// joinAddress builds a single-line address from the parts a platform sends,
// skipping empty segments.
func joinAddress(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return strings.Join(cleaned, ", ")
}
