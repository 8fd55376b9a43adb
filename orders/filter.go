package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled client-side order filter expression.
type Filter struct {
	program *vm.Program
	expr    string
}

// CompileFilter compiles an expr expression evaluated per order, e.g.
//
//	Status == "Shipped" && Total > 50
//	daysSince(PurchaseDate) < 7 && contains(SalesChannel, "amazon")
func CompileFilter(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	program, err := expr.Compile(expression,
		expr.Env(filterEnv(Order{})),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression: %w", err)
	}

	return &Filter{program: program, expr: expression}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expr
}

// Match evaluates the filter against one order. Evaluation errors count
// as no match.
func (f *Filter) Match(order Order) bool {
	result, err := expr.Run(f.program, filterEnv(order))
	if err != nil {
		return false
	}
	matched, ok := result.(bool)
	return ok && matched
}

// Apply returns the orders matching the filter.
func (f *Filter) Apply(all []Order) []Order {
	var matched []Order
	for _, o := range all {
		if f.Match(o) {
			matched = append(matched, o)
		}
	}
	return matched
}

// filterEnv builds the expression environment for one order: the order
// itself, its fields flattened for convenience, and date/string helpers.
func filterEnv(order Order) map[string]interface{} {
	return map[string]interface{}{
		"Order": order,

		// Flattened order properties
		"OrderID":        order.AmazonOrderID,
		"Status":         order.OrderStatus,
		"PurchaseDate":   order.PurchaseDate,
		"LastUpdateDate": order.LastUpdateDate,
		"Total":          order.OrderTotal.Float(),
		"Currency":       currencyOf(order.OrderTotal),
		"SalesChannel":   order.SalesChannel,
		"Fulfillment":    order.FulfillmentChannel,
		"Marketplace":    order.MarketplaceID,
		"BuyerName":      order.BuyerName,
		"BuyerEmail":     order.BuyerEmail,
		"ItemsShipped":   order.NumberOfItemsShipped,
		"ItemsUnshipped": order.NumberOfItemsUnshipped,
		"IsPrime":        order.IsPrime,
		"IsBusiness":     order.IsBusinessOrder,

		// Status helpers
		"shipped": func() bool {
			return order.OrderStatus == StatusShipped
		},
		"pending": func() bool {
			return order.OrderStatus == StatusPending || order.OrderStatus == StatusPendingAvailability
		},
		"fulfilledByAmazon": func() bool {
			return order.FulfillmentChannel == "AFN"
		},

		// Date helpers
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
		"now": time.Now,

		// String helpers
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}

func currencyOf(m *Money) string {
	if m == nil {
		return ""
	}
	return m.CurrencyCode
}
