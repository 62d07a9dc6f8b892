package enums

import "fmt"

// OrderStatus is the aggregate status derived from an order's lines.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusCompleted,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// LineStatus tracks shipment of a single order line.
type LineStatus string

const (
	LineStatusOrdered LineStatus = "ordered"
	LineStatusShipped LineStatus = "shipped"
)

var validLineStatuses = []LineStatus{
	LineStatusOrdered,
	LineStatusShipped,
}

// String implements fmt.Stringer.
func (s LineStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LineStatus.
func (s LineStatus) IsValid() bool {
	for _, candidate := range validLineStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLineStatus converts raw input into a LineStatus.
func ParseLineStatus(value string) (LineStatus, error) {
	for _, candidate := range validLineStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid line status %q", value)
}
