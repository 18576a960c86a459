package marketdatav1

// OrderRecord is the remembered identity of an order in a reference table:
// the price, quantity, side and timestamp the order last rested at.
type OrderRecord struct {
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	Side      Side    `json:"side"`
	Timestamp int64   `json:"timestamp"`
}

// PriceLevel is one aggregated book level. Quantity and OpenOrders are
// additive and may go negative when the replay window clips an order's
// lifecycle; negative levels stay in the book.
type PriceLevel struct {
	Quantity   int64
	OpenOrders int64
	// Timestamp is the latest event timestamp that touched the level,
	// microseconds since epoch.
	Timestamp int64
}

// Trade is one execution recorded during replay, timestamped in microseconds.
type Trade struct {
	Price     float64
	Quantity  int64
	Side      Side
	Timestamp int64
}

// TradeRecord is a course-of-sales entry as handed to consumers. Time is the
// event timestamp divided by 1000, carried as a float so sub-millisecond
// ordering survives.
type TradeRecord struct {
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Time     float64 `json:"time"`
}

// SideTotals carries the quantity and trade-count sums of one book side,
// accumulated over every level, not just the displayed ones.
type SideTotals struct {
	Quantity int64 `json:"quantity"`
	Orders   int64 `json:"number_of_trades"`
}

// TradesBySide aggregates executed volume per resting side.
type TradesBySide struct {
	BuyQuantity  int64 `json:"buy_quantity"`
	BuyCount     int64 `json:"buy_count"`
	SellQuantity int64 `json:"sell_quantity"`
	SellCount    int64 `json:"sell_count"`
}
