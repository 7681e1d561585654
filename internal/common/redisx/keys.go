package redisx

import "time"

const (
	// Cached order status: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"
)

// TTLStatusCache bounds staleness for polling clients; every status write
// refreshes the entry anyway.
var TTLStatusCache = 5 * time.Minute
