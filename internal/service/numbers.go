package service

import (
	"fmt"
	"math/rand"
	"time"
)

// Document numbers carry a millisecond timestamp plus a random suffix so
// concurrent creations never collide. Delivery numbers are sequential off
// the current count, matching the paper forms the warehouse staff use.

func newReceiptNumber() string {
	return fmt.Sprintf("RCP-%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}

func newDeliveryNumber(seq int64) string {
	return fmt.Sprintf("DEL%06d", seq+1)
}

func newTransferNumber() string {
	return fmt.Sprintf("TRF-%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}
