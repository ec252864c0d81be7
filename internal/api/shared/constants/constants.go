package constants

import "time"

const (
	MAX_PAGE_SIZE                = 100
	DEFAULT_TRANSACTIONS_LIMIT   = 20
	DEFAULT_OFFSET               = 0
	MAX_SEND_UNLINKED_RETRIES    = 5
	SEND_UNLINKED_RETRY_INTERVAL = 50 * time.Millisecond
	SEND_UNLINKED_RETRY_TIMEOUT  = 5 * time.Second
	SERVICE_NAME                 = "ff-social-escrow-api"
)
