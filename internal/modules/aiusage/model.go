// README: Monthly allowance of AI itinerary generations per user.
package aiusage

import "errors"

// ErrInsufficientTokens is returned when a user has no generations left this month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the number of AI generations granted per month.
const DefaultTokens = 100

// monthLayout keys the allowance period.
const monthLayout = "2006-01"
