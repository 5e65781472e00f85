package core

import "github.com/mlipski/usagewidget/internal/activity"

// UsageMetric is one quota window as the widget renders it. Percent is the
// provider's utilization, passed through unchanged.
type UsageMetric struct {
	Percent  float64 `json:"percent"`
	ResetsAt string  `json:"resetsAt"`
}

// WidgetData is the payload handed to the widget on every refresh. It is
// always produced: Error carries the remote failure, if any, while TokenStats
// is filled from local data regardless.
type WidgetData struct {
	FiveHour       *UsageMetric        `json:"fiveHour"`
	SevenDay       *UsageMetric        `json:"sevenDay"`
	SevenDaySonnet *UsageMetric        `json:"sevenDaySonnet"`
	SevenDayOpus   *UsageMetric        `json:"sevenDayOpus"`
	TokenStats     activity.TokenStats `json:"tokenStats"`
	LastUpdated    string              `json:"lastUpdated"`
	Error          string              `json:"error,omitempty"`
}
