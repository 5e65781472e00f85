package quota

// UsageResponse is the body of the OAuth usage endpoint. Any window may be
// absent when the provider does not report it for the account.
type UsageResponse struct {
	FiveHour       *Window `json:"five_hour"`
	SevenDay       *Window `json:"seven_day"`
	SevenDaySonnet *Window `json:"seven_day_sonnet"`
	SevenDayOpus   *Window `json:"seven_day_opus"`
}

// Window is one rolling quota window. Utilization is provider-supplied and
// not guaranteed to stay within [0,1]; it is passed through unchanged.
// ResetsAt is kept as the provider's timestamp string.
type Window struct {
	Utilization float64 `json:"utilization"`
	ResetsAt    string  `json:"resets_at"`
}
