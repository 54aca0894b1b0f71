package utils

type MetricChans struct {
	EventRead           chan float64
	EventWrite          chan float64
	SessionCheckLatency chan float64
	UnauthorizedWrite   chan struct{}
}

func NewMetricChans() MetricChans {
	return MetricChans{
		EventRead:           make(chan float64, 16),
		EventWrite:          make(chan float64, 16),
		SessionCheckLatency: make(chan float64, 16),
		UnauthorizedWrite:   make(chan struct{}, 16),
	}
}
