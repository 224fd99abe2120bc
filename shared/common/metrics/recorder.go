package metrics

import "context"

const (
	UserRegistered         = "UserRegistered"
	UserPaired             = "UserPaired"
	PairNotificationSent   = "PairNotificationSent"
	PairNotificationFailed = "PairNotificationFailed"
)

// Recorder receives domain counters. The EMF emitter and the Prometheus metrics both implement it.
type Recorder interface {
	Count(ctx context.Context, name string, value float64)
}

type NopRecorder struct{}

func (NopRecorder) Count(context.Context, string, float64) {}

// Multi fans each count out to every non-nil recorder.
func Multi(recorders ...Recorder) Recorder {
	out := make(multiRecorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

type multiRecorder []Recorder

func (m multiRecorder) Count(ctx context.Context, name string, value float64) {
	for _, r := range m {
		r.Count(ctx, name, value)
	}
}
