package metrics

import "github.com/messagely/messaging-system/internal/core/ports"

var _ ports.Metrics = Recorder{}

// Recorder forwards service outcomes to the package counters.
type Recorder struct{}

func (Recorder) LoginAttempted(accepted bool) {
	if accepted {
		LoginsTotal.WithLabelValues("accepted").Inc()
		return
	}
	LoginsTotal.WithLabelValues("rejected").Inc()
}

func (Recorder) RegistrationAttempted(duplicate bool) {
	if duplicate {
		RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return
	}
	RegistrationsTotal.WithLabelValues("created").Inc()
}

func (Recorder) MessageSent() { MessagesSentTotal.Inc() }

func (Recorder) MessageRead() { MessagesReadTotal.Inc() }
