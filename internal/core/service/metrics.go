package service

import "github.com/messagely/messaging-system/internal/core/ports"

type nopMetrics struct{}

func (nopMetrics) LoginAttempted(bool)        {}
func (nopMetrics) RegistrationAttempted(bool) {}
func (nopMetrics) MessageSent()               {}
func (nopMetrics) MessageRead()               {}

func orNop(m ports.Metrics) ports.Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
