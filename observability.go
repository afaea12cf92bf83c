package zcap

import (
	"time"

	"go.bryk.io/zcap/log"
	"go.bryk.io/zcap/metrics"
	"go.bryk.io/zcap/ulid"
	"go.bryk.io/zcap/zclock"
	"go.bryk.io/zcap/zconfig"
)

// ValidateChainObserved wraps ValidateChain with structured logging and
// metrics recording. Each call is tagged with a fresh ULID correlation id
// so a host can line up the log line with the metric sample and, if
// needed, a later support request. logger and recorder may be nil: a nil
// logger is treated as log.Discard(), and Recorder is already nil-safe.
func ValidateChainObserved(
	leaf Capability,
	cfg *zconfig.Config,
	clock zclock.Clock,
	resolver PublicKeyResolver,
	revocation RevocationOracle,
	logger log.Logger,
	recorder *metrics.Recorder,
) (Result, error) {
	if logger == nil {
		logger = log.Discard()
	}
	corrID, err := ulid.New()
	var correlation string
	if err == nil {
		correlation = corrID.String()
	}
	sub := logger.WithFields(log.Fields{"capabilityId": leaf.ID(), "correlationId": correlation})

	start := time.Now()
	result, err := ValidateChain(leaf, cfg, clock, resolver, revocation)
	elapsed := time.Since(start)

	if err != nil {
		sub.Errorf("chain validation fault: %v", err)
		return result, err
	}
	recorder.ObserveValidation(result.IsValid, string(result.ErrorCode), elapsed)
	if result.IsValid {
		sub.Debug("chain validation succeeded")
	} else {
		sub.WithField("errorCode", string(result.ErrorCode)).Warningf("chain validation rejected: %s", result.Message)
	}
	return result, nil
}
