package meta

import "github.com/sirupsen/logrus"

var log *logrus.Logger = logrus.New()

// SetLogger redirects the package diagnostics to the given logger. Anomaly
// events are observational only; no decision function changes behavior based
// on whether or where they are logged.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		log = l
	}
}

// reportConsumedBeyondLastIndex records a slot whose contiguous-progress
// counter has run past its declared last index. The record is kept usable;
// the slot is simply never reported full.
func reportConsumedBeyondLastIndex(slot, consumed, lastIndex uint64) {
	log.WithFields(logrus.Fields{
		"event":      "consumed_beyond_last_index",
		"slot":       slot,
		"consumed":   consumed,
		"last_index": lastIndex,
	}).Error("slot consumed count is past its last index")
}
