// Package logging provides opt-in file logging with rotation for rtxswitch.
// With --debug, every driver call and its status is written as JSON to
// ~/.rtxswitch/logs/rtxswitch.log, and `rtxswitch logs` reads it back.
//
// Without --debug, only warnings reach stderr.
package logging
