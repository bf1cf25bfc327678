package cache

import "github.com/btcsuite/btclog/v2"

// log is the package logger. Logging is disabled by default; callers
// that want diagnostics (the SelfCheck option reports through here)
// must install a backend via UseLogger.
var log = btclog.Disabled

// DisableLog disables all package log output.
func DisableLog() {
	log = btclog.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}
