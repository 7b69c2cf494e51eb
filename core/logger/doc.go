// Package logger provides the shared slog attribute helpers used at every
// log call site in this module, so fields stay consistently named across
// the gateway and the worker runtime.
//
// Components receive a *slog.Logger by injection (a WithLogger option) and
// default to a no-op logger when none is supplied:
//
//	logger: slog.New(slog.NewTextHandler(io.Discard, nil))
//
// Call sites build attributes through the helpers rather than naming keys
// inline:
//
//	log.Error("worker recv failed", logger.Error(err), logger.ID("worker_id", id))
//	log.Info("session: shutdown initiated", logger.ID("session_id", id))
//	log.Info("request", logger.Method(m), logger.Path(p), logger.Duration(d))
//
// Helpers follow the empty-Attr pattern for nil safety: logger.Error(nil)
// and logger.ID("k", nil) produce an attribute slog silently drops, so
// callers never need explicit nil checks.
package logger
