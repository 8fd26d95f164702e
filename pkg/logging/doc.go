// Package logging holds the process-wide zerolog logger.
//
// Call Component at the point of logging rather than caching the result in a
// package variable, so that Configure and SetLevel take effect everywhere:
//
//	l := logging.Component("events")
//	l.Warn().Err(err).Msg("observer failed")
package logging
