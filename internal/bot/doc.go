// Package bot integrates with the Telegram Bot API.
//
// Bot drains the long-poll update channel on a single goroutine and routes
// owner messages into Session, the small state machine behind /setqr and
// /setid. Updates from anyone but the configured owner are dropped without a
// reply.
package bot
