// Package store holds the persisted payment display record.
//
// A single Record is kept in memory behind a RWMutex and rewritten wholesale
// to a JSON file on every mutation. The bot is the only writer; page renders
// read snapshot copies with unbounded concurrency.
package store
