// Package session keeps the live game sessions of a server in memory.
//
// Each session owns its own engine, so sessions never share a map, a random
// source or dragons. Sessions use 4-character hex IDs which are matched
// case-insensitively. A caller may also pick its own ID.
//
// Sessions live only as long as the process. Idle ones can be dropped with
// CleanupExpiredSessions, which the server runs on a timer.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config, "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
package session
