// Package session keeps board sessions in memory.
//
// Each session owns its own engine.BoardEngine, so boards never share
// obstacles or selections. Sessions are identified by 4-character hex IDs
// drawn from crypto/rand and looked up case-insensitively.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", layout)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Sessions live until they are deleted, expired with CleanupExpiredSessions,
// or the process exits. Nothing is written to disk.
package session
