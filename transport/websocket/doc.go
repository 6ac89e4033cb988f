// Package websocket pushes live game updates to spectators.
//
// A central Hub keeps the clients watching each session. Clients connect with
// the session ID in the query string and only ever receive messages; every
// turn played through the REST API is broadcast as a "turn" message carrying
// the TurnResult and the new GameState. Resets are sent as "state_update".
//
// Session IDs are matched case-insensitively, like everywhere else.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.ServeWS(w, r, sessionID)
//	hub.BroadcastTurn(sessionID, turn, state)
package websocket
