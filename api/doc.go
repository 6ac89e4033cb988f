// Package api exposes the game service over HTTP.
//
// Endpoints:
//
//	POST   /api/sessions                 create a session {config_id, player}
//	GET    /api/sessions                 list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//	GET    /api/sessions/unified         sessions plus outcome counts (?sessionIds=a,b or ?configName=)
//	GET    /api/sessions/{id}            session details
//	DELETE /api/sessions/{id}            drop a session
//	GET    /api/sessions/{id}/state      current game state
//	POST   /api/sessions/{id}/move       play one turn {direction, reset}
//	POST   /api/sessions/{id}/bulk-move  play several turns {moves, reset}
//	POST   /api/sessions/{id}/reset      restart with the same layout
//	GET    /api/sessions/{id}/history    paginated move history (?page&limit&order)
//	GET    /api/configs                  presets and custom configurations
//	POST   /api/configs                  save a custom configuration
//	GET    /api/configs/{name}           one configuration
//	POST   /api/players                  register {username, password, repeat_password}
//	POST   /api/players/login            check credentials
//	GET    /api/leaderboard              players ordered by win ratio
//	GET    /healthz                      liveness
//	GET    /ws?session={id}              live turn updates
//
// Errors are returned as {"error": "..."}. Unknown sessions are 404; account
// errors map to 400, 401, 404 or 409; a server without player storage answers
// account requests with 503.
package api
