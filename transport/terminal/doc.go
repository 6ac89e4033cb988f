// Package terminal is the interactive front end: line-based menus for
// accounts and difficulty, and a full-screen tcell board for the game itself.
//
// The menus follow the classic flow. The start page offers register, log in,
// leaderboard and quit. The welcome page starts a game or shows the rules, and
// the difficulty page picks a preset or asks for a custom dungeon. Finished
// games are recorded for the logged in player.
//
// The board draws GameState.Board as rendered by the engine, so hidden
// dragons and the door look like floor until they are close. Arrow keys, WASD
// and hjkl move; q, Esc and Ctrl-C quit. Alerts, hits, wins and losses play a
// short tone when a sound device is available.
package terminal
