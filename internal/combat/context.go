// Package combat holds the campaign state graph: combat groups, combatants,
// scripted actions, assignments and the events they produce.
package combat

import "io/fs"

// Context is the view of a running campaign that actions and events consult.
// A nil Context is valid and makes every availability check fail closed.
type Context interface {
	// Time returns the campaign clock in seconds since campaign start.
	Time() int64
	// FindAction returns the scripted action with the given id, or nil.
	FindAction(id int) *Action
	// PlayerGroup returns the combat group the player is attached to, or nil.
	PlayerGroup() *Group
	// Player returns the current player, or nil.
	Player() *Player
	// Content returns the campaign content root. May be nil.
	Content() fs.FS
}
