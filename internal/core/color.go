package core

// Color is the role a screen cell plays. The platform maps each role to a
// terminal style, so games never pick ANSI codes themselves.
type Color uint8

const (
	ColorDefault    Color = iota
	ColorPlayer           // the player's ship
	ColorPlayerHit        // the ship while flashing after a hit
	ColorPlayerShot       // player bullets
	ColorEnemy            // enemy bodies
	ColorEnemyShot        // enemy bullets
	ColorNeutral          // entities that take no side
	ColorHUD              // life and foe counters
	ColorDim              // borders, labels, hit point readouts
)
