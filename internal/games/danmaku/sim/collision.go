package sim

import "github.com/vovakirdan/tui-danmaku/internal/core"

// Resolve applies one projectile to a defender.
//
// The defender's radius is half the norm of its half-extents while the
// projectile's radius is the full norm. Damage lands only when the circles
// overlap and the defender's timeout is strictly negative; it costs one life
// and restarts the invulnerability window. Returns whether damage landed.
func Resolve(defender *Actor, projectile Actor) bool {
	defenderRadius := core.Norm(defender.Size) / 2
	projectileRadius := core.Norm(projectile.Size)
	distance := core.Norm(projectile.Position.Sub(defender.Position))

	if distance < defenderRadius+projectileRadius && defender.collisionTimeout < 0 {
		// unconditional: a zero window still blocks the rest of this pass
		defender.collisionTimeout = defender.maxCollisionTimeout
		defender.DecLife(1)
		return true
	}
	return false
}

// ResolveAll resolves every shot against the defender in order and returns
// how many of them landed.
func ResolveAll(defender *Actor, shots []Actor) int {
	hits := 0
	for i := range shots {
		if Resolve(defender, shots[i]) {
			hits++
		}
	}
	return hits
}
