package core

// RuntimeConfig is what the platform hands a game when a run starts.
type RuntimeConfig struct {
	ScreenW  int   // terminal columns
	ScreenH  int   // terminal rows
	TickRate int   // fixed steps per second; 0 keeps the game's own rate
	Seed     int64 // 0 asks the platform to pick one from the clock
}

// DefaultConfig returns an 80x24 terminal at 60 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState is the outward view of a run.
type GameState struct {
	Score    int
	Kills    int
	Life     int32 // player hit points
	GameOver bool  // the run has ended, cleared or not
	Cleared  bool  // every enemy was destroyed
	Paused   bool
}

// StepResult is returned by Game.Step() after each tick.
type StepResult struct {
	State GameState
	Hit   bool // the player took damage this tick
}
