package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to create a single-player game match.
	RpcQuickMatch = "quick_match"
	// RpcGetRecords returns the caller's personal bests.
	RpcGetRecords = "get_records"

	// MatchNameArcade is the authoritative match handler name registered with Nakama.
	MatchNameArcade = "motionarcade_match"

	gameConfigPath      = "data/game_config.yaml"
	ghostIdentitiesPath = "data/ghosts.json"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame   int64 = 1
	OpLandmarks   int64 = 2
	OpCueFinished int64 = 3
	OpReset       int64 = 4
	OpStopGame    int64 = 5

	// Server -> Client events
	OpFramingProgress int64 = 101
	OpUserReady       int64 = 102
	OpRoundStarted    int64 = 103
	OpMatched         int64 = 104
	OpTimedOut        int64 = 105
	OpScoreChanged    int64 = 106
	OpGameOver        int64 = 107
	OpBallSpawned     int64 = 108
	OpBallCaught      int64 = 109
	OpTargetChanged   int64 = 110
	OpCourseComplete  int64 = 111
	OpDetectionArmed  int64 = 112
	OpBallsStopped    int64 = 113
	OpGhostFrame      int64 = 114 // demo mode: the ghost's landmarks, for the renderer
	OpGameError       int64 = 199
)

// Match label keys.
const (
	LabelKeyOpen  = "open"
	LabelKeyGame  = "game"
	LabelKeyPhase = "phase"
)

// Label phases beyond the round machine's own.
const (
	labelPhaseIdle    = "idle"
	labelPhasePlaying = "playing"
	labelPhaseStopped = "stopped"
)

// Leaderboards and storage.
const (
	RecordsCollection = "records"
	RecordsKey        = "personal_bests"

	LeaderboardSimon = "motionarcade_simon"
	LeaderboardBalls = "motionarcade_balls"
	LeaderboardPunch = "motionarcade_punch"
)

// Error codes sent with OpGameError.
const (
	errCodeBadRequest = 400
	errCodeConflict   = 409
	errCodeInternal   = 500
)

// RPC error codes (gRPC).
const (
	codeInvalidArgument = 3
	codeInternal        = 13
)
