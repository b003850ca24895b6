package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"motionarcade/internal/app"
	"motionarcade/internal/bot"
	"motionarcade/internal/config"
	"motionarcade/internal/domain"
	"motionarcade/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// emptyMatchGraceSeconds is how long a match waits for its player before terminating.
const emptyMatchGraceSeconds = 30

// MatchState holds the authoritative runtime state for one player's arcade match.
type MatchState struct {
	Game        app.GameKind      `json:"game"`         // Game selected at creation or by the last start request
	OwnerID     string            `json:"owner_id"`     // The only user allowed in the match
	Presence    runtime.Presence  `json:"-"`            // Owner presence, nil until joined or after leaving
	Tick        int64             `json:"tick"`         // Current match tick
	EmptyTicks  int64             `json:"empty_ticks"`  // Consecutive ticks without a connected player
	Running     bool              `json:"running"`      // A game is in progress
	Submitted   bool              `json:"submitted"`    // The current run's result has been recorded
	Frames      int64             `json:"frames"`       // Landmark frames processed this run
	Label       string            `json:"label"`        // Last published match label
	DemoEnabled bool              `json:"demo_enabled"` // Whether ghost-driven demo runs are allowed
	Demo        bool              `json:"demo"`         // The current run is driven by the ghost
	Config      config.GameConfig `json:"-"`

	Simon *app.Service      `json:"-"`
	Balls *app.BallService  `json:"-"`
	Punch *app.PunchService `json:"-"`

	Session *domain.GameSession `json:"-"` // simon
	Field   *domain.BallField   `json:"-"` // balls
	Course  *domain.PunchCourse `json:"-"` // punch

	Ghost   *bot.Agent        `json:"-"`
	Records ports.RecordsPort `json:"-"` // nil disables persistence
}

// StartGameRequest is the JSON body of OpStartGame. Zero values keep the configured defaults.
type StartGameRequest struct {
	Game        string `json:"game"`
	TargetScore int    `json:"target_score"`
	BPM         int    `json:"bpm"`
	Shine       string `json:"shine"`
	Demo        bool   `json:"demo"`
}

// CueFinishedRequest is the JSON body of OpCueFinished.
type CueFinishedRequest struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{now: time.Now}, nil
}

type matchHandler struct {
	now  func() time.Time
	seed int64 // non-zero makes every service deterministic
}

func (mh *matchHandler) rng() *rand.Rand {
	if mh.seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(mh.seed))
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("MatchInit: Could not load game config, using defaults: %v", err)
	}
	if err := bot.LoadIdentities(ghostIdentitiesPath); err != nil {
		logger.Debug("MatchInit: No ghost identities loaded: %v", err)
	}

	cfg := config.GetGameConfig()
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	cfg = applyEnvOverrides(cfg, env, logger)

	game := app.GameSimon
	if g, ok := params["game"].(string); ok && app.ValidGame(app.GameKind(g)) {
		game = app.GameKind(g)
	}

	state := &MatchState{
		Game:        game,
		Config:      cfg,
		DemoEnabled: cfg.DemoEnabled,
		Simon:       app.NewService(mh.rng()),
		Balls:       app.NewBallService(mh.rng()),
		Punch:       app.NewPunchService(),
	}
	if owner, ok := params["owner"].(string); ok {
		state.OwnerID = owner
	}
	if nk != nil {
		state.Records = NewNakamaRecordsAdapter(nk)
	}

	label, err := buildLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	state.Label = label

	logger.Info("MatchInit: Created %s match at %d ticks/s (demo enabled: %t).", game, cfg.TickRate, cfg.DemoEnabled)
	return state, cfg.TickRate, label
}

// applyEnvOverrides layers Nakama runtime env values over the file config. Invalid values are ignored.
func applyEnvOverrides(cfg config.GameConfig, env map[string]string, logger runtime.Logger) config.GameConfig {
	next := cfg
	if val, ok := env["motionarcade_tick_rate"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			next.TickRate = i
		}
	}
	if val, ok := env["motionarcade_target_score"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			next.Simon.TargetScore = i
		}
	}
	if val, ok := env["motionarcade_decoy_probability"]; ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			next.Simon.DecoyProbability = f
		}
	}
	if val, ok := env["motionarcade_demo_enabled"]; ok {
		next.DemoEnabled = val == "true"
	}
	if err := next.Validate(); err != nil {
		logger.Warn("applyEnvOverrides: Ignoring env overrides: %v", err)
		return cfg
	}
	return next
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	userID := presence.GetUserId()
	if matchState.OwnerID != "" && matchState.OwnerID != userID {
		return state, false, "Match full"
	}
	if matchState.Presence != nil && matchState.Presence.GetSessionId() != presence.GetSessionId() {
		return state, false, "Already connected"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		if matchState.OwnerID == "" {
			matchState.OwnerID = p.GetUserId()
		}
		if p.GetUserId() != matchState.OwnerID {
			logger.Warn("MatchJoin: Ignoring %s in match owned by %s.", p.GetUserId(), matchState.OwnerID)
			continue
		}
		matchState.Presence = p
		matchState.EmptyTicks = 0
		logger.Debug("MatchJoin: User %s joined.", p.GetUserId())
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when the player leaves. An unfinished ball run is stopped and recorded.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		if matchState.Presence != nil && p.GetSessionId() == matchState.Presence.GetSessionId() {
			matchState.Presence = nil
		}
	}
	if matchState.Presence != nil {
		return matchState
	}

	logger.Info("MatchLeave: Player %s left, terminating match.", matchState.OwnerID)
	mh.finish(ctx, matchState, dispatcher, logger)
	return nil
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	if matchState.Presence == nil {
		matchState.EmptyTicks++
		if matchState.EmptyTicks > int64(emptyMatchGraceSeconds*matchState.Config.TickRate) {
			logger.Info("MatchLoop: No player joined within %ds, terminating.", emptyMatchGraceSeconds)
			return nil
		}
	}

	for _, msg := range messages {
		now := mh.now()
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg, now)
		case OpLandmarks:
			mh.handleLandmarks(ctx, matchState, dispatcher, logger, msg, now)
		case OpCueFinished:
			mh.handleCueFinished(ctx, matchState, dispatcher, logger, msg, now)
		case OpReset:
			mh.handleReset(ctx, matchState, dispatcher, logger, now)
		case OpStopGame:
			mh.handleStopGame(ctx, matchState, dispatcher, logger)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	now := mh.now()
	if matchState.Demo && matchState.Running {
		mh.driveGhost(ctx, matchState, dispatcher, logger, now)
	}
	mh.advance(ctx, matchState, dispatcher, logger, now)
	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData, now time.Time) {
	senderID := msg.GetUserId()
	request := StartGameRequest{}
	if data := msg.GetData(); len(data) > 0 {
		if err := json.Unmarshal(data, &request); err != nil {
			logger.Warn("handleStartGame: Invalid request from %s: %v", senderID, err)
			mh.sendError(state, dispatcher, logger, errCodeBadRequest, "invalid start request")
			return
		}
	}

	game := state.Game
	if request.Game != "" {
		game = app.GameKind(request.Game)
	}
	if !app.ValidGame(game) {
		logger.Warn("handleStartGame: Unknown game %q from %s", request.Game, senderID)
		mh.sendError(state, dispatcher, logger, errCodeBadRequest, "unknown game")
		return
	}
	if request.Demo && !state.DemoEnabled {
		logger.Warn("handleStartGame: Demo requested by %s but disabled", senderID)
		mh.sendError(state, dispatcher, logger, errCodeBadRequest, "demo mode is disabled")
		return
	}

	var events []app.Event
	var err error
	switch game {
	case app.GameSimon:
		events, err = mh.startSimon(state, request, now)
	case app.GameBalls:
		events, err = mh.startBalls(state, request, now)
	case app.GamePunch:
		events, err = mh.startPunch(state)
	}
	if err != nil {
		logger.Warn("handleStartGame: Failed to start %s for %s: %v", game, senderID, err)
		mh.sendError(state, dispatcher, logger, errCodeBadRequest, err.Error())
		return
	}

	state.Game = game
	state.Running = true
	state.Submitted = false
	state.Frames = 0
	state.Demo = request.Demo
	state.Ghost = nil
	if state.Demo {
		ghost, err := bot.NewGhost(bot.GetGhostIdentity(int(state.Tick)))
		if err != nil {
			logger.Error("handleStartGame: Failed to create ghost: %v", err)
			state.Demo = false
		} else {
			state.Ghost = ghost
		}
	}

	logger.Info("handleStartGame: %s started %s (demo: %t).", senderID, game, state.Demo)
	mh.dispatch(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) startSimon(state *MatchState, request StartGameRequest, now time.Time) ([]app.Event, error) {
	cfg, err := state.Config.Simon.Session()
	if err != nil {
		return nil, err
	}
	if request.TargetScore > 0 {
		cfg.TargetScore = request.TargetScore
	}
	sess, err := state.Simon.NewSession(cfg, now)
	if err != nil {
		return nil, err
	}
	state.Session = sess
	return nil, nil
}

func (mh *matchHandler) startBalls(state *MatchState, request StartGameRequest, now time.Time) ([]app.Event, error) {
	cfg, err := state.Config.Balls.Field()
	if err != nil {
		return nil, err
	}
	if request.BPM > 0 {
		cfg.BPM = request.BPM
	}
	shine := domain.Shine(state.Config.Balls.Shine)
	if request.Shine != "" {
		shine = domain.Shine(request.Shine)
	}
	field, err := state.Balls.NewField(cfg, shine)
	if err != nil {
		return nil, err
	}
	if state.Field != nil {
		field.MaxScore = state.Field.MaxScore
	}
	state.Field = field
	return state.Balls.Start(field, now), nil
}

func (mh *matchHandler) startPunch(state *MatchState) ([]app.Event, error) {
	cfg, err := state.Config.Punch.Course()
	if err != nil {
		return nil, err
	}
	course, err := state.Punch.NewCourse(cfg)
	if err != nil {
		return nil, err
	}
	state.Course = course
	return state.Punch.Begin(course), nil
}

func (mh *matchHandler) handleLandmarks(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData, now time.Time) {
	if !state.Running {
		return
	}
	if state.Demo {
		logger.Debug("handleLandmarks: Ignoring client frame during demo run.")
		return
	}
	frame, _, err := DecodeFrame(msg.GetData(), state.Config.MinVisibility)
	if err != nil {
		logger.Warn("handleLandmarks: Dropping frame from %s: %v", msg.GetUserId(), err)
		return
	}
	mh.feedFrame(ctx, state, dispatcher, logger, frame, now)
}

// feedFrame routes one frame to the running game. The ball game only stores it; collisions run on the tick.
func (mh *matchHandler) feedFrame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, frame domain.Frame, now time.Time) {
	state.Frames++
	var events []app.Event
	switch state.Game {
	case app.GameSimon:
		if state.Session != nil {
			events = state.Simon.HandleFrame(state.Session, frame, now)
		}
	case app.GameBalls:
		if state.Field != nil {
			state.Balls.UpdateLandmarks(state.Field, frame)
		}
	case app.GamePunch:
		if state.Course != nil {
			events = state.Punch.HandleFrame(state.Course, frame, now)
		}
	}
	mh.dispatch(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleCueFinished(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData, now time.Time) {
	request := CueFinishedRequest{OK: true}
	if data := msg.GetData(); len(data) > 0 {
		if err := json.Unmarshal(data, &request); err != nil {
			logger.Warn("handleCueFinished: Invalid request from %s: %v", msg.GetUserId(), err)
			mh.sendError(state, dispatcher, logger, errCodeBadRequest, "invalid cue report")
			return
		}
	}
	if state.Game != app.GameSimon || state.Session == nil {
		mh.sendError(state, dispatcher, logger, errCodeConflict, app.ErrNoSession.Error())
		return
	}
	if !request.OK {
		logger.Debug("handleCueFinished: Cue failed for %s: %s", msg.GetUserId(), request.Reason)
	}

	events, err := state.Simon.CueFinished(state.Session, request.OK, now)
	mh.dispatch(ctx, state, dispatcher, logger, events)
	if err != nil {
		logger.Warn("handleCueFinished: %v (phase %s)", err, state.Session.Phase)
		mh.sendError(state, dispatcher, logger, errCodeConflict, err.Error())
	}
}

func (mh *matchHandler) handleReset(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, now time.Time) {
	var events []app.Event
	switch state.Game {
	case app.GameSimon:
		if state.Session == nil {
			mh.sendError(state, dispatcher, logger, errCodeConflict, app.ErrNoSession.Error())
			return
		}
		state.Simon.Reset(state.Session, now)
	case app.GameBalls:
		if state.Field == nil {
			mh.sendError(state, dispatcher, logger, errCodeConflict, app.ErrNoSession.Error())
			return
		}
		events = append(state.Balls.Stop(state.Field), state.Balls.Start(state.Field, now)...)
	case app.GamePunch:
		if state.Course == nil {
			mh.sendError(state, dispatcher, logger, errCodeConflict, app.ErrNoSession.Error())
			return
		}
		events = state.Punch.Replay(state.Course)
	}

	mh.dispatch(ctx, state, dispatcher, logger, events)
	state.Running = true
	state.Submitted = false
	state.Frames = 0
	logger.Debug("handleReset: %s reset.", state.Game)
}

func (mh *matchHandler) handleStopGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if !state.Running {
		return
	}
	mh.finish(ctx, state, dispatcher, logger)
}

// finish ends whatever is running. Only the ball game has a result worth keeping when stopped early.
func (mh *matchHandler) finish(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == app.GameBalls && state.Field != nil {
		mh.dispatch(ctx, state, dispatcher, logger, state.Balls.Stop(state.Field))
	}
	state.Running = false
	state.Demo = false
	state.Ghost = nil
}

// advance fires due timers and steps physics once per tick.
func (mh *matchHandler) advance(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, now time.Time) {
	if !state.Running {
		return
	}
	var events []app.Event
	switch state.Game {
	case app.GameSimon:
		if state.Session != nil {
			events = state.Simon.Advance(state.Session, now)
		}
	case app.GameBalls:
		if state.Field != nil {
			events = state.Balls.Tick(state.Field, now)
		}
	}
	mh.dispatch(ctx, state, dispatcher, logger, events)
}

// driveGhost feeds one ghost-made frame per tick in place of the client's camera.
func (mh *matchHandler) driveGhost(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, now time.Time) {
	if state.Ghost == nil {
		return
	}
	var frame domain.Frame
	switch state.Game {
	case app.GameSimon:
		if state.Session == nil {
			return
		}
		view := bot.SimonView{Phase: state.Session.Phase}
		if r := state.Session.Round; r != nil {
			view.Round = r.Number
			view.Challenge = r.Challenge.Name
			view.IsDecoy = r.IsDecoy
		}
		frame = state.Ghost.SimonFrame(view, now)
	case app.GameBalls:
		frame = state.Ghost.BallsFrame(state.Field, now)
	case app.GamePunch:
		frame = state.Ghost.PunchFrame(state.Course, now)
	}

	if state.Presence != nil {
		data := EncodeFrame(frame, now.UnixMilli())
		if err := dispatcher.BroadcastMessage(OpGhostFrame, data, []runtime.Presence{state.Presence}, nil, false); err != nil {
			logger.Debug("driveGhost: Failed to send ghost frame: %v", err)
		}
	}
	mh.feedFrame(ctx, state, dispatcher, logger, frame, now)
}

// dispatch sends events to the player and records the run when one of them is terminal.
func (mh *matchHandler) dispatch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
		switch ev.Kind {
		case app.EventGameOver, app.EventBallsStopped, app.EventCourseComplete:
			mh.submitResult(ctx, state, logger)
			if ev.Kind != app.EventBallsStopped {
				state.Running = false
			}
		}
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, data, err := encodeEvent(ev)
	if err != nil {
		logger.Error("broadcastEvent: %v", err)
		return
	}
	if ev.Kind == app.EventRoundStarted || ev.Kind == app.EventGameOver {
		logger.Debug("broadcastEvent: %s %s", ev.Kind, data)
	}
	if state.Presence == nil {
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, data, []runtime.Presence{state.Presence}, nil, true); err != nil {
		logger.Error("broadcastEvent: Failed to send %s: %v", ev.Kind, err)
	}
}

// sendError sends an OpGameError message to the player.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	data, err := errorPayload(code, message)
	if err != nil {
		logger.Error("sendError: Failed to marshal error: %v", err)
		return
	}
	if state.Presence == nil {
		logger.Warn("sendError: No presence to notify: %s", message)
		return
	}
	if err := dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{state.Presence}, nil, true); err != nil {
		logger.Error("sendError: Failed to send: %v", err)
	}
}

// submitResult records the finished run once. Demo runs are recorded under the ghost's account, if it has one.
func (mh *matchHandler) submitResult(ctx context.Context, state *MatchState, logger runtime.Logger) {
	if state.Submitted || state.Records == nil {
		return
	}
	result, ok := runResult(state)
	if !ok {
		return
	}
	state.Submitted = true

	improved, err := state.Records.SubmitResult(ctx, result)
	if err != nil {
		logger.Error("submitResult: Failed to record %s result for %s: %v", result.Game, result.UserID, err)
		return
	}
	logger.Info("submitResult: %s scored %d in %s (won: %t, personal best: %t).", result.UserID, result.Score, result.Game, result.Won, improved)
}

func runResult(state *MatchState) (ports.GameResult, bool) {
	result := ports.GameResult{UserID: state.OwnerID, Game: string(state.Game)}
	if state.Presence != nil {
		result.Username = state.Presence.GetUsername()
	}
	if state.Demo {
		if state.Ghost == nil || !bot.IsGhost(state.Ghost.ID) {
			return result, false
		}
		result.UserID = state.Ghost.ID
		result.Username = state.Ghost.Name
	}
	if result.UserID == "" {
		return result, false
	}

	switch state.Game {
	case app.GameSimon:
		if state.Session == nil {
			return result, false
		}
		result.Score = int64(state.Session.Score)
		result.Won = state.Session.Won()
		result.Elapsed = state.Session.EndedAt.Sub(state.Session.StartedAt)
	case app.GameBalls:
		if state.Field == nil {
			return result, false
		}
		result.Score = int64(state.Field.Score)
	case app.GamePunch:
		if state.Course == nil || !state.Course.Complete {
			return result, false
		}
		result.Score = int64(state.Course.Hits)
		result.Won = true
		result.Elapsed = state.Course.EndedAt.Sub(state.Course.StartedAt)
	}
	return result, true
}

// labelPhase summarises the running game for the match label.
func labelPhase(state *MatchState) string {
	switch {
	case state.Game == app.GameSimon && state.Session != nil:
		return string(state.Session.Phase)
	case state.Game == app.GamePunch && state.Course != nil && state.Course.Complete:
		return string(domain.PhaseGameOver)
	case state.Running:
		return labelPhasePlaying
	case state.Field != nil || state.Course != nil:
		return labelPhaseStopped
	}
	return labelPhaseIdle
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := buildLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if label == state.Label {
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.Label = label
}

func buildLabel(state *MatchState) (string, error) {
	data, err := marshalFields(map[string]interface{}{
		LabelKeyOpen:  state.OwnerID == "",
		LabelKeyGame:  string(state.Game),
		LabelKeyPhase: labelPhase(state),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MatchTerminate records an unfinished ball run before the server shuts the match down.
func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminating with %d grace seconds", graceSeconds)
	if matchState, ok := state.(*MatchState); ok && matchState.Running {
		mh.finish(ctx, matchState, dispatcher, logger)
	}
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, ""
	}
	out, err := json.Marshal(matchState)
	if err != nil {
		logger.Error("MatchSignal: Failed to marshal state: %v", err)
		return state, ""
	}
	return state, string(out)
}
