package nakama

import (
	"fmt"

	"motionarcade/internal/app"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var eventOpCodes = map[app.EventKind]int64{
	app.EventFramingProgress: OpFramingProgress,
	app.EventUserReady:       OpUserReady,
	app.EventRoundStarted:    OpRoundStarted,
	app.EventDetectionArmed:  OpDetectionArmed,
	app.EventMatched:         OpMatched,
	app.EventTimedOut:        OpTimedOut,
	app.EventScoreChanged:    OpScoreChanged,
	app.EventGameOver:        OpGameOver,
	app.EventBallSpawned:     OpBallSpawned,
	app.EventBallCaught:      OpBallCaught,
	app.EventBallsStopped:    OpBallsStopped,
	app.EventTargetChanged:   OpTargetChanged,
	app.EventCourseComplete:  OpCourseComplete,
}

// encodeEvent maps an app event to its opcode and JSON payload.
func encodeEvent(ev app.Event) (int64, []byte, error) {
	opCode, ok := eventOpCodes[ev.Kind]
	if !ok {
		return 0, nil, fmt.Errorf("unknown event %q", ev.Kind)
	}
	fields, ok := ev.Fields()
	if !ok {
		return 0, nil, fmt.Errorf("unknown payload %T for event %q", ev.Payload, ev.Kind)
	}

	data, err := marshalFields(fields)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal event %q: %w", ev.Kind, err)
	}
	return opCode, data, nil
}

// errorPayload is the body of an OpGameError message.
func errorPayload(code int, message string) ([]byte, error) {
	return marshalFields(map[string]interface{}{"code": code, "message": message})
}

func marshalFields(fields map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(s)
}
