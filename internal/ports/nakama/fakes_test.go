package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode   int64
	data     []byte
	reliable bool
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	messages []sentMessage
	labels   []string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.messages = append(md.messages, sentMessage{opCode: opCode, data: append([]byte(nil), data...), reliable: reliable})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return md.BroadcastMessage(opCode, data, presences, sender, reliable)
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labels = append(md.labels, label)
	return nil
}

func (md *mockDispatcher) count(opCode int64) int {
	n := 0
	for _, m := range md.messages {
		if m.opCode == opCode {
			n++
		}
	}
	return n
}

// last decodes the newest payload sent with opCode, or returns nil.
func (md *mockDispatcher) last(opCode int64) map[string]interface{} {
	for i := len(md.messages) - 1; i >= 0; i-- {
		if md.messages[i].opCode != opCode {
			continue
		}
		var out map[string]interface{}
		if err := json.Unmarshal(md.messages[i].data, &out); err != nil {
			return nil
		}
		return out
	}
	return nil
}

func (md *mockDispatcher) opCodes() []int64 {
	out := make([]int64, 0, len(md.messages))
	for _, m := range md.messages {
		out = append(out, m.opCode)
	}
	return out
}

type fakePresence struct {
	userID    string
	sessionID string
	username  string
}

func (p fakePresence) GetHidden() bool                   { return false }
func (p fakePresence) GetPersistence() bool              { return false }
func (p fakePresence) GetUsername() string               { return p.username }
func (p fakePresence) GetStatus() string                 { return "" }
func (p fakePresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonUnknown }
func (p fakePresence) GetUserId() string                 { return p.userID }
func (p fakePresence) GetSessionId() string              { return p.sessionID }
func (p fakePresence) GetNodeId() string                 { return "node-1" }

type fakeMatchData struct {
	fakePresence
	opCode int64
	data   []byte
}

func (d fakeMatchData) GetOpCode() int64      { return d.opCode }
func (d fakeMatchData) GetData() []byte       { return d.data }
func (d fakeMatchData) GetReliable() bool     { return true }
func (d fakeMatchData) GetReceiveTime() int64 { return 0 }

type storedObject struct {
	value   string
	version int
}

type leaderboardWrite struct {
	id       string
	ownerID  string
	score    int64
	subscore int64
}

// fakeNakama implements the parts of runtime.NakamaModule the adapters use.
// Calling anything else panics on the nil embedded interface.
type fakeNakama struct {
	runtime.NakamaModule

	objects       map[string]storedObject
	leaderboard   []leaderboardWrite
	displayNames  map[string]string
	createdParams []map[string]interface{}
	storageErr    error
}

func newFakeNakama() *fakeNakama {
	return &fakeNakama{
		objects:      make(map[string]storedObject),
		displayNames: make(map[string]string),
	}
}

func objectKey(collection, key, userID string) string {
	return collection + "/" + key + "/" + userID
}

func (f *fakeNakama) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	if f.storageErr != nil {
		return nil, f.storageErr
	}
	var out []*api.StorageObject
	for _, r := range reads {
		obj, ok := f.objects[objectKey(r.Collection, r.Key, r.UserID)]
		if !ok {
			continue
		}
		out = append(out, &api.StorageObject{
			Collection: r.Collection,
			Key:        r.Key,
			UserId:     r.UserID,
			Value:      obj.value,
			Version:    strconv.Itoa(obj.version),
		})
	}
	return out, nil
}

func (f *fakeNakama) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	if f.storageErr != nil {
		return nil, f.storageErr
	}
	var acks []*api.StorageObjectAck
	for _, w := range writes {
		k := objectKey(w.Collection, w.Key, w.UserID)
		existing, exists := f.objects[k]
		switch {
		case w.Version == "*" && exists:
			return nil, runtime.ErrStorageRejectedVersion
		case w.Version != "" && w.Version != "*" && (!exists || w.Version != strconv.Itoa(existing.version)):
			return nil, runtime.ErrStorageRejectedVersion
		}
		next := storedObject{value: w.Value, version: existing.version + 1}
		f.objects[k] = next
		acks = append(acks, &api.StorageObjectAck{Collection: w.Collection, Key: w.Key, UserId: w.UserID, Version: strconv.Itoa(next.version)})
	}
	return acks, nil
}

func (f *fakeNakama) LeaderboardRecordWrite(ctx context.Context, id, ownerID, username string, score, subscore int64, metadata map[string]interface{}, overrideOperator *int) (*api.LeaderboardRecord, error) {
	f.leaderboard = append(f.leaderboard, leaderboardWrite{id: id, ownerID: ownerID, score: score, subscore: subscore})
	return &api.LeaderboardRecord{LeaderboardId: id, OwnerId: ownerID}, nil
}

func (f *fakeNakama) AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error {
	f.displayNames[userID] = displayName
	return nil
}

func (f *fakeNakama) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	if module != MatchNameArcade {
		return "", fmt.Errorf("unknown match module %q", module)
	}
	f.createdParams = append(f.createdParams, params)
	return fmt.Sprintf("match-%d.node-1", len(f.createdParams)), nil
}
