package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-go/v2"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	ServerKey = "defaultkey"
	HttpKey   = "defaulthttpkey"
	Host      = "127.0.0.1"
	Port      = 7350
)

// Opcodes used by the tests; they mirror the server's wire contract.
const (
	OpStartGame       = 1
	OpLandmarks       = 2
	OpCueFinished     = 3
	OpFramingProgress = 101
	OpUserReady       = 102
	OpRoundStarted    = 103
	OpDetectionArmed  = 112
)

type TestClient struct {
	Client  *nakama.Client
	Session *nakama.Session
	Socket  *nakama.Socket
	UserID  string
}

func NewTestClient(t *testing.T) *TestClient {
	client := nakama.NewClient(ServerKey, Host, Port, false)

	deviceID := fmt.Sprintf("test_device_%d", time.Now().UnixNano())
	session, err := client.AuthenticateDevice(context.Background(), deviceID, true, "")
	if err != nil {
		t.Fatalf("Failed to authenticate: %v", err)
	}

	socket := client.NewSocket()
	if err := socket.Connect(context.Background(), session, true); err != nil {
		t.Fatalf("Failed to connect socket: %v", err)
	}

	return &TestClient{
		Client:  client,
		Session: session,
		Socket:  socket,
		UserID:  session.UserId,
	}
}

func (tc *TestClient) Close() {
	if tc.Socket != nil {
		tc.Socket.Close()
	}
}

// QuickMatch calls the 'quick_match' RPC for game and joins the returned match.
func (tc *TestClient) QuickMatch(t *testing.T, game string) string {
	payload, _ := json.Marshal(map[string]string{"game": game})
	rpc, err := tc.Client.RpcFunc(context.Background(), tc.Session, "quick_match", string(payload))
	if err != nil {
		t.Fatalf("RPC quick_match failed: %v", err)
	}

	var resp struct {
		MatchID string `json:"match_id"`
	}
	if err := json.Unmarshal([]byte(rpc.Payload), &resp); err != nil || resp.MatchID == "" {
		t.Fatalf("RPC quick_match returned %q: %v", rpc.Payload, err)
	}

	if _, err := tc.Socket.JoinMatch(context.Background(), nil, resp.MatchID, nil); err != nil {
		t.Fatalf("Failed to join match %s: %v", resp.MatchID, err)
	}
	return resp.MatchID
}

// WaitForMatchState waits for a specific opcode from the socket.
func (tc *TestClient) WaitForMatchState(t *testing.T, opCode int64, timeout time.Duration) *rtapi.MatchData {
	ch := make(chan *rtapi.MatchData, 1)

	originalHandler := tc.Socket.OnMatchData
	tc.Socket.OnMatchData = func(data *rtapi.MatchData) {
		if data.OpCode == opCode {
			select {
			case ch <- data:
			default:
			}
		}
		if originalHandler != nil {
			originalHandler(data)
		}
	}
	defer func() { tc.Socket.OnMatchData = originalHandler }()

	select {
	case data := <-ch:
		return data
	case <-time.After(timeout):
		t.Fatalf("Timeout waiting for OpCode %d", opCode)
		return nil
	}
}

// standingFrame is a framed subject at rest: shoulders high, hips low, wrists on the hips.
func standingFrame() (xs, ys []float32) {
	xs = make([]float32, 33)
	ys = make([]float32, 33)
	for i := range xs {
		xs[i], ys[i] = 0.5, 0.5
	}
	set := func(i int, x, y float32) { xs[i], ys[i] = x, y }
	set(0, 0.50, 0.15)
	set(11, 0.60, 0.30)
	set(12, 0.40, 0.30)
	set(15, 0.57, 0.69)
	set(16, 0.43, 0.69)
	set(23, 0.57, 0.70)
	set(24, 0.43, 0.70)
	return xs, ys
}

// encodeFrame writes a LandmarkFrame message: packed x (1), packed y (2), timestamp_ms (4).
func encodeFrame(xs, ys []float32, tsMs int64) []byte {
	var b []byte
	for _, field := range []struct {
		num    protowire.Number
		values []float32
	}{{1, xs}, {2, ys}} {
		var packed []byte
		for _, v := range field.values {
			packed = protowire.AppendFixed32(packed, math.Float32bits(v))
		}
		b = protowire.AppendTag(b, field.num, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}
	b = protowire.AppendTag(b, 4, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(tsMs))
}
