package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/elupus/media-stack-core/internal/auth"
	"github.com/elupus/media-stack-core/internal/device"
	"github.com/elupus/media-stack-core/internal/history"
	"github.com/elupus/media-stack-core/internal/infrastructure/config"
	"github.com/elupus/media-stack-core/internal/infrastructure/logging"
	"github.com/elupus/media-stack-core/internal/stack"
)

// call records one command issued through the fake commander.
type call struct {
	deviceID string
	cmd      device.Command
	params   device.Params
}

// registryCommander is a device.Commander that records calls and applies
// their effects straight into the registry, the way a well-behaved device
// adapter would.
type registryCommander struct {
	mu       sync.Mutex
	calls    []call
	registry *device.Registry
}

func (f *registryCommander) Call(_ context.Context, deviceID string, cmd device.Command, params device.Params) error {
	f.mu.Lock()
	f.calls = append(f.calls, call{deviceID: deviceID, cmd: cmd, params: params})
	f.mu.Unlock()

	snap, ok := f.registry.State(deviceID)
	if !ok {
		return fmt.Errorf("unknown device %s", deviceID)
	}
	switch cmd {
	case device.CommandTurnOn:
		snap.Status = device.StatusOn
	case device.CommandTurnOff:
		snap.Status = device.StatusOff
	case device.CommandSelectSource:
		if src, ok := params[device.ParamSource].(string); ok {
			snap.Source = src
		}
	}
	f.registry.Put(snap)
	return nil
}

func (f *registryCommander) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]call, len(f.calls))
	copy(out, f.calls)
	return out
}

// fakeBrowser serves canned browse trees keyed by "<deviceID>/<contentID>".
type fakeBrowser struct {
	nodes map[string]*device.BrowseNode
}

func (f *fakeBrowser) Browse(_ context.Context, deviceID, _, contentID string) (*device.BrowseNode, error) {
	node, ok := f.nodes[deviceID+"/"+contentID]
	if !ok {
		return nil, fmt.Errorf("no content at %s/%s", deviceID, contentID)
	}
	return node, nil
}

// testServer bundles the server under test with its collaborators.
type testServer struct {
	server    *Server
	handler   http.Handler
	registry  *device.Registry
	commander *registryCommander
	history   *history.SQLiteRepository
	token     string
}

const (
	testUsername = "admin"
	testPassword = "hunter2!"
	testSecret   = "test-secret-key-at-least-32-chars!"
)

// newTestServer builds a server over a two-device stack:
//
//	stereo --"OPT"--> pvr
//
// The stereo is on (playing its AUX input), the PVR is playing BBC.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	registry := device.NewRegistry()
	volume := 0.3
	registry.Put(device.Snapshot{
		ID:         "media_player.stereo",
		Name:       "stereo",
		Status:     device.StatusOn,
		Source:     "AUX",
		SourceList: []string{"AUX", "OPT"},
		Volume:     &volume,
		Features: device.FeatureVolumeSet | device.FeatureVolumeMute |
			device.FeatureVolumeStep | device.FeatureSelectSource |
			device.FeatureTurnOn | device.FeatureTurnOff,
	})
	registry.Put(device.Snapshot{
		ID:         "media_player.pvr",
		Name:       "pvr",
		Status:     device.StatusPlaying,
		Source:     "BBC",
		SourceList: []string{"BBC", "ITV"},
		Features: device.FeaturePlay | device.FeaturePause | device.FeatureStop |
			device.FeatureNextTrack | device.FeaturePreviousTrack |
			device.FeatureSelectSource | device.FeatureBrowseMedia |
			device.FeaturePlayMedia | device.FeatureTurnOn | device.FeatureTurnOff,
	})

	commander := &registryCommander{registry: registry}
	browser := &fakeBrowser{nodes: map[string]*device.BrowseNode{
		"media_player.pvr/": {
			Title: "Recordings", ContentID: "", ContentType: "library", CanExpand: true,
			Children: []device.BrowseNode{
				{Title: "News at Ten", ContentID: "recordings/1", ContentType: "video", CanPlay: true},
			},
		},
	}}

	wiring, err := stack.NewWiringMap([]stack.WiringEntry{
		{Device: "media_player.stereo", Sources: map[string]string{"OPT": "media_player.pvr"}},
	})
	if err != nil {
		t.Fatalf("NewWiringMap() error = %v", err)
	}

	player, err := stack.New(stack.Deps{
		Name:      "Lounge",
		Wiring:    wiring,
		States:    registry,
		Commander: commander,
		Browser:   browser,
	})
	if err != nil {
		t.Fatalf("stack.New() error = %v", err)
	}
	player.Refresh()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	repo, err := history.NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}

	authSvc := auth.NewService(config.SecurityConfig{
		JWT:   config.JWTConfig{Secret: testSecret, AccessTokenTTL: 15},
		Admin: config.AdminUserConfig{Username: testUsername, Password: testPassword},
	})

	srv, err := New(Deps{
		Logger:   logging.Default(),
		Auth:     authSvc,
		Player:   player,
		Registry: registry,
		History:  repo,
		Version:  "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	token, err := authSvc.Login(testUsername, testPassword)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	return &testServer{
		server:    srv,
		handler:   srv.buildRouter(),
		registry:  registry,
		commander: commander,
		history:   repo,
		token:     token,
	}
}

// do executes one request against the router and returns the recorder.
func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshalling request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+ts.token)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a recorder's JSON body into v.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}
