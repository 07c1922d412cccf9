package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/config"
	"github.com/mauv0809/match-ledger/internal/database"
	"github.com/mauv0809/match-ledger/internal/leaderboard"
	"github.com/mauv0809/match-ledger/internal/match"
	"github.com/mauv0809/match-ledger/internal/metrics"
	slacknotifier "github.com/mauv0809/match-ledger/internal/notifier/slack"
	"github.com/mauv0809/match-ledger/internal/processor"
	"github.com/mauv0809/match-ledger/internal/pubsub"
	"github.com/mauv0809/match-ledger/internal/rating"
	"github.com/mauv0809/match-ledger/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const testSlackSigningSecret = "test-signing-secret"

type testServer struct {
	*Server
	pubsub  *pubsub.MockPubSubClient
	replies *replyRecorder
}

// replyRecorder stands in for the Slack response_url.
type replyRecorder struct {
	mu       sync.Mutex
	urls     []string
	messages []*slack.WebhookMessage
}

func (r *replyRecorder) respond(ctx context.Context, url string, msg *slack.WebhookMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls = append(r.urls, url)
	r.messages = append(r.messages, msg)
	return nil
}

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, cfg config.Config) (*testServer, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	clubStore := club.New(db)
	matchStore := match.New(db)
	standings := leaderboard.New(matchStore, clubStore, metricsSvc)
	notif := slacknotifier.NewNotifierWithAPI(nil, "C123", metricsSvc)
	ps := pubsub.NewMock()
	proc := processor.New(matchStore, clubStore, standings, notif, metricsSvc, ps)
	replies := &replyRecorder{}

	server := NewServer(Deps{
		Clubs:          clubStore,
		Matches:        matchStore,
		Sessions:       session.NewManager(clubStore, matchStore, metricsSvc),
		Standings:      standings,
		Metrics:        metricsSvc,
		MetricsHandler: metrics.NewMetricsHandler(reg),
		Usage:          metrics.New(db),
		Notifier:       notif,
		Processor:      proc,
		PubSub:         ps,
		Respond:        replies.respond,
	}, cfg)

	return &testServer{Server: server, pubsub: ps, replies: replies}, dbTeardown
}

func testConfig() config.Config {
	return config.Config{
		Slack:    config.SlackConfig{SigningSecret: testSlackSigningSecret},
		AdminIDs: []string{"UADMIN"},
	}
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	bodyBytes := []byte(form.Encode())
	req, err := http.NewRequest("POST", targetURL, bytes.NewReader(bodyBytes))
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, string(bodyBytes))
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))

	return req
}

func (s *testServer) command(t *testing.T, path, user, text string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	form.Set("command", path)
	form.Set("user_id", user)
	form.Set("text", text)
	req := createSlackCommandRequest(t, "/slack/command/"+path, form, testSlackSigningSecret)
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return rr
}

func (s *testServer) seed(t *testing.T) int64 {
	t.Helper()
	_, err := s.Clubs.CreateTeam("Alpha", "AAA", []string{"a1"})
	require.NoError(t, err)
	_, err = s.Clubs.CreateTeam("Bravo", "BBB", []string{"b1"})
	require.NoError(t, err)
	id, err := s.Clubs.CreateTournament(&club.Tournament{Name: "GTC", Season: "SEASON 1", Year: 2024})
	require.NoError(t, err)
	return id
}

func TestHealthCheckHandler(t *testing.T) {
	server, teardown := setupTestServer(t, testConfig())
	defer teardown()

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestSlackSignatureVerification(t *testing.T) {
	server, teardown := setupTestServer(t, testConfig())
	defer teardown()

	form := url.Values{}
	form.Set("text", "5")

	t.Run("accepts a signed request", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/top", form, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("rejects request with invalid signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/top", form, testSlackSigningSecret)
		req.Header.Set("X-Slack-Signature", "v0=invalid-signature")
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects request with missing signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/top", form, testSlackSigningSecret)
		req.Header.Del("X-Slack-Signature")
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects request with outdated timestamp", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/top", form, testSlackSigningSecret)
		req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(time.Now().Add(-6*time.Minute).Unix(), 10))
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestMatchEntryFlow(t *testing.T) {
	server, teardown := setupTestServer(t, testConfig())
	defer teardown()
	tournamentID := server.seed(t)

	rr := server.command(t, "match", "U1", "start")
	assert.Contains(t, rr.Body.String(), "Choose a tournament")
	assert.Contains(t, rr.Body.String(), `"response_type":"ephemeral"`)

	// The tournament is picked with a button.
	payload := fmt.Sprintf(`{"type":"block_actions","user":{"id":"U1"},"response_url":"https://hooks.example/r1","actions":[{"type":"button","block_id":"tournament_nav","action_id":"session_choice","value":"%d"}]}`, tournamentID)
	req := createSlackCommandRequest(t, "/slack/interactions", url.Values{"payload": {payload}}, testSlackSigningSecret)
	irr := httptest.NewRecorder()
	server.Router.ServeHTTP(irr, req)
	require.Equal(t, http.StatusOK, irr.Code)
	require.Len(t, server.replies.messages, 1)
	assert.Equal(t, "https://hooks.example/r1", server.replies.urls[0])
	assert.True(t, server.replies.messages[0].ReplaceOriginal)

	snap, ok := server.Sessions.Current("U1")
	require.True(t, ok)
	assert.Equal(t, session.StateSelectFormat, snap.State)

	for _, step := range []string{"5x5", "2024.05.20", "Dune", "13-11", "aaa", "20 5 10", "BBB"} {
		server.command(t, "match", "U1", step)
	}
	rr = server.command(t, "match", "U1", "skip")
	assert.Contains(t, rr.Body.String(), "Match saved")

	_, ok = server.Sessions.Current("U1")
	assert.False(t, ok, "session is discarded after commit")

	require.Len(t, server.pubsub.SendMessageCalls, 1)
	assert.Equal(t, pubsub.EventMatchCommitted, server.pubsub.SendMessageCalls[0].Topic)

	t.Run("match is served by the API", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/matches/1", nil)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var rec match.Record
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&rec))
		assert.Equal(t, "AAA", rec.Team1Tag)
		assert.Equal(t, 24, rec.TotalRounds)
		require.Len(t, rec.Lines("AAA"), 1)
		assert.Empty(t, rec.Lines("BBB"))
	})

	t.Run("leaderboard includes the entered player", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/top?n=5", nil)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var entries []leaderboard.Entry
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&entries))
		require.Len(t, entries, 1)
		assert.Equal(t, "a1", entries[0].Nickname)
	})

	t.Run("usage is counted per command", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/usage", nil)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var counters map[string]int
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&counters))
		assert.Equal(t, 9, counters["command_match"])
		assert.Equal(t, 1, counters["interaction"])
	})
}

func TestMatchCommand_RecoverableErrorsReprompt(t *testing.T) {
	server, teardown := setupTestServer(t, testConfig())
	defer teardown()
	tournamentID := server.seed(t)

	server.command(t, "match", "U1", fmt.Sprintf("start %d", tournamentID))
	rr := server.command(t, "match", "U1", "7x7")
	assert.Contains(t, rr.Body.String(), "unknown format")
	assert.Contains(t, rr.Body.String(), "Choose the *format*")

	snap, ok := server.Sessions.Current("U1")
	require.True(t, ok)
	assert.Equal(t, session.StateSelectFormat, snap.State)

	rr = server.command(t, "match", "U1", "cancel")
	assert.Contains(t, rr.Body.String(), "cancelled")

	rr = server.command(t, "match", "U1", "13-11")
	assert.Contains(t, rr.Body.String(), "/match start")
}

func TestMatchCommand_AdminActions(t *testing.T) {
	server, teardown := setupTestServer(t, testConfig())
	defer teardown()
	tournamentID := server.seed(t)

	id, err := server.Matches.Append(&match.Record{
		TournamentID: tournamentID,
		Date:         "2024.05.20",
		Format:       "5x5",
		Map:          "Dune",
		Team1Tag:     "AAA",
		Team2Tag:     "BBB",
		Score1:       13,
		Score2:       11,
		TotalRounds:  24,
		Stats:        map[string][]rating.PlayerLine{"AAA": {}, "BBB": {}},
	})
	require.NoError(t, err)

	rr := server.command(t, "match", "U1", fmt.Sprintf("delete %d", id))
	assert.Contains(t, rr.Body.String(), "Only admins")

	rr = server.command(t, "match", "UADMIN", fmt.Sprintf("edit %d map Zone 7", id))
	assert.Contains(t, rr.Body.String(), "Zone 7")

	rr = server.command(t, "match", "UADMIN", fmt.Sprintf("edit %d colour red", id))
	assert.Contains(t, rr.Body.String(), "not editable")

	rr = server.command(t, "match", "UADMIN", fmt.Sprintf("delete %d", id))
	assert.Contains(t, rr.Body.String(), "deleted")

	_, err = server.Matches.Get(id)
	assert.ErrorIs(t, err, match.ErrNotFound)

	require.Len(t, server.pubsub.SendMessageCalls, 2)
	assert.Equal(t, pubsub.EventMatchUpdated, server.pubsub.SendMessageCalls[0].Topic)
	assert.Equal(t, pubsub.EventMatchDeleted, server.pubsub.SendMessageCalls[1].Topic)
}

func TestProfileCommandHandler(t *testing.T) {
	server, teardown := setupTestServer(t, testConfig())
	defer teardown()
	server.seed(t)

	t.Run("rostered player without matches", func(t *testing.T) {
		rr := server.command(t, "profile", "U1", "a1")
		assert.Contains(t, rr.Body.String(), "Alpha [AAA]")
	})

	t.Run("unknown player gets suggestions", func(t *testing.T) {
		rr := server.command(t, "profile", "U1", "a2")
		assert.Contains(t, rr.Body.String(), "couldn't find a player")
	})

	t.Run("handles missing player name", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/profile", url.Values{}, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestMatchesCommandHandler(t *testing.T) {
	server, teardown := setupTestServer(t, testConfig())
	defer teardown()
	tournamentID := server.seed(t)

	rr := server.command(t, "matches", "U1", strconv.FormatInt(tournamentID, 10))
	assert.Contains(t, rr.Body.String(), "No matches found.")

	rr = server.command(t, "matches", "U1", "999")
	assert.Contains(t, rr.Body.String(), "Tournament 999 not found.")

	rr = server.command(t, "matches", "U1", "")
	assert.Contains(t, rr.Body.String(), "Usage")
}

func TestAPI_ErrorCodes(t *testing.T) {
	server, teardown := setupTestServer(t, testConfig())
	defer teardown()

	cases := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"unknown match", "GET", "/api/matches/42", "", http.StatusNotFound},
		{"bad match id", "GET", "/api/matches/abc", "", http.StatusBadRequest},
		{"list without tournament", "GET", "/api/matches", "", http.StatusBadRequest},
		{"edit unknown match", "PATCH", "/api/matches/42", `{"field":"map","value":"Dune"}`, http.StatusNotFound},
		{"delete unknown match", "DELETE", "/api/matches/42", "", http.StatusNotFound},
		{"unknown player", "GET", "/api/players/nobody", "", http.StatusNotFound},
		{"bad sort", "GET", "/api/tournaments?sort=size", "", http.StatusBadRequest},
		{"incomplete transfer", "POST", "/api/transfers", `{"nickname":"a1"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			req := httptest.NewRequest(tc.method, tc.target, body)
			rr := httptest.NewRecorder()
			server.Router.ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestAPI_Transfer(t *testing.T) {
	server, teardown := setupTestServer(t, testConfig())
	defer teardown()
	server.seed(t)

	alpha, err := server.Clubs.TeamByTag("AAA")
	require.NoError(t, err)
	bravo, err := server.Clubs.TeamByTag("BBB")
	require.NoError(t, err)

	body := fmt.Sprintf(`{"nickname":"a1","from_team_id":%d,"to_team_id":%d,"date":"2024.06.01"}`, alpha.ID, bravo.ID)
	req := httptest.NewRequest("POST", "/api/transfers", strings.NewReader(body))
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	team, err := server.Clubs.CurrentTeam("a1")
	require.NoError(t, err)
	require.NotNil(t, team)
	assert.Equal(t, "BBB", team.Tag)
}

func TestMatchEventHandler(t *testing.T) {
	server, teardown := setupTestServer(t, testConfig())
	defer teardown()

	push := func(t *testing.T, data []byte) *httptest.ResponseRecorder {
		envelope := fmt.Sprintf(`{"subscription":"s","message":{"data":%q}}`, base64.StdEncoding.EncodeToString(data))
		req := httptest.NewRequest("POST", "/events/match?dry_run=true", strings.NewReader(envelope))
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("deleted event is posted", func(t *testing.T) {
		data, err := msgpack.Marshal(processor.MatchEvent{MatchID: 3, Kind: pubsub.EventMatchDeleted})
		require.NoError(t, err)
		rr := push(t, data)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "OK", rr.Body.String())
	})

	t.Run("event for a vanished match is acknowledged", func(t *testing.T) {
		data, err := msgpack.Marshal(processor.MatchEvent{MatchID: 3, Kind: pubsub.EventMatchCommitted})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, push(t, data).Code)
	})

	t.Run("rejects envelopes without data", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/events/match", strings.NewReader(`{"message":{}}`))
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
