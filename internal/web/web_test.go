package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/matchrating/internal/auth"
	"github.com/goserg/matchrating/internal/cache/mem"
	"github.com/goserg/matchrating/internal/config"
	"github.com/goserg/matchrating/internal/metrics"
	"github.com/goserg/matchrating/internal/service"
	"github.com/goserg/matchrating/internal/storage"
	"github.com/goserg/matchrating/internal/storage/sqlite"
)

type testServer struct {
	*Server
	auth *auth.Service
}

func newTestServer(t *testing.T, secret string) testServer {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	st := sqlite.New(l, db)
	m := metrics.New()
	ps := service.NewPlayerService(l, st, st, mem.New(), m)
	ms := service.NewMatchService(l, st, st, st, ps, m)
	authService, err := auth.New(config.Auth{Secret: secret, Expiration: "1h"})
	require.NoError(t, err)

	srv, err := New(l, config.Server{PublicURL: "https://futbol.example"}, ps, ms, authService, m)
	require.NoError(t, err)
	return testServer{Server: srv, auth: authService}
}

func (s testServer) do(t *testing.T, method, target string, body any, headers ...string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func sampleMatch() fiber.Map {
	return fiber.Map{
		"matchName":    "Jueves",
		"date":         "2024-03-07",
		"team1Name":    "Blancos",
		"team2Name":    "Negros",
		"team1Goals":   3,
		"team2Goals":   1,
		"team1Players": []fiber.Map{{"name": "Ana"}, {"name": "Beto", "rating": 8}},
		"team2Players": []fiber.Map{{"name": "Caro"}, {"name": "Dani"}},
		"raterName":    "Ana",
		"playerRatings": []fiber.Map{
			{"name": "Caro", "rating": 6, "team": "team2"},
		},
	}
}

func (s testServer) createMatch(t *testing.T, headers ...string) matchDTO {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/matches", sampleMatch(), headers...)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[matchDTO](t, resp)
}

func playerID(t *testing.T, m matchDTO, name string) string {
	t.Helper()
	for _, team := range []teamDTO{m.Team1, m.Team2} {
		for _, p := range team.Players {
			if p.Name == name {
				return p.ID
			}
		}
	}
	t.Fatalf("player %q not on roster", name)
	return ""
}

func TestCreateMatch(t *testing.T) {
	s := newTestServer(t, "")
	m := s.createMatch(t)

	assert.Equal(t, "Jueves", m.Name)
	assert.Equal(t, "2024-03-07", m.Date)
	assert.Equal(t, "Victoria", m.Result)
	assert.InDelta(t, 7.0, m.Rating, 1e-9)
	assert.Equal(t, "Blancos", m.Team1.Name)
	require.Len(t, m.Team1.Players, 2)
	assert.Equal(t, "Ana", m.Team1.Players[0].Name)
	assert.InDelta(t, 8.0, m.Team1.Players[1].Rating, 1e-9)
	assert.Equal(t, []string{playerID(t, m, "Ana")}, m.PlayersWhoSubmittedRatings)
}

func TestCreateMatch_DefaultTeamNames(t *testing.T) {
	s := newTestServer(t, "")
	body := sampleMatch()
	delete(body, "team1Name")
	delete(body, "team2Name")
	resp := s.do(t, http.MethodPost, "/matches", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	m := decode[matchDTO](t, resp)
	assert.Equal(t, defaultTeam1Name, m.Team1.Name)
	assert.Equal(t, defaultTeam2Name, m.Team2.Name)
}

func TestCreateMatch_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(fiber.Map)
		field  string
	}{
		{
			name:   "missing match name",
			mutate: func(m fiber.Map) { delete(m, "matchName") },
			field:  "matchName",
		},
		{
			name:   "bad date",
			mutate: func(m fiber.Map) { m["date"] = "07/03/2024" },
			field:  "date",
		},
		{
			name:   "negative goals",
			mutate: func(m fiber.Map) { m["team2Goals"] = -1 },
			field:  "team2Goals",
		},
		{
			name:   "goals wrapping int32",
			mutate: func(m fiber.Map) { m["team1Goals"] = 4294967297 },
			field:  "team1Goals",
		},
		{
			name:   "goals above max",
			mutate: func(m fiber.Map) { m["team1Goals"] = 1001 },
			field:  "team1Goals",
		},
		{
			name: "rating out of range",
			mutate: func(m fiber.Map) {
				m["playerRatings"] = []fiber.Map{{"name": "Caro", "rating": 11}}
			},
			field: "playerRatings[0].rating",
		},
		{
			name: "unknown team",
			mutate: func(m fiber.Map) {
				m["playerRatings"] = []fiber.Map{{"name": "Caro", "rating": 5, "team": "team3"}}
			},
			field: "playerRatings[0].team",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, "")
			body := sampleMatch()
			tt.mutate(body)
			resp := s.do(t, http.MethodPost, "/matches", body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			payload := decode[errorPayload](t, resp)
			assert.Equal(t, "invalid_input", payload.Error)
			var fields []string
			for _, fe := range payload.FieldErrors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)

			list := s.do(t, http.MethodGet, "/matches", nil)
			assert.Empty(t, decode[[]matchDTO](t, list))
		})
	}
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t, "secret")

	resp := s.do(t, http.MethodPost, "/matches", sampleMatch())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, _, err := s.auth.Issue(uuid.New())
	require.NoError(t, err)
	m := s.createMatch(t, fiber.HeaderAuthorization, "Bearer "+token)

	// the creator now owns the rater, so the listing is scoped to Ana's ratings
	mine := s.do(t, http.MethodGet, "/matches?scope=mine", nil, fiber.HeaderAuthorization, "Bearer "+token)
	require.Equal(t, http.StatusOK, mine.StatusCode)
	list := decode[[]matchDTO](t, mine)
	require.Len(t, list, 1)
	assert.Equal(t, m.ID, list[0].ID)

	other, _, err := s.auth.Issue(uuid.New())
	require.NoError(t, err)
	none := s.do(t, http.MethodGet, "/matches?scope=mine", nil, fiber.HeaderAuthorization, "Bearer "+other)
	require.Equal(t, http.StatusOK, none.StatusCode)
	assert.Empty(t, decode[[]matchDTO](t, none))

	home := s.do(t, http.MethodGet, "/", nil, fiber.HeaderAuthorization, "Bearer "+token)
	require.Equal(t, http.StatusOK, home.StatusCode)
	assert.Contains(t, readBody(t, home), "Jugaste 1 de estos partidos")

	anon := s.do(t, http.MethodGet, "/matches?scope=mine", nil)
	assert.Equal(t, http.StatusUnauthorized, anon.StatusCode)

	bad := s.do(t, http.MethodDelete, "/matches/"+strconv.FormatInt(m.ID, 10), nil, fiber.HeaderAuthorization, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, bad.StatusCode)
}

func TestGetMatch_Errors(t *testing.T) {
	s := newTestServer(t, "")
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/matches/42", nil).StatusCode)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/matches/abc", nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/nowhere", nil).StatusCode)
}

func TestSubmitRatings(t *testing.T) {
	s := newTestServer(t, "")
	m := s.createMatch(t)
	target := "/matches/" + strconv.FormatInt(m.ID, 10) + "/ratings"

	resp := s.do(t, http.MethodPut, target, fiber.Map{
		"ownerPlayerId": playerID(t, m, "Dani"),
		"ratings":       []fiber.Map{{"name": "Ana", "rating": 9}, {"name": "Beto", "rating": 7, "team": "team1"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[matchDTO](t, resp)
	assert.Len(t, updated.PlayersWhoSubmittedRatings, 2)
	assert.InDelta(t, 7.5, updated.Team1.Players[1].Rating, 1e-9)

	tests := []struct {
		name   string
		target string
		body   fiber.Map
		status int
	}{
		{
			name:   "owner not on roster",
			target: target,
			body:   fiber.Map{"ownerPlayerId": uuid.NewString(), "ratings": []fiber.Map{{"name": "Ana", "rating": 5}}},
			status: http.StatusNotFound,
		},
		{
			name:   "missing owner",
			target: target,
			body:   fiber.Map{"ratings": []fiber.Map{{"name": "Ana", "rating": 5}}},
			status: http.StatusBadRequest,
		},
		{
			name:   "empty batch",
			target: target,
			body:   fiber.Map{"ownerPlayerId": playerID(t, m, "Dani"), "ratings": []fiber.Map{}},
			status: http.StatusBadRequest,
		},
		{
			name:   "missing match",
			target: "/matches/999/ratings",
			body:   fiber.Map{"ownerPlayerId": playerID(t, m, "Dani"), "ratings": []fiber.Map{{"name": "Ana", "rating": 5}}},
			status: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, s.do(t, http.MethodPut, tt.target, tt.body).StatusCode)
		})
	}
}

func TestUpdateMatch(t *testing.T) {
	s := newTestServer(t, "")
	m := s.createMatch(t)
	target := "/matches/" + strconv.FormatInt(m.ID, 10)

	resp := s.do(t, http.MethodPut, target, fiber.Map{"name": "Viernes", "date": "2024-03-08"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[matchDTO](t, resp)
	assert.Equal(t, "Viernes", updated.Name)
	assert.Equal(t, "2024-03-08", updated.Date)
	assert.Equal(t, "Victoria", updated.Result)

	resp = s.do(t, http.MethodPut, target, fiber.Map{"result": "Ganamos"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteMatch(t *testing.T) {
	s := newTestServer(t, "")
	m := s.createMatch(t)
	target := "/matches/" + strconv.FormatInt(m.ID, 10)

	resp := s.do(t, http.MethodDelete, target, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]bool{"success": true}, decode[map[string]bool](t, resp))

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, target, nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, target, nil).StatusCode)
}

func TestPlayers(t *testing.T) {
	s := newTestServer(t, "secret")
	token, _, err := s.auth.Issue(uuid.New())
	require.NoError(t, err)
	m := s.createMatch(t, fiber.HeaderAuthorization, "Bearer "+token)

	resp := s.do(t, http.MethodGet, "/players?q=bto&limit=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	players := decode[[]playerInfoDTO](t, resp)
	require.Len(t, players, 1)
	assert.Equal(t, "Beto", players[0].Name)
	assert.False(t, players[0].Claimed)

	claim := "/players/" + playerID(t, m, "Beto") + "/claim"
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, claim, nil).StatusCode)

	resp = s.do(t, http.MethodPost, claim, nil, fiber.HeaderAuthorization, "Bearer "+token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[playerInfoDTO](t, resp).Claimed)

	other, _, err := s.auth.Issue(uuid.New())
	require.NoError(t, err)
	resp = s.do(t, http.MethodPost, claim, nil, fiber.HeaderAuthorization, "Bearer "+other)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, "")
	s.createMatch(t)

	resp := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "matchrating_http_requests_total")
	assert.Contains(t, body, "matchrating_matches_created_total 1")
}

func TestPages(t *testing.T) {
	s := newTestServer(t, "")
	m := s.createMatch(t)
	id := strconv.FormatInt(m.ID, 10)

	tests := []struct {
		path string
		want string
	}{
		{path: "/", want: "Jueves"},
		{path: "/match/" + id, want: "Blancos"},
		{path: "/match/" + id + "/join", want: "/match/" + id + "/rate?player=" + playerID(t, m, "Caro")},
		{path: "/match/" + id + "/rate?player=" + playerID(t, m, "Caro"), want: "rating_" + playerID(t, m, "Ana")},
		{path: "/match/" + id + "/share", want: "https://futbol.example/match/" + id + "/join"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := s.do(t, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, readBody(t, resp), tt.want)
		})
	}

	resp := s.do(t, http.MethodGet, "/match/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/match/"+id+"/rate", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/match/"+id+"/join", resp.Header.Get(fiber.HeaderLocation))
}

func (s testServer) postForm(t *testing.T, target string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRatePagePost(t *testing.T) {
	s := newTestServer(t, "secret")
	m := s.createMatch(t, fiber.HeaderAuthorization, "Bearer "+mustIssue(t, s.auth))
	id := strconv.FormatInt(m.ID, 10)
	target := "/match/" + id + "/rate"

	ana, caro, dani := playerID(t, m, "Ana"), playerID(t, m, "Caro"), playerID(t, m, "Dani")

	form := url.Values{}
	form.Set("owner", caro)
	form.Set(ratingFieldPrefix+ana, "")
	resp := s.postForm(t, target, form)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "rate at least one player")

	form.Set(ratingFieldPrefix+ana, "9,5")
	form.Set(ratingFieldPrefix+dani, "6")
	resp = s.postForm(t, target, form)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/match/"+id, resp.Header.Get(fiber.HeaderLocation))

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "anonymous rater gets a token for Caro")

	userID, err := s.auth.Verify(cookie.Value)
	require.NoError(t, err)
	viewer, err := s.players.Viewer(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, viewer.Players.Contains(uuid.MustParse(caro)))

	got := decode[matchDTO](t, s.do(t, http.MethodGet, "/matches/"+id, nil))
	assert.InDelta(t, 9.5, got.Team1.Players[0].Rating, 1e-9)
	assert.Len(t, got.PlayersWhoSubmittedRatings, 2)

	form.Set(ratingFieldPrefix+ana, "12")
	resp = s.postForm(t, target, form)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func mustIssue(t *testing.T, a *auth.Service) string {
	t.Helper()
	token, _, err := a.Issue(uuid.New())
	require.NoError(t, err)
	return token
}
