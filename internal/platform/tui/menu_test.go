package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-maze/internal/config"
	"github.com/vovakirdan/tui-maze/internal/maps"
	"github.com/vovakirdan/tui-maze/internal/metrics"
	"github.com/vovakirdan/tui-maze/internal/storage"
)

func testMaps(t *testing.T) []*maps.Map {
	return []*maps.Map{corridorMap(t, "alpha"), corridorMap(t, "beta")}
}

func updateMenu(m MenuModel, msgs ...tea.Msg) MenuModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(MenuModel)
	}
	return m
}

func TestMenuSelect(t *testing.T) {
	stats := map[string]*storage.MapStats{"beta": {MapID: "beta", BestMoves: 7}}
	m := NewMenuModel(testMaps(t), stats, 80, 24)

	assert.Contains(t, m.View(), "best    7")

	m = updateMenu(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)

	require.NotNil(t, m.Selected())
	assert.Equal(t, "beta", m.Selected().MapID)
	assert.Equal(t, 7, m.Selected().Best, "best moves come from stats")
	assert.NotNil(t, cmd)
}

func TestMenuPace(t *testing.T) {
	m := NewMenuModel(testMaps(t), nil, 80, 24)
	assert.Equal(t, config.PaceNormal, m.Pace())

	m = updateMenu(m, runes("l"), runes("l"))
	assert.Equal(t, config.PaceBrisk, m.Pace(), "pace stops at the last preset")

	m = updateMenu(m, runes("h"), runes("h"), runes("h"))
	assert.Equal(t, config.PaceCareful, m.Pace())
	assert.Contains(t, m.View(), "careful")
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	m := updateMenu(NewMenuModel(testMaps(t), nil, 80, 24), tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.WantsScoreboard())
	assert.Nil(t, m.Selected())

	m = updateMenu(NewMenuModel(testMaps(t), nil, 80, 24), runes("q"))
	assert.True(t, m.IsQuitting())
	assert.Empty(t, m.View())
}

func TestMenuEmpty(t *testing.T) {
	m := updateMenu(NewMenuModel(nil, nil, 80, 24), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.Selected())
	assert.Contains(t, m.View(), "No maps found.")
}

func TestScoreboardCyclesMaps(t *testing.T) {
	store := &fakeStore{runs: []storage.Run{
		{MapID: "alpha", Player: "ann", Moves: 12, Completed: true, Duration: 3 * time.Second, CreatedAt: time.Now()},
		{MapID: "beta", Player: "bob", Moves: 40, Completed: true, Duration: time.Minute, CreatedAt: time.Now()},
	}}
	m := NewScoreboardModel(store, []string{"alpha", "beta"}, 80, 24)

	assert.Equal(t, "alpha", m.MapID())
	assert.Contains(t, m.View(), "ann")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	assert.Equal(t, "beta", m.MapID())
	assert.Contains(t, m.View(), "bob")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	assert.Equal(t, "beta", m.MapID(), "cycling wraps around")

	next, _ = m.Update(runes("b"))
	m = next.(ScoreboardModel)
	assert.True(t, m.IsGoingBack())
	assert.False(t, m.IsQuitting())
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, []string{"alpha"}, 80, 24)
	assert.Contains(t, m.View(), "Nobody has found the exit yet.")
}

func TestRunRows(t *testing.T) {
	rows := runRows([]storage.Run{
		{Moves: 9, Bumps: 2, Duration: 61500 * time.Millisecond},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, "#1", rows[0][0])
	assert.Equal(t, "anonymous", rows[0][1])
	assert.Equal(t, "9", rows[0][2])
	assert.Equal(t, "2", rows[0][3])
	assert.Equal(t, "1m2s", rows[0][4])
}

func updateSession(m SessionModel, msgs ...tea.Msg) (SessionModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(SessionModel)
	}
	return m, cmd
}

func TestSessionModelFlow(t *testing.T) {
	store := &fakeStore{}
	cfg := config.Default()
	cfg.Movement.Speed = 1
	m := NewSessionModel(SessionDeps{Engine: cfg, Maps: testMaps(t), Store: store}, "carol", 80, 24)

	// Menu -> game on the first map
	m, _ = updateSession(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, modeGame, m.mode)
	assert.Equal(t, "alpha", m.game.Session().Map().ID)
	w, h := m.game.Session().Size()
	assert.Equal(t, 80, w)
	assert.Less(t, h, 24)

	// Reach the exit, then leave the game
	m, _ = updateSession(m, runes("w"), runes("w"), runes("w"), runes("w"))
	assert.True(t, m.game.Session().Won())
	m, cmd := updateSession(m, runes("q"))
	assert.Equal(t, modeMenu, m.mode)
	assert.Nil(t, cmd)

	require.Len(t, store.runs, 1)
	assert.Equal(t, "carol", store.runs[0].Player)
	assert.True(t, store.runs[0].Completed)

	// Menu -> scoreboard -> menu
	m, _ = updateSession(m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, modeScores, m.mode)
	assert.Contains(t, m.View(), "carol")
	m, _ = updateSession(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeMenu, m.mode)

	// Quit from the menu ends the program
	m, cmd = updateSession(m, runes("q"))
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestSessionModelPace(t *testing.T) {
	cfg := config.Default()
	m := NewSessionModel(SessionDeps{Engine: cfg, Maps: testMaps(t)}, "dan", 80, 24)

	m, _ = updateSession(m, runes("l"), tea.KeyMsg{Type: tea.KeyEnter}, runes("w"))
	require.Equal(t, modeGame, m.mode)

	p := m.game.Session().Player()
	assert.InDelta(t, 1+cfg.Movement.Speed*config.PaceBrisk.Multiplier(), p.Pos.X, 1e-9)
}

func TestSessionModelCloseOnDisconnect(t *testing.T) {
	store := &fakeStore{}
	mc := metrics.New()
	cfg := config.Default()
	cfg.Movement.Speed = 1
	deps := SessionDeps{Engine: cfg, Maps: testMaps(t), Store: store, Metrics: mc}

	// Three players step once and drop without quitting
	for _, user := range []string{"ann", "ben", "cid"} {
		m := NewSessionModel(deps, user, 80, 24)
		m, _ = updateSession(m, tea.KeyMsg{Type: tea.KeyEnter}, runes("w"))
		require.Equal(t, modeGame, m.mode)

		m.Close()
		m.Close()
	}

	total, active := sessionGauges(t, mc)
	assert.Equal(t, 3.0, total)
	assert.Equal(t, 0.0, active)

	require.Len(t, store.runs, 3)
	for _, r := range store.runs {
		assert.False(t, r.Completed)
		assert.Equal(t, 1, r.Moves)
	}
}

func TestSessionModelCloseOutsideGame(t *testing.T) {
	store := &fakeStore{}
	mc := metrics.New()
	cfg := config.Default()
	cfg.Movement.Speed = 1
	m := NewSessionModel(SessionDeps{Engine: cfg, Maps: testMaps(t), Store: store, Metrics: mc}, "eve", 80, 24)

	// Nothing to close on the menu
	m.Close()

	m, _ = updateSession(m, tea.KeyMsg{Type: tea.KeyEnter}, runes("w"), runes("q"))
	require.Equal(t, modeMenu, m.mode)
	m.Close()

	total, active := sessionGauges(t, mc)
	assert.Equal(t, 1.0, total)
	assert.Equal(t, 0.0, active)
	assert.Len(t, store.runs, 1)
}
