package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kiliankoe/bowling/internal/scoring"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrNoPlayers      = errors.New("game has no players")
)

// Game is one sitting at the lanes: a fixed group of players, each bowling
// their own variant.
type Game struct {
	Code      string
	CreatedAt time.Time

	catalog  *scoring.Catalog
	cheaters map[string]bool

	players []*Player
	byID    map[string]*Player

	mu sync.Mutex
}

type Manager struct {
	mu       sync.RWMutex
	games    map[string]*Game
	catalog  *scoring.Catalog
	cheaters map[string]bool
}

// NewManager creates games whose variants come from catalog. Players named
// in cheaters (case-insensitive) join as cheaters.
func NewManager(catalog *scoring.Catalog, cheaters []string) *Manager {
	if catalog == nil {
		catalog = scoring.NewCatalog()
	}
	set := make(map[string]bool, len(cheaters))
	for _, name := range cheaters {
		if name = strings.TrimSpace(name); name != "" {
			set[strings.ToLower(name)] = true
		}
	}
	return &Manager{games: make(map[string]*Game), catalog: catalog, cheaters: set}
}

func (m *Manager) Catalog() *scoring.Catalog { return m.catalog }

func (m *Manager) CreateGame() *Game {
	m.mu.Lock()
	defer m.mu.Unlock()

	code := randomCode(5)
	for m.games[code] != nil {
		code = randomCode(5)
	}
	g := &Game{
		Code:      code,
		CreatedAt: time.Now().UTC(),
		catalog:   m.catalog,
		cheaters:  m.cheaters,
		byID:      make(map[string]*Player),
	}
	m.games[code] = g
	return g
}

// Active returns the number of games that have not been closed.
func (m *Manager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// Close forgets a finished game.
func (m *Manager) Close(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, code)
}

// Join adds a player bowling the named variant.
func (g *Game) Join(name, variant string) (*Player, error) {
	cfg, err := g.catalog.Lookup(variant)
	if err != nil {
		return nil, err
	}
	engine, err := scoring.NewEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("variant %s: %w", cfg.Name, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	var p *Player
	if g.cheaters[strings.ToLower(name)] {
		p = NewCheater(name, engine)
	} else {
		p = NewPlayer(name, engine)
	}
	g.players = append(g.players, p)
	g.byID[p.ID] = p
	return p, nil
}

// Players returns the players in joining order.
func (g *Game) Players() []*Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Player(nil), g.players...)
}

func (g *Game) Player(id string) (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.byID[id]
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

// NumFrames is the length of the game: the frame count of the first player's variant.
func (g *Game) NumFrames() (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.players) == 0 {
		return 0, ErrNoPlayers
	}
	return g.players[0].NumFrames(), nil
}

// Roll records a roll for the player with the given id.
func (g *Game) Roll(playerID string, pins int) error {
	p, err := g.Player(playerID)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return p.Roll(pins)
}

type Standing struct {
	PlayerID string
	Name     string
	Variant  string
	Score    scoring.Score
}

// Standings lists players by known score, best first, followed by players
// whose score is still absent. Ties keep joining order.
func (g *Game) Standings() []Standing {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Standing, 0, len(g.players))
	for _, p := range g.players {
		out = append(out, Standing{PlayerID: p.ID, Name: p.Name, Variant: p.Variant, Score: p.Score()})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Score, out[j].Score
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Value > b.Value
	})
	return out
}

func randomCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
