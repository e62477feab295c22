package arcade

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

type memoryRound struct {
	items   []string
	board   []string
	matched []bool
	faceUp  []int
	moves   int
}

func newMemoryRound(def Definition) *memoryRound {
	return &memoryRound{items: def.MemoryItems}
}

// start lays out every item twice in random order.
func (r *memoryRound) start(rng *rand.Rand) {
	r.board = make([]string, 0, 2*len(r.items))
	r.board = append(r.board, r.items...)
	r.board = append(r.board, r.items...)
	rng.Shuffle(len(r.board), func(i, j int) {
		r.board[i], r.board[j] = r.board[j], r.board[i]
	})
	r.matched = make([]bool, len(r.board))
	r.faceUp = r.faceUp[:0]
	r.moves = 0
}

func (r *memoryRound) outcome(def Definition) Outcome {
	return ScoreCompletion(def, len(r.items))
}

func (r *memoryRound) reason(_ Outcome, elapsed int) string {
	return fmt.Sprintf("Memory solved in %s (%d moves)", FormatElapsed(elapsed), r.moves)
}

func (r *memoryRound) matchedPairs() int {
	n := 0
	for _, m := range r.matched {
		if m {
			n++
		}
	}
	return n / 2
}

func (r *memoryRound) view(snap *Snapshot, _ Phase) {
	v := &MemoryView{
		Tiles:        make([]MemoryTile, len(r.board)),
		Moves:        r.moves,
		Pairs:        len(r.items),
		MatchedPairs: r.matchedPairs(),
	}
	for i, content := range r.board {
		t := MemoryTile{
			Index:   i,
			FaceUp:  slices.Contains(r.faceUp, i),
			Matched: r.matched[i],
		}
		if t.FaceUp || t.Matched {
			t.Content = content
		}
		v.Tiles[i] = t
	}
	snap.Memory = v
}

// FlipTile turns a tile face up. It reports false when the click is ignored:
// two tiles are already waiting to be resolved, or the tile is already face
// up or matched. The second tile of a pair counts a move and schedules the
// match or flip-back.
func (s *Session) FlipTile(tile int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := roundFor[*memoryRound](s)
	if err != nil {
		return false, err
	}
	if tile < 0 || tile >= len(r.board) {
		return false, fmt.Errorf("%w: tile %d out of range", ErrInvalidInput, tile)
	}
	if len(r.faceUp) == 2 || r.matched[tile] || slices.Contains(r.faceUp, tile) {
		return false, nil
	}

	r.faceUp = append(r.faceUp, tile)
	if len(r.faceUp) < 2 {
		return true, nil
	}

	r.moves++
	a, b := r.faceUp[0], r.faceUp[1]
	if r.board[a] == r.board[b] {
		s.after(s.delays.MemoryMatch, func() {
			r.matched[a] = true
			r.matched[b] = true
			r.faceUp = r.faceUp[:0]
			if !slices.Contains(r.matched, false) {
				s.finish()
			}
		})
	} else {
		s.after(s.delays.MemoryMismatch, func() {
			r.faceUp = r.faceUp[:0]
		})
	}
	return true, nil
}
