package room

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/cardroom/holdem/internal/game"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func testSettings() game.Settings {
	s := game.DefaultSettings()
	s.TurnTimer = 0
	return s
}

// seqSource hands out a fixed sequence, so generated codes are predictable.
type seqSource struct {
	n int
}

func (s *seqSource) IntN(n int) int {
	s.n++
	return s.n % n
}

func newTestDirectory(t *testing.T) (*Directory, *quartz.Mock) {
	t.Helper()
	mockClock := quartz.NewMock(t)
	d := NewDirectory(testSettings(), mockClock, testLogger(),
		WithSeed(1), WithCodeSource(&seqSource{}))
	return d, mockClock
}

func TestJoinWithoutCodeCreatesRoom(t *testing.T) {
	d, _ := newTestDirectory(t)

	result := d.Join("s1", "alice", "")
	require.True(t, result.Created)
	require.Nil(t, result.Left)
	require.Equal(t, game.Joined, result.Status)
	require.Len(t, result.Room.Code, 6)
	require.Equal(t, 1, d.RoomCount())

	// The creator is the host.
	require.Equal(t, "s1", result.Room.Game.HostID())
}

func TestJoinExistingRoomIsCaseInsensitive(t *testing.T) {
	d, _ := newTestDirectory(t)

	created := d.Join("s1", "alice", "")
	code := created.Room.Code

	joined := d.Join("s2", "bob", strings.ToLower(" "+code+" "))
	require.False(t, joined.Created)
	require.Same(t, created.Room, joined.Room)
	require.Equal(t, 1, d.RoomCount())
}

func TestJoinUnknownCodeCreatesThatRoom(t *testing.T) {
	d, _ := newTestDirectory(t)

	result := d.Join("s1", "alice", "zzzzzz")
	require.True(t, result.Created)
	require.Equal(t, "ZZZZZZ", result.Room.Code)
}

func TestGeneratedCodesAreUnique(t *testing.T) {
	d, _ := newTestDirectory(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		result := d.Join("s"+string(rune('a'+i)), "player", "")
		require.False(t, seen[result.Room.Code], "code %s issued twice", result.Room.Code)
		seen[result.Room.Code] = true
	}
}

func TestSwitchingRoomsDetachesFromOld(t *testing.T) {
	d, _ := newTestDirectory(t)

	first := d.Join("s1", "alice", "AAAAAA")
	d.Join("s2", "bob", "AAAAAA")

	second := d.Join("s1", "alice", "BBBBBB")
	require.Same(t, first.Room, second.Left)

	// Gone from the old room, present in the new one.
	state := first.Room.Game.PublicSnapshot()
	require.Len(t, state.Players, 1)
	require.Equal(t, "bob", state.Players[0].Name)

	r, ok := d.Lookup("s1")
	require.True(t, ok)
	require.Same(t, second.Room, r)
}

func TestLookup(t *testing.T) {
	d, _ := newTestDirectory(t)

	_, ok := d.Lookup("nobody")
	require.False(t, ok)

	result := d.Join("s1", "alice", "")
	r, ok := d.Lookup("s1")
	require.True(t, ok)
	require.Same(t, result.Room, r)

	byCode, ok := d.LookupCode(strings.ToLower(result.Room.Code))
	require.True(t, ok)
	require.Same(t, result.Room, byCode)
}

func TestDetachReturnsRoomAndName(t *testing.T) {
	d, _ := newTestDirectory(t)

	result := d.Join("s1", "alice", "")
	r, name := d.Detach("s1")
	require.Same(t, result.Room, r)
	require.Equal(t, "alice", name)

	r, name = d.Detach("s1")
	require.Nil(t, r)
	require.Empty(t, name)
}

func TestEmptyRoomCollectedAfterGrace(t *testing.T) {
	d, mockClock := newTestDirectory(t)

	d.Join("s1", "alice", "")
	d.Detach("s1")
	require.Equal(t, 1, d.RoomCount())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mockClock.Advance(DefaultGracePeriod).MustWait(ctx)

	require.Equal(t, 0, d.RoomCount())
}

func TestRejoinWithinGraceCancelsCollection(t *testing.T) {
	d, mockClock := newTestDirectory(t)

	created := d.Join("s1", "alice", "")
	code := created.Room.Code
	d.Detach("s1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mockClock.Advance(DefaultGracePeriod / 2).MustWait(ctx)

	rejoined := d.Join("s2", "bob", code)
	require.False(t, rejoined.Created)

	mockClock.Advance(DefaultGracePeriod).MustWait(ctx)
	require.Equal(t, 1, d.RoomCount())
}

func TestOccupiedRoomNotCollected(t *testing.T) {
	d, mockClock := newTestDirectory(t)

	d.Join("s1", "alice", "")
	d.Join("s2", "bob", "")
	require.Equal(t, 2, d.RoomCount())

	d.Detach("s1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mockClock.Advance(DefaultGracePeriod).MustWait(ctx)

	// Only the emptied room went away.
	require.Equal(t, 1, d.RoomCount())
}

func TestUnbindDropsSessionOnly(t *testing.T) {
	d, _ := newTestDirectory(t)

	d.Join("s1", "alice", "")
	d.Join("s2", "bob", "")
	require.Equal(t, 2, d.RoomCount())

	d.Unbind("s1")
	_, ok := d.Lookup("s1")
	require.False(t, ok)
	// Unbind does not touch room membership or collection.
	require.Equal(t, 2, d.RoomCount())
}

func TestGenerateCodeAlphabet(t *testing.T) {
	src := &seqSource{}
	for i := 0; i < 50; i++ {
		code := generateCode(src)
		require.Len(t, code, codeLength)
		for _, ch := range code {
			require.Contains(t, codeAlphabet, string(ch))
			require.NotContains(t, "01OIL", string(ch))
		}
	}
}
