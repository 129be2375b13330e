package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testChoice() Choice {
	return Choice{
		ID:          "respond_to_call",
		Title:       "A Call in the Dark",
		Description: "Something answers you from the dark.",
		Type:        ChoiceMoral,
		Options: []Option{
			{ID: "answer", Text: "Answer back", Consequences: Consequences{
				Flags:              map[string]any{"answered_call": true},
				RelationshipDeltas: map[string]float64{"stranger": 1},
				Memory:             "You answered the call.",
			}},
			{ID: "ignore", Text: "Stay silent", Consequences: Consequences{
				Flags: map[string]any{"ignored_call": true},
			}},
			{ID: "investigate", Text: "Seek the source", Requirements: []string{"bold"},
				Consequences: Consequences{Flags: map[string]any{"investigated_call": true}}},
		},
	}
}

func TestPresentReturnsOnlyAvailableOptions(t *testing.T) {
	s := NewSystem()
	s.Register(testChoice())

	presented, err := s.Present("respond_to_call", map[string]any{})
	require.NoError(t, err)
	require.Len(t, presented.Options, 2)

	presented, err = s.Present("respond_to_call", map[string]any{"bold": true})
	require.NoError(t, err)
	require.Len(t, presented.Options, 3)
}

func TestPresentUnknownChoiceErrors(t *testing.T) {
	s := NewSystem()
	_, err := s.Present("nope", map[string]any{})
	require.Error(t, err)
}

func TestPresentNonRepeatableAlreadyMadeErrors(t *testing.T) {
	s := NewSystem()
	s.Register(testChoice())
	flags := map[string]any{}
	_, err := s.Present("respond_to_call", flags)
	require.NoError(t, err)
	_, err = s.Make("answer", ChoiceSink{Flags: flags, Relationships: map[string]float64{}})
	require.NoError(t, err)

	_, err = s.Present("respond_to_call", flags)
	require.Error(t, err)
}

func TestMakeAppliesFlagsRelationshipsAndHistory(t *testing.T) {
	s := NewSystem()
	s.Register(testChoice())
	flags := map[string]any{}
	rel := map[string]float64{}
	_, err := s.Present("respond_to_call", flags)
	require.NoError(t, err)

	messages, err := s.Make("answer", ChoiceSink{Flags: flags, Relationships: rel})
	require.NoError(t, err)
	require.Contains(t, messages[0], "Answer back")
	require.Equal(t, true, flags["answered_call"])
	require.Equal(t, 1.0, rel["stranger"])
	require.Len(t, s.History(), 1)
	require.Equal(t, "respond_to_call", s.History()[0].ChoiceID)
}

func TestMakeWithoutActiveChoiceErrors(t *testing.T) {
	s := NewSystem()
	s.Register(testChoice())
	_, err := s.Make("answer", ChoiceSink{Flags: map[string]any{}, Relationships: map[string]float64{}})
	require.Error(t, err)
}

func TestMakeUnknownOptionErrors(t *testing.T) {
	s := NewSystem()
	s.Register(testChoice())
	flags := map[string]any{}
	_, err := s.Present("respond_to_call", flags)
	require.NoError(t, err)
	_, err = s.Make("nonexistent", ChoiceSink{Flags: flags, Relationships: map[string]float64{}})
	require.Error(t, err)
}

func TestRepeatableChoiceCanBePresentedAgain(t *testing.T) {
	c := testChoice()
	c.Repeatable = true
	s := NewSystem()
	s.Register(c)
	flags := map[string]any{}
	rel := map[string]float64{}

	_, err := s.Present("respond_to_call", flags)
	require.NoError(t, err)
	_, err = s.Make("ignore", ChoiceSink{Flags: flags, Relationships: rel})
	require.NoError(t, err)

	_, err = s.Present("respond_to_call", flags)
	require.NoError(t, err)
}
