package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cambio/internal/engine"
	"cambio/pkg/types"
)

func intp(i int) *int { return &i }

func TestToCommands(t *testing.T) {
	cases := []struct {
		name    string
		msg     types.ClientMessage
		want    []engine.Command
		wantErr error
	}{
		{
			name: "draw_card",
			msg:  types.ClientMessage{Type: "draw_card"},
			want: []engine.Command{{Type: engine.CmdDrawCard, PlayerID: "player_0"}},
		},
		{
			name: "activate_effect keeps the turn open",
			msg:  types.ClientMessage{Type: "resolve_draw", Action: "activate_effect"},
			want: []engine.Command{
				{Type: engine.CmdResolveAction, PlayerID: "player_0", Choice: engine.ChoiceActivateEffect},
			},
		},
		{
			name: "discard auto-ends the turn",
			msg:  types.ClientMessage{Type: "resolve_draw", Action: "discard"},
			want: []engine.Command{
				{Type: engine.CmdResolveAction, PlayerID: "player_0", Choice: engine.ChoiceDiscard},
				{Type: engine.CmdEndTurn, PlayerID: "player_0"},
			},
		},
		{
			name: "blind_swap carries the index and auto-ends the turn",
			msg:  types.ClientMessage{Type: "resolve_draw", Action: "blind_swap", CardIndex: intp(2)},
			want: []engine.Command{
				{Type: engine.CmdResolveAction, PlayerID: "player_0", Choice: engine.ChoiceBlindSwap, CardIndex: 2},
				{Type: engine.CmdEndTurn, PlayerID: "player_0"},
			},
		},
		{
			name:    "blind_swap without index names the missing field",
			msg:     types.ClientMessage{Type: "resolve_draw", Action: "blind_swap"},
			wantErr: errMissingCardIndex,
		},
		{
			name: "end_turn",
			msg:  types.ClientMessage{Type: "end_turn"},
			want: []engine.Command{{Type: engine.CmdEndTurn, PlayerID: "player_0"}},
		},
		{
			name:    "unknown action",
			msg:     types.ClientMessage{Type: "resolve_draw", Action: "cheat"},
			wantErr: errUnknownAction,
		},
		{
			name:    "unknown type",
			msg:     types.ClientMessage{Type: "dance"},
			wantErr: errUnknownType,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmds, err := toCommands(tc.msg, "player_0")
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, cmds)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, cmds)
		})
	}
}

func TestToCommands_MissingIndexMessageIsSpecific(t *testing.T) {
	_, err := toCommands(types.ClientMessage{Type: "resolve_draw", Action: "blind_swap"}, "player_0")
	require.Error(t, err)
	assert.Equal(t, "blind_swap requires card_index", err.Error())
}
