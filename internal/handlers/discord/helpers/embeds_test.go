package helpers

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildops/raid-roster-discord/internal/entities"
	"github.com/guildops/raid-roster-discord/internal/services/roster"
	"github.com/guildops/raid-roster-discord/internal/services/swap"
)

func TestRosterEmbed(t *testing.T) {
	raid := &entities.Raid{ID: "raid-1", Date: "2024-02-19", Time: "20:00", Timezone: "ST"}
	players := map[string]*entities.Player{
		"player-1": {ID: "player-1", Name: "Thunderbrew"},
		"player-2": {ID: "player-2", Name: "Moonwhisper"},
	}

	t.Run("buckets render with counts", func(t *testing.T) {
		view := &roster.RosterView{
			Raid: raid,
			Main: []*entities.RosterAssignment{
				{PlayerID: "player-1", CharacterName: "Frostweaver", Status: entities.AssignmentStatusMain},
			},
			Bench: []*entities.RosterAssignment{
				{PlayerID: "player-2", CharacterName: "Oakmantle", Status: entities.AssignmentStatusBench},
			},
			Players: players,
		}

		embed := RosterEmbed(view)
		assert.Contains(t, embed.Title, "2024-02-19")
		assert.Contains(t, embed.Title, "20:00")
		require.Len(t, embed.Fields, 2)
		assert.Equal(t, "Main Roster (1)", embed.Fields[0].Name)
		assert.Contains(t, embed.Fields[0].Value, "Thunderbrew")
		assert.Contains(t, embed.Fields[0].Value, "Frostweaver")
		assert.Equal(t, "Benches (1)", embed.Fields[1].Name)
		assert.Contains(t, embed.Fields[1].Value, "Moonwhisper")
	})

	t.Run("empty roster gets a placeholder", func(t *testing.T) {
		embed := RosterEmbed(&roster.RosterView{Raid: raid, Players: players})
		assert.Empty(t, embed.Fields)
		assert.Equal(t, "No players assigned yet.", embed.Description)
	})

	t.Run("pending swaps get their own field", func(t *testing.T) {
		view := &roster.RosterView{
			Raid: raid,
			Main: []*entities.RosterAssignment{
				{PlayerID: "player-1", CharacterName: "Frostweaver", Status: entities.AssignmentStatusMain},
			},
			PendingSwaps: []*entities.SwapRequest{
				{ID: 7, RequestingPlayerID: "player-1", Reason: "exam week", Status: entities.SwapStatusPending},
			},
			Players: players,
		}

		embed := RosterEmbed(view)
		last := embed.Fields[len(embed.Fields)-1]
		assert.Equal(t, "Pending Swap Requests (1)", last.Name)
		assert.Contains(t, last.Value, "#7")
		assert.Contains(t, last.Value, "exam week")
	})
}

func TestPlayerEmbed(t *testing.T) {
	player := &entities.Player{ID: "player-1", Name: "Thunderbrew", TotalRostered: 12, TotalBenched: 3}

	t.Run("takes the first character's class color", func(t *testing.T) {
		characters := []*entities.Character{
			{Name: "Frostweaver", Class: entities.ClassMage, Role: entities.RoleDPS},
			{Name: "Oakmantle", Class: entities.ClassDruid},
		}

		embed := PlayerEmbed(player, characters)
		assert.Equal(t, entities.ClassMage.Color(), embed.Color)
		require.Len(t, embed.Fields, 3)
		assert.Equal(t, "12", embed.Fields[0].Value)
		assert.Equal(t, "3", embed.Fields[1].Value)
		assert.Contains(t, embed.Fields[2].Value, "Frostweaver (Mage - DPS)")
		assert.Contains(t, embed.Fields[2].Value, "Oakmantle (Druid)")
	})

	t.Run("handles a player with no characters", func(t *testing.T) {
		embed := PlayerEmbed(player, nil)
		assert.Equal(t, DefaultColor, embed.Color)
		require.Len(t, embed.Fields, 3)
		assert.Equal(t, "No characters registered", embed.Fields[2].Value)
	})
}

func TestPlayerListEmbedTruncates(t *testing.T) {
	players := make([]*entities.Player, 0, 30)
	for i := 0; i < 30; i++ {
		players = append(players, &entities.Player{
			ID:   fmt.Sprintf("player-%d", i),
			Name: fmt.Sprintf("Raider%d", i),
		})
	}

	embed := PlayerListEmbed(players)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Showing 25 of 30 players", embed.Footer.Text)
	assert.NotContains(t, embed.Description, "Raider29")

	short := PlayerListEmbed(players[:3])
	assert.Nil(t, short.Footer)
}

func TestRaidListEmbed(t *testing.T) {
	t.Run("empty schedule", func(t *testing.T) {
		embed := RaidListEmbed(nil)
		assert.Equal(t, "No raids scheduled yet.", embed.Description)
	})

	t.Run("renders date, time and timezone", func(t *testing.T) {
		embed := RaidListEmbed([]*entities.Raid{
			{Date: "2024-02-19", Time: "20:00", Timezone: "ST"},
			{Date: "2024-02-26"},
		})
		assert.Contains(t, embed.Description, "**2024-02-19** at 20:00 ST")
		assert.Contains(t, embed.Description, "**2024-02-26**")
	})
}

func TestCalendarEmbedGroupsByWeek(t *testing.T) {
	summaries := []*roster.RaidSummary{
		{Raid: &entities.Raid{Date: "2024-02-19"}, MainCount: 20, BenchCount: 4},
		{Raid: &entities.Raid{Date: "2024-02-22"}, MainCount: 18, BenchCount: 2},
		{Raid: &entities.Raid{Date: "2024-02-26"}, MainCount: 21, BenchCount: 5},
	}

	embed := CalendarEmbed(summaries, 2)
	require.Len(t, embed.Fields, 2, "raids in the same ISO week share a field")
	assert.Equal(t, "Week 8, 2024", embed.Fields[0].Name)
	assert.Contains(t, embed.Fields[0].Value, "Main: 20, Bench: 4")
	assert.Contains(t, embed.Fields[0].Value, "Main: 18, Bench: 2")
	assert.Equal(t, "Week 9, 2024", embed.Fields[1].Name)

	empty := CalendarEmbed(nil, 4)
	assert.Contains(t, empty.Description, "next 4 week(s)")
}

func TestSwapRequestEmbed(t *testing.T) {
	now := time.Date(2024, 2, 19, 18, 0, 0, 0, time.UTC)
	raid := &entities.Raid{ID: "raid-1", Date: "2024-02-19"}
	requester := &entities.Player{ID: "player-1", Name: "Thunderbrew"}
	acceptor := &entities.Player{ID: "player-2", Name: "Moonwhisper"}

	tests := []struct {
		name      string
		status    entities.SwapStatus
		color     int
		wantTitle string
	}{
		{name: "pending", status: entities.SwapStatusPending, color: PendingColor, wantTitle: "New Swap Request"},
		{name: "accepted", status: entities.SwapStatusAccepted, color: SuccessColor, wantTitle: "Accepted"},
		{name: "approved", status: entities.SwapStatusApproved, color: SuccessColor, wantTitle: "Approved"},
		{name: "denied", status: entities.SwapStatusDenied, color: ErrorColor, wantTitle: "Denied"},
		{name: "cancelled", status: entities.SwapStatusCancelled, color: ErrorColor, wantTitle: "Cancelled"},
		{name: "expired", status: entities.SwapStatusExpired, color: ErrorColor, wantTitle: "Expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := &swap.RequestView{
				Request: &entities.SwapRequest{
					ID:                 42,
					RaidID:             raid.ID,
					RequestingPlayerID: requester.ID,
					Status:             tt.status,
					CreatedAt:          now,
				},
				Raid:      raid,
				Requester: requester,
			}

			embed := SwapRequestEmbed(view)
			assert.Contains(t, embed.Title, tt.wantTitle)
			assert.Equal(t, tt.color, embed.Color)
			assert.Equal(t, "#42", embed.Fields[0].Value)

			if tt.status == entities.SwapStatusPending {
				require.NotNil(t, embed.Footer, "pending requests should point at the accept command")
				assert.Contains(t, embed.Footer.Text, "/raid swap accept")
			} else {
				assert.Nil(t, embed.Footer)
			}
		})
	}

	t.Run("acceptor and notes render when present", func(t *testing.T) {
		view := &swap.RequestView{
			Request: &entities.SwapRequest{
				ID:                 42,
				RaidID:             raid.ID,
				RequestingPlayerID: requester.ID,
				AcceptingPlayerID:  acceptor.ID,
				Reason:             "exam week",
				ResolutionNote:     "approved by officer",
				Status:             entities.SwapStatusApproved,
				CreatedAt:          now,
			},
			Raid:      raid,
			Requester: requester,
			Acceptor:  acceptor,
		}

		embed := SwapRequestEmbed(view)
		var names []string
		for _, field := range embed.Fields {
			names = append(names, field.Name)
		}
		assert.Contains(t, names, "Accepting Player")
		assert.Contains(t, names, "Reason")
		assert.Contains(t, names, "Resolution Note")
	})
}

func TestSwapListEmbedTruncates(t *testing.T) {
	raid := &entities.Raid{ID: "raid-1", Date: "2024-02-19"}
	requester := &entities.Player{ID: "player-1", Name: "Thunderbrew"}

	views := make([]*swap.RequestView, 0, 12)
	for i := 1; i <= 12; i++ {
		views = append(views, &swap.RequestView{
			Request:   &entities.SwapRequest{ID: int64(i), Status: entities.SwapStatusPending},
			Raid:      raid,
			Requester: requester,
		})
	}

	embed := SwapListEmbed("Pending Swap Requests", views)
	assert.Len(t, embed.Fields, 10)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Showing 10 of 12 requests", embed.Footer.Text)
}
