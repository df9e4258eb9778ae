package roster

//go:generate mockgen -destination=mock/mock_service.go -package=mockroster -source=service.go

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guildops/raid-roster-discord/internal/clock"
	"github.com/guildops/raid-roster-discord/internal/dates"
	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
	"github.com/guildops/raid-roster-discord/internal/repositories/characters"
	"github.com/guildops/raid-roster-discord/internal/repositories/players"
	"github.com/guildops/raid-roster-discord/internal/repositories/raids"
	"github.com/guildops/raid-roster-discord/internal/repositories/rosters"
	"github.com/guildops/raid-roster-discord/internal/repositories/swaps"
	"github.com/guildops/raid-roster-discord/internal/uuid"
)

// Service defines the raid calendar and roster ledger operations
type Service interface {
	// CreateRaid schedules a raid on a date; the date input may be in any
	// parseable form and is normalized before the uniqueness check
	CreateRaid(ctx context.Context, input *CreateRaidInput) (*entities.Raid, error)

	// GetRaid resolves a raid by date input
	GetRaid(ctx context.Context, date string) (*entities.Raid, error)

	// ListRaids returns all raids ordered by date ascending
	ListRaids(ctx context.Context) ([]*entities.Raid, error)

	// UpcomingRaids returns raids within the coming weeks with headcounts
	UpcomingRaids(ctx context.Context, from time.Time, weeks int) ([]*RaidSummary, error)

	// DeleteRaid removes a raid, its assignments and its swap requests
	DeleteRaid(ctx context.Context, date string) error

	// AddToRoster assigns a player's character to a raid
	AddToRoster(ctx context.Context, input *AddToRosterInput) (*entities.RosterAssignment, error)

	// SetStatus moves a player's assignment along the transition table
	SetStatus(ctx context.Context, date, discordID, status string) (*entities.RosterAssignment, error)

	// RemoveFromRoster deletes a player's assignment on a raid
	RemoveFromRoster(ctx context.Context, date, discordID string) error

	// SwapPositions directly exchanges two players' slots on a raid
	SwapPositions(ctx context.Context, date, discordIDA, discordIDB string) error

	// ViewRoster partitions a raid's assignments by status
	ViewRoster(ctx context.Context, date string) (*RosterView, error)

	// Overview aggregates guild-wide totals
	Overview(ctx context.Context) (*OverviewStats, error)
}

// CreateRaidInput contains data for scheduling a raid
type CreateRaidInput struct {
	Date     string
	Time     string // Optional
	Timezone string // Optional, falls back to the service default
}

// AddToRosterInput contains data for adding a player to a raid roster
type AddToRosterInput struct {
	Date          string
	DiscordID     string
	CharacterName string
	Position      *int   // Optional
	Status        string // Optional, defaults to main
}

// RaidSummary pairs a raid with its current headcounts for the calendar
type RaidSummary struct {
	Raid       *entities.Raid
	MainCount  int
	BenchCount int
}

// RosterView partitions a raid's assignments by status, each bucket
// ordered by position ascending with nulls last. Players holds everyone
// the view mentions, keyed by player ID, for display
type RosterView struct {
	Raid         *entities.Raid
	Main         []*entities.RosterAssignment
	Bench        []*entities.RosterAssignment
	Absent       []*entities.RosterAssignment
	Swap         []*entities.RosterAssignment
	PendingSwaps []*entities.SwapRequest
	Players      map[string]*entities.Player
}

// OverviewStats holds guild-wide totals
type OverviewStats struct {
	Players     int
	Characters  int
	Raids       int
	Assignments int64
	OpenSwaps   int64
}

// service implements the Service interface
type service struct {
	raidRepo        raids.Repository
	playerRepo      players.Repository
	characterRepo   characters.Repository
	rosterRepo      rosters.Repository
	swapRepo        swaps.Repository
	uuidGenerator   uuid.Generator
	timeProvider    clock.TimeProvider
	defaultTimezone string
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	RaidRepository      raids.Repository      // Required
	PlayerRepository    players.Repository    // Required
	CharacterRepository characters.Repository // Required
	RosterRepository    rosters.Repository    // Required
	SwapRepository      swaps.Repository      // Required
	UUIDGenerator       uuid.Generator        // Optional, will use default if nil
	TimeProvider        clock.TimeProvider    // Optional, will use default if nil
	DefaultTimezone     string                // Optional, defaults to UTC
}

// NewService creates a new roster service
func NewService(cfg *ServiceConfig) Service {
	if cfg.RaidRepository == nil {
		panic("raid repository is required")
	}
	if cfg.PlayerRepository == nil {
		panic("player repository is required")
	}
	if cfg.CharacterRepository == nil {
		panic("character repository is required")
	}
	if cfg.RosterRepository == nil {
		panic("roster repository is required")
	}
	if cfg.SwapRepository == nil {
		panic("swap repository is required")
	}

	svc := &service{
		raidRepo:        cfg.RaidRepository,
		playerRepo:      cfg.PlayerRepository,
		characterRepo:   cfg.CharacterRepository,
		rosterRepo:      cfg.RosterRepository,
		swapRepo:        cfg.SwapRepository,
		uuidGenerator:   cfg.UUIDGenerator,
		timeProvider:    cfg.TimeProvider,
		defaultTimezone: cfg.DefaultTimezone,
	}

	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if svc.timeProvider == nil {
		svc.timeProvider = clock.NewRealTimeProvider()
	}
	if svc.defaultTimezone == "" {
		svc.defaultTimezone = "UTC"
	}

	return svc
}

// CreateRaid schedules a raid on a date
func (s *service) CreateRaid(ctx context.Context, input *CreateRaidInput) (*entities.Raid, error) {
	if input == nil {
		return nil, rosterr.InvalidArgument("input cannot be nil")
	}

	date, err := dates.Normalize(input.Date)
	if err != nil {
		return nil, err
	}

	timezone := strings.TrimSpace(input.Timezone)
	if timezone == "" {
		timezone = s.defaultTimezone
	}

	raid := &entities.Raid{
		ID:        s.uuidGenerator.New(),
		Date:      date,
		Time:      strings.TrimSpace(input.Time),
		Timezone:  timezone,
		CreatedAt: s.timeProvider.Now(),
	}

	if err := s.raidRepo.Create(ctx, raid); err != nil {
		return nil, rosterr.Wrapf(err, "failed to create raid on %s", date).
			WithMeta("date", date)
	}

	return raid, nil
}

// GetRaid resolves a raid by date input
func (s *service) GetRaid(ctx context.Context, date string) (*entities.Raid, error) {
	return s.resolveRaid(ctx, date)
}

// ListRaids returns all raids ordered by date ascending
func (s *service) ListRaids(ctx context.Context) ([]*entities.Raid, error) {
	raidList, err := s.raidRepo.List(ctx)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to list raids")
	}

	return raidList, nil
}

// UpcomingRaids returns raids within the coming weeks with headcounts
func (s *service) UpcomingRaids(ctx context.Context, from time.Time, weeks int) ([]*RaidSummary, error) {
	if weeks <= 0 {
		return nil, rosterr.InvalidArgument("weeks must be positive")
	}

	fromDate := dates.Canonical(from)
	untilDate := dates.Canonical(from.AddDate(0, 0, weeks*7))

	raidList, err := s.raidRepo.ListBetween(ctx, fromDate, untilDate)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to list upcoming raids")
	}

	summaries := make([]*RaidSummary, 0, len(raidList))
	for _, raid := range raidList {
		assignments, listErr := s.rosterRepo.ListByRaid(ctx, raid.ID)
		if listErr != nil {
			return nil, rosterr.Wrap(listErr, "failed to load raid roster").
				WithMeta("raid_id", raid.ID)
		}

		summary := &RaidSummary{Raid: raid}
		for _, assignment := range assignments {
			switch assignment.Status {
			case entities.AssignmentStatusMain:
				summary.MainCount++
			case entities.AssignmentStatusBench:
				summary.BenchCount++
			}
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// DeleteRaid removes a raid, its assignments and its swap requests
func (s *service) DeleteRaid(ctx context.Context, date string) error {
	raid, err := s.resolveRaid(ctx, date)
	if err != nil {
		return err
	}

	if err := s.swapRepo.DeleteByRaid(ctx, raid.ID); err != nil {
		return rosterr.Wrap(err, "failed to delete raid swap requests").
			WithMeta("raid_id", raid.ID)
	}
	if err := s.rosterRepo.DeleteByRaid(ctx, raid.ID); err != nil {
		return rosterr.Wrap(err, "failed to delete raid roster").
			WithMeta("raid_id", raid.ID)
	}
	if err := s.raidRepo.Delete(ctx, raid.ID); err != nil {
		return rosterr.Wrap(err, "failed to delete raid").
			WithMeta("raid_id", raid.ID)
	}

	return nil
}

// AddToRoster assigns a player's character to a raid
func (s *service) AddToRoster(ctx context.Context, input *AddToRosterInput) (*entities.RosterAssignment, error) {
	if input == nil {
		return nil, rosterr.InvalidArgument("input cannot be nil")
	}
	if strings.TrimSpace(input.CharacterName) == "" {
		return nil, rosterr.InvalidArgument("character name is required")
	}

	status, ok := entities.ParseAssignmentStatus(input.Status)
	if !ok {
		return nil, rosterr.InvalidArgumentf("unknown status '%s'", input.Status)
	}
	if status == entities.AssignmentStatusSwap {
		return nil, rosterr.InvalidArgument("players cannot be added in swap status")
	}

	raid, err := s.resolveRaid(ctx, input.Date)
	if err != nil {
		return nil, err
	}

	player, err := s.resolvePlayer(ctx, input.DiscordID)
	if err != nil {
		return nil, err
	}

	// Character names resolve within the caller's own characters, so a
	// miss is an ownership problem, not a bare lookup failure
	character, err := s.characterRepo.GetByName(ctx, player.ID, input.CharacterName)
	if err != nil {
		if rosterr.IsNotFound(err) {
			return nil, rosterr.CharacterMismatchf("character '%s' does not belong to you", input.CharacterName).
				WithMeta("player_id", player.ID).
				WithMeta("character_name", input.CharacterName)
		}
		return nil, rosterr.Wrap(err, "failed to resolve character").
			WithMeta("player_id", player.ID)
	}

	assignment := &entities.RosterAssignment{
		ID:            s.uuidGenerator.New(),
		RaidID:        raid.ID,
		PlayerID:      player.ID,
		CharacterID:   character.ID,
		CharacterName: character.Name,
		Position:      input.Position,
		Status:        status,
		CreatedAt:     s.timeProvider.Now(),
	}

	if err := s.rosterRepo.Create(ctx, assignment); err != nil {
		return nil, rosterr.Wrapf(err, "failed to add '%s' to the roster", character.Name).
			WithMeta("raid_id", raid.ID).
			WithMeta("player_id", player.ID)
	}

	return assignment, nil
}

// SetStatus moves a player's assignment along the transition table
func (s *service) SetStatus(ctx context.Context, date, discordID, status string) (*entities.RosterAssignment, error) {
	parsed, ok := entities.ParseAssignmentStatus(status)
	if !ok {
		return nil, rosterr.InvalidArgumentf("unknown status '%s'", status)
	}

	raid, err := s.resolveRaid(ctx, date)
	if err != nil {
		return nil, err
	}

	player, err := s.resolvePlayer(ctx, discordID)
	if err != nil {
		return nil, err
	}

	updated, err := s.rosterRepo.UpdateStatus(ctx, raid.ID, player.ID, parsed)
	if err != nil {
		return nil, rosterr.Wrapf(err, "failed to set status to %s", parsed).
			WithMeta("raid_id", raid.ID).
			WithMeta("player_id", player.ID)
	}

	return updated, nil
}

// RemoveFromRoster deletes a player's assignment on a raid
func (s *service) RemoveFromRoster(ctx context.Context, date, discordID string) error {
	raid, err := s.resolveRaid(ctx, date)
	if err != nil {
		return err
	}

	player, err := s.resolvePlayer(ctx, discordID)
	if err != nil {
		return err
	}

	if err := s.rosterRepo.Remove(ctx, raid.ID, player.ID); err != nil {
		return rosterr.Wrap(err, "failed to remove from roster").
			WithMeta("raid_id", raid.ID).
			WithMeta("player_id", player.ID)
	}

	return nil
}

// SwapPositions directly exchanges two players' slots on a raid
func (s *service) SwapPositions(ctx context.Context, date, discordIDA, discordIDB string) error {
	raid, err := s.resolveRaid(ctx, date)
	if err != nil {
		return err
	}

	playerA, err := s.resolvePlayer(ctx, discordIDA)
	if err != nil {
		return err
	}

	playerB, err := s.resolvePlayer(ctx, discordIDB)
	if err != nil {
		return err
	}

	if err := s.rosterRepo.SwapPair(ctx, raid.ID, playerA.ID, playerB.ID); err != nil {
		return rosterr.Wrap(err, "failed to swap positions").
			WithMeta("raid_id", raid.ID)
	}

	return nil
}

// ViewRoster partitions a raid's assignments by status
func (s *service) ViewRoster(ctx context.Context, date string) (*RosterView, error) {
	raid, err := s.resolveRaid(ctx, date)
	if err != nil {
		return nil, err
	}

	assignments, err := s.rosterRepo.ListByRaid(ctx, raid.ID)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to load raid roster").
			WithMeta("raid_id", raid.ID)
	}

	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].Before(assignments[j])
	})

	view := &RosterView{Raid: raid}
	for _, assignment := range assignments {
		switch assignment.Status {
		case entities.AssignmentStatusMain:
			view.Main = append(view.Main, assignment)
		case entities.AssignmentStatusBench:
			view.Bench = append(view.Bench, assignment)
		case entities.AssignmentStatusAbsent:
			view.Absent = append(view.Absent, assignment)
		case entities.AssignmentStatusSwap:
			view.Swap = append(view.Swap, assignment)
		}
	}

	requests, err := s.swapRepo.ListByRaid(ctx, raid.ID)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to load raid swap requests").
			WithMeta("raid_id", raid.ID)
	}
	for _, request := range requests {
		if request.Status.IsOpen() {
			view.PendingSwaps = append(view.PendingSwaps, request)
		}
	}

	ids := make([]string, 0, len(assignments))
	seen := make(map[string]struct{}, len(assignments))
	collect := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, assignment := range assignments {
		collect(assignment.PlayerID)
	}
	for _, request := range view.PendingSwaps {
		collect(request.RequestingPlayerID)
		collect(request.AcceptingPlayerID)
	}

	fetched := make([]*entities.Player, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i := range ids {
		g.Go(func() error {
			player, getErr := s.playerRepo.Get(gctx, ids[i])
			if getErr != nil {
				return rosterr.Wrap(getErr, "failed to resolve player").
					WithMeta("player_id", ids[i])
			}
			fetched[i] = player
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view.Players = make(map[string]*entities.Player, len(fetched))
	for _, player := range fetched {
		view.Players[player.ID] = player
	}

	return view, nil
}

// Overview aggregates guild-wide totals
func (s *service) Overview(ctx context.Context) (*OverviewStats, error) {
	playerList, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to list players")
	}

	raidList, err := s.raidRepo.List(ctx)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to list raids")
	}

	assignments, err := s.rosterRepo.CountAssignments(ctx)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to count roster assignments")
	}

	openSwaps, err := s.swapRepo.CountOpen(ctx)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to count open swap requests")
	}

	counts := make([]int, len(playerList))
	g, gctx := errgroup.WithContext(ctx)
	for i := range playerList {
		g.Go(func() error {
			owned, listErr := s.characterRepo.ListByPlayer(gctx, playerList[i].ID)
			if listErr != nil {
				return rosterr.Wrap(listErr, "failed to list characters").
					WithMeta("player_id", playerList[i].ID)
			}
			counts[i] = len(owned)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	characters := 0
	for _, count := range counts {
		characters += count
	}

	return &OverviewStats{
		Players:     len(playerList),
		Characters:  characters,
		Raids:       len(raidList),
		Assignments: assignments,
		OpenSwaps:   openSwaps,
	}, nil
}

// resolveRaid normalizes a date input and loads the raid scheduled on it
func (s *service) resolveRaid(ctx context.Context, date string) (*entities.Raid, error) {
	canonical, err := dates.Normalize(date)
	if err != nil {
		return nil, err
	}

	raid, err := s.raidRepo.GetByDate(ctx, canonical)
	if err != nil {
		return nil, rosterr.Wrapf(err, "failed to resolve raid on %s", canonical).
			WithMeta("date", canonical)
	}

	return raid, nil
}

// resolvePlayer loads the player behind a Discord account
func (s *service) resolvePlayer(ctx context.Context, discordID string) (*entities.Player, error) {
	if strings.TrimSpace(discordID) == "" {
		return nil, rosterr.InvalidArgument("discord ID is required")
	}

	player, err := s.playerRepo.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to resolve player").
			WithMeta("discord_id", discordID)
	}

	return player, nil
}
