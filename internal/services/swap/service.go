package swap

//go:generate mockgen -destination=mock/mock_service.go -package=mockswap -source=service.go

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guildops/raid-roster-discord/internal/clock"
	"github.com/guildops/raid-roster-discord/internal/dates"
	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
	"github.com/guildops/raid-roster-discord/internal/repositories/players"
	"github.com/guildops/raid-roster-discord/internal/repositories/raids"
	"github.com/guildops/raid-roster-discord/internal/repositories/rosters"
	"github.com/guildops/raid-roster-discord/internal/repositories/swaps"
)

// Service runs the mediated swap workflow: a main-roster player requests
// out, a benched player accepts, an officer (or auto-approval) resolves
type Service interface {
	// RequestSwap opens a swap request for a main-roster player
	RequestSwap(ctx context.Context, date, discordID, reason string) (*entities.SwapRequest, error)

	// AcceptSwap records a benched player's offer to swap in; when
	// autoApprove is set the approval effect runs immediately
	AcceptSwap(ctx context.Context, requestID int64, discordID string, autoApprove bool) (*entities.SwapRequest, error)

	// ApproveSwap commits an accepted request's roster exchange
	ApproveSwap(ctx context.Context, requestID int64) (*entities.SwapRequest, error)

	// DenySwap rejects an open request without touching the roster
	DenySwap(ctx context.Context, requestID int64, reason string) (*entities.SwapRequest, error)

	// CancelSwap withdraws an open request; only its requester may cancel
	CancelSwap(ctx context.Context, requestID int64, discordID string) (*entities.SwapRequest, error)

	// ExpireOverdue transitions pending requests older than the expiry
	// window and returns the ones it expired
	ExpireOverdue(ctx context.Context, now time.Time, expiry time.Duration) ([]*entities.SwapRequest, error)

	// GetRequest retrieves a swap request by number
	GetRequest(ctx context.Context, requestID int64) (*entities.SwapRequest, error)

	// ListOpenRequests returns unresolved requests, oldest first
	ListOpenRequests(ctx context.Context) ([]*entities.SwapRequest, error)

	// ListRequestsByPlayer returns requests a player is involved in,
	// on either side
	ListRequestsByPlayer(ctx context.Context, discordID string) ([]*entities.SwapRequest, error)

	// DescribeRequests hydrates the raid and players behind each request
	// for display
	DescribeRequests(ctx context.Context, requests []*entities.SwapRequest) ([]*RequestView, error)
}

// RequestView pairs a swap request with the entities a rendering layer
// shows alongside it. Acceptor is nil until someone accepts.
type RequestView struct {
	Request   *entities.SwapRequest
	Raid      *entities.Raid
	Requester *entities.Player
	Acceptor  *entities.Player
}

// service implements the Service interface
type service struct {
	raidRepo     raids.Repository
	playerRepo   players.Repository
	rosterRepo   rosters.Repository
	swapRepo     swaps.Repository
	timeProvider clock.TimeProvider
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	RaidRepository   raids.Repository   // Required
	PlayerRepository players.Repository // Required
	RosterRepository rosters.Repository // Required
	SwapRepository   swaps.Repository   // Required
	TimeProvider     clock.TimeProvider // Optional, will use default if nil
}

// NewService creates a new swap service
func NewService(cfg *ServiceConfig) Service {
	if cfg.RaidRepository == nil {
		panic("raid repository is required")
	}
	if cfg.PlayerRepository == nil {
		panic("player repository is required")
	}
	if cfg.RosterRepository == nil {
		panic("roster repository is required")
	}
	if cfg.SwapRepository == nil {
		panic("swap repository is required")
	}

	svc := &service{
		raidRepo:     cfg.RaidRepository,
		playerRepo:   cfg.PlayerRepository,
		rosterRepo:   cfg.RosterRepository,
		swapRepo:     cfg.SwapRepository,
		timeProvider: cfg.TimeProvider,
	}

	if svc.timeProvider == nil {
		svc.timeProvider = clock.NewRealTimeProvider()
	}

	return svc
}

// RequestSwap opens a swap request for a main-roster player
func (s *service) RequestSwap(ctx context.Context, date, discordID, reason string) (*entities.SwapRequest, error) {
	canonical, err := dates.Normalize(date)
	if err != nil {
		return nil, err
	}

	raid, err := s.raidRepo.GetByDate(ctx, canonical)
	if err != nil {
		return nil, rosterr.Wrapf(err, "failed to resolve raid on %s", canonical).
			WithMeta("date", canonical)
	}

	player, err := s.resolvePlayer(ctx, discordID)
	if err != nil {
		return nil, err
	}

	if err := s.requireStatus(ctx, raid.ID, player.ID, entities.AssignmentStatusMain,
		"requesting player does not hold a main roster spot on this raid"); err != nil {
		return nil, err
	}

	request := &entities.SwapRequest{
		RaidID:             raid.ID,
		RequestingPlayerID: player.ID,
		Reason:             strings.TrimSpace(reason),
		Status:             entities.SwapStatusPending,
		CreatedAt:          s.timeProvider.Now(),
	}

	if err := s.swapRepo.Create(ctx, request); err != nil {
		return nil, rosterr.Wrap(err, "failed to create swap request").
			WithMeta("raid_id", raid.ID).
			WithMeta("player_id", player.ID)
	}

	return request, nil
}

// AcceptSwap records a benched player's offer to swap in
func (s *service) AcceptSwap(ctx context.Context, requestID int64, discordID string, autoApprove bool) (*entities.SwapRequest, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	player, err := s.resolvePlayer(ctx, discordID)
	if err != nil {
		return nil, err
	}

	// The requester holds main on this raid, so the bench requirement
	// also keeps players from accepting their own request
	if err := s.requireStatus(ctx, request.RaidID, player.ID, entities.AssignmentStatusBench,
		"accepting player does not hold a bench spot on this raid"); err != nil {
		return nil, err
	}

	if !request.Accept(player.ID) {
		return nil, rosterr.InvalidStatef("swap request #%d is %s, not pending", request.ID, request.Status)
	}

	if err := s.swapRepo.Update(ctx, request); err != nil {
		return nil, rosterr.Wrapf(err, "failed to accept swap request #%d", request.ID)
	}

	if autoApprove {
		if err := s.approve(ctx, request); err != nil {
			return nil, err
		}
	}

	return request, nil
}

// ApproveSwap commits an accepted request's roster exchange
func (s *service) ApproveSwap(ctx context.Context, requestID int64) (*entities.SwapRequest, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.approve(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

// approve applies the roster exchange and stamps the request approved.
// The ledger moves first: if the exchange fails the request stays
// accepted and a later approval can retry.
func (s *service) approve(ctx context.Context, request *entities.SwapRequest) error {
	if request.Status == entities.SwapStatusPending && request.AcceptingPlayerID == "" {
		return rosterr.MissingAcceptor("no one has accepted this swap request yet").
			WithMeta("request_id", request.ID)
	}
	if request.Status != entities.SwapStatusAccepted {
		return rosterr.InvalidStatef("swap request #%d is %s, not accepted", request.ID, request.Status)
	}

	if err := s.rosterRepo.ApplySwap(ctx, request.RaidID, request.RequestingPlayerID, request.AcceptingPlayerID); err != nil {
		return rosterr.Wrapf(err, "failed to apply swap request #%d", request.ID).
			WithMeta("raid_id", request.RaidID)
	}

	request.Approve(s.timeProvider.Now())
	if err := s.swapRepo.Update(ctx, request); err != nil {
		return rosterr.Wrapf(err, "failed to mark swap request #%d approved", request.ID)
	}

	return nil
}

// DenySwap rejects an open request without touching the roster
func (s *service) DenySwap(ctx context.Context, requestID int64, reason string) (*entities.SwapRequest, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !request.Deny(strings.TrimSpace(reason), s.timeProvider.Now()) {
		return nil, rosterr.InvalidStatef("swap request #%d is already %s", request.ID, request.Status)
	}

	if err := s.swapRepo.Update(ctx, request); err != nil {
		return nil, rosterr.Wrapf(err, "failed to deny swap request #%d", request.ID)
	}

	return request, nil
}

// CancelSwap withdraws an open request
func (s *service) CancelSwap(ctx context.Context, requestID int64, discordID string) (*entities.SwapRequest, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	player, err := s.resolvePlayer(ctx, discordID)
	if err != nil {
		return nil, err
	}

	if player.ID != request.RequestingPlayerID {
		return nil, rosterr.PermissionDenied("only the requesting player can cancel a swap request").
			WithMeta("request_id", request.ID)
	}

	if !request.Cancel(s.timeProvider.Now()) {
		return nil, rosterr.InvalidStatef("swap request #%d is already %s", request.ID, request.Status)
	}

	if err := s.swapRepo.Update(ctx, request); err != nil {
		return nil, rosterr.Wrapf(err, "failed to cancel swap request #%d", request.ID)
	}

	return request, nil
}

// ExpireOverdue transitions pending requests older than the expiry window
func (s *service) ExpireOverdue(ctx context.Context, now time.Time, expiry time.Duration) ([]*entities.SwapRequest, error) {
	if expiry <= 0 {
		return nil, rosterr.InvalidArgument("expiry duration must be positive")
	}

	open, err := s.swapRepo.ListOpen(ctx)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to list open swap requests")
	}

	var expired []*entities.SwapRequest
	for _, request := range open {
		if !request.OverdueAt(now, expiry) {
			continue
		}
		if !request.Expire(now) {
			continue
		}
		if err := s.swapRepo.Update(ctx, request); err != nil {
			return nil, rosterr.Wrapf(err, "failed to expire swap request #%d", request.ID)
		}
		expired = append(expired, request)
	}

	return expired, nil
}

// GetRequest retrieves a swap request by number
func (s *service) GetRequest(ctx context.Context, requestID int64) (*entities.SwapRequest, error) {
	return s.getRequest(ctx, requestID)
}

// ListOpenRequests returns unresolved requests, oldest first
func (s *service) ListOpenRequests(ctx context.Context) ([]*entities.SwapRequest, error) {
	open, err := s.swapRepo.ListOpen(ctx)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to list open swap requests")
	}

	return open, nil
}

// ListRequestsByPlayer returns requests a player is involved in
func (s *service) ListRequestsByPlayer(ctx context.Context, discordID string) ([]*entities.SwapRequest, error) {
	player, err := s.resolvePlayer(ctx, discordID)
	if err != nil {
		return nil, err
	}

	requests, err := s.swapRepo.ListByPlayer(ctx, player.ID)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to list swap requests").
			WithMeta("player_id", player.ID)
	}

	return requests, nil
}

// DescribeRequests hydrates the raid and players behind each request
func (s *service) DescribeRequests(ctx context.Context, requests []*entities.SwapRequest) ([]*RequestView, error) {
	views := make([]*RequestView, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	for i := range requests {
		g.Go(func() error {
			request := requests[i]

			raid, err := s.raidRepo.Get(gctx, request.RaidID)
			if err != nil {
				return rosterr.Wrapf(err, "failed to resolve raid for swap request #%d", request.ID)
			}

			requester, err := s.playerRepo.Get(gctx, request.RequestingPlayerID)
			if err != nil {
				return rosterr.Wrapf(err, "failed to resolve requester for swap request #%d", request.ID)
			}

			view := &RequestView{Request: request, Raid: raid, Requester: requester}
			if request.AcceptingPlayerID != "" {
				acceptor, acceptErr := s.playerRepo.Get(gctx, request.AcceptingPlayerID)
				if acceptErr != nil {
					return rosterr.Wrapf(acceptErr, "failed to resolve acceptor for swap request #%d", request.ID)
				}
				view.Acceptor = acceptor
			}

			views[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return views, nil
}

// getRequest loads a request by number
func (s *service) getRequest(ctx context.Context, requestID int64) (*entities.SwapRequest, error) {
	if requestID <= 0 {
		return nil, rosterr.InvalidArgument("request ID must be positive")
	}

	request, err := s.swapRepo.Get(ctx, requestID)
	if err != nil {
		return nil, rosterr.Wrapf(err, "failed to get swap request #%d", requestID)
	}

	return request, nil
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

// requireStatus checks a player's current assignment status on a raid,
// translating a missing assignment into the same eligibility failure
func (s *service) requireStatus(ctx context.Context, raidID, playerID string, want entities.AssignmentStatus, message string) error {
	assignment, err := s.rosterRepo.Get(ctx, raidID, playerID)
	if err != nil {
		if rosterr.IsNotFound(err) {
			return rosterr.New(rosterr.CodeNotEligible, message).
				WithMeta("raid_id", raidID).
				WithMeta("player_id", playerID)
		}
		return rosterr.Wrap(err, "failed to check roster assignment").
			WithMeta("raid_id", raidID).
			WithMeta("player_id", playerID)
	}

	if assignment.Status != want {
		return rosterr.New(rosterr.CodeNotEligible, message).
			WithMeta("raid_id", raidID).
			WithMeta("player_id", playerID).
			WithMeta("status", assignment.Status.String())
	}

	return nil
}
