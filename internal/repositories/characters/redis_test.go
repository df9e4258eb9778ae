package characters

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	repo       Repository
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.repo = NewRedisRepository(&RedisRepoConfig{Client: s.mockClient})
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) testCharacter(now time.Time) *entities.Character {
	return &entities.Character{
		ID:        "char-1",
		PlayerID:  "player-1",
		Name:      "Frostweaver",
		Class:     entities.ClassMage,
		Role:      entities.RoleDPS,
		CreatedAt: now,
	}
}

func (s *RedisRepoTestSuite) marshal(character *entities.Character) string {
	jsonData, err := json.Marshal(Data{
		ID:        character.ID,
		PlayerID:  character.PlayerID,
		Name:      character.Name,
		Class:     character.Class.String(),
		Role:      character.Role.String(),
		CreatedAt: character.CreatedAt,
	})
	s.Require().NoError(err)
	return string(jsonData)
}

func (s *RedisRepoTestSuite) TestCreate() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	character := s.testCharacter(now)
	jsonData := s.marshal(character)

	s.mock.ExpectWatch("character_name:player-1:frostweaver")
	s.mock.ExpectExists("character_name:player-1:frostweaver").SetVal(0)
	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("character:char-1", []byte(jsonData), 0).SetVal("OK")
	s.mock.ExpectSet("character_name:player-1:frostweaver", "char-1", 0).SetVal("OK")
	s.mock.ExpectSAdd("player:player-1:characters", "char-1").SetVal(1)
	s.mock.ExpectTxPipelineExec()

	err := s.repo.Create(ctx, character)
	s.NoError(err)
}

func (s *RedisRepoTestSuite) TestCreateDuplicateName() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	character := s.testCharacter(now)

	// The name index is checked case-insensitively
	character.Name = "FROSTWEAVER"

	s.mock.ExpectWatch("character_name:player-1:frostweaver")
	s.mock.ExpectExists("character_name:player-1:frostweaver").SetVal(1)

	err := s.repo.Create(ctx, character)
	s.Error(err)
	s.True(rosterr.IsAlreadyExists(err))
}

func (s *RedisRepoTestSuite) TestCreateValidation() {
	ctx := context.Background()

	err := s.repo.Create(ctx, nil)
	s.Error(err)
	s.True(rosterr.IsInvalidArgument(err))

	err = s.repo.Create(ctx, &entities.Character{PlayerID: "player-1", Name: "Frostweaver"})
	s.Error(err)
	s.True(rosterr.IsInvalidArgument(err))

	err = s.repo.Create(ctx, &entities.Character{ID: "char-1", Name: "Frostweaver"})
	s.Error(err)
	s.True(rosterr.IsInvalidArgument(err))

	err = s.repo.Create(ctx, &entities.Character{ID: "char-1", PlayerID: "player-1"})
	s.Error(err)
	s.True(rosterr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestGet() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	character := s.testCharacter(now)
	jsonData := s.marshal(character)

	// Happy path
	s.mock.ExpectGet("character:char-1").SetVal(jsonData)

	got, err := s.repo.Get(ctx, "char-1")
	s.NoError(err)
	s.Equal("char-1", got.ID)
	s.Equal("player-1", got.PlayerID)
	s.Equal("Frostweaver", got.Name)
	s.Equal(entities.ClassMage, got.Class)
	s.Equal(entities.RoleDPS, got.Role)

	// Missing key
	s.mock.ExpectGet("character:missing").RedisNil()

	_, err = s.repo.Get(ctx, "missing")
	s.Error(err)
	s.True(rosterr.IsNotFound(err))

	// Dependency error
	s.mock.ExpectGet("character:char-1").SetErr(errors.New("redis error"))

	_, err = s.repo.Get(ctx, "char-1")
	s.Error(err)

	// Input validation
	_, err = s.repo.Get(ctx, "")
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestGetByName() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	character := s.testCharacter(now)
	jsonData := s.marshal(character)

	// Lookup ignores the caller's casing
	s.mock.ExpectGet("character_name:player-1:frostweaver").SetVal("char-1")
	s.mock.ExpectGet("character:char-1").SetVal(jsonData)

	got, err := s.repo.GetByName(ctx, "player-1", "FrostWeaver")
	s.NoError(err)
	s.Equal("char-1", got.ID)

	// Unknown name
	s.mock.ExpectGet("character_name:player-1:nosuch").RedisNil()

	_, err = s.repo.GetByName(ctx, "player-1", "Nosuch")
	s.Error(err)
	s.True(rosterr.IsNotFound(err))

	// Input validation
	_, err = s.repo.GetByName(ctx, "", "Frostweaver")
	s.Error(err)

	_, err = s.repo.GetByName(ctx, "player-1", "")
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestListByPlayer() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	first := &entities.Character{ID: "char-1", PlayerID: "player-1", Name: "Frostweaver", Class: entities.ClassMage, Role: entities.RoleDPS, CreatedAt: now}
	second := &entities.Character{ID: "char-2", PlayerID: "player-1", Name: "Oakmantle", Class: entities.ClassDruid, Role: entities.RoleTank, CreatedAt: now.Add(time.Minute)}

	// Members fetch in parallel, so expectation order can't be pinned
	s.mock.MatchExpectationsInOrder(false)
	s.mock.ExpectSMembers("player:player-1:characters").SetVal([]string{"char-2", "char-1"})
	s.mock.ExpectGet("character:char-1").SetVal(s.marshal(first))
	s.mock.ExpectGet("character:char-2").SetVal(s.marshal(second))

	characterList, err := s.repo.ListByPlayer(ctx, "player-1")
	s.NoError(err)
	s.Len(characterList, 2)
	s.Equal("char-1", characterList[0].ID)
	s.Equal("char-2", characterList[1].ID)
}

func (s *RedisRepoTestSuite) TestDelete() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	character := s.testCharacter(now)

	// Happy path cleans up the name index and the owner's set
	s.mock.ExpectGet("character:char-1").SetVal(s.marshal(character))
	s.mock.ExpectDel("character:char-1").SetVal(1)
	s.mock.ExpectDel("character_name:player-1:frostweaver").SetVal(1)
	s.mock.ExpectSRem("player:player-1:characters", "char-1").SetVal(1)

	err := s.repo.Delete(ctx, "char-1")
	s.NoError(err)

	// Missing character
	s.mock.ExpectGet("character:missing").RedisNil()

	err = s.repo.Delete(ctx, "missing")
	s.Error(err)
	s.True(rosterr.IsNotFound(err))

	// Input validation
	err = s.repo.Delete(ctx, "")
	s.Error(err)
}
