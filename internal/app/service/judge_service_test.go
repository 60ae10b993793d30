package service

import (
	"context"
	"testing"
	"time"

	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJudgeFixture(t *testing.T) (*JudgeService, *fakeJudgingRepo, *fakeEmitter) {
	t.Helper()
	contest := &model.Contest{
		ID:     "contest-1",
		Name:   "Expo Ganadera Nacional",
		Status: model.ContestStatusJudging,
	}
	judgingRepo := newFakeJudgingRepo()
	emitter := &fakeEmitter{}
	svc := NewJudgeService(judgingRepo, newFakeUserRepo("judge-1", "judge-2", "admin-1"), newFakeContestRepo(contest), emitter)
	return svc, judgingRepo, emitter
}

func TestAssignJudge(t *testing.T) {
	svc, repo, emitter := newJudgeFixture(t)
	ctx := context.Background()

	assignment, err := svc.AssignJudge(ctx, "admin-1", "contest-1", "judge-1")
	require.NoError(t, err)
	assert.Equal(t, "judge-1", assignment.JudgeID)
	assert.Equal(t, "contest-1", assignment.ContestID)

	// Assignment row and JUDGE role row were created together.
	_, ok := repo.assignments["judge-1/contest-1"]
	assert.True(t, ok)
	assert.Equal(t, model.ContestRoleJudge, repo.roles["judge-1/contest-1"])
	assert.Equal(t, []string{model.EventJudgeAssigned}, emitter.events)
}

func TestAssignJudgeTwiceIsConflict(t *testing.T) {
	svc, repo, _ := newJudgeFixture(t)
	ctx := context.Background()

	_, err := svc.AssignJudge(ctx, "admin-1", "contest-1", "judge-1")
	require.NoError(t, err)

	_, err = svc.AssignJudge(ctx, "admin-1", "contest-1", "judge-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConflict)

	// At most one assignment row exists afterward.
	assert.Len(t, repo.assignments, 1)
}

func TestAssignJudgeUnknownUser(t *testing.T) {
	svc, _, _ := newJudgeFixture(t)

	_, err := svc.AssignJudge(context.Background(), "admin-1", "contest-1", "ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAssignJudgeUnknownContest(t *testing.T) {
	svc, _, _ := newJudgeFixture(t)

	_, err := svc.AssignJudge(context.Background(), "admin-1", "contest-9", "judge-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRemoveJudgeWithoutScores(t *testing.T) {
	svc, repo, emitter := newJudgeFixture(t)
	ctx := context.Background()

	_, err := svc.AssignJudge(ctx, "admin-1", "contest-1", "judge-1")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveJudge(ctx, "admin-1", "contest-1", "judge-1"))

	// Zero assignment and zero role rows remain for the pair.
	assert.Empty(t, repo.assignments)
	assert.Empty(t, repo.roles)
	assert.Equal(t, []string{model.EventJudgeAssigned, model.EventJudgeRemoved}, emitter.events)
}

func TestRemoveJudgeWithScoresIsRefused(t *testing.T) {
	svc, repo, _ := newJudgeFixture(t)
	ctx := context.Background()

	_, err := svc.AssignJudge(ctx, "admin-1", "contest-1", "judge-1")
	require.NoError(t, err)

	repo.addScore(&model.JudgingScore{
		ID:           "score-1",
		SubmissionID: "sub-1",
		JudgeID:      "judge-1",
		CriteriaID:   "crit-1",
		Score:        8,
		CreatedAt:    time.Now(),
	}, "contest-1")

	err = svc.RemoveJudge(ctx, "admin-1", "contest-1", "judge-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConflict)

	// Assignment retained permanently while scores exist.
	assert.Len(t, repo.assignments, 1)
	assert.Equal(t, model.ContestRoleJudge, repo.roles["judge-1/contest-1"])

	// After the score is cleared the same removal succeeds.
	repo.clearScores()
	require.NoError(t, svc.RemoveJudge(ctx, "admin-1", "contest-1", "judge-1"))
	assert.Empty(t, repo.assignments)
	assert.Empty(t, repo.roles)
}

func TestRemoveJudgeNotAssigned(t *testing.T) {
	svc, _, _ := newJudgeFixture(t)

	err := svc.RemoveJudge(context.Background(), "admin-1", "contest-1", "judge-2")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestScoresInAnotherContestDoNotBlockRemoval(t *testing.T) {
	svc, repo, _ := newJudgeFixture(t)
	ctx := context.Background()

	_, err := svc.AssignJudge(ctx, "admin-1", "contest-1", "judge-1")
	require.NoError(t, err)

	// The score count joins through the contest, so foreign scores are ignored.
	repo.addScore(&model.JudgingScore{
		ID:           "score-1",
		SubmissionID: "sub-other",
		JudgeID:      "judge-1",
		CriteriaID:   "crit-other",
		Score:        5,
	}, "contest-other")

	assert.NoError(t, svc.RemoveJudge(ctx, "admin-1", "contest-1", "judge-1"))
}
