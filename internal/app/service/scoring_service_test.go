package service

import (
	"context"
	"testing"

	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScoringFixture(t *testing.T) (*ScoringService, *fakeJudgingRepo, *fakeEmitter) {
	t.Helper()
	contest := &model.Contest{ID: "contest-1", Status: model.ContestStatusJudging}

	participationRepo := newFakeParticipationRepo()
	participationRepo.participations["owner-1/contest-1"] = &model.ContestParticipation{
		ID:        "part-1",
		UserID:    "owner-1",
		ContestID: "contest-1",
		Status:    model.ParticipationStatusApproved,
	}

	submissionRepo := newFakeSubmissionRepo(&model.ContestSubmission{
		ID:              "sub-1",
		ParticipationID: "part-1",
		CategoryID:      "cat-1",
		Title:           "Toro Campeon",
		Status:          model.SubmissionStatusSubmitted,
	})

	judgingRepo := newFakeJudgingRepo()
	judgingRepo.assignments["judge-1/contest-1"] = &model.JudgingAssignment{
		ID: "assign-1", JudgeID: "judge-1", ContestID: "contest-1",
	}
	judgingRepo.criteria["crit-1"] = &model.JudgingCriteria{
		ID: "crit-1", ContestID: "contest-1", Name: "Conformación", MaxScore: 10, Weight: 2,
	}
	judgingRepo.criteria["crit-other"] = &model.JudgingCriteria{
		ID: "crit-other", ContestID: "contest-2", Name: "Foreign", MaxScore: 10, Weight: 1,
	}

	emitter := &fakeEmitter{}
	svc := NewScoringService(judgingRepo, submissionRepo, participationRepo, newFakeContestRepo(contest), emitter)
	return svc, judgingRepo, emitter
}

func TestRecordScore(t *testing.T) {
	svc, _, emitter := newScoringFixture(t)

	score, err := svc.RecordScore(context.Background(), "judge-1", "contest-1", "sub-1", RecordScoreRequest{
		CriteriaID: "crit-1",
		Score:      8.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 8.5, score.Score)
	assert.Equal(t, []string{model.EventScoreRecorded}, emitter.events)
}

func TestRecordScoreRequiresAssignment(t *testing.T) {
	svc, _, _ := newScoringFixture(t)

	_, err := svc.RecordScore(context.Background(), "judge-9", "contest-1", "sub-1", RecordScoreRequest{
		CriteriaID: "crit-1",
		Score:      5,
	})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestRecordScoreOutOfRange(t *testing.T) {
	svc, _, _ := newScoringFixture(t)
	ctx := context.Background()

	_, err := svc.RecordScore(ctx, "judge-1", "contest-1", "sub-1", RecordScoreRequest{CriteriaID: "crit-1", Score: 10.5})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.RecordScore(ctx, "judge-1", "contest-1", "sub-1", RecordScoreRequest{CriteriaID: "crit-1", Score: -1})
	assert.ErrorIs(t, err, common.ErrValidation)

	// Max score itself is a legal value.
	_, err = svc.RecordScore(ctx, "judge-1", "contest-1", "sub-1", RecordScoreRequest{CriteriaID: "crit-1", Score: 10})
	assert.NoError(t, err)
}

func TestRecordScoreForeignCriteria(t *testing.T) {
	svc, _, _ := newScoringFixture(t)

	_, err := svc.RecordScore(context.Background(), "judge-1", "contest-1", "sub-1", RecordScoreRequest{
		CriteriaID: "crit-other",
		Score:      5,
	})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRecordScoreDuplicateIsConflict(t *testing.T) {
	svc, _, _ := newScoringFixture(t)
	ctx := context.Background()

	_, err := svc.RecordScore(ctx, "judge-1", "contest-1", "sub-1", RecordScoreRequest{CriteriaID: "crit-1", Score: 7})
	require.NoError(t, err)

	_, err = svc.RecordScore(ctx, "judge-1", "contest-1", "sub-1", RecordScoreRequest{CriteriaID: "crit-1", Score: 9})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestCreateCriteriaValidation(t *testing.T) {
	svc, _, _ := newScoringFixture(t)
	ctx := context.Background()

	_, err := svc.CreateCriteria(ctx, "contest-1", CriteriaRequest{Name: "", MaxScore: 10, Weight: 1})
	assert.ErrorIs(t, err, common.ErrBadRequest)

	_, err = svc.CreateCriteria(ctx, "contest-1", CriteriaRequest{Name: "Pelaje", MaxScore: 0, Weight: 1})
	assert.ErrorIs(t, err, common.ErrValidation)

	criteria, err := svc.CreateCriteria(ctx, "contest-1", CriteriaRequest{Name: "Pelaje", MaxScore: 10, Weight: 1.5})
	require.NoError(t, err)
	assert.Equal(t, "contest-1", criteria.ContestID)
}
