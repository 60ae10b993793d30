package service

import (
	"context"
	"testing"

	"concursos_backend/internal/app/rbac"
	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubmissionFixture(t *testing.T) (*SubmissionService, *fakeSubmissionRepo, *fakeRoleRepo) {
	t.Helper()
	contest := &model.Contest{
		ID:     "contest-1",
		Name:   "Feria Ganadera del Norte",
		Status: model.ContestStatusJudging,
	}
	participationRepo := newFakeParticipationRepo()
	participationRepo.participations["owner-1/contest-1"] = &model.ContestParticipation{
		ID:        "part-1",
		UserID:    "owner-1",
		ContestID: "contest-1",
		Status:    model.ParticipationStatusApproved,
	}
	owner := "owner-1"
	submissionRepo := newFakeSubmissionRepo(&model.ContestSubmission{
		ID:              "sub-1",
		ParticipationID: "part-1",
		CategoryID:      "cat-1",
		Title:           "Toro Cebu",
		Status:          model.SubmissionStatusSubmitted,
		OwnerUserID:     &owner,
	})
	roleRepo := newFakeRoleRepo()
	svc := NewSubmissionService(submissionRepo, participationRepo, newFakeContestRepo(contest), rbac.NewResolver(roleRepo), nil)
	return svc, submissionRepo, roleRepo
}

func TestAttachMediaContinuesSortOrder(t *testing.T) {
	svc, repo, _ := newSubmissionFixture(t)
	ctx := context.Background()

	first, err := svc.AttachMedia(ctx, "owner-1", "contest-1", "sub-1", []AttachMediaRequest{
		{URL: "https://cdn.example.com/toro-frente.jpg", Kind: model.MediaKindImage},
	})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, first[0].SortOrder)

	second, err := svc.AttachMedia(ctx, "owner-1", "contest-1", "sub-1", []AttachMediaRequest{
		{URL: "https://cdn.example.com/toro-perfil.jpg", Kind: model.MediaKindImage},
		{URL: "https://cdn.example.com/toro-desfile.mp4", Kind: model.MediaKindVideo},
	})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, 2, second[0].SortOrder)
	assert.Equal(t, 3, second[1].SortOrder)

	// What was stored matches what the caller was told, in one sequence.
	stored, err := repo.ListMediaBySubmission(ctx, "sub-1")
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for i, m := range stored {
		assert.Equal(t, i+1, m.SortOrder)
	}
}

func TestAttachMediaRequiresOwnerOrManager(t *testing.T) {
	svc, _, roleRepo := newSubmissionFixture(t)
	ctx := context.Background()
	media := []AttachMediaRequest{{URL: "https://cdn.example.com/extra.jpg", Kind: model.MediaKindImage}}

	_, err := svc.AttachMedia(ctx, "stranger-1", "contest-1", "sub-1", media)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrForbidden)

	// A contest administrator may attach media to someone else's submission.
	roleRepo.roles["reviewer-1/contest-1"] = model.ContestRoleAdministrator
	_, err = svc.AttachMedia(ctx, "reviewer-1", "contest-1", "sub-1", media)
	assert.NoError(t, err)
}
