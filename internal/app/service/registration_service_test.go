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

func openContest(maxParticipants *int) *model.Contest {
	return &model.Contest{
		ID:                "contest-1",
		Name:              "Feria Ganadera",
		Status:            model.ContestStatusRegistrationOpen,
		RegistrationStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		RegistrationEnd:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		MaxParticipants:   maxParticipants,
	}
}

func newRegistrationFixture(contest *model.Contest, now time.Time) (*RegistrationService, *fakeParticipationRepo, *fakeEmitter) {
	repo := newFakeParticipationRepo()
	emitter := &fakeEmitter{}
	svc := NewRegistrationService(repo, newFakeContestRepo(contest), emitter)
	svc.now = func() time.Time { return now }
	return svc, repo, emitter
}

func TestCheckAdmissionBoundaries(t *testing.T) {
	cap := 10
	contest := openContest(&cap)
	inWindow := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		mutate   func(c *model.Contest)
		count    int
		now      time.Time
		admitted bool
	}{
		{name: "all preconditions hold", count: 0, now: inWindow, admitted: true},
		{name: "status not open", mutate: func(c *model.Contest) { c.Status = model.ContestStatusDraft }, count: 0, now: inWindow, admitted: false},
		{name: "before window", count: 0, now: contest.RegistrationStart.Add(-time.Second), admitted: false},
		{name: "at window start is admitted", count: 0, now: contest.RegistrationStart, admitted: true},
		{name: "at window end is rejected", count: 0, now: contest.RegistrationEnd, admitted: false},
		{name: "after window", count: 0, now: contest.RegistrationEnd.Add(time.Hour), admitted: false},
		{name: "count equals cap is rejected", count: 10, now: inWindow, admitted: false},
		{name: "count equals cap minus one is admitted", count: 9, now: inWindow, admitted: true},
		{name: "no cap means no count limit", mutate: func(c *model.Contest) { c.MaxParticipants = nil }, count: 5000, now: inWindow, admitted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := openContest(&cap)
			if tt.mutate != nil {
				tt.mutate(c)
			}
			err := checkAdmission(c, tt.count, tt.now)
			if tt.admitted {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, common.ErrConflict)
			}
		})
	}
}

func TestRegisterCreatesPendingParticipationAndRole(t *testing.T) {
	svc, repo, emitter := newRegistrationFixture(openContest(nil), time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))

	participation, err := svc.Register(context.Background(), "user-1", "contest-1")
	require.NoError(t, err)
	assert.Equal(t, model.ParticipationStatusPending, participation.Status)

	// Participation row and PARTICIPANT role row were created together.
	assert.Equal(t, model.ContestRoleParticipant, repo.roles["user-1/contest-1"])
	assert.Equal(t, []string{model.EventParticipantRegistered}, emitter.events)
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	svc, repo, _ := newRegistrationFixture(openContest(nil), time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := svc.Register(ctx, "user-1", "contest-1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "user-1", "contest-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.Len(t, repo.participations, 1)
}

func TestRegisterUnknownContest(t *testing.T) {
	svc, _, _ := newRegistrationFixture(openContest(nil), time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))

	_, err := svc.Register(context.Background(), "user-1", "contest-9")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

// Cap scenario: maxParticipants=2, open window. U1 admitted, U1 again is a
// duplicate, U2 admitted, U3 rejected as cap-reached.
func TestRegisterCapScenario(t *testing.T) {
	cap := 2
	svc, repo, _ := newRegistrationFixture(openContest(&cap), time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	p1, err := svc.Register(ctx, "u1", "contest-1")
	require.NoError(t, err)
	assert.Equal(t, model.ParticipationStatusPending, p1.Status)

	_, err = svc.Register(ctx, "u1", "contest-1")
	assert.ErrorIs(t, err, common.ErrConflict)

	_, err = svc.Register(ctx, "u2", "contest-1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "u3", "contest-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConflict)

	assert.Len(t, repo.participations, 2)
}

func TestRegisterRejectedAtWindowEnd(t *testing.T) {
	contest := openContest(nil)
	svc, repo, _ := newRegistrationFixture(contest, contest.RegistrationEnd)

	_, err := svc.Register(context.Background(), "user-1", "contest-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConflict)

	// No partial state on rejection.
	assert.Empty(t, repo.participations)
	assert.Empty(t, repo.roles)
}

func TestReviewParticipation(t *testing.T) {
	svc, _, emitter := newRegistrationFixture(openContest(nil), time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := svc.Register(ctx, "user-1", "contest-1")
	require.NoError(t, err)

	reviewed, err := svc.ReviewParticipation(ctx, "contest-1", "user-1", ReviewParticipationRequest{Status: model.ParticipationStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, model.ParticipationStatusApproved, reviewed.Status)
	assert.Contains(t, emitter.events, model.EventParticipantReviewed)

	_, err = svc.ReviewParticipation(ctx, "contest-1", "user-1", ReviewParticipationRequest{Status: "Bogus"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.ReviewParticipation(ctx, "contest-1", "nobody", ReviewParticipationRequest{Status: model.ParticipationStatusRejected})
	assert.ErrorIs(t, err, common.ErrNotFound)
}
