package service

import (
	"context"
	"database/sql"

	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/model"
)

// In-memory fakes backing the service tests; uniqueness rules mirror the
// store's constraints so conflict paths behave like the real repositories.

type fakeEmitter struct {
	events []string
}

func (f *fakeEmitter) Emit(_ context.Context, eventType, _, _ string, _ interface{}) {
	f.events = append(f.events, eventType)
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo(ids ...string) *fakeUserRepo {
	users := map[string]*model.User{}
	for _, id := range ids {
		users[id] = &model.User{ID: id, Username: "user-" + id, Role: model.RoleUser}
	}
	return &fakeUserRepo{users: users}
}

// Users are stored and returned by value, like rows scanned from the store;
// callers that blank the hashed password must not alter the stored row.
func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; ok {
		return common.ErrConflict
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			found := *u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	found := *u
	return &found, nil
}

type fakeContestRepo struct {
	contests   map[string]*model.Contest
	categories map[string]*model.ContestCategory
}

func newFakeContestRepo(contests ...*model.Contest) *fakeContestRepo {
	repo := &fakeContestRepo{
		contests:   map[string]*model.Contest{},
		categories: map[string]*model.ContestCategory{},
	}
	for _, c := range contests {
		repo.contests[c.ID] = c
	}
	return repo
}

func (f *fakeContestRepo) CreateContest(_ context.Context, _ *sql.Tx, contest *model.Contest) error {
	if _, ok := f.contests[contest.ID]; ok {
		return common.ErrConflict
	}
	f.contests[contest.ID] = contest
	return nil
}

func (f *fakeContestRepo) UpdateContest(_ context.Context, contest *model.Contest) error {
	if _, ok := f.contests[contest.ID]; !ok {
		return common.ErrNotFound
	}
	f.contests[contest.ID] = contest
	return nil
}

func (f *fakeContestRepo) FindContestByID(_ context.Context, id string) (*model.Contest, error) {
	c, ok := f.contests[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return c, nil
}

func (f *fakeContestRepo) FindContestBySlug(_ context.Context, slug string) (*model.Contest, error) {
	for _, c := range f.contests {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeContestRepo) ListContests(_ context.Context, _, _ int, _ model.ContestStatus, _ string) ([]model.Contest, int, error) {
	out := []model.Contest{}
	for _, c := range f.contests {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (f *fakeContestRepo) CreateCategory(_ context.Context, category *model.ContestCategory) error {
	f.categories[category.ID] = category
	return nil
}

func (f *fakeContestRepo) UpdateCategory(_ context.Context, category *model.ContestCategory) error {
	if _, ok := f.categories[category.ID]; !ok {
		return common.ErrNotFound
	}
	f.categories[category.ID] = category
	return nil
}

func (f *fakeContestRepo) DeleteCategory(_ context.Context, id string) error {
	if _, ok := f.categories[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeContestRepo) FindCategoryByID(_ context.Context, id string) (*model.ContestCategory, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return c, nil
}

func (f *fakeContestRepo) ListCategoriesByContest(_ context.Context, contestID string) ([]model.ContestCategory, error) {
	out := []model.ContestCategory{}
	for _, c := range f.categories {
		if c.ContestID == contestID {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeParticipationRepo struct {
	participations map[string]*model.ContestParticipation // key: userID + "/" + contestID
	roles          map[string]model.ContestRole           // mirrors contest_user_roles
}

func newFakeParticipationRepo() *fakeParticipationRepo {
	return &fakeParticipationRepo{
		participations: map[string]*model.ContestParticipation{},
		roles:          map[string]model.ContestRole{},
	}
}

func (f *fakeParticipationRepo) CreateWithRole(_ context.Context, p *model.ContestParticipation) error {
	key := p.UserID + "/" + p.ContestID
	if _, ok := f.participations[key]; ok {
		return common.ErrConflict
	}
	if _, ok := f.roles[key]; ok {
		return common.ErrConflict
	}
	// Both rows or neither, like the transactional repo.
	f.participations[key] = p
	f.roles[key] = model.ContestRoleParticipant
	return nil
}

func (f *fakeParticipationRepo) FindByUserAndContest(_ context.Context, userID, contestID string) (*model.ContestParticipation, error) {
	p, ok := f.participations[userID+"/"+contestID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return p, nil
}

func (f *fakeParticipationRepo) FindByID(_ context.Context, id string) (*model.ContestParticipation, error) {
	for _, p := range f.participations {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeParticipationRepo) CountByContest(_ context.Context, contestID string) (int, error) {
	count := 0
	for _, p := range f.participations {
		if p.ContestID == contestID && p.Status != model.ParticipationStatusRejected && p.Status != model.ParticipationStatusWithdrawn {
			count++
		}
	}
	return count, nil
}

func (f *fakeParticipationRepo) ListByContest(_ context.Context, contestID string, _, _ int) ([]model.ContestParticipation, int, error) {
	out := []model.ContestParticipation{}
	for _, p := range f.participations {
		if p.ContestID == contestID {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (f *fakeParticipationRepo) UpdateStatus(_ context.Context, id string, status model.ParticipationStatus) error {
	for _, p := range f.participations {
		if p.ID == id {
			p.Status = status
			return nil
		}
	}
	return common.ErrNotFound
}

type fakeJudgingRepo struct {
	assignments   map[string]*model.JudgingAssignment // key: judgeID + "/" + contestID
	roles         map[string]model.ContestRole        // mirrors contest_user_roles
	criteria      map[string]*model.JudgingCriteria
	scores        map[string]*model.JudgingScore // key: submissionID + "/" + judgeID + "/" + criteriaID
	scoreContests map[string]string              // score key -> contestID, stands in for the join
}

func newFakeJudgingRepo() *fakeJudgingRepo {
	return &fakeJudgingRepo{
		assignments:   map[string]*model.JudgingAssignment{},
		roles:         map[string]model.ContestRole{},
		criteria:      map[string]*model.JudgingCriteria{},
		scores:        map[string]*model.JudgingScore{},
		scoreContests: map[string]string{},
	}
}

func (f *fakeJudgingRepo) AssignJudge(_ context.Context, a *model.JudgingAssignment) error {
	key := a.JudgeID + "/" + a.ContestID
	if _, ok := f.assignments[key]; ok {
		return common.ErrConflict
	}
	if _, ok := f.roles[key]; ok {
		return common.ErrConflict
	}
	f.assignments[key] = a
	f.roles[key] = model.ContestRoleJudge
	return nil
}

func (f *fakeJudgingRepo) RemoveJudge(_ context.Context, judgeID, contestID string) error {
	key := judgeID + "/" + contestID
	if _, ok := f.assignments[key]; !ok {
		return common.ErrNotFound
	}
	delete(f.assignments, key)
	delete(f.roles, key)
	return nil
}

func (f *fakeJudgingRepo) FindAssignment(_ context.Context, judgeID, contestID string) (*model.JudgingAssignment, error) {
	a, ok := f.assignments[judgeID+"/"+contestID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return a, nil
}

func (f *fakeJudgingRepo) ListAssignmentsByContest(_ context.Context, contestID string) ([]model.JudgingAssignment, error) {
	out := []model.JudgingAssignment{}
	for _, a := range f.assignments {
		if a.ContestID == contestID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeJudgingRepo) CountScoresByJudgeAndContest(_ context.Context, judgeID, contestID string) (int, error) {
	count := 0
	for key, s := range f.scores {
		if s.JudgeID == judgeID && f.scoreContests[key] == contestID {
			count++
		}
	}
	return count, nil
}

func (f *fakeJudgingRepo) CreateCriteria(_ context.Context, c *model.JudgingCriteria) error {
	f.criteria[c.ID] = c
	return nil
}

func (f *fakeJudgingRepo) UpdateCriteria(_ context.Context, c *model.JudgingCriteria) error {
	if _, ok := f.criteria[c.ID]; !ok {
		return common.ErrNotFound
	}
	f.criteria[c.ID] = c
	return nil
}

func (f *fakeJudgingRepo) DeleteCriteria(_ context.Context, id string) error {
	if _, ok := f.criteria[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.criteria, id)
	return nil
}

func (f *fakeJudgingRepo) FindCriteriaByID(_ context.Context, id string) (*model.JudgingCriteria, error) {
	c, ok := f.criteria[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return c, nil
}

func (f *fakeJudgingRepo) ListCriteriaByContest(_ context.Context, contestID string) ([]model.JudgingCriteria, error) {
	out := []model.JudgingCriteria{}
	for _, c := range f.criteria {
		if c.ContestID == contestID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeJudgingRepo) CreateScore(_ context.Context, s *model.JudgingScore) error {
	key := s.SubmissionID + "/" + s.JudgeID + "/" + s.CriteriaID
	if _, ok := f.scores[key]; ok {
		return common.ErrConflict
	}
	f.scores[key] = s
	return nil
}

// addScore seeds a score row tied to a contest, bypassing validation.
func (f *fakeJudgingRepo) addScore(s *model.JudgingScore, contestID string) {
	key := s.SubmissionID + "/" + s.JudgeID + "/" + s.CriteriaID
	f.scores[key] = s
	f.scoreContests[key] = contestID
}

func (f *fakeJudgingRepo) clearScores() {
	f.scores = map[string]*model.JudgingScore{}
	f.scoreContests = map[string]string{}
}

func (f *fakeJudgingRepo) ListScoresBySubmission(_ context.Context, submissionID string) ([]model.JudgingScore, error) {
	out := []model.JudgingScore{}
	for _, s := range f.scores {
		if s.SubmissionID == submissionID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeJudgingRepo) GetContestResults(_ context.Context, _ string) ([]model.ContestResult, error) {
	return []model.ContestResult{}, nil
}

type fakeSubmissionRepo struct {
	submissions map[string]*model.ContestSubmission
	media       map[string][]model.SubmissionMedia
}

func newFakeSubmissionRepo(submissions ...*model.ContestSubmission) *fakeSubmissionRepo {
	repo := &fakeSubmissionRepo{
		submissions: map[string]*model.ContestSubmission{},
		media:       map[string][]model.SubmissionMedia{},
	}
	for _, s := range submissions {
		repo.submissions[s.ID] = s
	}
	return repo
}

func (f *fakeSubmissionRepo) CreateSubmission(_ context.Context, _ *sql.Tx, s *model.ContestSubmission) error {
	if _, ok := f.submissions[s.ID]; ok {
		return common.ErrConflict
	}
	f.submissions[s.ID] = s
	return nil
}

func (f *fakeSubmissionRepo) FindSubmissionByID(_ context.Context, id string) (*model.ContestSubmission, error) {
	s, ok := f.submissions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return s, nil
}

func (f *fakeSubmissionRepo) ListSubmissionsByContest(_ context.Context, _ string, _, _ int) ([]model.ContestSubmission, int, error) {
	out := []model.ContestSubmission{}
	for _, s := range f.submissions {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (f *fakeSubmissionRepo) ListSubmissionsByParticipation(_ context.Context, participationID string) ([]model.ContestSubmission, error) {
	out := []model.ContestSubmission{}
	for _, s := range f.submissions {
		if s.ParticipationID == participationID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) UpdateSubmissionStatus(_ context.Context, id string, status model.SubmissionStatus) error {
	s, ok := f.submissions[id]
	if !ok {
		return common.ErrNotFound
	}
	s.Status = status
	return nil
}

func (f *fakeSubmissionRepo) DeleteSubmission(_ context.Context, id string) error {
	if _, ok := f.submissions[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.submissions, id)
	return nil
}

func (f *fakeSubmissionRepo) AddMedia(_ context.Context, _ *sql.Tx, media []model.SubmissionMedia) error {
	for _, m := range media {
		f.media[m.SubmissionID] = append(f.media[m.SubmissionID], m)
	}
	return nil
}

func (f *fakeSubmissionRepo) ListMediaBySubmission(_ context.Context, submissionID string) ([]model.SubmissionMedia, error) {
	return f.media[submissionID], nil
}

type fakeRoleRepo struct {
	roles map[string]model.ContestRole // key: userID + "/" + contestID
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: map[string]model.ContestRole{}}
}

func (f *fakeRoleRepo) FindRole(_ context.Context, userID, contestID string) (*model.ContestUserRole, error) {
	role, ok := f.roles[userID+"/"+contestID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &model.ContestUserRole{UserID: userID, ContestID: contestID, Role: role}, nil
}

func (f *fakeRoleRepo) Grant(_ context.Context, _ *sql.Tx, role *model.ContestUserRole) error {
	key := role.UserID + "/" + role.ContestID
	if _, ok := f.roles[key]; ok {
		return common.ErrConflict
	}
	f.roles[key] = role.Role
	return nil
}

func (f *fakeRoleRepo) Revoke(_ context.Context, _ *sql.Tx, userID, contestID string, _ model.ContestRole) error {
	delete(f.roles, userID+"/"+contestID)
	return nil
}
