package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hirelens/hirelens-api/internal/dto"
	"github.com/hirelens/hirelens-api/internal/models"
	"github.com/hirelens/hirelens-api/internal/observability"
)

type assessmentFixture struct {
	svc         AssessmentService
	assessments *fakeAssessmentRepo
	candidates  *fakeCandidateRepo
	results     *fakeResultRepo
	users       *fakeUserRepo
	mail        *fakeMailer
	activity    *fakeActivityRecorder
	cache       *fakeViewCache
}

func newAssessmentFixture(t *testing.T) *assessmentFixture {
	t.Helper()
	observability.RegisterMetrics()

	assessments := newFakeAssessmentRepo()
	candidates := newFakeCandidateRepo()
	results := newFakeResultRepo()
	users := newFakeUserRepo()
	mail := newFakeMailer()
	activity := &fakeActivityRecorder{}
	cache := newFakeViewCache()

	svc := NewAssessmentService(AssessmentServiceConfig{
		Assessments: assessments,
		Candidates:  candidates,
		Results:     results,
		Users:       users,
		Points: &fakePointRepo{points: []models.AssessmentPoint{
			{ID: "p1", Name: "easyQuizCompletionPoint", Point: 1000},
			{ID: "p2", Name: "speedPoint", Point: 1000},
		}},
		Mailer:     mail,
		Activity:   activity,
		Cache:      cache,
		BaseURL:    "https://app.example.com",
		PointScale: 1000,
		Logger:     testLogger(),
	})

	return &assessmentFixture{
		svc:         svc,
		assessments: assessments,
		candidates:  candidates,
		results:     results,
		users:       users,
		mail:        mail,
		activity:    activity,
		cache:       cache,
	}
}

func (fx *assessmentFixture) createAssessment(t *testing.T) models.Assessment {
	t.Helper()
	created, err := fx.svc.Create(context.Background(), dto.CreateAssessmentParams{
		UserID:      strPtr("owner1"),
		Title:       strPtr("Backend screening"),
		Description: strPtr("Round one"),
		QuizIDs:     []string{"quiz1"},
	})
	require.NoError(t, err)
	return created
}

func TestAssessmentCreate(t *testing.T) {
	fx := newAssessmentFixture(t)

	created := fx.createAssessment(t)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "owner1", created.OwnerID)
	require.Equal(t, "Backend screening", created.Title)
	require.Len(t, created.Quizzes, 1)
	require.Equal(t, "quiz1", created.Quizzes[0].QuizID)
}

func TestAssessmentCreateSanitizesMarkup(t *testing.T) {
	fx := newAssessmentFixture(t)

	created, err := fx.svc.Create(context.Background(), dto.CreateAssessmentParams{
		UserID:      strPtr("owner1"),
		Title:       strPtr(`<script>alert(1)</script>Screening`),
		Description: strPtr(`<b>bold</b> text`),
		QuizIDs:     []string{"quiz1"},
	})
	require.NoError(t, err)
	require.Equal(t, "Screening", created.Title)
	require.Equal(t, "bold text", created.Description)
}

func TestAssessmentCreateFieldOrder(t *testing.T) {
	fx := newAssessmentFixture(t)

	_, err := fx.svc.Create(context.Background(), dto.CreateAssessmentParams{})
	require.EqualError(t, err, "missing userId")

	_, err = fx.svc.Create(context.Background(), dto.CreateAssessmentParams{
		UserID: strPtr("owner1"),
	})
	require.EqualError(t, err, "missing title")

	_, err = fx.svc.Create(context.Background(), dto.CreateAssessmentParams{
		UserID:      strPtr("owner1"),
		Title:       strPtr("t"),
		Description: strPtr("d"),
		QuizIDs:     []string{},
	})
	require.EqualError(t, err, "0 quizId found")
}

func TestAssessmentUpdate(t *testing.T) {
	fx := newAssessmentFixture(t)
	created := fx.createAssessment(t)

	updated, err := fx.svc.Update(context.Background(), dto.UpdateAssessmentParams{
		AssessmentID: &created.ID,
		Title:        strPtr("Renamed"),
		Description:  strPtr("New round"),
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, "New round", updated.Description)
	require.Contains(t, fx.cache.invalidated, created.ID)
}

func TestAssessmentUpdateUnknownID(t *testing.T) {
	fx := newAssessmentFixture(t)

	_, err := fx.svc.Update(context.Background(), dto.UpdateAssessmentParams{
		AssessmentID: strPtr("missing"),
		Title:        strPtr("t"),
		Description:  strPtr("d"),
	})
	require.ErrorIs(t, err, ErrAssessmentNotFound)
}

func TestAssessmentGetBuildsView(t *testing.T) {
	fx := newAssessmentFixture(t)
	created := fx.createAssessment(t)

	require.NoError(t, fx.candidates.Create(context.Background(), &models.AssessmentCandidate{
		AssessmentID: created.ID,
		CandidateID:  "cand1",
		Status:       models.CandidateStatusPending,
		Candidate:    models.User{ID: "cand1", Name: "Dana", Email: "dana@example.com"},
	}))
	stored := fx.assessments.assessments[created.ID]
	stored.Candidates = []models.AssessmentCandidate{
		*fx.candidates.candidates[pairKey(created.ID, "cand1")],
	}

	view, err := fx.svc.Get(context.Background(), dto.AssessmentIDParam{AssessmentID: &created.ID})
	require.NoError(t, err)
	require.Equal(t, created.ID, view.Data.ID)
	require.Len(t, view.Quizzes, 1)
	require.Len(t, view.Candidates, 1)

	// A candidate without any result still gets an empty submissions bucket.
	require.Len(t, view.Submissions, 1)
	require.Equal(t, "cand1", view.Submissions[0].CandidateID)
	require.Empty(t, view.Submissions[0].Data)
}

func TestAssessmentGetUsesCache(t *testing.T) {
	fx := newAssessmentFixture(t)
	created := fx.createAssessment(t)

	first, err := fx.svc.Get(context.Background(), dto.AssessmentIDParam{AssessmentID: &created.ID})
	require.NoError(t, err)

	delete(fx.assessments.assessments, created.ID)

	second, err := fx.svc.Get(context.Background(), dto.AssessmentIDParam{AssessmentID: &created.ID})
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestAssessmentGetUnknownID(t *testing.T) {
	fx := newAssessmentFixture(t)

	_, err := fx.svc.Get(context.Background(), dto.AssessmentIDParam{AssessmentID: strPtr("missing")})
	require.ErrorIs(t, err, ErrAssessmentNotFound)
}

func TestAssessmentAddCandidates(t *testing.T) {
	fx := newAssessmentFixture(t)
	created := fx.createAssessment(t)

	count, err := fx.svc.AddCandidates(context.Background(), dto.AddCandidatesParams{
		AssessmentID:       &created.ID,
		NewCandidateEmails: []string{"a@example.com", "b@example.com"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
	require.Len(t, fx.mail.sent, 2)

	user, err := fx.users.EnsureByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	candidate, err := fx.candidates.GetByPair(context.Background(), created.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, models.CandidateStatusPending, candidate.Status)
	require.NotEmpty(t, candidate.Token)

	for _, row := range fx.candidates.emails {
		require.Equal(t, 200, row.StatusCode)
		require.Empty(t, row.ErrorMessage)
	}
}

func TestAssessmentAddCandidatesRecordsDispatchFailure(t *testing.T) {
	fx := newAssessmentFixture(t)
	created := fx.createAssessment(t)
	fx.mail.failFor["bad@example.com"] = true

	count, err := fx.svc.AddCandidates(context.Background(), dto.AddCandidatesParams{
		AssessmentID:       &created.ID,
		NewCandidateEmails: []string{"bad@example.com", "ok@example.com"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	byEmail := make(map[string]models.AssessmentCandidateEmail)
	for _, row := range fx.candidates.emails {
		byEmail[row.Email] = row
	}
	require.NotEmpty(t, byEmail["bad@example.com"].ErrorMessage)
	require.Zero(t, byEmail["bad@example.com"].StatusCode)
	require.Equal(t, 200, byEmail["ok@example.com"].StatusCode)
}

func TestAssessmentAddCandidatesFieldOrder(t *testing.T) {
	fx := newAssessmentFixture(t)

	_, err := fx.svc.AddCandidates(context.Background(), dto.AddCandidatesParams{})
	require.EqualError(t, err, "missing assessmentId")

	_, err = fx.svc.AddCandidates(context.Background(), dto.AddCandidatesParams{
		AssessmentID:       strPtr("a1"),
		NewCandidateEmails: []string{},
	})
	require.EqualError(t, err, "0 email found")
}

func TestAcceptCandidate(t *testing.T) {
	fx := newAssessmentFixture(t)
	created := fx.createAssessment(t)

	_, err := fx.svc.AddCandidates(context.Background(), dto.AddCandidatesParams{
		AssessmentID:       &created.ID,
		NewCandidateEmails: []string{"cand@example.com"},
	})
	require.NoError(t, err)
	user, err := fx.users.EnsureByEmail(context.Background(), "cand@example.com")
	require.NoError(t, err)
	invited, err := fx.candidates.GetByPair(context.Background(), created.ID, user.ID)
	require.NoError(t, err)

	accepted, err := fx.svc.AcceptCandidate(context.Background(), dto.AcceptCandidateParams{
		AssessmentID: &created.ID,
		Token:        &invited.Token,
		UserID:       &user.ID,
	})
	require.NoError(t, err)
	require.Equal(t, models.CandidateStatusAccepted, accepted.Status)
	require.Equal(t, []string{models.UserActionAccept}, fx.activity.actions)

	// Accepting again changes nothing and records no second action.
	again, err := fx.svc.AcceptCandidate(context.Background(), dto.AcceptCandidateParams{
		AssessmentID: &created.ID,
		Token:        &invited.Token,
		UserID:       &user.ID,
	})
	require.NoError(t, err)
	require.Equal(t, models.CandidateStatusAccepted, again.Status)
	require.Len(t, fx.activity.actions, 1)
}

func TestAcceptCandidateWrongToken(t *testing.T) {
	fx := newAssessmentFixture(t)
	created := fx.createAssessment(t)

	_, err := fx.svc.AddCandidates(context.Background(), dto.AddCandidatesParams{
		AssessmentID:       &created.ID,
		NewCandidateEmails: []string{"cand@example.com"},
	})
	require.NoError(t, err)
	user, err := fx.users.EnsureByEmail(context.Background(), "cand@example.com")
	require.NoError(t, err)

	_, err = fx.svc.AcceptCandidate(context.Background(), dto.AcceptCandidateParams{
		AssessmentID: &created.ID,
		Token:        strPtr("completely-wrong-token"),
		UserID:       &user.ID,
	})
	require.ErrorIs(t, err, ErrInvalidInviteToken)

	invited, err := fx.candidates.GetByPair(context.Background(), created.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, models.CandidateStatusPending, invited.Status)
	require.Empty(t, fx.activity.actions)
}

func TestAcceptCandidateUnknownPair(t *testing.T) {
	fx := newAssessmentFixture(t)

	_, err := fx.svc.AcceptCandidate(context.Background(), dto.AcceptCandidateParams{
		AssessmentID: strPtr("a1"),
		Token:        strPtr("tok"),
		UserID:       strPtr("nobody"),
	})
	require.ErrorIs(t, err, ErrCandidateNotFound)
}

func TestAssessmentDelete(t *testing.T) {
	fx := newAssessmentFixture(t)
	created := fx.createAssessment(t)

	require.NoError(t, fx.svc.Delete(context.Background(), dto.AssessmentIDParam{AssessmentID: &created.ID}))
	require.Contains(t, fx.assessments.deleted, created.ID)
	require.Contains(t, fx.cache.invalidated, created.ID)

	_, err := fx.svc.Get(context.Background(), dto.AssessmentIDParam{AssessmentID: &created.ID})
	require.ErrorIs(t, err, ErrAssessmentNotFound)
}

func TestAssessmentQuizLinks(t *testing.T) {
	fx := newAssessmentFixture(t)
	created := fx.createAssessment(t)

	count, err := fx.svc.AddQuizzes(context.Background(), dto.AddQuizzesParams{
		AssessmentID: &created.ID,
		QuizIDs:      []string{"quiz2", "quiz3"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	require.NoError(t, fx.svc.RemoveQuiz(context.Background(), dto.RemoveQuizParams{
		AssessmentID: &created.ID,
		QuizID:       strPtr("quiz2"),
	}))

	refreshed, err := fx.assessments.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, refreshed.Quizzes, 2)
}

func TestDeleteSubmissions(t *testing.T) {
	fx := newAssessmentFixture(t)

	_, err := fx.svc.DeleteSubmissions(context.Background(), dto.DeleteSubmissionsParams{})
	require.EqualError(t, err, "missing submissionIds")

	// An empty list is a no-op, not an error.
	deleted, err := fx.svc.DeleteSubmissions(context.Background(), dto.DeleteSubmissionsParams{
		SubmissionIDs: []string{},
	})
	require.NoError(t, err)
	require.Zero(t, deleted)

	attempt := models.AssessmentQuizSubmission{ResultID: "result1"}
	require.NoError(t, fx.results.AppendSubmission(context.Background(), &attempt))
	deleted, err = fx.svc.DeleteSubmissions(context.Background(), dto.DeleteSubmissionsParams{
		SubmissionIDs: []string{attempt.ID},
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)
}

func TestAssessmentGetManyProjection(t *testing.T) {
	fx := newAssessmentFixture(t)
	created := fx.createAssessment(t)

	items, err := fx.svc.GetMany(context.Background(), dto.UserIDParam{UserID: strPtr("owner1")})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, created.ID, items[0].ID)
	require.Equal(t, []string{"quiz1"}, items[0].QuizIDs)

	ids, err := fx.svc.GetIDs(context.Background(), dto.UserIDParam{UserID: strPtr("owner1")})
	require.NoError(t, err)
	require.Equal(t, []string{created.ID}, ids)
}
