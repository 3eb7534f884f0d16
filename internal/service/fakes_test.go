package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hirelens/hirelens-api/internal/dto"
	"github.com/hirelens/hirelens-api/internal/models"
	"github.com/hirelens/hirelens-api/pkg/mailer"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// fakeResultRepo keeps results and attempt rows in memory, enforcing the
// one-row-per-triple rule the unique index gives the real repository.
type fakeResultRepo struct {
	results     map[string]*models.AssessmentResult
	submissions map[string]*models.AssessmentQuizSubmission
	seq         int
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{
		results:     make(map[string]*models.AssessmentResult),
		submissions: make(map[string]*models.AssessmentQuizSubmission),
	}
}

func (f *fakeResultRepo) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeResultRepo) GetOrCreate(_ context.Context, assessmentID, candidateID, quizID string) (models.AssessmentResult, bool, error) {
	for _, r := range f.results {
		if r.AssessmentID == assessmentID && r.CandidateID == candidateID && r.QuizID == quizID {
			return f.withSubmissions(*r), false, nil
		}
	}
	result := &models.AssessmentResult{
		ID:           f.nextID("result"),
		AssessmentID: assessmentID,
		CandidateID:  candidateID,
		QuizID:       quizID,
		Status:       models.ResultStatusStarted,
	}
	f.results[result.ID] = result
	return *result, true, nil
}

func (f *fakeResultRepo) GetByID(_ context.Context, id string) (models.AssessmentResult, error) {
	result, ok := f.results[id]
	if !ok {
		return models.AssessmentResult{}, gorm.ErrRecordNotFound
	}
	return f.withSubmissions(*result), nil
}

func (f *fakeResultRepo) FindByAssessmentAndQuiz(_ context.Context, assessmentID, quizID string) (models.AssessmentResult, error) {
	for _, r := range f.results {
		if r.AssessmentID == assessmentID && r.QuizID == quizID {
			return f.withSubmissions(*r), nil
		}
	}
	return models.AssessmentResult{}, gorm.ErrRecordNotFound
}

func (f *fakeResultRepo) Update(_ context.Context, result *models.AssessmentResult) error {
	stored, ok := f.results[result.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = result.Status
	stored.TotalPoint = result.TotalPoint
	return nil
}

func (f *fakeResultRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.results[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for subID, sub := range f.submissions {
		if sub.ResultID == id {
			delete(f.submissions, subID)
		}
	}
	delete(f.results, id)
	return nil
}

func (f *fakeResultRepo) ListCompleted(_ context.Context, assessmentID string) ([]models.AssessmentResult, error) {
	var completed []models.AssessmentResult
	for _, r := range f.results {
		if r.AssessmentID == assessmentID && r.Status == models.ResultStatusCompleted {
			completed = append(completed, f.withSubmissions(*r))
		}
	}
	return completed, nil
}

func (f *fakeResultRepo) CountCompletedForCandidate(_ context.Context, assessmentID, candidateID string) (int, error) {
	count := 0
	for _, r := range f.results {
		if r.AssessmentID == assessmentID && r.CandidateID == candidateID && r.Status == models.ResultStatusCompleted {
			count++
		}
	}
	return count, nil
}

func (f *fakeResultRepo) AppendSubmission(_ context.Context, submission *models.AssessmentQuizSubmission) error {
	if submission.ID == "" {
		submission.ID = f.nextID("attempt")
	}
	submission.CreatedAt = time.Now()
	copied := *submission
	f.submissions[submission.ID] = &copied
	return nil
}

func (f *fakeResultRepo) GetSubmission(_ context.Context, id string) (models.AssessmentQuizSubmission, error) {
	sub, ok := f.submissions[id]
	if !ok {
		return models.AssessmentQuizSubmission{}, gorm.ErrRecordNotFound
	}
	return *sub, nil
}

func (f *fakeResultRepo) UpdateSubmission(_ context.Context, submission *models.AssessmentQuizSubmission) error {
	stored, ok := f.submissions[submission.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Code = submission.Code
	stored.SubmittedAt = submission.SubmittedAt
	return nil
}

func (f *fakeResultRepo) DeleteSubmissions(_ context.Context, ids []string) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := f.submissions[id]; ok {
			delete(f.submissions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeResultRepo) withSubmissions(result models.AssessmentResult) models.AssessmentResult {
	result.Submissions = nil
	for _, sub := range f.submissions {
		if sub.ResultID == result.ID {
			result.Submissions = append(result.Submissions, *sub)
		}
	}
	return result
}

// fakeAssessmentRepo backs the orchestration-facing operations with maps.
type fakeAssessmentRepo struct {
	assessments map[string]*models.Assessment
	quizLinks   map[string][]models.AssessmentQuiz
	deleted     []string
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{
		assessments: make(map[string]*models.Assessment),
		quizLinks:   make(map[string][]models.AssessmentQuiz),
	}
}

func (f *fakeAssessmentRepo) CreateWithQuizzes(_ context.Context, assessment *models.Assessment, quizIDs []string) error {
	if assessment.ID == "" {
		assessment.ID = fmt.Sprintf("assessment-%d", len(f.assessments)+1)
	}
	copied := *assessment
	f.assessments[assessment.ID] = &copied
	for _, quizID := range quizIDs {
		f.quizLinks[assessment.ID] = append(f.quizLinks[assessment.ID], models.AssessmentQuiz{
			AssessmentID: assessment.ID,
			QuizID:       quizID,
		})
	}
	return nil
}

func (f *fakeAssessmentRepo) Update(_ context.Context, assessment *models.Assessment) error {
	stored, ok := f.assessments[assessment.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Title = assessment.Title
	stored.Description = assessment.Description
	stored.StartAt = assessment.StartAt
	stored.EndAt = assessment.EndAt
	return nil
}

func (f *fakeAssessmentRepo) GetByID(_ context.Context, id string) (models.Assessment, error) {
	stored, ok := f.assessments[id]
	if !ok {
		return models.Assessment{}, gorm.ErrRecordNotFound
	}
	assessment := *stored
	assessment.Quizzes = append([]models.AssessmentQuiz(nil), f.quizLinks[id]...)
	return assessment, nil
}

func (f *fakeAssessmentRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Assessment, error) {
	var owned []models.Assessment
	for id, stored := range f.assessments {
		if stored.OwnerID != ownerID {
			continue
		}
		assessment := *stored
		assessment.Quizzes = append([]models.AssessmentQuiz(nil), f.quizLinks[id]...)
		owned = append(owned, assessment)
	}
	return owned, nil
}

func (f *fakeAssessmentRepo) ListIDsByOwner(_ context.Context, ownerID string) ([]string, error) {
	var ids []string
	for id, stored := range f.assessments {
		if stored.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeAssessmentRepo) AddQuizzes(_ context.Context, assessmentID string, quizIDs []string) (int64, error) {
	for _, quizID := range quizIDs {
		f.quizLinks[assessmentID] = append(f.quizLinks[assessmentID], models.AssessmentQuiz{
			AssessmentID: assessmentID,
			QuizID:       quizID,
		})
	}
	return int64(len(quizIDs)), nil
}

func (f *fakeAssessmentRepo) RemoveQuiz(_ context.Context, assessmentID, quizID string) error {
	links := f.quizLinks[assessmentID]
	kept := links[:0]
	for _, link := range links {
		if link.QuizID != quizID {
			kept = append(kept, link)
		}
	}
	f.quizLinks[assessmentID] = kept
	return nil
}

func (f *fakeAssessmentRepo) CountQuizzes(_ context.Context, assessmentID string) (int, error) {
	return len(f.quizLinks[assessmentID]), nil
}

func (f *fakeAssessmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.assessments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.assessments, id)
	delete(f.quizLinks, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeCandidateRepo keys candidate rows by assessment and candidate id.
type fakeCandidateRepo struct {
	candidates map[string]*models.AssessmentCandidate
	emails     []models.AssessmentCandidateEmail
	createErr  error
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{candidates: make(map[string]*models.AssessmentCandidate)}
}

func pairKey(assessmentID, candidateID string) string {
	return assessmentID + "/" + candidateID
}

func (f *fakeCandidateRepo) Create(_ context.Context, candidate *models.AssessmentCandidate) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *candidate
	f.candidates[pairKey(candidate.AssessmentID, candidate.CandidateID)] = &copied
	return nil
}

func (f *fakeCandidateRepo) GetByPair(_ context.Context, assessmentID, candidateID string) (models.AssessmentCandidate, error) {
	stored, ok := f.candidates[pairKey(assessmentID, candidateID)]
	if !ok {
		return models.AssessmentCandidate{}, gorm.ErrRecordNotFound
	}
	return *stored, nil
}

func (f *fakeCandidateRepo) UpdateStatus(_ context.Context, assessmentID, candidateID string, status models.CandidateStatus) (models.AssessmentCandidate, error) {
	stored, ok := f.candidates[pairKey(assessmentID, candidateID)]
	if !ok {
		return models.AssessmentCandidate{}, gorm.ErrRecordNotFound
	}
	stored.Status = status
	return *stored, nil
}

func (f *fakeCandidateRepo) CreateEmails(_ context.Context, rows []models.AssessmentCandidateEmail) (int64, error) {
	f.emails = append(f.emails, rows...)
	return int64(len(rows)), nil
}

// fakeQuizRepo serves quizzes from a map.
type fakeQuizRepo struct {
	quizzes map[string]models.Quiz
}

func newFakeQuizRepo(quizzes ...models.Quiz) *fakeQuizRepo {
	repo := &fakeQuizRepo{quizzes: make(map[string]models.Quiz, len(quizzes))}
	for _, quiz := range quizzes {
		repo.quizzes[quiz.ID] = quiz
	}
	return repo
}

func (f *fakeQuizRepo) Create(_ context.Context, quiz *models.Quiz) error {
	f.quizzes[quiz.ID] = *quiz
	return nil
}

func (f *fakeQuizRepo) GetByID(_ context.Context, id string) (models.Quiz, error) {
	quiz, ok := f.quizzes[id]
	if !ok {
		return models.Quiz{}, gorm.ErrRecordNotFound
	}
	return quiz, nil
}

func (f *fakeQuizRepo) ListByIDs(_ context.Context, ids []string) ([]models.Quiz, error) {
	var found []models.Quiz
	for _, id := range ids {
		if quiz, ok := f.quizzes[id]; ok {
			found = append(found, quiz)
		}
	}
	return found, nil
}

func (f *fakeQuizRepo) Delete(_ context.Context, id string) error {
	delete(f.quizzes, id)
	return nil
}

// fakePointRepo serves a fixed point category list.
type fakePointRepo struct {
	points []models.AssessmentPoint
}

func (f *fakePointRepo) List(_ context.Context) ([]models.AssessmentPoint, error) {
	return f.points, nil
}

// fakeQuizPointRepo records upserts and answers population counts.
type fakeQuizPointRepo struct {
	rows       map[string]float64
	usersCount int
	belowCount int
}

func newFakeQuizPointRepo() *fakeQuizPointRepo {
	return &fakeQuizPointRepo{rows: make(map[string]float64)}
}

func (f *fakeQuizPointRepo) Upsert(_ context.Context, userID, quizID string, point float64) error {
	f.rows[pairKey(userID, quizID)] = point
	return nil
}

func (f *fakeQuizPointRepo) CountUsersForQuiz(_ context.Context, _, _ string) (int, error) {
	return f.usersCount, nil
}

func (f *fakeQuizPointRepo) CountUsersBelowPoint(_ context.Context, _, _ string, _ float64) (int, error) {
	return f.belowCount, nil
}

// fakeUserRepo resolves emails to stable ids.
type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.users[user.Email] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) EnsureByEmail(_ context.Context, email string) (models.User, error) {
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	user := models.User{
		ID:    fmt.Sprintf("user-%d", len(f.users)+1),
		Name:  email,
		Email: email,
	}
	f.users[email] = user
	return user, nil
}

// fakeActivityRecorder captures recorded actions.
type fakeActivityRecorder struct {
	actions []string
}

func (f *fakeActivityRecorder) Record(_ context.Context, _ string, action string, _ map[string]interface{}) error {
	f.actions = append(f.actions, action)
	return nil
}

// fakeMailer records dispatched messages; failFor addresses are rejected.
type fakeMailer struct {
	sent    []string
	failFor map[string]bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failFor: make(map[string]bool)}
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) (mailer.Result, error) {
	result := mailer.Result{}
	for _, to := range msg.To {
		if f.failFor[to] {
			result.Rejected = append(result.Rejected, to)
			continue
		}
		result.Accepted = append(result.Accepted, to)
		f.sent = append(f.sent, to)
	}
	return result, nil
}

// fakeViewCache is a map-backed AssessmentViewCache.
type fakeViewCache struct {
	views       map[string]*dto.AssessmentView
	invalidated []string
}

func newFakeViewCache() *fakeViewCache {
	return &fakeViewCache{views: make(map[string]*dto.AssessmentView)}
}

func (f *fakeViewCache) Get(_ context.Context, assessmentID string) (*dto.AssessmentView, bool) {
	view, ok := f.views[assessmentID]
	return view, ok
}

func (f *fakeViewCache) Set(_ context.Context, assessmentID string, view *dto.AssessmentView) {
	f.views[assessmentID] = view
}

func (f *fakeViewCache) Invalidate(_ context.Context, assessmentID string) {
	delete(f.views, assessmentID)
	f.invalidated = append(f.invalidated, assessmentID)
}
