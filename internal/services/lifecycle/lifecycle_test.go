package lifecycle

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/apperr"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/models"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/realtime"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/repository"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/services/wallet"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/testutil"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/validator"
)

type sent struct {
	to uuid.UUID
	ev realtime.Event
}

type recorder struct {
	mu     sync.Mutex
	events []sent
}

func (r *recorder) Notify(_ context.Context, to uuid.UUID, ev realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sent{to: to, ev: ev})
}

func (r *recorder) types(to uuid.UUID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, s := range r.events {
		if s.to == to {
			out = append(out, s.ev.Type)
		}
	}
	return out
}

type fixture struct {
	ctx   context.Context
	ctl   *Controller
	store *repository.Store
	rec   *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	store := repository.New(db)
	rec := &recorder{}
	return &fixture{
		ctx:   context.Background(),
		ctl:   NewController(store, wallet.NewWalletService(db), rec, validator.New()),
		store: store,
		rec:   rec,
	}
}

func (f *fixture) user(t *testing.T, kind models.UserType) *models.User {
	t.Helper()
	u := &models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FirstName:    "First",
		LastName:     "Last",
		UserType:     kind,
		Country:      "MD",
		City:         "Chisinau",
		IsActive:     true,
	}
	require.NoError(t, f.store.Users.Create(f.ctx, u))
	return u
}

func (f *fixture) task(t *testing.T, owner *models.User) *TaskView {
	t.Helper()
	tv, err := f.ctl.CreateTask(f.ctx, owner, TaskInput{
		Title:       "Fix the sink",
		Description: "Kitchen sink is leaking",
		Country:     "MD",
		City:        "Chisinau",
	})
	require.NoError(t, err)
	return tv
}

func (f *fixture) propose(t *testing.T, who *models.User, taskID uuid.UUID, price float64) *models.Proposal {
	t.Helper()
	p, err := f.ctl.CreateProposal(f.ctx, who, ProposalInput{TaskID: taskID.String(), Message: "I can do it", Price: price})
	require.NoError(t, err)
	return p
}

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperr.KindOf(err), err.Error())
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestCreateTaskIsOpenAndOwnedByCaller(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeClient)

	tv := f.task(t, owner)

	assert.Equal(t, models.TaskOpen, tv.Status)
	assert.Equal(t, owner.ID, tv.ClientID)
	assert.Equal(t, models.CurrencyMDL, tv.Currency)
	require.NotNil(t, tv.Client)
	assert.Equal(t, owner.ID, tv.Client.ID)
}

func TestCreateTaskBudgetRoundTrip(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeBoth)

	created, err := f.ctl.CreateTask(f.ctx, owner, TaskInput{
		Title:       "Paint fence",
		Description: "Two coats",
		Country:     "ro",
		BudgetMin:   floatPtr(100),
		BudgetMax:   floatPtr(200),
		Currency:    "EUR",
		Skills:      []string{"painting", " "},
		Deadline:    "2030-05-01",
	})
	require.NoError(t, err)

	got, err := f.ctl.GetTask(f.ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.BudgetMin)
	require.NotNil(t, got.BudgetMax)
	assert.InDelta(t, 100, *got.BudgetMin, 0.001)
	assert.InDelta(t, 200, *got.BudgetMax, 0.001)
	assert.Equal(t, models.CurrencyEUR, got.Currency)
	assert.Equal(t, "RO", got.Country)
	assert.JSONEq(t, `["painting"]`, string(got.Skills))
	require.NotNil(t, got.Deadline)
	assert.Equal(t, "2030-05-01", got.Deadline.UTC().Format("2006-01-02"))
	assert.Equal(t, owner.ID, got.Client.ID)
}

func TestCreateTaskValidation(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeClient)

	_, err := f.ctl.CreateTask(f.ctx, owner, TaskInput{
		Title:       "Paint fence",
		Description: "Two coats",
		Country:     "MD",
		BudgetMin:   floatPtr(300),
		BudgetMax:   floatPtr(200),
		Deadline:    "next week",
	})
	e := apperr.As(err)
	require.Equal(t, apperr.KindValidation, e.Kind)
	assert.Contains(t, e.Fields, "budgetMax")
	assert.Contains(t, e.Fields, "deadline")

	_, err = f.ctl.CreateTask(f.ctx, owner, TaskInput{Title: "x", Description: "y", Country: "FR", Currency: "GBP"})
	e = apperr.As(err)
	require.Equal(t, apperr.KindValidation, e.Kind)
	assert.Contains(t, e.Fields, "country")
	assert.Contains(t, e.Fields, "currency")

	_, err = f.ctl.CreateTask(f.ctx, owner, TaskInput{})
	e = apperr.As(err)
	require.Equal(t, apperr.KindValidation, e.Kind)
	assert.Contains(t, e.Fields, "title")
	assert.Contains(t, e.Fields, "description")
}

func TestCreateTaskRequiresClientRole(t *testing.T) {
	f := newFixture(t)
	freelancer := f.user(t, models.UserTypeFreelancer)

	_, err := f.ctl.CreateTask(f.ctx, freelancer, TaskInput{Title: "x", Description: "y", Country: "MD"})
	assertKind(t, err, apperr.KindForbidden)
}

func TestListTasksPagination(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeClient)
	for i := 0; i < 12; i++ {
		f.task(t, owner)
	}

	page, err := f.ctl.ListTasks(f.ctx, ListQuery{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Tasks, 5)
	assert.Equal(t, int64(12), page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.Pages)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 5, page.Pagination.Limit)

	last, err := f.ctl.ListTasks(f.ctx, ListQuery{Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, last.Tasks, 2)
}

func TestListTasksDefaultsAndClamps(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeClient)
	tv := f.task(t, owner)
	_, err := f.ctl.CancelTask(f.ctx, owner, tv.ID)
	require.NoError(t, err)
	f.task(t, owner)

	page, err := f.ctl.ListTasks(f.ctx, ListQuery{Page: -1, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, maxPageSize, page.Pagination.Limit)
	assert.Equal(t, int64(1), page.Pagination.Total, "only open tasks by default")

	cancelled, err := f.ctl.ListTasks(f.ctx, ListQuery{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, cancelled.Pagination.Limit)
	require.Len(t, cancelled.Tasks, 1)
	assert.Equal(t, tv.ID, cancelled.Tasks[0].ID)

	_, err = f.ctl.ListTasks(f.ctx, ListQuery{Status: "bogus"})
	assertKind(t, err, apperr.KindValidation)
}

func TestGetTaskNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctl.GetTask(f.ctx, uuid.New())
	assertKind(t, err, apperr.KindNotFound)
}

func TestUpdateTask(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeClient)
	other := f.user(t, models.UserTypeClient)
	tv := f.task(t, owner)

	_, err := f.ctl.UpdateTask(f.ctx, other, tv.ID, TaskUpdate{Title: strPtr("Hijack")})
	assertKind(t, err, apperr.KindForbidden)

	_, err = f.ctl.UpdateTask(f.ctx, owner, uuid.New(), TaskUpdate{Title: strPtr("x")})
	assertKind(t, err, apperr.KindNotFound)

	_, err = f.ctl.UpdateTask(f.ctx, owner, tv.ID, TaskUpdate{Status: strPtr("completed")})
	assertKind(t, err, apperr.KindValidation)

	_, err = f.ctl.UpdateTask(f.ctx, owner, tv.ID, TaskUpdate{BudgetMin: floatPtr(50), BudgetMax: floatPtr(10)})
	assertKind(t, err, apperr.KindValidation)

	updated, err := f.ctl.UpdateTask(f.ctx, owner, tv.ID, TaskUpdate{Title: strPtr("  Fix both sinks "), City: strPtr("Balti")})
	require.NoError(t, err)
	assert.Equal(t, "Fix both sinks", updated.Title)
	assert.Equal(t, "Balti", updated.City)
	assert.Equal(t, models.TaskOpen, updated.Status)
	assert.Equal(t, owner.ID, updated.Client.ID)

	_, err = f.ctl.CancelTask(f.ctx, owner, tv.ID)
	require.NoError(t, err)
	_, err = f.ctl.UpdateTask(f.ctx, owner, tv.ID, TaskUpdate{Title: strPtr("late")})
	assertKind(t, err, apperr.KindConflict)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeClient)
	other := f.user(t, models.UserTypeBoth)
	tv := f.task(t, owner)
	f.propose(t, other, tv.ID, 40)

	err := f.ctl.DeleteTask(f.ctx, other, tv.ID)
	assertKind(t, err, apperr.KindForbidden)

	require.NoError(t, f.ctl.DeleteTask(f.ctx, owner, tv.ID))
	_, err = f.ctl.GetTask(f.ctx, tv.ID)
	assertKind(t, err, apperr.KindNotFound)

	mine, err := f.ctl.ListMyProposals(f.ctx, other)
	require.NoError(t, err)
	assert.Empty(t, mine)

	err = f.ctl.DeleteTask(f.ctx, owner, tv.ID)
	assertKind(t, err, apperr.KindNotFound)
}

func TestCreateProposalRules(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeBoth)
	free := f.user(t, models.UserTypeFreelancer)
	client := f.user(t, models.UserTypeClient)
	tv := f.task(t, owner)

	_, err := f.ctl.CreateProposal(f.ctx, owner, ProposalInput{TaskID: tv.ID.String(), Message: "me", Price: 10})
	assertKind(t, err, apperr.KindForbidden)

	_, err = f.ctl.CreateProposal(f.ctx, client, ProposalInput{TaskID: tv.ID.String(), Message: "me", Price: 10})
	assertKind(t, err, apperr.KindForbidden)

	_, err = f.ctl.CreateProposal(f.ctx, free, ProposalInput{TaskID: tv.ID.String(), Message: "", Price: 0})
	e := apperr.As(err)
	require.Equal(t, apperr.KindValidation, e.Kind)
	assert.Contains(t, e.Fields, "message")
	assert.Contains(t, e.Fields, "price")

	_, err = f.ctl.CreateProposal(f.ctx, free, ProposalInput{TaskID: uuid.NewString(), Message: "hi", Price: 10})
	assertKind(t, err, apperr.KindNotFound)

	p := f.propose(t, free, tv.ID, 75)
	assert.Equal(t, models.ProposalPending, p.Status)
	assert.Equal(t, []string{realtime.EventProposalCreated}, f.rec.types(owner.ID))

	_, err = f.ctl.CreateProposal(f.ctx, free, ProposalInput{TaskID: tv.ID.String(), Message: "again", Price: 70})
	assertKind(t, err, apperr.KindConflict)

	_, err = f.ctl.CancelTask(f.ctx, owner, tv.ID)
	require.NoError(t, err)
	other := f.user(t, models.UserTypeFreelancer)
	_, err = f.ctl.CreateProposal(f.ctx, other, ProposalInput{TaskID: tv.ID.String(), Message: "late", Price: 70})
	assertKind(t, err, apperr.KindConflict)
}

func TestAcceptProposalAssignsTaskAndRejectsSiblings(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeClient)
	a := f.user(t, models.UserTypeFreelancer)
	b := f.user(t, models.UserTypeFreelancer)
	tv := f.task(t, owner)
	pa := f.propose(t, a, tv.ID, 100)
	pb := f.propose(t, b, tv.ID, 90)

	_, err := f.ctl.AcceptProposal(f.ctx, a, pa.ID)
	assertKind(t, err, apperr.KindForbidden)

	accepted, err := f.ctl.AcceptProposal(f.ctx, owner, pa.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalAccepted, accepted.Status)

	task, err := f.store.Tasks.FindByID(f.ctx, tv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskAssigned, task.Status)

	rejected, err := f.store.Proposals.FindByID(f.ctx, pb.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalRejected, rejected.Status)

	assert.Equal(t, []string{realtime.EventProposalAccepted}, f.rec.types(a.ID))
	assert.Equal(t, []string{realtime.EventProposalRejected}, f.rec.types(b.ID))

	_, err = f.ctl.AcceptProposal(f.ctx, owner, pb.ID)
	assertKind(t, err, apperr.KindConflict)
}

func TestConcurrentAcceptHasOneWinner(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeClient)
	tv := f.task(t, owner)
	ids := make([]uuid.UUID, 2)
	for i := range ids {
		ids[i] = f.propose(t, f.user(t, models.UserTypeFreelancer), tv.ID, 50).ID
	}

	var wg sync.WaitGroup
	errs := make([]error, len(ids))
	start := make(chan struct{})
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			<-start
			_, errs[i] = f.ctl.AcceptProposal(f.ctx, owner, id)
		}(i, id)
	}
	close(start)
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	}
	assert.Equal(t, 1, wins)

	task, err := f.store.Tasks.FindByID(f.ctx, tv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskAssigned, task.Status)

	proposals, err := f.store.Proposals.ListByTask(f.ctx, tv.ID)
	require.NoError(t, err)
	accepted := 0
	for _, p := range proposals {
		if p.Status == models.ProposalAccepted {
			accepted++
		} else {
			assert.Equal(t, models.ProposalRejected, p.Status)
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestRejectAndCancelProposal(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeClient)
	a := f.user(t, models.UserTypeFreelancer)
	b := f.user(t, models.UserTypeFreelancer)
	tv := f.task(t, owner)
	pa := f.propose(t, a, tv.ID, 100)
	pb := f.propose(t, b, tv.ID, 90)

	_, err := f.ctl.RejectProposal(f.ctx, b, pa.ID)
	assertKind(t, err, apperr.KindForbidden)

	rejected, err := f.ctl.RejectProposal(f.ctx, owner, pa.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalRejected, rejected.Status)

	_, err = f.ctl.RejectProposal(f.ctx, owner, pa.ID)
	assertKind(t, err, apperr.KindConflict)

	_, err = f.ctl.CancelProposal(f.ctx, a, pb.ID)
	assertKind(t, err, apperr.KindForbidden)

	cancelled, err := f.ctl.CancelProposal(f.ctx, b, pb.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalCancelled, cancelled.Status)
	assert.Contains(t, f.rec.types(owner.ID), realtime.EventProposalCancelled)

	_, err = f.ctl.CancelProposal(f.ctx, b, pb.ID)
	assertKind(t, err, apperr.KindConflict)

	_, err = f.ctl.RejectProposal(f.ctx, owner, uuid.New())
	assertKind(t, err, apperr.KindNotFound)

	again := f.propose(t, b, tv.ID, 85)
	assert.NotEqual(t, pb.ID, again.ID)
}

func TestListProposals(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeClient)
	a := f.user(t, models.UserTypeFreelancer)
	tv := f.task(t, owner)
	f.propose(t, a, tv.ID, 100)

	_, err := f.ctl.ListTaskProposals(f.ctx, a, tv.ID)
	assertKind(t, err, apperr.KindForbidden)

	list, err := f.ctl.ListTaskProposals(f.ctx, owner, tv.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Freelancer)
	assert.Equal(t, a.ID, list[0].Freelancer.ID)

	mine, err := f.ctl.ListMyProposals(f.ctx, a)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Task)
	assert.Equal(t, tv.ID, mine[0].Task.ID)
}

// assigned returns a task with an accepted proposal from free.
func (f *fixture) assigned(t *testing.T, owner, free *models.User, price float64) (*TaskView, *models.Proposal) {
	t.Helper()
	tv := f.task(t, owner)
	p := f.propose(t, free, tv.ID, price)
	_, err := f.ctl.AcceptProposal(f.ctx, owner, p.ID)
	require.NoError(t, err)
	return tv, p
}

func TestStartTask(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeClient)
	free := f.user(t, models.UserTypeFreelancer)
	tv, _ := f.assigned(t, owner, free, 100)

	_, err := f.ctl.StartTask(f.ctx, owner, tv.ID)
	assertKind(t, err, apperr.KindForbidden)

	started, err := f.ctl.StartTask(f.ctx, free, tv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskInProgress, started.Status)
	assert.Contains(t, f.rec.types(owner.ID), realtime.EventTaskStarted)

	_, err = f.ctl.StartTask(f.ctx, free, tv.ID)
	assertKind(t, err, apperr.KindConflict)
}

func TestCompleteTaskCreditsWallet(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeClient)
	free := f.user(t, models.UserTypeFreelancer)
	tv, _ := f.assigned(t, owner, free, 120.5)

	_, err := f.ctl.CompleteTask(f.ctx, free, tv.ID)
	assertKind(t, err, apperr.KindForbidden)

	done, err := f.ctl.CompleteTask(f.ctx, owner, tv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, done.Status)

	again, err := f.ctl.CompleteTask(f.ctx, owner, tv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, again.Status)

	paid, err := f.store.Users.FindByID(f.ctx, free.ID)
	require.NoError(t, err)
	assert.InDelta(t, 120.5, paid.WalletBalance, 0.001)

	ledger, err := f.ctl.wallet.ListTransactions(f.ctx, free.ID)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, tv.ID, *ledger[0].ReferenceID)
	assert.Equal(t, []string{realtime.EventProposalAccepted, realtime.EventTaskCompleted}, f.rec.types(free.ID))

	err = f.ctl.DeleteTask(f.ctx, owner, tv.ID)
	assertKind(t, err, apperr.KindConflict)
}

func TestCompleteOpenTaskIsConflict(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeClient)
	tv := f.task(t, owner)

	_, err := f.ctl.CompleteTask(f.ctx, owner, tv.ID)
	assertKind(t, err, apperr.KindConflict)
}

func TestCancelTaskRejectsPending(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeClient)
	a := f.user(t, models.UserTypeFreelancer)
	tv := f.task(t, owner)
	p := f.propose(t, a, tv.ID, 10)

	_, err := f.ctl.CancelTask(f.ctx, a, tv.ID)
	assertKind(t, err, apperr.KindForbidden)

	cancelled, err := f.ctl.CancelTask(f.ctx, owner, tv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskCancelled, cancelled.Status)

	got, err := f.store.Proposals.FindByID(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalRejected, got.Status)
	assert.Contains(t, f.rec.types(a.ID), realtime.EventTaskCancelled)

	_, err = f.ctl.CancelTask(f.ctx, owner, tv.ID)
	assertKind(t, err, apperr.KindConflict)
}

func TestReviews(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeClient)
	free := f.user(t, models.UserTypeFreelancer)
	stranger := f.user(t, models.UserTypeBoth)
	tv, _ := f.assigned(t, owner, free, 100)

	_, err := f.ctl.CreateReview(f.ctx, owner, ReviewInput{TaskID: tv.ID.String(), Score: 5})
	assertKind(t, err, apperr.KindConflict)

	_, err = f.ctl.CompleteTask(f.ctx, owner, tv.ID)
	require.NoError(t, err)

	_, err = f.ctl.CreateReview(f.ctx, owner, ReviewInput{TaskID: tv.ID.String(), Score: 6})
	assertKind(t, err, apperr.KindValidation)

	_, err = f.ctl.CreateReview(f.ctx, stranger, ReviewInput{TaskID: tv.ID.String(), Score: 5})
	assertKind(t, err, apperr.KindForbidden)

	rv, err := f.ctl.CreateReview(f.ctx, owner, ReviewInput{TaskID: tv.ID.String(), Score: 4, Comment: "Good"})
	require.NoError(t, err)
	assert.Equal(t, free.ID, rv.RevieweeID)

	_, err = f.ctl.CreateReview(f.ctx, owner, ReviewInput{TaskID: tv.ID.String(), Score: 5})
	assertKind(t, err, apperr.KindConflict)

	back, err := f.ctl.CreateReview(f.ctx, free, ReviewInput{TaskID: tv.ID.String(), Score: 5})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, back.RevieweeID)

	second, _ := f.assigned(t, owner, free, 50)
	_, err = f.ctl.CompleteTask(f.ctx, owner, second.ID)
	require.NoError(t, err)
	_, err = f.ctl.CreateReview(f.ctx, owner, ReviewInput{TaskID: second.ID.String(), Score: 1})
	require.NoError(t, err)

	rated, err := f.store.Users.FindByID(f.ctx, free.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, rated.Rating, 0.001)
	assert.Equal(t, 2, rated.ReviewCount)

	list, err := f.ctl.ListUserReviews(f.ctx, free.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, owner.ID, list[0].Reviewer.ID)
	assert.Contains(t, f.rec.types(free.ID), realtime.EventReviewCreated)

	_, err = f.ctl.ListUserReviews(f.ctx, uuid.New())
	assertKind(t, err, apperr.KindNotFound)
}

func TestCities(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.UserTypeClient)
	f.task(t, owner)
	_, err := f.ctl.CreateTask(f.ctx, owner, TaskInput{Title: "a", Description: "b", Country: "RO", City: "Iasi"})
	require.NoError(t, err)

	all, err := f.ctl.Cities(f.ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Chisinau", "Iasi"}, all)

	ro, err := f.ctl.Cities(f.ctx, "ro")
	require.NoError(t, err)
	assert.Equal(t, []string{"Iasi"}, ro)
}
