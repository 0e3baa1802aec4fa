package lifecycle

import "github.com/Windi-Fikriyansyah/taskmarket/internal/models"

type TaskView struct {
	*models.Task
	Client *models.PublicUser `json:"client,omitempty"`
}

func taskView(t *models.Task) TaskView {
	return TaskView{Task: t, Client: t.Client.Public()}
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Limit int   `json:"limit"`
}

type TaskPage struct {
	Tasks      []TaskView `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}

// ProposalView is a proposal as its task owner sees it.
type ProposalView struct {
	*models.Proposal
	Freelancer *models.PublicUser `json:"freelancer,omitempty"`
}

// MyProposalView is a proposal as its author sees it.
type MyProposalView struct {
	*models.Proposal
	Task *models.Task `json:"task,omitempty"`
}

type ReviewView struct {
	*models.Review
	Reviewer *models.PublicUser `json:"reviewer,omitempty"`
}
