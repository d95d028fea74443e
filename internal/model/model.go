package model

// Wire types for the marketplace backend. Field tags follow the backend's JSON
// exactly (including its spelling of "reciever_id"); the backend owns these
// shapes and the client only caches them.

type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Picture      string `json:"picture,omitempty"`
	Organization string `json:"organization,omitempty"`
}

type Organization struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Wallet      Wallet `json:"wallet"`
	InviteToken string `json:"invite_token"`
	Admin       *User  `json:"admin,omitempty"`
	Members     []User `json:"members,omitempty"`
}

type Wallet struct {
	Balance float64 `json:"balance"`
}

type Agent struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	OwnerName     string   `json:"owner_name"`
	OwnerGitHubID string   `json:"owner_github_id"`
	Description   []string `json:"description"`
	Downloads     int      `json:"downloads"`
	Stars         int      `json:"stars"`
	TasksExecuted int      `json:"tasks_executed"`
	Size          string   `json:"size,omitempty"`
	Repository    string   `json:"repository,omitempty"`

	Marketplace *MarketplaceInfo `json:"marketplace_info,omitempty"`
	Technical   *TechnicalInfo   `json:"technical_info,omitempty"`
}

type MarketplaceInfo struct {
	Summary     string  `json:"summary,omitempty"`
	CostPerRun  float64 `json:"cost_per_run,omitempty"`
	Category    string  `json:"category,omitempty"`
	DemoURL     string  `json:"demo_url,omitempty"`
	Maintainers string  `json:"maintainers,omitempty"`
}

type TechnicalInfo struct {
	BaseAPI      string   `json:"base_api,omitempty"`
	InputFields  []string `json:"input_fields,omitempty"`
	OutputFields []string `json:"output_fields,omitempty"`
}

type Task struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatedTime string `json:"created_time"`
	UserID      string `json:"user_id"`
}

// Execution is one run of an agent within a task. SequenceNumber increases
// monotonically per task.
type Execution struct {
	ID             string  `json:"id"`
	SequenceNumber int     `json:"sequence_number"`
	CreationTime   string  `json:"creation_time"`
	AgentName      string  `json:"agent_name"`
	KeyName        string  `json:"key_name"`
	UserName       string  `json:"user_name"`
	CostIncurred   float64 `json:"cost_incurred"`
	Input          string  `json:"input,omitempty"`
	Output         string  `json:"output,omitempty"`
}

type APIKey struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
	UserID   string `json:"user_id"`
	// Key is the secret itself; only present on get_key_info responses.
	Key string `json:"key,omitempty"`
}

type BugStatus string

const (
	BugOpen   BugStatus = "open"
	BugClosed BugStatus = "closed"
)

type Bug struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Status         BugStatus `json:"status"`
	ReportedUserID string    `json:"reported_user_id"`
	Description    string    `json:"description,omitempty"`
	AgentID        string    `json:"agent_id"`
}

// ShareGrant links a sender, a receiver and a shared resource (key or task).
// Sharing creates a grant record, not a copy of the resource.
type ShareGrant struct {
	SenderID    string `json:"sender_id"`
	ReceiverID  string `json:"reciever_id"` // backend wire spelling
	ResourceID  string `json:"resource_id"`
	CreatedTime string `json:"created_time"`
}

type OnboardingInfo struct {
	AgentID string   `json:"agent_id"`
	Steps   []string `json:"steps,omitempty"`
	Notes   string   `json:"notes,omitempty"`
}

type TaskAnalysis struct {
	TaskID        string  `json:"task_id"`
	TotalCost     float64 `json:"total_cost"`
	Executions    int     `json:"executions"`
	AgentsUsed    int     `json:"agents_used"`
	FirstExecuted string  `json:"first_executed,omitempty"`
	LastExecuted  string  `json:"last_executed,omitempty"`
}
