package ports

import (
    "context"
    "time"
)

// Status is the workflow status of an approval.
type Status string

const (
    StatusDraft              Status = "DRAFT"
    StatusPending            Status = "PENDING"
    StatusUnderReview        Status = "UNDER_REVIEW"
    StatusAdditionalInfo     Status = "ADDITIONAL_INFO_REQUIRED"
    StatusEscalated          Status = "ESCALATED"
    StatusApproved           Status = "APPROVED"
    StatusSigned             Status = "SIGNED"
    StatusRejected           Status = "REJECTED"
    StatusWithdrawn          Status = "WITHDRAWN"
    StatusCompleted          Status = "COMPLETED"
    StatusCancelled          Status = "CANCELLED"
)

// Action is a workflow transition requested by an actor.
type Action string

const (
    ActionSubmit      Action = "SUBMIT"
    ActionApprove     Action = "APPROVE"
    ActionReject      Action = "REJECT"
    ActionRequestInfo Action = "REQUEST_INFO"
    ActionDelegate    Action = "DELEGATE"
    ActionEscalate    Action = "ESCALATE"
    ActionSign        Action = "SIGN"
    ActionWithdraw    Action = "WITHDRAW"
)

// Priority classifies urgency of an approval.
type Priority string

const (
    PriorityLow      Priority = "LOW"
    PriorityNormal   Priority = "NORMAL"
    PriorityHigh     Priority = "HIGH"
    PriorityUrgent   Priority = "URGENT"
    PriorityCritical Priority = "CRITICAL"
)

// ApprovalType classifies what is being requested.
type ApprovalType string

const (
    TypeLeaveRequest       ApprovalType = "LEAVE_REQUEST"
    TypeOvertime           ApprovalType = "OVERTIME"
    TypeExpenseClaim       ApprovalType = "EXPENSE_CLAIM"
    TypeReimbursement      ApprovalType = "REIMBURSEMENT"
    TypeTravelRequest      ApprovalType = "TRAVEL_REQUEST"
    TypeRoleChange         ApprovalType = "ROLE_CHANGE"
    TypeDepartmentTransfer ApprovalType = "DEPARTMENT_TRANSFER"
    TypePurchaseOrder      ApprovalType = "PURCHASE_ORDER"
    TypeBudgetRequest      ApprovalType = "BUDGET_REQUEST"
    TypeContract           ApprovalType = "CONTRACT"
    TypeGeneric            ApprovalType = "GENERIC"
)

// FlowType distinguishes single-step from multi-step sign-off chains.
type FlowType string

const (
    FlowSingle     FlowType = "SINGLE"
    FlowSequential FlowType = "SEQUENTIAL"
)

// Lifecycle is the record sub-state, orthogonal to workflow Status.
type Lifecycle string

const (
    LifecycleActive   Lifecycle = "ACTIVE"
    LifecycleArchived Lifecycle = "ARCHIVED"
    LifecycleDeleted  Lifecycle = "DELETED"
)

// Role is an organization role. Rank ordering gates routing and scoping.
type Role string

const (
    RoleOwner      Role = "OWNER"
    RoleAdmin      Role = "ADMIN"
    RoleManager    Role = "MANAGER"
    RoleSupervisor Role = "SUPERVISOR"
    RoleEmployee   Role = "EMPLOYEE"
)

// roleRank maps roles to a comparable rank; higher means more authority.
var roleRank = map[Role]int{
    RoleEmployee:   1,
    RoleSupervisor: 2,
    RoleManager:    3,
    RoleAdmin:      4,
    RoleOwner:      5,
}

// Rank returns the numeric rank of a role; unknown roles rank 0.
func (r Role) Rank() int { return roleRank[r] }

// AtLeast reports whether r carries at least the authority of other.
func (r Role) AtLeast(other Role) bool { return r.Rank() >= other.Rank() }

// Elevated reports whether the role bypasses branch/self scoping.
func (r Role) Elevated() bool { return r == RoleAdmin || r == RoleOwner }

// Approval is the aggregate root of the workflow engine.
type Approval struct {
    ID        string
    Reference string // generated once before first persist, immutable

    Type     ApprovalType
    Priority Priority
    FlowType FlowType

    Status        Status
    CurrentStep   int
    TotalSteps    int
    ApprovedCount int
    RejectedCount int

    RequesterID   string
    ApproverID    string
    DelegatedFrom string
    DelegatedTo   string
    EscalatedTo   string

    OrgID    string
    BranchID string

    Title       string
    Description string

    Deadline  *time.Time
    IsOverdue bool
    IsUrgent  bool

    Amount   float64
    Currency string

    DocumentURLs []string
    Attachments  []Attachment

    RequiresSignature bool
    IsSigned          bool
    SignatureType     string

    IsEscalated      bool
    EscalatedAt      *time.Time
    EscalationLevel  int
    EscalationReason string

    RejectionReason string
    ApprovedAt      *time.Time
    RejectedAt      *time.Time
    SubmittedAt     *time.Time

    Lifecycle  Lifecycle
    ArchivedAt *time.Time
    ArchivedBy string

    Version   int64
    CreatedAt time.Time
    UpdatedAt time.Time
}

// Attachment is a stored supporting document.
type Attachment struct {
    Name        string `json:"name"`
    Key         string `json:"key"`
    ContentType string `json:"content_type,omitempty"`
    Size        int64  `json:"size,omitempty"`
}

// Terminal reports whether the approval sits in a terminal status.
// APPROVED is terminal only when no signature is required.
func (a *Approval) Terminal() bool {
    switch a.Status {
    case StatusSigned, StatusRejected, StatusWithdrawn, StatusCancelled, StatusCompleted:
        return true
    case StatusApproved:
        return !a.RequiresSignature
    }
    return false
}

// RefreshOverdue recomputes IsOverdue from the deadline. Once a terminal
// status is reached the flag is frozen.
func (a *Approval) RefreshOverdue(now time.Time) {
    if a.Terminal() {
        return
    }
    a.IsOverdue = a.Deadline != nil && a.Deadline.Before(now)
}

// HistoryEntry is one append-only audit record per transition.
type HistoryEntry struct {
    ID         string
    ApprovalID string
    Action     Action
    FromStatus Status
    ToStatus   Status
    ActorID    string
    Comments   string
    Source     string
    Metadata   map[string]string
    CreatedAt  time.Time
}

// Signature is written once per completed sign-off.
type Signature struct {
    ID            string
    ApprovalID    string
    SignerID      string
    SignatureType string
    SignatureData string
    CertificateID string
    BiometricHash string
    LegalNotice   string
    ValidFrom     *time.Time
    ValidUntil    *time.Time
    RevokedAt     *time.Time
    CreatedAt     time.Time
}

// User is a directory entry consumed by routing and scoping.
type User struct {
    ID          string
    Username    string
    DisplayName string
    Email       string
    Role        Role
    OrgID       string
    BranchID    string
    Active      bool
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
    UserID   string
    Role     Role
    OrgID    string
    BranchID string
}

// Filter narrows approval listings. Zero fields match everything
// the actor's scope allows.
type Filter struct {
    Status      Status
    Type        ApprovalType
    Priority    Priority
    RequesterID string
    ApproverID  string
    BranchID    string
    Overdue     *bool
    IncludeDeleted bool
    Search      string
}

// Page controls pagination of listings.
type Page struct {
    Page int
    Size int
    Sort string // created_at_desc|created_at_asc|deadline_asc
}

// Stats are scoped aggregate counts for a dashboard.
type Stats struct {
    Total      int64
    ByStatus   map[Status]int64
    ByPriority map[Priority]int64
    Overdue    int64
    Mine       int64 // actor is requester
    AwaitingMe int64 // actor is approver or delegate, status actionable
}

// ApprovalRepository is the persistence port for the aggregate.
type ApprovalRepository interface {
    Create(ctx context.Context, a *Approval) error
    // Update persists the aggregate and bumps Version by exactly one.
    Update(ctx context.Context, a *Approval) error
    Get(ctx context.Context, id string) (*Approval, error)
    GetByReference(ctx context.Context, ref string) (*Approval, error)
    List(ctx context.Context, actor Actor, f Filter, p Page) ([]*Approval, int64, error)
    Stats(ctx context.Context, actor Actor) (*Stats, error)

    AppendHistory(ctx context.Context, h *HistoryEntry) error
    History(ctx context.Context, approvalID string) ([]*HistoryEntry, error)

    CreateSignature(ctx context.Context, s *Signature) error
    Signatures(ctx context.Context, approvalID string) ([]*Signature, error)
}

// Directory resolves users for routing, scoping and notifications.
type Directory interface {
    Get(ctx context.Context, id string) (*User, error)
    // ListByMinRole returns active users in org whose role ranks at or
    // above min, ordered by role rank descending.
    ListByMinRole(ctx context.Context, orgID string, min Role) ([]*User, error)
    // ListBranchByMinRole is ListByMinRole restricted to one branch.
    ListBranchByMinRole(ctx context.Context, orgID, branchID string, min Role) ([]*User, error)
}
