// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type User struct {
	Id       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	OrgId    string `json:"orgId"`
	BranchId string `json:"branchId,omitempty"`
}

type ApprovalCreateRequest struct {
	Type              string       `json:"type"`
	Priority          string       `json:"priority,optional"`
	FlowType          string       `json:"flowType,optional"`
	Title             string       `json:"title"`
	Description       string       `json:"description,optional"`
	Amount            float64      `json:"amount,optional"`
	Currency          string       `json:"currency,optional"`
	Deadline          string       `json:"deadline,optional"`
	BranchId          string       `json:"branchId,optional"`
	DocumentUrls      []string     `json:"documentUrls,optional"`
	Attachments       []Attachment `json:"attachments,optional"`
	RequiresSignature bool         `json:"requiresSignature,optional"`
	AutoSubmit        bool         `json:"autoSubmit,optional"`
}

type ApprovalUpdateRequest struct {
	Id                string   `path:"id"`
	Title             *string  `json:"title,optional"`
	Description       *string  `json:"description,optional"`
	Amount            *float64 `json:"amount,optional"`
	Currency          *string  `json:"currency,optional"`
	Priority          *string  `json:"priority,optional"`
	Deadline          *string  `json:"deadline,optional"`
	DocumentUrls      []string `json:"documentUrls,optional"`
	RequiresSignature *bool    `json:"requiresSignature,optional"`
}

type ApprovalGetRequest struct {
	Id string `path:"id"`
}

type ApprovalByReferenceRequest struct {
	Reference string `path:"ref"`
}

type ApprovalsListRequest struct {
	Status         string  `form:"status,optional"`
	Type           string  `form:"type,optional"`
	Priority       string  `form:"priority,optional"`
	RequesterId    string  `form:"requesterId,optional"`
	ApproverId     string  `form:"approverId,optional"`
	BranchId       string `form:"branchId,optional"`
	Overdue        bool   `form:"overdue,optional"`
	Search         string `form:"search,optional"`
	IncludeDeleted bool   `form:"includeDeleted,optional"`
	Page           int    `form:"page,optional"`
	Size           int    `form:"size,optional"`
	Sort           string `form:"sort,optional"`
}

type ApprovalsListResponse struct {
	Items []Approval `json:"items"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Size  int        `json:"size"`
}

type ActionRequest struct {
	Id               string `path:"id"`
	Action           string `json:"action"`
	Comments         string `json:"comments,optional"`
	Reason           string `json:"reason,optional"`
	DelegateTo       string `json:"delegateTo,optional"`
	EscalateTo       string `json:"escalateTo,optional"`
	EscalationReason string `json:"escalationReason,optional"`
}

type SignRequest struct {
	Id            string `path:"id"`
	SignatureType string `json:"signatureType"`
	SignatureData string `json:"signatureData"`
	CertificateId string `json:"certificateId,optional"`
	BiometricHash string `json:"biometricHash,optional"`
	LegalNotice   string `json:"legalNotice,optional"`
	Comments      string `json:"comments,optional"`
}

type WithdrawRequest struct {
	Id       string `path:"id"`
	Comments string `json:"comments,optional"`
}

type BulkActionRequest struct {
	Ids      []string `json:"ids"`
	Action   string   `json:"action"`
	Comments string   `json:"comments,optional"`
}

type BulkActionResponse struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Items     []BulkActionItem `json:"items"`
}

type BulkActionItem struct {
	Id    string `json:"id"`
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type Approval struct {
	Id                string       `json:"id"`
	Reference         string       `json:"reference"`
	Type              string       `json:"type"`
	Priority          string       `json:"priority"`
	FlowType          string       `json:"flowType"`
	Status            string       `json:"status"`
	Lifecycle         string       `json:"lifecycle"`
	Title             string       `json:"title"`
	Description       string       `json:"description,omitempty"`
	Amount            float64      `json:"amount"`
	Currency          string       `json:"currency"`
	RequesterId       string       `json:"requesterId"`
	ApproverId        string       `json:"approverId,omitempty"`
	DelegatedTo       string       `json:"delegatedTo,omitempty"`
	OrgId             string       `json:"orgId"`
	BranchId          string       `json:"branchId,omitempty"`
	CurrentStep       int          `json:"currentStep"`
	TotalSteps        int          `json:"totalSteps"`
	ApprovedCount     int          `json:"approvedCount"`
	RejectedCount     int          `json:"rejectedCount"`
	RejectionReason   string       `json:"rejectionReason,omitempty"`
	IsUrgent          bool         `json:"isUrgent"`
	IsOverdue         bool         `json:"isOverdue"`
	IsEscalated       bool         `json:"isEscalated"`
	EscalationLevel   int          `json:"escalationLevel"`
	EscalatedTo       string       `json:"escalatedTo,omitempty"`
	RequiresSignature bool         `json:"requiresSignature"`
	IsSigned          bool         `json:"isSigned"`
	DocumentUrls      []string     `json:"documentUrls,omitempty"`
	Attachments       []Attachment `json:"attachments,omitempty"`
	Deadline          string       `json:"deadline,omitempty"`
	ApprovedAt        string       `json:"approvedAt,omitempty"`
	RejectedAt        string       `json:"rejectedAt,omitempty"`
	Version           int64        `json:"version"`
	CreatedAt         string       `json:"createdAt"`
	UpdatedAt         string       `json:"updatedAt"`
}

type Attachment struct {
	Name        string `json:"name"`
	Key         string `json:"key"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

type HistoryRequest struct {
	Id string `path:"id"`
}

type HistoryEntry struct {
	Id         string `json:"id"`
	Action     string `json:"action"`
	FromStatus string `json:"fromStatus,omitempty"`
	ToStatus   string `json:"toStatus"`
	ActorId    string `json:"actorId"`
	Comments   string `json:"comments,omitempty"`
	Source     string `json:"source,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

type Signature struct {
	Id            string `json:"id"`
	SignerId      string `json:"signerId"`
	SignatureType string `json:"signatureType"`
	SignedAt      string `json:"signedAt"`
}

type StatsResponse struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"byStatus"`
	ByPriority map[string]int64 `json:"byPriority"`
	Overdue    int64            `json:"overdue"`
	Mine       int64            `json:"mine"`
	AwaitingMe int64            `json:"awaitingMe"`
}

type AttachmentUploadRequest struct {
	Id string `path:"id"`
}

type AttachmentURLRequest struct {
	Id  string `path:"id"`
	Key string `form:"key"`
}

type AttachmentURLResponse struct {
	Url string `json:"url"`
}
