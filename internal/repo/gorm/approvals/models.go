package approvalsgorm

import (
    "encoding/json"
    "time"

    "gorm.io/datatypes"

    "github.com/signoffhq/signoff/internal/ports"
)

// ApprovalModel is the gorm mapping of the aggregate root.
type ApprovalModel struct {
    ID        string `gorm:"primaryKey;type:varchar(64)"`
    Reference string `gorm:"type:varchar(64);uniqueIndex;not null"`

    Type     string `gorm:"type:varchar(40);not null;index"`
    Priority string `gorm:"type:varchar(20);not null;index"`
    FlowType string `gorm:"type:varchar(20);not null"`

    Status        string `gorm:"type:varchar(32);not null;index"`
    CurrentStep   int    `gorm:"not null;default:1"`
    TotalSteps    int    `gorm:"not null;default:1"`
    ApprovedCount int    `gorm:"not null;default:0"`
    RejectedCount int    `gorm:"not null;default:0"`

    RequesterID   string `gorm:"type:varchar(64);not null;index"`
    ApproverID    string `gorm:"type:varchar(64);index"`
    DelegatedFrom string `gorm:"type:varchar(64)"`
    DelegatedTo   string `gorm:"type:varchar(64);index"`
    EscalatedTo   string `gorm:"type:varchar(64)"`

    OrgID    string `gorm:"type:varchar(64);not null;index"`
    BranchID string `gorm:"type:varchar(64);index"`

    Title       string `gorm:"type:varchar(200);not null"`
    Description string `gorm:"type:text"`

    Deadline  *time.Time
    IsOverdue bool `gorm:"not null;default:false"`
    IsUrgent  bool `gorm:"not null;default:false"`

    Amount   float64 `gorm:"not null;default:0"`
    Currency string  `gorm:"type:varchar(8)"`

    DocumentURLs datatypes.JSON `gorm:"column:document_urls"`
    Attachments  datatypes.JSON

    RequiresSignature bool   `gorm:"not null;default:false"`
    IsSigned          bool   `gorm:"not null;default:false"`
    SignatureType     string `gorm:"type:varchar(32)"`

    IsEscalated      bool `gorm:"not null;default:false"`
    EscalatedAt      *time.Time
    EscalationLevel  int    `gorm:"not null;default:0"`
    EscalationReason string `gorm:"type:text"`

    RejectionReason string `gorm:"type:text"`
    ApprovedAt      *time.Time
    RejectedAt      *time.Time
    SubmittedAt     *time.Time

    Lifecycle  string `gorm:"type:varchar(16);not null;default:ACTIVE;index"`
    ArchivedAt *time.Time
    ArchivedBy string `gorm:"type:varchar(64)"`

    Version   int64     `gorm:"not null;default:1"`
    CreatedAt time.Time `gorm:"not null;index"`
    UpdatedAt time.Time `gorm:"not null"`

    History    []HistoryModel   `gorm:"foreignKey:ApprovalID;constraint:OnDelete:CASCADE"`
    Signatures []SignatureModel `gorm:"foreignKey:ApprovalID;constraint:OnDelete:CASCADE"`
}

func (ApprovalModel) TableName() string { return "approvals" }

// HistoryModel rows are written once per transition and never updated.
type HistoryModel struct {
    ID         string `gorm:"primaryKey;type:varchar(64)"`
    ApprovalID string `gorm:"type:varchar(64);not null;index"`
    Action     string `gorm:"type:varchar(32);not null"`
    FromStatus string `gorm:"type:varchar(32);not null"`
    ToStatus   string `gorm:"type:varchar(32);not null"`
    ActorID    string `gorm:"type:varchar(64);not null;index"`
    Comments   string `gorm:"type:text"`
    Source     string `gorm:"type:varchar(32)"`
    Metadata   datatypes.JSON
    CreatedAt  time.Time `gorm:"not null;index"`
}

func (HistoryModel) TableName() string { return "approval_history" }

type SignatureModel struct {
    ID            string `gorm:"primaryKey;type:varchar(64)"`
    ApprovalID    string `gorm:"type:varchar(64);not null;index"`
    SignerID      string `gorm:"type:varchar(64);not null"`
    SignatureType string `gorm:"type:varchar(32)"`
    SignatureData string `gorm:"type:text"`
    CertificateID string `gorm:"type:varchar(128)"`
    BiometricHash string `gorm:"type:varchar(128)"`
    LegalNotice   string `gorm:"type:text"`
    ValidFrom     *time.Time
    ValidUntil    *time.Time
    RevokedAt     *time.Time
    CreatedAt     time.Time `gorm:"not null"`
}

func (SignatureModel) TableName() string { return "approval_signatures" }

func toModel(a *ports.Approval) *ApprovalModel {
    docs, _ := json.Marshal(a.DocumentURLs)
    atts, _ := json.Marshal(a.Attachments)
    return &ApprovalModel{
        ID: a.ID, Reference: a.Reference,
        Type: string(a.Type), Priority: string(a.Priority), FlowType: string(a.FlowType),
        Status: string(a.Status), CurrentStep: a.CurrentStep, TotalSteps: a.TotalSteps,
        ApprovedCount: a.ApprovedCount, RejectedCount: a.RejectedCount,
        RequesterID: a.RequesterID, ApproverID: a.ApproverID,
        DelegatedFrom: a.DelegatedFrom, DelegatedTo: a.DelegatedTo, EscalatedTo: a.EscalatedTo,
        OrgID: a.OrgID, BranchID: a.BranchID,
        Title: a.Title, Description: a.Description,
        Deadline: a.Deadline, IsOverdue: a.IsOverdue, IsUrgent: a.IsUrgent,
        Amount: a.Amount, Currency: a.Currency,
        DocumentURLs: docs, Attachments: atts,
        RequiresSignature: a.RequiresSignature, IsSigned: a.IsSigned, SignatureType: a.SignatureType,
        IsEscalated: a.IsEscalated, EscalatedAt: a.EscalatedAt,
        EscalationLevel: a.EscalationLevel, EscalationReason: a.EscalationReason,
        RejectionReason: a.RejectionReason,
        ApprovedAt:      a.ApprovedAt, RejectedAt: a.RejectedAt, SubmittedAt: a.SubmittedAt,
        Lifecycle: string(a.Lifecycle), ArchivedAt: a.ArchivedAt, ArchivedBy: a.ArchivedBy,
        Version:   a.Version, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
    }
}

func fromModel(m *ApprovalModel) *ports.Approval {
    a := &ports.Approval{
        ID: m.ID, Reference: m.Reference,
        Type: ports.ApprovalType(m.Type), Priority: ports.Priority(m.Priority), FlowType: ports.FlowType(m.FlowType),
        Status: ports.Status(m.Status), CurrentStep: m.CurrentStep, TotalSteps: m.TotalSteps,
        ApprovedCount: m.ApprovedCount, RejectedCount: m.RejectedCount,
        RequesterID: m.RequesterID, ApproverID: m.ApproverID,
        DelegatedFrom: m.DelegatedFrom, DelegatedTo: m.DelegatedTo, EscalatedTo: m.EscalatedTo,
        OrgID: m.OrgID, BranchID: m.BranchID,
        Title: m.Title, Description: m.Description,
        Deadline: m.Deadline, IsOverdue: m.IsOverdue, IsUrgent: m.IsUrgent,
        Amount: m.Amount, Currency: m.Currency,
        RequiresSignature: m.RequiresSignature, IsSigned: m.IsSigned, SignatureType: m.SignatureType,
        IsEscalated: m.IsEscalated, EscalatedAt: m.EscalatedAt,
        EscalationLevel: m.EscalationLevel, EscalationReason: m.EscalationReason,
        RejectionReason: m.RejectionReason,
        ApprovedAt:      m.ApprovedAt, RejectedAt: m.RejectedAt, SubmittedAt: m.SubmittedAt,
        Lifecycle: ports.Lifecycle(m.Lifecycle), ArchivedAt: m.ArchivedAt, ArchivedBy: m.ArchivedBy,
        Version:   m.Version, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
    }
    if len(m.DocumentURLs) > 0 {
        _ = json.Unmarshal(m.DocumentURLs, &a.DocumentURLs)
    }
    if len(m.Attachments) > 0 {
        _ = json.Unmarshal(m.Attachments, &a.Attachments)
    }
    return a
}

func historyToModel(h *ports.HistoryEntry) *HistoryModel {
    meta, _ := json.Marshal(h.Metadata)
    return &HistoryModel{
        ID: h.ID, ApprovalID: h.ApprovalID,
        Action: string(h.Action), FromStatus: string(h.FromStatus), ToStatus: string(h.ToStatus),
        ActorID: h.ActorID, Comments: h.Comments, Source: h.Source,
        Metadata: meta, CreatedAt: h.CreatedAt,
    }
}

func historyFromModel(m *HistoryModel) *ports.HistoryEntry {
    h := &ports.HistoryEntry{
        ID: m.ID, ApprovalID: m.ApprovalID,
        Action: ports.Action(m.Action), FromStatus: ports.Status(m.FromStatus), ToStatus: ports.Status(m.ToStatus),
        ActorID: m.ActorID, Comments: m.Comments, Source: m.Source, CreatedAt: m.CreatedAt,
    }
    if len(m.Metadata) > 0 {
        _ = json.Unmarshal(m.Metadata, &h.Metadata)
    }
    return h
}

func signatureToModel(s *ports.Signature) *SignatureModel {
    return &SignatureModel{
        ID: s.ID, ApprovalID: s.ApprovalID, SignerID: s.SignerID,
        SignatureType: s.SignatureType, SignatureData: s.SignatureData,
        CertificateID: s.CertificateID, BiometricHash: s.BiometricHash, LegalNotice: s.LegalNotice,
        ValidFrom: s.ValidFrom, ValidUntil: s.ValidUntil, RevokedAt: s.RevokedAt,
        CreatedAt: s.CreatedAt,
    }
}

func signatureFromModel(m *SignatureModel) *ports.Signature {
    return &ports.Signature{
        ID: m.ID, ApprovalID: m.ApprovalID, SignerID: m.SignerID,
        SignatureType: m.SignatureType, SignatureData: m.SignatureData,
        CertificateID: m.CertificateID, BiometricHash: m.BiometricHash, LegalNotice: m.LegalNotice,
        ValidFrom: m.ValidFrom, ValidUntil: m.ValidUntil, RevokedAt: m.RevokedAt,
        CreatedAt: m.CreatedAt,
    }
}
