package approvalsgorm

import (
    "context"
    "errors"
    "strings"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/signoffhq/signoff/internal/ports"
    "github.com/signoffhq/signoff/internal/scope"
)

type Repo struct{ db *gorm.DB }

func New(db *gorm.DB) *Repo { return &Repo{db: db} }

func AutoMigrate(db *gorm.DB) error {
    return db.AutoMigrate(&ApprovalModel{}, &HistoryModel{}, &SignatureModel{})
}

func (r *Repo) Create(ctx context.Context, a *ports.Approval) error {
    if a.ID == "" {
        a.ID = uuid.NewString()
    }
    if a.Version == 0 {
        a.Version = 1
    }
    if err := r.db.WithContext(ctx).Create(toModel(a)).Error; err != nil {
        return ports.Infra("approvals: create", err)
    }
    return nil
}

// Update persists the aggregate with Version bumped by exactly one.
// Writers are not rejected on a stale version; the counter is a change
// marker, and the last write wins.
func (r *Repo) Update(ctx context.Context, a *ports.Approval) error {
    m := toModel(a)
    m.Version = a.Version + 1
    // Select("*") so zero-valued fields (cleared flags, counts) persist too.
    res := r.db.WithContext(ctx).Model(&ApprovalModel{}).Where("id = ?", a.ID).
        Select("*").Omit("id", "reference", "created_at", "History", "Signatures").Updates(m)
    if res.Error != nil {
        return ports.Infra("approvals: update", res.Error)
    }
    if res.RowsAffected == 0 {
        return ports.NotFound("approval", a.ID)
    }
    a.Version = m.Version
    return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*ports.Approval, error) {
    var m ApprovalModel
    if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ports.NotFound("approval", id)
        }
        return nil, ports.Infra("approvals: get", err)
    }
    return fromModel(&m), nil
}

func (r *Repo) GetByReference(ctx context.Context, ref string) (*ports.Approval, error) {
    var m ApprovalModel
    if err := r.db.WithContext(ctx).Where("reference = ?", ref).First(&m).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ports.NotFound("approval", ref)
        }
        return nil, ports.Infra("approvals: get by reference", err)
    }
    return fromModel(&m), nil
}

func (r *Repo) List(ctx context.Context, actor ports.Actor, f ports.Filter, p ports.Page) ([]*ports.Approval, int64, error) {
    tx := scope.Apply(r.db.WithContext(ctx).Model(&ApprovalModel{}), actor, f.IncludeDeleted)
    tx = applyFilter(tx, f)

    var total int64
    if err := tx.Count(&total).Error; err != nil {
        return nil, 0, ports.Infra("approvals: count", err)
    }

    if p.Size <= 0 {
        p.Size = 20
    }
    if p.Size > 200 {
        p.Size = 200
    }
    if p.Page <= 0 {
        p.Page = 1
    }
    switch p.Sort {
    case "created_at_asc":
        tx = tx.Order("created_at ASC")
    case "deadline_asc":
        tx = tx.Order("deadline ASC NULLS LAST")
    default:
        tx = tx.Order("created_at DESC")
    }

    var rows []ApprovalModel
    if err := tx.Offset((p.Page - 1) * p.Size).Limit(p.Size).Find(&rows).Error; err != nil {
        return nil, 0, ports.Infra("approvals: list", err)
    }
    out := make([]*ports.Approval, 0, len(rows))
    for i := range rows {
        out = append(out, fromModel(&rows[i]))
    }
    return out, total, nil
}

func applyFilter(tx *gorm.DB, f ports.Filter) *gorm.DB {
    if f.Status != "" {
        tx = tx.Where("status = ?", string(f.Status))
    }
    if f.Type != "" {
        tx = tx.Where("type = ?", string(f.Type))
    }
    if f.Priority != "" {
        tx = tx.Where("priority = ?", string(f.Priority))
    }
    if f.RequesterID != "" {
        tx = tx.Where("requester_id = ?", f.RequesterID)
    }
    if f.ApproverID != "" {
        tx = tx.Where("approver_id = ?", f.ApproverID)
    }
    if f.BranchID != "" {
        tx = tx.Where("branch_id = ?", f.BranchID)
    }
    if f.Overdue != nil {
        tx = tx.Where("is_overdue = ?", *f.Overdue)
    }
    if s := strings.TrimSpace(f.Search); s != "" {
        like := "%" + s + "%"
        tx = tx.Where("title LIKE ? OR reference LIKE ?", like, like)
    }
    return tx
}

func (r *Repo) Stats(ctx context.Context, actor ports.Actor) (*ports.Stats, error) {
    base := func() *gorm.DB {
        return scope.Apply(r.db.WithContext(ctx).Model(&ApprovalModel{}), actor, false)
    }
    st := &ports.Stats{
        ByStatus:   map[ports.Status]int64{},
        ByPriority: map[ports.Priority]int64{},
    }
    if err := base().Count(&st.Total).Error; err != nil {
        return nil, ports.Infra("approvals: stats total", err)
    }

    type bucket struct {
        Key   string
        Count int64
    }
    var byStatus []bucket
    if err := base().Select("status AS key, COUNT(*) AS count").Group("status").Scan(&byStatus).Error; err != nil {
        return nil, ports.Infra("approvals: stats by status", err)
    }
    for _, b := range byStatus {
        st.ByStatus[ports.Status(b.Key)] = b.Count
    }
    var byPrio []bucket
    if err := base().Select("priority AS key, COUNT(*) AS count").Group("priority").Scan(&byPrio).Error; err != nil {
        return nil, ports.Infra("approvals: stats by priority", err)
    }
    for _, b := range byPrio {
        st.ByPriority[ports.Priority(b.Key)] = b.Count
    }

    if err := base().Where("is_overdue = ?", true).Count(&st.Overdue).Error; err != nil {
        return nil, ports.Infra("approvals: stats overdue", err)
    }
    if err := base().Where("requester_id = ?", actor.UserID).Count(&st.Mine).Error; err != nil {
        return nil, ports.Infra("approvals: stats mine", err)
    }
    actionable := []string{
        string(ports.StatusPending), string(ports.StatusUnderReview), string(ports.StatusEscalated),
    }
    if err := base().
        Where("(approver_id = ? OR delegated_to = ?) AND status IN ?", actor.UserID, actor.UserID, actionable).
        Count(&st.AwaitingMe).Error; err != nil {
        return nil, ports.Infra("approvals: stats awaiting", err)
    }
    return st, nil
}

func (r *Repo) AppendHistory(ctx context.Context, h *ports.HistoryEntry) error {
    if h.ID == "" {
        h.ID = uuid.NewString()
    }
    if err := r.db.WithContext(ctx).Create(historyToModel(h)).Error; err != nil {
        return ports.Infra("approvals: append history", err)
    }
    return nil
}

func (r *Repo) History(ctx context.Context, approvalID string) ([]*ports.HistoryEntry, error) {
    var rows []HistoryModel
    if err := r.db.WithContext(ctx).
        Where("approval_id = ?", approvalID).Order("created_at ASC, id ASC").
        Find(&rows).Error; err != nil {
        return nil, ports.Infra("approvals: history", err)
    }
    out := make([]*ports.HistoryEntry, 0, len(rows))
    for i := range rows {
        out = append(out, historyFromModel(&rows[i]))
    }
    return out, nil
}

func (r *Repo) CreateSignature(ctx context.Context, s *ports.Signature) error {
    if s.ID == "" {
        s.ID = uuid.NewString()
    }
    if err := r.db.WithContext(ctx).Create(signatureToModel(s)).Error; err != nil {
        return ports.Infra("approvals: create signature", err)
    }
    return nil
}

func (r *Repo) Signatures(ctx context.Context, approvalID string) ([]*ports.Signature, error) {
    var rows []SignatureModel
    if err := r.db.WithContext(ctx).
        Where("approval_id = ?", approvalID).Order("created_at ASC").
        Find(&rows).Error; err != nil {
        return nil, ports.Infra("approvals: signatures", err)
    }
    out := make([]*ports.Signature, 0, len(rows))
    for i := range rows {
        out = append(out, signatureFromModel(&rows[i]))
    }
    return out, nil
}
