package usersgorm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/signoffhq/signoff/internal/ports"
)

type Repo struct{ db *gorm.DB }

func New(db *gorm.DB) *Repo { return &Repo{db: db} }

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(&UserAccount{}) }

func (r *Repo) CreateUser(ctx context.Context, u *ports.User, password string) error {
	m := &UserAccount{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        string(u.Role),
		RoleRank:    u.Role.Rank(),
		OrgID:       u.OrgID,
		BranchID:    u.BranchID,
		Active:      u.Active,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
		u.ID = m.ID
	}
	if strings.TrimSpace(password) != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		m.PasswordHash = string(h)
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return ports.Infra("users: create", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*ports.User, error) {
	var m UserAccount
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.NotFound("user", id)
		}
		return nil, ports.Infra("users: get", err)
	}
	return toUser(&m), nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*ports.User, error) {
	var m UserAccount
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.NotFound("user", username)
		}
		return nil, ports.Infra("users: get by username", err)
	}
	return toUser(&m), nil
}

// Verify checks credentials and returns the user when they match and the
// account is active.
func (r *Repo) Verify(ctx context.Context, username, plain string) (*ports.User, error) {
	var m UserAccount
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		return nil, ports.Permissionf("invalid credentials")
	}
	if m.PasswordHash == "" {
		return nil, ports.Permissionf("password not set")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(plain)); err != nil {
		return nil, ports.Permissionf("invalid credentials")
	}
	if !m.Active {
		return nil, ports.Permissionf("account disabled")
	}
	return toUser(&m), nil
}

func (r *Repo) ListByMinRole(ctx context.Context, orgID string, min ports.Role) ([]*ports.User, error) {
	return r.list(ctx, orgID, "", min)
}

func (r *Repo) ListBranchByMinRole(ctx context.Context, orgID, branchID string, min ports.Role) ([]*ports.User, error) {
	return r.list(ctx, orgID, branchID, min)
}

func (r *Repo) list(ctx context.Context, orgID, branchID string, min ports.Role) ([]*ports.User, error) {
	tx := r.db.WithContext(ctx).
		Where("org_id = ? AND active = ? AND role_rank >= ?", orgID, true, min.Rank())
	if branchID != "" {
		tx = tx.Where("branch_id = ?", branchID)
	}
	var rows []UserAccount
	if err := tx.Order("role_rank DESC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, ports.Infra("users: list by role", err)
	}
	out := make([]*ports.User, 0, len(rows))
	for i := range rows {
		out = append(out, toUser(&rows[i]))
	}
	return out, nil
}
