// Package seed loads bootstrap accounts from a JSON file into the
// directory on first start, so a fresh deployment has an owner to log
// in with. Existing usernames are left untouched.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/signoffhq/signoff/internal/ports"
	usersgorm "github.com/signoffhq/signoff/internal/repo/gorm/users"
)

type entry struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	OrgID    string `json:"org_id"`
	BranchID string `json:"branch_id,omitempty"`
}

// Apply creates every listed account that does not exist yet.
func Apply(ctx context.Context, repo *usersgorm.Repo, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var entries []entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	for _, e := range entries {
		if e.Username == "" || e.Password == "" {
			return fmt.Errorf("seed entry missing username or password")
		}
		if _, err := repo.GetByUsername(ctx, e.Username); err == nil {
			continue
		}
		u := &ports.User{
			ID:          e.ID,
			Username:    e.Username,
			DisplayName: e.Name,
			Email:       e.Email,
			Role:        ports.Role(e.Role),
			OrgID:       e.OrgID,
			BranchID:    e.BranchID,
			Active:      true,
		}
		if u.Role.Rank() == 0 {
			return fmt.Errorf("seed entry %s: unknown role %q", e.Username, e.Role)
		}
		if err := repo.CreateUser(ctx, u, e.Password); err != nil {
			return fmt.Errorf("seed user %s: %w", e.Username, err)
		}
		slog.Info("seeded user", "username", e.Username, "role", e.Role, "org", e.OrgID)
	}
	return nil
}
