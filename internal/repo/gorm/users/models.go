package usersgorm

import (
    "time"

    "github.com/signoffhq/signoff/internal/ports"
)

// UserAccount is the directory record backing routing and scoping.
type UserAccount struct {
    ID           string `gorm:"primaryKey;type:varchar(64)"`
    Username     string `gorm:"type:varchar(64);uniqueIndex;not null"`
    PasswordHash string `gorm:"type:varchar(128)"`
    DisplayName  string `gorm:"type:varchar(120)"`
    Email        string `gorm:"type:varchar(200);index"`
    Role         string `gorm:"type:varchar(20);not null;index"`
    RoleRank     int    `gorm:"not null;index"`
    OrgID        string `gorm:"type:varchar(64);not null;index"`
    BranchID     string `gorm:"type:varchar(64);index"`
    Active       bool   `gorm:"not null;default:true"`
    CreatedAt    time.Time
    UpdatedAt    time.Time
}

func (UserAccount) TableName() string { return "users" }

func toUser(m *UserAccount) *ports.User {
    return &ports.User{
        ID:          m.ID,
        Username:    m.Username,
        DisplayName: m.DisplayName,
        Email:       m.Email,
        Role:        ports.Role(m.Role),
        OrgID:       m.OrgID,
        BranchID:    m.BranchID,
        Active:      m.Active,
    }
}
