// internal/model/social_account.go
package model

import "time"

// SocialAccount is a connected platform credential for one user.
type SocialAccount struct {
    ID             int        `db:"id" json:"id"`
    UserID         int        `db:"user_id" json:"user_id"`
    Platform       string     `db:"platform" json:"platform"`
    AccessToken    string     `db:"access_token" json:"-"`
    RefreshToken   string     `db:"refresh_token" json:"-"`
    TokenExpiresAt *time.Time `db:"token_expires_at" json:"token_expires_at,omitempty"`
    Active         bool       `db:"active" json:"active"`
    CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

func (a *SocialAccount) TokenExpired(now time.Time) bool {
    return a.TokenExpiresAt != nil && a.TokenExpiresAt.Before(now)
}
