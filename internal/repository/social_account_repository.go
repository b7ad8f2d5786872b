// internal/repository/social_account_repository.go
package repository

import (
    "database/sql"

    "github.com/postpilot/postpilot-backend/internal/model"
)

// SocialAccountRepositoryInterface defines methods used by the publish path
type SocialAccountRepositoryInterface interface {
    GetActive(userID int, platform string) (*model.SocialAccount, error)
    ListByUser(userID int) ([]model.SocialAccount, error)
}

type SocialAccountRepository struct {
    DB *sql.DB
}

// GetActive fetches the usable credential for (user, platform); nil when absent.
func (r *SocialAccountRepository) GetActive(userID int, platform string) (*model.SocialAccount, error) {
    query := `
        SELECT id, user_id, platform, access_token, refresh_token, token_expires_at, active, created_at
        FROM social_accounts
        WHERE user_id = $1 AND platform = $2 AND active = TRUE
        ORDER BY id DESC
        LIMIT 1
    `
    row := r.DB.QueryRow(query, userID, platform)

    var a model.SocialAccount
    if err := row.Scan(&a.ID, &a.UserID, &a.Platform, &a.AccessToken, &a.RefreshToken, &a.TokenExpiresAt, &a.Active, &a.CreatedAt); err != nil {
        if err == sql.ErrNoRows {
            return nil, nil // not found
        }
        return nil, err
    }
    return &a, nil
}

func (r *SocialAccountRepository) ListByUser(userID int) ([]model.SocialAccount, error) {
    query := `
        SELECT id, user_id, platform, access_token, refresh_token, token_expires_at, active, created_at
        FROM social_accounts
        WHERE user_id = $1
    `
    rows, err := r.DB.Query(query, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    accounts := []model.SocialAccount{}
    for rows.Next() {
        var a model.SocialAccount
        if err := rows.Scan(&a.ID, &a.UserID, &a.Platform, &a.AccessToken, &a.RefreshToken, &a.TokenExpiresAt, &a.Active, &a.CreatedAt); err != nil {
            return nil, err
        }
        accounts = append(accounts, a)
    }
    return accounts, nil
}

var _ SocialAccountRepositoryInterface = (*SocialAccountRepository)(nil)
