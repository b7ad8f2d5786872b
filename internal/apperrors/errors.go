// internal/apperrors/errors.go
package apperrors

import "fmt"

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
    CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
    return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int) error {
    return &ErrCampaignNotFound{CampaignID: id}
}

// ErrNoActiveAccount means the user has no usable credential for the platform.
type ErrNoActiveAccount struct {
    UserID   int
    Platform string
}

func (e *ErrNoActiveAccount) Error() string {
    return fmt.Sprintf("no active account for %s", e.Platform)
}

func NewNoActiveAccount(userID int, platform string) error {
    return &ErrNoActiveAccount{UserID: userID, Platform: platform}
}

// ErrTokenExpired means the credential exists but its token is past expiry.
// Refreshing is the account directory's job, not the publish path's.
type ErrTokenExpired struct {
    Platform string
}

func (e *ErrTokenExpired) Error() string {
    return fmt.Sprintf("access token expired for %s", e.Platform)
}

func NewTokenExpired(platform string) error {
    return &ErrTokenExpired{Platform: platform}
}
