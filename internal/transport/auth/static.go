package auth

import (
	"context"
	"errors"

	"budgetwize-api/internal/domain"
)

// StaticTokenFinder maps plain tokens to user IDs without a database.
// Used in demo mode.
type StaticTokenFinder map[string]string

func (f StaticTokenFinder) FindTokenByPlainToken(ctx context.Context, plainToken string) (*domain.PersonalAccessToken, error) {
	userID, ok := f[plainToken]
	if !ok {
		return nil, errors.New("token not found")
	}
	return &domain.PersonalAccessToken{UserID: userID}, nil
}
