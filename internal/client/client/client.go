package client

import (
	"context"

	"github.com/dmitrijs2005/patinapro/internal/client/models"
)

// Client is the transport-agnostic contract of the PatinaPRO backend.
type Client interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error)
	CreateUser(ctx context.Context, user models.NewUser) (*models.CreatedUser, error)
	GetUser(ctx context.Context, username string) (*models.UserProfile, error)
	UpdateUser(ctx context.Context, username string, update models.ProfileUpdate) (*models.MessageResult, error)
	DeleteUser(ctx context.Context, username string) (*models.MessageResult, error)
	ListUsers(ctx context.Context) ([]models.UserProfile, error)
}
