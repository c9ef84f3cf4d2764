package services

import (
	"context"
	"testing"

	"github.com/blink-dev/blink/internal/apperr"
	"github.com/blink-dev/blink/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesDefaultWorkspace(t *testing.T) {
	database := newTestDB(t)
	service, _ := newTestAuthService(t, database)
	ctx := context.Background()

	user, err := service.Register(ctx, "Alice", "A@X.com", "secret12")
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", user.Email, "email is normalized")
	assert.NotEqual(t, "secret12", user.PasswordHash)

	var member models.WorkspaceMember
	require.NoError(t, database.Where("user_id = ?", user.ID).First(&member).Error)
	assert.Equal(t, models.RoleAdministrator, member.Role)

	var workspace models.Workspace
	require.NoError(t, database.First(&workspace, member.WorkspaceID).Error)
	assert.Equal(t, "Alice's workspace", workspace.Name)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	database := newTestDB(t)
	service, _ := newTestAuthService(t, database)
	ctx := context.Background()

	_, err := service.Register(ctx, "Alice", "a@x.com", "secret12")
	require.NoError(t, err)

	_, err = service.Register(ctx, "Mallory", "a@x.com", "different8")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.From(err).Code)
}

func TestLoginMintsDecodableTokens(t *testing.T) {
	database := newTestDB(t)
	service, codec := newTestAuthService(t, database)
	ctx := context.Background()

	user, err := service.Register(ctx, "Alice", "a@x.com", "secret12")
	require.NoError(t, err)

	pair, err := service.Login(ctx, "a@x.com", "secret12")
	require.NoError(t, err)

	access, err := codec.Decode(pair.AccessToken)
	require.NoError(t, err)
	refresh, err := codec.Decode(pair.RefreshToken)
	require.NoError(t, err)

	assert.Equal(t, user.ID, access.UserID)
	assert.Equal(t, user.ID, refresh.UserID)
	assert.Equal(t, access.SessionID, refresh.SessionID)

	var session models.Session
	require.NoError(t, database.Where("id = ?", access.SessionID).First(&session).Error)
	assert.Equal(t, user.ID, session.UserID)
}

func TestConcurrentLoginsGetDistinctSessions(t *testing.T) {
	database := newTestDB(t)
	service, codec := newTestAuthService(t, database)
	ctx := context.Background()

	_, err := service.Register(ctx, "Alice", "a@x.com", "secret12")
	require.NoError(t, err)

	first, err := service.Login(ctx, "a@x.com", "secret12")
	require.NoError(t, err)
	second, err := service.Login(ctx, "a@x.com", "secret12")
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	firstClaims, err := codec.Decode(first.AccessToken)
	require.NoError(t, err)
	secondClaims, err := codec.Decode(second.AccessToken)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.SessionID, secondClaims.SessionID)

	// Both sessions stay independently valid for refresh.
	_, err = service.Refresh(ctx, first.RefreshToken)
	assert.NoError(t, err)
	_, err = service.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	database := newTestDB(t)
	service, _ := newTestAuthService(t, database)
	ctx := context.Background()

	_, err := service.Register(ctx, "Alice", "a@x.com", "secret12")
	require.NoError(t, err)

	_, unknownEmail := service.Login(ctx, "nobody@x.com", "secret12")
	_, wrongPassword := service.Login(ctx, "a@x.com", "wrong-password")

	require.Error(t, unknownEmail)
	require.Error(t, wrongPassword)

	assert.Equal(t, apperr.CodeInvalidCredentials, apperr.From(unknownEmail).Code)
	assert.Equal(t, apperr.CodeInvalidCredentials, apperr.From(wrongPassword).Code)
	assert.Equal(t, apperr.From(unknownEmail).Message, apperr.From(wrongPassword).Message)
}

func TestRefreshAfterLogout(t *testing.T) {
	database := newTestDB(t)
	service, codec := newTestAuthService(t, database)
	ctx := context.Background()

	_, err := service.Register(ctx, "Alice", "a@x.com", "secret12")
	require.NoError(t, err)

	pair, err := service.Login(ctx, "a@x.com", "secret12")
	require.NoError(t, err)

	newAccess, err := service.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, newAccess)

	claims, err := codec.Decode(pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, claims.SessionID))
	require.NoError(t, service.Logout(ctx, claims.SessionID), "logout is idempotent")

	_, err = service.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidCredentials, apperr.From(err).Code)

	// The already issued access token still decodes: revocation only cuts
	// off refresh, not live bearer tokens.
	_, err = codec.Decode(pair.AccessToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	database := newTestDB(t)
	service, _ := newTestAuthService(t, database)

	_, err := service.Refresh(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidCredentials, apperr.From(err).Code)
}

func TestRegisterAgainAfterAccountDeletion(t *testing.T) {
	database := newTestDB(t)
	service, _ := newTestAuthService(t, database)
	ctx := context.Background()

	user, err := service.Register(ctx, "Alice", "a@x.com", "secret12")
	require.NoError(t, err)

	require.NoError(t, service.DeleteUser(ctx, user.ID, "secret12"))

	// Account deletion frees the email for a fresh registration.
	again, err := service.Register(ctx, "Alice", "a@x.com", "secret12")
	require.NoError(t, err)
	assert.NotEqual(t, user.ID, again.ID)
}

func TestDeleteUserKeepsBlinksWithoutCreator(t *testing.T) {
	database := newTestDB(t)
	service, _ := newTestAuthService(t, database)
	ctx := context.Background()

	user, err := service.Register(ctx, "Alice", "a@x.com", "secret12")
	require.NoError(t, err)

	var member models.WorkspaceMember
	require.NoError(t, database.Where("user_id = ?", user.ID).First(&member).Error)

	blink := models.Blink{
		WorkspaceID:  member.WorkspaceID,
		CreatorID:    &user.ID,
		Name:         "x",
		TargetURL:    "https://e.com",
		RedirectCode: "abcd1234",
	}
	require.NoError(t, database.Create(&blink).Error)

	_, err = service.Login(ctx, "a@x.com", "secret12")
	require.NoError(t, err)

	err = service.DeleteUser(ctx, user.ID, "wrong-password")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidCredentials, apperr.From(err).Code)

	require.NoError(t, service.DeleteUser(ctx, user.ID, "secret12"))

	var reloaded models.Blink
	require.NoError(t, database.First(&reloaded, blink.ID).Error)
	assert.Nil(t, reloaded.CreatorID, "blink survives with null creator")

	var sessionCount int64
	require.NoError(t, database.Model(&models.Session{}).Where("user_id = ?", user.ID).Count(&sessionCount).Error)
	assert.Zero(t, sessionCount)

	var memberCount int64
	require.NoError(t, database.Model(&models.WorkspaceMember{}).Where("user_id = ?", user.ID).Count(&memberCount).Error)
	assert.Zero(t, memberCount)
}
