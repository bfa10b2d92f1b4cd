package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sejins/studyhub/internal/database"
	"github.com/sejins/studyhub/internal/mail"
	"github.com/sejins/studyhub/internal/models"
	"github.com/sejins/studyhub/internal/queue"
	"github.com/sejins/studyhub/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// captureSender records outgoing mail instead of delivering it.
type captureSender struct {
	messages []mail.Message
}

func (s *captureSender) Send(msg mail.Message) error {
	s.messages = append(s.messages, msg)
	return nil
}

type accountTestEnv struct {
	db      *gorm.DB
	service *AccountService
	sender  *captureSender
}

func setupAccountTestEnv(t *testing.T) accountTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Account{},
		&models.Tag{},
		&models.Zone{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	sender := &captureSender{}
	taskQueue := queue.NewSyncQueue(queue.Mux{
		queue.TaskMailDeliver: mail.DeliveryHandler(sender),
	})

	accountRepo := repository.NewAccountRepository(db)
	tagRepo := repository.NewTagRepository(db)
	zoneRepo := repository.NewZoneRepository(db)
	service := NewAccountService(accountRepo, tagRepo, zoneRepo, taskQueue, "http://localhost:8080")

	return accountTestEnv{
		db:      db,
		service: service,
		sender:  sender,
	}
}

func TestAccountService_Signup(t *testing.T) {
	env := setupAccountTestEnv(t)

	account, err := env.service.Signup(SignupInput{
		Email:    "Alice@Example.com",
		Nickname: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", account.Email)
	require.False(t, account.EmailVerified)
	require.NotEmpty(t, account.EmailCheckToken)
	require.NotEqual(t, "supersecret", account.PasswordHash)

	// The confirmation mail goes out with the token link.
	require.Len(t, env.sender.messages, 1)
	require.Equal(t, "alice@example.com", env.sender.messages[0].To)
	require.Contains(t, env.sender.messages[0].Body, account.EmailCheckToken)

	// Email and nickname stay unique.
	_, err = env.service.Signup(SignupInput{Email: "alice@example.com", Nickname: "alice2", Password: "supersecret"})
	require.ErrorIs(t, err, ErrEmailTaken)
	_, err = env.service.Signup(SignupInput{Email: "alice2@example.com", Nickname: "alice", Password: "supersecret"})
	require.ErrorIs(t, err, ErrNicknameTaken)

	// Short passwords are rejected.
	_, err = env.service.Signup(SignupInput{Email: "bob@example.com", Nickname: "bob", Password: "short"})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAccountService_VerifyEmail(t *testing.T) {
	env := setupAccountTestEnv(t)

	account, err := env.service.Signup(SignupInput{
		Email:    "alice@example.com",
		Nickname: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = env.service.VerifyEmail(account.Email, "wrong-token")
	require.ErrorIs(t, err, ErrInvalidEmailToken)

	_, err = env.service.VerifyEmail("nobody@example.com", account.EmailCheckToken)
	require.ErrorIs(t, err, ErrInvalidEmailToken)

	verified, err := env.service.VerifyEmail(account.Email, account.EmailCheckToken)
	require.NoError(t, err)
	require.True(t, verified.EmailVerified)
	require.NotNil(t, verified.JoinedAt)
}

func TestAccountService_ResendConfirmEmailCooldown(t *testing.T) {
	env := setupAccountTestEnv(t)

	account, err := env.service.Signup(SignupInput{
		Email:    "alice@example.com",
		Nickname: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	// The signup mail itself started the cooldown.
	require.ErrorIs(t, env.service.ResendConfirmEmail(account.ID), ErrResendCooldown)

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, env.db.Model(account).Update("email_check_token_generated_at", past).Error)

	require.NoError(t, env.service.ResendConfirmEmail(account.ID))
	require.Len(t, env.sender.messages, 2)
}

func TestAccountService_LoginLink(t *testing.T) {
	env := setupAccountTestEnv(t)

	account, err := env.service.Signup(SignupInput{
		Email:    "alice@example.com",
		Nickname: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	// Only verified accounts can request a login link.
	require.ErrorIs(t, env.service.SendLoginLink(account.Email), ErrEmailNotVerified)

	_, err = env.service.VerifyEmail(account.Email, account.EmailCheckToken)
	require.NoError(t, err)

	// The signup mail started the cooldown.
	require.ErrorIs(t, env.service.SendLoginLink(account.Email), ErrResendCooldown)

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, env.db.Model(account).Update("email_check_token_generated_at", past).Error)

	require.NoError(t, env.service.SendLoginLink("Alice@Example.com"))
	require.Len(t, env.sender.messages, 2)
	require.Contains(t, env.sender.messages[1].Body, "login-by-email")

	require.ErrorIs(t, env.service.SendLoginLink("nobody@example.com"), ErrAccountNotFound)

	var reloaded models.Account
	require.NoError(t, env.db.First(&reloaded, account.ID).Error)

	_, err = env.service.LoginByEmail(reloaded.Email, "wrong-token")
	require.ErrorIs(t, err, ErrInvalidEmailToken)

	loggedIn, err := env.service.LoginByEmail(reloaded.Email, reloaded.EmailCheckToken)
	require.NoError(t, err)
	require.Equal(t, account.ID, loggedIn.ID)
}

func TestAccountService_Login(t *testing.T) {
	env := setupAccountTestEnv(t)

	_, err := env.service.Signup(SignupInput{
		Email:    "alice@example.com",
		Nickname: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	// Either the email or the nickname works.
	byEmail, err := env.service.Login(LoginInput{EmailOrNickname: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)
	byNickname, err := env.service.Login(LoginInput{EmailOrNickname: "alice", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, byEmail.ID, byNickname.ID)

	_, err = env.service.Login(LoginInput{EmailOrNickname: "alice", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.service.Login(LoginInput{EmailOrNickname: "nobody", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountService_UpdateNickname(t *testing.T) {
	env := setupAccountTestEnv(t)

	alice, err := env.service.Signup(SignupInput{Email: "alice@example.com", Nickname: "alice", Password: "supersecret"})
	require.NoError(t, err)
	_, err = env.service.Signup(SignupInput{Email: "bob@example.com", Nickname: "bob", Password: "supersecret"})
	require.NoError(t, err)

	_, err = env.service.UpdateNickname(alice.ID, "bob")
	require.ErrorIs(t, err, ErrNicknameTaken)

	// Keeping one's own nickname is fine.
	updated, err := env.service.UpdateNickname(alice.ID, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", updated.Nickname)

	updated, err = env.service.UpdateNickname(alice.ID, "alice2")
	require.NoError(t, err)
	require.Equal(t, "alice2", updated.Nickname)
}

func TestAccountService_Interests(t *testing.T) {
	env := setupAccountTestEnv(t)

	account, err := env.service.Signup(SignupInput{Email: "alice@example.com", Nickname: "alice", Password: "supersecret"})
	require.NoError(t, err)

	zone := models.Zone{City: "Seoul", LocalName: "서울특별시", Province: ""}
	require.NoError(t, env.db.Create(&zone).Error)

	require.NoError(t, env.service.AddTag(account.ID, "golang"))
	require.NoError(t, env.service.AddZone(account.ID, zone.ID))

	withInterests, err := env.service.GetAccountWithInterests(account.ID)
	require.NoError(t, err)
	require.Len(t, withInterests.Tags, 1)
	require.Equal(t, "golang", withInterests.Tags[0].Title)
	require.Len(t, withInterests.Zones, 1)

	require.NoError(t, env.service.RemoveTag(account.ID, "golang"))
	require.NoError(t, env.service.RemoveZone(account.ID, zone.ID))

	require.ErrorIs(t, env.service.RemoveTag(account.ID, "missing"), ErrTagNotFound)
	require.ErrorIs(t, env.service.RemoveZone(account.ID, 999), ErrZoneNotFound)

	withInterests, err = env.service.GetAccountWithInterests(account.ID)
	require.NoError(t, err)
	require.Empty(t, withInterests.Tags)
	require.Empty(t, withInterests.Zones)
}
