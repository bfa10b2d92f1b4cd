package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStudy_PublishLifecycle(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	study := &Study{}
	require.True(t, study.CanPublish())
	require.NoError(t, study.Publish(now))
	require.True(t, study.Published)
	require.Equal(t, now, *study.PublishedAt)

	// Publishing twice is a no-go.
	require.ErrorIs(t, study.Publish(now), ErrInvalidStateTransition)

	require.NoError(t, study.Close(now))
	require.True(t, study.Closed)
	require.Equal(t, now, *study.ClosedAt)

	// Closed is terminal.
	require.ErrorIs(t, study.Close(now), ErrInvalidStateTransition)
	require.ErrorIs(t, study.Publish(now), ErrInvalidStateTransition)
	require.ErrorIs(t, study.StartRecruit(now), ErrInvalidStateTransition)
}

func TestStudy_CloseRequiresPublished(t *testing.T) {
	now := time.Now()

	study := &Study{}
	require.ErrorIs(t, study.Close(now), ErrInvalidStateTransition)
}

func TestStudy_RecruitRequiresPublished(t *testing.T) {
	now := time.Now()

	study := &Study{}
	require.ErrorIs(t, study.StartRecruit(now), ErrInvalidStateTransition)
	require.ErrorIs(t, study.StopRecruit(now), ErrInvalidStateTransition)
}

func TestStudy_RecruitingCooldown(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	study := &Study{}
	require.NoError(t, study.Publish(now))

	// First toggle is always allowed.
	require.NoError(t, study.StartRecruit(now))
	require.True(t, study.Recruiting)

	// A second toggle within the hour is rejected, state unchanged.
	later := now.Add(30 * time.Minute)
	err := study.StopRecruit(later)
	require.ErrorIs(t, err, ErrRecruitingCooldown)
	require.ErrorIs(t, err, ErrInvalidStateTransition)
	require.True(t, study.Recruiting)
	require.Equal(t, now, *study.RecruitingUpdatedAt)

	// Exactly one hour later is still inside the cooldown.
	require.ErrorIs(t, study.StopRecruit(now.Add(time.Hour)), ErrRecruitingCooldown)

	// Past the hour the toggle goes through and restamps the clock.
	after := now.Add(time.Hour + time.Minute)
	require.NoError(t, study.StopRecruit(after))
	require.False(t, study.Recruiting)
	require.Equal(t, after, *study.RecruitingUpdatedAt)
}

func TestStudy_StartRecruitWhileRecruiting(t *testing.T) {
	now := time.Now()

	study := &Study{}
	require.NoError(t, study.Publish(now))
	require.NoError(t, study.StartRecruit(now))

	require.ErrorIs(t, study.StartRecruit(now.Add(2*time.Hour)), ErrInvalidStateTransition)
}

func recruitingStudy(t *testing.T) *Study {
	t.Helper()

	now := time.Now()
	study := &Study{}
	require.NoError(t, study.Publish(now))
	require.NoError(t, study.StartRecruit(now))
	return study
}

func TestStudy_AddMember(t *testing.T) {
	study := recruitingStudy(t)
	manager := Account{ID: 1, Nickname: "manager"}
	member := Account{ID: 2, Nickname: "member"}
	study.AddManager(manager)

	require.NoError(t, study.AddMember(member))
	require.True(t, study.IsMember(member.ID))

	// Joining twice, or as a manager, is rejected.
	require.ErrorIs(t, study.AddMember(member), ErrNotJoinable)
	require.ErrorIs(t, study.AddMember(manager), ErrNotJoinable)
	require.Len(t, study.Members, 1)
}

func TestStudy_AddMemberNotRecruiting(t *testing.T) {
	now := time.Now()

	study := &Study{}
	require.NoError(t, study.Publish(now))

	require.ErrorIs(t, study.AddMember(Account{ID: 2}), ErrNotJoinable)

	// Draft studies are not joinable either.
	draft := &Study{}
	require.ErrorIs(t, draft.AddMember(Account{ID: 2}), ErrNotJoinable)
}

func TestStudy_RemoveMember(t *testing.T) {
	study := recruitingStudy(t)
	member := Account{ID: 2}
	require.NoError(t, study.AddMember(member))

	require.NoError(t, study.RemoveMember(member))
	require.False(t, study.IsMember(member.ID))

	// Leaving twice is rejected.
	require.ErrorIs(t, study.RemoveMember(member), ErrNotRemovable)
}

func TestStudy_RemoveMemberAfterClose(t *testing.T) {
	study := recruitingStudy(t)
	member := Account{ID: 2}
	require.NoError(t, study.AddMember(member))
	require.NoError(t, study.Close(time.Now()))

	require.ErrorIs(t, study.RemoveMember(member), ErrNotRemovable)
}

func TestStudy_IsJoinable(t *testing.T) {
	study := recruitingStudy(t)
	study.AddManager(Account{ID: 1})
	require.NoError(t, study.AddMember(Account{ID: 2}))

	require.True(t, study.IsJoinable(3))
	require.False(t, study.IsJoinable(1))
	require.False(t, study.IsJoinable(2))

	require.NoError(t, study.Close(time.Now()))
	require.False(t, study.IsJoinable(3))
}

func TestStudy_IsRemovable(t *testing.T) {
	study := &Study{}
	require.True(t, study.IsRemovable())

	require.NoError(t, study.Publish(time.Now()))
	require.False(t, study.IsRemovable())
}
