package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/mechanico/internal/entity"
	"github.com/MrJamesThe3rd/mechanico/internal/seed"
	"github.com/MrJamesThe3rd/mechanico/internal/session"
	"github.com/MrJamesThe3rd/mechanico/internal/storage"
	"github.com/MrJamesThe3rd/mechanico/internal/storage/memory"
)

const key = "mechanico_current_user"

func TestStore_Login(t *testing.T) {
	type testCase struct {
		name        string
		email       string
		password    string
		wantReason  session.Reason
		wantRole    entity.Role
		wantSession bool
	}

	tests := []testCase{
		{
			name:        "Admin",
			email:       seed.AdminEmail,
			password:    seed.AdminPassword,
			wantRole:    entity.RoleAdmin,
			wantSession: true,
		},
		{
			name:        "ApprovedProvider",
			email:       seed.ProviderEmail,
			password:    seed.ProviderPassword,
			wantRole:    entity.RoleProvider,
			wantSession: true,
		},
		{
			name:       "WrongPassword",
			email:      seed.AdminEmail,
			password:   "admin124",
			wantReason: session.ReasonBadCredentials,
		},
		{
			name:       "UnknownEmail",
			email:      "nobody@mechanico.ir",
			password:   "x",
			wantReason: session.ReasonBadCredentials,
		},
		{
			name:       "EmailIsCaseSensitive",
			email:      "ADMIN@mechanico.ir",
			password:   seed.AdminPassword,
			wantReason: session.ReasonBadCredentials,
		},
		{
			name:       "PendingProvider",
			email:      seed.PendingProviderEmail,
			password:   seed.PendingProviderPasswd,
			wantReason: session.ReasonPendingApproval,
			wantRole:   entity.RoleProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			users := session.NewMockUserSource(ctrl)
			users.EXPECT().Get().Return(seed.Users(time.Now()), nil).AnyTimes()

			st := memory.NewMedium(0).Open()
			s := session.New(st, key, users, zerolog.Nop())

			res, err := s.Login(tt.email, tt.password)
			require.NoError(t, err)

			assert.Equal(t, tt.wantReason, res.Reason)
			assert.Equal(t, tt.wantReason == session.ReasonNone, res.OK())
			assert.Equal(t, tt.wantRole, res.User.Role)

			if !res.OK() {
				assert.NotEmpty(t, res.Message)
			}

			_, ok, err := st.Get(key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSession, ok)

			cur, ok, err := s.Current()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSession, ok)

			if tt.wantSession {
				assert.Equal(t, tt.email, cur.Email)
			}
		})
	}
}

func TestStore_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := session.NewMockUserSource(ctrl)
	users.EXPECT().Get().Return(seed.Users(time.Now()), nil).AnyTimes()

	s := session.New(memory.NewMedium(0).Open(), key, users, zerolog.Nop())

	res, err := s.Login(seed.CustomerEmail, seed.CustomerPassword)
	require.NoError(t, err)
	require.True(t, res.OK())

	require.NoError(t, s.Logout())
	require.NoError(t, s.Logout())

	_, ok, err := s.Current()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CurrentClearsStaleSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := session.NewMockUserSource(ctrl)
	users.EXPECT().Get().Return([]entity.User{{ID: "1"}}, nil)

	st := memory.NewMedium(0).Open()
	require.NoError(t, st.Set(key, `{"id":"99","email":"gone@mechanico.ir"}`))

	s := session.New(st, key, users, zerolog.Nop())

	_, ok, err := s.Current()
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = st.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CurrentReturnsFreshRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := session.NewMockUserSource(ctrl)
	users.EXPECT().Get().Return([]entity.User{{ID: "3", FullName: "renamed"}}, nil)

	st := memory.NewMedium(0).Open()
	require.NoError(t, st.Set(key, `{"id":"3","fullName":"old"}`))

	cur, ok, err := session.New(st, key, users, zerolog.Nop()).Current()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "renamed", cur.FullName)
}

func TestStore_CurrentUnreadable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := memory.NewMedium(0).Open()
	require.NoError(t, st.Set(key, "not json"))

	_, ok, err := session.New(st, key, session.NewMockUserSource(ctrl), zerolog.Nop()).Current()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Errors(t *testing.T) {
	t.Run("UserSource", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		users := session.NewMockUserSource(ctrl)
		users.EXPECT().Get().Return(nil, errors.New("corrupt"))

		_, err := session.New(memory.NewMedium(0).Open(), key, users, zerolog.Nop()).Login("a", "b")
		assert.Error(t, err)
	})

	t.Run("WriteFailure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		users := session.NewMockUserSource(ctrl)
		users.EXPECT().Get().Return(seed.Users(time.Now()), nil)

		st := storage.NewMockStore(ctrl)
		st.EXPECT().Set(key, gomock.Any()).Return(storage.ErrQuotaExceeded)

		_, err := session.New(st, key, users, zerolog.Nop()).Login(seed.AdminEmail, seed.AdminPassword)
		require.ErrorIs(t, err, storage.ErrQuotaExceeded)
	})
}
